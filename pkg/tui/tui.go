// Package tui implements a read-only spectator client over the realtime
// action channel: a Bubble Tea model that renders whatever GameState the
// server last broadcast for one room, in the style of this stack's
// terminal client (menu-driven screens, a persistent log pane, explicit
// keybindings rather than raw input parsing).
package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/websocket"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).MarginLeft(1)
	playerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("140")).MarginLeft(1)
	priorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	logStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginLeft(1)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).MarginLeft(1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

const maxLogLines = 12

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type frameMsg envelope
type connErrMsg error

// Model is the spectator Bubble Tea model.
type Model struct {
	conn   *websocket.Conn
	roomID string

	game *engine.GameState
	logs []string
	err  error
}

// New dials addr (a ws:// URL; the server-side HTTP handler reads no query
// params from it) and returns a Model ready for tea.NewProgram.
func New(addr, roomID string) (Model, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return Model{}, fmt.Errorf("tui: dial %s: %w", addr, err)
	}
	return Model{conn: conn, roomID: roomID}, nil
}

func (m Model) Init() tea.Cmd {
	return m.readFrame
}

func (m Model) readFrame() tea.Msg {
	_, data, err := m.conn.ReadMessage()
	if err != nil {
		return connErrMsg(err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return connErrMsg(fmt.Errorf("tui: decode frame: %w; raw: %s", err, spew.Sdump(data)))
	}
	return frameMsg(env)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.conn.Close()
			return m, tea.Quit
		}
	case connErrMsg:
		m.err = msg
		return m, tea.Quit
	case frameMsg:
		m.applyFrame(envelope(msg))
		return m, m.readFrame
	}
	return m, nil
}

func (m *Model) applyFrame(env envelope) {
	switch env.Event {
	case "game_update":
		var body struct {
			Game *engine.GameState `json:"game"`
		}
		if json.Unmarshal(env.Payload, &body) == nil && body.Game != nil {
			m.game = body.Game
		}
	case "game_log":
		var body struct {
			Logs []engine.LogEntry `json:"logs"`
		}
		if json.Unmarshal(env.Payload, &body) == nil {
			for _, l := range body.Logs {
				m.logs = append(m.logs, l.Message)
			}
			if len(m.logs) > maxLogLines {
				m.logs = m.logs[len(m.logs)-maxLogLines:]
			}
		}
	case "game_error":
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Payload, &body) == nil {
			m.logs = append(m.logs, "error: "+body.Message)
		}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("room %s", m.roomID)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		return b.String()
	}

	if m.game == nil {
		b.WriteString(playerStyle.Render("waiting for game_update..."))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("q: quit"))
		return b.String()
	}

	b.WriteString(playerStyle.Render(fmt.Sprintf("turn %d  phase %s/%s", m.game.TurnCount, m.game.Phase, m.game.Step)))
	b.WriteString("\n")
	for _, pid := range m.game.TurnOrder {
		p := m.game.Players[pid]
		if p == nil {
			continue
		}
		line := fmt.Sprintf("%-16s life %d", p.Name, p.Life)
		if pid == m.game.PriorityPlayerID {
			b.WriteString(priorityStyle.Render(line + " (priority)"))
		} else {
			b.WriteString(playerStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, line := range m.logs {
		b.WriteString(logStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}
