// Command mtgtui is a read-only spectator terminal client: it connects to
// a running mtgsrv room over the realtime websocket channel and renders
// the latest GameState broadcast for it.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dnviti/mtg-online-web-sub002/pkg/tui"
)

func main() {
	var addr, roomID string
	flag.StringVar(&addr, "addr", "ws://127.0.0.1:8080/ws", "mtgsrv websocket address")
	flag.StringVar(&roomID, "room", "", "room id to spectate")
	flag.Parse()

	if roomID == "" {
		fmt.Fprintln(os.Stderr, "mtgtui: -room is required")
		os.Exit(1)
	}

	model, err := tui.New(addr, roomID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
