package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// ManaCost is the parsed form of a mana cost string: the concatenation of
// `{…}` symbols, each a generic integer, a single color pip, or a hybrid
// of two color/generic options.
type ManaCost struct {
	Generic int
	Colors  map[Color]int
	Hybrids [][]string // each entry is an ordered list of acceptable options: a Color letter or a small integer string
}

var manaSymbolRe = regexp.MustCompile(`\{([^{}]+)\}`)

// ParseManaCost parses a cost string such as "{2}{R}{R}" or "{2/U}{B}".
// Re-serializing the result with String and re-parsing it must yield an
// identical ManaCost (the CostRoundTrip testable property).
func ParseManaCost(s string) (ManaCost, error) {
	cost := ManaCost{Colors: make(map[Color]int)}

	matches := manaSymbolRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 && s != "" {
		return ManaCost{}, errInvalidManaCostString(s)
	}

	for _, m := range matches {
		sym := m[1]
		switch {
		case isColorLetter(sym):
			cost.Colors[Color(strings.ToUpper(sym))]++
		case strings.Contains(sym, "/"):
			parts := strings.Split(sym, "/")
			if len(parts) != 2 {
				return ManaCost{}, errInvalidManaCostString(s)
			}
			cost.Hybrids = append(cost.Hybrids, []string{normalizeHybridOption(parts[0]), normalizeHybridOption(parts[1])})
		default:
			n, err := strconv.Atoi(sym)
			if err != nil {
				return ManaCost{}, errInvalidManaCostString(s)
			}
			cost.Generic += n
		}
	}
	return cost, nil
}

func normalizeHybridOption(opt string) string {
	opt = strings.TrimSpace(opt)
	if isColorLetter(opt) {
		return strings.ToUpper(opt)
	}
	return opt
}

func isColorLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	switch strings.ToUpper(s) {
	case "W", "U", "B", "R", "G", "C":
		return true
	}
	return false
}

// String renders the cost back into canonical `{…}` form: colors in
// CanonicalColors order (repeated per count), then hybrids in parse
// order, then a single generic symbol if non-zero.
func (c ManaCost) String() string {
	var b strings.Builder
	for _, color := range CanonicalColors {
		for i := 0; i < c.Colors[color]; i++ {
			b.WriteString("{")
			b.WriteString(string(color))
			b.WriteString("}")
		}
	}
	for _, h := range c.Hybrids {
		b.WriteString("{")
		b.WriteString(h[0])
		b.WriteString("/")
		b.WriteString(h[1])
		b.WriteString("}")
	}
	if c.Generic > 0 {
		b.WriteString("{")
		b.WriteString(strconv.Itoa(c.Generic))
		b.WriteString("}")
	}
	return b.String()
}

// landProducedColors maps a basic land subtype to the color it taps for,
// used when a card's metadata does not carry an explicit ProducedMana
// list (§4.5 getAvailableManaColors).
var landProducedColors = map[string]Color{
	"Plains":   ColorWhite,
	"Island":   ColorBlue,
	"Swamp":    ColorBlack,
	"Mountain": ColorRed,
	"Forest":   ColorGreen,
	"Wastes":   ColorColorless,
}

var oracleManaSymbolRe = regexp.MustCompile(`\{(W|U|B|R|G|C)\}`)

// AvailableManaColors implements §4.5's getAvailableManaColors: explicit
// metadata first, then basic land subtype, then an oracle-text scan.
func AvailableManaColors(c *Card) []Color {
	if len(c.ProducedMana) > 0 {
		return c.ProducedMana
	}
	for _, sub := range c.Subtypes {
		if color, ok := landProducedColors[sub]; ok {
			return []Color{color}
		}
	}
	if strings.Contains(strings.ToLower(c.OracleText), "any color") {
		return append([]Color(nil), CanonicalColors[:5]...)
	}
	seen := make(map[Color]bool)
	var out []Color
	for _, m := range oracleManaSymbolRe.FindAllStringSubmatch(c.OracleText, -1) {
		color := Color(m[1])
		if !seen[color] {
			seen[color] = true
			out = append(out, color)
		}
	}
	return out
}

// manaSource is one untapped, mana-producing permanent available to pay a
// cost, along with the colors it can tap for.
type manaSource struct {
	card   *Card
	colors []Color
}

// PayManaCost runs the deterministic greedy auto-pay algorithm of §4.5
// against player's mana pool and controlled untapped lands, committing the
// result (pool debit plus land taps) only on success.
func PayManaCost(gs *GameState, playerID string, cost ManaCost) error {
	player, ok := gs.Players[playerID]
	if !ok {
		return errCardNotFound(playerID)
	}

	pool := make(map[Color]int, len(player.ManaPool))
	for k, v := range player.ManaPool {
		pool[k] = v
	}

	var sources []*manaSource
	for _, c := range gs.Cards {
		if c.Zone == ZoneBattlefield && c.ControllerID == playerID && !c.Tapped && len(AvailableManaColors(c)) > 0 {
			sources = append(sources, &manaSource{card: c, colors: AvailableManaColors(c)})
		}
	}
	tapped := make(map[string]bool)

	drawPool := func(color Color, need int) int {
		avail := pool[color]
		if avail > need {
			avail = need
		}
		pool[color] -= avail
		return avail
	}

	drawLand := func(color Color, need int) int {
		got := 0
		for _, src := range sources {
			if got >= need {
				break
			}
			if tapped[src.card.InstanceID] {
				continue
			}
			if containsColor(src.colors, color) {
				tapped[src.card.InstanceID] = true
				got++
			}
		}
		return got
	}

	// Step 2: colored requirements in canonical order.
	for _, color := range CanonicalColors {
		need := cost.Colors[color]
		if need == 0 {
			continue
		}
		got := drawPool(color, need)
		need -= got
		if need > 0 {
			got = drawLand(color, need)
			need -= got
		}
		if need > 0 {
			return errInsufficientMana(color)
		}
	}

	// Step 3: hybrids, each tried in listed-option order.
	for _, h := range cost.Hybrids {
		paid := false
		for _, opt := range h {
			if isColorLetter(opt) {
				color := Color(opt)
				if drawPool(color, 1) == 1 {
					paid = true
					break
				}
				if drawLand(color, 1) == 1 {
					paid = true
					break
				}
			} else {
				n, _ := strconv.Atoi(opt)
				if payGenericFromPoolAndLands(pool, sources, tapped, n) {
					paid = true
					break
				}
			}
		}
		if !paid {
			return errInsufficientMana(Color(h[0]))
		}
	}

	// Step 4: generic, pool first then any remaining untapped land.
	if !payGenericFromPoolAndLands(pool, sources, tapped, cost.Generic) {
		return errInsufficientMana(ColorColorless)
	}

	// Step 5: commit.
	player.ManaPool = pool
	for id, wasTapped := range tapped {
		if wasTapped {
			gs.Cards[id].Tapped = true
		}
	}
	return nil
}

func payGenericFromPoolAndLands(pool map[Color]int, sources []*manaSource, tapped map[string]bool, need int) bool {
	for color := range pool {
		for need > 0 && pool[color] > 0 {
			pool[color]--
			need--
		}
	}
	for _, src := range sources {
		if need <= 0 {
			break
		}
		if tapped[src.card.InstanceID] {
			continue
		}
		tapped[src.card.InstanceID] = true
		need--
	}
	return need <= 0
}

func containsColor(colors []Color, c Color) bool {
	for _, x := range colors {
		if x == c {
			return true
		}
	}
	return false
}
