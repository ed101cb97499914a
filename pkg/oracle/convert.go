package oracle

import (
	"strconv"

	"github.com/dnviti/mtg-online-web-sub002/pkg/engine"
	"github.com/dnviti/mtg-online-web-sub002/pkg/room"
)

// ToCardDef converts one oracle Card record into the static decklist entry
// start_game's deck submission carries, resolving a double-faced card's
// front face for the fields Scryfall splits across card_faces.
func ToCardDef(c Card) room.CardDef {
	name, manaCost, typeLine, oracleText, power, toughness, imageURL := c.Name, c.ManaCost, c.TypeLine, c.OracleText, c.Power, c.Toughness, ""
	if img, ok := c.ImageURIs["normal"]; ok {
		imageURL = img
	}
	if len(c.CardFaces) > 0 {
		face := c.CardFaces[0]
		if manaCost == "" {
			manaCost = face.ManaCost
		}
		if oracleText == "" {
			oracleText = face.OracleText
		}
		if power == "" {
			power = face.Power
		}
		if toughness == "" {
			toughness = face.Toughness
		}
		if imageURL == "" {
			if img, ok := face.ImageURIs["normal"]; ok {
				imageURL = img
			}
		}
	}

	return room.CardDef{
		Name:         name,
		OracleID:     c.OracleID,
		ScryfallID:   c.ID,
		SetCode:      c.SetCode,
		ManaCost:     manaCost,
		Colors:       toColors(c.Colors),
		Types:        splitTypeLine(typeLine),
		ProducedMana: toColors(c.ProducedMana),
		Power:        atoiOrZero(power),
		Toughness:    atoiOrZero(toughness),
		Loyalty:      atoiOrZero(c.Loyalty),
		Keywords:     c.Keywords,
		TypeLine:     typeLine,
		OracleText:   oracleText,
		ImageURL:     imageURL,
	}
}

func toColors(in []string) []engine.Color {
	out := make([]engine.Color, len(in))
	for i, s := range in {
		out[i] = engine.Color(s)
	}
	return out
}

// splitTypeLine extracts the super+card types preceding a "—" separator,
// e.g. "Legendary Creature — Human Wizard" -> ["Legendary","Creature"].
func splitTypeLine(typeLine string) []string {
	var out []string
	var word []rune
	for _, r := range typeLine {
		if r == '—' {
			break
		}
		if r == ' ' {
			if len(word) > 0 {
				out = append(out, string(word))
				word = word[:0]
			}
			continue
		}
		word = append(word, r)
	}
	if len(word) > 0 {
		out = append(out, string(word))
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
