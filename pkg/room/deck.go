package room

import "github.com/dnviti/mtg-online-web-sub002/pkg/engine"

// CardDef is one deck-list entry as the client sends it in start_game's
// decks payload: the static oracle-sourced fields needed to instantiate a
// Card, without any of the mutable battlefield state.
type CardDef struct {
	Name         string        `json:"name"`
	OracleID     string        `json:"oracleId,omitempty"`
	ScryfallID   string        `json:"scryfallId,omitempty"`
	SetCode      string        `json:"setCode,omitempty"`
	ManaCost     string        `json:"manaCost,omitempty"`
	Colors       []engine.Color `json:"colors,omitempty"`
	Types        []string      `json:"types,omitempty"`
	Subtypes     []string      `json:"subtypes,omitempty"`
	Supertypes   []string      `json:"supertypes,omitempty"`
	ProducedMana []engine.Color `json:"producedMana,omitempty"`
	Power        int           `json:"power,omitempty"`
	Toughness    int           `json:"toughness,omitempty"`
	Loyalty      int           `json:"loyalty,omitempty"`
	Defense      int           `json:"defense,omitempty"`
	Keywords     []string      `json:"keywords,omitempty"`
	TypeLine     string        `json:"typeLine,omitempty"`
	OracleText   string        `json:"oracleText,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
}

// Deck is one seat's submitted decklist for start_game.
type Deck struct {
	Cards []CardDef `json:"cards"`
}

// BuildGameState instantiates a fresh GameState for roomID from each
// seat's decklist: every CardDef becomes one Card instance in that
// player's library, shuffled, and the opening StartGame advance (dealing
// seven-card hands through the mulligan step) runs immediately so the
// returned state is ready for the first real action.
func BuildGameState(eng *engine.Engine, roomID string, seed int64, seats []Seat, decks map[string]Deck) *engine.GameState {
	playerIDs := make([]string, len(seats))
	playerNames := make([]string, len(seats))
	for i, s := range seats {
		playerIDs[i] = s.PlayerID
		playerNames[i] = s.PlayerName
	}

	gs := engine.NewGameState(roomID, seed, playerIDs, playerNames)
	for _, s := range seats {
		if s.IsBot {
			gs.Players[s.PlayerID].IsBot = true
		}
		instantiateDeck(gs, s.PlayerID, decks[s.PlayerID].Cards)
	}
	for _, pid := range playerIDs {
		gs.ShuffleLibrary(pid)
	}
	eng.StartGame(gs)
	return gs
}

func instantiateDeck(gs *engine.GameState, ownerID string, cards []CardDef) {
	order := make([]string, 0, len(cards))
	for _, def := range cards {
		id := gs.NewInstanceID()
		card := &engine.Card{
			InstanceID:       id,
			Name:             def.Name,
			OwnerID:          ownerID,
			ControllerID:     ownerID,
			OracleID:         def.OracleID,
			ScryfallID:       def.ScryfallID,
			SetCode:          def.SetCode,
			Zone:             engine.ZoneLibrary,
			ManaCost:         def.ManaCost,
			Colors:           def.Colors,
			Types:            def.Types,
			Subtypes:         def.Subtypes,
			Supertypes:       def.Supertypes,
			ProducedMana:     def.ProducedMana,
			BasePower:        def.Power,
			CurrentPower:     def.Power,
			BaseToughness:    def.Toughness,
			CurrentToughness: def.Toughness,
			BaseLoyalty:      def.Loyalty,
			CurrentLoyalty:   def.Loyalty,
			BaseDefense:      def.Defense,
			CurrentDefense:   def.Defense,
			Keywords:         def.Keywords,
			TypeLine:         def.TypeLine,
			OracleText:       def.OracleText,
			ImageURL:         def.ImageURL,
		}
		gs.Cards[id] = card
		order = append(order, id)
	}
	if gs.LibraryOrder == nil {
		gs.LibraryOrder = make(map[string][]string)
	}
	gs.LibraryOrder[ownerID] = order
}
