package engine

import "math/rand"

// RNG returns the single seedable random source for this GameState (§9,
// the RNG seam). Every shuffle, coin flip, and bot tie-break must draw
// from this, never from an ambient global source, so tests can seed it
// explicitly and replay a match bit-for-bit. Calling RNG advances the
// stored Seed so consecutive calls within one action do not repeat the
// same sequence.
func (gs *GameState) RNG() *rand.Rand {
	rng := rand.New(rand.NewSource(gs.Seed))
	gs.Seed = rng.Int63()
	return rng
}

// Reseed mixes turnCount into the stored seed, the way this stack's deck
// reset mixes time and round into its RNG seed to avoid replaying an
// identical shuffle across hands, except here the mix is a pure function
// of (Seed, turnCount) so replays stay deterministic.
func (gs *GameState) Reseed(turnCount int) {
	gs.Seed = gs.Seed ^ int64(turnCount)*2654435761
}

// ShuffleLibrary Fisher-Yates shuffles ownerID's library order in place.
func (gs *GameState) ShuffleLibrary(ownerID string) {
	order := gs.LibraryOrder[ownerID]
	rng := gs.RNG()
	for i := len(order) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	if gs.LibraryOrder == nil {
		gs.LibraryOrder = make(map[string][]string)
	}
	gs.LibraryOrder[ownerID] = order
}

// drawTopLibraryCard pops the top (tail) of ownerID's library order,
// returning "", false if the library is empty.
func (gs *GameState) drawTopLibraryCard(ownerID string) (string, bool) {
	order := gs.LibraryOrder[ownerID]
	if len(order) == 0 {
		return "", false
	}
	top := order[len(order)-1]
	gs.LibraryOrder[ownerID] = order[:len(order)-1]
	return top, true
}

// pushToLibraryBottom inserts instanceID at the bottom (index 0) of
// ownerID's library order, used by mulligan card-to-bottom bookkeeping.
func (gs *GameState) pushToLibraryBottom(ownerID, instanceID string) {
	if gs.LibraryOrder == nil {
		gs.LibraryOrder = make(map[string][]string)
	}
	gs.LibraryOrder[ownerID] = append([]string{instanceID}, gs.LibraryOrder[ownerID]...)
}

func (gs *GameState) cardsInZoneForOwner(zone Zone, ownerID string) []*Card {
	var out []*Card
	for _, c := range gs.Cards {
		if c.Zone == zone && c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out
}
