package rules

import (
	"math/rand"

	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// Deal takes an already-shuffled, ordered sequence of the 106 identifiers
// (the last element is the top of the pile) and deals a new round per
// config: every player gets config.HandSize cards, the opener
// ((dealer_index+1) mod num_players) gets one extra, and the next card
// flips to start the trash pile.
func Deal(config Config, deckOrder []cards.ID, rng *rand.Rand) (*State, error) {
	needed := config.NumPlayers*config.HandSize + 2 // +1 opener card, +1 opening trash
	if len(deckOrder) < needed {
		return nil, programmingFault("deck has %d cards, need at least %d", len(deckOrder), needed)
	}

	drawPile := append([]cards.ID(nil), deckOrder...)
	dealer := ((config.DealerIndex % config.NumPlayers) + config.NumPlayers) % config.NumPlayers
	opener := (dealer + 1) % config.NumPlayers

	players := make([]PlayerState, config.NumPlayers)
	for i := range players {
		players[i] = PlayerState{Index: i}
	}
	for round := 0; round < config.HandSize; round++ {
		for p := 0; p < config.NumPlayers; p++ {
			players[p].Hand = players[p].Hand.With(popLast(&drawPile))
		}
	}
	players[opener].Hand = players[opener].Hand.With(popLast(&drawPile))
	trashTop := popLast(&drawPile)

	return &State{
		Config:  config,
		Players: players,
		Public: PublicState{
			DrawPile:           drawPile,
			TrashPile:          []cards.ID{trashTop},
			TurnIndex:          opener,
			DealerIndex:        dealer,
			LastDiscarderIndex: -1,
			WinnerIndex:        -1,
		},
		Table: NewTable(),
		Rng:   rng,
		Pool:  solver.NewPool(4096),
	}, nil
}
