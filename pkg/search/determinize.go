package search

import (
	"math/rand"

	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/rules"
)

// determinize returns a clone of s in which every hidden zone (every
// opponent's hand and the draw pile) has been reshuffled into a single
// pool and redealt to the same hand sizes, while actor's own hand and
// every public zone (table, trash) are preserved exactly.
func determinize(s *rules.State, actor int, rng *rand.Rand) *rules.State {
	out := s.Clone()

	var pool []cards.ID
	for idx := range out.Players {
		if idx == actor {
			continue
		}
		pool = append(pool, out.Players[idx].Hand.IDs()...)
	}
	pool = append(pool, out.Public.DrawPile...)

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	for idx := range out.Players {
		if idx == actor {
			continue
		}
		handSize := out.Players[idx].Hand.Popcount()
		if handSize == 0 {
			continue
		}
		dealt := pool[len(pool)-handSize:]
		pool = pool[:len(pool)-handSize]
		out.Players[idx].Hand = cards.MaskFromIDs(dealt)
	}

	drawLen := len(out.Public.DrawPile)
	out.Public.DrawPile = append([]cards.ID(nil), pool[:drawLen]...)

	return out
}
