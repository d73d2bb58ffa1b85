package rules

import "github.com/konkan-engine/konkan/pkg/cards"

// Clone returns a deep-enough copy of s: every mutable collection (hands,
// piles, table melds, card-owner map) is copied, so applying an action to
// the clone never mutates the original. Config is copied by value; Pool and
// Rng are shared by reference with the original.
func (s *State) Clone() *State {
	n := &State{
		Config: s.Config,
		Public: s.Public,
		Rng:    s.Rng,
		Pool:   s.Pool,
	}
	n.Players = make([]PlayerState, len(s.Players))
	copy(n.Players, s.Players)

	n.Public.DrawPile = append([]cards.ID(nil), s.Public.DrawPile...)
	n.Public.TrashPile = append([]cards.ID(nil), s.Public.TrashPile...)

	n.Table = s.Table.Clone()
	return n
}
