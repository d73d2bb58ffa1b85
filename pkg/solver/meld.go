// Package solver implements the meld enumerator and the weighted
// exact-cover solver over a hand's 128-bit card mask. The solver is an
// exhaustive include/exclude search memoized per remaining mask; it does
// no bound-based pruning.
package solver

import "github.com/konkan-engine/konkan/pkg/cards"

// Kind distinguishes the two meld shapes.
type Kind int

const (
	SetKind Kind = iota
	RunKind
)

func (k Kind) String() string {
	if k == SetKind {
		return "set"
	}
	return "run"
}

// Meld is a single non-overlapping group of >=3 cards, either a set
// (same rank, distinct suits, <=1 joker) or a run (same suit, consecutive
// ranks, Ace low only, <=1 joker).
type Meld struct {
	Kind   Kind
	Owner  int
	Cards  cards.Mask
	Points int

	// Set-specific.
	SetRank cards.Rank

	// Run-specific.
	RunSuit cards.Suit
	RunLow  cards.Rank
	RunHigh cards.Rank

	// Joker bookkeeping, shared by both shapes.
	HasJoker  bool
	JokerID   cards.ID
	JokerSuit cards.Suit // set: the suit the joker fills
	JokerRank cards.Rank // run: the rank the joker fills
}

// NumCards returns the number of physical cards in the meld.
func (m Meld) NumCards() int { return m.Cards.Popcount() }

// Contains reports whether id is part of the meld.
func (m Meld) Contains(id cards.ID) bool { return m.Cards.Has(id) }

// IsSealed reports whether m is an immutable four-suit jokerless set.
func (m Meld) IsSealed() bool {
	return m.Kind == SetKind && !m.HasJoker && m.NumCards() == 4
}

// RepresentedRank returns the rank a card within the meld represents,
// which for a joker in a run differs from its position's sibling cards
// only in that it stands in for the joker's filled rank.
func (m Meld) RepresentedRank(id cards.ID) cards.Rank {
	if m.HasJoker && id == m.JokerID {
		if m.Kind == SetKind {
			return m.SetRank
		}
		return m.JokerRank
	}
	return cards.Decode(id).Rank
}

// recomputePoints sums PointsAs over every card in the meld.
func (m *Meld) recomputePoints() {
	total := 0
	for _, id := range m.Cards.IDs() {
		total += cards.PointsAs(id, m.RepresentedRank(id))
	}
	m.Points = total
}
