package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/konkan-engine/konkan/pkg/cards"
)

// A set with a joker: hand {7S, 7H, blackJoker} at threshold 21 yields
// one set meld covering all three cards, 21 points, one joker used.
func TestBestCover_SetWithJoker(t *testing.T) {
	c7s := cards.Encode(cards.Spades, cards.Seven, 0)
	c7h := cards.Encode(cards.Hearts, cards.Seven, 0)
	hand := cards.MaskFromIDs([]cards.ID{c7s, c7h, cards.JokerBlackID})

	cover := NewSolver(hand).BestCover(hand, MinDeadwoodAtThreshold, 21)
	require.True(t, cover.Success)
	require.Len(t, cover.Melds, 1)
	require.Equal(t, SetKind, cover.Melds[0].Kind)
	require.Equal(t, 3, cover.CoveredCards)
	require.Equal(t, 21, cover.TotalPoints)
	require.Equal(t, 1, cover.JokersUsed)
}

// Two runs plus a king set over a full 14-card hand: A-5 of spades, 6-10
// of hearts, and kings in all four suits. First14 must cover all 14 cards
// with exactly 3 melds totalling 24 + 40 + 40 = 104 points.
func TestFirst14_TwoRunsPlusKingSet(t *testing.T) {
	var ids []cards.ID
	for r := cards.Ace; r <= cards.Five; r++ {
		ids = append(ids, cards.Encode(cards.Spades, r, 0))
	}
	for r := cards.Six; r <= cards.Ten; r++ {
		ids = append(ids, cards.Encode(cards.Hearts, r, 0))
	}
	for _, suit := range []cards.Suit{cards.Spades, cards.Hearts, cards.Diamonds, cards.Clubs} {
		ids = append(ids, cards.Encode(suit, cards.King, 0))
	}
	require.Len(t, ids, 14)

	hand := cards.MaskFromIDs(ids)
	cover := NewSolver(hand).BestCover(hand, First14, 0)
	require.True(t, cover.Success)
	require.Len(t, cover.Melds, 3)
	require.GreaterOrEqual(t, cover.CoveredCards, 14)
	require.Equal(t, 104, cover.TotalPoints)
	require.Equal(t, 0, cover.JokersUsed)
}

// First14 reports failure when fewer than 14 cards can be covered and the
// hand is larger than the coverable region.
func TestFirst14_InfeasibleReportsFailure(t *testing.T) {
	// 14 meldless cards: every same-suit pair is at least 3 ranks apart and
	// no rank appears in more than two suits.
	ids := []cards.ID{
		cards.Encode(cards.Spades, cards.Ace, 0),
		cards.Encode(cards.Spades, cards.Four, 0),
		cards.Encode(cards.Spades, cards.Seven, 0),
		cards.Encode(cards.Spades, cards.Ten, 0),
		cards.Encode(cards.Hearts, cards.Two, 0),
		cards.Encode(cards.Hearts, cards.Five, 0),
		cards.Encode(cards.Hearts, cards.Eight, 0),
		cards.Encode(cards.Hearts, cards.Jack, 0),
		cards.Encode(cards.Diamonds, cards.Three, 0),
		cards.Encode(cards.Diamonds, cards.Six, 0),
		cards.Encode(cards.Diamonds, cards.Nine, 0),
		cards.Encode(cards.Diamonds, cards.Queen, 0),
		cards.Encode(cards.Clubs, cards.King, 0),
		cards.Encode(cards.Clubs, cards.Two, 0),
	}
	hand := cards.MaskFromIDs(ids)
	require.Equal(t, 14, hand.Popcount())

	cover := NewSolver(hand).BestCover(hand, First14, 0)
	require.False(t, cover.Success)
	require.Equal(t, 0, cover.CoveredCards)
}

func TestBestCover_EmptyHand(t *testing.T) {
	var hand cards.Mask
	cover := NewSolver(hand).BestCover(hand, MaxCards, 0)
	require.True(t, cover.Success)
	require.Equal(t, 0, cover.CoveredCards)
	require.Empty(t, cover.Melds)
}

func TestBestCover_NoMeldsPossible(t *testing.T) {
	hand := cards.MaskFromIDs([]cards.ID{
		cards.Encode(cards.Spades, cards.Two, 0),
		cards.Encode(cards.Hearts, cards.Five, 0),
		cards.Encode(cards.Clubs, cards.Nine, 1),
	})
	cover := NewSolver(hand).BestCover(hand, MaxCards, 0)
	require.True(t, cover.Success)
	require.Equal(t, 0, cover.CoveredCards)
}

func TestBestCover_SealedFourSuitSetUsesNoJoker(t *testing.T) {
	var ids []cards.ID
	for _, suit := range []cards.Suit{cards.Spades, cards.Hearts, cards.Diamonds, cards.Clubs} {
		ids = append(ids, cards.Encode(suit, cards.Nine, 0))
	}
	hand := cards.MaskFromIDs(ids)
	cover := NewSolver(hand).BestCover(hand, MaxCards, 0)
	require.Len(t, cover.Melds, 1)
	require.True(t, cover.Melds[0].IsSealed())
	require.Equal(t, 0, cover.JokersUsed)
}

func TestMinDeadwoodAtThreshold_InfeasibleBelowThreshold(t *testing.T) {
	c7s := cards.Encode(cards.Spades, cards.Seven, 0)
	c7h := cards.Encode(cards.Hearts, cards.Seven, 0)
	hand := cards.MaskFromIDs([]cards.ID{c7s, c7h})
	cover := NewSolver(hand).BestCover(hand, MinDeadwoodAtThreshold, 81)
	require.False(t, cover.Success)
}

// Determinism: solving the same mask twice yields an identical cover.
func TestBestCover_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfDistinct(rapid.IntRange(0, cards.NumCards-1), func(i int) int { return i }).Draw(rt, "ids")
		if len(ids) > 20 {
			ids = ids[:20]
		}
		var mask cards.Mask
		for _, i := range ids {
			mask = mask.With(cards.ID(i))
		}
		a := NewSolver(mask).BestCover(mask, MaxCards, 0)
		b := NewSolver(mask).BestCover(mask, MaxCards, 0)
		require.Equal(rt, a.CoveredCards, b.CoveredCards)
		require.Equal(rt, a.TotalPoints, b.TotalPoints)
		require.Equal(rt, len(a.Melds), len(b.Melds))
	})
}

// MaxCards coverage never exceeds the hand size, and every chosen meld lies
// within the hand.
func TestBestCover_MaxCardsNeverExceedsHandSize(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfDistinct(rapid.IntRange(0, cards.NumCards-1), func(i int) int { return i }).Draw(rt, "ids")
		if len(ids) > 16 {
			ids = ids[:16]
		}
		var mask cards.Mask
		for _, i := range ids {
			mask = mask.With(cards.ID(i))
		}
		cover := NewSolver(mask).BestCover(mask, MaxCards, 0)
		require.LessOrEqual(rt, cover.CoveredCards, mask.Popcount())
		for _, m := range cover.Melds {
			require.True(rt, m.Cards.IsSubsetOf(mask))
		}
	})
}

func TestPool_CachesRepeatedQuery(t *testing.T) {
	pool := NewPool(8)
	c7s := cards.Encode(cards.Spades, cards.Seven, 0)
	c7h := cards.Encode(cards.Hearts, cards.Seven, 0)
	hand := cards.MaskFromIDs([]cards.ID{c7s, c7h, cards.JokerBlackID})

	a := pool.BestCover(hand, MinDeadwoodAtThreshold, 21)
	b := pool.BestCover(hand, MinDeadwoodAtThreshold, 21)
	require.Equal(t, a, b)
}
