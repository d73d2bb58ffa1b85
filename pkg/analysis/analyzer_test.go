package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

func TestKeepValue_MatchesExactFormula(t *testing.T) {
	w := DefaultWeights()
	m := CardMetrics{
		InBaselineCover:    true,
		CoverPointsDrop:    4,
		CoverCardsDrop:     3,
		SetPotential:       3,
		RunLeft:            1,
		RunRight:           1,
		GapBridge:          true,
		DuplicatesSameSuit: 1,
		ExposurePenalty:    2,
		OpponentDemandTotal: 0.5,
	}
	got := KeepValue(m, w)
	want := 12.0 + 1.2*4 + 2.5*3 + 2.0*1 /* max(0,3-2) */ + 2.5*2 /* left+right */ + 3.5 /* near_run: 1+1>=2 */ +
		4.5 /* gap_bridge */ - 1.0*1 - 1.2*2 - 3.5*0.5
	require.InDelta(t, want, got, 1e-9)
}

func TestKeepValue_NeedsForRunOneBonus(t *testing.T) {
	w := DefaultWeights()
	m := CardMetrics{RunLeft: 1, RunRight: 0}
	require.Equal(t, 1, m.NeedsForRun())
	require.False(t, m.NearRun())
	got := KeepValue(m, w)
	want := 2.5*1 + 1.5
	require.InDelta(t, want, got, 1e-9)
}

// Monotonicity: keep_value is non-decreasing in in_baseline_cover and
// each "good" signal, non-increasing in each "bad" signal, for any base
// metrics.
func TestKeepValue_Monotone(t *testing.T) {
	w := DefaultWeights()
	rapid.Check(t, func(rt *rapid.T) {
		base := CardMetrics{
			CoverPointsDrop:     rapid.IntRange(0, 10).Draw(rt, "cpd"),
			CoverCardsDrop:      rapid.IntRange(0, 10).Draw(rt, "ccd"),
			SetPotential:        rapid.IntRange(0, 4).Draw(rt, "sp"),
			RunLeft:             rapid.IntRange(0, 5).Draw(rt, "rl"),
			RunRight:            rapid.IntRange(0, 5).Draw(rt, "rr"),
			DuplicatesSameSuit:  rapid.IntRange(0, 1).Draw(rt, "dup"),
			ExposurePenalty:     rapid.Float64Range(0, 10).Draw(rt, "exp"),
			OpponentDemandTotal: rapid.Float64Range(0, 1).Draw(rt, "dem"),
		}
		baseVal := KeepValue(base, w)

		withCover := base
		withCover.InBaselineCover = true
		require.GreaterOrEqual(rt, KeepValue(withCover, w), KeepValue(base, w))

		moreCPD := base
		moreCPD.CoverPointsDrop++
		require.GreaterOrEqual(rt, KeepValue(moreCPD, w), baseVal)

		moreCCD := base
		moreCCD.CoverCardsDrop++
		require.GreaterOrEqual(rt, KeepValue(moreCCD, w), baseVal)

		moreRun := base
		moreRun.RunRight++
		require.GreaterOrEqual(rt, KeepValue(moreRun, w), baseVal)

		withGap := base
		withGap.GapBridge = true
		require.GreaterOrEqual(rt, KeepValue(withGap, w), baseVal)

		moreDup := base
		if moreDup.DuplicatesSameSuit == 0 {
			moreDup.DuplicatesSameSuit = 1
			require.LessOrEqual(rt, KeepValue(moreDup, w), baseVal)
		}

		moreExposure := base
		moreExposure.ExposurePenalty += 1
		require.LessOrEqual(rt, KeepValue(moreExposure, w), baseVal)

		moreDemand := base
		moreDemand.OpponentDemandTotal = minFloat(1, base.OpponentDemandTotal+0.1)
		require.LessOrEqual(rt, KeepValue(moreDemand, w), baseVal)
	})
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func TestRunAdjacency_StraightRun(t *testing.T) {
	hand := cards.MaskFromIDs([]cards.ID{
		cards.Encode(cards.Spades, cards.Four, 0),
		cards.Encode(cards.Spades, cards.Five, 0),
		cards.Encode(cards.Spades, cards.Six, 0),
	})
	left, right, gap := runAdjacency(cards.Encode(cards.Spades, cards.Five, 0), hand)
	require.Equal(t, 1, left)
	require.Equal(t, 1, right)
	require.False(t, gap)
}

func TestRunAdjacency_GapBridge(t *testing.T) {
	hand := cards.MaskFromIDs([]cards.ID{
		cards.Encode(cards.Spades, cards.Five, 0),
		cards.Encode(cards.Spades, cards.Six, 0),
		cards.Encode(cards.Spades, cards.Eight, 0),
	})
	_, _, gap := runAdjacency(cards.Encode(cards.Spades, cards.Six, 0), hand)
	require.True(t, gap)
}

func TestSetPotential_CountsJokers(t *testing.T) {
	hand := cards.MaskFromIDs([]cards.ID{
		cards.Encode(cards.Spades, cards.Nine, 0),
		cards.Encode(cards.Hearts, cards.Nine, 0),
		cards.JokerBlackID,
	})
	sp := setPotential(cards.Encode(cards.Spades, cards.Nine, 0), hand)
	require.Equal(t, 3, sp) // 2 suits + 1 joker
}

func TestAnalyzer_CoverMembership(t *testing.T) {
	pool := solver.NewPool(8)
	c7s := cards.Encode(cards.Spades, cards.Seven, 0)
	c7h := cards.Encode(cards.Hearts, cards.Seven, 0)
	deadwood := cards.Encode(cards.Clubs, cards.Two, 1)
	hand := cards.MaskFromIDs([]cards.ID{c7s, c7h, cards.JokerBlackID, deadwood})

	a := NewAnalyzer(pool, 21, 0.2)
	metrics := a.Analyze(hand, nil)

	byCard := map[cards.ID]CardMetrics{}
	for _, m := range metrics {
		byCard[m.Card] = m
	}
	require.True(t, byCard[c7s].InBaselineCover)
	require.False(t, byCard[deadwood].InBaselineCover)
}

func TestEvaluateSarfThreat_RunExtension(t *testing.T) {
	meld := solver.Meld{
		Kind:    solver.RunKind,
		RunSuit: cards.Spades,
		RunLow:  cards.Three,
		RunHigh: cards.Five,
	}
	threat := EvaluateSarfThreat([]solver.Meld{meld}, cards.Encode(cards.Spades, cards.Six, 0))
	require.True(t, threat.IsThreat())

	noThreat := EvaluateSarfThreat([]solver.Meld{meld}, cards.Encode(cards.Hearts, cards.Six, 0))
	require.False(t, noThreat.IsThreat())
}

func TestDemandEstimator_Reproducible(t *testing.T) {
	pool := solver.NewPool(8)
	est := NewDemandEstimator(pool, 4)

	var unknown cards.Mask
	for i := 0; i < 30; i++ {
		unknown = unknown.With(cards.ID(i))
	}
	view := PublicView{
		OpponentHandSizes: map[int]int{1: 14},
		UnknownPool:       unknown,
		Threshold:         81,
	}
	discard := cards.Encode(cards.Spades, cards.King, 0)

	a := est.Estimate(5, view, discard)
	b := est.Estimate(5, view, discard)
	require.Equal(t, a, b)
}
