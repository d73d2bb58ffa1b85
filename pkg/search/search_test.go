package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/konkan-engine/konkan/pkg/actiongen"
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/rules"
	"github.com/konkan-engine/konkan/pkg/solver"
)

func newTestState(t *testing.T, numPlayers, handSize int) *rules.State {
	t.Helper()
	cfg := rules.DefaultConfig()
	cfg.NumPlayers = numPlayers
	cfg.HandSize = handSize
	deck := cards.NewDeck()
	cards.Shuffle(deck, rand.New(rand.NewSource(5)))
	s, err := rules.Deal(cfg, deck, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	return s
}

func TestRunSearch_WrongPhaseReturnsEmptyReport(t *testing.T) {
	s := newTestState(t, 2, 14)
	rng := rand.New(rand.NewSource(1))
	report := RunSearch(s, s.Public.TurnIndex, rng, DefaultConfig())
	require.Empty(t, report.Actions)
}

func TestRunSearch_NeverMutatesCallerState(t *testing.T) {
	s := newTestState(t, 2, 14)
	player := s.Public.TurnIndex
	require.NoError(t, rules.ApplyDraw(s, player, rules.DrawAction{Kind: rules.DrawFromStock}))

	before := s.Clone()
	rng := rand.New(rand.NewSource(2))
	cfg := DefaultConfig()
	cfg.Simulations = 16

	report := RunSearch(s, player, rng, cfg)
	require.NotEmpty(t, report.Actions)
	require.Equal(t, before.Players[player].Hand, s.Players[player].Hand)
	require.Equal(t, before.Public.DrawPile, s.Public.DrawPile)
}

func TestRunSearch_ReportsHighestVisitAsBest(t *testing.T) {
	s := newTestState(t, 2, 14)
	player := s.Public.TurnIndex
	require.NoError(t, rules.ApplyDraw(s, player, rules.DrawAction{Kind: rules.DrawFromStock}))

	rng := rand.New(rand.NewSource(3))
	cfg := DefaultConfig()
	cfg.Simulations = 32

	report := RunSearch(s, player, rng, cfg)
	require.NotEmpty(t, report.Actions)

	bestVisits := -1
	for _, a := range report.Actions {
		if a.Visits > bestVisits {
			bestVisits = a.Visits
		}
	}
	require.Equal(t, bestVisits, report.Actions[report.BestIndex].Visits)
	require.Equal(t, report.Actions[report.BestIndex].Action, report.Best)
}

// A visible unsealed run {7S,8S,9S} owned by the
// opponent means discarding 10S would hand them an immediate sarf; with
// enough simulations the search must not recommend it.
func TestRunSearch_AvoidsSarfFeedingDiscard(t *testing.T) {
	s := newTestState(t, 2, 1)
	player := s.Public.TurnIndex
	s.Players[player].Phase = rules.AwaitingDiscard

	ten := cards.Encode(cards.Spades, cards.Ten, 0)
	safe1 := cards.Encode(cards.Hearts, cards.Two, 0)
	safe2 := cards.Encode(cards.Clubs, cards.Four, 0)
	s.Players[player].Hand = cards.MaskFromIDs([]cards.ID{ten, safe1, safe2})

	run := solver.Meld{
		Kind:    solver.RunKind,
		RunSuit: cards.Spades,
		RunLow:  cards.Seven,
		RunHigh: cards.Nine,
		Cards: cards.MaskFromIDs([]cards.ID{
			cards.Encode(cards.Spades, cards.Seven, 0),
			cards.Encode(cards.Spades, cards.Eight, 0),
			cards.Encode(cards.Spades, cards.Nine, 0),
		}),
	}
	opponent := (player + 1) % 2
	s.Table.Add(run, opponent)

	rng := rand.New(rand.NewSource(42))
	cfg := DefaultConfig()
	cfg.Simulations = 48

	report := RunSearch(s, player, rng, cfg)
	require.NotEmpty(t, report.Actions)
	require.NotEqual(t, ten, report.Best.Discard, "search should not recommend feeding the opponent's immediate sarf")
}

func TestComputePriors_SumsToOneAndStaysNonNegative(t *testing.T) {
	priors := computePriors([]float64{-5, 0, 3, 10}, nil)
	total := 0.0
	for _, p := range priors {
		require.GreaterOrEqual(t, p, 0.0)
		total += p
	}
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestSampleDirichlet_SumsToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	d := sampleDirichlet(5, 0.3, rng)
	total := 0.0
	for _, v := range d {
		require.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestOpponentModel_PriorAdjustmentClampsToFloor(t *testing.T) {
	m := OpponentModel{TrashPenalty: 100, LaydownBonus: 0, SarfBonus: 0, JokerPenalty: 100}
	joker := cards.JokerBlackID
	adj := m.PriorAdjustment(actiongen.PlayAction{Discard: joker})
	require.Equal(t, minOpponentFactor, adj)
}

// Identical (state, seed, config) inputs must produce identical per-action
// visit counts and values.
func TestRunSearch_DeterministicGivenSeed(t *testing.T) {
	s := newTestState(t, 3, 10)
	player := s.Public.TurnIndex
	require.NoError(t, rules.ApplyDraw(s, player, rules.DrawAction{Kind: rules.DrawFromStock}))

	cfg := DefaultConfig()
	cfg.Simulations = 24

	a := RunSearch(s, player, rand.New(rand.NewSource(77)), cfg)
	b := RunSearch(s, player, rand.New(rand.NewSource(77)), cfg)
	require.Equal(t, len(a.Actions), len(b.Actions))
	for i := range a.Actions {
		require.Equal(t, a.Actions[i].Visits, b.Actions[i].Visits)
		require.Equal(t, a.Actions[i].Value, b.Actions[i].Value)
		require.Equal(t, a.Actions[i].Prior, b.Actions[i].Prior)
	}
	require.Equal(t, a.BestIndex, b.BestIndex)
}

func TestMixDirichlet_PreservesSumAndNonNegativity(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	priors := computePriors([]float64{1, 2, 3, 4}, nil)
	mixed := mixDirichlet(priors, 0.3, 0.25, rng)
	total := 0.0
	for _, p := range mixed {
		require.GreaterOrEqual(t, p, 0.0)
		total += p
	}
	require.InDelta(t, 1.0, total, 1e-9)
}
