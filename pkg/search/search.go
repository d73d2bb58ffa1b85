// Package search implements the information-set Monte Carlo tree search
// over Konkan play actions. The rollout is a single opponent ply deep, so
// the tree is a flat root-level bandit: per-action visit and value stats,
// no child expansion below the root.
package search

import (
	"math"
	"math/rand"

	"github.com/konkan-engine/konkan/pkg/actiongen"
	"github.com/konkan-engine/konkan/pkg/analysis"
	"github.com/konkan-engine/konkan/pkg/rules"
)

// Config tunes one search call.
type Config struct {
	Simulations     int
	ExploreConst    float64
	DirichletAlpha  float64
	DirichletWeight float64
	OpponentPriors  bool
	MaxCandidates   int
}

// DefaultConfig returns 64 simulations, no Dirichlet noise, and
// opponent-model priors on.
func DefaultConfig() Config {
	return Config{
		Simulations:    64,
		ExploreConst:   1.4,
		OpponentPriors: true,
		MaxCandidates:  16,
	}
}

// mctsNode is one root action's accumulated bandit statistics.
type mctsNode struct {
	action     actiongen.PlayAction
	prior      float64
	visits     int
	totalValue float64
}

func (n *mctsNode) meanValue() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.totalValue / float64(n.visits)
}

// ActionReport is one candidate action's final search statistics.
type ActionReport struct {
	Action actiongen.PlayAction
	Visits int
	Value  float64
	Prior  float64
}

// Report is the outcome of a completed search: per-action statistics plus
// the recommended action.
type Report struct {
	Actions   []ActionReport
	Best      actiongen.PlayAction
	BestIndex int
}

// RunSearch builds a root for player's current awaiting-discard hand,
// iterates Config.Simulations times through select, determinize,
// expand/simulate, rollout, and backup, and returns a Report. state is
// never mutated; player must be the current actor in the awaiting-discard
// phase or RunSearch returns a zero Report with a nil Actions slice.
func RunSearch(state *rules.State, player int, rng *rand.Rand, cfg Config) Report {
	gen := actiongen.NewGenerator(state.Pool, analysis.DefaultWeights())
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = state.Config.DiscardCap
	}
	candidates := gen.LegalPlayActions(state, player, maxCandidates)
	if len(candidates) == 0 {
		return Report{}
	}

	threshold := state.EffectiveThreshold()
	scores := make([]float64, len(candidates))
	for i, a := range candidates {
		scores[i] = priorScore(state, player, a, state.Pool, threshold)
	}

	var opponentFactor []float64
	if cfg.OpponentPriors {
		model := DefaultOpponentModel()
		opponentFactor = make([]float64, len(candidates))
		for i, a := range candidates {
			opponentFactor[i] = model.PriorAdjustment(a)
		}
	}

	priors := computePriors(scores, opponentFactor)
	if cfg.DirichletWeight > 0 && cfg.DirichletAlpha > 0 {
		priors = mixDirichlet(priors, cfg.DirichletAlpha, cfg.DirichletWeight, rng)
	}

	nodes := make([]*mctsNode, len(candidates))
	for i, a := range candidates {
		nodes[i] = &mctsNode{action: a, prior: priors[i]}
	}

	totalVisits := 0
	for iter := 0; iter < cfg.Simulations; iter++ {
		i := selectAction(nodes, totalVisits, cfg.ExploreConst)
		value := simulateOne(state, player, nodes[i].action, rng)
		nodes[i].visits++
		nodes[i].totalValue += value
		totalVisits++
	}

	return buildReport(nodes)
}

// selectAction picks the node index maximizing mean_value + c*sqrt(log(N+1)/visits) + prior,
// with an unvisited node scoring +Inf.
func selectAction(nodes []*mctsNode, totalVisits int, exploreConst float64) int {
	best, bestScore := 0, math.Inf(-1)
	for i, n := range nodes {
		var score float64
		if n.visits == 0 {
			score = math.Inf(1)
		} else {
			explore := exploreConst * math.Sqrt(math.Log(float64(totalVisits+1))/float64(n.visits))
			score = n.meanValue() + explore + n.prior
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// simulateOne expands and simulates one ply for action on state, applying
// it to a fresh clone, determinizing for the next actor, and running the
// rollout. Applying action to the clone raising any rule violation scores
// -1 directly.
func simulateOne(state *rules.State, player int, action actiongen.PlayAction, rng *rand.Rand) float64 {
	det := determinize(state, player, rng)

	if err := actiongen.Apply(det, player, action); err != nil {
		return -1
	}

	if det.Public.WinnerIndex >= 0 {
		if det.Public.WinnerIndex == player {
			return 1.0
		}
		return -1.0
	}

	next := determinize(det, det.Public.TurnIndex, rng)
	return rollout(next, player, state.Pool, analysis.DefaultWeights(), rng)
}

// buildReport assembles the final per-action statistics and picks the
// highest-visit action, ties broken by lowest index.
func buildReport(nodes []*mctsNode) Report {
	actions := make([]ActionReport, len(nodes))
	bestIndex, bestVisits := 0, -1
	for i, n := range nodes {
		actions[i] = ActionReport{Action: n.action, Visits: n.visits, Value: n.meanValue(), Prior: n.prior}
		if n.visits > bestVisits {
			bestVisits = n.visits
			bestIndex = i
		}
	}
	return Report{Actions: actions, Best: nodes[bestIndex].action, BestIndex: bestIndex}
}
