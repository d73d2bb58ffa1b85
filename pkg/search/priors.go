package search

import (
	"math"
	"math/rand"

	"github.com/konkan-engine/konkan/pkg/actiongen"
	"github.com/konkan-engine/konkan/pkg/analysis"
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/rules"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// sarfThreatPriorPenalty is the hard penalty subtracted from an action's
// raw prior score when it feeds the next player's immediate sarf. It
// dwarfs every other term in priorScore, so these actions rank last
// among legals.
const sarfThreatPriorPenalty = 1000.0

// priorScore evaluates a deterministic heuristic score for candidate
// action a taken by player against s: it rewards low resulting deadwood,
// protecting cards in the pre-action baseline cover, lay-down readiness,
// and sarf opportunities, and penalizes high card points, discarding a
// joker, and feeding the next player's immediate sarf.
func priorScore(s *rules.State, player int, a actiongen.PlayAction, pool *solver.Pool, threshold int) float64 {
	baseline := pool.BestCover(s.Players[player].Hand, solver.MinDeadwoodAtThreshold, threshold)
	baselineMask := coverMaskOf(baseline)

	clone := s.Clone()
	if len(a.LayDown) > 0 {
		_ = rules.ApplyLayDown(clone, player, a.LayDown)
	}
	for _, ext := range a.SarfMoves {
		_ = rules.ApplySarfExtend(clone, player, ext)
	}
	resultHand := clone.Players[player].Hand.Without(a.Discard)

	cover := pool.BestCover(resultHand, solver.MinDeadwoodAtThreshold, threshold)
	coveredMask := coverMaskOf(cover)
	deadwoodPoints := 0
	for _, id := range resultHand.IDs() {
		if !coveredMask.Has(id) {
			deadwoodPoints += cards.Points(id)
		}
	}

	score := -float64(deadwoodPoints)

	if baselineMask.Has(a.Discard) {
		score -= 8
	}
	if len(a.LayDown) > 0 {
		score += 10
	}
	if len(a.SarfMoves) > 0 {
		score += 6 * float64(len(a.SarfMoves))
	}
	score -= 0.5 * float64(cards.Points(a.Discard))
	if cards.Decode(a.Discard).IsJoker {
		score -= 15
	}

	threat := analysis.EvaluateSarfThreat(tableMelds(clone), a.Discard)
	if threat.IsThreat() {
		score -= sarfThreatPriorPenalty
	}

	return score
}

// computePriors shifts scores to strictly positive, optionally multiplies
// by a per-action opponent-model factor, and normalizes the result to a
// probability distribution.
func computePriors(scores []float64, opponentFactor []float64) []float64 {
	n := len(scores)
	minScore := math.Inf(1)
	for _, sc := range scores {
		if sc < minScore {
			minScore = sc
		}
	}
	shift := 0.0
	if minScore <= 0 {
		shift = -minScore + 1e-3
	}

	out := make([]float64, n)
	total := 0.0
	for i, sc := range scores {
		v := sc + shift
		if opponentFactor != nil {
			v *= opponentFactor[i]
		}
		out[i] = v
		total += v
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// mixDirichlet blends priors with Dirichlet(alpha) root noise at the given
// weight in (0,1], preserving the sum-to-one and non-negativity of priors.
func mixDirichlet(priors []float64, alpha, weight float64, rng *rand.Rand) []float64 {
	if weight <= 0 {
		return priors
	}
	noise := sampleDirichlet(len(priors), alpha, rng)
	out := make([]float64, len(priors))
	for i := range priors {
		out[i] = (1-weight)*priors[i] + weight*noise[i]
	}
	return out
}

// sampleDirichlet draws a Dirichlet(alpha, ..., alpha) vector of length n
// from n independent Gamma(alpha, 1) draws, normalized to sum to one.
func sampleDirichlet(n int, alpha float64, rng *rand.Rand) []float64 {
	g := make([]float64, n)
	total := 0.0
	for i := range g {
		g[i] = sampleGamma(alpha, rng)
		total += g[i]
	}
	if total == 0 {
		uniform := 1.0 / float64(n)
		for i := range g {
			g[i] = uniform
		}
		return g
	}
	for i := range g {
		g[i] /= total
	}
	return g
}

// sampleGamma draws a Gamma(shape, 1) variate via Marsaglia-Tsang (shape
// >= 1) with the standard boost transform for shape < 1.
func sampleGamma(shape float64, rng *rand.Rand) float64 {
	if shape < 1 {
		u := rng.Float64()
		return sampleGamma(shape+1, rng) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func coverMaskOf(c solver.Cover) cards.Mask {
	var m cards.Mask
	for _, meld := range c.Melds {
		m = m.Union(meld.Cards)
	}
	return m
}

func tableMelds(s *rules.State) []solver.Meld {
	out := make([]solver.Meld, len(s.Table.Melds))
	for i, tm := range s.Table.Melds {
		out[i] = tm.Meld
	}
	return out
}
