package search

import (
	"math/rand"

	"github.com/konkan-engine/konkan/pkg/actiongen"
	"github.com/konkan-engine/konkan/pkg/analysis"
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/rules"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// sarfThreatRolloutValue is the large negative value returned directly
// when the rollout's chosen opponent discard enables the next player's
// immediate sarf, short-circuiting the heuristic evaluation.
const sarfThreatRolloutValue = -10.0

// rollout runs at most one opponent turn under a fast policy, then scores
// det for rootPlayer: +1 if rootPlayer has won, -1 if any other player has
// won, else a normalized heuristic.
func rollout(det *rules.State, rootPlayer int, pool *solver.Pool, weights analysis.Weights, rng *rand.Rand) float64 {
	if det.Public.WinnerIndex >= 0 {
		if det.Public.WinnerIndex == rootPlayer {
			return 1.0
		}
		return -1.0
	}

	actor := det.Public.TurnIndex
	if actor != rootPlayer {
		if threatened := applyOpponentTurn(det, actor, pool, weights, rng); threatened {
			return sarfThreatRolloutValue
		}
		if det.Public.WinnerIndex >= 0 {
			if det.Public.WinnerIndex == rootPlayer {
				return 1.0
			}
			return -1.0
		}
	}

	return heuristicValue(det, rootPlayer, pool)
}

// applyOpponentTurn draws for actor (preferring trash when legal), applies
// the highest-prior-scoring play action from actiongen's candidate list,
// and reports whether its discard feeds the next player's immediate sarf.
func applyOpponentTurn(det *rules.State, actor int, pool *solver.Pool, weights analysis.Weights, rng *rand.Rand) bool {
	draws := rules.LegalDrawActions(det, actor)
	if len(draws) == 0 {
		return false
	}
	draw := draws[0]
	for _, d := range draws {
		if d.Kind == rules.DrawFromTrash {
			draw = d
			break
		}
	}
	if err := rules.ApplyDraw(det, actor, draw); err != nil {
		return false
	}

	gen := actiongen.NewGenerator(pool, weights)
	threshold := det.EffectiveThreshold()
	candidates := gen.LegalPlayActions(det, actor, det.Config.DiscardCap)
	if len(candidates) == 0 {
		return false
	}

	best := candidates[0]
	bestScore := priorScore(det, actor, best, pool, threshold)
	for _, c := range candidates[1:] {
		if sc := priorScore(det, actor, c, pool, threshold); sc > bestScore {
			best, bestScore = c, sc
		}
	}

	preDiscard := det.Clone()
	if len(best.LayDown) > 0 {
		_ = rules.ApplyLayDown(preDiscard, actor, best.LayDown)
	}
	for _, ext := range best.SarfMoves {
		_ = rules.ApplySarfExtend(preDiscard, actor, ext)
	}
	threat := analysis.EvaluateSarfThreat(tableMelds(preDiscard), best.Discard)

	if err := actiongen.Apply(det, actor, best); err != nil {
		return false
	}

	return threat.IsThreat()
}

// heuristicValue scores rootPlayer's current hand: negative deadwood
// points, a small bonus per extender card, a flat come-down bonus, and a
// hand-size penalty, normalized to roughly [-1, 1].
func heuristicValue(det *rules.State, rootPlayer int, pool *solver.Pool) float64 {
	p := &det.Players[rootPlayer]
	hand := p.Hand
	if hand.IsEmpty() {
		return 0
	}

	threshold := det.EffectiveThreshold()
	cover := pool.BestCover(hand, solver.MinDeadwoodAtThreshold, threshold)
	covered := coverMaskOf(cover)

	deadwood := 0
	ids := hand.IDs()
	for _, id := range ids {
		if !covered.Has(id) {
			deadwood += cards.Points(id)
		}
	}

	extenders := countExtenders(ids)

	score := -float64(deadwood)
	score += 0.35 * float64(extenders)
	if p.HasComeDown {
		score += 5.0
	}
	score -= float64(len(ids))

	return score / 100.0
}

// countExtenders sums, over every non-joker card in ids, 1 if another
// card of the same rank is present (set extender) plus 1 if a card of
// the same suit one rank above or below is present (run extender).
func countExtenders(ids []cards.ID) int {
	total := 0
	for i, id := range ids {
		d := cards.Decode(id)
		if d.IsJoker {
			continue
		}
		duplicate, runNeighbor := false, false
		for j, other := range ids {
			if i == j {
				continue
			}
			od := cards.Decode(other)
			if od.IsJoker {
				continue
			}
			if od.Rank == d.Rank {
				duplicate = true
			}
			if od.Suit == d.Suit && (od.Rank == d.Rank-1 || od.Rank == d.Rank+1) {
				runNeighbor = true
			}
		}
		if duplicate {
			total++
		}
		if runNeighbor {
			total++
		}
	}
	return total
}
