package analysis

import (
	"math/rand"

	"github.com/bits-and-blooms/bitset"

	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// PublicView is everything the demand estimator needs that every player
// can already observe: the table melds, each opponent's hand size, and the
// pool of cards whose location (opponent hand vs. draw pile) is hidden
// from the root player.
type PublicView struct {
	TableMelds        []solver.Meld
	OpponentHandSizes map[int]int // opponent index -> hand size
	UnknownPool       cards.Mask  // union of all opponents' hands + draw pile
	Threshold         int
}

// DemandEstimator samples hidden-information completions to approximate,
// for a prospective discard, the risk that an opponent could immediately
// sarf-extend a table meld with it, and the risk it would let them reach
// the come-down threshold.
type DemandEstimator struct {
	pool    *solver.Pool
	samples int
}

// NewDemandEstimator builds an estimator drawing samples completions per
// query, backed by a shared solver cache. Fewer than one sample is
// clamped to one.
func NewDemandEstimator(pool *solver.Pool, samples int) *DemandEstimator {
	if samples < 1 {
		samples = 1
	}
	return &DemandEstimator{pool: pool, samples: samples}
}

// Estimate returns, for a prospective discard on the given turn, the
// per-opponent OpponentDemand. turn feeds the reproducible
// seed alongside the opponent index, the card, and the sample index.
func (e *DemandEstimator) Estimate(turn int, view PublicView, discard cards.ID) map[int]OpponentDemand {
	sarfRisk := e.sarfRisk(view, discard)

	// The candidate pool an opponent's sampled hand draws from: every card
	// whose location is hidden, minus the prospective discard itself.
	pool := view.UnknownPool.ToBitSet()
	pool.Clear(uint(discard))

	out := make(map[int]OpponentDemand, len(view.OpponentHandSizes))
	for opponent, handSize := range view.OpponentHandSizes {
		out[opponent] = OpponentDemand{
			SarfRisk:     sarfRisk,
			ComeDownRisk: e.comeDownRisk(turn, opponent, discard, handSize, pool, view.Threshold),
		}
	}
	return out
}

// sarfRisk is deterministic and sample-independent: it asks only whether
// discard legally extends some existing, unsealed table meld, which is
// public information.
func (e *DemandEstimator) sarfRisk(view PublicView, discard cards.ID) float64 {
	if cards.Decode(discard).IsJoker {
		return 0
	}
	d := cards.Decode(discard)
	for _, meld := range view.TableMelds {
		if meld.IsSealed() {
			continue
		}
		switch meld.Kind {
		case solver.SetKind:
			if d.Rank != meld.SetRank {
				continue
			}
			suitTaken := false
			for _, id := range meld.Cards.IDs() {
				if od := cards.Decode(id); !od.IsJoker && od.Suit == d.Suit {
					suitTaken = true
				}
			}
			if !suitTaken {
				return 1
			}
		case solver.RunKind:
			if d.Suit == meld.RunSuit && (d.Rank == meld.RunLow-1 || d.Rank == meld.RunHigh+1 || (meld.HasJoker && d.Rank == meld.JokerRank)) {
				return 1
			}
		}
	}
	return 0
}

func (e *DemandEstimator) comeDownRisk(turn, opponent int, discard cards.ID, handSize int, pool *bitset.BitSet, threshold int) float64 {
	hits := 0
	for i := 0; i < e.samples; i++ {
		seed := seedFor(turn, opponent, int(discard), i)
		rng := rand.New(rand.NewSource(seed))
		sample := sampleHand(pool, handSize, rng).With(discard)
		cover := e.pool.BestCover(sample, solver.MinDeadwoodAtThreshold, threshold)
		if cover.Success {
			hits++
		}
	}
	return float64(hits) / float64(e.samples)
}

func seedFor(turn, opponent, card, sampleIdx int) int64 {
	return int64(turn)*1_000_003 + int64(opponent)*104_729 + int64(card)*7_919 + int64(sampleIdx)*31
}

// sampleHand draws n cards uniformly without replacement from pool.
func sampleHand(pool *bitset.BitSet, n int, rng *rand.Rand) cards.Mask {
	ids := make([]cards.ID, 0, pool.Count())
	for i, ok := pool.NextSet(0); ok; i, ok = pool.NextSet(i + 1) {
		ids = append(ids, cards.ID(i))
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if n > len(ids) {
		n = len(ids)
	}
	return cards.MaskFromIDs(ids[:n])
}
