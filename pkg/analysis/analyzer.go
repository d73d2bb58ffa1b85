// Package analysis implements the hand analyzer and opponent-demand
// estimator: per-card structural metrics plus a single keep-value score
// used to rank discard candidates.
package analysis

import (
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// OpponentDemand is the sampled risk an opponent poses for a prospective
// discard: the chance they could sarf-extend a table meld with it, and the
// chance it lets them reach the come-down threshold.
type OpponentDemand struct {
	SarfRisk     float64
	ComeDownRisk float64
}

// Total combines the two risk components into the single scalar the
// keep-value formula subtracts.
func (d OpponentDemand) Total() float64 { return (d.SarfRisk + d.ComeDownRisk) / 2 }

// CardMetrics holds every structural signal the keep-value formula
// consumes for one card of a hand.
type CardMetrics struct {
	Card cards.ID

	InBaselineCover bool
	CoverPointsDrop int
	CoverCardsDrop  int

	SetPotential int // distinct suits of c's rank held, plus joker count

	RunLeft   int // consecutive same-suit neighbors extending down in rank
	RunRight  int // consecutive same-suit neighbors extending up in rank
	GapBridge bool

	DuplicatesSameSuit  int
	ExposurePenalty     float64
	OpponentDemandTotal float64
}

// NearRun reports whether c already sits in a near-complete run (two or
// more consecutive neighbors already held).
func (m CardMetrics) NearRun() bool { return m.RunLeft+m.RunRight >= 2 }

// NeedsForRun is the minimal count of additional distinct cards required
// to complete a 3-card run containing c, given the neighbors already held.
func (m CardMetrics) NeedsForRun() int {
	need := 2 - (m.RunLeft + m.RunRight)
	if need < 0 {
		return 0
	}
	return need
}

// KeepValue applies the fixed linear combination over a card's metrics.
// Higher is better to keep; lower (most negative) ranks first for discard.
func KeepValue(m CardMetrics, w Weights) float64 {
	v := 0.0
	if m.InBaselineCover {
		v += w.InBaselineCover
	}
	v += w.CoverPointsDrop * float64(m.CoverPointsDrop)
	v += w.CoverCardsDrop * float64(m.CoverCardsDrop)
	v += w.SetPotential * maxFloat(0, float64(m.SetPotential-2))
	v += w.RunAdjacency * float64(m.RunLeft+m.RunRight)
	if m.NearRun() {
		v += w.NearRun
	}
	if m.GapBridge {
		v += w.GapBridge
	}
	if m.NeedsForRun() == 1 {
		v += w.NeedsForRunOne
	}
	v -= w.DuplicatesSameSuit * float64(m.DuplicatesSameSuit)
	v -= w.ExposurePenalty * m.ExposurePenalty
	v -= w.OpponentDemand * m.OpponentDemandTotal
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Analyzer computes per-card metrics over a hand using a cached solver
// pool, so repeated marginal-cost queries (best cover of hand minus one
// card, for every card) reuse earlier solver results.
type Analyzer struct {
	pool      *solver.Pool
	threshold int
	progress  float64 // game progress in [0,1], for the exposure term
}

// NewAnalyzer builds an analyzer against a shared solver cache. threshold
// is the effective come-down threshold in force; progress is the caller's
// normalized game-progress signal (e.g. turn index over remaining pile
// size) used by the exposure-penalty term.
func NewAnalyzer(pool *solver.Pool, threshold int, progress float64) *Analyzer {
	return &Analyzer{pool: pool, threshold: threshold, progress: clamp(progress, 0, 1)}
}

// Analyze computes CardMetrics for every card in hand. demand, if non-nil,
// supplies the per-card opponent-demand total; a nil demand map
// treats every card's opponent demand as zero, matching a solo or
// demand-disabled context.
func (a *Analyzer) Analyze(hand cards.Mask, demand map[cards.ID]OpponentDemand) []CardMetrics {
	baseline := a.pool.BestCover(hand, solver.MinDeadwoodAtThreshold, a.threshold)
	baselineMask := coverMask(baseline)

	out := make([]CardMetrics, 0, hand.Popcount())
	for _, id := range hand.IDs() {
		if cards.Decode(id).IsJoker {
			out = append(out, a.jokerMetrics(id, demand))
			continue
		}
		out = append(out, a.cardMetrics(id, hand, baseline, baselineMask, demand))
	}
	return out
}

func (a *Analyzer) jokerMetrics(id cards.ID, demand map[cards.ID]OpponentDemand) CardMetrics {
	m := CardMetrics{Card: id}
	if demand != nil {
		m.OpponentDemandTotal = demand[id].Total()
	}
	m.ExposurePenalty = 0 // a joker's intrinsic points are zero
	return m
}

func (a *Analyzer) cardMetrics(id cards.ID, hand cards.Mask, baseline solver.Cover, baselineMask cards.Mask, demand map[cards.ID]OpponentDemand) CardMetrics {
	without := hand.Without(id)
	drop := a.pool.BestCover(without, solver.MinDeadwoodAtThreshold, a.threshold)

	m := CardMetrics{
		Card:            id,
		InBaselineCover: baselineMask.Has(id),
		CoverPointsDrop: baseline.TotalPoints - drop.TotalPoints,
		CoverCardsDrop:  baseline.CoveredCards - drop.CoveredCards,
	}

	d := cards.Decode(id)
	m.SetPotential = setPotential(id, hand)
	m.RunLeft, m.RunRight, m.GapBridge = runAdjacency(id, hand)
	m.DuplicatesSameSuit = duplicatesSameSuit(id, hand)
	m.ExposurePenalty = float64(d.Rank.Points()) * a.progress
	if demand != nil {
		m.OpponentDemandTotal = demand[id].Total()
	}
	return m
}

func coverMask(c solver.Cover) cards.Mask {
	var m cards.Mask
	for _, meld := range c.Melds {
		m = m.Union(meld.Cards)
	}
	return m
}

// setPotential counts the distinct suits of c's rank already held, plus
// the number of jokers held (each a candidate substitute for a 4th suit).
func setPotential(id cards.ID, hand cards.Mask) int {
	d := cards.Decode(id)
	suits := map[cards.Suit]bool{}
	for _, other := range hand.IDs() {
		od := cards.Decode(other)
		if !od.IsJoker && od.Rank == d.Rank {
			suits[od.Suit] = true
		}
	}
	jokers := 0
	if hand.Has(cards.JokerBlackID) {
		jokers++
	}
	if hand.Has(cards.JokerRedID) {
		jokers++
	}
	return len(suits) + jokers
}

// runAdjacency counts consecutive same-suit neighbors of c already held,
// extending down (left) and up (right) in rank, and reports whether a
// single missing rank would bridge two held groups into one run.
func runAdjacency(id cards.ID, hand cards.Mask) (left, right int, gapBridge bool) {
	d := cards.Decode(id)

	held := func(r cards.Rank) bool {
		if r < cards.Ace || r > cards.King {
			return false
		}
		return hand.Has(cards.Encode(d.Suit, r, 0)) || hand.Has(cards.Encode(d.Suit, r, 1))
	}

	for r := d.Rank - 1; r >= cards.Ace && held(r); r-- {
		left++
	}
	for r := d.Rank + 1; r <= cards.King && held(r); r++ {
		right++
	}

	// A gap bridge: the rank one past the contiguous left run, or one past
	// the contiguous right run, is itself held beyond a single empty slot.
	if !held(d.Rank-cards.Rank(left)-1) && held(d.Rank-cards.Rank(left)-2) {
		gapBridge = true
	}
	if !held(d.Rank+cards.Rank(right)+1) && held(d.Rank+cards.Rank(right)+2) {
		gapBridge = true
	}
	return left, right, gapBridge
}

func duplicatesSameSuit(id cards.ID, hand cards.Mask) int {
	d := cards.Decode(id)
	count := 0
	for copy := 0; copy < 2; copy++ {
		other := cards.Encode(d.Suit, d.Rank, copy)
		if other != id && hand.Has(other) {
			count++
		}
	}
	return count
}
