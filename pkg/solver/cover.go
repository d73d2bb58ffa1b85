package solver

import "github.com/konkan-engine/konkan/pkg/cards"

// Objective selects which of the three scoring rules BestCover optimizes.
type Objective int

const (
	// MaxCards maximizes the number of cards covered by chosen melds.
	MaxCards Objective = iota
	// MinDeadwoodAtThreshold minimizes uncovered cards among covers whose
	// total meld points are >= a threshold; infeasible if none qualify.
	MinDeadwoodAtThreshold
	// First14 seeks any cover that accounts for at least 14 cards (or the
	// whole hand, if smaller), without a points requirement.
	First14
)

// Cover is the result of a BestCover solve.
type Cover struct {
	Melds        []Meld
	CoveredCards int
	TotalPoints  int
	JokersUsed   int
	Success      bool
}

// Solver holds a mask's candidate melds and a memo of sub-solves keyed by
// remaining mask. The memo is objective-agnostic: for each remaining mask
// it stores the Pareto frontier of achievable (coveredCards, points,
// jokersUsed) combinations, one entry per coveredCards count, so a single
// Solver instance answers MaxCards, MinDeadwoodAtThreshold, and First14
// queries (at any threshold) without re-deriving the combinatorics.
type Solver struct {
	candidates []Meld
	byCard     map[cards.ID][]int
	memo       map[memoKey]map[int]Cover
}

type memoKey struct {
	hi, lo uint64
}

// NewSolver builds candidate melds for mask and prepares it for BestCover
// queries against that mask or any sub-mask of it.
func NewSolver(mask cards.Mask) *Solver {
	cand := EnumerateMelds(mask)
	sortCandidatesCanonically(cand)

	byCard := make(map[cards.ID][]int)
	for i, m := range cand {
		for _, id := range m.Cards.IDs() {
			byCard[id] = append(byCard[id], i)
		}
	}
	return &Solver{candidates: cand, byCard: byCard, memo: make(map[memoKey]map[int]Cover)}
}

func sortCandidatesCanonically(cand []Meld) {
	less := func(i, j int) bool {
		a, b := cand[i], cand[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Cards.Hi != b.Cards.Hi {
			return a.Cards.Hi < b.Cards.Hi
		}
		return a.Cards.Lo < b.Cards.Lo
	}
	// Insertion sort keeps this dependency-free and the code short; candidate
	// counts per hand are small enough that this never matters in practice.
	for i := 1; i < len(cand); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			cand[j], cand[j-1] = cand[j-1], cand[j]
		}
	}
}

// BestCover finds the best disjoint selection of candidate melds covering
// mask (a subset of the mask the Solver was built from) for the given
// objective and threshold (only consulted for MinDeadwoodAtThreshold).
func (s *Solver) BestCover(mask cards.Mask, objective Objective, threshold int) Cover {
	frontier := s.solve(mask)
	handSize := mask.Popcount()

	var best Cover
	found := false
	for covered, c := range frontier {
		if !feasible(objective, covered, c.TotalPoints, threshold, handSize) {
			continue
		}
		if !found || better(objective, c, best) {
			best, found = c, true
		}
	}
	best.Success = found
	return best
}

func feasible(objective Objective, covered, points, threshold, handSize int) bool {
	switch objective {
	case MinDeadwoodAtThreshold:
		return points >= threshold
	case First14:
		return covered >= 14 || covered == handSize
	default:
		return true
	}
}

// solve returns the Pareto frontier for remaining: for each achievable
// coveredCards count, the cover with the highest points, breaking ties by
// fewest jokers then lexicographically smallest meld-id list.
func (s *Solver) solve(remaining cards.Mask) map[int]Cover {
	if remaining.IsEmpty() {
		return map[int]Cover{0: {}}
	}

	key := memoKey{remaining.Hi, remaining.Lo}
	if f, ok := s.memo[key]; ok {
		return f
	}

	card := remaining.IDs()[0]
	frontier := map[int]Cover{}

	mergeAll(frontier, s.solve(remaining.Without(card)))

	for _, idx := range s.byCard[card] {
		m := s.candidates[idx]
		if !m.Cards.IsSubsetOf(remaining) {
			continue
		}
		for _, sub := range s.solve(remaining.Minus(m.Cards)) {
			cand := Cover{
				Melds:        append(append([]Meld(nil), sub.Melds...), m),
				CoveredCards: sub.CoveredCards + m.NumCards(),
				TotalPoints:  sub.TotalPoints + m.Points,
				JokersUsed:   sub.JokersUsed + boolToInt(m.HasJoker),
			}
			mergeOne(frontier, cand)
		}
	}

	s.memo[key] = frontier
	return frontier
}

func mergeAll(into map[int]Cover, from map[int]Cover) {
	for _, c := range from {
		mergeOne(into, c)
	}
}

func mergeOne(frontier map[int]Cover, c Cover) {
	existing, ok := frontier[c.CoveredCards]
	if !ok || frontierBetter(c, existing) {
		frontier[c.CoveredCards] = c
	}
}

// frontierBetter orders same-coveredCards covers by more points, then
// fewer jokers, then a lexicographically smaller meld-id list. This order
// is objective-agnostic: for a fixed coveredCards count, more points never
// hurts any of the three objectives.
func frontierBetter(a, b Cover) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	if a.JokersUsed != b.JokersUsed {
		return a.JokersUsed < b.JokersUsed
	}
	return lexLess(a.Melds, b.Melds)
}

// better orders covers with differing coveredCards according to the active
// objective's primary rule, then falls back to the shared tie-break chain.
func better(objective Objective, a, b Cover) bool {
	switch objective {
	case MinDeadwoodAtThreshold, First14, MaxCards:
		if a.CoveredCards != b.CoveredCards {
			return a.CoveredCards > b.CoveredCards
		}
	}
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	if a.JokersUsed != b.JokersUsed {
		return a.JokersUsed < b.JokersUsed
	}
	return lexLess(a.Melds, b.Melds)
}

// lexLess compares two meld lists by their canonical sort key sequence.
func lexLess(a, b []Meld) bool {
	an, bn := len(a), len(b)
	for i := 0; i < an && i < bn; i++ {
		if a[i].Cards.Hi != b[i].Cards.Hi {
			return a[i].Cards.Hi < b[i].Cards.Hi
		}
		if a[i].Cards.Lo != b[i].Cards.Lo {
			return a[i].Cards.Lo < b[i].Cards.Lo
		}
	}
	return an < bn
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
