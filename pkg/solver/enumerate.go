package solver

import "github.com/konkan-engine/konkan/pkg/cards"

// EnumerateMelds returns every legal meld (set or run, with at most one
// joker each) whose card-set is a subset of mask. Sets are generated per
// rank over every size-3 and size-4 subset of present suits, plus every
// 2- or 3-suit subset completed by a joker filling a missing suit; runs
// are generated per suit over every rank window of length >=3, each with
// at most one joker-filled gap. Candidates that differ only in which physical
// joker identifier (or which of two same-rank-suit copies) fills a slot
// are enumerated separately so the cover solver can choose the specific
// card left free for another meld.
func EnumerateMelds(mask cards.Mask) []Meld {
	jokers := jokerIDsIn(mask)

	var out []Meld
	out = append(out, enumerateSets(mask, jokers)...)
	out = append(out, enumerateRuns(mask, jokers)...)
	return out
}

func jokerIDsIn(mask cards.Mask) []cards.ID {
	var js []cards.ID
	if mask.Has(cards.JokerBlackID) {
		js = append(js, cards.JokerBlackID)
	}
	if mask.Has(cards.JokerRedID) {
		js = append(js, cards.JokerRedID)
	}
	return js
}

var allSuits = [4]cards.Suit{cards.Spades, cards.Hearts, cards.Diamonds, cards.Clubs}

func enumerateSets(mask cards.Mask, jokers []cards.ID) []Meld {
	var out []Meld
	for rank := cards.Ace; rank <= cards.King; rank++ {
		// candidatesBySuit[s] holds the 0, 1, or 2 identifiers of this rank
		// present for suit s (two copies can both be present).
		var candidatesBySuit [4][]cards.ID
		presentSuits := make([]int, 0, 4)
		for si, suit := range allSuits {
			for copy := 0; copy < 2; copy++ {
				id := cards.Encode(suit, rank, copy)
				if mask.Has(id) {
					candidatesBySuit[si] = append(candidatesBySuit[si], id)
				}
			}
			if len(candidatesBySuit[si]) > 0 {
				presentSuits = append(presentSuits, si)
			}
		}

		// Without a joker: 3 or 4 distinct suits.
		for _, suitSubset := range suitSubsets(presentSuits, 3) {
			out = append(out, combosForSuitSubset(rank, suitSubset, candidatesBySuit, allSuits, -1, 0)...)
		}
		if len(jokers) == 0 {
			continue
		}
		// With a joker filling one missing suit: 2 or 3 real suits. Each
		// choice of filled suit is a distinct meld because the joker's
		// represented suit decides which card may later swap it out.
		for _, suitSubset := range suitSubsets(presentSuits, 2) {
			if len(suitSubset) == 4 {
				continue
			}
			for _, missing := range missingSuitIndexes(suitSubset) {
				for _, jk := range jokers {
					out = append(out, combosForSuitSubset(rank, suitSubset, candidatesBySuit, allSuits, missing, jk)...)
				}
			}
		}
	}
	return out
}

// suitSubsets returns every subset of the given present-suit indices of at
// least minSize members (at most 4 present, so this is a handful of combos).
func suitSubsets(present []int, minSize int) [][]int {
	var out [][]int
	n := len(present)
	for mask := 1; mask < (1 << n); mask++ {
		var subset []int
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, present[i])
			}
		}
		if len(subset) >= minSize {
			out = append(out, subset)
		}
	}
	return out
}

func missingSuitIndexes(subset []int) []int {
	has := [4]bool{}
	for _, s := range subset {
		has[s] = true
	}
	var out []int
	for i := 0; i < 4; i++ {
		if !has[i] {
			out = append(out, i)
		}
	}
	return out
}

// combosForSuitSubset materializes every combination of copy choices for
// the given suit subset, optionally substituting jokerID for jokerSuitIdx.
func combosForSuitSubset(rank cards.Rank, suitSubset []int, candidatesBySuit [4][]cards.ID, suits [4]cards.Suit, jokerSuitIdx int, jokerID cards.ID) []Meld {
	// Build the list of (suit index -> option list) to take the cartesian
	// product over, skipping the joker-filled suit.
	type slot struct {
		suitIdx int
		options []cards.ID
	}
	var slots []slot
	for _, si := range suitSubset {
		if si == jokerSuitIdx {
			continue
		}
		slots = append(slots, slot{suitIdx: si, options: candidatesBySuit[si]})
	}

	var out []Meld
	choice := make([]cards.ID, len(slots))
	var rec func(i int)
	rec = func(i int) {
		if i == len(slots) {
			m := cards.Mask{}
			for _, id := range choice {
				m = m.With(id)
			}
			meld := Meld{Kind: SetKind, SetRank: rank}
			if jokerSuitIdx >= 0 {
				m = m.With(jokerID)
				meld.HasJoker = true
				meld.JokerID = jokerID
				meld.JokerSuit = suits[jokerSuitIdx]
			}
			meld.Cards = m
			meld.recomputePoints()
			out = append(out, meld)
			return
		}
		for _, opt := range slots[i].options {
			choice[i] = opt
			rec(i + 1)
		}
	}
	rec(0)
	return out
}

func enumerateRuns(mask cards.Mask, jokers []cards.ID) []Meld {
	var out []Meld
	for _, suit := range allSuits {
		// candidates[r] holds the 0, 1, or 2 identifiers of rank r present
		// in this suit.
		var candidates [cards.NumRanks][]cards.ID
		for r := cards.Ace; r <= cards.King; r++ {
			for copy := 0; copy < 2; copy++ {
				id := cards.Encode(suit, r, copy)
				if mask.Has(id) {
					candidates[r] = append(candidates[r], id)
				}
			}
		}

		for length := 3; length <= cards.NumRanks; length++ {
			for start := 0; start+length <= cards.NumRanks; start++ {
				out = append(out, runWindowMelds(suit, cards.Rank(start), length, candidates, jokers)...)
			}
		}
	}
	return out
}

func runWindowMelds(suit cards.Suit, start cards.Rank, length int, candidates [cards.NumRanks][]cards.ID, jokers []cards.ID) []Meld {
	var missingPos = -1
	missingCount := 0
	for i := 0; i < length; i++ {
		r := int(start) + i
		if len(candidates[r]) == 0 {
			missingCount++
			missingPos = i
		}
	}
	if missingCount > 1 {
		return nil
	}
	if missingCount == 1 && len(jokers) == 0 {
		return nil
	}

	type slot struct {
		rank    cards.Rank
		options []cards.ID
	}
	var slots []slot
	for i := 0; i < length; i++ {
		r := int(start) + i
		if i == missingPos {
			continue
		}
		slots = append(slots, slot{rank: cards.Rank(r), options: candidates[r]})
	}

	jokerChoices := []cards.ID{0}
	usingJoker := missingCount == 1
	if usingJoker {
		jokerChoices = jokers
	}

	var out []Meld
	choice := make([]cards.ID, len(slots))
	var rec func(i int)
	rec = func(i int) {
		if i == len(slots) {
			for _, jk := range jokerChoices {
				m := cards.Mask{}
				for _, id := range choice {
					m = m.With(id)
				}
				meld := Meld{
					Kind:    RunKind,
					RunSuit: suit,
					RunLow:  start,
					RunHigh: start + cards.Rank(length-1),
				}
				if usingJoker {
					m = m.With(jk)
					meld.HasJoker = true
					meld.JokerID = jk
					meld.JokerRank = cards.Rank(int(start) + missingPos)
				}
				meld.Cards = m
				meld.recomputePoints()
				out = append(out, meld)
				if !usingJoker {
					break
				}
			}
			return
		}
		for _, opt := range slots[i].options {
			choice[i] = opt
			rec(i + 1)
		}
	}
	rec(0)
	return out
}
