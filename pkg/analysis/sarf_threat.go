package analysis

import (
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// SarfThreat reports the specific table melds a candidate discard would
// let the next player immediately sarf-extend. Both the action ranker and
// the search rollout consult it.
type SarfThreat struct {
	Card      cards.ID
	Threatens []solver.Meld
}

// IsThreat reports whether discarding Card enables any sarf at all.
func (t SarfThreat) IsThreat() bool { return len(t.Threatens) > 0 }

// EvaluateSarfThreat checks a single candidate discard against the public
// table melds and returns every unsealed meld it would let a holder of it
// immediately extend.
func EvaluateSarfThreat(tableMelds []solver.Meld, discard cards.ID) SarfThreat {
	threat := SarfThreat{Card: discard}
	if cards.Decode(discard).IsJoker {
		return threat
	}
	d := cards.Decode(discard)
	for _, meld := range tableMelds {
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
				threat.Threatens = append(threat.Threatens, meld)
			}
		case solver.RunKind:
			if d.Suit == meld.RunSuit && (d.Rank == meld.RunLow-1 || d.Rank == meld.RunHigh+1 || (meld.HasJoker && d.Rank == meld.JokerRank)) {
				threat.Threatens = append(threat.Threatens, meld)
			}
		}
	}
	return threat
}
