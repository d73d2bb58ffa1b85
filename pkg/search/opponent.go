package search

import (
	"github.com/konkan-engine/konkan/pkg/actiongen"
	"github.com/konkan-engine/konkan/pkg/cards"
)

// OpponentModel is a small pure function from a candidate action to a
// positive prior multiplier, tuned by four constants.
type OpponentModel struct {
	TrashPenalty float64
	LaydownBonus float64
	SarfBonus    float64
	JokerPenalty float64
}

// DefaultOpponentModel returns the stock coefficients.
func DefaultOpponentModel() OpponentModel {
	return OpponentModel{
		TrashPenalty: 0.12,
		LaydownBonus: 0.08,
		SarfBonus:    0.05,
		JokerPenalty: 0.4,
	}
}

// minOpponentFactor is the floor every adjustment is clamped to, so an
// action is never driven to a non-positive prior weight by this factor
// alone.
const minOpponentFactor = 0.05

// PriorAdjustment returns the multiplicative factor applied to a's
// heuristic prior score.
func (m OpponentModel) PriorAdjustment(a actiongen.PlayAction) float64 {
	points := float64(cards.Points(a.Discard))
	adjustment := 1.0
	adjustment -= m.TrashPenalty * (points / 10.0)
	if cards.Decode(a.Discard).IsJoker {
		adjustment -= m.JokerPenalty
	}
	if len(a.LayDown) > 0 {
		adjustment += m.LaydownBonus
	}
	if len(a.SarfMoves) > 0 {
		adjustment += m.SarfBonus * float64(len(a.SarfMoves))
	}
	if adjustment < minOpponentFactor {
		return minOpponentFactor
	}
	return adjustment
}
