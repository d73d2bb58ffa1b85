// Package actiongen generates legal draw and play actions for a Konkan
// turn: a discard-capped, analyzer-ranked candidate list for pure
// discards, lay-down variants, and sarf variants, every one validated by
// simulating it on a shallow clone before it is exposed.
package actiongen

import (
	"sort"

	"github.com/konkan-engine/konkan/pkg/analysis"
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/rules"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// PlayAction is a tagged play-phase action: a pure discard when LayDown
// and SarfMoves are both empty, a lay-down-then-discard when LayDown is
// set, or a sarf-then-discard when SarfMoves is set. The three are
// mutually exclusive in practice: a single turn lays down or sarfs,
// never both.
type PlayAction struct {
	Discard   cards.ID
	LayDown   []solver.Meld
	SarfMoves []rules.SarfExtension
}

// IsPureDiscard reports whether a is a bare discard with no table action.
func (a PlayAction) IsPureDiscard() bool {
	return len(a.LayDown) == 0 && len(a.SarfMoves) == 0
}

// Apply plays a on s for player: lay-down first, then each sarf move,
// then the discard. The state is mutated in place; a failure at any step
// leaves the earlier steps applied, so speculative callers should work on
// a clone.
func Apply(s *rules.State, player int, a PlayAction) error {
	if len(a.LayDown) > 0 {
		if err := rules.ApplyLayDown(s, player, a.LayDown); err != nil {
			return err
		}
	}
	for _, ext := range a.SarfMoves {
		if err := rules.ApplySarfExtend(s, player, ext); err != nil {
			return err
		}
	}
	return rules.ApplyDiscard(s, player, a.Discard)
}

// Generator produces ranked, validated action candidates for one player's
// turn, backed by a shared solver pool and the analyzer's keep-value
// weights.
type Generator struct {
	Pool    *solver.Pool
	Weights analysis.Weights
}

// NewGenerator builds a Generator over a shared solver cache.
func NewGenerator(pool *solver.Pool, weights analysis.Weights) *Generator {
	return &Generator{Pool: pool, Weights: weights}
}

// LegalDrawActions is a thin passthrough to the rules engine's draw
// legality check, kept here so callers need only import actiongen for
// both halves of a turn.
func (g *Generator) LegalDrawActions(s *rules.State, player int) []rules.DrawAction {
	return rules.LegalDrawActions(s, player)
}

// LegalPlayActions returns up to maxCandidates pure discards, up to
// maxCandidates lay-down variants, and up to maxCandidates sarf variants
// for player, or nil if it is not player's turn or they are not in the
// awaiting-discard phase. maxCandidates <= 0 falls back to
// s.Config.DiscardCap.
func (g *Generator) LegalPlayActions(s *rules.State, player int, maxCandidates int) []PlayAction {
	p := &s.Players[player]
	if s.Public.TurnIndex != player || p.Phase != rules.AwaitingDiscard {
		return nil
	}
	if maxCandidates <= 0 {
		maxCandidates = s.Config.DiscardCap
	}

	threshold := s.EffectiveThreshold()
	ranked := g.rankHand(p.Hand, threshold, gameProgress(s))

	var out []PlayAction
	out = append(out, g.pureDiscards(s, player, ranked, maxCandidates)...)
	out = append(out, g.laydownVariants(s, player, threshold, maxCandidates)...)
	out = append(out, g.sarfVariants(s, player, threshold, maxCandidates)...)
	return out
}

type rankedCard struct {
	id   cards.ID
	keep float64
}

// rankHand orders hand's cards by keep-value ascending (lowest keep value
// first, i.e. most discardable first), tiebreaking by id.
func (g *Generator) rankHand(hand cards.Mask, threshold int, progress float64) []rankedCard {
	az := analysis.NewAnalyzer(g.Pool, threshold, progress)
	metrics := az.Analyze(hand, nil)
	out := make([]rankedCard, len(metrics))
	for i, m := range metrics {
		out[i] = rankedCard{id: m.Card, keep: analysis.KeepValue(m, g.Weights)}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].keep != out[j].keep {
			return out[i].keep < out[j].keep
		}
		return out[i].id < out[j].id
	})
	return out
}

// gameProgress is the exposure term's game-progress input: the fraction
// of the 106-card deck that has left the draw pile so far, in [0,1].
func gameProgress(s *rules.State) float64 {
	remaining := len(s.Public.DrawPile)
	return 1 - float64(remaining)/float64(cards.NumCards)
}

func (g *Generator) pureDiscards(s *rules.State, player int, ranked []rankedCard, max int) []PlayAction {
	var out []PlayAction
	for _, rc := range ranked {
		if len(out) >= max {
			break
		}
		action := PlayAction{Discard: rc.id}
		if err := Apply(s.Clone(), player, action); err != nil {
			continue
		}
		out = append(out, action)
	}
	return out
}

// laydownVariants proposes the canonical best-cover lay-down (the solver
// is deterministic, so there is exactly one) paired with up to max
// distinct surviving discards, chosen by re-ranking the post-laydown hand.
func (g *Generator) laydownVariants(s *rules.State, player int, threshold int, max int) []PlayAction {
	p := &s.Players[player]
	if p.HasComeDown {
		return nil
	}
	cover := g.Pool.BestCover(p.Hand, solver.MinDeadwoodAtThreshold, threshold)
	if !cover.Success {
		return nil
	}

	remaining := p.Hand.Minus(coverMask(cover))
	if remaining.IsEmpty() {
		return nil
	}

	remRanked := g.rankHand(remaining, threshold, gameProgress(s))

	var out []PlayAction
	for _, rc := range remRanked {
		if len(out) >= max {
			break
		}
		action := PlayAction{Discard: rc.id, LayDown: cover.Melds}
		if err := Apply(s.Clone(), player, action); err != nil {
			continue
		}
		out = append(out, action)
	}
	return out
}

// sarfVariants proposes up to max (meld, card) extensions, each paired
// with the best remaining discard after the extension is applied.
func (g *Generator) sarfVariants(s *rules.State, player int, threshold int, max int) []PlayAction {
	p := &s.Players[player]
	if !p.HasComeDown {
		return nil
	}

	var out []PlayAction
	for _, tm := range s.Table.Melds {
		if tm.IsSealed() {
			continue
		}
		for _, id := range p.Hand.IDs() {
			for _, ext := range candidateSarfExtensions(tm, id) {
				if len(out) >= max {
					return out
				}
				clone := s.Clone()
				if err := rules.ApplySarfExtend(clone, player, ext); err != nil {
					continue
				}
				handAfter := clone.Players[player].Hand
				if handAfter.IsEmpty() {
					continue
				}
				remRanked := g.rankHand(handAfter, threshold, gameProgress(clone))
				discardID := remRanked[0].id
				if err := rules.ApplyDiscard(clone, player, discardID); err != nil {
					continue
				}
				out = append(out, PlayAction{Discard: discardID, SarfMoves: []rules.SarfExtension{ext}})
			}
		}
	}
	return out
}

// candidateSarfExtensions proposes the SarfExtension(s) that id might form
// against tm, without validating legality (the caller validates by
// clone-and-apply). A non-joker card yields exactly one candidate; a
// joker yields zero for a set (a joker may only be swapped into a set,
// never added) or up to two for a run (the two adjacent ranks it could
// represent).
func candidateSarfExtensions(tm rules.TableMeld, id cards.ID) []rules.SarfExtension {
	if !cards.Decode(id).IsJoker {
		return []rules.SarfExtension{{MeldID: tm.ID, Card: id}}
	}
	if tm.Kind != solver.RunKind {
		return nil
	}
	var out []rules.SarfExtension
	if tm.RunLow > cards.Ace {
		out = append(out, rules.SarfExtension{MeldID: tm.ID, Card: id, JokerRepresents: tm.RunLow - 1})
	}
	if tm.RunHigh < cards.King {
		out = append(out, rules.SarfExtension{MeldID: tm.ID, Card: id, JokerRepresents: tm.RunHigh + 1})
	}
	return out
}

func coverMask(c solver.Cover) cards.Mask {
	var m cards.Mask
	for _, meld := range c.Melds {
		m = m.Union(meld.Cards)
	}
	return m
}
