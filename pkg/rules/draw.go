package rules

import (
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// DrawKind distinguishes the two draw sources.
type DrawKind int

const (
	DrawFromStock DrawKind = iota
	DrawFromTrash
)

func (k DrawKind) String() string {
	if k == DrawFromTrash {
		return "trash"
	}
	return "stock"
}

// DrawAction is a legal draw choice.
type DrawAction struct {
	Kind DrawKind
}

// LegalDrawActions returns the draw actions available to player right now.
func LegalDrawActions(s *State, player int) []DrawAction {
	if s.Public.TurnIndex != player || s.Players[player].Phase != AwaitingDraw {
		return nil
	}
	var actions []DrawAction
	if len(s.Public.DrawPile) > 0 || len(s.Public.TrashPile) > 1 {
		actions = append(actions, DrawAction{Kind: DrawFromStock})
	}
	if canDrawFromTrash(s, player) {
		actions = append(actions, DrawAction{Kind: DrawFromTrash})
	}
	return actions
}

func canDrawFromTrash(s *State, player int) bool {
	top, ok := s.Public.TopTrash()
	if !ok {
		return false
	}
	if s.Public.LastDiscarderIndex == player {
		return false
	}
	if player == s.OpenerIndex() && !s.Public.OpenerHasDiscarded && !s.Config.AllowTrashFirstTurn {
		return false
	}
	p := &s.Players[player]
	if p.HasComeDown {
		return true
	}
	candidate := p.Hand.With(top)
	cover := s.Pool.BestCover(candidate, solver.MinDeadwoodAtThreshold, s.EffectiveThreshold())
	return cover.Success
}

// recycleDiscardPile moves every trash card but the top back into the
// draw pile, shuffled, keeping only the top card in the trash pile.
func (s *State) recycleDiscardPile() {
	top := popLast(&s.Public.TrashPile)
	recycled := s.Public.TrashPile
	s.Public.TrashPile = []cards.ID{top}
	if s.Rng != nil {
		cards.Shuffle(recycled, s.Rng)
	}
	s.Public.DrawPile = append(recycled, s.Public.DrawPile...)
}

// ApplyDraw mutates state in place, advancing player from awaiting-draw to
// awaiting-discard.
func ApplyDraw(s *State, player int, action DrawAction) error {
	if s.Public.TurnIndex != player {
		return illegalDraw("not player %d's turn", player)
	}
	p := &s.Players[player]
	if p.Phase != AwaitingDraw {
		return illegalDraw("player %d is %s, not awaiting draw", player, p.Phase)
	}

	switch action.Kind {
	case DrawFromStock:
		if len(s.Public.DrawPile) == 0 {
			if len(s.Public.TrashPile) <= 1 {
				return illegalDraw("stock empty and trash too small to recycle")
			}
			s.recycleDiscardPile()
		}
		if len(s.Public.DrawPile) == 0 {
			return programmingFault("draw pile still empty after recycle")
		}
		p.Hand = p.Hand.With(popLast(&s.Public.DrawPile))
	case DrawFromTrash:
		if !canDrawFromTrash(s, player) {
			return illegalDraw("trash draw not eligible for player %d", player)
		}
		p.Hand = p.Hand.With(popLast(&s.Public.TrashPile))
	default:
		return programmingFault("unknown draw action kind %d", action.Kind)
	}

	p.Phase = AwaitingDiscard
	logger.Debug().Int("player", player).Stringer("source", action.Kind).Msg("draw")
	return nil
}
