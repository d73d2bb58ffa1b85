package rules

import (
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// ApplyLayDown moves melds from player's hand onto the table as new melds
// they own, provided they have not yet come down and the melds' combined
// points meet the effective threshold.
func ApplyLayDown(s *State, player int, melds []solver.Meld) error {
	if s.Public.TurnIndex != player {
		return illegalLaydown("not player %d's turn", player)
	}
	p := &s.Players[player]
	if p.Phase != AwaitingDiscard {
		return illegalLaydown("player %d is %s, not awaiting discard", player, p.Phase)
	}
	if p.HasComeDown {
		return illegalLaydown("player %d has already come down", player)
	}
	if len(melds) == 0 {
		return illegalLaydown("lay-down must include at least one meld")
	}

	var combined cards.Mask
	totalPoints := 0
	for _, m := range melds {
		if !m.Cards.IsSubsetOf(p.Hand) {
			return illegalLaydown("meld uses cards not held by player %d", player)
		}
		if !combined.Intersect(m.Cards).IsEmpty() {
			return illegalLaydown("lay-down melds overlap")
		}
		combined = combined.Union(m.Cards)
		totalPoints += m.Points
	}

	threshold := s.EffectiveThreshold()
	if totalPoints < threshold {
		return illegalLaydown("cover totals %d points, below threshold %d", totalPoints, threshold)
	}

	for _, m := range melds {
		s.Table.Add(m, player)
	}
	p.Hand = p.Hand.Minus(combined)
	p.HasComeDown = true
	p.InitialLaidPoints = totalPoints
	p.LaidPoints += totalPoints
	if p.LaidPoints > s.Public.HighestLaidPoints {
		s.Public.HighestLaidPoints = p.LaidPoints
	}
	logger.Debug().Int("player", player).Int("melds", len(melds)).Int("points", totalPoints).Msg("lay down")
	return nil
}

// SarfExtension is a (meld, card) sarf action: extend an existing table
// meld with a card from the acting player's hand, swap a physical card in
// for the joker it represents, or (runs only) add a joker itself to
// extend the run at JokerRepresents, the rank it is declared to stand for.
type SarfExtension struct {
	MeldID         int
	Card           cards.ID
	JokerRepresents cards.Rank // meaningful only when Card is a joker
}

// ApplySarfExtend applies a sarf action. It dispatches to a joker-swap
// (the card matches the slot a joker in the meld represents), a pure
// extension (the card opens a genuinely new slot), or a joker added to
// extend a run at a caller-declared position. Adding a joker to a set is
// never legal; only swapping one out is.
func ApplySarfExtend(s *State, player int, ext SarfExtension) error {
	if s.Public.TurnIndex != player {
		return illegalSarf("not player %d's turn", player)
	}
	p := &s.Players[player]
	if p.Phase != AwaitingDiscard {
		return illegalSarf("player %d is %s, not awaiting discard", player, p.Phase)
	}
	if !p.HasComeDown {
		return illegalSarf("player %d has not come down", player)
	}
	if !p.Hand.Has(ext.Card) {
		return illegalSarf("player %d does not hold card %s", player, ext.Card)
	}

	tm, idx, ok := s.Table.Find(ext.MeldID)
	if !ok {
		return illegalSarf("unknown table meld %d", ext.MeldID)
	}
	if tm.IsSealed() {
		return illegalSarf("table meld %d is sealed", ext.MeldID)
	}

	if cards.Decode(ext.Card).IsJoker {
		return applySarfAddJoker(s, p, tm, idx, ext)
	}

	d := cards.Decode(ext.Card)
	var returnedJoker cards.ID
	swapped := false
	switch tm.Kind {
	case solver.SetKind:
		if d.Rank != tm.SetRank {
			return illegalSarf("card rank does not match set rank")
		}
		if isJokerSwapSlot(*tm, d) {
			returnedJoker = tm.JokerID
			swapped = true
			swapJokerIntoSet(tm, ext.Card)
		} else if setHasFreeSuit(*tm, d.Suit) {
			tm.Cards = tm.Cards.With(ext.Card)
		} else {
			return illegalSarf("suit already represented in set")
		}
	case solver.RunKind:
		if d.Suit != tm.RunSuit {
			return illegalSarf("card suit does not match run suit")
		}
		if isJokerSwapSlot(*tm, d) {
			returnedJoker = tm.JokerID
			swapped = true
			swapJokerIntoRun(tm, ext.Card)
		} else if d.Rank == tm.RunLow-1 {
			tm.RunLow = d.Rank
			tm.Cards = tm.Cards.With(ext.Card)
		} else if d.Rank == tm.RunHigh+1 {
			tm.RunHigh = d.Rank
			tm.Cards = tm.Cards.With(ext.Card)
		} else {
			return illegalSarf("card does not extend the run")
		}
	default:
		return programmingFault("unknown meld kind %d", tm.Kind)
	}

	if swapped {
		// The joker leaves the table, so whoever contributed it loses its
		// represented-rank points; the incoming card scores the same rank
		// for the acting player.
		prevOwner := s.Table.CardOwner[returnedJoker]
		s.Players[prevOwner].LaidPoints -= d.Rank.Points()
		delete(s.Table.CardOwner, returnedJoker)
	}
	s.Table.CardOwner[ext.Card] = player
	p.Hand = p.Hand.Without(ext.Card)
	if swapped {
		p.Hand = p.Hand.With(returnedJoker)
	}

	contribution := cards.PointsAs(ext.Card, tm.RepresentedRank(ext.Card))
	p.LaidPoints += contribution
	if p.LaidPoints > s.Public.HighestLaidPoints {
		s.Public.HighestLaidPoints = p.LaidPoints
	}
	tm.recomputeMeldPoints()
	s.Table.Melds[idx] = *tm
	logger.Debug().Int("player", player).Stringer("card", ext.Card).Int("meld", ext.MeldID).Bool("swap", swapped).Msg("sarf")
	return nil
}

// applySarfAddJoker handles adding a joker (rather than swapping one in)
// to extend a meld. Forbidden for sets; for runs, legal only when it
// extends the run by exactly one position at the declared rank and that
// position is adjacent to an existing end (never a mid-run gap fill,
// which would be ambiguous without a second anchor card).
func applySarfAddJoker(s *State, p *PlayerState, tm *TableMeld, idx int, ext SarfExtension) error {
	if tm.Kind == solver.SetKind {
		return illegalSarf("a joker cannot be added to a set, only swapped in")
	}
	if tm.HasJoker {
		return illegalSarf("run already has a joker")
	}
	if ext.Card != cards.JokerBlackID && ext.Card != cards.JokerRedID {
		return illegalSarf("card %s is not a joker", ext.Card)
	}

	switch {
	case tm.RunLow > cards.Ace && ext.JokerRepresents == tm.RunLow-1:
		tm.RunLow = ext.JokerRepresents
	case tm.RunHigh < cards.King && ext.JokerRepresents == tm.RunHigh+1:
		tm.RunHigh = ext.JokerRepresents
	default:
		return illegalSarf("joker must extend the run at an adjacent end")
	}

	tm.HasJoker = true
	tm.JokerID = ext.Card
	tm.JokerRank = ext.JokerRepresents
	tm.Cards = tm.Cards.With(ext.Card)

	s.Table.CardOwner[ext.Card] = p.Index
	p.Hand = p.Hand.Without(ext.Card)

	p.LaidPoints += ext.JokerRepresents.Points()
	if p.LaidPoints > s.Public.HighestLaidPoints {
		s.Public.HighestLaidPoints = p.LaidPoints
	}
	tm.recomputeMeldPoints()
	s.Table.Melds[idx] = *tm
	logger.Debug().Int("player", p.Index).Stringer("card", ext.Card).Int("meld", ext.MeldID).Msg("sarf joker")
	return nil
}

func isJokerSwapSlot(tm TableMeld, d cards.Decoded) bool {
	if !tm.HasJoker {
		return false
	}
	if tm.Kind == solver.SetKind {
		return d.Suit == tm.JokerSuit
	}
	return d.Rank == tm.JokerRank
}

func setHasFreeSuit(tm TableMeld, suit cards.Suit) bool {
	if tm.Cards.Popcount() >= 4 {
		return false
	}
	for _, id := range tm.Cards.IDs() {
		if id == tm.JokerID {
			continue
		}
		if cards.Decode(id).Suit == suit {
			return false
		}
	}
	if tm.HasJoker && tm.JokerSuit == suit {
		return false
	}
	return true
}

func swapJokerIntoSet(tm *TableMeld, realCard cards.ID) {
	jokerID := tm.JokerID
	tm.Cards = tm.Cards.Without(jokerID).With(realCard)
	tm.HasJoker = false
}

func swapJokerIntoRun(tm *TableMeld, realCard cards.ID) {
	jokerID := tm.JokerID
	tm.Cards = tm.Cards.Without(jokerID).With(realCard)
	tm.HasJoker = false
}

// recomputeMeldPoints recomputes Points after Cards/HasJoker change; it
// mirrors solver.Meld.recomputePoints, unexported to that package.
func (tm *TableMeld) recomputeMeldPoints() {
	total := 0
	for _, id := range tm.Cards.IDs() {
		total += cards.PointsAs(id, tm.RepresentedRank(id))
	}
	tm.Points = total
}

// ApplyDiscard moves a card from player's hand to the trash pile and
// advances the turn to the next player.
func ApplyDiscard(s *State, player int, card cards.ID) error {
	if s.Public.TurnIndex != player {
		return illegalDiscard("not player %d's turn", player)
	}
	p := &s.Players[player]
	if p.Phase != AwaitingDiscard {
		return illegalDiscard("player %d is %s, not awaiting discard", player, p.Phase)
	}
	if !p.Hand.Has(card) {
		return illegalDiscard("player %d does not hold card %s", player, card)
	}

	p.Hand = p.Hand.Without(card)
	s.Public.TrashPile = append(s.Public.TrashPile, card)
	s.Public.LastDiscarderIndex = player
	if player == s.OpenerIndex() {
		s.Public.OpenerHasDiscarded = true
	}

	if p.Hand.IsEmpty() && p.HasComeDown {
		s.Public.WinnerIndex = player
		p.Phase = Complete
		logger.Info().Int("player", player).Msg("round won")
		return nil
	}

	p.Phase = AwaitingDraw
	next := (player + 1) % s.Config.NumPlayers
	s.Public.TurnIndex = next
	s.Players[next].Phase = AwaitingDraw
	logger.Debug().Int("player", player).Stringer("card", card).Msg("discard")
	return nil
}
