package rules

import "github.com/konkan-engine/konkan/pkg/cards"

// PlayerScore is one player's final tally.
type PlayerScore struct {
	PlayerIndex    int
	LaidPoints     int
	DeadwoodPoints int
	Net            int
	Won            bool
}

// FinalScores computes the round's result. It is only meaningful once
// Public.WinnerIndex is set; the caller is responsible for that check, and
// this returns the scores as computed from whatever state it is given.
func FinalScores(s *State) []PlayerScore {
	out := make([]PlayerScore, len(s.Players))
	for i, p := range s.Players {
		laid := s.Table.LaidPointsFor(i)
		deadwood := handDeadwood(p.Hand)
		out[i] = PlayerScore{
			PlayerIndex:    i,
			LaidPoints:     laid,
			DeadwoodPoints: deadwood,
			Net:            laid - deadwood,
			Won:            i == s.Public.WinnerIndex,
		}
	}
	return out
}

// handDeadwood sums the intrinsic rank points of every card still in hand;
// a joker's intrinsic value is zero.
func handDeadwood(hand cards.Mask) int {
	total := 0
	for _, id := range hand.IDs() {
		total += cards.Points(id)
	}
	return total
}
