// Package scoreboard accumulates per-round results across a multi-round
// match and persists the session log as YAML. It sits outside the
// decision core: nothing under pkg imports it.
package scoreboard

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/konkan-engine/konkan/pkg/rules"
)

// RoundSummary is one completed round's result, as reported by
// rules.FinalScores once Public.WinnerIndex is set.
type RoundSummary struct {
	RoundNumber int               `yaml:"round_number"`
	WinnerIndex int               `yaml:"winner_index"`
	Scores      []rules.PlayerScore `yaml:"scores"`
}

// PlayerMatchTotal is one player's cumulative totals across every
// recorded round.
type PlayerMatchTotal struct {
	PlayerIndex    int `yaml:"player_index"`
	Wins           int `yaml:"wins"`
	LaidPoints     int `yaml:"laid_points"`
	DeadwoodPoints int `yaml:"deadwood_points"`
	NetPoints      int `yaml:"net_points"`
}

// MatchHistory accumulates RoundSummary entries for one match and exposes
// cumulative per-player totals.
type MatchHistory struct {
	SessionID  string         `yaml:"session_id"`
	NumPlayers int            `yaml:"num_players"`
	Rounds     []RoundSummary `yaml:"rounds"`

	wins     []int
	laid     []int
	deadwood []int
	net      []int
}

// NewMatchHistory starts an empty match history for numPlayers, tagged
// with a fresh session id for log correlation across files.
func NewMatchHistory(numPlayers int) (*MatchHistory, error) {
	if numPlayers <= 0 {
		return nil, fmt.Errorf("scoreboard: num_players must be positive, got %d", numPlayers)
	}
	return &MatchHistory{
		SessionID:  uuid.NewString(),
		NumPlayers: numPlayers,
		wins:       make([]int, numPlayers),
		laid:       make([]int, numPlayers),
		deadwood:   make([]int, numPlayers),
		net:        make([]int, numPlayers),
	}, nil
}

// Record appends summary and folds its scores into the running totals.
func (h *MatchHistory) Record(summary RoundSummary) error {
	if len(summary.Scores) != h.NumPlayers {
		return fmt.Errorf("scoreboard: round %d has %d scores, want %d", summary.RoundNumber, len(summary.Scores), h.NumPlayers)
	}
	h.Rounds = append(h.Rounds, summary)
	for _, sc := range summary.Scores {
		if sc.PlayerIndex < 0 || sc.PlayerIndex >= h.NumPlayers {
			return fmt.Errorf("scoreboard: player index %d out of range for %d players", sc.PlayerIndex, h.NumPlayers)
		}
		h.laid[sc.PlayerIndex] += sc.LaidPoints
		h.deadwood[sc.PlayerIndex] += sc.DeadwoodPoints
		h.net[sc.PlayerIndex] += sc.Net
		if sc.Won {
			h.wins[sc.PlayerIndex]++
		}
	}
	return nil
}

// RecordRound is a convenience wrapper: builds a RoundSummary directly
// from a finished rules.State (Public.WinnerIndex set) and records it.
func (h *MatchHistory) RecordRound(s *rules.State, roundNumber int) error {
	return h.Record(RoundSummary{
		RoundNumber: roundNumber,
		WinnerIndex: s.Public.WinnerIndex,
		Scores:      rules.FinalScores(s),
	})
}

// Totals returns the cumulative totals for every player in seating order.
func (h *MatchHistory) Totals() []PlayerMatchTotal {
	out := make([]PlayerMatchTotal, h.NumPlayers)
	for i := range out {
		out[i] = PlayerMatchTotal{
			PlayerIndex:    i,
			Wins:           h.wins[i],
			LaidPoints:     h.laid[i],
			DeadwoodPoints: h.deadwood[i],
			NetPoints:      h.net[i],
		}
	}
	return out
}

// Leader returns the index of the player with the highest net points,
// ties broken by lowest index, or -1 if no rounds have been recorded.
func (h *MatchHistory) Leader() int {
	if len(h.Rounds) == 0 {
		return -1
	}
	leader, best := 0, h.net[0]
	for i := 1; i < h.NumPlayers; i++ {
		if h.net[i] > best {
			leader, best = i, h.net[i]
		}
	}
	return leader
}
