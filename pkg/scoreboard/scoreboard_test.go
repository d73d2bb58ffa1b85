package scoreboard

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/konkan-engine/konkan/pkg/rules"
)

func TestNewMatchHistory_RejectsNonPositivePlayers(t *testing.T) {
	_, err := NewMatchHistory(0)
	require.Error(t, err)
}

func TestMatchHistory_RecordAccumulatesTotals(t *testing.T) {
	h, err := NewMatchHistory(2)
	require.NoError(t, err)

	require.NoError(t, h.Record(RoundSummary{
		RoundNumber: 1,
		WinnerIndex: 0,
		Scores: []rules.PlayerScore{
			{PlayerIndex: 0, LaidPoints: 30, DeadwoodPoints: 0, Net: 30, Won: true},
			{PlayerIndex: 1, LaidPoints: 0, DeadwoodPoints: 12, Net: -12, Won: false},
		},
	}))
	require.NoError(t, h.Record(RoundSummary{
		RoundNumber: 2,
		WinnerIndex: 1,
		Scores: []rules.PlayerScore{
			{PlayerIndex: 0, LaidPoints: 0, DeadwoodPoints: 8, Net: -8, Won: false},
			{PlayerIndex: 1, LaidPoints: 20, DeadwoodPoints: 0, Net: 20, Won: true},
		},
	}))

	totals := h.Totals()
	require.Equal(t, 1, totals[0].Wins)
	require.Equal(t, 22, totals[0].NetPoints)
	require.Equal(t, 1, totals[1].Wins)
	require.Equal(t, 8, totals[1].NetPoints)
	require.Equal(t, 0, h.Leader())
}

func TestMatchHistory_RecordRejectsMismatchedScoreCount(t *testing.T) {
	h, err := NewMatchHistory(3)
	require.NoError(t, err)
	err = h.Record(RoundSummary{Scores: []rules.PlayerScore{{PlayerIndex: 0}}})
	require.Error(t, err)
}

func TestMatchHistory_RecordRejectsOutOfRangePlayerIndex(t *testing.T) {
	h, err := NewMatchHistory(2)
	require.NoError(t, err)
	err = h.Record(RoundSummary{Scores: []rules.PlayerScore{{PlayerIndex: 0}, {PlayerIndex: 5}}})
	require.Error(t, err)
}

func TestSaveAndLoadSession_RoundTripsTotals(t *testing.T) {
	h, err := NewMatchHistory(2)
	require.NoError(t, err)
	require.NoError(t, h.Record(RoundSummary{
		RoundNumber: 1,
		WinnerIndex: 0,
		Scores: []rules.PlayerScore{
			{PlayerIndex: 0, LaidPoints: 25, DeadwoodPoints: 0, Net: 25, Won: true},
			{PlayerIndex: 1, LaidPoints: 0, DeadwoodPoints: 9, Net: -9, Won: false},
		},
	}))

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, SaveSession(path, h))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	require.Equal(t, h.SessionID, loaded.SessionID)
	require.Equal(t, h.Totals(), loaded.Totals())
	require.Len(t, loaded.Rounds, 1)
}
