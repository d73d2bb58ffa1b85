package scoreboard

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SaveSession writes h to path as YAML, one file per match.
func SaveSession(path string, h *MatchHistory) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return errors.Wrap(err, "scoreboard: marshal session")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "scoreboard: write session file %q", path)
	}
	return nil
}

// LoadSession reads a MatchHistory previously written by SaveSession,
// restoring its cumulative totals by replaying the recorded rounds.
func LoadSession(path string) (*MatchHistory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "scoreboard: read session file %q", path)
	}

	var raw MatchHistory
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "scoreboard: unmarshal session")
	}

	h, err := NewMatchHistory(raw.NumPlayers)
	if err != nil {
		return nil, err
	}
	h.SessionID = raw.SessionID
	rounds := raw.Rounds
	raw.Rounds = nil
	for _, r := range rounds {
		if err := h.Record(r); err != nil {
			return nil, errors.Wrap(err, "scoreboard: replay recorded round")
		}
	}
	return h, nil
}
