package rules

// Config holds the tunable knobs of a Konkan round.
type Config struct {
	NumPlayers          int  `json:"num_players"`
	HandSize            int  `json:"hand_size"`
	ComeDownPoints      int  `json:"come_down_points"`
	AllowTrashFirstTurn bool `json:"allow_trash_first_turn"`
	DealerIndex         int  `json:"dealer_index"`
	DiscardCap          int  `json:"discard_cap"`

	Simulations         int     `json:"simulations"`
	ExplorationConstant float64 `json:"exploration_constant"`
	DirichletAlpha      float64 `json:"dirichlet_alpha"`
	DirichletWeight     float64 `json:"dirichlet_weight"`
	OpponentPriors      bool    `json:"opponent_priors"`
}

// DefaultConfig returns the configuration asserted by the scenario and
// property tests: a 4-player round, 14-card hands (opener gets 15), an
// 81-point come-down threshold, trash-draw disallowed on the opening
// turn, a 16-candidate discard cap, and a 64-simulation search budget.
func DefaultConfig() Config {
	return Config{
		NumPlayers:          4,
		HandSize:            14,
		ComeDownPoints:      81,
		AllowTrashFirstTurn: false,
		DealerIndex:         0,
		DiscardCap:          16,
		Simulations:         64,
		ExplorationConstant: 1.4,
		DirichletAlpha:      0.3,
		DirichletWeight:     0,
		OpponentPriors:      true,
	}
}
