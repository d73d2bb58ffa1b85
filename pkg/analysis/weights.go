package analysis

// Weights holds every tunable coefficient of the keep-value formula.
// JSON-tagged so a tuned set can round-trip through weights.json.
type Weights struct {
	InBaselineCover    float64 `json:"in_baseline_cover"`
	CoverPointsDrop    float64 `json:"cover_points_drop"`
	CoverCardsDrop     float64 `json:"cover_cards_drop"`
	SetPotential       float64 `json:"set_potential"`
	RunAdjacency       float64 `json:"run_adjacency"`
	NearRun            float64 `json:"near_run"`
	GapBridge          float64 `json:"gap_bridge"`
	NeedsForRunOne     float64 `json:"needs_for_run_one"`
	DuplicatesSameSuit float64 `json:"duplicates_same_suit"`
	ExposurePenalty    float64 `json:"exposure_penalty"`
	OpponentDemand     float64 `json:"opponent_demand"`
}

// DefaultWeights returns the fixed coefficients asserted by the analyzer's
// monotonicity property tests.
func DefaultWeights() Weights {
	return Weights{
		InBaselineCover:    12.0,
		CoverPointsDrop:    1.2,
		CoverCardsDrop:     2.5,
		SetPotential:       2.0,
		RunAdjacency:       2.5,
		NearRun:            3.5,
		GapBridge:          4.5,
		NeedsForRunOne:     1.5,
		DuplicatesSameSuit: 1.0,
		ExposurePenalty:    1.2,
		OpponentDemand:     3.5,
	}
}

// WeightParam describes a single tunable coefficient, for tools that sweep
// or fit the weight set against recorded self-play.
type WeightParam struct {
	Name string
	Ptr  *float64
	Min  float64
	Max  float64
}

// Params returns every tunable coefficient for iteration by a tuner.
func (w *Weights) Params() []WeightParam {
	return []WeightParam{
		{"in_baseline_cover", &w.InBaselineCover, 0, 30},
		{"cover_points_drop", &w.CoverPointsDrop, 0, 5},
		{"cover_cards_drop", &w.CoverCardsDrop, 0, 8},
		{"set_potential", &w.SetPotential, 0, 8},
		{"run_adjacency", &w.RunAdjacency, 0, 8},
		{"near_run", &w.NearRun, 0, 10},
		{"gap_bridge", &w.GapBridge, 0, 10},
		{"needs_for_run_one", &w.NeedsForRunOne, 0, 6},
		{"duplicates_same_suit", &w.DuplicatesSameSuit, 0, 4},
		{"exposure_penalty", &w.ExposurePenalty, 0, 4},
		{"opponent_demand", &w.OpponentDemand, 0, 8},
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
