package domain

// ScenarioKind selects how a scenario alters the baseline.
type ScenarioKind string

const (
	// ScenarioReallocation replaces the weight vector and keeps the return series.
	ScenarioReallocation ScenarioKind = "reallocation"
	// ScenarioMarketShock appends one shock period to every series and keeps the weights.
	ScenarioMarketShock ScenarioKind = "market_shock"
)

// Scenario is a what-if request evaluated against the baseline portfolio.
type Scenario struct {
	Label string       `json:"label" msgpack:"label"`
	Kind  ScenarioKind `json:"type" msgpack:"type"`

	// Weights is required for ScenarioReallocation.
	Weights WeightVector `json:"weights,omitempty" msgpack:"weights,omitempty"`

	// ShockMultiplier is the uniform shock return for ScenarioMarketShock
	// (e.g. -0.30 for a 30% drop, 0.20 for a rally).
	ShockMultiplier float64 `json:"shock_multiplier,omitempty" msgpack:"shock_multiplier,omitempty"`
	// TokenShocks overrides ShockMultiplier per symbol.
	TokenShocks map[string]float64 `json:"token_shocks,omitempty" msgpack:"token_shocks,omitempty"`
}

// ShockFor returns the shock applied to one symbol.
func (s Scenario) ShockFor(symbol string) float64 {
	if v, ok := s.TokenShocks[symbol]; ok {
		return v
	}
	return s.ShockMultiplier
}

// ProfileDelta is scenario minus baseline for the headline statistics.
type ProfileDelta struct {
	Volatility  float64 `json:"volatility" msgpack:"volatility"`
	SharpeRatio float64 `json:"sharpe_ratio" msgpack:"sharpe_ratio"`
	VaR95       float64 `json:"var_95" msgpack:"var_95"`
	CVaR95      float64 `json:"cvar_95" msgpack:"cvar_95"`
	MaxDrawdown float64 `json:"max_drawdown" msgpack:"max_drawdown"`
	HHI         float64 `json:"hhi" msgpack:"hhi"`
}

// ScenarioResult pairs a scenario profile with the baseline it is compared against.
type ScenarioResult struct {
	Label    string       `json:"label" msgpack:"label"`
	Kind     ScenarioKind `json:"type" msgpack:"type"`
	Weights  WeightVector `json:"weights" msgpack:"weights"`
	Baseline RiskProfile  `json:"baseline" msgpack:"baseline"`
	Scenario RiskProfile  `json:"scenario" msgpack:"scenario"`
	Delta    ProfileDelta `json:"delta" msgpack:"delta"`
}

// NewProfileDelta computes scenario - baseline.
func NewProfileDelta(baseline, scenario RiskProfile) ProfileDelta {
	return ProfileDelta{
		Volatility:  scenario.Volatility - baseline.Volatility,
		SharpeRatio: scenario.SharpeRatio - baseline.SharpeRatio,
		VaR95:       scenario.VaR95 - baseline.VaR95,
		CVaR95:      scenario.CVaR95 - baseline.CVaR95,
		MaxDrawdown: scenario.MaxDrawdown - baseline.MaxDrawdown,
		HHI:         scenario.HHI - baseline.HHI,
	}
}
