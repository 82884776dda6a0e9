package domain

import "encoding/json"

// Coefficient is one cell of a correlation matrix.
// Defined is false when either series has zero variance.
type Coefficient struct {
	Value   float64
	Defined bool
}

// MarshalJSON encodes undefined coefficients as null.
func (c Coefficient) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON decodes null as an undefined coefficient.
func (c *Coefficient) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Coefficient{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Coefficient{Value: v, Defined: true}
	return nil
}

// CorrelationMatrix is a symmetric token x token matrix of Pearson coefficients.
// Rows and columns follow Symbols.
type CorrelationMatrix struct {
	Symbols      []string        `json:"symbols" msgpack:"symbols"`
	Coefficients [][]Coefficient `json:"coefficients" msgpack:"coefficients"`
}

// At returns the coefficient between two symbols and whether it is defined.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	c := m.Coefficients[i][j]
	return c.Value, c.Defined
}

func (m CorrelationMatrix) index(symbol string) int {
	for i, s := range m.Symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}

// CorrelationPair is an off-diagonal entry flagged by the insights pass.
type CorrelationPair struct {
	Symbol1     string  `json:"symbol1" msgpack:"symbol1"`
	Symbol2     string  `json:"symbol2" msgpack:"symbol2"`
	Correlation float64 `json:"correlation" msgpack:"correlation"`
}

// CorrelationRisk labels how much the holdings move together.
type CorrelationRisk string

const (
	CorrelationRiskLow    CorrelationRisk = "Low"
	CorrelationRiskMedium CorrelationRisk = "Medium"
	CorrelationRiskHigh   CorrelationRisk = "High"
)

// CorrelationInsights summarizes the defined off-diagonal coefficients.
type CorrelationInsights struct {
	DefinedPairs         int               `json:"defined_pairs" msgpack:"defined_pairs"`
	UndefinedPairs       int               `json:"undefined_pairs" msgpack:"undefined_pairs"`
	AverageCorrelation   float64           `json:"avg_correlation" msgpack:"avg_correlation"`
	MaxCorrelation       float64           `json:"max_correlation" msgpack:"max_correlation"`
	MinCorrelation       float64           `json:"min_correlation" msgpack:"min_correlation"`
	HighCorrelations     []CorrelationPair `json:"high_correlations" msgpack:"high_correlations"`
	NegativeCorrelations []CorrelationPair `json:"negative_correlations" msgpack:"negative_correlations"`
	DiversificationScore float64           `json:"diversification_score" msgpack:"diversification_score"`
	Risk                 CorrelationRisk   `json:"correlation_risk" msgpack:"correlation_risk"`
}
