// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Holding is a single token position as resolved by the upstream wallet/price fetcher.
type Holding struct {
	Symbol       string          `json:"token_symbol" msgpack:"token_symbol"`
	Quantity     decimal.Decimal `json:"quantity" msgpack:"quantity"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd" msgpack:"unit_price_usd"`
	// Class is optional; an empty class is resolved through the Classifier.
	Class VolatilityClass `json:"volatility_class,omitempty" msgpack:"volatility_class,omitempty"`
}

// ValueUSD returns quantity * unit price.
func (h Holding) ValueUSD() decimal.Decimal {
	return h.Quantity.Mul(h.UnitPriceUSD)
}

// Portfolio is an ordered list of holdings. Order does not affect any computation.
type Portfolio struct {
	Holdings []Holding `json:"holdings" msgpack:"holdings"`
}

// NewPortfolio creates a portfolio from holdings
func NewPortfolio(holdings ...Holding) Portfolio {
	return Portfolio{Holdings: holdings}
}

// TotalValueUSD returns the sum of holding values.
func (p Portfolio) TotalValueUSD() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.ValueUSD())
	}
	return total
}

// Classes returns the volatility class per symbol. Explicit classes on holdings win over
// the classifier regardless of listing order; the first explicit class seen for a symbol is kept.
func (p Portfolio) Classes(classifier *Classifier) map[string]VolatilityClass {
	classes := make(map[string]VolatilityClass, len(p.Holdings))
	for _, h := range p.Holdings {
		if _, ok := classes[h.Symbol]; ok || h.Class == "" {
			continue
		}
		classes[h.Symbol] = h.Class
	}
	for _, h := range p.Holdings {
		if _, ok := classes[h.Symbol]; ok {
			continue
		}
		classes[h.Symbol] = classifier.Classify(h.Symbol)
	}
	return classes
}

// Prices returns the unit price per symbol. The price comes from the first listing that
// carries value (positive quantity and price); a symbol with no such listing falls back to
// its first listing.
func (p Portfolio) Prices() map[string]float64 {
	prices := make(map[string]float64, len(p.Holdings))
	valued := make(map[string]bool, len(p.Holdings))
	for _, h := range p.Holdings {
		if valued[h.Symbol] {
			continue
		}
		if h.Quantity.IsPositive() && h.UnitPriceUSD.IsPositive() {
			prices[h.Symbol] = h.UnitPriceUSD.InexactFloat64()
			valued[h.Symbol] = true
			continue
		}
		if _, ok := prices[h.Symbol]; !ok {
			prices[h.Symbol] = h.UnitPriceUSD.InexactFloat64()
		}
	}
	return prices
}

// WeightTolerance is the allowed deviation of a weight vector sum from 1.
const WeightTolerance = 1e-9

// WeightVector maps token symbol to its fraction of portfolio value.
type WeightVector map[string]float64

// Symbols returns the symbols in ascending order.
// All per-token loops iterate in this order so results are bit-for-bit reproducible.
func (w WeightVector) Symbols() []string {
	symbols := make([]string, 0, len(w))
	for s := range w {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Sum returns the sum of all weights
func (w WeightVector) Sum() float64 {
	sum := 0.0
	for _, s := range w.Symbols() {
		sum += w[s]
	}
	return sum
}

// Clone returns an independent copy.
func (w WeightVector) Clone() WeightVector {
	out := make(WeightVector, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// CheckFinite fails with ErrInvalidInput when any weight is NaN or infinite.
func (w WeightVector) CheckFinite() error {
	for _, s := range w.Symbols() {
		if math.IsNaN(w[s]) || math.IsInf(w[s], 0) {
			return fmt.Errorf("%w: weight for %s must be finite, got %v", ErrInvalidInput, s, w[s])
		}
	}
	return nil
}

// ReturnSeries is an ordered sequence of periodic return fractions.
type ReturnSeries []float64

// CheckFinite fails with ErrInvalidInput at the first NaN or infinite period.
func (r ReturnSeries) CheckFinite(symbol string) error {
	for i, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: return %d for %s must be finite, got %v", ErrInvalidInput, i, symbol, v)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (r ReturnSeries) Clone() ReturnSeries {
	out := make(ReturnSeries, len(r))
	copy(out, r)
	return out
}

// ReturnSet holds one ReturnSeries per token.
type ReturnSet map[string]ReturnSeries

// Clone deep-copies the set.
func (rs ReturnSet) Clone() ReturnSet {
	out := make(ReturnSet, len(rs))
	for k, v := range rs {
		out[k] = v.Clone()
	}
	return out
}

// Symbols returns the symbols in ascending order.
func (rs ReturnSet) Symbols() []string {
	symbols := make([]string, 0, len(rs))
	for s := range rs {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// DiversificationLabel classifies a portfolio by its HHI.
type DiversificationLabel string

const (
	DiversificationLow      DiversificationLabel = "Low"
	DiversificationModerate DiversificationLabel = "Moderate"
	DiversificationHigh     DiversificationLabel = "High"
)

// Concentration is the output of the concentration analysis.
type Concentration struct {
	HHI   float64              `json:"hhi" msgpack:"hhi"`
	Label DiversificationLabel `json:"diversification_label" msgpack:"diversification_label"`
	// EffectivePositions is 1/HHI.
	EffectivePositions float64 `json:"effective_positions" msgpack:"effective_positions"`
}

// RiskProfile is the set of risk/return statistics for one weighting of one return set.
// VaR and CVaR are non-positive fractions of portfolio value.
type RiskProfile struct {
	Volatility           float64 `json:"volatility" msgpack:"volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility" msgpack:"annualized_volatility"`
	MeanReturn           float64 `json:"mean_return" msgpack:"mean_return"`
	AnnualizedReturn     float64 `json:"annualized_return" msgpack:"annualized_return"`
	SharpeRatio          float64 `json:"sharpe_ratio" msgpack:"sharpe_ratio"`
	SharpeDefined        bool    `json:"sharpe_defined" msgpack:"sharpe_defined"`
	VaR95                float64 `json:"var_95" msgpack:"var_95"`
	CVaR95               float64 `json:"cvar_95" msgpack:"cvar_95"`
	VaR95USD             float64 `json:"var_95_usd" msgpack:"var_95_usd"`
	CVaR95USD            float64 `json:"cvar_95_usd" msgpack:"cvar_95_usd"`
	ParametricVaR95      float64 `json:"parametric_var_95" msgpack:"parametric_var_95"`
	MaxDrawdown          float64 `json:"max_drawdown" msgpack:"max_drawdown"`
	DiversificationRatio float64 `json:"diversification_ratio" msgpack:"diversification_ratio"`
	Periods              int     `json:"periods" msgpack:"periods"`

	HHI                  float64              `json:"hhi" msgpack:"hhi"`
	DiversificationLabel DiversificationLabel `json:"diversification_label" msgpack:"diversification_label"`
}

// WithConcentration returns a copy of the profile carrying the concentration figures.
func (p RiskProfile) WithConcentration(c Concentration) RiskProfile {
	p.HHI = c.HHI
	p.DiversificationLabel = c.Label
	return p
}

// PositionStats summarizes the shape of a weight vector.
type PositionStats struct {
	NumTokens          int     `json:"num_tokens" msgpack:"num_tokens"`
	LargestSymbol      string  `json:"largest_symbol" msgpack:"largest_symbol"`
	LargestWeight      float64 `json:"largest_weight" msgpack:"largest_weight"`
	SmallestSymbol     string  `json:"smallest_symbol" msgpack:"smallest_symbol"`
	SmallestWeight     float64 `json:"smallest_weight" msgpack:"smallest_weight"`
	WeightStdDev       float64 `json:"weight_std_dev" msgpack:"weight_std_dev"`
	EffectivePositions float64 `json:"effective_positions" msgpack:"effective_positions"`
}
