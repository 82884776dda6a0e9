// Package returns generates synthetic periodic return series per token.
package returns

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/rs/zerolog"
)

// Model draws normally distributed daily returns whose dispersion depends on the
// token's volatility class. Each (seed, symbol) pair owns its own random stream,
// so adding or removing a token never changes the series of the others.
type Model struct {
	policy domain.RiskPolicy
	log    zerolog.Logger
}

// NewModel creates a return model bound to a policy.
func NewModel(policy domain.RiskPolicy, log zerolog.Logger) *Model {
	return &Model{
		policy: policy,
		log:    log.With().Str("component", "return_model").Logger(),
	}
}

// Generate produces a series of horizon periods for one token.
func (m *Model) Generate(symbol string, price float64, class domain.VolatilityClass, horizon int, seed uint64) (domain.ReturnSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: token symbol is empty", domain.ErrInvalidInput)
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("%w: price for %s must be positive, got %v", domain.ErrInvalidInput, symbol, price)
	}
	if horizon < 2 {
		return nil, fmt.Errorf("%w: horizon must be at least 2 periods, got %d", domain.ErrInsufficientData, horizon)
	}

	sigma, err := m.policy.StdDevFor(class)
	if err != nil {
		return nil, err
	}
	mu := m.policy.DriftFor(class)

	r := rand.New(rand.NewPCG(seed, symbolStream(symbol)))
	series := make(domain.ReturnSeries, horizon)
	for i := range series {
		series[i] = mu + sigma*r.NormFloat64()
	}

	m.log.Debug().
		Str("symbol", symbol).
		Str("class", string(class)).
		Int("horizon", horizon).
		Float64("sigma", sigma).
		Msg("Generated return series")

	return series, nil
}

// GenerateSet produces one series per weighted token. Every symbol in weights must
// have a class and a price.
func (m *Model) GenerateSet(
	weights domain.WeightVector,
	classes map[string]domain.VolatilityClass,
	prices map[string]float64,
	horizon int,
	seed uint64,
) (domain.ReturnSet, error) {
	set := make(domain.ReturnSet, len(weights))
	for _, symbol := range weights.Symbols() {
		price, ok := prices[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: no price for %s", domain.ErrInvalidInput, symbol)
		}
		class, ok := classes[symbol]
		if !ok {
			class = domain.ClassOther
		}
		series, err := m.Generate(symbol, price, class, horizon, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to generate returns for %s: %w", symbol, err)
		}
		set[symbol] = series
	}
	return set, nil
}

func symbolStream(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}
