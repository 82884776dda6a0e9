package risk

import (
	"math"
	"testing"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/returns"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalculator() *Calculator {
	return NewCalculator(domain.DefaultRiskPolicy())
}

func TestPortfolioReturns(t *testing.T) {
	w := domain.WeightVector{"A": 0.25, "B": 0.75}
	set := domain.ReturnSet{
		"A": {0.04, -0.04, 0},
		"B": {0, 0.04, -0.08},
	}

	got, err := PortfolioReturns(w, set)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.01, 0.02, -0.06}, got, 1e-12)
}

func TestPortfolioReturns_RejectsNonFinite(t *testing.T) {
	_, err := PortfolioReturns(domain.WeightVector{"SOL": 1}, domain.ReturnSet{"SOL": {0.01, math.Inf(-1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = PortfolioReturns(domain.WeightVector{"SOL": math.NaN()}, domain.ReturnSet{"SOL": {0.01, 0.02}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeRiskProfile_KnownSeries(t *testing.T) {
	w := domain.WeightVector{"SOL": 1}
	set := domain.ReturnSet{"SOL": {0.02, -0.01, 0.03, -0.04, 0.00}}

	p, err := newCalculator().ComputeRiskProfile(w, set, 0.05, 1000)
	require.NoError(t, err)

	// mean 0, sample variance (0.0004+0.0001+0.0009+0.0016)/4 = 0.00075
	assert.InDelta(t, 0.0, p.MeanReturn, 1e-12)
	assert.InDelta(t, 0.0273861279, p.Volatility, 1e-9)
	// sorted: -0.04 -0.01 0 0.02 0.03; h = 4*0.05 = 0.2 -> -0.04 + 0.2*0.03 = -0.034
	assert.InDelta(t, -0.034, p.VaR95, 1e-12)
	assert.InDelta(t, -0.04, p.CVaR95, 1e-12)
	assert.InDelta(t, -34.0, p.VaR95USD, 1e-9)
	assert.InDelta(t, -40.0, p.CVaR95USD, 1e-9)
	assert.True(t, p.SharpeDefined)
	assert.Less(t, p.SharpeRatio, 0.0)
	assert.Equal(t, 5, p.Periods)
	assert.InDelta(t, 1.0, p.DiversificationRatio, 1e-12)
	assert.Greater(t, p.MaxDrawdown, 0.0)
}

func TestComputeRiskProfile_VaRAndCVaROrdering(t *testing.T) {
	model := returns.NewModel(domain.DefaultRiskPolicy(), zerolog.Nop())
	w := domain.WeightVector{"SOL": 0.4, "RAY": 0.35, "USDC": 0.25}
	set, err := model.GenerateSet(w,
		map[string]domain.VolatilityClass{"SOL": domain.ClassMajorCap, "RAY": domain.ClassAltCoin, "USDC": domain.ClassStablecoin},
		map[string]float64{"SOL": 20, "RAY": 0.5, "USDC": 1},
		252, 42)
	require.NoError(t, err)

	p, err := newCalculator().ComputeRiskProfile(w, set, 0.05, 0)
	require.NoError(t, err)

	assert.LessOrEqual(t, p.VaR95, 0.0)
	assert.LessOrEqual(t, p.CVaR95, p.VaR95)
	assert.Greater(t, p.Volatility, 0.0)
	assert.GreaterOrEqual(t, p.DiversificationRatio, 1.0)
	assert.Equal(t, 0.0, p.VaR95USD)
}

func TestComputeRiskProfile_ConstantSeries(t *testing.T) {
	w := domain.WeightVector{"USDC": 1}
	set := domain.ReturnSet{"USDC": {0.001, 0.001, 0.001, 0.001}}

	p, err := newCalculator().ComputeRiskProfile(w, set, 0.05, 100)
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.Volatility)
	assert.False(t, p.SharpeDefined)
	assert.Equal(t, 0.0, p.SharpeRatio)
	assert.Equal(t, 0.0, p.VaR95)
	assert.Equal(t, 0.0, p.CVaR95)
	assert.Equal(t, 1.0, p.DiversificationRatio)

	_, err = newCalculator().SharpeRatio(w, set, 0.05)
	assert.ErrorIs(t, err, domain.ErrUndefinedRatio)
}

func TestComputeRiskProfile_Errors(t *testing.T) {
	c := newCalculator()

	testCases := []struct {
		name    string
		weights domain.WeightVector
		set     domain.ReturnSet
		want    error
	}{
		{"empty weights", domain.WeightVector{}, domain.ReturnSet{}, domain.ErrEmptyPortfolio},
		{"short series", domain.WeightVector{"SOL": 1}, domain.ReturnSet{"SOL": {0.1}}, domain.ErrInsufficientData},
		{"missing series", domain.WeightVector{"SOL": 0.5, "RAY": 0.5}, domain.ReturnSet{"SOL": {0.1, 0.2}}, domain.ErrValidation},
		{"misaligned series", domain.WeightVector{"SOL": 0.5, "RAY": 0.5},
			domain.ReturnSet{"SOL": {0.1, 0.2}, "RAY": {0.1, 0.2, 0.3}}, domain.ErrValidation},
		{"weights off", domain.WeightVector{"SOL": 0.5}, domain.ReturnSet{"SOL": {0.1, 0.2}}, domain.ErrValidation},
		{"nan weight", domain.WeightVector{"SOL": math.NaN()}, domain.ReturnSet{"SOL": {0.01, -0.02, 0.03}}, domain.ErrInvalidInput},
		{"infinite weight", domain.WeightVector{"SOL": math.Inf(1), "USDC": math.Inf(-1)},
			domain.ReturnSet{"SOL": {0.01, -0.02}, "USDC": {0, 0}}, domain.ErrInvalidInput},
		{"nan return", domain.WeightVector{"SOL": 1}, domain.ReturnSet{"SOL": {0.01, math.NaN(), 0.03}}, domain.ErrInvalidInput},
		{"infinite return", domain.WeightVector{"SOL": 0.5, "USDC": 0.5},
			domain.ReturnSet{"SOL": {0.01, -0.02}, "USDC": {math.Inf(1), 0}}, domain.ErrInvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.ComputeRiskProfile(tc.weights, tc.set, 0.05, 0)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComputeRiskProfile_DoesNotMutateInputs(t *testing.T) {
	w := domain.WeightVector{"SOL": 0.5, "RAY": 0.5}
	set := domain.ReturnSet{"SOL": {0.03, -0.01, 0.02}, "RAY": {-0.02, 0.04, 0.01}}
	wCopy, setCopy := w.Clone(), set.Clone()

	_, err := newCalculator().ComputeRiskProfile(w, set, 0.05, 10)
	require.NoError(t, err)

	assert.Equal(t, wCopy, w)
	assert.Equal(t, setCopy, set)
}
