package testing

import (
	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/workers"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// NewHolding builds a holding from float quantities.
func NewHolding(symbol string, quantity, price float64) domain.Holding {
	return domain.Holding{
		Symbol:       symbol,
		Quantity:     decimal.NewFromFloat(quantity),
		UnitPriceUSD: decimal.NewFromFloat(price),
	}
}

// NewSolUsdcPortfolio returns the two-token portfolio worth $1200 (SOL 1/6, USDC 5/6).
func NewSolUsdcPortfolio() domain.Portfolio {
	return domain.NewPortfolio(
		NewHolding("SOL", 10, 20),
		NewHolding("USDC", 1000, 1),
	)
}

// NewDiversifiedPortfolio returns a spread of stable, major and alt tokens.
func NewDiversifiedPortfolio() domain.Portfolio {
	return domain.NewPortfolio(
		NewHolding("SOL", 5, 20),
		NewHolding("USDC", 100, 1),
		NewHolding("USDT", 100, 1),
		NewHolding("RAY", 100, 1),
		NewHolding("ORCA", 50, 2),
		NewHolding("SRM", 200, 0.5),
		NewHolding("MNGO", 1000, 0.1),
		NewHolding("SAMO", 10000, 0.01),
	)
}

// NewTestAnalysisService returns an analysis service with the default policy and seed 42.
func NewTestAnalysisService() *analysis.Service {
	return analysis.NewService(
		domain.DefaultRiskPolicy(),
		domain.NewClassifier(nil),
		workers.NewWorkerPool(2),
		42,
		zerolog.Nop(),
	)
}
