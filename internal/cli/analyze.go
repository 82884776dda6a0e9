package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/google/subcommands"
)

type analyzeCmd struct {
	env *environment
	engineFlags

	file    string
	format  string
	horizon int
	rf      float64
	shock   float64
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "compute the risk profile of a portfolio" }
func (*analyzeCmd) Usage() string {
	return `riskctl analyze -f <portfolio.json> [-format text|json] [-shock <fraction>]

  Weights the holdings, simulates a return history per token and prints
  volatility, Sharpe ratio, VaR/CVaR, concentration and correlations.
  -shock adds a uniform market shock scenario to the report.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	c.engineFlags.set(f)
	f.StringVar(&c.file, "f", "", "Portfolio JSON file, or - for stdin.")
	f.StringVar(&c.format, "format", "text", "Output format (text, json).")
	f.IntVar(&c.horizon, "horizon", 0, "Number of simulated periods (defaults to the policy horizon).")
	f.Float64Var(&c.rf, "rf", -1, "Annual risk-free rate (defaults to the policy rate).")
	f.Float64Var(&c.shock, "shock", 0, "Optional uniform shock scenario, e.g. -0.3.")
}

func (c *analyzeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "text" && c.format != "json" {
		return fail(fmt.Errorf("unknown format %q", c.format))
	}

	p, err := c.env.readPortfolio(c.file)
	if err != nil {
		return fail(err)
	}
	svc, _, err := c.service()
	if err != nil {
		return fail(err)
	}

	req := analysis.Request{Portfolio: p, Horizon: c.horizon, Seed: &c.seed}
	if c.rf >= 0 {
		req.RiskFreeRate = &c.rf
	}
	if c.shock != 0 {
		req.Scenarios = []domain.Scenario{{
			Label:           fmt.Sprintf("shock %+.0f%%", c.shock*100),
			Kind:            domain.ScenarioMarketShock,
			ShockMultiplier: c.shock,
		}}
	}

	res, err := svc.Analyze(req)
	if err != nil {
		return fail(err)
	}

	if c.format == "json" {
		err = writeJSON(c.env.out, res)
	} else {
		err = renderResult(c.env.out, res)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
