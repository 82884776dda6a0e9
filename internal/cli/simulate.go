package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/google/subcommands"
)

type simulateCmd struct {
	env *environment
	engineFlags

	file    string
	format  string
	label   string
	shock   float64
	weights string
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "evaluate a what-if scenario against a portfolio" }
func (*simulateCmd) Usage() string {
	return `riskctl simulate -f <portfolio.json> (-shock <fraction> | -weights SYM=w,...) [-format text|json]

  Compares the portfolio against either a uniform market shock or a
  reallocation to the given weights. Weights must sum to 1.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.engineFlags.set(f)
	f.StringVar(&c.file, "f", "", "Portfolio JSON file, or - for stdin.")
	f.StringVar(&c.format, "format", "text", "Output format (text, json).")
	f.StringVar(&c.label, "label", "", "Scenario label.")
	f.Float64Var(&c.shock, "shock", 0, "Uniform shock return, e.g. -0.3 for a 30% drop.")
	f.StringVar(&c.weights, "weights", "", "Reallocation target, e.g. SOL=0.5,USDC=0.5.")
}

func (c *simulateCmd) scenario() (domain.Scenario, error) {
	switch {
	case c.weights != "" && c.shock != 0:
		return domain.Scenario{}, fmt.Errorf("%w: -shock and -weights are mutually exclusive", domain.ErrInvalidInput)
	case c.weights != "":
		w, err := parseWeights(c.weights)
		if err != nil {
			return domain.Scenario{}, err
		}
		label := c.label
		if label == "" {
			label = "reallocation"
		}
		return domain.Scenario{Label: label, Kind: domain.ScenarioReallocation, Weights: w}, nil
	case c.shock != 0:
		label := c.label
		if label == "" {
			label = fmt.Sprintf("shock %+.0f%%", c.shock*100)
		}
		return domain.Scenario{Label: label, Kind: domain.ScenarioMarketShock, ShockMultiplier: c.shock}, nil
	}
	return domain.Scenario{}, fmt.Errorf("%w: one of -shock or -weights is required", domain.ErrInvalidInput)
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "text" && c.format != "json" {
		return fail(fmt.Errorf("unknown format %q", c.format))
	}
	sc, err := c.scenario()
	if err != nil {
		return fail(err)
	}
	p, err := c.env.readPortfolio(c.file)
	if err != nil {
		return fail(err)
	}
	svc, _, err := c.service()
	if err != nil {
		return fail(err)
	}

	res, err := svc.Simulate(p, sc, c.seed)
	if err != nil {
		return fail(err)
	}

	if c.format == "json" {
		err = writeJSON(c.env.out, res)
	} else {
		err = renderScenario(c.env.out, res)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
