// Package cli implements the riskctl subcommands.
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aristath/cryptorisk/internal/config"
	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
	"github.com/aristath/cryptorisk/internal/workers"
	"github.com/aristath/cryptorisk/pkg/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register adds every riskctl command to c. Output goes to out; "-f -" reads from in.
func Register(c *subcommands.Commander, in io.Reader, out io.Writer) {
	env := &environment{in: in, out: out}

	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(&analyzeCmd{env: env}, "analysis")
	c.Register(&simulateCmd{env: env}, "analysis")
	c.Register(&classifyCmd{env: env}, "tokens")
}

// environment is shared by all commands.
type environment struct {
	in  io.Reader
	out io.Writer
}

// engineFlags are the flags every analysis command accepts.
type engineFlags struct {
	policyPath string
	seed       uint64
	workers    int
	verbose    bool
}

func (e *engineFlags) set(f *flag.FlagSet) {
	f.StringVar(&e.policyPath, "policy", os.Getenv("RISK_POLICY_FILE"), "Path to a YAML risk policy overlay.")
	f.Uint64Var(&e.seed, "seed", 42, "Seed of the return generator.")
	f.IntVar(&e.workers, "workers", 4, "Number of scenario workers.")
	f.BoolVar(&e.verbose, "v", false, "Log engine activity to stderr.")
}

func (e *engineFlags) service() (*analysis.Service, *domain.Classifier, error) {
	policy, classifier, err := config.LoadPolicy(e.policyPath)
	if err != nil {
		return nil, nil, err
	}
	svc := analysis.NewService(policy, classifier, workers.NewWorkerPool(e.workers), e.seed, e.logger(os.Stderr))
	return svc, classifier, nil
}

// logger is silent unless -v is given.
func (e *engineFlags) logger(w io.Writer) zerolog.Logger {
	if !e.verbose {
		return zerolog.Nop()
	}
	return logger.New(logger.Config{Level: "debug", Pretty: true, Output: w})
}

// readPortfolio decodes a portfolio file. It accepts either {"holdings": [...]}
// or a bare holdings array.
func (env *environment) readPortfolio(path string) (domain.Portfolio, error) {
	var r io.Reader
	switch path {
	case "":
		return domain.Portfolio{}, fmt.Errorf("%w: a portfolio file is required (-f)", domain.ErrInvalidInput)
	case "-":
		r = env.in
	default:
		f, err := os.Open(path)
		if err != nil {
			return domain.Portfolio{}, fmt.Errorf("failed to open portfolio file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to read portfolio: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var holdings []domain.Holding
		if err := json.Unmarshal(data, &holdings); err != nil {
			return domain.Portfolio{}, fmt.Errorf("%w: invalid holdings array: %v", domain.ErrInvalidInput, err)
		}
		return domain.NewPortfolio(holdings...), nil
	}

	var p domain.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Portfolio{}, fmt.Errorf("%w: invalid portfolio: %v", domain.ErrInvalidInput, err)
	}
	return p, nil
}

// parseWeights parses "SOL=0.5,USDC=0.5".
func parseWeights(s string) (domain.WeightVector, error) {
	w := domain.WeightVector{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		symbol, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: weight %q must look like SYMBOL=fraction", domain.ErrInvalidInput, part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: weight for %s: %v", domain.ErrInvalidInput, symbol, err)
		}
		w[strings.TrimSpace(symbol)] = v
	}
	if len(w) == 0 {
		return nil, fmt.Errorf("%w: no weights given", domain.ErrInvalidInput)
	}
	return w, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
