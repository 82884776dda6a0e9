package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/aristath/cryptorisk/internal/config"
	"github.com/aristath/cryptorisk/pkg/formulas"
	"github.com/google/subcommands"
)

type classifyCmd struct {
	env        *environment
	policyPath string
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "show the volatility class of token symbols" }
func (*classifyCmd) Usage() string {
	return `riskctl classify [-policy <policy.yaml>] SYMBOL...

  Prints the volatility class and the return distribution parameters
  used for each symbol.
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.policyPath, "policy", "", "Path to a YAML risk policy overlay.")
}

func (c *classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	policy, classifier, err := config.LoadPolicy(c.policyPath)
	if err != nil {
		return fail(err)
	}

	tw := tabwriter.NewWriter(c.env.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tCLASS\tDAILY SD\tDAILY DRIFT\tANNUAL VOL")
	for _, symbol := range f.Args() {
		class := classifier.Classify(symbol)
		sd, err := policy.StdDevFor(class)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.2f%%\n",
			symbol, class, sd, policy.DriftFor(class),
			formulas.AnnualizedVolatility(sd, policy.AnnualizationFactor)*100)
	}
	if err := tw.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
