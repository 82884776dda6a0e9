package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/aristath/cryptorisk/internal/modules/analysis"
)

func pct(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

func renderResult(out io.Writer, res *analysis.Result) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Total value\t$%.2f\n", res.TotalValueUSD)
	fmt.Fprintf(tw, "Periods\t%d (seed %d)\n", res.Horizon, res.Seed)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "TOKEN\tWEIGHT")
	for _, s := range res.Weights.Symbols() {
		fmt.Fprintf(tw, "%s\t%s\n", s, pct(res.Weights[s]))
	}
	fmt.Fprintln(tw)

	renderProfile(tw, res.RiskProfile)
	fmt.Fprintf(tw, "VaR 95%% (USD)\t$%.2f\n", res.RiskProfile.VaR95USD)
	fmt.Fprintf(tw, "CVaR 95%% (USD)\t$%.2f\n", res.RiskProfile.CVaR95USD)
	fmt.Fprintf(tw, "Effective positions\t%.2f\n", res.Concentration.EffectivePositions)
	fmt.Fprintln(tw)

	ins := res.CorrelationInsights
	fmt.Fprintf(tw, "Avg correlation\t%.3f (%s risk)\n", ins.AverageCorrelation, ins.Risk)
	for _, pair := range ins.HighCorrelations {
		fmt.Fprintf(tw, "  high\t%s/%s %.3f\n", pair.Symbol1, pair.Symbol2, pair.Correlation)
	}
	if ins.UndefinedPairs > 0 {
		fmt.Fprintf(tw, "Undefined pairs\t%d\n", ins.UndefinedPairs)
	}

	for _, sc := range res.Scenarios {
		fmt.Fprintln(tw)
		renderDelta(tw, sc)
	}

	return tw.Flush()
}

func renderScenario(out io.Writer, sc domain.ScenarioResult) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	renderDelta(tw, sc)
	return tw.Flush()
}

func renderProfile(w io.Writer, p domain.RiskProfile) {
	sharpe := "n/a"
	if p.SharpeDefined {
		sharpe = fmt.Sprintf("%.3f", p.SharpeRatio)
	}
	fmt.Fprintf(w, "Volatility (annual)\t%s\n", pct(p.AnnualizedVolatility))
	fmt.Fprintf(w, "Return (annual)\t%s\n", pct(p.AnnualizedReturn))
	fmt.Fprintf(w, "Sharpe ratio\t%s\n", sharpe)
	fmt.Fprintf(w, "VaR 95%%\t%s\n", pct(p.VaR95))
	fmt.Fprintf(w, "CVaR 95%%\t%s\n", pct(p.CVaR95))
	fmt.Fprintf(w, "Max drawdown\t%s\n", pct(p.MaxDrawdown))
	fmt.Fprintf(w, "HHI\t%.4f (%s diversification)\n", p.HHI, p.DiversificationLabel)
}

func renderDelta(w io.Writer, sc domain.ScenarioResult) {
	fmt.Fprintf(w, "SCENARIO %s (%s)\tBASELINE\tSCENARIO\tDELTA\n", sc.Label, sc.Kind)
	row := func(name string, base, scen, delta float64) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, pct(base), pct(scen), pct(delta))
	}
	row("Volatility", sc.Baseline.Volatility, sc.Scenario.Volatility, sc.Delta.Volatility)
	row("VaR 95%", sc.Baseline.VaR95, sc.Scenario.VaR95, sc.Delta.VaR95)
	row("CVaR 95%", sc.Baseline.CVaR95, sc.Scenario.CVaR95, sc.Delta.CVaR95)
	row("Max drawdown", sc.Baseline.MaxDrawdown, sc.Scenario.MaxDrawdown, sc.Delta.MaxDrawdown)
	fmt.Fprintf(w, "Sharpe ratio\t%.3f\t%.3f\t%+.3f\n", sc.Baseline.SharpeRatio, sc.Scenario.SharpeRatio, sc.Delta.SharpeRatio)
	fmt.Fprintf(w, "HHI\t%.4f\t%.4f\t%+.4f\n", sc.Baseline.HHI, sc.Scenario.HHI, sc.Delta.HHI)
}
