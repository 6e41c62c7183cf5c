package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"mc-forecast/internal/forecast"
	"mc-forecast/internal/input"
	"mc-forecast/internal/simulation"

	"github.com/spf13/cobra"
)

var backtestFlags struct {
	mode        string
	horizon     int
	items       int
	step        int
	lookback    int
	simulations int
	seed        int64
	format      string
}

var backtestCmd = &cobra.Command{
	Use:   "backtest <throughput>",
	Short: "Check how past forecasts would have matched the real throughput",
	Example: `  mc-forecast backtest 3,5,4,2,6,4,5,3,7,4,5,6,3,4,5,2,6,4,5,3 --horizon 5
  mc-forecast backtest "$(cat throughput.csv)" --mode when --items 20 --step 14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		throughput, err := input.ParseThroughput(args[0])
		if err != nil {
			return err
		}

		req := forecast.BacktestRequest{
			Throughput:  throughput,
			Mode:        backtestFlags.mode,
			HorizonDays: backtestFlags.horizon,
			Items:       backtestFlags.items,
			Step:        backtestFlags.step,
			Lookback:    backtestFlags.lookback,
		}
		if cmd.Flags().Changed("simulations") {
			req.Simulations = &backtestFlags.simulations
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = &backtestFlags.seed
		}

		res, err := service.Backtest(req)
		if err != nil {
			return err
		}
		return writeBacktest(cmd.OutOrStdout(), res, backtestFlags.format)
	},
}

func writeBacktest(w io.Writer, res simulation.WalkForwardResult, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	unit := "items"
	if res.Mode == simulation.ModeDuration {
		unit = "days"
	}
	fmt.Fprintf(w, "%-6s %8s %8s %8s %8s  %s\n", "Day", "Actual", "P50", "P85", "P95", "In Cone")
	for _, cp := range res.Checkpoints {
		in := "no"
		if cp.IsWithinCone {
			in = "yes"
		}
		fmt.Fprintf(w, "%-6d %8d %8d %8d %8d  %s\n", cp.Day, cp.Actual, cp.PredictedP50, cp.PredictedP85, cp.PredictedP95, in)
	}
	_, err := fmt.Fprintf(w, "\n(values in %s)\n%s\n", unit, res.ValidationMessage)
	return err
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestFlags.mode, "mode", input.ModeHowMany, "forecast to replay: how-many or when")
	f.IntVar(&backtestFlags.horizon, "horizon", 14, "days per how-many forecast")
	f.IntVar(&backtestFlags.items, "items", 0, "items per when forecast")
	f.IntVar(&backtestFlags.step, "step", simulation.DefaultBacktestStep, "days between checkpoints")
	f.IntVar(&backtestFlags.lookback, "lookback", 0, "days of history used at each checkpoint (0 = all)")
	f.IntVar(&backtestFlags.simulations, "simulations", simulation.DefaultBacktestTrials, "simulations per checkpoint")
	f.Int64Var(&backtestFlags.seed, "seed", 0, "random seed for reproducible results")
	f.StringVar(&backtestFlags.format, "format", formatText, "output format: text or json")
	rootCmd.AddCommand(backtestCmd)
}
