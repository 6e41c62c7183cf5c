package commands

import (
	"fmt"
	"io"
	"strconv"

	"mc-forecast/internal/forecast"
	"mc-forecast/internal/input"
	"mc-forecast/internal/report"
	"mc-forecast/internal/simulation"

	"github.com/spf13/cobra"
)

// Output formats for the forecast commands.
const (
	formatText = "text"
	formatJSON = "json"
	formatBoth = "both"
)

type forecastFlags struct {
	seed     int64
	format   string
	file     string
	charts   bool
	hasSeed  bool
	chartSet bool
}

var howManyFlags, whenFlags forecastFlags

var howManyCmd = &cobra.Command{
	Use:   "how-many <throughput> <target_date> [confidence] [simulations] [start_date]",
	Short: "Forecast how many items will be done by a target date",
	Example: `  mc-forecast how-many 3,5,4,2,6,4,5,3,7,4 2025-12-31
  mc-forecast how-many 3,5,4,2,6,4,5,3,7,4 2025-12-31 95 50000 2025-11-01 --seed 42
  mc-forecast how-many --file sprint.yaml --format json`,
	Args: forecastArgs(&howManyFlags, 2, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd, &howManyFlags)
		req, err := howManyRequest(args, &howManyFlags)
		if err != nil {
			return err
		}
		r, err := service.HowMany(req)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), r, &howManyFlags)
	},
}

var whenCmd = &cobra.Command{
	Use:   "when <throughput> <items> [confidence] [simulations] [start_date]",
	Short: "Forecast when a number of remaining items will be done",
	Example: `  mc-forecast when 3,5,4,2,6,4,5,3,7,4 100
  mc-forecast when 3,5,4,2,6,4,5,3,7,4 100 85 10000 2025-10-27 --format text`,
	Args: forecastArgs(&whenFlags, 2, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd, &whenFlags)
		req, err := whenRequest(args, &whenFlags)
		if err != nil {
			return err
		}
		r, err := service.When(req)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), r, &whenFlags)
	},
}

// forecastArgs requires the positional form unless a scenario file is given.
func forecastArgs(f *forecastFlags, minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if f.file != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.RangeArgs(minArgs, maxArgs)(cmd, args)
	}
}

func bindFlags(cmd *cobra.Command, f *forecastFlags) {
	f.hasSeed = cmd.Flags().Changed("seed")
	f.chartSet = cmd.Flags().Changed("charts")
}

func howManyRequest(args []string, f *forecastFlags) (forecast.HowManyRequest, error) {
	if f.file != "" {
		sc, err := scenario(f, input.ModeHowMany)
		if err != nil {
			return forecast.HowManyRequest{}, err
		}
		return forecast.HowManyRequest{
			Throughput:  sc.Throughput,
			TargetDate:  sc.TargetDate,
			StartDate:   sc.StartDate,
			Confidence:  sc.Confidence,
			Simulations: sc.Simulations,
			Seed:        sc.Seed,
		}, nil
	}

	throughput, confidence, simulations, start, err := commonArgs(args)
	if err != nil {
		return forecast.HowManyRequest{}, err
	}
	return forecast.HowManyRequest{
		Throughput:  throughput,
		TargetDate:  args[1],
		StartDate:   start,
		Confidence:  confidence,
		Simulations: simulations,
		Seed:        f.seedPtr(),
	}, nil
}

func whenRequest(args []string, f *forecastFlags) (forecast.WhenRequest, error) {
	if f.file != "" {
		sc, err := scenario(f, input.ModeWhen)
		if err != nil {
			return forecast.WhenRequest{}, err
		}
		return forecast.WhenRequest{
			Throughput:  sc.Throughput,
			Items:       sc.Items,
			StartDate:   sc.StartDate,
			Confidence:  sc.Confidence,
			Simulations: sc.Simulations,
			Seed:        sc.Seed,
		}, nil
	}

	throughput, confidence, simulations, start, err := commonArgs(args)
	if err != nil {
		return forecast.WhenRequest{}, err
	}
	items, err := strconv.Atoi(args[1])
	if err != nil {
		return forecast.WhenRequest{}, &simulation.ValidationError{
			Kind:       simulation.ErrInvalidParameter,
			Field:      "items",
			Value:      args[1],
			Constraint: "must be an integer",
		}
	}
	return forecast.WhenRequest{
		Throughput:  throughput,
		Items:       items,
		StartDate:   start,
		Confidence:  confidence,
		Simulations: simulations,
		Seed:        f.seedPtr(),
	}, nil
}

// scenario loads the --file scenario; --seed on the command line wins over
// the file.
func scenario(f *forecastFlags, mode string) (*input.Scenario, error) {
	sc, err := input.LoadScenario(f.file)
	if err != nil {
		return nil, err
	}
	if sc.Mode != "" && sc.Mode != mode {
		return nil, fmt.Errorf("scenario %s is a %q scenario, not %q", f.file, sc.Mode, mode)
	}
	if f.hasSeed {
		sc.Seed = f.seedPtr()
	}
	return sc, nil
}

// commonArgs parses <throughput> and the optional [confidence] [simulations]
// [start_date] tail shared by both commands.
func commonArgs(args []string) (throughput []int, confidence *float64, simulations *int, start string, err error) {
	h, err := input.ParseThroughput(args[0])
	if err != nil {
		return nil, nil, nil, "", &simulation.ValidationError{
			Kind:       simulation.ErrInvalidHistory,
			Field:      "throughput",
			Value:      args[0],
			Constraint: err.Error(),
		}
	}
	throughput = h

	if len(args) > 2 {
		c, perr := strconv.ParseFloat(args[2], 64)
		if perr != nil {
			return nil, nil, nil, "", &simulation.ValidationError{
				Kind:       simulation.ErrInvalidConfidence,
				Field:      "confidence",
				Value:      args[2],
				Constraint: "must be a number",
			}
		}
		confidence = &c
	}
	if len(args) > 3 {
		n, perr := strconv.Atoi(args[3])
		if perr != nil {
			return nil, nil, nil, "", &simulation.ValidationError{
				Kind:       simulation.ErrInvalidParameter,
				Field:      "num_simulations",
				Value:      args[3],
				Constraint: "must be an integer",
			}
		}
		simulations = &n
	}
	if len(args) > 4 {
		start = args[4]
	}
	return throughput, confidence, simulations, start, nil
}

func (f *forecastFlags) seedPtr() *int64 {
	if !f.hasSeed {
		return nil
	}
	seed := f.seed
	return &seed
}

// writeReport prints the forecast in the requested format. "both" prints the
// text report, then a "JSON Output:" header and the JSON document.
func writeReport(w io.Writer, r *simulation.Report, f *forecastFlags) error {
	opts := report.TextOptions{Charts: cfg != nil && cfg.EnableMermaidCharts}
	if f.chartSet {
		opts.Charts = f.charts
	}

	switch f.format {
	case formatText:
		return report.WriteText(w, r, opts)
	case formatJSON:
		return report.WriteJSON(w, r)
	case formatBoth, "":
		if err := report.WriteText(w, r, opts); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, "\nJSON Output:\n"); err != nil {
			return err
		}
		return report.WriteJSON(w, r)
	default:
		return fmt.Errorf("unknown format %q (expected %s, %s or %s)", f.format, formatText, formatJSON, formatBoth)
	}
}

func init() {
	for _, c := range []struct {
		cmd   *cobra.Command
		flags *forecastFlags
	}{
		{howManyCmd, &howManyFlags},
		{whenCmd, &whenFlags},
	} {
		c.cmd.Flags().Int64Var(&c.flags.seed, "seed", 0, "random seed for reproducible results")
		c.cmd.Flags().StringVar(&c.flags.format, "format", formatBoth, "output format: text, json or both")
		c.cmd.Flags().StringVarP(&c.flags.file, "file", "f", "", "read the forecast from a YAML scenario file")
		c.cmd.Flags().BoolVar(&c.flags.charts, "charts", false, "append Mermaid charts to the text report")
		rootCmd.AddCommand(c.cmd)
	}
}
