package commands

import (
	"mc-forecast/internal/config"
	"mc-forecast/internal/forecast"
	"mc-forecast/internal/logging"
	"mc-forecast/internal/metrics"
	"mc-forecast/internal/simulation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	recorder *metrics.Recorder
	service  *forecast.Service
)

// consoleAnnotation marks long-running commands whose logs may go to stderr.
const consoleAnnotation = "console-logs"

var rootCmd = &cobra.Command{
	Use:   "mc-forecast",
	Short: "mc-forecast is a Monte-Carlo throughput forecaster",
	Long: `Forecasts how many items a team will finish by a date, or when it will finish
a number of items, by resampling historical daily throughput.

Without a subcommand it serves the forecasting tools over MCP (stdio).`,
	Annotations:   map[string]string{consoleAnnotation: "true"},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.Options{
			Verbose: verbose,
			Console: cmd.Annotations[consoleAnnotation] == "true",
			Dir:     config.LogDir(),
		}); err != nil {
			return err
		}

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			return err
		}

		recorder = metrics.NewRecorder()
		service = forecast.NewService(simulation.NewEngine(cfg.EngineConfig()), cfg.Simulation, recorder)

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("mc-forecast starting")
		return nil
	},
	RunE: runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
