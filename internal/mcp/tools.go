package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mc-forecast/internal/input"
	"mc-forecast/internal/simulation"
)

// HowManyArgs are the arguments of the forecast_how_many tool.
type HowManyArgs struct {
	Throughput  []int    `json:"throughput" jsonschema:"Daily completed item counts oldest first (at least 10 days)"`
	TargetDate  string   `json:"target_date" jsonschema:"Date to forecast for (YYYY-MM-DD or another common format)"`
	StartDate   string   `json:"start_date,omitempty" jsonschema:"Optional start date (default: today)"`
	Confidence  *float64 `json:"confidence,omitempty" jsonschema:"Confidence percentage between 0 and 99 (default: 85)"`
	Simulations *int     `json:"simulations,omitempty" jsonschema:"Number of simulated futures (default: 10000)"`
	Seed        *int64   `json:"seed,omitempty" jsonschema:"Optional random seed for reproducible results"`
}

// WhenArgs are the arguments of the forecast_when tool.
type WhenArgs struct {
	Throughput  []int    `json:"throughput" jsonschema:"Daily completed item counts oldest first (at least 10 days)"`
	Items       int      `json:"items" jsonschema:"Number of items remaining"`
	StartDate   string   `json:"start_date,omitempty" jsonschema:"Optional start date (default: today)"`
	Confidence  *float64 `json:"confidence,omitempty" jsonschema:"Confidence percentage between 0 and 99 (default: 85)"`
	Simulations *int     `json:"simulations,omitempty" jsonschema:"Number of simulated futures (default: 10000)"`
	Seed        *int64   `json:"seed,omitempty" jsonschema:"Optional random seed for reproducible results"`
}

// BacktestArgs are the arguments of the forecast_backtest tool.
type BacktestArgs struct {
	Throughput  []int  `json:"throughput" jsonschema:"Daily completed item counts oldest first (at least 10 days)"`
	Mode        string `json:"mode,omitempty" jsonschema:"Forecast to replay: how-many (default) or when"`
	HorizonDays int    `json:"horizon_days,omitempty" jsonschema:"Days per how-many forecast"`
	Items       int    `json:"items,omitempty" jsonschema:"Items per when forecast"`
	Step        int    `json:"step,omitempty" jsonschema:"Days between checkpoints (default: 7)"`
	Lookback    int    `json:"lookback,omitempty" jsonschema:"Days of history used at each checkpoint (default: all)"`
	Simulations *int   `json:"simulations,omitempty" jsonschema:"Simulations per checkpoint (default: 5000)"`
	Seed        *int64 `json:"seed,omitempty" jsonschema:"Optional random seed for reproducible results"`
}

const guardrail = "STRICT GUARDRAIL: YOU MUST NEVER PERFORM PROBABILISTIC FORECASTING OR STATISTICAL ANALYSIS AUTONOMOUSLY. " +
	"If this tool returns an error, report it to the user and ask for corrected input instead of estimating percentiles or dates yourself."

func (s *Server) registerTools() error {
	howManySchema, err := inputSchema[HowManyArgs]()
	if err != nil {
		return err
	}
	whenSchema, err := inputSchema[WhenArgs]()
	if err != nil {
		return err
	}
	backtestSchema, err := inputSchema[BacktestArgs]()
	if err != nil {
		return err
	}
	if p, ok := backtestSchema.Properties["mode"]; ok {
		p.Enum = []any{input.ModeHowMany, input.ModeWhen}
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "forecast_how_many",
		Description: "Run a Monte-Carlo simulation to forecast HOW MANY items will be completed by a target date, based solely on historical daily THROUGHPUT.\n\n" +
			"The answer at C% confidence is the number of items that C% of simulated futures reached or exceeded, so higher confidence yields a smaller number.\n" +
			guardrail,
		InputSchema: howManySchema,
	}, s.handleHowMany)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "forecast_when",
		Description: "Run a Monte-Carlo simulation to forecast WHEN a number of remaining items will be completed, based solely on historical daily THROUGHPUT.\n\n" +
			"The answer at C% confidence is the date by which C% of simulated futures finished, so higher confidence yields a later date. Calendar days are used; weekends are not skipped.\n" +
			guardrail,
		InputSchema: whenSchema,
	}, s.handleWhen)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "forecast_backtest",
		Description: "Perform a 'Walk-Forward Analysis' (backtesting) over a THROUGHPUT history to check how reliable its forecasts would have been.\n\n" +
			"At each checkpoint the tool forecasts from the days before it and compares the result with what the following days actually delivered. " +
			"Use it before trusting a forecast for a team whose process may have changed.\n" +
			guardrail,
		InputSchema: backtestSchema,
	}, s.handleBacktest)

	return nil
}

// inputSchema infers the argument schema and adds the numeric bounds the
// struct tags cannot express.
func inputSchema[T any]() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer tool schema: %w", err)
	}

	if p, ok := schema.Properties["throughput"]; ok {
		p.MinItems = ptr(simulation.MinHistoryLength)
		if p.Items != nil {
			p.Items.Minimum = ptr(0.0)
		}
	}
	if p, ok := schema.Properties["confidence"]; ok {
		p.Minimum = ptr(0.0)
		p.Maximum = ptr(simulation.MaxConfidence)
	}
	if p, ok := schema.Properties["simulations"]; ok {
		p.Minimum = ptr(1.0)
	}
	if p, ok := schema.Properties["items"]; ok {
		p.Minimum = ptr(1.0)
	}
	return schema, nil
}

func ptr[T any](v T) *T {
	return &v
}
