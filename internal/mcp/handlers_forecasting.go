package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mc-forecast/internal/forecast"
	"mc-forecast/internal/report"
	"mc-forecast/internal/simulation"
)

func (s *Server) handleHowMany(_ context.Context, _ *mcp.CallToolRequest, args HowManyArgs) (*mcp.CallToolResult, report.Document, error) {
	r, err := s.forecasts.HowMany(forecast.HowManyRequest{
		Throughput:  args.Throughput,
		TargetDate:  args.TargetDate,
		StartDate:   args.StartDate,
		Confidence:  args.Confidence,
		Simulations: args.Simulations,
		Seed:        args.Seed,
	})
	if err != nil {
		return nil, report.Document{}, err
	}
	return s.result(r)
}

func (s *Server) handleWhen(_ context.Context, _ *mcp.CallToolRequest, args WhenArgs) (*mcp.CallToolResult, report.Document, error) {
	r, err := s.forecasts.When(forecast.WhenRequest{
		Throughput:  args.Throughput,
		Items:       args.Items,
		StartDate:   args.StartDate,
		Confidence:  args.Confidence,
		Simulations: args.Simulations,
		Seed:        args.Seed,
	})
	if err != nil {
		return nil, report.Document{}, err
	}
	return s.result(r)
}

func (s *Server) handleBacktest(_ context.Context, _ *mcp.CallToolRequest, args BacktestArgs) (*mcp.CallToolResult, simulation.WalkForwardResult, error) {
	res, err := s.forecasts.Backtest(forecast.BacktestRequest{
		Throughput:  args.Throughput,
		Mode:        args.Mode,
		HorizonDays: args.HorizonDays,
		Items:       args.Items,
		Step:        args.Step,
		Lookback:    args.Lookback,
		Simulations: args.Simulations,
		Seed:        args.Seed,
	})
	if err != nil {
		return nil, simulation.WalkForwardResult{}, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.ValidationMessage}},
	}, res, nil
}

// result returns the text rendering for the model and the JSON document as
// structured content.
func (s *Server) result(r *simulation.Report) (*mcp.CallToolResult, report.Document, error) {
	var sb strings.Builder
	if err := report.WriteText(&sb, r, report.TextOptions{Charts: s.charts}); err != nil {
		return nil, report.Document{}, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: sb.String()}},
	}, report.NewDocument(r), nil
}
