package mcp

import (
	"context"

	"mc-forecast/internal/config"
	"mc-forecast/internal/forecast"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	forecasts *forecast.Service
	charts    bool
	mcp       *mcp.Server
}

// NewServer creates a new MCP server exposing the forecasting tools.
func NewServer(cfg *config.AppConfig, svc *forecast.Service, version string) (*Server, error) {
	s := &Server{
		forecasts: svc,
		charts:    cfg.EnableMermaidCharts,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "mc-forecast",
			Version: version,
		}, nil),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs the JSON-RPC loop over Stdio until the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Msg("MCP Server starting Stdio loop")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// MCP exposes the underlying SDK server, e.g. for in-memory transports.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}
