package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mc-forecast/internal/httpapi"
	"mc-forecast/internal/mcp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Serve the forecasting tools over MCP (stdio)",
	Annotations: map[string]string{consoleAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE:        runServe,
}

var httpAddr string

var httpCmd = &cobra.Command{
	Use:         "http",
	Short:       "Serve the forecasting API over HTTP",
	Annotations: map[string]string{consoleAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr = httpAddr
		}

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(service, recorder),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info().Str("addr", addr).Msg("HTTP server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Info().Msg("HTTP server shutting down")
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	server, err := mcp.NewServer(cfg, service, Version)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Start(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mc-forecast %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (default: HTTP_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd, httpCmd, versionCmd)
}
