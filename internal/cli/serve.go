package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/datamaplabs/lineagraph/internal/api"
	"github.com/datamaplabs/lineagraph/internal/config"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// shutdownGrace bounds how long in-flight requests get to finish.
const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lineage HTTP API",
		Long: `Run the lineage HTTP API.

The serve command starts an HTTP server exposing the pipeline: upload a graph
payload, then query traversals, layouts, and annotated exports against it.
Uploaded graphs live in memory for the configured session TTL; the catalog
remains the system of record.

Configuration is read from a TOML file (see --config), then overridden by
LINEAGRAPH_* environment variables, then by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe loads configuration, wires the runner, and serves until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	backend, err := cfg.Cache.Open()
	if err != nil {
		return fmt.Errorf("open cache backend %q: %w", cfg.Cache.Backend, err)
	}

	runner := pipeline.NewRunner(backend, cfg.Cache.Keyer(), c.Logger)
	defer runner.Close()

	server := api.NewServer(c.Logger, runner, cfg.Server.SessionTTL.Duration(), cfg.Layout)
	defer server.Close()

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr, "cache", cfg.Cache.Backend)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
