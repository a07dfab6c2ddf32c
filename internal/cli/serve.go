package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjaminlong/mergify-algos/internal/server"
	"github.com/benjaminlong/mergify-algos/pkg/buildinfo"
	"github.com/benjaminlong/mergify-algos/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the neighbours API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			ctx := cmd.Context()

			tp, err := observability.InitTracing(ctx, cfg.TracingFor(buildinfo.Version))
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					c.Logger.Warn("tracer shutdown", "err", err)
				}
			}()

			store, err := cfg.OpenCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			c.Logger.Info("starting", "app", cfg.AppName, "version", buildinfo.Version, "cache", cfg.Cache.Backend)
			srv := server.New(cfg, c.newFinder(cfg, store), c.Logger)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}
