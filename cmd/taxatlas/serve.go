package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/taxatlas/internal/config"
	"github.com/rgehrsitz/taxatlas/internal/httpapi"
	"github.com/rgehrsitz/taxatlas/internal/observability"
)

func serveCmd(g *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long:  "Serve the HTTP API. Settings come from the environment or a .env file (PORT, LOG_LEVEL, CACHE_SIZE, CACHE_TTL, DISPLAY_CURRENCY, TAX_OVERRIDES_FILE, SHUTDOWN_TIMEOUT).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServerConfig()
			if g.debug {
				cfg.LogLevel = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr()
			}

			logger, err := observability.NewLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			overrides := g.overrides
			if cfg.OverridesFile != "" {
				overrides = append([]string{cfg.OverridesFile}, overrides...)
			}
			ds, err := config.NewInputParser().LoadDataset(overrides...)
			if err != nil {
				logger.Error("loading dataset", zap.Error(err))
				return err
			}

			srv := httpapi.NewServer(ds,
				httpapi.WithLogger(logger),
				httpapi.WithCache(cfg.CacheSize, cfg.CacheTTL),
				httpapi.WithDisplayCurrency(cfg.DisplayCurrency),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr, cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default \":$PORT\")")
	return cmd
}
