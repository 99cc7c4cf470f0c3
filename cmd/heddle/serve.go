package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/cli"
	httpAdapter "github.com/aretw0/heddle/pkg/adapters/http"
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/observability"
	"github.com/aretw0/heddle/pkg/ops"
	"github.com/aretw0/heddle/pkg/persistence/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the operator catalog and the workspaces of the configured store as a JSON API,
with Prometheus metrics on /metrics and live workspace events over SSE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		hooks := domain.JoinHooks(metrics.Hooks(), observability.LoggingHooks(logger))
		catalog := ops.Default()
		storeMetrics := middleware.Instrument(middleware.NewStoreMetrics(reg))
		mgr, closeStore, err := newManager(cfg, []middleware.Middleware{storeMetrics},
			heddle.WithRegistry(catalog), heddle.WithLifecycleHooks(hooks))
		if err != nil {
			return err
		}
		defer closeStore()

		srv := &http.Server{
			Addr: cfg.HTTP.Addr,
			Handler: httpAdapter.NewHandler(catalog, mgr,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetrics(reg),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting heddle server", "address", srv.Addr, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			logger.Info("shutdown signal received", "signal", ctx.Signal())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			logger.Info("heddle server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("http-addr", ":8080", "Address to listen on")
}
