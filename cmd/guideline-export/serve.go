package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	exporthttp "github.com/a11y-reference/guideline-export/adapters/http"
	storefs "github.com/a11y-reference/guideline-export/adapters/store/fs"
	"github.com/a11y-reference/guideline-export/config"
	"github.com/a11y-reference/guideline-export/export"
)

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP export endpoint",
	Long: `Serve the HTTP export endpoint.

Routes (base path from server.base_path, default /exports):
  POST {base}/          render the posted table and return it as a download
  GET  {base}/formats   list available formats
  GET  /healthz         liveness probe
  GET  /metrics         Prometheus metrics (when metrics.enabled)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	base := newSlogLogger(cfg.Logging, cmd.ErrOrStderr())
	slog.SetDefault(base)
	logger := slogLogger{l: base}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	sink := storefs.NewSink(cfg.Export.OutputDir)
	sink.Prefix = cfg.Export.Prefix

	registry := prometheus.NewRegistry()
	svc, err := buildService(cfg, serviceDeps{Sink: sink, Logger: logger, Registry: registry})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      newRouter(cfg, svc, logger, registry),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		base.Info("starting HTTP server", "address", cfg.Server.ListenAddress, "base_path", cfg.Server.BasePath, "formats", svc.Formats())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	base.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newRouter mounts the export handler, health probe, and metrics endpoint.
// A nil registry disables /metrics.
func newRouter(cfg *config.Config, svc *export.Service, logger export.Logger, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Mount(cfg.Server.BasePath, exporthttp.NewHandler(exporthttp.Config{
		Service:      svc,
		Logger:       logger,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}))

	if cfg.Metrics.Enabled && registry != nil {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
		}))
	}
	return r
}
