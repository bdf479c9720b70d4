package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-catalogform/pkg/httpapi"
	"github.com/goliatone/go-catalogform/pkg/metrics"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form engine over HTTP",
	Long: `Serve the form engine over HTTP.

Endpoints:
  GET  /health
  POST /form           compose a form for a catalog document
  POST /validate       validate {"source": ..., "formData": ...}
  POST /out            convert {"source": ..., "formData": ...} into a document
  GET  /schema         composed schema for a new document
  POST /schema         composed schema for a catalog document
  POST /render         HTML form for a catalog document
  GET  /openapi.json   OpenAPI document for the composed schema
  GET  /metrics        Prometheus metrics (metrics.enabled)

Every endpoint accepts ?level=item to compose the item plugin list.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Duration("request-timeout", 30*time.Second, "per request timeout")
	_ = viper.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := pluginConfig(settings)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("request-timeout")

	routerCfg := httpapi.Config{
		Plugins: cfg,
		Logger:  logger,
		Timeout: timeout,
	}
	if settings.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector := metrics.NewWithRegistry(reg)
		routerCfg.Metrics = collector
		routerCfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	routerCfg.Aggregator = newAggregator(routerCfg.Metrics)

	server := &http.Server{
		Addr:              settings.HTTP.Addr,
		Handler:           httpapi.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Bool("metrics", settings.Metrics.Enabled).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
		logger.Info().Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
