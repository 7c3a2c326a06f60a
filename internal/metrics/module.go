package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/config"
)

const moduleName = "metrics"

var Module = fx.Module(moduleName,
	fx.Provide(func() *Metrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return New(registry)
	}),
	fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, m *Metrics, logger *zap.Logger) {
		if cfg.MetricsAddr == "" {
			return
		}
		server := NewServer(cfg.MetricsAddr, m)
		log := logger.Named(moduleName)

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				listener, err := net.Listen("tcp", cfg.MetricsAddr)
				if err != nil {
					return err
				}
				log.Info("Serving metrics", zap.String("addr", listener.Addr().String()))
				go func() {
					if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("Metrics server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
		})
	}),
)

// NewServer exposes the registry on /metrics.
func NewServer(addr string, m *Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
