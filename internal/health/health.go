package health

import (
	"context"
	"errors"
	"net"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/igefined/solana-copy-trader/internal/config"
	"github.com/igefined/solana-copy-trader/internal/stream"
)

const (
	moduleName = "health"

	// StreamService is SERVING while the feed is streaming.
	StreamService = "copytrader.stream"
)

var Module = fx.Module(moduleName,
	fx.Provide(NewServer),
	fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, server *Server) {
		if cfg.HealthAddr == "" {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				listener, err := net.Listen("tcp", cfg.HealthAddr)
				if err != nil {
					return err
				}
				go server.Serve(listener)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				server.Stop()
				return nil
			},
		})
	}),
)

type Server struct {
	logger *zap.Logger
	health *health.Server
	grpc   *grpc.Server
}

func NewServer(logger *zap.Logger) *Server {
	s := &Server{
		logger: logger.Named(moduleName),
		health: health.NewServer(),
		grpc:   grpc.NewServer(),
	}
	s.health.SetServingStatus(StreamService, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s.grpc, s.health)

	return s
}

// ObserveStream maps stream states to serving status.
func (s *Server) ObserveStream(state stream.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state == stream.StateStreaming {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(StreamService, status)
}

func (s *Server) Serve(listener net.Listener) {
	s.logger.Info("Serving health checks", zap.String("addr", listener.Addr().String()))
	if err := s.grpc.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		s.logger.Error("Health server stopped", zap.Error(err))
	}
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
