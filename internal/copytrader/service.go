package copytrader

import (
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/config"
	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/health"
	"github.com/igefined/solana-copy-trader/internal/metrics"
	"github.com/igefined/solana-copy-trader/internal/stream"
)

// Feed is the part of the stream client the service drives.
type Feed interface {
	Start() error
	Stop() error
	Done() <-chan struct{}
}

type Service struct {
	feed       Feed
	handlers   []domain.Handler
	logger     *zap.Logger
	shutdowner fx.Shutdowner
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

type Params struct {
	fx.In

	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Health     *health.Server
	Shutdowner fx.Shutdowner
	Handlers   []domain.Handler `group:"handlers"`
}

func NewService(params Params) (*Service, error) {
	if err := params.Config.ValidateCopy(); err != nil {
		return nil, err
	}

	feed := stream.NewClient(params.Logger, params.Metrics, stream.Options{
		URL: params.Config.Helius.WSSURL,
		Subscriptions: []stream.Subscription{
			stream.PumpFunSubscription(params.Config.CopyWallet),
			stream.RaydiumSubscription(params.Config.CopyWallet),
		},
		OnStateChange: params.Health.ObserveStream,
	}, params.Handlers)

	return newService(feed, params.Handlers, params.Logger, params.Shutdowner), nil
}

func newService(feed Feed, handlers []domain.Handler, logger *zap.Logger, shutdowner fx.Shutdowner) *Service {
	return &Service{
		feed:       feed,
		handlers:   handlers,
		logger:     logger.Named("copytrader"),
		shutdowner: shutdowner,
		stopCh:     make(chan struct{}),
	}
}

func (s *Service) Start() error {
	names := make([]string, 0, len(s.handlers))
	for _, handler := range s.handlers {
		names = append(names, handler.Name())
	}
	s.logger.Info("Starting copy trader", zap.Strings("handlers", names))

	if err := s.feed.Start(); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.watch()

	return nil
}

func (s *Service) Stop() error {
	s.logger.Info("Stopping copy trader")

	close(s.stopCh)
	s.wg.Wait()

	return s.feed.Stop()
}

// watch shuts the application down once the feed stops on its own.
func (s *Service) watch() {
	defer s.wg.Done()

	select {
	case <-s.stopCh:
		return
	case <-s.feed.Done():
		s.logger.Warn("Feed closed by server, shutting down")
		if err := s.shutdowner.Shutdown(); err != nil {
			s.logger.Error("Failed to shut down", zap.Error(err))
		}
	}
}
