package main

import (
	"go.uber.org/fx"

	"github.com/igefined/solana-copy-trader/pkg/logger"

	"github.com/igefined/solana-copy-trader/internal/config"
	"github.com/igefined/solana-copy-trader/internal/copytrader"
	"github.com/igefined/solana-copy-trader/internal/health"
	"github.com/igefined/solana-copy-trader/internal/metrics"
	"github.com/igefined/solana-copy-trader/internal/resolver"
	"github.com/igefined/solana-copy-trader/internal/submitter"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		logger.WithFxEvents,
		// Infrastructure modules
		metrics.Module,
		health.Module,
		// Chain access modules
		submitter.Module,
		resolver.Module,
		// Business logic modules
		copytrader.Module,
	).Run()
}
