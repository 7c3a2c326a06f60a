package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/pkg/logger"

	"github.com/igefined/solana-copy-trader/internal/cache"
	"github.com/igefined/solana-copy-trader/internal/config"
	"github.com/igefined/solana-copy-trader/internal/copytrader"
	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/metrics"
	"github.com/igefined/solana-copy-trader/internal/submitter"
)

func main() {
	coin := flag.String("coin", "", "mint address or name of a cached pump.fun coin")
	maxSol := flag.Float64("sol", 0, "maximum SOL to spend")
	slippage := flag.Int("slippage", -1, "slippage percent, defaults to SLIPPAGE_PERCENT")
	flag.Parse()

	if *coin == "" || *maxSol <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*coin, *maxSol, *slippage); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(coin string, maxSol float64, slippage int) error {
	var (
		cfg   *config.Config
		log   *zap.Logger
		buyer *copytrader.DirectBuy
	)
	app := fx.New(
		config.Module,
		logger.Module,
		logger.WithFxEvents,
		metrics.Module,
		cache.Module,
		submitter.Module,
		copytrader.DirectBuyModule,
		fx.Populate(&cfg, &log, &buyer),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	pct := cfg.SlippagePercent
	if slippage >= 0 {
		pct = uint64(slippage)
	}

	signature, err := buyer.Buy(context.Background(), coin, maxSol, pct)
	if err != nil {
		return err
	}
	log.Info("Direct buy confirmed", zap.String("tx", domain.SolscanTxURL(signature)))
	return nil
}
