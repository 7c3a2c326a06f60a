package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/pkg/logger"

	"github.com/igefined/solana-copy-trader/internal/cache"
	"github.com/igefined/solana-copy-trader/internal/domain"
)

// Seed is the layout of the input file.
type Seed struct {
	PumpFun []domain.PumpFunCoin `json:"pump_fun"`
	Raydium []domain.RaydiumCoin `json:"raydium"`
}

func main() {
	file := flag.String("file", "", "JSON file with pump_fun and raydium coin accounts")
	driver := flag.String("driver", "sqlite3", "cache driver: sqlite3 or postgres")
	dsn := flag.String("dsn", "copytrader.db", "sqlite file or postgres connection string")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.NewLogger("info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err = run(context.Background(), log, *file, *driver, *dsn); err != nil {
		log.Fatal("Failed to load cache", zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.Logger, file, driver, dsn string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed Seed
	if err = json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	c, err := cache.Open(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer c.Close()

	for i := range seed.PumpFun {
		if err = c.UpsertPumpFun(ctx, &seed.PumpFun[i]); err != nil {
			return err
		}
	}
	for i := range seed.Raydium {
		if err = c.UpsertRaydium(ctx, &seed.Raydium[i]); err != nil {
			return err
		}
	}

	log.Info("Loaded coin accounts",
		zap.Int("pump_fun", len(seed.PumpFun)),
		zap.Int("raydium", len(seed.Raydium)))
	return nil
}
