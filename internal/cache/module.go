package cache

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/config"
)

const moduleName = "cache"

var Module = fx.Module(moduleName,
	fx.Provide(func(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (AccountCache, error) {
		c, err := Open(context.Background(), cfg.Cache.Driver, cfg.Cache.DSN)
		if err != nil {
			return nil, err
		}
		logger.Named(moduleName).Info("Opened account cache", zap.String("driver", cfg.Cache.Driver))

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return c.Close()
			},
		})
		return c, nil
	}),
)

// Open selects the backend by driver name.
func Open(ctx context.Context, driver, dsn string) (AccountCache, error) {
	switch driver {
	case "sqlite3", "":
		return NewSQLiteCache(ctx, dsn)
	case "postgres":
		return NewPostgresCache(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", driver)
	}
}
