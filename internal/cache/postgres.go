package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

type PostgresCache struct {
	pool *pgxpool.Pool
}

var _ AccountCache = (*PostgresCache)(nil)

// NewPostgresCache connects to dsn, verifies the connection and creates the
// tables.
func NewPostgresCache(ctx context.Context, dsn string) (*PostgresCache, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	for _, stmt := range schema {
		if _, err = pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create postgres schema: %w", err)
		}
	}
	return &PostgresCache{pool: pool}, nil
}

func (c *PostgresCache) Close() error {
	c.pool.Close()
	return nil
}

func (c *PostgresCache) UpsertPumpFun(ctx context.Context, coin *domain.PumpFunCoin) error {
	query := `INSERT INTO pump_fun_coin_accounts (` + pumpFunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (mint_address) DO UPDATE SET ` + excluded(pumpFunColumns)
	if _, err := c.pool.Exec(ctx, query, pumpFunArgs(coin)...); err != nil {
		return fmt.Errorf("failed to upsert pump.fun coin: %w", err)
	}
	return nil
}

func (c *PostgresCache) UpsertRaydium(ctx context.Context, coin *domain.RaydiumCoin) error {
	query := `INSERT INTO raydium_coin_accounts (` + raydiumColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (mint_address) DO UPDATE SET ` + excluded(raydiumColumns)
	if _, err := c.pool.Exec(ctx, query, raydiumArgs(coin)...); err != nil {
		return fmt.Errorf("failed to upsert raydium coin: %w", err)
	}
	return nil
}

func (c *PostgresCache) PumpFunByMint(ctx context.Context, mint string) (*domain.PumpFunCoin, error) {
	return c.pumpFun(ctx, `mint_address = $1`, mint)
}

func (c *PostgresCache) PumpFunByName(ctx context.Context, name string) (*domain.PumpFunCoin, error) {
	return c.pumpFun(ctx, `coin_name = $1`, normalizeName(name))
}

func (c *PostgresCache) RaydiumByMint(ctx context.Context, mint string) (*domain.RaydiumCoin, error) {
	return c.raydium(ctx, `mint_address = $1`, mint)
}

func (c *PostgresCache) RaydiumByName(ctx context.Context, name string) (*domain.RaydiumCoin, error) {
	return c.raydium(ctx, `coin_name = $1`, normalizeName(name))
}

func (c *PostgresCache) pumpFun(ctx context.Context, where string, arg string) (*domain.PumpFunCoin, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+pumpFunColumns+` FROM pump_fun_coin_accounts WHERE `+where+` LIMIT 1`, arg)
	coin, err := scanPumpFun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("pump.fun coin %q: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pump.fun coin: %w", err)
	}
	return coin, nil
}

func (c *PostgresCache) raydium(ctx context.Context, where string, arg string) (*domain.RaydiumCoin, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+raydiumColumns+` FROM raydium_coin_accounts WHERE `+where+` LIMIT 1`, arg)
	coin, err := scanRaydium(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("raydium coin %q: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query raydium coin: %w", err)
	}
	return coin, nil
}

// excluded renders "col = EXCLUDED.col" for every non-key column.
func excluded(columns string) string {
	var sets []string
	for _, column := range strings.Split(columns, ",") {
		column = strings.TrimSpace(column)
		if column == "" || column == "mint_address" {
			continue
		}
		sets = append(sets, column+" = EXCLUDED."+column)
	}
	return strings.Join(sets, ", ")
}
