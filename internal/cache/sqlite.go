package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

type SQLiteCache struct {
	db *sql.DB
}

var _ AccountCache = (*SQLiteCache)(nil)

// NewSQLiteCache opens the database file at path and creates the tables.
func NewSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}
	return &SQLiteCache{db: db}, nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache) UpsertPumpFun(ctx context.Context, coin *domain.PumpFunCoin) error {
	query := `INSERT OR REPLACE INTO pump_fun_coin_accounts (` + pumpFunColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := c.db.ExecContext(ctx, query, pumpFunArgs(coin)...); err != nil {
		return fmt.Errorf("failed to upsert pump.fun coin: %w", err)
	}
	return nil
}

func (c *SQLiteCache) UpsertRaydium(ctx context.Context, coin *domain.RaydiumCoin) error {
	query := `INSERT OR REPLACE INTO raydium_coin_accounts (` + raydiumColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := c.db.ExecContext(ctx, query, raydiumArgs(coin)...); err != nil {
		return fmt.Errorf("failed to upsert raydium coin: %w", err)
	}
	return nil
}

func (c *SQLiteCache) PumpFunByMint(ctx context.Context, mint string) (*domain.PumpFunCoin, error) {
	return c.pumpFun(ctx, `mint_address = ?`, mint)
}

func (c *SQLiteCache) PumpFunByName(ctx context.Context, name string) (*domain.PumpFunCoin, error) {
	return c.pumpFun(ctx, `coin_name = ?`, normalizeName(name))
}

func (c *SQLiteCache) RaydiumByMint(ctx context.Context, mint string) (*domain.RaydiumCoin, error) {
	return c.raydium(ctx, `mint_address = ?`, mint)
}

func (c *SQLiteCache) RaydiumByName(ctx context.Context, name string) (*domain.RaydiumCoin, error) {
	return c.raydium(ctx, `coin_name = ?`, normalizeName(name))
}

func (c *SQLiteCache) pumpFun(ctx context.Context, where string, arg string) (*domain.PumpFunCoin, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+pumpFunColumns+` FROM pump_fun_coin_accounts WHERE `+where+` LIMIT 1`, arg)
	coin, err := scanPumpFun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pump.fun coin %q: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pump.fun coin: %w", err)
	}
	return coin, nil
}

func (c *SQLiteCache) raydium(ctx context.Context, where string, arg string) (*domain.RaydiumCoin, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+raydiumColumns+` FROM raydium_coin_accounts WHERE `+where+` LIMIT 1`, arg)
	coin, err := scanRaydium(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("raydium coin %q: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query raydium coin: %w", err)
	}
	return coin, nil
}
