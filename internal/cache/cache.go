package cache

import (
	"context"
	"strings"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// AccountCache stores venue accounts of known coins keyed by mint. Misses
// return domain.ErrNotFound.
type AccountCache interface {
	UpsertPumpFun(ctx context.Context, coin *domain.PumpFunCoin) error
	UpsertRaydium(ctx context.Context, coin *domain.RaydiumCoin) error
	PumpFunByMint(ctx context.Context, mint string) (*domain.PumpFunCoin, error)
	PumpFunByName(ctx context.Context, name string) (*domain.PumpFunCoin, error)
	RaydiumByMint(ctx context.Context, mint string) (*domain.RaydiumCoin, error)
	RaydiumByName(ctx context.Context, name string) (*domain.RaydiumCoin, error)
	Close() error
}

const (
	pumpFunColumns = `mint_address, coin_name, bonding_curve, associated_bonding_curve, decimals, price`
	raydiumColumns = `mint_address, coin_name, amm_id, amm_open_orders, amm_target_orders,
		pool_coin_token_account, pool_pc_token_account, serum_market, serum_bids, serum_asks,
		serum_event_queue, serum_coin_vault, serum_pc_vault, serum_vault_signer`
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pump_fun_coin_accounts (
		mint_address TEXT PRIMARY KEY,
		coin_name TEXT NOT NULL,
		bonding_curve TEXT NOT NULL,
		associated_bonding_curve TEXT NOT NULL,
		decimals INTEGER NOT NULL,
		price DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS pump_fun_coin_accounts_name ON pump_fun_coin_accounts (coin_name)`,
	`CREATE TABLE IF NOT EXISTS raydium_coin_accounts (
		mint_address TEXT PRIMARY KEY,
		coin_name TEXT NOT NULL,
		amm_id TEXT NOT NULL,
		amm_open_orders TEXT NOT NULL,
		amm_target_orders TEXT NOT NULL,
		pool_coin_token_account TEXT NOT NULL,
		pool_pc_token_account TEXT NOT NULL,
		serum_market TEXT NOT NULL,
		serum_bids TEXT NOT NULL,
		serum_asks TEXT NOT NULL,
		serum_event_queue TEXT NOT NULL,
		serum_coin_vault TEXT NOT NULL,
		serum_pc_vault TEXT NOT NULL,
		serum_vault_signer TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS raydium_coin_accounts_name ON raydium_coin_accounts (coin_name)`,
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPumpFun(row scanner) (*domain.PumpFunCoin, error) {
	var coin domain.PumpFunCoin
	if err := row.Scan(
		&coin.MintAddress,
		&coin.CoinName,
		&coin.BondingCurve,
		&coin.AssociatedBondingCurve,
		&coin.Decimals,
		&coin.Price,
	); err != nil {
		return nil, err
	}
	return &coin, nil
}

func scanRaydium(row scanner) (*domain.RaydiumCoin, error) {
	var coin domain.RaydiumCoin
	if err := row.Scan(
		&coin.MintAddress,
		&coin.CoinName,
		&coin.AmmID,
		&coin.AmmOpenOrders,
		&coin.AmmTargetOrders,
		&coin.PoolCoinTokenAccount,
		&coin.PoolPcTokenAccount,
		&coin.SerumMarket,
		&coin.SerumBids,
		&coin.SerumAsks,
		&coin.SerumEventQueue,
		&coin.SerumCoinVault,
		&coin.SerumPcVault,
		&coin.SerumVaultSigner,
	); err != nil {
		return nil, err
	}
	return &coin, nil
}

func pumpFunArgs(coin *domain.PumpFunCoin) []any {
	return []any{
		coin.MintAddress,
		normalizeName(coin.CoinName),
		coin.BondingCurve,
		coin.AssociatedBondingCurve,
		coin.Decimals,
		coin.Price,
	}
}

func raydiumArgs(coin *domain.RaydiumCoin) []any {
	return []any{
		coin.MintAddress,
		normalizeName(coin.CoinName),
		coin.AmmID,
		coin.AmmOpenOrders,
		coin.AmmTargetOrders,
		coin.PoolCoinTokenAccount,
		coin.PoolPcTokenAccount,
		coin.SerumMarket,
		coin.SerumBids,
		coin.SerumAsks,
		coin.SerumEventQueue,
		coin.SerumCoinVault,
		coin.SerumPcVault,
		coin.SerumVaultSigner,
	}
}
