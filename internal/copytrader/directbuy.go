package copytrader

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/assembler"
	"github.com/igefined/solana-copy-trader/internal/cache"
	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/sizer"
	"github.com/igefined/solana-copy-trader/internal/submitter"
)

// DirectBuy buys a cached Pump.fun coin on demand, outside the stream.
type DirectBuy struct {
	logger    *zap.Logger
	cache     cache.AccountCache
	sizer     *sizer.Sizer
	submitter submitter.Submitter
	signer    solana.PublicKey
}

func NewDirectBuy(
	logger *zap.Logger,
	c cache.AccountCache,
	s *sizer.Sizer,
	sub submitter.Submitter,
	signer solana.PublicKey,
) *DirectBuy {
	return &DirectBuy{
		logger:    logger.Named("directbuy"),
		cache:     c,
		sizer:     s,
		submitter: sub,
		signer:    signer,
	}
}

// Buy spends up to maxSol on the coin identified by mint or name.
func (d *DirectBuy) Buy(ctx context.Context, mintOrName string, maxSol float64, slippage uint64) (string, error) {
	if maxSol <= 0 || math.IsNaN(maxSol) || math.IsInf(maxSol, 0) {
		return "", fmt.Errorf("%w: %v sol", domain.ErrInvalidBudget, maxSol)
	}
	if slippage > 100 {
		return "", fmt.Errorf("%w: %d%%", domain.ErrInvalidSlippage, slippage)
	}

	coin, err := d.lookup(ctx, mintOrName)
	if err != nil {
		return "", err
	}

	budget := uint64(math.Round(maxSol * domain.LamportsPerSOL))
	order, err := d.sizer.DirectBuy(coin.MintAddress, coin.Price*domain.LamportsPerSOL, coin.Decimals, budget, slippage)
	if err != nil {
		return "", err
	}
	d.logger.Info("Buying coin",
		zap.String("mint", coin.MintAddress),
		zap.String("name", coin.CoinName),
		zap.Uint64("amount", order.Amount),
		zap.Uint64("max_sol_cost", order.Bound))

	instructions, err := assembler.PumpFun(d.signer, &domain.PumpFunAccounts{
		Mint:                   coin.MintAddress,
		BondingCurve:           coin.BondingCurve,
		AssociatedBondingCurve: coin.AssociatedBondingCurve,
	}, order)
	if err != nil {
		return "", fmt.Errorf("failed to assemble pump.fun buy: %w", err)
	}

	return d.submitter.Submit(ctx, submitter.Request{
		Venue:        domain.VenuePumpFun,
		Instructions: instructions,
		ComputeUnits: domain.DefaultComputeUnitLimit,
	})
}

func (d *DirectBuy) lookup(ctx context.Context, mintOrName string) (*domain.PumpFunCoin, error) {
	coin, err := d.cache.PumpFunByMint(ctx, mintOrName)
	if err == nil {
		return coin, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return d.cache.PumpFunByName(ctx, mintOrName)
}
