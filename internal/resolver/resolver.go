package resolver

import (
	"context"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// Resolver classifies Raydium swaps against live chain state: it reads the
// pool to find the traded mint and the user's source account to find the side.
type Resolver struct {
	logger  *zap.Logger
	fetcher AccountFetcher
}

func New(logger *zap.Logger, fetcher AccountFetcher) *Resolver {
	return &Resolver{
		logger:  logger.Named("resolver"),
		fetcher: fetcher,
	}
}

func (r *Resolver) Classify(ctx context.Context, accounts *domain.RaydiumAccounts) (*domain.RaydiumTrade, error) {
	mint, err := r.PoolMint(ctx, accounts.AmmID)
	if err != nil {
		return nil, err
	}

	return &domain.RaydiumTrade{
		Mint:      mint,
		Operation: r.Side(ctx, accounts.UserSourceTokenAccount),
	}, nil
}

// PoolMint returns the pc mint of the pool, rejecting pools whose mint does
// not carry the meme suffix.
func (r *Resolver) PoolMint(ctx context.Context, ammID string) (solana.PublicKey, error) {
	amm, err := solana.PublicKeyFromBase58(ammID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: invalid amm id %q: %v", domain.ErrResolution, ammID, err)
	}

	data, err := r.fetcher.AccountData(ctx, amm)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}
	info, err := DecodeAmmInfo(data)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}

	mint := info.PcVaultMint
	if !strings.HasSuffix(mint.String(), domain.MemeMintSuffix) {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", domain.ErrNotMemeMint, mint)
	}
	return mint, nil
}

// Side is Buy when the user pays with wrapped SOL and Sell otherwise. An
// unreadable source account counts as Buy.
func (r *Resolver) Side(ctx context.Context, source string) domain.Operation {
	account, err := solana.PublicKeyFromBase58(source)
	if err != nil {
		r.logger.Warn("Invalid source account, assuming buy", zap.String("account", source), zap.Error(err))
		return domain.OperationBuy
	}

	data, err := r.fetcher.AccountData(ctx, account)
	if err != nil {
		r.logger.Warn("Failed to fetch source account, assuming buy", zap.String("account", source), zap.Error(err))
		return domain.OperationBuy
	}

	var tokenAccount token.Account
	if err = bin.NewBinDecoder(data).Decode(&tokenAccount); err != nil {
		r.logger.Warn("Failed to decode source account, assuming buy", zap.String("account", source), zap.Error(err))
		return domain.OperationBuy
	}

	if tokenAccount.Mint.Equals(domain.WSOLMint) {
		return domain.OperationBuy
	}
	return domain.OperationSell
}
