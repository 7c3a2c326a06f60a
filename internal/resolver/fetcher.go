package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// AccountFetcher returns the raw data of an on-chain account.
type AccountFetcher interface {
	AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
}

type RPCFetcher struct {
	client *rpc.Client
}

func NewRPCFetcher(client *rpc.Client) *RPCFetcher {
	return &RPCFetcher{client: client}
}

func (f *RPCFetcher) AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	info, err := f.client.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, account)
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", account, err)
	}
	if info == nil || info.Value == nil || info.Value.Data == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, account)
	}

	data := info.Value.Data.GetBinary()
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s has no data", domain.ErrAccountNotFound, account)
	}
	return data, nil
}
