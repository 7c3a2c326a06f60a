package submitter

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Chain is the slice of the cluster RPC the submitter depends on.
type Chain interface {
	LatestBlockhash(ctx context.Context) (*Blockhash, error)
	BlockHeight(ctx context.Context) (uint64, error)
}

type RPCChain struct {
	client *rpc.Client
}

func NewRPCChain(client *rpc.Client) *RPCChain {
	return &RPCChain{client: client}
}

func (c *RPCChain) LatestBlockhash(ctx context.Context) (*Blockhash, error) {
	out, err := c.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("failed to get latest blockhash: empty response")
	}
	return &Blockhash{
		Hash:                 out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

func (c *RPCChain) BlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.client.GetBlockHeight(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get block height: %w", err)
	}
	return height, nil
}
