package submitter

import (
	"context"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// FeeEstimator recommends a compute unit price for an encoded transaction.
type FeeEstimator interface {
	PriorityFee(ctx context.Context, encodedTx string) (uint64, error)
}

type HeliusFeeEstimator struct {
	rpc jsonrpc.RPCClient
}

func NewHeliusFeeEstimator(rpc jsonrpc.RPCClient) *HeliusFeeEstimator {
	return &HeliusFeeEstimator{rpc: rpc}
}

type priorityFeeRequest struct {
	Transaction string             `json:"transaction"`
	Options     priorityFeeOptions `json:"options"`
}

type priorityFeeOptions struct {
	Recommended bool `json:"recommended"`
}

type priorityFeeResult struct {
	PriorityFeeEstimate *float64 `json:"priorityFeeEstimate"`
}

func (h *HeliusFeeEstimator) PriorityFee(ctx context.Context, encodedTx string) (uint64, error) {
	var result priorityFeeResult
	err := callRPC(ctx, h.rpc, "getPriorityFeeEstimate", []any{priorityFeeRequest{
		Transaction: encodedTx,
		Options:     priorityFeeOptions{Recommended: true},
	}}, &result)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrFeeEstimateUnavailable, err)
	}
	if result.PriorityFeeEstimate == nil {
		return 0, domain.ErrFeeEstimateUnavailable
	}

	estimate := *result.PriorityFeeEstimate
	if estimate < 0 || math.IsNaN(estimate) || math.IsInf(estimate, 0) {
		return 0, fmt.Errorf("%w: estimate %v", domain.ErrFeeEstimateUnavailable, estimate)
	}
	return uint64(estimate), nil
}
