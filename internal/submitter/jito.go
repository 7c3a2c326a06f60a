package submitter

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const bundlesPath = "/api/v1/bundles"

// JitoTipAccounts receive the bundle tip; one is picked at random per bundle.
var JitoTipAccounts = []solana.PublicKey{
	solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
	solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4bVNa1xJZmCkrhGnVw6nNYS"),
	solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
	solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
	solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
	solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
	solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
	solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
}

// BundleStatus is the relay's view of a bundle. It is nil until the relay
// has seen the bundle land.
type BundleStatus struct {
	BundleID           string   `json:"bundle_id"`
	Transactions       []string `json:"transactions"`
	Slot               uint64   `json:"slot"`
	ConfirmationStatus string   `json:"confirmation_status"`
}

// Confirmed reports whether the bundle reached at least confirmed commitment.
func (s *BundleStatus) Confirmed() bool {
	if s == nil || len(s.Transactions) == 0 {
		return false
	}
	return s.ConfirmationStatus == "confirmed" || s.ConfirmationStatus == "finalized"
}

type BundleRelay interface {
	SendBundle(ctx context.Context, encodedTxs []string) (string, error)
	BundleStatus(ctx context.Context, bundleID string) (*BundleStatus, error)
}

type JitoRelay struct {
	rpc jsonrpc.RPCClient
}

// NewJitoRelay targets the bundles endpoint of a regional block engine.
func NewJitoRelay(blockEngineURL string) *JitoRelay {
	return &JitoRelay{rpc: jsonrpc.NewClient(blockEngineURL+bundlesPath)}
}

func (j *JitoRelay) SendBundle(ctx context.Context, encodedTxs []string) (string, error) {
	var bundleID string
	if err := callRPC(ctx, j.rpc, "sendBundle", []any{encodedTxs}, &bundleID); err != nil {
		return "", fmt.Errorf("failed to send bundle: %w", err)
	}
	if bundleID == "" {
		return "", fmt.Errorf("failed to send bundle: empty bundle id")
	}
	return bundleID, nil
}

type bundleStatusesResult struct {
	Value []*BundleStatus `json:"value"`
}

func (j *JitoRelay) BundleStatus(ctx context.Context, bundleID string) (*BundleStatus, error) {
	var result bundleStatusesResult
	if err := callRPC(ctx, j.rpc, "getBundleStatuses", []any{[]string{bundleID}}, &result); err != nil {
		return nil, fmt.Errorf("failed to get bundle status: %w", err)
	}
	if len(result.Value) == 0 {
		return nil, nil
	}
	return result.Value[0], nil
}
