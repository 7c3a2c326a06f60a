package submitter

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// callRPC invokes method and decodes the result into out. Calls are never
// retried: a resubmitted bundle is a second bundle. HTTP status and network
// failures surface as domain.ErrTransport.
func callRPC(ctx context.Context, client jsonrpc.RPCClient, method string, params []any, out any) error {
	err := client.CallForInto(ctx, out, method, params)
	if err == nil {
		return nil
	}

	var (
		rpcErr  *jsonrpc.RPCError
		httpErr *jsonrpc.HTTPError
		urlErr  *url.Error
	)
	switch {
	case errors.As(err, &rpcErr):
		return fmt.Errorf("%s: rpc error %d: %s", method, rpcErr.Code, rpcErr.Message)
	case errors.As(err, &httpErr):
		return fmt.Errorf("%w: %s returned status %d", domain.ErrTransport, method, httpErr.Code)
	case errors.As(err, &urlErr):
		return fmt.Errorf("%w: %s: %v", domain.ErrTransport, method, urlErr.Err)
	}
	return fmt.Errorf("failed to decode %s response: %w", method, err)
}
