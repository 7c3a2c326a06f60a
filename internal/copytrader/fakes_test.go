package copytrader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/submitter"
)

var testSigner = solana.MustPublicKeyFromBase58("9txcdTtZaHUsT55kKmgivkfcdnP4tGppqN7tUAjpjVj5")

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	payload, err := os.ReadFile(filepath.Join("..", "decoder", "testdata", name))
	require.NoError(t, err)
	return payload
}

type fakeSubmitter struct {
	mu        sync.Mutex
	requests  []submitter.Request
	signature string
	err       error
}

func (f *fakeSubmitter) Submit(_ context.Context, req submitter.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.signature, nil
}

type fakeClassifier struct {
	trade *domain.RaydiumTrade
	err   error
}

func (f *fakeClassifier) Classify(context.Context, *domain.RaydiumAccounts) (*domain.RaydiumTrade, error) {
	return f.trade, f.err
}

type fakeCache struct {
	coins map[string]*domain.PumpFunCoin
	err   error
	names []string
}

func (f *fakeCache) UpsertPumpFun(context.Context, *domain.PumpFunCoin) error { return nil }
func (f *fakeCache) UpsertRaydium(context.Context, *domain.RaydiumCoin) error { return nil }

func (f *fakeCache) PumpFunByMint(_ context.Context, mint string) (*domain.PumpFunCoin, error) {
	if f.err != nil {
		return nil, f.err
	}
	if coin, ok := f.coins[mint]; ok {
		return coin, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCache) PumpFunByName(_ context.Context, name string) (*domain.PumpFunCoin, error) {
	f.names = append(f.names, name)
	for _, coin := range f.coins {
		if coin.CoinName == name {
			return coin, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCache) RaydiumByMint(context.Context, string) (*domain.RaydiumCoin, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeCache) RaydiumByName(context.Context, string) (*domain.RaydiumCoin, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeCache) Close() error { return nil }

type fakeFeed struct {
	started bool
	stopped bool
	done    chan struct{}
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{done: make(chan struct{})}
}

func (f *fakeFeed) Start() error          { f.started = true; return nil }
func (f *fakeFeed) Stop() error           { f.stopped = true; return nil }
func (f *fakeFeed) Done() <-chan struct{} { return f.done }

type fakeShutdowner struct {
	called chan struct{}
}

func (f *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	close(f.called)
	return nil
}
