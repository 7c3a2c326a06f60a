package submitter

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/config"
	"github.com/igefined/solana-copy-trader/internal/metrics"
)

const moduleName = "submitter"

var Module = fx.Module(moduleName,
	fx.Provide(
		func(cfg *config.Config) *rpc.Client {
			return rpc.New(cfg.Helius.RPCURL)
		},
		func(cfg *config.Config) (solana.PrivateKey, error) {
			key, err := solana.PrivateKeyFromBase58(cfg.SignerPrivateKey)
			if err != nil {
				return nil, fmt.Errorf("failed to parse signer private key: %w", err)
			}
			return key, nil
		},
		fx.Annotate(NewRPCChain, fx.As(new(Chain))),
		fx.Annotate(
			func(cfg *config.Config) *HeliusFeeEstimator {
				return NewHeliusFeeEstimator(jsonrpc.NewClient(cfg.Helius.RPCURL))
			},
			fx.As(new(FeeEstimator)),
		),
		fx.Annotate(
			func(cfg *config.Config) *JitoRelay {
				return NewJitoRelay(cfg.Jito.BlockEngineURL)
			},
			fx.As(new(BundleRelay)),
		),
		fx.Annotate(
			func(
				cfg *config.Config,
				logger *zap.Logger,
				m *metrics.Metrics,
				signer solana.PrivateKey,
				chain Chain,
				fees FeeEstimator,
				relay BundleRelay,
			) *SmartSubmitter {
				return NewSmartSubmitter(logger, m, signer, chain, fees, relay, Options{
					TipLamports: cfg.Jito.TipLamports,
				})
			},
			fx.As(new(Submitter)),
		),
	),
)
