package copytrader

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/fx"

	"github.com/igefined/solana-copy-trader/internal/config"
	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/sizer"
)

const moduleName = "copytrader"

// Module runs both copy pipelines on the live feed.
var Module = fx.Module(moduleName,
	fx.Provide(
		sizer.New,
		newSettings,
		fx.Annotate(
			NewPumpFunPipeline,
			fx.As(new(domain.Handler)),
			fx.ResultTags(`group:"handlers"`),
		),
		fx.Annotate(
			NewRaydiumPipeline,
			fx.As(new(domain.Handler)),
			fx.ResultTags(`group:"handlers"`),
		),
		NewService,
	),
	fx.Invoke(func(lc fx.Lifecycle, service *Service) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return service.Start()
			},
			OnStop: func(ctx context.Context) error {
				return service.Stop()
			},
		})
	}),
)

// DirectBuyModule provides the on-demand buyer without the feed.
var DirectBuyModule = fx.Module("directbuy",
	fx.Provide(
		sizer.New,
		func(key solana.PrivateKey) solana.PublicKey {
			return key.PublicKey()
		},
		NewDirectBuy,
	),
)

func newSettings(cfg *config.Config, key solana.PrivateKey) Settings {
	return Settings{
		Signer:   key.PublicKey(),
		Budget:   cfg.MaxSolBuy,
		Slippage: cfg.SlippagePercent,
	}
}
