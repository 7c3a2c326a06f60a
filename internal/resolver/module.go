package resolver

import (
	"go.uber.org/fx"

	"github.com/igefined/solana-copy-trader/internal/decoder"
)

const moduleName = "resolver"

// Module expects an *rpc.Client from the submitter module.
var Module = fx.Module(moduleName,
	fx.Provide(
		fx.Annotate(NewRPCFetcher, fx.As(new(AccountFetcher))),
		fx.Annotate(New, fx.As(new(decoder.Classifier))),
	),
)
