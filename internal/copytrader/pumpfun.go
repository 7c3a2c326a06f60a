package copytrader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/assembler"
	"github.com/igefined/solana-copy-trader/internal/decoder"
	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/metrics"
	"github.com/igefined/solana-copy-trader/internal/sizer"
	"github.com/igefined/solana-copy-trader/internal/submitter"
)

// PumpFunPipeline copies every Pump.fun buy and sell of the watched wallet.
type PumpFunPipeline struct {
	logger    *zap.Logger
	metrics   *metrics.Metrics
	sizer     *sizer.Sizer
	submitter submitter.Submitter
	settings  Settings
}

var _ domain.Handler = (*PumpFunPipeline)(nil)

func NewPumpFunPipeline(
	logger *zap.Logger,
	m *metrics.Metrics,
	s *sizer.Sizer,
	sub submitter.Submitter,
	settings Settings,
) *PumpFunPipeline {
	return &PumpFunPipeline{
		logger:    logger.Named("pumpfun"),
		metrics:   m,
		sizer:     s,
		submitter: sub,
		settings:  settings,
	}
}

func (p *PumpFunPipeline) Name() string {
	return string(domain.VenuePumpFun)
}

func (p *PumpFunPipeline) Handle(ctx context.Context, payload []byte) (string, error) {
	signature, err := p.handle(ctx, payload)
	p.metrics.IncDetections(p.Name(), outcome(err))
	return signature, err
}

func (p *PumpFunPipeline) handle(ctx context.Context, payload []byte) (string, error) {
	event, err := decoder.ParseEvent(payload)
	if err != nil {
		return "", fmt.Errorf("failed to parse pump.fun event: %w", err)
	}
	swap := decoder.DecodePumpFun(event)

	order, err := p.size(swap)
	if err != nil {
		return "", err
	}
	p.logger.Info("Detected swap", zap.String("summary", swap.Summary()))

	instructions, err := assembler.PumpFun(p.settings.Signer, swap.Accounts, order)
	if err != nil {
		return "", fmt.Errorf("failed to assemble pump.fun %s: %w", order.Operation, err)
	}

	return p.submitter.Submit(ctx, submitter.Request{
		Venue:           domain.VenuePumpFun,
		Instructions:    instructions,
		ComputeUnits:    domain.DefaultComputeUnitLimit,
		CopiedSignature: *swap.Signature,
	})
}

// size mirrors a buy from the executed amounts and a sell from the declared
// instruction arguments.
func (p *PumpFunPipeline) size(swap *domain.PumpFunSwap) (*domain.CopyOrder, error) {
	switch {
	case swap.Signature == nil:
		return nil, fmt.Errorf("%w: no signature", domain.ErrNothingToCopy)
	case swap.Accounts == nil:
		return nil, fmt.Errorf("%w: no pump.fun accounts", domain.ErrNothingToCopy)
	case swap.Data == nil:
		return nil, fmt.Errorf("%w: no pump.fun instruction data", domain.ErrNothingToCopy)
	}

	switch swap.Data.Operation {
	case domain.OperationBuy:
		if swap.Amounts == nil {
			return nil, fmt.Errorf("%w: no executed amounts", domain.ErrNothingToCopy)
		}
		return p.sizer.CopyBuy(swap.Accounts.Mint, swap.Amounts.Sol, swap.Amounts.Amount,
			p.settings.Budget, p.settings.Slippage)
	case domain.OperationSell:
		return p.sizer.CopySell(swap.Accounts.Mint, swap.Data.Amount, swap.Data.Sol, p.settings.Slippage)
	default:
		return nil, fmt.Errorf("%w: pump.fun discriminator", domain.ErrUnknownInstruction)
	}
}
