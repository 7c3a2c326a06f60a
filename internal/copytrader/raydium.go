package copytrader

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/assembler"
	"github.com/igefined/solana-copy-trader/internal/decoder"
	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/metrics"
	"github.com/igefined/solana-copy-trader/internal/submitter"
)

// RaydiumPipeline copies buys of Pump.fun graduated tokens through the same
// AMM v4 pool the watched wallet used.
type RaydiumPipeline struct {
	logger     *zap.Logger
	metrics    *metrics.Metrics
	classifier decoder.Classifier
	submitter  submitter.Submitter
	settings   Settings
}

var _ domain.Handler = (*RaydiumPipeline)(nil)

func NewRaydiumPipeline(
	logger *zap.Logger,
	m *metrics.Metrics,
	classifier decoder.Classifier,
	sub submitter.Submitter,
	settings Settings,
) *RaydiumPipeline {
	return &RaydiumPipeline{
		logger:     logger.Named("raydium"),
		metrics:    m,
		classifier: classifier,
		submitter:  sub,
		settings:   settings,
	}
}

func (p *RaydiumPipeline) Name() string {
	return string(domain.VenueRaydium)
}

func (p *RaydiumPipeline) Handle(ctx context.Context, payload []byte) (string, error) {
	signature, err := p.handle(ctx, payload)
	p.metrics.IncDetections(p.Name(), outcome(err))
	return signature, err
}

func (p *RaydiumPipeline) handle(ctx context.Context, payload []byte) (string, error) {
	event, err := decoder.ParseEvent(payload)
	if err != nil {
		return "", fmt.Errorf("failed to parse raydium event: %w", err)
	}

	swap, err := decoder.DecodeRaydium(ctx, event, p.classifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotMemeMint) {
			return "", fmt.Errorf("%w: %w", domain.ErrNothingToCopy, err)
		}
		return "", err
	}

	switch {
	case swap.Signature == nil:
		return "", fmt.Errorf("%w: no signature", domain.ErrNothingToCopy)
	case swap.Accounts == nil || swap.Trade == nil:
		return "", fmt.Errorf("%w: no raydium swap", domain.ErrNothingToCopy)
	case swap.Trade.Operation != domain.OperationBuy:
		return "", fmt.Errorf("%w: raydium %s", domain.ErrUnsupportedOperation, swap.Trade.Operation)
	case swap.Data == nil:
		return "", fmt.Errorf("%w: no raydium instruction data", domain.ErrNothingToCopy)
	case swap.Amounts == nil:
		return "", fmt.Errorf("%w: no raydium inner amounts", domain.ErrNothingToCopy)
	case p.settings.Budget == 0:
		return "", domain.ErrInvalidBudget
	}
	p.logger.Info("Detected swap", zap.String("summary", swap.Summary()))

	instructions, err := assembler.Raydium(p.settings.Signer, swap.Accounts, swap.Trade,
		swap.Data.Opcode, p.settings.Budget)
	if err != nil {
		return "", fmt.Errorf("failed to assemble raydium swap: %w", err)
	}

	return p.submitter.Submit(ctx, submitter.Request{
		Venue:           domain.VenueRaydium,
		Instructions:    instructions,
		ComputeUnits:    computeUnits(swap.Compute),
		CopiedSignature: *swap.Signature,
	})
}
