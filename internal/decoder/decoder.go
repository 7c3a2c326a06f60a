package decoder

import (
	"context"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// Detector turns a feed event into the venue's DetectedSwap variant.
type Detector interface {
	Venue() domain.Venue
	Detect(ctx context.Context, event *Event) (domain.DetectedSwap, error)
}

type PumpFunDetector struct{}

func (PumpFunDetector) Venue() domain.Venue { return domain.VenuePumpFun }

func (PumpFunDetector) Detect(_ context.Context, event *Event) (domain.DetectedSwap, error) {
	return DecodePumpFun(event), nil
}

type RaydiumDetector struct {
	Classifier Classifier
}

func (RaydiumDetector) Venue() domain.Venue { return domain.VenueRaydium }

func (d RaydiumDetector) Detect(ctx context.Context, event *Event) (domain.DetectedSwap, error) {
	return DecodeRaydium(ctx, event, d.Classifier)
}
