package copytrader

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// Settings are the copy parameters shared by every pipeline.
type Settings struct {
	Signer solana.PublicKey
	// Budget is the per-trade spend in lamports.
	Budget   uint64
	Slippage uint64
}

// outcome labels a detection for the detections counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return "copied"
	case errors.Is(err, domain.ErrNothingToCopy):
		return "skipped"
	case errors.Is(err, domain.ErrUnsupportedOperation), errors.Is(err, domain.ErrUnknownInstruction):
		return "unsupported"
	case errors.Is(err, domain.ErrResolution):
		return "unresolved"
	case errors.Is(err, domain.ErrConfirmationTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrInvalidBudget), errors.Is(err, domain.ErrInvalidSlippage),
		errors.Is(err, domain.ErrInvalidPrice):
		return "rejected"
	default:
		return "failed"
	}
}

func computeUnits(hints domain.ComputeHints) uint32 {
	if hints.UnitLimit == 0 {
		return domain.DefaultComputeUnitLimit
	}
	return hints.UnitLimit
}
