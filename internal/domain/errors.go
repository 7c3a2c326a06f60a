package domain

import "errors"

// Decode gaps. These never escape as failures of the decoder itself; pipelines
// return them when a detection carries nothing actionable.
var (
	ErrNothingToCopy          = errors.New("nothing to copy")
	ErrInvalidInstructionData = errors.New("invalid instruction data")
)

// Validation errors are raised before any network call.
var (
	ErrInvalidBudget        = errors.New("invalid budget")
	ErrInvalidSlippage      = errors.New("invalid slippage")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrUnknownInstruction   = errors.New("unknown instruction")
)

// Resolution errors abort a single Raydium detection.
var (
	ErrResolution      = errors.New("account resolution failed")
	ErrAccountNotFound = errors.New("account not found")
	ErrNotMemeMint     = errors.New("pool mint is not a pump.fun mint")
)

var (
	ErrSubmission             = errors.New("submission failed")
	ErrFeeEstimateUnavailable = errors.New("priority fee estimate not available")
	// ErrConfirmationTimeout is kept apart from ErrSubmission so callers can
	// retry with a fresh blockhash.
	ErrConfirmationTimeout = errors.New("bundle failed to confirm within the timeout period")
)

var (
	ErrTransport = errors.New("transport failure")
	ErrNotFound  = errors.New("not found")
)
