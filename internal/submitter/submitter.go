package submitter

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/assembler"
	"github.com/igefined/solana-copy-trader/internal/domain"
	"github.com/igefined/solana-copy-trader/internal/metrics"
)

const (
	DefaultTipLamports    = 10_000
	DefaultPollInterval   = 5 * time.Second
	DefaultConfirmTimeout = 60 * time.Second
)

type Options struct {
	TipLamports    uint64
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
}

// Request is one copy transaction. ComputeUnits becomes the compute unit
// limit of the final transaction.
type Request struct {
	Venue           domain.Venue
	Instructions    []solana.Instruction
	ComputeUnits    uint32
	CopiedSignature string
}

// Submitter lands a transaction and returns its signature.
type Submitter interface {
	Submit(ctx context.Context, req Request) (string, error)
}

// SmartSubmitter prices a draft transaction with the fee estimator, signs the
// final transaction with compute budget instructions in front and sends it as
// a single-transaction bundle.
type SmartSubmitter struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	signer  solana.PrivateKey
	chain   Chain
	fees    FeeEstimator
	relay   BundleRelay
	opts    Options

	// mu serializes blockhash, signing and bundle submission.
	mu sync.Mutex

	pickTip func() solana.PublicKey
	now     func() time.Time
}

func NewSmartSubmitter(
	logger *zap.Logger,
	m *metrics.Metrics,
	signer solana.PrivateKey,
	chain Chain,
	fees FeeEstimator,
	relay BundleRelay,
	opts Options,
) *SmartSubmitter {
	if opts.TipLamports == 0 {
		opts.TipLamports = DefaultTipLamports
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = DefaultConfirmTimeout
	}

	return &SmartSubmitter{
		logger:  logger.Named("submitter"),
		metrics: m,
		signer:  signer,
		chain:   chain,
		fees:    fees,
		relay:   relay,
		opts:    opts,
		pickTip: func() solana.PublicKey {
			return JitoTipAccounts[rand.IntN(len(JitoTipAccounts))]
		},
		now: time.Now,
	}
}

func (s *SmartSubmitter) Submit(ctx context.Context, req Request) (string, error) {
	timing := domain.NewSubmissionTiming(uuid.NewString(), s.now())
	log := s.logger.With(
		zap.String("request_id", timing.RequestID),
		zap.String("venue", string(req.Venue)),
	)
	if req.CopiedSignature != "" {
		log = log.With(zap.String("copied_tx", domain.SolscanTxURL(req.CopiedSignature)))
	}

	tip := system.NewTransferInstruction(s.opts.TipLamports, s.signer.PublicKey(), s.pickTip()).Build()
	instructions := append(slices.Clone(req.Instructions), tip)

	bundleID, lastValid, fee, err := s.send(ctx, instructions, req.ComputeUnits, timing)
	if err != nil {
		s.metrics.IncSubmissions(string(req.Venue), "failed")
		log.Error("Failed to submit bundle", zap.Error(err))
		return "", err
	}
	log = log.With(
		zap.String("bundle", domain.JitoBundleURL(bundleID)),
		zap.Uint64("priority_fee", fee),
	)
	log.Info("Bundle sent", zap.Durationp("submission_latency", timing.SubmissionLatency))

	signature, err := s.waitForConfirmation(ctx, bundleID, lastValid, log)
	if err != nil {
		result := "failed"
		if errors.Is(err, domain.ErrConfirmationTimeout) {
			result = "timeout"
		}
		s.metrics.IncSubmissions(string(req.Venue), result)
		log.Error("Bundle not confirmed", zap.Error(err))
		return "", err
	}

	timing.UpdateTiming(domain.StageConfirmed, s.now())
	s.metrics.IncSubmissions(string(req.Venue), "confirmed")
	if timing.TotalLatency != nil {
		s.metrics.ObserveSubmissionLatency(string(req.Venue), *timing.TotalLatency)
	}
	log.Info("Bundle confirmed",
		zap.String("outgoing_tx", domain.SolscanTxURL(signature)),
		zap.Durationp("confirmation_latency", timing.ConfirmationLatency),
		zap.Durationp("total_latency", timing.TotalLatency),
	)
	return signature, nil
}

// send runs every step that touches the signer while holding the lock.
func (s *SmartSubmitter) send(
	ctx context.Context,
	instructions []solana.Instruction,
	units uint32,
	timing *domain.SubmissionTiming,
) (bundleID string, lastValid uint64, fee uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blockhash, err := s.chain.LatestBlockhash(ctx)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", domain.ErrSubmission, err)
	}

	draft, err := s.encode(instructions, blockhash.Hash)
	if err != nil {
		return "", 0, 0, err
	}
	fee, err = s.fees.PriorityFee(ctx, draft)
	if err != nil {
		return "", 0, 0, err
	}
	timing.UpdateTiming(domain.StageFeeEstimated, s.now())

	final := append([]solana.Instruction{
		assembler.SetComputeUnitPrice(fee),
		assembler.SetComputeUnitLimit(units),
	}, instructions...)
	encoded, err := s.encode(final, blockhash.Hash)
	if err != nil {
		return "", 0, 0, err
	}

	bundleID, err = s.relay.SendBundle(ctx, []string{encoded})
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", domain.ErrSubmission, err)
	}
	timing.UpdateTiming(domain.StageSubmitted, s.now())

	return bundleID, blockhash.LastValidBlockHeight, fee, nil
}

func (s *SmartSubmitter) encode(instructions []solana.Instruction, blockhash solana.Hash) (string, error) {
	payer := s.signer.PublicKey()

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build transaction: %v", domain.ErrSubmission, err)
	}
	if _, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &s.signer
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("%w: failed to sign transaction: %v", domain.ErrSubmission, err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("%w: failed to serialize transaction: %v", domain.ErrSubmission, err)
	}
	return base58.Encode(raw), nil
}

// waitForConfirmation polls the bundle until it confirms, the wall clock
// timeout passes or the chain moves past the blockhash's last valid height,
// whichever comes first. A status that confirms on the last poll wins over
// the timeout.
func (s *SmartSubmitter) waitForConfirmation(ctx context.Context, bundleID string, lastValid uint64, log *zap.Logger) (string, error) {
	pollCtx, cancel := context.WithTimeout(ctx, s.opts.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		if err := confirmationDone(ctx, pollCtx); err != nil {
			return "", err
		}

		status, err := s.relay.BundleStatus(pollCtx, bundleID)
		if err != nil {
			log.Warn("Failed to poll bundle status", zap.Error(err))
		} else if status.Confirmed() {
			return status.Transactions[0], nil
		}
		if err = confirmationDone(ctx, pollCtx); err != nil {
			return "", err
		}

		height, err := s.chain.BlockHeight(pollCtx)
		if err != nil {
			log.Warn("Failed to get block height", zap.Error(err))
		} else if height > lastValid {
			return "", fmt.Errorf("%w: block height %d passed %d", domain.ErrConfirmationTimeout, height, lastValid)
		}

		select {
		case <-pollCtx.Done():
			return "", confirmationDone(ctx, pollCtx)
		case <-ticker.C:
		}
	}
}

// confirmationDone reports the caller's cancellation first, then the expiry
// of the confirmation window. It never blocks.
func confirmationDone(ctx, pollCtx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pollCtx.Err() != nil {
		return fmt.Errorf("%w: not confirmed within the confirmation window", domain.ErrConfirmationTimeout)
	}
	return nil
}
