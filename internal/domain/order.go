package domain

import (
	"context"
	"time"
)

// CopyOrder is a sized local order. Amount and Bound are base units: for a buy
// Bound is the maximum lamports to spend, for a sell the minimum lamports out.
type CopyOrder struct {
	Mint        string    `json:"mint"`
	Operation   Operation `json:"operation"`
	Amount      uint64    `json:"amount"`
	Bound       uint64    `json:"bound"`
	SlippageBps uint64    `json:"slippage_bps"`
	FeeBps      uint64    `json:"fee_bps"`
}

// Handler processes one raw feed frame for a single venue and returns the
// signature of the confirmed copy transaction.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload []byte) (string, error)
}

// SubmissionTiming tracks stage latencies of one submission attempt.
type SubmissionTiming struct {
	RequestID      string     `json:"request_id"`
	RequestTime    time.Time  `json:"request_time"`
	FeeEstimated   *time.Time `json:"fee_estimated,omitempty"`
	SubmissionTime *time.Time `json:"submission_time,omitempty"`
	ConfirmedTime  *time.Time `json:"confirmed_time,omitempty"`

	EstimateLatency     *time.Duration `json:"estimate_latency,omitempty"`
	SubmissionLatency   *time.Duration `json:"submission_latency,omitempty"`
	ConfirmationLatency *time.Duration `json:"confirmation_latency,omitempty"`
	TotalLatency        *time.Duration `json:"total_latency,omitempty"`
}

type SubmissionStage string

const (
	StageFeeEstimated SubmissionStage = "fee_estimated"
	StageSubmitted    SubmissionStage = "submitted"
	StageConfirmed    SubmissionStage = "confirmed"
)

func NewSubmissionTiming(requestID string, now time.Time) *SubmissionTiming {
	return &SubmissionTiming{RequestID: requestID, RequestTime: now}
}

// UpdateTiming records the stage at the given instant. Latencies are set once.
func (st *SubmissionTiming) UpdateTiming(stage SubmissionStage, now time.Time) {
	switch stage {
	case StageFeeEstimated:
		st.FeeEstimated = &now
		if st.EstimateLatency == nil {
			latency := now.Sub(st.RequestTime)
			st.EstimateLatency = &latency
		}
	case StageSubmitted:
		st.SubmissionTime = &now
		if st.SubmissionLatency == nil {
			latency := now.Sub(st.RequestTime)
			st.SubmissionLatency = &latency
		}
	case StageConfirmed:
		st.ConfirmedTime = &now
		if st.ConfirmationLatency == nil && st.SubmissionTime != nil {
			latency := now.Sub(*st.SubmissionTime)
			st.ConfirmationLatency = &latency
		}
		if st.TotalLatency == nil {
			latency := now.Sub(st.RequestTime)
			st.TotalLatency = &latency
		}
	}
}
