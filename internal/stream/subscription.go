package stream

import (
	"time"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// Subscription is a transactionSubscribe account filter. A transaction
// matches when it mentions every required account and none of the excluded.
type Subscription struct {
	AccountRequired []string
	AccountExclude  []string
}

func PumpFunSubscription(copyWallet string) Subscription {
	return Subscription{AccountRequired: []string{copyWallet, domain.PumpFunProgramID.String()}}
}

func RaydiumSubscription(copyWallet string) Subscription {
	return Subscription{AccountRequired: []string{copyWallet, domain.RaydiumAmmProgramID.String()}}
}

type subscribeRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type subscribeFilter struct {
	Vote            bool     `json:"vote"`
	Failed          bool     `json:"failed"`
	AccountRequired []string `json:"accountRequired"`
	AccountExclude  []string `json:"accountExclude"`
}

type subscribeOptions struct {
	Commitment                     string `json:"commitment"`
	Encoding                       string `json:"encoding"`
	TransactionDetails             string `json:"transaction_details"`
	ShowRewards                    bool   `json:"showRewards"`
	MaxSupportedTransactionVersion int    `json:"maxSupportedTransactionVersion"`
}

// request builds the subscribe message; its id is the time elapsed since
// the client started, in nanoseconds.
func (s Subscription) request(startedAt time.Time) subscribeRequest {
	required, exclude := s.AccountRequired, s.AccountExclude
	if required == nil {
		required = []string{}
	}
	if exclude == nil {
		exclude = []string{}
	}

	return subscribeRequest{
		JSONRPC: "2.0",
		ID:      time.Since(startedAt).Nanoseconds(),
		Method:  "transactionSubscribe",
		Params: []any{
			subscribeFilter{
				AccountRequired: required,
				AccountExclude:  exclude,
			},
			subscribeOptions{
				Commitment:         "processed",
				Encoding:           "jsonParsed",
				TransactionDetails: "full",
				ShowRewards:        true,
			},
		},
	}
}
