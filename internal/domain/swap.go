package domain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type Venue string

const (
	VenuePumpFun Venue = "pumpfun"
	VenueRaydium Venue = "raydium"
)

type Operation int

const (
	OperationUnknown Operation = iota
	OperationBuy
	OperationSell
)

func (o Operation) String() string {
	switch o {
	case OperationBuy:
		return "Buy"
	case OperationSell:
		return "Sell"
	default:
		return "Unknown"
	}
}

// DetectedSwap is implemented by PumpFunSwap and RaydiumSwap. Every field of the
// variants may be nil; a partially populated swap means there is nothing
// actionable past the first missing field.
type DetectedSwap interface {
	Venue() Venue
	TxSignature() (string, bool)
	Summary() string
}

// ComputeHints are the compute budget values observed on the copied
// transaction. Absent values are zero.
type ComputeHints struct {
	UnitLimit uint32 `json:"compute_unit_limit"`
	UnitPrice uint64 `json:"compute_unit_price"`
}

// PumpFunData holds the two u64 fields of the instruction payload. For a buy
// these are token amount and max sol cost, for a sell token amount and minimum
// sol output.
type PumpFunData struct {
	Operation Operation `json:"operation"`
	Amount    uint64    `json:"amount"`
	Sol       uint64    `json:"sol"`
}

// PumpFunAmounts are reconstructed from inner instructions: executed token
// amount, sol paid into the bonding curve and the protocol fee.
type PumpFunAmounts struct {
	Amount uint64 `json:"amount"`
	Sol    uint64 `json:"sol"`
	Fee    uint64 `json:"fee"`
}

type PumpFunSwap struct {
	Signature *string          `json:"signature,omitempty"`
	Accounts  *PumpFunAccounts `json:"accounts,omitempty"`
	Data      *PumpFunData     `json:"data,omitempty"`
	Amounts   *PumpFunAmounts  `json:"amounts,omitempty"`
	Compute   ComputeHints     `json:"compute"`
}

func (s *PumpFunSwap) Venue() Venue { return VenuePumpFun }

func (s *PumpFunSwap) TxSignature() (string, bool) {
	if s.Signature == nil {
		return "", false
	}
	return *s.Signature, true
}

func (s *PumpFunSwap) Summary() string {
	if s.Signature == nil || s.Accounts == nil || s.Data == nil {
		return "pumpfun: incomplete detection"
	}
	summary := fmt.Sprintf("%s | Mint: %s | Amount: %d | Sol: %d",
		s.Data.Operation, s.Accounts.Mint, s.Data.Amount, s.Data.Sol)
	if s.Amounts != nil {
		summary += fmt.Sprintf(" | Executed: %d/%d fee %d", s.Amounts.Amount, s.Amounts.Sol, s.Amounts.Fee)
	}
	return summary + " | TX: " + SolscanTxURL(*s.Signature)
}

type RaydiumOpcode uint8

const (
	RaydiumSwapBaseIn  RaydiumOpcode = 9
	RaydiumSwapBaseOut RaydiumOpcode = 11
)

func (o RaydiumOpcode) String() string {
	switch o {
	case RaydiumSwapBaseIn:
		return "SwapBaseIn"
	case RaydiumSwapBaseOut:
		return "SwapBaseOut"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

// RaydiumData is the swap payload. SwapBaseIn fills AmountIn and
// MinimumAmountOut, SwapBaseOut fills MaxAmountIn and AmountOut.
type RaydiumData struct {
	Opcode           RaydiumOpcode `json:"opcode"`
	AmountIn         uint64        `json:"amount_in,omitempty"`
	MinimumAmountOut uint64        `json:"minimum_amount_out,omitempty"`
	MaxAmountIn      uint64        `json:"max_amount_in,omitempty"`
	AmountOut        uint64        `json:"amount_out,omitempty"`
}

// RaydiumAmounts sums the user's outgoing and incoming token transfers.
type RaydiumAmounts struct {
	SourceAmount uint64 `json:"source_amount"`
	DestAmount   uint64 `json:"dest_amount"`
}

// RaydiumTrade is the outcome of pool classification.
type RaydiumTrade struct {
	Mint      solana.PublicKey `json:"mint"`
	Operation Operation        `json:"operation"`
}

type RaydiumSwap struct {
	Signature *string          `json:"signature,omitempty"`
	Accounts  *RaydiumAccounts `json:"accounts,omitempty"`
	Trade     *RaydiumTrade    `json:"trade,omitempty"`
	Data      *RaydiumData     `json:"data,omitempty"`
	Amounts   *RaydiumAmounts  `json:"amounts,omitempty"`
	Compute   ComputeHints     `json:"compute"`
}

func (s *RaydiumSwap) Venue() Venue { return VenueRaydium }

func (s *RaydiumSwap) TxSignature() (string, bool) {
	if s.Signature == nil {
		return "", false
	}
	return *s.Signature, true
}

func (s *RaydiumSwap) Summary() string {
	if s.Signature == nil || s.Trade == nil || s.Data == nil || s.Amounts == nil {
		return "raydium: incomplete detection"
	}
	return fmt.Sprintf("%s | Mint: %s | Instruction: %s | Source Amount: %d | Destination Amount: %d | TX: %s",
		s.Trade.Operation, s.Trade.Mint, s.Data.Opcode,
		s.Amounts.SourceAmount, s.Amounts.DestAmount, SolscanTxURL(*s.Signature))
}

func SolscanTxURL(signature string) string {
	return "https://solscan.io/tx/" + signature
}

func JitoBundleURL(bundleID string) string {
	return "https://explorer.jito.wtf/bundle/" + bundleID
}
