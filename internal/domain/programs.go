package domain

import (
	"github.com/gagliardetto/solana-go"
)

// Pump.fun
var (
	PumpFunProgramID      = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	PumpFunGlobal         = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	PumpFunFeeRecipient   = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")
	PumpFunEventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
)

var (
	PumpFunBuyDiscriminator  = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	PumpFunSellDiscriminator = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
)

// PumpFunFeeBps is the bonding curve trading fee (1%).
const PumpFunFeeBps = 100

// Raydium liquidity pool v4
var (
	RaydiumAmmProgramID  = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RaydiumAmmAuthority  = solana.MustPublicKeyFromBase58("5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1")
	SerumProgramID       = solana.MustPublicKeyFromBase58("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	ComputeBudgetProgram = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	WSOLMint             = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
)

const (
	// RaydiumSwapBaseInAccounts is the account count of a swap without the
	// optional target orders account.
	RaydiumSwapBaseInAccounts = 17

	// PumpFunSwapAccounts is the fixed account count of a Pump.fun buy or sell.
	PumpFunSwapAccounts = 12

	// DefaultComputeUnitLimit is used when no compute limit was observed.
	DefaultComputeUnitLimit uint32 = 100_000

	LamportsPerSOL = 1_000_000_000

	// MemeMintSuffix marks mints launched through Pump.fun.
	MemeMintSuffix = "pump"
)

// DefaultPubkey stands in for an absent optional account.
var DefaultPubkey = solana.PublicKey{}.String()
