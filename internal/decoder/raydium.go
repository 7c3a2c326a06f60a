package decoder

import (
	"context"

	"github.com/AlekSi/pointer"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// Classifier authenticates the pool mint and tells buys from sells.
type Classifier interface {
	Classify(ctx context.Context, accounts *domain.RaydiumAccounts) (*domain.RaydiumTrade, error)
}

// DecodeRaydium extracts a Raydium swap, top level or nested in an aggregator.
// A classification failure leaves Trade and everything after it nil; the
// error is returned alongside the partial swap for logging.
func DecodeRaydium(ctx context.Context, event *Event, classifier Classifier) (*domain.RaydiumSwap, error) {
	signature, ok := event.Signature()
	if !ok {
		return &domain.RaydiumSwap{}, nil
	}
	swap := &domain.RaydiumSwap{Signature: pointer.ToString(signature)}

	ix, ok := FindRaydiumSwap(event)
	if !ok {
		return swap, nil
	}
	accounts, ok := RaydiumAccounts(ix)
	if !ok {
		return swap, nil
	}
	swap.Accounts = accounts

	trade, err := classifier.Classify(ctx, accounts)
	if err != nil {
		return swap, err
	}
	swap.Trade = trade

	data, ok := RaydiumData(ix)
	if !ok {
		return swap, nil
	}
	swap.Data = data

	amounts, ok := RaydiumAmounts(event, accounts)
	if !ok {
		return swap, nil
	}
	swap.Amounts = amounts

	if hints, ok := ComputeData(event); ok {
		swap.Compute = hints
	}
	return swap, nil
}

// FindRaydiumSwap looks for the AMM v4 instruction among top-level
// instructions first, then inside each inner instruction group.
func FindRaydiumSwap(event *Event) (Instruction, bool) {
	program := domain.RaydiumAmmProgramID.String()

	instructions, ok := event.Instructions()
	if !ok {
		return Instruction{}, false
	}
	for _, ix := range instructions {
		if ix.IsProgram(program) {
			return ix, true
		}
	}

	groups, ok := event.InnerInstructionGroups()
	if !ok {
		return Instruction{}, false
	}
	for _, group := range groups {
		for _, ix := range group {
			if ix.IsProgram(program) {
				return ix, true
			}
		}
	}
	return Instruction{}, false
}

// RaydiumAccounts reads the swap roles. With 18 accounts the target orders
// account sits at index 4 and every later role shifts by one.
func RaydiumAccounts(ix Instruction) (*domain.RaydiumAccounts, bool) {
	accounts, ok := ix.Accounts()
	if !ok {
		return nil, false
	}

	k := 3
	targetOrders := domain.DefaultPubkey
	switch len(accounts) {
	case domain.RaydiumSwapBaseInAccounts:
	case domain.RaydiumSwapBaseInAccounts + 1:
		k = 4
		targetOrders = accounts[k]
	default:
		return nil, false
	}

	return &domain.RaydiumAccounts{
		AmmID:                       accounts[1],
		AmmOpenOrders:               accounts[3],
		AmmTargetOrders:             targetOrders,
		PoolCoinTokenAccount:        accounts[k+1],
		PoolPcTokenAccount:          accounts[k+2],
		SerumMarket:                 accounts[k+4],
		SerumBids:                   accounts[k+5],
		SerumAsks:                   accounts[k+6],
		SerumEventQueue:             accounts[k+7],
		SerumCoinVault:              accounts[k+8],
		SerumPcVault:                accounts[k+9],
		SerumVaultSigner:            accounts[k+10],
		UserSourceTokenAccount:      accounts[k+11],
		UserDestinationTokenAccount: accounts[k+12],
		UserSourceOwner:             accounts[k+13],
	}, true
}

// RaydiumData decodes the opcode and its two u64 arguments.
func RaydiumData(ix Instruction) (*domain.RaydiumData, bool) {
	input, ok := decodeData(ix)
	if !ok || len(input) == 0 {
		return nil, false
	}
	return ParseRaydiumData(input)
}

func ParseRaydiumData(input []byte) (*domain.RaydiumData, bool) {
	if len(input) == 0 {
		return nil, false
	}
	opcode, rest := domain.RaydiumOpcode(input[0]), input[1:]
	if opcode != domain.RaydiumSwapBaseIn && opcode != domain.RaydiumSwapBaseOut {
		return nil, false
	}

	first, rest, err := UnpackU64(rest)
	if err != nil {
		return nil, false
	}
	second, _, err := UnpackU64(rest)
	if err != nil {
		return nil, false
	}

	data := &domain.RaydiumData{Opcode: opcode}
	if opcode == domain.RaydiumSwapBaseIn {
		data.AmountIn, data.MinimumAmountOut = first, second
	} else {
		data.MaxAmountIn, data.AmountOut = first, second
	}
	return data, true
}

// RaydiumAmounts sums every token transfer leaving the user's source account
// and every one arriving at the user's destination account.
func RaydiumAmounts(event *Event, accounts *domain.RaydiumAccounts) (*domain.RaydiumAmounts, bool) {
	instructions, ok := event.InnerInstructions()
	if !ok {
		return nil, false
	}

	amounts := &domain.RaydiumAmounts{}
	for _, ix := range instructions {
		if !ix.IsProgram(tokenProgram) {
			continue
		}
		amount, ok := ix.InfoUint64("amount")
		if !ok {
			continue
		}
		if source, ok := ix.InfoString("source"); ok && source == accounts.UserSourceTokenAccount {
			amounts.SourceAmount += amount
		} else if dest, ok := ix.InfoString("destination"); ok && dest == accounts.UserDestinationTokenAccount {
			amounts.DestAmount += amount
		}
	}
	return amounts, true
}
