package decoder

import (
	"bytes"
	"encoding/binary"

	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

var (
	tokenProgram  = solana.TokenProgramID.String()
	systemProgram = solana.SystemProgramID.String()
)

// DecodePumpFun extracts a Pump.fun swap. Extraction stops at the first
// missing step; an event without a signature yields an empty swap.
func DecodePumpFun(event *Event) *domain.PumpFunSwap {
	signature, ok := event.Signature()
	if !ok {
		return &domain.PumpFunSwap{}
	}
	swap := &domain.PumpFunSwap{Signature: pointer.ToString(signature)}

	accounts, ok := PumpFunAccounts(event)
	if !ok {
		return swap
	}
	swap.Accounts = accounts

	data, ok := PumpFunData(event)
	if !ok {
		return swap
	}
	swap.Data = data

	amounts, ok := PumpFunAmounts(event, accounts)
	if !ok {
		return swap
	}
	swap.Amounts = amounts

	if hints, ok := ComputeData(event); ok {
		swap.Compute = hints
	}
	return swap
}

func findPumpFunInstruction(event *Event) (Instruction, bool) {
	instructions, ok := event.Instructions()
	if !ok {
		return Instruction{}, false
	}
	for _, ix := range instructions {
		if ix.IsProgram(domain.PumpFunProgramID.String()) {
			return ix, true
		}
	}
	return Instruction{}, false
}

// PumpFunAccounts reads mint, bonding curve and associated bonding curve of
// the top-level Pump.fun instruction.
func PumpFunAccounts(event *Event) (*domain.PumpFunAccounts, bool) {
	ix, ok := findPumpFunInstruction(event)
	if !ok {
		return nil, false
	}
	accounts, ok := ix.Accounts()
	if !ok || len(accounts) != domain.PumpFunSwapAccounts {
		return nil, false
	}
	return &domain.PumpFunAccounts{
		Mint:                   accounts[2],
		BondingCurve:           accounts[3],
		AssociatedBondingCurve: accounts[4],
	}, true
}

// PumpFunData decodes discriminator, amount and sol of the Pump.fun payload.
func PumpFunData(event *Event) (*domain.PumpFunData, bool) {
	ix, ok := findPumpFunInstruction(event)
	if !ok {
		return nil, false
	}
	data, ok := decodeData(ix)
	if !ok || len(data) < 24 {
		return nil, false
	}
	return &domain.PumpFunData{
		Operation: pumpFunOperation(data[:8]),
		Amount:    binary.LittleEndian.Uint64(data[8:16]),
		Sol:       binary.LittleEndian.Uint64(data[16:24]),
	}, true
}

func pumpFunOperation(discriminator []byte) domain.Operation {
	switch {
	case bytes.Equal(discriminator, domain.PumpFunBuyDiscriminator[:]):
		return domain.OperationBuy
	case bytes.Equal(discriminator, domain.PumpFunSellDiscriminator[:]):
		return domain.OperationSell
	default:
		return domain.OperationUnknown
	}
}

// PumpFunAmounts reconstructs the executed amounts from inner transfers. Only
// buys move tokens out of the bonding curve and sol into it; on a sell all
// three values stay zero.
func PumpFunAmounts(event *Event, accounts *domain.PumpFunAccounts) (*domain.PumpFunAmounts, bool) {
	instructions, ok := event.InnerInstructions()
	if !ok {
		return nil, false
	}

	var tokenTransfer, solTransfer, feeTransfer *Instruction
	for i := range instructions {
		ix := &instructions[i]
		switch {
		case ix.IsProgram(tokenProgram):
			if authority, ok := ix.InfoString("authority"); ok && authority == accounts.BondingCurve {
				tokenTransfer = ix
			}
		case ix.IsProgram(systemProgram):
			destination, ok := ix.InfoString("destination")
			if !ok {
				continue
			}
			if destination == accounts.BondingCurve {
				solTransfer = ix
			}
			if destination == domain.PumpFunFeeRecipient.String() {
				feeTransfer = ix
			}
		}
	}

	amounts := &domain.PumpFunAmounts{}
	if tokenTransfer != nil {
		amounts.Amount, _ = tokenTransfer.InfoUint64("amount")
	}
	if solTransfer != nil {
		amounts.Sol, _ = solTransfer.InfoUint64("lamports")
	}
	if feeTransfer != nil {
		amounts.Fee, _ = feeTransfer.InfoUint64("lamports")
	}
	return amounts, true
}
