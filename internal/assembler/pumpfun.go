package assembler

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// PumpFun builds the bonding curve trade for order. Buys are prefixed with
// the creation of the signer's token account for the mint.
func PumpFun(signer solana.PublicKey, accounts *domain.PumpFunAccounts, order *domain.CopyOrder) ([]solana.Instruction, error) {
	var (
		discriminator [8]byte
		isBuy         bool
	)
	switch order.Operation {
	case domain.OperationBuy:
		discriminator, isBuy = domain.PumpFunBuyDiscriminator, true
	case domain.OperationSell:
		discriminator = domain.PumpFunSellDiscriminator
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownInstruction, order.Operation)
	}

	mint, err := solana.PublicKeyFromBase58(accounts.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mint: %w", err)
	}
	bondingCurve, err := solana.PublicKeyFromBase58(accounts.BondingCurve)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bonding curve: %w", err)
	}
	associatedBondingCurve, err := solana.PublicKeyFromBase58(accounts.AssociatedBondingCurve)
	if err != nil {
		return nil, fmt.Errorf("failed to parse associated bonding curve: %w", err)
	}
	userATA, _, err := solana.FindAssociatedTokenAddress(signer, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive user token account: %w", err)
	}

	data, err := encodeArgs(discriminator[:], order.Amount, order.Bound)
	if err != nil {
		return nil, err
	}

	programA, programB := solana.SPLAssociatedTokenAccountProgramID, solana.TokenProgramID
	if isBuy {
		programA, programB = solana.TokenProgramID, solana.SysVarRentPubkey
	}

	trade := solana.NewInstruction(domain.PumpFunProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(domain.PumpFunGlobal, false, false),
		solana.NewAccountMeta(domain.PumpFunFeeRecipient, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(bondingCurve, true, false),
		solana.NewAccountMeta(associatedBondingCurve, true, false),
		solana.NewAccountMeta(userATA, true, false),
		solana.NewAccountMeta(signer, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(programA, false, false),
		solana.NewAccountMeta(programB, false, false),
		solana.NewAccountMeta(domain.PumpFunEventAuthority, false, false),
		solana.NewAccountMeta(domain.PumpFunProgramID, false, false),
	}, data)

	if !isBuy {
		return []solana.Instruction{trade}, nil
	}

	createATA, err := CreateATAIdempotent(signer, signer, mint)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{createATA, trade}, nil
}
