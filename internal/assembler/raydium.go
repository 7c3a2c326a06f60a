package assembler

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

// Raydium builds a wrapped SOL to meme token swap through the copied pool,
// spending at most maxIn lamports. Sells are not supported.
func Raydium(
	signer solana.PublicKey,
	accounts *domain.RaydiumAccounts,
	trade *domain.RaydiumTrade,
	opcode domain.RaydiumOpcode,
	maxIn uint64,
) ([]solana.Instruction, error) {
	if trade.Operation != domain.OperationBuy {
		return nil, fmt.Errorf("%w: raydium %s", domain.ErrUnsupportedOperation, trade.Operation)
	}

	source, _, err := solana.FindAssociatedTokenAddress(signer, domain.WSOLMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive wsol account: %w", err)
	}
	destination, _, err := solana.FindAssociatedTokenAddress(signer, trade.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint account: %w", err)
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}
	writable := func(keys ...string) error {
		for _, key := range keys {
			pk, err := solana.PublicKeyFromBase58(key)
			if err != nil {
				return fmt.Errorf("failed to parse pool account %q: %w", key, err)
			}
			metas = append(metas, solana.NewAccountMeta(pk, true, false))
		}
		return nil
	}

	if err = writable(accounts.AmmID); err != nil {
		return nil, err
	}
	metas = append(metas, solana.NewAccountMeta(domain.RaydiumAmmAuthority, false, false))
	if err = writable(accounts.AmmOpenOrders); err != nil {
		return nil, err
	}
	if accounts.HasTargetOrders() {
		if err = writable(accounts.AmmTargetOrders); err != nil {
			return nil, err
		}
	}
	if err = writable(accounts.PoolCoinTokenAccount, accounts.PoolPcTokenAccount); err != nil {
		return nil, err
	}
	metas = append(metas, solana.NewAccountMeta(domain.SerumProgramID, true, false))
	if err = writable(
		accounts.SerumMarket,
		accounts.SerumBids,
		accounts.SerumAsks,
		accounts.SerumEventQueue,
		accounts.SerumCoinVault,
		accounts.SerumPcVault,
		accounts.SerumVaultSigner,
	); err != nil {
		return nil, err
	}
	metas = append(metas,
		solana.NewAccountMeta(source, true, false),
		solana.NewAccountMeta(destination, true, false),
		solana.NewAccountMeta(signer, true, true),
	)

	data, err := encodeArgs([]byte{byte(opcode)}, maxIn, 0)
	if err != nil {
		return nil, err
	}

	createATA, err := CreateATAIdempotent(signer, signer, trade.Mint)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{
		createATA,
		solana.NewInstruction(domain.RaydiumAmmProgramID, metas, data),
	}, nil
}
