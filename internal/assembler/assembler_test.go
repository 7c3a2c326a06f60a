package assembler

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

var (
	signer = solana.MustPublicKeyFromBase58("9txcdTtZaHUsT55kKmgivkfcdnP4tGppqN7tUAjpjVj5")
	mint   = solana.MustPublicKeyFromBase58("FWv5hiQqoUahjMyRFzz78q5ajmtwZ9vrn8tytgdFpump")

	pumpAccounts = &domain.PumpFunAccounts{
		Mint:                   mint.String(),
		BondingCurve:           "3CtGMXMRJy4gwn6Fp6XzN6asErRqQd5pa4yCpBoqnN6T",
		AssociatedBondingCurve: "jaeeUCUMKyjZudq2XEBhcB3wHNZrVU5gV33CUTgRwbK",
	}
)

type meta struct {
	key      solana.PublicKey
	writable bool
	signer   bool
}

func metasOf(t *testing.T, ix solana.Instruction) []meta {
	t.Helper()

	out := make([]meta, 0, len(ix.Accounts()))
	for _, m := range ix.Accounts() {
		out = append(out, meta{key: m.PublicKey, writable: m.IsWritable, signer: m.IsSigner})
	}
	return out
}

func dataOf(t *testing.T, ix solana.Instruction) []byte {
	t.Helper()

	data, err := ix.Data()
	require.NoError(t, err)
	return data
}

func TestComputeBudget(t *testing.T) {
	limit := SetComputeUnitLimit(100_000)
	assert.Equal(t, domain.ComputeBudgetProgram, limit.ProgramID())
	assert.Empty(t, limit.Accounts())
	assert.Equal(t, []byte{2, 0xa0, 0x86, 0x01, 0x00}, dataOf(t, limit))

	price := SetComputeUnitPrice(10)
	assert.Equal(t, []byte{3, 10, 0, 0, 0, 0, 0, 0, 0}, dataOf(t, price))

	decoded, err := computebudget.DecodeInstruction(nil, dataOf(t, limit))
	require.NoError(t, err)
	require.IsType(t, &computebudget.SetComputeUnitLimit{}, decoded.Impl)
	assert.Equal(t, uint32(100_000), decoded.Impl.(*computebudget.SetComputeUnitLimit).Units)

	decoded, err = computebudget.DecodeInstruction(nil, dataOf(t, price))
	require.NoError(t, err)
	require.IsType(t, &computebudget.SetComputeUnitPrice{}, decoded.Impl)
	assert.Equal(t, uint64(10), decoded.Impl.(*computebudget.SetComputeUnitPrice).MicroLamports)
}

func TestCreateATAIdempotent(t *testing.T) {
	ix, err := CreateATAIdempotent(signer, signer, mint)
	require.NoError(t, err)

	ata, _, err := solana.FindAssociatedTokenAddress(signer, mint)
	require.NoError(t, err)

	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())
	assert.Equal(t, []byte{1}, dataOf(t, ix))
	assert.Equal(t, []meta{
		{key: signer, writable: true, signer: true},
		{key: ata, writable: true},
		{key: signer},
		{key: mint},
		{key: solana.SystemProgramID},
		{key: solana.TokenProgramID},
	}, metasOf(t, ix))
}

func TestPumpFunBuy(t *testing.T) {
	ixs, err := PumpFun(signer, pumpAccounts, &domain.CopyOrder{
		Operation: domain.OperationBuy,
		Amount:    35760448082,
		Bound:     1_110_000,
	})
	require.NoError(t, err)
	require.Len(t, ixs, 2)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ixs[0].ProgramID())

	trade := ixs[1]
	assert.Equal(t, domain.PumpFunProgramID, trade.ProgramID())

	metas := metasOf(t, trade)
	require.Len(t, metas, domain.PumpFunSwapAccounts)

	userATA, _, err := solana.FindAssociatedTokenAddress(signer, mint)
	require.NoError(t, err)
	assert.Equal(t, meta{key: domain.PumpFunGlobal}, metas[0])
	assert.Equal(t, meta{key: domain.PumpFunFeeRecipient, writable: true}, metas[1])
	assert.Equal(t, meta{key: mint}, metas[2])
	assert.Equal(t, meta{key: userATA, writable: true}, metas[5])
	assert.Equal(t, meta{key: signer, writable: true, signer: true}, metas[6])
	assert.Equal(t, meta{key: solana.TokenProgramID}, metas[8])
	assert.Equal(t, meta{key: solana.SysVarRentPubkey}, metas[9])
	assert.Equal(t, meta{key: domain.PumpFunProgramID}, metas[11])

	data := dataOf(t, trade)
	require.Len(t, data, 24)
	assert.Equal(t, domain.PumpFunBuyDiscriminator[:], data[:8])
	assert.Equal(t, uint64(35760448082), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(1_110_000), binary.LittleEndian.Uint64(data[16:24]))
}

func TestPumpFunSell(t *testing.T) {
	ixs, err := PumpFun(signer, pumpAccounts, &domain.CopyOrder{
		Operation: domain.OperationSell,
		Amount:    2948735678665,
		Bound:     1099,
	})
	require.NoError(t, err)
	require.Len(t, ixs, 1)

	metas := metasOf(t, ixs[0])
	assert.Equal(t, meta{key: solana.SPLAssociatedTokenAccountProgramID}, metas[8])
	assert.Equal(t, meta{key: solana.TokenProgramID}, metas[9])

	data := dataOf(t, ixs[0])
	assert.Equal(t, domain.PumpFunSellDiscriminator[:], data[:8])
	assert.Equal(t, uint64(2948735678665), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(1099), binary.LittleEndian.Uint64(data[16:24]))
}

func TestPumpFunRejectsUnknownOperation(t *testing.T) {
	_, err := PumpFun(signer, pumpAccounts, &domain.CopyOrder{Operation: domain.OperationUnknown})
	assert.ErrorIs(t, err, domain.ErrUnknownInstruction)
}

func TestPumpFunRejectsInvalidAccounts(t *testing.T) {
	_, err := PumpFun(signer, &domain.PumpFunAccounts{Mint: "bad"}, &domain.CopyOrder{Operation: domain.OperationBuy})
	assert.Error(t, err)
}

func raydiumAccounts(targetOrders string) *domain.RaydiumAccounts {
	return &domain.RaydiumAccounts{
		AmmID:                       "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		AmmOpenOrders:               "DUL6JuyHWi94ginWwx3eYctHENfacxLqLhWyDKqQFQjT",
		AmmTargetOrders:             targetOrders,
		PoolCoinTokenAccount:        "5rQyXNJHoZnWygAMyK5gpQjcL6YfweML3yfiX3sZa2Vz",
		PoolPcTokenAccount:          "5rQyXNJHoZnWygAMyK5gpQjcL6YfweML3yfiX3sZa2Vz",
		SerumMarket:                 "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		SerumBids:                   "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		SerumAsks:                   "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		SerumEventQueue:             "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		SerumCoinVault:              "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		SerumPcVault:                "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
		SerumVaultSigner:            "Gf2r36HC4FgcFGSzx4odsrYV4zaVoFgWK4wfyAmVtqRK",
		UserSourceTokenAccount:      "889uT38bWbxQgnoUAL3CcjNJ5FuobH6tpkR4HMT8v5np",
		UserDestinationTokenAccount: "urU53gb4Rbdg611pGsfF17yttNvo4PYwTF8b82nMigy",
		UserSourceOwner:             "9txcdTtZaHUsT55kKmgivkfcdnP4tGppqN7tUAjpjVj5",
	}
}

func TestRaydiumBuy(t *testing.T) {
	tests := []struct {
		name         string
		targetOrders string
		wantAccounts int
	}{
		{name: "with target orders", targetOrders: "E99mHFsPEt3Tyuy7jpRefGURKTppTL82VBecAaEJazuR", wantAccounts: 18},
		{name: "without target orders", targetOrders: domain.DefaultPubkey, wantAccounts: 17},
	}

	trade := &domain.RaydiumTrade{Mint: mint, Operation: domain.OperationBuy}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ixs, err := Raydium(signer, raydiumAccounts(tt.targetOrders), trade, domain.RaydiumSwapBaseIn, 1_000_000)
			require.NoError(t, err)
			require.Len(t, ixs, 2)
			assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ixs[0].ProgramID())

			swap := ixs[1]
			assert.Equal(t, domain.RaydiumAmmProgramID, swap.ProgramID())

			metas := metasOf(t, swap)
			require.Len(t, metas, tt.wantAccounts)

			source, _, _ := solana.FindAssociatedTokenAddress(signer, domain.WSOLMint)
			destination, _, _ := solana.FindAssociatedTokenAddress(signer, mint)
			n := len(metas)
			assert.Equal(t, meta{key: solana.TokenProgramID}, metas[0])
			assert.Equal(t, meta{key: domain.RaydiumAmmAuthority}, metas[2])
			assert.Equal(t, meta{key: source, writable: true}, metas[n-3])
			assert.Equal(t, meta{key: destination, writable: true}, metas[n-2])
			assert.Equal(t, meta{key: signer, writable: true, signer: true}, metas[n-1])

			data := dataOf(t, swap)
			require.Len(t, data, 17)
			assert.Equal(t, byte(9), data[0])
			assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(data[1:9]))
			assert.Zero(t, binary.LittleEndian.Uint64(data[9:17]))
		})
	}
}

func TestRaydiumSellUnsupported(t *testing.T) {
	trade := &domain.RaydiumTrade{Mint: mint, Operation: domain.OperationSell}

	_, err := Raydium(signer, raydiumAccounts(domain.DefaultPubkey), trade, domain.RaydiumSwapBaseIn, 1)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}
