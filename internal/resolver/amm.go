package resolver

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// AmmInfoSize is the length of a Raydium AMM v4 pool account.
const AmmInfoSize = 752

type AmmFees struct {
	MinSeparateNumerator   uint64
	MinSeparateDenominator uint64
	TradeFeeNumerator      uint64
	TradeFeeDenominator    uint64
	PnlNumerator           uint64
	PnlDenominator         uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64
}

type AmmStateData struct {
	NeedTakePnlCoin     uint64
	NeedTakePnlPc       uint64
	TotalPnlPc          uint64
	TotalPnlCoin        uint64
	PoolOpenTime        uint64
	PunishPcAmount      uint64
	PunishCoinAmount    uint64
	OrderbookToInitTime uint64
	SwapCoinInAmount    bin.Uint128
	SwapPcOutAmount     bin.Uint128
	SwapAccPcFee        uint64
	SwapPcInAmount      bin.Uint128
	SwapCoinOutAmount   bin.Uint128
	SwapAccCoinFee      uint64
}

// AmmInfo is the Raydium AMM v4 pool state.
type AmmInfo struct {
	Status             uint64
	Nonce              uint64
	OrderNum           uint64
	Depth              uint64
	CoinDecimals       uint64
	PcDecimals         uint64
	State              uint64
	ResetFlag          uint64
	MinSize            uint64
	VolMaxCutRatio     uint64
	AmountWaveRatio    uint64
	CoinLotSize        uint64
	PcLotSize          uint64
	MinPriceMultiplier uint64
	MaxPriceMultiplier uint64
	SysDecimalValue    uint64
	Fees               AmmFees
	StateData          AmmStateData
	CoinVault          solana.PublicKey
	PcVault            solana.PublicKey
	CoinVaultMint      solana.PublicKey
	PcVaultMint        solana.PublicKey
	LpMint             solana.PublicKey
	OpenOrders         solana.PublicKey
	Market             solana.PublicKey
	MarketProgram      solana.PublicKey
	TargetOrders       solana.PublicKey
	WithdrawQueue      solana.PublicKey
	LpVault            solana.PublicKey
	AmmOwner           solana.PublicKey
	LpReserve          uint64
	Padding            [3]uint64
}

func DecodeAmmInfo(data []byte) (*AmmInfo, error) {
	if len(data) < AmmInfoSize {
		return nil, fmt.Errorf("amm account too short: %d bytes", len(data))
	}

	var info AmmInfo
	if err := bin.NewBinDecoder(data).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode amm info: %w", err)
	}
	return &info, nil
}
