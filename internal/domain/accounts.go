package domain

// PumpFunAccounts are the venue accounts of a Pump.fun swap, read from
// positions 2, 3 and 4 of its account list.
type PumpFunAccounts struct {
	Mint                   string `json:"mint"`
	BondingCurve           string `json:"bonding_curve"`
	AssociatedBondingCurve string `json:"associated_bonding_curve"`
}

// RaydiumAccounts are the roles of a Raydium v4 swap. AmmTargetOrders is
// DefaultPubkey when the swap was sent without it.
type RaydiumAccounts struct {
	AmmID                       string `json:"amm_id"`
	AmmOpenOrders               string `json:"amm_open_orders"`
	AmmTargetOrders             string `json:"amm_target_orders"`
	PoolCoinTokenAccount        string `json:"pool_coin_token_account"`
	PoolPcTokenAccount          string `json:"pool_pc_token_account"`
	SerumMarket                 string `json:"serum_market"`
	SerumBids                   string `json:"serum_bids"`
	SerumAsks                   string `json:"serum_asks"`
	SerumEventQueue             string `json:"serum_event_queue"`
	SerumCoinVault              string `json:"serum_coin_vault"`
	SerumPcVault                string `json:"serum_pc_vault"`
	SerumVaultSigner            string `json:"serum_vault_signer"`
	UserSourceTokenAccount      string `json:"user_source_token_account"`
	UserDestinationTokenAccount string `json:"user_destination_token_account"`
	UserSourceOwner             string `json:"user_source_owner"`
}

func (a *RaydiumAccounts) HasTargetOrders() bool {
	return a.AmmTargetOrders != "" && a.AmmTargetOrders != DefaultPubkey
}

// PumpFunCoin is a cached Pump.fun venue, keyed by mint.
type PumpFunCoin struct {
	MintAddress            string  `json:"mint_address"`
	CoinName               string  `json:"coin_name"`
	BondingCurve           string  `json:"bonding_curve"`
	AssociatedBondingCurve string  `json:"associated_bonding_curve"`
	Decimals               uint32  `json:"decimals"`
	Price                  float64 `json:"price"`
}

// RaydiumCoin is a cached Raydium pool, keyed by mint.
type RaydiumCoin struct {
	MintAddress string `json:"mint_address"`
	CoinName    string `json:"coin_name"`
	RaydiumAccounts
}
