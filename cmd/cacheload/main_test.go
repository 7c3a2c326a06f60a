package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/igefined/solana-copy-trader/internal/cache"
)

const seedJSON = `{
  "pump_fun": [
    {
      "mint_address": "FWv5hiQqoUahjMyRFzz78q5ajmtwZ9vrn8tytgdFpump",
      "coin_name": "popcat",
      "bonding_curve": "3CtGMXMRJy4gwn6Fp6XzN6asErRqQd5pa4yCpBoqnN6T",
      "associated_bonding_curve": "jaeeUCUMKyjZudq2XEBhcB3wHNZrVU5gV33CUTgRwbK",
      "decimals": 6,
      "price": 0.000003
    }
  ],
  "raydium": [
    {
      "mint_address": "FWv5hiQqoUahjMyRFzz78q5ajmtwZ9vrn8tytgdFpump",
      "coin_name": "popcat",
      "amm_id": "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K",
      "amm_target_orders": "E99mHFsPEt3Tyuy7jpRefGURKTppTL82VBecAaEJazuR",
      "serum_vault_signer": "Gf2r36HC4FgcFGSzx4odsrYV4zaVoFgWK4wfyAmVtqRK"
    }
  ]
}`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(file, []byte(seedJSON), 0o600))
	dsn := filepath.Join(dir, "cache.db")

	require.NoError(t, run(context.Background(), zap.NewNop(), file, "sqlite3", dsn))

	c, err := cache.Open(context.Background(), "sqlite3", dsn)
	require.NoError(t, err)
	defer c.Close()

	pump, err := c.PumpFunByName(context.Background(), "popcat")
	require.NoError(t, err)
	assert.Equal(t, uint32(6), pump.Decimals)

	ray, err := c.RaydiumByMint(context.Background(), "FWv5hiQqoUahjMyRFzz78q5ajmtwZ9vrn8tytgdFpump")
	require.NoError(t, err)
	assert.Equal(t, "E77wHMJyMDCoDGUNCefq5pJy71nCc1ccHJcM498WyE1K", ray.AmmID)
	assert.True(t, ray.HasTargetOrders())
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	err := run(context.Background(), zap.NewNop(), filepath.Join(dir, "missing.json"), "sqlite3", filepath.Join(dir, "cache.db"))
	assert.ErrorContains(t, err, "failed to read seed file")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"pump_fun":`), 0o600))
	err = run(context.Background(), zap.NewNop(), bad, "sqlite3", filepath.Join(dir, "cache.db"))
	assert.ErrorContains(t, err, "failed to parse seed file")
}
