package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/igefined/solana-copy-trader/internal/domain"
)

const (
	defaultHeliusRPC = "https://mainnet.helius-rpc.com/?api-key="
	defaultHeliusWSS = "wss://atlas-mainnet.helius-rpc.com/?api-key="
	defaultJitoURL   = "https://frankfurt.mainnet.block-engine.jito.wtf"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

type Config struct {
	SignerPrivateKey string
	CopyWallet       string
	// MaxSolBuy is the per-trade budget in lamports.
	MaxSolBuy       uint64
	SlippagePercent uint64

	Helius HeliusConfig
	Jito   JitoConfig
	Cache  CacheConfig

	MetricsAddr string
	HealthAddr  string
	LogLevel    string
}

type HeliusConfig struct {
	APIKey string
	RPCURL string
	WSSURL string
}

type JitoConfig struct {
	BlockEngineURL string
	TipLamports    uint64
}

type CacheConfig struct {
	Driver string
	DSN    string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	maxSol, err := getFloat("MAX_SOL_BUY", 0)
	if err != nil {
		return nil, err
	}
	slippage, err := getUint("SLIPPAGE_PERCENT", 0)
	if err != nil {
		return nil, err
	}
	tip, err := getUint("JITO_TIP_LAMPORTS", 10_000)
	if err != nil {
		return nil, err
	}

	apiKey := getEnv("HELIUS_API_KEY", "")
	cfg := &Config{
		SignerPrivateKey: getEnv("SIGNER_PRIVATE_KEY", ""),
		CopyWallet:       getEnv("COPY_WALLET", ""),
		MaxSolBuy:        uint64(math.Round(maxSol * domain.LamportsPerSOL)),
		SlippagePercent:  slippage,
		Helius: HeliusConfig{
			APIKey: apiKey,
			RPCURL: getEnv("HELIUS_RPC_URL", defaultHeliusRPC+apiKey),
			WSSURL: getEnv("HELIUS_WSS_URL", defaultHeliusWSS+apiKey),
		},
		Jito: JitoConfig{
			BlockEngineURL: strings.TrimRight(getEnv("JITO_REGION", defaultJitoURL), "/"),
			TipLamports:    tip,
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(getEnv("CACHE_DRIVER", "sqlite3")),
			DSN:    getEnv("CACHE_DSN", "copytrader.db"),
		},
		MetricsAddr: getEnv("METRICS_ADDR", ""),
		HealthAddr:  getEnv("HEALTH_ADDR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SignerPrivateKey == "" {
		errs = append(errs, errors.New("SIGNER_PRIVATE_KEY is required"))
	}
	if c.Helius.RPCURL == "" || c.Helius.WSSURL == "" {
		errs = append(errs, errors.New("HELIUS_API_KEY or HELIUS_RPC_URL and HELIUS_WSS_URL are required"))
	}
	if c.SlippagePercent > 100 {
		errs = append(errs, fmt.Errorf("SLIPPAGE_PERCENT must be within [0,100], got %d", c.SlippagePercent))
	}
	switch c.Cache.Driver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver))
	}
	return errors.Join(errs...)
}

// ValidateCopy checks the settings only the stream copier needs.
func (c *Config) ValidateCopy() error {
	var errs []error
	if c.CopyWallet == "" {
		errs = append(errs, errors.New("COPY_WALLET is required"))
	}
	if c.MaxSolBuy == 0 {
		errs = append(errs, errors.New("MAX_SOL_BUY must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", key, raw)
	}
	return value, nil
}

func getUint(key string, defaultValue uint64) (uint64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return value, nil
}
