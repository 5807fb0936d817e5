package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PoolConfig declares one pool to deploy before replay starts.
type PoolConfig struct {
	AssetA                string `mapstructure:"asset_a"`
	AssetB                string `mapstructure:"asset_b"`
	SwapFeeBps            uint16 `mapstructure:"swap_fee_bps"`
	MaxAllowedSlippageBps uint16 `mapstructure:"max_allowed_slippage_bps"`
	MaxAllowedSpreadBps   uint16 `mapstructure:"max_allowed_spread_bps"`
}

// GenesisBalance seeds one ledger balance before replay starts.
type GenesisBalance struct {
	Account string `mapstructure:"account"`
	Asset   string `mapstructure:"asset"`
	Amount  string `mapstructure:"amount"`
}

// Config holds configuration values loaded from flags, env, or config file.
// Pool and balance declarations come from the config file only.
type Config struct {
	Journal           string
	Receipts          string
	Snapshots         string
	Checkpoint        string
	CheckpointEnabled bool
	PGDSN             string
	BatchSize         int
	LogLevel          string
	Pools             []PoolConfig
	Balances          []GenesisBalance
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEXD")
	v.AutomaticEnv()

	v.SetDefault("receipts", "./data/receipts.jsonl")
	v.SetDefault("snapshots", "./data/pools.jsonl")
	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("checkpoint-enabled", false)
	v.SetDefault("batch-size", 1000)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Journal:           v.GetString("journal"),
		Receipts:          v.GetString("receipts"),
		Snapshots:         v.GetString("snapshots"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		PGDSN:             v.GetString("pg-dsn"),
		BatchSize:         v.GetInt("batch-size"),
		LogLevel:          v.GetString("log-level"),
	}

	if err := v.UnmarshalKey("pools", &cfg.Pools); err != nil {
		return Config{}, fmt.Errorf("parse pools: %w", err)
	}
	if err := v.UnmarshalKey("balances", &cfg.Balances); err != nil {
		return Config{}, fmt.Errorf("parse balances: %w", err)
	}

	return cfg, nil
}
