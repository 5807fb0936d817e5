package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "dexd",
		Short:        "Deterministic constant-product AMM engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay an operation journal against the configured pools",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("journal", "", "input operation journal JSONL")
	replayCmd.Flags().String("receipts", "./data/receipts.jsonl", "output receipts JSONL")
	replayCmd.Flags().String("snapshots", "./data/pools.jsonl", "output pool snapshots JSONL")
	replayCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	replayCmd.Flags().Bool("checkpoint-enabled", false, "resume from checkpoint")
	replayCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	replayCmd.Flags().Int("batch-size", 1000, "batch size for sink writes")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(replayCmd)

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "Print pool snapshots from a state file",
		RunE:  runPools,
	}

	poolsCmd.Flags().String("snapshots", "./data/pools.jsonl", "pool snapshots JSONL")

	root.AddCommand(poolsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
