package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dexcore/internal/config"
	"dexcore/internal/engine"
	"dexcore/internal/journal"
	"dexcore/internal/pool"
	"dexcore/internal/storage"
	"dexcore/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Journal == "" {
		return fmt.Errorf("journal path is required")
	}
	if len(cfg.Pools) == 0 {
		return fmt.Errorf("at least one pool must be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(logger)
	if err := seedGenesis(eng, cfg); err != nil {
		return err
	}

	logger.Info("replay start",
		zap.String("journal", cfg.Journal),
		zap.Int("pools", len(cfg.Pools)),
		zap.Int("balances", len(cfg.Balances)),
		zap.String("receipts", cfg.Receipts),
		zap.String("snapshots", cfg.Snapshots),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
	)

	replayer := journal.NewReplayer(journal.RunConfig{
		JournalPath:       cfg.Journal,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, eng, storage.NewJsonlReceipts(cfg.Receipts), logger)

	receipts, err := replayer.Run(ctx)
	if err != nil {
		return err
	}

	states := eng.PoolStates()
	stateSink := storage.NewJsonlPoolStates(cfg.Snapshots)
	if err := stateSink.PutPoolStates(states); err != nil {
		return fmt.Errorf("store snapshots: %w", err)
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertPoolStates(ctx, states); err != nil {
			return fmt.Errorf("upsert pool states: %w", err)
		}
		run := filepath.Base(cfg.Journal)
		if err := store.InsertReceipts(ctx, run, receipts); err != nil {
			return fmt.Errorf("insert receipts: %w", err)
		}
	}

	var failed int
	for _, r := range receipts {
		if !r.OK {
			failed++
		}
	}
	logger.Info("replay complete",
		zap.Int("operations", len(receipts)),
		zap.Int("failed", failed),
		zap.Int("pools", len(states)),
	)

	return nil
}

func seedGenesis(eng *engine.Engine, cfg config.Config) error {
	for i, b := range cfg.Balances {
		account, err := parseAddr(b.Account)
		if err != nil {
			return fmt.Errorf("balance %d account: %w", i, err)
		}
		tokenAddr, err := parseAddr(b.Asset)
		if err != nil {
			return fmt.Errorf("balance %d asset: %w", i, err)
		}
		amount, ok := new(big.Int).SetString(b.Amount, 10)
		if !ok {
			return fmt.Errorf("balance %d: invalid amount %q", i, b.Amount)
		}
		if err := eng.Ledger().Mint(tokenAddr, account, amount); err != nil {
			return fmt.Errorf("balance %d: %w", i, err)
		}
	}

	for i, pc := range cfg.Pools {
		a, err := parseAddr(pc.AssetA)
		if err != nil {
			return fmt.Errorf("pool %d asset_a: %w", i, err)
		}
		b, err := parseAddr(pc.AssetB)
		if err != nil {
			return fmt.Errorf("pool %d asset_b: %w", i, err)
		}
		_, err = eng.CreatePool(a, b, pool.Config{
			SwapFeeBps:            pc.SwapFeeBps,
			MaxAllowedSlippageBps: pc.MaxAllowedSlippageBps,
			MaxAllowedSpreadBps:   pc.MaxAllowedSpreadBps,
		})
		if err != nil {
			return fmt.Errorf("pool %d: %w", i, err)
		}
	}

	return nil
}

func parseAddr(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}
