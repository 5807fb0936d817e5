package journal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dexcore/internal/engine"
	"dexcore/internal/model"
	"dexcore/internal/storage"
)

// RunConfig holds runtime settings for a replay.
type RunConfig struct {
	JournalPath       string
	BatchSize         int
	CheckpointPath    string
	CheckpointEnabled bool
}

// Replayer applies a journal to the engine and writes receipts to storage.
type Replayer struct {
	cfg        RunConfig
	engine     *engine.Engine
	receipts   storage.ReceiptSink
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewReplayer builds a Replayer with its dependencies.
func NewReplayer(cfg RunConfig, eng *engine.Engine, receiptSink storage.ReceiptSink, logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replayer{
		cfg:        cfg,
		engine:     eng,
		receipts:   receiptSink,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run executes the replay loop and returns all receipts produced this run.
func (r *Replayer) Run(ctx context.Context) ([]model.Receipt, error) {
	if r.engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}
	if r.receipts == nil {
		return nil, fmt.Errorf("receipt sink is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}

	ops, err := ReadOperations(r.cfg.JournalPath)
	if err != nil {
		return nil, err
	}

	start := 0
	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load()
		if err != nil {
			return nil, err
		}
		if ok && cp.LastAppliedIndex >= 0 {
			start = cp.LastAppliedIndex + 1
			if start > len(ops) {
				return nil, fmt.Errorf("checkpoint index %d beyond journal length %d", cp.LastAppliedIndex, len(ops))
			}
			// Engine state is in-memory only, so the checkpointed prefix must
			// be re-applied to rebuild it. Replay is deterministic; only the
			// receipt emission is skipped.
			for i := 0; i < start; i++ {
				r.engine.Apply(i, ops[i])
			}
			r.logger.Info("resume from checkpoint",
				zap.Int("last_applied", cp.LastAppliedIndex),
				zap.Int("replayed_prefix", start),
				zap.Int("from", start),
			)
		}
	}

	if start >= len(ops) {
		r.logger.Info("nothing to apply", zap.Int("from", start), zap.Int("operations", len(ops)))
		return nil, nil
	}

	var all []model.Receipt
	for batchStart := start; batchStart < len(ops); batchStart += r.cfg.BatchSize {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		batchEnd := batchStart + r.cfg.BatchSize
		if batchEnd > len(ops) {
			batchEnd = len(ops)
		}

		receipts := make([]model.Receipt, 0, batchEnd-batchStart)
		for i := batchStart; i < batchEnd; i++ {
			receipts = append(receipts, r.engine.Apply(i, ops[i]))
		}

		if err := r.receipts.PutReceiptBatch(receipts); err != nil {
			return all, fmt.Errorf("store receipts: %w", err)
		}
		all = append(all, receipts...)

		if r.checkpoint != nil {
			if err := r.checkpoint.Save(batchEnd - 1); err != nil {
				return all, err
			}
		}

		r.logger.Info("batch complete", zap.Int("from", batchStart), zap.Int("to", batchEnd-1))
	}

	return all, nil
}
