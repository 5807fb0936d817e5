package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"dexcore/internal/asset"
	"dexcore/internal/ledger"
	"dexcore/internal/model"
	"dexcore/internal/pool"
	"dexcore/internal/registry"
	"dexcore/internal/router"
)

// Engine applies journaled operations to the pool core one at a time. Each
// operation is computed from a single consistent snapshot taken at entry and
// committed at exit; a failed operation restores the snapshot, so the caller
// observes either full success or no state change.
type Engine struct {
	ledger   *ledger.Ledger
	registry *registry.Registry
	router   *router.Router
	logger   *zap.Logger
	nowTS    int64
}

// New builds an engine with an empty ledger and registry.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	ldg := ledger.New()
	reg := registry.New()
	return &Engine{
		ledger:   ldg,
		registry: reg,
		router:   router.New(reg, ldg),
		logger:   logger,
	}
}

// Ledger returns the settlement ledger.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Registry returns the pool registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Router returns the multihop router.
func (e *Engine) Router() *router.Router { return e.router }

// Now returns the current deterministic time, set from the last applied
// operation's timestamp.
func (e *Engine) Now() int64 { return e.nowTS }

// SetTime overrides the deterministic clock, used before direct pool calls.
func (e *Engine) SetTime(ts int64) { e.nowTS = ts }

// CreatePool deploys an empty pool for the two assets and registers it.
func (e *Engine) CreatePool(x, y asset.Asset, cfg pool.Config) (*pool.Pool, error) {
	pair, err := asset.NewPair(x, y)
	if err != nil {
		return nil, err
	}
	p, err := pool.New(pair, cfg, e.ledger, e.Now)
	if err != nil {
		return nil, err
	}
	if err := e.registry.Register(p); err != nil {
		return nil, err
	}
	e.logger.Info("pool created",
		zap.String("pair", pair.String()),
		zap.Uint16("swap_fee_bps", cfg.SwapFeeBps),
	)
	return p, nil
}

// Apply executes one journal operation and returns its receipt. The journal
// timestamp drives the deterministic clock.
func (e *Engine) Apply(index int, op model.Operation) model.Receipt {
	e.nowTS = op.Timestamp

	ledgerSnap := e.ledger.Snapshot()
	pools := e.registry.Pools()
	poolSnaps := make([]pool.Snapshot, len(pools))
	for i, p := range pools {
		poolSnaps[i] = p.Snapshot()
	}

	receipt, err := e.apply(op)
	receipt.Index = index
	receipt.Op = op.Op
	if err != nil {
		e.ledger.Restore(ledgerSnap)
		for i, p := range pools {
			p.Restore(poolSnaps[i])
		}
		receipt.OK = false
		receipt.Error = err.Error()
		e.logger.Warn("operation failed",
			zap.Int("index", index),
			zap.String("op", op.Op),
			zap.Error(err),
		)
		return receipt
	}

	receipt.OK = true
	e.logger.Debug("operation applied", zap.Int("index", index), zap.String("op", op.Op))
	return receipt
}

func (e *Engine) apply(op model.Operation) (model.Receipt, error) {
	var receipt model.Receipt

	sender, err := parseAddress(op.Sender)
	if err != nil {
		return receipt, fmt.Errorf("sender: %w", err)
	}

	switch op.Op {
	case model.OpMint:
		tokenAddr, err := parseAddress(op.Asset)
		if err != nil {
			return receipt, fmt.Errorf("asset: %w", err)
		}
		if err := e.ledger.Mint(tokenAddr, sender, op.Amount); err != nil {
			return receipt, err
		}
		receipt.AmountOut = op.Amount

	case model.OpProvideLiquidity:
		p, flipped, err := e.resolvePair(op.AssetA, op.AssetB)
		if err != nil {
			return receipt, err
		}
		desiredA, minA, desiredB, minB := op.DesiredA, op.MinA, op.DesiredB, op.MinB
		if flipped {
			desiredA, desiredB = desiredB, desiredA
			minA, minB = minB, minA
		}
		amountA, amountB, minted, err := p.ProvideLiquidity(sender, desiredA, minA, desiredB, minB, op.Deadline)
		if err != nil {
			return receipt, err
		}
		if flipped {
			amountA, amountB = amountB, amountA
		}
		receipt.AmountA = amountA
		receipt.AmountB = amountB
		receipt.Shares = minted

	case model.OpWithdrawLiquidity:
		p, flipped, err := e.resolvePair(op.AssetA, op.AssetB)
		if err != nil {
			return receipt, err
		}
		minA, minB := op.MinA, op.MinB
		if flipped {
			minA, minB = minB, minA
		}
		amountA, amountB, err := p.WithdrawLiquidity(sender, op.Shares, minA, minB)
		if err != nil {
			return receipt, err
		}
		if flipped {
			amountA, amountB = amountB, amountA
		}
		receipt.AmountA = amountA
		receipt.AmountB = amountB
		receipt.Shares = op.Shares

	case model.OpSwap:
		offer, err := parseAddress(op.OfferAsset)
		if err != nil {
			return receipt, fmt.Errorf("offer asset: %w", err)
		}
		ask, err := parseAddress(op.AskAsset)
		if err != nil {
			return receipt, fmt.Errorf("ask asset: %w", err)
		}
		p, err := e.registry.Resolve(offer, ask)
		if err != nil {
			return receipt, err
		}
		out, err := p.Swap(sender, offer, op.Amount, nil)
		if err != nil {
			return receipt, err
		}
		receipt.AmountOut = out

	case model.OpRouteSwap:
		recipient := sender
		if op.Recipient != "" {
			recipient, err = parseAddress(op.Recipient)
			if err != nil {
				return receipt, fmt.Errorf("recipient: %w", err)
			}
		}
		legs := make([]router.Leg, len(op.Legs))
		for i, leg := range op.Legs {
			offer, err := parseAddress(leg.OfferAsset)
			if err != nil {
				return receipt, fmt.Errorf("leg %d offer asset: %w", i, err)
			}
			ask, err := parseAddress(leg.AskAsset)
			if err != nil {
				return receipt, fmt.Errorf("leg %d ask asset: %w", i, err)
			}
			legs[i] = router.Leg{OfferAsset: offer, AskAsset: ask}
		}
		out, err := e.router.Swap(recipient, legs, op.Amount)
		if err != nil {
			return receipt, err
		}
		receipt.AmountOut = out

	default:
		return receipt, fmt.Errorf("unknown operation %q", op.Op)
	}

	return receipt, nil
}

// resolvePair resolves the pool for two assets as the journal names them and
// reports whether the journal order is flipped against the canonical order.
func (e *Engine) resolvePair(rawA, rawB string) (*pool.Pool, bool, error) {
	a, err := parseAddress(rawA)
	if err != nil {
		return nil, false, fmt.Errorf("asset_a: %w", err)
	}
	b, err := parseAddress(rawB)
	if err != nil {
		return nil, false, fmt.Errorf("asset_b: %w", err)
	}
	p, err := e.registry.Resolve(a, b)
	if err != nil {
		return nil, false, err
	}
	return p, p.Pair().A != a, nil
}

// PoolStates projects every registered pool into its persisted record form,
// ordered by canonical pair.
func (e *Engine) PoolStates() []model.PoolState {
	pools := e.registry.Pools()
	states := make([]model.PoolState, 0, len(pools))
	for _, p := range pools {
		info := p.Info()
		cfg := p.Config()
		states = append(states, model.PoolState{
			AssetA:                info.AssetA.Address.Hex(),
			AssetB:                info.AssetB.Address.Hex(),
			ReserveA:              info.AssetA.Amount,
			ReserveB:              info.AssetB.Amount,
			ShareToken:            info.LPShare.Address.Hex(),
			TotalShares:           info.LPShare.Amount,
			SwapFeeBps:            cfg.SwapFeeBps,
			MaxAllowedSlippageBps: cfg.MaxAllowedSlippageBps,
			MaxAllowedSpreadBps:   cfg.MaxAllowedSpreadBps,
		})
	}
	return states
}

func parseAddress(raw string) (asset.Asset, error) {
	if !common.IsHexAddress(raw) {
		return asset.Asset{}, fmt.Errorf("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}
