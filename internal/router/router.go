package router

import (
	"errors"
	"math/big"

	"dexcore/internal/asset"
	"dexcore/internal/ledger"
	"dexcore/internal/pool"
	"dexcore/internal/registry"
)

var (
	// ErrOperationsEmpty is returned when a route has zero legs.
	ErrOperationsEmpty = errors.New("route has no swap operations")
	// ErrInvalidRoute is returned when consecutive legs do not chain.
	ErrInvalidRoute = errors.New("route legs are not contiguous")
)

// Leg describes one hop's direction within a route.
type Leg struct {
	OfferAsset asset.Asset
	AskAsset   asset.Asset
}

// Router chains pool swaps into a single atomic multi-hop trade. It holds no
// persistent state of its own; pools are resolved per call and mutated only
// through their public operations.
type Router struct {
	registry *registry.Registry
	ledger   *ledger.Ledger
}

// New builds a router over the given registry and settlement ledger.
func New(reg *registry.Registry, ldg *ledger.Ledger) *Router {
	return &Router{registry: reg, ledger: ldg}
}

// Swap executes the route legs in order, feeding each hop's output into the
// next hop as input, and delivers the final output to recipient. The chain is
// all-or-nothing: any failing hop restores the ledger and every touched pool
// to their pre-call state.
func (r *Router) Swap(recipient asset.Asset, legs []Leg, amount *big.Int) (*big.Int, error) {
	if len(legs) == 0 {
		return nil, ErrOperationsEmpty
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, pool.ErrInvalidAmount
	}
	for i := 1; i < len(legs); i++ {
		if legs[i].OfferAsset != legs[i-1].AskAsset {
			return nil, ErrInvalidRoute
		}
	}

	pools := make([]*pool.Pool, len(legs))
	for i, leg := range legs {
		p, err := r.registry.Resolve(leg.OfferAsset, leg.AskAsset)
		if err != nil {
			return nil, err
		}
		pools[i] = p
	}

	// Single consistent snapshot at entry; committed by not restoring.
	ledgerSnap := r.ledger.Snapshot()
	poolSnaps := make([]pool.Snapshot, len(pools))
	for i, p := range pools {
		poolSnaps[i] = p.Snapshot()
	}
	rollback := func() {
		r.ledger.Restore(ledgerSnap)
		for i, p := range pools {
			p.Restore(poolSnaps[i])
		}
	}

	// Hop outputs pass through the recipient's account: credited by one hop,
	// spent by the next, never settling anywhere else.
	running := new(big.Int).Set(amount)
	for i, leg := range legs {
		out, err := pools[i].Swap(recipient, leg.OfferAsset, running, nil)
		if err != nil {
			rollback()
			return nil, err
		}
		running = out
	}

	return running, nil
}
