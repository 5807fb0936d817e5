package pool

import (
	"math/big"

	"dexcore/internal/shares"
)

// Snapshot captures a pool's reserves and share ledger for later restore.
// The asset ledger is snapshotted separately by whoever owns the transaction
// boundary.
type Snapshot struct {
	reserveA *big.Int
	reserveB *big.Int
	shares   shares.Snapshot
}

// Snapshot deep-copies the pool's mutable state.
func (p *Pool) Snapshot() Snapshot {
	return Snapshot{
		reserveA: new(big.Int).Set(p.reserveA),
		reserveB: new(big.Int).Set(p.reserveB),
		shares:   p.shares.Snapshot(),
	}
}

// Restore replaces the pool's mutable state with a previously taken snapshot.
func (p *Pool) Restore(s Snapshot) {
	p.reserveA = new(big.Int).Set(s.reserveA)
	p.reserveB = new(big.Int).Set(s.reserveB)
	p.shares.Restore(s.shares)
}
