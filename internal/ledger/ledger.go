package ledger

import (
	"errors"
	"math/big"

	"dexcore/internal/asset"
)

var (
	// ErrInvalidAmount is returned when an amount is nil or not strictly positive.
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrInsufficientBalance is returned when a debit exceeds the holder's balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type balanceKey struct {
	asset   asset.Asset
	account asset.Asset
}

// Ledger tracks per-asset account balances. It stands in for the external
// token contracts: every asset movement in the core settles here, so tests
// can observe that no transfer completes without its pool-side counterpart.
type Ledger struct {
	balances map[balanceKey]*big.Int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[balanceKey]*big.Int)}
}

// Balance returns the account's balance of the asset. The result is a copy.
func (l *Ledger) Balance(a asset.Asset, account asset.Asset) *big.Int {
	if bal, ok := l.balances[balanceKey{asset: a, account: account}]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Mint credits amount of the asset to the account.
func (l *Ledger) Mint(a asset.Asset, account asset.Asset, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	l.credit(a, account, amount)
	return nil
}

// Transfer moves amount of the asset from one account to another.
func (l *Ledger) Transfer(a asset.Asset, from, to asset.Asset, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	key := balanceKey{asset: a, account: from}
	bal, ok := l.balances[key]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	if bal.Sign() == 0 {
		delete(l.balances, key)
	}
	l.credit(a, to, amount)
	return nil
}

func (l *Ledger) credit(a asset.Asset, account asset.Asset, amount *big.Int) {
	key := balanceKey{asset: a, account: account}
	bal, ok := l.balances[key]
	if !ok {
		bal = new(big.Int)
		l.balances[key] = bal
	}
	bal.Add(bal, amount)
}

// Snapshot captures the full balance state for later restore.
type Snapshot struct {
	balances map[balanceKey]*big.Int
}

// Snapshot deep-copies the current balances.
func (l *Ledger) Snapshot() Snapshot {
	copied := make(map[balanceKey]*big.Int, len(l.balances))
	for key, bal := range l.balances {
		copied[key] = new(big.Int).Set(bal)
	}
	return Snapshot{balances: copied}
}

// Restore replaces the ledger state with a previously taken snapshot.
func (l *Ledger) Restore(s Snapshot) {
	restored := make(map[balanceKey]*big.Int, len(s.balances))
	for key, bal := range s.balances {
		restored[key] = new(big.Int).Set(bal)
	}
	l.balances = restored
}
