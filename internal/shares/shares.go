package shares

import (
	"errors"
	"math/big"

	"dexcore/internal/asset"
)

var (
	// ErrInvalidAmount is returned when a mint or burn amount is not strictly positive.
	ErrInvalidAmount = errors.New("share amount must be a positive integer")
	// ErrInsufficientBalance is returned when a burn exceeds the holder's share balance.
	ErrInsufficientBalance = errors.New("insufficient share balance")
)

// Ledger is a closed ledger of ownership shares for a single pool: the sum of
// all balances equals the total supply after every operation.
type Ledger struct {
	total    *big.Int
	balances map[asset.Asset]*big.Int
}

// NewLedger returns an empty share ledger.
func NewLedger() *Ledger {
	return &Ledger{
		total:    new(big.Int),
		balances: make(map[asset.Asset]*big.Int),
	}
}

// Total returns the total share supply. The result is a copy.
func (l *Ledger) Total() *big.Int {
	return new(big.Int).Set(l.total)
}

// BalanceOf returns the account's share balance. The result is a copy.
func (l *Ledger) BalanceOf(account asset.Asset) *big.Int {
	if bal, ok := l.balances[account]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Mint increases the account's balance and the total supply by amount.
func (l *Ledger) Mint(account asset.Asset, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	bal, ok := l.balances[account]
	if !ok {
		bal = new(big.Int)
		l.balances[account] = bal
	}
	bal.Add(bal, amount)
	l.total.Add(l.total, amount)
	return nil
}

// Burn decreases the account's balance and the total supply by amount.
func (l *Ledger) Burn(account asset.Asset, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	bal, ok := l.balances[account]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	if bal.Sign() == 0 {
		delete(l.balances, account)
	}
	l.total.Sub(l.total, amount)
	return nil
}

// Snapshot captures the ledger state for later restore.
type Snapshot struct {
	total    *big.Int
	balances map[asset.Asset]*big.Int
}

// Snapshot deep-copies the current supply and balances.
func (l *Ledger) Snapshot() Snapshot {
	copied := make(map[asset.Asset]*big.Int, len(l.balances))
	for account, bal := range l.balances {
		copied[account] = new(big.Int).Set(bal)
	}
	return Snapshot{total: new(big.Int).Set(l.total), balances: copied}
}

// Restore replaces the ledger state with a previously taken snapshot.
func (l *Ledger) Restore(s Snapshot) {
	restored := make(map[asset.Asset]*big.Int, len(s.balances))
	for account, bal := range s.balances {
		restored[account] = new(big.Int).Set(bal)
	}
	l.total = new(big.Int).Set(s.total)
	l.balances = restored
}
