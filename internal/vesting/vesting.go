package vesting

import (
	"errors"
	"math/big"
	"time"

	"dexcore/internal/asset"
	"dexcore/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrMissingBalance is returned when a vesting contract is created with no schedules.
	ErrMissingBalance = errors.New("at least one vesting schedule is required")
	// ErrNotEnoughTokens is returned when the admin cannot fund the total vested amount.
	ErrNotEnoughTokens = errors.New("admin balance does not cover total vested amount")
	// ErrNotEnoughBalance is returned when a spend exceeds the holder's liquid amount.
	ErrNotEnoughBalance = errors.New("amount exceeds liquid balance")
	// ErrNotEnoughCapacity is returned when a mint exceeds the minter's remaining capacity.
	ErrNotEnoughCapacity = errors.New("mint exceeds minter capacity")
	// ErrMinterNotFound is returned when no minter is configured.
	ErrMinterNotFound = errors.New("minter not configured")
	// ErrNotAuthorized is returned when the sender may not perform the operation.
	ErrNotAuthorized = errors.New("sender not authorized")
	// ErrInvalidAmount is returned when an amount is nil or not strictly positive.
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrNoVestingAccount is returned when the address holds no vesting schedule.
	ErrNoVestingAccount = errors.New("no vesting account for address")
	// ErrNothingToClaim is returned when no tokens have vested yet.
	ErrNothingToClaim = errors.New("no tokens available to claim")
	// ErrTotalOverCapacity is returned when the vested total exceeds the minter cap.
	ErrTotalOverCapacity = errors.New("total vested amount exceeds minter capacity")
)

// TokenInfo describes the vested token.
type TokenInfo struct {
	Name     string
	Symbol   string
	Decimals uint8
	Address  asset.Asset
}

// MinterInfo is the optional capacity-bounded minter.
type MinterInfo struct {
	Address  asset.Asset
	Capacity *big.Int
}

// Schedule seeds one vesting account at contract creation.
type Schedule struct {
	Address asset.Asset
	Balance *big.Int
	Curve   Curve
}

type account struct {
	balance *big.Int
	curve   Curve
}

// Contract locks token balances behind monotonic release curves. It is a
// separate accounting system from the pool core and shares only the
// settlement ledger with it.
type Contract struct {
	admin    asset.Asset
	token    TokenInfo
	accounts map[asset.Asset]*account
	minter   *MinterInfo
	ledger   *ledger.Ledger
	account  asset.Asset
	now      func() int64
}

// New creates a vesting contract, moves the total vested amount from the
// admin into the contract's ledger account, and caps every schedule's curve
// at maxComplexity points.
func New(admin asset.Asset, token TokenInfo, schedules []Schedule, minter *MinterInfo, maxComplexity int, ldg *ledger.Ledger, now func() int64) (*Contract, error) {
	if len(schedules) == 0 {
		return nil, ErrMissingBalance
	}
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}

	accounts := make(map[asset.Asset]*account, len(schedules))
	total := new(big.Int)
	for _, s := range schedules {
		if s.Balance == nil || s.Balance.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		if err := s.Curve.Validate(); err != nil {
			return nil, err
		}
		if maxComplexity > 0 && s.Curve.Size() > maxComplexity {
			return nil, ErrCurveComplexity
		}
		accounts[s.Address] = &account{balance: new(big.Int).Set(s.Balance), curve: s.Curve}
		total.Add(total, s.Balance)
	}

	if minter != nil {
		capCurve := Constant{Amount: minter.Capacity}
		if err := capCurve.Validate(); err != nil {
			return nil, err
		}
		if total.Cmp(capCurve.Value(now())) > 0 {
			return nil, ErrTotalOverCapacity
		}
	}

	contractAddr := common.BytesToAddress(crypto.Keccak256([]byte("vesting"), token.Address.Bytes())[12:])
	if ldg.Balance(token.Address, admin).Cmp(total) < 0 {
		return nil, ErrNotEnoughTokens
	}
	if err := ldg.Transfer(token.Address, admin, contractAddr, total); err != nil {
		return nil, err
	}

	return &Contract{
		admin:    admin,
		token:    token,
		accounts: accounts,
		minter:   minter,
		ledger:   ldg,
		account:  contractAddr,
		now:      now,
	}, nil
}

// Token returns the vested token's metadata.
func (c *Contract) Token() TokenInfo { return c.token }

// Account returns the contract's ledger account address.
func (c *Contract) Account() asset.Asset { return c.account }

// Minter returns the configured minter.
func (c *Contract) Minter() (MinterInfo, error) {
	if c.minter == nil {
		return MinterInfo{}, ErrMinterNotFound
	}
	return MinterInfo{Address: c.minter.Address, Capacity: new(big.Int).Set(c.minter.Capacity)}, nil
}

// VestedBalance returns the address's remaining (locked plus liquid) vesting balance.
func (c *Contract) VestedBalance(addr asset.Asset) (*big.Int, error) {
	acc, ok := c.accounts[addr]
	if !ok {
		return nil, ErrNoVestingAccount
	}
	return new(big.Int).Set(acc.balance), nil
}

// AvailableToClaim returns the liquid amount the address may spend now:
// the vesting balance minus whatever the curve still locks.
func (c *Contract) AvailableToClaim(addr asset.Asset) (*big.Int, error) {
	acc, ok := c.accounts[addr]
	if !ok {
		return nil, ErrNoVestingAccount
	}
	locked := acc.curve.Value(c.now())
	liquid := new(big.Int).Sub(acc.balance, locked)
	if liquid.Sign() < 0 {
		liquid.SetInt64(0)
	}
	return liquid, nil
}

// Transfer spends amount of the sender's liquid balance to recipient.
func (c *Contract) Transfer(sender, recipient asset.Asset, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	liquid, err := c.AvailableToClaim(sender)
	if err != nil {
		return err
	}
	if liquid.Cmp(amount) < 0 {
		return ErrNotEnoughBalance
	}
	acc := c.accounts[sender]
	acc.balance.Sub(acc.balance, amount)
	return c.ledger.Transfer(c.token.Address, c.account, recipient, amount)
}

// Claim moves everything currently liquid to the sender.
func (c *Contract) Claim(sender asset.Asset) (*big.Int, error) {
	liquid, err := c.AvailableToClaim(sender)
	if err != nil {
		return nil, err
	}
	if liquid.Sign() <= 0 {
		return nil, ErrNothingToClaim
	}
	acc := c.accounts[sender]
	acc.balance.Sub(acc.balance, liquid)
	if err := c.ledger.Transfer(c.token.Address, c.account, sender, liquid); err != nil {
		return nil, err
	}
	return liquid, nil
}

// Mint credits amount of the token to the contract, consuming minter capacity.
func (c *Contract) Mint(sender asset.Asset, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if c.minter == nil {
		return ErrMinterNotFound
	}
	if sender != c.minter.Address {
		return ErrNotAuthorized
	}
	if c.minter.Capacity.Cmp(amount) < 0 {
		return ErrNotEnoughCapacity
	}
	if err := c.ledger.Mint(c.token.Address, c.account, amount); err != nil {
		return err
	}
	c.minter.Capacity = new(big.Int).Sub(c.minter.Capacity, amount)
	return nil
}

// UpdateMinter hands the minter role to a new address. The current minter may
// hand it over; with no minter configured, only the admin may set one.
func (c *Contract) UpdateMinter(sender, newMinter asset.Asset) error {
	capacity := new(big.Int)
	if c.minter != nil {
		if sender != c.minter.Address {
			return ErrNotAuthorized
		}
		capacity.Set(c.minter.Capacity)
	} else if sender != c.admin {
		return ErrNotAuthorized
	}
	c.minter = &MinterInfo{Address: newMinter, Capacity: capacity}
	return nil
}

// UpdateMinterCapacity lets the admin reset the minter's remaining capacity.
func (c *Contract) UpdateMinterCapacity(sender asset.Asset, capacity *big.Int) error {
	if sender != c.admin {
		return ErrNotAuthorized
	}
	if c.minter == nil {
		return ErrMinterNotFound
	}
	if capacity == nil || capacity.Sign() < 0 {
		return ErrInvalidAmount
	}
	c.minter.Capacity = new(big.Int).Set(capacity)
	return nil
}
