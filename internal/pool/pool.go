package pool

import (
	"fmt"
	"math/big"
	"time"

	"dexcore/internal/asset"
	"dexcore/internal/ledger"
	"dexcore/internal/shares"
)

// Config holds the per-pool risk parameters, all in basis points.
type Config struct {
	SwapFeeBps            uint16
	MaxAllowedSlippageBps uint16
	MaxAllowedSpreadBps   uint16
}

func (c Config) validate() error {
	if c.SwapFeeBps > BpsDenominator {
		return fmt.Errorf("swap fee %d bps exceeds %d", c.SwapFeeBps, BpsDenominator)
	}
	if c.MaxAllowedSlippageBps > BpsDenominator {
		return fmt.Errorf("max slippage %d bps exceeds %d", c.MaxAllowedSlippageBps, BpsDenominator)
	}
	if c.MaxAllowedSpreadBps > BpsDenominator {
		return fmt.Errorf("max spread %d bps exceeds %d", c.MaxAllowedSpreadBps, BpsDenominator)
	}
	return nil
}

// Pool owns the two reserves and the share ledger for one asset pair. All
// reserve and share mutation goes through its methods; a pool is either fully
// empty (zero reserves, zero shares) or fully funded.
type Pool struct {
	pair      asset.Pair
	cfg       Config
	reserveA  *big.Int
	reserveB  *big.Int
	shares    *shares.Ledger
	ledger    *ledger.Ledger
	account   asset.Asset
	shareAddr asset.Asset
	now       func() int64
}

// New creates an empty pool for the pair, settling asset movement on ldg.
// now supplies the current unix time for deadline checks; nil means wall clock.
func New(pair asset.Pair, cfg Config, ldg *ledger.Ledger, now func() int64) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if ldg == nil {
		return nil, fmt.Errorf("ledger is nil")
	}
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	return &Pool{
		pair:      pair,
		cfg:       cfg,
		reserveA:  new(big.Int),
		reserveB:  new(big.Int),
		shares:    shares.NewLedger(),
		ledger:    ldg,
		account:   pair.PoolAddress(),
		shareAddr: pair.ShareAddress(),
		now:       now,
	}, nil
}

// Pair returns the pool's canonical asset pair.
func (p *Pool) Pair() asset.Pair { return p.pair }

// Account returns the pool's ledger account address.
func (p *Pool) Account() asset.Asset { return p.account }

// Config returns the pool's risk parameters.
func (p *Pool) Config() Config { return p.cfg }

// Reserves returns copies of the two reserve counters in canonical order.
func (p *Pool) Reserves() (*big.Int, *big.Int) {
	return new(big.Int).Set(p.reserveA), new(big.Int).Set(p.reserveB)
}

// TotalShares returns the current share supply.
func (p *Pool) TotalShares() *big.Int { return p.shares.Total() }

// SharesOf returns the account's share balance.
func (p *Pool) SharesOf(account asset.Asset) *big.Int { return p.shares.BalanceOf(account) }

// Empty reports whether the pool holds no liquidity.
func (p *Pool) Empty() bool { return p.shares.Total().Sign() == 0 }

// AssetAmount pairs an asset address with an amount for query responses.
type AssetAmount struct {
	Address asset.Asset
	Amount  *big.Int
}

// Info is the read-only projection of the pool state.
type Info struct {
	AssetA  AssetAmount
	AssetB  AssetAmount
	LPShare AssetAmount
}

// Info returns the current pool snapshot: both reserves and the share supply.
func (p *Pool) Info() Info {
	return Info{
		AssetA:  AssetAmount{Address: p.pair.A, Amount: new(big.Int).Set(p.reserveA)},
		AssetB:  AssetAmount{Address: p.pair.B, Amount: new(big.Int).Set(p.reserveB)},
		LPShare: AssetAmount{Address: p.shareAddr, Amount: p.shares.Total()},
	}
}

// ProvideLiquidity deposits up to the desired amounts of each asset and mints
// proportional shares to the provider. Each desired amount is optional; on a
// funded pool the missing side is completed proportionally from reserves, and
// on an empty pool both sides are required. Realized amounts below minA/minB
// fail with ErrSlippageExceeded. A non-nil deadline in the past fails with
// ErrExpired.
func (p *Pool) ProvideLiquidity(provider asset.Asset, desiredA, minA, desiredB, minB *big.Int, deadline *int64) (*big.Int, *big.Int, *big.Int, error) {
	if deadline != nil && *deadline < p.now() {
		return nil, nil, nil, ErrExpired
	}
	if desiredA == nil && desiredB == nil {
		return nil, nil, nil, ErrInvalidAmount
	}
	if desiredA != nil && desiredA.Sign() <= 0 {
		return nil, nil, nil, ErrInvalidAmount
	}
	if desiredB != nil && desiredB.Sign() <= 0 {
		return nil, nil, nil, ErrInvalidAmount
	}

	var amountA, amountB, minted *big.Int
	if p.Empty() {
		// No price reference yet: both sides set the initial price.
		if desiredA == nil || desiredB == nil {
			return nil, nil, nil, ErrEmptyPool
		}
		amountA = new(big.Int).Set(desiredA)
		amountB = new(big.Int).Set(desiredB)
		minted = initialShares(amountA, amountB)
		if minted.Sign() <= 0 {
			return nil, nil, nil, ErrInvalidAmount
		}
	} else {
		amountA, amountB = p.matchAmounts(desiredA, desiredB)
		if amountA.Sign() <= 0 || amountB.Sign() <= 0 {
			return nil, nil, nil, ErrInvalidAmount
		}
		dev := ratioDeviationBps(amountA, amountB, p.reserveA, p.reserveB)
		if dev.Cmp(big.NewInt(int64(p.cfg.MaxAllowedSlippageBps))) > 0 {
			return nil, nil, nil, ErrSlippageExceeded
		}
		total := p.shares.Total()
		byA := proportional(total, amountA, p.reserveA)
		byB := proportional(total, amountB, p.reserveB)
		minted = minBig(byA, byB)
		if minted.Sign() <= 0 {
			return nil, nil, nil, ErrInvalidAmount
		}
	}

	if minA != nil && amountA.Cmp(minA) < 0 {
		return nil, nil, nil, ErrSlippageExceeded
	}
	if minB != nil && amountB.Cmp(minB) < 0 {
		return nil, nil, nil, ErrSlippageExceeded
	}

	// Check both deposits before moving anything so a failed second transfer
	// cannot strand the first.
	if p.ledger.Balance(p.pair.A, provider).Cmp(amountA) < 0 {
		return nil, nil, nil, ledger.ErrInsufficientBalance
	}
	if p.ledger.Balance(p.pair.B, provider).Cmp(amountB) < 0 {
		return nil, nil, nil, ledger.ErrInsufficientBalance
	}

	if err := p.ledger.Transfer(p.pair.A, provider, p.account, amountA); err != nil {
		return nil, nil, nil, err
	}
	if err := p.ledger.Transfer(p.pair.B, provider, p.account, amountB); err != nil {
		return nil, nil, nil, err
	}
	if err := p.shares.Mint(provider, minted); err != nil {
		return nil, nil, nil, err
	}
	p.reserveA.Add(p.reserveA, amountA)
	p.reserveB.Add(p.reserveB, amountB)

	return amountA, amountB, minted, nil
}

// matchAmounts completes a deposit against current reserves: the side that
// fits proportionally under both desired caps wins, the other is derived.
func (p *Pool) matchAmounts(desiredA, desiredB *big.Int) (*big.Int, *big.Int) {
	if desiredA != nil {
		matchedB := proportional(desiredA, p.reserveB, p.reserveA)
		if desiredB == nil || matchedB.Cmp(desiredB) <= 0 {
			return new(big.Int).Set(desiredA), matchedB
		}
	}
	matchedA := proportional(desiredB, p.reserveA, p.reserveB)
	return matchedA, new(big.Int).Set(desiredB)
}

// WithdrawLiquidity burns shareAmount of the provider's shares and pays out
// both reserves proportionally, rounding in the pool's favor. Realized
// amounts below minA/minB fail with ErrSlippageExceeded.
func (p *Pool) WithdrawLiquidity(provider asset.Asset, shareAmount, minA, minB *big.Int) (*big.Int, *big.Int, error) {
	if shareAmount == nil || shareAmount.Sign() <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if p.Empty() {
		return nil, nil, ErrEmptyPool
	}
	if p.shares.BalanceOf(provider).Cmp(shareAmount) < 0 {
		return nil, nil, shares.ErrInsufficientBalance
	}

	total := p.shares.Total()
	amountA := proportional(p.reserveA, shareAmount, total)
	amountB := proportional(p.reserveB, shareAmount, total)

	if minA != nil && amountA.Cmp(minA) < 0 {
		return nil, nil, ErrSlippageExceeded
	}
	if minB != nil && amountB.Cmp(minB) < 0 {
		return nil, nil, ErrSlippageExceeded
	}

	if err := p.shares.Burn(provider, shareAmount); err != nil {
		return nil, nil, err
	}
	p.reserveA.Sub(p.reserveA, amountA)
	p.reserveB.Sub(p.reserveB, amountB)
	if amountA.Sign() > 0 {
		if err := p.ledger.Transfer(p.pair.A, p.account, provider, amountA); err != nil {
			return nil, nil, err
		}
	}
	if amountB.Sign() > 0 {
		if err := p.ledger.Transfer(p.pair.B, p.account, provider, amountB); err != nil {
			return nil, nil, err
		}
	}

	return amountA, amountB, nil
}

// Swap trades amount of offerAsset against the pool's other reserve. The fee
// is taken on the input and the spread against the pre-trade spot quote is
// checked before any state changes. The output settles to recipient when set,
// otherwise to the trader.
func (p *Pool) Swap(trader asset.Asset, offerAsset asset.Asset, amount *big.Int, recipient *asset.Asset) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	askAsset, ok := p.pair.Other(offerAsset)
	if !ok {
		return nil, ErrAssetMismatch
	}
	if p.Empty() {
		return nil, ErrEmptyPool
	}

	reserveIn, reserveOut := p.reserveA, p.reserveB
	if offerAsset == p.pair.B {
		reserveIn, reserveOut = p.reserveB, p.reserveA
	}

	amountOut := getAmountOut(amount, reserveIn, reserveOut, p.cfg.SwapFeeBps)
	if amountOut.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, fmt.Errorf("constant product violated: output %s >= reserve %s", amountOut, reserveOut)
	}

	// Spot quote at pre-trade reserves; the realized shortfall against it is
	// the spread.
	expected := proportional(amount, reserveOut, reserveIn)
	if expected.Sign() <= 0 {
		return nil, ErrSpreadExceeded
	}
	if spreadBps(expected, amountOut).Cmp(big.NewInt(int64(p.cfg.MaxAllowedSpreadBps))) > 0 {
		return nil, ErrSpreadExceeded
	}

	if p.ledger.Balance(offerAsset, trader).Cmp(amount) < 0 {
		return nil, ledger.ErrInsufficientBalance
	}

	to := trader
	if recipient != nil {
		to = *recipient
	}
	if err := p.ledger.Transfer(offerAsset, trader, p.account, amount); err != nil {
		return nil, err
	}
	if err := p.ledger.Transfer(askAsset, p.account, to, amountOut); err != nil {
		return nil, err
	}
	reserveIn.Add(reserveIn, amount)
	reserveOut.Sub(reserveOut, amountOut)

	return amountOut, nil
}
