package vesting

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"dexcore/internal/asset"
	"dexcore/internal/ledger"
)

func addr(b byte) asset.Asset { return common.BytesToAddress([]byte{b}) }

// newTestContract funds the admin and creates a contract with one schedule:
// 1000 tokens for the beneficiary, released linearly between t=100 and t=200.
// The clock reads *now for each call.
func newTestContract(t *testing.T, now *int64, minter *MinterInfo) (*Contract, *ledger.Ledger, asset.Asset) {
	t.Helper()
	ldg := ledger.New()
	admin := addr(1)
	token := TokenInfo{Name: "Test Token", Symbol: "TST", Decimals: 7, Address: addr(9)}
	beneficiary := addr(2)

	if err := ldg.Mint(token.Address, admin, big.NewInt(1_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	schedules := []Schedule{{
		Address: beneficiary,
		Balance: big.NewInt(1_000),
		Curve:   SaturatingLinear{MinX: 100, MinY: big.NewInt(1_000), MaxX: 200, MaxY: big.NewInt(0)},
	}}
	c, err := New(admin, token, schedules, minter, 10, ldg, func() int64 { return *now })
	if err != nil {
		t.Fatalf("new contract: %v", err)
	}
	return c, ldg, beneficiary
}

func TestNewFundsContractAccount(t *testing.T) {
	now := int64(0)
	c, ldg, _ := newTestContract(t, &now, nil)

	if got := ldg.Balance(c.Token().Address, addr(1)); got.Sign() != 0 {
		t.Fatalf("admin still holds %s after funding", got)
	}
	if got := ldg.Balance(c.Token().Address, c.Account()); got.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("contract holds %s, want 1000", got)
	}
}

func TestNewRequiresSchedules(t *testing.T) {
	ldg := ledger.New()
	_, err := New(addr(1), TokenInfo{Address: addr(9)}, nil, nil, 10, ldg, nil)
	if !errors.Is(err, ErrMissingBalance) {
		t.Fatalf("err = %v, want ErrMissingBalance", err)
	}
}

func TestNewRequiresFundedAdmin(t *testing.T) {
	ldg := ledger.New()
	schedules := []Schedule{{
		Address: addr(2),
		Balance: big.NewInt(1_000),
		Curve:   Constant{Amount: big.NewInt(1_000)},
	}}
	_, err := New(addr(1), TokenInfo{Address: addr(9)}, schedules, nil, 10, ldg, nil)
	if !errors.Is(err, ErrNotEnoughTokens) {
		t.Fatalf("err = %v, want ErrNotEnoughTokens", err)
	}
}

func TestNewEnforcesCurveComplexity(t *testing.T) {
	ldg := ledger.New()
	if err := ldg.Mint(addr(9), addr(1), big.NewInt(1_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	steps := make([]Step, 5)
	for i := range steps {
		steps[i] = Step{Time: int64(100 + i), Value: big.NewInt(int64(1_000 - i))}
	}
	schedules := []Schedule{{
		Address: addr(2),
		Balance: big.NewInt(1_000),
		Curve:   PiecewiseLinear{Steps: steps},
	}}
	_, err := New(addr(1), TokenInfo{Address: addr(9)}, schedules, nil, 3, ldg, nil)
	if !errors.Is(err, ErrCurveComplexity) {
		t.Fatalf("err = %v, want ErrCurveComplexity", err)
	}
}

func TestNewRejectsTotalOverMinterCapacity(t *testing.T) {
	ldg := ledger.New()
	if err := ldg.Mint(addr(9), addr(1), big.NewInt(1_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	schedules := []Schedule{{
		Address: addr(2),
		Balance: big.NewInt(1_000),
		Curve:   Constant{Amount: big.NewInt(1_000)},
	}}
	minter := &MinterInfo{Address: addr(3), Capacity: big.NewInt(500)}
	_, err := New(addr(1), TokenInfo{Address: addr(9)}, schedules, minter, 10, ldg, nil)
	if !errors.Is(err, ErrTotalOverCapacity) {
		t.Fatalf("err = %v, want ErrTotalOverCapacity", err)
	}
}

func TestAvailableToClaimFollowsCurve(t *testing.T) {
	now := int64(0)
	c, _, beneficiary := newTestContract(t, &now, nil)

	liquid, err := c.AvailableToClaim(beneficiary)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if liquid.Sign() != 0 {
		t.Fatalf("liquid = %s before release starts, want 0", liquid)
	}

	now = 150
	liquid, err = c.AvailableToClaim(beneficiary)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if liquid.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("liquid = %s at midpoint, want 500", liquid)
	}

	now = 300
	liquid, err = c.AvailableToClaim(beneficiary)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if liquid.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("liquid = %s after full release, want 1000", liquid)
	}
}

func TestClaim(t *testing.T) {
	now := int64(50)
	c, ldg, beneficiary := newTestContract(t, &now, nil)

	if _, err := c.Claim(beneficiary); !errors.Is(err, ErrNothingToClaim) {
		t.Fatalf("err = %v, want ErrNothingToClaim before release", err)
	}

	now = 150
	claimed, err := c.Claim(beneficiary)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("claimed %s, want 500", claimed)
	}
	if got := ldg.Balance(c.Token().Address, beneficiary); got.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("beneficiary balance = %s, want 500", got)
	}

	// The vesting balance shrank; nothing more is liquid at the same instant.
	if _, err := c.Claim(beneficiary); !errors.Is(err, ErrNothingToClaim) {
		t.Fatalf("err = %v, want ErrNothingToClaim after draining", err)
	}

	now = 200
	claimed, err = c.Claim(beneficiary)
	if err != nil {
		t.Fatalf("final claim: %v", err)
	}
	if claimed.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("final claim %s, want 500", claimed)
	}
	remaining, err := c.VestedBalance(beneficiary)
	if err != nil {
		t.Fatalf("vested balance: %v", err)
	}
	if remaining.Sign() != 0 {
		t.Fatalf("vesting balance = %s after full claim, want 0", remaining)
	}
}

func TestTransferBoundedByLiquid(t *testing.T) {
	now := int64(150)
	c, ldg, beneficiary := newTestContract(t, &now, nil)
	recipient := addr(5)

	if err := c.Transfer(beneficiary, recipient, big.NewInt(501)); !errors.Is(err, ErrNotEnoughBalance) {
		t.Fatalf("err = %v, want ErrNotEnoughBalance", err)
	}
	if err := c.Transfer(beneficiary, recipient, big.NewInt(300)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := ldg.Balance(c.Token().Address, recipient); got.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("recipient balance = %s, want 300", got)
	}

	// 200 of the released 500 remain liquid after spending 300.
	liquid, err := c.AvailableToClaim(beneficiary)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if liquid.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("liquid = %s, want 200", liquid)
	}
}

func TestTransferUnknownAccount(t *testing.T) {
	now := int64(150)
	c, _, _ := newTestContract(t, &now, nil)
	if err := c.Transfer(addr(7), addr(5), big.NewInt(1)); !errors.Is(err, ErrNoVestingAccount) {
		t.Fatalf("err = %v, want ErrNoVestingAccount", err)
	}
}

func TestMintConsumesCapacity(t *testing.T) {
	now := int64(0)
	minter := &MinterInfo{Address: addr(3), Capacity: big.NewInt(2_000)}
	c, ldg, _ := newTestContract(t, &now, minter)

	if err := c.Mint(addr(4), big.NewInt(100)); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if err := c.Mint(addr(3), big.NewInt(600)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if got := ldg.Balance(c.Token().Address, c.Account()); got.Cmp(big.NewInt(1_600)) != 0 {
		t.Fatalf("contract balance = %s, want 1600", got)
	}

	info, err := c.Minter()
	if err != nil {
		t.Fatalf("minter: %v", err)
	}
	if info.Capacity.Cmp(big.NewInt(1_400)) != 0 {
		t.Fatalf("capacity = %s, want 1400", info.Capacity)
	}

	if err := c.Mint(addr(3), big.NewInt(1_401)); !errors.Is(err, ErrNotEnoughCapacity) {
		t.Fatalf("err = %v, want ErrNotEnoughCapacity", err)
	}
}

func TestUpdateMinter(t *testing.T) {
	now := int64(0)
	minter := &MinterInfo{Address: addr(3), Capacity: big.NewInt(2_000)}
	c, _, _ := newTestContract(t, &now, minter)

	// Only the current minter may hand over the role.
	if err := c.UpdateMinter(addr(1), addr(4)); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if err := c.UpdateMinter(addr(3), addr(4)); err != nil {
		t.Fatalf("update minter: %v", err)
	}
	info, err := c.Minter()
	if err != nil {
		t.Fatalf("minter: %v", err)
	}
	if info.Address != addr(4) {
		t.Fatalf("minter = %s, want handed-over address", info.Address)
	}
	if info.Capacity.Cmp(big.NewInt(2_000)) != 0 {
		t.Fatalf("capacity = %s, want carried over 2000", info.Capacity)
	}
}

func TestUpdateMinterCapacity(t *testing.T) {
	now := int64(0)
	minter := &MinterInfo{Address: addr(3), Capacity: big.NewInt(2_000)}
	c, _, _ := newTestContract(t, &now, minter)

	if err := c.UpdateMinterCapacity(addr(3), big.NewInt(5_000)); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized for non-admin", err)
	}
	if err := c.UpdateMinterCapacity(addr(1), big.NewInt(5_000)); err != nil {
		t.Fatalf("update capacity: %v", err)
	}
	info, err := c.Minter()
	if err != nil {
		t.Fatalf("minter: %v", err)
	}
	if info.Capacity.Cmp(big.NewInt(5_000)) != 0 {
		t.Fatalf("capacity = %s, want 5000", info.Capacity)
	}
}
