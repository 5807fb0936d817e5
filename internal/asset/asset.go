package asset

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Asset identifies a fungible token by its address.
type Asset = common.Address

// Pair is a canonically ordered asset pair. A and B are sorted by address
// bytes so that (x, y) and (y, x) produce the same Pair.
type Pair struct {
	A Asset
	B Asset
}

// NewPair returns the canonical pair for two distinct assets.
func NewPair(x, y Asset) (Pair, error) {
	if x == y {
		return Pair{}, fmt.Errorf("pair requires two distinct assets, got %s twice", x.Hex())
	}
	if bytes.Compare(x.Bytes(), y.Bytes()) < 0 {
		return Pair{A: x, B: y}, nil
	}
	return Pair{A: y, B: x}, nil
}

// Contains reports whether a is one of the pair's two assets.
func (p Pair) Contains(a Asset) bool {
	return a == p.A || a == p.B
}

// Other returns the counterpart of a within the pair.
func (p Pair) Other(a Asset) (Asset, bool) {
	switch a {
	case p.A:
		return p.B, true
	case p.B:
		return p.A, true
	default:
		return Asset{}, false
	}
}

// ShareAddress derives a deterministic address for the pair's LP share token.
func (p Pair) ShareAddress() Asset {
	h := crypto.Keccak256([]byte("lp-share"), p.A.Bytes(), p.B.Bytes())
	return common.BytesToAddress(h[12:])
}

// PoolAddress derives the deterministic ledger account held by the pair's pool.
func (p Pair) PoolAddress() Asset {
	h := crypto.Keccak256([]byte("pool"), p.A.Bytes(), p.B.Bytes())
	return common.BytesToAddress(h[12:])
}

// String renders the pair as "0xA/0xB" in canonical order.
func (p Pair) String() string {
	return p.A.Hex() + "/" + p.B.Hex()
}
