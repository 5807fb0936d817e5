package model

import "math/big"

// Receipt records the outcome of one applied journal operation. A failed
// operation produces a receipt with OK=false and no amounts; the state is
// unchanged.
type Receipt struct {
	Index     int      `json:"index"`
	Op        string   `json:"op"`
	OK        bool     `json:"ok"`
	Error     string   `json:"error,omitempty"`
	AmountA   *big.Int `json:"amount_a,omitempty"`
	AmountB   *big.Int `json:"amount_b,omitempty"`
	Shares    *big.Int `json:"shares,omitempty"`
	AmountOut *big.Int `json:"amount_out,omitempty"`
}
