package model

import "math/big"

// Operation types accepted in the journal.
const (
	OpMint              = "mint"
	OpProvideLiquidity  = "provide_liquidity"
	OpWithdrawLiquidity = "withdraw_liquidity"
	OpSwap              = "swap"
	OpRouteSwap         = "route_swap"
)

// LegRecord is one hop of a route_swap operation.
type LegRecord struct {
	OfferAsset string `json:"offer_asset"`
	AskAsset   string `json:"ask_asset"`
}

// Operation is one journal line: a single deterministic state transition
// request. Fields beyond op, ts and sender are operation specific.
type Operation struct {
	Op        string `json:"op"`
	Timestamp int64  `json:"ts"`
	Sender    string `json:"sender"`

	// mint
	Asset  string   `json:"asset,omitempty"`
	Amount *big.Int `json:"amount,omitempty"`

	// provide_liquidity / withdraw_liquidity
	AssetA   string   `json:"asset_a,omitempty"`
	AssetB   string   `json:"asset_b,omitempty"`
	DesiredA *big.Int `json:"desired_a,omitempty"`
	MinA     *big.Int `json:"min_a,omitempty"`
	DesiredB *big.Int `json:"desired_b,omitempty"`
	MinB     *big.Int `json:"min_b,omitempty"`
	Deadline *int64   `json:"deadline,omitempty"`
	Shares   *big.Int `json:"shares,omitempty"`

	// swap
	OfferAsset string `json:"offer_asset,omitempty"`
	AskAsset   string `json:"ask_asset,omitempty"`

	// route_swap
	Recipient string      `json:"recipient,omitempty"`
	Legs      []LegRecord `json:"legs,omitempty"`
}
