package model

import "math/big"

// PoolState is the persisted projection of one pool: both reserves, the LP
// share supply, and the risk parameters it was created with.
type PoolState struct {
	AssetA                string   `json:"asset_a"`
	AssetB                string   `json:"asset_b"`
	ReserveA              *big.Int `json:"reserve_a"`
	ReserveB              *big.Int `json:"reserve_b"`
	ShareToken            string   `json:"share_token"`
	TotalShares           *big.Int `json:"total_shares"`
	SwapFeeBps            uint16   `json:"swap_fee_bps"`
	MaxAllowedSlippageBps uint16   `json:"max_allowed_slippage_bps"`
	MaxAllowedSpreadBps   uint16   `json:"max_allowed_spread_bps"`
}
