package pool

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is nil, non-positive, or too
	// small to produce a non-zero result.
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrEmptyPool is returned when an operation needs a price reference but
	// the pool holds no liquidity.
	ErrEmptyPool = errors.New("pool has no liquidity")
	// ErrSlippageExceeded is returned when a realized amount breaches the
	// caller's minimum or the pool's configured slippage bound.
	ErrSlippageExceeded = errors.New("slippage tolerance exceeded")
	// ErrSpreadExceeded is returned when a trade price deviates from the spot
	// price beyond the pool's configured spread bound.
	ErrSpreadExceeded = errors.New("spread tolerance exceeded")
	// ErrAssetMismatch is returned when the offered asset is not one of the
	// pool's two reserves.
	ErrAssetMismatch = errors.New("asset is not part of the pool")
	// ErrExpired is returned when an operation deadline has passed.
	ErrExpired = errors.New("operation deadline has passed")
)
