package pool

import "math/big"

// BpsDenominator is the basis-point scale shared by fee, slippage and spread bounds.
const BpsDenominator = 10000

var bpsDenom = big.NewInt(BpsDenominator)

// getAmountOut applies the fee-adjusted constant-product formula: the fee is
// taken on the input, then out = rOut - (rIn * rOut) / (rIn + inAfterFee).
func getAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) *big.Int {
	inAfterFee := new(big.Int).Mul(amountIn, big.NewInt(int64(BpsDenominator-feeBps)))
	inAfterFee.Div(inAfterFee, bpsDenom)

	denom := new(big.Int).Add(reserveIn, inAfterFee)
	kept := new(big.Int).Mul(reserveIn, reserveOut)
	kept.Div(kept, denom)

	return new(big.Int).Sub(reserveOut, kept)
}

// spreadBps measures how far actual falls short of expected, in basis points
// of expected. expected must be positive; actual never exceeds expected for a
// constant-product trade.
func spreadBps(expected, actual *big.Int) *big.Int {
	diff := new(big.Int).Sub(expected, actual)
	diff.Mul(diff, bpsDenom)
	return diff.Div(diff, expected)
}

// ratioDeviationBps measures the relative deviation of amountA/amountB from
// reserveA/reserveB in basis points, via cross-multiplication to stay in
// integer arithmetic.
func ratioDeviationBps(amountA, amountB, reserveA, reserveB *big.Int) *big.Int {
	lhs := new(big.Int).Mul(amountA, reserveB)
	rhs := new(big.Int).Mul(amountB, reserveA)
	diff := new(big.Int).Sub(lhs, rhs)
	diff.Abs(diff)
	if rhs.Sign() == 0 {
		return new(big.Int).Set(bpsDenom)
	}
	diff.Mul(diff, bpsDenom)
	return diff.Div(diff, rhs)
}

// proportional computes floor(value * numerator / denominator).
func proportional(value, numerator, denominator *big.Int) *big.Int {
	out := new(big.Int).Mul(value, numerator)
	return out.Div(out, denominator)
}

// initialShares is the share amount minted when seeding an empty pool: the
// integer square root of the product of the two deposits (geometric mean).
func initialShares(amountA, amountB *big.Int) *big.Int {
	prod := new(big.Int).Mul(amountA, amountB)
	return prod.Sqrt(prod)
}

// minBig returns the smaller of x and y.
func minBig(x, y *big.Int) *big.Int {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}
