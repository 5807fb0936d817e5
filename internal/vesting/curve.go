package vesting

import (
	"errors"
	"math/big"
	"sort"
)

var (
	// ErrCurveComplexity is returned when a schedule exceeds the configured
	// maximum number of curve points.
	ErrCurveComplexity = errors.New("vesting curve too complex")
	// ErrCurveNotDecreasing is returned when a release schedule does not
	// monotonically release value over time.
	ErrCurveNotDecreasing = errors.New("vesting curve must monotonically decrease")
)

// Curve yields the amount still locked at a given unix time. A vesting
// schedule is a monotonically decreasing curve: locked value only ever
// shrinks as time passes.
type Curve interface {
	// Value returns the locked amount at time t.
	Value(t int64) *big.Int
	// Size is the number of points defining the curve, for complexity caps.
	Size() int
	// Validate checks that the curve is well formed and non-increasing.
	Validate() error
}

// Constant locks a fixed amount forever. Used for minter capacity where the
// cap never decays.
type Constant struct {
	Amount *big.Int
}

func (c Constant) Value(int64) *big.Int {
	return new(big.Int).Set(c.Amount)
}

func (c Constant) Size() int { return 1 }

func (c Constant) Validate() error {
	if c.Amount == nil || c.Amount.Sign() < 0 {
		return ErrCurveNotDecreasing
	}
	return nil
}

// SaturatingLinear interpolates the locked amount linearly from MinY at MinX
// down to MaxY at MaxX, clamping outside the window.
type SaturatingLinear struct {
	MinX int64
	MinY *big.Int
	MaxX int64
	MaxY *big.Int
}

func (s SaturatingLinear) Value(t int64) *big.Int {
	if t <= s.MinX {
		return new(big.Int).Set(s.MinY)
	}
	if t >= s.MaxX {
		return new(big.Int).Set(s.MaxY)
	}
	// value = minY - (minY - maxY) * (t - minX) / (maxX - minX)
	span := new(big.Int).Sub(s.MinY, s.MaxY)
	span.Mul(span, big.NewInt(t-s.MinX))
	span.Div(span, big.NewInt(s.MaxX-s.MinX))
	return new(big.Int).Sub(s.MinY, span)
}

func (s SaturatingLinear) Size() int { return 2 }

func (s SaturatingLinear) Validate() error {
	if s.MinY == nil || s.MaxY == nil || s.MinY.Sign() < 0 || s.MaxY.Sign() < 0 {
		return ErrCurveNotDecreasing
	}
	if s.MinX >= s.MaxX || s.MinY.Cmp(s.MaxY) < 0 {
		return ErrCurveNotDecreasing
	}
	return nil
}

// Step is one point of a piecewise-linear schedule.
type Step struct {
	Time  int64
	Value *big.Int
}

// PiecewiseLinear interpolates linearly between its steps, clamping to the
// first value before the first step and to the last value after the last.
type PiecewiseLinear struct {
	Steps []Step
}

func (p PiecewiseLinear) Value(t int64) *big.Int {
	if len(p.Steps) == 0 {
		return new(big.Int)
	}
	if t <= p.Steps[0].Time {
		return new(big.Int).Set(p.Steps[0].Value)
	}
	last := p.Steps[len(p.Steps)-1]
	if t >= last.Time {
		return new(big.Int).Set(last.Value)
	}
	idx := sort.Search(len(p.Steps), func(i int) bool { return p.Steps[i].Time > t })
	lo, hi := p.Steps[idx-1], p.Steps[idx]
	seg := SaturatingLinear{MinX: lo.Time, MinY: lo.Value, MaxX: hi.Time, MaxY: hi.Value}
	return seg.Value(t)
}

func (p PiecewiseLinear) Size() int { return len(p.Steps) }

func (p PiecewiseLinear) Validate() error {
	if len(p.Steps) == 0 {
		return ErrCurveNotDecreasing
	}
	for i, step := range p.Steps {
		if step.Value == nil || step.Value.Sign() < 0 {
			return ErrCurveNotDecreasing
		}
		if i == 0 {
			continue
		}
		prev := p.Steps[i-1]
		if step.Time <= prev.Time || step.Value.Cmp(prev.Value) > 0 {
			return ErrCurveNotDecreasing
		}
	}
	return nil
}
