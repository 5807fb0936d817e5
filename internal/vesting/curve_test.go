package vesting

import (
	"errors"
	"math/big"
	"testing"
)

func TestConstantValue(t *testing.T) {
	c := Constant{Amount: big.NewInt(500)}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, ts := range []int64{0, 100, 1 << 40} {
		if got := c.Value(ts); got.Cmp(big.NewInt(500)) != 0 {
			t.Fatalf("value at %d = %s, want 500", ts, got)
		}
	}
}

func TestSaturatingLinearValue(t *testing.T) {
	s := SaturatingLinear{MinX: 100, MinY: big.NewInt(1000), MaxX: 200, MaxY: big.NewInt(0)}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	cases := []struct {
		t    int64
		want int64
	}{
		{0, 1000},   // clamped before the window
		{100, 1000}, // window start
		{150, 500},  // midpoint
		{175, 250},
		{200, 0}, // fully released
		{500, 0}, // clamped after the window
	}
	for _, tc := range cases {
		if got := s.Value(tc.t); got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Fatalf("value at %d = %s, want %d", tc.t, got, tc.want)
		}
	}
}

func TestSaturatingLinearRejectsIncreasing(t *testing.T) {
	s := SaturatingLinear{MinX: 100, MinY: big.NewInt(0), MaxX: 200, MaxY: big.NewInt(1000)}
	if err := s.Validate(); !errors.Is(err, ErrCurveNotDecreasing) {
		t.Fatalf("err = %v, want ErrCurveNotDecreasing", err)
	}

	s = SaturatingLinear{MinX: 200, MinY: big.NewInt(1000), MaxX: 100, MaxY: big.NewInt(0)}
	if err := s.Validate(); !errors.Is(err, ErrCurveNotDecreasing) {
		t.Fatalf("err = %v, want ErrCurveNotDecreasing for reversed window", err)
	}
}

func TestPiecewiseLinearValue(t *testing.T) {
	p := PiecewiseLinear{Steps: []Step{
		{Time: 100, Value: big.NewInt(900)},
		{Time: 200, Value: big.NewInt(300)},
		{Time: 400, Value: big.NewInt(0)},
	}}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	cases := []struct {
		t    int64
		want int64
	}{
		{50, 900},
		{100, 900},
		{150, 600}, // halfway down the first segment
		{200, 300},
		{300, 150}, // halfway down the second segment
		{400, 0},
		{999, 0},
	}
	for _, tc := range cases {
		if got := p.Value(tc.t); got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Fatalf("value at %d = %s, want %d", tc.t, got, tc.want)
		}
	}
}

func TestPiecewiseLinearRejectsIncreasingStep(t *testing.T) {
	p := PiecewiseLinear{Steps: []Step{
		{Time: 100, Value: big.NewInt(100)},
		{Time: 200, Value: big.NewInt(500)},
	}}
	if err := p.Validate(); !errors.Is(err, ErrCurveNotDecreasing) {
		t.Fatalf("err = %v, want ErrCurveNotDecreasing", err)
	}
}

func TestPiecewiseLinearRejectsUnorderedTimes(t *testing.T) {
	p := PiecewiseLinear{Steps: []Step{
		{Time: 200, Value: big.NewInt(500)},
		{Time: 100, Value: big.NewInt(100)},
	}}
	if err := p.Validate(); !errors.Is(err, ErrCurveNotDecreasing) {
		t.Fatalf("err = %v, want ErrCurveNotDecreasing", err)
	}
}
