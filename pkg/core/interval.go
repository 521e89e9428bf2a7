package core

import "math"

// Interval is a conservative floating-point range [Low, High] that widens
// by the minimal representable ulp on every operation so that the true
// mathematical result is always contained within it. Width()==0 marks an
// exact value and lets Point3fi take fast paths.
type Interval struct {
	Low, High float64
}

// NewInterval builds an exact interval around v.
func NewInterval(v float64) Interval {
	return Interval{Low: v, High: v}
}

// NewIntervalFromBounds builds an interval from explicit (possibly
// reordered) bounds.
func NewIntervalFromBounds(a, b float64) Interval {
	if a <= b {
		return Interval{Low: a, High: b}
	}
	return Interval{Low: b, High: a}
}

// NewIntervalWithError builds an interval around v with an absolute error
// bound, rounded outward by one ulp on each side.
func NewIntervalWithError(v, err float64) Interval {
	if err == 0 {
		return NewInterval(v)
	}
	return Interval{Low: NextFloatDown(v - err), High: NextFloatUp(v + err)}
}

// Midpoint returns (Low+High)/2.
func (i Interval) Midpoint() float64 { return (i.Low + i.High) / 2 }

// Width returns High-Low.
func (i Interval) Width() float64 { return i.High - i.Low }

// Exact reports whether the interval has zero width.
func (i Interval) Exact() bool { return i.Low == i.High }

// Add returns the outward-rounded sum of two intervals.
func (i Interval) Add(o Interval) Interval {
	return Interval{Low: NextFloatDown(i.Low + o.Low), High: NextFloatUp(i.High + o.High)}
}

// Sub returns the outward-rounded difference of two intervals.
func (i Interval) Sub(o Interval) Interval {
	return Interval{Low: NextFloatDown(i.Low - o.High), High: NextFloatUp(i.High - o.Low)}
}

// Mul returns the outward-rounded product of two intervals, considering all
// four corner products since signs may vary.
func (i Interval) Mul(o Interval) Interval {
	products := [4]float64{
		i.Low * o.Low, i.High * o.Low,
		i.Low * o.High, i.High * o.High,
	}
	lo, hi := products[0], products[0]
	for _, p := range products[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return Interval{Low: NextFloatDown(lo), High: NextFloatUp(hi)}
}

// MulScalar scales an interval by an exact scalar.
func (i Interval) MulScalar(s float64) Interval {
	if s >= 0 {
		return Interval{Low: NextFloatDown(i.Low * s), High: NextFloatUp(i.High * s)}
	}
	return Interval{Low: NextFloatDown(i.High * s), High: NextFloatUp(i.Low * s)}
}

// Div returns the outward-rounded quotient. The divisor must not straddle
// zero; callers are expected to have ruled that out (division results are
// only used where degeneracy already yields "no intersection").
func (i Interval) Div(o Interval) Interval {
	if o.Low < 0 && o.High > 0 {
		return Interval{Low: math.Inf(-1), High: math.Inf(1)}
	}
	quotients := [4]float64{
		i.Low / o.Low, i.High / o.Low,
		i.Low / o.High, i.High / o.High,
	}
	lo, hi := quotients[0], quotients[0]
	for _, q := range quotients[1:] {
		if q < lo {
			lo = q
		}
		if q > hi {
			hi = q
		}
	}
	return Interval{Low: NextFloatDown(lo), High: NextFloatUp(hi)}
}

// Sqrt returns the outward-rounded square root; the interval is assumed
// nonnegative (callers test the low bound against zero before calling, as
// spec'd for the sphere quadratic discriminant).
func (i Interval) Sqrt() Interval {
	lo := i.Low
	if lo < 0 {
		lo = 0
	}
	return Interval{Low: NextFloatDown(math.Sqrt(lo)), High: NextFloatUp(math.Sqrt(i.High))}
}

// Sqr returns the outward-rounded square, handling the interval crossing
// zero (where the minimum square is 0, not Low*Low).
func (i Interval) Sqr() Interval {
	alo, ahi := math.Abs(i.Low), math.Abs(i.High)
	if alo > ahi {
		alo, ahi = ahi, alo
	}
	if i.Low <= 0 && i.High >= 0 {
		return Interval{Low: 0, High: NextFloatUp(ahi * ahi)}
	}
	return Interval{Low: NextFloatDown(alo * alo), High: NextFloatUp(ahi * ahi)}
}

// Negate returns -i.
func (i Interval) Negate() Interval {
	return Interval{Low: -i.High, High: -i.Low}
}

// ContainsZero reports whether 0 lies within [Low,High].
func (i Interval) ContainsZero() bool {
	return i.Low <= 0 && i.High >= 0
}
