package automation

import (
	"iter"
	"math"
	"sort"
)

// MaxExtrema is the maximum number of interior extrema of a cubic Bézier,
// counting both coordinates.
const MaxExtrema = 4

// solveEpsilon is the accuracy, in time units, with which a cubic segment is
// inverted.
const solveEpsilon = 1e-12

// CubicBez is a cubic Bézier segment in curve space. Cubic easings build one
// from their adjacent keys and tangent anchors.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

func (c CubicBez) IsInf() bool {
	return c.P0.IsInf() || c.P1.IsInf() || c.P2.IsInf() || c.P3.IsInf()
}

func (c CubicBez) IsNaN() bool {
	return c.P0.IsNaN() || c.P1.IsNaN() || c.P2.IsNaN() || c.P3.IsNaN()
}

func (c CubicBez) PathElements() iter.Seq[PathElement] {
	return func(yield func(PathElement) bool) {
		_ = yield(MoveTo(c.P0)) &&
			yield(CubicTo(c.P1, c.P2, c.P3))
	}
}

func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(c.P0).Mul(mt * mt * mt)
	b := Vec2(c.P1).Mul(mt * mt * 3.0)
	cc := Vec2(c.P2).Mul(mt * 3.0)
	d := Vec2(c.P3)
	v := a.Add(b.Add(cc.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// Extrema returns the parameters of the interior extrema of both coordinates,
// in increasing order.
func (c CubicBez) Extrema() ([MaxExtrema]float64, int) {
	// two calls to oneCoord, up to 2 roots per call, for a total of 4 possible values.
	var out [MaxExtrema]float64
	var outN int
	oneCoord := func(d0, d1, d2 float64) {
		a := d0 - 2*d1 + d2
		b := 2 * (d1 - d0)
		c := d0
		roots, n := SolveQuadratic(c, b, a)
		for _, t := range roots[:n] {
			if t > 0.0 && t < 1.0 {
				out[outN] = t
				outN++
			}
		}
	}

	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)
	oneCoord(d0.X, d1.X, d2.X)
	oneCoord(d0.Y, d1.Y, d2.Y)
	sort.Float64s(out[:outN])
	return out, outN
}

// BoundingBox returns the smallest (axis-aligned) rectangle that encloses the
// curve in the range [0, 1]. Control points are not included.
func (c CubicBez) BoundingBox() Rect {
	bbox := NewRectFromPoints(c.P0, c.P3)
	ex, n := c.Extrema()
	for _, t := range ex[:n] {
		bbox = bbox.UnionPoint(c.Eval(t))
	}
	return bbox
}

// ControlBox returns the bounding box of all four control points.
func (c CubicBez) ControlBox() Rect {
	return NewRectFromPoints(c.P0, c.P3).UnionPoint(c.P1).UnionPoint(c.P2)
}

func (c CubicBez) Transform(aff Affine) CubicBez {
	return CubicBez{
		P0: c.P0.Transform(aff),
		P1: c.P1.Transform(aff),
		P2: c.P2.Transform(aff),
		P3: c.P3.Transform(aff),
	}
}

// SolveT returns the parameter t ∈ [0, 1] for which the curve's x coordinate
// equals x.
//
// The curve must be monotonic in x, which holds for cubic easings because
// their anchors are clamped to the segment's span. x is clamped to the
// curve's x range.
func (c CubicBez) SolveT(x float64) float64 {
	x0, x3 := c.P0.X, c.P3.X
	if x3 == x0 {
		return 0
	}
	if (x-x0)*(x3-x0) <= 0 {
		return 0
	}
	if (x-x3)*(x0-x3) <= 0 {
		return 1
	}

	const epsilon = 1e-9
	tolerance := solveEpsilon * max(1, math.Abs(x0), math.Abs(x3))
	c0, c1, c2, c3 := cubicBezCoefficients(c.P0.X, c.P1.X, c.P2.X, c.P3.X)
	ts, n := SolveCubic(c0-x, c1, c2, c3)
	for _, t := range ts[:n] {
		if t < -epsilon || t > 1+epsilon {
			continue
		}
		// The closed form loses precision when a handle sits on the far
		// end of the span. A few Newton steps on x(t) recover it.
		t = min(max(t, 0), 1)
		for range 4 {
			d := c1 + t*(2*c2+3*c3*t)
			if d == 0 {
				break
			}
			fx := c0 - x + t*(c1+t*(c2+t*c3))
			t = min(max(t-fx/d, 0), 1)
		}
		if math.Abs(c.Eval(t).X-x) <= tolerance {
			return t
		}
	}

	// Near-degenerate coefficients can make the closed form miss the root.
	// x(t) is monotonic on [0, 1], so bracketing always succeeds.
	f := func(t float64) float64 {
		return c.Eval(t).X - x
	}
	fa, fb := x0-x, x3-x
	if fa > 0 {
		f = func(t float64) float64 {
			return x - c.Eval(t).X
		}
		fa, fb = -fa, -fb
	}
	return SolveITP(f, 0, 1, solveEpsilon, 1, 0.2, fa, fb)
}

// Return polynomial coefficients given cubic bezier coordinates.
func cubicBezCoefficients(x0, x1, x2, x3 float64) (_, _, _, _ float64) {
	p0 := x0
	p1 := 3.0*x1 - 3.0*x0
	p2 := 3.0*x2 - 6.0*x1 + 3.0*x0
	p3 := x3 - 3.0*x2 + 3.0*x1 - x0
	return p0, p1, p2, p3
}

// isMonotonicX reports whether x(t) never decreases over [0, 1], given the
// curve runs left to right.
func (c CubicBez) isMonotonicX() bool {
	a := c.P1.X - c.P0.X
	b := c.P2.X - c.P1.X
	d := c.P3.X - c.P2.X
	if a < 0 || d < 0 {
		return false
	}
	// The derivative is a quadratic Bernstein polynomial with coefficients
	// (a, b, d), which is non-negative iff b ≥ -√(ad).
	return b >= -math.Sqrt(a*d)-solveEpsilon
}
