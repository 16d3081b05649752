package automation

import (
	"fmt"
	"math"
)

// EasingKind identifies an easing variant.
type EasingKind int

const (
	EasingLinear EasingKind = iota + 1
	EasingCubic
	EasingHold
)

func (k EasingKind) String() string {
	switch k {
	case EasingLinear:
		return "linear"
	case EasingCubic:
		return "cubic"
	case EasingHold:
		return "hold"
	default:
		return fmt.Sprintf("EasingKind(%d)", int(k))
	}
}

// ParseEasingKind is the inverse of [EasingKind.String].
func ParseEasingKind(s string) (EasingKind, error) {
	switch s {
	case "linear":
		return EasingLinear, nil
	case "cubic":
		return EasingCubic, nil
	case "hold":
		return EasingHold, nil
	default:
		return 0, fmt.Errorf("unknown easing %q", s)
	}
}

// Easing is the interpolation between two adjacent keys. Every key owns the
// easing of the segment that starts at it.
//
// The start and end points passed to the methods are the segment's keys in
// curve space, with start.X < end.X.
type Easing interface {
	Kind() EasingKind
	// Eval returns the segment's value at time t, start.X ≤ t ≤ end.X.
	Eval(start, end Point, t float64) float64
	// Bounds returns the region of curve space the segment covers, including
	// any handles a front end shows for it.
	Bounds(start, end Point) Rect
	// AppendPath appends the segment to p. The pen is assumed to be at start.
	AppendPath(p *BezPath, start, end Point)
}

var (
	_ Easing = Linear{}
	_ Easing = Hold{}
	_ Easing = Cubic{}
)

// Linear interpolates in a straight line.
type Linear struct{}

func (Linear) Kind() EasingKind { return EasingLinear }

func (Linear) Eval(start, end Point, t float64) float64 {
	span := end.X - start.X
	if span <= 0 {
		return end.Y
	}
	return start.Lerp(end, (t-start.X)/span).Y
}

func (Linear) Bounds(start, end Point) Rect {
	return NewRectFromPoints(start, end)
}

func (Linear) AppendPath(p *BezPath, start, end Point) {
	p.LineTo(end)
}

// Hold keeps the start value until the end key.
type Hold struct{}

func (Hold) Kind() EasingKind { return EasingHold }

func (Hold) Eval(start, end Point, t float64) float64 {
	if t >= end.X {
		return end.Y
	}
	return start.Y
}

func (Hold) Bounds(start, end Point) Rect {
	return NewRectFromPoints(start, end)
}

func (Hold) AppendPath(p *BezPath, start, end Point) {
	p.LineTo(Pt(end.X, start.Y))
	p.LineTo(end)
}

// Cubic is a cubic Bézier easing. Anchor1 is the tangent handle at the start
// key, relative to it. Anchor2 is the handle at the end key, relative to
// that key.
//
// The zero Cubic stands for the default shape. A curve replaces it with
// [DefaultCubic] for the segment's span.
type Cubic struct {
	Anchor1 Vec2
	Anchor2 Vec2
}

// DefaultCubic returns a smooth ease-in-out for a segment of the given span.
func DefaultCubic(span float64) Cubic {
	return Cubic{
		Anchor1: Vec(span/3, 0),
		Anchor2: Vec(-span/3, 0),
	}
}

func (Cubic) Kind() EasingKind { return EasingCubic }

// Clamp returns the easing with its anchors clamped so that Anchor1.X ∈ [0,
// span] and Anchor2.X ∈ [-span, 0]. Anchors that overshoot the span are
// scaled uniformly, keeping their direction. Anchors pointing the wrong way
// lose their horizontal component.
//
// Within these bounds the segment's time coordinate is monotonic, so the
// segment is a function of time.
func (c Cubic) Clamp(span float64) Cubic {
	span = max(span, 0)
	return Cubic{
		Anchor1: clampAnchor(c.Anchor1, span),
		Anchor2: clampAnchor(c.Anchor2.Negate(), span).Negate(),
	}
}

// clampAnchor clamps v so that v.X ∈ [0, span].
func clampAnchor(v Vec2, span float64) Vec2 {
	switch {
	case v.IsNaN():
		return Vec2{}
	case v.X < 0:
		return Vec(0, v.Y)
	case v.X > span:
		if math.IsInf(v.X, 0) {
			return Vec(span, 0)
		}
		return v.Mul(span / v.X)
	default:
		return v
	}
}

// Bez returns the segment as a Bézier in curve space.
func (c Cubic) Bez(start, end Point) CubicBez {
	c = c.Clamp(end.X - start.X)
	return CubicBez{
		P0: start,
		P1: start.Translate(c.Anchor1),
		P2: end.Translate(c.Anchor2),
		P3: end,
	}
}

func (c Cubic) Eval(start, end Point, t float64) float64 {
	if end.X <= start.X {
		return end.Y
	}
	bez := c.Bez(start, end)
	return bez.Eval(bez.SolveT(t)).Y
}

func (c Cubic) Bounds(start, end Point) Rect {
	return c.Bez(start, end).ControlBox()
}

func (c Cubic) AppendPath(p *BezPath, start, end Point) {
	bez := c.Bez(start, end)
	p.CubicTo(bez.P1, bez.P2, bez.P3)
}

// Handles returns the absolute positions of the two tangent handles.
func (c Cubic) Handles(start, end Point) (Point, Point) {
	bez := c.Bez(start, end)
	return bez.P1, bez.P2
}

// NewEasing returns the default easing of the given kind for a segment of
// the given span.
func NewEasing(kind EasingKind, span float64) (Easing, error) {
	switch kind {
	case EasingLinear:
		return Linear{}, nil
	case EasingCubic:
		return DefaultCubic(span), nil
	case EasingHold:
		return Hold{}, nil
	default:
		return nil, fmt.Errorf("unknown easing kind %d", int(kind))
	}
}
