package automation

import (
	"math"
	"testing"
)

func TestEasingKindString(t *testing.T) {
	for _, k := range []EasingKind{EasingLinear, EasingCubic, EasingHold} {
		got, err := ParseEasingKind(k.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != k {
			t.Errorf("ParseEasingKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if _, err := ParseEasingKind("bounce"); err == nil {
		t.Error("expected error for unknown easing")
	}
	if s := EasingKind(42).String(); s != "EasingKind(42)" {
		t.Errorf("got %q", s)
	}
}

func TestLinearEval(t *testing.T) {
	start, end := Pt(1, 0), Pt(3, 10)
	for _, tt := range []struct{ t, want float64 }{
		{1, 0},
		{1.5, 2.5},
		{2, 5},
		{3, 10},
	} {
		if got := (Linear{}).Eval(start, end, tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Eval(%g) = %g, want %g", tt.t, got, tt.want)
		}
	}
}

func TestHoldEval(t *testing.T) {
	start, end := Pt(0, 2), Pt(1, 7)
	for _, tt := range []struct{ t, want float64 }{
		{0, 2},
		{0.5, 2},
		{0.999, 2},
		{1, 7},
	} {
		if got := (Hold{}).Eval(start, end, tt.t); got != tt.want {
			t.Errorf("Eval(%g) = %g, want %g", tt.t, got, tt.want)
		}
	}

	var p BezPath
	p.MoveTo(start)
	Hold{}.AppendPath(&p, start, end)
	diff(t, BezPath{MoveTo(start), LineTo(Pt(1, 2)), LineTo(end)}, p)
}

func TestCubicClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Cubic
		span float64
		want Cubic
	}{
		{
			"inside",
			Cubic{Vec(1, 2), Vec(-1, -2)},
			3,
			Cubic{Vec(1, 2), Vec(-1, -2)},
		},
		{
			"overshoot keeps direction",
			Cubic{Vec(4, 2), Vec(-8, 4)},
			2,
			Cubic{Vec(2, 1), Vec(-2, 1)},
		},
		{
			"wrong direction",
			Cubic{Vec(-1, 3), Vec(1, -3)},
			2,
			Cubic{Vec(0, 3), Vec(0, -3)},
		},
		{
			"zero span",
			Cubic{Vec(1, 1), Vec(-1, 1)},
			0,
			Cubic{Vec(0, 0), Vec(0, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp(tt.span)
			diff(t, tt.want, got)
			if got.Anchor1.X < 0 || got.Anchor1.X > tt.span || got.Anchor2.X > 0 || got.Anchor2.X < -tt.span {
				t.Errorf("%v not within span %g", got, tt.span)
			}
		})
	}
}

func TestCubicEval(t *testing.T) {
	start, end := Pt(0, 0), Pt(3, 1)
	c := DefaultCubic(3)

	if got := c.Eval(start, end, 0); got != 0 {
		t.Errorf("Eval at start = %g, want 0", got)
	}
	if got := c.Eval(start, end, 3); math.Abs(got-1) > 1e-12 {
		t.Errorf("Eval at end = %g, want 1", got)
	}
	// symmetric ease in-out passes through the midpoint
	if got := c.Eval(start, end, 1.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Eval at middle = %g, want 0.5", got)
	}
	// and is monotonic
	prev := math.Inf(-1)
	for i := range 31 {
		v := c.Eval(start, end, float64(i)/10)
		if v < prev-1e-12 {
			t.Fatalf("value decreased at t=%g: %g < %g", float64(i)/10, v, prev)
		}
		prev = v
	}
}

func TestCubicHandles(t *testing.T) {
	c := Cubic{Vec(1, 1), Vec(-1, -1)}
	h1, h2 := c.Handles(Pt(0, 0), Pt(4, 2))
	diff(t, Pt(1, 1), h1)
	diff(t, Pt(3, 1), h2)

	b := c.Bounds(Pt(0, 0), Pt(4, 2))
	diff(t, Rect{0, 0, 4, 2}, b)
}

func TestNewEasing(t *testing.T) {
	for _, k := range []EasingKind{EasingLinear, EasingCubic, EasingHold} {
		e, err := NewEasing(k, 3)
		if err != nil {
			t.Fatal(err)
		}
		if e.Kind() != k {
			t.Errorf("NewEasing(%v) has kind %v", k, e.Kind())
		}
	}
	if _, err := NewEasing(0, 1); err == nil {
		t.Error("expected error for invalid kind")
	}
}
