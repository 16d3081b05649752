package automation

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func testView() View {
	return View{
		Window: ViewWindow{
			TimeRange:  Range{0, 10},
			ValueRange: Range{-1, 1},
		},
		Size: Sz(100, 50),
	}
}

func TestViewMapping(t *testing.T) {
	const epsilon = 1e-9
	v := testView()

	assertNear(t, v.ToView(Pt(0, 1)), Pt(0, 0), epsilon)
	assertNear(t, v.ToView(Pt(10, -1)), Pt(100, 50), epsilon)
	assertNear(t, v.ToView(Pt(5, 0)), Pt(50, 25), epsilon)
	// larger values are higher up
	if v.YForValue(0.5) >= v.YForValue(0) {
		t.Error("value axis is not flipped")
	}

	if got := v.TimeForX(25); math.Abs(got-2.5) > epsilon {
		t.Errorf("TimeForX(25) = %g, want 2.5", got)
	}
	if got := v.XForTime(2.5); math.Abs(got-25) > epsilon {
		t.Errorf("XForTime(2.5) = %g, want 25", got)
	}
	if got := v.ValueForY(12.5); math.Abs(got-0.5) > epsilon {
		t.Errorf("ValueForY(12.5) = %g, want 0.5", got)
	}

	approx := cmpopts.EquateApprox(0, epsilon)
	diff(t, Vec(10, -25), v.ToViewDelta(Vec(1, 1)), approx)
	d := v.ToCurveDelta(Vec(10, -25))
	if math.Abs(d.X-1) > epsilon || math.Abs(d.Y-1) > epsilon {
		t.Errorf("ToCurveDelta = %s, want (1, 1)", d)
	}

	r := v.ToViewRect(Rect{0, 0, 5, 1})
	diff(t, Rect{0, 0, 50, 25}, r, approx)
	r = v.ToCurveRect(Rect{0, 0, 50, 25})
	diff(t, Rect{0, 0, 5, 1}, r, approx)
}

func TestViewRoundTrip(t *testing.T) {
	views := []View{
		testView(),
		{ViewWindow{Range{3.5, 3.75}, Range{100, 20000}}, Sz(1920, 300)},
		{ViewWindow{Range{-1e3, 1e6}, Range{-0.001, 0.001}}, Sz(7, 13)},
	}
	for _, v := range views {
		w := v.Window
		for i := range 11 {
			for j := range 11 {
				p := Pt(
					w.TimeRange.Min+w.TimeRange.Span()*float64(i)/10,
					w.ValueRange.Min+w.ValueRange.Span()*float64(j)/10,
				)
				got := v.ToCurve(v.ToView(p))
				if math.Abs(got.X-p.X) > 1e-9*max(1, math.Abs(p.X)) || math.Abs(got.Y-p.Y) > 1e-9*max(1, math.Abs(p.Y)) {
					t.Errorf("%v: round trip of %s gave %s", v, p, got)
				}
			}
		}
	}
}

func TestViewValidate(t *testing.T) {
	if err := testView().Validate(); err != nil {
		t.Error(err)
	}
	v := testView()
	v.Size = Sz(0, 10)
	if err := v.Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
	v = testView()
	v.Window.ValueRange = Range{1, 1}
	if err := v.Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
}

func TestViewPanValue(t *testing.T) {
	v := testView().PanValue(25)
	diff(t, Range{0, 2}, v.Window.ValueRange)
	v = testView().PanValue(-50)
	diff(t, Range{-3, -1}, v.Window.ValueRange)
	// time is unaffected
	diff(t, Range{0, 10}, v.Window.TimeRange)

	v = testView().PanTime(50)
	diff(t, Range{-5, 5}, v.Window.TimeRange)
}

func TestViewZoomValue(t *testing.T) {
	tests := []struct {
		anchorY float64
		want    Range
	}{
		{50, Range{-1, 3}},
		{0, Range{-3, 1}},
		{25, Range{-2, 2}},
	}
	for _, tt := range tests {
		before := testView()
		anchor := before.ValueForY(tt.anchorY)
		v, ok := before.ZoomValue(tt.anchorY, 2)
		if !ok {
			t.Fatalf("zoom around %g rejected", tt.anchorY)
		}
		diff(t, tt.want, v.Window.ValueRange)
		if got := v.ValueForY(tt.anchorY); math.Abs(got-anchor) > 1e-9 {
			t.Errorf("value under anchor moved from %g to %g", anchor, got)
		}
	}

	v, ok := testView().ZoomValue(25, -1.5)
	if !ok {
		t.Fatal("zoom in rejected")
	}
	if s := v.Window.ValueRange.Span(); math.Abs(s-0.5) > 1e-12 {
		t.Errorf("got span %g, want 0.5", s)
	}

	for _, amount := range []float64{-1.9, -2, -5, math.NaN()} {
		v, ok := testView().ZoomValue(25, amount)
		if ok {
			t.Errorf("zoom by %g accepted", amount)
		}
		diff(t, testView(), v)
	}
}
