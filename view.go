package automation

import (
	"fmt"
)

// MinValueSpan is the smallest value span [View.ZoomValue] zooms to.
const MinValueSpan = 0.2

// ViewWindow is the visible sub-range of curve space. It is presentational
// state and is not persisted with the curve.
type ViewWindow struct {
	TimeRange  Range
	ValueRange Range
}

// WindowFor returns a window showing the whole domain and value range of a.
func WindowFor(a *Automation) ViewWindow {
	return ViewWindow{
		TimeRange:  Range{0, a.Length()},
		ValueRange: a.Range(),
	}
}

// Rect returns the window as a rectangle in curve space.
func (w ViewWindow) Rect() Rect {
	return Rect{
		X0: w.TimeRange.Min,
		Y0: w.ValueRange.Min,
		X1: w.TimeRange.Max,
		Y1: w.ValueRange.Max,
	}
}

// Contains reports whether the curve-space point lies inside the window.
func (w ViewWindow) Contains(p Point) bool {
	return w.TimeRange.Contains(p.X) && w.ValueRange.Contains(p.Y)
}

// Valid reports whether both ranges are finite and non-empty.
func (w ViewWindow) Valid() bool {
	return w.TimeRange.Valid() && w.ValueRange.Valid()
}

// View maps curve space onto a viewport of Size, with the window's time
// range spanning the width and its value range the height. View space has its
// origin at the top left and Y pointing down, so larger values map to
// smaller Y.
//
// All conversions go through a single [Affine], so rendering (ToView) and
// hit-testing (ToCurve) never diverge.
type View struct {
	Window ViewWindow
	Size   Size
}

// Validate reports whether the view describes a usable mapping.
func (v View) Validate() error {
	if !v.Window.Valid() {
		return fmt.Errorf("view window %+v: %w", v.Window, ErrInvalidRange)
	}
	if v.Size.IsEmpty() {
		return fmt.Errorf("view size %s: %w", v.Size, ErrInvalidRange)
	}
	return nil
}

// Affine returns the transform from curve space to view space.
func (v View) Affine() Affine {
	dst := Rect{X0: 0, Y0: v.Size.Height, X1: v.Size.Width, Y1: 0}
	return MapRect(v.Window.Rect(), dst)
}

// ToView maps a curve-space point (time, value) to view space.
func (v View) ToView(p Point) Point {
	return p.Transform(v.Affine())
}

// ToCurve maps a view-space point to curve space. It is the inverse of
// [View.ToView].
func (v View) ToCurve(p Point) Point {
	return p.Transform(v.Affine().Invert())
}

// ToViewDelta maps a curve-space displacement to view space.
func (v View) ToViewDelta(d Vec2) Vec2 {
	return d.Transform(v.Affine())
}

// ToCurveDelta maps a view-space displacement, such as a drag distance, to
// curve space.
func (v View) ToCurveDelta(d Vec2) Vec2 {
	return d.Transform(v.Affine().Invert())
}

// ToViewRect maps a curve-space rectangle to view space. The result has
// non-negative width and height.
func (v View) ToViewRect(r Rect) Rect {
	return v.Affine().TransformRectBoundingBox(r)
}

// ToCurveRect maps a view-space rectangle to curve space. The result has
// non-negative width and height.
func (v View) ToCurveRect(r Rect) Rect {
	return v.Affine().Invert().TransformRectBoundingBox(r)
}

// TimeForX returns the time at view x.
func (v View) TimeForX(x float64) float64 {
	return v.ToCurve(Pt(x, 0)).X
}

// XForTime returns the view x of time t.
func (v View) XForTime(t float64) float64 {
	return v.ToView(Pt(t, 0)).X
}

// ValueForY returns the value at view y.
func (v View) ValueForY(y float64) float64 {
	return v.ToCurve(Pt(0, y)).Y
}

// YForValue returns the view y of value val.
func (v View) YForValue(val float64) float64 {
	return v.ToView(Pt(0, val)).Y
}

// PanValue shifts the value range by a vertical drag of dy view units.
// Dragging down (positive dy) moves the range up, bringing larger values
// into view from the top.
func (v View) PanValue(dy float64) View {
	shift := dy / v.Size.Height * v.Window.ValueRange.Span()
	v.Window.ValueRange.Min += shift
	v.Window.ValueRange.Max += shift
	return v
}

// ZoomValue grows the value span by amount (negative shrinks it), keeping the
// value at view y anchorY in place. It reports false and leaves the view
// unchanged if the resulting span would not exceed [MinValueSpan].
func (v View) ZoomValue(anchorY, amount float64) (View, bool) {
	r := v.Window.ValueRange
	span := r.Span() + amount
	if !(span > MinValueSpan) || !isFinite(span) {
		return v, false
	}
	rel := 1 - anchorY/v.Size.Height
	diff := span - r.Span()
	v.Window.ValueRange = Range{
		Min: r.Min - diff*rel,
		Max: r.Max + diff*(1-rel),
	}
	return v, true
}

// PanTime shifts the time range by a horizontal drag of dx view units.
// Dragging right moves the window towards earlier times.
func (v View) PanTime(dx float64) View {
	shift := -dx / v.Size.Width * v.Window.TimeRange.Span()
	v.Window.TimeRange.Min += shift
	v.Window.TimeRange.Max += shift
	return v
}
