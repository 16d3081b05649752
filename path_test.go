package automation

import (
	"bytes"
	"testing"
)

func TestSVGSingle(t *testing.T) {
	c := CubicBez{
		Pt(10.0, 10.0),
		Pt(20.0, 20.0),
		Pt(30.0, 30.0),
		Pt(40.0, 40.0),
	}
	want := "M10,10 C20,20 30,30 40,40"
	got := SVG(c.PathElements(), SVGOptions{})
	diff(t, want, got)
}

func TestSVGTwoMove(t *testing.T) {
	var p BezPath
	p.MoveTo(Pt(10, 10))
	p.CubicTo(Pt(20, 20), Pt(30, 30), Pt(40, 40))
	p.MoveTo(Pt(50, 50))
	p.LineTo(Pt(10, 10))
	want := "M10,10 C20,20 30,30 40,40 M50,50 L10,10"
	got := SVG(p.Elements(), SVGOptions{})
	diff(t, want, got)
}

func TestSVGPrecision(t *testing.T) {
	var p BezPath
	p.MoveTo(Pt(1.0/3.0, 2))
	p.LineTo(Pt(0.5, 2.0/3.0))
	var buf bytes.Buffer
	if err := WriteSVG(&buf, p.Elements(), SVGOptions{MaxPrecision: 3}); err != nil {
		t.Fatal(err)
	}
	diff(t, "M0.333,2 L0.5,0.667", buf.String())
}

func TestBezPathTransform(t *testing.T) {
	var p BezPath
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(1, 1))
	p.CubicTo(Pt(1, 2), Pt(2, 2), Pt(3, 1))

	got := p.Transform(Scale(2, -1))
	want := BezPath{
		MoveTo(Pt(0, 0)),
		LineTo(Pt(2, -1)),
		CubicTo(Pt(2, -2), Pt(4, -2), Pt(6, -1)),
	}
	diff(t, want, got)
	diff(t, Rect{0, -2, 6, 0}, got.ControlBox())
	if len(p) != 3 || p[1].EndPoint() != Pt(1, 1) {
		t.Error("Transform modified the original path")
	}
}
