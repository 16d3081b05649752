// Package render draws previews of automation curves as PNG images and SVG
// documents.
package render

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"honnef.co/go/automation"
	"honnef.co/go/automation/internal/config"
)

// ViewFor returns the view a preview of a uses: the configured window, or
// the whole curve if none is set.
func ViewFor(a *automation.Automation, cfg config.RenderConfig) automation.View {
	w := automation.WindowFor(a)
	if cw := cfg.Window; cw != nil {
		w = automation.ViewWindow{
			TimeRange:  automation.Range{Min: cw.Time[0], Max: cw.Time[1]},
			ValueRange: automation.Range{Min: cw.Value[0], Max: cw.Value[1]},
		}
	}
	return automation.View{
		Window: w,
		Size:   automation.Sz(float64(cfg.Width), float64(cfg.Height)),
	}
}

func gridOptions(cfg config.GridConfig) automation.GridOptions {
	return automation.GridOptions{
		MinGap:       cfg.MinGap,
		FadeGap:      cfg.FadeGap,
		Subdivisions: cfg.Subdivisions,
	}
}

// leadLines returns the horizontal lines that continue the first key's value
// to the left edge and the last key's value to the right edge, in view space.
func leadLines(a *automation.Automation, v automation.View) []automation.Line {
	if a.Len() == 0 {
		return nil
	}
	first := v.ToView(a.Key(0).Point())
	last := v.ToView(a.Key(a.Len() - 1).Point())
	var out []automation.Line
	if first.X > 0 {
		out = append(out, automation.Line{P0: automation.Pt(0, first.Y), P1: first})
	}
	if last.X < v.Size.Width {
		out = append(out, automation.Line{P0: last, P1: automation.Pt(v.Size.Width, last.Y)})
	}
	return out
}

// PNG renders a preview of a in view v and writes it to w as a PNG image.
func PNG(w io.Writer, a *automation.Automation, v automation.View, cfg config.RenderConfig) error {
	if err := v.Validate(); err != nil {
		return err
	}
	dc := gg.NewContext(int(v.Size.Width), int(v.Size.Height))
	defer dc.Close()

	dc.ClearWithColor(gg.Hex(cfg.Colors.Background))

	if cfg.Grid.Enabled {
		grid := gg.Hex(cfg.Colors.Grid)
		dc.SetLineWidth(1)
		for _, l := range automation.ValueGrid(v, gridOptions(cfg.Grid)) {
			if l.Alpha <= 0 {
				continue
			}
			dc.SetRGBA(grid.R, grid.G, grid.B, grid.A*l.Alpha)
			dc.DrawLine(0, l.Y, v.Size.Width, l.Y)
			if err := dc.Stroke(); err != nil {
				return fmt.Errorf("drawing grid: %w", err)
			}
		}
	}

	dc.SetHexColor(cfg.Colors.LeadLine)
	dc.SetLineWidth(1)
	dc.SetDash(5, 5)
	for _, l := range leadLines(a, v) {
		dc.DrawLine(l.P0.X, l.P0.Y, l.P1.X, l.P1.Y)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("drawing lead lines: %w", err)
		}
	}
	dc.ClearDash()

	path := a.Path().Transform(v.Affine())
	if len(path) > 0 {
		for el := range path.Elements() {
			switch el.Kind {
			case automation.MoveToKind:
				dc.MoveTo(el.P0.X, el.P0.Y)
			case automation.LineToKind:
				dc.LineTo(el.P0.X, el.P0.Y)
			case automation.CubicToKind:
				dc.CubicTo(el.P0.X, el.P0.Y, el.P1.X, el.P1.Y, el.P2.X, el.P2.Y)
			}
		}
		dc.SetHexColor(cfg.Colors.Curve)
		dc.SetLineWidth(cfg.LineWidth)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("drawing curve: %w", err)
		}
	}

	if cfg.KeyRadius > 0 {
		dc.SetHexColor(cfg.Colors.Key)
		for _, k := range a.Keys() {
			p := v.ToView(k.Point())
			dc.DrawCircle(p.X, p.Y, cfg.KeyRadius)
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("drawing key %d: %w", k.ID, err)
			}
		}
	}

	return dc.EncodePNG(w)
}

// SVG writes a preview of a in view v as a standalone SVG document.
func SVG(w io.Writer, a *automation.Automation, v automation.View, cfg config.RenderConfig) error {
	if err := v.Validate(); err != nil {
		return err
	}
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	width, height := v.Size.Splat()
	printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		width, height, width, height)
	printf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", svgColor(cfg.Colors.Background))

	if cfg.Grid.Enabled {
		for _, l := range automation.ValueGrid(v, gridOptions(cfg.Grid)) {
			if l.Alpha <= 0 {
				continue
			}
			printf(`<line x1="0" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-opacity="%.3g"/>`+"\n",
				l.Y, width, l.Y, svgColor(cfg.Colors.Grid), l.Alpha)
		}
	}

	for _, l := range leadLines(a, v) {
		printf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-dasharray="5 5"/>`+"\n",
			l.P0.X, l.P0.Y, l.P1.X, l.P1.Y, svgColor(cfg.Colors.LeadLine))
	}

	if path := a.Path().Transform(v.Affine()); len(path) > 0 {
		printf(`<path fill="none" stroke="%s" stroke-width="%g" d="`, svgColor(cfg.Colors.Curve), cfg.LineWidth)
		if err == nil {
			err = automation.WriteSVG(w, path.Elements(), automation.SVGOptions{MaxPrecision: 3})
		}
		printf("\"/>\n")
	}

	if cfg.KeyRadius > 0 {
		for _, k := range a.Keys() {
			p := v.ToView(k.Point())
			printf(`<circle cx="%g" cy="%g" r="%g" fill="%s"/>`+"\n", p.X, p.Y, cfg.KeyRadius, svgColor(cfg.Colors.Key))
		}
	}

	printf("</svg>\n")
	return err
}

// svgColor normalizes a config colour to the #-prefixed form SVG expects.
func svgColor(hex string) string {
	if hex != "" && hex[0] != '#' {
		return "#" + hex
	}
	return hex
}
