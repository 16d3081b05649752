package automation

import (
	"math"
)

// GridOptions controls [ValueGrid].
type GridOptions struct {
	// Minimum distance in view units between adjacent lines of the same
	// level.
	MinGap float64
	// Distance at which lines are fully opaque. Lines fade in between MinGap
	// and FadeGap.
	FadeGap float64
	// Number of decimal subdivisions per unit.
	Subdivisions int
}

// DefaultGridOptions are the gaps used by the curve editor.
var DefaultGridOptions = GridOptions{
	MinGap:       10,
	FadeGap:      30,
	Subdivisions: 10,
}

// GridLine is a horizontal value-axis line.
type GridLine struct {
	Value float64
	// Y is the line's position in view space.
	Y float64
	// Alpha is the line's opacity in [0, 1].
	Alpha float64
	// Major lines sit on unit steps, minor lines on decimal subdivisions.
	Major bool
}

// ValueGrid returns the value-axis grid lines visible in v.
//
// Unit lines are placed every 1, 2, 4, … units, doubling until they are at
// least MinGap apart. If whole units are further apart than MinGap, decimal
// lines are added every 1, 2.5, 5, 10, … subdivisions. Every other line of a
// level fades in as its spacing grows from MinGap to FadeGap.
func ValueGrid(v View, opts GridOptions) []GridLine {
	start, end := v.Window.ValueRange.Min, v.Window.ValueRange.Max
	height := v.Size.Height
	if !(end > start) || v.Size.IsEmpty() || !isFinite(end-start) {
		return nil
	}
	if opts.MinGap <= 0 {
		opts.MinGap = DefaultGridOptions.MinGap
	}
	if opts.FadeGap <= opts.MinGap {
		opts.FadeGap = opts.MinGap * 3
	}
	if opts.Subdivisions <= 0 {
		opts.Subdivisions = DefaultGridOptions.Subdivisions
	}
	subdivs := float64(opts.Subdivisions)
	unitPx := height / (end - start)
	if !(unitPx > 0) || math.IsInf(unitPx, 0) {
		return nil
	}

	decimalSteps := 1.0
	unitSteps := 1.0
	decimalGap := unitPx / subdivs
	unitGap := unitPx
	showDecimals := unitGap > opts.MinGap

	if showDecimals {
		for decimalGap < opts.MinGap {
			if decimalSteps == 1 {
				decimalSteps *= 2.5
			} else {
				decimalSteps *= 2
			}
			decimalGap = unitPx * decimalSteps / subdivs
		}
	}
	for unitGap < opts.MinGap {
		unitSteps *= 2
		unitGap = unitPx * unitSteps
	}

	unitStart := math.Floor(start/unitSteps) * unitSteps
	unitEnd := max(math.Ceil(end/unitSteps)*unitSteps, unitStart+1)

	unitFade := fadeAlpha(unitGap, opts.MinGap, opts.FadeGap)
	decimalFade := fadeAlpha(decimalGap, opts.MinGap, opts.FadeGap)

	inView := func(y float64) bool { return y >= 0 && y <= height }

	var out []GridLine
	for ui := 0; ; ui++ {
		u := unitStart + float64(ui)*unitSteps
		if u > unitEnd {
			break
		}
		if y := v.YForValue(u); inView(y) {
			alpha := 1.0
			if ui%2 == 0 {
				alpha = unitFade
			}
			out = append(out, GridLine{Value: u, Y: y, Alpha: alpha, Major: true})
		}

		if !showDecimals {
			continue
		}
		for si := 0; ; si++ {
			s := decimalSteps * float64(si+1)
			if s >= subdivs || u+s/subdivs > end {
				break
			}
			val := u + s/subdivs
			if y := v.YForValue(val); inView(y) {
				alpha := 1.0
				if si%2 == 0 {
					alpha = decimalFade
				}
				out = append(out, GridLine{Value: val, Y: y, Alpha: alpha})
			}
		}
	}
	return out
}

func fadeAlpha(gap, minGap, fadeGap float64) float64 {
	return min(max((gap-minGap)/(fadeGap-minGap), 0), 1)
}
