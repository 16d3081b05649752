package automation

import (
	"cmp"
	"slices"
	"sort"
)

// Stroke collects the samples of a freehand edit, ordered by time.
//
// Each sample replaces the samples whose times lie between it and the
// previous sample, so scrubbing back over a stretch of time redraws it. The
// result holds at most one sample per time, the one added last.
//
// The zero value is an empty stroke.
type Stroke struct {
	points []Point
	last   Point
}

// NewStroke returns a stroke starting at p.
func NewStroke(p Point) *Stroke {
	s := &Stroke{}
	s.Add(p)
	return s
}

// Add merges p into the stroke. Samples with NaN coordinates are ignored.
func (s *Stroke) Add(p Point) {
	if p.IsNaN() {
		return
	}
	if len(s.points) == 0 {
		s.points = append(s.points, p)
		s.last = p
		return
	}

	lo, hi := min(p.X, s.last.X), max(p.X, s.last.X)
	last := s.last
	s.points = slices.DeleteFunc(s.points, func(q Point) bool {
		if q.X == p.X {
			return true
		}
		if q.X == last.X {
			// keep the stroke connected to where the pen was
			return false
		}
		return q.X >= lo && q.X <= hi
	})
	i := sort.Search(len(s.points), func(i int) bool { return s.points[i].X > p.X })
	s.points = slices.Insert(s.points, i, p)
	s.last = p
}

// Len returns the number of samples.
func (s *Stroke) Len() int { return len(s.points) }

// Points returns a copy of the samples in time order.
func (s *Stroke) Points() []Point {
	return slices.Clone(s.points)
}

// Last returns the most recently added sample.
func (s *Stroke) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.last, true
}

// Reset empties the stroke.
func (s *Stroke) Reset() {
	s.points = s.points[:0]
	s.last = Point{}
}

// SimplifyPoints reduces a polyline with the Ramer–Douglas–Peucker algorithm,
// dropping points that lie within tolerance of the line between the points
// kept around them. The end points are always kept. A tolerance ≤ 0 returns
// a copy of points.
//
// Distances are measured in the points' own units, so simplify in view space
// when time and value have different scales.
func SimplifyPoints(points []Point, tolerance float64) []Point {
	if tolerance <= 0 || len(points) < 3 {
		return slices.Clone(points)
	}
	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	tol2 := tolerance * tolerance
	type span struct{ lo, hi int }
	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if sp.hi-sp.lo < 2 {
			continue
		}
		l := Line{points[sp.lo], points[sp.hi]}
		worst, worstD := -1, tol2
		for i := sp.lo + 1; i < sp.hi; i++ {
			if d, _ := l.Nearest(points[i]); d > worstD {
				worst, worstD = i, d
			}
		}
		if worst < 0 {
			continue
		}
		keep[worst] = true
		stack = append(stack, span{sp.lo, worst}, span{worst, sp.hi})
	}

	out := make([]Point, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// AddFromPoints commits freehand samples as linear keys. The samples may be
// unordered. Times are clamped to the domain, and when several samples share
// a time the later one wins. After simplification with tolerance (see
// [SimplifyPoints]), every existing key inside the samples' time span is
// replaced by the samples.
//
// It returns the IDs of the new keys in time order.
func (a *Automation) AddFromPoints(points []Point, tolerance float64) ([]KeyID, error) {
	pts := make([]Point, 0, len(points))
	for _, p := range points {
		if p.IsNaN() {
			continue
		}
		pts = append(pts, Pt(min(max(p.X, 0), a.length), a.values.Clamp(p.Y)))
	}
	if len(pts) == 0 {
		return nil, nil
	}
	slices.SortStableFunc(pts, func(p, q Point) int { return cmp.Compare(p.X, q.X) })
	dedup := pts[:0]
	for _, p := range pts {
		if n := len(dedup); n > 0 && dedup[n-1].X == p.X {
			dedup[n-1] = p
			continue
		}
		dedup = append(dedup, p)
	}
	pts = SimplifyPoints(dedup, tolerance)

	t0, t1 := pts[0].X, pts[len(pts)-1].X
	a.keys = slices.DeleteFunc(a.keys, func(k Key) bool {
		return k.Time >= t0 && k.Time <= t1
	})
	ids := make([]KeyID, 0, len(pts))
	for _, p := range pts {
		id, err := a.InsertKeyWithEasing(p.X, p.Y, Linear{})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
