package automation

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"sort"
)

// KeyID identifies a key for the lifetime of an [Automation]. IDs are never
// reused, so they remain valid while other keys are inserted or removed.
type KeyID uint64

// Key is one control point of a curve.
type Key struct {
	ID    KeyID
	Time  float64
	Value float64
	// Easing of the segment from this key to the next one. It is unused
	// for the last key.
	Easing Easing
}

// Point returns the key's position in curve space.
func (k Key) Point() Point {
	return Pt(k.Time, k.Value)
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// Span returns Max − Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Clamp clamps v into the range.
func (r Range) Clamp(v float64) float64 {
	return min(max(v, r.Min), r.Max)
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Valid reports whether the range is finite and non-empty.
func (r Range) Valid() bool {
	return isFinite(r.Min) && isFinite(r.Max) && r.Min < r.Max
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Handle selects one of the two tangent handles of a cubic segment.
type Handle int

const (
	// FirstHandle is Anchor1, attached to the segment's start key.
	FirstHandle Handle = iota
	// LastHandle is Anchor2, attached to the segment's end key.
	LastHandle
)

func (h Handle) String() string {
	switch h {
	case FirstHandle:
		return "first"
	case LastHandle:
		return "last"
	default:
		return fmt.Sprintf("Handle(%d)", int(h))
	}
}

// Automation is a time-value curve: keys in strictly increasing time order
// over the domain [0, Length], with values clamped to a range.
//
// An Automation is not safe for concurrent use; [Editor] adds locking and
// change notification on top of it.
type Automation struct {
	length float64
	values Range
	keys   []Key
	nextID KeyID
	// easing given to keys inserted without one
	defaultEasing EasingKind
}

// New returns an empty curve over [0, length] whose values are clamped to
// values.
func New(length float64, values Range) (*Automation, error) {
	if !isFinite(length) || length <= 0 {
		return nil, fmt.Errorf("length %g: %w", length, ErrInvalidRange)
	}
	if !values.Valid() {
		return nil, fmt.Errorf("value range [%g, %g]: %w", values.Min, values.Max, ErrInvalidRange)
	}
	return &Automation{
		length:        length,
		values:        values,
		nextID:        1,
		defaultEasing: EasingLinear,
	}, nil
}

// Length returns the end of the curve's time domain.
func (a *Automation) Length() float64 { return a.length }

// Range returns the curve's value range.
func (a *Automation) Range() Range { return a.values }

// DefaultEasing returns the easing kind given to keys inserted with
// [Automation.InsertKey].
func (a *Automation) DefaultEasing() EasingKind { return a.defaultEasing }

// SetDefaultEasing sets the easing kind given to new keys.
func (a *Automation) SetDefaultEasing(kind EasingKind) error {
	if _, err := NewEasing(kind, 0); err != nil {
		return err
	}
	a.defaultEasing = kind
	return nil
}

// Len returns the number of keys.
func (a *Automation) Len() int { return len(a.keys) }

// Key returns the i-th key in time order.
func (a *Automation) Key(i int) Key { return a.keys[i] }

// Keys returns an iterator over the keys in time order.
func (a *Automation) Keys() iter.Seq2[int, Key] {
	return func(yield func(int, Key) bool) {
		for i, k := range a.keys {
			if !yield(i, k) {
				return
			}
		}
	}
}

// Index returns the position of the key with the given ID.
func (a *Automation) Index(id KeyID) (int, bool) {
	for i, k := range a.keys {
		if k.ID == id {
			return i, true
		}
	}
	return -1, false
}

// KeyByID returns the key with the given ID.
func (a *Automation) KeyByID(id KeyID) (Key, bool) {
	i, ok := a.Index(id)
	if !ok {
		return Key{}, false
	}
	return a.keys[i], true
}

func (a *Automation) index(id KeyID) (int, error) {
	i, ok := a.Index(id)
	if !ok {
		return -1, fmt.Errorf("key %d: %w", id, ErrKeyNotFound)
	}
	return i, nil
}

// span returns the time span of the segment starting at key i, or 0 for the
// last key.
func (a *Automation) span(i int) float64 {
	if i+1 >= len(a.keys) {
		return 0
	}
	return a.keys[i+1].Time - a.keys[i].Time
}

// fitEasing clamps the cubic anchors of segment i to its current span. A
// zero Cubic gets the default shape.
func (a *Automation) fitEasing(i int) {
	if i < 0 || i+1 >= len(a.keys) {
		return
	}
	if c, ok := a.keys[i].Easing.(Cubic); ok {
		if c == (Cubic{}) {
			a.keys[i].Easing = DefaultCubic(a.span(i))
			return
		}
		a.keys[i].Easing = c.Clamp(a.span(i))
	}
}

func (a *Automation) checkTime(t float64) error {
	if !isFinite(t) || t < 0 || t > a.length {
		return fmt.Errorf("time %g outside [0, %g]: %w", t, a.length, ErrTimeOutOfRange)
	}
	return nil
}

// InsertKey inserts a key with the default easing at time t and returns its
// ID. Keys are re-sorted by the insertion; the value is clamped to the
// curve's range.
func (a *Automation) InsertKey(t, value float64) (KeyID, error) {
	e, err := NewEasing(a.defaultEasing, 0)
	if err != nil {
		return 0, err
	}
	return a.InsertKeyWithEasing(t, value, e)
}

// InsertKeyWithEasing is like [Automation.InsertKey] but sets the new key's
// easing. A zero [Cubic] takes the default shape as soon as the key's segment
// has an end key.
func (a *Automation) InsertKeyWithEasing(t, value float64, e Easing) (KeyID, error) {
	if err := a.checkTime(t); err != nil {
		return 0, err
	}
	if math.IsNaN(value) {
		return 0, fmt.Errorf("value is NaN: %w", ErrInvalidRange)
	}
	if e == nil {
		e = Linear{}
	}
	i := sort.Search(len(a.keys), func(i int) bool { return a.keys[i].Time >= t })
	if i < len(a.keys) && a.keys[i].Time == t {
		return 0, fmt.Errorf("time %g: %w", t, ErrDuplicateTime)
	}
	k := Key{
		ID:     a.nextID,
		Time:   t,
		Value:  a.values.Clamp(value),
		Easing: e,
	}
	a.nextID++
	a.keys = slices.Insert(a.keys, i, k)
	a.fitEasing(i - 1)
	a.fitEasing(i)
	return k.ID, nil
}

// TimeBounds returns the open interval (lo, hi) a key's time must stay in.
// lo is the previous key's time, or -Inf for the first key. hi is the next
// key's time, or +Inf for the last key. The domain [0, Length] applies in
// addition.
func (a *Automation) TimeBounds(id KeyID) (lo, hi float64, err error) {
	i, err := a.index(id)
	if err != nil {
		return 0, 0, err
	}
	lo, hi = math.Inf(-1), math.Inf(1)
	if i > 0 {
		lo = a.keys[i-1].Time
	}
	if i+1 < len(a.keys) {
		hi = a.keys[i+1].Time
	}
	return lo, hi, nil
}

// ClampTime clamps t so that it is a valid time for the key: inside the
// domain and strictly between the neighbouring keys. Times at or past a
// neighbour are moved to the nearest representable time inside the interval,
// never onto the neighbour's time itself.
func (a *Automation) ClampTime(id KeyID, t float64) (float64, error) {
	lo, hi, err := a.TimeBounds(id)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(t) {
		return 0, fmt.Errorf("time is NaN: %w", ErrTimeOutOfRange)
	}
	t = min(max(t, 0), a.length)
	if t <= lo {
		t = math.Nextafter(lo, math.Inf(1))
	}
	if t >= hi {
		t = math.Nextafter(hi, math.Inf(-1))
	}
	return t, nil
}

// MoveKey moves a key to (t, value). t must lie in the key's open neighbour
// interval (see [Automation.TimeBounds]) and in the domain. Times outside it,
// including the neighbours' exact times, are rejected with [ErrKeyOrder] or
// [ErrTimeOutOfRange] and leave the key unchanged. The value is clamped to the
// curve's range.
func (a *Automation) MoveKey(id KeyID, t, value float64) error {
	i, err := a.index(id)
	if err != nil {
		return err
	}
	if err := a.checkTime(t); err != nil {
		return err
	}
	if math.IsNaN(value) {
		return fmt.Errorf("value is NaN: %w", ErrInvalidRange)
	}
	if i > 0 && t <= a.keys[i-1].Time {
		return fmt.Errorf("key %d to %g, previous key at %g: %w", id, t, a.keys[i-1].Time, ErrKeyOrder)
	}
	if i+1 < len(a.keys) && t >= a.keys[i+1].Time {
		return fmt.Errorf("key %d to %g, next key at %g: %w", id, t, a.keys[i+1].Time, ErrKeyOrder)
	}
	a.keys[i].Time = t
	a.keys[i].Value = a.values.Clamp(value)
	a.fitEasing(i - 1)
	a.fitEasing(i)
	return nil
}

// DeleteKey removes a key.
func (a *Automation) DeleteKey(id KeyID) error {
	i, err := a.index(id)
	if err != nil {
		return err
	}
	a.keys = slices.Delete(a.keys, i, i+1)
	a.fitEasing(i - 1)
	return nil
}

// SetEasing replaces the easing of the segment starting at the key. A zero
// [Cubic] is replaced by [DefaultCubic] for the segment's span.
func (a *Automation) SetEasing(id KeyID, e Easing) error {
	i, err := a.index(id)
	if err != nil {
		return err
	}
	if e == nil {
		e = Linear{}
	}
	a.keys[i].Easing = e
	a.fitEasing(i)
	return nil
}

// SetTangent sets one tangent handle of the cubic segment starting at the
// key. offset is relative to the handle's key and is clamped like
// [Cubic.Clamp].
//
// With sync set, the handle on the other side of the shared key is set to the
// negated offset, if the segment there is cubic too, so the curve passes
// through the key smoothly. Setting FirstHandle mirrors onto the previous
// segment's Anchor2. Setting LastHandle mirrors onto the next segment's
// Anchor1, if that segment has an end key.
//
// It returns the IDs of the keys whose easing changed.
func (a *Automation) SetTangent(id KeyID, h Handle, offset Vec2, sync bool) ([]KeyID, error) {
	i, err := a.index(id)
	if err != nil {
		return nil, err
	}
	if i+1 >= len(a.keys) {
		return nil, fmt.Errorf("key %d: %w", id, ErrNoSegment)
	}
	c, ok := a.keys[i].Easing.(Cubic)
	if !ok {
		return nil, fmt.Errorf("key %d has %s easing: %w", id, a.keys[i].Easing.Kind(), ErrNotCubic)
	}
	changed := []KeyID{id}
	switch h {
	case FirstHandle:
		c.Anchor1 = offset
		c = c.Clamp(a.span(i))
		a.keys[i].Easing = c
		if sync && i > 0 {
			if pc, ok := a.keys[i-1].Easing.(Cubic); ok {
				pc.Anchor2 = c.Anchor1.Negate()
				a.keys[i-1].Easing = pc.Clamp(a.span(i - 1))
				changed = append(changed, a.keys[i-1].ID)
			}
		}
	case LastHandle:
		c.Anchor2 = offset
		c = c.Clamp(a.span(i))
		a.keys[i].Easing = c
		if sync && i+2 < len(a.keys) {
			if nc, ok := a.keys[i+1].Easing.(Cubic); ok {
				nc.Anchor1 = c.Anchor2.Negate()
				a.keys[i+1].Easing = nc.Clamp(a.span(i + 1))
				changed = append(changed, a.keys[i+1].ID)
			}
		}
	default:
		return nil, fmt.Errorf("invalid handle %d", int(h))
	}
	return changed, nil
}

// SetLength changes the end of the time domain. Keys after the new length
// are removed.
func (a *Automation) SetLength(length float64) error {
	if !isFinite(length) || length <= 0 {
		return fmt.Errorf("length %g: %w", length, ErrInvalidRange)
	}
	a.length = length
	n := sort.Search(len(a.keys), func(i int) bool { return a.keys[i].Time > length })
	a.keys = a.keys[:n]
	return nil
}

// SetRange changes the value range and clamps all key values into it.
func (a *Automation) SetRange(r Range) error {
	if !r.Valid() {
		return fmt.Errorf("value range [%g, %g]: %w", r.Min, r.Max, ErrInvalidRange)
	}
	a.values = r
	for i := range a.keys {
		a.keys[i].Value = r.Clamp(a.keys[i].Value)
	}
	return nil
}

// Clear removes all keys.
func (a *Automation) Clear() {
	a.keys = nil
}

// KeyIndexAt returns the index of the last key whose time is at most t, or -1
// if t precedes all keys.
func (a *Automation) KeyIndexAt(t float64) int {
	return sort.Search(len(a.keys), func(i int) bool { return a.keys[i].Time > t }) - 1
}

// ValueAt evaluates the curve at time t. Before the first key the curve holds
// the first key's value, after the last key the last key's value. An empty
// curve evaluates to 0, clamped to the range.
func (a *Automation) ValueAt(t float64) float64 {
	n := len(a.keys)
	if n == 0 {
		return a.values.Clamp(0)
	}
	if t <= a.keys[0].Time {
		return a.keys[0].Value
	}
	if t >= a.keys[n-1].Time {
		return a.keys[n-1].Value
	}
	i := a.KeyIndexAt(t)
	k, next := a.keys[i], a.keys[i+1]
	return a.values.Clamp(k.Easing.Eval(k.Point(), next.Point(), t))
}

// VisibleRange returns the indices of the first and last keys that are
// active for interaction in the time window [t0, t1]: the keys inside the
// window plus their immediate neighbours on both sides. last < first when the
// curve has no keys.
func (a *Automation) VisibleRange(t0, t1 float64) (first, last int) {
	n := len(a.keys)
	if n == 0 {
		return 0, -1
	}
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	first = max(a.KeyIndexAt(t0), 0)
	last = min(max(a.KeyIndexAt(t1)+1, first), n-1)
	return first, last
}

// Segment returns the start and end keys and the easing of segment i, which
// runs from key i to key i+1.
func (a *Automation) Segment(i int) (start, end Point, e Easing) {
	return a.keys[i].Point(), a.keys[i+1].Point(), a.keys[i].Easing
}

// Path returns the curve from its first to its last key as path elements in
// curve space. It is empty for a curve without keys.
func (a *Automation) Path() BezPath {
	if len(a.keys) == 0 {
		return nil
	}
	var p BezPath
	p.MoveTo(a.keys[0].Point())
	for i := 0; i+1 < len(a.keys); i++ {
		start, end, e := a.Segment(i)
		e.AppendPath(&p, start, end)
	}
	return p
}

// BoundingBox returns the region of curve space covered by the keys and
// their segments, including tangent handles.
func (a *Automation) BoundingBox() Rect {
	if len(a.keys) == 0 {
		return Rect{}
	}
	r := NewRectFromPoints(a.keys[0].Point(), a.keys[0].Point())
	for i := 0; i+1 < len(a.keys); i++ {
		start, end, e := a.Segment(i)
		r = r.Union(e.Bounds(start, end))
	}
	return r
}

// Clone returns a deep copy of the curve. IDs are preserved.
func (a *Automation) Clone() *Automation {
	b := *a
	b.keys = slices.Clone(a.keys)
	return &b
}
