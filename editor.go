package automation

import (
	"fmt"
	"slices"
	"sync"
)

// EventKind classifies an [Event].
type EventKind int

const (
	KeyAdded EventKind = iota + 1
	KeyUpdated
	KeyRemoved
	SelectionChanged
	ViewChanged
	// CurveReplaced is sent when the curve as a whole changed: after undo and
	// redo, and after changes to its length or value range.
	CurveReplaced
)

func (k EventKind) String() string {
	switch k {
	case KeyAdded:
		return "key added"
	case KeyUpdated:
		return "key updated"
	case KeyRemoved:
		return "key removed"
	case SelectionChanged:
		return "selection changed"
	case ViewChanged:
		return "view changed"
	case CurveReplaced:
		return "curve replaced"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes a change made through an [Editor]. Key is set for the
// key events and zero otherwise.
type Event struct {
	Kind EventKind
	Key  KeyID
}

// Snapshot is a copy of a curve's state.
type Snapshot struct {
	Length float64
	Range  Range
	Keys   []Key
}

// Command is an edit that [Editor.Do] applies to the curve. The commands are
// the types in this package implementing it.
type Command interface {
	apply(a *Automation) error
}

type (
	// InsertKey inserts a key. A nil Easing uses the curve's default easing.
	InsertKey struct {
		Time, Value float64
		Easing      Easing
	}
	MoveKey struct {
		ID          KeyID
		Time, Value float64
	}
	DeleteKey struct {
		ID KeyID
	}
	SetEasing struct {
		ID     KeyID
		Easing Easing
	}
	SetTangent struct {
		ID     KeyID
		Handle Handle
		Offset Vec2
		Sync   bool
	}
	SetLength struct {
		Length float64
	}
	SetRange struct {
		Range Range
	}
	// CommitPoints writes freehand samples into the curve, see
	// [Automation.AddFromPoints].
	CommitPoints struct {
		Points    []Point
		Tolerance float64
	}
	ClearKeys struct{}
)

func (c InsertKey) apply(a *Automation) error {
	var err error
	if c.Easing == nil {
		_, err = a.InsertKey(c.Time, c.Value)
	} else {
		_, err = a.InsertKeyWithEasing(c.Time, c.Value, c.Easing)
	}
	return err
}

func (c MoveKey) apply(a *Automation) error   { return a.MoveKey(c.ID, c.Time, c.Value) }
func (c DeleteKey) apply(a *Automation) error { return a.DeleteKey(c.ID) }
func (c SetEasing) apply(a *Automation) error { return a.SetEasing(c.ID, c.Easing) }
func (c SetLength) apply(a *Automation) error { return a.SetLength(c.Length) }
func (c SetRange) apply(a *Automation) error  { return a.SetRange(c.Range) }
func (ClearKeys) apply(a *Automation) error   { a.Clear(); return nil }

func (c SetTangent) apply(a *Automation) error {
	_, err := a.SetTangent(c.ID, c.Handle, c.Offset, c.Sync)
	return err
}

func (c CommitPoints) apply(a *Automation) error {
	_, err := a.AddFromPoints(c.Points, c.Tolerance)
	return err
}

// DefaultHistoryLimit is the number of undo steps an [Editor] keeps.
const DefaultHistoryLimit = 100

// dragState identifies the drag in progress, so that consecutive updates of
// one drag share a single undo step.
type dragState struct {
	id      KeyID
	handle  Handle
	tangent bool
}

// Editor is the interface between a curve and a front end. It owns the
// curve, the selection and the view, takes input in view coordinates and
// reports every change as [Event]s to its subscribers.
//
// An Editor is safe for concurrent use. Subscribers are called after the
// editor's lock has been released, so they may call back into the editor.
type Editor struct {
	mu    sync.Mutex
	curve *Automation
	sel   Selection
	view  View

	undo, redo   []*Automation
	historyLimit int
	drag         dragState

	stroke *Stroke

	listeners    map[int]func(Event)
	nextListener int
}

// NewEditor returns an editor for a, showing the whole curve in a viewport
// of the given size. The editor takes ownership of a. An empty size is
// rejected with [ErrInvalidRange].
func NewEditor(a *Automation, size Size) (*Editor, error) {
	view := View{Window: WindowFor(a), Size: size}
	if err := view.Validate(); err != nil {
		return nil, err
	}
	return &Editor{
		curve:        a,
		view:         view,
		historyLimit: DefaultHistoryLimit,
	}, nil
}

// Subscribe registers fn to receive events. Calling the returned function
// unregisters it.
func (e *Editor) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[int]func(Event))
	}
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// update runs f under the lock and dispatches its events afterwards.
func (e *Editor) update(f func() ([]Event, error)) error {
	e.mu.Lock()
	evs, err := f()
	var fns []func(Event)
	if len(evs) > 0 {
		ids := make([]int, 0, len(e.listeners))
		for id := range e.listeners {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			fns = append(fns, e.listeners[id])
		}
	}
	e.mu.Unlock()

	for _, ev := range evs {
		for _, fn := range fns {
			fn(ev)
		}
	}
	return err
}

// SetHistoryLimit sets the number of undo steps kept. n ≤ 0 disables undo.
func (e *Editor) SetHistoryLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.historyLimit = max(n, 0)
	e.trimHistory()
}

func (e *Editor) trimHistory() {
	if over := len(e.undo) - e.historyLimit; over > 0 {
		e.undo = slices.Delete(e.undo, 0, over)
	}
}

// mutate applies f to the curve as one undo step. The curve is restored if f
// fails.
func (e *Editor) mutate(f func(a *Automation) error, drag dragState) ([]Event, error) {
	before := e.curve.Clone()
	if err := f(e.curve); err != nil {
		e.curve = before
		return nil, err
	}
	evs := diffKeys(before, e.curve)
	if before.length != e.curve.length || before.values != e.curve.values {
		evs = append(evs, Event{Kind: CurveReplaced})
	}
	if len(evs) == 0 {
		return nil, nil
	}
	if drag == (dragState{}) || drag != e.drag {
		e.undo = append(e.undo, before)
		e.trimHistory()
	}
	e.drag = drag
	e.redo = nil
	if e.sel.Prune(e.curve) {
		evs = append(evs, Event{Kind: SelectionChanged})
	}
	return evs, nil
}

// diffKeys returns the events turning the keys of a into the keys of b.
func diffKeys(a, b *Automation) []Event {
	old := make(map[KeyID]Key, len(a.keys))
	for _, k := range a.keys {
		old[k.ID] = k
	}
	var added, updated []Event
	for _, k := range b.keys {
		o, ok := old[k.ID]
		switch {
		case !ok:
			added = append(added, Event{Kind: KeyAdded, Key: k.ID})
		case o != k:
			updated = append(updated, Event{Kind: KeyUpdated, Key: k.ID})
		}
		delete(old, k.ID)
	}
	var evs []Event
	for _, k := range a.keys {
		if _, ok := old[k.ID]; ok {
			evs = append(evs, Event{Kind: KeyRemoved, Key: k.ID})
		}
	}
	evs = append(evs, added...)
	return append(evs, updated...)
}

// Do applies a command as one undo step.
func (e *Editor) Do(cmd Command) error {
	return e.update(func() ([]Event, error) {
		return e.mutate(cmd.apply, dragState{})
	})
}

// Undo reverts the most recent undo step.
func (e *Editor) Undo() error {
	return e.update(func() ([]Event, error) {
		if len(e.undo) == 0 {
			return nil, ErrNothingToUndo
		}
		prev := e.undo[len(e.undo)-1]
		e.undo = e.undo[:len(e.undo)-1]
		e.redo = append(e.redo, e.curve)
		return e.replace(prev), nil
	})
}

// Redo reapplies the most recently undone step.
func (e *Editor) Redo() error {
	return e.update(func() ([]Event, error) {
		if len(e.redo) == 0 {
			return nil, ErrNothingToUndo
		}
		next := e.redo[len(e.redo)-1]
		e.redo = e.redo[:len(e.redo)-1]
		e.undo = append(e.undo, e.curve)
		e.trimHistory()
		return e.replace(next), nil
	})
}

func (e *Editor) replace(a *Automation) []Event {
	evs := diffKeys(e.curve, a)
	e.curve = a
	e.drag = dragState{}
	evs = append(evs, Event{Kind: CurveReplaced})
	if e.sel.Prune(a) {
		evs = append(evs, Event{Kind: SelectionChanged})
	}
	return evs
}

// CanUndo reports whether there are steps to undo and to redo.
func (e *Editor) CanUndo() (undo, redo bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.undo) > 0, len(e.redo) > 0
}

// Snapshot returns a copy of the curve's current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Length: e.curve.length,
		Range:  e.curve.values,
		Keys:   slices.Clone(e.curve.keys),
	}
}

// Curve returns a copy of the curve.
func (e *Editor) Curve() *Automation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.curve.Clone()
}

// ValueAt evaluates the curve at time t.
func (e *Editor) ValueAt(t float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.curve.ValueAt(t)
}

// InsertAt inserts a key at the view-space point p, as a double click on the
// curve editor does, and selects it. The point is clamped to the domain and
// value range.
func (e *Editor) InsertAt(p Point) (KeyID, error) {
	var id KeyID
	err := e.update(func() ([]Event, error) {
		c := e.view.ToCurve(p)
		if c.IsNaN() {
			return nil, fmt.Errorf("point %s: %w", p, ErrTimeOutOfRange)
		}
		t := min(max(c.X, 0), e.curve.length)
		evs, err := e.mutate(func(a *Automation) error {
			var err error
			id, err = a.InsertKey(t, c.Y)
			return err
		}, dragState{})
		if err != nil {
			return nil, err
		}
		e.sel.SelectKey(id, false)
		return append(evs, Event{Kind: SelectionChanged}), nil
	})
	return id, err
}

// DragKey moves a key to the view-space point p. The time is clamped to stay
// strictly between the key's neighbours (see [Automation.ClampTime]) and the
// value to the curve's range. Consecutive drags of the same key form a single
// undo step until [Editor.EndDrag].
func (e *Editor) DragKey(id KeyID, p Point) error {
	return e.update(func() ([]Event, error) {
		c := e.view.ToCurve(p)
		t, err := e.curve.ClampTime(id, c.X)
		if err != nil {
			return nil, err
		}
		return e.mutate(func(a *Automation) error {
			return a.MoveKey(id, t, c.Y)
		}, dragState{id: id})
	})
}

// DragTangent moves a tangent handle of the segment starting at key id to
// the view-space point p. With sync set the handle on the other side of the
// shared key follows, see [Automation.SetTangent].
func (e *Editor) DragTangent(id KeyID, h Handle, p Point, sync bool) error {
	return e.update(func() ([]Event, error) {
		i, err := e.curve.index(id)
		if err != nil {
			return nil, err
		}
		if i+1 >= e.curve.Len() {
			return nil, fmt.Errorf("key %d: %w", id, ErrNoSegment)
		}
		origin := e.curve.keys[i].Point()
		if h == LastHandle {
			origin = e.curve.keys[i+1].Point()
		}
		offset := e.view.ToCurve(p).Sub(origin)
		return e.mutate(func(a *Automation) error {
			_, err := a.SetTangent(id, h, offset, sync)
			return err
		}, dragState{id: id, handle: h, tangent: true})
	})
}

// EndDrag ends the current drag, so the next drag starts a new undo step.
func (e *Editor) EndDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag = dragState{}
}

// BeginPaint starts a freehand edit at the view-space point p.
func (e *Editor) BeginPaint(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stroke = NewStroke(e.view.ToCurve(p))
}

// PaintTo adds the view-space point p to the freehand edit.
func (e *Editor) PaintTo(p Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stroke == nil {
		return ErrNotPainting
	}
	e.stroke.Add(e.view.ToCurve(p))
	return nil
}

// PaintPoints returns the freehand edit's samples in view space, for drawing
// the stroke while it is in progress.
func (e *Editor) PaintPoints() []Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stroke == nil {
		return nil
	}
	return e.toViewPoints(e.stroke.Points())
}

func (e *Editor) toViewPoints(pts []Point) []Point {
	aff := e.view.Affine()
	for i, p := range pts {
		pts[i] = p.Transform(aff)
	}
	return pts
}

// CancelPaint abandons the freehand edit.
func (e *Editor) CancelPaint() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stroke = nil
}

// EndPaint commits the freehand edit as one undo step. The stroke is
// simplified in view space, so tolerance is in view units.
func (e *Editor) EndPaint(tolerance float64) ([]KeyID, error) {
	var ids []KeyID
	err := e.update(func() ([]Event, error) {
		if e.stroke == nil {
			return nil, ErrNotPainting
		}
		pts := SimplifyPoints(e.toViewPoints(e.stroke.Points()), tolerance)
		e.stroke = nil
		inv := e.view.Affine().Invert()
		for i, p := range pts {
			pts[i] = p.Transform(inv)
		}
		return e.mutate(func(a *Automation) error {
			var err error
			ids, err = a.AddFromPoints(pts, 0)
			return err
		}, dragState{})
	})
	return ids, err
}

// View returns the current view.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

func (e *Editor) setView(v View) ([]Event, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v == e.view {
		return nil, nil
	}
	e.view = v
	return []Event{{Kind: ViewChanged}}, nil
}

// SetViewWindow sets the visible region of curve space.
func (e *Editor) SetViewWindow(w ViewWindow) error {
	return e.update(func() ([]Event, error) {
		v := e.view
		v.Window = w
		return e.setView(v)
	})
}

// SetViewSize sets the viewport size.
func (e *Editor) SetViewSize(s Size) error {
	return e.update(func() ([]Event, error) {
		v := e.view
		v.Size = s
		return e.setView(v)
	})
}

// PanValue pans the value axis by a vertical drag of dy view units, see
// [View.PanValue].
func (e *Editor) PanValue(dy float64) error {
	return e.update(func() ([]Event, error) {
		return e.setView(e.view.PanValue(dy))
	})
}

// PanTime pans the time axis by a horizontal drag of dx view units, see
// [View.PanTime].
func (e *Editor) PanTime(dx float64) error {
	return e.update(func() ([]Event, error) {
		return e.setView(e.view.PanTime(dx))
	})
}

// ZoomValue zooms the value axis around view y anchorY, see
// [View.ZoomValue]. It reports whether the view changed.
func (e *Editor) ZoomValue(anchorY, amount float64) (bool, error) {
	var ok bool
	err := e.update(func() ([]Event, error) {
		var v View
		v, ok = e.view.ZoomValue(anchorY, amount)
		if !ok {
			return nil, nil
		}
		return e.setView(v)
	})
	return ok, err
}

// ToView maps a curve-space point to view space.
func (e *Editor) ToView(p Point) Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.ToView(p)
}

// ToCurve maps a view-space point to curve space.
func (e *Editor) ToCurve(p Point) Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.ToCurve(p)
}

// VisibleKeys returns the keys a front end lays out for the current view
// window: those inside it plus one neighbour on each side.
func (e *Editor) VisibleKeys() []Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	tr := e.view.Window.TimeRange
	first, last := e.curve.VisibleRange(tr.Min, tr.Max)
	if last < first {
		return nil
	}
	return slices.Clone(e.curve.keys[first : last+1])
}

// HandleInfo describes the tangent handles of a cubic segment in view space.
type HandleInfo struct {
	// Key is the segment's start key.
	Key         KeyID
	First, Last Point
	// ShowFirst and ShowLast report whether the handles are shown, see
	// [HandleVisibility].
	ShowFirst, ShowLast bool
}

// Handles returns the handles of the cubic segments among the visible keys.
func (e *Editor) Handles() []HandleInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	tr := e.view.Window.TimeRange
	first, last := e.curve.VisibleRange(tr.Min, tr.Max)
	var out []HandleInfo
	for i := first; i < last; i++ {
		start, end, ease := e.curve.Segment(i)
		c, ok := ease.(Cubic)
		if !ok {
			continue
		}
		p1, p2 := c.Handles(start, end)
		sf, sl := HandleVisibility(e.curve, &e.sel, i)
		out = append(out, HandleInfo{
			Key:       e.curve.keys[i].ID,
			First:     e.view.ToView(p1),
			Last:      e.view.ToView(p2),
			ShowFirst: sf,
			ShowLast:  sl,
		})
	}
	return out
}

// KeyAt returns the key whose view-space position is closest to p, within
// radius view units.
func (e *Editor) KeyAt(p Point, radius float64) (KeyID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	hit := e.view.ToCurveRect(NewRectFromPoints(p, p).Inflate(radius, radius))
	first, last := e.curve.VisibleRange(hit.X0, hit.X1)
	best, bestD := KeyID(0), radius*radius
	found := false
	for i := first; i <= last; i++ {
		k := e.curve.keys[i]
		if d := e.view.ToView(k.Point()).DistanceSquared(p); d <= bestD {
			best, bestD, found = k.ID, d, true
		}
	}
	return best, found
}

func (e *Editor) selectionUpdate(f func(s *Selection)) {
	e.update(func() ([]Event, error) {
		before := e.sel.Clone()
		f(&e.sel)
		if selectionEqual(&before, &e.sel) {
			return nil, nil
		}
		return []Event{{Kind: SelectionChanged}}, nil
	})
}

func selectionEqual(a, b *Selection) bool {
	if len(a.keys) != len(b.keys) || len(a.easings) != len(b.easings) {
		return false
	}
	for id := range a.keys {
		if !b.KeySelected(id) {
			return false
		}
	}
	for id := range a.easings {
		if !b.EasingSelected(id) {
			return false
		}
	}
	return true
}

// SelectKey selects a key, adding to the selection if add is set.
func (e *Editor) SelectKey(id KeyID, add bool) {
	e.selectionUpdate(func(s *Selection) { s.SelectKey(id, add) })
}

// SelectEasing selects the easing of the segment starting at a key.
func (e *Editor) SelectEasing(id KeyID, add bool) {
	e.selectionUpdate(func(s *Selection) { s.SelectEasing(id, add) })
}

func (e *Editor) Deselect(id KeyID) {
	e.selectionUpdate(func(s *Selection) { s.Deselect(id) })
}

func (e *Editor) ClearSelection() {
	e.selectionUpdate(func(s *Selection) { s.Clear() })
}

// Selected returns the selected keys in ID order.
func (e *Editor) Selected() []KeyID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Keys()
}

// EasingSelected reports whether the easing starting at the key is selected.
func (e *Editor) EasingSelected(id KeyID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.EasingSelected(id)
}

// DeleteSelected deletes the selected keys as one undo step.
func (e *Editor) DeleteSelected() error {
	return e.update(func() ([]Event, error) {
		ids := e.sel.Keys()
		if len(ids) == 0 {
			return nil, nil
		}
		return e.mutate(func(a *Automation) error {
			for _, id := range ids {
				if err := a.DeleteKey(id); err != nil {
					return err
				}
			}
			return nil
		}, dragState{})
	})
}
