package automation

import (
	"slices"
)

// Selection is the set of selected keys and of easings selected on their
// own. Selecting a key implies its easing; selecting only the easing exposes
// the segment's handles without moving the key.
//
// The zero value is an empty selection.
type Selection struct {
	keys    map[KeyID]struct{}
	easings map[KeyID]struct{}
}

// SelectKey selects a key. Unless add is set, everything else is deselected
// first.
func (s *Selection) SelectKey(id KeyID, add bool) {
	if !add {
		s.Clear()
	}
	if s.keys == nil {
		s.keys = make(map[KeyID]struct{})
	}
	s.keys[id] = struct{}{}
}

// SelectEasing selects the easing of the segment starting at the key. Unless
// add is set, everything else is deselected first.
func (s *Selection) SelectEasing(id KeyID, add bool) {
	if !add {
		s.Clear()
	}
	if s.easings == nil {
		s.easings = make(map[KeyID]struct{})
	}
	s.easings[id] = struct{}{}
}

// Deselect removes the key and its easing from the selection.
func (s *Selection) Deselect(id KeyID) {
	delete(s.keys, id)
	delete(s.easings, id)
}

func (s *Selection) Clear() {
	clear(s.keys)
	clear(s.easings)
}

func (s *Selection) KeySelected(id KeyID) bool {
	_, ok := s.keys[id]
	return ok
}

func (s *Selection) EasingSelected(id KeyID) bool {
	_, ok := s.easings[id]
	return ok
}

// ThisOrChildSelected reports whether the key or its easing is selected.
func (s *Selection) ThisOrChildSelected(id KeyID) bool {
	return s.KeySelected(id) || s.EasingSelected(id)
}

// Keys returns the selected keys in ascending ID order.
func (s *Selection) Keys() []KeyID {
	out := make([]KeyID, 0, len(s.keys))
	for id := range s.keys {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of selected keys and easings.
func (s *Selection) Len() int {
	return len(s.keys) + len(s.easings)
}

// Prune drops entries for keys that no longer exist in a. It reports whether
// anything was dropped.
func (s *Selection) Prune(a *Automation) bool {
	pruned := false
	for _, m := range []map[KeyID]struct{}{s.keys, s.easings} {
		for id := range m {
			if _, ok := a.Index(id); !ok {
				delete(m, id)
				pruned = true
			}
		}
	}
	return pruned
}

// Clone returns an independent copy.
func (s *Selection) Clone() Selection {
	var c Selection
	for id := range s.keys {
		c.SelectKey(id, true)
	}
	for id := range s.easings {
		c.SelectEasing(id, true)
	}
	return c
}

// HandleVisibility reports which tangent handles of segment i a front end
// shows. Handles are only shown for cubic segments, and only around the
// selection: a selected key shows the handle leaving it, a selected easing
// shows both handles of its segment, and a selection on the next key shows
// the handle arriving there.
func HandleVisibility(a *Automation, s *Selection, i int) (first, last bool) {
	if i < 0 || i+1 >= a.Len() {
		return false, false
	}
	k := a.Key(i)
	if _, ok := k.Easing.(Cubic); !ok {
		return false, false
	}
	if s.ThisOrChildSelected(k.ID) {
		return true, !s.KeySelected(k.ID)
	}
	if i > 0 {
		prev := a.Key(i - 1).ID
		first = s.EasingSelected(prev) && !s.KeySelected(prev)
	}
	last = s.ThisOrChildSelected(a.Key(i + 1).ID)
	return first, last
}
