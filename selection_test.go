package automation

import (
	"testing"
)

func TestSelection(t *testing.T) {
	var s Selection
	if s.Len() != 0 || s.KeySelected(1) {
		t.Fatal("zero selection is not empty")
	}
	s.SelectKey(1, false)
	s.SelectKey(3, true)
	s.SelectEasing(2, true)
	diff(t, []KeyID{1, 3}, s.Keys())
	if !s.EasingSelected(2) || s.KeySelected(2) || !s.ThisOrChildSelected(2) {
		t.Error("easing selection of key 2 is wrong")
	}
	if s.Len() != 3 {
		t.Errorf("got %d selected, want 3", s.Len())
	}

	c := s.Clone()
	s.SelectKey(4, false)
	diff(t, []KeyID{4}, s.Keys())
	if s.EasingSelected(2) {
		t.Error("replacing the selection kept an easing")
	}
	diff(t, []KeyID{1, 3}, c.Keys())

	c.Deselect(1)
	c.Deselect(2)
	diff(t, []KeyID{3}, c.Keys())
	if c.EasingSelected(2) {
		t.Error("deselected easing still selected")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("cleared selection is not empty")
	}
}

func TestSelectionPrune(t *testing.T) {
	a := mustNew(t, 10, 0, 1)
	k0 := mustInsert(t, a, 0, 0, Linear{})
	k1 := mustInsert(t, a, 1, 0, Linear{})

	var s Selection
	s.SelectKey(k0, true)
	s.SelectEasing(k1, true)
	if s.Prune(a) {
		t.Error("pruned a selection of existing keys")
	}
	a.DeleteKey(k1)
	if !s.Prune(a) {
		t.Error("nothing pruned after deleting a selected easing's key")
	}
	if s.EasingSelected(k1) || !s.KeySelected(k0) {
		t.Error("wrong entries pruned")
	}
}

func TestHandleVisibility(t *testing.T) {
	a := mustNew(t, 10, 0, 1)
	var ids []KeyID
	for _, tm := range []float64{0, 2, 4, 6} {
		ids = append(ids, mustInsert(t, a, tm, 0, Cubic{}))
	}
	type vis struct{ First, Last bool }
	all := func(s *Selection) []vis {
		var out []vis
		for i := range a.Len() {
			f, l := HandleVisibility(a, s, i)
			out = append(out, vis{f, l})
		}
		return out
	}

	var s Selection
	diff(t, []vis{{}, {}, {}, {}}, all(&s))

	s.SelectKey(ids[1], false)
	diff(t, []vis{{false, true}, {true, false}, {}, {}}, all(&s))

	s.SelectEasing(ids[1], false)
	diff(t, []vis{{false, true}, {true, true}, {true, false}, {}}, all(&s))

	// selecting the key as well hides the handle of the previous easing
	s.SelectKey(ids[1], true)
	diff(t, []vis{{false, true}, {true, false}, {}, {}}, all(&s))

	// non-cubic segments have no handles
	a.SetEasing(ids[1], Linear{})
	diff(t, []vis{{false, true}, {}, {}, {}}, all(&s))

	if f, l := HandleVisibility(a, &s, -1); f || l {
		t.Error("handles shown for index -1")
	}
}
