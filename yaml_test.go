package automation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestYAMLRoundTrip(t *testing.T) {
	a := mustNew(t, 4, -1, 1)
	a.SetDefaultEasing(EasingCubic)
	mustInsert(t, a, 0, 0, Linear{})
	mustInsert(t, a, 1, 0.5, Hold{})
	mustInsert(t, a, 2, 1, Cubic{Anchor1: Vec(0.5, 0.25), Anchor2: Vec(-0.5, 0)})
	mustInsert(t, a, 4, -1, Linear{})

	var buf bytes.Buffer
	if err := a.Save(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"length: 4",
		"default_easing: cubic",
		"type: hold",
		"anchor1: [0.5, 0.25]",
		"anchor2: [-0.5, 0]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	b, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b.Length() != 4 || b.Range() != (Range{-1, 1}) || b.DefaultEasing() != EasingCubic {
		t.Errorf("got length %g, range %v, default easing %s", b.Length(), b.Range(), b.DefaultEasing())
	}
	var want, got []Key
	for _, k := range a.Keys() {
		want = append(want, k)
	}
	for _, k := range b.Keys() {
		got = append(got, k)
	}
	diff(t, want, got, cmpopts.IgnoreFields(Key{}, "ID"))
}

func TestLoadDefaults(t *testing.T) {
	const doc = `
length: 6
range: {min: 0, max: 1}
keys:
  - {time: 0, value: 0, easing: {type: cubic}}
  - {time: 3, value: 1, easing: {type: cubic, anchor1: [10, 1], anchor2: [-1, 0]}}
  - {time: 5, value: 0}
`
	a, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if a.DefaultEasing() != EasingLinear {
		t.Errorf("got default easing %s, want linear", a.DefaultEasing())
	}
	diff(t, DefaultCubic(3), a.Key(0).Easing)
	// anchors are clamped to the segment
	diff(t, Cubic{Anchor1: Vec(2, 0.2), Anchor2: Vec(-1, 0)}, a.Key(1).Easing)
	diff(t, Easing(Linear{}), a.Key(2).Easing)

	// new IDs do not collide with loaded ones
	id, err := a.InsertKey(4, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, k := range a.Keys() {
		if k.ID == id && k.Time != 4 {
			t.Errorf("key %d shares ID %d with the new key", i, id)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"syntax", "length: [\n"},
		{"type", "length: abc\n"},
		{"length", "length: 0\nrange: {min: 0, max: 1}\n"},
		{"range", "length: 1\nrange: {min: 1, max: 0}\n"},
		{"default easing", "length: 1\nrange: {min: 0, max: 1}\ndefault_easing: smooth\n"},
		{"order", "length: 4\nrange: {min: 0, max: 1}\nkeys: [{time: 2, value: 0}, {time: 1, value: 0}]\n"},
		{"duplicate", "length: 4\nrange: {min: 0, max: 1}\nkeys: [{time: 2, value: 0}, {time: 2, value: 0}]\n"},
		{"domain", "length: 4\nrange: {min: 0, max: 1}\nkeys: [{time: 5, value: 0}]\n"},
		{"value", "length: 4\nrange: {min: 0, max: 1}\nkeys: [{time: 1, value: 2}]\n"},
		{"easing", "length: 4\nrange: {min: 0, max: 1}\nkeys: [{time: 1, value: 0, easing: {type: bounce}}]\n"},
		{"anchor", "length: 4\nrange: {min: 0, max: 1}\nkeys: [{time: 1, value: 0, easing: {type: cubic, anchor1: [1], anchor2: [0, 0]}}]\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tc.doc)); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("got %v, want ErrInvalidDocument", err)
			}
		})
	}
}
