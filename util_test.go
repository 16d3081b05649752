package automation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// mustNew returns a curve over [0, length] with values in [lo, hi].
func mustNew(t *testing.T, length, lo, hi float64) *Automation {
	t.Helper()
	a, err := New(length, Range{lo, hi})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// mustInsert inserts a key and fails the test on error.
func mustInsert(t *testing.T, a *Automation, tm, v float64, e Easing) KeyID {
	t.Helper()
	id, err := a.InsertKeyWithEasing(tm, v, e)
	if err != nil {
		t.Fatalf("inserting key at %g: %v", tm, err)
	}
	return id
}

// times returns the key times of a in order.
func times(a *Automation) []float64 {
	var out []float64
	for _, k := range a.Keys() {
		out = append(out, k.Time)
	}
	return out
}
