package automation

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// document is the serialized form of an Automation.
type document struct {
	Length        float64  `yaml:"length"`
	Range         rangeDoc `yaml:"range"`
	DefaultEasing string   `yaml:"default_easing,omitempty"`
	Keys          []keyDoc `yaml:"keys,omitempty"`
}

type rangeDoc struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type keyDoc struct {
	Time   float64    `yaml:"time"`
	Value  float64    `yaml:"value"`
	Easing *easingDoc `yaml:"easing,omitempty"`
}

type easingDoc struct {
	Type    string    `yaml:"type"`
	Anchor1 []float64 `yaml:"anchor1,omitempty,flow"`
	Anchor2 []float64 `yaml:"anchor2,omitempty,flow"`
}

func encodeEasing(e Easing) *easingDoc {
	switch e := e.(type) {
	case Cubic:
		return &easingDoc{
			Type:    EasingCubic.String(),
			Anchor1: []float64{e.Anchor1.X, e.Anchor1.Y},
			Anchor2: []float64{e.Anchor2.X, e.Anchor2.Y},
		}
	case nil:
		return nil
	default:
		return &easingDoc{Type: e.Kind().String()}
	}
}

func decodeAnchor(v []float64) (Vec2, error) {
	if len(v) != 2 {
		return Vec2{}, fmt.Errorf("anchor needs 2 components, has %d", len(v))
	}
	a := Vec(v[0], v[1])
	if a.IsNaN() || a.IsInf() {
		return Vec2{}, fmt.Errorf("anchor %s is not finite", a)
	}
	return a, nil
}

func (d *easingDoc) decode() (Easing, error) {
	if d == nil {
		return Linear{}, nil
	}
	kind, err := ParseEasingKind(d.Type)
	if err != nil {
		return nil, err
	}
	switch kind {
	case EasingCubic:
		// missing anchors take the default shape
		if d.Anchor1 == nil && d.Anchor2 == nil {
			return Cubic{}, nil
		}
		a1, err := decodeAnchor(d.Anchor1)
		if err != nil {
			return nil, fmt.Errorf("anchor1: %w", err)
		}
		a2, err := decodeAnchor(d.Anchor2)
		if err != nil {
			return nil, fmt.Errorf("anchor2: %w", err)
		}
		return Cubic{Anchor1: a1, Anchor2: a2}, nil
	default:
		return NewEasing(kind, 0)
	}
}

// MarshalYAML implements [yaml.Marshaler].
func (a *Automation) MarshalYAML() (any, error) {
	doc := document{
		Length: a.length,
		Range:  rangeDoc{a.values.Min, a.values.Max},
		Keys:   make([]keyDoc, len(a.keys)),
	}
	if a.defaultEasing != EasingLinear {
		doc.DefaultEasing = a.defaultEasing.String()
	}
	for i, k := range a.keys {
		doc.Keys[i] = keyDoc{
			Time:   k.Time,
			Value:  k.Value,
			Easing: encodeEasing(k.Easing),
		}
	}
	return doc, nil
}

// UnmarshalYAML implements [yaml.Unmarshaler]. Documents whose keys are not
// in strictly increasing time order, lie outside the domain or hold values
// outside the range are rejected with [ErrInvalidDocument]. Cubic anchors are
// clamped to their segments.
func (a *Automation) UnmarshalYAML(node *yaml.Node) error {
	var doc document
	if err := node.Decode(&doc); err != nil {
		return err
	}
	b, err := doc.build()
	if err != nil {
		return fmt.Errorf("line %d: %w: %w", node.Line, ErrInvalidDocument, err)
	}
	*a = *b
	return nil
}

func (doc *document) build() (*Automation, error) {
	a, err := New(doc.Length, Range{doc.Range.Min, doc.Range.Max})
	if err != nil {
		return nil, err
	}
	if doc.DefaultEasing != "" {
		kind, err := ParseEasingKind(doc.DefaultEasing)
		if err != nil {
			return nil, fmt.Errorf("default_easing: %w", err)
		}
		a.defaultEasing = kind
	}
	for i, kd := range doc.Keys {
		if i > 0 && !(kd.Time > doc.Keys[i-1].Time) {
			return nil, fmt.Errorf("key %d at %g: %w", i, kd.Time, ErrKeyOrder)
		}
		if !a.values.Contains(kd.Value) {
			return nil, fmt.Errorf("key %d value %g outside [%g, %g]", i, kd.Value, a.values.Min, a.values.Max)
		}
		e, err := kd.Easing.decode()
		if err != nil {
			return nil, fmt.Errorf("key %d easing: %w", i, err)
		}
		if _, err := a.InsertKeyWithEasing(kd.Time, kd.Value, e); err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
	}
	return a, nil
}

// Load reads a curve in YAML form. Malformed documents are reported with
// [ErrInvalidDocument].
func Load(r io.Reader) (*Automation, error) {
	var a Automation
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("empty document: %w", ErrInvalidDocument)
		case errors.Is(err, ErrInvalidDocument):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	return &a, nil
}

// Save writes the curve in YAML form.
func (a *Automation) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return err
	}
	return enc.Close()
}
