package automation_test

import (
	"fmt"
	"os"
	"strings"

	"honnef.co/go/automation"
)

func ExampleAutomation_ValueAt() {
	a, err := automation.New(4, automation.Range{Min: 0, Max: 1})
	if err != nil {
		panic(err)
	}
	a.InsertKey(0, 0)
	a.InsertKeyWithEasing(2, 1, automation.Hold{})
	a.InsertKey(4, 0)

	for _, t := range []float64{-1, 1, 3, 4} {
		fmt.Println(t, a.ValueAt(t))
	}
	fmt.Println(automation.SVG(a.Path().Elements(), automation.SVGOptions{}))
	// Output:
	// -1 0
	// 1 0.5
	// 3 1
	// 4 0
	// M0,0 L2,1 L4,1 L4,0
}

func ExampleStroke() {
	s := automation.NewStroke(automation.Pt(0, 0))
	s.Add(automation.Pt(1, 1))
	s.Add(automation.Pt(2, 2))
	s.Add(automation.Pt(3, 3))
	// Moving back to 1.5 replaces what was drawn since.
	s.Add(automation.Pt(1.5, 9))
	fmt.Println(s.Points())
	// Output:
	// [(0, 0) (1, 1) (1.5, 9) (3, 3)]
}

func ExampleEditor() {
	a, err := automation.New(10, automation.Range{Min: -1, Max: 1})
	if err != nil {
		panic(err)
	}
	ed, err := automation.NewEditor(a, automation.Sz(100, 50))
	if err != nil {
		panic(err)
	}
	ed.Subscribe(func(ev automation.Event) {
		fmt.Println(ev.Kind, ev.Key)
	})

	ed.Do(automation.InsertKey{Time: 2, Value: 0.5})
	ed.Do(automation.InsertKey{Time: 8, Value: -0.5})
	ed.Undo()
	// Output:
	// key added 1
	// key added 2
	// key removed 2
	// curve replaced 0
}

func ExampleLoad() {
	const doc = `
length: 4
range: {min: 0, max: 1}
default_easing: hold
keys:
  - {time: 0, value: 0}
  - {time: 2, value: 1, easing: {type: hold}}
  - {time: 4, value: 0}
`
	a, err := automation.Load(strings.NewReader(doc))
	if err != nil {
		panic(err)
	}
	fmt.Println(a.ValueAt(1), a.ValueAt(3))
	fmt.Println(a.DefaultEasing())

	a.SetLength(3)
	if err := a.Save(os.Stdout); err != nil {
		panic(err)
	}
	// Output:
	// 0.5 1
	// hold
	// length: 3
	// range:
	//   min: 0
	//   max: 1
	// default_easing: hold
	// keys:
	//   - time: 0
	//     value: 0
	//     easing:
	//       type: linear
	//   - time: 2
	//     value: 1
	//     easing:
	//       type: hold
}
