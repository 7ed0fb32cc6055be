package access

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FooBarShebang/introspection-lib/upath"
)

func TestGetElement(t *testing.T) {
	tests := []struct {
		path any
		want any
	}{
		{path: "a", want: 1},
		{path: []any{"b", -1}, want: 3},
		{path: []any{"b", 0}, want: 1},
		{path: "c.a", want: 1},
		{path: []any{"c", "e", 2, "a"}, want: 1},
		{path: []any{"c", "e", 0, 0}, want: 1},
		{path: []any{"c.e", []any{2, "c"}}, want: 3},
		{path: []any{"c", "e", 1, "a"}, want: 1},
		{path: "c.b.b", want: 2},
		{path: []any{"c", "b", -1}, want: 3},
		{path: "c.c.b.a", want: 1},
		{path: []any{"c", "d", -2}, want: 1},
		{path: upath.Path{upath.Key("c"), upath.Key("e"), upath.Index(0)}, want: []any{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.path), func(t *testing.T) {
			for _, strict := range []bool{true, false} {
				got, err := GetElement(newComplex(), tt.path, Strict(strict))
				if err != nil {
					t.Fatalf("strict=%t: %v", strict, err)
				}
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("strict=%t mismatch (-want +got):\n%s", strict, diff)
				}
			}
		})
	}
}

func TestGetElement_Missing(t *testing.T) {
	tests := []struct {
		path    any
		kind    error
		context string
	}{
		{path: []any{"c", "e", 5}, kind: ErrIndexOutOfRange, context: `ComplexStruct.c["e"][5]`},
		{path: []any{"c", "e", -4, 0}, kind: ErrIndexOutOfRange, context: `ComplexStruct.c["e"][-4]`},
		{path: "c.z", kind: ErrKeyNotFound, context: `ComplexStruct.c["z"]`},
		{path: "c.c.z", kind: ErrKeyNotFound, context: `ComplexStruct.c["c"]["z"]`},
		{path: "z", kind: ErrAttributeNotFound, context: "ComplexStruct.z"},
		{path: []any{"c", "e", 2, "z"}, kind: ErrAttributeNotFound, context: `ComplexStruct.c["e"][2].z`},
		{path: "c.b.z", kind: ErrFieldNotFound, context: `ComplexStruct.c["b"].z`},
		{path: "a.z", kind: ErrAttributeNotFound, context: "ComplexStruct.a.z"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.path), func(t *testing.T) {
			_, err := GetElement(newComplex(), tt.path)
			checkKind(t, err, tt.kind)
			var ae *Error
			errors.As(err, &ae)
			if diff := cmp.Diff([]string{tt.context}, ae.Context); diff != "" {
				t.Errorf("context mismatch (-want +got):\n%s", diff)
			}

			got, err := GetElement(newComplex(), tt.path, Relaxed(), Default("dflt"))
			if err != nil {
				t.Fatalf("relaxed: %v", err)
			}
			if got != "dflt" {
				t.Errorf("relaxed: got %v, want default", got)
			}
			got, err = GetElement(newComplex(), tt.path, Relaxed())
			if err != nil || got != nil {
				t.Errorf("relaxed without default: %v, %v", got, err)
			}
		})
	}
}

func TestGetElement_TypeMismatch(t *testing.T) {
	paths := []any{
		[]any{"a", 0},
		[]any{"b", "x"},
		[]any{"c", 0},
		[]any{"c", "e", 0, "x"},
		[]any{"c", "c", 1},
		[]any{"c", "d", "x"},
		[]any{"c", "e", 2, 0},
	}
	for _, p := range paths {
		for _, strict := range []bool{true, false} {
			_, err := GetElement(newComplex(), p, Strict(strict), Default(1))
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("%v strict=%t: expected type mismatch, got %v", p, strict, err)
			}
		}
	}
}

func TestEmptyPath(t *testing.T) {
	paths := []any{
		[]any{},
		[]any{[]any{}},
		[]any{[]any{}, []any{[]string{}}},
		[0]int{},
		[]string{},
		upath.Path{},
	}
	for _, p := range paths {
		for _, strict := range []bool{true, false} {
			_, err := GetElement(newComplex(), p, Strict(strict))
			if !errors.Is(err, ErrEmptyPath) {
				t.Errorf("GetElement %#v strict=%t: got %v", p, strict, err)
			}
			err = SetElement(newComplex(), p, 1, Strict(strict))
			if !errors.Is(err, ErrEmptyPath) {
				t.Errorf("SetElement %#v strict=%t: got %v", p, strict, err)
			}
		}
	}
}

func TestInvalidPath(t *testing.T) {
	for _, p := range []any{1.5, true, nil, []any{"a", 1.5}, []any{"c", []any{"e", map[string]int{}}}} {
		_, err := GetElement(newComplex(), p)
		checkKind(t, err, ErrInvalidPathType)
		checkKind(t, SetElement(newComplex(), p, 1, Relaxed()), ErrInvalidPathType)
	}
}

func TestNegativeIndices(t *testing.T) {
	obj := map[string]any{"l": []any{"x", "y", "z"}, "t": abc(4, 5, 6), "s": "uvw"}
	for _, k := range []string{"l", "t", "s"} {
		n := 3
		for i := -n; i < n; i++ {
			neg, err := GetElement(obj, []any{k, i})
			if err != nil {
				t.Fatal(err)
			}
			j := i
			if j < 0 {
				j += n
			}
			pos, err := GetElement(obj, []any{k, j})
			if err != nil {
				t.Fatal(err)
			}
			if neg != pos {
				t.Errorf("%s[%d] = %v, %s[%d] = %v", k, i, neg, k, j, pos)
			}
		}
		for _, i := range []int{-n - 1, n} {
			_, err := GetElement(obj, []any{k, i})
			checkKind(t, err, ErrIndexOutOfRange)
		}
	}
}

func TestSetElement_RoundTrip(t *testing.T) {
	tests := []struct {
		path  any
		value any
	}{
		{path: "a", value: 10},
		{path: []any{"b", 1}, value: "x"},
		{path: []any{"b", -3}, value: nil},
		{path: "c.a", value: []any{1}},
		{path: []any{"c", "e", 2, "b"}, value: 20},
		{path: []any{"c", "e", 0, -1}, value: 30},
		{path: []any{"c", "e", 1, "a"}, value: map[string]any{"k": "v"}},
		{path: "c.c.b.a", value: 40},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.path), func(t *testing.T) {
			for _, strict := range []bool{true, false} {
				obj := newComplex()
				if err := SetElement(obj, tt.path, tt.value, Strict(strict)); err != nil {
					t.Fatalf("strict=%t: %v", strict, err)
				}
				got, err := GetElement(obj, tt.path, Strict(strict))
				if err != nil {
					t.Fatalf("strict=%t: %v", strict, err)
				}
				if diff := cmp.Diff(tt.value, got); diff != "" {
					t.Errorf("strict=%t mismatch (-want +got):\n%s", strict, diff)
				}
			}
		})
	}
}

func TestSetElement_Relaxed(t *testing.T) {
	obj := newComplex()

	// append to a slice held in a slice held in a map
	checkKind(t, SetElement(obj, []any{"c", "e", 0, 3}, 4, Relaxed()), nil)
	if diff := cmp.Diff([]any{1, 2, 3, 4}, obj.C["e"].([]any)[0]); diff != "" {
		t.Errorf("append (-want +got):\n%s", diff)
	}

	// prepend to a struct field slice
	checkKind(t, SetElement(obj, []any{"b", -10}, 0, Relaxed()), nil)
	if diff := cmp.Diff([]any{0, 1, 2, 3}, obj.B); diff != "" {
		t.Errorf("prepend (-want +got):\n%s", diff)
	}

	// create intermediate containers
	checkKind(t, SetElement(obj, []any{"c", "new", "x", 0, "y"}, 5, Relaxed()), nil)
	want := map[string]any{"x": []any{map[string]any{"y": 5}}}
	if diff := cmp.Diff(want, obj.C["new"]); diff != "" {
		t.Errorf("create (-want +got):\n%s", diff)
	}
	got, err := GetElement(obj, "c.new.x")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(got.([]any)); n != 1 {
		t.Errorf("created list has %d elements", n)
	}

	// in a map under the new entry, upsert
	checkKind(t, SetElement(obj, []any{"c", "new", "x", 0, "z"}, 6, Relaxed()), nil)
	if diff := cmp.Diff(map[string]any{"y": 5, "z": 6}, obj.C["new"].(map[string]any)["x"].([]any)[0]); diff != "" {
		t.Errorf("upsert (-want +got):\n%s", diff)
	}
}

func TestSetElement_Strict(t *testing.T) {
	obj := newComplex()
	err := SetElement(obj, []any{"c", "new", "x"}, 5)
	checkKind(t, err, ErrKeyNotFound)
	var ae *Error
	errors.As(err, &ae)
	if diff := cmp.Diff([]string{`ComplexStruct.c["new"]`}, ae.Context); diff != "" {
		t.Errorf("context (-want +got):\n%s", diff)
	}
	if _, ok := obj.C["new"]; ok {
		t.Error("strict write created an entry")
	}

	checkKind(t, SetElement(obj, []any{"b", 3}, 4), ErrIndexOutOfRange)
	checkKind(t, SetElement(obj, "c.b.z", 4), ErrImmutableTarget)
	if len(obj.B) != 3 {
		t.Errorf("strict write grew a slice: %v", obj.B)
	}
}

func TestSetElement_OpenRecord(t *testing.T) {
	root := Object{"a": 1}
	checkKind(t, SetElement(root, "d", 9), ErrAttributeNotFound)
	checkKind(t, SetElement(root, "d", 9, Relaxed()), nil)
	if root["d"] != 9 {
		t.Errorf("attribute not created: %v", root)
	}
	checkKind(t, SetElement(root, "e.f", 1, Relaxed()), nil)
	if diff := cmp.Diff(map[string]any{"f": 1}, root["e"]); diff != "" {
		t.Errorf("nested (-want +got):\n%s", diff)
	}

	// closed records cannot gain attributes in either mode
	checkKind(t, SetElement(newComplex(), "d", 9), ErrAttributeNotFound)
	checkKind(t, SetElement(newComplex(), "d", 9, Relaxed()), ErrAttributeNotFound)
	checkKind(t, SetElement(newComplex(), "d.e", 9, Relaxed()), ErrAttributeNotFound)
}

func TestSetElement_Immutable(t *testing.T) {
	paths := []any{
		"c.c.a",
		"c.c.z",
		[]any{"c", "d", 0},
		[]any{"c", "d", 5},
		"c.b.a",
		[]any{"c", "b", 0},
	}
	for _, p := range paths {
		for _, strict := range []bool{true, false} {
			obj := newComplex()
			err := SetElement(obj, p, 1, Strict(strict))
			if !errors.Is(err, ErrImmutableTarget) {
				t.Errorf("%v strict=%t: expected immutable target, got %v", p, strict, err)
			}
		}
	}
	obj := newComplex()
	checkKind(t, SetElement(obj, "c.c.q.r", 1, Relaxed()), ErrImmutableTarget)
	checkKind(t, SetElement(obj, "c.c.q.r", 1), ErrKeyNotFound)
	if _, ok := obj.C["c"].(FrozenMap).Lookup("q"); ok {
		t.Error("frozen map modified")
	}
}

func TestSetElement_TypeMismatch(t *testing.T) {
	paths := []any{
		[]any{"b", "x"},
		[]any{"c", "e", 1, 0},
		[]any{"c", "a", 0, "x"},
		[]any{"c", "e", 0, "x", "y"},
	}
	for _, p := range paths {
		for _, strict := range []bool{true, false} {
			err := SetElement(newComplex(), p, 1, Strict(strict))
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("%v strict=%t: expected type mismatch, got %v", p, strict, err)
			}
		}
	}
	checkKind(t, SetElement(newComplex(), "a", "one"), ErrTypeMismatch)
}

func TestSetElement_WriteBack(t *testing.T) {
	structs := map[string]SimpleStruct{"x": {A: 1}}
	checkKind(t, SetElement(structs, "x.b", 7), nil)
	if diff := cmp.Diff(SimpleStruct{A: 1, B: 7}, structs["x"]); diff != "" {
		t.Errorf("struct in map (-want +got):\n%s", diff)
	}

	lists := map[string][]int{"x": {1}}
	checkKind(t, SetElement(lists, []any{"x", 1}, uint64(2), Relaxed()), nil)
	if diff := cmp.Diff([]int{1, 2}, lists["x"]); diff != "" {
		t.Errorf("slice in map (-want +got):\n%s", diff)
	}

	arrays := map[string][2]string{"x": {"a", "b"}}
	checkKind(t, SetElement(arrays, []any{"x", -1}, "c"), nil)
	if arrays["x"] != [2]string{"a", "c"} {
		t.Errorf("array in map: %v", arrays["x"])
	}

	nested := map[string]map[string]int{"x": nil}
	checkKind(t, SetElement(nested, "x.y", 3, Relaxed()), nil)
	if nested["x"]["y"] != 3 {
		t.Errorf("nil map in map: %v", nested)
	}

	items := []any{SimpleStruct{}, []any{}}
	checkKind(t, SetElement(items, "0.a", 1), ErrTypeMismatch)
	checkKind(t, SetElement(items, []any{0, "a"}, 1), nil)
	checkKind(t, SetElement(items, []any{1, 0}, "v", Relaxed()), nil)
	want := []any{SimpleStruct{A: 1}, []any{"v"}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("values in slice (-want +got):\n%s", diff)
	}
}

func TestSetElement_Root(t *testing.T) {
	s := []any{1}
	checkKind(t, SetElement(s, 5, 2, Relaxed()), ErrImmutableTarget)
	checkKind(t, SetElement(&s, 5, 2, Relaxed()), nil)
	if diff := cmp.Diff([]any{1, 2}, s); diff != "" {
		t.Errorf("root slice (-want +got):\n%s", diff)
	}

	var ss SimpleStruct
	checkKind(t, SetElement(ss, "a", 1), ErrImmutableTarget)
	checkKind(t, SetElement(&ss, "a", 1), nil)
	if ss.A != 1 {
		t.Errorf("root struct: %v", ss)
	}

	var m map[string]any
	checkKind(t, SetElement(m, "a.b", 1, Relaxed()), ErrImmutableTarget)
	checkKind(t, SetElement(&m, "a.b", 1, Relaxed()), nil)
	if diff := cmp.Diff(map[string]any{"a": map[string]any{"b": 1}}, m); diff != "" {
		t.Errorf("root map (-want +got):\n%s", diff)
	}

	var doc any = []any{1}
	checkKind(t, SetElement(&doc, -2, 0, Relaxed()), nil)
	if diff := cmp.Diff([]any{0, 1}, doc); diff != "" {
		t.Errorf("root interface (-want +got):\n%s", diff)
	}
	checkKind(t, SetElement(doc, 5, 2, Relaxed()), ErrImmutableTarget)
}

func TestErrorContextAndTraceback(t *testing.T) {
	_, err := GetElement(newComplex(), "z")
	want := `ComplexStruct.z: attribute not found: ComplexStruct has no attribute "z"`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("%T is not *Error", err)
	}
	if !strings.Contains(ae.Traceback(), "TestErrorContextAndTraceback") {
		t.Errorf("traceback misses the test frame:\n%s", ae.Traceback())
	}
	full := fmt.Sprintf("%+v", err)
	if !strings.HasPrefix(full, want) || !strings.Contains(full, "TestErrorContextAndTraceback") {
		t.Errorf("%%+v output:\n%s", full)
	}
	if fmt.Sprintf("%v", err) != want {
		t.Errorf("%%v output: %v", err)
	}
	if _, _, _, ok := ae.Source(); !ok {
		t.Error("no source recorded")
	}

	_, err = GetElement(newComplex(), "z", RootName("root"))
	if !strings.HasPrefix(err.Error(), "root.z: ") {
		t.Errorf("root name not used: %v", err)
	}
}

func TestErrorWithContext(t *testing.T) {
	e := newError(ErrKeyNotFound, "%q", "k")
	outer := e.WithContext("inner").WithContext("outer")
	if got, want := outer.Error(), `outer: inner: key not found: "k"`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(e.Context) != 0 {
		t.Errorf("WithContext modified the receiver: %v", e.Context)
	}
	if !errors.Is(outer, ErrKeyNotFound) || !IsNotFound(outer) {
		t.Errorf("kind lost by WithContext")
	}
	if errors.Is(outer, ErrTypeMismatch) {
		t.Errorf("unexpected kind match")
	}
	wrapped := fmt.Errorf("loading: %w", outer)
	if !errors.Is(wrapped, ErrKeyNotFound) {
		t.Errorf("kind lost by wrapping")
	}
	if withContext(wrapped, "x").(*Error).Context[2] != "x" {
		t.Errorf("withContext did not find the *Error")
	}
}
