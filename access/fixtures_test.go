package access

import (
	"errors"
	"slices"
	"testing"
)

type SimpleStruct struct {
	A int `access:"a"`
	B int `access:"b"`
	C int `access:"c"`
}

type ComplexStruct struct {
	A int            `access:"a"`
	B []any          `access:"b"`
	C map[string]any `access:"c"`
}

var abc = TupleType("a", "b", "c")

func newComplex() *ComplexStruct {
	return &ComplexStruct{
		A: 1,
		B: []any{1, 2, 3},
		C: map[string]any{
			"a": 1,
			"b": abc(1, 2, 3),
			"c": Freeze(map[string]any{"a": 1, "b": map[string]any{"a": 1}}),
			"d": FreezeList(1, 2),
			"e": []any{
				[]any{1, 2, 3},
				map[string]any{"a": 1},
				&SimpleStruct{A: 1, B: 2, C: 3},
			},
		},
	}
}

// stack is a growable sequence adapter with pointer receivers.
type stack struct {
	items []any
}

func (s *stack) Len() int { return len(s.items) }
func (s *stack) At(i int) any { return s.items[i] }
func (s *stack) SetAt(i int, v any) { s.items[i] = v }
func (s *stack) Insert(i int, v any) { s.items = slices.Insert(s.items, i, v) }

func checkKind(t *testing.T, err, kind error) {
	t.Helper()
	if kind == nil {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected %v, got no error", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T", err)
	}
}
