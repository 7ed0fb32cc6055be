package access

import (
	"fmt"
	"maps"
	"slices"
)

// Object is an open record: a map backed object whose attributes can be
// read, overwritten and created. A nil Object is read only.
type Object map[string]any

func (o Object) Attr(name string) (any, bool) {
	v, ok := o[name]
	return v, ok
}

func (o Object) SetAttr(name string, v any) {
	o[name] = v
}

// AttrNames returns the attribute names in sorted order.
func (o Object) AttrNames() []string {
	return slices.Sorted(maps.Keys(o))
}

func (o Object) Frozen() bool {
	return o == nil
}

// Tuple is an immutable sequence whose elements are also named fields.
// Create tuples with the constructor returned by TupleType.
type Tuple struct {
	names  []string
	values []any
}

// TupleType returns a constructor of tuples with the given field names. The
// constructor panics when called with a number of values different from the
// number of names.
//
//	point := access.TupleType("x", "y")
//	p := point(1, 2) // p[0] == p.x == 1
func TupleType(names ...string) func(values ...any) Tuple {
	names = slices.Clone(names)
	return func(values ...any) Tuple {
		if len(values) != len(names) {
			panic(fmt.Sprintf("tuple %v: got %d values", names, len(values)))
		}
		return Tuple{names: names, values: slices.Clone(values)}
	}
}

func (t Tuple) Len() int { return len(t.values) }
func (t Tuple) At(i int) any { return t.values[i] }
func (t Tuple) FieldNames() []string { return slices.Clone(t.names) }

func (t Tuple) Field(name string) (any, bool) {
	i := slices.Index(t.names, name)
	if i == -1 {
		return nil, false
	}
	return t.values[i], true
}

func (t Tuple) String() string {
	return fmt.Sprint(t.values)
}

// FrozenMap is a read only mapping.
type FrozenMap struct {
	m map[string]any
}

// Freeze returns a read only copy of m. The copy is shallow.
func Freeze(m map[string]any) FrozenMap {
	return FrozenMap{m: maps.Clone(m)}
}

func (f FrozenMap) Lookup(key string) (any, bool) {
	v, ok := f.m[key]
	return v, ok
}

func (f FrozenMap) Keys() []string {
	return slices.Sorted(maps.Keys(f.m))
}

func (f FrozenMap) Len() int { return len(f.m) }

// FrozenList is a read only sequence.
type FrozenList struct {
	items []any
}

func FreezeList(items ...any) FrozenList {
	return FrozenList{items: slices.Clone(items)}
}

func (f FrozenList) Len() int { return len(f.items) }
func (f FrozenList) At(i int) any { return f.items[i] }
