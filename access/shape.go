package access

import (
	"reflect"
	"unicode/utf8"
)

// Shape is the container category a value is dispatched on.
type Shape int

const (
	// RecordShape is the fallback: an object with named attributes. Structs,
	// scalars and nil are records; the latter two have no attributes.
	RecordShape Shape = iota
	// SequenceShape is an ordered, integer indexed container with a length.
	SequenceShape
	// MappingShape is a string keyed association.
	MappingShape
)

func (s Shape) String() string {
	switch s {
	case SequenceShape:
		return "sequence"
	case MappingShape:
		return "mapping"
	default:
		return "record"
	}
}

// ShapeInfo is the classification of one value.
type ShapeInfo struct {
	Shape   Shape
	Mutable bool
	// Hybrid marks a sequence which also exposes named, read only fields.
	Hybrid bool
}

// Sequence is implemented by ordered containers which are not Go slices,
// arrays or strings.
type Sequence interface {
	Len() int
	At(i int) any
}

// MutableSequence is a Sequence which can be written and grown. Insert with
// i == Len() appends.
type MutableSequence interface {
	Sequence
	SetAt(i int, v any)
	Insert(i int, v any)
}

// NamedFields marks a Sequence as a record-sequence hybrid.
type NamedFields interface {
	Field(name string) (any, bool)
	FieldNames() []string
}

// Mapping is implemented by string keyed containers which are not Go maps.
type Mapping interface {
	Lookup(key string) (any, bool)
	Keys() []string
}

type MutableMapping interface {
	Mapping
	Store(key string, v any)
}

// Record is implemented by objects with attributes which are not struct
// fields.
type Record interface {
	Attr(name string) (any, bool)
}

// MutableRecord is a Record whose attributes can be set and created.
type MutableRecord interface {
	Record
	SetAttr(name string, v any)
}

// Freezer lets a value implementing one of the mutable interfaces report
// itself read only.
type Freezer interface {
	Frozen() bool
}

// Classify reports the shape and mutability of obj.
//
// Pointers and interfaces are followed. Values implementing Sequence,
// Mapping or Record (directly or through their address) are classified by
// those interfaces; otherwise slices, arrays and strings are sequences, maps
// are mappings and everything else is a record.
func Classify(obj any) ShapeInfo {
	return classify(reflect.ValueOf(obj)).ShapeInfo
}

// target is a classified value. ad is set when the value is handled through
// one of the interfaces above, otherwise v is the dereferenced value (invalid
// for nil).
type target struct {
	ShapeInfo
	v  reflect.Value
	ad any
}

func classify(v reflect.Value) target {
	for v.IsValid() {
		k := v.Kind()
		if (k == reflect.Pointer || k == reflect.Interface) && v.IsNil() {
			return target{}
		}
		if v.CanInterface() {
			if t, ok := classifyAdapter(v.Interface()); ok {
				t.v = v
				return t
			}
			if k != reflect.Pointer && k != reflect.Interface && v.CanAddr() {
				if t, ok := classifyAdapter(v.Addr().Interface()); ok {
					t.v = v
					return t
				}
			}
		}
		if k != reflect.Pointer && k != reflect.Interface {
			break
		}
		v = v.Elem()
	}
	t := target{v: v}
	if !v.IsValid() {
		return t
	}
	switch v.Kind() {
	case reflect.Slice:
		t.Shape, t.Mutable = SequenceShape, true
	case reflect.Array:
		t.Shape, t.Mutable = SequenceShape, v.CanSet()
	case reflect.String:
		t.Shape = SequenceShape
	case reflect.Map:
		t.Shape, t.Mutable = MappingShape, !v.IsNil()
	case reflect.Struct:
		t.Mutable = v.CanSet()
	}
	return t
}

func classifyAdapter(x any) (target, bool) {
	frozen := false
	if f, ok := x.(Freezer); ok {
		frozen = f.Frozen()
	}
	t := target{ad: x}
	switch x.(type) {
	case Sequence:
		_, mut := x.(MutableSequence)
		_, hybrid := x.(NamedFields)
		t.ShapeInfo = ShapeInfo{Shape: SequenceShape, Mutable: mut && !frozen, Hybrid: hybrid}
	case Mapping:
		_, mut := x.(MutableMapping)
		t.ShapeInfo = ShapeInfo{Shape: MappingShape, Mutable: mut && !frozen}
	case Record:
		_, mut := x.(MutableRecord)
		t.ShapeInfo = ShapeInfo{Shape: RecordShape, Mutable: mut && !frozen}
	default:
		return target{}, false
	}
	return t, true
}

func (t target) length() int {
	switch {
	case t.ad != nil:
		return t.ad.(Sequence).Len()
	case t.v.Kind() == reflect.String:
		return utf8.RuneCountInString(t.v.String())
	default:
		return t.v.Len()
	}
}

// at returns the i'th element; i must be in range.
func (t target) at(i int) reflect.Value {
	switch {
	case t.ad != nil:
		return reflect.ValueOf(t.ad.(Sequence).At(i))
	case t.v.Kind() == reflect.String:
		return reflect.ValueOf(string([]rune(t.v.String())[i]))
	default:
		return t.v.Index(i)
	}
}

func (t target) typeName() string {
	if t.ad != nil {
		return nameOf(reflect.TypeOf(t.ad))
	}
	if !t.v.IsValid() {
		return "nil"
	}
	return nameOf(t.v.Type())
}

func nameOf(rt reflect.Type) string {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() != "" {
		return rt.Name()
	}
	return rt.String()
}

// typeName is the root name used in error context for obj.
func typeName(obj any) string {
	if obj == nil {
		return "nil"
	}
	return nameOf(reflect.TypeOf(obj))
}

// resolveIndex maps i, possibly negative, to a position in a sequence of
// length n.
func resolveIndex(i, n int) (int, bool) {
	if i < -n || i >= n {
		return 0, false
	}
	if i < 0 {
		i += n
	}
	return i, true
}

func iface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}
