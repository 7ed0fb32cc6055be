package access

import (
	"reflect"

	"github.com/FooBarShebang/introspection-lib/debug"
	"github.com/FooBarShebang/introspection-lib/upath"
)

// Get reads the element of obj addressed by a single segment.
//
// Index segments address sequences; negative indices count from the end.
// Key segments address mapping entries, record attributes and the named
// fields of record-sequence hybrids. A segment of the wrong kind for the
// shape of obj fails with ErrTypeMismatch; a missing element fails with
// ErrIndexOutOfRange, ErrKeyNotFound, ErrAttributeNotFound or
// ErrFieldNotFound.
func Get(obj any, seg upath.Segment) (any, error) {
	v, err := get(classify(reflect.ValueOf(obj)), seg)
	if err != nil {
		return nil, err
	}
	return iface(v), nil
}

// GetOrDefault is like Get but returns def when the element is missing.
// ErrTypeMismatch is still reported.
func GetOrDefault(obj any, seg upath.Segment, def any) (any, error) {
	res, err := Get(obj, seg)
	if err != nil {
		if IsNotFound(err) {
			return def, nil
		}
		return nil, err
	}
	return res, nil
}

// SetStrict overwrites an existing element of obj. It never creates
// elements.
//
// obj must be mutable in place: a pointer to a struct or array, a slice, a
// non-nil map or an adapter implementing one of the mutable interfaces.
// Otherwise the write fails with ErrImmutableTarget.
func SetStrict(obj any, seg upath.Segment, v any) error {
	return set(obj, seg, v, false)
}

// SetOrCreate is like SetStrict but creates missing elements: an index
// before the start of a sequence prepends, one past its end appends, a
// missing mapping key is inserted, and a missing attribute of an open record
// (Object) is created. Struct attributes cannot be created.
//
// Growing a slice requires a pointer to it.
func SetOrCreate(obj any, seg upath.Segment, v any) error {
	return set(obj, seg, v, true)
}

func set(obj any, seg upath.Segment, x any, create bool) error {
	repl, err := put(classify(reflect.ValueOf(obj)), seg, reflect.ValueOf(x), create)
	if err != nil {
		return err
	}
	if repl.IsValid() {
		slot, ok := rootSlot(obj)
		if !ok || !repl.Type().AssignableTo(slot.Type()) {
			return newError(ErrImmutableTarget, "%s cannot be changed in place, pass a pointer", typeName(obj))
		}
		slot.Set(repl)
	}
	return nil
}

func get(t target, seg upath.Segment) (reflect.Value, error) {
	if debug.Access() {
		debug.Logf("get %s %s from %s", t.Shape, seg, t.typeName())
	}
	switch t.Shape {
	case SequenceShape:
		if seg.IsKey() {
			if !t.Hybrid {
				return reflect.Value{}, newError(ErrTypeMismatch, "%s is a sequence, cannot look up key %q", t.typeName(), seg.Key())
			}
			x, ok := t.ad.(NamedFields).Field(seg.Key())
			if !ok {
				return reflect.Value{}, newError(ErrFieldNotFound, "%s has no field %q", t.typeName(), seg.Key())
			}
			return reflect.ValueOf(x), nil
		}
		n := t.length()
		i, ok := resolveIndex(seg.Index(), n)
		if !ok {
			return reflect.Value{}, newError(ErrIndexOutOfRange, "index %d, length %d", seg.Index(), n)
		}
		return t.at(i), nil

	case MappingShape:
		if seg.IsIndex() {
			return reflect.Value{}, newError(ErrTypeMismatch, "%s is a mapping, cannot index by %d", t.typeName(), seg.Index())
		}
		if t.ad != nil {
			x, ok := t.ad.(Mapping).Lookup(seg.Key())
			if !ok {
				return reflect.Value{}, newError(ErrKeyNotFound, "%q", seg.Key())
			}
			return reflect.ValueOf(x), nil
		}
		k, err := mapKey(t.v.Type(), seg.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		res := t.v.MapIndex(k)
		if !res.IsValid() {
			return reflect.Value{}, newError(ErrKeyNotFound, "%q", seg.Key())
		}
		return res, nil

	default:
		if seg.IsIndex() {
			return reflect.Value{}, newError(ErrTypeMismatch, "%s is not a sequence, cannot index by %d", t.typeName(), seg.Index())
		}
		if t.ad != nil {
			x, ok := t.ad.(Record).Attr(seg.Key())
			if !ok {
				return reflect.Value{}, newError(ErrAttributeNotFound, "%s has no attribute %q", t.typeName(), seg.Key())
			}
			return reflect.ValueOf(x), nil
		}
		f, err := field(t, seg.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		return f, nil
	}
}

func field(t target, name string) (reflect.Value, error) {
	if !t.v.IsValid() || t.v.Kind() != reflect.Struct {
		return reflect.Value{}, newError(ErrAttributeNotFound, "%s has no attribute %q", t.typeName(), name)
	}
	fi, ok := fieldsOf(t.v.Type()).lookup(name)
	if !ok {
		return reflect.Value{}, newError(ErrAttributeNotFound, "%s has no attribute %q", t.typeName(), name)
	}
	f, err := t.v.FieldByIndexErr(fi.index)
	if err != nil {
		return reflect.Value{}, newError(ErrAttributeNotFound, "%s.%s: %v", t.typeName(), name, err)
	}
	return f, nil
}

// put writes val at seg in t. If t cannot be changed in place (a slice which
// must grow, a nil map, a struct or array which is not addressable) the
// write is applied to a copy which is returned; the caller must store it
// where t came from.
func put(t target, seg upath.Segment, val reflect.Value, create bool) (reflect.Value, error) {
	if debug.Access() {
		debug.Logf("put %s %s into %s (create=%t)", t.Shape, seg, t.typeName(), create)
	}
	if t.ad != nil {
		return reflect.Value{}, putAdapter(t, seg, iface(val), create)
	}
	v := t.v
	switch t.Shape {
	case SequenceShape:
		if v.Kind() == reflect.String {
			return reflect.Value{}, newError(ErrImmutableTarget, "strings are immutable")
		}
		if seg.IsKey() {
			return reflect.Value{}, newError(ErrTypeMismatch, "%s is a sequence, cannot set key %q", t.typeName(), seg.Key())
		}
		return putIndex(t, seg.Index(), val, create)

	case MappingShape:
		if seg.IsIndex() {
			return reflect.Value{}, newError(ErrTypeMismatch, "%s is a mapping, cannot index by %d", t.typeName(), seg.Index())
		}
		k, err := mapKey(v.Type(), seg.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		if !create && !v.MapIndex(k).IsValid() {
			return reflect.Value{}, newError(ErrKeyNotFound, "%q", seg.Key())
		}
		cv, err := convert(val, v.Type().Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		if !v.IsNil() {
			v.SetMapIndex(k, cv)
			return reflect.Value{}, nil
		}
		m := reflect.MakeMap(v.Type())
		m.SetMapIndex(k, cv)
		if v.CanSet() {
			v.Set(m)
			return reflect.Value{}, nil
		}
		return m, nil

	default:
		if seg.IsIndex() {
			return reflect.Value{}, newError(ErrTypeMismatch, "%s is not a sequence, cannot index by %d", t.typeName(), seg.Index())
		}
		if _, err := field(t, seg.Key()); err != nil {
			return reflect.Value{}, err
		}
		dst, copied := settable(v)
		f, err := field(target{ShapeInfo: t.ShapeInfo, v: dst}, seg.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		if err := assign(f, val); err != nil {
			return reflect.Value{}, err
		}
		if copied {
			return dst, nil
		}
		return reflect.Value{}, nil
	}
}

func putIndex(t target, i int, val reflect.Value, create bool) (reflect.Value, error) {
	v := t.v
	n := v.Len()
	if j, ok := resolveIndex(i, n); ok {
		dst, copied := v, false
		if v.Kind() == reflect.Array {
			dst, copied = settable(v)
		}
		if err := assign(dst.Index(j), val); err != nil {
			return reflect.Value{}, err
		}
		if copied {
			return dst, nil
		}
		return reflect.Value{}, nil
	}
	if !create {
		return reflect.Value{}, newError(ErrIndexOutOfRange, "index %d, length %d", i, n)
	}
	if v.Kind() == reflect.Array {
		return reflect.Value{}, newError(ErrImmutableTarget, "%s is an array and cannot grow", t.typeName())
	}
	cv, err := convert(val, v.Type().Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	var grown reflect.Value
	if i < 0 {
		grown = reflect.MakeSlice(v.Type(), 0, n+1)
		grown = reflect.Append(grown, cv)
		grown = reflect.AppendSlice(grown, v)
	} else {
		grown = reflect.Append(v, cv)
	}
	if v.CanSet() {
		v.Set(grown)
		return reflect.Value{}, nil
	}
	return grown, nil
}

// settable returns v if it can be set, otherwise an addressable copy.
func settable(v reflect.Value) (reflect.Value, bool) {
	if v.CanSet() {
		return v, false
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c, true
}

func putAdapter(t target, seg upath.Segment, x any, create bool) error {
	if !t.Mutable || (t.Hybrid && seg.IsKey()) {
		return newError(ErrImmutableTarget, "%s is read only", t.typeName())
	}
	switch t.Shape {
	case SequenceShape:
		if seg.IsKey() {
			return newError(ErrTypeMismatch, "%s is a sequence, cannot set key %q", t.typeName(), seg.Key())
		}
		s := t.ad.(MutableSequence)
		n := s.Len()
		if i, ok := resolveIndex(seg.Index(), n); ok {
			s.SetAt(i, x)
			return nil
		}
		if !create {
			return newError(ErrIndexOutOfRange, "index %d, length %d", seg.Index(), n)
		}
		if seg.Index() < 0 {
			s.Insert(0, x)
		} else {
			s.Insert(n, x)
		}
		return nil

	case MappingShape:
		if seg.IsIndex() {
			return newError(ErrTypeMismatch, "%s is a mapping, cannot index by %d", t.typeName(), seg.Index())
		}
		m := t.ad.(MutableMapping)
		if !create {
			if _, ok := m.Lookup(seg.Key()); !ok {
				return newError(ErrKeyNotFound, "%q", seg.Key())
			}
		}
		m.Store(seg.Key(), x)
		return nil

	default:
		if seg.IsIndex() {
			return newError(ErrTypeMismatch, "%s is not a sequence, cannot index by %d", t.typeName(), seg.Index())
		}
		r := t.ad.(MutableRecord)
		if !create {
			if _, ok := r.Attr(seg.Key()); !ok {
				return newError(ErrAttributeNotFound, "%s has no attribute %q", t.typeName(), seg.Key())
			}
		}
		r.SetAttr(seg.Key(), x)
		return nil
	}
}

func mapKey(mt reflect.Type, key string) (reflect.Value, error) {
	kt := mt.Key()
	if kt.Kind() != reflect.String {
		return reflect.Value{}, newError(ErrTypeMismatch, "%s has %s keys, not strings", mt, kt)
	}
	return reflect.ValueOf(key).Convert(kt), nil
}

func assign(dst, val reflect.Value) error {
	cv, err := convert(val, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(cv)
	return nil
}

// convert makes val storable in a slot of type to. Besides plain
// assignability, numeric, string and bool values convert between kinds of
// the same family when no information is lost.
func convert(val reflect.Value, to reflect.Type) (reflect.Value, error) {
	if !val.IsValid() {
		switch to.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(to), nil
		}
		return reflect.Value{}, newError(ErrTypeMismatch, "cannot store nil in %s", to)
	}
	if val.Kind() == reflect.Interface && !val.Type().AssignableTo(to) {
		return convert(val.Elem(), to)
	}
	if val.Type().AssignableTo(to) {
		return val, nil
	}
	from := val.Type()
	if family(from.Kind()) != 0 && family(from.Kind()) == family(to.Kind()) && val.CanConvert(to) {
		cv := val.Convert(to)
		if cv.Convert(from).Equal(val) {
			return cv, nil
		}
		return reflect.Value{}, newError(ErrTypeMismatch, "%v does not fit in %s", val, to)
	}
	return reflect.Value{}, newError(ErrTypeMismatch, "cannot store %s in %s", from, to)
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	}
	return 0
}
