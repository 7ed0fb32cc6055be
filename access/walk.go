package access

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/FooBarShebang/introspection-lib/debug"
	"github.com/FooBarShebang/introspection-lib/upath"
)

type accessOpts struct {
	strict bool
	def    any
	root   string
}

// AccessOption configures GetElement and SetElement.
type AccessOption func(*accessOpts)

// Strict selects the failure policy. In strict mode (the default) a missing
// element is an error; otherwise GetElement returns the default value and
// SetElement creates what is missing.
func Strict(v bool) AccessOption {
	return func(o *accessOpts) { o.strict = v }
}

// Relaxed is Strict(false).
func Relaxed() AccessOption {
	return Strict(false)
}

// Default sets the value GetElement returns for a missing element in relaxed
// mode.
func Default(v any) AccessOption {
	return func(o *accessOpts) { o.def = v }
}

// RootName sets the name given to the root object in error context. It
// defaults to the name of the root's type.
func RootName(name string) AccessOption {
	return func(o *accessOpts) { o.root = name }
}

func newAccessOpts(obj any, opts []AccessOption) *accessOpts {
	o := &accessOpts{strict: true, root: typeName(obj)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetElement returns the element of obj at path p.
//
// p is any generic path accepted by upath.Normalize. Each segment is applied
// with Get. A type mismatch between a segment and the object it is applied
// to always fails. A missing element fails in strict mode and yields the
// Default value in relaxed mode.
//
// Errors carry the name of the element being accessed, such as
// ComplexStruct.c["e"][2].a.
func GetElement(obj any, p any, opts ...AccessOption) (any, error) {
	o := newAccessOpts(obj, opts)
	path, err := canonical(p)
	if err != nil {
		return nil, err
	}
	cur, name := reflect.ValueOf(obj), o.root
	for _, seg := range path {
		t := classify(cur)
		next := extendName(name, t, seg)
		if debug.Walk() {
			debug.Logf("get %s (%s)", next, t.Shape)
		}
		child, err := get(t, seg)
		if err != nil {
			if !o.strict && IsNotFound(err) {
				return o.def, nil
			}
			return nil, withContext(err, next)
		}
		cur, name = child, next
	}
	return iface(cur), nil
}

// SetElement stores value in obj at path p.
//
// In strict mode every element along p must exist and the last one is
// overwritten with SetStrict semantics. In relaxed mode missing intermediate
// elements are created: an empty []any when the following segment is an
// index, an empty map[string]any when it is a key. The last segment is then
// written with SetOrCreate semantics.
//
// Containers which cannot be changed in place, like a slice stored in a map
// that must grow, are replaced in their parent. If the root itself would
// need replacing, obj must be a pointer to it, else SetElement fails with
// ErrImmutableTarget.
func SetElement(obj any, p any, value any, opts ...AccessOption) error {
	o := newAccessOpts(obj, opts)
	path, err := canonical(p)
	if err != nil {
		return err
	}
	w := &walker{accessOpts: o, path: path}
	repl, err := w.setAt(reflect.ValueOf(obj), 0, o.root, reflect.ValueOf(value))
	if err != nil {
		return err
	}
	if repl.IsValid() {
		slot, ok := rootSlot(obj)
		if !ok || !repl.Type().AssignableTo(slot.Type()) {
			return newError(ErrImmutableTarget, "%s cannot be changed in place, pass a pointer", o.root).WithContext(o.root)
		}
		slot.Set(repl)
	}
	return nil
}

// rootSlot returns the variable obj points to, such as the interface a *any
// points to.
func rootSlot(obj any) (reflect.Value, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, false
	}
	v = v.Elem()
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	return v, v.CanSet()
}

type walker struct {
	*accessOpts
	path upath.Path
}

// setAt writes val at w.path[depth:] below cur and returns a replacement for
// cur when cur could not be changed in place.
func (w *walker) setAt(cur reflect.Value, depth int, name string, val reflect.Value) (reflect.Value, error) {
	t := classify(cur)
	seg := w.path[depth]
	next := extendName(name, t, seg)
	if debug.Walk() {
		debug.Logf("set %s (%s, depth %d)", next, t.Shape, depth)
	}
	if depth == len(w.path)-1 {
		repl, err := put(t, seg, val, !w.strict)
		if err != nil {
			return reflect.Value{}, withContext(err, next)
		}
		return repl, nil
	}
	child, err := get(t, seg)
	if err != nil {
		if w.strict || !IsNotFound(err) {
			return reflect.Value{}, withContext(err, next)
		}
		child = newContainer(w.path[depth+1])
		if debug.Walk() {
			debug.Logf("create %s as %s", next, child.Type())
		}
		if _, err := w.setAt(child, depth+1, next, val); err != nil {
			return reflect.Value{}, err
		}
		repl, err := put(t, seg, child, true)
		if err != nil {
			return reflect.Value{}, withContext(err, next)
		}
		return repl, nil
	}
	childRepl, err := w.setAt(child, depth+1, next, val)
	if err != nil {
		return reflect.Value{}, err
	}
	if !childRepl.IsValid() {
		return reflect.Value{}, nil
	}
	if debug.Walk() {
		debug.Logf("write back %s", next)
	}
	repl, err := put(t, seg, childRepl, false)
	if err != nil {
		return reflect.Value{}, withContext(err, next)
	}
	return repl, nil
}

// newContainer returns an addressable empty container suited to be indexed
// by seg.
func newContainer(seg upath.Segment) reflect.Value {
	var c reflect.Value
	if seg.IsIndex() {
		c = reflect.New(reflect.TypeOf([]any(nil))).Elem()
		c.Set(reflect.ValueOf([]any{}))
	} else {
		c = reflect.New(reflect.TypeOf(map[string]any(nil))).Elem()
		c.Set(reflect.ValueOf(map[string]any{}))
	}
	return c
}

func canonical(p any) (upath.Path, error) {
	path, err := upath.Normalize(p)
	if err != nil {
		msg := strings.TrimPrefix(err.Error(), ErrInvalidPathType.Error()+": ")
		return nil, newError(ErrInvalidPathType, "%s", msg)
	}
	if len(path) == 0 {
		return nil, newError(ErrEmptyPath, "%#v has no segments", p)
	}
	return path, nil
}

func extendName(name string, t target, seg upath.Segment) string {
	switch {
	case seg.IsIndex():
		return fmt.Sprintf("%s[%d]", name, seg.Index())
	case t.Shape == MappingShape:
		return fmt.Sprintf("%s[%q]", name, seg.Key())
	default:
		return name + "." + seg.Key()
	}
}
