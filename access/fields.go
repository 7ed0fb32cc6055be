package access

import (
	"reflect"
	"sync"
)

// TagName is the struct tag consulted for attribute names. `access:"-"`
// hides a field.
const TagName = "access"

type fieldInfo struct {
	name  string
	index []int
}

type structFields struct {
	list   []fieldInfo
	byName map[string]int
}

var fieldCache sync.Map // reflect.Type -> *structFields

func fieldsOf(rt reflect.Type) *structFields {
	if f, ok := fieldCache.Load(rt); ok {
		return f.(*structFields)
	}
	sf := &structFields{byName: map[string]int{}}
	for _, f := range reflect.VisibleFields(rt) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				// promoted fields are listed separately
				continue
			}
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		if _, dup := sf.byName[name]; dup {
			continue
		}
		sf.byName[name] = len(sf.list)
		sf.list = append(sf.list, fieldInfo{name: name, index: f.Index})
	}
	actual, _ := fieldCache.LoadOrStore(rt, sf)
	return actual.(*structFields)
}

func (sf *structFields) lookup(name string) (fieldInfo, bool) {
	i, ok := sf.byName[name]
	if !ok {
		return fieldInfo{}, false
	}
	return sf.list[i], true
}

// AttrNames lists the attribute names of obj: exported struct fields (by tag
// name) for structs, the adapter's names for Object and Tuple values, and nil
// otherwise.
func AttrNames(obj any) []string {
	t := classify(reflect.ValueOf(obj))
	if t.ad != nil {
		switch x := t.ad.(type) {
		case interface{ AttrNames() []string }:
			return x.AttrNames()
		case NamedFields:
			return x.FieldNames()
		}
		return nil
	}
	if !t.v.IsValid() || t.v.Kind() != reflect.Struct {
		return nil
	}
	sf := fieldsOf(t.v.Type())
	res := make([]string, len(sf.list))
	for i := range sf.list {
		res[i] = sf.list[i].name
	}
	return res
}
