package upath

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/FooBarShebang/introspection-lib/debug"
)

var (
	ErrInvalidPathType = errors.New("invalid path type")
	ErrParse           = errors.New("path parse error")
)

// Normalize flattens a generic path description into a canonical Path.
//
// Accepted leaves are integers of any kind, strings (split on '.', empty
// pieces kept as empty keys) and Segments (kept as they are). Slices and
// arrays are normalized element by element and concatenated, so nesting is
// allowed at any depth. Anything else fails with ErrInvalidPathType.
//
// An empty sequence, or nested empty sequences, yield an empty Path and no
// error.
func Normalize(p any) (Path, error) {
	res, err := appendNormalized(Path{}, p)
	if err != nil {
		return nil, err
	}
	if debug.Normalize() {
		debug.Logf("normalize %#v -> %s (%d segments)", p, res, len(res))
	}
	return res, nil
}

// MustNormalize is like Normalize but panics on error.
func MustNormalize(p any) Path {
	res, err := Normalize(p)
	if err != nil {
		panic(err)
	}
	return res
}

func appendNormalized(dst Path, p any) (Path, error) {
	switch x := p.(type) {
	case Segment:
		return append(dst, x), nil
	case Path:
		return append(dst, x...), nil
	case string:
		return appendSplit(dst, x), nil
	case int:
		return append(dst, Index(x)), nil
	case nil:
		return nil, fmt.Errorf("%w: nil is not an integer, string or sequence", ErrInvalidPathType)
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.String:
		return appendSplit(dst, v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < math.MinInt || i > math.MaxInt {
			return nil, fmt.Errorf("%w: index %d overflows int", ErrInvalidPathType, i)
		}
		return append(dst, Index(int(i))), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt {
			return nil, fmt.Errorf("%w: index %d overflows int", ErrInvalidPathType, u)
		}
		return append(dst, Index(int(u))), nil
	case reflect.Slice, reflect.Array:
		var err error
		for i := 0; i < v.Len(); i++ {
			dst, err = appendNormalized(dst, v.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("%w in %v", err, p)
			}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("%w: %T (%v) is not an integer, string or sequence", ErrInvalidPathType, p, p)
	}
}

func appendSplit(dst Path, s string) Path {
	for _, k := range strings.Split(s, ".") {
		dst = append(dst, Key(k))
	}
	return dst
}
