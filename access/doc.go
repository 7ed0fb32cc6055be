// Package access reads and writes values at arbitrary paths inside nested Go
// object graphs.
//
// Every value on a path is dispatched on one of three shapes:
//
//   - sequences: slices, arrays, strings and Sequence implementations,
//     addressed by integer index (negative counts from the end)
//   - mappings: maps with string keys and Mapping implementations,
//     addressed by key
//   - records: structs (exported fields, renamed with an `access:"name"`
//     tag), Record implementations such as Object, and as a fallback any
//     other value, addressed by attribute name
//
// A sequence may also expose read only named fields (see Tuple), in which
// case it accepts keys for reading.
//
// # Usage
//
// Single level access:
//
//	v, err := access.Get(obj, upath.Key("name"))
//	err = access.SetOrCreate(&list, upath.Index(-1), v)
//
// Path access:
//
//	v, err := access.GetElement(doc, "spec.containers", access.Relaxed(), access.Default(nil))
//	v, err = access.GetElement(doc, []any{"items", 0, "name"})
//	err = access.SetElement(&doc, []any{"items", 3, "name"}, "x", access.Relaxed())
//
// Paths are normalized with upath.Normalize: strings are split on '.',
// integers are indices, and nested slices are flattened.
//
// # Errors
//
// Failures are *Error values. Their kind is one of the Err* variables and is
// matched with errors.Is. The message names the element being accessed and
// the call stack at the point of failure is kept, see Error.Traceback.
//
// # Mutability
//
// Values passed to the write functions must be changeable in place: pass
// pointers to structs, arrays and to slices which may grow. Inside a graph
// the walker takes care of containers stored by value, writing modified
// copies back into their parents.
package access
