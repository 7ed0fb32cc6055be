// Package upath provides universal path segments, normalization of generic
// path descriptions and a small textual path syntax.
//
// A path is a flat sequence of segments, each either an integer index or a
// string key. Callers usually describe paths generically: an integer, a
// dotted string, or a (possibly nested) slice mixing both.
//
// # Usage
//
//	// Normalize a generic path
//	p, err := upath.Normalize([]any{"a.b", 0, []any{"c"}})
//	// p is [Key(a) Key(b) Index(0) Key(c)]
//
//	// Parse the textual syntax
//	p, err = upath.Parse("a.b[0].'dotted.key'")
//
//	// Render
//	s := p.String() // "a.b[0].'dotted.key'"
//
// # Path Examples
//
//	"a.b.c"          // three keys
//	"a[0][-1]"       // key, index, negative index
//	"$.'x.y'[2]"     // leading $ is optional, quoted keys may hold dots
//
// # Related Packages
//
//   - github.com/FooBarShebang/introspection-lib/access - reading and writing by path
package upath
