package upath

import (
	"bytes"
	"strconv"
	"strings"
)

// Segment is one step of a path: either an integer index or a string key.
// The zero Segment is Index(0).
type Segment struct {
	key   string
	index int
	isKey bool
}

// Index returns an index segment. Negative indices count from the end of a
// sequence.
func Index(i int) Segment {
	return Segment{index: i}
}

// Key returns a key segment, addressing a mapping entry or a record
// attribute.
func Key(k string) Segment {
	return Segment{key: k, isKey: true}
}

func (s Segment) IsKey() bool   { return s.isKey }
func (s Segment) IsIndex() bool { return !s.isKey }

// Key returns the key of a key segment and "" for index segments.
func (s Segment) Key() string {
	return s.key
}

// Index returns the index of an index segment and 0 for key segments.
func (s Segment) Index() int {
	if s.isKey {
		return 0
	}
	return s.index
}

// String returns the textual form of the segment alone:
//   - Key("a") → "a"
//   - Key("a.b") → "'a.b'"
//   - Index(3) → "[3]"
func (s Segment) String() string {
	if s.isKey {
		return quoteField(s.key)
	}
	return "[" + strconv.Itoa(s.index) + "]"
}

// Path is a canonical path: a flat sequence of segments.
type Path []Segment

// String renders p in the syntax accepted by Parse, without the leading '$'.
func (p Path) String() string {
	buf := bytes.NewBuffer(nil)
	for i, seg := range p {
		if seg.IsIndex() {
			buf.WriteString(seg.String())
			continue
		}
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(quoteField(seg.key))
	}
	return buf.String()
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Keys returns the segments as plain values: string for keys, int for
// indices.
func (p Path) Keys() []any {
	res := make([]any, len(p))
	for i, seg := range p {
		if seg.isKey {
			res[i] = seg.key
		} else {
			res[i] = seg.index
		}
	}
	return res
}

func needsQuote(f string) bool {
	return f == "" || strings.ContainsAny(f, "'.*$[]\\")
}

func quoteField(f string) string {
	if !needsQuote(f) {
		return f
	}
	f = strings.ReplaceAll(f, "\\", "\\\\")
	return "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}
