// Package docio reads and writes the plain Go documents the access package
// walks: map[string]any, []any and scalars.
//
// YAML and JSON input are both decoded by Decode. Integers come back as int
// when they fit, so decoded values compare equal to Go literals:
//
//	doc, err := docio.Decode([]byte("a: {b: [1, 2]}"))
//	v, err := access.GetElement(doc, upath.MustParse("a.b[1]")) // 2
//
// MergePatch and Diff describe the change between two documents, ApplyMergePatch
// and ApplyJSONPatch apply RFC 7386 and RFC 6902 patches.
package docio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Decode decodes a YAML or JSON document. Empty input is an empty mapping.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if v == nil {
		return map[string]any{}, nil
	}
	return normalize(v), nil
}

// DecodeReader reads r to the end and decodes it.
func DecodeReader(r io.Reader) (any, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(d)
}

// ParseValue decodes a single inline value such as a command line argument:
// "3" is an int, "[1, 2]" a []any, "null" nil. The empty string stays a
// string.
func ParseValue(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return s, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parsing value %q: %w", s, err)
	}
	return normalize(v), nil
}

// Encode writes v to w in format f. YAML output ends with a newline, as does
// JSON output which is indented by two spaces.
func Encode(w io.Writer, v any, f Format) error {
	d, err := Marshal(v, f)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		d, err := yaml.MarshalWithOptions(v, yaml.Indent(2))
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return d, nil
	case FormatJSON:
		d, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(d, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, f)
	}
}

// Clone deep copies a document by encoding and decoding it. Struct values
// come back as mappings.
func Clone(v any) (any, error) {
	d, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cloning: %w", err)
	}
	var res any
	if err := yaml.Unmarshal(d, &res); err != nil {
		return nil, fmt.Errorf("cloning: %w", err)
	}
	return normalize(res), nil
}

// MergePatch returns the JSON merge patch taking before to after.
func MergePatch(before, after any) ([]byte, error) {
	a, err := json.Marshal(before)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(after)
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("creating merge patch: %w", err)
	}
	return p, nil
}

// ApplyMergePatch applies a JSON merge patch to doc, returning a new
// document.
func ApplyMergePatch(doc any, patch []byte) (any, error) {
	d, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("applying merge patch: %w", err)
	}
	return Decode(out)
}

// ApplyJSONPatch applies a list of JSON patch operations to doc, returning a
// new document.
func ApplyJSONPatch(doc any, ops []byte) (any, error) {
	p, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, fmt.Errorf("decoding json patch: %w", err)
	}
	d, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := p.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("applying json patch: %w", err)
	}
	return Decode(out)
}

// Diff renders before and after in format f and returns their line diff,
// each line prefixed by "-", "+" or " ". Equal documents give "".
func Diff(before, after any, f Format) (string, error) {
	from, err := Marshal(before, f)
	if err != nil {
		return "", err
	}
	to, err := Marshal(after, f)
	if err != nil {
		return "", err
	}
	if bytes.Equal(from, to) {
		return "", nil
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(from), string(to))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	buf := &strings.Builder{}
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteByte('\n')
			}
		}
	}
	return buf.String(), nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}
		return x
	case int64:
		if x >= math.MinInt && x <= math.MaxInt {
			return int(x)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}
