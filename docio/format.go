package docio

import (
	"errors"
	"fmt"
)

// Format selects the rendering of a document.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"y":    FormatYAML,
		"yaml": FormatYAML,
		"j":    FormatJSON,
		"json": FormatJSON,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case FormatYAML:
		return []byte("yaml"), nil
	case FormatJSON:
		return []byte("json"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}
