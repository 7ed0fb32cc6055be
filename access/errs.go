package access

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/FooBarShebang/introspection-lib/upath"
)

// Error kinds. Match them with errors.Is; every *Error unwraps to its kind.
var (
	ErrInvalidPathType   = upath.ErrInvalidPathType
	ErrEmptyPath         = errors.New("empty path")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrKeyNotFound       = errors.New("key not found")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrImmutableTarget   = errors.New("immutable target")

	// ErrFieldNotFound reports a missing named field of a record-sequence
	// hybrid. It is also an ErrAttributeNotFound.
	ErrFieldNotFound error = &kindError{msg: "field not found", parent: ErrAttributeNotFound}
)

type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.parent }

// IsNotFound reports whether err is one of the not-found kinds: index out of
// range, key not found or attribute (field) not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrKeyNotFound) ||
		errors.Is(err, ErrAttributeNotFound)
}

// Error is the failure value returned by this package.
//
// Context holds the path frames the failure was observed at, innermost first.
// The call stack at the point of detection is kept and can be rendered with
// Traceback or the %+v verb.
type Error struct {
	Kind    error
	Message string
	Context []string

	stack error
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		stack:   errors.WithStackDepth(kind, 1),
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	for i := len(e.Context) - 1; i >= 0; i-- {
		b.WriteString(e.Context[i])
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e.stack == nil {
		return e.Kind
	}
	return e.stack
}

// WithContext returns a copy of e with frame appended to its context.
func (e *Error) WithContext(frame string) *Error {
	c := *e
	c.Context = append(append([]string(nil), e.Context...), frame)
	return &c
}

// Traceback renders the call stack recorded when the error was created.
func (e *Error) Traceback() string {
	if e.stack == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.stack)
}

// Source returns the function and line the error was detected at.
func (e *Error) Source() (file string, line int, fn string, ok bool) {
	if e.stack == nil {
		return "", 0, "", false
	}
	return errors.GetOneLineSource(e.stack)
}

func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, e.Error())
			io.WriteString(s, "\n")
			io.WriteString(s, e.Traceback())
			return
		}
		io.WriteString(s, e.Error())
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

func withContext(err error, frame string) error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.WithContext(frame)
	}
	return err
}
