package upath

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses the textual path syntax into a Path.
//
// Syntax:
//   - "a.b"        → keys separated by '.'
//   - "a[0]"       → index (may be negative: "a[-1]")
//   - "a.'x.y'"    → quoted key, '\'' and '\\' escaped with a backslash
//   - "$.a" / "$"  → optional leading '$' naming the root
//   - ""           → empty path
//
// Unlike Normalize, Parse produces Index segments for bracketed integers, so
// "a[0]" and "a.0" differ: the latter is two keys.
func Parse(s string) (Path, error) {
	res := Path{}
	if strings.HasPrefix(s, "$") {
		s = s[1:]
		if len(s) == 0 {
			return res, nil
		}
		if s[0] == '.' {
			s = s[1:]
		} else if s[0] != '[' {
			return nil, fmt.Errorf("%w: expected '.' or '[' after '$'", ErrParse)
		}
	}
	if len(s) == 0 {
		return res, nil
	}
	field := s[0] != '['
	for {
		if field {
			f, rest, err := parseField(s)
			if err != nil {
				return nil, err
			}
			res = append(res, Key(f))
			s = rest
		} else {
			i := strings.IndexByte(s, ']')
			if i == -1 {
				return nil, fmt.Errorf("%w: expected '[' <index> ']'", ErrParse)
			}
			index, err := parseIndex(s[1:i])
			if err != nil {
				return nil, err
			}
			res = append(res, Index(index))
			s = s[i+1:]
		}
		if len(s) == 0 {
			return res, nil
		}
		switch s[0] {
		case '.':
			s = s[1:]
			field = true
		case '[':
			field = false
		default:
			return nil, fmt.Errorf("%w: expected '.' or '[' at %q", ErrParse, s)
		}
	}
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parseIndex(is string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(is))
	if err != nil {
		return 0, fmt.Errorf("%w: bad index %q", ErrParse, is)
	}
	return i, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 || frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case escaped:
			escaped = false
			res = append(res, c)
		case c == '\\':
			escaped = true
		case c == '\'':
			return string(res), frag[i+1:], nil
		default:
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("%w: end of string scanning for \"'\"", ErrParse)
}
