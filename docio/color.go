package docio

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"
)

func colorProp(attrs ...color.Attribute) printer.PrintFunc {
	codes := make([]string, len(attrs))
	for i, a := range attrs {
		codes[i] = fmt.Sprint(int(a))
	}
	p := &printer.Property{
		Prefix: "\x1b[" + strings.Join(codes, ";") + "m",
		Suffix: fmt.Sprintf("\x1b[%dm", color.Reset),
	}
	return func() *printer.Property { return p }
}

// Colorize highlights encoded YAML or JSON text for a terminal.
func Colorize(d []byte) []byte {
	tokens := lexer.Tokenize(string(d))
	p := &printer.Printer{
		MapKey:  colorProp(color.FgHiCyan),
		Anchor:  colorProp(color.FgHiYellow),
		Alias:   colorProp(color.FgHiYellow),
		Bool:    colorProp(color.FgHiMagenta),
		Number:  colorProp(color.FgHiMagenta),
		String:  colorProp(color.FgHiGreen),
		Comment: colorProp(color.FgHiBlack),
	}
	out := p.PrintTokens(tokens)
	if strings.HasSuffix(string(d), "\n") && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return []byte(out)
}

var (
	diffAdd = color.New(color.FgGreen)
	diffDel = color.New(color.FgRed)
)

// ColorizeDiff colors the added and removed lines of a Diff result.
func ColorizeDiff(diff string) string {
	buf := &strings.Builder{}
	for _, line := range strings.SplitAfter(diff, "\n") {
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+"):
			buf.WriteString(diffAdd.Sprint(body))
		case strings.HasPrefix(body, "-"):
			buf.WriteString(diffDel.Sprint(body))
		default:
			buf.WriteString(body)
		}
		if strings.HasSuffix(line, "\n") {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

func init() {
	// callers decide when to color, not the process' stdout
	diffAdd.EnableColor()
	diffDel.EnableColor()
}
