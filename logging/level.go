package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const (
	// LevelAll lets every record through a range or a logger level.
	LevelAll      = slog.LevelDebug - 1
	LevelDebug    = slog.LevelDebug
	LevelInfo     = slog.LevelInfo
	LevelWarning  = slog.LevelWarn
	LevelError    = slog.LevelError
	LevelCritical = slog.LevelError + 4
	// LevelNone blocks every record as a logger level or range minimum.
	LevelNone = LevelCritical + 1
)

// Range is an inclusive window of levels.
type Range struct {
	Min, Max slog.Level
}

// FullRange accepts every level.
var FullRange = Range{Min: LevelAll, Max: LevelNone}

func (r Range) Contains(l slog.Level) bool {
	return l >= r.Min && l <= r.Max
}

func (r Range) String() string {
	return LevelName(r.Min) + ".." + LevelName(r.Max)
}

var levelNames = map[string]slog.Level{
	"all":      LevelAll,
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warning":  LevelWarning,
	"warn":     LevelWarning,
	"error":    LevelError,
	"critical": LevelCritical,
	"none":     LevelNone,
}

// ParseLevel parses a level name (all, debug, info, warning, error, critical,
// none; case insensitive) or an integer level.
func ParseLevel(s string) (slog.Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return slog.Level(n), nil
}

// LevelName returns the name of the band l falls in.
func LevelName(l slog.Level) string {
	switch {
	case l <= LevelAll:
		return "ALL"
	case l < LevelInfo:
		return "DEBUG"
	case l < LevelWarning:
		return "INFO"
	case l < LevelError:
		return "WARNING"
	case l < LevelCritical:
		return "ERROR"
	case l < LevelNone:
		return "CRITICAL"
	default:
		return "NONE"
	}
}

var levelColors = map[string]*color.Color{
	"DEBUG":    color.New(color.FgCyan),
	"INFO":     color.New(color.FgGreen),
	"WARNING":  color.New(color.FgYellow),
	"ERROR":    color.New(color.FgRed),
	"CRITICAL": color.New(color.FgHiRed, color.Bold),
}

func init() {
	// color decides per logger, not from the process' stdout
	for _, c := range levelColors {
		c.EnableColor()
	}
}

// colorWriter colors each line written to it. Handlers write one record per
// call; c is set by the caller under the sinks lock before each record.
type colorWriter struct {
	w io.Writer
	c *color.Color
}

func (cw *colorWriter) Write(p []byte) (int, error) {
	if cw.c == nil {
		return cw.w.Write(p)
	}
	line := strings.TrimSuffix(string(p), "\n")
	if _, err := io.WriteString(cw.w, cw.c.Sprint(line)+"\n"); err != nil {
		return 0, err
	}
	return len(p), nil
}
