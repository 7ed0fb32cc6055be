// Package logging provides a logger writing to a console and, optionally, a
// log file at the same time.
//
// Each of the two outputs accepts records within its own inclusive level
// range, on top of the logger's overall level:
//
//	log := logging.New("ua", logging.WithConsoleRange(logging.LevelInfo, logging.LevelWarning))
//	defer log.Close()
//	if err := log.SetLogFile("ua.log"); err != nil { ... }
//	log.Error("lookup failed", "path", p) // file only
//
// Console output drops timestamps and is colored by level when writing to a
// terminal. File output is appended to, with timestamps and source
// locations.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Logger is a *slog.Logger with runtime configurable outputs. Loggers derived
// with Child, With and WithGroup share the outputs of their parent.
type Logger struct {
	*slog.Logger
	s    *sinks
	name string
}

// Option configures New.
type Option func(*sinks)

// WithLevel sets the overall level; records below it are dropped.
func WithLevel(l slog.Level) Option {
	return func(s *sinks) { s.level = l }
}

// WithConsole sets the console writer, os.Stderr by default.
func WithConsole(w io.Writer) Option {
	return func(s *sinks) { s.consoleW = w }
}

// WithColor forces colored console output on or off. By default output is
// colored when the console is a terminal.
func WithColor(v bool) Option {
	return func(s *sinks) { s.color = &v }
}

func WithConsoleRange(lo, hi slog.Level) Option {
	return func(s *sinks) { s.consoleRange = Range{Min: lo, Max: hi} }
}

func WithFileRange(lo, hi slog.Level) Option {
	return func(s *sinks) { s.fileRange = Range{Min: lo, Max: hi} }
}

// New returns a logger named name. Without options it accepts every level
// and writes to os.Stderr only.
func New(name string, opts ...Option) *Logger {
	s := &sinks{
		level:        LevelAll,
		consoleRange: FullRange,
		fileRange:    FullRange,
		consoleW:     os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.consoleH = s.newConsoleHandler()
	l := &Logger{s: s, name: name}
	l.Logger = slog.New(&handler{s: s})
	if name != "" {
		l.Logger = l.Logger.With(slog.String("logger", name))
	}
	return l
}

// Discard returns a logger which drops everything.
func Discard() *Logger {
	return New("", WithConsole(io.Discard), WithLevel(LevelNone))
}

func (l *Logger) Name() string { return l.name }

// Child returns a logger named "<l's name>.<name>" sharing l's outputs.
func (l *Logger) Child(name string) *Logger {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	return &Logger{
		Logger: slog.New(&handler{s: l.s}).With(slog.String("logger", full)),
		s:      l.s,
		name:   full,
	}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), s: l.s, name: l.name}
}

func (l *Logger) WithGroup(name string) *Logger {
	return &Logger{Logger: l.Logger.WithGroup(name), s: l.s, name: l.name}
}

// Critical logs at LevelCritical.
func (l *Logger) Critical(msg string, args ...any) {
	ctx := context.Background()
	if !l.Enabled(ctx, LevelCritical) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	r := slog.NewRecord(time.Now(), LevelCritical, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

func (l *Logger) SetLevel(level slog.Level) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.level = level
}

func (l *Logger) Level() slog.Level {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.level
}

func (l *Logger) SetConsoleRange(lo, hi slog.Level) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.consoleRange = Range{Min: lo, Max: hi}
}

func (l *Logger) ConsoleRange() Range {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.consoleRange
}

func (l *Logger) SetFileRange(lo, hi slog.Level) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.fileRange = Range{Min: lo, Max: hi}
}

func (l *Logger) FileRange() Range {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.fileRange
}

// SetConsole redirects console output to w.
func (l *Logger) SetConsole(w io.Writer) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.consoleW = w
	l.s.consoleH = l.s.newConsoleHandler()
}

// SetLogFile starts logging into path, appending if it exists. An empty
// path selects "<YYYYMMDD_HHMMSS>_<name>.log" in the working directory. A
// previously open log file with a different path is closed first; the same
// path is a no-op.
func (l *Logger) SetLogFile(path string) error {
	if path == "" {
		name := l.name
		if name == "" {
			name = "log"
		}
		path = time.Now().Format("20060102_150405") + "_" + name + ".log"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("log file %s: %w", path, err)
	}
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.file != nil && l.s.filePath == abs {
		return nil
	}
	if err := l.s.closeFile(); err != nil {
		return err
	}
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	l.s.file, l.s.filePath = f, abs
	l.s.fileH = newFileHandler(f)
	return nil
}

// LogFile returns the absolute path of the current log file, or "".
func (l *Logger) LogFile() string {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.filePath
}

// DisableFileLogging closes the log file, if any.
func (l *Logger) DisableFileLogging() error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.closeFile()
}

// Close releases the log file. The console output stays usable.
func (l *Logger) Close() error {
	return l.DisableFileLogging()
}

// sinks is the configuration shared by a logger and the loggers derived from
// it.
type sinks struct {
	mu sync.Mutex

	level        slog.Level
	consoleRange Range
	fileRange    Range

	consoleW  io.Writer
	color     *bool
	consoleCW *colorWriter
	consoleH  slog.Handler

	file     *os.File
	filePath string
	fileH    slog.Handler
}

func (s *sinks) closeFile() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file, s.filePath, s.fileH = nil, "", nil
	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

func (s *sinks) colored() bool {
	if s.color != nil {
		return *s.color
	}
	f, ok := s.consoleW.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

const floor = slog.Level(-1 << 20)

func (s *sinks) newConsoleHandler() slog.Handler {
	w := s.consoleW
	s.consoleCW = nil
	if s.colored() {
		s.consoleCW = &colorWriter{w: w}
		w = s.consoleCW
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: floor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) != 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				l, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				return slog.String(slog.LevelKey, LevelName(l))
			}
			return a
		},
	})
}

func newFileHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     floor,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok {
					return slog.String(slog.LevelKey, LevelName(l))
				}
			}
			return a
		},
	})
}

// handler fans records out to the console and file handlers of s. Attributes
// and groups are recorded as ops and applied to whichever handlers are
// current when a record is handled.
type handler struct {
	s   *sinks
	ops []func(slog.Handler) slog.Handler
}

func (h *handler) Enabled(_ context.Context, l slog.Level) bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if l < h.s.level {
		return false
	}
	return h.s.consoleRange.Contains(l) || (h.s.fileH != nil && h.s.fileRange.Contains(l))
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if r.Level < h.s.level {
		return nil
	}
	var errs []error
	if h.s.consoleRange.Contains(r.Level) {
		if h.s.consoleCW != nil {
			h.s.consoleCW.c = levelColors[LevelName(r.Level)]
		}
		errs = append(errs, h.apply(h.s.consoleH).Handle(ctx, r))
	}
	if h.s.fileH != nil && h.s.fileRange.Contains(r.Level) {
		errs = append(errs, h.apply(h.s.fileH).Handle(ctx, r.Clone()))
	}
	return errors.Join(errs...)
}

func (h *handler) apply(base slog.Handler) slog.Handler {
	for _, op := range h.ops {
		base = op(base)
	}
	return base
}

func (h *handler) with(op func(slog.Handler) slog.Handler) *handler {
	return &handler{s: h.s, ops: append(slices.Clip(h.ops), op)}
}

func (h *handler) WithAttrs(as []slog.Attr) slog.Handler {
	if len(as) == 0 {
		return h
	}
	return h.with(func(b slog.Handler) slog.Handler { return b.WithAttrs(as) })
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(func(b slog.Handler) slog.Handler { return b.WithGroup(name) })
}
