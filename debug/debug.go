// Package debug holds environment driven tracing switches.
//
//	UA_DEBUG_NORMALIZE  trace path normalization
//	UA_DEBUG_WALK       trace each step of GetElement / SetElement
//	UA_DEBUG_ACCESS     trace single level reads and writes
package debug

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

type debug struct {
	Normalize bool
	Walk      bool
	Access    bool
}

var (
	d      *debug
	logger atomic.Pointer[slog.Logger]
)

func init() {
	d = &debug{}
	d.Normalize = boolEnv("UA_DEBUG_NORMALIZE")
	d.Walk = boolEnv("UA_DEBUG_WALK")
	d.Access = boolEnv("UA_DEBUG_ACCESS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Normalize() bool {
	return d.Normalize
}
func Walk() bool {
	return d.Walk
}
func Access() bool {
	return d.Access
}

// Set overrides the switches read from the environment. It is meant for
// tests and for the command line tool's -v flag.
func Set(normalize, walk, access bool) {
	d = &debug{Normalize: normalize, Walk: walk, Access: access}
}

// SetLogger directs Logf output to l. A nil l restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func current() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Logf emits a formatted debug record.
func Logf(msg string, args ...any) {
	l := current()
	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.Log(ctx, slog.LevelDebug, fmt.Sprintf(msg, args...))
}
