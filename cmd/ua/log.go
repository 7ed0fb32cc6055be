package main

import (
	"os"

	"github.com/FooBarShebang/introspection-lib/debug"
	"github.com/FooBarShebang/introspection-lib/logging"
)

var theLog = logging.Discard()

// setupLog logs warnings and worse to stderr, everything with -v, and
// everything to the log file when one is given.
func setupLog(cfg *MainConfig) error {
	log := logging.New("ua", logging.WithConsole(os.Stderr))
	if !cfg.Verbose {
		log.SetConsoleRange(logging.LevelWarning, logging.LevelNone)
	}
	path := cfg.LogFile
	if path == "" {
		path = os.Getenv("UA_LOG_FILE")
	}
	if path != "" {
		if err := log.SetLogFile(path); err != nil {
			return err
		}
	}
	if cfg.Verbose {
		debug.Set(true, true, true)
	}
	debug.SetLogger(log.Child("trace").Logger)
	theLog = log
	return nil
}
