package main

import (
	"fmt"
	"io"
	"os"

	"github.com/FooBarShebang/introspection-lib/access"
	"github.com/FooBarShebang/introspection-lib/docio"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='color output'"`
	J       bool   `cli:"name=j aliases=json desc='output json'"`
	Y       bool   `cli:"name=y aliases=yaml desc='output yaml (the default)'"`
	LogFile string `cli:"name=logfile desc='also log to this file (default $UA_LOG_FILE)'"`
	Verbose bool   `cli:"name=v desc='log and trace everything'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) format() docio.Format {
	if cfg.J {
		return docio.FormatJSON
	}
	return docio.FormatYAML
}

// colored follows -color when given and otherwise colors terminals.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return false
			}
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encode(w io.Writer, v any) error {
	d, err := docio.Marshal(v, cfg.format())
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	if cfg.colored(w) {
		d = docio.Colorize(d)
	}
	_, err = w.Write(d)
	return err
}

// sep writes a document separator before all but the first YAML output.
func (cfg *MainConfig) sep(w io.Writer, i int) error {
	if i == 0 || cfg.format() != docio.FormatYAML {
		return nil
	}
	_, err := io.WriteString(w, "---\n")
	return err
}

type GetConfig struct {
	*MainConfig
	Relaxed bool   `cli:"name=relaxed aliases=r desc='print the default for missing elements'"`
	Default string `cli:"name=default aliases=d desc='yaml value printed for missing elements'"`

	Get *cli.Command
}

func (cfg *GetConfig) accessOpts(file string) ([]access.AccessOption, error) {
	opts := []access.AccessOption{access.Strict(!cfg.Relaxed), access.RootName(file)}
	if cfg.Default == "" {
		return opts, nil
	}
	v, err := docio.ParseValue(cfg.Default)
	if err != nil {
		return nil, fmt.Errorf("%w: -default: %w", cli.ErrUsage, err)
	}
	return append(opts, access.Default(v)), nil
}

type SetConfig struct {
	*MainConfig
	Relaxed bool `cli:"name=relaxed aliases=r desc='create missing elements'"`
	Expr    bool `cli:"name=e aliases=expr desc='value is an expression over old, doc and path'"`
	Patch   bool `cli:"name=patch desc='print a json merge patch instead of the document'"`
	Diff    bool `cli:"name=diff desc='print a diff instead of the document'"`
	Write   bool `cli:"name=w desc='write documents back to their files'"`

	Set *cli.Command
}

func (cfg *SetConfig) accessOpts(file string) []access.AccessOption {
	return []access.AccessOption{access.Strict(!cfg.Relaxed), access.RootName(file)}
}

type PatchConfig struct {
	*MainConfig
	JSON bool `cli:"name=json desc='the patch is a json patch (RFC 6902) rather than a merge patch'"`

	Patch *cli.Command
}

type NormConfig struct {
	*MainConfig

	Norm *cli.Command
}

type DepsConfig struct {
	*MainConfig
	Std bool   `cli:"name=std desc='include standard library imports'"`
	Dir string `cli:"name=C desc='directory to load packages from'"`

	Deps *cli.Command
}
