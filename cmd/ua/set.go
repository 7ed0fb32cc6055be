package main

import (
	"fmt"
	"io"

	"github.com/FooBarShebang/introspection-lib/access"
	"github.com/FooBarShebang/introspection-lib/docio"
	"github.com/FooBarShebang/introspection-lib/upath"

	"github.com/scott-cotton/cli"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: set requires a path and a value", cli.ErrUsage)
	}
	if count(cfg.Patch, cfg.Diff, cfg.Write) > 1 {
		return fmt.Errorf("%w: at most one of -patch -diff -w", cli.ErrUsage)
	}
	p, err := upath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	files := fileArgs(args[2:])
	if cfg.Write {
		for _, file := range files {
			if file == "-" {
				return fmt.Errorf("%w: -w cannot write back to stdin", cli.ErrUsage)
			}
		}
	}
	for i, file := range files {
		if err := setFile(cfg, cc.Out, cc.In, file, p, args[1], i); err != nil {
			return err
		}
	}
	return nil
}

func setFile(cfg *SetConfig, w io.Writer, in io.Reader, file string, p upath.Path, arg string, i int) error {
	doc, err := readDoc(in, file)
	if err != nil {
		return err
	}
	var before any
	if cfg.Patch || cfg.Diff {
		if before, err = docio.Clone(doc); err != nil {
			return err
		}
	}
	val, err := cfg.value(doc, p, arg)
	if err != nil {
		return err
	}
	log := theLog.With("file", file, "path", p.String())
	log.Debug("set", "value", val)
	if err := access.SetElement(&doc, p, val, cfg.accessOpts(file)...); err != nil {
		return fmt.Errorf("error setting %s: %w", p, err)
	}
	switch {
	case cfg.Write:
		if err := writeDoc(file, doc, cfg.format()); err != nil {
			return fmt.Errorf("error writing %s: %w", file, err)
		}
		log.Info("written")
		return nil
	case cfg.Patch:
		d, err := docio.MergePatch(before, doc)
		if err != nil {
			return err
		}
		mp, err := docio.Decode(d)
		if err != nil {
			return err
		}
		if err := cfg.sep(w, i); err != nil {
			return err
		}
		return cfg.encode(w, mp)
	case cfg.Diff:
		d, err := docio.Diff(before, doc, cfg.format())
		if err != nil {
			return err
		}
		if cfg.colored(w) {
			d = docio.ColorizeDiff(d)
		}
		_, err = io.WriteString(w, d)
		return err
	default:
		if err := cfg.sep(w, i); err != nil {
			return err
		}
		return cfg.encode(w, doc)
	}
}

func (cfg *SetConfig) value(doc any, p upath.Path, arg string) (any, error) {
	if !cfg.Expr {
		v, err := docio.ParseValue(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		return v, nil
	}
	return evalValue(arg, doc, p)
}
