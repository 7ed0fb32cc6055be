package main

import (
	"fmt"
	"io"

	"github.com/FooBarShebang/introspection-lib/access"
	"github.com/FooBarShebang/introspection-lib/upath"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	p, err := upath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for i, file := range fileArgs(args[1:]) {
		if err := getFile(cfg, cc.Out, cc.In, file, p, i); err != nil {
			return err
		}
	}
	return nil
}

func getFile(cfg *GetConfig, w io.Writer, in io.Reader, file string, p upath.Path, i int) error {
	opts, err := cfg.accessOpts(file)
	if err != nil {
		return err
	}
	doc, err := readDoc(in, file)
	if err != nil {
		return err
	}
	theLog.Debug("get", "file", file, "path", p.String())
	v, err := access.GetElement(doc, p, opts...)
	if err != nil {
		return fmt.Errorf("error getting %s: %w", p, err)
	}
	if err := cfg.sep(w, i); err != nil {
		return err
	}
	return cfg.encode(w, v)
}
