package main

import (
	"fmt"
	"io"

	"github.com/FooBarShebang/introspection-lib/upath"

	"github.com/scott-cotton/cli"
)

func norm(cfg *NormConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Norm.Parse(cc, args)
	if err != nil {
		cfg.Norm.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: norm requires at least one path", cli.ErrUsage)
	}
	return normPaths(cc.Out, args)
}

func normPaths(w io.Writer, args []string) error {
	for _, arg := range args {
		p, err := upath.Parse(arg)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
