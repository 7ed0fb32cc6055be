package main

import (
	"context"
	"fmt"

	"github.com/FooBarShebang/introspection-lib/pkgscan"

	"github.com/scott-cotton/cli"
)

func deps(cfg *DepsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Deps.Parse(cc, args)
	if err != nil {
		cfg.Deps.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	pkgs, err := pkgscan.Load(context.Background(), dir, args...)
	if err != nil {
		return fmt.Errorf("error loading packages: %w", err)
	}
	if !cfg.Std {
		dropStd(pkgs)
	}
	return cfg.encode(cc.Out, pkgs)
}

func dropStd(pkgs []*pkgscan.Package) {
	for _, p := range pkgs {
		imps := p.Imports[:0]
		for _, imp := range p.Imports {
			if imp.Class != pkgscan.Std {
				imps = append(imps, imp)
			}
		}
		p.Imports = imps
	}
}
