package main

import (
	"fmt"
	"os"

	"github.com/FooBarShebang/introspection-lib/access"
	"github.com/FooBarShebang/introspection-lib/upath"

	"github.com/expr-lang/expr"
)

func exprOpts(doc any) []expr.Option {
	return []expr.Option{
		expr.Function("getpath", func(params ...any) (any, error) {
			p, err := upath.Parse(params[0].(string))
			if err != nil {
				return nil, err
			}
			return access.GetElement(doc, p, access.RootName("doc"))
		},
			new(func(string) any)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// evalValue evaluates src with old bound to the element at p, or nil when
// it is missing.
func evalValue(src string, doc any, p upath.Path) (any, error) {
	old, err := access.GetElement(doc, p, access.Relaxed(), access.RootName("doc"))
	if err != nil {
		return nil, err
	}
	env := map[string]any{
		"old":  old,
		"doc":  doc,
		"path": p.String(),
	}
	prg, err := expr.Compile(src, exprOpts(doc)...)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", src, err)
	}
	return res, nil
}
