package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "ua").
		WithSynopsis("ua [opts] command [opts]").
		WithDescription("ua reads and writes elements of YAML and JSON documents by path.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return uaMain(cfg, cc, args)
		}).
		WithSubs(
			GetCommand(cfg),
			SetCommand(cfg),
			PatchCommand(cfg),
			NormCommand(cfg),
			DepsCommand(cfg))
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [-relaxed] [-default val] <path> [files]").
		WithDescription(getDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

const getDescription = `get prints the element at path of each document.

Paths are '.' separated keys and [n] indices, for example

  spec.containers[0].'app.kubernetes.io/name'

Negative indices count from the end. With -relaxed a missing element prints
the -default value (null if unset) instead of failing.`

func SetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Set, "set").
		WithAliases("s").
		WithSynopsis("set [-relaxed] [-e] [-patch|-diff|-w] <path> <value> [files]").
		WithDescription(setDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return set(cfg, cc, args)
		})
}

const setDescription = `set stores value at path in each document and prints the result.

value is YAML: 3 is a number, '"3"' a string, '[1, 2]' a sequence. With -e
value is an expression evaluated with

  old   the current element, or null
  doc   the whole document
  path  the path as given

and the functions getpath(p) and getenv(name), for example 'old + 1'.

With -relaxed missing elements along path are created: an index one past
either end of a sequence grows it, missing keys are added, and missing
intermediate containers become sequences or mappings depending on the next
path element.

-patch prints a JSON merge patch, -diff a line diff and -w writes the
documents back to their files.`

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p").
		WithSynopsis("patch [-json] <patchfile> [files]").
		WithDescription("apply a JSON merge patch, or with -json a JSON patch, to documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func NormCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &NormConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Norm, "norm").
		WithAliases("n").
		WithSynopsis("norm <path>...").
		WithDescription("print paths in canonical form, one per line").
		WithRun(func(cc *cli.Context, args []string) error {
			return norm(cfg, cc, args)
		})
}

func DepsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DepsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Deps, "deps").
		WithSynopsis("deps [-std] [-C dir] [patterns]").
		WithDescription("list Go packages with their source files and imports").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return deps(cfg, cc, args)
		})
}
