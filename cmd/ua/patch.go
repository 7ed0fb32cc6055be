package main

import (
	"fmt"
	"os"

	"github.com/FooBarShebang/introspection-lib/docio"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	pd, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	pd, err = patchJSON(pd)
	if err != nil {
		return fmt.Errorf("error decoding patch %s: %w", args[0], err)
	}
	for i, file := range fileArgs(args[1:]) {
		doc, err := readDoc(cc.In, file)
		if err != nil {
			return err
		}
		var res any
		if cfg.JSON {
			res, err = docio.ApplyJSONPatch(doc, pd)
		} else {
			res, err = docio.ApplyMergePatch(doc, pd)
		}
		if err != nil {
			return fmt.Errorf("error patching %s: %w", file, err)
		}
		if err := cfg.sep(cc.Out, i); err != nil {
			return err
		}
		if err := cfg.encode(cc.Out, res); err != nil {
			return err
		}
	}
	return nil
}

// patchJSON accepts patches written in YAML as well.
func patchJSON(d []byte) ([]byte, error) {
	v, err := docio.Decode(d)
	if err != nil {
		return nil, err
	}
	return docio.Marshal(v, docio.FormatJSON)
}
