package main

import (
	"fmt"
	"io"
	"os"

	"github.com/FooBarShebang/introspection-lib/docio"
)

// readDoc decodes the document in path, or in in when path is "-".
func readDoc(in io.Reader, path string) (any, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = in
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	doc, err := docio.Decode(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return doc, nil
}

// writeDoc replaces the contents of path with doc, keeping its mode.
func writeDoc(path string, doc any, f docio.Format) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	d, err := docio.Marshal(doc, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, fi.Mode().Perm())
}

func fileArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
