// Package pkgscan reports the structure of Go packages: their source files,
// import paths and the imports they make.
package pkgscan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Class tells where an imported package comes from.
type Class int

const (
	Std Class = iota
	Local
	External
)

func (c Class) String() string {
	switch c {
	case Std:
		return "std"
	case Local:
		return "local"
	case External:
		return "external"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type Import struct {
	Path  string `json:"path"`
	Class Class  `json:"class"`
}

type Package struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Dir     string   `json:"dir"`
	GoFiles []string `json:"goFiles"`
	Imports []Import `json:"imports"`
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedModule

// Load loads the packages matching patterns, "." if none are given, relative
// to dir. Imports are sorted by path; GoFiles hold base names.
func Load(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Tests:   false,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %v in %s: %w", patterns, dir, err)
	}
	var errs []error
	res := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		for _, e := range p.Errors {
			errs = append(errs, fmt.Errorf("%s: %w", p.PkgPath, e))
		}
		res = append(res, fromPackage(p))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Path < res[j].Path })
	return res, nil
}

func fromPackage(p *packages.Package) *Package {
	res := &Package{
		Name: p.Name,
		Path: p.PkgPath,
	}
	if len(p.GoFiles) != 0 {
		res.Dir = filepath.Dir(p.GoFiles[0])
	}
	for _, f := range p.GoFiles {
		res.GoFiles = append(res.GoFiles, filepath.Base(f))
	}
	modPath := ""
	if p.Module != nil {
		modPath = p.Module.Path
	}
	for ip := range p.Imports {
		res.Imports = append(res.Imports, Import{Path: ip, Class: classify(modPath, ip)})
	}
	sort.Slice(res.Imports, func(i, j int) bool { return res.Imports[i].Path < res.Imports[j].Path })
	return res
}

func classify(modPath, importPath string) Class {
	if modPath != "" && (importPath == modPath || strings.HasPrefix(importPath, modPath+"/")) {
		return Local
	}
	first, _, _ := strings.Cut(importPath, "/")
	if !strings.Contains(first, ".") {
		return Std
	}
	return External
}

// SourceFiles lists the base names of the non test .go files in dir, skipping
// symbolic links. The result is sorted.
func SourceFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, e := range ents {
		if e.Type()&fs.ModeSymlink != 0 || !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		res = append(res, name)
	}
	return res, nil
}

// QualifiedName returns the import path of the package in dir.
func QualifiedName(ctx context.Context, dir string) (string, error) {
	pkgs, err := Load(ctx, dir)
	if err != nil {
		return "", err
	}
	if len(pkgs) != 1 || pkgs[0].Path == "" {
		return "", fmt.Errorf("%s: no single package", dir)
	}
	return pkgs[0].Path, nil
}

var ErrEscapesRoot = errors.New("relative import escapes the root")

// ResolveRelative resolves a "./" or "../" import against the import path
// of the importing package. Other import paths are returned unchanged. The
// result may not climb above the first element of importer.
func ResolveRelative(importer, rel string) (string, error) {
	if rel != "." && rel != ".." && !strings.HasPrefix(rel, "./") && !strings.HasPrefix(rel, "../") {
		return rel, nil
	}
	if importer == "" {
		return "", fmt.Errorf("resolving %q: empty importer", rel)
	}
	elts := strings.Split(importer, "/")
	for _, e := range strings.Split(rel, "/") {
		switch e {
		case "", ".":
		case "..":
			if len(elts) == 1 {
				return "", fmt.Errorf("%w: %q from %q", ErrEscapesRoot, rel, importer)
			}
			elts = elts[:len(elts)-1]
		default:
			elts = append(elts, e)
		}
	}
	return strings.Join(elts, "/"), nil
}
