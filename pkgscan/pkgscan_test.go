package pkgscan

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func testModule(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"go.mod":         "module example.com/m\n\ngo 1.21\n",
		"m.go":           "package m\n\nimport (\n\t\"fmt\"\n\t\"example.com/m/sub\"\n)\n\nfunc F() { fmt.Println(sub.X) }\n",
		"m_test.go":      "package m\n\nimport \"testing\"\n\nfunc TestF(t *testing.T) {}\n",
		"sub/sub.go":     "package sub\n\nimport \"strings\"\n\nvar X = strings.ToUpper(\"x\")\n",
		"sub/other.go":   "package sub\n",
		"sub/notes.txt":  "not go\n",
		"sub/gen/gen.go": "package gen\n",
	})
	return dir
}

func TestLoad(t *testing.T) {
	dir := testModule(t)
	pkgs, err := Load(t.Context(), dir, "./...")
	require.NoError(t, err)
	require.Len(t, pkgs, 3)

	m := pkgs[0]
	assert.Equal(t, "m", m.Name)
	assert.Equal(t, "example.com/m", m.Path)
	assert.Equal(t, []string{"m.go"}, m.GoFiles)
	assert.Equal(t, []Import{
		{Path: "example.com/m/sub", Class: Local},
		{Path: "fmt", Class: Std},
	}, m.Imports)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, []string{dir, resolved}, m.Dir)

	assert.Equal(t, "example.com/m/sub", pkgs[1].Path)
	assert.Equal(t, []string{"other.go", "sub.go"}, pkgs[1].GoFiles)
	assert.Equal(t, []Import{{Path: "strings", Class: Std}}, pkgs[1].Imports)

	assert.Equal(t, "example.com/m/sub/gen", pkgs[2].Path)
	assert.Empty(t, pkgs[2].Imports)
}

func TestLoadErrors(t *testing.T) {
	dir := testModule(t)
	writeFiles(t, dir, map[string]string{
		"bad/bad.go": "package bad\n\nimport \"example.com/m/missing\"\n",
	})
	_, err := Load(t.Context(), dir, "./bad")
	assert.Error(t, err)
}

func TestQualifiedName(t *testing.T) {
	dir := testModule(t)
	name, err := QualifiedName(t.Context(), filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/m/sub", name)
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.go":      "package a\n",
		"b.go":      "package a\n",
		"a_test.go": "package a\n",
		"c.txt":     "",
		"d.go/x.go": "package x\n",
	})
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.go"), filepath.Join(dir, "link.go")))

	files, err := SourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, files)

	_, err = SourceFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		mod, imp string
		want     Class
	}{
		{"example.com/m", "fmt", Std},
		{"example.com/m", "net/http", Std},
		{"example.com/m", "example.com/m", Local},
		{"example.com/m", "example.com/m/x/y", Local},
		{"example.com/m", "example.com/mm", External},
		{"example.com/m", "github.com/a/b", External},
		{"", "github.com/a/b", External},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classify(tc.mod, tc.imp), tc.imp)
	}
	assert.Equal(t, "local", Local.String())
}

func TestResolveRelative(t *testing.T) {
	tests := []struct {
		importer, rel, want string
	}{
		{"example.com/m/a", "./b", "example.com/m/a/b"},
		{"example.com/m/a", "../b", "example.com/m/b"},
		{"example.com/m/a", "../../x/y", "example.com/x/y"},
		{"example.com/m/a", ".", "example.com/m/a"},
		{"example.com/m/a", "..", "example.com/m"},
		{"example.com/m/a", "fmt", "fmt"},
		{"", "github.com/a/b", "github.com/a/b"},
	}
	for _, tc := range tests {
		got, err := ResolveRelative(tc.importer, tc.rel)
		require.NoError(t, err, tc.rel)
		assert.Equal(t, tc.want, got, tc.rel)
	}

	_, err := ResolveRelative("example.com/m", "../../x")
	assert.ErrorIs(t, err, ErrEscapesRoot)
	_, err = ResolveRelative("", "./x")
	assert.Error(t, err)
}
