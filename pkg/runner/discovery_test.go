package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KuaaMU/codesage/pkg/review"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDiscover_FiltersByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	goFile := writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "README.md", "# doc\n")
	pyFile := writeFile(t, dir, "tool.py", "print(1)\n")

	files, err := Discover(dir, []string{"go", "py"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{goFile, pyFile}, files)
}

func TestDiscover_RecursesSubdirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := writeFile(t, dir, filepath.Join("a", "b", "deep.go"), "package b\n")

	files, err := Discover(dir, []string{"go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{nested}, files)
}

func TestDiscover_SkipsGitDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, filepath.Join(".git", "hooks", "hook.go"), "package hooks\n")
	kept := writeFile(t, dir, "kept.go", "package main\n")

	files, err := Discover(dir, []string{"go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, files)
}

func TestDiscover_RespectsGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "vendor/\nignored.go\n")
	writeFile(t, dir, "ignored.go", "package main\n")
	writeFile(t, dir, filepath.Join("vendor", "dep.go"), "package dep\n")
	kept := writeFile(t, dir, "kept.go", "package main\n")

	files, err := Discover(dir, []string{"go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, files)
}

func TestDiscover_RespectsNestedGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("sub", ".gitignore"), "generated.go\nbuild/\n")
	writeFile(t, dir, filepath.Join("sub", "generated.go"), "package sub\n")
	writeFile(t, dir, filepath.Join("sub", "build", "out.go"), "package build\n")
	keptNested := writeFile(t, dir, filepath.Join("sub", "kept.go"), "package sub\n")
	// The nested rules do not leak upward to the root.
	keptRoot := writeFile(t, dir, "generated.go", "package main\n")

	files, err := Discover(dir, []string{"go"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{keptNested, keptRoot}, files)
}

func TestDiscover_SingleFileRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "only.go", "package main\n")

	files, err := Discover(path, []string{"go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscover_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Discover(filepath.Join(t.TempDir(), "absent"), []string{"go"}, nil)
	assert.ErrorIs(t, err, review.ErrIO)
}
