package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KuaaMU/codesage/pkg/review"
)

func TestFromExtension_Known(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"main.go":      Go,
		"lib.rs":       Rust,
		"app.tsx":      TypeScript,
		"script.PY":    Python,
		"Widget.java":  Java,
		"engine.cpp":   CPP,
		"Program.cs":   CSharp,
		"component.js": JavaScript,
	}

	for path, want := range cases {
		got, err := FromExtension(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestFromExtension_Unknown(t *testing.T) {
	t.Parallel()

	_, err := FromExtension("notes.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, review.ErrUnsupportedLanguage)
}

func TestFromExtension_NoExtension(t *testing.T) {
	t.Parallel()

	_, err := FromExtension("Makefile")
	assert.ErrorIs(t, err, review.ErrUnsupportedLanguage)
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, Supported("a/b/c.go"))
	assert.False(t, Supported("a/b/c.md"))
}

func TestExtensions_CoversCoreLanguages(t *testing.T) {
	t.Parallel()

	exts := Extensions()
	assert.Contains(t, exts, "go")
	assert.Contains(t, exts, "rs")
	assert.Contains(t, exts, "py")
	assert.Contains(t, exts, "cs")
}

func TestLoadContext_ReadsSourceAndTag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "hello.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o600))

	ctx, err := LoadContext(path)
	require.NoError(t, err)
	assert.Equal(t, path, ctx.FilePath)
	assert.Equal(t, "package main\n", ctx.Source)
	assert.Equal(t, Go, ctx.Language)
}

func TestLoadContext_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadContext(filepath.Join(t.TempDir(), "nope.go"))
	assert.ErrorIs(t, err, review.ErrIO)
}

func TestLoadContext_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o600))

	_, err := LoadContext(path)
	assert.ErrorIs(t, err, review.ErrUnsupportedLanguage)
}

func TestLoadContext_BinaryContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "blob.go")
	require.NoError(t, os.WriteFile(path, []byte("package\x00main"), 0o600))

	_, err := LoadContext(path)
	assert.ErrorIs(t, err, review.ErrParse)
}
