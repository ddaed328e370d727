package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCodebase(t *testing.T) {
	t.Run("summarizes languages and README", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "util.go"), []byte("package main\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "script.py"), []byte("print('hi')\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Demo project\nDoes things.\n"), 0o644))

		summary, err := AnalyzeCodebase(dir)
		require.NoError(t, err)
		assert.Contains(t, summary, "Go: 2")
		assert.Contains(t, summary, "Python: 1")
		assert.Contains(t, summary, "# Demo project")
		assert.Contains(t, summary, "main.go")
	})

	t.Run("skips vendor-style directories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "index.js"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("x"), 0o644))

		summary, err := AnalyzeCodebase(dir)
		require.NoError(t, err)
		assert.Contains(t, summary, "JavaScript: 1")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := AnalyzeCodebase(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path not found")
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := AnalyzeCodebase(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no recognizable source files")
	})
}

func TestSaveToFile(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "posts", "2026", "article.md")

		require.NoError(t, SaveToFile("# Post", target, false))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "# Post", string(data))
	})

	t.Run("refuses silent overwrite", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "article.md")
		require.NoError(t, SaveToFile("first", target, false))

		err := SaveToFile("second", target, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFileExists)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data), "existing content must be untouched")
	})

	t.Run("overwrites with consent", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "article.md")
		require.NoError(t, SaveToFile("first", target, false))
		require.NoError(t, SaveToFile("second", target, true))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("rejects empty filename", func(t *testing.T) {
		assert.Error(t, SaveToFile("content", "", false))
	})
}
