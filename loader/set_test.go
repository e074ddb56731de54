package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/stache/template"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestSet(t *testing.T, dir string) *Set {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dir = dir
	return NewSet(cfg)
}

func TestSet_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.mustache", "{{>header}}Hello {{name}}{{>mail/footer}}")
	writeFile(t, dir, "header.mustache", "<h1>{{title}}</h1>")
	writeFile(t, dir, "mail/footer.mustache", "bye")
	writeFile(t, dir, "notes.txt", "{{#broken}}")

	s := newTestSet(t, dir)
	require.NoError(t, s.Load())

	assert.Equal(t, []string{"header", "mail/footer", "page"}, s.Names())

	page, ok := s.Lookup("page")
	require.True(t, ok)
	assert.True(t, page.Compacted())
	assert.Equal(t, []string{"header", "mail/footer"}, page.Partials())
	assert.Empty(t, s.Unresolved())
}

func TestSet_LoadWithoutCompact(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mustache", "text")

	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.Compact = false
	s := NewSet(cfg)
	require.NoError(t, s.Load())

	tmpl, err := s.Get("a")
	require.NoError(t, err)
	assert.False(t, tmpl.Compacted())
	assert.Equal(t, []template.DumpNode{{Kind: template.KindText, Text: "text"}}, tmpl.Dump())
}

func TestSet_LoadParseErrorKeepsContents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.mustache", "ok")

	s := newTestSet(t, dir)
	require.NoError(t, s.Load())

	writeFile(t, dir, "bad.mustache", "{{#a}}x{{/b}}")
	err := s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, template.ErrParse)
	assert.Contains(t, err.Error(), "bad.mustache")

	assert.Equal(t, []string{"good"}, s.Names())
}

func TestSet_LoadMissingDir(t *testing.T) {
	s := newTestSet(t, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, s.Load())
}

func TestSet_AddAndGet(t *testing.T) {
	s := NewSet(Config{Compact: true})

	require.NoError(t, s.Add("greeting", []byte("Hi {{>name}}")))
	tmpl, err := s.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, 3, tmpl.Measure())

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Add("broken", []byte("{{open"))
	assert.ErrorIs(t, err, template.ErrParse)
	_, ok := s.Lookup("broken")
	assert.False(t, ok)
}

func TestSet_LoadReplacesAdded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.mustache", "from disk")

	s := newTestSet(t, dir)
	require.NoError(t, s.Add("inline", []byte("{{x}}")))
	require.NoError(t, s.Load())

	assert.Equal(t, []string{"file"}, s.Names())
	_, ok := s.Lookup("inline")
	assert.False(t, ok)

	require.NoError(t, s.Add("inline", []byte("{{x}}")))
	assert.Equal(t, []string{"file", "inline"}, s.Names())
}

func TestSet_Unresolved(t *testing.T) {
	s := NewSet(DefaultConfig())
	require.NoError(t, s.Add("a", []byte("{{>b}}{{>c}}")))
	require.NoError(t, s.Add("b", []byte("{{>d}}{{>c}}")))

	assert.Equal(t, []string{"c", "d"}, s.Unresolved())

	s.Remove("b")
	assert.Equal(t, []string{"b", "c"}, s.Unresolved())
}

func TestSet_Resolver(t *testing.T) {
	s := NewSet(DefaultConfig())
	require.NoError(t, s.Add("row", []byte("{{x}}")))

	var r Resolver = s
	tmpl, ok := r.Lookup("row")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, tmpl.Variables())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mustache", "{{a}}")

	cfg := DefaultConfig()
	cfg.Dir = dir
	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, s.Names())
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
