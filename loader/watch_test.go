package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Watch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.mustache", "v1")

	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.Watch = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := Open(ctx, cfg)
	require.NoError(t, err)

	writeFile(t, dir, "added.mustache", "{{x}}")
	require.Eventually(t, func() bool {
		_, ok := s.Lookup("added")
		return ok
	}, 5*time.Second, 50*time.Millisecond)

	writeFile(t, dir, "base.mustache", "version two")
	require.Eventually(t, func() bool {
		base, ok := s.Lookup("base")
		return ok && base.Measure() == len("version two")
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "added.mustache")))
	require.Eventually(t, func() bool {
		_, ok := s.Lookup("added")
		return !ok
	}, 5*time.Second, 50*time.Millisecond)
}

func TestOpen_WatchSeesWriteRightAfterOpen(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.Watch = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, s.Names())

	writeFile(t, dir, "late.mustache", "hello {{name}}")
	require.Eventually(t, func() bool {
		_, ok := s.Lookup("late")
		return ok
	}, 5*time.Second, 20*time.Millisecond)
}

func TestOpen_WatchMissingDirFails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = filepath.Join(t.TempDir(), "missing")
	cfg.Watch = true

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSet_HandleEvent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "base.mustache", "v1")

	s := newTestSet(t, dir)
	require.NoError(t, s.Load())

	t.Run("parse failure keeps previous version", func(t *testing.T) {
		writeFile(t, dir, "base.mustache", "{{#open")
		s.handleEvent(nil, fsnotify.Event{Name: path, Op: fsnotify.Write})

		base, ok := s.Lookup("base")
		require.True(t, ok)
		assert.Equal(t, 2, base.Measure())
	})

	t.Run("write reloads", func(t *testing.T) {
		writeFile(t, dir, "base.mustache", "{{x}} v2")
		s.handleEvent(nil, fsnotify.Event{Name: path, Op: fsnotify.Write})

		base, ok := s.Lookup("base")
		require.True(t, ok)
		assert.Equal(t, []string{"x"}, base.Variables())
	})

	t.Run("other extensions are ignored", func(t *testing.T) {
		other := writeFile(t, dir, "readme.md", "{{x}}")
		s.handleEvent(nil, fsnotify.Event{Name: other, Op: fsnotify.Create})
		assert.Equal(t, []string{"base"}, s.Names())
	})

	t.Run("rename drops", func(t *testing.T) {
		s.handleEvent(nil, fsnotify.Event{Name: path, Op: fsnotify.Rename})
		_, ok := s.Lookup("base")
		assert.False(t, ok)
	})
}

func TestSet_WatchStopsOnCancel(t *testing.T) {
	s := newTestSet(t, t.TempDir())
	require.NoError(t, s.Load())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestSet_WatchMissingDir(t *testing.T) {
	s := newTestSet(t, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, s.Watch(context.Background()))
}
