package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps the set in sync with the configured directory until ctx is
// cancelled. Created or written files are reparsed; removed or renamed
// files are dropped. A file that fails to parse is logged and its previous
// version is kept.
func (s *Set) Watch(ctx context.Context) error {
	watcher, err := s.newWatcher()
	if err != nil {
		return err
	}
	return s.run(ctx, watcher)
}

// newWatcher returns a watcher already registered on every directory under
// Dir. Changes made after it returns are delivered to its Events channel.
func (s *Set) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := s.watchTree(watcher, s.cfg.Dir); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// run applies watcher events to the set until ctx is cancelled, then
// closes the watcher.
func (s *Set) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("template watcher error",
				slog.String("dir", s.cfg.Dir),
				slog.Any("error", err))
		}
	}
}

// watchTree adds root and every directory below it. fsnotify does not
// watch recursively.
func (s *Set) watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (s *Set) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.watchTree(watcher, event.Name); err != nil {
				slog.Warn("failed to watch new template directory",
					slog.String("path", event.Name),
					slog.Any("error", err))
			}
			return
		}
	}

	if filepath.Ext(event.Name) != s.cfg.Extension {
		return
	}
	name, err := s.nameFor(event.Name)
	if err != nil {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		s.Remove(name)
		slog.Debug("template removed", slog.String("name", name))

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		tmpl, err := s.parseFile(event.Name)
		if err != nil {
			slog.Warn("template reload failed, keeping previous version",
				slog.String("name", name),
				slog.Any("error", err))
			return
		}
		s.put(name, tmpl)
		slog.Debug("template reloaded", slog.String("name", name))
	}
}
