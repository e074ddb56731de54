package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/randalmurphal/stache/template"
)

// Resolver looks up partial templates by name.
type Resolver interface {
	Lookup(name string) (*template.Template, bool)
}

// Set is a named collection of parsed templates.
// It is safe for concurrent use. Templates are never modified after they
// are added; a reload replaces the entry.
type Set struct {
	cfg Config

	mu        sync.RWMutex
	templates map[string]*template.Template
}

var _ Resolver = (*Set)(nil)

// NewSet creates an empty set. Call Load to populate it from cfg.Dir.
func NewSet(cfg Config) *Set {
	if cfg.Extension == "" {
		cfg.Extension = DefaultConfig().Extension
	}
	return &Set{
		cfg:       cfg,
		templates: make(map[string]*template.Template),
	}
}

// Open validates cfg, loads every template under cfg.Dir and, if
// cfg.Watch is set, keeps the set updated until ctx is cancelled. The
// watcher is registered before the initial load, so any change made after
// Open returns is picked up.
func Open(ctx context.Context, cfg Config) (*Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := NewSet(cfg)

	var watcher *fsnotify.Watcher
	if cfg.Watch {
		w, err := s.newWatcher()
		if err != nil {
			return nil, err
		}
		watcher = w
	}

	if err := s.Load(); err != nil {
		if watcher != nil {
			watcher.Close()
		}
		return nil, err
	}

	if watcher != nil {
		go func() {
			if err := s.run(ctx, watcher); err != nil {
				slog.Warn("template watch stopped",
					slog.String("dir", cfg.Dir),
					slog.Any("error", err))
			}
		}()
	}
	return s, nil
}

// Load parses every template under the configured directory and replaces
// the set's contents, including entries registered with Add. If any file
// fails to parse, the set is unchanged.
func (s *Set) Load() error {
	loaded := make(map[string]*template.Template)

	err := filepath.WalkDir(s.cfg.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != s.cfg.Extension {
			return nil
		}
		name, err := s.nameFor(path)
		if err != nil {
			return err
		}
		tmpl, err := s.parseFile(path)
		if err != nil {
			return err
		}
		loaded[name] = tmpl
		return nil
	})
	if err != nil {
		return fmt.Errorf("load templates from %s: %w", s.cfg.Dir, err)
	}

	s.mu.Lock()
	s.templates = loaded
	s.mu.Unlock()

	slog.Debug("templates loaded",
		slog.String("dir", s.cfg.Dir),
		slog.Int("count", len(loaded)))
	return nil
}

// Add parses src and registers it under name, replacing any existing
// entry. Unless the set compacts templates, src must not be modified
// afterwards. A later Load discards entries added this way; call Add again
// after Load to keep them.
func (s *Set) Add(name string, src []byte) error {
	tmpl, err := s.parse(src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	s.put(name, tmpl)
	return nil
}

// Lookup returns the template registered under name.
func (s *Set) Lookup(name string) (*template.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tmpl, ok := s.templates[name]
	return tmpl, ok
}

// Get is like Lookup but returns an error wrapping ErrNotFound.
func (s *Set) Get(name string) (*template.Template, error) {
	tmpl, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return tmpl, nil
}

// Remove drops the template registered under name, if any.
func (s *Set) Remove(name string) {
	s.mu.Lock()
	delete(s.templates, name)
	s.mu.Unlock()
}

// Names returns the registered template names in sorted order.
func (s *Set) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Unresolved returns the partial names referenced by templates in the set
// that are not themselves in the set, sorted.
func (s *Set) Unresolved() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	missing := make(map[string]bool)
	for _, tmpl := range s.templates {
		for _, name := range tmpl.Partials() {
			if _, ok := s.templates[name]; !ok {
				missing[name] = true
			}
		}
	}

	result := make([]string, 0, len(missing))
	for name := range missing {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func (s *Set) put(name string, tmpl *template.Template) {
	s.mu.Lock()
	s.templates[name] = tmpl
	s.mu.Unlock()
}

func (s *Set) parseFile(path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	tmpl, err := s.parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tmpl, nil
}

func (s *Set) parse(src []byte) (*template.Template, error) {
	tmpl, err := template.Parse(src)
	if err != nil {
		return nil, err
	}
	if s.cfg.Compact {
		if err := tmpl.Compact(); err != nil {
			return nil, err
		}
	}
	return tmpl, nil
}

// nameFor maps a file path under Dir to its template name.
func (s *Set) nameFor(path string) (string, error) {
	rel, err := filepath.Rel(s.cfg.Dir, path)
	if err != nil {
		return "", fmt.Errorf("resolve name for %s: %w", path, err)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), s.cfg.Extension), nil
}
