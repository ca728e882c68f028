package content

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/Its-donkey/portfolio/logging"
)

const defaultDebounce = 200 * time.Millisecond

// Store holds the portfolio currently served. With no path it serves the
// bundled default and Reload is a no-op.
type Store struct {
	path     string
	logger   *logging.Logger
	debounce time.Duration

	mu       sync.RWMutex
	current  *Portfolio
	onReload []func(*Portfolio)
}

// NewStore loads path, or the bundled default when path is empty.
func NewStore(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store{path: path, logger: logger, debounce: defaultDebounce}
	var (
		p   *Portfolio
		err error
	)
	if path == "" {
		p, err = Default()
	} else {
		p, err = Load(path)
	}
	if err != nil {
		return nil, err
	}
	s.current = p
	return s, nil
}

// Path returns the backing file, or "" for the bundled default.
func (s *Store) Path() string { return s.path }

// Current returns the active portfolio. Callers must not modify it.
func (s *Store) Current() *Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnReload registers fn to run after every successful reload.
func (s *Store) OnReload(fn func(*Portfolio)) {
	s.mu.Lock()
	s.onReload = append(s.onReload, fn)
	s.mu.Unlock()
}

// Reload re-reads the file. An invalid file leaves the previous content in place.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	p, err := Load(s.path)
	if err != nil {
		s.logger.Warn("content", "reload rejected; keeping previous content", map[string]any{"path": s.path, "error": err.Error()})
		return err
	}
	s.mu.Lock()
	s.current = p
	hooks := append([]func(*Portfolio){}, s.onReload...)
	s.mu.Unlock()

	s.logger.Info("content", "content reloaded", map[string]any{"path": s.path, "projects": len(p.Projects)})
	for _, fn := range hooks {
		fn(p)
	}
	return nil
}

// Watch reloads the file whenever it changes until ctx is cancelled. The
// parent directory is watched so editors that replace the file are seen.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("content: nothing to watch without a content file")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Info("content", "watching content file", map[string]any{"path": target})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return watcher.Close()
	})
	g.Go(func() error {
		var pending <-chan time.Time
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = time.After(s.debounce)
			case <-pending:
				pending = nil
				_ = s.Reload()
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("content", "content watcher error", werr, nil)
			}
		}
	})
	return g.Wait()
}
