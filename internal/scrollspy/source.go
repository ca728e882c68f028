package scrollspy

import (
	"fmt"
	"sync"
)

// Source feeds a Tracker from some event stream, such as scroll events or
// an intersection observer.
type Source interface {
	Start(t *Tracker) error
	Stop()
}

// Attach starts every source against t. The returned detach stops them in
// reverse order and is safe to call more than once. When a source fails to
// start, the ones already running are stopped before the error is returned.
func Attach(t *Tracker, sources ...Source) (func(), error) {
	started := make([]Source, 0, len(sources))
	stopAll := func() {
		for i := len(started) - 1; i >= 0; i-- {
			started[i].Stop()
		}
	}
	for i, src := range sources {
		if src == nil {
			continue
		}
		if err := src.Start(t); err != nil {
			stopAll()
			return func() {}, fmt.Errorf("start scroll source %d: %w", i, err)
		}
		started = append(started, src)
	}
	var once sync.Once
	return func() { once.Do(stopAll) }, nil
}

// SourceFunc adapts a start function returning its own stop function.
type SourceFunc func(t *Tracker) (stop func(), err error)

type funcSource struct {
	start SourceFunc
	stop  func()
}

// FromFunc wraps fn as a Source.
func FromFunc(fn SourceFunc) Source {
	return &funcSource{start: fn}
}

func (s *funcSource) Start(t *Tracker) error {
	stop, err := s.start(t)
	if err != nil {
		return err
	}
	s.stop = stop
	return nil
}

func (s *funcSource) Stop() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}
