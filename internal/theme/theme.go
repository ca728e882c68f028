// Package theme holds the light/dark preference for the page.
package theme

import (
	"fmt"
	"strings"
	"sync"
)

// Mode is the active colour scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// StorageKey is the persisted preference key.
const StorageKey = "portfolio-theme"

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// IsDark reports whether m is the dark scheme.
func (m Mode) IsDark() bool { return m == Dark }

// Toggled returns the opposite scheme.
func (m Mode) Toggled() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Store persists the preference between visits.
type Store interface {
	Load() (Mode, bool)
	Save(Mode) error
}

// MemoryStore keeps the preference in memory.
type MemoryStore struct {
	mu    sync.Mutex
	mode  Mode
	saved bool
	Saves int
}

// Load returns the stored mode, if any.
func (s *MemoryStore) Load() (Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.saved
}

// Save records m.
func (s *MemoryStore) Save(m Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode, s.saved = m, true
	s.Saves++
	return nil
}

// Provider owns the current mode. Toggle is its only mutator.
type Provider struct {
	store Store

	mu     sync.Mutex
	mode   Mode
	nextID int
	subs   map[int]func(Mode)
}

// NewProvider starts from the stored preference, falling back to the
// system preference.
func NewProvider(store Store, prefersDark bool) *Provider {
	mode := Light
	if prefersDark {
		mode = Dark
	}
	if store != nil {
		if stored, ok := store.Load(); ok {
			if parsed, err := ParseMode(string(stored)); err == nil {
				mode = parsed
			}
		}
	}
	return &Provider{store: store, mode: mode, subs: make(map[int]func(Mode))}
}

// Mode returns the current scheme.
func (p *Provider) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Toggle flips the scheme, persists it and notifies subscribers. A failed
// save still switches the scheme for this visit.
func (p *Provider) Toggle() (Mode, error) {
	p.mu.Lock()
	p.mode = p.mode.Toggled()
	mode := p.mode
	subs := make([]func(Mode), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	var err error
	if p.store != nil {
		if saveErr := p.store.Save(mode); saveErr != nil {
			err = fmt.Errorf("persist theme: %w", saveErr)
		}
	}
	for _, fn := range subs {
		fn(mode)
	}
	return mode, err
}

// Subscribe registers fn for mode changes and returns an unsubscribe func.
func (p *Provider) Subscribe(fn func(Mode)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}
