// Package scrollspy derives the navigation highlight from the page scroll position.
package scrollspy

import (
	"sync"
	"time"

	"github.com/Its-donkey/portfolio/logging"
)

// Section identifiers in document order. They double as HTML anchor ids.
const (
	Home     = "home"
	Skills   = "skills"
	Projects = "projects"
	About    = "about"
	Contact  = "contact"
)

// Sections lists the tracked anchors in document order.
var Sections = []string{Home, Skills, Projects, About, Contact}

const (
	// DefaultLookahead is added to the scroll offset before scanning section tops.
	DefaultLookahead = 100
	// DefaultIdleWindow is how long scrolling must pause before visibility
	// reports are trusted.
	DefaultIdleWindow = 150 * time.Millisecond
	// RootMargin restricts the visibility band to the middle of the viewport.
	RootMargin = "-20% 0px -60% 0px"

	bottomSlack = 2
)

// Position is one scroll measurement. Tops holds each section's offset from
// the top of the document; sections missing from the map are skipped.
type Position struct {
	Offset   float64
	Viewport float64
	Document float64
	Tops     map[string]float64
}

// Entry is one visibility report for a section.
type Entry struct {
	ID           string
	Intersecting bool
	Ratio        float64
}

// Options configures a Tracker.
type Options struct {
	Sections   []string
	Lookahead  float64
	IdleWindow time.Duration
	Logger     *logging.Logger
	// OnChange runs after the active section changes, outside the lock.
	OnChange func(active string)
	Now      func() time.Time
}

// Tracker holds the single active section.
type Tracker struct {
	sections  []string
	order     map[string]int
	lookahead float64
	idle      time.Duration
	logger    *logging.Logger
	onChange  func(string)
	now       func() time.Time

	mu         sync.Mutex
	active     string
	lastScroll time.Time
}

// New returns a Tracker whose active section is the first one.
func New(opts Options) *Tracker {
	if len(opts.Sections) == 0 {
		opts.Sections = Sections
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultLookahead
	}
	if opts.IdleWindow <= 0 {
		opts.IdleWindow = DefaultIdleWindow
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	sections := append([]string(nil), opts.Sections...)
	order := make(map[string]int, len(sections))
	for i, id := range sections {
		order[id] = i
	}
	return &Tracker{
		sections:  sections,
		order:     order,
		lookahead: opts.Lookahead,
		idle:      opts.IdleWindow,
		logger:    opts.Logger,
		onChange:  opts.OnChange,
		now:       opts.Now,
		active:    sections[0],
	}
}

// Sections returns the tracked ids in document order.
func (t *Tracker) Sections() []string {
	return append([]string(nil), t.sections...)
}

// Active returns the current section id.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// ActiveAt resolves pos without changing state. It returns "" when no
// section top has been reached yet.
func (t *Tracker) ActiveAt(pos Position) string {
	return resolve(t.sections, pos, t.lookahead)
}

// Scroll applies a scroll measurement. It always wins over visibility reports.
func (t *Tracker) Scroll(pos Position) string {
	id := t.ActiveAt(pos)
	t.mu.Lock()
	t.lastScroll = t.now()
	return t.setLocked(id, "scroll")
}

// Observe applies one batch of visibility reports. The batch is ignored
// while scrolling is in progress. Among intersecting entries the largest
// ratio wins; equal ratios fall back to document order.
func (t *Tracker) Observe(entries []Entry) string {
	best := ""
	bestRatio := -1.0
	for _, e := range entries {
		if !e.Intersecting {
			continue
		}
		if _, ok := t.order[e.ID]; !ok {
			continue
		}
		if e.Ratio > bestRatio || (e.Ratio == bestRatio && t.order[e.ID] < t.order[best]) {
			best, bestRatio = e.ID, e.Ratio
		}
	}

	t.mu.Lock()
	if !t.lastScroll.IsZero() && t.now().Sub(t.lastScroll) < t.idle {
		active := t.active
		t.mu.Unlock()
		return active
	}
	return t.setLocked(best, "visibility")
}

// Set marks id active, as a nav click does. Unknown ids are ignored.
func (t *Tracker) Set(id string) string {
	if _, ok := t.order[id]; !ok {
		return t.Active()
	}
	t.mu.Lock()
	return t.setLocked(id, "navigate")
}

// setLocked must be called with t.mu held; it releases it.
func (t *Tracker) setLocked(id, source string) string {
	if id == "" || id == t.active {
		active := t.active
		t.mu.Unlock()
		return active
	}
	prev := t.active
	t.active = id
	t.mu.Unlock()

	t.logger.Debug("scrollspy", "active section changed", map[string]any{
		"from":   prev,
		"to":     id,
		"signal": source,
	})
	if t.onChange != nil {
		t.onChange(id)
	}
	return id
}

func resolve(sections []string, pos Position, lookahead float64) string {
	if pos.Document > 0 && pos.Offset+pos.Viewport >= pos.Document-bottomSlack {
		for i := len(sections) - 1; i >= 0; i-- {
			if _, ok := pos.Tops[sections[i]]; ok {
				return sections[i]
			}
		}
	}
	mark := pos.Offset + lookahead
	for i := len(sections) - 1; i >= 0; i-- {
		top, ok := pos.Tops[sections[i]]
		if ok && top <= mark {
			return sections[i]
		}
	}
	return ""
}
