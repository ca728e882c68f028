//go:build js && wasm

// Package wasm is the browser client: it renders the portfolio into the
// page, keeps the navbar in step with scrolling and drives the contact form.
package wasm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"syscall/js"
	"time"

	"github.com/Its-donkey/portfolio/internal/contact"
	"github.com/Its-donkey/portfolio/internal/content"
	"github.com/Its-donkey/portfolio/internal/scrollspy"
	"github.com/Its-donkey/portfolio/internal/theme"
	"github.com/Its-donkey/portfolio/internal/ui/render"
	"github.com/Its-donkey/portfolio/logging"
)

// ContactEndpoint is the same-origin relay that holds the access key.
const ContactEndpoint = "/api/contact"

var errMissingRoot = errors.New("app root missing")

// Document references the global browser document for DOM interactions.
var Document js.Value

type app struct {
	logger    *logging.Logger
	portfolio *content.Portfolio
	theme     *theme.Provider
	tracker   *scrollspy.Tracker
	submitter *contact.Submitter
	year      int

	mu       sync.Mutex
	menuOpen bool

	handlers []listener
	detach   func()
	unsub    func()
	stopOnce sync.Once
}

// RunApp bootstraps the portfolio client and blocks forever.
func RunApp() {
	done := make(chan struct{})
	Document = js.Global().Get("document")
	logger := logging.New("portfolio-wasm", logging.INFO, consoleWriter{})

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	p, err := content.Fetch(ctx, "")
	cancel()
	if err != nil {
		logger.Warn("content", "failed to load content, using fallback data", map[string]any{"error": err.Error()})
	}

	a := newApp(p, logger)
	if err := a.mount(); err != nil {
		logger.Error("app", "mount failed", err, nil)
	}
	<-done
}

func newApp(p *content.Portfolio, logger *logging.Logger) *app {
	a := &app{
		logger:    logger,
		portfolio: p,
		theme:     theme.NewProvider(localStore{}, prefersDark()),
		year:      time.Now().Year(),
	}
	a.tracker = scrollspy.New(scrollspy.Options{
		Logger:   logger,
		OnChange: func(string) { a.renderNav() },
	})
	a.submitter = contact.NewSubmitter(contact.NewProxyClient(ContactEndpoint, contact.ClientOptions{}), contact.Options{
		Logger:   logger,
		OnChange: a.renderContact,
	})
	return a
}

func (a *app) mount() error {
	root := Document.Call("getElementById", render.RootID)
	if !root.Truthy() {
		return errMissingRoot
	}
	mode := a.theme.Mode()
	applyThemeClass(mode)
	root.Set("innerHTML", render.Page(a.portfolio, render.View{
		Active:  a.tracker.Active(),
		Theme:   mode,
		Contact: a.submitter.Snapshot(),
		Year:    a.year,
	}))

	a.unsub = a.theme.Subscribe(func(m theme.Mode) {
		applyThemeClass(m)
		a.renderNav()
	})

	addHandler(&a.handlers, root, "click", a.handleClick)
	addHandler(&a.handlers, root, "input", a.handleInput)
	addHandler(&a.handlers, root, "submit", a.handleSubmit)
	addHandler(&a.handlers, js.Global(), "keydown", a.handleKey)
	addHandler(&a.handlers, js.Global(), "pagehide", func(js.Value, []js.Value) any {
		a.stop()
		return nil
	})

	detach, err := scrollspy.Attach(a.tracker, scrollSource(), observerSource())
	if err != nil {
		return err
	}
	a.detach = detach
	return nil
}

// stop releases every listener and cancels any in-flight submission.
func (a *app) stop() {
	a.stopOnce.Do(func() {
		if a.detach != nil {
			a.detach()
		}
		if a.unsub != nil {
			a.unsub()
		}
		a.submitter.Close()
		releaseHandlers(a.handlers)
		a.handlers = nil
	})
}

func (a *app) handleClick(this js.Value, args []js.Value) any {
	if len(args) == 0 {
		return nil
	}
	event := args[0]
	target := event.Get("target")

	if nav := closestWith(target, render.NavAttr); nav.Truthy() {
		event.Call("preventDefault")
		id := nav.Call("getAttribute", render.NavAttr).String()
		a.setMenu(false)
		a.tracker.Set(id)
		scrollToSection(id)
		return nil
	}
	if toggle := closestWith(target, render.ThemeAttr); toggle.Truthy() {
		if _, err := a.theme.Toggle(); err != nil {
			a.logger.Warn("theme", "theme preference not saved", map[string]any{"error": err.Error()})
		}
		return nil
	}

	switch {
	case closestID(target, render.MenuToggleID):
		a.mu.Lock()
		open := !a.menuOpen
		a.mu.Unlock()
		a.setMenu(open)
	case closestID(target, render.SuccessCloseID), target.Get("id").String() == render.SuccessModalID:
		a.submitter.Dismiss()
	}
	return nil
}

func (a *app) handleKey(this js.Value, args []js.Value) any {
	if len(args) == 0 || args[0].Get("key").String() != "Escape" {
		return nil
	}
	a.submitter.Dismiss()
	a.setMenu(false)
	return nil
}

func (a *app) handleInput(this js.Value, args []js.Value) any {
	if len(args) == 0 {
		return nil
	}
	target := args[0].Get("target")
	name := target.Get("name")
	if name.Type() != js.TypeString {
		return nil
	}
	field := contact.Field(name.String())
	for _, f := range contact.Fields {
		if f == field {
			a.submitter.Update(field, target.Get("value").String())
			return nil
		}
	}
	return nil
}

func (a *app) handleSubmit(this js.Value, args []js.Value) any {
	if len(args) == 0 {
		return nil
	}
	event := args[0]
	if event.Get("target").Get("id").String() != render.ContactFormID {
		return nil
	}
	event.Call("preventDefault")
	// Blocking calls deadlock inside a js callback.
	go a.submitter.Submit(context.Background())
	return nil
}

func (a *app) setMenu(open bool) {
	a.mu.Lock()
	changed := a.menuOpen != open
	a.menuOpen = open
	a.mu.Unlock()
	if changed {
		a.renderNav()
	}
}

func (a *app) renderNav() {
	a.mu.Lock()
	open := a.menuOpen
	a.mu.Unlock()
	setInnerHTML(render.NavID, render.Navbar(a.portfolio, a.tracker.Active(), a.theme.Mode(), open))
}

// renderContact redraws the form region and the success modal, keeping the
// caret where the user left it.
func (a *app) renderContact(snap contact.Snapshot) {
	focus := captureFocusSnapshot()
	setInnerHTML(render.ContactRegionID, render.ContactForm(snap))
	setOuterHTML(render.SuccessModalID, render.SuccessModal(snap.Status.Success))
	restoreFocusSnapshot(focus)
}

func closestID(node js.Value, id string) bool {
	if !node.Truthy() || node.Get("closest").Type() != js.TypeFunction {
		return false
	}
	return node.Call("closest", "#"+strings.TrimSpace(id)).Truthy()
}
