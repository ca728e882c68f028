//go:build js && wasm

package wasm

import (
	"errors"
	"strings"
	"syscall/js"

	"github.com/Its-donkey/portfolio/internal/theme"
)

// consoleWriter sends each log line to the browser console.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	console := js.Global().Get("console")
	if console.Truthy() {
		line := strings.TrimRight(string(p), "\n")
		method := "log"
		switch {
		case strings.Contains(line, `"level":"ERROR"`):
			method = "error"
		case strings.Contains(line, `"level":"WARN"`):
			method = "warn"
		}
		console.Call(method, line)
	}
	return len(p), nil
}

// localStore persists the theme preference in localStorage.
type localStore struct{}

func (localStore) Load() (theme.Mode, bool) {
	storage := js.Global().Get("localStorage")
	if !storage.Truthy() {
		return "", false
	}
	value := storage.Call("getItem", theme.StorageKey)
	if value.Type() != js.TypeString {
		return "", false
	}
	mode, err := theme.ParseMode(strings.TrimSpace(value.String()))
	if err != nil {
		return "", false
	}
	return mode, true
}

func (localStore) Save(m theme.Mode) (err error) {
	storage := js.Global().Get("localStorage")
	if !storage.Truthy() {
		return errors.New("localStorage unavailable")
	}
	// setItem throws when storage is full or disabled.
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("localStorage rejected theme")
		}
	}()
	storage.Call("setItem", theme.StorageKey, string(m))
	return nil
}

func prefersDark() bool {
	match := js.Global().Get("matchMedia")
	if match.Type() != js.TypeFunction {
		return false
	}
	return js.Global().Call("matchMedia", "(prefers-color-scheme: dark)").Get("matches").Truthy()
}

func applyThemeClass(m theme.Mode) {
	root := Document.Get("documentElement")
	if root.Truthy() {
		root.Get("classList").Call("toggle", "dark", m.IsDark())
	}
}

type focusSnapshot struct {
	ID    string
	Start int
	End   int
}

func captureFocusSnapshot() focusSnapshot {
	active := Document.Get("activeElement")
	if !active.Truthy() {
		return focusSnapshot{Start: -1, End: -1}
	}
	idValue := active.Get("id")
	if idValue.Type() != js.TypeString {
		return focusSnapshot{Start: -1, End: -1}
	}
	snap := focusSnapshot{ID: idValue.String(), Start: -1, End: -1}
	if start := active.Get("selectionStart"); start.Type() == js.TypeNumber {
		snap.Start = start.Int()
	}
	if end := active.Get("selectionEnd"); end.Type() == js.TypeNumber {
		snap.End = end.Int()
	}
	return snap
}

func restoreFocusSnapshot(snap focusSnapshot) {
	if snap.ID == "" {
		return
	}
	target := Document.Call("getElementById", snap.ID)
	if !target.Truthy() {
		return
	}
	target.Call("focus")
	if snap.Start >= 0 && snap.End >= 0 {
		if setter := target.Get("setSelectionRange"); setter.Type() == js.TypeFunction {
			target.Call("setSelectionRange", snap.Start, snap.End)
		}
	}
}

// closestWith walks up from node to the nearest element carrying attr.
func closestWith(node js.Value, attr string) js.Value {
	if !node.Truthy() || node.Get("closest").Type() != js.TypeFunction {
		return js.Null()
	}
	return node.Call("closest", "["+attr+"]")
}

func setInnerHTML(id, markup string) bool {
	node := Document.Call("getElementById", id)
	if !node.Truthy() {
		return false
	}
	node.Set("innerHTML", markup)
	return true
}

func setOuterHTML(id, markup string) bool {
	node := Document.Call("getElementById", id)
	if !node.Truthy() {
		return false
	}
	node.Set("outerHTML", markup)
	return true
}

func scrollToSection(id string) {
	target := Document.Call("getElementById", id)
	if !target.Truthy() {
		return
	}
	opts := js.Global().Get("Object").New()
	opts.Set("behavior", "smooth")
	opts.Set("block", "start")
	target.Call("scrollIntoView", opts)
}

// listener is a bound event handler that can be removed again.
type listener struct {
	node  js.Value
	event string
	fn    js.Func
}

func addHandler(handlers *[]listener, node js.Value, event string, handler func(js.Value, []js.Value) any) {
	if !node.Truthy() {
		return
	}
	fn := js.FuncOf(handler)
	node.Call("addEventListener", event, fn)
	*handlers = append(*handlers, listener{node: node, event: event, fn: fn})
}

func releaseHandlers(handlers []listener) {
	for _, l := range handlers {
		l.node.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
}
