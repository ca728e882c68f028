//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/Its-donkey/portfolio/internal/scrollspy"
)

// measure reads the scroll position and each section's document offset.
func measure(sections []string) scrollspy.Position {
	window := js.Global()
	offset := window.Get("pageYOffset").Float()
	pos := scrollspy.Position{
		Offset:   offset,
		Viewport: window.Get("innerHeight").Float(),
		Tops:     make(map[string]float64, len(sections)),
	}
	if root := Document.Get("documentElement"); root.Truthy() {
		pos.Document = root.Get("scrollHeight").Float()
	}
	for _, id := range sections {
		node := Document.Call("getElementById", id)
		if !node.Truthy() {
			continue
		}
		pos.Tops[id] = node.Call("getBoundingClientRect").Get("top").Float() + offset
	}
	return pos
}

// scrollSource feeds window scroll events to the tracker and takes one
// measurement on start so a reload mid-page highlights the right item.
func scrollSource() scrollspy.Source {
	return scrollspy.FromFunc(func(t *scrollspy.Tracker) (func(), error) {
		window := js.Global()
		var handlers []listener
		opts := js.Global().Get("Object").New()
		opts.Set("passive", true)
		fn := js.FuncOf(func(js.Value, []js.Value) any {
			t.Scroll(measure(t.Sections()))
			return nil
		})
		window.Call("addEventListener", "scroll", fn, opts)
		handlers = append(handlers, listener{node: window, event: "scroll", fn: fn})
		t.Scroll(measure(t.Sections()))
		return func() { releaseHandlers(handlers) }, nil
	})
}

// observerSource reports section visibility through an IntersectionObserver
// limited to the middle band of the viewport. Browsers without the API get
// a no-op source; the scroll source alone still drives the highlight.
func observerSource() scrollspy.Source {
	return scrollspy.FromFunc(func(t *scrollspy.Tracker) (func(), error) {
		ctor := js.Global().Get("IntersectionObserver")
		if ctor.Type() != js.TypeFunction {
			return func() {}, nil
		}
		callback := js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) == 0 {
				return nil
			}
			list := args[0]
			entries := make([]scrollspy.Entry, 0, list.Length())
			for i := 0; i < list.Length(); i++ {
				e := list.Index(i)
				entries = append(entries, scrollspy.Entry{
					ID:           e.Get("target").Get("id").String(),
					Intersecting: e.Get("isIntersecting").Truthy(),
					Ratio:        e.Get("intersectionRatio").Float(),
				})
			}
			t.Observe(entries)
			return nil
		})

		opts := js.Global().Get("Object").New()
		opts.Set("rootMargin", scrollspy.RootMargin)
		opts.Set("threshold", js.ValueOf([]any{0, 0.25, 0.5, 0.75, 1}))
		observer := ctor.New(callback, opts)
		for _, id := range t.Sections() {
			if node := Document.Call("getElementById", id); node.Truthy() {
				observer.Call("observe", node)
			}
		}
		return func() {
			observer.Call("disconnect")
			callback.Release()
		}, nil
	})
}
