//go:build js && wasm

package wasm

import (
	"html"
	"strings"
	"syscall/js"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/model"
)

// toastSink renders the live notification as a DOM node and maps lifecycle
// phases onto its CSS classes. The queue owns all timing except the class
// choreography inside the dismissing phase, which mirrors the collapse
// transitions in the stylesheet.
type toastSink struct {
	el     js.Value
	id     string
	timers []*time.Timer
}

func newToastSink() *toastSink {
	return &toastSink{}
}

func (s *toastSink) Mount(t model.Toast) {
	var b strings.Builder
	b.WriteString(`<div class="cart-notification">`)
	b.WriteString(`<div class="cart-notification-tick">✓</div>`)
	b.WriteString(`<div class="cart-notification-content">`)
	b.WriteString(`<div class="cart-notification-close">&times;</div>`)
	b.WriteString(`<div class="cart-notification-icon">✓</div>`)
	b.WriteString(`<div class="cart-notification-title"><strong>`)
	b.WriteString(html.EscapeString(t.Title))
	b.WriteString(`</strong><br>`)
	b.WriteString(html.EscapeString(t.Subtitle))
	b.WriteString(`</div>`)
	if t.ActionURL != "" {
		b.WriteString(`<div class="cart-notification-actions"><a href="`)
		b.WriteString(html.EscapeString(t.ActionURL))
		b.WriteString(`" class="cart-notification-view">View Cart</a></div>`)
	}
	b.WriteString(`</div></div>`)

	body := Document.Get("body")
	body.Call("insertAdjacentHTML", "beforeend", b.String())
	s.el = body.Get("lastElementChild")
	s.id = t.ID
	s.el.Get("classList").Call("add", "is-active")

	closeBtn := s.el.Call("querySelector", ".cart-notification-close")
	if closeBtn.Truthy() {
		closeBtn.Call("addEventListener", "click", bind(func(this js.Value, args []js.Value) any {
			go toasts.Dismiss()
			return nil
		}))
	}
}

func (s *toastSink) SetPhase(id string, phase model.ToastPhase) {
	if id != s.id || !s.el.Truthy() {
		return
	}
	classes := s.el.Get("classList")
	switch phase {
	case model.PhaseCentered:
		classes.Call("add", "is-center")
	case model.PhaseExpanded:
		classes.Call("add", "is-expanded")
	case model.PhaseDismissing:
		// Unwind the classes in reverse so each transition plays out before
		// the queue detaches the node.
		classes.Call("remove", "is-expanded")
		el := s.el
		s.timers = append(s.timers,
			time.AfterFunc(450*time.Millisecond, func() {
				el.Get("classList").Call("remove", "is-center")
			}),
			time.AfterFunc(900*time.Millisecond, func() {
				el.Get("classList").Call("remove", "is-active")
			}),
		)
	}
}

func (s *toastSink) Unmount(id string) {
	if id != s.id || !s.el.Truthy() {
		return
	}
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.el.Call("remove")
	s.el = js.Value{}
	s.id = ""
}
