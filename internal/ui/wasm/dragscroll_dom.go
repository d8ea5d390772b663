//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/macedon-ranges/storefront/internal/ui/dragscroll"
)

// elementScroller adapts a DOM element to the drag controller's contract.
type elementScroller struct {
	el js.Value
}

func (s elementScroller) ScrollLeft() float64 {
	return s.el.Get("scrollLeft").Float()
}

func (s elementScroller) SetScrollLeft(v float64) {
	s.el.Set("scrollLeft", v)
}

// bindDragScroll wires the category filter row for drag scrolling. Pages
// without the row skip the binding entirely.
func bindDragScroll() {
	container := Document.Call("querySelector", ".category-filter-buttons")
	if !container.Truthy() {
		return
	}

	ctrl := dragscroll.New(elementScroller{el: container})

	// Native drag ghosts on the links fight the scroll gesture.
	eachSelector(".category-filter-buttons a", func(link js.Value) {
		link.Call("addEventListener", "dragstart", bind(func(this js.Value, args []js.Value) any {
			if len(args) > 0 {
				args[0].Call("preventDefault")
			}
			return nil
		}))
	})

	pageX := func(e js.Value) float64 {
		return e.Get("pageX").Float() - container.Get("offsetLeft").Float()
	}

	container.Call("addEventListener", "mousedown", bind(func(this js.Value, args []js.Value) any {
		e := args[0]
		e.Call("preventDefault")
		ctrl.PointerDown(pageX(e))
		container.Get("style").Set("cursor", "grabbing")
		return nil
	}))

	container.Call("addEventListener", "mousemove", bind(func(this js.Value, args []js.Value) any {
		e := args[0]
		ctrl.PointerMove(pageX(e))
		if ctrl.Dragging() {
			e.Call("preventDefault")
			container.Get("classList").Call("add", "is-dragging")
		}
		return nil
	}))

	container.Call("addEventListener", "mouseup", bind(func(this js.Value, args []js.Value) any {
		ctrl.PointerUp()
		container.Get("classList").Call("remove", "is-dragging")
		container.Get("style").Set("cursor", "grab")
		return nil
	}))

	container.Call("addEventListener", "mouseleave", bind(func(this js.Value, args []js.Value) any {
		ctrl.PointerLeave()
		container.Get("classList").Call("remove", "is-dragging")
		container.Get("style").Set("cursor", "grab")
		return nil
	}))

	touchPoint := func(e js.Value) (float64, float64) {
		touch := e.Get("touches").Index(0)
		return touch.Get("pageX").Float(), touch.Get("pageY").Float()
	}

	container.Call("addEventListener", "touchstart", bind(func(this js.Value, args []js.Value) any {
		x, y := touchPoint(args[0])
		ctrl.TouchStart(x, y)
		return nil
	}))

	container.Call("addEventListener", "touchmove", bind(func(this js.Value, args []js.Value) any {
		x, y := touchPoint(args[0])
		ctrl.TouchMove(x, y)
		return nil
	}))

	container.Call("addEventListener", "touchend", bind(func(this js.Value, args []js.Value) any {
		ctrl.TouchEnd()
		return nil
	}))

	// Capture-phase click guard: a drag must never double as navigation.
	container.Call("addEventListener", "click", bind(func(this js.Value, args []js.Value) any {
		if !ctrl.SuppressClick() {
			return nil
		}
		e := args[0]
		e.Call("preventDefault")
		e.Call("stopPropagation")
		e.Call("stopImmediatePropagation")
		return nil
	}), true)
}
