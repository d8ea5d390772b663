//go:build js && wasm

package wasm

import (
	"strconv"
	"syscall/js"

	"github.com/macedon-ranges/storefront/internal/ui/quantity"
)

// initQuantitySteppers injects plus/minus buttons into every quantity wrapper
// that does not have them yet. Safe to call repeatedly; fragment updates and
// quick-view renders re-run it over the fresh markup.
func initQuantitySteppers() {
	eachSelector(".quantity:not(.buttons-added)", func(wrap js.Value) {
		input := wrap.Call("querySelector", ".qty")
		if !input.Truthy() {
			return
		}
		input.Call("insertAdjacentHTML", "beforebegin",
			`<button type="button" class="minus qty-btn" aria-label="Decrease quantity">−</button>`)
		input.Call("insertAdjacentHTML", "afterend",
			`<button type="button" class="plus qty-btn" aria-label="Increase quantity">+</button>`)
		wrap.Get("classList").Call("add", "buttons-added")
	})
}

// fieldForInput reads the input's bound attributes, falling back to the
// storefront defaults for anything missing or malformed.
func fieldForInput(input js.Value) quantity.Field {
	attr := func(name string) string {
		v := input.Call("getAttribute", name)
		if v.Type() != js.TypeString {
			return ""
		}
		return v.String()
	}
	return quantity.FieldFromAttrs(attr("min"), attr("max"), attr("step"))
}

func inputValue(input js.Value) float64 {
	v, err := strconv.ParseFloat(input.Get("value").String(), 64)
	if err != nil {
		return 0
	}
	return v
}

func setInputValue(input js.Value, v float64) {
	input.Set("value", strconv.FormatFloat(v, 'f', -1, 64))
}

// bindQuantitySteppers installs the delegated stepper handlers and runs the
// first injection pass.
func bindQuantitySteppers() {
	initQuantitySteppers()

	step := func(target js.Value, increment bool) {
		wrap := closest(target, ".quantity")
		if !wrap.Truthy() {
			return
		}
		input := wrap.Call("querySelector", ".qty")
		if !input.Truthy() {
			return
		}
		field := fieldForInput(input)
		current := inputValue(input)
		var next float64
		if increment {
			next = field.Increment(current)
		} else {
			next = field.Decrement(current)
		}
		if next == current {
			return
		}
		setInputValue(input, next)
		dispatchChange(input)
	}

	Document.Call("addEventListener", "click", bind(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		e := args[0]
		target := e.Get("target")
		if closest(target, ".quantity .plus").Truthy() {
			e.Call("preventDefault")
			step(target, true)
		} else if closest(target, ".quantity .minus").Truthy() {
			e.Call("preventDefault")
			step(target, false)
		}
		return nil
	}))

	Document.Call("addEventListener", "change", bind(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		target := args[0].Get("target")
		if !closest(target, ".quantity").Truthy() || !target.Get("classList").Call("contains", "qty").Bool() {
			return nil
		}
		field := fieldForInput(target)
		setInputValue(target, field.Validate(target.Get("value").String()))
		return nil
	}))
}

// dispatchChange fires a bubbling change event so the cart auto-updater sees
// stepper-driven edits the same as typed ones.
func dispatchChange(input js.Value) {
	event := js.Global().Get("Event").New("change", map[string]any{"bubbles": true})
	input.Call("dispatchEvent", event)
}
