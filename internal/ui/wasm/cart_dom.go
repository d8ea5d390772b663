//go:build js && wasm

package wasm

import (
	"context"
	"strings"
	"syscall/js"

	"github.com/macedon-ranges/storefront/internal/ui/cart"
	"github.com/macedon-ranges/storefront/internal/ui/model"
	"github.com/macedon-ranges/storefront/internal/ui/toast"
)

// cartView applies cart mutation results to the page.
type cartView struct{}

func newCartView() cartView { return cartView{} }

func (cartView) SetBusy(busy bool) {
	eachSelector("form.woocommerce-cart-form", func(form js.Value) {
		form.Get("classList").Call("toggle", "cart-updating", busy)
	})
}

func (cartView) ApplyFragments(fragments map[string]string) {
	for selector, markup := range fragments {
		eachSelector(selector, func(el js.Value) {
			el.Set("outerHTML", markup)
		})
	}
	// Replaced markup arrives without stepper buttons.
	initQuantitySteppers()
}

func (cartView) ShowError(message string) {
	consoleWarn("cart update failed", message)
}

// cartUpdated raises the coupon toast when a mutation response says a coupon
// landed. The response itself is the signal; nothing polls the page for
// banners.
func cartUpdated(update model.CartUpdate) {
	if !strings.Contains(strings.ToLower(update.Message), "coupon") {
		return
	}
	toasts.Notify(model.ToastCouponApplied, toast.Notice{
		Title:     update.Message,
		Subtitle:  "Your discount has been applied.",
		ActionURL: pageCfg.CartURL,
	})
}

// bindCart wires the cart page listeners: quantity edits, row removal, coupon
// entry and the added-to-cart notification.
func bindCart() {
	body := Document.Get("body")

	// The cart subsystem announces additions with a DOM event carrying the
	// triggering button; the product name comes from the surrounding card.
	body.Call("addEventListener", "added_to_cart", bind(func(this js.Value, args []js.Value) any {
		if body.Get("classList").Call("contains", "woocommerce-account").Bool() {
			return nil
		}
		name := "Product"
		if len(args) > 0 {
			if detail := args[0].Get("detail"); detail.Truthy() {
				if button := detail.Get("button"); button.Truthy() {
					if card := closest(button, ".product, li.product"); card.Truthy() {
						name = cart.ProductNameFromCard(card.Get("outerHTML").String())
					}
				}
			}
		}
		toasts.Notify(model.ToastAddedToCart, toast.Notice{
			Title:     name,
			Subtitle:  "has been added to your cart successfully",
			ActionURL: pageCfg.CartURL,
		})
		return nil
	}))

	Document.Call("addEventListener", "change", bind(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		target := args[0].Get("target")
		if !target.Get("classList").Call("contains", "qty").Bool() {
			return nil
		}
		if !closest(target, "form.woocommerce-cart-form").Truthy() {
			return nil
		}
		row := closest(target, "[data-cart-item-key]")
		if !row.Truthy() {
			return nil
		}
		key := row.Call("getAttribute", "data-cart-item-key").String()
		field := fieldForInput(target)
		qty := int(field.Validate(target.Get("value").String()))
		updater.QuantityChanged(key, qty)
		return nil
	}))

	Document.Call("addEventListener", "click", bind(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		e := args[0]
		target := e.Get("target")

		if link := closest(target, ".remove-cart-item, a.remove"); link.Truthy() {
			row := closest(link, "[data-cart-item-key]")
			key := ""
			if row.Truthy() {
				key = row.Call("getAttribute", "data-cart-item-key").String()
			} else if attr := link.Call("getAttribute", "data-cart-item-key"); attr.Truthy() {
				key = attr.String()
			}
			if key != "" {
				e.Call("preventDefault")
				go updater.RemoveItem(context.Background(), key)
			}
			return nil
		}

		if closest(target, `[name="apply_coupon"]`).Truthy() {
			e.Call("preventDefault")
			go updater.ApplyCoupon(context.Background(), couponCode())
			return nil
		}
		return nil
	}))

	Document.Call("addEventListener", "keypress", bind(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		e := args[0]
		if e.Get("key").String() != "Enter" {
			return nil
		}
		if e.Get("target").Get("id").String() != "coupon_code" {
			return nil
		}
		e.Call("preventDefault")
		go updater.ApplyCoupon(context.Background(), couponCode())
		return nil
	}))
}

func couponCode() string {
	input := Document.Call("getElementById", "coupon_code")
	if !input.Truthy() {
		return ""
	}
	return input.Get("value").String()
}
