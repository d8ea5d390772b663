//go:build js && wasm

package wasm

import (
	"context"
	"html"
	"net/url"
	"strings"
	"syscall/js"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/modal"
	"github.com/macedon-ranges/storefront/internal/ui/model"
	"github.com/macedon-ranges/storefront/internal/ui/remote"
)

// bodyScrollLock freezes page scrolling while a modal is open. The modal
// controller is the only writer, so the overflow style never fights between
// surfaces.
type bodyScrollLock struct{}

func (bodyScrollLock) Lock() {
	Document.Get("body").Get("style").Set("overflow", "hidden")
}

func (bodyScrollLock) Unlock() {
	Document.Get("body").Get("style").Set("overflow", "")
}

// modalView maps controller state onto the three overlay surfaces' classes.
type modalView struct{}

func newModalView() modalView {
	injectModalMarkup()
	return modalView{}
}

func (modalView) SetOpen(kind model.ModalKind, open bool) {
	switch kind {
	case model.ModalAuth:
		toggleClass(".auth-modal", "active", open)
		toggleClass(".auth-modal-backdrop", "active", open)
	case model.ModalQuickView:
		m := Document.Call("querySelector", "#quick-view-modal")
		if m.Truthy() {
			display := "none"
			if open {
				display = "block"
			}
			m.Get("style").Set("display", display)
		}
		bodyClass := Document.Get("body").Get("classList")
		if open {
			bodyClass.Call("add", "quick-view-open")
		} else {
			bodyClass.Call("remove", "quick-view-open")
		}
	case model.ModalCartConfirm:
		toggleClass(".cart-confirm-overlay", "active", open)
	}
}

func (modalView) SetEntrance(kind model.ModalKind, on bool) {
	if kind == model.ModalAuth {
		toggleClass(".auth-modal", "first-open", on)
	}
}

func (modalView) SetTab(tab model.AuthTab) {
	eachSelector(".auth-tab", func(el js.Value) {
		active := el.Call("getAttribute", "data-tab").String() == string(tab)
		el.Get("classList").Call("toggle", "active", active)
	})
	eachSelector(".auth-tab-content", func(el js.Value) {
		active := el.Call("getAttribute", "data-content").String() == string(tab)
		el.Get("classList").Call("toggle", "active", active)
	})

	title := Document.Call("querySelector", ".auth-tab-content.active .auth-modal-title")
	subtitle := Document.Call("querySelector", ".auth-tab-content.active .auth-modal-subtitle")
	if !title.Truthy() || !subtitle.Truthy() {
		return
	}
	if tab == model.TabLogin {
		title.Set("textContent", "Log In")
		subtitle.Set("textContent", "Welcome back! Please enter your details")
	} else {
		title.Set("textContent", "Sign Up")
		subtitle.Set("textContent", "Create your account to get started")
	}
}

func (modalView) ClearMessages(kind model.ModalKind) {
	if kind != model.ModalAuth {
		return
	}
	eachSelector(".auth-error-message, .auth-success-message", func(el js.Value) {
		el.Call("remove")
	})
}

func (modalView) FocusFirstField(kind model.ModalKind) {
	var target js.Value
	switch kind {
	case model.ModalAuth:
		target = Document.Call("querySelector", ".auth-tab-content.active input")
	case model.ModalQuickView:
		target = Document.Call("querySelector", ".quick-view-close")
	case model.ModalCartConfirm:
		target = Document.Call("querySelector", `.cart-confirm-overlay [data-action="cancel"]`)
	}
	if target.Truthy() {
		target.Call("focus")
	}
}

// quickViewView swaps the quick-view modal's body between its three states.
type quickViewView struct{}

func newQuickViewView() quickViewView { return quickViewView{} }

func (quickViewView) content() js.Value {
	return Document.Call("querySelector", "#quick-view-modal .quick-view-content")
}

func (v quickViewView) ShowLoading() {
	if c := v.content(); c.Truthy() {
		c.Set("innerHTML", `<div class="quick-view-loading"><div class="spinner"></div><p>Loading product...</p></div>`)
	}
}

func (v quickViewView) ShowProduct(markup string) {
	if c := v.content(); c.Truthy() {
		c.Set("innerHTML", markup)
		initQuantitySteppers()
	}
}

func (v quickViewView) ShowError(message string) {
	if c := v.content(); c.Truthy() {
		c.Set("innerHTML", `<div class="quick-view-error"><p>`+message+`</p></div>`)
	}
}

// quickViewFetcher adapts the remote submitter into the quick-view fetch
// contract.
func quickViewFetcher(submitter *remote.Submitter) modal.FetchFunc {
	return func(ctx context.Context, productID string) (string, error) {
		res := submitter.Submit(ctx, remote.ActionQuickView, url.Values{
			"product_id": {productID},
		})
		if !res.OK {
			return "", errQuickView
		}
		var payload model.QuickViewResult
		if err := res.Bind(&payload); err != nil {
			return "", err
		}
		return payload.HTML, nil
	}
}

type quickViewError string

func (e quickViewError) Error() string { return string(e) }

const errQuickView = quickViewError("quick view fetch failed")

// authView renders auth submission state into the modal panes.
type authView struct{}

func newAuthView() authView { return authView{} }

func (authView) pane(tab model.AuthTab) js.Value {
	return Document.Call("querySelector", `.auth-tab-content[data-content="`+string(tab)+`"]`)
}

func (v authView) SetLoading(tab model.AuthTab, loading bool) {
	pane := v.pane(tab)
	if !pane.Truthy() {
		return
	}
	btn := pane.Call("querySelector", ".auth-submit-btn")
	if !btn.Truthy() {
		return
	}
	btn.Get("classList").Call("toggle", "loading", loading)
	btn.Set("disabled", loading)
}

func (v authView) ShowMessage(tab model.AuthTab, state, message string) {
	pane := v.pane(tab)
	if !pane.Truthy() {
		return
	}
	eachSelector(".auth-error-message, .auth-success-message", func(el js.Value) {
		el.Call("remove")
	})
	header := pane.Call("querySelector", ".auth-modal-header")
	if header.Truthy() {
		header.Call("insertAdjacentHTML", "afterend",
			`<div class="auth-`+state+`-message">`+html.EscapeString(message)+`</div>`)
	}
}

func (authView) Navigate(redirect string, after time.Duration) {
	time.AfterFunc(after, func() {
		location := js.Global().Get("window").Get("location")
		if strings.TrimSpace(redirect) == "" {
			location.Call("reload")
			return
		}
		location.Set("href", redirect)
	})
}

// bindModals attaches the page-wide listeners for all three overlays. All
// handlers delegate from the document so markup swapped in by fragment
// updates keeps working.
func bindModals() {
	Document.Call("addEventListener", "click", bind(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		e := args[0]
		target := e.Get("target")

		if closest(target, ".btn-login, .mobile-account-link").Truthy() {
			if !Document.Get("body").Get("classList").Call("contains", "logged-in").Bool() {
				e.Call("preventDefault")
				modals.OpenAuth(model.TabLogin)
			}
			return nil
		}
		if closest(target, ".auth-modal-close").Truthy() {
			modals.Close(model.ModalAuth)
			return nil
		}
		if target.Get("classList").Call("contains", "auth-modal-backdrop").Bool() {
			modals.BackdropClick()
			return nil
		}
		if tab := closest(target, ".auth-tab"); tab.Truthy() {
			modals.SwitchTab(model.AuthTab(tab.Call("getAttribute", "data-tab").String()))
			return nil
		}
		if closest(target, ".switch-to-register").Truthy() {
			e.Call("preventDefault")
			modals.SwitchTab(model.TabRegister)
			return nil
		}
		if closest(target, ".switch-to-login").Truthy() {
			e.Call("preventDefault")
			modals.SwitchTab(model.TabLogin)
			return nil
		}
		if btn := closest(target, ".toggle-password"); btn.Truthy() {
			e.Call("preventDefault")
			wrap := closest(btn, ".auth-password-wrapper")
			if !wrap.Truthy() {
				return nil
			}
			if input := wrap.Call("querySelector", "input"); input.Truthy() {
				if input.Call("getAttribute", "type").String() == "password" {
					input.Call("setAttribute", "type", "text")
					btn.Call("setAttribute", "aria-label", "Hide password")
				} else {
					input.Call("setAttribute", "type", "password")
					btn.Call("setAttribute", "aria-label", "Show password")
				}
			}
			return nil
		}

		if btn := closest(target, ".quick-view-button"); btn.Truthy() {
			e.Call("preventDefault")
			id := btn.Call("getAttribute", "data-product-id")
			if id.Truthy() {
				quickView.OpenProduct(id.String())
			}
			return nil
		}
		if closest(target, ".quick-view-close").Truthy() ||
			target.Get("classList").Call("contains", "quick-view-overlay").Bool() {
			quickView.Close()
			return nil
		}

		if target.Get("classList").Call("contains", "cart-confirm-overlay").Bool() {
			modals.Cancel()
			return nil
		}
		if btn := closest(target, "[data-action]"); btn.Truthy() && closest(target, ".cart-confirm-overlay").Truthy() {
			switch btn.Call("getAttribute", "data-action").String() {
			case "cancel":
				modals.Cancel()
			case "confirm":
				modals.Confirm()
			}
			return nil
		}
		if btn := closest(target, `.clear-cart-btn, .clear-cart-link, [name="clear_cart"]`); btn.Truthy() {
			e.Call("preventDefault")
			e.Call("stopPropagation")
			clearURL := btn.Get("href")
			modals.ShowConfirm(func() {
				if clearURL.Type() == js.TypeString && clearURL.String() != "" {
					js.Global().Get("window").Get("location").Set("href", clearURL.String())
				}
			})
			return nil
		}
		return nil
	}))

	Document.Call("addEventListener", "keydown", bind(func(this js.Value, args []js.Value) any {
		if len(args) == 0 || args[0].Get("key").String() != "Escape" {
			return nil
		}
		if modals.IsOpen(model.ModalQuickView) {
			quickView.Close()
			return nil
		}
		modals.Escape()
		return nil
	}))

	bindAuthForm("login-form", func(form js.Value) {
		username := formValue(form, "username")
		password := formValue(form, "password")
		remember := formChecked(form, "rememberme")
		go authFlow.SubmitLogin(context.Background(), username, password, remember)
	})
	bindAuthForm("register-form", func(form js.Value) {
		username := formValue(form, "username")
		email := formValue(form, "email")
		password := formValue(form, "password")
		go authFlow.SubmitRegister(context.Background(), username, email, password)
	})
}

func bindAuthForm(id string, submit func(form js.Value)) {
	form := Document.Call("getElementById", id)
	if !form.Truthy() {
		return
	}
	form.Call("addEventListener", "submit", bind(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			args[0].Call("preventDefault")
		}
		submit(form)
		return nil
	}))
}

func formValue(form js.Value, name string) string {
	el := form.Call("querySelector", `[name="`+name+`"]`)
	if !el.Truthy() {
		return ""
	}
	return el.Get("value").String()
}

func formChecked(form js.Value, name string) bool {
	el := form.Call("querySelector", `[name="`+name+`"]`)
	return el.Truthy() && el.Get("checked").Truthy()
}

func toggleClass(selector, class string, on bool) {
	el := Document.Call("querySelector", selector)
	if el.Truthy() {
		el.Get("classList").Call("toggle", class, on)
	}
}

func eachSelector(selector string, fn func(el js.Value)) {
	list := Document.Call("querySelectorAll", selector)
	for i := 0; i < list.Length(); i++ {
		fn(list.Index(i))
	}
}

func closest(el js.Value, selector string) js.Value {
	if !el.Truthy() || el.Get("closest").Type() != js.TypeFunction {
		return js.Value{}
	}
	return el.Call("closest", selector)
}
