//go:build js && wasm

// Package wasm binds the storefront's interaction controllers to the browser
// DOM. Each controller lives in its own headless package; this package owns
// the js.Func plumbing, the markup they render into and the page config the
// server injects.
package wasm

import (
	"strings"
	"syscall/js"

	"github.com/macedon-ranges/storefront/internal/ui/auth"
	"github.com/macedon-ranges/storefront/internal/ui/cart"
	"github.com/macedon-ranges/storefront/internal/ui/modal"
	"github.com/macedon-ranges/storefront/internal/ui/remote"
	"github.com/macedon-ranges/storefront/internal/ui/toast"
)

var (
	// Document references the global browser document for DOM interactions.
	Document js.Value

	// handlers stores bound js.Func callbacks so Teardown can release them.
	handlers []js.Func

	toasts    *toast.Queue
	modals    *modal.Controller
	quickView *modal.QuickView
	authFlow  *auth.Flow
	updater   *cart.Updater

	pageCfg     PageConfig
	initialized bool
)

// PageConfig is the configuration the server injects as a page global.
type PageConfig struct {
	AJAXURL         string
	Nonce           string
	CartURL         string
	LostPasswordURL string
}

// loadPageConfig reads the "storefrontData" global the templates localise.
func loadPageConfig() PageConfig {
	cfg := PageConfig{AJAXURL: "/api/ajax", CartURL: "/cart"}
	data := js.Global().Get("storefrontData")
	if !data.Truthy() {
		return cfg
	}
	if v := data.Get("ajax_url"); v.Type() == js.TypeString {
		cfg.AJAXURL = v.String()
	}
	if v := data.Get("nonce"); v.Type() == js.TypeString {
		cfg.Nonce = v.String()
	}
	if v := data.Get("cart_url"); v.Type() == js.TypeString && strings.TrimSpace(v.String()) != "" {
		cfg.CartURL = v.String()
	}
	if v := data.Get("lost_password_url"); v.Type() == js.TypeString {
		cfg.LostPasswordURL = v.String()
	}
	return cfg
}

// RunApp bootstraps the storefront WASM UI and blocks forever. Calling it a
// second time is a no-op; the listeners are already attached.
func RunApp() {
	done := make(chan struct{})
	if initialized {
		<-done
	}
	initialized = true

	window := js.Global()
	Document = window.Get("document")
	pageCfg = loadPageConfig()

	submitter := remote.New(pageCfg.AJAXURL, pageCfg.Nonce)

	toasts = toast.New(newToastSink(), toast.DefaultDelays())

	modals = modal.NewController(newModalView(), bodyScrollLock{})
	quickView = modal.NewQuickView(modals, newQuickViewView(), quickViewFetcher(submitter))
	authFlow = auth.NewFlow(submitter, newAuthView())
	updater = cart.NewUpdater(submitter, newCartView(), cartUpdated)

	bindModals()
	bindCart()
	bindQuantitySteppers()
	bindDragScroll()

	<-done
}

// Teardown releases every js.Func the bindings registered. Only tests and
// page navigation teardown paths call this.
func Teardown() {
	for _, fn := range handlers {
		fn.Release()
	}
	handlers = nil
	initialized = false
}

// bind wraps fn for handler bookkeeping and returns the js.Func to register.
func bind(fn func(this js.Value, args []js.Value) any) js.Func {
	f := js.FuncOf(fn)
	handlers = append(handlers, f)
	return f
}

func consoleWarn(args ...any) {
	console := js.Global().Get("console")
	if console.Truthy() {
		console.Call("warn", args...)
	}
}
