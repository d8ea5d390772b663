//go:build js && wasm

package wasm

import "strings"

// injectModalMarkup appends the three overlay shells to the body unless the
// page already carries them.
func injectModalMarkup() {
	body := Document.Get("body")
	if !Document.Call("querySelector", ".auth-modal").Truthy() {
		body.Call("insertAdjacentHTML", "beforeend", authModalMarkup())
	}
	if !Document.Call("querySelector", "#quick-view-modal").Truthy() {
		body.Call("insertAdjacentHTML", "beforeend", quickViewMarkup())
	}
	if !Document.Call("querySelector", ".cart-confirm-overlay").Truthy() {
		body.Call("insertAdjacentHTML", "beforeend", cartConfirmMarkup())
	}
}

func authModalMarkup() string {
	var b strings.Builder
	b.WriteString(`<div class="auth-modal-backdrop"></div>`)
	b.WriteString(`<div class="auth-modal" role="dialog" aria-modal="true" aria-labelledby="auth-modal-title">`)
	b.WriteString(`<div class="auth-modal-split"><div class="auth-modal-left">`)
	b.WriteString(`<button class="auth-modal-close" aria-label="Close modal">&times;</button>`)
	b.WriteString(`<div class="auth-modal-tabs">`)
	b.WriteString(`<button class="auth-tab active" data-tab="login">Login</button>`)
	b.WriteString(`<button class="auth-tab" data-tab="register">Register</button>`)
	b.WriteString(`</div><div class="auth-modal-body">`)

	b.WriteString(`<div class="auth-tab-content active" data-content="login">`)
	b.WriteString(`<div class="auth-modal-header">`)
	b.WriteString(`<h2 class="auth-modal-title" id="auth-modal-title">Log In</h2>`)
	b.WriteString(`<p class="auth-modal-subtitle">Welcome back! Please enter your details</p>`)
	b.WriteString(`</div>`)
	b.WriteString(`<form class="auth-form" id="login-form">`)
	b.WriteString(`<div class="auth-form-group"><label class="auth-form-label" for="login-username">Email</label>`)
	b.WriteString(`<input type="text" id="login-username" name="username" class="auth-form-input" placeholder="Enter your email" autocomplete="username" /></div>`)
	b.WriteString(`<div class="auth-form-group"><label class="auth-form-label" for="login-password">Password</label>`)
	b.WriteString(`<div class="auth-password-wrapper">`)
	b.WriteString(`<input type="password" id="login-password" name="password" class="auth-form-input" placeholder="Enter your password" autocomplete="current-password" />`)
	b.WriteString(`<button type="button" class="toggle-password" aria-label="Show password">&#128065;</button>`)
	b.WriteString(`</div></div>`)
	b.WriteString(`<label class="auth-remember"><input type="checkbox" name="rememberme" /> Remember me</label>`)
	if pageCfg.LostPasswordURL != "" {
		b.WriteString(`<a href="` + pageCfg.LostPasswordURL + `" class="auth-forgot-link">forgot password ?</a>`)
	}
	b.WriteString(`<button type="submit" class="auth-submit-btn">Log in</button>`)
	b.WriteString(`<p class="auth-footer-text">Don't have account? <a href="#" class="switch-to-register">Sign up</a></p>`)
	b.WriteString(`</form></div>`)

	b.WriteString(`<div class="auth-tab-content" data-content="register">`)
	b.WriteString(`<div class="auth-modal-header">`)
	b.WriteString(`<h2 class="auth-modal-title">Sign Up</h2>`)
	b.WriteString(`<p class="auth-modal-subtitle">Create your account to get started</p>`)
	b.WriteString(`</div>`)
	b.WriteString(`<form class="auth-form" id="register-form">`)
	b.WriteString(`<div class="auth-form-group"><label class="auth-form-label" for="register-username">Username</label>`)
	b.WriteString(`<input type="text" id="register-username" name="username" class="auth-form-input" placeholder="Choose a username" autocomplete="username" /></div>`)
	b.WriteString(`<div class="auth-form-group"><label class="auth-form-label" for="register-email">Email</label>`)
	b.WriteString(`<input type="email" id="register-email" name="email" class="auth-form-input" placeholder="Enter your email" autocomplete="email" /></div>`)
	b.WriteString(`<div class="auth-form-group"><label class="auth-form-label" for="register-password">Password</label>`)
	b.WriteString(`<div class="auth-password-wrapper">`)
	b.WriteString(`<input type="password" id="register-password" name="password" class="auth-form-input" placeholder="Create a password" autocomplete="new-password" />`)
	b.WriteString(`<button type="button" class="toggle-password" aria-label="Show password">&#128065;</button>`)
	b.WriteString(`</div></div>`)
	b.WriteString(`<button type="submit" class="auth-submit-btn">Create Account</button>`)
	b.WriteString(`<p class="auth-footer-text">Already have an account? <a href="#" class="switch-to-login">Sign in</a></p>`)
	b.WriteString(`</form></div>`)

	b.WriteString(`</div></div>`)
	b.WriteString(`<div class="auth-modal-right"></div>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

func quickViewMarkup() string {
	var b strings.Builder
	b.WriteString(`<div id="quick-view-modal" class="quick-view-modal" style="display: none;">`)
	b.WriteString(`<div class="quick-view-overlay"></div>`)
	b.WriteString(`<div class="quick-view-container">`)
	b.WriteString(`<button class="quick-view-close" aria-label="Close">&times;</button>`)
	b.WriteString(`<div class="quick-view-content"></div>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

func cartConfirmMarkup() string {
	var b strings.Builder
	b.WriteString(`<div class="cart-confirm-overlay" role="dialog" aria-modal="true" aria-labelledby="cart-confirm-title">`)
	b.WriteString(`<div class="cart-confirm-modal">`)
	b.WriteString(`<div class="cart-confirm-header">`)
	b.WriteString(`<h3 id="cart-confirm-title" class="cart-confirm-title">Clear Shopping Cart?</h3>`)
	b.WriteString(`</div>`)
	b.WriteString(`<p class="cart-confirm-message">Are you sure you want to remove all items from your cart? This action cannot be undone.</p>`)
	b.WriteString(`<div class="cart-confirm-actions">`)
	b.WriteString(`<button type="button" class="cart-confirm-btn cart-confirm-btn-cancel" data-action="cancel">Cancel</button>`)
	b.WriteString(`<button type="button" class="cart-confirm-btn cart-confirm-btn-confirm" data-action="confirm">Clear Cart</button>`)
	b.WriteString(`</div></div></div>`)
	return b.String()
}
