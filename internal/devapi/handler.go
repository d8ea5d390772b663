package devapi

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/macedon-ranges/storefront/logging"
)

// Action names the endpoint dispatches on.
const (
	actionLogin          = "storefront_login"
	actionRegister       = "storefront_register"
	actionAddToCart      = "add_to_cart"
	actionQuickView      = "get_quick_view_product"
	actionRemoveCartItem = "remove_cart_item"
	actionUpdateQuantity = "update_cart_quantity"
	actionApplyCoupon    = "apply_coupon"
)

// API serves the storefront's form-encoded action protocol.
type API struct {
	store  *Store
	logger *logging.Logger
}

// New builds the dev API over the given store. logger may be nil.
func New(store *Store, logger *logging.Logger) *API {
	return &API{store: store, logger: logger}
}

// Router returns the chi router with the action endpoint mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/ajax", a.handleAction)
	return r
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError mirrors the backend convention: error data is an object with a
// message. Status stays 200; the envelope carries the failure.
func writeError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Data: map[string]string{"message": message}})
}

func (a *API) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, "Invalid request")
		return
	}
	action := r.PostFormValue("action")

	a.log("ajax", "action received", map[string]any{"action": action})

	if r.PostFormValue("nonce") != a.store.Nonce() {
		if action == actionLogin || action == actionRegister {
			writeError(w, "Security check failed. Please refresh the page and try again.")
		} else {
			writeError(w, "Security check failed")
		}
		return
	}

	switch action {
	case actionLogin:
		a.handleLogin(w, r)
	case actionRegister:
		a.handleRegister(w, r)
	case actionAddToCart:
		a.handleAddToCart(w, r)
	case actionQuickView:
		a.handleQuickView(w, r)
	case actionRemoveCartItem:
		a.handleRemoveItem(w, r)
	case actionUpdateQuantity:
		a.handleUpdateQuantity(w, r)
	case actionApplyCoupon:
		a.handleApplyCoupon(w, r)
	default:
		writeError(w, "Unknown action")
	}
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, "Please fill in all required fields.")
		return
	}
	if !a.store.Authenticate(username, password) {
		writeError(w, "Invalid username or password. Please try again.")
		return
	}
	writeSuccess(w, map[string]string{
		"message":  "Login successful! Redirecting...",
		"redirect": "/my-account",
	})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if username == "" || email == "" || password == "" {
		writeError(w, "Please fill in all required fields.")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, "Please enter a valid email address.")
		return
	}
	if len(password) < 6 {
		writeError(w, "Password must be at least 6 characters long.")
		return
	}
	if err := a.store.Register(username, email, password); err != nil {
		if strings.Contains(err.Error(), "email") {
			writeError(w, "This email is already registered. Please use another email or login.")
		} else {
			writeError(w, "This username is already taken. Please choose another one.")
		}
		return
	}
	writeSuccess(w, map[string]string{
		"message":  "Registration successful! Welcome aboard!",
		"redirect": "/my-account",
	})
}

func (a *API) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PostFormValue("product_id"))
	if err != nil || productID <= 0 {
		writeError(w, "Invalid product ID")
		return
	}
	quantity, _ := strconv.Atoi(r.PostFormValue("quantity"))
	if _, err := a.store.AddItem(productID, quantity); err != nil {
		writeError(w, "Product not found")
		return
	}
	a.writeCartUpdate(w, "Added to cart")
}

func (a *API) handleQuickView(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PostFormValue("product_id"))
	if err != nil || productID <= 0 {
		writeError(w, "Invalid product ID")
		return
	}
	p, ok := a.store.Product(productID)
	if !ok {
		writeError(w, "Product not found")
		return
	}
	writeSuccess(w, map[string]string{"html": renderQuickView(p)})
}

func (a *API) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PostFormValue("cart_item_key"))
	if key == "" {
		writeError(w, "Invalid cart item")
		return
	}
	if err := a.store.RemoveItem(key); err != nil {
		writeError(w, "Failed to remove item from cart")
		return
	}
	a.writeCartUpdate(w, "Item removed from cart")
}

func (a *API) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PostFormValue("cart_item_key"))
	if key == "" {
		writeError(w, "Invalid cart item")
		return
	}
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil || quantity < 0 {
		quantity = 1
	}
	if err := a.store.SetQuantity(key, quantity); err != nil {
		writeError(w, "Failed to update cart")
		return
	}
	a.writeCartUpdate(w, "Cart updated")
}

func (a *API) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PostFormValue("coupon_code"))
	if code == "" {
		writeError(w, "Please enter a coupon code.")
		return
	}
	if _, err := a.store.ApplyCoupon(code); err != nil {
		writeError(w, "Coupon \""+code+"\" does not exist!")
		return
	}
	a.writeCartUpdate(w, "Coupon code applied successfully.")
}

// writeCartUpdate ships the mutation outcome plus the refreshed totals and
// replacement fragments.
func (a *API) writeCartUpdate(w http.ResponseWriter, message string) {
	count, subtotal, total := a.store.Totals()
	writeSuccess(w, map[string]any{
		"message":       message,
		"cart_count":    count,
		"cart_subtotal": formatPrice(subtotal),
		"cart_total":    formatPrice(total),
		"fragments":     renderFragments(a.store),
	})
}

func (a *API) log(category, message string, fields map[string]any) {
	if a.logger != nil {
		a.logger.Debug(category, message, fields)
	}
}
