package model

import "time"

// ToastKind identifies which storefront event raised a notification.
type ToastKind int

const (
	ToastAddedToCart ToastKind = iota
	ToastCouponApplied
)

func (k ToastKind) String() string {
	switch k {
	case ToastAddedToCart:
		return "added-to-cart"
	case ToastCouponApplied:
		return "coupon-applied"
	default:
		return "unknown"
	}
}

// ToastPhase is the animation phase of a notification. Phases only move
// forward for a given toast; a reopened notification is a fresh instance.
type ToastPhase int

const (
	PhaseEntering ToastPhase = iota
	PhaseCentered
	PhaseExpanded
	PhaseDismissing
	PhaseRemoved
)

func (p ToastPhase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseCentered:
		return "centered"
	case PhaseExpanded:
		return "expanded"
	case PhaseDismissing:
		return "dismissing"
	case PhaseRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Toast is a transient storefront notification. Exactly one toast is live at
// a time; the queue owns the instance for its whole lifecycle.
type Toast struct {
	ID        string
	Kind      ToastKind
	Title     string
	Subtitle  string
	ActionURL string
	CreatedAt time.Time
}

// ModalKind identifies one of the overlay surfaces managed by the modal
// controller.
type ModalKind int

const (
	ModalAuth ModalKind = iota
	ModalQuickView
	ModalCartConfirm
)

func (k ModalKind) String() string {
	switch k {
	case ModalAuth:
		return "auth"
	case ModalQuickView:
		return "quick-view"
	case ModalCartConfirm:
		return "cart-confirm"
	default:
		return "unknown"
	}
}

// AuthTab selects the visible pane of the authentication modal.
type AuthTab string

const (
	TabLogin    AuthTab = "login"
	TabRegister AuthTab = "register"
)

// AuthFormState holds the reactive state of one auth form pane.
type AuthFormState struct {
	Username   string
	Email      string
	Password   string
	RememberMe bool
	Submitting bool
	// ResultState is "success" or "error" once a submission has resolved.
	ResultState   string
	ResultMessage string
}

// AuthFormErrors flags the required fields that failed client validation.
type AuthFormErrors struct {
	Username bool
	Email    bool
	Password bool
	Message  string
}

// Any reports whether client validation rejected the form.
func (e AuthFormErrors) Any() bool {
	return e.Username || e.Email || e.Password
}

// AuthResult is the success payload for login and register actions.
type AuthResult struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// QuickViewResult carries the server-rendered product detail markup.
type QuickViewResult struct {
	HTML string `json:"html"`
}

// CartUpdate is the payload returned by cart mutation actions. Fragments maps
// CSS selectors to replacement markup for partial page updates.
type CartUpdate struct {
	Message      string            `json:"message"`
	CartCount    int               `json:"cart_count"`
	CartSubtotal string            `json:"cart_subtotal"`
	CartTotal    string            `json:"cart_total"`
	Fragments    map[string]string `json:"fragments"`
}
