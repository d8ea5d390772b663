// Package modal owns the lifecycle of every overlay surface: the auth modal,
// the quick-view modal and the cart-clear confirmation. One controller per
// page guards the shared scroll lock, and at most one modal is open at a
// time — opening a second closes the first.
package modal

import (
	"sync"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/model"
)

// View receives presentation callbacks. The wasm build toggles DOM classes;
// tests use a recorder.
type View interface {
	SetOpen(kind model.ModalKind, open bool)
	// SetEntrance toggles the one-shot first-open visual state.
	SetEntrance(kind model.ModalKind, on bool)
	SetTab(tab model.AuthTab)
	ClearMessages(kind model.ModalKind)
	FocusFirstField(kind model.ModalKind)
}

// ScrollLock is the page-wide body scroll lock. The controller is its only
// writer.
type ScrollLock interface {
	Lock()
	Unlock()
}

const (
	// EntranceDuration is how long the first-open visual state stays applied.
	EntranceDuration = time.Second
	// FocusDelay waits out the open transition before moving focus.
	FocusDelay = 300 * time.Millisecond
)

// Controller is the page-wide modal state machine.
type Controller struct {
	mu   sync.Mutex
	view View
	lock ScrollLock

	entranceDuration time.Duration
	focusDelay       time.Duration

	isOpen   bool
	openKind model.ModalKind
	locked   bool

	// entered records which kinds have ever opened; the entrance state fires
	// at most once per kind for the controller's lifetime.
	entered map[model.ModalKind]bool

	activeTab model.AuthTab
	pending   func()

	openGen uint64
}

// NewController builds the page's modal controller.
func NewController(view View, lock ScrollLock) *Controller {
	return &Controller{
		view:             view,
		lock:             lock,
		entranceDuration: EntranceDuration,
		focusDelay:       FocusDelay,
		entered:          make(map[model.ModalKind]bool),
		activeTab:        model.TabLogin,
	}
}

// Open shows the modal of the given kind. Idempotent when that modal is
// already open; any other open modal is closed first.
func (c *Controller) Open(kind model.ModalKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openLocked(kind)
}

func (c *Controller) openLocked(kind model.ModalKind) {
	if c.isOpen {
		if c.openKind == kind {
			return
		}
		c.closeLocked()
	}

	c.isOpen = true
	c.openKind = kind
	c.openGen++
	gen := c.openGen

	if !c.entered[kind] {
		c.entered[kind] = true
		c.view.SetEntrance(kind, true)
		time.AfterFunc(c.entranceDuration, func() {
			c.view.SetEntrance(kind, false)
		})
	}

	if !c.locked {
		c.locked = true
		c.lock.Lock()
	}
	c.view.SetOpen(kind, true)

	time.AfterFunc(c.focusDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.isOpen || c.openKind != kind || c.openGen != gen {
			return
		}
		c.view.FocusFirstField(kind)
	})
}

// Close dismisses the modal of the given kind if it is the open one.
func (c *Controller) Close(kind model.ModalKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen || c.openKind != kind {
		return
	}
	c.closeLocked()
}

// closeLocked clears inline messages, releases the scroll lock and drops any
// pending confirm callback without invoking it.
func (c *Controller) closeLocked() {
	kind := c.openKind
	c.isOpen = false
	c.openGen++
	c.view.SetOpen(kind, false)
	c.view.ClearMessages(kind)
	if c.locked {
		c.locked = false
		c.lock.Unlock()
	}
	c.pending = nil
}

// Escape closes whatever modal is open; for the confirm modal this is a
// cancel.
func (c *Controller) Escape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return
	}
	c.closeLocked()
}

// BackdropClick behaves like Escape.
func (c *Controller) BackdropClick() {
	c.Escape()
}

// SwitchTab changes the visible auth pane and clears inline messages.
func (c *Controller) SwitchTab(tab model.AuthTab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeTab = tab
	c.view.SetTab(tab)
	c.view.ClearMessages(model.ModalAuth)
}

// OpenAuth opens the auth modal on the given tab.
func (c *Controller) OpenAuth(tab model.AuthTab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeTab = tab
	c.view.SetTab(tab)
	c.view.ClearMessages(model.ModalAuth)
	c.openLocked(model.ModalAuth)
}

// ActiveTab returns the auth modal's visible pane.
func (c *Controller) ActiveTab() model.AuthTab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTab
}

// ShowConfirm opens the cart-clear confirmation with a one-shot callback.
// Ownership of the callback transfers back to the caller at confirm time.
func (c *Controller) ShowConfirm(onConfirm func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openLocked(model.ModalCartConfirm)
	c.pending = onConfirm
}

// Confirm invokes and clears the pending callback, then closes the modal.
func (c *Controller) Confirm() {
	c.mu.Lock()
	if !c.isOpen || c.openKind != model.ModalCartConfirm {
		c.mu.Unlock()
		return
	}
	cb := c.pending
	c.pending = nil
	c.closeLocked()
	c.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Cancel closes the confirm modal without invoking the callback.
func (c *Controller) Cancel() {
	c.Close(model.ModalCartConfirm)
}

// IsOpen reports whether the given modal kind is the open one.
func (c *Controller) IsOpen(kind model.ModalKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen && c.openKind == kind
}

// OpenKind returns the currently open modal, if any.
func (c *Controller) OpenKind() (model.ModalKind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openKind, c.isOpen
}
