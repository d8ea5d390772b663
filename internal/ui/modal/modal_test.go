package modal

import (
	"sync"
	"testing"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/model"
)

type viewEvent struct {
	op   string
	kind model.ModalKind
	tab  model.AuthTab
	on   bool
}

type recorderView struct {
	mu     sync.Mutex
	events []viewEvent
}

func (r *recorderView) record(ev viewEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorderView) SetOpen(kind model.ModalKind, open bool) {
	r.record(viewEvent{op: "open", kind: kind, on: open})
}

func (r *recorderView) SetEntrance(kind model.ModalKind, on bool) {
	r.record(viewEvent{op: "entrance", kind: kind, on: on})
}

func (r *recorderView) SetTab(tab model.AuthTab) {
	r.record(viewEvent{op: "tab", tab: tab})
}

func (r *recorderView) ClearMessages(kind model.ModalKind) {
	r.record(viewEvent{op: "clear", kind: kind})
}

func (r *recorderView) FocusFirstField(kind model.ModalKind) {
	r.record(viewEvent{op: "focus", kind: kind})
}

func (r *recorderView) count(op string, kind model.ModalKind, on bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.op == op && ev.kind == kind && ev.on == on {
			n++
		}
	}
	return n
}

type fakeLock struct {
	mu      sync.Mutex
	locks   int
	unlocks int
}

func (f *fakeLock) Lock() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks++
}

func (f *fakeLock) Unlock() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocks++
}

func (f *fakeLock) held() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locks > f.unlocks
}

func newTestController() (*Controller, *recorderView, *fakeLock) {
	view := &recorderView{}
	lock := &fakeLock{}
	c := NewController(view, lock)
	c.entranceDuration = 5 * time.Millisecond
	c.focusDelay = 5 * time.Millisecond
	return c, view, lock
}

func TestOpenIsIdempotent(t *testing.T) {
	c, view, lock := newTestController()

	c.Open(model.ModalAuth)
	c.Open(model.ModalAuth)
	c.Open(model.ModalAuth)

	if got := view.count("open", model.ModalAuth, true); got != 1 {
		t.Fatalf("expected one open transition, got %d", got)
	}
	if !lock.held() {
		t.Fatalf("scroll lock must be held while a modal is open")
	}
	if lock.locks != 1 {
		t.Fatalf("scroll lock acquired %d times for one open", lock.locks)
	}
}

func TestSingleModalInvariant(t *testing.T) {
	c, view, lock := newTestController()

	c.Open(model.ModalAuth)
	c.Open(model.ModalQuickView)

	if c.IsOpen(model.ModalAuth) {
		t.Fatalf("opening quick view must close the auth modal")
	}
	if !c.IsOpen(model.ModalQuickView) {
		t.Fatalf("quick view should be open")
	}
	if got := view.count("open", model.ModalAuth, false); got != 1 {
		t.Fatalf("auth modal was not closed, close events: %d", got)
	}
	if !lock.held() {
		t.Fatalf("scroll lock must survive a modal handover")
	}
}

func TestCloseReleasesScrollLockAndClearsMessages(t *testing.T) {
	c, view, lock := newTestController()

	c.Open(model.ModalAuth)
	c.Close(model.ModalAuth)

	if lock.held() {
		t.Fatalf("scroll lock must release on close")
	}
	if got := view.count("clear", model.ModalAuth, false); got != 1 {
		t.Fatalf("close must clear inline messages, got %d clears", got)
	}

	// Closing a modal that is not open is a no-op.
	c.Close(model.ModalAuth)
	if lock.unlocks != 1 {
		t.Fatalf("redundant close released the lock again")
	}
}

func TestEntranceFiresOncePerKind(t *testing.T) {
	c, view, _ := newTestController()

	c.Open(model.ModalAuth)
	c.Close(model.ModalAuth)
	c.Open(model.ModalAuth)
	c.Close(model.ModalAuth)

	if got := view.count("entrance", model.ModalAuth, true); got != 1 {
		t.Fatalf("entrance state applied %d times, want once for the lifetime", got)
	}

	deadline := time.Now().Add(time.Second)
	for view.count("entrance", model.ModalAuth, false) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("entrance state never cleared")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestFocusOnlyWhileStillOpen(t *testing.T) {
	c, view, _ := newTestController()

	c.Open(model.ModalAuth)
	time.Sleep(30 * time.Millisecond)
	if got := view.count("focus", model.ModalAuth, false); got != 1 {
		t.Fatalf("expected focus after the open transition, got %d", got)
	}

	c.Close(model.ModalAuth)
	c.Open(model.ModalQuickView)
	c.Close(model.ModalQuickView)
	time.Sleep(30 * time.Millisecond)
	if got := view.count("focus", model.ModalQuickView, false); got != 0 {
		t.Fatalf("focus fired for a modal closed before the delay elapsed")
	}
}

func TestConfirmInvokesCallbackOnce(t *testing.T) {
	c, _, _ := newTestController()

	calls := 0
	c.ShowConfirm(func() { calls++ })
	c.Confirm()
	c.Confirm()

	if calls != 1 {
		t.Fatalf("confirm callback invoked %d times, want 1", calls)
	}
	if c.IsOpen(model.ModalCartConfirm) {
		t.Fatalf("confirm must close the modal")
	}
}

func TestCancelDropsCallbackWithoutInvoking(t *testing.T) {
	c, _, _ := newTestController()

	for _, dismiss := range []func(){c.Cancel, c.Escape, c.BackdropClick} {
		calls := 0
		c.ShowConfirm(func() { calls++ })
		dismiss()
		c.Confirm()
		if calls != 0 {
			t.Fatalf("dismissed confirm modal still invoked its callback")
		}
	}
}

func TestSwitchTabClearsMessages(t *testing.T) {
	c, view, _ := newTestController()

	c.OpenAuth(model.TabLogin)
	c.SwitchTab(model.TabRegister)

	if c.ActiveTab() != model.TabRegister {
		t.Fatalf("expected register tab active")
	}
	if got := view.count("clear", model.ModalAuth, false); got < 2 {
		t.Fatalf("tab switch must clear inline messages, got %d clears", got)
	}
}
