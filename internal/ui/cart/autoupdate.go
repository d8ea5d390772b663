package cart

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/model"
	"github.com/macedon-ranges/storefront/internal/ui/remote"
)

// QuantityDebounce is how long the updater waits after a quantity edit before
// posting it, so a run of stepper clicks collapses into one request.
const QuantityDebounce = 500 * time.Millisecond

// Poster is the slice of the remote submitter the updater needs.
type Poster interface {
	Submit(ctx context.Context, action string, fields url.Values) remote.Result
}

// View renders cart mutation state into the page.
type View interface {
	// SetBusy toggles the cart form's updating state.
	SetBusy(busy bool)
	// ApplyFragments replaces page regions keyed by CSS selector.
	ApplyFragments(fragments map[string]string)
	// ShowError surfaces a failed mutation to the shopper.
	ShowError(message string)
}

// Updater debounces quantity edits and issues cart mutations. A fresh edit to
// the same line supersedes any pending one; the superseded request is never
// sent. Updated fires on every applied mutation so callers can raise toasts.
type Updater struct {
	mu      sync.Mutex
	poster  Poster
	view    View
	updated func(model.CartUpdate)

	debounce time.Duration
	gens     map[string]uint64
	timers   map[string]*time.Timer
}

// NewUpdater builds a cart updater. updated may be nil.
func NewUpdater(poster Poster, view View, updated func(model.CartUpdate)) *Updater {
	return &Updater{
		poster:   poster,
		view:     view,
		updated:  updated,
		debounce: QuantityDebounce,
		gens:     make(map[string]uint64),
		timers:   make(map[string]*time.Timer),
	}
}

// QuantityChanged schedules a debounced quantity update for one cart line.
// Calling it again for the same key resets the delay and drops the earlier
// pending value.
func (u *Updater) QuantityChanged(key string, quantity int) {
	if strings.TrimSpace(key) == "" {
		return
	}

	u.mu.Lock()
	u.gens[key]++
	gen := u.gens[key]
	if t := u.timers[key]; t != nil {
		t.Stop()
	}
	u.timers[key] = time.AfterFunc(u.debounce, func() {
		u.mu.Lock()
		if u.gens[key] != gen {
			u.mu.Unlock()
			return
		}
		delete(u.timers, key)
		u.mu.Unlock()

		u.resolve(u.poster.Submit(context.Background(), remote.ActionUpdateQuantity, url.Values{
			"cart_item_key": {key},
			"quantity":      {strconv.Itoa(quantity)},
		}))
	})
	u.mu.Unlock()

	u.view.SetBusy(true)
}

// RemoveItem removes one cart line immediately and cancels any quantity
// update still pending for it.
func (u *Updater) RemoveItem(ctx context.Context, key string) {
	if strings.TrimSpace(key) == "" {
		return
	}

	u.mu.Lock()
	u.gens[key]++
	if t := u.timers[key]; t != nil {
		t.Stop()
		delete(u.timers, key)
	}
	u.mu.Unlock()

	u.view.SetBusy(true)
	u.resolve(u.poster.Submit(ctx, remote.ActionRemoveCartItem, url.Values{
		"cart_item_key": {key},
	}))
}

// ApplyCoupon posts a coupon code and reports the outcome from the response
// itself. Empty codes are ignored.
func (u *Updater) ApplyCoupon(ctx context.Context, code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}

	u.view.SetBusy(true)
	u.resolve(u.poster.Submit(ctx, remote.ActionApplyCoupon, url.Values{
		"coupon_code": {code},
	}))
}

// Pending reports whether a quantity update is still queued for the key.
func (u *Updater) Pending(key string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.timers[key] != nil
}

func (u *Updater) resolve(res remote.Result) {
	u.view.SetBusy(false)

	if !res.OK {
		u.view.ShowError(res.Message)
		return
	}

	update, err := ParseUpdate(res)
	if err != nil {
		u.view.ShowError(remote.GenericErrorMessage)
		return
	}
	update = FillFromFragments(update)

	if len(update.Fragments) > 0 {
		u.view.ApplyFragments(update.Fragments)
	}
	if u.updated != nil {
		u.updated(update)
	}
}
