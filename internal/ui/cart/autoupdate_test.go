package cart

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/macedon-ranges/storefront/internal/ui/model"
	"github.com/macedon-ranges/storefront/internal/ui/remote"
)

type postRecord struct {
	action string
	fields url.Values
}

type fakePoster struct {
	mu      sync.Mutex
	posts   []postRecord
	results map[string]remote.Result
}

func (p *fakePoster) Submit(ctx context.Context, action string, fields url.Values) remote.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, postRecord{action: action, fields: fields})
	if res, ok := p.results[action]; ok {
		return res
	}
	return remote.Result{OK: true, Data: []byte(`{}`)}
}

func (p *fakePoster) recorded() []postRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]postRecord, len(p.posts))
	copy(out, p.posts)
	return out
}

type fakeView struct {
	mu      sync.Mutex
	busy    []bool
	applied []map[string]string
	errors  []string
}

func (v *fakeView) SetBusy(b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = append(v.busy, b)
}

func (v *fakeView) ApplyFragments(f map[string]string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applied = append(v.applied, f)
}

func (v *fakeView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, msg)
}

func newTestUpdater(poster *fakePoster, view *fakeView, updated func(model.CartUpdate)) *Updater {
	u := NewUpdater(poster, view, updated)
	u.debounce = 10 * time.Millisecond
	return u
}

func waitForPosts(t *testing.T, poster *fakePoster, n int) []postRecord {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if posts := poster.recorded(); len(posts) >= n {
			return posts
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected %d posts, got %d", n, len(poster.recorded()))
	return nil
}

func TestQuantityChangeDebounces(t *testing.T) {
	poster := &fakePoster{}
	view := &fakeView{}
	u := newTestUpdater(poster, view, nil)

	// Three rapid edits to the same line collapse into one request carrying
	// the final quantity.
	u.QuantityChanged("abc", 2)
	u.QuantityChanged("abc", 3)
	u.QuantityChanged("abc", 4)

	waitForPosts(t, poster, 1)
	time.Sleep(30 * time.Millisecond)
	posts := poster.recorded()
	require.Len(t, posts, 1)
	require.Equal(t, remote.ActionUpdateQuantity, posts[0].action)
	require.Equal(t, "abc", posts[0].fields.Get("cart_item_key"))
	require.Equal(t, "4", posts[0].fields.Get("quantity"))
}

func TestRemoveCancelsPendingQuantityUpdate(t *testing.T) {
	poster := &fakePoster{}
	view := &fakeView{}
	u := newTestUpdater(poster, view, nil)

	u.QuantityChanged("abc", 5)
	u.RemoveItem(context.Background(), "abc")

	time.Sleep(30 * time.Millisecond)
	posts := poster.recorded()
	require.Len(t, posts, 1)
	require.Equal(t, remote.ActionRemoveCartItem, posts[0].action)
	require.False(t, u.Pending("abc"))
}

func TestAppliedUpdateReachesViewAndCallback(t *testing.T) {
	poster := &fakePoster{results: map[string]remote.Result{
		remote.ActionRemoveCartItem: {OK: true, Data: []byte(`{
			"message": "Item removed from cart",
			"cart_count": 1,
			"fragments": {".cart-count": "<span class=\"cart-count\">1</span>"}
		}`)},
	}}
	view := &fakeView{}
	var got model.CartUpdate
	u := newTestUpdater(poster, view, func(update model.CartUpdate) { got = update })

	u.RemoveItem(context.Background(), "abc")

	require.Equal(t, "Item removed from cart", got.Message)
	require.Len(t, view.applied, 1)
	require.Contains(t, view.applied[0], ".cart-count")
	require.Empty(t, view.errors)
}

func TestFragmentOnlyResponseFillsUpdate(t *testing.T) {
	poster := &fakePoster{results: map[string]remote.Result{
		remote.ActionApplyCoupon: {OK: true, Data: []byte(`{
			"fragments": {
				".cart-count": "<span class=\"cart-count\">3</span>",
				".cart-subtotal-amount": "<strong class=\"cart-subtotal-amount\">$96.00</strong>",
				".woocommerce-notices": "<div class=\"woocommerce-message\">Coupon code applied successfully.</div>"
			}
		}`)},
	}}
	view := &fakeView{}
	var got model.CartUpdate
	u := newTestUpdater(poster, view, func(update model.CartUpdate) { got = update })

	u.ApplyCoupon(context.Background(), "WELCOME10")

	require.Equal(t, 3, got.CartCount)
	require.Equal(t, "$96.00", got.CartSubtotal)
	require.Equal(t, "Coupon code applied successfully.", got.Message)
	require.Empty(t, view.errors)
}

func TestFailedMutationShowsError(t *testing.T) {
	poster := &fakePoster{results: map[string]remote.Result{
		remote.ActionApplyCoupon: remote.Failure("Coupon does not exist."),
	}}
	view := &fakeView{}
	u := newTestUpdater(poster, view, nil)

	u.ApplyCoupon(context.Background(), "NOPE")

	require.Equal(t, []string{"Coupon does not exist."}, view.errors)
	require.Empty(t, view.applied)
}

func TestEmptyCouponIgnored(t *testing.T) {
	poster := &fakePoster{}
	view := &fakeView{}
	u := newTestUpdater(poster, view, nil)

	u.ApplyCoupon(context.Background(), "   ")

	require.Empty(t, poster.recorded())
	require.Empty(t, view.busy)
}
