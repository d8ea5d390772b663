package modal

import (
	"context"
	"sync"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/model"
)

// FetchFunc retrieves the server-rendered detail markup for a product.
type FetchFunc func(ctx context.Context, productID string) (string, error)

// QuickViewView renders the quick-view modal body.
type QuickViewView interface {
	ShowLoading()
	ShowProduct(html string)
	ShowError(message string)
}

// QuickViewErrorMessage is the inline panel shown when a product fails to
// load; the failure stays scoped to the widget.
const QuickViewErrorMessage = "Error loading product. Please try again."

// QuickView drives the product preview modal. Each OpenProduct call starts a
// new request generation; responses from an older generation are discarded so
// a slow fetch can never overwrite a newer product's content.
type QuickView struct {
	mu      sync.Mutex
	ctrl    *Controller
	view    QuickViewView
	fetch   FetchFunc
	timeout time.Duration

	gen    uint64
	cancel context.CancelFunc
}

// NewQuickView wires the quick-view session to the page controller.
func NewQuickView(ctrl *Controller, view QuickViewView, fetch FetchFunc) *QuickView {
	return &QuickView{
		ctrl:    ctrl,
		view:    view,
		fetch:   fetch,
		timeout: 10 * time.Second,
	}
}

// OpenProduct opens the modal on a loading skeleton and fetches the product
// markup. Opening another product while a fetch is outstanding cancels it.
func (qv *QuickView) OpenProduct(productID string) {
	qv.ctrl.Open(model.ModalQuickView)

	qv.mu.Lock()
	qv.gen++
	gen := qv.gen
	if qv.cancel != nil {
		qv.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), qv.timeout)
	qv.cancel = cancel
	qv.mu.Unlock()

	qv.view.ShowLoading()

	go func() {
		defer cancel()
		html, err := qv.fetch(ctx, productID)

		qv.mu.Lock()
		stale := qv.gen != gen
		qv.mu.Unlock()
		if stale {
			return
		}

		if err != nil {
			qv.view.ShowError(QuickViewErrorMessage)
			return
		}
		qv.view.ShowProduct(html)
	}()
}

// Close dismisses the modal and invalidates any outstanding fetch.
func (qv *QuickView) Close() {
	qv.mu.Lock()
	qv.gen++
	if qv.cancel != nil {
		qv.cancel()
		qv.cancel = nil
	}
	qv.mu.Unlock()

	qv.ctrl.Close(model.ModalQuickView)
}
