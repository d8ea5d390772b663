// Package cart handles the storefront's partial cart updates: decoding the
// payload of a cart mutation, reading values back out of the replacement
// fragments and debouncing quantity edits into requests.
package cart

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/macedon-ranges/storefront/internal/ui/model"
	"github.com/macedon-ranges/storefront/internal/ui/remote"
)

// ParseUpdate decodes a successful cart mutation Result. Callers must check
// res.OK first; an error here means the server sent a malformed payload.
func ParseUpdate(res remote.Result) (model.CartUpdate, error) {
	var update model.CartUpdate
	err := res.Bind(&update)
	return update, err
}

// FillFromFragments derives the top-level values a response left empty from
// its replacement fragments. Some backends ship only markup; the markup is
// then the source of truth for the count, subtotal and coupon outcome.
func FillFromFragments(update model.CartUpdate) model.CartUpdate {
	if len(update.Fragments) == 0 {
		return update
	}
	if update.CartCount == 0 {
		if n, ok := CountFromFragment(update.Fragments[".cart-count"]); ok {
			update.CartCount = n
		}
	}
	if update.CartSubtotal == "" {
		if s, ok := SubtotalFromFragment(update.Fragments[".cart-subtotal-amount"]); ok {
			update.CartSubtotal = s
		}
	}
	if update.Message == "" {
		for _, markup := range update.Fragments {
			if banner, ok := CouponBanner(markup); ok {
				update.Message = banner
				break
			}
		}
	}
	return update
}

// CountFromFragment reads the item count out of a ".cart-count" replacement
// fragment. The second return is false when the fragment carries no number.
func CountFromFragment(html string) (int, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, false
	}
	sel := doc.Find(".cart-count").First()
	if sel.Length() == 0 {
		sel = doc.Find("body").First()
	}
	n, err := strconv.Atoi(strings.TrimSpace(sel.Text()))
	if err != nil {
		return 0, false
	}
	return n, true
}

// SubtotalFromFragment reads the formatted subtotal out of a
// ".cart-subtotal-amount" replacement fragment.
func SubtotalFromFragment(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	sel := doc.Find(".cart-subtotal-amount").First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

// ProductNameFromCard derives a display name from the product card markup
// surrounding an add-to-cart control. Falls back to "Product" when the card
// carries no recognisable title, matching the storefront's templates.
func ProductNameFromCard(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "Product"
	}
	title := doc.Find(".woocommerce-loop-product__title, h2, h3").First()
	name := strings.TrimSpace(title.Text())
	if name == "" {
		return "Product"
	}
	return name
}

// CouponBanner scans markup for a coupon success banner and returns its text.
// Used when a totals refresh arrives through a fragment replace rather than
// as the direct response to an apply request.
func CouponBanner(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	var found string
	doc.Find(".woocommerce-message").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.Contains(strings.ToLower(text), "coupon") {
			found = text
			return false
		}
		return true
	})
	return found, found != ""
}
