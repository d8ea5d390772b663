package devapi

import (
	"fmt"
	"html"
	"strings"
)

// renderQuickView produces the modal body markup for one product, shaped the
// way the storefront templates lay a single product out.
func renderQuickView(p Product) string {
	var b strings.Builder
	b.WriteString(`<div class="quick-view-product">`)

	b.WriteString(`<div class="quick-view-product-gallery">`)
	if p.ImageURL != "" {
		b.WriteString(`<img class="quick-view-image" src="` + html.EscapeString(p.ImageURL) + `" alt="` + html.EscapeString(p.Name) + `" />`)
	} else {
		b.WriteString(`<div class="quick-view-image placeholder"></div>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="quick-view-product-info">`)
	b.WriteString(`<h2 class="product_title entry-title">` + html.EscapeString(p.Name) + `</h2>`)
	b.WriteString(`<div class="price-wrapper"><span class="price">` + formatPrice(p.Price) + `</span></div>`)

	if p.Rating > 0 {
		b.WriteString(`<div class="woocommerce-product-rating">`)
		b.WriteString(fmt.Sprintf(`<span class="rating-text"><strong>%.1f</strong> <span class="count">%d</span> reviews</span>`, p.Rating, p.Reviews))
		b.WriteString(`</div>`)
	}

	if p.ShortDescription != "" {
		b.WriteString(`<div class="woocommerce-product-details__short-description"><p>`)
		b.WriteString(html.EscapeString(p.ShortDescription))
		b.WriteString(`</p></div>`)
	}

	b.WriteString(`<div class="quick-view-add-to-cart">`)
	b.WriteString(`<div class="quantity"><input type="number" class="qty" value="1" min="1" max="999" step="1" /></div>`)
	b.WriteString(fmt.Sprintf(`<button type="button" class="add_to_cart_button" data-product-id="%d">Add to cart</button>`, p.ID))
	b.WriteString(`</div>`)

	b.WriteString(`<a href="` + html.EscapeString(p.Permalink) + `" class="quick-view-full-details">View Full Details</a>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

// renderFragments builds the selector-to-markup map cart mutations ship back
// so the header widgets refresh without a page load.
func renderFragments(s *Store) map[string]string {
	count, subtotal, _ := s.Totals()

	countAttr := ""
	if count == 0 {
		countAttr = ` style="display: none;"`
	}
	unit := "items"
	if count == 1 {
		unit = "item"
	}

	var dropdown strings.Builder
	dropdown.WriteString(`<div class="cart-dropdown-items">`)
	for _, item := range s.Items() {
		p, ok := s.Product(item.ProductID)
		if !ok {
			continue
		}
		dropdown.WriteString(fmt.Sprintf(
			`<div class="cart-dropdown-item" data-cart-item-key="%s"><span class="item-name">%s</span><span class="item-qty">× %d</span><a href="#" class="remove-cart-item" aria-label="Remove">&times;</a></div>`,
			html.EscapeString(item.Key), html.EscapeString(p.Name), item.Quantity))
	}
	dropdown.WriteString(`</div>`)

	return map[string]string{
		".cart-count":           fmt.Sprintf(`<span class="cart-count"%s>%d</span>`, countAttr, count),
		".cart-item-count":      fmt.Sprintf(`<span class="cart-item-count">%d %s</span>`, count, unit),
		".cart-subtotal-amount": `<strong class="cart-subtotal-amount">` + formatPrice(subtotal) + `</strong>`,
		".cart-dropdown-items":  dropdown.String(),
	}
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
