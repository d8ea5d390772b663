// Package devapi is the local stand-in for the storefront's backend: the
// action endpoint the browser bundle talks to, backed by an in-memory catalog
// and cart. It exists for development and integration tests; production
// deployments point the bundle at the real commerce backend instead.
package devapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Product is one catalog entry.
type Product struct {
	ID               int
	Name             string
	Price            float64
	ShortDescription string
	ImageURL         string
	Permalink        string
	Rating           float64
	Reviews          int
}

// CartItem is one cart line, addressed by its opaque key.
type CartItem struct {
	Key       string
	ProductID int
	Quantity  int
}

// Coupon is a flat-percentage discount code.
type Coupon struct {
	Code    string
	Percent float64
}

var (
	errProductNotFound  = errors.New("product not found")
	errCartItemNotFound = errors.New("cart item not found")
	errCouponNotFound   = errors.New("coupon not found")
)

// Store holds the dev backend's state. All methods are safe for concurrent
// use.
type Store struct {
	mu       sync.Mutex
	nonce    string
	products map[int]Product
	items    map[string]CartItem
	order    []string
	coupons  map[string]Coupon
	applied  *Coupon
	users    map[string]userRecord
}

type userRecord struct {
	email    string
	password string
}

// NewStore builds a store seeded with the demo catalog and coupon list and a
// fresh security token.
func NewStore() *Store {
	s := &Store{
		nonce:    uuid.NewString(),
		products: make(map[int]Product),
		items:    make(map[string]CartItem),
		coupons:  make(map[string]Coupon),
		users:    make(map[string]userRecord),
	}
	for _, p := range seedCatalog() {
		s.products[p.ID] = p
	}
	for _, c := range seedCoupons() {
		s.coupons[strings.ToLower(c.Code)] = c
	}
	return s
}

func seedCatalog() []Product {
	return []Product{
		{ID: 101, Name: "Pinot Noir 2021", Price: 38.00, ShortDescription: "Cool-climate pinot with bright cherry and spice.", Permalink: "/product/pinot-noir-2021", Rating: 4.6, Reviews: 23},
		{ID: 102, Name: "Chardonnay 2022", Price: 32.00, ShortDescription: "Barrel-fermented with citrus and struck-match notes.", Permalink: "/product/chardonnay-2022", Rating: 4.3, Reviews: 14},
		{ID: 103, Name: "Sparkling Rosé NV", Price: 28.50, ShortDescription: "Traditional method, strawberry and brioche.", Permalink: "/product/sparkling-rose-nv", Rating: 4.8, Reviews: 31},
		{ID: 104, Name: "Riesling 2023", Price: 26.00, ShortDescription: "Dry style with lime blossom and slate.", Permalink: "/product/riesling-2023", Rating: 4.1, Reviews: 9},
	}
}

func seedCoupons() []Coupon {
	return []Coupon{
		{Code: "WELCOME10", Percent: 10},
		{Code: "CLUB15", Percent: 15},
	}
}

// Nonce returns the security token the page embeds and every request must
// echo back.
func (s *Store) Nonce() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}

// Product looks a catalog entry up by ID.
func (s *Store) Product(id int) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// AddItem adds a product to the cart, merging with an existing line for the
// same product, and returns the line's key.
func (s *Store) AddItem(productID, quantity int) (string, error) {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return "", errProductNotFound
	}
	for key, item := range s.items {
		if item.ProductID == productID {
			item.Quantity += quantity
			s.items[key] = item
			return key, nil
		}
	}
	key := uuid.NewString()
	s.items[key] = CartItem{Key: key, ProductID: productID, Quantity: quantity}
	s.order = append(s.order, key)
	return key, nil
}

// RemoveItem deletes a cart line.
func (s *Store) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return errCartItemNotFound
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetQuantity updates a cart line; zero removes it, matching the cart form's
// semantics.
func (s *Store) SetQuantity(key string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[key]
	if !ok {
		return errCartItemNotFound
	}
	item.Quantity = quantity
	s.items[key] = item
	return nil
}

// ApplyCoupon records the discount for the current cart.
func (s *Store) ApplyCoupon(code string) (Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Coupon{}, errCouponNotFound
	}
	s.applied = &c
	return c, nil
}

// Items returns the cart lines in insertion order.
func (s *Store) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartItem, 0, len(s.items))
	for _, key := range s.order {
		if item, ok := s.items[key]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Totals reports the cart's item count, subtotal and discounted total.
func (s *Store) Totals() (count int, subtotal, total float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		p, ok := s.products[item.ProductID]
		if !ok {
			continue
		}
		count += item.Quantity
		subtotal += p.Price * float64(item.Quantity)
	}
	total = subtotal
	if s.applied != nil {
		total = subtotal * (100 - s.applied.Percent) / 100
	}
	return count, subtotal, total
}

// Register creates a user account. Usernames are case-insensitive and both
// username and email must be unused.
func (s *Store) Register(username, email, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return fmt.Errorf("username %q taken", username)
	}
	for _, u := range s.users {
		if u.email == email {
			return fmt.Errorf("email %q registered", email)
		}
	}
	s.users[username] = userRecord{email: email, password: password}
	return nil
}

// Authenticate checks a username/password pair.
func (s *Store) Authenticate(username, password string) bool {
	username = strings.ToLower(strings.TrimSpace(username))
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	return ok && u.password == password
}

// Catalog returns the products sorted by ID for stable rendering.
func (s *Store) Catalog() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
