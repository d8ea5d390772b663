package devapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func postAction(t *testing.T, srv *httptest.Server, action, nonce string, fields url.Values) testEnvelope {
	t.Helper()
	form := url.Values{}
	for k, vals := range fields {
		for _, v := range vals {
			form.Add(k, v)
		}
	}
	form.Set("action", action)
	form.Set("nonce", nonce)

	resp, err := http.PostForm(srv.URL+"/ajax", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func errorMessage(t *testing.T, env testEnvelope) string {
	t.Helper()
	var data struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Message
}

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	srv := httptest.NewServer(New(store, nil).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func TestNonceRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	env := postAction(t, srv, actionQuickView, "wrong", url.Values{"product_id": {"101"}})
	require.False(t, env.Success)
	require.Equal(t, "Security check failed", errorMessage(t, env))

	env = postAction(t, srv, actionLogin, "wrong", url.Values{"username": {"a"}, "password": {"b"}})
	require.False(t, env.Success)
	require.Contains(t, errorMessage(t, env), "Security check failed.")
}

func TestQuickViewRendersProduct(t *testing.T) {
	srv, store := newTestServer(t)

	env := postAction(t, srv, actionQuickView, store.Nonce(), url.Values{"product_id": {"101"}})
	require.True(t, env.Success)

	var data struct {
		HTML string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(data.HTML))
	require.NoError(t, err)
	require.Equal(t, "Pinot Noir 2021", doc.Find(".product_title").Text())
	require.Equal(t, "$38.00", doc.Find(".price").Text())
	require.Equal(t, 1, doc.Find(".quantity .qty").Length())
	require.Equal(t, "101", doc.Find(".add_to_cart_button").AttrOr("data-product-id", ""))
}

func TestQuickViewUnknownProduct(t *testing.T) {
	srv, store := newTestServer(t)

	env := postAction(t, srv, actionQuickView, store.Nonce(), url.Values{"product_id": {"999"}})
	require.False(t, env.Success)
	require.Equal(t, "Product not found", errorMessage(t, env))

	env = postAction(t, srv, actionQuickView, store.Nonce(), url.Values{"product_id": {"abc"}})
	require.Equal(t, "Invalid product ID", errorMessage(t, env))
}

func TestCartLifecycleThroughActions(t *testing.T) {
	srv, store := newTestServer(t)
	nonce := store.Nonce()

	env := postAction(t, srv, actionAddToCart, nonce, url.Values{"product_id": {"101"}, "quantity": {"2"}})
	require.True(t, env.Success)

	var update struct {
		Message   string            `json:"message"`
		CartCount int               `json:"cart_count"`
		Subtotal  string            `json:"cart_subtotal"`
		Fragments map[string]string `json:"fragments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &update))
	require.Equal(t, 2, update.CartCount)
	require.Equal(t, "$76.00", update.Subtotal)

	// Fragments carry the refreshed header widgets.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(update.Fragments[".cart-count"]))
	require.NoError(t, err)
	require.Equal(t, "2", doc.Find(".cart-count").Text())

	items := store.Items()
	require.Len(t, items, 1)
	key := items[0].Key

	env = postAction(t, srv, actionUpdateQuantity, nonce, url.Values{"cart_item_key": {key}, "quantity": {"5"}})
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, &update))
	require.Equal(t, 5, update.CartCount)

	env = postAction(t, srv, actionRemoveCartItem, nonce, url.Values{"cart_item_key": {key}})
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, &update))
	require.Equal(t, "Item removed from cart", update.Message)
	require.Equal(t, 0, update.CartCount)

	env = postAction(t, srv, actionRemoveCartItem, nonce, url.Values{"cart_item_key": {key}})
	require.False(t, env.Success)
	require.Equal(t, "Failed to remove item from cart", errorMessage(t, env))
}

func TestApplyCoupon(t *testing.T) {
	srv, store := newTestServer(t)
	nonce := store.Nonce()

	postAction(t, srv, actionAddToCart, nonce, url.Values{"product_id": {"102"}, "quantity": {"1"}})

	env := postAction(t, srv, actionApplyCoupon, nonce, url.Values{"coupon_code": {"WELCOME10"}})
	require.True(t, env.Success)

	var update struct {
		Message string `json:"message"`
		Total   string `json:"cart_total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &update))
	require.Equal(t, "Coupon code applied successfully.", update.Message)
	require.Equal(t, "$28.80", update.Total)

	env = postAction(t, srv, actionApplyCoupon, nonce, url.Values{"coupon_code": {"NOPE"}})
	require.False(t, env.Success)
	require.Contains(t, errorMessage(t, env), "does not exist")
}

func TestAuthActions(t *testing.T) {
	srv, store := newTestServer(t)
	nonce := store.Nonce()

	env := postAction(t, srv, actionRegister, nonce, url.Values{
		"username": {"alice"}, "email": {"alice@example.com"}, "password": {"secret1"},
	})
	require.True(t, env.Success)

	var auth struct {
		Message  string `json:"message"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.Equal(t, "/my-account", auth.Redirect)

	// Duplicate username and duplicate email are distinct failures.
	env = postAction(t, srv, actionRegister, nonce, url.Values{
		"username": {"alice"}, "email": {"other@example.com"}, "password": {"secret1"},
	})
	require.Contains(t, errorMessage(t, env), "username is already taken")

	env = postAction(t, srv, actionRegister, nonce, url.Values{
		"username": {"bob"}, "email": {"alice@example.com"}, "password": {"secret1"},
	})
	require.Contains(t, errorMessage(t, env), "email is already registered")

	env = postAction(t, srv, actionLogin, nonce, url.Values{"username": {"alice"}, "password": {"secret1"}})
	require.True(t, env.Success)

	env = postAction(t, srv, actionLogin, nonce, url.Values{"username": {"alice"}, "password": {"wrong"}})
	require.False(t, env.Success)
	require.Equal(t, "Invalid username or password. Please try again.", errorMessage(t, env))
}

func TestUnknownAction(t *testing.T) {
	srv, store := newTestServer(t)
	env := postAction(t, srv, "mystery", store.Nonce(), nil)
	require.False(t, env.Success)
	require.Equal(t, "Unknown action", errorMessage(t, env))
}
