// Package remote wraps the storefront's action-based JSON API. Every
// user-triggered form submission funnels through Submit, which always
// resolves to a Result a caller can display; no transport or decoding
// failure escapes past this boundary.
package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GenericErrorMessage covers network and decoding failures the shopper can
// only retry.
const GenericErrorMessage = "An error occurred. Please try again."

// Action names understood by the storefront AJAX endpoint.
const (
	ActionLogin          = "storefront_login"
	ActionRegister       = "storefront_register"
	ActionQuickView      = "get_quick_view_product"
	ActionRemoveCartItem = "remove_cart_item"
	ActionUpdateQuantity = "update_cart_quantity"
	ActionApplyCoupon    = "apply_coupon"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Result is the outcome of a submission: either OK with a data payload, or a
// user-displayable failure message.
type Result struct {
	OK      bool
	Data    json.RawMessage
	Message string
}

// Bind decodes the success payload into v.
func (r Result) Bind(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Failure builds an error Result carrying a displayable message.
func Failure(message string) Result {
	if strings.TrimSpace(message) == "" {
		message = GenericErrorMessage
	}
	return Result{Message: message}
}

// Submitter posts form-encoded actions to a single API endpoint, attaching
// the page's security token to every request.
type Submitter struct {
	endpoint string
	token    string
	client   *http.Client
}

// New builds a submitter for the given endpoint and security token.
func New(endpoint, token string) *Submitter {
	return &Submitter{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Submit serialises fields plus the action name and security token into a
// form-encoded POST and interprets the response envelope. It never returns
// an error: all failure modes become an error Result.
func (s *Submitter) Submit(ctx context.Context, action string, fields url.Values) Result {
	form := url.Values{}
	for key, vals := range fields {
		for _, v := range vals {
			form.Add(key, v)
		}
	}
	form.Set("action", action)
	form.Set("nonce", s.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Failure("")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return Failure("")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure("")
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Failure("")
	}

	if !env.Success {
		return Failure(failureMessage(env.Data))
	}
	return Result{OK: true, Data: env.Data}
}

// failureMessage digs the displayable message out of an error payload, which
// arrives either as {"message": "..."} or as a bare string.
func failureMessage(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var withMessage struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &withMessage); err == nil && withMessage.Message != "" {
		return withMessage.Message
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain
	}
	return ""
}
