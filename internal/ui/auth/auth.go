// Package auth drives the login/register modal flows: client-side
// validation, submission state and the post-success redirect.
package auth

import (
	"context"
	"net/mail"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/model"
	"github.com/macedon-ranges/storefront/internal/ui/remote"
)

// Messages mirror the backend's responses so pre-flight validation reads the
// same as a server rejection.
const (
	MsgRequiredFields = "Please fill in all required fields."
	MsgInvalidEmail   = "Please enter a valid email address."
	MsgShortPassword  = "Password must be at least 6 characters long."
)

const (
	// MinPasswordLength matches the registration policy enforced server-side.
	MinPasswordLength = 6

	// LoginRedirectDelay and RegisterRedirectDelay let the success message
	// render before the page navigates.
	LoginRedirectDelay    = time.Second
	RegisterRedirectDelay = 1500 * time.Millisecond
)

// ValidateLogin checks the login pane's required fields.
func ValidateLogin(username, password string) model.AuthFormErrors {
	errs := model.AuthFormErrors{
		Username: strings.TrimSpace(username) == "",
		Password: strings.TrimSpace(password) == "",
	}
	if errs.Any() {
		errs.Message = MsgRequiredFields
	}
	return errs
}

// ValidateRegister checks the register pane: required fields, email shape and
// password length.
func ValidateRegister(username, email, password string) model.AuthFormErrors {
	errs := model.AuthFormErrors{
		Username: strings.TrimSpace(username) == "",
		Email:    strings.TrimSpace(email) == "",
		Password: strings.TrimSpace(password) == "",
	}
	if errs.Any() {
		errs.Message = MsgRequiredFields
		return errs
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		errs.Email = true
		errs.Message = MsgInvalidEmail
		return errs
	}
	if len(password) < MinPasswordLength {
		errs.Password = true
		errs.Message = MsgShortPassword
	}
	return errs
}

// Poster is the slice of the remote submitter the flow needs.
type Poster interface {
	Submit(ctx context.Context, action string, fields url.Values) remote.Result
}

// FlowView renders submission state into the auth modal.
type FlowView interface {
	// SetLoading toggles the submit control's loading/disabled state.
	SetLoading(tab model.AuthTab, loading bool)
	// ShowMessage replaces the pane's inline message; state is "success" or
	// "error".
	ShowMessage(tab model.AuthTab, state, message string)
	// Navigate schedules the post-success reload or redirect.
	Navigate(redirect string, after time.Duration)
}

// Flow serialises submissions per tab: while one request is in flight the
// submit control stays disabled and further submits are ignored. Each pane's
// submission state and last outcome live in its AuthFormState.
type Flow struct {
	mu     sync.Mutex
	poster Poster
	view   FlowView
	states map[model.AuthTab]*model.AuthFormState
}

// NewFlow builds the auth submission flow.
func NewFlow(poster Poster, view FlowView) *Flow {
	return &Flow{
		poster: poster,
		view:   view,
		states: make(map[model.AuthTab]*model.AuthFormState),
	}
}

func (f *Flow) stateLocked(tab model.AuthTab) *model.AuthFormState {
	st, ok := f.states[tab]
	if !ok {
		st = &model.AuthFormState{}
		f.states[tab] = st
	}
	return st
}

func (f *Flow) setResult(tab model.AuthTab, state, message string) {
	f.mu.Lock()
	st := f.stateLocked(tab)
	st.ResultState = state
	st.ResultMessage = message
	f.mu.Unlock()
	f.view.ShowMessage(tab, state, message)
}

// SubmitLogin validates and posts the login form. It blocks until the
// request resolves, so callers on the UI path run it in a goroutine.
func (f *Flow) SubmitLogin(ctx context.Context, username, password string, remember bool) {
	if errs := ValidateLogin(username, password); errs.Any() {
		f.setResult(model.TabLogin, "error", errs.Message)
		return
	}

	fields := url.Values{
		"username": {username},
		"password": {password},
	}
	if remember {
		fields.Set("rememberme", "forever")
	}
	f.submit(ctx, model.TabLogin, remote.ActionLogin, fields, LoginRedirectDelay)
}

// SubmitRegister validates and posts the registration form.
func (f *Flow) SubmitRegister(ctx context.Context, username, email, password string) {
	if errs := ValidateRegister(username, email, password); errs.Any() {
		f.setResult(model.TabRegister, "error", errs.Message)
		return
	}

	fields := url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	}
	f.submit(ctx, model.TabRegister, remote.ActionRegister, fields, RegisterRedirectDelay)
}

// Submitting reports whether the given pane has a request in flight.
func (f *Flow) Submitting(tab model.AuthTab) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked(tab).Submitting
}

// State returns a snapshot of the pane's submission state and last outcome.
func (f *Flow) State(tab model.AuthTab) model.AuthFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.stateLocked(tab)
}

func (f *Flow) submit(ctx context.Context, tab model.AuthTab, action string, fields url.Values, redirectDelay time.Duration) {
	f.mu.Lock()
	st := f.stateLocked(tab)
	if st.Submitting {
		f.mu.Unlock()
		return
	}
	st.Submitting = true
	st.ResultState = ""
	st.ResultMessage = ""
	f.mu.Unlock()

	f.view.SetLoading(tab, true)

	res := f.poster.Submit(ctx, action, fields)

	f.mu.Lock()
	st.Submitting = false
	f.mu.Unlock()
	f.view.SetLoading(tab, false)

	if !res.OK {
		f.setResult(tab, "error", res.Message)
		return
	}

	var payload model.AuthResult
	if err := res.Bind(&payload); err != nil {
		f.setResult(tab, "error", remote.GenericErrorMessage)
		return
	}
	f.setResult(tab, "success", payload.Message)
	f.view.Navigate(payload.Redirect, redirectDelay)
}
