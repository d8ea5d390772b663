package auth

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/macedon-ranges/storefront/internal/ui/model"
	"github.com/macedon-ranges/storefront/internal/ui/remote"
)

func TestValidateLogin(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"both empty", "", "", true},
		{"missing password", "alice", "", true},
		{"missing username", "", "secret", true},
		{"whitespace only", "   ", "secret", true},
		{"complete", "alice", "secret", false},
	}
	for _, tc := range cases {
		errs := ValidateLogin(tc.username, tc.password)
		if errs.Any() != tc.wantErr {
			t.Fatalf("%s: Any() = %v, want %v", tc.name, errs.Any(), tc.wantErr)
		}
		if tc.wantErr && errs.Message != MsgRequiredFields {
			t.Fatalf("%s: message %q", tc.name, errs.Message)
		}
	}
}

func TestValidateRegister(t *testing.T) {
	cases := []struct {
		name        string
		username    string
		email       string
		password    string
		wantMessage string
	}{
		{"missing fields", "bob", "", "secret1", MsgRequiredFields},
		{"bad email", "bob", "not-an-email", "secret1", MsgInvalidEmail},
		{"short password", "bob", "bob@example.com", "abc", MsgShortPassword},
		{"valid", "bob", "bob@example.com", "secret1", ""},
	}
	for _, tc := range cases {
		errs := ValidateRegister(tc.username, tc.email, tc.password)
		if errs.Message != tc.wantMessage {
			t.Fatalf("%s: message %q, want %q", tc.name, errs.Message, tc.wantMessage)
		}
		if (tc.wantMessage != "") != errs.Any() {
			t.Fatalf("%s: Any() = %v inconsistent with message %q", tc.name, errs.Any(), tc.wantMessage)
		}
	}
}

type flowEvent struct {
	op      string
	tab     model.AuthTab
	state   string
	message string
	loading bool
}

type flowRecorder struct {
	mu        sync.Mutex
	events    []flowEvent
	navigated string
}

func (r *flowRecorder) SetLoading(tab model.AuthTab, loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, flowEvent{op: "loading", tab: tab, loading: loading})
}

func (r *flowRecorder) ShowMessage(tab model.AuthTab, state, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, flowEvent{op: "message", tab: tab, state: state, message: message})
}

func (r *flowRecorder) Navigate(redirect string, after time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigated = redirect
}

func (r *flowRecorder) lastMessage() (flowEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].op == "message" {
			return r.events[i], true
		}
	}
	return flowEvent{}, false
}

func (r *flowRecorder) loadingBalance(tab model.AuthTab) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.op != "loading" || ev.tab != tab {
			continue
		}
		if ev.loading {
			n++
		} else {
			n--
		}
	}
	return n
}

type stubPoster struct {
	mu      sync.Mutex
	results map[string]remote.Result
	block   chan struct{}
	calls   int
}

func (p *stubPoster) Submit(ctx context.Context, action string, fields url.Values) remote.Result {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.block != nil {
		<-p.block
	}
	if res, ok := p.results[action]; ok {
		return res
	}
	return remote.Failure("")
}

func TestSubmitLoginValidationSkipsNetwork(t *testing.T) {
	poster := &stubPoster{}
	view := &flowRecorder{}
	flow := NewFlow(poster, view)

	flow.SubmitLogin(context.Background(), "", "", false)

	if poster.calls != 0 {
		t.Fatalf("validation failure must not reach the network")
	}
	msg, ok := view.lastMessage()
	if !ok || msg.state != "error" || msg.message != MsgRequiredFields {
		t.Fatalf("expected inline required-fields error, got %+v", msg)
	}
	if view.loadingBalance(model.TabLogin) != 0 {
		t.Fatalf("submit control stuck in loading state")
	}
}

func TestSubmitLoginSuccessNavigates(t *testing.T) {
	poster := &stubPoster{results: map[string]remote.Result{
		remote.ActionLogin: {OK: true, Data: []byte(`{"message":"Login successful! Redirecting...","redirect":"/my-account"}`)},
	}}
	view := &flowRecorder{}
	flow := NewFlow(poster, view)

	flow.SubmitLogin(context.Background(), "alice", "secret", true)

	msg, ok := view.lastMessage()
	if !ok || msg.state != "success" {
		t.Fatalf("expected success message, got %+v", msg)
	}
	if view.navigated != "/my-account" {
		t.Fatalf("expected navigation to /my-account, got %q", view.navigated)
	}
	if view.loadingBalance(model.TabLogin) != 0 {
		t.Fatalf("loading state not cleared after success")
	}
}

func TestSubmitLoginFailureReenablesControl(t *testing.T) {
	poster := &stubPoster{results: map[string]remote.Result{
		remote.ActionLogin: remote.Failure("Invalid username or password. Please try again."),
	}}
	view := &flowRecorder{}
	flow := NewFlow(poster, view)

	flow.SubmitLogin(context.Background(), "alice", "wrong", false)

	msg, _ := view.lastMessage()
	if msg.state != "error" || msg.message == "" {
		t.Fatalf("expected inline error, got %+v", msg)
	}
	if view.navigated != "" {
		t.Fatalf("failed login must not navigate")
	}
	if view.loadingBalance(model.TabLogin) != 0 {
		t.Fatalf("control left disabled after failure")
	}
}

func TestConcurrentSubmitsArePrevented(t *testing.T) {
	poster := &stubPoster{
		block: make(chan struct{}),
		results: map[string]remote.Result{
			remote.ActionLogin: {OK: true, Data: []byte(`{"message":"ok","redirect":"/"}`)},
		},
	}
	view := &flowRecorder{}
	flow := NewFlow(poster, view)

	done := make(chan struct{})
	go func() {
		flow.SubmitLogin(context.Background(), "alice", "secret", false)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !flow.Submitting(model.TabLogin) {
		if time.Now().After(deadline) {
			t.Fatalf("first submit never started")
		}
		time.Sleep(time.Millisecond)
	}

	// A second submit while the first is in flight must be ignored.
	flow.SubmitLogin(context.Background(), "alice", "secret", false)
	if poster.calls != 1 {
		t.Fatalf("concurrent submit reached the network: %d calls", poster.calls)
	}

	close(poster.block)
	<-done
	if flow.Submitting(model.TabLogin) {
		t.Fatalf("submitting flag not cleared")
	}
}

func TestStateTracksSubmissionOutcome(t *testing.T) {
	poster := &stubPoster{results: map[string]remote.Result{
		remote.ActionLogin:    {OK: true, Data: []byte(`{"message":"Login successful! Redirecting...","redirect":"/my-account"}`)},
		remote.ActionRegister: remote.Failure("This username is already taken. Please choose another one."),
	}}
	view := &flowRecorder{}
	flow := NewFlow(poster, view)

	if st := flow.State(model.TabLogin); st.Submitting || st.ResultState != "" {
		t.Fatalf("expected zero state before any submit, got %+v", st)
	}

	flow.SubmitLogin(context.Background(), "alice", "secret", false)
	st := flow.State(model.TabLogin)
	if st.Submitting || st.ResultState != "success" || st.ResultMessage == "" {
		t.Fatalf("login state not recorded: %+v", st)
	}

	flow.SubmitRegister(context.Background(), "alice", "alice@example.com", "secret1")
	st = flow.State(model.TabRegister)
	if st.ResultState != "error" || st.ResultMessage == "" {
		t.Fatalf("register failure not recorded: %+v", st)
	}

	// Validation failures are outcomes too.
	flow.SubmitLogin(context.Background(), "", "", false)
	if st := flow.State(model.TabLogin); st.ResultState != "error" || st.ResultMessage != MsgRequiredFields {
		t.Fatalf("validation outcome not recorded: %+v", st)
	}
}

func TestSubmitRegisterUsesLongerRedirectDelay(t *testing.T) {
	if RegisterRedirectDelay <= LoginRedirectDelay {
		t.Fatalf("register redirect delay should exceed login's")
	}
}
