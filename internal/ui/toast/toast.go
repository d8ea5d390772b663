// Package toast manages the storefront's transient cart notifications.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/macedon-ranges/storefront/internal/ui/model"
)

// Sink receives lifecycle callbacks for the live toast. The wasm build mounts
// real DOM nodes; tests use a recorder.
type Sink interface {
	Mount(t model.Toast)
	SetPhase(id string, phase model.ToastPhase)
	Unmount(id string)
}

// Delays configures the phase schedule of a toast.
type Delays struct {
	// Center and Expand are offsets from mount.
	Center time.Duration
	Expand time.Duration
	// AutoDismiss starts the teardown if the toast was not closed manually.
	AutoDismiss time.Duration
	// Collapse, Deactivate and Detach are the staged teardown offsets that
	// let the CSS transitions finish before the node is removed.
	Collapse   time.Duration
	Deactivate time.Duration
	Detach     time.Duration
}

// DefaultDelays returns the production schedule. The 550ms expand offset used
// by the legacy notification styling is available via LegacyExpandDelay.
func DefaultDelays() Delays {
	return Delays{
		Center:      50 * time.Millisecond,
		Expand:      1000 * time.Millisecond,
		AutoDismiss: 4000 * time.Millisecond,
		Collapse:    450 * time.Millisecond,
		Deactivate:  450 * time.Millisecond,
		Detach:      300 * time.Millisecond,
	}
}

// LegacyExpandDelay matches the compact notification variant.
const LegacyExpandDelay = 550 * time.Millisecond

// Notice is the caller-supplied content of a notification.
type Notice struct {
	Title     string
	Subtitle  string
	ActionURL string
}

type instance struct {
	toast  model.Toast
	phase  model.ToastPhase
	gen    uint64
	timers []*time.Timer
}

// Queue enforces the single-toast invariant: Notify synchronously removes any
// live toast before mounting the next one, and a generation counter keeps
// timers from a cancelled lifecycle from ever touching a newer toast.
type Queue struct {
	mu      sync.Mutex
	sink    Sink
	delays  Delays
	gen     uint64
	current *instance
}

// New builds a queue around the given sink. A nil sink yields a queue whose
// operations are no-ops, mirroring a page without a notification mount point.
func New(sink Sink, delays Delays) *Queue {
	return &Queue{sink: sink, delays: delays}
}

// Notify replaces any live toast with a fresh one for the given event and
// starts its phase schedule.
func (q *Queue) Notify(kind model.ToastKind, n Notice) model.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sink == nil {
		return model.Toast{}
	}

	q.removeLocked()

	t := model.Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     n.Title,
		Subtitle:  n.Subtitle,
		ActionURL: n.ActionURL,
		CreatedAt: time.Now(),
	}
	inst := &instance{toast: t, phase: model.PhaseEntering, gen: q.gen}
	q.current = inst
	q.sink.Mount(t)

	q.scheduleLocked(inst, q.delays.Center, func() { q.advance(inst.gen, model.PhaseCentered) })
	q.scheduleLocked(inst, q.delays.Expand, func() { q.advance(inst.gen, model.PhaseExpanded) })
	q.scheduleLocked(inst, q.delays.AutoDismiss, func() { q.dismissGen(inst.gen) })
	return t
}

// Dismiss starts the staged teardown of the live toast. Safe to call with no
// toast mounted or while a teardown is already running.
func (q *Queue) Dismiss() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dismissLocked()
}

// Current returns the live toast and whether one exists.
func (q *Queue) Current() (model.Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return model.Toast{}, false
	}
	return q.current.toast, true
}

// Phase returns the live toast's phase, or PhaseRemoved when none is mounted.
func (q *Queue) Phase() model.ToastPhase {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return model.PhaseRemoved
	}
	return q.current.phase
}

func (q *Queue) dismissLocked() {
	inst := q.current
	if inst == nil || inst.phase >= model.PhaseDismissing {
		return
	}
	q.cancelTimersLocked(inst)
	inst.phase = model.PhaseDismissing
	q.sink.SetPhase(inst.toast.ID, model.PhaseDismissing)

	teardown := q.delays.Collapse + q.delays.Deactivate + q.delays.Detach
	q.scheduleLocked(inst, teardown, func() { q.finishGen(inst.gen) })
}

// removeLocked tears the live toast down immediately, skipping the staged
// collapse. Used when a newer toast is about to take its place.
func (q *Queue) removeLocked() {
	inst := q.current
	if inst == nil {
		return
	}
	q.cancelTimersLocked(inst)
	inst.phase = model.PhaseRemoved
	q.sink.Unmount(inst.toast.ID)
	q.current = nil
	q.gen++
}

func (q *Queue) scheduleLocked(inst *instance, d time.Duration, fn func()) {
	inst.timers = append(inst.timers, time.AfterFunc(d, fn))
}

func (q *Queue) cancelTimersLocked(inst *instance) {
	for _, t := range inst.timers {
		t.Stop()
	}
	inst.timers = nil
}

// advance moves the toast forward to phase if the lifecycle that scheduled
// the transition is still the live one. Phases never move backwards.
func (q *Queue) advance(gen uint64, phase model.ToastPhase) {
	q.mu.Lock()
	defer q.mu.Unlock()
	inst := q.current
	if inst == nil || inst.gen != gen || inst.phase >= phase {
		return
	}
	inst.phase = phase
	q.sink.SetPhase(inst.toast.ID, phase)
}

func (q *Queue) dismissGen(gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil || q.current.gen != gen {
		return
	}
	q.dismissLocked()
}

func (q *Queue) finishGen(gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	inst := q.current
	if inst == nil || inst.gen != gen {
		return
	}
	inst.phase = model.PhaseRemoved
	q.sink.Unmount(inst.toast.ID)
	q.current = nil
	q.gen++
}
