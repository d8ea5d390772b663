// Package dragscroll turns a horizontally overflowing row into a
// pointer-draggable list while keeping click navigation intact on the same
// elements. A sequence only counts as a drag once displacement passes the
// threshold; a trailing click observes the drag flag during a short grace
// window after release and gets cancelled.
package dragscroll

import (
	"math"
	"sync"
	"time"
)

// Scroller abstracts the scrollable container. The wasm build wraps the DOM
// element; tests use a plain struct.
type Scroller interface {
	ScrollLeft() float64
	SetScrollLeft(v float64)
}

const (
	// DragThreshold is the displacement in pixels below which a press-move-
	// release sequence is still a click.
	DragThreshold = 5.0
	// ScrollMultiplier makes the content track faster than the pointer.
	ScrollMultiplier = 1.5
	// ReleaseGrace keeps the drag flag observable for the click event that
	// fires after pointer-up.
	ReleaseGrace = 10 * time.Millisecond
)

// Controller is the per-container drag state machine.
type Controller struct {
	mu       sync.Mutex
	scroller Scroller

	threshold  float64
	multiplier float64
	grace      time.Duration

	down        bool
	dragging    bool
	startX      float64
	startScroll float64
	distance    float64

	touchDragging bool
	touchStartX   float64
	touchStartY   float64
	touchScroll   float64
	touchDistance float64

	gen uint64
}

// New attaches a controller to the given scroller with production constants.
func New(scroller Scroller) *Controller {
	return &Controller{
		scroller:   scroller,
		threshold:  DragThreshold,
		multiplier: ScrollMultiplier,
		grace:      ReleaseGrace,
	}
}

// PointerDown records the press origin. The sequence is not a drag yet.
func (c *Controller) PointerDown(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.down = true
	c.dragging = false
	c.distance = 0
	c.startX = x
	c.startScroll = c.scroller.ScrollLeft()
}

// PointerMove updates displacement and, once past the threshold, scrolls the
// container by the amplified walk.
func (c *Controller) PointerMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.down {
		return
	}
	walk := (x - c.startX) * c.multiplier
	c.distance = math.Abs(x - c.startX)
	if c.distance > c.threshold {
		c.dragging = true
		c.scroller.SetScrollLeft(c.startScroll - walk)
	}
}

// PointerUp clears the pressed flag immediately but leaves the drag flag set
// for a grace window so the trailing click can still see it.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.down = false
	gen := c.gen
	time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		c.dragging = false
		c.distance = 0
	})
}

// PointerLeave resets to a clean non-dragging state with no grace delay so a
// pointer escaping the container cannot leave the drag flag stuck.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.down = false
	c.dragging = false
	c.distance = 0
}

// TouchStart records the origin of a touch sequence.
func (c *Controller) TouchStart(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.touchStartX = x
	c.touchStartY = y
	c.touchScroll = c.scroller.ScrollLeft()
	c.touchDragging = false
	c.touchDistance = 0
}

// TouchMove hijacks scrolling only when horizontal displacement dominates
// vertical movement and passes the threshold.
func (c *Controller) TouchMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	walkX := c.touchStartX - x
	walkY := math.Abs(c.touchStartY - y)
	c.touchDistance = math.Abs(walkX)
	if c.touchDistance > walkY && c.touchDistance > c.threshold {
		c.touchDragging = true
		c.scroller.SetScrollLeft(c.touchScroll + walkX)
	}
}

// TouchEnd mirrors PointerUp's deferred reset.
func (c *Controller) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gen
	time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		c.touchDragging = false
		c.touchDistance = 0
	})
}

// Dragging reports whether the current sequence crossed into a drag.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging || c.touchDragging
}

// SuppressClick reports whether a capture-phase click handler must cancel the
// event because the sequence was a drag, not a click.
func (c *Controller) SuppressClick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging && c.distance > c.threshold {
		return true
	}
	if c.touchDragging && c.touchDistance > c.threshold {
		return true
	}
	return false
}
