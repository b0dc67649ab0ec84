package view

import "math"

// DefaultClickThreshold is the cumulative movement in pixels below which a
// press/release pair counts as a click rather than a pan.
const DefaultClickThreshold = 6.0

// PointerTracker is the Idle → Dragging → Idle state machine that
// disambiguates tile clicks from camera pans. Mouse and touch feed the same
// tracker. It owns no camera state; callers route the drag deltas it reports
// into Camera.ApplyPan and act on the click it reports on release.
type PointerTracker struct {
	ClickThreshold float64

	dragging bool
	lastX    float64
	lastY    float64
	moved    float64 // cumulative movement magnitude since press
}

// NewPointerTracker returns a tracker with the default click threshold.
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{ClickThreshold: DefaultClickThreshold}
}

// Dragging reports whether a press is currently held.
func (p *PointerTracker) Dragging() bool { return p.dragging }

// Begin starts a drag at the press position.
func (p *PointerTracker) Begin(x, y float64) {
	p.dragging = true
	p.lastX = x
	p.lastY = y
	p.moved = 0
}

// Move accumulates pointer motion while pressed and returns the delta since
// the previous sample. Outside a drag it reports nothing.
func (p *PointerTracker) Move(x, y float64) (dx, dy float64) {
	if !p.dragging {
		return 0, 0
	}
	dx = x - p.lastX
	dy = y - p.lastY
	p.lastX = x
	p.lastY = y
	p.moved += math.Hypot(dx, dy)
	return dx, dy
}

// End finishes the drag (release or pointer leave). It reports a click only
// when the cumulative movement stayed strictly under the threshold; anything
// longer was a pan and must not select a tile.
func (p *PointerTracker) End() (clicked bool) {
	if !p.dragging {
		return false
	}
	p.dragging = false
	return p.moved < p.ClickThreshold
}

// Cancel aborts the drag without classifying it, e.g. when the view loses focus.
func (p *PointerTracker) Cancel() {
	p.dragging = false
	p.moved = 0
}
