package dirty

import (
	"fmt"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// ClientSource reports the rectangle invalidations are restricted to.
type ClientSource interface {
	ClientRect() (core.Rect, error)
}

// ClientFunc adapts a function to ClientSource.
type ClientFunc func() (core.Rect, error)

// ClientRect calls f.
func (f ClientFunc) ClientRect() (core.Rect, error) {
	return f()
}

// Tracker owns the single dirty rectangle.
// It is not safe for concurrent use; the render thread owns it.
type Tracker struct {
	client ClientSource

	// rect is meaningful only while set is true.
	rect core.Rect
	set  bool
}

// NewTracker creates a tracker restricted to the area client reports.
func NewTracker(client ClientSource) *Tracker {
	return &Tracker{client: client}
}

// Invalidate adds r to the dirty region. If nothing is dirty the region
// becomes r; otherwise it becomes the bounding box of both. The result is
// restricted to the client rectangle. When the client rectangle cannot be
// retrieved the region is left unmodified.
func (t *Tracker) Invalidate(r core.Rect) error {
	next := r
	if t.set {
		next = t.rect.Union(r)
	}
	return t.commit(next)
}

// Offset sweeps the dirty region by delta, keeping both the original area
// and the translated copy. It does nothing while the region is unset.
func (t *Tracker) Offset(delta core.Point) error {
	if !t.set {
		return nil
	}
	return t.commit(Sweep(t.rect, delta))
}

// Restrict clamps the current region to client.
func (t *Tracker) Restrict(client core.Rect) {
	if t.set {
		t.rect = Restrict(t.rect, client)
	}
}

// Clear resets the region to unset.
func (t *Tracker) Clear() {
	t.rect = core.Rect{}
	t.set = false
}

// Rect returns the dirty rectangle and whether one is set.
func (t *Tracker) Rect() (core.Rect, bool) {
	return t.rect, t.set
}

// IsSet returns true if any invalidation arrived since the last Clear.
func (t *Tracker) IsSet() bool {
	return t.set
}

func (t *Tracker) commit(next core.Rect) error {
	client, err := t.client.ClientRect()
	if err != nil {
		return fmt.Errorf("retrieving client rect: %w", err)
	}
	t.rect = Restrict(next, client)
	t.set = true
	return nil
}
