// Package scroll converts accumulated scroll deltas into block copies of
// the surfaces plus the invalidation of the strip the copy exposed.
package scroll

import (
	"errors"
	"fmt"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/dirty"
)

// ErrZeroCellSize is returned when no font has been selected yet.
var ErrZeroCellSize = errors.New("scroll: zero cell size")

// Surface moves pixels inside limit by delta. Pixels shifted outside limit
// are discarded and pixels outside limit are never touched.
type Surface interface {
	Scroll(limit core.Rect, delta core.Point) error
}

// Request carries what one Apply needs from the frame in progress.
type Request struct {
	SurfaceSize core.Size
	CellSize    core.Size

	// Targets are scrolled in order; normally the off-screen surface and
	// then the visible surface.
	Targets []Surface

	// Unpaint removes overlays that must not be dragged along by the copy.
	// It runs before any target is scrolled.
	Unpaint func()
}

// Translator accumulates scroll deltas between frames.
// It is not safe for concurrent use.
type Translator struct {
	tracker *dirty.Tracker
	pending core.Point
}

// NewTranslator creates a translator feeding tracker.
func NewTranslator(tracker *dirty.Tracker) *Translator {
	return &Translator{tracker: tracker}
}

// Invalidate records a scroll of delta pixels and sweeps the dirty region
// along with it. If the sweep fails the delta is not recorded.
func (t *Translator) Invalidate(delta core.Point) error {
	if delta.IsZero() {
		return nil
	}
	if err := t.tracker.Offset(delta); err != nil {
		return err
	}
	t.pending = t.pending.Add(delta)
	return nil
}

// Pending returns the delta accumulated since the last Apply or Reset.
func (t *Translator) Pending() core.Point {
	return t.pending
}

// Reset forgets the pending delta.
func (t *Translator) Reset() {
	t.pending = core.Point{}
}

// Apply block-copies the scroll-safe area of every target by the pending
// delta and invalidates the exposed strip. It returns the exposed strip.
//
// A zero pending delta is a no-op. When the first target fails nothing has
// moved and the pending delta is kept so the next frame retries it. When a
// later target fails the targets disagree, so the delta is dropped and the
// whole limit rect is invalidated instead.
func (t *Translator) Apply(req Request) (core.Rect, error) {
	if t.pending.IsZero() {
		return core.Rect{}, nil
	}

	if req.Unpaint != nil {
		req.Unpaint()
	}

	if req.CellSize.IsEmpty() {
		return core.Rect{}, ErrZeroCellSize
	}

	limit := Limit(req.SurfaceSize, req.CellSize)
	for i, s := range req.Targets {
		if err := s.Scroll(limit, t.pending); err != nil {
			err = fmt.Errorf("scrolling %v by %v: %w", limit, t.pending, err)
			if i == 0 {
				return core.Rect{}, err
			}
			t.pending = core.Point{}
			return limit, errors.Join(err, t.tracker.Invalidate(limit))
		}
	}

	update := UpdateRect(limit, t.pending)
	t.pending = core.Point{}

	if err := t.tracker.Invalidate(update); err != nil {
		return update, err
	}
	return update, nil
}

// Limit returns the part of a surface made of whole cells. The gutter of
// sub-cell pixels along the right and bottom edges is excluded.
func Limit(surface, cell core.Size) core.Rect {
	gutter := surface.Mod(cell)
	return core.Rect{
		Right:  surface.Width - gutter.Width,
		Bottom: surface.Height - gutter.Height,
	}
}

// UpdateRect returns the bounding box of the area inside limit that a copy
// by delta leaves without new content.
func UpdateRect(limit core.Rect, delta core.Point) core.Rect {
	var update core.Rect

	if delta.X != 0 {
		strip := limit
		if delta.X > 0 {
			strip.Right = min(limit.Left+delta.X, limit.Right)
		} else {
			strip.Left = max(limit.Right+delta.X, limit.Left)
		}
		update = update.Union(strip)
	}

	if delta.Y != 0 {
		strip := limit
		if delta.Y > 0 {
			strip.Bottom = min(limit.Top+delta.Y, limit.Bottom)
		} else {
			strip.Top = max(limit.Bottom+delta.Y, limit.Top)
		}
		update = update.Union(strip)
	}

	return update
}
