// Package cursor computes cursor shapes and keeps the record needed to
// remove an inverted cursor from a surface again.
package cursor

import (
	"errors"
	"fmt"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Block cursor height limits, in percent of the cell height.
const (
	MinHeightPercent = 25
	MaxHeightPercent = 100
)

// ErrZeroCellSize is returned when a cursor is computed before a font is set.
var ErrZeroCellSize = errors.New("cursor: zero cell size")

// ErrUnknownType is returned for a cursor type with no shape.
var ErrUnknownType = errors.New("cursor: unknown type")

// Surface is what an overlay paints on.
type Surface interface {
	FillRect(r core.Rect, c core.Color) error
	InvertRect(r core.Rect) error
	SetTransform(xf core.Transform) error
}

// Compute returns the pixel rectangles making up the cursor described by
// opts. A cursor that is off has no rectangles.
func Compute(opts core.CursorOptions, cell core.Size) ([]core.Rect, error) {
	if !opts.IsOn {
		return nil, nil
	}
	if cell.IsEmpty() {
		return nil, ErrZeroCellSize
	}

	origin, err := opts.Coord.ScaleUp(cell)
	if err != nil {
		return nil, fmt.Errorf("placing cursor at %v: %w", opts.Coord, err)
	}
	size := cell
	if opts.IsDoubleWidth {
		size.Width *= 2
	}
	bounds := core.RectFromSize(origin, size)

	switch opts.Type {
	case core.CursorBlock:
		pct := min(max(opts.HeightPercent, MinHeightPercent), MaxHeightPercent)
		h := (cell.Height*pct + 50) / 100
		r := bounds
		r.Top = r.Bottom - h
		return []core.Rect{r}, nil

	case core.CursorVerticalBar:
		r := bounds
		r.Right = min(r.Right, r.Left+max(opts.PixelWidth, 1))
		return []core.Rect{r}, nil

	case core.CursorUnderscore:
		r := bounds
		r.Top = r.Bottom - 1
		return []core.Rect{r}, nil

	case core.CursorDoubleUnderscore:
		top, bottom := bounds, bounds
		bottom.Top = bottom.Bottom - 1
		top.Top = top.Bottom - 3
		top.Bottom = top.Top + 1
		return []core.Rect{top, bottom}, nil

	case core.CursorEmptyBox:
		top, left, right, bottom := bounds, bounds, bounds, bounds
		top.Bottom = top.Top + 1
		bottom.Top = bottom.Bottom - 1
		left.Right = left.Left + 1
		right.Left = right.Right - 1

		// Corners belong to the vertical edges.
		top.Left++
		top.Right--
		bottom.Left++
		bottom.Right--
		return []core.Rect{top, left, right, bottom}, nil

	case core.CursorFullBox:
		return []core.Rect{bounds}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrUnknownType, opts.Type)
}

// Overlay remembers inverted cursor rectangles so they can be inverted
// back before the surface content moves.
// It is not safe for concurrent use.
type Overlay struct {
	rects []core.Rect
	xf    core.Transform
}

// Pending returns the retained rectangles.
func (o *Overlay) Pending() []core.Rect {
	return o.rects
}

// Transform returns the transform the retained rectangles were painted with.
func (o *Overlay) Transform() core.Transform {
	return o.xf
}

// Paint draws rects on target. With useColor the rectangles are filled
// with c and nothing is retained, since a filled cursor cannot be
// un-painted. Otherwise they are inverted and retained together with xf,
// the transform active on target.
func (o *Overlay) Paint(target Surface, rects []core.Rect, xf core.Transform, useColor bool, c core.Color) error {
	o.Discard()

	if useColor {
		for _, r := range rects {
			if err := target.FillRect(r, c); err != nil {
				return fmt.Errorf("filling cursor %v: %w", r, err)
			}
		}
		return nil
	}

	// Only rects that were actually inverted are retained for Clear.
	o.xf = xf
	for _, r := range rects {
		if err := target.InvertRect(r); err != nil {
			return fmt.Errorf("inverting cursor %v: %w", r, err)
		}
		o.rects = append(o.rects, r)
	}
	return nil
}

// Discard forgets the retained rectangles without touching any surface.
// Used once the pixels under them have been repainted.
func (o *Overlay) Discard() {
	o.rects = o.rects[:0]
	o.xf = core.Identity
}

// Clear inverts every retained rectangle on each target, under the
// transform they were painted with, and then forgets them. Every target
// is visited even if an earlier one fails.
func (o *Overlay) Clear(targets ...Surface) error {
	if len(o.rects) == 0 {
		return nil
	}

	var errs []error
	for _, target := range targets {
		errs = append(errs, o.clearOn(target))
	}
	o.Discard()
	return errors.Join(errs...)
}

func (o *Overlay) clearOn(target Surface) error {
	transformed := !o.xf.IsIdentity()
	if transformed {
		if err := target.SetTransform(o.xf); err != nil {
			return fmt.Errorf("restoring cursor transform: %w", err)
		}
	}

	var errs []error
	for _, r := range o.rects {
		if err := target.InvertRect(r); err != nil {
			errs = append(errs, fmt.Errorf("un-inverting cursor %v: %w", r, err))
		}
	}

	if transformed {
		if err := target.SetTransform(core.Identity); err != nil {
			errs = append(errs, fmt.Errorf("resetting cursor transform: %w", err))
		}
	}
	return errors.Join(errs...)
}
