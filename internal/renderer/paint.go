package renderer

import (
	"errors"
	"fmt"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/cursor"
	"github.com/dshills/gridpaint/internal/renderer/glyph"
)

func (e *Engine) flush() {
	if err := e.batch.Flush(); err != nil {
		e.warn("flush", err)
	}
}

// PaintBackground fills the frame's invalid area with the background
// brush. Any inverted cursor inside it is overwritten, so it is forgotten.
func (e *Engine) PaintBackground() error {
	if !e.painting {
		return ErrInvalidState
	}
	e.cursor.Discard()

	if e.paintRect.IsEmpty() {
		return nil
	}
	return backendErr("fill background", e.memory.FillRect(e.paintRect, e.background))
}

// UpdateDrawingBrushes selects the colors and font variant for following
// text. Only what changed is pushed to the surface. With isDefault the
// background also becomes the brush PaintBackground fills with.
func (e *Engine) UpdateDrawingBrushes(attrs core.TextAttributes, isDefault bool) error {
	if e.memory == nil {
		return ErrInvalidState
	}
	e.flush()

	if !e.brushesSet || attrs.Foreground != e.fg || attrs.Background != e.bg {
		if err := e.memory.SetTextColors(attrs.Foreground, attrs.Background); err != nil {
			return backendErr("text colors", err)
		}
		e.fg, e.bg = attrs.Foreground, attrs.Background
		e.brushesSet = true
	}

	if isDefault {
		e.background = attrs.Background
	}

	v := core.VariantFor(attrs)
	if v != e.lastVariant {
		if err := e.memory.SelectFont(v); err != nil {
			return backendErr("select font", err)
		}
		e.lastVariant = v
		e.batch.SetSoftFont(v == core.VariantSoft)
	}
	return nil
}

// PaintBufferLine queues clusters drawn from the cell origin. A failed
// automatic flush is logged; the run is still queued.
func (e *Engine) PaintBufferLine(clusters []core.Cluster, origin core.Point, trimLeft bool) error {
	if !e.painting {
		return ErrInvalidState
	}

	_, lr := e.lines.Current()
	e.batch.SetRendition(lr)

	err := e.batch.Enqueue(clusters, origin, trimLeft)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, glyph.ErrZeroCellSize), errors.Is(err, core.ErrOverflow):
		return err
	default:
		e.warn("flush", err)
		return nil
	}
}

// PaintText segments s into clusters and queues it like PaintBufferLine.
func (e *Engine) PaintText(s string, origin core.Point, trimLeft bool) error {
	return e.PaintBufferLine(glyph.Segment(s), origin, trimLeft)
}

// PaintBufferGridLines draws the lines set in lines under count cells
// starting at the cell origin. Box lines use gridColor and underlines
// underlineColor.
func (e *Engine) PaintBufferGridLines(lines core.GridLineSet, gridColor, underlineColor core.Color, count int, origin core.Point) error {
	if !e.painting {
		return ErrInvalidState
	}
	e.flush()

	cell := e.font.CellSize
	if cell.IsEmpty() {
		return fmt.Errorf("grid lines without a font: %w", ErrInvalidState)
	}
	pt, err := origin.ScaleUp(cell)
	if err != nil {
		return fmt.Errorf("grid lines at %v: %w", origin, err)
	}

	for _, seg := range gridLineSegments(lines, count, pt, cell, e.font.Metrics) {
		c := gridColor
		if seg.underline {
			c = underlineColor
		}
		if err := e.memory.FillRect(seg.rect, c); err != nil {
			return backendErr("grid line", err)
		}
	}
	return nil
}

// PaintCursor draws the cursor described by opts. A cursor that is off
// draws nothing. An inverted cursor from earlier in the frame is removed
// first and its cells re-queued for the window copy.
func (e *Engine) PaintCursor(opts core.CursorOptions) error {
	if !opts.IsOn {
		return nil
	}
	if !e.painting {
		return ErrInvalidState
	}
	e.flush()

	cell := e.font.CellSize
	if cell.IsEmpty() {
		return fmt.Errorf("cursor without a font: %w", ErrInvalidState)
	}
	rects, err := cursor.Compute(opts, cell)
	if err != nil {
		return err
	}

	e.unpaintOldCursor()

	if _, err := e.lines.Prepare(opts.LineRendition, 0, opts.ViewportLeft, cell); err != nil {
		e.warn("cursor transform", err)
	}
	defer func() {
		if _, err := e.lines.Reset(); err != nil {
			e.warn("cursor transform reset", err)
		}
	}()

	xf, _ := e.lines.Current()
	if err := e.cursor.Paint(e.memory, rects, xf, opts.UseColor, opts.Color); err != nil {
		return backendErr("cursor", err)
	}
	return nil
}

func (e *Engine) unpaintOldCursor() {
	old := e.cursor.Pending()
	if len(old) == 0 {
		return
	}
	xf := e.cursor.Transform()
	for _, r := range old {
		if err := e.invalidatePixels(xf.ApplyRect(r)); err != nil {
			e.warn("cursor invalidate", err)
		}
	}
	if err := e.cursor.Clear(e.memory); err != nil {
		e.warn("cursor unpaint", err)
	}
}

// PaintSelection inverts a rectangle of cells.
func (e *Engine) PaintSelection(cells core.Rect) error {
	if !e.painting {
		return ErrInvalidState
	}
	e.flush()

	px, err := cells.ScaleUp(e.font.CellSize)
	if err != nil {
		return fmt.Errorf("selection %v: %w", cells, err)
	}
	return backendErr("selection", e.memory.InvertRect(px))
}

// PrepareLineTransform scales and offsets following drawing for a row
// with the given rendition. Repeating the current request does nothing.
func (e *Engine) PrepareLineTransform(lr core.LineRendition, targetRow, viewportLeft int) error {
	if _, err := e.lines.Prepare(lr, targetRow, viewportLeft, e.font.CellSize); err != nil {
		return backendErr("line transform", err)
	}
	return nil
}

// ResetLineTransform restores the identity transform.
func (e *Engine) ResetLineTransform() error {
	if _, err := e.lines.Reset(); err != nil {
		return backendErr("line transform reset", err)
	}
	return nil
}
