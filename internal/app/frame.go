package app

import (
	"errors"

	"github.com/dshills/gridpaint/internal/renderer"
	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Frame paints every stale row, the selection and the cursor. A skipped
// frame is not an error. Once a frame has started it is always ended, even
// when painting fails part way.
func (a *Application) Frame() (renderer.PaintStatus, error) {
	status, err := a.engine.StartPaint()
	if err != nil || status == renderer.PaintSkipped {
		return status, err
	}

	paintErr := a.paint()
	if err := a.engine.EndPaint(); err != nil {
		return status, errors.Join(paintErr, err)
	}
	return status, paintErr
}

func (a *Application) paint() error {
	if err := a.engine.ScrollFrame(); err != nil {
		return err
	}
	if err := a.engine.PaintBackground(); err != nil {
		return err
	}

	size := a.screen.Size()
	stale := a.engine.GetDirtyArea().Intersect(core.RectFromSize(core.Point{}, size))
	if stale.IsEmpty() {
		return nil
	}
	rows := core.NewRect(0, stale.Top, size.Width, stale.Bottom)

	for row := rows.Top; row < rows.Bottom; row++ {
		if err := a.paintRow(row); err != nil {
			return err
		}
	}
	if err := a.engine.ResetLineTransform(); err != nil {
		return err
	}

	if sel := a.selection.Intersect(rows); !sel.IsEmpty() {
		if err := a.engine.PaintSelection(sel); err != nil {
			return err
		}
	}

	if a.cursorPx.Intersects(rows) {
		return a.paintCursor()
	}
	return nil
}

func (a *Application) paintRow(row int) error {
	line := a.screen.Line(row)
	if err := a.engine.PrepareLineTransform(line.Rendition, row, 0); err != nil {
		return err
	}

	attrs := core.TextAttributes{
		Foreground: a.palette.Foreground,
		Background: a.palette.Background,
		Italic:     line.Italic,
		SoftFont:   line.Soft,
	}
	if line.Highlight {
		attrs.Foreground, attrs.Background = attrs.Background, attrs.Foreground
	}
	if err := a.engine.UpdateDrawingBrushes(attrs, !line.Highlight); err != nil {
		return err
	}

	origin := core.Pt(0, row)
	if line.Text != "" {
		if err := a.engine.PaintText(line.Text, origin, false); err != nil {
			return err
		}
	}
	if line.Lines != 0 {
		count := max(1, line.Columns())
		if err := a.engine.PaintBufferGridLines(line.Lines, a.palette.Gridline, a.palette.Underline, count, origin); err != nil {
			return err
		}
	}
	return nil
}

// paintCursor draws the cursor over its screen cells. A cursor on a scaled
// row is drawn two cells wide in screen coordinates.
func (a *Application) paintCursor() error {
	opts, err := a.cfg.CursorOptions(a.cursorPx.Origin())
	if err != nil {
		return err
	}
	opts.IsDoubleWidth = a.cursorPx.Width() > 1
	return a.engine.PaintCursor(opts)
}
