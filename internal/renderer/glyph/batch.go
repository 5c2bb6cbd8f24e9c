// Package glyph batches per-row text draws.
//
// Runs are queued instead of drawn one by one and issued as a single
// batched call. Anything that would change how a queued run renders
// (transform, brushes, selected font, overlays drawn on top) must Flush
// first.
package glyph

import (
	"errors"
	"fmt"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Capacity is the number of runs held before an automatic flush.
const Capacity = 80

// ErrZeroCellSize is returned when runs are queued before a font is set.
var ErrZeroCellSize = errors.New("glyph: zero cell size")

// Drawer draws a batch of runs in one call.
type Drawer interface {
	DrawGlyphRuns(runs []core.GlyphRun) error
}

// Batcher queues glyph runs for a Drawer.
// It is not safe for concurrent use.
type Batcher struct {
	target Drawer

	runs [Capacity]core.GlyphRun
	n    int

	cell      core.Size
	rendition core.LineRendition
	softFont  bool

	flushes int
}

// NewBatcher creates an empty batcher drawing into target.
func NewBatcher(target Drawer) *Batcher {
	return &Batcher{target: target}
}

// SetCellSize sets the cell size used to place runs.
func (b *Batcher) SetCellSize(cell core.Size) {
	b.cell = cell
}

// SetRendition sets the line rendition new runs are clipped for.
func (b *Batcher) SetRendition(lr core.LineRendition) {
	b.rendition = lr
}

// SetSoftFont masks the text of new runs to 7 bits while enabled.
func (b *Batcher) SetSoftFont(enabled bool) {
	b.softFont = enabled
}

// Len returns the number of queued runs.
func (b *Batcher) Len() int {
	return b.n
}

// Flushes returns how many non-empty flushes have been issued.
func (b *Batcher) Flushes() int {
	return b.flushes
}

// Enqueue converts clusters drawn at the cell origin into a run and queues
// it. A full batch is flushed before the run is added. trimLeft clips one
// cell off the left edge, used to draw only the right half of a wide glyph.
//
// An error from the automatic flush is returned after the run has been
// queued; the caller may log it and carry on.
func (b *Batcher) Enqueue(clusters []core.Cluster, origin core.Point, trimLeft bool) error {
	if len(clusters) == 0 {
		return nil
	}
	if b.cell.IsEmpty() {
		return ErrZeroCellSize
	}

	pt, err := origin.ScaleUp(b.cell)
	if err != nil {
		return fmt.Errorf("placing run at %v: %w", origin, err)
	}

	text := make([]string, len(clusters))
	advances := make([]int, len(clusters))
	total := 0
	for i, c := range clusters {
		text[i] = c.Text
		if b.softFont {
			text[i] = maskSoft(c.Text)
		}
		advances[i] = c.Columns * b.cell.Width
		total += advances[i]
	}

	half := b.cell.Height / 2
	var topOffset, bottomOffset int
	switch b.rendition {
	case core.DoubleHeightBottom:
		topOffset = half
	case core.DoubleHeightTop:
		bottomOffset = half
	}

	clip := core.Rect{
		Left:   pt.X,
		Top:    pt.Y + topOffset,
		Right:  pt.X + total,
		Bottom: pt.Y + b.cell.Height - bottomOffset,
	}
	if trimLeft {
		clip.Left += b.cell.Width
	}

	var flushErr error
	if b.n >= Capacity {
		flushErr = b.Flush()
	}

	b.runs[b.n] = core.GlyphRun{
		Text:     text,
		Advances: advances,
		Origin:   pt,
		Clip:     clip,
		TrimLeft: trimLeft,
	}
	b.n++

	return flushErr
}

// Flush draws every queued run with one call and empties the batch.
// Run buffers are released whether or not the draw succeeded.
func (b *Batcher) Flush() error {
	if b.n == 0 {
		return nil
	}

	err := b.target.DrawGlyphRuns(b.runs[:b.n])
	b.flushes++
	b.Discard()

	if err != nil {
		return fmt.Errorf("drawing glyph runs: %w", err)
	}
	return nil
}

// Discard releases every queued run without drawing it.
func (b *Batcher) Discard() {
	for i := 0; i < b.n; i++ {
		b.runs[i].Release()
	}
	b.n = 0
}

func maskSoft(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, r&0x7F)
	}
	return string(out)
}
