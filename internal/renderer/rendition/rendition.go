// Package rendition applies the per-row transform used for double-width
// and double-height lines.
package rendition

import (
	"fmt"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Target receives the transform for subsequent drawing.
type Target interface {
	SetTransform(xf core.Transform) error
}

// Flusher empties any drawing queued under the previous transform.
type Flusher interface {
	Flush() error
}

// Compute returns the transform that draws a row with rendition lr at
// targetRow while the viewport is scrolled viewportLeft cells to the right.
func Compute(lr core.LineRendition, targetRow, viewportLeft int, cell core.Size) core.Transform {
	xf := core.Transform{
		Dx: -float32(viewportLeft) * float32(cell.Width),
	}
	switch lr {
	case core.DoubleWidth:
		xf.M11, xf.M22 = 2, 1
	case core.DoubleHeightTop:
		xf.M11, xf.M22 = 2, 2
		xf.Dy = -float32(targetRow) * float32(cell.Height)
	case core.DoubleHeightBottom:
		xf.M11, xf.M22 = 2, 2
		xf.Dy = -float32(targetRow+1) * float32(cell.Height)
	default:
		xf.M11, xf.M22 = 1, 1
	}
	return xf
}

// Transformer caches the transform last applied to its target so repeated
// requests for the same row layout cost nothing.
// It is not safe for concurrent use.
type Transformer struct {
	target  Target
	flusher Flusher

	current   core.Transform
	rendition core.LineRendition
}

// New creates a transformer whose target starts at the identity transform.
func New(target Target, flusher Flusher) *Transformer {
	return &Transformer{
		target:    target,
		flusher:   flusher,
		current:   core.Identity,
		rendition: core.SingleWidth,
	}
}

// Current returns the active transform and rendition.
func (t *Transformer) Current() (core.Transform, core.LineRendition) {
	return t.current, t.rendition
}

// Prepare makes the transform for lr at targetRow active. It reports
// whether anything changed; an unchanged request neither flushes nor
// touches the target.
//
// A failed flush does not stop the transform from being applied; its
// error is returned alongside changed == true.
func (t *Transformer) Prepare(lr core.LineRendition, targetRow, viewportLeft int, cell core.Size) (bool, error) {
	xf := Compute(lr, targetRow, viewportLeft, cell)
	if lr == t.rendition && xf == t.current {
		return false, nil
	}
	return t.apply(xf, lr)
}

// Reset restores the identity transform.
func (t *Transformer) Reset() (bool, error) {
	if t.current.IsIdentity() {
		return false, nil
	}
	return t.apply(core.Identity, core.SingleWidth)
}

func (t *Transformer) apply(xf core.Transform, lr core.LineRendition) (bool, error) {
	flushErr := t.flusher.Flush()

	if err := t.target.SetTransform(xf); err != nil {
		return false, fmt.Errorf("setting %v transform: %w", lr, err)
	}
	t.current = xf
	t.rendition = lr

	if flushErr != nil {
		return true, fmt.Errorf("flushing before %v transform: %w", lr, flushErr)
	}
	return true, nil
}
