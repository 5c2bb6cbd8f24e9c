// Package backend provides the drawing surfaces the renderer paints on.
//
// A Canvas is the host window. It hands out a visible WindowSurface for
// the duration of one frame and creates the persistent off-screen
// MemorySurface that frames are composed on.
package backend

import (
	"errors"
	"image"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/font"
)

var (
	// ErrInvalidCanvas is returned when drawing on a canvas that was closed.
	ErrInvalidCanvas = errors.New("backend: invalid canvas")

	// ErrAlreadyAcquired is returned when the visible surface is acquired twice.
	ErrAlreadyAcquired = errors.New("backend: surface already acquired")

	// ErrEmptySurface is returned when a surface of zero size is requested.
	ErrEmptySurface = errors.New("backend: empty surface")
)

// Surface is the drawing capability shared by visible and off-screen
// surfaces. Rectangles are in pixels and pass through the current
// transform, except for Scroll which works in device pixels.
type Surface interface {
	FillRect(r core.Rect, c core.Color) error
	InvertRect(r core.Rect) error
	Scroll(limit core.Rect, delta core.Point) error
	SetTransform(xf core.Transform) error
}

// WindowSurface is the visible surface for one frame.
type WindowSurface interface {
	Surface

	// Blit copies r from src to the same position on the window.
	Blit(src image.Image, r core.Rect) error

	// Release returns the surface to the canvas. It is safe to call twice.
	Release()
}

// MemorySurface is the off-screen surface frames are composed on.
type MemorySurface interface {
	Surface

	Size() core.Size

	// Resize reallocates the surface, keeping existing pixels.
	Resize(size core.Size) error

	DrawGlyphRuns(runs []core.GlyphRun) error
	SetTextColors(fg, bg core.Color) error
	SelectFont(v core.FontVariant) error
	SetFaces(faces font.Faces)

	Image() image.Image
}

// Canvas is the host window.
type Canvas interface {
	// Valid reports whether the canvas can still be drawn on.
	Valid() bool

	// Visible reports whether painting would be seen.
	Visible() bool

	ClientSize() (core.Size, error)

	// Acquire returns the visible surface. The caller must Release it.
	Acquire() (WindowSurface, error)

	// NewMemory creates an off-screen surface compatible with the window.
	NewMemory(size core.Size) (MemorySurface, error)

	SetTitle(title string) error
}
