package backend

import (
	"fmt"
	"image"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// ImageWindow is a Canvas whose visible surface is an in-memory image.
// It backs PNG snapshots and tests, and is the framebuffer behind
// TerminalWindow.
type ImageWindow struct {
	pixels   *Raster
	pattern  core.Color
	visible  bool
	closed   bool
	acquired bool
	title    string

	// presented is called with the bounds touched by each released frame.
	presented func(dirty core.Rect)
	dirty     core.Rect
}

// NewImageWindow creates a visible window of the given client size.
func NewImageWindow(size core.Size, pattern core.Color) (*ImageWindow, error) {
	px, err := NewRaster(size, pattern)
	if err != nil {
		return nil, err
	}
	return &ImageWindow{pixels: px, pattern: pattern, visible: true}, nil
}

// Valid implements Canvas.
func (w *ImageWindow) Valid() bool { return !w.closed }

// Visible implements Canvas.
func (w *ImageWindow) Visible() bool { return w.visible }

// SetVisible shows or hides the window.
func (w *ImageWindow) SetVisible(v bool) { w.visible = v }

// Close invalidates the window.
func (w *ImageWindow) Close() { w.closed = true }

// ClientSize implements Canvas.
func (w *ImageWindow) ClientSize() (core.Size, error) {
	if w.closed {
		return core.Size{}, ErrInvalidCanvas
	}
	return w.pixels.Size(), nil
}

// Resize changes the client area, keeping existing pixels.
func (w *ImageWindow) Resize(size core.Size) error {
	return w.pixels.Resize(size)
}

// Title returns the last title set.
func (w *ImageWindow) Title() string { return w.title }

// SetTitle implements Canvas.
func (w *ImageWindow) SetTitle(title string) error {
	if w.closed {
		return ErrInvalidCanvas
	}
	w.title = title
	return nil
}

// Image returns the visible pixels.
func (w *ImageWindow) Image() image.Image { return w.pixels.Image() }

// At returns one visible pixel.
func (w *ImageWindow) At(x, y int) core.Color { return w.pixels.At(x, y) }

// NewMemory implements Canvas.
func (w *ImageWindow) NewMemory(size core.Size) (MemorySurface, error) {
	if w.closed {
		return nil, ErrInvalidCanvas
	}
	return NewRaster(size, w.pattern)
}

// Acquire implements Canvas.
func (w *ImageWindow) Acquire() (WindowSurface, error) {
	if w.closed {
		return nil, ErrInvalidCanvas
	}
	if w.acquired {
		return nil, ErrAlreadyAcquired
	}
	w.acquired = true
	w.dirty = core.Rect{}
	return &windowSurface{w: w}, nil
}

func (w *ImageWindow) touch(r core.Rect) {
	w.dirty = w.dirty.Union(r)
}

func (w *ImageWindow) release() {
	w.acquired = false
	if w.presented != nil && !w.dirty.IsEmpty() {
		w.presented(w.dirty)
	}
	w.dirty = core.Rect{}
}

// windowSurface draws on the window pixels and records what it touched.
type windowSurface struct {
	w        *ImageWindow
	released bool
}

func (s *windowSurface) FillRect(r core.Rect, c core.Color) error {
	if err := s.check(); err != nil {
		return err
	}
	s.w.touch(s.w.pixels.xf.ApplyRect(r))
	return s.w.pixels.FillRect(r, c)
}

func (s *windowSurface) InvertRect(r core.Rect) error {
	if err := s.check(); err != nil {
		return err
	}
	s.w.touch(s.w.pixels.xf.ApplyRect(r))
	return s.w.pixels.InvertRect(r)
}

func (s *windowSurface) Scroll(limit core.Rect, delta core.Point) error {
	if err := s.check(); err != nil {
		return err
	}
	s.w.touch(limit)
	return s.w.pixels.Scroll(limit, delta)
}

func (s *windowSurface) SetTransform(xf core.Transform) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.w.pixels.SetTransform(xf)
}

func (s *windowSurface) Blit(src image.Image, r core.Rect) error {
	if err := s.check(); err != nil {
		return err
	}
	s.w.touch(r)
	return s.w.pixels.Blit(src, r)
}

func (s *windowSurface) Release() {
	if s.released {
		return
	}
	s.released = true
	_ = s.w.pixels.SetTransform(core.Identity)
	s.w.release()
}

func (s *windowSurface) check() error {
	if s.released {
		return fmt.Errorf("window surface: %w", ErrInvalidCanvas)
	}
	if s.w.closed {
		return ErrInvalidCanvas
	}
	return nil
}
