package renderer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/gridpaint/internal/renderer/backend"
	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/cursor"
	"github.com/dshills/gridpaint/internal/renderer/dirty"
	"github.com/dshills/gridpaint/internal/renderer/font"
	"github.com/dshills/gridpaint/internal/renderer/glyph"
	"github.com/dshills/gridpaint/internal/renderer/rendition"
	"github.com/dshills/gridpaint/internal/renderer/scroll"
)

// PaintStatus is the outcome of StartPaint.
type PaintStatus int

const (
	// PaintStarted means a frame is open and must be closed with EndPaint.
	PaintStarted PaintStatus = iota

	// PaintSkipped means there is nothing to paint this tick.
	PaintSkipped
)

func (s PaintStatus) String() string {
	if s == PaintStarted {
		return "started"
	}
	return "skipped"
}

// Engine composes frames on an off-screen surface and copies the dirty
// part of each to the window.
type Engine struct {
	canvas   backend.Canvas
	fonts    font.Provider
	log      *slog.Logger
	observer Observer
	rearm    bool

	memory backend.MemorySurface
	window backend.WindowSurface

	tracker *dirty.Tracker
	scroll  *scroll.Translator
	batch   *glyph.Batcher
	lines   *rendition.Transformer
	cursor  cursor.Overlay

	font font.Info

	painting     bool
	paintRect    core.Rect
	scrollFailed bool

	title        string
	titleChanged bool

	background  core.Color
	fg, bg      core.Color
	brushesSet  bool
	lastVariant core.FontVariant

	frames uint64
}

// New creates an engine painting on canvas with fonts from provider.
// No font is selected until UpdateFont is called.
func New(canvas backend.Canvas, provider font.Provider, opts Options) *Engine {
	e := &Engine{
		canvas:     canvas,
		fonts:      provider,
		log:        opts.Logger,
		observer:   opts.Observer,
		rearm:      opts.RearmOnBlitFailure,
		background: opts.Background,
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}

	e.tracker = dirty.NewTracker(dirty.ClientFunc(e.clientRect))
	e.scroll = scroll.NewTranslator(e.tracker)
	e.batch = glyph.NewBatcher(memoryDrawer{e})
	e.lines = rendition.New(memoryTarget{e}, e.batch)
	return e
}

func (e *Engine) clientRect() (core.Rect, error) {
	size, err := e.canvas.ClientSize()
	if err != nil {
		return core.Rect{}, backendErr("client size", err)
	}
	return core.RectFromSize(core.Point{}, size), nil
}

func (e *Engine) warn(op string, err error) {
	e.log.Warn("render backend call failed", "op", op, "err", err)
}

// Invalidate marks a rectangle of cells stale.
func (e *Engine) Invalidate(cells core.Rect) error {
	px, err := cells.ScaleUp(e.font.CellSize)
	if err != nil {
		return fmt.Errorf("invalidating %v: %w", cells, err)
	}
	return e.invalidatePixels(px)
}

func (e *Engine) invalidatePixels(px core.Rect) error {
	if err := e.tracker.Invalidate(px); err != nil {
		return err
	}
	e.observer.Invalidated(px)
	return nil
}

// InvalidateCursor marks the cells under the cursor stale.
func (e *Engine) InvalidateCursor(cells core.Rect) error {
	return e.Invalidate(cells)
}

// InvalidateSelection marks every selected cell rectangle stale. It stops
// at the first failure.
func (e *Engine) InvalidateSelection(rects []core.Rect) error {
	for _, r := range rects {
		if err := e.Invalidate(r); err != nil {
			return err
		}
	}
	return nil
}

// InvalidateAll marks the whole client area stale.
func (e *Engine) InvalidateAll() error {
	if !e.canvas.Valid() {
		return nil
	}
	client, err := e.clientRect()
	if err != nil {
		return err
	}
	return e.invalidatePixels(client)
}

// InvalidateScroll records that the content moved by delta cells. The
// pixels are moved by the next ScrollFrame.
func (e *Engine) InvalidateScroll(delta core.Point) error {
	px, err := delta.ScaleUp(e.font.CellSize)
	if err != nil {
		return fmt.Errorf("scrolling by %v: %w", delta, err)
	}
	return e.scroll.Invalidate(px)
}

// InvalidateTitle records a new window title. A pending title lets a frame
// start on a hidden window and is sent to the canvas at EndPaint.
func (e *Engine) InvalidateTitle(title string) {
	e.title = title
	e.titleChanged = true
}

// PrepareForTeardown reports whether a final forced repaint is needed
// before the engine goes away. It never is.
func (e *Engine) PrepareForTeardown() bool {
	return false
}

// GetDirtyArea returns the dirty region in cells, or an empty rect.
func (e *Engine) GetDirtyArea() core.Rect {
	r, ok := e.tracker.Rect()
	if !ok || e.font.CellSize.IsEmpty() {
		return core.Rect{}
	}
	return r.ScaleDown(e.font.CellSize)
}

// DirtyPixels returns the dirty region in pixels and whether it is set.
func (e *Engine) DirtyPixels() (core.Rect, bool) {
	return e.tracker.Rect()
}

// ScrollDelta returns the pixel delta waiting for the next ScrollFrame.
func (e *Engine) ScrollDelta() core.Point {
	return e.scroll.Pending()
}

// GetFontSize returns the current cell size.
func (e *Engine) GetFontSize() core.Size {
	return e.font.CellSize
}

// Font returns the current font.
func (e *Engine) Font() font.Info {
	return e.font
}

// Painting reports whether a frame is open.
func (e *Engine) Painting() bool {
	return e.painting
}

// Frames returns how many frames have ended.
func (e *Engine) Frames() uint64 {
	return e.frames
}

// UpdateFont resolves d and makes it the current font. Queued text is
// drawn with the old font first.
func (e *Engine) UpdateFont(d font.Desired) (font.Info, error) {
	info, err := font.Resolve(e.fonts, d)
	if err != nil {
		return font.Info{}, err
	}

	if err := e.batch.Flush(); err != nil {
		e.warn("flush", err)
	}

	e.font = info
	e.batch.SetCellSize(info.CellSize)
	if e.memory != nil {
		e.memory.SetFaces(info.Faces)
	}
	e.lastVariant = core.VariantUndefined
	return info, nil
}

// StartPaint opens a frame. It skips without error when the canvas is
// gone, a frame is already open, or the window is hidden and there is no
// title to push. A failure leaves every invalidation in place for the
// next attempt.
func (e *Engine) StartPaint() (PaintStatus, error) {
	if !e.canvas.Valid() || e.painting {
		return PaintSkipped, nil
	}
	if !e.canvas.Visible() && !e.titleChanged {
		return PaintSkipped, nil
	}

	e.batch.Discard()

	if err := e.prepareMemory(); err != nil {
		return PaintSkipped, err
	}

	win, err := e.canvas.Acquire()
	if err != nil {
		return PaintSkipped, backendErr("acquire window", err)
	}

	e.window = win
	e.painting = true
	e.paintRect, _ = e.tracker.Rect()
	e.lastVariant = core.VariantUndefined
	return PaintStarted, nil
}

// prepareMemory makes the off-screen surface match the client area,
// reallocating only when the size changed.
func (e *Engine) prepareMemory() error {
	size, err := e.canvas.ClientSize()
	if err != nil {
		return backendErr("client size", err)
	}

	if e.memory == nil {
		m, err := e.canvas.NewMemory(size)
		if err != nil {
			return backendErr("create memory surface", err)
		}
		m.SetFaces(e.font.Faces)
		e.memory = m
		e.brushesSet = false
		return nil
	}

	if e.memory.Size() == size {
		return nil
	}
	return backendErr("resize memory surface", e.memory.Resize(size))
}

// ScrollFrame moves the pixels of both surfaces by the pending scroll
// delta and invalidates the strip that was exposed.
func (e *Engine) ScrollFrame() error {
	if !e.painting {
		return ErrInvalidState
	}
	if e.scroll.Pending().IsZero() {
		return nil
	}

	_, err := e.scroll.Apply(scroll.Request{
		SurfaceSize: e.memory.Size(),
		CellSize:    e.font.CellSize,
		Targets:     []scroll.Surface{e.memory, e.window},
		Unpaint:     e.unpaintCursor,
	})
	if errors.Is(err, scroll.ErrZeroCellSize) {
		return fmt.Errorf("scrolling without a font: %w", ErrInvalidState)
	}
	if err != nil {
		if e.scroll.Pending().IsZero() {
			// Memory moved but the window did not; the limit rect is dirty
			// and the blit at EndPaint resynchronizes the window.
			e.paintRect, _ = e.tracker.Rect()
		} else {
			e.scrollFailed = true
		}
		return backendErr("scroll", err)
	}

	e.paintRect, _ = e.tracker.Rect()
	return nil
}

func (e *Engine) unpaintCursor() {
	if err := e.cursor.Clear(e.memory, e.window); err != nil {
		e.warn("cursor unpaint", err)
	}
}

// EndPaint closes the frame: queued text is drawn, the dirty area is
// copied to the window, and the dirty region and scroll delta are
// cleared. Failures here are logged, not returned; the frame is spent
// either way. A scroll that failed during the frame stays pending.
func (e *Engine) EndPaint() error {
	if !e.painting {
		return ErrInvalidState
	}

	if err := e.batch.Flush(); err != nil {
		e.warn("flush", err)
	}

	var lost core.Rect
	area, ok := e.tracker.Rect()
	if ok && !area.IsEmpty() {
		if err := e.window.Blit(e.memory.Image(), area); err != nil {
			e.warn("blit", err)
			lost = area
		}
	}

	e.tracker.Clear()
	if !e.scrollFailed {
		e.scroll.Reset()
	}
	e.scrollFailed = false
	e.paintRect = core.Rect{}
	e.painting = false
	e.window.Release()
	e.window = nil

	if e.rearm && !lost.IsEmpty() {
		if err := e.tracker.Invalidate(lost); err != nil {
			e.warn("rearm", err)
		}
	}

	if e.titleChanged {
		if err := e.canvas.SetTitle(e.title); err != nil {
			e.warn("title", err)
		}
		e.titleChanged = false
	}

	e.observer.FrameEnded(e.frames, area, e.memory.Image())
	e.frames++
	return nil
}

// Close abandons an open frame, releasing the window without copying.
func (e *Engine) Close() {
	e.batch.Discard()
	if e.window != nil {
		e.window.Release()
		e.window = nil
	}
	e.painting = false
}

// memoryDrawer lets the batcher draw on whichever surface is current.
type memoryDrawer struct{ e *Engine }

func (d memoryDrawer) DrawGlyphRuns(runs []core.GlyphRun) error {
	if d.e.memory == nil {
		return ErrInvalidState
	}
	return d.e.memory.DrawGlyphRuns(runs)
}

type memoryTarget struct{ e *Engine }

func (t memoryTarget) SetTransform(xf core.Transform) error {
	if t.e.memory == nil {
		return ErrInvalidState
	}
	return t.e.memory.SetTransform(xf)
}
