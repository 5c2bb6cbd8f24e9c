// Package app hosts the render engine: it owns the demo screen, decides
// what becomes stale each tick and drives one frame at a time.
//
// Every engine call happens on the goroutine running Run. Other goroutines
// hand work to it with Post.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dshills/gridpaint/internal/config"
	"github.com/dshills/gridpaint/internal/renderer"
	"github.com/dshills/gridpaint/internal/renderer/backend"
	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/font"
)

// Options configures the application.
type Options struct {
	Logger *slog.Logger

	// Provider resolves fonts. Nil uses the Go font provider.
	Provider font.Provider

	// Observer overrides the engine observer chosen by the configuration.
	Observer renderer.Observer

	// StepInterval is how often a new line scrolls in. Zero disables
	// scrolling.
	StepInterval time.Duration

	// FrameInterval is how often a frame is painted.
	FrameInterval time.Duration

	// Reloads delivers configurations to apply while running.
	Reloads <-chan config.Config
}

// resizer is implemented by canvases whose client area the host controls.
type resizer interface {
	Resize(size core.Size) error
}

// Application drives a renderer.Engine from a scrolling demo screen.
type Application struct {
	opts    Options
	log     *slog.Logger
	canvas  backend.Canvas
	engine  *renderer.Engine
	cfg     config.Config
	palette config.Palette

	screen    *Screen
	feed      *Feed
	cursor    core.Point
	cursorPx  core.Rect
	selection core.Rect

	calls   chan func()
	running atomic.Bool
}

// New creates an application painting on canvas and fills the screen.
func New(canvas backend.Canvas, cfg config.Config, opts Options) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	palette, err := cfg.Colors.Palette()
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Provider == nil {
		opts.Provider = font.NewGoProvider()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}

	screen, err := NewScreen(cfg.Render.Columns, cfg.Render.Rows)
	if err != nil {
		return nil, &InitError{Component: "screen", Err: err}
	}

	ropts := renderer.DefaultOptions()
	ropts.Logger = opts.Logger
	ropts.Background = palette.Background
	ropts.RearmOnBlitFailure = cfg.Render.RearmOnBlitFailure
	if cfg.Render.DebugObserver {
		ropts.Observer = renderer.LogObserver{Logger: opts.Logger}
	}
	if opts.Observer != nil {
		ropts.Observer = opts.Observer
	}

	a := &Application{
		opts:    opts,
		log:     opts.Logger,
		canvas:  canvas,
		engine:  renderer.New(canvas, opts.Provider, ropts),
		cfg:     cfg,
		palette: palette,
		screen:  screen,
		feed:    NewFeed(cfg.Render.Columns),
		calls:   make(chan func(), 16),
	}

	if _, err := a.engine.UpdateFont(cfg.Desired()); err != nil {
		return nil, &InitError{Component: "font", Err: err}
	}
	if err := a.fitCanvas(); err != nil {
		return nil, &InitError{Component: "canvas", Err: err}
	}

	for range cfg.Render.Rows {
		a.screen.Push(a.feed.Next())
	}
	a.placeCursor()
	if err := a.engine.InvalidateAll(); err != nil {
		return nil, &InitError{Component: "renderer", Err: err}
	}
	return a, nil
}

// CanvasSize returns the pixel size a canvas needs to show the configured
// grid in the configured font.
func CanvasSize(provider font.Provider, cfg config.Config) (core.Size, error) {
	info, err := font.Resolve(provider, cfg.Desired())
	if err != nil {
		return core.Size{}, err
	}
	return gridPixels(cfg.Render.Columns, cfg.Render.Rows, info.CellSize), nil
}

func gridPixels(cols, rows int, cell core.Size) core.Size {
	return core.Sz(cols*cell.Width, rows*cell.Height)
}

// Engine returns the render engine.
func (a *Application) Engine() *renderer.Engine {
	return a.engine
}

// Screen returns the demo screen.
func (a *Application) Screen() *Screen {
	return a.screen
}

// Cursor returns the cursor cell.
func (a *Application) Cursor() core.Point {
	return a.cursor
}

// Config returns the configuration in effect.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Post queues fn to run on the render goroutine. It reports false when the
// queue is full.
func (a *Application) Post(fn func()) bool {
	select {
	case a.calls <- fn:
		return true
	default:
		return false
	}
}

// IsRunning returns true while Run is active.
func (a *Application) IsRunning() bool {
	return a.running.Load()
}

// Run paints frames and scrolls in new lines until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	frameTicker := time.NewTicker(a.opts.FrameInterval)
	defer frameTicker.Stop()

	var step <-chan time.Time
	if a.opts.StepInterval > 0 {
		stepTicker := time.NewTicker(a.opts.StepInterval)
		defer stepTicker.Stop()
		step = stepTicker.C
	}

	reloads := a.opts.Reloads
	for {
		select {
		case <-ctx.Done():
			return nil

		case fn := <-a.calls:
			fn()

		case cfg, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			if err := a.ApplyConfig(cfg); err != nil {
				a.log.Warn("configuration rejected", "err", err)
			}

		case <-step:
			if err := a.Step(); err != nil {
				a.log.Warn("step failed", "err", err)
			}

		case <-frameTicker.C:
			if _, err := a.Frame(); err != nil {
				a.log.Warn("frame failed", "err", err)
			}
		}
	}
}

// Step scrolls a new line in at the bottom and moves the cursor to its end.
func (a *Application) Step() error {
	size := a.screen.Size()
	a.screen.Push(a.feed.Next())

	if err := a.engine.InvalidateScroll(core.Pt(0, -1)); err != nil {
		return err
	}
	if err := a.engine.Invalidate(core.NewRect(0, size.Height-1, size.Width, size.Height)); err != nil {
		return err
	}
	if !a.selection.IsEmpty() {
		a.selection = a.selection.Offset(core.Pt(0, -1)).Intersect(core.RectFromSize(core.Point{}, size))
	}

	// The old cursor moved up with the content.
	if err := a.engine.InvalidateCursor(a.cursorPx.Offset(core.Pt(0, -1))); err != nil {
		return err
	}
	a.placeCursor()
	if err := a.engine.InvalidateCursor(a.cursorPx); err != nil {
		return err
	}

	a.engine.InvalidateTitle(fmt.Sprintf("gridpaint: line %d", a.feed.Count()))
	return nil
}

// SetSelection inverts a rectangle of cells from the next frame on. An
// empty rect clears the selection.
func (a *Application) SetSelection(cells core.Rect) error {
	var stale []core.Rect
	if !a.selection.IsEmpty() {
		stale = append(stale, a.selection)
	}
	a.selection = cells.Intersect(core.RectFromSize(core.Point{}, a.screen.Size()))
	if !a.selection.IsEmpty() {
		stale = append(stale, a.selection)
	}
	return a.engine.InvalidateSelection(stale)
}

// Selection returns the selected cells.
func (a *Application) Selection() core.Rect {
	return a.selection
}

// ApplyConfig switches to cfg. A font or grid change resizes the canvas when
// the canvas allows it; everything is repainted.
func (a *Application) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	palette, err := cfg.Colors.Palette()
	if err != nil {
		return err
	}

	fontChanged := cfg.Desired() != a.cfg.Desired()
	gridChanged := cfg.Render.Columns != a.cfg.Render.Columns || cfg.Render.Rows != a.cfg.Render.Rows

	if fontChanged {
		info, err := a.engine.UpdateFont(cfg.Desired())
		if err != nil {
			return fmt.Errorf("applying font: %w", err)
		}
		a.log.Info("font changed", "face", info.Face, "cell", info.CellSize.String())
	}
	if gridChanged {
		if err := a.screen.Resize(cfg.Render.Columns, cfg.Render.Rows); err != nil {
			return err
		}
		a.feed.SetColumns(cfg.Render.Columns)
		a.selection = core.Rect{}
		a.placeCursor()
	}

	a.cfg = cfg
	a.palette = palette
	if fontChanged || gridChanged {
		if err := a.fitCanvas(); err != nil {
			return err
		}
	}
	return a.engine.InvalidateAll()
}

func (a *Application) fitCanvas() error {
	r, ok := a.canvas.(resizer)
	if !ok {
		return nil
	}
	size := a.screen.Size()
	return r.Resize(gridPixels(size.Width, size.Height, a.engine.GetFontSize()))
}

// placeCursor puts the cursor after the text of the bottom row. On a
// scaled row the cursor column is a logical one and covers two screen
// cells.
func (a *Application) placeCursor() {
	size := a.screen.Size()
	row := size.Height - 1
	line := a.screen.Line(row)

	limit := size.Width
	scale := 1
	if line.Rendition != core.SingleWidth {
		limit = max(1, size.Width/2)
		scale = 2
	}
	col := min(line.Columns(), limit-1)
	a.cursor = core.Pt(col, row)
	a.cursorPx = core.NewRect(col*scale, row, (col+1)*scale, row+1)
}
