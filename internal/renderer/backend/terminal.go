package backend

import (
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// halfBlock draws the top half of a terminal cell in the foreground color
// and the bottom half in the background color.
const halfBlock = '▀'

// TerminalWindow is a Canvas that mirrors its visible pixels onto a
// terminal. Each terminal cell shows two vertically stacked pixel blocks,
// downsampled so the whole client area fits the screen.
type TerminalWindow struct {
	mu     sync.Mutex
	screen tcell.Screen
	win    *ImageWindow
}

// NewTerminalWindow creates a window of the given pixel size on screen.
// The screen is initialized by Init.
func NewTerminalWindow(screen tcell.Screen, size core.Size, pattern core.Color) (*TerminalWindow, error) {
	win, err := NewImageWindow(size, pattern)
	if err != nil {
		return nil, err
	}
	t := &TerminalWindow{screen: screen, win: win}
	win.presented = t.present
	return t, nil
}

// Init initializes the terminal.
func (t *TerminalWindow) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	t.screen.Clear()
	return nil
}

// Shutdown restores the terminal and invalidates the window.
func (t *TerminalWindow) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.win.Close()
	t.screen.Fini()
}

// Screen returns the underlying tcell screen for event polling.
func (t *TerminalWindow) Screen() tcell.Screen {
	return t.screen
}

// Valid implements Canvas.
func (t *TerminalWindow) Valid() bool { return t.win.Valid() }

// Visible implements Canvas.
func (t *TerminalWindow) Visible() bool { return t.win.Visible() }

// ClientSize implements Canvas.
func (t *TerminalWindow) ClientSize() (core.Size, error) { return t.win.ClientSize() }

// Acquire implements Canvas.
func (t *TerminalWindow) Acquire() (WindowSurface, error) { return t.win.Acquire() }

// NewMemory implements Canvas.
func (t *TerminalWindow) NewMemory(size core.Size) (MemorySurface, error) {
	return t.win.NewMemory(size)
}

// Image returns the full-resolution visible pixels.
func (t *TerminalWindow) Image() image.Image { return t.win.Image() }

// SetTitle implements Canvas.
func (t *TerminalWindow) SetTitle(title string) error {
	if err := t.win.SetTitle(title); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetTitle(title)
	return nil
}

// Resize changes the pixel client area and clears the terminal.
func (t *TerminalWindow) Resize(size core.Size) error {
	if err := t.win.Resize(size); err != nil {
		return err
	}
	t.mu.Lock()
	t.screen.Clear()
	t.mu.Unlock()
	return nil
}

// Redraw repaints the whole terminal, for example after a resize.
func (t *TerminalWindow) Redraw() {
	size, err := t.win.ClientSize()
	if err != nil {
		return
	}
	t.present(core.RectFromSize(core.Point{}, size))
}

// scale returns how many pixels one terminal column covers.
func (t *TerminalWindow) scale() int {
	cols, rows := t.screen.Size()
	size := t.win.pixels.Size()
	if cols <= 0 || rows <= 0 {
		return 1
	}
	sx := (size.Width + cols - 1) / cols
	sy := (size.Height + 2*rows - 1) / (2 * rows)
	return max(1, sx, sy)
}

func (t *TerminalWindow) present(dirty core.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.scale()
	bounds := core.RectFromSize(core.Point{}, t.win.pixels.Size())
	dirty = dirty.Intersect(bounds)

	for cy := dirty.Top / (2 * s); cy*2*s < dirty.Bottom; cy++ {
		for cx := dirty.Left / s; cx*s < dirty.Right; cx++ {
			top := t.average(core.NewRect(cx*s, 2*cy*s, (cx+1)*s, (2*cy+1)*s).Intersect(bounds))
			bottom := t.average(core.NewRect(cx*s, (2*cy+1)*s, (cx+1)*s, (2*cy+2)*s).Intersect(bounds))
			style := tcell.StyleDefault.
				Foreground(toTcell(top)).
				Background(toTcell(bottom))
			t.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	t.screen.Show()
}

// average blends a pixel block in linear RGB.
func (t *TerminalWindow) average(r core.Rect) core.Color {
	if r.IsEmpty() {
		return core.ColorBlack
	}
	var sr, sg, sb float64
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			lr, lg, lb := t.win.pixels.At(x, y).Colorful().LinearRgb()
			sr += lr
			sg += lg
			sb += lb
		}
	}
	n := float64(r.Width() * r.Height())
	return core.FromColorful(colorful.LinearRgb(sr/n, sg/n, sb/n))
}

func toTcell(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
