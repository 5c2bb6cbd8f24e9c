package backend

import (
	"image"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/font"
)

// Op names a recorded canvas operation.
type Op string

// Recorded operations.
const (
	OpAcquire    Op = "acquire"
	OpRelease    Op = "release"
	OpClientSize Op = "client-size"
	OpNewMemory  Op = "new-memory"
	OpResize     Op = "resize"
	OpTitle      Op = "title"
	OpFill       Op = "fill"
	OpInvert     Op = "invert"
	OpScroll     Op = "scroll"
	OpTransform  Op = "transform"
	OpBlit       Op = "blit"
	OpGlyphs     Op = "glyphs"
	OpTextColors Op = "text-colors"
	OpFont       Op = "font"
)

// Target names which surface a call went to.
type Target string

// Call targets.
const (
	TargetCanvas Target = "canvas"
	TargetWindow Target = "window"
	TargetMemory Target = "memory"
)

// Call is one recorded operation.
type Call struct {
	Target    Target
	Op        Op
	Rect      core.Rect
	Delta     core.Point
	Transform core.Transform
	Color     core.Color
	Runs      int
	Variant   core.FontVariant
	Text      string
}

type failKey struct {
	target Target
	op     Op
}

// Recorder wraps a Canvas and records every call made through it and the
// surfaces it hands out. Failures can be injected per target and op.
// Failed calls are recorded too.
type Recorder struct {
	inner Canvas
	calls []Call
	fail  map[failKey]error
}

// NewRecorder records calls to inner.
func NewRecorder(inner Canvas) *Recorder {
	return &Recorder{inner: inner, fail: make(map[failKey]error)}
}

// FailOn makes op on target return err until cleared with a nil err.
func (r *Recorder) FailOn(target Target, op Op, err error) {
	if err == nil {
		delete(r.fail, failKey{target, op})
		return
	}
	r.fail[failKey{target, op}] = err
}

// Calls returns every recorded call.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Count returns how many calls of op went to target.
func (r *Recorder) Count(target Target, op Op) int {
	n := 0
	for _, c := range r.calls {
		if c.Target == target && c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the calls of op that went to target.
func (r *Recorder) Filter(target Target, op Op) []Call {
	var out []Call
	for _, c := range r.calls {
		if c.Target == target && c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls; injected failures stay.
func (r *Recorder) Reset() {
	r.calls = r.calls[:0]
}

func (r *Recorder) record(c Call) error {
	r.calls = append(r.calls, c)
	return r.fail[failKey{c.Target, c.Op}]
}

// Valid implements Canvas.
func (r *Recorder) Valid() bool { return r.inner.Valid() }

// Visible implements Canvas.
func (r *Recorder) Visible() bool { return r.inner.Visible() }

// ClientSize implements Canvas.
func (r *Recorder) ClientSize() (core.Size, error) {
	if err := r.record(Call{Target: TargetCanvas, Op: OpClientSize}); err != nil {
		return core.Size{}, err
	}
	return r.inner.ClientSize()
}

// SetTitle implements Canvas.
func (r *Recorder) SetTitle(title string) error {
	if err := r.record(Call{Target: TargetCanvas, Op: OpTitle, Text: title}); err != nil {
		return err
	}
	return r.inner.SetTitle(title)
}

// Acquire implements Canvas.
func (r *Recorder) Acquire() (WindowSurface, error) {
	if err := r.record(Call{Target: TargetCanvas, Op: OpAcquire}); err != nil {
		return nil, err
	}
	s, err := r.inner.Acquire()
	if err != nil {
		return nil, err
	}
	return &recordedWindow{rec: r, inner: s}, nil
}

// NewMemory implements Canvas.
func (r *Recorder) NewMemory(size core.Size) (MemorySurface, error) {
	if err := r.record(Call{Target: TargetCanvas, Op: OpNewMemory, Rect: core.RectFromSize(core.Point{}, size)}); err != nil {
		return nil, err
	}
	m, err := r.inner.NewMemory(size)
	if err != nil {
		return nil, err
	}
	return &recordedMemory{rec: r, inner: m}, nil
}

// recordedSurface records the operations common to both surface kinds.
type recordedSurface struct {
	rec    *Recorder
	target Target
	inner  Surface
}

func (s recordedSurface) FillRect(rect core.Rect, c core.Color) error {
	if err := s.rec.record(Call{Target: s.target, Op: OpFill, Rect: rect, Color: c}); err != nil {
		return err
	}
	return s.inner.FillRect(rect, c)
}

func (s recordedSurface) InvertRect(rect core.Rect) error {
	if err := s.rec.record(Call{Target: s.target, Op: OpInvert, Rect: rect}); err != nil {
		return err
	}
	return s.inner.InvertRect(rect)
}

func (s recordedSurface) Scroll(limit core.Rect, delta core.Point) error {
	if err := s.rec.record(Call{Target: s.target, Op: OpScroll, Rect: limit, Delta: delta}); err != nil {
		return err
	}
	return s.inner.Scroll(limit, delta)
}

func (s recordedSurface) SetTransform(xf core.Transform) error {
	if err := s.rec.record(Call{Target: s.target, Op: OpTransform, Transform: xf}); err != nil {
		return err
	}
	return s.inner.SetTransform(xf)
}

type recordedWindow struct {
	rec   *Recorder
	inner WindowSurface
}

func (w *recordedWindow) surface() recordedSurface {
	return recordedSurface{rec: w.rec, target: TargetWindow, inner: w.inner}
}

func (w *recordedWindow) FillRect(r core.Rect, c core.Color) error {
	return w.surface().FillRect(r, c)
}

func (w *recordedWindow) InvertRect(r core.Rect) error {
	return w.surface().InvertRect(r)
}

func (w *recordedWindow) Scroll(limit core.Rect, delta core.Point) error {
	return w.surface().Scroll(limit, delta)
}

func (w *recordedWindow) SetTransform(xf core.Transform) error {
	return w.surface().SetTransform(xf)
}

func (w *recordedWindow) Blit(src image.Image, r core.Rect) error {
	if err := w.rec.record(Call{Target: TargetWindow, Op: OpBlit, Rect: r}); err != nil {
		return err
	}
	return w.inner.Blit(src, r)
}

func (w *recordedWindow) Release() {
	_ = w.rec.record(Call{Target: TargetWindow, Op: OpRelease})
	w.inner.Release()
}

type recordedMemory struct {
	rec   *Recorder
	inner MemorySurface
}

func (m *recordedMemory) surface() recordedSurface {
	return recordedSurface{rec: m.rec, target: TargetMemory, inner: m.inner}
}

func (m *recordedMemory) FillRect(r core.Rect, c core.Color) error {
	return m.surface().FillRect(r, c)
}

func (m *recordedMemory) InvertRect(r core.Rect) error {
	return m.surface().InvertRect(r)
}

func (m *recordedMemory) Scroll(limit core.Rect, delta core.Point) error {
	return m.surface().Scroll(limit, delta)
}

func (m *recordedMemory) SetTransform(xf core.Transform) error {
	return m.surface().SetTransform(xf)
}

func (m *recordedMemory) Size() core.Size { return m.inner.Size() }

func (m *recordedMemory) Image() image.Image { return m.inner.Image() }

func (m *recordedMemory) SetFaces(faces font.Faces) { m.inner.SetFaces(faces) }

func (m *recordedMemory) Resize(size core.Size) error {
	if err := m.rec.record(Call{Target: TargetMemory, Op: OpResize, Rect: core.RectFromSize(core.Point{}, size)}); err != nil {
		return err
	}
	return m.inner.Resize(size)
}

func (m *recordedMemory) DrawGlyphRuns(runs []core.GlyphRun) error {
	if err := m.rec.record(Call{Target: TargetMemory, Op: OpGlyphs, Runs: len(runs)}); err != nil {
		return err
	}
	return m.inner.DrawGlyphRuns(runs)
}

func (m *recordedMemory) SetTextColors(fg, bg core.Color) error {
	if err := m.rec.record(Call{Target: TargetMemory, Op: OpTextColors, Color: fg}); err != nil {
		return err
	}
	return m.inner.SetTextColors(fg, bg)
}

func (m *recordedMemory) SelectFont(v core.FontVariant) error {
	if err := m.rec.record(Call{Target: TargetMemory, Op: OpFont, Variant: v}); err != nil {
		return err
	}
	return m.inner.SelectFont(v)
}
