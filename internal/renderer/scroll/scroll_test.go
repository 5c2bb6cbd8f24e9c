package scroll

import (
	"errors"
	"testing"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/dirty"
)

type fakeSurface struct {
	calls []core.Rect
	delta core.Point
	err   error
}

func (f *fakeSurface) Scroll(limit core.Rect, delta core.Point) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, limit)
	f.delta = delta
	return nil
}

func newTracker(client core.Rect) *dirty.Tracker {
	return dirty.NewTracker(dirty.ClientFunc(func() (core.Rect, error) {
		return client, nil
	}))
}

func TestLimitExcludesGutter(t *testing.T) {
	tests := []struct {
		surface core.Size
		cell    core.Size
		want    core.Rect
	}{
		{core.Sz(640, 384), core.Sz(8, 16), core.NewRect(0, 0, 640, 384)},
		{core.Sz(645, 390), core.Sz(8, 16), core.NewRect(0, 0, 640, 384)},
		{core.Sz(7, 15), core.Sz(8, 16), core.NewRect(0, 0, 0, 0)},
	}

	for _, tt := range tests {
		if got := Limit(tt.surface, tt.cell); got != tt.want {
			t.Errorf("Limit(%v, %v) = %v, want %v", tt.surface, tt.cell, got, tt.want)
		}
	}
}

func TestUpdateRect(t *testing.T) {
	limit := core.NewRect(0, 0, 640, 384)
	tests := []struct {
		name  string
		delta core.Point
		want  core.Rect
	}{
		{"up one row", core.Pt(0, -16), core.NewRect(0, 368, 640, 384)},
		{"down two rows", core.Pt(0, 32), core.NewRect(0, 0, 640, 32)},
		{"left", core.Pt(-8, 0), core.NewRect(632, 0, 640, 384)},
		{"right", core.Pt(8, 0), core.NewRect(0, 0, 8, 384)},
		{"beyond surface", core.Pt(0, -1000), limit},
		{"diagonal", core.Pt(8, 16), limit},
		{"none", core.Pt(0, 0), core.Rect{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UpdateRect(limit, tt.delta); got != tt.want {
				t.Errorf("UpdateRect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyNoPendingIsNoOp(t *testing.T) {
	tr := NewTranslator(newTracker(core.NewRect(0, 0, 640, 384)))
	s := &fakeSurface{}
	unpainted := false

	update, err := tr.Apply(Request{
		SurfaceSize: core.Sz(640, 384),
		CellSize:    core.Sz(8, 16),
		Targets:     []Surface{s},
		Unpaint:     func() { unpainted = true },
	})
	if err != nil {
		t.Fatal(err)
	}
	if !update.IsEmpty() || len(s.calls) != 0 || unpainted {
		t.Errorf("Apply() with zero delta did work: update=%v calls=%d unpaint=%v", update, len(s.calls), unpainted)
	}
}

func TestApplyScrollsAndInvalidates(t *testing.T) {
	tracker := newTracker(core.NewRect(0, 0, 645, 390))
	tr := NewTranslator(tracker)
	if err := tr.Invalidate(core.Pt(0, -16)); err != nil {
		t.Fatal(err)
	}

	visible, memory := &fakeSurface{}, &fakeSurface{}
	var order []string
	update, err := tr.Apply(Request{
		SurfaceSize: core.Sz(645, 390),
		CellSize:    core.Sz(8, 16),
		Targets:     []Surface{visible, memory},
		Unpaint: func() {
			order = append(order, "unpaint")
			if len(visible.calls) != 0 {
				t.Error("Unpaint ran after a surface scrolled")
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(order) != 1 {
		t.Errorf("Unpaint called %d times, want 1", len(order))
	}
	wantLimit := core.NewRect(0, 0, 640, 384)
	for _, s := range []*fakeSurface{visible, memory} {
		if len(s.calls) != 1 || s.calls[0] != wantLimit || s.delta != core.Pt(0, -16) {
			t.Errorf("Scroll calls = %v delta %v, want [%v] delta (0,-16)", s.calls, s.delta, wantLimit)
		}
	}
	if want := core.NewRect(0, 368, 640, 384); update != want {
		t.Errorf("Apply() update = %v, want %v", update, want)
	}
	if !tr.Pending().IsZero() {
		t.Errorf("Pending() = %v after Apply, want zero", tr.Pending())
	}
	got, ok := tracker.Rect()
	if !ok || !got.Contains(core.NewRect(0, 368, 640, 384)) {
		t.Errorf("dirty region = %v,%v, want it to contain the exposed strip", got, ok)
	}
}

func TestApplyFailureKeepsPending(t *testing.T) {
	tr := NewTranslator(newTracker(core.NewRect(0, 0, 640, 384)))
	_ = tr.Invalidate(core.Pt(0, 16))
	_ = tr.Invalidate(core.Pt(0, 16))

	errBlt := errors.New("blt failed")
	_, err := tr.Apply(Request{
		SurfaceSize: core.Sz(640, 384),
		CellSize:    core.Sz(8, 16),
		Targets:     []Surface{&fakeSurface{err: errBlt}},
	})
	if !errors.Is(err, errBlt) {
		t.Fatalf("Apply() error = %v, want %v", err, errBlt)
	}
	if got := tr.Pending(); got != core.Pt(0, 32) {
		t.Errorf("Pending() = %v, want (0,32)", got)
	}
}

func TestApplyLaterTargetFailureInvalidatesLimit(t *testing.T) {
	tracker := newTracker(core.NewRect(0, 0, 644, 390))
	tr := NewTranslator(tracker)
	_ = tr.Invalidate(core.Pt(0, -16))

	errBlt := errors.New("blt failed")
	memory := &fakeSurface{}
	window := &fakeSurface{err: errBlt}
	got, err := tr.Apply(Request{
		SurfaceSize: core.Sz(644, 390),
		CellSize:    core.Sz(8, 16),
		Targets:     []Surface{memory, window},
	})
	if !errors.Is(err, errBlt) {
		t.Fatalf("Apply() error = %v, want %v", err, errBlt)
	}
	if len(memory.calls) != 1 {
		t.Fatalf("memory scrolled %d times, want 1", len(memory.calls))
	}

	limit := core.NewRect(0, 0, 640, 384)
	if got != limit {
		t.Errorf("Apply() = %v, want limit %v", got, limit)
	}
	if !tr.Pending().IsZero() {
		t.Errorf("Pending() = %v, want zero once a target has moved", tr.Pending())
	}
	dirtyRect, ok := tracker.Rect()
	if !ok || !dirtyRect.Contains(limit) {
		t.Errorf("dirty = %v, %v, want it to cover %v", dirtyRect, ok, limit)
	}
}

func TestApplyZeroCellSize(t *testing.T) {
	tr := NewTranslator(newTracker(core.NewRect(0, 0, 640, 384)))
	_ = tr.Invalidate(core.Pt(0, 16))

	_, err := tr.Apply(Request{SurfaceSize: core.Sz(640, 384)})
	if !errors.Is(err, ErrZeroCellSize) {
		t.Errorf("Apply() error = %v, want ErrZeroCellSize", err)
	}
	if tr.Pending().IsZero() {
		t.Error("pending delta should survive a geometry failure")
	}
}

func TestInvalidateClientFailureKeepsPending(t *testing.T) {
	fail := false
	errGone := errors.New("gone")
	tracker := dirty.NewTracker(dirty.ClientFunc(func() (core.Rect, error) {
		if fail {
			return core.Rect{}, errGone
		}
		return core.NewRect(0, 0, 640, 384), nil
	}))
	_ = tracker.Invalidate(core.NewRect(0, 0, 640, 16))
	tr := NewTranslator(tracker)

	fail = true
	if err := tr.Invalidate(core.Pt(0, -16)); !errors.Is(err, errGone) {
		t.Fatalf("Invalidate() error = %v, want %v", err, errGone)
	}
	if !tr.Pending().IsZero() {
		t.Errorf("Pending() = %v, want zero after failed sweep", tr.Pending())
	}
}
