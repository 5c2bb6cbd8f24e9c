package glyph

import (
	"errors"
	"testing"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

type recordingDrawer struct {
	batches [][]core.GlyphRun
	err     error
}

func (d *recordingDrawer) DrawGlyphRuns(runs []core.GlyphRun) error {
	cp := make([]core.GlyphRun, len(runs))
	copy(cp, runs)
	d.batches = append(d.batches, cp)
	return d.err
}

func clustersOf(cols ...int) []core.Cluster {
	out := make([]core.Cluster, len(cols))
	for i, c := range cols {
		out[i] = core.Cluster{Text: "x", Columns: c}
	}
	return out
}

func TestEnqueueAdvances(t *testing.T) {
	d := &recordingDrawer{}
	b := NewBatcher(d)
	b.SetCellSize(core.Sz(8, 16))

	if err := b.Enqueue(clustersOf(1, 2, 1), core.Pt(2, 3), false); err != nil {
		t.Fatal(err)
	}
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}

	run := d.batches[0][0]
	want := []int{8, 16, 8}
	for i := range want {
		if run.Advances[i] != want[i] {
			t.Errorf("Advances = %v, want %v", run.Advances, want)
			break
		}
	}
	if got := run.Width(); got != 32 {
		t.Errorf("Width() = %d, want 32", got)
	}
	if run.Origin != core.Pt(16, 48) {
		t.Errorf("Origin = %v, want (16,48)", run.Origin)
	}
	if want := core.NewRect(16, 48, 48, 64); run.Clip != want {
		t.Errorf("Clip = %v, want %v", run.Clip, want)
	}
}

func TestEnqueueClip(t *testing.T) {
	tests := []struct {
		name      string
		rendition core.LineRendition
		trimLeft  bool
		want      core.Rect
	}{
		{"single", core.SingleWidth, false, core.NewRect(0, 16, 16, 32)},
		{"trim left", core.SingleWidth, true, core.NewRect(8, 16, 16, 32)},
		{"double height top", core.DoubleHeightTop, false, core.NewRect(0, 16, 16, 24)},
		{"double height bottom", core.DoubleHeightBottom, false, core.NewRect(0, 24, 16, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDrawer{}
			b := NewBatcher(d)
			b.SetCellSize(core.Sz(8, 16))
			b.SetRendition(tt.rendition)
			_ = b.Enqueue(clustersOf(1, 1), core.Pt(0, 1), tt.trimLeft)
			_ = b.Flush()
			if got := d.batches[0][0].Clip; got != tt.want {
				t.Errorf("Clip = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBatchCapacity(t *testing.T) {
	d := &recordingDrawer{}
	b := NewBatcher(d)
	b.SetCellSize(core.Sz(8, 16))

	for i := 0; i < Capacity; i++ {
		if err := b.Enqueue(clustersOf(1), core.Pt(0, i), false); err != nil {
			t.Fatal(err)
		}
	}
	if len(d.batches) != 0 {
		t.Fatalf("flushed %d times before exceeding capacity", len(d.batches))
	}
	if b.Len() != Capacity {
		t.Fatalf("Len() = %d, want %d", b.Len(), Capacity)
	}

	if err := b.Enqueue(clustersOf(1), core.Pt(0, Capacity), false); err != nil {
		t.Fatal(err)
	}
	if len(d.batches) != 1 {
		t.Fatalf("automatic flushes = %d, want 1", len(d.batches))
	}
	if len(d.batches[0]) != Capacity {
		t.Errorf("flushed batch size = %d, want %d", len(d.batches[0]), Capacity)
	}
	if b.Len() != 1 {
		t.Errorf("Len() after overflow = %d, want 1", b.Len())
	}
	if b.Flushes() != 1 {
		t.Errorf("Flushes() = %d, want 1", b.Flushes())
	}
}

func TestFlushReleasesOnFailure(t *testing.T) {
	errDraw := errors.New("draw failed")
	d := &recordingDrawer{err: errDraw}
	b := NewBatcher(d)
	b.SetCellSize(core.Sz(8, 16))
	_ = b.Enqueue(clustersOf(1, 1), core.Pt(0, 0), false)

	if err := b.Flush(); !errors.Is(err, errDraw) {
		t.Fatalf("Flush() error = %v, want %v", err, errDraw)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d after failed flush, want 0", b.Len())
	}
	for i := range b.runs {
		if b.runs[i].Text != nil || b.runs[i].Advances != nil {
			t.Fatalf("run %d still holds buffers", i)
		}
	}
}

func TestFlushEmptyDoesNotDraw(t *testing.T) {
	d := &recordingDrawer{}
	b := NewBatcher(d)
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(d.batches) != 0 || b.Flushes() != 0 {
		t.Error("empty Flush() should not draw")
	}
}

func TestEnqueueEmptyAndZeroCell(t *testing.T) {
	b := NewBatcher(&recordingDrawer{})
	if err := b.Enqueue(nil, core.Pt(0, 0), false); err != nil {
		t.Errorf("Enqueue(nil) error = %v, want nil", err)
	}
	if err := b.Enqueue(clustersOf(1), core.Pt(0, 0), false); !errors.Is(err, ErrZeroCellSize) {
		t.Errorf("Enqueue() error = %v, want ErrZeroCellSize", err)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestSoftFontMask(t *testing.T) {
	d := &recordingDrawer{}
	b := NewBatcher(d)
	b.SetCellSize(core.Sz(8, 16))
	b.SetSoftFont(true)
	_ = b.Enqueue([]core.Cluster{{Text: "Á", Columns: 1}}, core.Pt(0, 0), false)
	_ = b.Flush()

	if got := d.batches[0][0].Text[0]; got != "A" {
		t.Errorf("soft font text = %q, want %q", got, "A")
	}
}
