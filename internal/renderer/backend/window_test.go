package backend

import (
	"errors"
	"testing"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

func TestImageWindowAcquireRelease(t *testing.T) {
	w, err := NewImageWindow(core.Sz(16, 16), core.ColorLightGray)
	if err != nil {
		t.Fatal(err)
	}

	s, err := w.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Acquire(); !errors.Is(err, ErrAlreadyAcquired) {
		t.Errorf("second Acquire() error = %v, want ErrAlreadyAcquired", err)
	}

	s.Release()
	s.Release()
	if err := s.FillRect(core.NewRect(0, 0, 1, 1), core.ColorWhite); err == nil {
		t.Error("FillRect() after Release() should fail")
	}

	s2, err := w.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after Release() error = %v", err)
	}
	s2.Release()
}

func TestImageWindowBlit(t *testing.T) {
	w, _ := NewImageWindow(core.Sz(8, 8), core.ColorLightGray)
	mem, err := w.NewMemory(core.Sz(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	_ = mem.FillRect(core.NewRect(0, 0, 8, 8), core.ColorWhite)

	var presented core.Rect
	w.presented = func(r core.Rect) { presented = r }

	s, _ := w.Acquire()
	if err := s.Blit(mem.Image(), core.NewRect(2, 2, 4, 4)); err != nil {
		t.Fatal(err)
	}
	s.Release()

	if w.At(3, 3) != core.ColorWhite {
		t.Error("blitted pixel should be copied")
	}
	if w.At(5, 5) == core.ColorWhite {
		t.Error("pixel outside the blit rect should not be copied")
	}
	if presented != core.NewRect(2, 2, 4, 4) {
		t.Errorf("presented = %v, want (2,2)-(4,4)", presented)
	}
}

func TestImageWindowClosed(t *testing.T) {
	w, _ := NewImageWindow(core.Sz(8, 8), core.ColorLightGray)
	w.Close()

	if w.Valid() {
		t.Error("Valid() = true after Close()")
	}
	if _, err := w.Acquire(); !errors.Is(err, ErrInvalidCanvas) {
		t.Errorf("Acquire() error = %v, want ErrInvalidCanvas", err)
	}
	if _, err := w.ClientSize(); !errors.Is(err, ErrInvalidCanvas) {
		t.Errorf("ClientSize() error = %v, want ErrInvalidCanvas", err)
	}
}

func TestImageWindowTitleAndVisibility(t *testing.T) {
	w, _ := NewImageWindow(core.Sz(8, 8), core.ColorLightGray)
	_ = w.SetTitle("demo")
	if w.Title() != "demo" {
		t.Errorf("Title() = %q, want %q", w.Title(), "demo")
	}
	w.SetVisible(false)
	if w.Visible() {
		t.Error("Visible() = true after SetVisible(false)")
	}
}
