package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridpaint.toml")
	writeConfig(t, path, "[font]\nsize = 14\n")

	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}
	defer w.Close()

	writeConfig(t, path, "[font]\nsize = 20\n")

	select {
	case cfg := <-w.Configs():
		if cfg.Font.Size != 20 {
			t.Errorf("reloaded Font.Size = %d, want 20", cfg.Font.Size)
		}
	case err := <-w.Errors():
		t.Fatalf("watcher error = %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridpaint.toml")
	writeConfig(t, path, "")

	w, err := NewWatcher(path, WithDebounce(150*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}
	defer w.Close()

	for size := 10; size <= 14; size++ {
		writeConfig(t, path, fmt.Sprintf("[font]\nsize = %d\n", size))
	}

	select {
	case cfg := <-w.Configs():
		if cfg.Font.Size != 14 {
			t.Errorf("reloaded Font.Size = %d, want 14 (last write)", cfg.Font.Size)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	select {
	case cfg := <-w.Configs():
		t.Errorf("unexpected second reload %+v", cfg.Font)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridpaint.toml")

	w, err := NewWatcher(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}
	defer w.Close()

	writeConfig(t, filepath.Join(dir, "other.toml"), "[font]\nsize = 30\n")

	select {
	case cfg := <-w.Configs():
		t.Errorf("unexpected reload %+v", cfg.Font)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridpaint.toml")
	writeConfig(t, path, "")

	w, err := NewWatcher(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}
	defer w.Close()

	writeConfig(t, path, "[font\n")

	select {
	case err := <-w.Errors():
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("watcher error = %v, want *ParseError", err)
		}
	case cfg := <-w.Configs():
		t.Fatalf("unexpected reload %+v", cfg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "gridpaint.toml"))
	if err == nil {
		t.Error("NewWatcher on missing directory should fail")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "gridpaint.toml"))
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if _, ok := <-w.Configs(); ok {
		t.Error("Configs channel should be closed")
	}
	if _, ok := <-w.Errors(); ok {
		t.Error("Errors channel should be closed")
	}
}

func TestWatcherKeepsLatestWhenConsumerBehind(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}
	defer w.Close()

	n := cap(w.configs) + 3
	for i := range n {
		cfg := Default()
		cfg.Font.Size = 10 + i
		w.sendConfig(cfg)
	}

	var last Config
	for range cap(w.configs) {
		select {
		case last = <-w.Configs():
		default:
			t.Fatal("queued updates missing")
		}
	}
	if want := 10 + n - 1; last.Font.Size != want {
		t.Errorf("last queued font.size = %d, want latest %d", last.Font.Size, want)
	}
}
