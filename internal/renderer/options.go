package renderer

import (
	"io"
	"log/slog"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Options configures an Engine.
type Options struct {
	// Logger receives backend failures the engine recovers from.
	// Nil discards them.
	Logger *slog.Logger

	// Observer is told about invalidations and finished frames.
	Observer Observer

	// Background fills invalid areas until UpdateDrawingBrushes sets the
	// default brushes.
	Background core.Color

	// RearmOnBlitFailure re-invalidates the frame's dirty area when the
	// final copy to the window fails, instead of dropping it.
	RearmOnBlitFailure bool
}

// DefaultOptions returns options with a discard logger and a black
// background.
func DefaultOptions() Options {
	return Options{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Background: core.ColorBlack,
	}
}
