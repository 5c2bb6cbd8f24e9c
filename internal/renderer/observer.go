package renderer

import (
	"image"
	"log/slog"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Observer watches the engine for debugging. It must not draw.
type Observer interface {
	// Invalidated is called with each pixel rect added to the dirty region.
	Invalidated(r core.Rect)

	// FrameEnded is called after a frame was copied to the window.
	// pixels is the off-screen surface and is only valid during the call.
	FrameEnded(frame uint64, dirty core.Rect, pixels image.Image)
}

// LogObserver logs every event at debug level.
type LogObserver struct {
	Logger *slog.Logger
}

// Invalidated implements Observer.
func (o LogObserver) Invalidated(r core.Rect) {
	o.Logger.Debug("invalidate", "rect", r.String())
}

// FrameEnded implements Observer.
func (o LogObserver) FrameEnded(frame uint64, dirty core.Rect, _ image.Image) {
	o.Logger.Debug("frame", "n", frame, "dirty", dirty.String())
}

type nopObserver struct{}

func (nopObserver) Invalidated(core.Rect)                     {}
func (nopObserver) FrameEnded(uint64, core.Rect, image.Image) {}
