// Package renderer paints a grid of character cells incrementally.
//
// The Engine tracks which pixels went stale since the last frame, composes
// new content on an off-screen surface and copies only the changed pixels
// to the visible window.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│          Engine (frame bracket)         │
//	├─────────────────────────────────────────┤
//	│  dirty   │ scroll  │ glyph  │ cursor    │
//	│  Tracker │ Transl. │ Batch  │ Overlay   │
//	│  rendition.Transformer │ font metrics   │
//	├─────────────────────────────────────────┤
//	│      backend.Canvas (window + memory)   │
//	├─────────────────────────────────────────┤
//	│  Raster (image.RGBA) │ Terminal (tcell) │
//	└─────────────────────────────────────────┘
//
// A frame:
//
//	e.InvalidateScroll(core.Pt(0, -1))
//	if status, err := e.StartPaint(); err == nil && status == renderer.PaintStarted {
//		_ = e.ScrollFrame()
//		_ = e.PaintBackground()
//		_ = e.PaintBufferLine(clusters, core.Pt(0, 23), false)
//		_ = e.PaintCursor(opts)
//		_ = e.EndPaint()
//	}
//
// The Engine is driven from a single render goroutine and is not safe for
// concurrent use.
package renderer
