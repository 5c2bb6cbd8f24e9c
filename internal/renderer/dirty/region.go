// Package dirty tracks the pixel area that became stale since the last frame.
//
// The tracked area is a single conservative bounding rectangle rather than
// a list of regions: every invalidation widens it, nothing narrows it except
// clamping to the client area, and it is cleared only once a frame has been
// flushed to the visible surface.
package dirty

import "github.com/dshills/gridpaint/internal/renderer/core"

// Restrict clamps r to the client rectangle. The horizontal edges always
// snap to the client's edges so a row is never partially redrawn; the
// vertical edges are clamped into [client.Top, client.Bottom].
func Restrict(r, client core.Rect) core.Rect {
	return core.Rect{
		Left:   client.Left,
		Right:  client.Right,
		Top:    clamp(r.Top, client.Top, client.Bottom),
		Bottom: clamp(r.Bottom, client.Top, client.Bottom),
	}
}

// Sweep returns the bounding box of r and r translated by delta: the area
// left behind plus the area revealed when r's content moves by delta.
func Sweep(r core.Rect, delta core.Point) core.Rect {
	moved := r.Offset(delta)
	return core.Rect{
		Left:   min(r.Left, moved.Left),
		Top:    min(r.Top, moved.Top),
		Right:  max(r.Right, moved.Right),
		Bottom: max(r.Bottom, moved.Bottom),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
