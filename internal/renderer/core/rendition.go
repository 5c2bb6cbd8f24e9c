package core

import "math"

// LineRendition is the per-row scaling mode.
type LineRendition uint8

const (
	SingleWidth LineRendition = iota
	DoubleWidth
	DoubleHeightTop
	DoubleHeightBottom
)

// String returns the rendition name.
func (lr LineRendition) String() string {
	switch lr {
	case SingleWidth:
		return "single-width"
	case DoubleWidth:
		return "double-width"
	case DoubleHeightTop:
		return "double-height-top"
	case DoubleHeightBottom:
		return "double-height-bottom"
	default:
		return "unknown"
	}
}

// Transform is a 2x2 matrix plus translation mapping logical drawing
// coordinates to device pixels:
//
//	x' = x*M11 + y*M21 + Dx
//	y' = x*M12 + y*M22 + Dy
type Transform struct {
	M11, M12 float32
	M21, M22 float32
	Dx, Dy   float32
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{M11: 1, M22: 1}

// IsIdentity returns true if t equals Identity.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

// Apply maps a logical point to device pixels.
func (t Transform) Apply(p Point) Point {
	x := float32(p.X)*t.M11 + float32(p.Y)*t.M21 + t.Dx
	y := float32(p.X)*t.M12 + float32(p.Y)*t.M22 + t.Dy
	return Point{X: int(math.Round(float64(x))), Y: int(math.Round(float64(y)))}
}

// ApplyRect maps a logical rectangle to the device-space bounding box of
// its corners.
func (t Transform) ApplyRect(r Rect) Rect {
	if t.IsIdentity() {
		return r
	}
	a := t.Apply(Point{X: r.Left, Y: r.Top})
	b := t.Apply(Point{X: r.Right, Y: r.Bottom})
	return Rect{
		Left:   min(a.X, b.X),
		Top:    min(a.Y, b.Y),
		Right:  max(a.X, b.X),
		Bottom: max(a.Y, b.Y),
	}
}
