// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between the renderer and its
// component packages (dirty, scroll, glyph, cursor, backend).
package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow indicates a coordinate left the 32-bit range surfaces accept.
var ErrOverflow = errors.New("coordinate overflow")

// Point is a position in pixels or cells, depending on context.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// IsZero returns true for the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// ScaleUp converts a cell position to pixels.
func (p Point) ScaleUp(cell Size) (Point, error) {
	x, err := mulCoord(p.X, cell.Width)
	if err != nil {
		return Point{}, err
	}
	y, err := mulCoord(p.Y, cell.Height)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is an extent in pixels or cells.
type Size struct {
	Width  int
	Height int
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// IsEmpty returns true if either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Mod returns the remainder of s divided by cell along each axis.
// A zero cell dimension yields a zero remainder on that axis.
func (s Size) Mod(cell Size) Size {
	var m Size
	if cell.Width > 0 {
		m.Width = s.Width % cell.Width
	}
	if cell.Height > 0 {
		m.Height = s.Height % cell.Height
	}
	return m
}

// String returns a string representation of the size.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an axis-aligned rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// NewRect creates a rectangle from its edges.
func NewRect(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectFromSize creates a rectangle from an origin and a size.
func RectFromSize(origin Point, size Size) Rect {
	return Rect{
		Left:   origin.X,
		Top:    origin.Y,
		Right:  origin.X + size.Width,
		Bottom: origin.Y + size.Height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// Size returns width and height.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains returns true if other lies entirely within r.
// An empty rectangle is contained in every rectangle.
func (r Rect) Contains(other Rect) bool {
	if other.IsEmpty() {
		return true
	}
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

// ContainsPoint returns true if p is within the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && r.Right > other.Left &&
		r.Top < other.Bottom && r.Bottom > other.Top
}

// Intersect returns the overlapping region of two rectangles.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}
}

// Union returns the bounding box of both rectangles.
// Empty rectangles do not contribute.
func (r Rect) Union(other Rect) Rect {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	return Rect{
		Left:   min(r.Left, other.Left),
		Top:    min(r.Top, other.Top),
		Right:  max(r.Right, other.Right),
		Bottom: max(r.Bottom, other.Bottom),
	}
}

// Offset returns r translated by d.
func (r Rect) Offset(d Point) Rect {
	return Rect{
		Left:   r.Left + d.X,
		Top:    r.Top + d.Y,
		Right:  r.Right + d.X,
		Bottom: r.Bottom + d.Y,
	}
}

// ScaleUp converts a cell rectangle to pixels.
func (r Rect) ScaleUp(cell Size) (Rect, error) {
	tl, err := Point{X: r.Left, Y: r.Top}.ScaleUp(cell)
	if err != nil {
		return Rect{}, err
	}
	br, err := Point{X: r.Right, Y: r.Bottom}.ScaleUp(cell)
	if err != nil {
		return Rect{}, err
	}
	return Rect{Left: tl.X, Top: tl.Y, Right: br.X, Bottom: br.Y}, nil
}

// ScaleDown converts a pixel rectangle to the smallest cell rectangle
// covering it. A zero cell dimension yields an empty rectangle.
func (r Rect) ScaleDown(cell Size) Rect {
	if cell.IsEmpty() || r.IsEmpty() {
		return Rect{}
	}
	return Rect{
		Left:   floorDiv(r.Left, cell.Width),
		Top:    floorDiv(r.Top, cell.Height),
		Right:  ceilDiv(r.Right, cell.Width),
		Bottom: ceilDiv(r.Bottom, cell.Height),
	}
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

func mulCoord(a, b int) (int, error) {
	v := int64(a) * int64(b)
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%d*%d: %w", a, b, ErrOverflow)
	}
	return int(v), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
