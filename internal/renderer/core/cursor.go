package core

// CursorType is the shape a cursor is drawn with.
type CursorType uint8

const (
	// CursorBlock is a bottom-anchored block whose height is a percentage
	// of the cell.
	CursorBlock CursorType = iota
	CursorVerticalBar
	CursorUnderscore
	CursorDoubleUnderscore
	CursorEmptyBox
	CursorFullBox
)

// String returns the cursor type name.
func (ct CursorType) String() string {
	switch ct {
	case CursorBlock:
		return "block"
	case CursorVerticalBar:
		return "vertical-bar"
	case CursorUnderscore:
		return "underscore"
	case CursorDoubleUnderscore:
		return "double-underscore"
	case CursorEmptyBox:
		return "empty-box"
	case CursorFullBox:
		return "full-box"
	default:
		return "unknown"
	}
}

// CursorOptions describes a cursor paint request.
type CursorOptions struct {
	// Coord is the cursor cell.
	Coord Point

	Type CursorType

	// HeightPercent applies to CursorBlock and is clamped to [25,100].
	HeightPercent int

	// PixelWidth applies to CursorVerticalBar.
	PixelWidth int

	IsDoubleWidth bool
	IsOn          bool

	// UseColor fills the shape with Color instead of inverting it.
	UseColor bool
	Color    Color

	LineRendition LineRendition
	ViewportLeft  int
}
