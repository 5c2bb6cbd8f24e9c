package core

// TextAttributes describes the brushes and font a run is drawn with.
type TextAttributes struct {
	Foreground Color
	Background Color
	Italic     bool
	SoftFont   bool
}

// FontVariant selects which of the loaded faces draws text.
type FontVariant uint8

const (
	// VariantUndefined forces the next selection to apply.
	VariantUndefined FontVariant = iota
	VariantDefault
	VariantItalic
	VariantSoft
)

// VariantFor returns the variant the attributes require.
func VariantFor(a TextAttributes) FontVariant {
	switch {
	case a.SoftFont:
		return VariantSoft
	case a.Italic:
		return VariantItalic
	default:
		return VariantDefault
	}
}

// String returns the variant name.
func (v FontVariant) String() string {
	switch v {
	case VariantDefault:
		return "default"
	case VariantItalic:
		return "italic"
	case VariantSoft:
		return "soft"
	default:
		return "undefined"
	}
}

// GridLineSet is a set of line decorations drawn over a run of cells.
type GridLineSet uint16

// Grid line flags.
const (
	GridLineLeft GridLineSet = 1 << iota
	GridLineRight
	GridLineTop
	GridLineBottom
	GridLineStrikethrough
	GridLineUnderline
	GridLineDoubleUnderline
	GridLineCurlyUnderline
	GridLineDottedUnderline
	GridLineDashedUnderline
)

// Has returns true if every line in lines is set.
func (s GridLineSet) Has(lines GridLineSet) bool {
	return s&lines == lines
}

// Any returns true if at least one line in lines is set.
func (s GridLineSet) Any(lines GridLineSet) bool {
	return s&lines != 0
}
