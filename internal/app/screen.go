package app

import (
	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/glyph"
)

// Line is one row of the demo screen.
type Line struct {
	Text      string
	Italic    bool
	Soft      bool
	Highlight bool
	Lines     core.GridLineSet
	Rendition core.LineRendition
}

// Columns returns how many cells the text occupies.
func (l Line) Columns() int {
	n := 0
	for _, c := range glyph.Segment(l.Text) {
		n += c.Columns
	}
	return n
}

// Screen is a fixed grid of lines that scrolls upward.
type Screen struct {
	cols  int
	lines []Line
	top   int
}

// NewScreen creates an empty screen.
func NewScreen(cols, rows int) (*Screen, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ErrEmptyGrid
	}
	return &Screen{cols: cols, lines: make([]Line, rows)}, nil
}

// Size returns the grid size in cells.
func (s *Screen) Size() core.Size {
	return core.Sz(s.cols, len(s.lines))
}

// Line returns the line shown on row. Rows outside the screen are blank.
func (s *Screen) Line(row int) Line {
	if row < 0 || row >= len(s.lines) {
		return Line{}
	}
	return s.lines[(s.top+row)%len(s.lines)]
}

// Push scrolls every row up by one and shows l on the bottom row.
func (s *Screen) Push(l Line) {
	s.lines[s.top] = l
	s.top = (s.top + 1) % len(s.lines)
}

// Resize changes the grid, keeping the bottom rows.
func (s *Screen) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return ErrEmptyGrid
	}
	lines := make([]Line, rows)
	old := len(s.lines)
	for i := 0; i < rows && i < old; i++ {
		lines[rows-1-i] = s.Line(old - 1 - i)
	}
	s.cols = cols
	s.lines = lines
	s.top = 0
	return nil
}
