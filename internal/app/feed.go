package app

import (
	"fmt"
	"strings"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/glyph"
)

var phrases = []string{
	"the quick brown fox jumps over the lazy dog",
	"scroll copies pixels instead of repainting them",
	"wide glyphs: 日本語 テキスト",
	"dirty region stays conservative",
	"combining marks: é ä ô",
	"glyph runs are batched eighty at a time",
	"box drawing ┌─┐ │ │ └─┘",
	"cursor overlay is un-painted before scroll",
}

// Feed generates the demo's endless stream of lines. Line numbers pick the
// decorations, so every attribute the engine supports shows up regularly.
type Feed struct {
	cols    int
	n       int
	pending *Line
}

// NewFeed creates a feed of lines at most cols cells wide.
func NewFeed(cols int) *Feed {
	return &Feed{cols: cols}
}

// Count returns how many lines have been produced.
func (f *Feed) Count() int {
	return f.n
}

// SetColumns changes the width of following lines.
func (f *Feed) SetColumns(cols int) {
	f.cols = cols
}

// Next returns the next line.
func (f *Feed) Next() Line {
	if f.pending != nil {
		l := *f.pending
		f.pending = nil
		f.n++
		return l
	}

	n := f.n
	f.n++
	l := Line{Text: fmt.Sprintf("%05d %s", n, phrases[n%len(phrases)])}

	switch {
	case n%37 == 36:
		l.Rendition = core.DoubleHeightTop
	case n%11 == 10:
		l.Rendition = core.DoubleWidth
	}

	if n%7 == 3 {
		l.Italic = true
	}
	if n%23 == 5 {
		l.Soft = true
	}
	if n%9 == 8 {
		l.Highlight = true
	}

	switch {
	case n%13 == 12:
		l.Lines |= core.GridLineTop | core.GridLineBottom | core.GridLineLeft | core.GridLineRight
	case n%17 == 16:
		l.Lines |= core.GridLineStrikethrough
	}
	switch n % 6 {
	case 1:
		l.Lines |= core.GridLineUnderline
	case 2:
		l.Lines |= core.GridLineDoubleUnderline
	case 3:
		l.Lines |= core.GridLineCurlyUnderline
	case 4:
		if n%12 == 4 {
			l.Lines |= core.GridLineDottedUnderline
		} else {
			l.Lines |= core.GridLineDashedUnderline
		}
	}

	width := f.cols
	if l.Rendition != core.SingleWidth {
		width = f.cols / 2
	}
	l.Text = truncate(l.Text, width)

	if l.Rendition == core.DoubleHeightTop {
		bottom := l
		bottom.Rendition = core.DoubleHeightBottom
		f.pending = &bottom
	}
	return l
}

// truncate cuts s to at most cols cells without splitting a cluster.
func truncate(s string, cols int) string {
	var b strings.Builder
	used := 0
	for _, c := range glyph.Segment(s) {
		if used+c.Columns > cols {
			break
		}
		used += c.Columns
		b.WriteString(c.Text)
	}
	return b.String()
}
