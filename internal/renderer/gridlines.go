package renderer

import (
	"math"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/font"
)

// Dash patterns, in multiples of the underline width.
const (
	dotOn   = 1
	dotOff  = 1
	dashOn  = 4
	dashOff = 2
)

// Peak height of the curly wave relative to its control point offset.
const curlyPeak = 0.28125

type gridSegment struct {
	rect      core.Rect
	underline bool
}

// gridLineSegments returns the rectangles that draw lines under count
// cells whose first cell's pixel origin is at.
func gridLineSegments(lines core.GridLineSet, count int, at core.Point, cell core.Size, m font.LineMetrics) []gridSegment {
	if count <= 0 {
		return nil
	}

	var segs []gridSegment
	add := func(r core.Rect, underline bool) {
		if !r.IsEmpty() {
			segs = append(segs, gridSegment{rect: r, underline: underline})
		}
	}

	gw := m.GridlineWidth
	total := cell.Width * count
	row := func(y, h int) core.Rect {
		return core.NewRect(at.X, at.Y+y, at.X+total, at.Y+y+h)
	}

	if lines.Has(core.GridLineLeft) {
		for i := 0; i < count; i++ {
			x := at.X + i*cell.Width
			add(core.NewRect(x, at.Y, x+gw, at.Y+cell.Height), false)
		}
	}
	if lines.Has(core.GridLineRight) {
		for i := 0; i < count; i++ {
			x := at.X + (i+1)*cell.Width - gw
			add(core.NewRect(x, at.Y, x+gw, at.Y+cell.Height), false)
		}
	}
	if lines.Has(core.GridLineTop) {
		add(row(0, gw), false)
	}
	if lines.Has(core.GridLineBottom) {
		add(row(cell.Height-gw, gw), false)
	}
	if lines.Has(core.GridLineStrikethrough) {
		add(row(m.StrikethroughOffset, m.StrikethroughWidth), false)
	}

	uw := m.UnderlineWidth
	switch {
	case lines.Has(core.GridLineUnderline):
		add(row(m.UnderlineOffset, uw), true)
	case lines.Has(core.GridLineDoubleUnderline):
		add(row(m.UnderlineOffset, uw), true)
		add(row(m.UnderlineOffset2, uw), true)
	case lines.Has(core.GridLineCurlyUnderline):
		for _, r := range curlyLine(at, total, cell, m) {
			add(r, true)
		}
	case lines.Has(core.GridLineDottedUnderline):
		for _, r := range dashedLine(row(m.UnderlineOffset, uw), dotOn*uw, dotOff*uw) {
			add(r, true)
		}
	case lines.Has(core.GridLineDashedUnderline):
		for _, r := range dashedLine(row(m.UnderlineOffset, uw), dashOn*uw, dashOff*uw) {
			add(r, true)
		}
	}
	return segs
}

// dashedLine splits line into on/off segments. The pattern is anchored at
// x = 0 so adjacent runs line up.
func dashedLine(line core.Rect, on, off int) []core.Rect {
	period := on + off
	var out []core.Rect
	for x := line.Left - floorMod(line.Left, period); x < line.Right; x += period {
		seg := line
		seg.Left = max(x, line.Left)
		seg.Right = min(x+on, line.Right)
		if seg.Left < seg.Right {
			out = append(out, seg)
		}
	}
	return out
}

// curlyLine approximates the wave column by column, merging columns that
// land on the same row. The wave is clipped to the cell row.
func curlyLine(at core.Point, width int, cell core.Size, m font.LineMetrics) []core.Rect {
	period := max(m.CurlyLinePeriod, 2)
	amp := max(1.0, curlyPeak*float64(m.CurlyLineControlPointOffset))
	thick := max(m.DoubleUnderlineWidth, 1)
	center := at.Y + m.CurlyLineCenter
	clip := core.NewRect(at.X, at.Y, at.X+width, at.Y+cell.Height)

	var out []core.Rect
	for x := at.X; x < at.X+width; x++ {
		phase := float64(floorMod(x, period)) / float64(period)
		top := center - int(math.Round(amp*math.Sin(2*math.Pi*phase))) - thick/2
		r := core.NewRect(x, top, x+1, top+thick).Intersect(clip)
		if r.IsEmpty() {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Right == x && out[n-1].Top == r.Top && out[n-1].Bottom == r.Bottom {
			out[n-1].Right = r.Right
			continue
		}
		out = append(out, r)
	}
	return out
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
