package font

import (
	"errors"
	"math"
)

// ErrZeroCellSize is returned when a font resolves to a cell with no area.
var ErrZeroCellSize = errors.New("font: zero cell size")

// OutlineMetrics are the decoration positions an outline font carries.
// Positions are measured upward from the baseline to the top edge of the
// line; a line below the baseline has a negative position.
type OutlineMetrics struct {
	UnderscorePosition int
	UnderscoreSize     int
	StrikeoutPosition  int
	StrikeoutSize      int
}

// RawMetrics are the per-font measurements a Provider reports.
type RawMetrics struct {
	Height          int
	InternalLeading int
	Ascent          int

	// Outline is nil for bitmap faces.
	Outline *OutlineMetrics
}

// LineMetrics holds decoration geometry in pixels, relative to the top of
// a cell. All widths are at least one pixel.
type LineMetrics struct {
	GridlineWidth       int
	UnderlineOffset     int
	UnderlineOffset2    int
	UnderlineWidth      int
	StrikethroughOffset int
	StrikethroughWidth  int

	DoubleUnderlineWidth        int
	CurlyLinePeriod             int
	CurlyLineControlPointOffset int
	CurlyLineCenter             int
}

// Height of a unit cubic Bezier wave at a quarter period.
const curlyWaveAmplitude = 0.140625

// ResolveMetrics derives LineMetrics for cells of the given height.
// When raw has no outline metrics the offsets fall back to fractions of
// the font size and baseline.
func ResolveMetrics(cellHeight int, raw RawMetrics) (LineMetrics, error) {
	if cellHeight <= 0 {
		return LineMetrics{}, ErrZeroCellSize
	}

	ch := float64(cellHeight)
	fontSize := float64(raw.Height - raw.InternalLeading)
	baseline := float64(raw.Ascent)
	gridline := math.Max(1, fontSize*0.025)

	var underTop, underWidth, strikeTop, strikeWidth float64
	if o := raw.Outline; o != nil {
		underTop = baseline - float64(o.UnderscorePosition)
		underWidth = float64(o.UnderscoreSize)
		strikeTop = baseline - float64(o.StrikeoutPosition)
		strikeWidth = float64(o.StrikeoutSize)
	} else {
		underTop = math.Max(1, math.Round(baseline-fontSize*0.05))
		underWidth = gridline
		strikeTop = math.Max(1, math.Round(baseline*2/3))
		strikeWidth = gridline
	}

	var m LineMetrics
	m.GridlineWidth = max(1, int(math.Round(gridline)))
	m.UnderlineWidth = max(1, int(math.Round(underWidth)))
	m.UnderlineOffset = clampOffset(int(math.Round(underTop)), cellHeight-m.UnderlineWidth)
	m.StrikethroughWidth = max(1, int(math.Round(strikeWidth)))
	m.StrikethroughOffset = clampOffset(int(math.Round(strikeTop)), cellHeight-m.StrikethroughWidth)
	m.UnderlineOffset2 = secondUnderline(cellHeight, m.UnderlineOffset, m.UnderlineWidth, m.GridlineWidth)

	m.DoubleUnderlineWidth = max(1, int(math.Round(underWidth/2)))
	half := math.Abs(float64(m.UnderlineOffset2-m.UnderlineOffset)) / 2
	center := float64(min(m.UnderlineOffset, m.UnderlineOffset2)) + half
	cp := math.Round(math.Max(1, half) / curlyWaveAmplitude * 0.5)
	period := cp * 2
	amplitude := curlyWaveAmplitude*period + 0.5*float64(m.DoubleUnderlineWidth)
	m.CurlyLineControlPointOffset = int(cp)
	m.CurlyLinePeriod = int(period)
	m.CurlyLineCenter = max(0, int(math.Min(math.Round(center), math.Floor(ch-amplitude))))

	return m, nil
}

// secondUnderline places the second line of a double underline one
// gridline below the first, or one gridline above it when that would
// leave the cell.
func secondUnderline(cellHeight, offset, width, gridline int) int {
	below := offset + width + gridline
	if below > cellHeight-width {
		return max(0, offset-gridline)
	}
	return below
}

func clampOffset(v, limit int) int {
	return max(0, min(v, limit))
}
