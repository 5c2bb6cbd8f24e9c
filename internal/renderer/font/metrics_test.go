package font

import (
	"errors"
	"testing"
)

func TestSecondUnderline(t *testing.T) {
	tests := []struct {
		name                             string
		cellHeight, offset, width, gline int
		want                             int
	}{
		{"fits below", 16, 10, 1, 1, 12},
		{"falls back above", 16, 14, 1, 1, 13},
		{"exactly at limit", 16, 13, 1, 1, 15},
		{"thick lines", 32, 26, 2, 2, 24},
		{"never negative", 2, 1, 1, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := secondUnderline(tt.cellHeight, tt.offset, tt.width, tt.gline)
			if got != tt.want {
				t.Errorf("secondUnderline() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveMetricsFallback(t *testing.T) {
	// No outline metrics: a 16px font with its baseline at 15.
	m, err := ResolveMetrics(16, RawMetrics{Height: 16, Ascent: 15})
	if err != nil {
		t.Fatal(err)
	}

	if m.GridlineWidth != 1 {
		t.Errorf("GridlineWidth = %d, want 1", m.GridlineWidth)
	}
	if m.UnderlineOffset != 14 || m.UnderlineWidth != 1 {
		t.Errorf("underline = %d/%d, want 14/1", m.UnderlineOffset, m.UnderlineWidth)
	}
	if m.UnderlineOffset2 != 13 {
		t.Errorf("UnderlineOffset2 = %d, want 13", m.UnderlineOffset2)
	}
	if m.StrikethroughOffset != 10 || m.StrikethroughWidth != 1 {
		t.Errorf("strikethrough = %d/%d, want 10/1", m.StrikethroughOffset, m.StrikethroughWidth)
	}
}

func TestResolveMetricsOutline(t *testing.T) {
	raw := RawMetrics{
		Height:          20,
		InternalLeading: 2,
		Ascent:          16,
		Outline: &OutlineMetrics{
			UnderscorePosition: -2,
			UnderscoreSize:     2,
			StrikeoutPosition:  6,
			StrikeoutSize:      1,
		},
	}
	m, err := ResolveMetrics(20, raw)
	if err != nil {
		t.Fatal(err)
	}

	if m.UnderlineOffset != 18 || m.UnderlineWidth != 2 {
		t.Errorf("underline = %d/%d, want 18/2", m.UnderlineOffset, m.UnderlineWidth)
	}
	if m.StrikethroughOffset != 10 {
		t.Errorf("StrikethroughOffset = %d, want 10", m.StrikethroughOffset)
	}
	// 18+2+1 > 20-2, so the second line goes above.
	if m.UnderlineOffset2 != 17 {
		t.Errorf("UnderlineOffset2 = %d, want 17", m.UnderlineOffset2)
	}
}

func TestResolveMetricsInvariants(t *testing.T) {
	tiny := &OutlineMetrics{UnderscorePosition: -40, UnderscoreSize: 0, StrikeoutPosition: 50, StrikeoutSize: 0}
	for _, cellHeight := range []int{1, 2, 5, 13, 16, 31, 64} {
		for _, outline := range []*OutlineMetrics{nil, tiny} {
			raw := RawMetrics{Height: cellHeight, Ascent: cellHeight * 3 / 4, Outline: outline}
			m, err := ResolveMetrics(cellHeight, raw)
			if err != nil {
				t.Fatal(err)
			}
			if m.GridlineWidth < 1 || m.UnderlineWidth < 1 || m.StrikethroughWidth < 1 || m.DoubleUnderlineWidth < 1 {
				t.Errorf("height %d: width below 1px: %+v", cellHeight, m)
			}
			if m.UnderlineOffset+m.UnderlineWidth > cellHeight {
				t.Errorf("height %d: underline leaves the cell: %+v", cellHeight, m)
			}
			if m.StrikethroughOffset+m.StrikethroughWidth > cellHeight {
				t.Errorf("height %d: strikethrough leaves the cell: %+v", cellHeight, m)
			}
			if m.UnderlineOffset2 < 0 || m.CurlyLineCenter < 0 {
				t.Errorf("height %d: negative offset: %+v", cellHeight, m)
			}
			if m.CurlyLinePeriod != 2*m.CurlyLineControlPointOffset {
				t.Errorf("height %d: period %d not twice control offset %d", cellHeight, m.CurlyLinePeriod, m.CurlyLineControlPointOffset)
			}
		}
	}
}

func TestResolveMetricsZeroHeight(t *testing.T) {
	if _, err := ResolveMetrics(0, RawMetrics{}); !errors.Is(err, ErrZeroCellSize) {
		t.Errorf("ResolveMetrics(0) error = %v, want ErrZeroCellSize", err)
	}
}
