package glyph

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Segment splits s into grapheme clusters with their terminal column width.
// Every cluster occupies at least one and at most two columns.
func Segment(s string) []core.Cluster {
	clusters := make([]core.Cluster, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w < 1 {
			w = 1
		}
		if w > 2 {
			w = 2
		}
		clusters = append(clusters, core.Cluster{Text: g.Str(), Columns: w})
	}
	return clusters
}

// Columns returns the total column width of clusters.
func Columns(clusters []core.Cluster) int {
	n := 0
	for _, c := range clusters {
		n += c.Columns
	}
	return n
}
