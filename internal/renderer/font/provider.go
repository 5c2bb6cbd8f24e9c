// Package font resolves a requested face into a cell size and the line
// decoration geometry the renderer draws with.
package font

import (
	"fmt"

	xfont "golang.org/x/image/font"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Desired describes the font a host asks for.
type Desired struct {
	Face string
	// Size is in pixels. A zero width lets the provider derive it.
	Size    core.Size
	Weight  int
	Charset int
	DPI     int
}

// Faces are the drawable faces for each font variant.
type Faces struct {
	Regular xfont.Face
	Italic  xfont.Face
}

// Resolved is what a Provider actually found for a Desired font.
type Resolved struct {
	Face     string
	CellSize core.Size
	Weight   int
	Raw      RawMetrics
	Faces    Faces
}

// Provider finds the nearest available font.
type Provider interface {
	Resolve(d Desired) (Resolved, error)
}

// Info is the font state the renderer keeps between font changes.
type Info struct {
	Face     string
	CellSize core.Size
	Weight   int
	Metrics  LineMetrics
	Faces    Faces
}

// Resolve asks p for d and derives the line metrics for the result.
func Resolve(p Provider, d Desired) (Info, error) {
	r, err := p.Resolve(d)
	if err != nil {
		return Info{}, fmt.Errorf("resolving font %q: %w", d.Face, err)
	}
	if r.CellSize.IsEmpty() {
		return Info{}, fmt.Errorf("font %q at %v: %w", r.Face, d.Size, ErrZeroCellSize)
	}

	m, err := ResolveMetrics(r.CellSize.Height, r.Raw)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Face:     r.Face,
		CellSize: r.CellSize,
		Weight:   r.Weight,
		Metrics:  m,
		Faces:    r.Faces,
	}, nil
}
