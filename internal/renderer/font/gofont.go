package font

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

// Face names understood by GoProvider.
const (
	FaceGoMono   = "Go Mono"
	FaceTerminal = "Terminal"
)

// Weights at or above BoldWeight select a bold face.
const (
	NormalWeight = 400
	BoldWeight   = 600
)

const defaultDPI = 96

// ErrNoGlyph is returned when a face cannot measure its reference glyph.
var ErrNoGlyph = errors.New("font: reference glyph missing")

type style int

const (
	styleRegular style = iota
	styleBold
	styleItalic
	styleBoldItalic
)

var styleTTF = map[style][]byte{
	styleRegular:    gomono.TTF,
	styleBold:       gomonobold.TTF,
	styleItalic:     gomonoitalic.TTF,
	styleBoldItalic: gomonobolditalic.TTF,
}

type cacheKey struct {
	size   core.Size
	weight int
	dpi    int
}

// GoProvider serves the Go Mono family and a fixed 7x13 bitmap face named
// "Terminal". Any other face name falls back to Go Mono.
// It is safe for concurrent use.
type GoProvider struct {
	mu       sync.Mutex
	parsed   map[style]*sfnt.Font
	resolved map[cacheKey]Resolved
}

// NewGoProvider returns an empty provider; fonts are parsed on first use.
func NewGoProvider() *GoProvider {
	return &GoProvider{
		parsed:   make(map[style]*sfnt.Font),
		resolved: make(map[cacheKey]Resolved),
	}
}

// Resolve implements Provider.
func (p *GoProvider) Resolve(d Desired) (Resolved, error) {
	if strings.EqualFold(d.Face, FaceTerminal) {
		return terminalFace(), nil
	}
	if d.Size.Height <= 0 {
		return Resolved{}, fmt.Errorf("height %d: %w", d.Size.Height, ErrZeroCellSize)
	}

	dpi := d.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}
	weight := d.Weight
	if weight <= 0 {
		weight = NormalWeight
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := cacheKey{size: d.Size, weight: weight, dpi: dpi}
	if r, ok := p.resolved[key]; ok {
		return r, nil
	}

	regular, italic := styleRegular, styleItalic
	if weight >= BoldWeight {
		regular, italic = styleBold, styleBoldItalic
	}

	// Size is the em height in pixels; opentype wants points.
	points := float64(d.Size.Height) * 72 / float64(dpi)
	face, err := p.face(regular, points, dpi)
	if err != nil {
		return Resolved{}, err
	}
	italicFace, err := p.face(italic, points, dpi)
	if err != nil {
		return Resolved{}, err
	}

	fm := face.Metrics()
	advance, ok := face.GlyphAdvance('0')
	if !ok {
		return Resolved{}, fmt.Errorf("measuring '0': %w", ErrNoGlyph)
	}

	cell := core.Sz(advance.Ceil(), fm.Height.Ceil())
	if d.Size.Width > 0 {
		cell.Width = d.Size.Width
	}

	ascent := fm.Ascent.Ceil()
	r := Resolved{
		Face:     FaceGoMono,
		CellSize: cell,
		Weight:   weight,
		Raw: RawMetrics{
			Height:          cell.Height,
			InternalLeading: max(0, cell.Height-d.Size.Height),
			Ascent:          ascent,
			Outline:         outlineFrom(face, fm),
		},
		Faces: Faces{Regular: face, Italic: italicFace},
	}
	p.resolved[key] = r
	return r, nil
}

func (p *GoProvider) face(s style, points float64, dpi int) (xfont.Face, error) {
	f, ok := p.parsed[s]
	if !ok {
		var err error
		f, err = opentype.Parse(styleTTF[s])
		if err != nil {
			return nil, fmt.Errorf("parsing Go Mono: %w", err)
		}
		p.parsed[s] = f
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    points,
		DPI:     float64(dpi),
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face at %.1fpt: %w", points, err)
	}
	return face, nil
}

// outlineFrom measures the underscore glyph for the underline and places
// the strikeout across the middle of the x-height.
func outlineFrom(face xfont.Face, fm xfont.Metrics) *OutlineMetrics {
	bounds, _, ok := face.GlyphBounds('_')
	if !ok {
		return nil
	}

	size := max(1, (bounds.Max.Y - bounds.Min.Y).Round())
	xHeight := fm.XHeight
	if xHeight <= 0 {
		xHeight = fm.Ascent / 2
	}
	return &OutlineMetrics{
		UnderscorePosition: -bounds.Min.Y.Round(),
		UnderscoreSize:     size,
		StrikeoutPosition:  (xHeight / 2).Round() + size/2,
		StrikeoutSize:      size,
	}
}

func terminalFace() Resolved {
	f := basicfont.Face7x13
	return Resolved{
		Face:     FaceTerminal,
		CellSize: core.Sz(f.Advance, f.Height),
		Weight:   NormalWeight,
		Raw: RawMetrics{
			Height: f.Height,
			Ascent: f.Ascent,
		},
		Faces: Faces{Regular: f, Italic: f},
	}
}
