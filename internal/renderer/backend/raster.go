package backend

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/font"
)

// Raster is a Surface over an in-memory RGBA image. It serves as the
// off-screen surface and as the pixel store behind visible windows.
type Raster struct {
	img     *image.RGBA
	xf      core.Transform
	pattern core.Color

	fg, bg  core.Color
	faces   font.Faces
	variant core.FontVariant
}

// NewRaster creates a raster of the given size. Inverted pixels are
// XORed with pattern.
func NewRaster(size core.Size, pattern core.Color) (*Raster, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("raster %v: %w", size, ErrEmptySurface)
	}
	return &Raster{
		img:     image.NewRGBA(image.Rect(0, 0, size.Width, size.Height)),
		xf:      core.Identity,
		pattern: pattern,
		fg:      core.ColorWhite,
		bg:      core.ColorBlack,
	}, nil
}

// Size implements MemorySurface.
func (r *Raster) Size() core.Size {
	b := r.img.Bounds()
	return core.Sz(b.Dx(), b.Dy())
}

// Image implements MemorySurface. The returned image aliases the raster.
func (r *Raster) Image() image.Image {
	return r.img
}

// At returns the color of one pixel.
func (r *Raster) At(x, y int) core.Color {
	c := r.img.RGBAAt(x, y)
	return core.ColorFromRGB(c.R, c.G, c.B)
}

// Resize implements MemorySurface.
func (r *Raster) Resize(size core.Size) error {
	if size.IsEmpty() {
		return fmt.Errorf("resizing to %v: %w", size, ErrEmptySurface)
	}
	if size == r.Size() {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), r.img, image.Point{}, draw.Src)
	r.img = img
	return nil
}

// SetTransform implements Surface.
func (r *Raster) SetTransform(xf core.Transform) error {
	r.xf = xf
	return nil
}

// FillRect implements Surface.
func (r *Raster) FillRect(rect core.Rect, c core.Color) error {
	dst := toImage(r.xf.ApplyRect(rect)).Intersect(r.img.Bounds())
	if dst.Empty() {
		return nil
	}
	draw.Draw(r.img, dst, image.NewUniform(c.RGBA()), image.Point{}, draw.Src)
	return nil
}

// InvertRect implements Surface by XORing every pixel with the pattern,
// so inverting twice restores the original.
func (r *Raster) InvertRect(rect core.Rect) error {
	dst := toImage(r.xf.ApplyRect(rect)).Intersect(r.img.Bounds())
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			c := r.img.RGBAAt(x, y)
			r.img.SetRGBA(x, y, color.RGBA{
				R: c.R ^ r.pattern.R,
				G: c.G ^ r.pattern.G,
				B: c.B ^ r.pattern.B,
				A: 0xFF,
			})
		}
	}
	return nil
}

// Scroll implements Surface. Pixels inside limit move by delta; pixels
// that would leave limit are dropped and the exposed strip keeps its old
// content.
func (r *Raster) Scroll(limit core.Rect, delta core.Point) error {
	lim := toImage(limit).Intersect(r.img.Bounds())
	d := image.Pt(delta.X, delta.Y)
	dst := lim.Add(d).Intersect(lim)
	if dst.Empty() {
		return nil
	}
	draw.Draw(r.img, dst, r.img, dst.Min.Sub(d), draw.Src)
	return nil
}

// Blit copies rect from src onto the raster, ignoring the transform.
func (r *Raster) Blit(src image.Image, rect core.Rect) error {
	dst := toImage(rect).Intersect(r.img.Bounds()).Intersect(src.Bounds())
	if dst.Empty() {
		return nil
	}
	draw.Draw(r.img, dst, src, dst.Min, draw.Src)
	return nil
}

// SetTextColors implements MemorySurface.
func (r *Raster) SetTextColors(fg, bg core.Color) error {
	r.fg, r.bg = fg, bg
	return nil
}

// SelectFont implements MemorySurface.
func (r *Raster) SelectFont(v core.FontVariant) error {
	r.variant = v
	return nil
}

// SetFaces implements MemorySurface.
func (r *Raster) SetFaces(faces font.Faces) {
	r.faces = faces
}

func (r *Raster) face() xfont.Face {
	if r.variant == core.VariantItalic && r.faces.Italic != nil {
		return r.faces.Italic
	}
	return r.faces.Regular
}

// DrawGlyphRuns implements MemorySurface. Each run's clip is filled with
// the background color and its text drawn over it, clipped.
func (r *Raster) DrawGlyphRuns(runs []core.GlyphRun) error {
	face := r.face()
	if face == nil {
		return fmt.Errorf("drawing %d runs: no font selected", len(runs))
	}
	for i := range runs {
		r.drawRun(face, &runs[i])
	}
	return nil
}

func (r *Raster) drawRun(face xfont.Face, run *core.GlyphRun) {
	clip := toImage(run.Clip)
	if clip.Empty() {
		return
	}

	if r.xf.IsIdentity() {
		dst := r.img.SubImage(clip.Intersect(r.img.Bounds())).(*image.RGBA)
		r.paintRun(dst, face, run, image.Point{})
		return
	}

	// Compose the run unscaled, then stretch it into place.
	tmp := image.NewRGBA(image.Rect(0, 0, clip.Dx(), clip.Dy()))
	r.paintRun(tmp, face, run, clip.Min)
	dst := toImage(r.xf.ApplyRect(run.Clip))
	draw.NearestNeighbor.Scale(r.img, dst, tmp, tmp.Bounds(), draw.Src, nil)
}

// paintRun draws run into dst, whose origin sits at shift in run space.
func (r *Raster) paintRun(dst *image.RGBA, face xfont.Face, run *core.GlyphRun, shift image.Point) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.bg.RGBA()), image.Point{}, draw.Src)

	d := xfont.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.fg.RGBA()),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	x := run.Origin.X - shift.X
	y := run.Origin.Y - shift.Y + ascent
	for i, text := range run.Text {
		d.Dot = fixed.P(x, y)
		d.DrawString(text)
		x += run.Advances[i]
	}
}

func toImage(r core.Rect) image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}
