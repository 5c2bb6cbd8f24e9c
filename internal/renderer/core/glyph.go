package core

// Cluster is one grapheme cluster and the number of columns it occupies.
type Cluster struct {
	Text    string
	Columns int
}

// GlyphRun is one row's worth of text queued for a batched draw.
// Text and Advances are parallel: Advances[i] is the pixel width
// reserved for Text[i].
type GlyphRun struct {
	Text     []string
	Advances []int
	Origin   Point
	Clip     Rect
	TrimLeft bool
}

// Width returns the sum of the advances.
func (r *GlyphRun) Width() int {
	w := 0
	for _, a := range r.Advances {
		w += a
	}
	return w
}

// Release drops the run's buffers and resets it to the zero value.
func (r *GlyphRun) Release() {
	*r = GlyphRun{}
}
