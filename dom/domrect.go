package dom

import "github.com/chrisuehlinger/dropzone/geom"

// DOMRect is a viewport-relative rectangle as returned by
// GetBoundingClientRect. Width and height may be negative.
type DOMRect struct {
	X, Y, Width, Height float64
}

// NewDOMRect creates a DOMRect.
func NewDOMRect(x, y, width, height float64) *DOMRect {
	return &DOMRect{X: x, Y: y, Width: width, Height: height}
}

// Top returns the smaller y edge.
func (r *DOMRect) Top() float64 {
	return min(r.Y, r.Y+r.Height)
}

// Bottom returns the larger y edge.
func (r *DOMRect) Bottom() float64 {
	return max(r.Y, r.Y+r.Height)
}

// Left returns the smaller x edge.
func (r *DOMRect) Left() float64 {
	return min(r.X, r.X+r.Width)
}

// Right returns the larger x edge.
func (r *DOMRect) Right() float64 {
	return max(r.X, r.X+r.Width)
}

// ToBox converts the rect to a geom.Box.
func (r *DOMRect) ToBox() geom.Box {
	return geom.NewBox(r.Top(), r.Right(), r.Bottom(), r.Left())
}

// ToRect converts the rect to a normalized geom.Rect.
func (r *DOMRect) ToRect() geom.Rect {
	return geom.NewRect(r.Left(), r.Top(), r.Right()-r.Left(), r.Bottom()-r.Top())
}
