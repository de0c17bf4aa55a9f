package dom

import (
	"math"

	"github.com/chrisuehlinger/dropzone/geom"
)

// EdgeSizes holds per-side sizes of margins, borders or padding.
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// ElementGeometry holds the layout geometry of an element. It is written by
// a layout pass (or directly by hosts and tests) and read by the geometry
// queries below.
type ElementGeometry struct {
	// Border box in page coordinates.
	X, Y, Width, Height float64

	Margin  EdgeSizes
	Border  EdgeSizes
	Padding EdgeSizes

	// Scrollable extent of the content; zero means the client size.
	ScrollWidth, ScrollHeight float64

	// Hidden marks elements that are not rendered or not visible.
	Hidden bool
	// NoHit excludes the element, but not its children, from hit testing.
	NoHit bool
	// Clip, when set, is the page box outside which the element is clipped
	// by a scrolling ancestor.
	Clip *geom.Box
	// Layer orders painting and hit testing; higher layers are on top.
	Layer int
}

// Geometry returns the element's geometry after bringing layout up to date.
// Elements never laid out report a zero geometry.
func (e *Element) Geometry() ElementGeometry {
	e.ownerDoc.EnsureLayout()
	if g := e.elementData.geometry; g != nil {
		return *g
	}
	return ElementGeometry{}
}

// SetGeometry replaces the element's geometry.
func (e *Element) SetGeometry(g ElementGeometry) {
	e.elementData.geometry = &g
}

// SetBounds sets the page border box, keeping the other geometry fields.
func (e *Element) SetBounds(r geom.Rect) {
	g := e.geometryRef()
	g.X, g.Y, g.Width, g.Height = r.Left, r.Top, r.Width, r.Height
}

func (e *Element) geometryRef() *ElementGeometry {
	if e.elementData.geometry == nil {
		e.elementData.geometry = &ElementGeometry{}
	}
	return e.elementData.geometry
}

// PageOffset returns the top-left of the border box in page coordinates.
func (e *Element) PageOffset() geom.Coordinate {
	g := e.Geometry()
	return geom.Pt(g.X, g.Y)
}

// Size returns the border-box size.
func (e *Element) Size() geom.Size {
	g := e.Geometry()
	return geom.Size{Width: g.Width, Height: g.Height}
}

// Bounds returns the border box in page coordinates.
func (e *Element) Bounds() geom.Rect {
	g := e.Geometry()
	return geom.NewRect(g.X, g.Y, g.Width, g.Height)
}

// MarginBox returns the element's margins.
func (e *Element) MarginBox() EdgeSizes {
	return e.Geometry().Margin
}

// GetBoundingClientRect returns the border box relative to the viewport.
func (e *Element) GetBoundingClientRect() *DOMRect {
	g := e.Geometry()
	sx, sy := e.ownerDoc.Scroll()
	return NewDOMRect(g.X-sx, g.Y-sy, g.Width, g.Height)
}

// OffsetWidth returns the border-box width.
func (e *Element) OffsetWidth() float64 {
	return e.Geometry().Width
}

// OffsetHeight returns the border-box height.
func (e *Element) OffsetHeight() float64 {
	return e.Geometry().Height
}

// ClientWidth returns the padding-box width.
func (e *Element) ClientWidth() float64 {
	g := e.Geometry()
	return math.Max(0, g.Width-g.Border.Left-g.Border.Right)
}

// ClientHeight returns the padding-box height.
func (e *Element) ClientHeight() float64 {
	g := e.Geometry()
	return math.Max(0, g.Height-g.Border.Top-g.Border.Bottom)
}

// ScrollWidth returns the width of the scrollable content.
func (e *Element) ScrollWidth() float64 {
	g := e.Geometry()
	return math.Max(g.ScrollWidth, e.ClientWidth())
}

// ScrollHeight returns the height of the scrollable content.
func (e *Element) ScrollHeight() float64 {
	g := e.Geometry()
	return math.Max(g.ScrollHeight, e.ClientHeight())
}

// ScrollTop returns the vertical scroll offset.
func (e *Element) ScrollTop() float64 {
	return e.elementData.scrollTop
}

// ScrollLeft returns the horizontal scroll offset.
func (e *Element) ScrollLeft() float64 {
	return e.elementData.scrollLeft
}

// SetScrollTop scrolls the element vertically, clamped to its scrollable
// range, and fires a scroll event at it when the offset changes.
func (e *Element) SetScrollTop(v float64) {
	v = clampScroll(v, e.ScrollHeight()-e.ClientHeight())
	if v == e.elementData.scrollTop {
		return
	}
	e.elementData.scrollTop = v
	e.scrolled()
}

// SetScrollLeft scrolls the element horizontally, clamped to its
// scrollable range, and fires a scroll event at it when the offset changes.
func (e *Element) SetScrollLeft(v float64) {
	v = clampScroll(v, e.ScrollWidth()-e.ClientWidth())
	if v == e.elementData.scrollLeft {
		return
	}
	e.elementData.scrollLeft = v
	e.scrolled()
}

func (e *Element) scrolled() {
	e.ownerDoc.invalidateLayout()
	e.DispatchEvent(&Event{Type: EventScroll})
}

func clampScroll(v, max float64) float64 {
	if v > max {
		v = max
	}
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	return v
}
