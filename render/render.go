// Package render paints a laid-out dom.Document onto an RGBA canvas:
// backgrounds, borders and text, in layer order, clipped by scrolling
// containers and offset by the page scroll.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/chrisuehlinger/dropzone/css"
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/layout"
)

// Canvas represents the rendering surface.
type Canvas struct {
	img    *image.RGBA
	Width  int
	Height int
}

// NewCanvas creates a white canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		Width:  width,
		Height: height,
	}
	c.Clear(color.RGBA{255, 255, 255, 255})
	return c
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// GetPixel returns the color at (x, y), or transparent outside the canvas.
func (c *Canvas) GetPixel(x, y int) color.RGBA {
	if !image.Pt(x, y).In(c.img.Bounds()) {
		return color.RGBA{}
	}
	return c.img.RGBAAt(x, y)
}

// FillRect blends col over a rectangle, restricted to clip.
func (c *Canvas) FillRect(r, clip image.Rectangle, col color.RGBA) {
	r = r.Intersect(clip).Intersect(c.img.Bounds())
	if r.Empty() || col.A == 0 {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// ToImage returns the canvas image. The canvas keeps ownership.
func (c *Canvas) ToImage() *image.RGBA {
	return c.img
}

// Paint draws every visible element of doc, lower layers first and tree
// order within a layer.
func (c *Canvas) Paint(doc *dom.Document) {
	doc.EnsureLayout()
	resolver := css.ForDocument(doc)
	sx, sy := doc.Scroll()

	type item struct {
		el    *dom.Element
		style *css.ComputedStyle
		g     dom.ElementGeometry
	}
	var items []item
	var walk func(el *dom.Element, parent *css.ComputedStyle)
	walk = func(el *dom.Element, parent *css.ComputedStyle) {
		g := el.Geometry()
		style := resolver.ResolveStyles(el, parent)
		if style.Display() == "none" {
			return
		}
		if !g.Hidden {
			items = append(items, item{el: el, style: style, g: g})
		}
		for _, ch := range el.Children() {
			walk(ch, style)
		}
	}
	if root := doc.DocumentElement(); root != nil {
		walk(root, nil)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].g.Layer < items[j].g.Layer })

	for _, it := range items {
		c.paintElement(it.el, it.style, it.g, sx, sy)
	}
}

func toPixels(x, y, w, h, sx, sy float64) image.Rectangle {
	x0 := int(math.Round(x - sx))
	y0 := int(math.Round(y - sy))
	return image.Rect(x0, y0, x0+int(math.Round(w)), y0+int(math.Round(h)))
}

func (c *Canvas) paintElement(el *dom.Element, style *css.ComputedStyle, g dom.ElementGeometry, sx, sy float64) {
	clip := c.img.Bounds()
	if g.Clip != nil {
		b := g.Clip
		clip = clip.Intersect(toPixels(b.Left, b.Top, b.Width(), b.Height(), sx, sy))
	}
	border := toPixels(g.X, g.Y, g.Width, g.Height, sx, sy)

	if bg, ok := style.Color("background-color"); ok {
		c.FillRect(border, clip, bg)
	}
	c.paintBorders(border, g.Border, style, clip)

	if text := layout.DirectText(el); text != "" {
		col, ok := style.Color("color")
		if !ok {
			col = color.RGBA{0, 0, 0, 255}
		}
		x := g.X + g.Border.Left + g.Padding.Left
		y := g.Y + g.Border.Top + g.Padding.Top
		c.drawText(text, int(math.Round(x-sx)), int(math.Round(y-sy)), col, clip.Intersect(border))
	}
}

func (c *Canvas) paintBorders(r image.Rectangle, w dom.EdgeSizes, style *css.ComputedStyle, clip image.Rectangle) {
	side := func(name string, edge image.Rectangle) {
		col, ok := style.Color("border-" + name + "-color")
		if !ok {
			col, ok = style.Color("color")
		}
		if ok && !edge.Empty() {
			c.FillRect(edge, clip, col)
		}
	}
	top, right := int(math.Round(w.Top)), int(math.Round(w.Right))
	bottom, left := int(math.Round(w.Bottom)), int(math.Round(w.Left))
	side("top", image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+top))
	side("bottom", image.Rect(r.Min.X, r.Max.Y-bottom, r.Max.X, r.Max.Y))
	side("left", image.Rect(r.Min.X, r.Min.Y+top, r.Min.X+left, r.Max.Y-bottom))
	side("right", image.Rect(r.Max.X-right, r.Min.Y+top, r.Max.X, r.Max.Y-bottom))
}

// drawText draws one line with its top-left at (x, y).
func (c *Canvas) drawText(text string, x, y int, col color.RGBA, clip image.Rectangle) {
	clip = clip.Intersect(c.img.Bounds())
	if clip.Empty() {
		return
	}
	dst, ok := c.img.SubImage(clip).(*image.RGBA)
	if !ok {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: layout.Face,
		Dot:  fixed.P(x, y+layout.Face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
