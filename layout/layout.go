// Package layout computes page geometry for a dom.Document: block and flex
// flow in all four directions with optional wrapping, absolute positioning,
// and scrolling containers that clip their content.
package layout

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/chrisuehlinger/dropzone/css"
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/geom"
)

// Face is the font used to measure and draw text.
var Face = basicfont.Face7x13

// LineHeight is the height of one line of text.
const LineHeight = 13

// Dimensions represents the dimensions of a layout box.
type Dimensions struct {
	Content Rect
	Padding dom.EdgeSizes
	Border  dom.EdgeSizes
	Margin  dom.EdgeSizes
}

// Rect represents a rectangular area.
type Rect struct {
	X, Y, Width, Height float64
}

// ExpandedBy returns a rectangle expanded by the given edge sizes.
func (r Rect) ExpandedBy(edge dom.EdgeSizes) Rect {
	return Rect{
		X:      r.X - edge.Left,
		Y:      r.Y - edge.Top,
		Width:  r.Width + edge.Left + edge.Right,
		Height: r.Height + edge.Top + edge.Bottom,
	}
}

// ToBox converts the rect to a geom.Box.
func (r Rect) ToBox() geom.Box {
	return geom.NewBox(r.Y, r.X+r.Width, r.Y+r.Height, r.X)
}

// PaddingBox returns the area covered by content and padding.
func (d *Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BorderBox returns the area covered by content, padding, and border.
func (d *Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// MarginBox returns the area covered by content, padding, border, and margin.
func (d *Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// box is one element in the layout tree.
type box struct {
	el       *dom.Element
	style    *css.ComputedStyle
	dims     Dimensions
	children []*box
	text     string
	absolute bool
	// extent is the size of the laid-out content, unscrolled.
	extent geom.Size
}

// Engine lays out documents. It implements dom.Layouter.
type Engine struct {
	log *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for layout diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates a layout engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Attach installs a new engine as doc's layouter and returns it.
func Attach(doc *dom.Document, opts ...Option) *Engine {
	e := New(opts...)
	doc.SetLayouter(e)
	return e
}

// Layout computes geometry for every element of doc.
func (e *Engine) Layout(doc *dom.Document) {
	start := time.Now()
	root := doc.DocumentElement()
	if root == nil {
		return
	}
	resolver := css.ForDocument(doc)
	rb := e.build(resolver, root, nil)
	if rb == nil {
		return
	}
	vp := doc.ViewportSize()
	e.layoutBox(rb, 0, 0, vp.Width, false, geom.Coordinate{})
	if h := rb.dims.Content.Height; h < vp.Height {
		rb.dims.Content.Height = vp.Height - rb.dims.Padding.Top - rb.dims.Padding.Bottom -
			rb.dims.Border.Top - rb.dims.Border.Bottom - rb.dims.Margin.Top - rb.dims.Margin.Bottom
	}
	n := e.write(rb, nil, 0)
	e.log.Debug("layout pass", zap.Int("elements", n), zap.Duration("took", time.Since(start)))
}

// build resolves styles and creates boxes. Elements with display none get
// hidden geometry and no box.
func (e *Engine) build(resolver *css.StyleResolver, el *dom.Element, parent *css.ComputedStyle) *box {
	style := resolver.ResolveStyles(el, parent)
	if style.Display() == "none" {
		hideSubtree(el)
		return nil
	}
	b := &box{el: el, style: style, text: DirectText(el)}
	pos := style.Position()
	b.absolute = pos == "absolute" || pos == "fixed"
	for _, c := range el.Children() {
		if cb := e.build(resolver, c, style); cb != nil {
			b.children = append(b.children, cb)
		}
	}
	return b
}

func hideSubtree(el *dom.Element) {
	el.SetGeometry(dom.ElementGeometry{Hidden: true})
	for _, c := range el.Children() {
		hideSubtree(c)
	}
}

// DirectText returns the element's own text, excluding descendants,
// with whitespace collapsed.
func DirectText(el *dom.Element) string {
	var parts []string
	for c := el.AsNode().FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() == dom.TextNode {
			parts = append(parts, strings.Fields(c.TextContent())...)
		}
	}
	return strings.Join(parts, " ")
}

// TextWidth measures a single line of text.
func TextWidth(s string) float64 {
	if s == "" {
		return 0
	}
	return float64(font.MeasureString(Face, s).Ceil())
}

func edges(cs *css.ComputedStyle, prefix, suffix string, ref float64) dom.EdgeSizes {
	get := func(side string) float64 {
		return cs.LengthOr(prefix+side+suffix, ref, 0)
	}
	return dom.EdgeSizes{Top: get("top"), Right: get("right"), Bottom: get("bottom"), Left: get("left")}
}

func borders(cs *css.ComputedStyle) dom.EdgeSizes {
	switch cs.Keyword("border-style") {
	case "none", "hidden":
		return dom.EdgeSizes{}
	}
	return edges(cs, "border-", "-width", 0)
}

func horizontal(s dom.EdgeSizes) float64 { return s.Left + s.Right }

func vertical(s dom.EdgeSizes) float64 { return s.Top + s.Bottom }

func isFlex(cs *css.ComputedStyle) bool {
	d := cs.Display()
	return d == "flex" || d == "inline-flex"
}

func isRow(cs *css.ComputedStyle) bool {
	return isFlex(cs) && strings.HasPrefix(cs.Keyword("flex-direction"), "row")
}

// intrinsicWidth returns the shrink-to-fit border-box width of b.
func (e *Engine) intrinsicWidth(b *box) float64 {
	cs := b.style
	hz := horizontal(edges(cs, "padding-", "", 0)) + horizontal(borders(cs))
	if w, ok := cs.Length("width", 0); ok {
		return w + hz
	}
	content := TextWidth(b.text)
	row := isRow(cs)
	sum := 0.0
	for _, c := range b.children {
		if c.absolute {
			continue
		}
		cw := e.intrinsicWidth(c) + horizontal(edges(c.style, "margin-", "", 0))
		if row {
			sum += cw
		} else {
			content = max(content, cw)
		}
	}
	return max(content, sum) + hz
}

// layoutBox places b with its margin box at (x, y). avail is the width
// available to the margin box; shrink sizes auto widths to content.
// origin is the padding-box corner of the containing block for absolute
// descendants.
func (e *Engine) layoutBox(b *box, x, y, avail float64, shrink bool, origin geom.Coordinate) {
	cs := b.style
	d := &b.dims
	d.Margin = edges(cs, "margin-", "", avail)
	d.Padding = edges(cs, "padding-", "", avail)
	d.Border = borders(cs)
	hz := horizontal(d.Margin) + horizontal(d.Padding) + horizontal(d.Border)

	switch w, ok := cs.Length("width", avail); {
	case ok:
		d.Content.Width = w
	case shrink:
		d.Content.Width = e.intrinsicWidth(b) - horizontal(d.Padding) - horizontal(d.Border)
	default:
		d.Content.Width = max(0, avail-hz)
	}
	d.Content.X = x + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = y + d.Margin.Top + d.Border.Top + d.Padding.Top

	explicitH, hasH := cs.Length("height", 0)
	if pos := cs.Position(); pos != "static" {
		pb := d.PaddingBox()
		origin = geom.Pt(pb.X, pb.Y)
	}
	contentH := e.layoutChildren(b, explicitH, hasH, origin)
	if hasH {
		d.Content.Height = explicitH
	} else {
		d.Content.Height = contentH
	}
}

// layoutChildren flows b's children inside its content box and returns the
// content height.
func (e *Engine) layoutChildren(b *box, explicitH float64, hasH bool, origin geom.Coordinate) float64 {
	cs := b.style
	d := &b.dims
	scrollX, scrollY := 0.0, 0.0
	if cs.Scrolls() {
		scrollX, scrollY = b.el.ScrollLeft(), b.el.ScrollTop()
	}
	ox, oy := d.Content.X-scrollX, d.Content.Y-scrollY
	width := d.Content.Width

	textH := 0.0
	if b.text != "" {
		textH = LineHeight
	}
	extentW := TextWidth(b.text)

	var flow []*box
	for _, c := range b.children {
		if !c.absolute {
			flow = append(flow, c)
		}
	}

	var extentH float64
	dir := "column"
	if isFlex(cs) {
		dir = cs.Keyword("flex-direction")
	}
	switch dir {
	case "row", "row-reverse":
		wrap := cs.Keyword("flex-wrap") == "wrap"
		lineX, lineY, lineH := 0.0, textH, 0.0
		for _, c := range flow {
			w := e.intrinsicWidth(c) + horizontal(edges(c.style, "margin-", "", width))
			if wrap && lineX > 0 && lineX+w > width {
				lineY += lineH
				lineX, lineH = 0, 0
			}
			x := ox + lineX
			if dir == "row-reverse" {
				x = ox + width - lineX - w
			}
			e.layoutBox(c, x, oy+lineY, w, true, origin)
			lineX += w
			lineH = max(lineH, c.dims.MarginBox().Height)
			extentW = max(extentW, lineX)
		}
		extentH = lineY + lineH
	case "column-reverse":
		total := textH
		for _, c := range flow {
			e.layoutBox(c, ox, oy, width, false, origin)
			total += c.dims.MarginBox().Height
		}
		bottom := oy + max(total, explicitH)
		for _, c := range flow {
			h := c.dims.MarginBox().Height
			bottom -= h
			e.layoutBox(c, ox, bottom, width, false, origin)
			extentW = max(extentW, c.dims.MarginBox().Width)
		}
		extentH = total
	default:
		cursor := textH
		for _, c := range flow {
			e.layoutBox(c, ox, oy+cursor, width, false, origin)
			cursor += c.dims.MarginBox().Height
			extentW = max(extentW, c.dims.MarginBox().Width)
		}
		extentH = cursor
	}

	for _, c := range b.children {
		if !c.absolute {
			continue
		}
		left := c.style.LengthOr("left", 0, 0)
		top := c.style.LengthOr("top", 0, 0)
		e.layoutBox(c, origin.X+left, origin.Y+top, width, true, origin)
	}

	b.extent = geom.Size{Width: extentW, Height: extentH}
	return extentH
}

// write stores the geometry of b and its subtree and returns the number of
// elements written.
func (e *Engine) write(b *box, clip *geom.Box, layer int) int {
	cs := b.style
	if b.absolute {
		layer += 1 + cs.ZIndex()
	}
	bb := b.dims.BorderBox()
	g := dom.ElementGeometry{
		X: bb.X, Y: bb.Y, Width: bb.Width, Height: bb.Height,
		Margin:       b.dims.Margin,
		Border:       b.dims.Border,
		Padding:      b.dims.Padding,
		ScrollWidth:  b.extent.Width + horizontal(b.dims.Padding),
		ScrollHeight: b.extent.Height + vertical(b.dims.Padding),
		Hidden:       !cs.Visible(),
		NoHit:        !cs.PointerEvents(),
		Clip:         clip,
		Layer:        layer,
	}
	b.el.SetGeometry(g)

	childClip := clip
	if cs.Scrolls() {
		pb := b.dims.PaddingBox().ToBox()
		if clip != nil {
			if in, ok := clip.Intersection(pb); ok {
				pb = in
			} else {
				pb = geom.NewBox(pb.Top, pb.Left, pb.Top, pb.Left)
			}
		}
		childClip = &pb
	}
	n := 1
	for _, c := range b.children {
		n += e.write(c, childClip, layer)
	}
	return n
}
