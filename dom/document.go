package dom

import (
	"math"
	"strings"

	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
	"github.com/chrisuehlinger/dropzone/sched"
)

// Document is the root of an element tree.
type Document Node

// Layouter computes geometry for every element of a document. It is called
// lazily, the first time geometry is read after the tree changed.
type Layouter interface {
	Layout(doc *Document)
}

type documentData struct {
	listeners   events.Target[*Event]
	viewport    geom.Size
	scrollX     float64
	scrollY     float64
	styleSheets []string
	layouter    Layouter
	dirty       bool
	inLayout    bool
	capture     *Element
	hover       *Element
	loop        *sched.Loop
}

// NewEmptyDocument creates a document with no children.
func NewEmptyDocument() *Document {
	doc := &Document{
		nodeType:     DocumentNode,
		nodeName:     "#document",
		documentData: &documentData{viewport: geom.Size{Width: 800, Height: 600}},
	}
	doc.ownerDoc = doc
	return doc
}

// NewDocument creates a document holding html, head and body elements.
func NewDocument() *Document {
	doc := NewEmptyDocument()
	root := doc.CreateElement("html")
	doc.AsNode().insertBefore(root.AsNode(), nil)
	root.AsNode().insertBefore(doc.CreateElement("head").AsNode(), nil)
	root.AsNode().insertBefore(doc.CreateElement("body").AsNode(), nil)
	return doc
}

// AsNode returns the document as a *Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// CreateElement creates an element owned by d.
func (d *Document) CreateElement(tagName string) *Element {
	name := strings.ToLower(tagName)
	return &Element{
		nodeType:    ElementNode,
		nodeName:    strings.ToUpper(name),
		ownerDoc:    d,
		elementData: &elementData{tagName: name},
	}
}

// CreateTextNode creates a text node owned by d.
func (d *Document) CreateTextNode(data string) *Node {
	return &Node{
		nodeType: TextNode,
		nodeName: "#text",
		ownerDoc: d,
		textData: &data,
	}
}

// DocumentElement returns the root element.
func (d *Document) DocumentElement() *Element {
	for c := d.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

func (d *Document) rootChild(tag string) *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for _, c := range root.Children() {
		if c.LocalName() == tag {
			return c
		}
	}
	return nil
}

// Head returns the head element, or nil.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

// Walk visits every element in tree order. Returning false from fn skips the
// element's subtree.
func (d *Document) Walk(fn func(*Element) bool) {
	walk(d.AsNode(), fn)
}

func walk(n *Node, fn func(*Element) bool) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType != ElementNode {
			continue
		}
		if fn((*Element)(c)) {
			walk(c, fn)
		}
	}
}

// GetElementById returns the first element with the given id.
func (d *Document) GetElementById(id string) *Element {
	var found *Element
	d.Walk(func(e *Element) bool {
		if found == nil && e.Id() == id {
			found = e
		}
		return found == nil
	})
	return found
}

// GetElementsByClassName returns every element carrying all given classes.
func (d *Document) GetElementsByClassName(names string) []*Element {
	want := strings.Fields(names)
	var out []*Element
	d.Walk(func(e *Element) bool {
		if len(want) > 0 {
			cl := e.ClassList()
			all := true
			for _, w := range want {
				if !cl.Contains(w) {
					all = false
					break
				}
			}
			if all {
				out = append(out, e)
			}
		}
		return true
	})
	return out
}

// Loop returns the task loop timers of this document run on.
func (d *Document) Loop() *sched.Loop {
	if d.documentData.loop == nil {
		d.documentData.loop = sched.NewLoop()
	}
	return d.documentData.loop
}

// SetLoop replaces the document's task loop.
func (d *Document) SetLoop(l *sched.Loop) {
	d.documentData.loop = l
}

// AddStyleSheet appends CSS text applied by the layout pass.
func (d *Document) AddStyleSheet(css string) {
	d.documentData.styleSheets = append(d.documentData.styleSheets, css)
	d.invalidateLayout()
}

// StyleSheets returns the document's CSS texts in order.
func (d *Document) StyleSheets() []string {
	return d.documentData.styleSheets
}

// SetLayouter installs the layout pass and marks layout dirty.
func (d *Document) SetLayouter(l Layouter) {
	d.documentData.layouter = l
	d.invalidateLayout()
}

func (d *Document) invalidateLayout() {
	if d != nil {
		d.documentData.dirty = true
	}
}

// EnsureLayout runs the layout pass if the tree changed since the last one.
func (d *Document) EnsureLayout() {
	dd := d.documentData
	if dd.layouter == nil || !dd.dirty || dd.inLayout {
		return
	}
	dd.inLayout = true
	dd.dirty = false
	dd.layouter.Layout(d)
	dd.inLayout = false
}

// LayoutDirty reports whether the next geometry read will run layout.
func (d *Document) LayoutDirty() bool {
	return d.documentData.layouter != nil && d.documentData.dirty
}

// ViewportSize returns the size of the viewport.
func (d *Document) ViewportSize() geom.Size {
	return d.documentData.viewport
}

// SetViewportSize resizes the viewport.
func (d *Document) SetViewportSize(width, height float64) {
	d.documentData.viewport = geom.Size{Width: width, Height: height}
	d.invalidateLayout()
}

// Scroll returns the page scroll offsets.
func (d *Document) Scroll() (float64, float64) {
	return d.documentData.scrollX, d.documentData.scrollY
}

// ScrollTo scrolls the page, clamped to the extent of the root element, and
// fires a scroll event at the document when the offsets change.
func (d *Document) ScrollTo(x, y float64) {
	dd := d.documentData
	if root := d.DocumentElement(); root != nil && root.elementData.geometry != nil {
		g := root.Geometry()
		x = clampScroll(x, math.Max(g.Width, g.ScrollWidth)-dd.viewport.Width)
		y = clampScroll(y, math.Max(g.Height, g.ScrollHeight)-dd.viewport.Height)
	} else {
		x, y = math.Max(0, x), math.Max(0, y)
	}
	if x == dd.scrollX && y == dd.scrollY {
		return
	}
	dd.scrollX, dd.scrollY = x, y
	d.dispatch(nil, &Event{Type: EventScroll, Bubbles: true})
}

// ScrollBy scrolls the page by a delta.
func (d *Document) ScrollBy(dx, dy float64) {
	d.ScrollTo(d.documentData.scrollX+dx, d.documentData.scrollY+dy)
}

// AddEventListener registers fn on the document for the bubble phase.
func (d *Document) AddEventListener(typ events.Type, fn func(*Event)) events.Key {
	return d.documentData.listeners.Listen(typ, fn)
}

// AddCaptureListener registers fn on the document for the capture phase.
func (d *Document) AddCaptureListener(typ events.Type, fn func(*Event)) events.Key {
	return d.documentData.listeners.ListenCapture(typ, fn)
}

// Unlisten removes a document listener.
func (d *Document) Unlisten(key events.Key) bool {
	return d.documentData.listeners.Unlisten(key)
}

// ListenerCount returns the number of document listeners.
func (d *Document) ListenerCount() int {
	return d.documentData.listeners.Count()
}

// DispatchEvent dispatches ev at the document itself.
func (d *Document) DispatchEvent(ev *Event) bool {
	return d.dispatch(nil, ev)
}

// dispatch runs the capture, target and bubble phases for ev. A nil target
// dispatches at the document. It reports whether the default action is
// still allowed.
func (d *Document) dispatch(target *Element, ev *Event) bool {
	ev.Target = target
	ev.stopped, ev.stoppedNow = false, false
	stop := func() bool { return ev.stoppedNow }

	var path []*Element
	if target != nil {
		for n := target.AsNode(); n != nil && n.nodeType == ElementNode; n = n.parentNode {
			path = append(path, (*Element)(n))
		}
	}
	reachesDoc := target == nil || target.IsConnected()
	docTarget := &d.documentData.listeners

	if target == nil {
		ev.CurrentTarget = nil
		docTarget.FireUntil(ev.Type, ev, true, stop)
		if !ev.stopped {
			docTarget.FireUntil(ev.Type, ev, false, stop)
		}
		return !ev.defaultPrevented
	}

	// Capture: document, then ancestors outermost first.
	if reachesDoc {
		ev.CurrentTarget = nil
		docTarget.FireUntil(ev.Type, ev, true, stop)
	}
	for i := len(path) - 1; i >= 1 && !ev.stopped; i-- {
		ev.CurrentTarget = path[i]
		path[i].elementData.listeners.FireUntil(ev.Type, ev, true, stop)
	}

	// Target phase.
	if !ev.stopped {
		ev.CurrentTarget = target
		target.elementData.listeners.FireUntil(ev.Type, ev, true, stop)
		if !ev.stoppedNow {
			target.elementData.listeners.FireUntil(ev.Type, ev, false, stop)
		}
	}

	// Bubble: ancestors, then document.
	if ev.Bubbles {
		for i := 1; i < len(path) && !ev.stopped; i++ {
			ev.CurrentTarget = path[i]
			path[i].elementData.listeners.FireUntil(ev.Type, ev, false, stop)
		}
		if reachesDoc && !ev.stopped {
			ev.CurrentTarget = nil
			docTarget.FireUntil(ev.Type, ev, false, stop)
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// nodeRemoved forgets hover state held by a detached subtree.
func (d *Document) nodeRemoved(n *Node) {
	if h := d.documentData.hover; h != nil && n.Contains(h.AsNode()) {
		d.documentData.hover = nil
	}
}
