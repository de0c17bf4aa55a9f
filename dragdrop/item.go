package dragdrop

import (
	"errors"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

// ErrNoElement is returned when an item or container is created without an
// element.
var ErrNoElement = errors.New("dragdrop: no element")

// HandleFunc maps the element a pointer down landed on to the element whose
// movement is tracked, or nil to ignore the press.
type HandleFunc func(target *dom.Element) *dom.Element

// Item is one draggable element registered with a Coordinator. It turns a
// pointer down into a drag once the pointer travels far enough or leaves
// the element.
type Item struct {
	element *dom.Element
	// Data is an opaque payload for listeners.
	Data any

	parent     *Coordinator
	handleFunc HandleFunc

	current  *dom.Element
	start    *geom.Coordinate
	gesture  events.Group
	downKeys []events.Key
}

// NewItem creates an item for element.
func NewItem(element *dom.Element, data any) (*Item, error) {
	if element == nil {
		return nil, ErrNoElement
	}
	return &Item{element: element, Data: data}, nil
}

// Element returns the item's element.
func (it *Item) Element() *dom.Element {
	return it.element
}

// Parent returns the coordinator the item is registered with.
func (it *Item) Parent() *Coordinator {
	return it.parent
}

// SetHandleFunc sets how a pressed element resolves to the tracked handle.
func (it *Item) SetHandleFunc(fn HandleFunc) {
	it.handleFunc = fn
}

// CurrentDragElement returns the element of the gesture in progress, or the
// item's element.
func (it *Item) CurrentDragElement() *dom.Element {
	if it.current != nil {
		return it.current
	}
	return it.element
}

// Pending reports whether a pointer down is waiting for the drag distance.
func (it *Item) Pending() bool {
	return it.start != nil
}

func (it *Item) listen() {
	it.downKeys = []events.Key{
		it.element.AddEventListener(dom.EventMouseDown, it.mouseDown),
		it.element.AddEventListener(dom.EventTouchStart, it.mouseDown),
	}
}

func (it *Item) unlisten() {
	for _, k := range it.downKeys {
		it.element.Unlisten(k)
	}
	it.downKeys = nil
	it.reset()
}

func (it *Item) mouseDown(e *dom.Event) {
	if !e.IsMouseActionButton() || it.parent == nil {
		return
	}
	el := it.element
	if it.handleFunc != nil {
		if el = it.handleFunc(e.Target); el == nil {
			return
		}
	}
	it.maybeStartDrag(e, el)
	e.PreventDefault()
}

func (it *Item) maybeStartDrag(e *dom.Event, el *dom.Element) {
	it.gesture.RemoveAll()
	for _, typ := range []events.Type{dom.EventMouseMove, dom.EventTouchMove, dom.EventMouseOut} {
		it.gesture.Add(el, el.AddEventListener(typ, it.mouseMove))
	}
	for _, typ := range []events.Type{dom.EventMouseUp, dom.EventTouchEnd} {
		it.gesture.Add(el, el.AddEventListener(typ, it.mouseUp))
	}
	it.current = el
	p := geom.Pt(e.ClientX, e.ClientY)
	it.start = &p
}

func (it *Item) mouseMove(e *dom.Event) {
	if it.start == nil {
		return
	}
	leaving := e.Type == dom.EventMouseOut
	if leaving && e.RelatedTarget != nil && it.current.Contains(e.RelatedTarget) {
		return
	}
	distance := it.start.Distance(geom.Pt(e.ClientX, e.ClientY))
	if distance >= it.parent.initDragDistance || leaving {
		it.gesture.RemoveAll()
		it.start = nil
		it.parent.startDrag(e, it)
	}
}

func (it *Item) mouseUp(*dom.Event) {
	it.reset()
}

func (it *Item) reset() {
	it.gesture.RemoveAll()
	it.start = nil
	it.current = nil
}
