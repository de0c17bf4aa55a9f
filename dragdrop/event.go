package dragdrop

import (
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
)

// Events fired by a Coordinator. Drop is fired on the target coordinator,
// the others on the source. Dragover and dragout fire on both.
const (
	EventDragStart events.Type = "dragstart"
	EventDragOver  events.Type = "dragover"
	EventDragOut   events.Type = "dragout"
	EventDrag      events.Type = "drag"
	EventDrop      events.Type = "drop"
	EventDragEnd   events.Type = "dragend"
)

// Event is the payload of every Coordinator notification. Target fields are
// nil when no real target is involved.
type Event struct {
	Type events.Type

	DragSource     *Coordinator
	DragSourceItem *Item

	DropTarget        *Coordinator
	DropTargetItem    *Item
	DropTargetElement *dom.Element

	// ClientX and ClientY are viewport coordinates; PageX and PageY include
	// the page scroll. Both are zero on events without a pointer position.
	ClientX, ClientY float64
	PageX, PageY     float64

	// Subtarget is the id returned by the subtarget function, if any.
	Subtarget string

	BrowserEvent *dom.Event

	defaultPrevented bool
}

// PreventDefault vetoes a dragstart.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}
