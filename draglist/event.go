package draglist

import (
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/drag"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

// Events fired by a Group. The before* events can be vetoed.
const (
	EventBeforeDragStart events.Type = "beforedragstart"
	EventDragStart       events.Type = "dragstart"
	EventBeforeDragMove  events.Type = "beforedragmove"
	EventDragMove        events.Type = "dragmove"
	EventBeforeDragEnd   events.Type = "beforedragend"
	EventDragEnd         events.Type = "dragend"
)

// Event is the payload of every Group notification.
type Event struct {
	Type  events.Type
	Group *Group

	// DragEvent is the controller event behind the notification, if any.
	DragEvent    *drag.Event
	BrowserEvent *dom.Event

	CurrDragItem *dom.Element
	DraggerEl    *dom.Element
	Dragger      *drag.Dragger

	// Set on move events.
	DraggerElCenter geom.Coordinate
	HoverList       *dom.Element
	HoverNextItem   *dom.Element

	defaultPrevented bool
}

// PreventDefault vetoes a before* event.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}
