package drag

import (
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
)

// Events fired by a Dragger.
const (
	// EventStart fires once hysteresis is exceeded. Preventing it abandons
	// the gesture.
	EventStart events.Type = "start"
	// EventBeforeDrag fires before every move. Preventing it skips the move.
	EventBeforeDrag events.Type = "beforedrag"
	// EventDrag fires after the default action moved the target.
	EventDrag events.Type = "drag"
	// EventEnd fires when a drag that actually began finishes.
	EventEnd events.Type = "end"
	// EventEarlyCancel fires when a gesture ends or is refused before a drag
	// began.
	EventEarlyCancel events.Type = "earlycancel"
)

// Event is the payload of every Dragger notification.
type Event struct {
	Type    events.Type
	Dragger *Dragger

	// ClientX and ClientY are the pointer position in the viewport.
	ClientX, ClientY float64
	// BrowserEvent is the pointer event that caused the notification. For
	// moves synthesized from scrolling it carries the last known position.
	BrowserEvent *dom.Event

	// Left and Top are the target position after clamping to the limits.
	Left, Top float64
	// DeltaX and DeltaY are the unclamped accumulated offsets.
	DeltaX, DeltaY float64

	// DragCanceled is set on end events caused by blur, capture loss,
	// touchcancel or an explicit cancel.
	DragCanceled bool

	defaultPrevented bool
}

// PreventDefault vetoes a start or beforedrag notification.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}
