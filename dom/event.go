package dom

import "github.com/chrisuehlinger/dropzone/events"

// Event types dispatched through the tree.
const (
	EventMouseDown          events.Type = "mousedown"
	EventMouseMove          events.Type = "mousemove"
	EventMouseUp            events.Type = "mouseup"
	EventMouseOver          events.Type = "mouseover"
	EventMouseOut           events.Type = "mouseout"
	EventTouchStart         events.Type = "touchstart"
	EventTouchMove          events.Type = "touchmove"
	EventTouchEnd           events.Type = "touchend"
	EventTouchCancel        events.Type = "touchcancel"
	EventScroll             events.Type = "scroll"
	EventBlur               events.Type = "blur"
	EventLostPointerCapture events.Type = "lostpointercapture"
)

// Mouse buttons.
const (
	ButtonPrimary   = 0
	ButtonAuxiliary = 1
	ButtonSecondary = 2
)

// PointerType identifies the device behind a pointer event.
type PointerType string

// Pointer device kinds.
const (
	PointerMouse PointerType = "mouse"
	PointerTouch PointerType = "touch"
	PointerPen   PointerType = "pen"
)

// Event is a pointer, scroll or focus event travelling through the tree.
type Event struct {
	Type events.Type

	// Target is the element the event was dispatched at; nil for events
	// dispatched at the document itself.
	Target        *Element
	CurrentTarget *Element
	RelatedTarget *Element

	ClientX, ClientY float64
	ScreenX, ScreenY float64
	Button           int
	PointerType      PointerType

	CtrlKey, ShiftKey, AltKey, MetaKey bool

	Bubbles    bool
	Cancelable bool

	defaultPrevented bool
	stopped          bool
	stoppedNow       bool
}

// NewPointerEvent creates a bubbling, cancelable pointer event.
func NewPointerEvent(typ events.Type, clientX, clientY float64) *Event {
	return &Event{
		Type:        typ,
		ClientX:     clientX,
		ClientY:     clientY,
		ScreenX:     clientX,
		ScreenY:     clientY,
		PointerType: PointerMouse,
		Bubbles:     true,
		Cancelable:  true,
	}
}

// PreventDefault cancels the event's default action if it is cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was honored.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops the event after the current target.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation stops the event before the next listener.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// PropagationStopped reports whether propagation was stopped.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// IsMouseActionButton reports whether the event was caused by the primary
// button without the ctrl modifier. Touch events always qualify.
func (e *Event) IsMouseActionButton() bool {
	if e.PointerType == PointerTouch {
		return true
	}
	return e.Button == ButtonPrimary && !e.CtrlKey
}

// IsTouch reports whether the event came from a touch source.
func (e *Event) IsTouch() bool {
	return e.PointerType == PointerTouch
}

// Client returns the viewport position of the pointer.
func (e *Event) Client() (float64, float64) {
	return e.ClientX, e.ClientY
}
