package dom

import "github.com/chrisuehlinger/dropzone/geom"

// ElementFromPoint returns the topmost element under a viewport point, or
// nil. Hidden and unlaid elements never match, and clipped elements match
// only inside their clip box.
func (d *Document) ElementFromPoint(clientX, clientY float64) *Element {
	d.EnsureLayout()
	p := geom.Pt(clientX+d.documentData.scrollX, clientY+d.documentData.scrollY)

	var best *Element
	bestLayer := 0
	d.Walk(func(e *Element) bool {
		g := e.elementData.geometry
		if g == nil || g.Hidden || g.NoHit {
			return true
		}
		if g.Clip != nil && !g.Clip.Contains(p) {
			return true
		}
		if p.X < g.X || p.X >= g.X+g.Width || p.Y < g.Y || p.Y >= g.Y+g.Height {
			return true
		}
		// Later elements paint over earlier ones within the same layer.
		if best == nil || g.Layer >= bestLayer {
			best, bestLayer = e, g.Layer
		}
		return true
	})
	return best
}

// DispatchPointer routes a host pointer event into the tree: to the
// pointer-capture element if one is set, otherwise to the element under the
// pointer. Moves and presses also update hover and fire mouseout/mouseover
// pairs. It reports whether the default action is still allowed.
func (d *Document) DispatchPointer(ev *Event) bool {
	dd := d.documentData
	if dd.capture != nil && !dd.capture.IsConnected() {
		d.LosePointerCapture()
	}

	hit := d.ElementFromPoint(ev.ClientX, ev.ClientY)
	switch ev.Type {
	case EventMouseMove, EventTouchMove, EventMouseDown, EventTouchStart:
		d.updateHover(hit, ev)
	}

	target := hit
	if dd.capture != nil {
		target = dd.capture
	}
	return d.dispatch(target, ev)
}

func (d *Document) updateHover(hit *Element, ev *Event) {
	dd := d.documentData
	old := dd.hover
	if old == hit {
		return
	}
	dd.hover = hit
	if old != nil && old.IsConnected() {
		out := *ev
		out.Type = EventMouseOut
		out.RelatedTarget = hit
		out.defaultPrevented = false
		d.dispatch(old, &out)
	}
	if hit != nil {
		over := *ev
		over.Type = EventMouseOver
		over.RelatedTarget = old
		over.defaultPrevented = false
		d.dispatch(hit, &over)
	}
}

// Hovered returns the element last found under the pointer.
func (d *Document) Hovered() *Element {
	return d.documentData.hover
}

// SetPointerCapture routes subsequent pointer events to el.
func (d *Document) SetPointerCapture(el *Element) {
	d.documentData.capture = el
}

// ReleasePointerCapture releases capture if el holds it. No event fires.
func (d *Document) ReleasePointerCapture(el *Element) {
	if d.documentData.capture == el {
		d.documentData.capture = nil
	}
}

// PointerCapture returns the element holding pointer capture, or nil.
func (d *Document) PointerCapture() *Element {
	return d.documentData.capture
}

// LosePointerCapture drops capture involuntarily and fires
// lostpointercapture at the former holder.
func (d *Document) LosePointerCapture() {
	el := d.documentData.capture
	if el == nil {
		return
	}
	d.documentData.capture = nil
	ev := &Event{Type: EventLostPointerCapture, Bubbles: true}
	if el.IsConnected() {
		d.dispatch(el, ev)
	} else {
		d.dispatch(nil, ev)
	}
}

// Blur fires a blur event at the document, as when the window loses focus.
func (d *Document) Blur() {
	d.dispatch(nil, &Event{Type: EventBlur})
}
