package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/dropzone/drag"
	"github.com/chrisuehlinger/dropzone/dragdrop"
	"github.com/chrisuehlinger/dropzone/draglist"
	"github.com/chrisuehlinger/dropzone/geom"
)

// vetoable is implemented by every engine event that can be cancelled.
type vetoable interface {
	PreventDefault()
	DefaultPrevented() bool
}

// bindVeto adds preventDefault and defaultPrevented backed by e, so a
// script veto reaches the engine before the listener returns.
func (r *Runtime) bindVeto(obj *goja.Object, e vetoable) {
	obj.Set("preventDefault", func(call goja.FunctionCall) goja.Value {
		e.PreventDefault()
		return goja.Undefined()
	})
	r.binder.accessor(obj, "defaultPrevented", func() goja.Value {
		return r.vm.ToValue(e.DefaultPrevented())
	})
}

// dragEvent converts a Dragger notification.
func (r *Runtime) dragEvent(e *drag.Event) *goja.Object {
	ev := r.vm.NewObject()
	ev.Set("type", string(e.Type))
	ev.Set("clientX", e.ClientX)
	ev.Set("clientY", e.ClientY)
	ev.Set("left", e.Left)
	ev.Set("top", e.Top)
	ev.Set("deltaX", e.DeltaX)
	ev.Set("deltaY", e.DeltaY)
	ev.Set("dragCanceled", e.DragCanceled)
	if e.BrowserEvent != nil {
		ev.Set("browserEvent", r.binder.domEvent(e.BrowserEvent))
	} else {
		ev.Set("browserEvent", goja.Null())
	}
	r.bindVeto(ev, e)
	return ev
}

// dragDropEvent converts a Coordinator notification. Coordinators and
// items map back to the objects the script created.
func (r *Runtime) dragDropEvent(e *dragdrop.Event) *goja.Object {
	ev := r.vm.NewObject()
	ev.Set("type", string(e.Type))
	ev.Set("dragSource", r.coordinatorValue(e.DragSource))
	ev.Set("dragSourceItem", r.itemValue(e.DragSourceItem))
	ev.Set("dropTarget", r.coordinatorValue(e.DropTarget))
	ev.Set("dropTargetItem", r.itemValue(e.DropTargetItem))
	ev.Set("dropTargetElement", r.binder.elementValue(e.DropTargetElement))
	ev.Set("clientX", e.ClientX)
	ev.Set("clientY", e.ClientY)
	ev.Set("pageX", e.PageX)
	ev.Set("pageY", e.PageY)
	if e.Subtarget != "" {
		ev.Set("subtarget", e.Subtarget)
	} else {
		ev.Set("subtarget", goja.Null())
	}
	r.bindVeto(ev, e)
	return ev
}

// listEvent converts a list Group notification.
func (r *Runtime) listEvent(e *draglist.Event) *goja.Object {
	ev := r.vm.NewObject()
	ev.Set("type", string(e.Type))
	ev.Set("currDragItem", r.binder.elementValue(e.CurrDragItem))
	ev.Set("draggerEl", r.binder.elementValue(e.DraggerEl))
	ev.Set("hoverList", r.binder.elementValue(e.HoverList))
	ev.Set("hoverNextItem", r.binder.elementValue(e.HoverNextItem))
	ev.Set("draggerElCenter", r.point(e.DraggerElCenter))
	if e.DragEvent != nil {
		ev.Set("clientX", e.DragEvent.ClientX)
		ev.Set("clientY", e.DragEvent.ClientY)
	}
	r.bindVeto(ev, e)
	return ev
}

func (r *Runtime) point(c geom.Coordinate) *goja.Object {
	p := r.vm.NewObject()
	p.Set("x", c.X)
	p.Set("y", c.Y)
	return p
}

func (r *Runtime) box(b geom.Box) *goja.Object {
	o := r.vm.NewObject()
	o.Set("top", b.Top)
	o.Set("right", b.Right)
	o.Set("bottom", b.Bottom)
	o.Set("left", b.Left)
	o.Set("width", b.Width())
	o.Set("height", b.Height())
	return o
}
