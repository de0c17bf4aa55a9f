package js

import (
	"fmt"
	"math"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/autoscroll"
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/drag"
	"github.com/chrisuehlinger/dropzone/dragdrop"
	"github.com/chrisuehlinger/dropzone/draglist"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

// setupDragBindings installs the dragdrop, draglist and autoscroll globals.
//
//	var g = dragdrop.group({dragClass: "lifted"});
//	g.addItem(el, {id: 1});
//	g.addTarget(g);
//	g.addEventListener("drop", function (e) { ... });
//	g.init();
func (r *Runtime) setupDragBindings() {
	r.coords = make(map[*dragdrop.Coordinator]*goja.Object)
	r.items = make(map[*dragdrop.Item]*goja.Object)

	dd := r.vm.NewObject()
	dd.Set("group", func(call goja.FunctionCall) goja.Value {
		return r.bindCoordinator(r.newCoordinator(r.options(call.Argument(0))))
	})
	dd.Set("single", func(call goja.FunctionCall) goja.Value {
		el := r.binder.requireElement(call.Argument(0))
		c := r.newCoordinator(r.options(call.Argument(2)))
		if err := c.AddItem(el, call.Argument(1)); err != nil {
			r.throw(err)
		}
		return r.bindCoordinator(c)
	})
	dd.Set("dragger", func(call goja.FunctionCall) goja.Value {
		return r.newDragger(r.binder.requireElement(call.Argument(0)), r.options(call.Argument(1)))
	})
	r.vm.Set("dragdrop", dd)

	dl := r.vm.NewObject()
	dl.Set("group", func(call goja.FunctionCall) goja.Value {
		return r.newListGroup(r.options(call.Argument(0)))
	})
	r.vm.Set("draglist", dl)

	as := r.vm.NewObject()
	as.Set("attach", func(call goja.FunctionCall) goja.Value {
		return r.newAutoScroller(r.binder.requireElement(call.Argument(0)), r.options(call.Argument(1)))
	})
	r.vm.Set("autoscroll", as)
}

func (r *Runtime) newCoordinator(o options) *dragdrop.Coordinator {
	d := r.cfg.Drag
	limits, err := d.LimitsRect()
	if err != nil {
		r.throw(err)
	}
	c := dragdrop.NewGroup(
		dragdrop.WithInitDragDistance(o.float("initDragDistance", d.InitDragDistance)),
		dragdrop.WithDummyMinArea(o.float("dummyMinArea", d.DummyMinArea)),
		dragdrop.WithDragLimits(limits),
		dragdrop.WithLogger(r.log.Named("dragdrop")),
	)
	c.SetDragClass(o.string("dragClass", d.DragClass))
	c.SetSourceClass(o.string("sourceClass", d.SourceClass))
	c.SetTargetClass(o.string("targetClass", d.TargetClass))
	r.onDispose(c.Dispose)
	return c
}

// bindCoordinator returns the script object for c.
func (r *Runtime) bindCoordinator(c *dragdrop.Coordinator) *goja.Object {
	if obj, ok := r.coords[c]; ok {
		return obj
	}
	vm := r.vm
	obj := vm.NewObject()
	obj.Set("_goCoordinator", c)

	obj.Set("addItem", func(call goja.FunctionCall) goja.Value {
		if err := c.AddItem(r.binder.requireElement(call.Argument(0)), call.Argument(1)); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("removeItem", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.RemoveItem(r.binder.getGoElement(call.Argument(0))))
	})
	obj.Set("items", func(call goja.FunctionCall) goja.Value {
		items := c.Items()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = r.itemValue(it)
		}
		return vm.NewArray(out...)
	})
	obj.Set("addTarget", func(call goja.FunctionCall) goja.Value {
		target := r.coordinatorOf(call.Argument(0))
		if target == nil {
			panic(vm.NewTypeError("addTarget: argument is not a drag/drop group"))
		}
		c.AddTarget(target)
		return goja.Undefined()
	})
	obj.Set("setDragClass", func(call goja.FunctionCall) goja.Value {
		c.SetDragClass(argString(call, 0))
		return goja.Undefined()
	})
	obj.Set("setSourceClass", func(call goja.FunctionCall) goja.Value {
		c.SetSourceClass(argString(call, 0))
		return goja.Undefined()
	})
	obj.Set("setTargetClass", func(call goja.FunctionCall) goja.Value {
		c.SetTargetClass(argString(call, 0))
		return goja.Undefined()
	})
	obj.Set("setSubtargetFunction", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			c.SetSubtargetFunction(nil)
			return goja.Undefined()
		}
		c.SetSubtargetFunction(func(it *dragdrop.Item, b geom.Box, x, y float64) string {
			v := r.call(fn, obj, r.itemValue(it), r.box(b), vm.ToValue(x), vm.ToValue(y))
			if goja.IsUndefined(v) || goja.IsNull(v) {
				return ""
			}
			return v.String()
		})
		return goja.Undefined()
	})
	obj.Set("addScrollableContainer", func(call goja.FunctionCall) goja.Value {
		if err := c.AddScrollableContainer(r.binder.requireElement(call.Argument(0))); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("removeAllScrollableContainers", func(call goja.FunctionCall) goja.Value {
		c.RemoveAllScrollableContainers()
		return goja.Undefined()
	})
	obj.Set("init", func(call goja.FunctionCall) goja.Value {
		c.Init()
		return goja.Undefined()
	})
	obj.Set("removeItems", func(call goja.FunctionCall) goja.Value {
		c.RemoveItems()
		return goja.Undefined()
	})
	obj.Set("cancelDrag", func(call goja.FunctionCall) goja.Value {
		c.CancelDrag()
		return goja.Undefined()
	})
	obj.Set("isDragging", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.IsDragging())
	})
	obj.Set("dispose", func(call goja.FunctionCall) goja.Value {
		c.Dispose()
		return goja.Undefined()
	})
	r.binder.bindListeners(obj, c, func(typ string, _ bool, cb goja.Callable) events.Key {
		return c.Listen(events.Type(typ), func(e *dragdrop.Event) {
			r.call(cb, obj, r.dragDropEvent(e))
		})
	}, c.Unlisten)

	r.coords[c] = obj
	return obj
}

func (r *Runtime) coordinatorOf(v goja.Value) *dragdrop.Coordinator {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		return nil
	}
	if gc := obj.Get("_goCoordinator"); gc != nil {
		if c, ok := gc.Export().(*dragdrop.Coordinator); ok {
			return c
		}
	}
	return nil
}

func (r *Runtime) coordinatorValue(c *dragdrop.Coordinator) goja.Value {
	if c == nil {
		return goja.Null()
	}
	return r.bindCoordinator(c)
}

// itemValue returns {element, data} for it. Data is whatever the script
// passed to addItem.
func (r *Runtime) itemValue(it *dragdrop.Item) goja.Value {
	if it == nil {
		return goja.Null()
	}
	if obj, ok := r.items[it]; ok {
		return obj
	}
	obj := r.vm.NewObject()
	obj.Set("element", r.binder.elementValue(it.Element()))
	if v, ok := it.Data.(goja.Value); ok {
		obj.Set("data", v)
	} else {
		obj.Set("data", r.vm.ToValue(it.Data))
	}
	r.items[it] = obj
	return obj
}

// newDragger exposes a bare Dragger on el. Options: handle, hysteresis,
// limits ([left, top, width, height], null for a free edge).
func (r *Runtime) newDragger(el *dom.Element, o options) goja.Value {
	limits, err := r.cfg.Drag.LimitsRect()
	if err != nil {
		r.throw(err)
	}
	if v := o.get("limits"); v != nil {
		arr := v.ToObject(r.vm)
		edges := make([]float64, arr.Get("length").ToInteger())
		for i := range edges {
			e := arr.Get(fmt.Sprint(i))
			if e == nil || goja.IsUndefined(e) || goja.IsNull(e) {
				edges[i] = math.NaN()
				continue
			}
			edges[i] = e.ToFloat()
		}
		if limits, err = geom.RectFromSlice(edges); err != nil {
			r.throw(fmt.Errorf("limits: %w", err))
		}
	}
	opts := []drag.Option{
		drag.WithHysteresis(o.float("hysteresis", r.cfg.Drag.Hysteresis)),
		drag.WithLimits(limits),
		drag.WithLogger(r.log.Named("drag")),
	}
	if v := o.get("handle"); v != nil {
		opts = append(opts, drag.WithHandle(r.binder.requireElement(v)))
	}
	d, err := drag.New(el, opts...)
	if err != nil {
		r.throw(err)
	}
	r.onDispose(d.Dispose)

	vm := r.vm
	obj := vm.NewObject()
	obj.Set("setEnabled", func(call goja.FunctionCall) goja.Value {
		d.SetEnabled(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	obj.Set("isDragging", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(d.IsDragging())
	})
	obj.Set("cancel", func(call goja.FunctionCall) goja.Value {
		d.Cancel()
		return goja.Undefined()
	})
	obj.Set("dispose", func(call goja.FunctionCall) goja.Value {
		d.Dispose()
		return goja.Undefined()
	})
	r.binder.bindListeners(obj, d, func(typ string, _ bool, cb goja.Callable) events.Key {
		return d.Listen(events.Type(typ), func(e *drag.Event) {
			r.call(cb, obj, r.dragEvent(e))
		})
	}, d.Unlisten)
	return obj
}

// newListGroup creates a list reorder group seeded from the list config.
func (r *Runtime) newListGroup(o options) goja.Value {
	lc := r.cfg.List
	g := draglist.New(
		draglist.WithHysteresis(o.float("hysteresis", lc.Hysteresis)),
		draglist.WithLogger(r.log.Named("draglist")),
	)
	g.SetUpdateWhileDragging(o.bool("updateWhileDragging", lc.UpdateWhileDragging))
	if o.bool("alwaysDisplayed", lc.AlwaysDisplayed) {
		g.SetCurrDragItemAlwaysDisplayed()
	}
	if cls := o.string("itemHoverClass", lc.ItemHoverClass); cls != "" {
		g.SetDragItemHoverClass(cls)
	}
	if cls := o.string("currentClass", lc.CurrentClass); cls != "" {
		g.SetCurrDragItemClass(cls)
	}
	if cls := o.string("proxyClass", lc.ProxyClass); cls != "" {
		g.SetDraggerElClass(cls)
	}
	r.onDispose(g.Dispose)

	vm := r.vm
	obj := vm.NewObject()
	classes := func(call goja.FunctionCall) []string {
		out := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			out[i] = a.String()
		}
		return out
	}

	obj.Set("addDragList", func(call goja.FunctionCall) goja.Value {
		list := r.binder.requireElement(call.Argument(0))
		dir := draglist.Down
		if s := argString(call, 1); s != "" {
			var err error
			if dir, err = draglist.ParseDirection(s); err != nil {
				r.throw(err)
			}
		}
		docOrder := true
		if v := call.Argument(2); !goja.IsUndefined(v) && !goja.IsNull(v) {
			docOrder = v.ToBoolean()
		}
		hover := lc.HoverClass
		if v := call.Argument(3); !goja.IsUndefined(v) {
			hover = argString(call, 3)
		}
		if err := g.AddDragList(list, dir, docOrder, hover); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("addItemToList", func(call goja.FunctionCall) goja.Value {
		list := r.binder.requireElement(call.Argument(0))
		item := r.binder.requireElement(call.Argument(1))
		index := -1
		if v := call.Argument(2); !goja.IsUndefined(v) {
			index = int(v.ToInteger())
		}
		if err := g.AddItemToList(list, item, index); err != nil {
			r.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("setDragItemHoverClass", func(call goja.FunctionCall) goja.Value {
		g.SetDragItemHoverClass(classes(call)...)
		return goja.Undefined()
	})
	obj.Set("setDragItemHandleHoverClass", func(call goja.FunctionCall) goja.Value {
		g.SetDragItemHandleHoverClass(classes(call)...)
		return goja.Undefined()
	})
	obj.Set("setCurrDragItemClass", func(call goja.FunctionCall) goja.Value {
		g.SetCurrDragItemClass(classes(call)...)
		return goja.Undefined()
	})
	obj.Set("setDraggerElClass", func(call goja.FunctionCall) goja.Value {
		g.SetDraggerElClass(classes(call)...)
		return goja.Undefined()
	})
	obj.Set("setUpdateWhileDragging", func(call goja.FunctionCall) goja.Value {
		g.SetUpdateWhileDragging(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	obj.Set("setCurrDragItemAlwaysDisplayed", func(call goja.FunctionCall) goja.Value {
		g.SetCurrDragItemAlwaysDisplayed()
		return goja.Undefined()
	})
	obj.Set("setHysteresis", func(call goja.FunctionCall) goja.Value {
		g.SetHysteresis(argFloat(call, 0))
		return goja.Undefined()
	})
	obj.Set("setHandleFunction", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			g.SetHandleFunc(nil)
			return goja.Undefined()
		}
		g.SetHandleFunc(func(item *dom.Element) *dom.Element {
			return r.binder.getGoElement(r.call(fn, obj, r.binder.elementValue(item)))
		})
		return goja.Undefined()
	})
	obj.Set("init", func(call goja.FunctionCall) goja.Value {
		g.Init()
		return goja.Undefined()
	})
	obj.Set("isDragging", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(g.IsDragging())
	})
	r.binder.accessor(obj, "currDragItem", func() goja.Value {
		return r.binder.elementValue(g.CurrDragItem())
	})
	obj.Set("dispose", func(call goja.FunctionCall) goja.Value {
		g.Dispose()
		return goja.Undefined()
	})
	r.binder.bindListeners(obj, g, func(typ string, _ bool, cb goja.Callable) events.Key {
		return g.Listen(events.Type(typ), func(e *draglist.Event) {
			r.call(cb, obj, r.listEvent(e))
		})
	}, g.Unlisten)
	return obj
}

// newAutoScroller attaches an auto-scroll controller to el. Options:
// margin, step, period (milliseconds), constrain, horizontal, external.
func (r *Runtime) newAutoScroller(el *dom.Element, o options) goja.Value {
	sc := r.cfg.Scroll
	opts := []autoscroll.Option{
		autoscroll.WithMargin(o.float("margin", sc.Margin)),
		autoscroll.WithStep(o.float("step", sc.Step)),
		autoscroll.WithPeriod(sc.Period.Std()),
		autoscroll.WithLogger(r.log.Named("autoscroll")),
	}
	if v := o.get("period"); v != nil {
		opts = append(opts, autoscroll.WithPeriod(time.Duration(v.ToInteger())*time.Millisecond))
	}
	if o.bool("external", false) {
		opts = append(opts, autoscroll.WithExternalTracking())
	}
	c, err := autoscroll.New(el, opts...)
	if err != nil {
		r.throw(err)
	}
	c.SetConstrainScroll(o.bool("constrain", sc.Constrain))
	c.SetHorizontalScrolling(o.bool("horizontal", sc.Horizontal))
	r.onDispose(c.Dispose)
	r.log.Debug("autoscroll attached", zap.String("container", el.Id()))

	vm := r.vm
	obj := vm.NewObject()
	obj.Set("updateContainerBounds", func(call goja.FunctionCall) goja.Value {
		c.UpdateContainerBounds()
		return goja.Undefined()
	})
	obj.Set("setConstrainScroll", func(call goja.FunctionCall) goja.Value {
		c.SetConstrainScroll(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	obj.Set("setHorizontalScrolling", func(call goja.FunctionCall) goja.Value {
		c.SetHorizontalScrolling(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	obj.Set("onMouseMove", func(call goja.FunctionCall) goja.Value {
		c.OnMouseMove(dom.NewPointerEvent(dom.EventMouseMove, argFloat(call, 0), argFloat(call, 1)))
		return goja.Undefined()
	})
	obj.Set("isRunning", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.Running())
	})
	obj.Set("dispose", func(call goja.FunctionCall) goja.Value {
		c.Dispose()
		return goja.Undefined()
	})
	return obj
}

// options reads an optional settings object passed from script.
type options struct {
	obj *goja.Object
}

func (r *Runtime) options(v goja.Value) options {
	obj, _ := v.(*goja.Object)
	return options{obj: obj}
}

func (o options) get(name string) goja.Value {
	if o.obj == nil {
		return nil
	}
	v := o.obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v
}

func (o options) float(name string, def float64) float64 {
	if v := o.get(name); v != nil {
		return v.ToFloat()
	}
	return def
}

func (o options) string(name, def string) string {
	if v := o.get(name); v != nil {
		return v.String()
	}
	return def
}

func (o options) bool(name string, def bool) bool {
	if v := o.get(name); v != nil {
		return v.ToBoolean()
	}
	return def
}
