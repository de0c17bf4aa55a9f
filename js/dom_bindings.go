package js

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/dropzone/css"
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
)

// DOMBinder exposes the document and its elements to scripts.
type DOMBinder struct {
	runtime *Runtime
	nodeMap map[*dom.Element]*goja.Object // Cache to return same JS object for same element
	docObj  *goja.Object
	// listeners maps script callbacks to their Go registrations so
	// removeEventListener can find them again.
	listeners []scriptListener
}

type scriptListener struct {
	owner    any
	typ      string
	fn       goja.Value
	capture  bool
	key      events.Key
	unlisten func(events.Key) bool
}

// NewDOMBinder creates a new DOM binder for the given runtime.
func NewDOMBinder(runtime *Runtime) *DOMBinder {
	return &DOMBinder{
		runtime: runtime,
		nodeMap: make(map[*dom.Element]*goja.Object),
	}
}

// BindDocument returns the script object for doc.
func (b *DOMBinder) BindDocument(doc *dom.Document) *goja.Object {
	if b.docObj != nil {
		return b.docObj
	}
	vm := b.runtime.vm
	jsDoc := vm.NewObject()
	jsDoc.Set("_goDoc", doc)

	b.accessor(jsDoc, "documentElement", func() goja.Value { return b.elementValue(doc.DocumentElement()) })
	b.accessor(jsDoc, "body", func() goja.Value { return b.elementValue(doc.Body()) })
	b.accessor(jsDoc, "head", func() goja.Value { return b.elementValue(doc.Head()) })

	jsDoc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return b.elementValue(doc.GetElementById(argString(call, 0)))
	})
	jsDoc.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return b.elementArray(doc.GetElementsByClassName(argString(call, 0)))
	})
	jsDoc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		els, err := css.QuerySelectorAll(doc, argString(call, 0))
		if err != nil {
			b.throwDOMError(dom.ErrSyntax(err.Error()))
		}
		return b.elementArray(els)
	})
	jsDoc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		els, err := css.QuerySelectorAll(doc, argString(call, 0))
		if err != nil {
			b.throwDOMError(dom.ErrSyntax(err.Error()))
		}
		if len(els) == 0 {
			return goja.Null()
		}
		return b.BindElement(els[0])
	})
	jsDoc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		return b.BindElement(doc.CreateElement(argString(call, 0)))
	})
	jsDoc.Set("elementFromPoint", func(call goja.FunctionCall) goja.Value {
		return b.elementValue(doc.ElementFromPoint(argFloat(call, 0), argFloat(call, 1)))
	})
	b.bindEventTarget(jsDoc, doc, doc.AddEventListener, doc.AddCaptureListener, doc.Unlisten)

	b.docObj = jsDoc
	return jsDoc
}

// BindElement returns the script object for el, creating it on first use.
func (b *DOMBinder) BindElement(el *dom.Element) *goja.Object {
	if el == nil {
		return nil
	}
	if jsObj, ok := b.nodeMap[el]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsEl := vm.NewObject()
	// Store reference to the Go element
	jsEl.Set("_goElement", el)

	b.accessor(jsEl, "tagName", func() goja.Value { return vm.ToValue(el.TagName()) })
	b.property(jsEl, "id",
		func() goja.Value { return vm.ToValue(el.Id()) },
		func(v goja.Value) { el.SetId(v.String()) })
	b.property(jsEl, "className",
		func() goja.Value { return vm.ToValue(el.ClassName()) },
		func(v goja.Value) { el.SetClassName(v.String()) })
	b.property(jsEl, "textContent",
		func() goja.Value { return vm.ToValue(el.TextContent()) },
		func(v goja.Value) { el.SetTextContent(v.String()) })
	b.property(jsEl, "scrollTop",
		func() goja.Value { return vm.ToValue(el.ScrollTop()) },
		func(v goja.Value) { el.SetScrollTop(v.ToFloat()) })
	b.property(jsEl, "scrollLeft",
		func() goja.Value { return vm.ToValue(el.ScrollLeft()) },
		func(v goja.Value) { el.SetScrollLeft(v.ToFloat()) })
	b.accessor(jsEl, "offsetWidth", func() goja.Value { return vm.ToValue(el.OffsetWidth()) })
	b.accessor(jsEl, "offsetHeight", func() goja.Value { return vm.ToValue(el.OffsetHeight()) })

	b.accessor(jsEl, "parentElement", func() goja.Value { return b.elementValue(el.ParentElement()) })
	b.accessor(jsEl, "children", func() goja.Value { return b.elementArray(el.Children()) })
	b.accessor(jsEl, "firstElementChild", func() goja.Value { return b.elementValue(el.FirstElementChild()) })
	b.accessor(jsEl, "lastElementChild", func() goja.Value { return b.elementValue(el.LastElementChild()) })
	b.accessor(jsEl, "nextElementSibling", func() goja.Value { return b.elementValue(el.NextElementSibling()) })
	b.accessor(jsEl, "previousElementSibling", func() goja.Value { return b.elementValue(el.PreviousElementSibling()) })

	jsEl.Set("classList", b.bindTokenList(el.ClassList()))
	jsEl.Set("style", b.bindStyle(el.Style()))

	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := el.LookupAttribute(argString(call, 0))
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(v)
	})
	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		el.SetAttribute(argString(call, 0), argString(call, 1))
		return goja.Undefined()
	})
	jsEl.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttribute(argString(call, 0))
		return goja.Undefined()
	})
	jsEl.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := b.requireElement(call.Argument(0))
		if err := el.AppendChild(child); err != nil {
			b.throwDOMError(err)
		}
		return call.Argument(0)
	})
	jsEl.Set("insertBefore", func(call goja.FunctionCall) goja.Value {
		child := b.requireElement(call.Argument(0))
		if err := el.InsertBefore(child, b.getGoElement(call.Argument(1))); err != nil {
			b.throwDOMError(err)
		}
		return call.Argument(0)
	})
	jsEl.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		if err := el.RemoveChild(b.requireElement(call.Argument(0))); err != nil {
			b.throwDOMError(err)
		}
		return call.Argument(0)
	})
	jsEl.Set("remove", func(call goja.FunctionCall) goja.Value {
		el.Remove()
		return goja.Undefined()
	})
	jsEl.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Contains(b.getGoElement(call.Argument(0))))
	})
	jsEl.Set("cloneNode", func(call goja.FunctionCall) goja.Value {
		return b.BindElement(el.CloneNode(call.Argument(0).ToBoolean()))
	})
	jsEl.Set("getBoundingClientRect", func(call goja.FunctionCall) goja.Value {
		r := el.GetBoundingClientRect()
		rect := vm.NewObject()
		rect.Set("x", r.X)
		rect.Set("y", r.Y)
		rect.Set("width", r.Width)
		rect.Set("height", r.Height)
		rect.Set("left", r.Left())
		rect.Set("top", r.Top())
		rect.Set("right", r.Right())
		rect.Set("bottom", r.Bottom())
		return rect
	})
	b.bindEventTarget(jsEl, el, el.AddEventListener, el.AddCaptureListener, el.Unlisten)

	b.nodeMap[el] = jsEl
	return jsEl
}

func (b *DOMBinder) bindTokenList(list *dom.DOMTokenList) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()
	tokens := func(call goja.FunctionCall) []string {
		out := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			out[i] = a.String()
		}
		return out
	}
	b.accessor(obj, "length", func() goja.Value { return vm.ToValue(list.Length()) })
	obj.Set("add", func(call goja.FunctionCall) goja.Value {
		if err := list.Add(tokens(call)...); err != nil {
			b.throwDOMError(err)
		}
		return goja.Undefined()
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		if err := list.Remove(tokens(call)...); err != nil {
			b.throwDOMError(err)
		}
		return goja.Undefined()
	})
	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list.Contains(argString(call, 0)))
	})
	obj.Set("toggle", func(call goja.FunctionCall) goja.Value {
		var (
			on  bool
			err error
		)
		if force := call.Argument(1); !goja.IsUndefined(force) {
			on = force.ToBoolean()
			err = list.Enable(argString(call, 0), on)
		} else {
			on, err = list.Toggle(argString(call, 0))
		}
		if err != nil {
			b.throwDOMError(err)
		}
		return vm.ToValue(on)
	})
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(list.String())
	})
	return obj
}

func (b *DOMBinder) bindStyle(st *dom.CSSStyleDeclaration) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()
	obj.Set("getPropertyValue", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(st.GetPropertyValue(argString(call, 0)))
	})
	obj.Set("setProperty", func(call goja.FunctionCall) goja.Value {
		st.SetProperty(argString(call, 0), argString(call, 1))
		return goja.Undefined()
	})
	obj.Set("removeProperty", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(st.RemoveProperty(argString(call, 0)))
	})
	b.property(obj, "cssText",
		func() goja.Value { return vm.ToValue(st.CSSText()) },
		func(v goja.Value) { st.SetCSSText(v.String()) })
	b.property(obj, "display",
		func() goja.Value { return vm.ToValue(st.Display()) },
		func(v goja.Value) { st.SetDisplay(v.String()) })
	b.property(obj, "visibility",
		func() goja.Value { return vm.ToValue(st.Visibility()) },
		func(v goja.Value) { st.SetVisibility(v.String()) })
	return obj
}

// bindEventTarget adds addEventListener and removeEventListener to obj for
// a DOM node. The third argument may be a boolean or an options object with
// capture.
func (b *DOMBinder) bindEventTarget(
	obj *goja.Object,
	owner any,
	listen, capture func(events.Type, func(*dom.Event)) events.Key,
	unlisten func(events.Key) bool,
) {
	b.bindListeners(obj, owner, func(typ string, useCapture bool, callback goja.Callable) events.Key {
		fn := func(e *dom.Event) {
			b.runtime.call(callback, obj, b.domEvent(e))
		}
		if useCapture {
			return capture(events.Type(typ), fn)
		}
		return listen(events.Type(typ), fn)
	}, unlisten)
}

// bindListeners adds addEventListener and removeEventListener to obj.
// Registering the same callback twice is a no-op.
func (b *DOMBinder) bindListeners(
	obj *goja.Object,
	owner any,
	register func(typ string, capture bool, callback goja.Callable) events.Key,
	unlisten func(events.Key) bool,
) {
	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		typ := argString(call, 0)
		callback, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			return goja.Undefined()
		}
		useCapture := b.captureFlag(call.Argument(2))
		if b.findListener(owner, typ, call.Argument(1), useCapture) >= 0 {
			return goja.Undefined()
		}
		b.listeners = append(b.listeners, scriptListener{
			owner:    owner,
			typ:      typ,
			fn:       call.Argument(1),
			capture:  useCapture,
			key:      register(typ, useCapture, callback),
			unlisten: unlisten,
		})
		return goja.Undefined()
	})

	obj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		i := b.findListener(owner, argString(call, 0), call.Argument(1), b.captureFlag(call.Argument(2)))
		if i < 0 {
			return goja.Undefined()
		}
		unlisten(b.listeners[i].key)
		b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
		return goja.Undefined()
	})
}

func (b *DOMBinder) captureFlag(arg goja.Value) bool {
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return false
	}
	if opts, ok := arg.(*goja.Object); ok {
		if v := opts.Get("capture"); v != nil {
			return v.ToBoolean()
		}
		return false
	}
	return arg.ToBoolean()
}

func (b *DOMBinder) findListener(owner any, typ string, fn goja.Value, capture bool) int {
	for i, l := range b.listeners {
		if l.owner == owner && l.typ == typ && l.capture == capture && l.fn.SameAs(fn) {
			return i
		}
	}
	return -1
}

// domEvent converts a pointer, scroll or focus event for a listener.
func (b *DOMBinder) domEvent(e *dom.Event) *goja.Object {
	vm := b.runtime.vm
	ev := vm.NewObject()
	ev.Set("type", string(e.Type))
	ev.Set("target", b.elementValue(e.Target))
	ev.Set("currentTarget", b.elementValue(e.CurrentTarget))
	ev.Set("relatedTarget", b.elementValue(e.RelatedTarget))
	ev.Set("clientX", e.ClientX)
	ev.Set("clientY", e.ClientY)
	ev.Set("button", e.Button)
	ev.Set("pointerType", string(e.PointerType))
	ev.Set("ctrlKey", e.CtrlKey)
	ev.Set("shiftKey", e.ShiftKey)
	ev.Set("altKey", e.AltKey)
	ev.Set("metaKey", e.MetaKey)
	b.accessor(ev, "defaultPrevented", func() goja.Value { return vm.ToValue(e.DefaultPrevented()) })
	ev.Set("preventDefault", func(call goja.FunctionCall) goja.Value {
		e.PreventDefault()
		return goja.Undefined()
	})
	ev.Set("stopPropagation", func(call goja.FunctionCall) goja.Value {
		e.StopPropagation()
		return goja.Undefined()
	})
	ev.Set("stopImmediatePropagation", func(call goja.FunctionCall) goja.Value {
		e.StopImmediatePropagation()
		return goja.Undefined()
	})
	return ev
}

// getGoElement extracts the Go element from a script value, or nil.
func (b *DOMBinder) getGoElement(v goja.Value) *dom.Element {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		return nil
	}
	if ge := obj.Get("_goElement"); ge != nil && !goja.IsUndefined(ge) && !goja.IsNull(ge) {
		if el, ok := ge.Export().(*dom.Element); ok {
			return el
		}
	}
	return nil
}

func (b *DOMBinder) requireElement(v goja.Value) *dom.Element {
	el := b.getGoElement(v)
	if el == nil {
		panic(b.runtime.vm.NewTypeError("argument is not an element"))
	}
	return el
}

func (b *DOMBinder) elementValue(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return b.BindElement(el)
}

func (b *DOMBinder) elementArray(els []*dom.Element) goja.Value {
	out := make([]any, len(els))
	for i, el := range els {
		out[i] = b.BindElement(el)
	}
	return b.runtime.vm.NewArray(out...)
}

func (b *DOMBinder) accessor(obj *goja.Object, name string, get func() goja.Value) {
	vm := b.runtime.vm
	obj.DefineAccessorProperty(name, vm.ToValue(func(goja.FunctionCall) goja.Value {
		return get()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

func (b *DOMBinder) property(obj *goja.Object, name string, get func() goja.Value, set func(goja.Value)) {
	vm := b.runtime.vm
	obj.DefineAccessorProperty(name, vm.ToValue(func(goja.FunctionCall) goja.Value {
		return get()
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		set(call.Argument(0))
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// throwDOMError raises err as an Error whose name is the DOM exception name.
func (b *DOMBinder) throwDOMError(err error) {
	vm := b.runtime.vm
	var de *dom.DOMError
	if !errors.As(err, &de) {
		panic(vm.NewGoError(err))
	}
	ex := vm.NewGoError(err)
	ex.Set("name", de.Name)
	ex.Set("message", de.Message)
	panic(ex)
}

// ClearCache drops every cached script object and script listener.
func (b *DOMBinder) ClearCache() {
	for _, l := range b.listeners {
		l.unlisten(l.key)
	}
	b.listeners = nil
	b.nodeMap = make(map[*dom.Element]*goja.Object)
	b.docObj = nil
}
