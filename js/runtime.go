// Package js runs page scripts that wire drag and drop onto a document.
// It uses the goja JavaScript engine (pure Go ES5.1+ implementation).
//
// A Runtime is not safe for concurrent use. Scripts, timers and listener
// callbacks all run on the goroutine that drives the document.
package js

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/config"
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/dragdrop"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger routes console output and script errors to l.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.log = l
		}
	}
}

// WithConfig sets the defaults applied to coordinators, list groups and
// auto-scrollers created from script.
func WithConfig(cfg config.Config) Option {
	return func(r *Runtime) {
		r.cfg = cfg
	}
}

// WithScriptSource sets how script elements with a src attribute are
// fetched. Without it they are skipped.
func WithScriptSource(fetch func(src string) (string, error)) Option {
	return func(r *Runtime) {
		r.fetch = fetch
	}
}

// Runtime wraps a goja JavaScript runtime bound to one document.
type Runtime struct {
	vm      *goja.Runtime
	doc     *dom.Document
	log     *zap.Logger
	cfg     config.Config
	fetch   func(src string) (string, error)
	binder  *DOMBinder
	console *goja.Object

	coords map[*dragdrop.Coordinator]*goja.Object
	items  map[*dragdrop.Item]*goja.Object
	// disposers release everything scripts created, newest first.
	disposers []func()

	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// NewRuntime creates a runtime whose scripts see doc as `document`.
func NewRuntime(doc *dom.Document, opts ...Option) *Runtime {
	r := &Runtime{
		vm:  goja.New(),
		doc: doc,
		log: zap.NewNop(),
		cfg: config.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.binder = NewDOMBinder(r)

	r.setupConsole()
	r.setupTimers()
	r.setupWindow()
	r.setupDragBindings()

	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Document returns the bound document.
func (r *Runtime) Document() *dom.Document {
	return r.doc
}

// SetOnError sets a callback for JavaScript errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	// Recover from panics in the goja parser/runtime
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.report(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.report(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code, naming it src in stack traces.
// Scripts are compiled in sloppy mode unless they opt into strict mode.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.report(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.report(err)
		return err
	}

	if _, err = r.vm.RunProgram(program); err != nil {
		r.report(err)
	}
	return err
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// ProcessTimers runs the document loop's due timers and posted tasks.
func (r *Runtime) ProcessTimers() int {
	return r.doc.Loop().Process()
}

// HasPendingWork reports whether timers or tasks are waiting.
func (r *Runtime) HasPendingWork() bool {
	return r.doc.Loop().HasPending()
}

// Dispose tears down every coordinator, list group and auto-scroller
// created from script.
func (r *Runtime) Dispose() {
	for i := len(r.disposers) - 1; i >= 0; i-- {
		r.disposers[i]()
	}
	r.disposers = nil
	r.binder.ClearCache()
}

func (r *Runtime) onDispose(fn func()) {
	r.disposers = append(r.disposers, fn)
}

func (r *Runtime) report(err error) {
	r.log.Error("script error", zap.Error(err))
	r.mu.Lock()
	r.errors = append(r.errors, err)
	handler := r.onError
	r.mu.Unlock()
	if handler != nil {
		handler(err)
	}
}

// call invokes a script callback, recording rather than propagating a
// thrown exception so the engine keeps running.
func (r *Runtime) call(fn goja.Callable, this goja.Value, args ...goja.Value) goja.Value {
	defer func() {
		if p := recover(); p != nil {
			r.report(fmt.Errorf("callback panic: %v", p))
		}
	}()
	v, err := fn(this, args...)
	if err != nil {
		r.report(err)
		return goja.Undefined()
	}
	return v
}

// throw raises err as a JavaScript Error in the calling script.
func (r *Runtime) throw(err error) {
	panic(r.vm.NewGoError(err))
}

// setupConsole creates a console object that logs through zap.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	logAt := func(fn func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			fn("console", zap.String("msg", formatArgs(call.Arguments)))
			return goja.Undefined()
		}
	}
	console.Set("log", logAt(r.log.Info))
	console.Set("info", logAt(r.log.Info))
	console.Set("warn", logAt(r.log.Warn))
	console.Set("error", logAt(r.log.Error))
	console.Set("debug", logAt(r.log.Debug))

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			r.log.Error("console", zap.String("msg", msg), zap.Bool("assert", true))
		}
		return goja.Undefined()
	})

	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := "default"
		if len(call.Arguments) > 0 {
			label = call.Arguments[0].String()
		}
		counts[label]++
		r.log.Info("console", zap.String("label", label), zap.Int("count", counts[label]))
		return goja.Undefined()
	})

	r.console = console
	r.vm.Set("console", console)
}

// setupTimers creates setTimeout, setInterval and friends on the document
// loop, so they fire alongside auto-scroll ticks.
func (r *Runtime) setupTimers() {
	schedule := func(repeat bool, minDelay int64) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				return goja.Undefined()
			}
			callback, ok := goja.AssertFunction(call.Arguments[0])
			if !ok {
				return goja.Undefined()
			}
			delay := int64(0)
			if len(call.Arguments) > 1 {
				delay = call.Arguments[1].ToInteger()
			}
			if delay < minDelay {
				delay = minDelay
			}
			var args []goja.Value
			if len(call.Arguments) > 2 {
				args = call.Arguments[2:]
			}
			run := func() { r.call(callback, goja.Undefined(), args...) }
			d := time.Duration(delay) * time.Millisecond
			if repeat {
				return r.vm.ToValue(r.doc.Loop().SetInterval(d, run))
			}
			return r.vm.ToValue(r.doc.Loop().SetTimeout(d, run))
		}
	}
	clear := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.doc.Loop().ClearTimer(int(call.Arguments[0].ToInteger()))
		}
		return goja.Undefined()
	}

	r.vm.Set("setTimeout", schedule(false, 0))
	// Minimum interval of 4ms as browsers clamp it
	r.vm.Set("setInterval", schedule(true, 4))
	r.vm.Set("clearTimeout", clear)
	r.vm.Set("clearInterval", clear)

	// requestAnimationFrame approximates 60fps with a 16ms timeout
	r.vm.Set("requestAnimationFrame", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			return goja.Undefined()
		}
		loop := r.doc.Loop()
		id := loop.SetTimeout(16*time.Millisecond, func() {
			ts := float64(loop.Now().UnixNano()) / 1e6
			r.call(callback, goja.Undefined(), r.vm.ToValue(ts))
		})
		return r.vm.ToValue(id)
	})
	r.vm.Set("cancelAnimationFrame", clear)
}

// setupWindow makes the global object the window and binds the document.
func (r *Runtime) setupWindow() {
	window := r.vm.GlobalObject()
	r.vm.Set("window", window)
	r.vm.Set("self", window)
	r.vm.Set("globalThis", window)

	window.DefineAccessorProperty("innerWidth", r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(r.doc.ViewportSize().Width)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("innerHeight", r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(r.doc.ViewportSize().Height)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("scrollX", r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		x, _ := r.doc.Scroll()
		return r.vm.ToValue(x)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("scrollY", r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		_, y := r.doc.Scroll()
		return r.vm.ToValue(y)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.Set("scrollTo", func(call goja.FunctionCall) goja.Value {
		r.doc.ScrollTo(argFloat(call, 0), argFloat(call, 1))
		return goja.Undefined()
	})

	r.vm.Set("document", r.binder.BindDocument(r.doc))
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}

func argFloat(call goja.FunctionCall, i int) float64 {
	if v := call.Argument(i); !goja.IsUndefined(v) && !goja.IsNull(v) {
		return v.ToFloat()
	}
	return 0
}

func argString(call goja.FunctionCall, i int) string {
	if v := call.Argument(i); !goja.IsUndefined(v) && !goja.IsNull(v) {
		return v.String()
	}
	return ""
}
