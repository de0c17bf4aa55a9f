package scenario

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/dropzone/js"
)

// Status is the outcome of one check.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	StatusError
	StatusSkip
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusError:
		return "ERROR"
	case StatusSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// TestResult is the outcome of one named check.
type TestResult struct {
	Name    string
	Status  Status
	Message string
}

type pendingTest struct {
	name string
	fn   goja.Callable
}

// Harness gives page scripts test() and assert_* helpers. Tests registered
// with test() run after the scenario's steps, not when registered.
type Harness struct {
	runtime *js.Runtime
	pending []pendingTest
	results []TestResult
}

// NewHarness binds a harness to runtime.
func NewHarness(runtime *js.Runtime) *Harness {
	return &Harness{runtime: runtime}
}

// Setup installs the harness globals.
func (h *Harness) Setup() {
	vm := h.runtime.VM()

	vm.Set("test", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("test: first argument must be a function"))
		}
		name := fmt.Sprintf("test %d", len(h.pending)+1)
		if v := call.Argument(1); !goja.IsUndefined(v) {
			name = v.String()
		}
		h.pending = append(h.pending, pendingTest{name: name, fn: fn})
		return goja.Undefined()
	})

	fail := func(format string, args ...any) {
		panic(vm.NewGoError(fmt.Errorf(format, args...)))
	}
	desc := func(call goja.FunctionCall, i int) string {
		if v := call.Argument(i); !goja.IsUndefined(v) {
			return v.String()
		}
		return ""
	}
	vm.Set("assert_true", func(call goja.FunctionCall) goja.Value {
		if actual := call.Argument(0); !actual.StrictEquals(vm.ToValue(true)) {
			fail("assert_true: %s: expected true got %s", desc(call, 1), actual)
		}
		return goja.Undefined()
	})
	vm.Set("assert_false", func(call goja.FunctionCall) goja.Value {
		if actual := call.Argument(0); !actual.StrictEquals(vm.ToValue(false)) {
			fail("assert_false: %s: expected false got %s", desc(call, 1), actual)
		}
		return goja.Undefined()
	})
	vm.Set("assert_equals", func(call goja.FunctionCall) goja.Value {
		actual, expected := call.Argument(0), call.Argument(1)
		if !actual.SameAs(expected) {
			fail("assert_equals: %s: expected %s got %s", desc(call, 2), expected, actual)
		}
		return goja.Undefined()
	})
	vm.Set("assert_array_equals", func(call goja.FunctionCall) goja.Value {
		a, b := exportStrings(vm, call.Argument(0)), exportStrings(vm, call.Argument(1))
		if len(a) != len(b) || strings.Join(a, "\x00") != strings.Join(b, "\x00") {
			fail("assert_array_equals: %s: expected [%s] got [%s]", desc(call, 2),
				strings.Join(b, ", "), strings.Join(a, ", "))
		}
		return goja.Undefined()
	})
}

// exportStrings reads an array-like value as strings.
func exportStrings(vm *goja.Runtime, v goja.Value) []string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj := v.ToObject(vm)
	n := int(obj.Get("length").ToInteger())
	out := make([]string, n)
	for i := range out {
		out[i] = obj.Get(fmt.Sprint(i)).String()
	}
	return out
}

// Check evaluates expr and records whether it was truthy.
func (h *Harness) Check(name, expr string) {
	if name == "" {
		name = expr
	}
	v, err := h.runtime.VM().RunString(expr)
	switch {
	case err != nil:
		h.record(name, StatusError, err.Error())
	case !v.ToBoolean():
		h.record(name, StatusFail, "expected a truthy result from "+expr)
	default:
		h.record(name, StatusPass, "")
	}
}

// RunPending runs every test() registered so far.
func (h *Harness) RunPending() {
	pending := h.pending
	h.pending = nil
	for _, t := range pending {
		if _, err := t.fn(goja.Undefined()); err != nil {
			h.record(t.name, StatusFail, err.Error())
			continue
		}
		h.record(t.name, StatusPass, "")
	}
}

// SkipPending records every registered test as skipped, as when the steps
// could not be replayed.
func (h *Harness) SkipPending(reason string) {
	for _, t := range h.pending {
		h.record(t.name, StatusSkip, reason)
	}
	h.pending = nil
}

func (h *Harness) record(name string, status Status, msg string) {
	h.results = append(h.results, TestResult{Name: name, Status: status, Message: msg})
}

// Results returns the recorded outcomes in order.
func (h *Harness) Results() []TestResult {
	return h.results
}

// Summary counts outcomes.
func (h *Harness) Summary() (passed, failed, skipped int) {
	return summarize(h.results)
}

func summarize(results []TestResult) (passed, failed, skipped int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail, StatusError:
			failed++
		case StatusSkip:
			skipped++
		}
	}
	return
}
