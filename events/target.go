// Package events provides the typed, synchronous listener registries used by
// the DOM and by every drag component. Firing an event is a plain call-out to
// the registered listeners, in registration order, on the caller's goroutine.
package events

// Type names an event, e.g. "dragstart".
type Type string

// Key identifies one registered listener. Keys are unique per Target.
type Key uint64

// Unlistener is implemented by anything that can drop a listener by key.
type Unlistener interface {
	Unlisten(key Key) bool
}

type listener[E any] struct {
	key     Key
	fn      func(E)
	once    bool
	capture bool
}

// Target manages the listeners for one event source. The zero value is ready
// to use. E is the payload type handed to every listener.
type Target[E any] struct {
	listeners map[Type][]listener[E]
	index     map[Key]Type
	nextKey   Key
}

// Listen registers fn for events of type typ and returns its key.
func (t *Target[E]) Listen(typ Type, fn func(E)) Key {
	return t.add(typ, fn, false, false)
}

// ListenOnce registers fn to be removed after its first call.
func (t *Target[E]) ListenOnce(typ Type, fn func(E)) Key {
	return t.add(typ, fn, true, false)
}

// ListenCapture registers fn for the capture phase. Only targets that
// dispatch in phases (the DOM) distinguish capture listeners.
func (t *Target[E]) ListenCapture(typ Type, fn func(E)) Key {
	return t.add(typ, fn, false, true)
}

func (t *Target[E]) add(typ Type, fn func(E), once, capture bool) Key {
	if t.listeners == nil {
		t.listeners = make(map[Type][]listener[E])
		t.index = make(map[Key]Type)
	}
	t.nextKey++
	key := t.nextKey
	t.listeners[typ] = append(t.listeners[typ], listener[E]{key: key, fn: fn, once: once, capture: capture})
	t.index[key] = typ
	return key
}

// Unlisten removes the listener registered under key. It reports whether a
// listener was removed.
func (t *Target[E]) Unlisten(key Key) bool {
	typ, ok := t.index[key]
	if !ok {
		return false
	}
	delete(t.index, key)
	ls := t.listeners[typ]
	for i, l := range ls {
		if l.key == key {
			// Copy so a Fire already iterating over the old slice is unaffected.
			next := make([]listener[E], 0, len(ls)-1)
			next = append(next, ls[:i]...)
			next = append(next, ls[i+1:]...)
			if len(next) == 0 {
				delete(t.listeners, typ)
			} else {
				t.listeners[typ] = next
			}
			return true
		}
	}
	return false
}

// RemoveAll drops every listener, or only those of the given types.
func (t *Target[E]) RemoveAll(types ...Type) {
	if len(types) == 0 {
		t.listeners = nil
		t.index = nil
		return
	}
	for _, typ := range types {
		for _, l := range t.listeners[typ] {
			delete(t.index, l.key)
		}
		delete(t.listeners, typ)
	}
}

// Fire calls every non-capture listener registered for typ.
func (t *Target[E]) Fire(typ Type, e E) {
	t.fire(typ, e, false, nil)
}

// FireCapture calls the capture listeners registered for typ.
func (t *Target[E]) FireCapture(typ Type, e E) {
	t.fire(typ, e, true, nil)
}

// FireUntil calls listeners for typ until stop returns true. It is used by
// dispatchers that support stopImmediatePropagation.
func (t *Target[E]) FireUntil(typ Type, e E, capture bool, stop func() bool) {
	t.fire(typ, e, capture, stop)
}

func (t *Target[E]) fire(typ Type, e E, capture bool, stop func() bool) {
	// Snapshot: listeners added or removed during dispatch do not affect it.
	ls := t.listeners[typ]
	for _, l := range ls {
		if l.capture != capture {
			continue
		}
		if _, live := t.index[l.key]; !live {
			continue
		}
		if l.once {
			t.Unlisten(l.key)
		}
		l.fn(e)
		if stop != nil && stop() {
			return
		}
	}
}

// Has reports whether any listener is registered for typ.
func (t *Target[E]) Has(typ Type) bool {
	return len(t.listeners[typ]) > 0
}

// Count returns the number of registered listeners across all types.
func (t *Target[E]) Count() int {
	return len(t.index)
}
