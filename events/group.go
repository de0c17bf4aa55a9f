package events

// Group remembers listener registrations made across several targets so
// they can be dropped together, e.g. everything installed for the duration
// of one pointer gesture.
type Group struct {
	bindings []binding
}

type binding struct {
	src Unlistener
	key Key
}

// Add records that key was registered on src.
func (g *Group) Add(src Unlistener, key Key) {
	g.bindings = append(g.bindings, binding{src: src, key: key})
}

// Remove unlistens a single recorded registration.
func (g *Group) Remove(src Unlistener, key Key) bool {
	for i, b := range g.bindings {
		if b.src == src && b.key == key {
			g.bindings = append(g.bindings[:i], g.bindings[i+1:]...)
			return src.Unlisten(key)
		}
	}
	return false
}

// RemoveAll unlistens every recorded registration.
func (g *Group) RemoveAll() {
	bindings := g.bindings
	g.bindings = nil
	for _, b := range bindings {
		b.src.Unlisten(b.key)
	}
}

// Len returns the number of live registrations recorded in the group.
func (g *Group) Len() int {
	return len(g.bindings)
}
