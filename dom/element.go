package dom

import (
	"strings"

	"github.com/chrisuehlinger/dropzone/events"
)

// Element represents an element in the tree.
type Element Node

// AsNode returns the element as a *Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// OwnerDocument returns the document that created the element.
func (e *Element) OwnerDocument() *Document {
	return e.ownerDoc
}

// TagName returns the upper-cased tag name.
func (e *Element) TagName() string {
	return strings.ToUpper(e.elementData.tagName)
}

// LocalName returns the lower-cased tag name.
func (e *Element) LocalName() string {
	return e.elementData.tagName
}

// Id returns the id attribute.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the id attribute.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the class attribute.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns the live token list backed by the class attribute.
func (e *Element) ClassList() *DOMTokenList {
	if e.elementData.classList == nil {
		e.elementData.classList = newDOMTokenList(e, "class")
	}
	return e.elementData.classList
}

// Style returns the inline style declaration backed by the style attribute.
func (e *Element) Style() *CSSStyleDeclaration {
	if e.elementData.style == nil {
		e.elementData.style = newCSSStyleDeclaration(e)
	}
	return e.elementData.style
}

// GetAttribute returns the named attribute, or "" when absent.
func (e *Element) GetAttribute(name string) string {
	v, _ := e.LookupAttribute(name)
	return v
}

// LookupAttribute returns the named attribute and whether it is present.
func (e *Element) LookupAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.elementData.attributes {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.LookupAttribute(name)
	return ok
}

// SetAttribute sets an attribute, keeping insertion order for new names.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	e.setAttributeValue(name, value)
	if name == "style" && e.elementData.style != nil {
		e.elementData.style.refresh()
	}
}

func (e *Element) setAttributeValue(name, value string) {
	attrs := e.elementData.attributes
	found := false
	for i := range attrs {
		if attrs[i].name == name {
			if attrs[i].value == value {
				return
			}
			attrs[i].value = value
			found = true
			break
		}
	}
	if !found {
		e.elementData.attributes = append(attrs, attribute{name: name, value: value})
	}
	e.ownerDoc.invalidateLayout()
}

// RemoveAttribute removes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	e.removeAttributeValue(name)
	if name == "style" && e.elementData.style != nil {
		e.elementData.style.refresh()
	}
}

func (e *Element) removeAttributeValue(name string) {
	attrs := e.elementData.attributes
	for i := range attrs {
		if attrs[i].name == name {
			e.elementData.attributes = append(attrs[:i], attrs[i+1:]...)
			e.ownerDoc.invalidateLayout()
			return
		}
	}
}

// AttributeNames returns the attribute names in order.
func (e *Element) AttributeNames() []string {
	names := make([]string, len(e.elementData.attributes))
	for i, a := range e.elementData.attributes {
		names[i] = a.name
	}
	return names
}

// ParentElement returns the parent element, or nil.
func (e *Element) ParentElement() *Element {
	return e.AsNode().ParentElement()
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			out = append(out, (*Element)(c))
		}
	}
	return out
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	n := 0
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			n++
		}
	}
	return n
}

// FirstElementChild returns the first element child.
func (e *Element) FirstElementChild() *Element {
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// LastElementChild returns the last element child.
func (e *Element) LastElementChild() *Element {
	for c := e.lastChild; c != nil; c = c.prevSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling that is an element.
func (e *Element) NextElementSibling() *Element {
	for s := e.nextSibling; s != nil; s = s.nextSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling that is an element.
func (e *Element) PreviousElementSibling() *Element {
	for s := e.prevSibling; s != nil; s = s.prevSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// AppendChild appends child to e.
func (e *Element) AppendChild(child *Element) error {
	_, err := e.AsNode().AppendChild(child.AsNode())
	return err
}

// InsertBefore inserts child before ref; a nil ref appends.
func (e *Element) InsertBefore(child, ref *Element) error {
	_, err := e.AsNode().InsertBefore(child.AsNode(), ref.AsNode())
	return err
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child *Element) error {
	_, err := e.AsNode().RemoveChild(child.AsNode())
	return err
}

// Remove detaches e from its parent, if any.
func (e *Element) Remove() {
	if p := e.parentNode; p != nil {
		p.removeChild(e.AsNode())
	}
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	return e.AsNode().Contains(other.AsNode())
}

// CloneNode copies the element and, if deep, its subtree.
func (e *Element) CloneNode(deep bool) *Element {
	return (*Element)(e.AsNode().CloneNode(deep))
}

// TextContent returns the concatenated text of the subtree.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the children with one text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// IsConnected reports whether e is attached to its document.
func (e *Element) IsConnected() bool {
	return e.AsNode().IsConnected()
}

// AddEventListener registers fn for the bubble and target phases.
func (e *Element) AddEventListener(typ events.Type, fn func(*Event)) events.Key {
	return e.elementData.listeners.Listen(typ, fn)
}

// AddCaptureListener registers fn for the capture phase.
func (e *Element) AddCaptureListener(typ events.Type, fn func(*Event)) events.Key {
	return e.elementData.listeners.ListenCapture(typ, fn)
}

// Unlisten removes a listener registered on e. It lets elements be recorded
// in an events.Group.
func (e *Element) Unlisten(key events.Key) bool {
	return e.elementData.listeners.Unlisten(key)
}

// ListenerCount returns the number of listeners on e.
func (e *Element) ListenerCount() int {
	return e.elementData.listeners.Count()
}

// DispatchEvent dispatches ev with e as its target and reports whether the
// default action is still allowed.
func (e *Element) DispatchEvent(ev *Event) bool {
	return e.ownerDoc.dispatch(e, ev)
}
