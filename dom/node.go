package dom

import (
	"strings"

	"github.com/chrisuehlinger/dropzone/events"
)

// Node represents a node in the tree. Document, Element and Text share it;
// only the data block matching nodeType is non-nil.
type Node struct {
	nodeType   NodeType
	nodeName   string
	ownerDoc   *Document
	parentNode *Node

	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	elementData  *elementData
	textData     *string
	documentData *documentData
}

// elementData holds data specific to Element nodes.
type elementData struct {
	tagName    string
	attributes []attribute
	classList  *DOMTokenList
	style      *CSSStyleDeclaration
	geometry   *ElementGeometry
	listeners  events.Target[*Event]
	scrollTop  float64
	scrollLeft float64
}

type attribute struct {
	name  string
	value string
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the tag name for elements, "#text" or "#document".
func (n *Node) NodeName() string {
	return n.nodeName
}

// OwnerDocument returns the document this node belongs to.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent node, or nil.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent if it is an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// FirstChild returns the first child node.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes reports whether the node has children.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes returns a snapshot of the children.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

// IsConnected reports whether the node is attached to its document.
func (n *Node) IsConnected() bool {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root.nodeType == DocumentNode
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for ; other != nil; other = other.parentNode {
		if other == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n.nodeType == TextNode {
		return *n.textData
	}
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == TextNode {
			sb.WriteString(*c.textData)
		} else {
			c.collectText(sb)
		}
	}
}

// SetTextContent replaces the children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.nodeType == TextNode {
		*n.textData = text
		n.ownerDoc.invalidateLayout()
		return
	}
	for n.firstChild != nil {
		n.removeChild(n.firstChild)
	}
	if text != "" {
		n.insertBefore(n.ownerDoc.CreateTextNode(text), nil)
	}
}

// AppendChild adds a child at the end, moving it from any previous parent.
func (n *Node) AppendChild(child *Node) (*Node, error) {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) (*Node, error) {
	if child == nil {
		return nil, ErrHierarchyRequest("child is nil")
	}
	if n.nodeType == TextNode {
		return nil, ErrHierarchyRequest("text nodes cannot have children")
	}
	if child.nodeType == DocumentNode {
		return nil, ErrHierarchyRequest("a document cannot be inserted")
	}
	if child.Contains(n) {
		return nil, ErrHierarchyRequest("the new child is an ancestor of the parent")
	}
	if ref != nil && ref.parentNode != n {
		return nil, ErrNotFound("the reference node is not a child of this node")
	}
	if ref == child {
		return child, nil
	}
	if child.parentNode != nil {
		child.parentNode.removeChild(child)
	}
	n.insertBefore(child, ref)
	return child, nil
}

func (n *Node) insertBefore(child, ref *Node) {
	child.parentNode = n
	if ref == nil {
		child.prevSibling = n.lastChild
		child.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
	} else {
		child.prevSibling = ref.prevSibling
		child.nextSibling = ref
		if ref.prevSibling != nil {
			ref.prevSibling.nextSibling = child
		} else {
			n.firstChild = child
		}
		ref.prevSibling = child
	}
	n.ownerDocument().invalidateLayout()
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) (*Node, error) {
	if child == nil || child.parentNode != n {
		return nil, ErrNotFound("the node to be removed is not a child of this node")
	}
	n.removeChild(child)
	return child, nil
}

func (n *Node) removeChild(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
	if doc := n.ownerDocument(); doc != nil {
		doc.nodeRemoved(child)
		doc.invalidateLayout()
	}
}

// CloneNode copies the node. Listeners, geometry and scroll state are not
// copied; attributes (and so classes and inline style) are.
func (n *Node) CloneNode(deep bool) *Node {
	var clone *Node
	switch n.nodeType {
	case TextNode:
		clone = n.ownerDoc.CreateTextNode(*n.textData)
	case ElementNode:
		el := n.ownerDoc.CreateElement(n.elementData.tagName)
		el.elementData.attributes = append([]attribute(nil), n.elementData.attributes...)
		clone = el.AsNode()
	default:
		return nil
	}
	if deep {
		for c := n.firstChild; c != nil; c = c.nextSibling {
			clone.insertBefore(c.CloneNode(true), nil)
		}
	}
	return clone
}

func (n *Node) ownerDocument() *Document {
	if n.nodeType == DocumentNode {
		return (*Document)(n)
	}
	return n.ownerDoc
}
