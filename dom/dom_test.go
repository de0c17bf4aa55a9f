package dom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()
	require.NotNil(t, doc.DocumentElement())
	assert.Equal(t, "HTML", doc.DocumentElement().TagName())
	require.NotNil(t, doc.Body())
	assert.Equal(t, "body", doc.Body().LocalName())
	assert.NotNil(t, doc.Head())
}

func TestElement_Attributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("DIV")
	assert.Equal(t, "div", el.LocalName())

	el.SetAttribute("data-x", "1")
	el.SetId("box")
	assert.True(t, el.HasAttribute("DATA-X"))
	assert.Equal(t, "box", el.Id())
	assert.Equal(t, []string{"data-x", "id"}, el.AttributeNames())

	el.RemoveAttribute("data-x")
	assert.False(t, el.HasAttribute("data-x"))
}

func TestElement_ClassList(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	cl := el.ClassList()

	require.NoError(t, cl.Add("a", "b", "a"))
	assert.Equal(t, "a b", el.ClassName())
	assert.True(t, cl.Contains("b"))

	require.NoError(t, cl.Remove("a"))
	assert.Equal(t, "b", el.ClassName())

	on, err := cl.Toggle("c")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"b", "c"}, cl.Values())

	el.SetClassName("x  x y")
	assert.Equal(t, 2, cl.Length())

	err = cl.Add("has space")
	var domErr *DOMError
	require.True(t, errors.As(err, &domErr))
	assert.Equal(t, "InvalidCharacterError", domErr.Name)
	assert.ErrorIs(t, cl.Add(""), ErrSyntax(""))
}

func TestElement_Style(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	st := el.Style()

	st.SetProperty("position", "absolute")
	st.SetProperty("zIndex", "3")
	assert.Equal(t, "position: absolute; z-index: 3;", el.GetAttribute("style"))
	assert.Equal(t, "3", st.GetPropertyValue("z-index"))

	st.SetVisibility("hidden")
	assert.Equal(t, "hidden", st.Visibility())
	st.SetVisibility("")
	assert.Empty(t, st.Visibility())

	el.SetAttribute("style", "display: none")
	assert.Equal(t, "none", st.Display())
	assert.Equal(t, 1, st.Length())

	st.RemoveProperty("display")
	assert.False(t, el.HasAttribute("style"))
}

func TestNode_TreeOperations(t *testing.T) {
	doc := NewDocument()
	list := doc.CreateElement("ul")
	a, b, c := doc.CreateElement("li"), doc.CreateElement("li"), doc.CreateElement("li")
	require.NoError(t, doc.Body().AppendChild(list))
	require.NoError(t, list.AppendChild(a))
	require.NoError(t, list.AppendChild(c))
	require.NoError(t, list.InsertBefore(b, c))

	assert.Equal(t, []*Element{a, b, c}, list.Children())
	assert.Equal(t, b, a.NextElementSibling())
	assert.Equal(t, b, c.PreviousElementSibling())
	assert.True(t, list.Contains(b))
	assert.True(t, b.IsConnected())

	// Re-inserting moves the element.
	require.NoError(t, list.InsertBefore(c, a))
	assert.Equal(t, []*Element{c, a, b}, list.Children())
	assert.Equal(t, c, list.FirstElementChild())
	assert.Equal(t, b, list.LastElementChild())

	b.Remove()
	assert.Nil(t, b.ParentElement())
	assert.False(t, b.IsConnected())
	assert.Equal(t, 2, list.ChildElementCount())
}

func TestNode_HierarchyErrors(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	require.NoError(t, parent.AppendChild(child))

	err := child.AppendChild(parent)
	assert.ErrorIs(t, err, ErrHierarchyRequest(""))

	stranger := doc.CreateElement("p")
	err = parent.InsertBefore(doc.CreateElement("i"), stranger)
	assert.ErrorIs(t, err, ErrNotFound(""))

	err = parent.RemoveChild(stranger)
	assert.ErrorIs(t, err, ErrNotFound(""))
}

func TestNode_CloneNode(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	el.SetClassName("item")
	el.Style().SetProperty("color", "red")
	el.SetTextContent("hello")
	el.AddEventListener(EventMouseDown, func(*Event) {})

	shallow := el.CloneNode(false)
	assert.Equal(t, "item", shallow.ClassName())
	assert.Empty(t, shallow.TextContent())
	assert.Zero(t, shallow.ListenerCount())

	deep := el.CloneNode(true)
	assert.Equal(t, "hello", deep.TextContent())
	assert.Equal(t, "red", deep.Style().GetPropertyValue("color"))

	deep.ClassList().Add("proxy")
	assert.False(t, el.ClassList().Contains("proxy"))
}

func TestDocument_Lookup(t *testing.T) {
	doc := NewDocument()
	a := doc.CreateElement("div")
	a.SetId("a")
	a.SetClassName("list horizontal")
	b := doc.CreateElement("div")
	b.SetClassName("list")
	require.NoError(t, doc.Body().AppendChild(a))
	require.NoError(t, a.AppendChild(b))

	assert.Equal(t, a, doc.GetElementById("a"))
	assert.Nil(t, doc.GetElementById("missing"))
	assert.Equal(t, []*Element{a, b}, doc.GetElementsByClassName("list"))
	assert.Equal(t, []*Element{a}, doc.GetElementsByClassName("list horizontal"))
}
