package dom

import (
	"testing"

	"github.com/chrisuehlinger/dropzone/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDOMRect_Edges(t *testing.T) {
	r := NewDOMRect(100, 20, -50, 30)
	assert.Equal(t, 50.0, r.Left())
	assert.Equal(t, 100.0, r.Right())
	assert.Equal(t, 20.0, r.Top())
	assert.Equal(t, 50.0, r.Bottom())
	assert.Equal(t, geom.NewBox(20, 100, 50, 50), r.ToBox())
	assert.Equal(t, geom.NewRect(50, 20, 50, 30), r.ToRect())
}

func TestElement_GeometryQueries(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	el.SetGeometry(ElementGeometry{
		X: 10, Y: 20, Width: 100, Height: 50,
		Margin: EdgeSizes{Top: 4, Left: 2},
		Border: EdgeSizes{Top: 1, Right: 1, Bottom: 1, Left: 1},
	})

	assert.Equal(t, geom.Pt(10, 20), el.PageOffset())
	assert.Equal(t, geom.Size{Width: 100, Height: 50}, el.Size())
	assert.Equal(t, geom.NewRect(10, 20, 100, 50), el.Bounds())
	assert.Equal(t, EdgeSizes{Top: 4, Left: 2}, el.MarginBox())
	assert.Equal(t, 98.0, el.ClientWidth())
	assert.Equal(t, 48.0, el.ClientHeight())

	doc.ScrollTo(5, 7)
	r := el.GetBoundingClientRect()
	assert.Equal(t, 5.0, r.X)
	assert.Equal(t, 13.0, r.Y)
}

func TestElement_ScrollClampsAndFires(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	el.SetGeometry(ElementGeometry{Width: 100, Height: 100, ScrollHeight: 250})
	fired := 0
	el.AddEventListener(EventScroll, func(ev *Event) {
		fired++
		assert.Equal(t, el, ev.Target)
	})

	el.SetScrollTop(40)
	assert.Equal(t, 40.0, el.ScrollTop())
	el.SetScrollTop(1000)
	assert.Equal(t, 150.0, el.ScrollTop())
	el.SetScrollTop(1000)
	el.SetScrollTop(-5)
	assert.Equal(t, 0.0, el.ScrollTop())
	assert.Equal(t, 3, fired)

	// No horizontal overflow.
	el.SetScrollLeft(10)
	assert.Equal(t, 0.0, el.ScrollLeft())
}

type countingLayouter struct {
	runs int
}

func (l *countingLayouter) Layout(doc *Document) {
	l.runs++
	doc.Walk(func(e *Element) bool {
		e.SetBounds(geom.NewRect(0, 0, 10, 10))
		return true
	})
}

func TestDocument_LazyLayout(t *testing.T) {
	doc := NewDocument()
	l := &countingLayouter{}
	doc.SetLayouter(l)
	assert.True(t, doc.LayoutDirty())

	el := doc.CreateElement("div")
	require.NoError(t, doc.Body().AppendChild(el))
	assert.Zero(t, l.runs)

	assert.Equal(t, 10.0, el.OffsetWidth())
	el.Size()
	assert.Equal(t, 1, l.runs)

	el.ClassList().Add("moved")
	el.Bounds()
	assert.Equal(t, 2, l.runs)
	assert.False(t, doc.LayoutDirty())
}
