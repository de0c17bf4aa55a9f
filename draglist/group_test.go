package draglist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

func place(t *testing.T, doc *dom.Document, parent *dom.Element, id string, x, y, w, h float64) *dom.Element {
	t.Helper()
	el := doc.CreateElement("div")
	el.SetId(id)
	require.NoError(t, parent.AppendChild(el))
	el.SetGeometry(dom.ElementGeometry{X: x, Y: y, Width: w, Height: h})
	return el
}

func ids(list *dom.Element) []string {
	var out []string
	for _, c := range list.Children() {
		out = append(out, c.Id())
	}
	return out
}

type fixture struct {
	doc     *dom.Document
	list    *dom.Element
	a, b, c *dom.Element
	group   *Group
	journal []events.Type
}

// newFixture builds one downward list of three 100x10 items stacked at the
// top of the page.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{doc: dom.NewDocument()}
	f.list = place(t, f.doc, f.doc.Body(), "list", 0, 0, 100, 30)
	f.a = place(t, f.doc, f.list, "A", 0, 0, 100, 10)
	f.b = place(t, f.doc, f.list, "B", 0, 10, 100, 10)
	f.c = place(t, f.doc, f.list, "C", 0, 20, 100, 10)
	f.group = New(opts...)
	require.NoError(t, f.group.AddDragList(f.list, Down, true, "over"))
	f.group.Init()
	for _, typ := range []events.Type{
		EventBeforeDragStart, EventDragStart, EventBeforeDragMove,
		EventDragMove, EventBeforeDragEnd, EventDragEnd,
	} {
		typ := typ
		f.group.Listen(typ, func(*Event) { f.journal = append(f.journal, typ) })
	}
	return f
}

func (f *fixture) pointer(typ events.Type, x, y float64) {
	f.doc.DispatchPointer(dom.NewPointerEvent(typ, x, y))
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{Down, Up, Right, Left, Right2D, Left2D} {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	got, err := ParseDirection(" Right2D ")
	require.NoError(t, err)
	assert.Equal(t, Right2D, got)

	got, err = ParseDirection("left-2d")
	require.NoError(t, err)
	assert.Equal(t, Left2D, got)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
	assert.Equal(t, "Direction(42)", Direction(42).String())
}

func TestGroup_Registration(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.group.Initialized())
	assert.Equal(t, []*dom.Element{f.list}, f.group.Lists())
	assert.Len(t, f.group.Items(), 3)

	err := f.group.AddDragList(f.doc.CreateElement("div"), Down, true, "")
	assert.ErrorIs(t, err, ErrInitialized)

	err = f.group.AddItemToList(f.doc.Body(), f.doc.CreateElement("div"), 0)
	assert.True(t, errors.Is(err, ErrNotList))

	assert.ErrorIs(t, f.group.AddItemToList(f.list, f.b, 0), ErrDuplicateItem)

	d := f.doc.CreateElement("div")
	d.SetId("D")
	require.NoError(t, f.group.AddItemToList(f.list, d, 1))
	assert.Equal(t, []string{"A", "D", "B", "C"}, ids(f.list))
	assert.Len(t, f.group.Items(), 4)

	e := f.doc.CreateElement("div")
	e.SetId("E")
	require.NoError(t, f.group.AddItemToList(f.list, e, 99))
	assert.Equal(t, []string{"A", "D", "B", "C", "E"}, ids(f.list))
}

func TestHoverNextItem_Down(t *testing.T) {
	doc := dom.NewDocument()
	list := place(t, doc, doc.Body(), "list", 0, 0, 100, 30)
	a := place(t, doc, list, "A", 0, 0, 100, 10)
	b := place(t, doc, list, "B", 0, 10, 100, 10)

	g := New()
	require.NoError(t, g.AddDragList(list, Down, true, ""))
	g.Init()
	g.RecacheListAndItemBounds()
	l := g.listFor(list)

	assert.Same(t, a, g.hoverNextItem(l, geom.Pt(50, 5)))
	assert.Same(t, b, g.hoverNextItem(l, geom.Pt(50, 15)))
	assert.Nil(t, g.hoverNextItem(l, geom.Pt(50, 25)))
}

func TestHoverNextItem_Directions(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		reversed bool
		items    []geom.Rect
		at       geom.Coordinate
		want     int
	}{
		{
			name:  "up, below the first item",
			dir:   Up,
			items: []geom.Rect{geom.NewRect(0, 20, 10, 10), geom.NewRect(0, 10, 10, 10)},
			at:    geom.Pt(5, 25),
			want:  0,
		},
		{
			name:  "up, between items",
			dir:   Up,
			items: []geom.Rect{geom.NewRect(0, 20, 10, 10), geom.NewRect(0, 10, 10, 10)},
			at:    geom.Pt(5, 15),
			want:  1,
		},
		{
			name:  "up, past the last item",
			dir:   Up,
			items: []geom.Rect{geom.NewRect(0, 20, 10, 10), geom.NewRect(0, 10, 10, 10)},
			at:    geom.Pt(5, 5),
			want:  -1,
		},
		{
			name:  "right",
			dir:   Right,
			items: []geom.Rect{geom.NewRect(0, 0, 10, 10), geom.NewRect(10, 0, 10, 10)},
			at:    geom.Pt(15, 5),
			want:  1,
		},
		{
			name:  "right, past the end",
			dir:   Right,
			items: []geom.Rect{geom.NewRect(0, 0, 10, 10), geom.NewRect(10, 0, 10, 10)},
			at:    geom.Pt(25, 5),
			want:  -1,
		},
		{
			name:  "left",
			dir:   Left,
			items: []geom.Rect{geom.NewRect(20, 0, 10, 10), geom.NewRect(10, 0, 10, 10)},
			at:    geom.Pt(25, 5),
			want:  0,
		},
		{
			name:  "left, between items",
			dir:   Left,
			items: []geom.Rect{geom.NewRect(20, 0, 10, 10), geom.NewRect(10, 0, 10, 10)},
			at:    geom.Pt(15, 5),
			want:  1,
		},
		{
			name: "right2d picks from the closest row",
			dir:  Right2D,
			items: []geom.Rect{
				geom.NewRect(0, 0, 10, 10), geom.NewRect(10, 0, 10, 10),
				geom.NewRect(0, 10, 10, 10), geom.NewRect(10, 10, 10, 10),
			},
			at:   geom.Pt(15, 15),
			want: 3,
		},
		{
			name: "right2d first row",
			dir:  Right2D,
			items: []geom.Rect{
				geom.NewRect(0, 0, 10, 10), geom.NewRect(10, 0, 10, 10),
				geom.NewRect(0, 10, 10, 10), geom.NewRect(10, 10, 10, 10),
			},
			at:   geom.Pt(5, 5),
			want: 0,
		},
		{
			name: "right2d past the end of the last row",
			dir:  Right2D,
			items: []geom.Rect{
				geom.NewRect(0, 0, 10, 10), geom.NewRect(10, 0, 10, 10),
				geom.NewRect(0, 10, 10, 10), geom.NewRect(10, 10, 10, 10),
			},
			at:   geom.Pt(25, 15),
			want: -1,
		},
		{
			name: "right2d past the end of the first row",
			dir:  Right2D,
			items: []geom.Rect{
				geom.NewRect(0, 0, 10, 10), geom.NewRect(10, 0, 10, 10),
				geom.NewRect(0, 10, 10, 10), geom.NewRect(10, 10, 10, 10),
			},
			at:   geom.Pt(25, 5),
			want: -1,
		},
		{
			name: "left2d",
			dir:  Left2D,
			items: []geom.Rect{
				geom.NewRect(10, 0, 10, 10), geom.NewRect(0, 0, 10, 10),
				geom.NewRect(10, 10, 10, 10), geom.NewRect(0, 10, 10, 10),
			},
			at:   geom.Pt(5, 15),
			want: 3,
		},
		{
			name: "right2d odd-height rows measure from the upper middle",
			dir:  Right2D,
			items: []geom.Rect{
				geom.NewRect(0, 0, 10, 11), geom.NewRect(10, 0, 10, 11),
				geom.NewRect(0, 11, 10, 11), geom.NewRect(10, 11, 10, 11),
			},
			at:   geom.Pt(5, 10.75),
			want: 2,
		},
		{
			name:     "down with reversed document order",
			dir:      Down,
			reversed: true,
			items:    []geom.Rect{geom.NewRect(0, 10, 10, 10), geom.NewRect(0, 0, 10, 10)},
			at:       geom.Pt(5, 5),
			want:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := dom.NewDocument()
			list := place(t, doc, doc.Body(), "list", 0, 0, 100, 100)
			var items []*dom.Element
			for i, r := range tt.items {
				items = append(items, place(t, doc, list, string(rune('A'+i)), r.Left, r.Top, r.Width, r.Height))
			}
			g := New()
			require.NoError(t, g.AddDragList(list, tt.dir, !tt.reversed, ""))
			g.Init()
			g.RecacheListAndItemBounds()

			got := g.hoverNextItem(g.listFor(list), tt.at)
			if tt.want < 0 {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, items[tt.want], got)
		})
	}
}

func TestInsertCurrDragItem_ReversedOrder(t *testing.T) {
	doc := dom.NewDocument()
	list := place(t, doc, doc.Body(), "list", 0, 0, 100, 100)
	x := place(t, doc, list, "X", 0, 10, 10, 10)
	y := place(t, doc, list, "Y", 0, 0, 10, 10)
	z := place(t, doc, doc.Body(), "Z", 50, 50, 10, 10)

	g := New()
	require.NoError(t, g.AddDragList(list, Down, false, ""))
	l := g.listFor(list)
	g.currDragItem = z

	g.insertCurrDragItem(l, y)
	assert.Equal(t, []string{"X", "Y", "Z"}, ids(list))

	g.insertCurrDragItem(l, x)
	assert.Equal(t, []string{"X", "Z", "Y"}, ids(list))

	g.insertCurrDragItem(l, nil)
	assert.Equal(t, []string{"Z", "X", "Y"}, ids(list))
	g.insertCurrDragItem(l, nil)
	assert.Equal(t, []string{"Z", "X", "Y"}, ids(list))
}

func TestGroup_ReorderWithinList(t *testing.T) {
	f := newFixture(t)
	var moves []*Event
	f.group.Listen(EventDragMove, func(e *Event) { moves = append(moves, e) })

	f.pointer(dom.EventMouseDown, 5, 5)
	proxy := f.group.DraggerEl()
	require.NotNil(t, proxy)
	assert.Equal(t, "hidden", proxy.Style().Visibility())
	assert.False(t, f.group.IsDragging())

	f.pointer(dom.EventMouseMove, 5, 25)
	require.True(t, f.group.IsDragging())
	assert.Empty(t, proxy.Style().Visibility())
	assert.Equal(t, "hidden", f.a.Style().Visibility())
	assert.Equal(t, []string{"B", "A", "C"}, ids(f.list))
	assert.True(t, f.list.ClassList().Contains("over"))

	require.Len(t, moves, 1)
	assert.Equal(t, geom.Pt(50, 25), moves[0].DraggerElCenter)
	assert.Same(t, f.list, moves[0].HoverList)
	assert.Same(t, f.c, moves[0].HoverNextItem)

	f.pointer(dom.EventMouseUp, 5, 25)
	assert.False(t, f.group.IsDragging())
	assert.Nil(t, f.group.DraggerEl())
	assert.False(t, proxy.IsConnected())
	assert.Equal(t, []string{"B", "A", "C"}, ids(f.list))
	assert.Empty(t, f.a.Style().Visibility())
	assert.False(t, f.list.ClassList().Contains("over"))
	assert.Equal(t, []events.Type{
		EventBeforeDragStart, EventDragStart,
		EventBeforeDragMove, EventDragMove,
		EventBeforeDragEnd, EventDragEnd,
	}, f.journal)
}

func TestGroup_DropNowhereRestoresPosition(t *testing.T) {
	f := newFixture(t)

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 25)
	require.Equal(t, []string{"B", "A", "C"}, ids(f.list))

	f.pointer(dom.EventMouseMove, 5, 200)
	assert.Equal(t, "none", f.a.Style().Display())
	assert.False(t, f.list.ClassList().Contains("over"))

	f.pointer(dom.EventMouseUp, 5, 200)
	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
	assert.Empty(t, f.a.Style().Display())
	assert.Empty(t, f.a.Style().Visibility())
	assert.Contains(t, f.journal, EventDragEnd)
}

func TestGroup_AlwaysDisplayed(t *testing.T) {
	f := newFixture(t)
	f.group.SetCurrDragItemAlwaysDisplayed()

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 200)
	assert.Empty(t, f.a.Style().Display())
	f.pointer(dom.EventMouseUp, 5, 200)
	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
}

func TestGroup_HysteresisAndEarlyCancel(t *testing.T) {
	f := newFixture(t)

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 7, 6)
	assert.False(t, f.group.IsDragging())
	proxy := f.group.DraggerEl()
	require.NotNil(t, proxy)

	f.pointer(dom.EventMouseUp, 7, 6)
	assert.Nil(t, f.group.DraggerEl())
	assert.False(t, proxy.IsConnected())
	assert.Nil(t, f.group.CurrDragItem())
	assert.Empty(t, f.journal)
}

func TestGroup_BeforeDragStartVeto(t *testing.T) {
	f := newFixture(t)
	f.group.Listen(EventBeforeDragStart, func(e *Event) { e.PreventDefault() })

	f.pointer(dom.EventMouseDown, 5, 5)
	proxy := f.group.DraggerEl()
	f.pointer(dom.EventMouseMove, 5, 25)
	f.pointer(dom.EventMouseUp, 5, 25)

	assert.False(t, f.group.IsDragging())
	assert.False(t, proxy.IsConnected())
	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
	assert.Empty(t, f.a.Style().Visibility())
	assert.Equal(t, []events.Type{EventBeforeDragStart}, f.journal)
}

func TestGroup_BeforeDragMoveVeto(t *testing.T) {
	f := newFixture(t)
	f.group.Listen(EventBeforeDragMove, func(e *Event) { e.PreventDefault() })

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 25)
	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
	assert.NotContains(t, f.journal, EventDragMove)
	f.pointer(dom.EventMouseUp, 5, 25)
}

func TestGroup_BeforeDragEndVetoRestores(t *testing.T) {
	f := newFixture(t)
	f.group.Listen(EventBeforeDragEnd, func(e *Event) { e.PreventDefault() })

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 25)
	f.pointer(dom.EventMouseUp, 5, 25)

	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
	assert.NotContains(t, f.journal, EventDragEnd)
	assert.Nil(t, f.group.DraggerEl())
}

func TestGroup_BlurSnapsBack(t *testing.T) {
	f := newFixture(t)
	var end *Event
	f.group.Listen(EventDragEnd, func(e *Event) { end = e })

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 25)
	require.Equal(t, []string{"B", "A", "C"}, ids(f.list))

	f.doc.Blur()
	require.NotNil(t, end)
	assert.True(t, end.DragEvent.DragCanceled)
	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
	assert.False(t, f.group.IsDragging())
}

func TestGroup_NoUpdateWhileDragging(t *testing.T) {
	f := newFixture(t)
	f.group.SetUpdateWhileDragging(false)

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 25)
	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))

	f.pointer(dom.EventMouseUp, 5, 25)
	assert.Equal(t, []string{"B", "A", "C"}, ids(f.list))
}

func TestGroup_NoUpdateWhileDraggingDropNowhere(t *testing.T) {
	f := newFixture(t)
	f.group.SetUpdateWhileDragging(false)

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 25)
	f.pointer(dom.EventMouseMove, 5, 200)
	f.pointer(dom.EventMouseUp, 5, 200)

	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
	assert.Same(t, f.list, f.a.ParentElement())
	assert.Same(t, f.b, f.a.NextElementSibling())
	assert.False(t, f.group.IsDragging())
}

func TestGroup_CurrDragItemClass(t *testing.T) {
	f := newFixture(t)
	f.group.SetCurrDragItemClass("ghost")
	f.group.SetDraggerElClass("proxy")

	f.pointer(dom.EventMouseDown, 5, 5)
	assert.True(t, f.group.DraggerEl().ClassList().Contains("proxy"))
	f.pointer(dom.EventMouseMove, 5, 25)
	assert.True(t, f.a.ClassList().Contains("ghost"))
	assert.Empty(t, f.a.Style().Visibility())

	f.pointer(dom.EventMouseUp, 5, 25)
	assert.False(t, f.a.ClassList().Contains("ghost"))
}

func TestGroup_MoveAcrossLists(t *testing.T) {
	f := newFixture(t)
	doc := f.doc
	other := place(t, doc, doc.Body(), "other", 200, 0, 100, 30)
	x := place(t, doc, other, "X", 200, 0, 100, 10)

	g := New()
	require.NoError(t, g.AddDragList(f.list, Down, true, "over"))
	require.NoError(t, g.AddDragList(other, Down, true, "over"))
	g.Init()
	f.group.Dispose()

	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 205, 5)
	require.True(t, g.IsDragging())
	assert.Equal(t, []string{"A", "X"}, ids(other))
	assert.Equal(t, []string{"B", "C"}, ids(f.list))
	assert.True(t, other.ClassList().Contains("over"))
	assert.False(t, f.list.ClassList().Contains("over"))

	f.pointer(dom.EventMouseUp, 205, 5)
	assert.Equal(t, []string{"A", "X"}, ids(other))
	assert.Same(t, x, f.a.NextElementSibling())
	assert.False(t, other.ClassList().Contains("over"))
}

func TestGroup_ItemHoverClasses(t *testing.T) {
	doc := dom.NewDocument()
	list := place(t, doc, doc.Body(), "list", 0, 0, 100, 20)
	a := place(t, doc, list, "A", 0, 0, 100, 10)
	b := place(t, doc, list, "B", 0, 10, 100, 10)
	grip := place(t, doc, b, "grip", 0, 10, 10, 10)

	g := New()
	g.SetDragItemHoverClass("hl")
	g.SetDragItemHandleHoverClass("grab")
	g.SetHandleFunc(func(item *dom.Element) *dom.Element {
		if item == b {
			return grip
		}
		return nil
	})
	require.NoError(t, g.AddDragList(list, Down, true, ""))
	g.Init()

	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseMove, 50, 5))
	assert.True(t, a.ClassList().Contains("hl"))
	assert.True(t, a.ClassList().Contains("grab"), "an item without a handle is its own handle")

	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseMove, 50, 15))
	assert.False(t, a.ClassList().Contains("hl"))
	assert.True(t, b.ClassList().Contains("hl"))
	assert.False(t, grip.ClassList().Contains("grab"))

	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseMove, 5, 15))
	assert.True(t, b.ClassList().Contains("hl"), "moving onto a child keeps the item hovered")
	assert.True(t, grip.ClassList().Contains("grab"))

	// Only the handle starts a drag.
	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseDown, 50, 15))
	assert.Nil(t, g.CurrDragItem())
	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseUp, 50, 15))
	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseDown, 5, 15))
	assert.Same(t, b, g.CurrDragItem())

	g.Dispose()
	assert.Nil(t, g.CurrDragItem())
	assert.False(t, b.ClassList().Contains("hl"))
	assert.False(t, grip.ClassList().Contains("grab"))
}

func TestGroup_DisposeMidDragRestores(t *testing.T) {
	f := newFixture(t)
	f.pointer(dom.EventMouseDown, 5, 5)
	f.pointer(dom.EventMouseMove, 5, 25)
	proxy := f.group.DraggerEl()

	f.group.Dispose()
	assert.Equal(t, []string{"A", "B", "C"}, ids(f.list))
	assert.False(t, proxy.IsConnected())
	assert.Empty(t, f.a.Style().Visibility())
	assert.False(t, f.group.IsDragging())

	f.pointer(dom.EventMouseDown, 5, 5)
	assert.Nil(t, f.group.CurrDragItem())
}
