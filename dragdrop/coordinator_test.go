package dragdrop

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

// addEl appends a div to parent with the given page box.
func addEl(t *testing.T, parent *dom.Element, top, left, bottom, right float64) *dom.Element {
	t.Helper()
	el := parent.OwnerDocument().CreateElement("div")
	require.NoError(t, parent.AppendChild(el))
	el.SetGeometry(dom.ElementGeometry{X: left, Y: top, Width: right - left, Height: bottom - top})
	return el
}

func press(doc *dom.Document, x, y float64) {
	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseDown, x, y))
}

func move(doc *dom.Document, x, y float64) {
	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseMove, x, y))
}

func release(doc *dom.Document, x, y float64) {
	doc.DispatchPointer(dom.NewPointerEvent(dom.EventMouseUp, x, y))
}

// beginDrag presses at (x, y) and moves just far enough to start a drag.
func beginDrag(t *testing.T, doc *dom.Document, c *Coordinator, x, y float64) {
	t.Helper()
	press(doc, x, y)
	move(doc, x+DefaultInitDragDistance, y)
	require.True(t, c.IsDragging(), "drag should have started")
}

// journal records coordinator events as "name:type".
type journal struct {
	entries []string
	events  []*Event
}

func (j *journal) watch(name string, c *Coordinator, types ...events.Type) {
	if len(types) == 0 {
		types = []events.Type{EventDragStart, EventDragOver, EventDragOut, EventDrag, EventDrop, EventDragEnd}
	}
	for _, typ := range types {
		c.Listen(typ, func(e *Event) {
			j.entries = append(j.entries, fmt.Sprintf("%s:%s", name, e.Type))
			j.events = append(j.events, e)
		})
	}
}

func (j *journal) reset() {
	j.entries, j.events = nil, nil
}

func TestNewSingle_RequiresElement(t *testing.T) {
	_, err := NewSingle(nil, nil)
	assert.ErrorIs(t, err, ErrNoElement)

	c := NewGroup()
	assert.ErrorIs(t, c.AddItem(nil, nil), ErrNoElement)
	assert.ErrorIs(t, c.AddScrollableContainer(nil), ErrNoElement)
}

func TestCoordinator_EnterAndLeaveTarget(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	tgtEl := addEl(t, doc.Body(), 0, 100, 20, 120)

	src, err := NewSingle(srcEl, "src")
	require.NoError(t, err)
	tgt, err := NewSingle(tgtEl, "tgt")
	require.NoError(t, err)
	src.AddTarget(src)
	src.AddTarget(tgt)
	src.Init()
	tgt.Init()

	j := &journal{}
	j.watch("src", src, EventDragOver, EventDragOut)
	j.watch("tgt", tgt, EventDragOver, EventDragOut)

	beginDrag(t, doc, src, 10, 10)
	box, ok := src.TargetBox()
	require.True(t, ok)
	assert.Equal(t, geom.Box{Top: 0, Right: 120, Bottom: 20, Left: 0}, box)

	move(doc, 110, 10)
	assert.Equal(t, []string{"src:dragover", "tgt:dragover"}, j.entries)
	for _, e := range j.events {
		assert.Equal(t, tgt, e.DropTarget)
		assert.Equal(t, tgt.Items()[0], e.DropTargetItem)
		assert.Equal(t, tgtEl, e.DropTargetElement)
		assert.Equal(t, src.Items()[0], e.DragSourceItem)
	}

	j.reset()
	move(doc, 112, 12)
	assert.Empty(t, j.entries, "moving inside the same target fires nothing")

	move(doc, 500, 500)
	assert.Equal(t, []string{"src:dragout", "tgt:dragout"}, j.entries)
	assert.Nil(t, src.ActiveTarget())
}

func TestCoordinator_DummyTargetBetweenTargets(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 200, 0, 220, 20)
	left := addEl(t, doc.Body(), 0, 0, 20, 20)
	right := addEl(t, doc.Body(), 0, 100, 20, 120)

	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt := NewGroup()
	require.NoError(t, tgt.AddItem(left, nil))
	require.NoError(t, tgt.AddItem(right, nil))
	src.AddTarget(tgt)
	src.Init()

	j := &journal{}
	j.watch("tgt", tgt, EventDragOver, EventDragOut)

	beginDrag(t, doc, src, 10, 210)
	move(doc, 60, 10)

	active := src.ActiveTarget()
	require.NotNil(t, active)
	assert.True(t, active.IsDummy())
	assert.Equal(t, geom.Box{Top: 0, Right: 100, Bottom: 20, Left: 20}, active.Box())
	assert.Equal(t, 1600.0, active.Box().Area())
	assert.Empty(t, j.entries, "the dummy target fires no over events")

	move(doc, 70, 15)
	assert.Same(t, active, src.ActiveTarget(), "the dummy target is reused")

	move(doc, 110, 10)
	assert.Equal(t, []string{"tgt:dragover"}, j.entries)
	assert.Equal(t, right, src.ActiveTarget().Element())
}

func TestCoordinator_TouchingTargetEdges(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 200, 0, 220, 20)
	a := addEl(t, doc.Body(), 0, 0, 20, 20)
	b := addEl(t, doc.Body(), 0, 20, 20, 40)

	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt := NewGroup()
	require.NoError(t, tgt.AddItem(a, nil))
	require.NoError(t, tgt.AddItem(b, nil))
	src.AddTarget(tgt)
	src.Init()

	beginDrag(t, doc, src, 10, 210)
	box, ok := src.TargetBox()
	require.True(t, ok)
	assert.Equal(t, geom.Box{Top: 0, Right: 40, Bottom: 20, Left: 0}, box)

	move(doc, 20, 10)
	require.NotNil(t, src.ActiveTarget())
	assert.Equal(t, b, src.ActiveTarget().Element(), "a shared edge belongs to the right-hand target")

	move(doc, 40, 10)
	assert.Nil(t, src.ActiveTarget(), "the right edge of the target box is outside")

	move(doc, 10, 20)
	assert.Nil(t, src.ActiveTarget(), "the bottom edge of the target box is outside")
}

func TestCoordinator_DummyBelowMinimumArea(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 200, 0, 220, 20)
	a := addEl(t, doc.Body(), 0, 0, 20, 20)
	b := addEl(t, doc.Body(), 0, 20.2, 20, 40)

	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt := NewGroup()
	require.NoError(t, tgt.AddItem(a, nil))
	require.NoError(t, tgt.AddItem(b, nil))
	src.AddTarget(tgt)
	src.Init()

	beginDrag(t, doc, src, 10, 210)
	move(doc, 20.1, 10)
	assert.Nil(t, src.ActiveTarget())
}

func TestCoordinator_DropOrder(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	tgtEl := addEl(t, doc.Body(), 0, 100, 20, 120)

	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt, err := NewSingle(tgtEl, "payload")
	require.NoError(t, err)
	src.AddTarget(tgt)
	src.Init()

	j := &journal{}
	j.watch("src", src)
	j.watch("tgt", tgt)

	beginDrag(t, doc, src, 10, 10)
	assert.Equal(t, []string{"src:dragstart"}, j.entries)
	require.Equal(t, 3, doc.Body().ChildElementCount(), "proxy attached to the body")

	move(doc, 110, 10)
	j.reset()
	release(doc, 110, 10)

	assert.Equal(t, []string{"src:drag", "tgt:drop", "src:dragend"}, j.entries)
	drop := j.events[1]
	assert.Equal(t, "payload", drop.DropTargetItem.Data)
	assert.Equal(t, 110.0, drop.PageX)
	end := j.events[2]
	assert.Equal(t, tgt, end.DropTarget)
	assert.Equal(t, tgtEl, end.DropTargetElement)

	assert.False(t, src.IsDragging())
	assert.Nil(t, src.DragElement())
	assert.Nil(t, src.TargetList())
	assert.Equal(t, 2, doc.Body().ChildElementCount(), "proxy removed")
	assert.Nil(t, doc.PointerCapture())
	assert.Zero(t, doc.ListenerCount())
}

func TestCoordinator_EndWithoutTarget(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	tgtEl := addEl(t, doc.Body(), 0, 100, 20, 120)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt, err := NewSingle(tgtEl, nil)
	require.NoError(t, err)
	src.AddTarget(tgt)
	src.Init()

	j := &journal{}
	j.watch("src", src, EventDrop, EventDragEnd)
	j.watch("tgt", tgt, EventDrop)

	beginDrag(t, doc, src, 10, 10)
	move(doc, 300, 300)
	release(doc, 300, 300)

	assert.Equal(t, []string{"src:dragend"}, j.entries)
	assert.Nil(t, j.events[0].DropTarget)
	assert.Equal(t, 2, doc.Body().ChildElementCount())
}

func TestCoordinator_BlurCancelsWithoutDrop(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	tgtEl := addEl(t, doc.Body(), 0, 100, 20, 120)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt, err := NewSingle(tgtEl, nil)
	require.NoError(t, err)
	src.AddTarget(tgt)
	src.Init()

	j := &journal{}
	j.watch("src", src, EventDrop, EventDragEnd)
	j.watch("tgt", tgt, EventDrop)

	beginDrag(t, doc, src, 10, 10)
	move(doc, 110, 10)
	require.NotNil(t, src.ActiveTarget())
	doc.Blur()

	assert.Equal(t, []string{"src:dragend"}, j.entries)
	assert.Nil(t, j.events[0].DropTarget)
	assert.False(t, src.IsDragging())
	assert.Equal(t, 2, doc.Body().ChildElementCount())
}

func TestCoordinator_CancelDrag(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	ends := 0
	src.Listen(EventDragEnd, func(*Event) { ends++ })
	beginDrag(t, doc, src, 10, 10)
	src.CancelDrag()
	assert.Equal(t, 1, ends)
	assert.False(t, src.IsDragging())

	src.CancelDrag()
	assert.Equal(t, 1, ends, "cancel without a drag is a no-op")
}

func TestCoordinator_DragStartVeto(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()
	src.Listen(EventDragStart, func(e *Event) { e.PreventDefault() })

	press(doc, 10, 10)
	move(doc, 16, 10)

	assert.False(t, src.IsDragging())
	assert.Nil(t, src.DragElement())
	assert.Equal(t, 1, doc.Body().ChildElementCount(), "no proxy is created")
	assert.Nil(t, doc.PointerCapture())
	assert.False(t, src.Items()[0].Pending())
}

func TestCoordinator_Hysteresis(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	starts := 0
	src.Listen(EventDragStart, func(*Event) { starts++ })

	press(doc, 10, 10)
	move(doc, 13, 13)
	assert.Zero(t, starts)
	assert.True(t, src.Items()[0].Pending())

	move(doc, 13, 14)
	assert.Equal(t, 1, starts)
	move(doc, 18, 18)
	assert.Equal(t, 1, starts)
}

func TestCoordinator_CustomInitDragDistance(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 40, 40)
	src, err := NewSingle(srcEl, nil, WithInitDragDistance(20))
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	press(doc, 5, 5)
	move(doc, 20, 5)
	assert.False(t, src.IsDragging())
	move(doc, 25, 5)
	assert.True(t, src.IsDragging())
}

func TestItem_LeavingElementStartsDrag(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	addEl(t, srcEl, 0, 0, 10, 10)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	press(doc, 8, 8)
	move(doc, 11, 8)
	assert.False(t, src.IsDragging(), "moving from a child into the item stays pending")
	assert.Equal(t, srcEl, doc.Hovered())
	release(doc, 11, 8)

	press(doc, 18, 10)
	move(doc, 21, 10)
	assert.True(t, src.IsDragging(), "leaving the element starts the drag")
}

func TestItem_ReleaseBeforeThreshold(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	press(doc, 10, 10)
	release(doc, 10, 10)
	assert.False(t, src.Items()[0].Pending())
	assert.Equal(t, 2, srcEl.ListenerCount(), "only the press listeners remain")
}

func TestItem_IgnoresSecondaryButton(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	ev := dom.NewPointerEvent(dom.EventMouseDown, 10, 10)
	ev.Button = dom.ButtonSecondary
	doc.DispatchPointer(ev)
	assert.False(t, src.Items()[0].Pending())
}

func TestItem_HandleFunc(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 40, 40)
	grip := addEl(t, srcEl, 0, 0, 10, 10)
	src := NewGroup()
	it, err := NewItem(srcEl, nil)
	require.NoError(t, err)
	it.SetHandleFunc(func(target *dom.Element) *dom.Element {
		if grip.Contains(target) {
			return grip
		}
		return nil
	})
	require.NoError(t, src.AddDragDropItem(it))
	src.AddTarget(src)
	src.Init()

	press(doc, 30, 30)
	assert.False(t, it.Pending(), "press outside the grip is ignored")

	press(doc, 5, 5)
	assert.True(t, it.Pending())
	assert.Equal(t, grip, it.CurrentDragElement())
	move(doc, 5, 9)
	assert.False(t, src.IsDragging())
	move(doc, 5, 11)
	assert.True(t, src.IsDragging())
}

func TestCoordinator_SecondStartIsNoop(t *testing.T) {
	doc := dom.NewDocument()
	a := addEl(t, doc.Body(), 0, 0, 20, 20)
	b := addEl(t, doc.Body(), 0, 50, 20, 70)
	src := NewGroup()
	require.NoError(t, src.AddItem(a, nil))
	require.NoError(t, src.AddItem(b, nil))
	src.AddTarget(src)
	src.Init()

	starts := 0
	src.Listen(EventDragStart, func(*Event) { starts++ })
	beginDrag(t, doc, src, 10, 10)
	first := src.DragElement()

	src.startDrag(dom.NewPointerEvent(dom.EventMouseMove, 60, 10), src.Items()[1])
	assert.Equal(t, 1, starts)
	assert.Equal(t, src.Items()[0], src.DragItem())
	assert.Same(t, first, src.DragElement())
}

func TestCoordinator_ProxyPlacement(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := doc.CreateElement("div")
	require.NoError(t, doc.Body().AppendChild(srcEl))
	srcEl.SetGeometry(dom.ElementGeometry{
		X: 10, Y: 30, Width: 20, Height: 20,
		Margin: dom.EdgeSizes{Top: 6, Left: 4},
	})
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	src.SetDragClass("dragging")
	src.AddTarget(src)
	src.Init()

	beginDrag(t, doc, src, 15, 40)
	proxy := src.DragElement()
	require.NotNil(t, proxy)
	assert.True(t, proxy.ClassList().Contains("dragging"))
	assert.False(t, srcEl.ClassList().Contains("dragging"))
	assert.Equal(t, "absolute", proxy.Style().GetPropertyValue("position"))
	assert.Equal(t, "6px", proxy.Style().GetPropertyValue("left"))
	assert.Equal(t, "24px", proxy.Style().GetPropertyValue("top"))
	assert.Equal(t, doc.Body(), proxy.ParentElement())

	move(doc, 30, 50)
	assert.Equal(t, "16px", proxy.Style().GetPropertyValue("left"))
	assert.Equal(t, "34px", proxy.Style().GetPropertyValue("top"))
}

func TestCoordinator_DragLimits(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := doc.CreateElement("div")
	require.NoError(t, doc.Body().AppendChild(srcEl))
	srcEl.SetGeometry(dom.ElementGeometry{X: 10, Y: 30, Width: 20, Height: 20})
	src, err := NewSingle(srcEl, nil, WithDragLimits(geom.NewRect(0, math.NaN(), 40, math.NaN())))
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	beginDrag(t, doc, src, 15, 40)
	move(doc, 200, 60)
	proxy := src.DragElement()
	require.NotNil(t, proxy)
	assert.Equal(t, "40px", proxy.Style().GetPropertyValue("left"))
	assert.Equal(t, "50px", proxy.Style().GetPropertyValue("top"))
}

func TestCoordinator_DragElementFactory(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	var made *dom.Element
	src, err := NewSingle(srcEl, nil, WithDragElementFactory(func(source *dom.Element) *dom.Element {
		made = source.OwnerDocument().CreateElement("span")
		return made
	}))
	require.NoError(t, err)
	src.AddTarget(src)
	src.Init()

	beginDrag(t, doc, src, 10, 10)
	assert.Same(t, made, src.DragElement())
}

func TestCoordinator_InitRemoveItemsTeardown(t *testing.T) {
	doc := dom.NewDocument()
	a := addEl(t, doc.Body(), 0, 0, 20, 20)
	b := addEl(t, doc.Body(), 0, 50, 20, 70)
	src := NewGroup()
	require.NoError(t, src.AddItem(a, nil))
	src.SetSourceClass("source")
	src.SetTargetClass("target")
	src.AddTarget(src)
	src.Init()
	require.NoError(t, src.AddItem(b, nil), "items added after init wire themselves")

	for _, el := range []*dom.Element{a, b} {
		assert.Equal(t, 2, el.ListenerCount())
		assert.True(t, el.ClassList().Contains("source"))
		assert.True(t, el.ClassList().Contains("target"))
	}

	src.RemoveItems()
	src.RemoveItems()
	for _, el := range []*dom.Element{a, b} {
		assert.Zero(t, el.ListenerCount())
		assert.Zero(t, el.ClassList().Length())
	}
	assert.Empty(t, src.Items())
}

func TestCoordinator_RemoveItem(t *testing.T) {
	doc := dom.NewDocument()
	a := addEl(t, doc.Body(), 0, 0, 20, 20)
	b := addEl(t, doc.Body(), 0, 50, 20, 70)
	src := NewGroup()
	require.NoError(t, src.AddItem(a, nil))
	require.NoError(t, src.AddItem(b, nil))
	src.AddTarget(src)
	src.Init()

	beginDrag(t, doc, src, 10, 10)
	assert.True(t, src.RemoveItem(a), "removing the dragged item cancels the drag")
	assert.False(t, src.IsDragging())
	assert.Zero(t, a.ListenerCount())
	assert.False(t, src.RemoveItem(a))
	require.Len(t, src.Items(), 1)
	assert.Equal(t, b, src.Items()[0].Element())
}

func TestCoordinator_Subtargets(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 0, 0, 20, 20)
	tgtEl := addEl(t, doc.Body(), 0, 100, 100, 120)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt, err := NewSingle(tgtEl, nil)
	require.NoError(t, err)
	src.AddTarget(tgt)
	src.SetSubtargetFunction(func(_ *Item, box geom.Box, _, y float64) string {
		if y < box.Center().Y {
			return "upper"
		}
		return "lower"
	})
	src.Init()

	var seen []string
	record := func(e *Event) { seen = append(seen, fmt.Sprintf("%s/%s", e.Type, e.Subtarget)) }
	tgt.Listen(EventDragOver, record)
	tgt.Listen(EventDragOut, record)
	tgt.Listen(EventDrop, record)

	beginDrag(t, doc, src, 10, 10)
	move(doc, 110, 10)
	move(doc, 110, 20)
	move(doc, 110, 80)
	release(doc, 110, 80)

	assert.Equal(t, []string{"dragover/upper", "dragout/upper", "dragover/lower", "drop/lower"}, seen)
}

func TestCoordinator_UsesPageCoordinates(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 290, 0, 310, 20)
	tgtEl := addEl(t, doc.Body(), 300, 100, 320, 120)
	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt, err := NewSingle(tgtEl, nil)
	require.NoError(t, err)
	src.AddTarget(tgt)
	src.Init()
	doc.ScrollTo(0, 290)

	overs := 0
	tgt.Listen(EventDragOver, func(*Event) { overs++ })
	beginDrag(t, doc, src, 10, 10)
	move(doc, 110, 20)
	assert.Equal(t, 1, overs)
}

// containerFixture builds a 100x100 scrolling container holding two full
// width targets, T1 at y 0..20 and T2 at y 60..80, and a source below it.
func containerFixture(t *testing.T, initialScroll float64) (*dom.Document, *dom.Element, *Coordinator) {
	t.Helper()
	doc := dom.NewDocument()
	container := doc.CreateElement("div")
	require.NoError(t, doc.Body().AppendChild(container))
	container.SetGeometry(dom.ElementGeometry{X: 0, Y: 0, Width: 100, Height: 100, ScrollHeight: 300})
	container.SetScrollTop(initialScroll)

	t1 := addEl(t, container, 0, 0, 20, 100)
	t2 := addEl(t, container, 60, 0, 80, 100)
	srcEl := addEl(t, doc.Body(), 200, 0, 220, 20)

	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt := NewGroup()
	require.NoError(t, tgt.AddItem(t1, nil))
	require.NoError(t, tgt.AddItem(t2, nil))
	src.AddTarget(tgt)
	require.NoError(t, src.AddScrollableContainer(container))
	src.Init()
	return doc, container, src
}

func TestCoordinator_ContainerScrollShiftsTargets(t *testing.T) {
	doc, container, src := containerFixture(t, 8)
	beginDrag(t, doc, src, 10, 210)

	sc := src.ScrollableContainers()[0]
	require.Len(t, sc.Targets(), 2)

	move(doc, 50, 40)
	dummy := src.ActiveTarget()
	require.NotNil(t, dummy)
	require.True(t, dummy.IsDummy())
	require.Equal(t, geom.Box{Top: 20, Right: 100, Bottom: 60, Left: 0}, dummy.Box())

	before := make([]geom.Box, len(src.TargetList()))
	for i, tg := range src.TargetList() {
		before[i] = tg.Box()
	}

	// Content moves down by 8px.
	container.SetScrollTop(0)

	for i, tg := range src.TargetList() {
		assert.Equal(t, before[i].Top+8, tg.Box().Top)
		assert.Equal(t, before[i].Bottom+8, tg.Box().Bottom)
		assert.Equal(t, before[i].Left, tg.Box().Left)
	}
	assert.Equal(t, geom.Box{Top: 28, Right: 100, Bottom: 60, Left: 0}, src.ActiveTarget().Box())
}

func TestCoordinator_ScrollReconciliationUpward(t *testing.T) {
	doc, container, src := containerFixture(t, 0)
	beginDrag(t, doc, src, 10, 210)
	move(doc, 50, 40)
	require.True(t, src.ActiveTarget().IsDummy())

	container.SetScrollTop(8)

	boxes := []geom.Box{src.TargetList()[0].Box(), src.TargetList()[1].Box()}
	assert.Equal(t, geom.Box{Top: -8, Right: 100, Bottom: 12, Left: 0}, boxes[0])
	assert.Equal(t, geom.Box{Top: 52, Right: 100, Bottom: 72, Left: 0}, boxes[1])
	assert.Equal(t, geom.Box{Top: 20, Right: 100, Bottom: 52, Left: 0}, src.ActiveTarget().Box())
}

func TestCoordinator_ContainerClipsHits(t *testing.T) {
	doc := dom.NewDocument()
	container := doc.CreateElement("div")
	require.NoError(t, doc.Body().AppendChild(container))
	container.SetGeometry(dom.ElementGeometry{X: 0, Y: 0, Width: 100, Height: 100, ScrollHeight: 300})
	tall := addEl(t, container, 90, 0, 130, 100)
	srcEl := addEl(t, doc.Body(), 200, 0, 220, 20)

	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt, err := NewSingle(tall, nil)
	require.NoError(t, err)
	src.AddTarget(tgt)
	require.NoError(t, src.AddScrollableContainer(container))
	src.Init()

	overs := 0
	tgt.Listen(EventDragOver, func(*Event) { overs++ })
	beginDrag(t, doc, src, 10, 210)

	move(doc, 50, 120)
	assert.Zero(t, overs, "the scrolled-away part of a target is not a hit")
	require.NotNil(t, src.ActiveTarget())
	assert.True(t, src.ActiveTarget().IsDummy())

	move(doc, 50, 95)
	assert.Equal(t, 1, overs)

	src.RemoveAllScrollableContainers()
	assert.Nil(t, src.TargetList()[0].Container())
}

func TestCoordinator_DraggableElements(t *testing.T) {
	doc := dom.NewDocument()
	srcEl := addEl(t, doc.Body(), 200, 0, 220, 20)
	tgtEl := addEl(t, doc.Body(), 0, 0, 100, 100)
	zone := addEl(t, tgtEl, 40, 40, 60, 60)

	src, err := NewSingle(srcEl, nil)
	require.NoError(t, err)
	tgt, err := NewSingle(tgtEl, nil, WithDraggableElements(func(*Item) []*dom.Element {
		return []*dom.Element{zone}
	}))
	require.NoError(t, err)
	src.AddTarget(tgt)
	src.Init()

	beginDrag(t, doc, src, 10, 210)
	require.Len(t, src.TargetList(), 1)
	assert.Equal(t, zone, src.TargetList()[0].Element())
	assert.Equal(t, geom.Box{Top: 40, Right: 60, Bottom: 60, Left: 40}, src.TargetList()[0].Box())
}
