// Package draglist reorders elements within and across a set of lists while
// one of them is dragged. Each list has a growth direction; as the proxy
// moves, the dragged element is relocated in the tree to where it would be
// dropped, and the surrounding layout reflows around it.
package draglist

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/drag"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

// DefaultHysteresis is the pointer travel, in pixels, before a drag starts.
const DefaultHysteresis = 3

var (
	// ErrInitialized is returned when lists are added after Init.
	ErrInitialized = errors.New("draglist: group already initialized")
	// ErrNotList is returned for elements that are not registered lists.
	ErrNotList = errors.New("draglist: element is not a drag list")
	// ErrDuplicateItem is returned when an item is already in the list.
	ErrDuplicateItem = errors.New("draglist: item already in list")
)

// Option configures a Group.
type Option func(*Group)

// WithHysteresis sets the distance the pointer travels before a drag starts.
func WithHysteresis(distance float64) Option {
	return func(g *Group) { g.hysteresis = distance }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Group) {
		if l != nil {
			g.log = l
		}
	}
}

type dragList struct {
	element    *dom.Element
	direction  Direction
	docOrder   bool
	hoverClass string
}

// Group is a set of lists whose items can be dragged to reorder them or to
// move them from one list to another.
type Group struct {
	log       *zap.Logger
	listeners events.Target[*Event]

	lists       []*dragList
	items       []*dom.Element
	handleFunc  func(item *dom.Element) *dom.Element
	itemBinds   events.Group
	initialized bool
	disposed    bool

	hysteresis          float64
	updateWhileDragging bool
	alwaysDisplayed     bool
	itemHoverClasses    []string
	handleHoverClasses  []string
	currItemClasses     []string
	draggerElClasses    []string

	// Drag session.
	session      events.Group
	dragger      *drag.Dragger
	draggerEl    *dom.Element
	currDragItem *dom.Element
	dragging     bool
	hidden       bool
	savedDisplay string
	savedVis     string
	halfWidth    float64
	halfHeight   float64
	origList     *dom.Element
	origNextItem *dom.Element
	hoverList    *dragList
	pendingList  *dragList
	pendingNext  *dom.Element
	bounds       map[*dom.Element]geom.Rect
}

// New returns an empty group.
func New(opts ...Option) *Group {
	g := &Group{
		log:                 zap.NewNop(),
		hysteresis:          DefaultHysteresis,
		updateWhileDragging: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Listen registers fn for events of type typ.
func (g *Group) Listen(typ events.Type, fn func(*Event)) events.Key {
	return g.listeners.Listen(typ, fn)
}

// Unlisten removes a listener registered with Listen.
func (g *Group) Unlisten(key events.Key) bool {
	return g.listeners.Unlisten(key)
}

// AddDragList registers a list. Its element children become draggable
// items on Init. docOrder reports whether document order matches growth
// order; when false the last child is the first item in growth order.
// hoverClass, if set, is applied to the list while the proxy is over it.
func (g *Group) AddDragList(list *dom.Element, dir Direction, docOrder bool, hoverClass string) error {
	if g.initialized {
		return ErrInitialized
	}
	if list == nil {
		return fmt.Errorf("add list: %w", ErrNotList)
	}
	if g.listFor(list) != nil {
		return nil
	}
	g.lists = append(g.lists, &dragList{
		element:    list,
		direction:  dir,
		docOrder:   docOrder,
		hoverClass: hoverClass,
	})
	return nil
}

// Lists returns the registered list elements.
func (g *Group) Lists() []*dom.Element {
	out := make([]*dom.Element, len(g.lists))
	for i, l := range g.lists {
		out[i] = l.element
	}
	return out
}

// Items returns the elements currently set up as draggable items.
func (g *Group) Items() []*dom.Element {
	return append([]*dom.Element(nil), g.items...)
}

// SetHysteresis sets the distance the pointer travels before a drag starts.
func (g *Group) SetHysteresis(distance float64) {
	g.hysteresis = distance
}

// SetUpdateWhileDragging controls whether the dragged item moves through
// the lists during the drag. When off, the item stays put until the drop.
func (g *Group) SetUpdateWhileDragging(on bool) {
	g.updateWhileDragging = on
}

// SetCurrDragItemAlwaysDisplayed keeps the dragged item visible even when
// the proxy is outside every list.
func (g *Group) SetCurrDragItemAlwaysDisplayed() {
	g.alwaysDisplayed = true
}

// SetDragItemHoverClass sets classes applied to an item under the pointer.
func (g *Group) SetDragItemHoverClass(classes ...string) {
	g.itemHoverClasses = classes
}

// SetDragItemHandleHoverClass sets classes applied to a handle under the
// pointer.
func (g *Group) SetDragItemHandleHoverClass(classes ...string) {
	g.handleHoverClasses = classes
}

// SetCurrDragItemClass sets classes applied to the dragged item in place of
// hiding it.
func (g *Group) SetCurrDragItemClass(classes ...string) {
	g.currItemClasses = classes
}

// SetDraggerElClass sets classes applied to the proxy.
func (g *Group) SetDraggerElClass(classes ...string) {
	g.draggerElClasses = classes
}

// SetHandleFunc sets how the handle of an item is found. By default an
// item is its own handle.
func (g *Group) SetHandleFunc(fn func(item *dom.Element) *dom.Element) {
	g.handleFunc = fn
}

// Init makes every current child of every list draggable.
func (g *Group) Init() {
	if g.initialized || g.disposed {
		return
	}
	for _, l := range g.lists {
		for _, item := range l.element.Children() {
			g.listenForDragEvents(item)
		}
	}
	g.initialized = true
	g.log.Debug("drag list group initialized",
		zap.Int("lists", len(g.lists)), zap.Int("items", len(g.items)))
}

// Initialized reports whether Init has run.
func (g *Group) Initialized() bool {
	return g.initialized
}

// AddItemToList inserts item into list before the child at index, or at
// the end if index is out of range.
func (g *Group) AddItemToList(list, item *dom.Element, index int) error {
	if g.listFor(list) == nil {
		return fmt.Errorf("add item: %w", ErrNotList)
	}
	if item.ParentElement() == list {
		return ErrDuplicateItem
	}
	var before *dom.Element
	if children := list.Children(); index >= 0 && index < len(children) {
		before = children[index]
	}
	if err := list.InsertBefore(item, before); err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	if g.initialized {
		g.listenForDragEvents(item)
	}
	return nil
}

// IsDragging reports whether an item is being dragged.
func (g *Group) IsDragging() bool {
	return g.dragging
}

// CurrDragItem returns the item being dragged, or nil.
func (g *Group) CurrDragItem() *dom.Element {
	return g.currDragItem
}

// DraggerEl returns the proxy, or nil.
func (g *Group) DraggerEl() *dom.Element {
	return g.draggerEl
}

// Dispose cancels any drag and detaches from every item.
func (g *Group) Dispose() {
	if g.disposed {
		return
	}
	if g.currDragItem != nil {
		g.revert()
		g.cleanup()
	}
	g.itemBinds.RemoveAll()
	for _, item := range g.items {
		g.removeClasses(item, g.itemHoverClasses)
		g.removeClasses(g.handleFor(item), g.handleHoverClasses)
	}
	g.items = nil
	g.lists = nil
	g.listeners.RemoveAll()
	g.disposed = true
}

func (g *Group) listFor(el *dom.Element) *dragList {
	if el == nil {
		return nil
	}
	for _, l := range g.lists {
		if l.element == el {
			return l
		}
	}
	return nil
}

func (g *Group) handleFor(item *dom.Element) *dom.Element {
	if g.handleFunc != nil {
		if h := g.handleFunc(item); h != nil {
			return h
		}
	}
	return item
}

func (g *Group) listenForDragEvents(item *dom.Element) {
	for _, it := range g.items {
		if it == item {
			return
		}
	}
	handle := g.handleFor(item)
	if len(g.itemHoverClasses) > 0 {
		g.bindHover(item, g.itemHoverClasses)
	}
	if len(g.handleHoverClasses) > 0 {
		g.bindHover(handle, g.handleHoverClasses)
	}
	g.items = append(g.items, item)
	start := func(e *dom.Event) { g.handlePotentialDragStart(item, e) }
	g.itemBinds.Add(handle, handle.AddEventListener(dom.EventMouseDown, start))
	g.itemBinds.Add(handle, handle.AddEventListener(dom.EventTouchStart, start))
}

func (g *Group) bindHover(el *dom.Element, classes []string) {
	g.itemBinds.Add(el, el.AddEventListener(dom.EventMouseOver, func(*dom.Event) {
		g.addClasses(el, classes)
	}))
	g.itemBinds.Add(el, el.AddEventListener(dom.EventMouseOut, func(e *dom.Event) {
		if e.RelatedTarget != nil && el.Contains(e.RelatedTarget) {
			return
		}
		g.removeClasses(el, classes)
	}))
}

func (g *Group) handlePotentialDragStart(item *dom.Element, e *dom.Event) {
	if g.currDragItem != nil || g.disposed {
		return
	}
	doc := item.OwnerDocument()
	root := doc.Body()
	if root == nil {
		root = doc.DocumentElement()
	}
	if root == nil {
		g.log.Warn("no root to attach the drag element to")
		return
	}

	el := item.CloneNode(true)
	g.addClasses(el, g.draggerElClasses)
	st := el.Style()
	st.SetProperty("margin", "0")
	st.SetProperty("position", "absolute")
	st.SetProperty("pointer-events", "none")
	st.SetVisibility("hidden")
	if err := root.AppendChild(el); err != nil {
		g.log.Warn("attaching drag element", zap.Error(err))
		return
	}
	pos := item.PageOffset()
	st.SetProperty("left", px(pos.X))
	st.SetProperty("top", px(pos.Y))

	dragger, err := drag.New(el, drag.WithHysteresis(g.hysteresis), drag.WithLogger(g.log))
	if err != nil {
		g.log.Warn("creating dragger", zap.Error(err))
		el.Remove()
		return
	}
	g.currDragItem, g.draggerEl, g.dragger = item, el, dragger
	g.session.Add(dragger, dragger.Listen(drag.EventStart, g.handleDragStart))
	g.session.Add(dragger, dragger.Listen(drag.EventDrag, g.handleDragMove))
	g.session.Add(dragger, dragger.Listen(drag.EventEnd, g.handleDragEnd))
	g.session.Add(dragger, dragger.Listen(drag.EventEarlyCancel, func(*drag.Event) { g.cleanup() }))

	dragger.StartDrag(e)
	e.PreventDefault()
}

func (g *Group) handleDragStart(de *drag.Event) {
	item := g.currDragItem
	if !g.fire(g.newEvent(EventBeforeDragStart, de)) {
		de.PreventDefault()
		g.cleanup()
		return
	}

	g.origList = item.ParentElement()
	g.origNextItem = item.NextElementSibling()
	g.hoverList = g.listFor(g.origList)
	g.pendingList, g.pendingNext = g.hoverList, g.origNextItem

	st := item.Style()
	g.savedDisplay = st.Display()
	if len(g.currItemClasses) > 0 {
		g.addClasses(item, g.currItemClasses)
	} else {
		g.savedVis = st.Visibility()
		st.SetVisibility("hidden")
	}
	g.draggerEl.Style().RemoveProperty("visibility")

	size := g.draggerEl.Size()
	if size.Width == 0 && size.Height == 0 {
		size = item.Size()
	}
	g.halfWidth, g.halfHeight = size.Width/2, size.Height/2

	// Cache bounds as if the item were in no list, unless it stays in place
	// for the whole drag.
	if g.updateWhileDragging {
		st.SetDisplay("none")
	}
	g.RecacheListAndItemBounds()
	st.SetDisplay(g.savedDisplay)

	g.dragging = true
	g.log.Debug("list drag started", zap.Int("lists", len(g.lists)))
	g.fire(g.newEvent(EventDragStart, de))
}

// RecacheListAndItemBounds snapshots the bounds of every list and of every
// item other than the dragged one.
func (g *Group) RecacheListAndItemBounds() {
	g.bounds = make(map[*dom.Element]geom.Rect, len(g.lists)+len(g.items))
	for _, l := range g.lists {
		g.bounds[l.element] = l.element.Bounds()
	}
	for _, item := range g.items {
		if item != g.currDragItem {
			g.bounds[item] = item.Bounds()
		}
	}
}

func (g *Group) handleDragMove(de *drag.Event) {
	if !g.dragging {
		return
	}
	center := geom.Pt(de.Left+g.halfWidth, de.Top+g.halfHeight)
	hover := g.hoverDragList(center)
	var next *dom.Element
	if hover != nil {
		next = g.hoverNextItem(hover, center)
	}

	ev := g.newEvent(EventBeforeDragMove, de)
	ev.DraggerElCenter = center
	ev.HoverNextItem = next
	if hover != nil {
		ev.HoverList = hover.element
	}
	if !g.fire(ev) || g.currDragItem == nil {
		return
	}

	if hover != nil {
		if g.updateWhileDragging {
			g.insertCurrDragItem(hover, next)
		} else {
			g.pendingList, g.pendingNext = hover, next
		}
		g.show()
		for _, l := range g.lists {
			if l == hover {
				g.addClasses(l.element, []string{l.hoverClass})
			} else {
				g.removeClasses(l.element, []string{l.hoverClass})
			}
		}
	} else {
		g.pendingList, g.pendingNext = nil, nil
		if !g.alwaysDisplayed {
			g.hide()
		}
		g.removeListHoverClasses()
	}

	if hover != g.hoverList {
		g.hoverList = hover
		g.RecacheListAndItemBounds()
	}

	moved := g.newEvent(EventDragMove, de)
	moved.DraggerElCenter = center
	moved.HoverList = ev.HoverList
	moved.HoverNextItem = next
	g.fire(moved)
}

// hoverDragList returns the list under center. The list holding the
// visible dragged item is checked first against its live bounds, since its
// cached bounds assume the item is absent.
func (g *Group) hoverDragList(center geom.Coordinate) *dragList {
	var prev *dragList
	if !g.hidden {
		prev = g.listFor(g.currDragItem.ParentElement())
		if prev != nil && prev.element.Bounds().ContainsStrict(center) {
			return prev
		}
	}
	for _, l := range g.lists {
		if l == prev {
			continue
		}
		if b, ok := g.bounds[l.element]; ok && b.ContainsStrict(center) {
			return l
		}
	}
	return nil
}

// hoverNextItem returns the item the dragged one should precede in growth
// order, or nil to place it last.
func (g *Group) hoverNextItem(l *dragList, center geom.Coordinate) *dom.Element {
	var (
		coord     float64
		bound     func(geom.Rect) float64
		before    func(a, b float64) bool
		rowAware  bool
		less      = func(a, b float64) bool { return a < b }
		greater   = func(a, b float64) bool { return a > b }
		bottomOf  = func(r geom.Rect) float64 { return r.Bottom() }
		topOf     = func(r geom.Rect) float64 { return r.Top }
		rightOf   = func(r geom.Rect) float64 { return r.Right() }
		leftOf    = func(r geom.Rect) float64 { return r.Left }
		closest   = math.Inf(1)
		earliest  *dom.Element
		bestBound float64
	)
	switch l.direction {
	case Down:
		coord, bound, before = center.Y, bottomOf, less
	case Up:
		coord, bound, before = center.Y, topOf, greater
	case Right2D:
		rowAware = true
		fallthrough
	case Right:
		coord, bound, before = center.X, rightOf, less
	case Left2D:
		rowAware = true
		fallthrough
	case Left:
		coord, bound, before = center.X, leftOf, greater
	default:
		return nil
	}

	for _, item := range g.growthOrder(l) {
		if item == g.currDragItem {
			continue
		}
		r := g.boundsOf(item)
		b := bound(r)
		if !rowAware {
			if before(coord, b) && (earliest == nil || before(b, bestBound)) {
				earliest, bestBound = item, b
			}
			continue
		}
		dist := rowDistance(r, center)
		if math.IsInf(closest, 1) {
			closest = dist
		}
		if before(coord, b) && (earliest == nil || dist < closest ||
			(dist == closest && (before(b, bestBound) || b == bestBound))) {
			earliest, bestBound = item, b
		}
		if dist < closest {
			closest = dist
		}
	}
	// A pick outside the closest row means the item belongs at the end.
	if rowAware && earliest != nil && rowDistance(g.boundsOf(earliest), center) > closest {
		return nil
	}
	return earliest
}

func (g *Group) growthOrder(l *dragList) []*dom.Element {
	children := l.element.Children()
	if !l.docOrder {
		for i, j := 0, len(children)-1; i < j; i, j = i+1, j-1 {
			children[i], children[j] = children[j], children[i]
		}
	}
	return children
}

func (g *Group) boundsOf(item *dom.Element) geom.Rect {
	if r, ok := g.bounds[item]; ok {
		return r
	}
	return item.Bounds()
}

func rowDistance(r geom.Rect, c geom.Coordinate) float64 {
	return math.Abs(c.Y - (r.Top + (r.Height-1)/2))
}

// insertCurrDragItem moves the dragged item so it precedes next in growth
// order, or ends the list when next is nil.
func (g *Group) insertCurrDragItem(l *dragList, next *dom.Element) {
	item := g.currDragItem
	list := l.element
	var ref *dom.Element
	if l.docOrder {
		if item.ParentElement() == list && item.NextElementSibling() == next {
			return
		}
		ref = next
	} else {
		if item.ParentElement() == list {
			if next == nil && list.FirstElementChild() == item {
				return
			}
			if next != nil && item.PreviousElementSibling() == next {
				return
			}
		}
		if next == nil {
			ref = list.FirstElementChild()
		} else {
			ref = next.NextElementSibling()
		}
	}
	if err := list.InsertBefore(item, ref); err != nil {
		g.log.Warn("relocating drag item", zap.Error(err))
	}
}

func (g *Group) handleDragEnd(de *drag.Event) {
	if !g.dragging {
		g.cleanup()
		return
	}
	vetoed := !g.fire(g.newEvent(EventBeforeDragEnd, de))
	switch {
	case vetoed || de.DragCanceled:
		g.revert()
	case g.hoverList == nil:
		g.revert()
	case !g.updateWhileDragging:
		if g.pendingList != nil {
			g.insertCurrDragItem(g.pendingList, g.pendingNext)
		}
	}

	ev := g.newEvent(EventDragEnd, de)
	g.cleanupDragDom()
	if !vetoed {
		g.log.Debug("list drag ended", zap.Bool("canceled", de.DragCanceled))
		g.fire(ev)
	}
	g.cleanup()
}

// revert puts the dragged item back where the drag found it.
func (g *Group) revert() {
	if g.origList == nil || g.currDragItem == nil {
		return
	}
	next := g.origNextItem
	if next != nil && next.ParentElement() != g.origList {
		next = nil
	}
	if err := g.origList.InsertBefore(g.currDragItem, next); err != nil {
		g.log.Warn("restoring drag item", zap.Error(err))
	}
}

// cleanupDragDom tears down the proxy and restores the dragged item's
// presentation.
func (g *Group) cleanupDragDom() {
	g.session.RemoveAll()
	if g.dragger != nil {
		g.dragger.Dispose()
		g.dragger = nil
	}
	if g.draggerEl != nil {
		g.draggerEl.Remove()
	}
	item := g.currDragItem
	if item == nil || !g.dragging {
		return
	}
	st := item.Style()
	st.SetDisplay(g.savedDisplay)
	g.hidden = false
	if len(g.currItemClasses) > 0 {
		g.removeClasses(item, g.currItemClasses)
	} else {
		st.SetVisibility(g.savedVis)
	}
	g.removeListHoverClasses()
}

func (g *Group) cleanup() {
	if g.currDragItem == nil {
		return
	}
	g.cleanupDragDom()
	g.draggerEl = nil
	g.currDragItem = nil
	g.dragging = false
	g.hidden = false
	g.savedDisplay, g.savedVis = "", ""
	g.origList, g.origNextItem = nil, nil
	g.hoverList, g.pendingList, g.pendingNext = nil, nil, nil
	g.bounds = nil
}

func (g *Group) hide() {
	if g.hidden {
		return
	}
	g.currDragItem.Style().SetDisplay("none")
	g.hidden = true
}

func (g *Group) show() {
	if !g.hidden {
		return
	}
	g.currDragItem.Style().SetDisplay(g.savedDisplay)
	g.hidden = false
}

func (g *Group) removeListHoverClasses() {
	for _, l := range g.lists {
		g.removeClasses(l.element, []string{l.hoverClass})
	}
}

func (g *Group) newEvent(typ events.Type, de *drag.Event) *Event {
	ev := &Event{
		Type:         typ,
		Group:        g,
		DragEvent:    de,
		CurrDragItem: g.currDragItem,
		DraggerEl:    g.draggerEl,
		Dragger:      g.dragger,
	}
	if de != nil {
		ev.BrowserEvent = de.BrowserEvent
	}
	return ev
}

func (g *Group) fire(ev *Event) bool {
	g.listeners.Fire(ev.Type, ev)
	return !ev.defaultPrevented
}

func (g *Group) addClasses(el *dom.Element, classes []string) {
	for _, c := range classes {
		if c == "" {
			continue
		}
		if err := el.ClassList().Add(c); err != nil {
			g.log.Warn("invalid class name", zap.String("class", c), zap.Error(err))
		}
	}
}

func (g *Group) removeClasses(el *dom.Element, classes []string) {
	for _, c := range classes {
		if c == "" {
			continue
		}
		if err := el.ClassList().Remove(c); err != nil {
			g.log.Warn("invalid class name", zap.String("class", c), zap.Error(err))
		}
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
