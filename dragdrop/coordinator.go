// Package dragdrop coordinates drags between sets of items: it snapshots
// the boxes of every reachable drop target when a drag starts, resolves the
// hovered target on each move (synthesizing a target for the empty space
// between real ones) and fires the drag lifecycle notifications.
package dragdrop

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/drag"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

// Defaults.
const (
	DefaultInitDragDistance = 5
	DefaultDummyMinArea     = 10
)

// SubtargetFunc splits a target into regions. It receives the target item,
// its box and the page position of the pointer, and returns a region id.
type SubtargetFunc func(item *Item, box geom.Box, x, y float64) string

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDummyMinArea sets the smallest empty-space box reported as a target.
func WithDummyMinArea(area float64) Option {
	return func(c *Coordinator) {
		c.dummyMinArea = area
	}
}

// WithInitDragDistance sets how far the pointer must travel after a press
// before a drag starts.
func WithInitDragDistance(distance float64) Option {
	return func(c *Coordinator) {
		c.initDragDistance = distance
	}
}

// WithDragElementFactory replaces how the dragged proxy is built from the
// source element. The factory must return a detached element.
func WithDragElementFactory(fn func(source *dom.Element) *dom.Element) Option {
	return func(c *Coordinator) {
		c.dragElementFactory = fn
	}
}

// WithDraggableElements replaces which elements of an item are measured as
// drop targets. By default that is the item's element.
func WithDraggableElements(fn func(item *Item) []*dom.Element) Option {
	return func(c *Coordinator) {
		c.draggableElements = fn
	}
}

// WithDragLimits bounds where the proxy may be dragged, in page
// coordinates. NaN edges are unconstrained.
func WithDragLimits(limits geom.Rect) Option {
	return func(c *Coordinator) {
		c.dragLimits = limits
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// Coordinator owns a set of items. It is a drag source when other
// coordinators were added as its targets, and a target when it was added
// to one.
type Coordinator struct {
	log *zap.Logger

	items       []*Item
	targets     []*Coordinator
	isSource    bool
	isTarget    bool
	initialized bool

	subtargetFunc      SubtargetFunc
	dragClass          string
	sourceClass        string
	targetClass        string
	containers         []*ScrollableContainer
	scrollTarget       drag.ScrollSource
	dummyMinArea       float64
	initDragDistance   float64
	dragLimits         geom.Rect
	dragElementFactory func(*dom.Element) *dom.Element
	draggableElements  func(*Item) []*dom.Element

	listeners events.Target[*Event]

	// Drag session.
	doc             *dom.Document
	dragItem        *Item
	dragEl          *dom.Element
	dragger         *drag.Dragger
	session         events.Group
	targetList      []*ActiveDropTarget
	targetBox       geom.Box
	hasTargetBox    bool
	activeTarget    *ActiveDropTarget
	activeSubtarget string
	dummyTarget     *ActiveDropTarget
}

// NewGroup creates a coordinator with no items.
func NewGroup(opts ...Option) *Coordinator {
	c := &Coordinator{
		log:              zap.NewNop(),
		dummyMinArea:     DefaultDummyMinArea,
		initDragDistance: DefaultInitDragDistance,
		dragLimits:       geom.Unbounded(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSingle creates a coordinator for a single element.
func NewSingle(element *dom.Element, data any, opts ...Option) (*Coordinator, error) {
	c := NewGroup(opts...)
	if err := c.AddItem(element, data); err != nil {
		return nil, err
	}
	return c, nil
}

// AddItem registers element as a draggable item carrying data.
func (c *Coordinator) AddItem(element *dom.Element, data any) error {
	it, err := NewItem(element, data)
	if err != nil {
		return err
	}
	return c.AddDragDropItem(it)
}

// AddDragDropItem registers an existing item. After Init, the item is
// wired immediately.
func (c *Coordinator) AddDragDropItem(it *Item) error {
	if it == nil || it.element == nil {
		return ErrNoElement
	}
	it.parent = c
	c.items = append(c.items, it)
	if c.initialized {
		c.initItem(it)
	}
	return nil
}

// RemoveItem unregisters the item for element. It reports whether one was
// found.
func (c *Coordinator) RemoveItem(element *dom.Element) bool {
	for i, it := range c.items {
		if it.element != element {
			continue
		}
		if c.dragItem == it {
			c.CancelDrag()
		}
		c.disposeItem(it)
		c.items = append(c.items[:i:i], c.items[i+1:]...)
		return true
	}
	return false
}

// Items returns the registered items in order.
func (c *Coordinator) Items() []*Item {
	return c.items
}

// AddTarget makes c a source and target a drop target of c.
func (c *Coordinator) AddTarget(target *Coordinator) {
	c.targets = append(c.targets, target)
	target.isTarget = true
	c.isSource = true
}

// Targets returns the coordinators items can be dropped on.
func (c *Coordinator) Targets() []*Coordinator {
	return c.targets
}

// IsSource reports whether c has targets.
func (c *Coordinator) IsSource() bool {
	return c.isSource
}

// IsTarget reports whether c was added as a target.
func (c *Coordinator) IsTarget() bool {
	return c.isTarget
}

// SetDragClass sets the class added to drag proxies.
func (c *Coordinator) SetDragClass(name string) {
	c.dragClass = name
}

// SetSourceClass sets the class added to items of a source on Init.
func (c *Coordinator) SetSourceClass(name string) {
	c.sourceClass = name
}

// SetTargetClass sets the class added to items of a target on Init.
func (c *Coordinator) SetTargetClass(name string) {
	c.targetClass = name
}

// SetSubtargetFunction installs the subtarget resolver.
func (c *Coordinator) SetSubtargetFunction(fn SubtargetFunc) {
	c.subtargetFunc = fn
}

// SetScrollTarget makes scroll events from src move the drag proxy.
func (c *Coordinator) SetScrollTarget(src drag.ScrollSource) {
	c.scrollTarget = src
}

// AddScrollableContainer registers a scrolling element whose scrolling
// moves drop targets during a drag.
func (c *Coordinator) AddScrollableContainer(element *dom.Element) error {
	if element == nil {
		return ErrNoElement
	}
	c.containers = append(c.containers, &ScrollableContainer{element: element})
	return nil
}

// RemoveAllScrollableContainers forgets every scrollable container.
func (c *Coordinator) RemoveAllScrollableContainers() {
	for _, sc := range c.containers {
		for _, t := range sc.containedTargets {
			t.container = nil
		}
	}
	c.containers = nil
}

// ScrollableContainers returns the registered containers.
func (c *Coordinator) ScrollableContainers() []*ScrollableContainer {
	return c.containers
}

// Listen registers fn for a coordinator event.
func (c *Coordinator) Listen(typ events.Type, fn func(*Event)) events.Key {
	return c.listeners.Listen(typ, fn)
}

// Unlisten removes a listener added with Listen.
func (c *Coordinator) Unlisten(key events.Key) bool {
	return c.listeners.Unlisten(key)
}

// Init wires every registered item. Items added later wire themselves.
func (c *Coordinator) Init() {
	if c.initialized {
		return
	}
	for _, it := range c.items {
		c.initItem(it)
	}
	c.initialized = true
}

// Initialized reports whether Init ran.
func (c *Coordinator) Initialized() bool {
	return c.initialized
}

func (c *Coordinator) initItem(it *Item) {
	if c.isSource {
		it.listen()
		if c.sourceClass != "" {
			c.addClass(it.element, c.sourceClass)
		}
	}
	if c.isTarget && c.targetClass != "" {
		c.addClass(it.element, c.targetClass)
	}
}

func (c *Coordinator) disposeItem(it *Item) {
	it.unlisten()
	if c.sourceClass != "" {
		c.removeClass(it.element, c.sourceClass)
	}
	if c.targetClass != "" {
		c.removeClass(it.element, c.targetClass)
	}
	it.parent = nil
}

// RemoveItems unregisters every item, dropping listeners and decoration
// classes.
func (c *Coordinator) RemoveItems() {
	if c.dragItem != nil {
		c.CancelDrag()
	}
	for _, it := range c.items {
		c.disposeItem(it)
	}
	c.items = nil
}

// Dispose cancels any drag and removes all items and listeners.
func (c *Coordinator) Dispose() {
	c.RemoveItems()
	c.listeners.RemoveAll()
	c.initialized = false
}

// IsDragging reports whether a drag session is active.
func (c *Coordinator) IsDragging() bool {
	return c.dragItem != nil
}

// DragItem returns the item being dragged, or nil.
func (c *Coordinator) DragItem() *Item {
	return c.dragItem
}

// DragElement returns the drag proxy, or nil.
func (c *Coordinator) DragElement() *dom.Element {
	return c.dragEl
}

// Dragger returns the controller moving the proxy, or nil.
func (c *Coordinator) Dragger() *drag.Dragger {
	return c.dragger
}

// ActiveTarget returns the target under the pointer, possibly the dummy
// target, or nil.
func (c *Coordinator) ActiveTarget() *ActiveDropTarget {
	return c.activeTarget
}

// TargetList returns the target snapshot of the current drag.
func (c *Coordinator) TargetList() []*ActiveDropTarget {
	return c.targetList
}

// TargetBox returns the union of all target boxes of the current drag.
func (c *Coordinator) TargetBox() (geom.Box, bool) {
	return c.targetBox, c.hasTargetBox
}

// CancelDrag ends the current drag without a drop.
func (c *Coordinator) CancelDrag() {
	if c.dragger != nil {
		c.dragger.Cancel()
	}
}

// startDrag promotes a press on item into a drag session. It does nothing
// while another drag is active.
func (c *Coordinator) startDrag(e *dom.Event, item *Item) {
	if c.dragItem != nil {
		return
	}
	c.dragItem = item

	start := &Event{
		Type:           EventDragStart,
		DragSource:     c,
		DragSourceItem: item,
		ClientX:        e.ClientX,
		ClientY:        e.ClientY,
		BrowserEvent:   e,
	}
	if !c.fire(start) {
		c.log.Debug("dragstart vetoed")
		c.dragItem = nil
		item.reset()
		return
	}

	src := item.CurrentDragElement()
	c.doc = src.OwnerDocument()
	c.dragEl = c.createDragElement(src)
	root := c.doc.Body()
	if root == nil {
		root = c.doc.DocumentElement()
	}
	if root == nil || root.AppendChild(c.dragEl) != nil {
		c.log.Warn("no root to attach the drag element to")
		c.dragItem, c.dragEl, c.doc = nil, nil, nil
		item.reset()
		return
	}

	dragger, err := c.createDraggerFor(src, c.dragEl)
	if err != nil {
		c.log.Warn("creating dragger", zap.Error(err))
		c.dragEl.Remove()
		c.dragItem, c.dragEl, c.doc = nil, nil, nil
		item.reset()
		return
	}
	c.dragger = dragger
	if c.scrollTarget != nil {
		dragger.SetScrollTarget(c.scrollTarget)
	}
	c.session.Add(dragger, dragger.Listen(drag.EventDrag, c.moveDrag))
	c.session.Add(dragger, dragger.Listen(drag.EventEnd, c.endDrag))

	c.RecalculateDragTargets()
	c.RecalculateScrollableContainers()
	c.activeTarget = nil
	c.initScrollableContainerListeners()

	c.log.Debug("drag started",
		zap.Int("targets", len(c.targetList)),
		zap.Float64("x", e.ClientX),
		zap.Float64("y", e.ClientY))
	dragger.StartDrag(e)
	e.PreventDefault()
}

func (c *Coordinator) createDragElement(src *dom.Element) *dom.Element {
	if c.dragElementFactory != nil {
		return c.dragElementFactory(src)
	}
	el := src.CloneNode(true)
	if c.dragClass != "" {
		c.addClass(el, c.dragClass)
	}
	el.Style().SetProperty("pointer-events", "none")
	return el
}

// createDraggerFor places the proxy over the source and returns a dragger
// moving it. The proxy is absolutely positioned, so its margin is added
// back by layout.
func (c *Coordinator) createDraggerFor(src, el *dom.Element) (*drag.Dragger, error) {
	pos := src.PageOffset()
	margin := src.MarginBox()
	st := el.Style()
	st.SetProperty("position", "absolute")
	st.SetProperty("left", px(pos.X-margin.Left))
	st.SetProperty("top", px(pos.Y-margin.Top))
	return drag.New(el, drag.WithLimits(c.dragLimits), drag.WithLogger(c.log))
}

// RecalculateDragTargets snapshots the box of every draggable element of
// every target item and their union.
func (c *Coordinator) RecalculateDragTargets() {
	c.targetList = nil
	c.hasTargetBox = false
	for _, target := range c.targets {
		for _, it := range target.items {
			c.addDragTarget(target, it)
		}
	}
}

func (c *Coordinator) addDragTarget(target *Coordinator, it *Item) {
	elements := []*dom.Element{it.element}
	if target.draggableElements != nil {
		elements = target.draggableElements(it)
	}
	for _, el := range elements {
		box := elementBox(el)
		c.targetList = append(c.targetList, &ActiveDropTarget{
			box:     box,
			target:  target,
			item:    it,
			element: el,
		})
		c.calculateTargetBox(box)
	}
}

func (c *Coordinator) calculateTargetBox(box geom.Box) {
	if !c.hasTargetBox || len(c.targetList) == 1 {
		c.targetBox = box
		c.hasTargetBox = true
		return
	}
	c.targetBox = c.targetBox.Union(box)
}

// RecalculateScrollableContainers captures each container's viewport box
// and scroll offsets and assigns every target to the containers holding
// its element.
func (c *Coordinator) RecalculateScrollableContainers() {
	for _, sc := range c.containers {
		sc.savedScrollLeft = sc.element.ScrollLeft()
		sc.savedScrollTop = sc.element.ScrollTop()
		sc.box = elementBox(sc.element)
		sc.containedTargets = nil
	}
	for _, t := range c.targetList {
		for _, sc := range c.containers {
			if sc.element.Contains(t.element) {
				sc.containedTargets = append(sc.containedTargets, t)
				t.container = sc
			}
		}
	}
}

func (c *Coordinator) initScrollableContainerListeners() {
	for _, sc := range c.containers {
		el := sc.element
		c.session.Add(el, el.AddEventListener(dom.EventScroll, c.containerScrolled))
	}
}

// containerScrolled shifts the cached boxes of targets inside the scrolled
// container. An active dummy target only ever shrinks, on the side the
// content moved toward.
func (c *Coordinator) containerScrolled(e *dom.Event) {
	for _, sc := range c.containers {
		if e.Target != sc.element {
			continue
		}
		deltaTop := sc.savedScrollTop - sc.element.ScrollTop()
		deltaLeft := sc.savedScrollLeft - sc.element.ScrollLeft()
		sc.savedScrollTop = sc.element.ScrollTop()
		sc.savedScrollLeft = sc.element.ScrollLeft()

		for _, t := range sc.containedTargets {
			t.box = t.box.Translate(deltaLeft, deltaTop)
			c.calculateTargetBox(t.box)
		}

		if d := c.activeTarget; d != nil && d == c.dummyTarget {
			if deltaTop > 0 {
				d.box.Top += deltaTop
			} else {
				d.box.Bottom += deltaTop
			}
			if deltaLeft > 0 {
				d.box.Left += deltaLeft
			} else {
				d.box.Right += deltaLeft
			}
		}
		c.log.Debug("container scrolled",
			zap.Float64("dx", deltaLeft),
			zap.Float64("dy", deltaTop),
			zap.Int("targets", len(sc.containedTargets)))
	}
}

func (c *Coordinator) eventPosition(clientX, clientY float64) geom.Coordinate {
	sx, sy := c.doc.Scroll()
	return geom.Pt(clientX+sx, clientY+sy)
}

func (c *Coordinator) moveDrag(de *drag.Event) {
	pos := c.eventPosition(de.ClientX, de.ClientY)
	x, y := pos.X, pos.Y
	source := c.dragItem

	active := c.activeTarget
	ev := c.newEvent(EventDrag, active, de.BrowserEvent)
	ev.ClientX, ev.ClientY, ev.PageX, ev.PageY = de.ClientX, de.ClientY, x, y
	c.fire(ev)
	if c.dragItem != source {
		return
	}

	var subtarget string
	if active != nil {
		if c.subtargetFunc != nil && active.target != nil {
			subtarget = c.subtargetFunc(active.item, active.box, x, y)
		}
		if active.hit(pos) && subtarget == c.activeSubtarget {
			return
		}
		if active.target != nil {
			c.fire(c.newEvent(EventDragOut, active, de.BrowserEvent))
			out := c.newEvent(EventDragOut, active, de.BrowserEvent)
			out.Subtarget = c.activeSubtarget
			active.target.fire(out)
			c.log.Debug("left target", zap.String("subtarget", c.activeSubtarget))
		}
		c.activeSubtarget = subtarget
		c.activeTarget = nil
		if c.dragItem != source {
			return
		}
	}

	if !c.hasTargetBox || !c.targetBox.Contains(pos) {
		return
	}
	found := c.targetFromPosition(pos)
	if found == nil {
		c.activeTarget = c.maybeCreateDummyTarget(x, y)
		return
	}
	c.activeTarget = found
	if c.subtargetFunc != nil {
		subtarget = c.subtargetFunc(found.item, found.box, x, y)
		c.activeSubtarget = subtarget
	}
	over := c.newEvent(EventDragOver, found, de.BrowserEvent)
	over.Subtarget = subtarget
	c.fire(over)
	over = c.newEvent(EventDragOver, found, de.BrowserEvent)
	over.ClientX, over.ClientY = de.ClientX, de.ClientY
	over.Subtarget = subtarget
	found.target.fire(over)
	c.log.Debug("entered target",
		zap.Float64("x", x),
		zap.Float64("y", y),
		zap.String("subtarget", subtarget))
}

// targetFromPosition returns the first target, in registration order, hit
// by p.
func (c *Coordinator) targetFromPosition(p geom.Coordinate) *ActiveDropTarget {
	for _, t := range c.targetList {
		if t.hit(p) {
			return t
		}
	}
	return nil
}

// maybeCreateDummyTarget fits the dummy target into the empty space around
// (x, y). It returns nil when the space is smaller than the minimum area.
func (c *Coordinator) maybeCreateDummyTarget(x, y float64) *ActiveDropTarget {
	if c.dummyTarget == nil {
		c.dummyTarget = &ActiveDropTarget{}
	}
	c.dummyTarget.box = clipDummyBox(c.targetBox, c.targetList, x, y)
	if c.dummyTarget.box.Area() < c.dummyMinArea {
		return nil
	}
	return c.dummyTarget
}

func (c *Coordinator) endDrag(de *drag.Event) {
	active := c.activeTarget
	if de.DragCanceled {
		active = nil
	}

	end := &Event{Type: EventDragEnd, DragSource: c, DragSourceItem: c.dragItem, BrowserEvent: de.BrowserEvent}
	if active != nil && active.target != nil {
		pos := c.eventPosition(de.ClientX, de.ClientY)
		var subtarget string
		if c.subtargetFunc != nil {
			subtarget = c.subtargetFunc(active.item, active.box, pos.X, pos.Y)
		}
		ev := c.newEvent(EventDrag, active, de.BrowserEvent)
		ev.ClientX, ev.ClientY, ev.PageX, ev.PageY = de.ClientX, de.ClientY, pos.X, pos.Y
		c.fire(ev)

		drop := c.newEvent(EventDrop, active, de.BrowserEvent)
		drop.ClientX, drop.ClientY, drop.PageX, drop.PageY = de.ClientX, de.ClientY, pos.X, pos.Y
		drop.Subtarget = subtarget
		active.target.fire(drop)

		end.DropTarget, end.DropTargetItem, end.DropTargetElement = active.target, active.item, active.element
	}
	c.log.Debug("drag ended",
		zap.Bool("canceled", de.DragCanceled),
		zap.Bool("dropped", end.DropTarget != nil))
	c.fire(end)
	c.disposeDrag()
}

// disposeDrag tears the session down, whether or not anything was dropped.
func (c *Coordinator) disposeDrag() {
	c.session.RemoveAll()
	if c.dragger != nil {
		c.dragger.Dispose()
	}
	if c.dragEl != nil {
		c.dragEl.Remove()
	}
	if c.dragItem != nil {
		c.dragItem.reset()
	}
	for _, sc := range c.containers {
		sc.containedTargets = nil
	}
	c.doc = nil
	c.dragItem = nil
	c.dragEl = nil
	c.dragger = nil
	c.targetList = nil
	c.hasTargetBox = false
	c.activeTarget = nil
	c.activeSubtarget = ""
	c.dummyTarget = nil
}

func (c *Coordinator) newEvent(typ events.Type, t *ActiveDropTarget, browser *dom.Event) *Event {
	ev := &Event{Type: typ, DragSource: c, DragSourceItem: c.dragItem, BrowserEvent: browser}
	if t != nil {
		ev.DropTarget, ev.DropTargetItem, ev.DropTargetElement = t.target, t.item, t.element
	}
	return ev
}

func (c *Coordinator) fire(ev *Event) bool {
	c.listeners.Fire(ev.Type, ev)
	return !ev.defaultPrevented
}

func (c *Coordinator) addClass(el *dom.Element, name string) {
	if err := el.ClassList().Add(name); err != nil {
		c.log.Warn("invalid class name", zap.String("class", name), zap.Error(err))
	}
}

func (c *Coordinator) removeClass(el *dom.Element, name string) {
	if err := el.ClassList().Remove(name); err != nil {
		c.log.Warn("invalid class name", zap.String("class", name), zap.Error(err))
	}
}

func elementBox(el *dom.Element) geom.Box {
	return el.Bounds().ToBox()
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
