// Package drag implements the pointer drag controller: one element follows
// one pointer gesture, gated by hysteresis, clamped to optional limits and
// corrected for page scrolling that happens mid-gesture.
package drag

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
)

// ErrNoTarget is returned when a Dragger is created without a target.
var ErrNoTarget = errors.New("drag: no target element")

// ScrollSource is anything that fires scroll events: the document or a
// scrolling element.
type ScrollSource interface {
	AddEventListener(typ events.Type, fn func(*dom.Event)) events.Key
	events.Unlistener
}

// Option configures a Dragger.
type Option func(*Dragger)

// WithHandle sets the element that starts drags. It defaults to the target.
func WithHandle(handle *dom.Element) Option {
	return func(d *Dragger) {
		if handle != nil {
			d.handle = handle
		}
	}
}

// WithLimits bounds the target position. NaN edges are unconstrained.
func WithLimits(limits geom.Rect) Option {
	return func(d *Dragger) {
		d.limits = limits
	}
}

// WithHysteresis sets the distance in pixels the pointer must travel before
// the drag begins.
func WithHysteresis(distance float64) Option {
	return func(d *Dragger) {
		d.SetHysteresis(distance)
	}
}

// WithScrollTarget makes scroll events from src count as moves.
func WithScrollTarget(src ScrollSource) Option {
	return func(d *Dragger) {
		d.scrollTarget = src
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dragger) {
		d.log = l
	}
}

// Dragger moves a target element with the pointer. A gesture starts with a
// mousedown or touchstart on the handle, or with an explicit StartDrag.
type Dragger struct {
	target *dom.Element
	handle *dom.Element
	doc    *dom.Document
	log    *zap.Logger

	limits             geom.Rect
	hysteresisSquared  float64
	scrollTarget       ScrollSource
	enabled            bool
	preventMouseDown   bool
	rightPositioning   bool
	rightPositioningOn bool

	dragging bool
	// Gesture state, valid between StartDrag and EndDrag.
	clientX, clientY float64
	screenX, screenY float64
	startX, startY   float64
	deltaX, deltaY   float64
	pageScroll       geom.Coordinate

	listeners  events.Target[*Event]
	handleKeys []events.Key
	gesture    events.Group
	inGesture  bool
	disposed   bool
}

// New creates a Dragger for target and starts listening on its handle.
func New(target *dom.Element, opts ...Option) (*Dragger, error) {
	if target == nil {
		return nil, ErrNoTarget
	}
	d := &Dragger{
		target:           target,
		handle:           target,
		doc:              target.OwnerDocument(),
		log:              zap.NewNop(),
		limits:           geom.Unbounded(),
		enabled:          true,
		preventMouseDown: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handleKeys = []events.Key{
		d.handle.AddEventListener(dom.EventMouseDown, d.StartDrag),
		d.handle.AddEventListener(dom.EventTouchStart, d.StartDrag),
	}
	return d, nil
}

// Target returns the element being moved.
func (d *Dragger) Target() *dom.Element {
	return d.target
}

// Handle returns the element that starts drags.
func (d *Dragger) Handle() *dom.Element {
	return d.handle
}

// Listen registers fn for a Dragger event.
func (d *Dragger) Listen(typ events.Type, fn func(*Event)) events.Key {
	return d.listeners.Listen(typ, fn)
}

// Unlisten removes a listener added with Listen.
func (d *Dragger) Unlisten(key events.Key) bool {
	return d.listeners.Unlisten(key)
}

// Limits returns the current movement limits.
func (d *Dragger) Limits() geom.Rect {
	return d.limits
}

// SetLimits replaces the movement limits.
func (d *Dragger) SetLimits(limits geom.Rect) {
	d.limits = limits
}

// SetHysteresis sets the distance the pointer must travel before a drag
// begins. Zero starts the drag on pointer down.
func (d *Dragger) SetHysteresis(distance float64) {
	d.hysteresisSquared = distance * distance
}

// Hysteresis returns the configured start distance.
func (d *Dragger) Hysteresis() float64 {
	return math.Sqrt(d.hysteresisSquared)
}

// SetScrollTarget makes scroll events from src count as moves during the
// next gesture.
func (d *Dragger) SetScrollTarget(src ScrollSource) {
	d.scrollTarget = src
}

// SetEnabled turns the dragger on or off. A disabled dragger ignores new
// gestures and pointer moves.
func (d *Dragger) SetEnabled(on bool) {
	d.enabled = on
}

// Enabled reports whether the dragger reacts to gestures.
func (d *Dragger) Enabled() bool {
	return d.enabled
}

// SetPreventMouseDown controls whether the starting pointer down has its
// default action prevented.
func (d *Dragger) SetPreventMouseDown(on bool) {
	d.preventMouseDown = on
}

// EnableRightPositioningForRtl makes the default action position a
// right-to-left target through its right offset instead of its left.
func (d *Dragger) EnableRightPositioningForRtl(on bool) {
	d.rightPositioningOn = on
}

// IsDragging reports whether a drag has begun and not yet ended.
func (d *Dragger) IsDragging() bool {
	return d.dragging
}

// Position returns the clamped target position.
func (d *Dragger) Position() (float64, float64) {
	return d.limitX(d.deltaX), d.limitY(d.deltaY)
}

// StartDrag begins tracking a gesture. Pointer downs that are not a primary
// action are ignored. With no hysteresis the drag starts immediately;
// otherwise it starts on the first move far enough from here.
func (d *Dragger) StartDrag(e *dom.Event) {
	isDown := e.Type == dom.EventMouseDown || e.Type == dom.EventTouchStart
	if !d.enabled || d.dragging || d.inGesture || d.disposed || (isDown && !e.IsMouseActionButton()) {
		d.fire(&Event{Type: EventEarlyCancel, ClientX: e.ClientX, ClientY: e.ClientY, BrowserEvent: e})
		return
	}

	d.rightPositioning = d.rightPositioningOn && isRightToLeft(d.target)
	if d.hysteresisSquared == 0 {
		if !d.fire(&Event{Type: EventStart, ClientX: e.ClientX, ClientY: e.ClientY, BrowserEvent: e}) {
			d.log.Debug("drag start vetoed")
			return
		}
		d.dragging = true
	}
	if d.preventMouseDown {
		e.PreventDefault()
	}

	d.setupDragHandlers()
	d.clientX, d.clientY = e.ClientX, e.ClientY
	d.startX, d.startY = e.ClientX, e.ClientY
	d.screenX, d.screenY = e.ScreenX, e.ScreenY
	d.deltaX, d.deltaY = d.initialPosition()
	sx, sy := d.doc.Scroll()
	d.pageScroll = geom.Pt(sx, sy)

	d.log.Debug("drag gesture started",
		zap.Float64("x", e.ClientX),
		zap.Float64("y", e.ClientY),
		zap.Bool("dragging", d.dragging))
}

func (d *Dragger) setupDragHandlers() {
	d.inGesture = true
	doc := d.doc
	for _, typ := range []events.Type{dom.EventMouseMove, dom.EventTouchMove} {
		d.gesture.Add(doc, doc.AddCaptureListener(typ, d.handleMove))
	}
	for _, typ := range []events.Type{dom.EventMouseUp, dom.EventTouchEnd, dom.EventTouchCancel} {
		d.gesture.Add(doc, doc.AddCaptureListener(typ, d.handleEnd))
	}
	d.gesture.Add(doc, doc.AddCaptureListener(dom.EventBlur, d.handleCancel))
	d.gesture.Add(doc, doc.AddCaptureListener(dom.EventLostPointerCapture, d.handleCancel))
	if d.scrollTarget != nil {
		d.gesture.Add(d.scrollTarget, d.scrollTarget.AddEventListener(dom.EventScroll, d.handleScroll))
	}
	if d.handle.IsConnected() {
		doc.SetPointerCapture(d.handle)
	}
}

func (d *Dragger) handleEnd(e *dom.Event) {
	d.EndDrag(e, false)
}

func (d *Dragger) handleCancel(e *dom.Event) {
	d.EndDrag(e, true)
}

// EndDrag finishes the gesture. End fires only if a drag had begun; a
// gesture that never started reports earlycancel instead.
func (d *Dragger) EndDrag(e *dom.Event, canceled bool) {
	if !d.inGesture && !d.dragging {
		return
	}
	d.cleanUpAfterDragging()
	if e == nil {
		e = d.syntheticEvent()
	}
	cx, cy := e.ClientX, e.ClientY
	if !isPointerEvent(e.Type) {
		cx, cy = d.clientX, d.clientY
	}
	if !d.dragging {
		d.fire(&Event{Type: EventEarlyCancel, ClientX: cx, ClientY: cy, BrowserEvent: e})
		return
	}
	d.dragging = false
	x, y := d.Position()
	canceled = canceled || e.Type == dom.EventTouchCancel
	d.log.Debug("drag ended",
		zap.Float64("left", x),
		zap.Float64("top", y),
		zap.Bool("canceled", canceled))
	d.fire(&Event{
		Type:         EventEnd,
		ClientX:      cx,
		ClientY:      cy,
		BrowserEvent: e,
		Left:         x,
		Top:          y,
		DeltaX:       d.deltaX,
		DeltaY:       d.deltaY,
		DragCanceled: canceled,
	})
}

// Cancel ends the current drag as canceled.
func (d *Dragger) Cancel() {
	d.EndDrag(nil, true)
}

func (d *Dragger) cleanUpAfterDragging() {
	d.gesture.RemoveAll()
	d.inGesture = false
	d.doc.ReleasePointerCapture(d.handle)
}

func (d *Dragger) syntheticEvent() *dom.Event {
	e := dom.NewPointerEvent(dom.EventMouseUp, d.clientX, d.clientY)
	e.ScreenX, e.ScreenY = d.screenX, d.screenY
	return e
}

func (d *Dragger) handleMove(e *dom.Event) {
	if !d.enabled {
		return
	}
	sign := 1.0
	if d.rightPositioning {
		sign = -1
	}
	dx := sign * (e.ClientX - d.clientX)
	dy := e.ClientY - d.clientY
	d.clientX, d.clientY = e.ClientX, e.ClientY
	d.screenX, d.screenY = e.ScreenX, e.ScreenY

	if !d.dragging {
		diffX := d.startX - d.clientX
		diffY := d.startY - d.clientY
		distance := diffX*diffX + diffY*diffY
		if distance > d.hysteresisSquared || (e.IsTouch() && !d.overHandle(e)) {
			if !d.fire(&Event{Type: EventStart, ClientX: d.startX, ClientY: d.startY, BrowserEvent: e}) {
				d.log.Debug("drag start vetoed")
				d.EndDrag(e, false)
				return
			}
			d.dragging = true
		}
	}

	x, y := d.calculatePosition(dx, dy)
	if !d.dragging {
		return
	}
	before := &Event{
		Type:         EventBeforeDrag,
		ClientX:      e.ClientX,
		ClientY:      e.ClientY,
		BrowserEvent: e,
		Left:         x,
		Top:          y,
		DeltaX:       d.deltaX,
		DeltaY:       d.deltaY,
	}
	if d.fire(before) {
		d.doDrag(e, x, y)
		e.PreventDefault()
	}
}

func (d *Dragger) overHandle(e *dom.Event) bool {
	hit := d.doc.ElementFromPoint(e.ClientX, e.ClientY)
	return hit != nil && d.handle.Contains(hit)
}

func (d *Dragger) handleScroll(e *dom.Event) {
	if !d.dragging {
		return
	}
	x, y := d.calculatePosition(0, 0)
	moved := *e
	moved.ClientX, moved.ClientY = d.clientX, d.clientY
	moved.ScreenX, moved.ScreenY = d.screenX, d.screenY
	d.doDrag(&moved, x, y)
}

// calculatePosition folds a pointer delta and any page scroll since the last
// sample into the accumulated offset and returns it clamped.
func (d *Dragger) calculatePosition(dx, dy float64) (float64, float64) {
	sx, sy := d.doc.Scroll()
	dx += sx - d.pageScroll.X
	dy += sy - d.pageScroll.Y
	d.pageScroll = geom.Pt(sx, sy)
	d.deltaX += dx
	d.deltaY += dy
	return d.limitX(d.deltaX), d.limitY(d.deltaY)
}

func (d *Dragger) doDrag(e *dom.Event, x, y float64) {
	d.DefaultAction(x, y)
	d.fire(&Event{
		Type:         EventDrag,
		ClientX:      e.ClientX,
		ClientY:      e.ClientY,
		BrowserEvent: e,
		Left:         x,
		Top:          y,
		DeltaX:       d.deltaX,
		DeltaY:       d.deltaY,
	})
}

// DefaultAction moves the target to the clamped position.
func (d *Dragger) DefaultAction(x, y float64) {
	st := d.target.Style()
	if d.rightPositioning {
		st.SetProperty("right", px(x))
	} else {
		st.SetProperty("left", px(x))
	}
	st.SetProperty("top", px(y))
}

func (d *Dragger) limitX(x float64) float64 {
	return geom.Limit(x, d.limits.Left, d.limits.Width)
}

func (d *Dragger) limitY(y float64) float64 {
	return geom.Limit(y, d.limits.Top, d.limits.Height)
}

// initialPosition is the target's offset as DefaultAction would write it:
// the inline left (or right) and top when set, else the page position less
// margins.
func (d *Dragger) initialPosition() (float64, float64) {
	st := d.target.Style()
	side := "left"
	if d.rightPositioning {
		side = "right"
	}
	x, okX := parsePx(st.GetPropertyValue(side))
	y, okY := parsePx(st.GetPropertyValue("top"))
	if okX && okY {
		return x, y
	}
	g := d.target.Geometry()
	if !okX {
		x = g.X - g.Margin.Left
		if d.rightPositioning {
			x = d.doc.ViewportSize().Width - g.X - g.Width - g.Margin.Right
		}
	}
	if !okY {
		y = g.Y - g.Margin.Top
	}
	return x, y
}

// Dispose ends any gesture and stops listening on the handle.
func (d *Dragger) Dispose() {
	if d.disposed {
		return
	}
	if d.inGesture || d.dragging {
		d.EndDrag(nil, true)
	}
	for _, k := range d.handleKeys {
		d.handle.Unlisten(k)
	}
	d.handleKeys = nil
	d.listeners.RemoveAll()
	d.disposed = true
}

func (d *Dragger) fire(ev *Event) bool {
	ev.Dragger = d
	d.listeners.Fire(ev.Type, ev)
	return !ev.defaultPrevented
}

func isPointerEvent(typ events.Type) bool {
	switch typ {
	case dom.EventMouseDown, dom.EventMouseMove, dom.EventMouseUp,
		dom.EventTouchStart, dom.EventTouchMove, dom.EventTouchEnd, dom.EventTouchCancel:
		return true
	}
	return false
}

func isRightToLeft(el *dom.Element) bool {
	for e := el; e != nil; e = e.ParentElement() {
		if dir := strings.ToLower(e.Style().GetPropertyValue("direction")); dir != "" {
			return dir == "rtl"
		}
		if dir, ok := e.LookupAttribute("dir"); ok {
			return strings.EqualFold(dir, "rtl")
		}
	}
	return false
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func parsePx(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
