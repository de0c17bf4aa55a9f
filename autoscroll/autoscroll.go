// Package autoscroll scrolls a container while the pointer sits near or past
// its edges, typically during a drag.
package autoscroll

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/geom"
	"github.com/chrisuehlinger/dropzone/sched"
)

// Defaults.
const (
	DefaultPeriod = 50 * time.Millisecond
	DefaultStep   = 8
)

// ErrNoContainer is returned by New when the container is nil.
var ErrNoContainer = errors.New("autoscroll: no container")

// Option configures a Controller.
type Option func(*Controller)

// WithMargin shrinks the scroll-free region by margin on every side. The
// margin is capped at a quarter of the container's size per axis.
func WithMargin(margin float64) Option {
	return func(c *Controller) { c.margin = math.Max(0, margin) }
}

// WithExternalTracking stops the controller from listening to the
// document's pointer moves; samples must be fed through OnMouseMove.
func WithExternalTracking() Option {
	return func(c *Controller) { c.external = true }
}

// WithPeriod sets the tick period.
func WithPeriod(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.period = d
		}
	}
}

// WithStep sets how far each tick scrolls.
func WithStep(step float64) Option {
	return func(c *Controller) { c.step = step }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller scrolls one container on a timer. The scroll-free region is
// the container's bounds shrunk by the margin; a pointer above or left of
// it scrolls back by one step per tick, below or right scrolls forward.
type Controller struct {
	log       *zap.Logger
	container *dom.Element
	doc       *dom.Document
	page      bool
	timer     *sched.Timer
	binds     events.Group

	margin     float64
	step       float64
	period     time.Duration
	external   bool
	constrain  bool
	horizontal bool

	containerBounds geom.Rect
	scrollBounds    geom.Rect
	delta           geom.Coordinate
	disposed        bool
}

// New creates a controller for container. If container is the document
// element, the page itself is scrolled.
func New(container *dom.Element, opts ...Option) (*Controller, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	c := &Controller{
		log:        zap.NewNop(),
		container:  container,
		doc:        container.OwnerDocument(),
		step:       DefaultStep,
		period:     DefaultPeriod,
		horizontal: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.page = container == c.doc.DocumentElement()
	c.timer = sched.NewTimer(c.doc.Loop(), c.period, c.onTick)
	c.UpdateContainerBounds()
	if !c.external {
		c.binds.Add(c.doc, c.doc.AddEventListener(dom.EventMouseMove, c.OnMouseMove))
		c.binds.Add(c.doc, c.doc.AddEventListener(dom.EventTouchMove, c.OnMouseMove))
	}
	return c, nil
}

// Container returns the scrolled element.
func (c *Controller) Container() *dom.Element {
	return c.container
}

// SetConstrainScroll limits scrolling to while the pointer is inside the
// container. It has no effect without a margin.
func (c *Controller) SetConstrainScroll(constrain bool) {
	c.constrain = c.margin > 0 && constrain
}

// SetHorizontalScrolling enables or disables scrolling along X.
func (c *Controller) SetHorizontalScrolling(on bool) {
	c.horizontal = on
}

// UpdateContainerBounds re-reads the container's bounds, e.g. after the
// container moved or resized.
func (c *Controller) UpdateContainerBounds() {
	if c.page {
		vp := c.doc.ViewportSize()
		c.containerBounds = geom.NewRect(0, 0, vp.Width, vp.Height)
	} else {
		c.containerBounds = c.container.Bounds()
	}
	c.scrollBounds = c.constrainBounds(c.containerBounds)
}

func (c *Controller) constrainBounds(r geom.Rect) geom.Rect {
	if c.margin == 0 {
		return r
	}
	ym := math.Min(c.margin, r.Height*0.25)
	r.Top += ym
	r.Height -= 2 * ym
	xm := math.Min(c.margin, r.Width*0.25)
	r.Left += xm
	r.Width -= 2 * xm
	return r
}

// ScrollBounds returns the scroll-free region.
func (c *Controller) ScrollBounds() geom.Rect {
	return c.scrollBounds
}

// Delta returns the offsets applied on each tick.
func (c *Controller) Delta() geom.Coordinate {
	return c.delta
}

// Running reports whether the tick timer is armed.
func (c *Controller) Running() bool {
	return c.timer.Enabled()
}

// OnMouseMove takes a pointer sample and arms or stops the timer.
func (c *Controller) OnMouseMove(e *dom.Event) {
	if c.disposed {
		return
	}
	p := c.pointer(e)
	var dx, dy float64
	if c.horizontal {
		dx = c.scrollDelta(p.X, c.scrollBounds.Left, c.scrollBounds.Width)
	}
	dy = c.scrollDelta(p.Y, c.scrollBounds.Top, c.scrollBounds.Height)
	c.delta = geom.Pt(dx, dy)

	if (dx == 0 && dy == 0) || (c.constrain && !c.containerBounds.Contains(p)) {
		if c.timer.Enabled() {
			c.log.Debug("autoscroll stopped")
		}
		c.timer.Stop()
		return
	}
	if !c.timer.Enabled() {
		c.log.Debug("autoscroll started", zap.Float64("dx", dx), zap.Float64("dy", dy))
		c.timer.Start()
	}
}

// pointer maps a sample into the coordinate space of the bounds.
func (c *Controller) pointer(e *dom.Event) geom.Coordinate {
	if c.page {
		return geom.Pt(e.ClientX, e.ClientY)
	}
	sx, sy := c.doc.Scroll()
	return geom.Pt(e.ClientX+sx, e.ClientY+sy)
}

func (c *Controller) scrollDelta(v, min, span float64) float64 {
	switch {
	case v < min:
		return -c.step
	case v > min+span:
		return c.step
	}
	return 0
}

func (c *Controller) onTick() {
	if c.page {
		c.doc.ScrollBy(c.delta.X, c.delta.Y)
		return
	}
	c.container.SetScrollTop(c.container.ScrollTop() + c.delta.Y)
	c.container.SetScrollLeft(c.container.ScrollLeft() + c.delta.X)
}

// Dispose stops the timer and detaches from the document.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.binds.RemoveAll()
	c.timer.Dispose()
}
