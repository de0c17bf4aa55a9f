package dragdrop

import (
	"math"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/geom"
)

// ActiveDropTarget is one hit-testable box snapshotted at drag start. The
// dummy target, which stands for the empty space between real targets, has
// no coordinator, item or element.
type ActiveDropTarget struct {
	box       geom.Box
	target    *Coordinator
	item      *Item
	element   *dom.Element
	container *ScrollableContainer
}

// Box returns the target's page box.
func (t *ActiveDropTarget) Box() geom.Box {
	return t.box
}

// Target returns the coordinator owning the target item.
func (t *ActiveDropTarget) Target() *Coordinator {
	return t.target
}

// Item returns the target item.
func (t *ActiveDropTarget) Item() *Item {
	return t.item
}

// Element returns the draggable element the box was measured from.
func (t *ActiveDropTarget) Element() *dom.Element {
	return t.element
}

// Container returns the scrollable container holding the target, or nil.
func (t *ActiveDropTarget) Container() *ScrollableContainer {
	return t.container
}

// IsDummy reports whether t is the negative-space target.
func (t *ActiveDropTarget) IsDummy() bool {
	return t.target == nil
}

// hit reports whether p falls in the target and, for targets inside a
// scrollable container, in the container's viewport too.
func (t *ActiveDropTarget) hit(p geom.Coordinate) bool {
	if !t.box.Contains(p) {
		return false
	}
	return t.container == nil || t.container.box.Contains(p)
}

// visibleBox is the target box clipped to its container's viewport.
func (t *ActiveDropTarget) visibleBox() geom.Box {
	if t.container == nil {
		return t.box
	}
	sb := t.container.box
	return geom.Box{
		Top:    math.Max(t.box.Top, sb.Top),
		Right:  math.Min(t.box.Right, sb.Right),
		Bottom: math.Min(t.box.Bottom, sb.Bottom),
		Left:   math.Max(t.box.Left, sb.Left),
	}
}

// ScrollableContainer is a scrolling element whose scroll offset moves some
// of the drop targets.
type ScrollableContainer struct {
	element          *dom.Element
	box              geom.Box
	savedScrollLeft  float64
	savedScrollTop   float64
	containedTargets []*ActiveDropTarget
}

// Element returns the scrolling element.
func (sc *ScrollableContainer) Element() *dom.Element {
	return sc.element
}

// Box returns the container's page box as of the last recalculation.
func (sc *ScrollableContainer) Box() geom.Box {
	return sc.box
}

// Targets returns the drop targets inside the container.
func (sc *ScrollableContainer) Targets() []*ActiveDropTarget {
	return sc.containedTargets
}

// clipDummyBox shrinks box, the union of all targets, so that it excludes
// every target while still containing (x, y). Each target clips at most one
// edge: the axis whose clip line is farther from the pointer wins, which
// keeps the result as large as possible.
func clipDummyBox(box geom.Box, targets []*ActiveDropTarget, x, y float64) geom.Box {
	for _, t := range targets {
		tb := t.visibleBox()

		var hClip, vClip float64
		hasH, hasV := false, false
		if x >= tb.Right {
			hClip, hasH = math.Max(tb.Right, box.Left), true
		} else if x < tb.Left {
			hClip, hasH = math.Min(tb.Left, box.Right), true
		}
		if y >= tb.Bottom {
			vClip, hasV = math.Max(tb.Bottom, box.Top), true
		} else if y < tb.Top {
			vClip, hasV = math.Min(tb.Top, box.Bottom), true
		}

		if hasH && hasV {
			if math.Abs(hClip-x) > math.Abs(vClip-y) {
				hasV = false
			} else {
				hasH = false
			}
		}

		switch {
		case hasH:
			if hClip <= x {
				box.Left = hClip
			} else {
				box.Right = hClip
			}
		case hasV:
			if vClip <= y {
				box.Top = vClip
			} else {
				box.Bottom = vClip
			}
		}
	}
	return box
}
