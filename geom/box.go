// Package geom provides the axis-aligned rectangle types shared by the drag
// controllers: Box (edge form), Rect (origin and size form) and Coordinate.
package geom

import (
	"fmt"
	"math"
)

// Box is an axis-aligned rectangle described by its four edges.
// A well-formed box has Top <= Bottom and Left <= Right.
type Box struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// NewBox creates a box from its edges in CSS order (top, right, bottom, left).
func NewBox(top, right, bottom, left float64) Box {
	return Box{Top: top, Right: right, Bottom: bottom, Left: left}
}

// BoundingBox returns the smallest box containing every coordinate.
// It fails when no coordinates are given.
func BoundingBox(coords ...Coordinate) (Box, error) {
	if len(coords) == 0 {
		return Box{}, fmt.Errorf("bounding box of no coordinates: %w", ErrDimension)
	}
	b := Box{Top: coords[0].Y, Right: coords[0].X, Bottom: coords[0].Y, Left: coords[0].X}
	for _, c := range coords[1:] {
		b = b.ExpandToInclude(c)
	}
	return b, nil
}

// Width returns Right - Left.
func (b Box) Width() float64 {
	return b.Right - b.Left
}

// Height returns Bottom - Top.
func (b Box) Height() float64 {
	return b.Bottom - b.Top
}

// Area returns Width * Height.
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Clone returns a copy of the box. Boxes are values, so this exists for
// readability at call sites that go on to mutate the copy.
func (b Box) Clone() Box {
	return b
}

// Contains reports whether the point lies inside the box. The top and left
// edges are inside, the right and bottom edges are not, so touching boxes
// never both contain a point.
func (b Box) Contains(c Coordinate) bool {
	return c.X >= b.Left && c.X < b.Right && c.Y >= b.Top && c.Y < b.Bottom
}

// ContainsBox reports whether other lies entirely inside b.
func (b Box) ContainsBox(other Box) bool {
	return other.Left >= b.Left && other.Right <= b.Right &&
		other.Top >= b.Top && other.Bottom <= b.Bottom
}

// Intersects reports whether the two boxes overlap or touch.
func (b Box) Intersects(other Box) bool {
	return b.Left <= other.Right && other.Left <= b.Right &&
		b.Top <= other.Bottom && other.Top <= b.Bottom
}

// Intersection clips b to other. The second result is false when the boxes
// do not overlap, in which case the returned box is degenerate.
func (b Box) Intersection(other Box) (Box, bool) {
	clipped := Box{
		Top:    math.Max(b.Top, other.Top),
		Right:  math.Min(b.Right, other.Right),
		Bottom: math.Min(b.Bottom, other.Bottom),
		Left:   math.Max(b.Left, other.Left),
	}
	return clipped, clipped.Left <= clipped.Right && clipped.Top <= clipped.Bottom
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	return Box{
		Top:    math.Min(b.Top, other.Top),
		Right:  math.Max(b.Right, other.Right),
		Bottom: math.Max(b.Bottom, other.Bottom),
		Left:   math.Min(b.Left, other.Left),
	}
}

// ExpandToInclude grows the box so that it contains c.
func (b Box) ExpandToInclude(c Coordinate) Box {
	b.Top = math.Min(b.Top, c.Y)
	b.Right = math.Max(b.Right, c.X)
	b.Bottom = math.Max(b.Bottom, c.Y)
	b.Left = math.Min(b.Left, c.X)
	return b
}

// Expand grows the box outward by the given edge amounts. Negative amounts
// shrink it.
func (b Box) Expand(top, right, bottom, left float64) Box {
	b.Top -= top
	b.Right += right
	b.Bottom += bottom
	b.Left -= left
	return b
}

// Translate moves the box by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.Top += dy
	b.Bottom += dy
	b.Left += dx
	b.Right += dx
	return b
}

// ToRect converts the box to origin and size form.
func (b Box) ToRect() Rect {
	return Rect{Left: b.Left, Top: b.Top, Width: b.Width(), Height: b.Height()}
}

// Center returns the midpoint of the box.
func (b Box) Center() Coordinate {
	return Coordinate{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

func (b Box) String() string {
	return fmt.Sprintf("(%gt, %gr, %gb, %gl)", b.Top, b.Right, b.Bottom, b.Left)
}
