package geom

import (
	"fmt"
	"math"
)

// Rect is a rectangle described by its top-left corner and size. Drag limits
// use Rect with NaN fields to mean "unconstrained".
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewRect creates a new Rect.
func NewRect(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// Unbounded returns a rect with every field NaN. Used as the default drag
// limits.
func Unbounded() Rect {
	nan := math.NaN()
	return Rect{Left: nan, Top: nan, Width: nan, Height: nan}
}

// RectFromSlice builds a rect from a [left, top, width, height] slice, the
// form used in configuration files.
func RectFromSlice(v []float64) (Rect, error) {
	if len(v) != 4 {
		return Rect{}, fmt.Errorf("rect needs 4 values, got %d: %w", len(v), ErrDimension)
	}
	return Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}, nil
}

// Right returns Left + Width.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns Top + Height.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (r Rect) Contains(c Coordinate) bool {
	return c.X >= r.Left && c.X <= r.Right() && c.Y >= r.Top && c.Y <= r.Bottom()
}

// ContainsStrict is Contains with every edge excluded.
func (r Rect) ContainsStrict(c Coordinate) bool {
	return c.X > r.Left && c.X < r.Right() && c.Y > r.Top && c.Y < r.Bottom()
}

// ToBox converts to edge form.
func (r Rect) ToBox() Box {
	return Box{Top: r.Top, Right: r.Right(), Bottom: r.Bottom(), Left: r.Left}
}

// Center returns the midpoint.
func (r Rect) Center() Coordinate {
	return Coordinate{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// LimitX clamps x into the horizontal span of r. A NaN Left leaves x
// unconstrained; a NaN Width is treated as zero.
func (r Rect) LimitX(x float64) float64 {
	return Limit(x, r.Left, r.Width)
}

// LimitY clamps y into the vertical span of r.
func (r Rect) LimitY(y float64) float64 {
	return Limit(y, r.Top, r.Height)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g - %gw x %gh)", r.Left, r.Top, r.Width, r.Height)
}

// Limit clamps value into [min, min+span]. When min is NaN the value is
// returned unchanged; a NaN span counts as zero.
func Limit(value, min, span float64) float64 {
	if math.IsNaN(min) {
		return value
	}
	if math.IsNaN(span) {
		span = 0
	}
	return math.Min(min+span, math.Max(min, value))
}
