package geom

import (
	"errors"
	"math"
)

// ErrDimension is returned when a primitive is built from the wrong number
// of values.
var ErrDimension = errors.New("geom: mismatched dimensions")

// Coordinate is a point.
type Coordinate struct {
	X, Y float64
}

// Pt is shorthand for Coordinate{X: x, Y: y}.
func Pt(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y}
}

// Add returns c + o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns c - o.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{X: c.X - o.X, Y: c.Y - o.Y}
}

// SquaredDistance returns the squared Euclidean distance between c and o.
func (c Coordinate) SquaredDistance(o Coordinate) float64 {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between c and o.
func (c Coordinate) Distance(o Coordinate) float64 {
	return math.Sqrt(c.SquaredDistance(o))
}

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}
