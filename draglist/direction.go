package draglist

import (
	"fmt"
	"strings"
)

// Direction is the way a list grows as items are added to it.
type Direction int

// Growth directions. The 2D variants wrap into rows and pick the insertion
// point within the row closest to the pointer.
const (
	Down Direction = iota
	Up
	Right
	Left
	Right2D
	Left2D
)

var directionNames = [...]string{
	Down:    "down",
	Up:      "up",
	Right:   "right",
	Left:    "left",
	Right2D: "right2d",
	Left2D:  "left2d",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection parses a direction name as printed by String. The 2D names
// may also be hyphenated, as in "right-2d".
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if base, ok := strings.CutSuffix(s, "-2d"); ok {
		s = base + "2d"
	}
	for d, name := range directionNames {
		if name == s {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("draglist: unknown direction %q", s)
}
