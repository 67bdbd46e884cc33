package valueobjects

import "math"

// Position is a value object for a node's placement on the sketch canvas.
// The force layout runs client-side; the engine only stores the hint.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a new position
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Equals checks if two positions are equal within a small tolerance
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.X-other.X) < epsilon && math.Abs(p.Y-other.Y) < epsilon
}

// IsZero checks if the position is the origin
func (p Position) IsZero() bool {
	return p.X == 0 && p.Y == 0
}
