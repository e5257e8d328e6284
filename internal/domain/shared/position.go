package shared

import (
	"fmt"
	"math"
)

// Position is an integer tile coordinate inside a sector
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// DistanceTo returns the Euclidean distance between two tiles
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(float64(other.X-p.X), float64(other.Y-p.Y))
}

// Adjacent returns the eight neighbouring tiles in a fixed clockwise order starting north
func (p Position) Adjacent() []Position {
	return []Position{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X + 1, p.Y + 1},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y + 1},
		{p.X - 1, p.Y},
		{p.X - 1, p.Y - 1},
	}
}

// Ring returns the tiles at Chebyshev distance r, walking the square clockwise from its north-west corner
func (p Position) Ring(r int) []Position {
	if r <= 0 {
		return []Position{p}
	}
	tiles := make([]Position, 0, 8*r)
	for x := p.X - r; x <= p.X+r; x++ {
		tiles = append(tiles, Position{x, p.Y - r})
	}
	for y := p.Y - r + 1; y <= p.Y+r; y++ {
		tiles = append(tiles, Position{p.X + r, y})
	}
	for x := p.X + r - 1; x >= p.X-r; x-- {
		tiles = append(tiles, Position{x, p.Y + r})
	}
	for y := p.Y + r - 1; y > p.Y-r; y-- {
		tiles = append(tiles, Position{p.X - r, y})
	}
	return tiles
}

// TracePath returns the Bresenham grid line from start to end with both endpoints included.
// A start equal to end yields a single-tile path.
func TracePath(start, end Position) []Position {
	dx := abs(end.X - start.X)
	dy := -abs(end.Y - start.Y)
	sx, sy := 1, 1
	if start.X > end.X {
		sx = -1
	}
	if start.Y > end.Y {
		sy = -1
	}

	path := make([]Position, 0, max(dx, -dy)+1)
	x, y := start.X, start.Y
	e := dx + dy
	for {
		path = append(path, Position{x, y})
		if x == end.X && y == end.Y {
			return path
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
