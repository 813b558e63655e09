/*
Package maze builds and queries the wall graph of one rectangular maze.

Generation uses iterative randomized depth-first backtracking, producing a
spanning tree over the grid: every cell is reachable from the origin, exactly
width*height-1 wall pairs end up open, and there is exactly one simple path
between any two cells.
*/
package maze

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

// ErrInvalidDimensions is returned when a maze is requested with a
// non-positive width or height.
var ErrInvalidDimensions = errors.New("maze dimensions must be positive")

// Maze is a rectangular grid of cells, indexed Grid[y][x]. Once Generate
// returns, the grid is never mutated and is safe for unsynchronized
// concurrent reads.
type Maze struct {
	Width  int
	Height int
	Grid   [][]Cell
}

type position struct {
	x, y int
}

// Generate builds a width by height maze. rng drives neighbor selection, so
// generation is deterministic for a given source; pass nil for a time-seeded
// one. A 1x1 maze is valid: all four boundary walls stay intact and nothing
// is carved.
func Generate(width, height int, rng *rand.Rand) (*Maze, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	grid := make([][]Cell, height)
	for y := range grid {
		grid[y] = make([]Cell, width)
		for x := range grid[y] {
			grid[y][x] = Cell{X: x, Y: y, Top: true, Right: true, Bottom: true, Left: true}
		}
	}

	m := &Maze{Width: width, Height: height, Grid: grid}
	m.carve(rng)
	return m, nil
}

// carve runs the depth-first backtracker from the origin. Each step either
// opens the wall to a random unvisited neighbor and descends, or pops when
// the current cell has none left.
func (m *Maze) carve(rng *rand.Rand) {
	visited := make([][]bool, m.Height)
	for y := range visited {
		visited[y] = make([]bool, m.Width)
	}

	stack := []position{{0, 0}}
	visited[0][0] = true

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		neighbors := m.unvisitedNeighbors(current, visited)
		if len(neighbors) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := neighbors[rng.Intn(len(neighbors))]
		m.openWall(current, next)
		visited[next.y][next.x] = true
		stack = append(stack, next)
	}
}

func (m *Maze) unvisitedNeighbors(p position, visited [][]bool) []position {
	var result []position
	for _, n := range []position{{p.x, p.y - 1}, {p.x + 1, p.y}, {p.x, p.y + 1}, {p.x - 1, p.y}} {
		if n.x < 0 || n.x >= m.Width || n.y < 0 || n.y >= m.Height {
			continue
		}
		if !visited[n.y][n.x] {
			result = append(result, n)
		}
	}
	return result
}

// openWall clears both sides of the wall shared by two adjacent cells, so
// the two flags always agree after generation.
func (m *Maze) openWall(from, to position) {
	switch {
	case to.x-from.x == 1:
		m.Grid[from.y][from.x].Right = false
		m.Grid[to.y][to.x].Left = false
	case to.x-from.x == -1:
		m.Grid[from.y][from.x].Left = false
		m.Grid[to.y][to.x].Right = false
	case to.y-from.y == 1:
		m.Grid[from.y][from.x].Bottom = false
		m.Grid[to.y][to.x].Top = false
	case to.y-from.y == -1:
		m.Grid[from.y][from.x].Top = false
		m.Grid[to.y][to.x].Bottom = false
	}
}

// CanMove reports whether a step from (fromX, fromY) to (toX, toY) crosses
// an open wall. Only single cardinal steps to an in-bounds destination
// qualify; diagonal or longer deltas are always rejected.
func (m *Maze) CanMove(fromX, fromY, toX, toY int) bool {
	if !m.InBounds(fromX, fromY) || !m.InBounds(toX, toY) {
		return false
	}

	cell := m.Grid[fromY][fromX]
	switch {
	case toX-fromX == 1 && toY == fromY:
		return !cell.Right
	case toX-fromX == -1 && toY == fromY:
		return !cell.Left
	case toY-fromY == 1 && toX == fromX:
		return !cell.Bottom
	case toY-fromY == -1 && toX == fromX:
		return !cell.Top
	}
	return false
}

// InBounds reports whether (x, y) lies inside the grid.
func (m *Maze) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// String renders the maze as ASCII art for logs and debugging.
func (m *Maze) String() string {
	var b strings.Builder
	b.WriteString("+" + strings.Repeat("---+", m.Width) + "\n")

	for y := 0; y < m.Height; y++ {
		cellRow := "|"
		wallRow := "+"
		for x := 0; x < m.Width; x++ {
			cell := m.Grid[y][x]

			cellRow += "   "
			if cell.Right {
				cellRow += "|"
			} else {
				cellRow += " "
			}

			if cell.Bottom {
				wallRow += "---+"
			} else {
				wallRow += "   +"
			}
		}
		b.WriteString(cellRow + "\n")
		b.WriteString(wallRow + "\n")
	}

	return b.String()
}
