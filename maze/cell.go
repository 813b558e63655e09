package maze

// Cell is a single square of the grid with one independent wall flag per
// side. The origin is the top-left corner, so Top faces north and Bottom
// faces south. Cells are mutable during generation only; once the maze is
// published they are never written again.
type Cell struct {
	X      int
	Y      int
	Top    bool
	Right  bool
	Bottom bool
	Left   bool
}
