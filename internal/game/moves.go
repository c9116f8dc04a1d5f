// apps/go-server/internal/game/moves.go
//
// Legal-move generation.
//
// A piece may either step to any empty neighbour (8 directions) or make a
// chain of jumps. A single jump looks along a direction for the first piece at
// distance k and lands at distance 2k, provided the landing cell is empty and
// nothing else sits between the start and the landing cell. Chains are found
// with a breadth-first search keyed on the best known jump count per cell.
package game

// direction is a unit (row, col) delta.
type direction struct{ dr, dc int }

// directions lists the 8 neighbours in row-major order: NW, N, NE, W, E, SW, S, SE.
// Candidate order depends on it.
var directions = [8]direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// ValidMoves returns every destination reachable from `from` by the side to
// move: adjacent steps first, then jump landings in discovery order.
// Intermediate landings of a chain are destinations in their own right.
//
// An empty, off-board or opponent-owned origin yields nil.
func (g *Game) ValidMoves(from Cell) []Candidate {
	b := g.board
	if !b.IsValidCell(from.Row, from.Col) || b.At(from.Row, from.Col) != g.current {
		return nil
	}

	moves := make([]Candidate, 0, len(directions))
	for _, d := range directions {
		r, c := from.Row+d.dr, from.Col+d.dc
		if b.IsValidCell(r, c) && !b.occupied(r, c) {
			moves = append(moves, Candidate{Row: r, Col: c, Jumps: 0})
		}
	}

	// The moving piece stays on its origin during the search, so later hops
	// may jump over it.
	best := map[Cell]int{from: 0}
	queue := []Candidate{{Row: from.Row, Col: from.Col, Jumps: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Jumps > best[cur.Cell()] {
			continue // superseded by a shorter chain
		}
		for _, d := range directions {
			land, ok := b.jumpLanding(cur.Cell(), d)
			if !ok {
				continue
			}
			n := cur.Jumps + 1
			if prev, seen := best[land]; seen && prev <= n {
				continue
			}
			best[land] = n
			next := Candidate{Row: land.Row, Col: land.Col, Jumps: n}
			moves = append(moves, next)
			queue = append(queue, next)
		}
	}
	return moves
}

// jumpLanding scans from `from` along d for the first piece and returns the
// cell mirrored beyond it, if that cell is a legal landing.
func (b *Board) jumpLanding(from Cell, d direction) (Cell, bool) {
	for k := 1; ; k++ {
		r, c := from.Row+d.dr*k, from.Col+d.dc*k
		if !b.IsValidCell(r, c) {
			return Cell{}, false
		}
		if !b.occupied(r, c) {
			continue
		}
		land := Cell{Row: from.Row + d.dr*2*k, Col: from.Col + d.dc*2*k}
		if !b.IsValidCell(land.Row, land.Col) || b.occupied(land.Row, land.Col) {
			return Cell{}, false
		}
		if !b.isPathClear(from, land) {
			return Cell{}, false
		}
		return land, true
	}
}

// isPathClear reports whether every cell strictly between start and end is
// empty, ignoring the midpoint (the piece being jumped). start and end must
// lie on a common row, column or diagonal, an even number of cells apart.
func (b *Board) isPathClear(start, end Cell) bool {
	dr, dc := sign(end.Row-start.Row), sign(end.Col-start.Col)
	mid := Cell{Row: start.Row + (end.Row-start.Row)/2, Col: start.Col + (end.Col-start.Col)/2}

	cur := Cell{Row: start.Row + dr, Col: start.Col + dc}
	for cur != end {
		if cur != mid && b.occupied(cur.Row, cur.Col) {
			return false
		}
		cur.Row += dr
		cur.Col += dc
	}
	return true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
