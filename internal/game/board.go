// apps/go-server/internal/game/board.go
//
// Board storage and the starting layout.
//
// The board is a fixed rows×cols grid stored row-major. Each side starts with
// a ten-piece triangle packed against its own short edge:
//   - player1 in columns 0..1 where row*2 + col < 10
//   - player2 in columns cols-2..cols-1, mirrored
package game

const (
	DefaultRows = 5
	DefaultCols = 20

	// startWidth is how many edge columns the starting triangle spans.
	startWidth = 2
	// startLimit bounds row*2 + distanceFromEdge for starting pieces.
	startLimit = 10
)

// Board is a fixed-size grid of cells, each empty or owned by a Player.
type Board struct {
	rows, cols int
	cells      []Player
}

// NewBoard returns a rows×cols board with the starting layout.
func NewBoard(rows, cols int) *Board {
	b := emptyBoard(rows, cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < startWidth && col < cols; col++ {
			if row*2+col < startLimit {
				b.set(row, col, PlayerOne)
			}
		}
		for col := cols - startWidth; col < cols; col++ {
			if col >= 0 && row*2+(cols-1-col) < startLimit {
				b.set(row, col, PlayerTwo)
			}
		}
	}
	return b
}

func emptyBoard(rows, cols int) *Board {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Board{rows: rows, cols: cols, cells: make([]Player, rows*cols)}
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// IsValidCell reports whether (row, col) lies on the board.
func (b *Board) IsValidCell(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// At returns the owner of (row, col), or NoPlayer for empty or off-board cells.
func (b *Board) At(row, col int) Player {
	if !b.IsValidCell(row, col) {
		return NoPlayer
	}
	return b.cells[row*b.cols+col]
}

func (b *Board) set(row, col int, p Player) {
	b.cells[row*b.cols+col] = p
}

// occupied reports whether an on-board cell holds a piece.
func (b *Board) occupied(row, col int) bool {
	return b.cells[row*b.cols+col] != NoPlayer
}

// Grid returns a copy of the board as a slice of rows.
func (b *Board) Grid() [][]Player {
	out := make([][]Player, b.rows)
	for r := range out {
		out[r] = make([]Player, b.cols)
		copy(out[r], b.cells[r*b.cols:(r+1)*b.cols])
	}
	return out
}

// Count returns how many pieces p has on the board.
func (b *Board) Count(p Player) int {
	n := 0
	for _, c := range b.cells {
		if c == p {
			n++
		}
	}
	return n
}

func (b *Board) clone() *Board {
	cells := make([]Player, len(b.cells))
	copy(cells, b.cells)
	return &Board{rows: b.rows, cols: b.cols, cells: cells}
}
