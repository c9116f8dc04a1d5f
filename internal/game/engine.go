// apps/go-server/internal/game/engine.go
//
// Core game engine for a single Chinese checkers game.
// Responsibilities:
//   - Create new games with the canonical 5x20 layout, player1 to move.
//   - Validate and apply moves (legality is always recomputed on commit).
//   - Alternate the side to move and keep the move history.
//
// Notes:
//   - There is no end-of-game detection; a game is always awaiting a move.
//   - Timestamps on history entries come from the caller.
package game

import "time"

// New constructs a game with the starting layout on the default board.
func New() *Game {
	return NewWithSize(DefaultRows, DefaultCols)
}

// NewWithSize constructs a game on a rows×cols board. The starting formula
// needs at least 5 rows and 4 columns to place ten pieces per side.
func NewWithSize(rows, cols int) *Game {
	return &Game{
		board:   NewBoard(rows, cols),
		current: PlayerOne,
		history: []MoveRecord{},
	}
}

// CurrentPlayer returns the side to move.
func (g *Game) CurrentPlayer() Player { return g.current }

// Board returns a copy of the current board.
func (g *Game) Board() *Board { return g.board.clone() }

// History returns a copy of the committed moves, oldest first.
func (g *Game) History() []MoveRecord {
	out := make([]MoveRecord, len(g.history))
	copy(out, g.history)
	return out
}

// MovePiece commits a move from `from` to `to` for the side to move.
// Returns false and leaves the game untouched when the origin is not the
// mover's piece or the destination is not among ValidMoves(from).
//
// On success the piece moves, a MoveRecord stamped with `at` is appended and
// the turn passes to the opponent.
func (g *Game) MovePiece(from, to Cell, at time.Time) bool {
	if g.board.At(from.Row, from.Col) != g.current || !g.current.Valid() {
		return false
	}
	if !containsCell(g.ValidMoves(from), to) {
		return false
	}

	g.board.set(to.Row, to.Col, g.current)
	g.board.set(from.Row, from.Col, NoPlayer)
	g.history = append(g.history, MoveRecord{
		Player:    g.current,
		From:      from,
		To:        to,
		Timestamp: at,
	})
	g.current = g.current.Opponent()
	return true
}

// containsCell reports whether any candidate lands on c.
func containsCell(moves []Candidate, c Cell) bool {
	for _, m := range moves {
		if m.Row == c.Row && m.Col == c.Col {
			return true
		}
	}
	return false
}
