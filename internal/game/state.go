// apps/go-server/internal/game/state.go
//
// Snapshot export/import so callers can persist a game between requests.
//
// State is the plain structural form of a Game: grid, side to move and
// history. It round-trips through JSON; empty cells encode as null.
package game

import (
	"encoding/json"
	"fmt"
)

// State is a detached snapshot of a Game.
type State struct {
	Board         [][]Player   `json:"board"`
	CurrentPlayer Player       `json:"currentPlayer"`
	MoveHistory   []MoveRecord `json:"moveHistory"`
}

// State returns a deep copy of the game's board, side to move and history.
func (g *Game) State() State {
	return State{
		Board:         g.board.Grid(),
		CurrentPlayer: g.current,
		MoveHistory:   g.History(),
	}
}

// Restore rebuilds a Game from a snapshot. The snapshot is copied, so later
// changes to s do not affect the returned game.
func Restore(s State) (*Game, error) {
	rows := len(s.Board)
	if rows == 0 {
		return nil, fmt.Errorf("restore: no rows: %w", ErrBadDimensions)
	}
	cols := len(s.Board[0])
	if cols == 0 {
		return nil, fmt.Errorf("restore: no columns: %w", ErrBadDimensions)
	}
	if !s.CurrentPlayer.Valid() {
		return nil, fmt.Errorf("restore: current player %q: %w", s.CurrentPlayer, ErrBadPlayer)
	}

	b := emptyBoard(rows, cols)
	for r, line := range s.Board {
		if len(line) != cols {
			return nil, fmt.Errorf("restore: row %d has %d cells, want %d: %w", r, len(line), cols, ErrBadDimensions)
		}
		for c, p := range line {
			if p != NoPlayer && !p.Valid() {
				return nil, fmt.Errorf("restore: cell (%d,%d) holds %q: %w", r, c, p, ErrBadCell)
			}
			b.set(r, c, p)
		}
	}

	history := make([]MoveRecord, 0, len(s.MoveHistory))
	for i, m := range s.MoveHistory {
		if !m.Player.Valid() {
			return nil, fmt.Errorf("restore: move %d player %q: %w", i, m.Player, ErrBadPlayer)
		}
		if !b.IsValidCell(m.From.Row, m.From.Col) || !b.IsValidCell(m.To.Row, m.To.Col) {
			return nil, fmt.Errorf("restore: move %d off board: %w", i, ErrBadCell)
		}
		history = append(history, m)
	}

	return &Game{board: b, current: s.CurrentPlayer, history: history}, nil
}

// MarshalJSON encodes NoPlayer as null.
func (p Player) MarshalJSON() ([]byte, error) {
	if p == NoPlayer {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts a player string or null.
func (p *Player) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPlayer
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = Player(s)
	return nil
}
