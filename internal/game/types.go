// apps/go-server/internal/game/types.go
//
// Core type definitions for the Chinese checkers rules engine.
// Defines:
//   - Player: owner of a piece / the side to move.
//   - Cell: a (row, col) coordinate.
//   - Candidate: a reachable destination plus the jumps needed to get there.
//   - MoveRecord: one committed move in the history.
//   - Game: board, side to move and history for a single game.

package game

import "time"

// Player identifies one of the two sides. The empty Player marks an empty cell.
type Player string

const (
	NoPlayer  Player = ""
	PlayerOne Player = "player1"
	PlayerTwo Player = "player2"
)

// Opponent returns the other side. NoPlayer has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return NoPlayer
}

// Valid reports whether p is one of the two playing sides.
func (p Player) Valid() bool { return p == PlayerOne || p == PlayerTwo }

// Cell is a board coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Candidate is a destination produced by move generation.
// Jumps is 0 for an adjacent step, otherwise the length of the jump chain.
type Candidate struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Jumps int `json:"jumps"`
}

// Cell returns the destination coordinate of the candidate.
func (c Candidate) Cell() Cell { return Cell{Row: c.Row, Col: c.Col} }

// MoveRecord is an entry in the move history. Records are appended on commit
// and never modified afterwards.
type MoveRecord struct {
	Player    Player    `json:"player"`
	From      Cell      `json:"from"`
	To        Cell      `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// Game holds the state of a single game. The engine keeps nothing between
// calls; whoever holds the *Game owns it.
type Game struct {
	board   *Board       // piece placement
	current Player       // side to move
	history []MoveRecord // committed moves, oldest first
}
