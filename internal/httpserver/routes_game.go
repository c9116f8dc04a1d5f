// apps/go-server/internal/httpserver/routes_game.go
//
// Game routes. Each handler resolves the caller's session, restores its game
// from the store (creating one on first contact), and calls into the engine:
//   - GET  /api/state  → board, side to move, history
//   - POST /api/select → legal destinations for one piece
//   - POST /api/move   → commit a move; illegal moves answer success=false
//   - POST /api/reset  → start over with a fresh game

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/checkers/apps/go-server/internal/game"
	"github.com/robalobadob/checkers/apps/go-server/internal/store"
)

// selectReq/Res payloads for POST /api/select.
type selectReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}
type selectRes struct {
	ValidMoves    []game.Candidate `json:"validMoves"`
	SelectedPiece game.Cell        `json:"selectedPiece"`
}

// moveReq/Res payloads for POST /api/move.
type moveReq struct {
	FromRow *int `json:"fromRow"`
	FromCol *int `json:"fromCol"`
	ToRow   *int `json:"toRow"`
	ToCol   *int `json:"toCol"`
}
type moveRes struct {
	Success bool        `json:"success"`
	State   *game.State `json:"state,omitempty"`
	Message string      `json:"message,omitempty"`
}

// loadGame restores the session's game, storing a fresh one if none exists.
// Callers must hold the session lock.
func (s *Server) loadGame(ctx context.Context, id string) (*game.Game, error) {
	g, err := s.store.Get(ctx, id)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	g = game.New()
	if err := s.store.Save(ctx, id, g); err != nil {
		return nil, err
	}
	return g, nil
}

// handleState returns the session's current state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	mu := s.sessionLock(id)
	mu.Lock()
	g, err := s.loadGame(r.Context(), id)
	mu.Unlock()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	writeJSON(w, http.StatusOK, g.State())
}

// handleSelect lists legal destinations for the piece at {row,col}.
// Empty or opponent cells simply yield no moves.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	id := s.sessionID(w, r)
	mu := s.sessionLock(id)
	mu.Lock()
	g, err := s.loadGame(r.Context(), id)
	mu.Unlock()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}

	from := game.Cell{Row: *req.Row, Col: *req.Col}
	moves := g.ValidMoves(from)
	if moves == nil {
		moves = []game.Candidate{}
	}
	writeJSON(w, http.StatusOK, selectRes{ValidMoves: moves, SelectedPiece: from})
}

// handleMove commits a move for the side to move and pushes the new state to
// the session's live subscribers.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.FromRow == nil || req.FromCol == nil || req.ToRow == nil || req.ToCol == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	from := game.Cell{Row: *req.FromRow, Col: *req.FromCol}
	to := game.Cell{Row: *req.ToRow, Col: *req.ToCol}

	id := s.sessionID(w, r)
	mu := s.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	g, err := s.loadGame(r.Context(), id)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	mover := g.CurrentPlayer()
	if !g.MovePiece(from, to, time.Now().UTC()) {
		hlog.FromRequest(r).Debug().Str("session", id).
			Interface("from", from).Interface("to", to).Msg("rejected move")
		writeJSON(w, http.StatusOK, moveRes{Success: false, Message: "Invalid move"})
		return
	}
	if err := s.store.Save(r.Context(), id, g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", id).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Info().Str("session", id).Str("player", string(mover)).
		Interface("from", from).Interface("to", to).Msg("move")

	st := g.State()
	s.hub.broadcast(id, stateMessage(st))
	writeJSON(w, http.StatusOK, moveRes{Success: true, State: &st})
}

// handleReset replaces the session's game with a fresh one.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	mu := s.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	g := game.New()
	if err := s.store.Save(r.Context(), id, g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", id).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.hub.broadcast(id, stateMessage(g.State()))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
