// apps/go-server/internal/httpserver/ws.go
//
// Live updates over WebSocket.
//
// GET /api/ws upgrades a request that already carries a valid session. The
// client immediately receives {"type":"state"} with the current game and
// another one after every move or reset in that session, so several tabs
// sharing a hot-seat game stay in sync. Inbound {"type":"ping"} is answered
// with {"type":"pong"}; other inbound messages are ignored.

package httpserver

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/checkers/apps/go-server/internal/game"
)

const (
	wsSendBuffer   = 16
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 4096
)

// wsMessage is the envelope for every frame in both directions.
type wsMessage struct {
	Type    string      `json:"type"`              // "state" | "ping" | "pong"
	Payload interface{} `json:"payload,omitempty"` // game.State for "state"
}

func stateMessage(st game.State) wsMessage {
	return wsMessage{Type: "state", Payload: st}
}

// wsClient is one connected socket.
type wsClient struct {
	session string
	conn    *websocket.Conn
	send    chan wsMessage
}

// hub tracks live sockets per session.
type hub struct {
	mu      sync.Mutex
	clients map[string]map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[string]map[*wsClient]struct{})}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.session]
	if !ok {
		set = make(map[*wsClient]struct{})
		h.clients[c.session] = set
	}
	set[c] = struct{}{}
}

// remove unregisters c and closes its send channel. Safe to call twice.
func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *hub) dropLocked(c *wsClient) {
	set, ok := h.clients[c.session]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.session)
	}
}

// broadcast queues msg for every socket in the session. A client whose
// buffer is full is dropped rather than blocking the caller.
func (h *hub) broadcast(session string, msg wsMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[session] {
		select {
		case c.send <- msg:
		default:
			log.Warn().Str("session", session).Msg("ws client too slow, dropping")
			h.dropLocked(c)
		}
	}
}

// closeAll drops every client; used on shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.dropLocked(c)
		}
	}
}

// count reports live sockets for a session.
func (h *hub) count(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[session])
}

// handleWS upgrades the connection and streams state updates.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, err := s.requestSession(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session")
		return
	}

	// Registration happens under the session lock so no update can slip in
	// between the initial snapshot and the first broadcast.
	mu := s.sessionLock(id)
	mu.Lock()
	g, err := s.loadGame(r.Context(), id)
	if err != nil {
		mu.Unlock()
		hlog.FromRequest(r).Error().Err(err).Str("session", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		mu.Unlock()
		// Upgrade already replied to the client.
		hlog.FromRequest(r).Warn().Err(err).Msg("ws upgrade")
		return
	}
	c := &wsClient{session: id, conn: conn, send: make(chan wsMessage, wsSendBuffer)}
	c.send <- stateMessage(g.State())
	s.hub.add(c)
	mu.Unlock()

	go c.writePump()
	s.readPump(c)
}

// writePump drains the send channel onto the socket until it is closed.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteTimeout))
}

// readPump handles inbound frames until the peer goes away.
func (s *Server) readPump(c *wsClient) {
	defer func() {
		s.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(wsMaxMessage)
	for {
		var msg wsMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == "ping" {
			s.hub.reply(c, wsMessage{Type: "pong"})
		}
	}
}

// reply queues msg for a single client if it is still registered.
func (h *hub) reply(c *wsClient, msg wsMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.session][c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// checkOrigin accepts same-host requests, the configured client origin, and
// non-browser clients that send no Origin header.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.opts.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
