package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/checkers/apps/go-server/internal/game"
	"github.com/robalobadob/checkers/apps/go-server/internal/store"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(store.NewMemoryStore(), Options{SessionSecret: testSecret, SessionTTL: time.Hour})
}

// client replays the session cookie between requests like a browser would.
type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rr := httptest.NewRecorder()
	c.srv.Router().ServeHTTP(rr, req)
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == sessionCookieName {
			c.cookie = ck
		}
	}
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthAndIndex(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	rr := c.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"ok":true}`, rr.Body.String())

	rr = c.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "/api/move")
}

func TestNotFoundIsJSON(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	rr := c.do(http.MethodGet, "/nope", "")

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"error":"not_found"}`, rr.Body.String())
}

func TestStateIssuesSessionAndFreshGame(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	rr := c.do(http.MethodGet, "/api/state", "")

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, c.cookie, "session cookie should be set")
	require.True(t, c.cookie.HttpOnly)
	st := decode[game.State](t, rr)
	require.Equal(t, game.PlayerOne, st.CurrentPlayer)
	require.Len(t, st.Board, game.DefaultRows)
	require.Len(t, st.Board[0], game.DefaultCols)
	require.Empty(t, st.MoveHistory)
}

func TestSelectReturnsCandidates(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do(http.MethodGet, "/api/state", "")

	rr := c.do(http.MethodPost, "/api/select", `{"row":0,"col":1}`)

	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[selectRes](t, rr)
	require.Equal(t, game.Cell{Row: 0, Col: 1}, res.SelectedPiece)
	require.Equal(t, []game.Candidate{{Row: 0, Col: 2, Jumps: 0}, {Row: 1, Col: 2, Jumps: 0}}, res.ValidMoves)
}

func TestSelectEmptyCellReturnsEmptyList(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	rr := c.do(http.MethodPost, "/api/select", `{"row":2,"col":10}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"validMoves":[]`)
}

func TestMoveFlow(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do(http.MethodGet, "/api/state", "")

	rr := c.do(http.MethodPost, "/api/move", `{"fromRow":0,"fromCol":1,"toRow":0,"toCol":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[moveRes](t, rr)
	require.True(t, res.Success)
	require.NotNil(t, res.State)
	require.Equal(t, game.PlayerTwo, res.State.CurrentPlayer)
	require.Len(t, res.State.MoveHistory, 1)
	last := res.State.MoveHistory[0]
	require.Equal(t, game.PlayerOne, last.Player)
	require.Equal(t, game.Cell{Row: 0, Col: 1}, last.From)
	require.Equal(t, game.Cell{Row: 0, Col: 2}, last.To)
	require.False(t, last.Timestamp.IsZero(), "timestamp set on commit")

	// The move persisted in the session.
	st := decode[game.State](t, c.do(http.MethodGet, "/api/state", ""))
	require.Equal(t, game.PlayerTwo, st.CurrentPlayer)
	require.Equal(t, game.PlayerOne, st.Board[0][2])
	require.Equal(t, game.NoPlayer, st.Board[0][1])
}

func TestIllegalMoveLeavesStateUnchanged(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	before := c.do(http.MethodGet, "/api/state", "").Body.String()

	rr := c.do(http.MethodPost, "/api/move", `{"fromRow":0,"fromCol":19,"toRow":0,"toCol":17}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"success":false,"message":"Invalid move"}`, rr.Body.String())
	require.JSONEq(t, before, c.do(http.MethodGet, "/api/state", "").Body.String())
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		path, body string
	}{
		{"/api/select", `not json`},
		{"/api/select", `{"row":1}`},
		{"/api/move", `{"fromRow":0,"fromCol":1}`},
		{"/api/move", `[`},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			c := &client{t: t, srv: newTestServer(t)}
			rr := c.do(http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.JSONEq(t, `{"error":"bad_json"}`, rr.Body.String())
		})
	}
}

func TestResetStartsOver(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do(http.MethodPost, "/api/move", `{"fromRow":0,"fromCol":1,"toRow":0,"toCol":2}`)

	rr := c.do(http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"success":true}`, rr.Body.String())

	st := decode[game.State](t, c.do(http.MethodGet, "/api/state", ""))
	require.Equal(t, game.PlayerOne, st.CurrentPlayer)
	require.Empty(t, st.MoveHistory)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := &client{t: t, srv: srv}
	bob := &client{t: t, srv: srv}

	res := decode[moveRes](t, alice.do(http.MethodPost, "/api/move", `{"fromRow":0,"fromCol":1,"toRow":0,"toCol":2}`))
	require.True(t, res.Success)

	st := decode[game.State](t, bob.do(http.MethodGet, "/api/state", ""))
	require.Equal(t, game.PlayerOne, st.CurrentPlayer)
	require.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}

func TestTamperedSessionStartsFresh(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	c.do(http.MethodPost, "/api/move", `{"fromRow":0,"fromCol":1,"toRow":0,"toCol":2}`)
	good := c.cookie.Value

	c.cookie = &http.Cookie{Name: sessionCookieName, Value: good + "x"}
	st := decode[game.State](t, c.do(http.MethodGet, "/api/state", ""))

	require.Equal(t, game.PlayerOne, st.CurrentPlayer)
	require.NotEqual(t, good+"x", c.cookie.Value, "a new cookie is issued")
}

func TestBearerTokenSelectsSession(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}
	c.do(http.MethodPost, "/api/move", `{"fromRow":0,"fromCol":1,"toRow":0,"toCol":2}`)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Authorization", "Bearer "+c.cookie.Value)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	st := decode[game.State](t, rr)
	require.Equal(t, game.PlayerTwo, st.CurrentPlayer)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	srv := newTestServer(t)
	other := New(store.NewMemoryStore(), Options{SessionSecret: "another"})
	tok, _, err := other.signSession("2f1b9c9e-6c1a-4a4e-9d7c-1f0e6f1b2c3d")
	require.NoError(t, err)

	_, err = srv.parseSession(tok)
	require.Error(t, err)

	id, err := other.parseSession(tok)
	require.NoError(t, err)
	require.Equal(t, "2f1b9c9e-6c1a-4a4e-9d7c-1f0e6f1b2c3d", id)
}

func TestCORSPreflight(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	rr := c.do(http.MethodOptions, "/api/move", "")

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}
