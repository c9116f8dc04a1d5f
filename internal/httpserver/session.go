// apps/go-server/internal/httpserver/session.go
//
// Session identity.
//
// A session is a random UUID carried as the subject of an HS256 JWT, stored
// in an HttpOnly cookie (or sent as `Authorization: Bearer <token>`). The
// token only names the session; the game itself lives in the store.
// A missing, tampered or expired token starts a brand-new session.

package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

const sessionCookieName = "checkers_session"

var errNoSession = errors.New("no session")

// sessionID returns the caller's session ID, issuing a new session cookie
// when the request carries no valid token.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id, err := s.requestSession(r); err == nil {
		return id
	}
	id := uuid.NewString()
	tok, exp, err := s.signSession(id)
	if err != nil {
		// The session still works for this request; it just won't stick.
		hlog.FromRequest(r).Error().Err(err).Msg("sign session")
		return id
	}
	s.setSessionCookie(w, tok, exp)
	return id
}

// requestSession extracts and verifies the session token on r.
func (s *Server) requestSession(r *http.Request) (string, error) {
	tok := bearerOrCookie(r)
	if tok == "" {
		return "", errNoSession
	}
	return s.parseSession(tok)
}

// signSession creates an HS256 token whose subject is the session ID.
func (s *Server) signSession(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.opts.SessionSecret))
	return ss, exp, err
}

// parseSession verifies tok and returns the session ID it carries.
func (s *Server) parseSession(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errNoSession
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errNoSession
	}
	return claims.Subject, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.Production {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
