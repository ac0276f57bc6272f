// internal/httpserver/auth.go
//
// Session tokens and debug authentication.
// Responsibilities:
//   - Sign an HS256 JWT carrying the session id ("sid") and hand it out as a
//     cookie and in the response body.
//   - Resolve the session id from "Authorization: Bearer" or the cookie.
//   - Guard /debug routes with HTTP basic auth checked against a bcrypt hash.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	cookieName    = "colorquiz_session"
	tokenLifetime = 14 * 24 * time.Hour
	debugUser     = "debug"
)

var errNoToken = errors.New("no session token")

// sessionClaims is the JWT payload for a game session.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// ctxSessionKey is the context key type for the authenticated session id.
type ctxSessionKey struct{}

// signSessionToken creates a token for session id with a fixed lifetime.
func (s *Server) signSessionToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(tokenLifetime)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			Issuer:    "colorquiz",
		},
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parseSessionToken validates tok and returns its session id.
func (s *Server) parseSessionToken(tok string) (string, error) {
	var claims sessionClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.SessionID, nil
}

// setSessionCookie writes the session token cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireSession enforces a valid session token and puts its id in the context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "no_session")
			return
		}
		id, err := s.parseSessionToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the id placed in the context by requireSession.
func sessionID(r *http.Request) (string, error) {
	id, _ := r.Context().Value(ctxSessionKey{}).(string)
	if id == "" {
		return "", errNoToken
	}
	return id, nil
}

// requireDebugAuth checks basic auth against the configured bcrypt hash.
// Without a hash the debug routes do not exist.
func (s *Server) requireDebugAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.DebugPasswordHash == "" {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		user, pw, ok := r.BasicAuth()
		if !ok || user != debugUser ||
			bcrypt.CompareHashAndPassword([]byte(s.opts.DebugPasswordHash), []byte(pw)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="colorquiz-debug"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
