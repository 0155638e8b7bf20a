package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"holoholo/auth"
	"holoholo/models"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

type TokenParser interface {
	Parse(token string) (*auth.Identity, error)
}

// Authenticate resolves the caller from the session cookie or a bearer
// token. Requests without a valid token continue anonymously.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					raw = c.Value
				}
			}
			if raw != "" {
				if id, err := tokens.Parse(raw); err == nil {
					// the request logger is shared with Logger further up
					zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
						return c.Int64("user_id", id.UserID)
					})
					r = r.WithContext(auth.WithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.IdentityFrom(r.Context()) == nil {
			deny(w, http.StatusUnauthorized, "please log in to continue", "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole refuses callers without role. Anonymous callers get 401.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.IdentityFrom(r.Context())
			if id == nil {
				deny(w, http.StatusUnauthorized, "please log in to continue", "/login")
				return
			}
			if id.Role != role {
				deny(w, http.StatusForbidden, "access denied", "/")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, msg, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "redirect": redirect})
}
