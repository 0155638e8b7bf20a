package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"holoholo/cart"
	"holoholo/middleware"
	"holoholo/models"
	"holoholo/service"
)

func SignupHandler(accounts *service.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := decodeJSON(r, &creds); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := accounts.Register(r.Context(), creds)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"user":     user,
			"message":  "registration successful, please log in",
			"redirect": "/login",
		})
	}
}

func LoginHandler(accounts *service.Accounts, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := decodeJSON(r, &creds); err != nil {
			writeError(w, r, err)
			return
		}
		session, err := accounts.Login(r.Context(), creds)
		if err != nil {
			zerolog.Ctx(r.Context()).Info().Str("username", creds.Username).Msg("login refused")
			writeError(w, r, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    session.Token,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, session)
	}
}

// LogoutHandler drops the session cookie and the caller's cart.
func LogoutHandler(carts *cart.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, err := caller(r); err == nil {
			if err := carts.Clear(r.Context(), id.SessionKey()); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("cart not cleared on logout")
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out", "redirect": "/"})
	}
}

func MeHandler(accounts *service.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		user, err := accounts.Profile(r.Context(), id.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
