// Package handlers exposes the shop services over HTTP with JSON bodies.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"holoholo/auth"
	"holoholo/models"
	"holoholo/service"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`

	// Lines explains a refused checkout line by line.
	Lines []models.LineResult `json:"lines,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Field: "body", Msg: "invalid JSON"}
	}
	return nil
}

// writeError maps a service error onto a status code and notice.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *service.ValidationError
		de *service.DuplicateError
		nv *service.NoValidItemsError
	)
	body := errorBody{Error: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &ve):
		status, body.Error, body.Field = http.StatusBadRequest, ve.Error(), ve.Field
	case errors.As(err, &de):
		status, body.Error, body.Field = http.StatusConflict, de.Error(), de.Field
	case errors.Is(err, service.ErrAuthentication):
		status, body.Error = http.StatusUnauthorized, service.ErrAuthentication.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		status, body.Error, body.Redirect = http.StatusUnauthorized, service.ErrUnauthenticated.Error(), "/login"
	case errors.Is(err, service.ErrForbidden):
		status, body.Error, body.Redirect = http.StatusForbidden, service.ErrForbidden.Error(), "/"
	case errors.Is(err, service.ErrNotFound):
		status, body.Error = http.StatusNotFound, service.ErrNotFound.Error()
	case errors.Is(err, service.ErrEmptyCart):
		status, body.Error, body.Redirect = http.StatusBadRequest, service.ErrEmptyCart.Error(), "/cart"
	case errors.As(err, &nv):
		status, body.Error, body.Redirect, body.Lines = http.StatusConflict, nv.Error(), "/cart", nv.Lines
	case errors.Is(err, service.ErrNoValidItems):
		status, body.Error, body.Redirect = http.StatusConflict, service.ErrNoValidItems.Error(), "/cart"
	case errors.Is(err, service.ErrStockConflict):
		status, body.Error, body.Redirect = http.StatusConflict, service.ErrStockConflict.Error(), "/cart"
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("url", r.URL.String()).Msg("request failed")
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: name, Msg: "must be a positive integer"}
	}
	return id, nil
}

// caller returns the authenticated identity. Routes using it sit behind
// RequireAuth, so nil means the router was wired wrong.
func caller(r *http.Request) (*auth.Identity, error) {
	id := auth.IdentityFrom(r.Context())
	if id == nil {
		return nil, service.ErrUnauthenticated
	}
	return id, nil
}
