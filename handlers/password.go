package handlers

import (
	"net/http"

	"holoholo/models"
	"holoholo/service"
)

func ChangePasswordHandler(accounts *service.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req models.PasswordChangeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := accounts.ChangePassword(r.Context(), id.UserID, req); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
