package handlers

import (
	"errors"
	"net/http"

	"holoholo/cart"
	"holoholo/models"
	"holoholo/service"
)

func CartHandler(carts *cart.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		view, err := carts.View(r.Context(), id.SessionKey())
		if err != nil {
			writeError(w, r, &service.StorageError{Op: "view cart", Err: err})
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// AddToCartHandler adds one unit unless quantity is given.
func AddToCartHandler(carts *cart.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req models.CartRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		qty := 1
		if req.Quantity != nil {
			qty = *req.Quantity
		}
		if err := carts.AddItem(r.Context(), id.SessionKey(), req.ProductID.String(), qty); err != nil {
			writeCartError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "item added to cart", "redirect": "/cart"})
	}
}

// UpdateCartHandler overwrites the quantity; zero or less removes the line.
func UpdateCartHandler(carts *cart.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req models.CartRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.Quantity == nil {
			writeError(w, r, &service.ValidationError{Field: "quantity", Msg: "is required"})
			return
		}
		if err := carts.UpdateItem(r.Context(), id.SessionKey(), req.ProductID.String(), *req.Quantity); err != nil {
			writeCartError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "cart updated", "redirect": "/cart"})
	}
}

// writeCartError passes validation errors through and treats the rest as
// cart storage failures.
func writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeError(w, r, err)
		return
	}
	writeError(w, r, &service.StorageError{Op: "update cart", Err: err})
}
