package handlers

import (
	"net/http"

	"holoholo/models"
	"holoholo/service"
)

func CheckoutHandler(orders *service.Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req models.CheckoutRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		res, err := orders.Checkout(r.Context(), id.UserID, id.SessionKey(), req.ShippingAddress)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"order":    res.Order,
			"lines":    res.Lines,
			"message":  "order placed successfully",
			"redirect": "/order_history",
		})
	}
}

func OrderHistoryHandler(orders *service.Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		list, err := orders.OrderHistory(r.Context(), id.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": list})
	}
}

func OrderHandler(orders *service.Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		orderID, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		order, err := orders.GetOrder(r.Context(), id.UserID, orderID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func AddReviewHandler(reviews *service.Reviews) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req models.ReviewRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		review, err := reviews.AddReview(r.Context(), id.UserID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, review)
	}
}
