package handlers

import (
	"context"
	"net/http"

	"holoholo/auth"
	"holoholo/models"
	"holoholo/service"
)

// adminHandler resolves the admin scope for the caller before running fn.
func adminHandler(admin *service.Admin, fn func(w http.ResponseWriter, r *http.Request, scope *service.AdminScope)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := admin.For(auth.IdentityFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		fn(w, r, scope)
	}
}

// respondWith runs a read-only scope query and writes its result.
func respondWith[T any](admin *service.Admin, get func(s *service.AdminScope, ctx context.Context) (T, error)) http.HandlerFunc {
	return adminHandler(admin, func(w http.ResponseWriter, r *http.Request, scope *service.AdminScope) {
		v, err := get(scope, r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
}

func AdminDashboardHandler(admin *service.Admin) http.HandlerFunc {
	return respondWith(admin, (*service.AdminScope).Dashboard)
}

func AdminProductsHandler(admin *service.Admin) http.HandlerFunc {
	return respondWith(admin, (*service.AdminScope).Products)
}

func AdminOrdersHandler(admin *service.Admin) http.HandlerFunc {
	return respondWith(admin, (*service.AdminScope).Orders)
}

func AdminUsersHandler(admin *service.Admin) http.HandlerFunc {
	return respondWith(admin, (*service.AdminScope).Users)
}

func AddProductHandler(admin *service.Admin) http.HandlerFunc {
	return adminHandler(admin, func(w http.ResponseWriter, r *http.Request, scope *service.AdminScope) {
		var in models.ProductInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := scope.AddProduct(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	})
}

func UpdateProductHandler(admin *service.Admin) http.HandlerFunc {
	return adminHandler(admin, func(w http.ResponseWriter, r *http.Request, scope *service.AdminScope) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var in models.ProductInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := scope.UpdateProduct(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
}

func AddCategoryHandler(admin *service.Admin) http.HandlerFunc {
	return adminHandler(admin, func(w http.ResponseWriter, r *http.Request, scope *service.AdminScope) {
		var in models.Category
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		c, err := scope.AddCategory(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	})
}

func UpdateOrderStatusHandler(admin *service.Admin) http.HandlerFunc {
	return adminHandler(admin, func(w http.ResponseWriter, r *http.Request, scope *service.AdminScope) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var req models.OrderStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := scope.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
	})
}
