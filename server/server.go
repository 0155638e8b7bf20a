// Package server wires the HTTP routes and runs the listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"holoholo/auth"
	"holoholo/cart"
	"holoholo/handlers"
	"holoholo/middleware"
	"holoholo/models"
	"holoholo/service"
)

const shutdownTimeout = 30 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the routes are built from.
type Deps struct {
	Logger       zerolog.Logger
	Tokens       *auth.Tokens
	Carts        *cart.Manager
	Catalog      *service.Catalog
	Orders       *service.Orders
	Reviews      *service.Reviews
	Accounts     *service.Accounts
	Admin        *service.Admin
	DB           Pinger
	SecureCookie bool
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(d.Logger))
	r.Use(middleware.Logger)
	r.Use(chimw.RealIP)
	r.Use(middleware.Authenticate(d.Tokens))
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.DB.Ping(r.Context()); err != nil {
			http.Error(w, "db error", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", handlers.HomeHandler(d.Catalog))
	r.Post("/signup", handlers.SignupHandler(d.Accounts))
	r.Post("/login", handlers.LoginHandler(d.Accounts, d.SecureCookie))
	r.Post("/logout", handlers.LogoutHandler(d.Carts))
	r.Get("/logout", handlers.LogoutHandler(d.Carts))
	r.Get("/products", handlers.ProductsHandler(d.Catalog))
	r.Get("/categories", handlers.CategoriesHandler(d.Catalog))
	r.Get("/product/{id}", handlers.ProductHandler(d.Catalog))
	r.Get("/search", handlers.SearchHandler(d.Catalog))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/add_to_cart", handlers.AddToCartHandler(d.Carts))
		r.Get("/cart", handlers.CartHandler(d.Carts))
		r.Post("/update_cart", handlers.UpdateCartHandler(d.Carts))
		r.Post("/checkout", handlers.CheckoutHandler(d.Orders))
		r.Get("/order_history", handlers.OrderHistoryHandler(d.Orders))
		r.Get("/orders/{id}", handlers.OrderHandler(d.Orders))
		r.Post("/add_review", handlers.AddReviewHandler(d.Reviews))
		r.Get("/me", handlers.MeHandler(d.Accounts))
		r.Post("/me/password", handlers.ChangePasswordHandler(d.Accounts))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/", handlers.AdminDashboardHandler(d.Admin))
		r.Get("/products", handlers.AdminProductsHandler(d.Admin))
		r.Post("/add_product", handlers.AddProductHandler(d.Admin))
		r.Put("/products/{id}", handlers.UpdateProductHandler(d.Admin))
		r.Post("/categories", handlers.AddCategoryHandler(d.Admin))
		r.Get("/orders", handlers.AdminOrdersHandler(d.Admin))
		r.Post("/orders/{id}/status", handlers.UpdateOrderStatusHandler(d.Admin))
		r.Get("/users", handlers.AdminUsersHandler(d.Admin))
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, port string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
