package api

import (
	"net/http"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(handlers *Handlers, logger *zap.Logger, webDir string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Menu
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", handlers.ListMenu)
		r.Get("/categories", handlers.ListCategories)
		r.Get("/{id}", handlers.GetMenuItem)
	})

	// Session-scoped routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handlers.GetCart)
			r.Delete("/", handlers.ClearCart)
			r.Get("/count", handlers.GetCartCount)
			r.Post("/items", handlers.AddToCart)
			r.Put("/items/{id}", handlers.UpdateCartItem)
			r.Delete("/items/{id}", handlers.RemoveFromCart)
		})

		r.Post("/checkout/validate", handlers.ValidateCheckout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", handlers.GetOrders)
			r.Post("/", handlers.PlaceOrder)
			r.Get("/{id}", handlers.GetOrder)
			r.Post("/{id}/cancel", handlers.CancelOrder)
		})
	})

	// Static files (web UI)
	if webDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(webDir)))
	}

	return r
}
