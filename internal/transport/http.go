package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickbite/ordering/internal/handler"
	"github.com/quickbite/ordering/internal/order"
	"github.com/quickbite/ordering/internal/session"
)

func NewRouter(sessions *session.Manager, checkout *order.Orchestrator, orders *order.Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(handler.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	cartHandler := handler.NewCartHandler(sessions)
	orderHandler := handler.NewOrderHandler(sessions, checkout, orders)

	r.Group(func(r chi.Router) {
		r.Use(handler.SessionMiddleware)
		cartHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)
	})

	return r
}
