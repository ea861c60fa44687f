package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterConfig bundles the services and infrastructure the router serves.
type RouterConfig struct {
	Reconciler    Reconciler
	Registrations RegistrationReader
	Orders        OrderCanceller
	Admin         CatalogAdmin
	Metrics       http.Handler
	Logger        *slog.Logger
}

// NewRouter builds the service's route table.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(cfg.Logger))
	r.Use(WithActor)
	r.NotFound(NotFoundHandler().ServeHTTP)

	r.Get("/health", HealthHandler)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/registrations", func(r chi.Router) {
		r.Get("/", HandleListRegistrations(cfg.Registrations))
		r.Post("/{id}/reconcile", HandleReconcile(cfg.Reconciler))
		r.Get("/{id}/entitlement", HandleGetEntitlement(cfg.Registrations))
	})

	r.Post("/orders/{id}/cancel", HandleCancelOrder(cfg.Orders))

	r.Route("/admin", func(r chi.Router) {
		r.Post("/events", HandleCreateEvent(cfg.Admin))
		r.Get("/events", HandleListEvents(cfg.Admin))
		r.Post("/events/{id}/products", HandleCreateProduct(cfg.Admin))
		r.Get("/events/{id}/products", HandleListEventProducts(cfg.Admin))
	})

	return r
}
