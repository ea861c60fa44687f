package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/losol/eventuras-sub004/internal/app"
)

// RequestLogger logs basic request details and latency.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type actorKey struct{}

// Actor identity headers, set by the authenticating gateway in front of
// this service. Requests without a user id are treated as anonymous.
const (
	headerUserID       = "X-User-Id"
	headerAdmin        = "X-Admin"
	headerPowerAdmin   = "X-Power-Admin"
	headerOrganization = "X-Organization-Id"
)

// WithActor resolves the caller's actor context from gateway headers.
func WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := app.Actor{
			ID:             r.Header.Get(headerUserID),
			Admin:          r.Header.Get(headerAdmin) == "true",
			PowerAdmin:     r.Header.Get(headerPowerAdmin) == "true",
			OrganizationID: r.Header.Get(headerOrganization),
		}
		actor.Anonymous = actor.ID == ""

		ctx := context.WithValue(r.Context(), actorKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) app.Actor {
	actor, ok := r.Context().Value(actorKey{}).(app.Actor)
	if !ok {
		return app.Actor{Anonymous: true}
	}
	return actor
}
