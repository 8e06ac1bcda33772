package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID, WithMetrics, WithLogging, WithRecovery)

	r.HandleFunc("/products", app.productsHandler)
	r.HandleFunc("/products/{productId}", app.productHandler)
	r.HandleFunc("/recommendations", app.recommendationsHandler)

	r.Get("/healthz", app.healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", app.openapiHandler)
	r.Get("/docs", app.docsHandler)

	r.MethodNotAllowed(app.unsupportedMethod)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	return r
}
