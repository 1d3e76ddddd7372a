package handler

import (
	"net/http"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/infra/observability"
	"github.com/partnerhub/partner-hub-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the partner hub console.
func NewRouter(formSvc *service.FormService, partnerSvc *service.PartnerService, lookupSvc *service.LookupService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Registration drafts (the live form)
		// =============================================
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", createDraftHandler(formSvc, logger))
			r.Route("/{draftId}", func(r chi.Router) {
				r.Get("/", getDraftHandler(formSvc, logger))
				r.Patch("/", updateFieldHandler(formSvc, logger))
				r.Delete("/", discardDraftHandler(formSvc, logger))
				r.Put("/document-kind", setDocumentKindHandler(formSvc, logger))
				r.Post("/blur", blurHandler(formSvc, logger))
				r.Post("/refresh", refreshHandler(formSvc, logger))
				r.Post("/interactions", addInteractionHandler(formSvc, logger))
				r.Delete("/interactions/{interactionId}", removeInteractionHandler(formSvc, logger))
				r.Post("/submit", submitHandler(formSvc, metrics, logger))
			})
		})

		// =============================================
		// Stored partner catalog
		// =============================================
		r.Route("/partners", func(r chi.Router) {
			r.Get("/", listPartnersHandler(partnerSvc, logger))
			r.Get("/upcoming-contacts", upcomingContactsHandler(partnerSvc, logger))
			r.Get("/{partnerId}", getPartnerHandler(partnerSvc, logger))
			r.Delete("/{partnerId}", deletePartnerHandler(partnerSvc, logger))
			r.Post("/{partnerId}/duplicate", duplicatePartnerHandler(partnerSvc, logger))
		})

		// =============================================
		// Direct registry lookups
		// =============================================
		r.Get("/lookup/cep/{cep}", lookupCEPHandler(lookupSvc, logger))
		r.Get("/lookup/cnpj/{cnpj}", lookupCNPJHandler(lookupSvc, logger))

		// =============================================
		// Form engine metrics snapshot
		// =============================================
		r.Get("/metrics/form", formMetricsHandler(metrics))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func formMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetFormSnapshot())
	}
}
