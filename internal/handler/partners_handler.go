package handler

import (
	"net/http"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Stored partner catalog
// ============================================================

func listPartnersHandler(svc *service.PartnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/partners")
		defer span.End()

		partners, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"partners": partners})
	}
}

func getPartnerHandler(svc *service.PartnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/partners/{partnerId}")
		defer span.End()

		partnerID := chi.URLParam(r, "partnerId")
		span.SetAttributes(attribute.String("partner.id", partnerID))

		partner, err := svc.Get(ctx, partnerID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, partner)
	}
}

func deletePartnerHandler(svc *service.PartnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/partners/{partnerId}")
		defer span.End()

		if err := svc.Delete(ctx, chi.URLParam(r, "partnerId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func duplicatePartnerHandler(svc *service.PartnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/partners/{partnerId}/duplicate")
		defer span.End()

		partner, err := svc.Duplicate(ctx, chi.URLParam(r, "partnerId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, partner)
	}
}

func upcomingContactsHandler(svc *service.PartnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/partners/upcoming-contacts")
		defer span.End()

		contacts, err := svc.UpcomingContacts(ctx, time.Now())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"upcoming_contacts": contacts})
	}
}
