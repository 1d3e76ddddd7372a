package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/observability"
	"github.com/partnerhub/partner-hub-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Registration drafts
// ============================================================

func createDraftHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/drafts")
		defer span.End()

		partnerID := r.URL.Query().Get("partner_id")
		if partnerID == "" && r.Body != nil && r.ContentLength != 0 {
			var req struct {
				PartnerID string `json:"partner_id,omitempty"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			partnerID = req.PartnerID
		}

		var snap *domain.FormSnapshot
		var err error
		if partnerID != "" {
			span.SetAttributes(attribute.String("partner.id", partnerID))
			snap, err = svc.CreateDraftFromPartner(ctx, partnerID)
		} else {
			snap, err = svc.CreateDraft(ctx)
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

func getDraftHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/drafts/{draftId}")
		defer span.End()

		snap, err := svc.Snapshot(ctx, chi.URLParam(r, "draftId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func updateFieldHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/drafts/{draftId}")
		defer span.End()

		var req domain.UpdateFieldRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Field == "" {
			writeError(w, http.StatusBadRequest, "field is required")
			return
		}
		span.SetAttributes(attribute.String("form.field", req.Field))

		snap, err := svc.UpdateField(ctx, chi.URLParam(r, "draftId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func discardDraftHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/drafts/{draftId}")
		defer span.End()

		if err := svc.DiscardDraft(ctx, chi.URLParam(r, "draftId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setDocumentKindHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/drafts/{draftId}/document-kind")
		defer span.End()

		var req domain.SetKindRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		span.SetAttributes(attribute.String("document.kind", string(req.Kind)))

		snap, err := svc.SetDocumentKind(ctx, chi.URLParam(r, "draftId"), req.Kind)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func blurHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/drafts/{draftId}/blur")
		defer span.End()

		var req domain.BlurRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap, err := svc.Blur(ctx, chi.URLParam(r, "draftId"), req.Field)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func refreshHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/drafts/{draftId}/refresh")
		defer span.End()

		snap, err := svc.Refresh(ctx, chi.URLParam(r, "draftId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func addInteractionHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/drafts/{draftId}/interactions")
		defer span.End()

		var req domain.AddInteractionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap, err := svc.AddInteraction(ctx, chi.URLParam(r, "draftId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

func removeInteractionHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/drafts/{draftId}/interactions/{interactionId}")
		defer span.End()

		snap, err := svc.RemoveInteraction(ctx, chi.URLParam(r, "draftId"), chi.URLParam(r, "interactionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func submitHandler(svc *service.FormService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/drafts/{draftId}/submit")
		defer span.End()

		start := time.Now()
		partner, err := svc.Submit(ctx, chi.URLParam(r, "draftId"))
		metrics.RecordRequestDuration("submit", time.Since(start))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, partner)
	}
}
