package handler

import (
	"net/http"

	"github.com/partnerhub/partner-hub-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Direct registry lookups
// ============================================================

func lookupCEPHandler(svc *service.LookupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/lookup/cep/{cep}")
		defer span.End()

		cep := chi.URLParam(r, "cep")
		span.SetAttributes(attribute.String("cep.code", cep))

		result, err := svc.CEP(ctx, cep)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func lookupCNPJHandler(svc *service.LookupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/lookup/cnpj/{cnpj}")
		defer span.End()

		cnpj := chi.URLParam(r, "cnpj")
		span.SetAttributes(attribute.String("cnpj.value", cnpj))

		result, err := svc.CNPJ(ctx, cnpj)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
