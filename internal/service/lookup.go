package service

import (
	"context"
	"errors"
	"strings"

	"github.com/partnerhub/partner-hub-go/internal/brdoc"
	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/observability"
	"github.com/partnerhub/partner-hub-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// LookupService wraps the two external registries with caching, metrics
// and input gating. Invalid-but-complete values never reach the network.
type LookupService struct {
	cepClient  port.CEPFetcher
	cnpjClient port.CompanyFetcher
	cepCache   port.Cache[*domain.CEPResult]
	cnpjCache  port.Cache[*domain.CompanyResult]
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewLookupService creates the lookup service with all dependencies injected.
func NewLookupService(
	cep port.CEPFetcher,
	cnpj port.CompanyFetcher,
	cepCache port.Cache[*domain.CEPResult],
	cnpjCache port.Cache[*domain.CompanyResult],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *LookupService {
	return &LookupService{
		cepClient:  cep,
		cnpjClient: cnpj,
		cepCache:   cepCache,
		cnpjCache:  cnpjCache,
		metrics:    metrics,
		logger:     logger,
	}
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// CEP resolves a postal code. The input may be masked; it must contain
// exactly 8 digits.
func (s *LookupService) CEP(ctx context.Context, cep string) (*domain.CEPResult, error) {
	ctx, span := tracer.Start(ctx, "LookupService.CEP")
	defer span.End()

	code := digitsOf(cep)
	span.SetAttributes(attribute.String("cep.code", code))

	if len(code) != 8 {
		return nil, &domain.ErrValidation{Field: "cep", Message: "deve conter 8 dígitos"}
	}

	if cached, ok := s.cepCache.Get(code); ok {
		s.metrics.IncrCacheHit("cep")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("cep")

	res, err := s.cepClient.LookupCEP(ctx, code)
	if err != nil {
		s.recordLookup("viacep", err)
		return nil, err
	}
	s.metrics.IncrLookup("viacep", "ok")
	s.cepCache.Set(code, res)
	return res, nil
}

// CNPJ resolves a corporate tax id. The input may be masked; it must
// contain exactly 14 digits and pass the checksum before any network
// call happens.
func (s *LookupService) CNPJ(ctx context.Context, cnpj string) (*domain.CompanyResult, error) {
	ctx, span := tracer.Start(ctx, "LookupService.CNPJ")
	defer span.End()

	value := digitsOf(cnpj)
	span.SetAttributes(attribute.String("cnpj.value", value))

	if len(value) != 14 {
		return nil, &domain.ErrValidation{Field: "cnpj", Message: "deve conter 14 dígitos"}
	}
	if !brdoc.ValidCNPJ(value) {
		s.metrics.IncrValidationFailure("cnpj")
		return nil, &domain.ErrValidation{Field: "cnpj", Message: "dígitos verificadores inválidos"}
	}

	if cached, ok := s.cnpjCache.Get(value); ok {
		s.metrics.IncrCacheHit("cnpj")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("cnpj")

	res, err := s.cnpjClient.LookupCNPJ(ctx, value)
	if err != nil {
		s.recordLookup("cnpj", err)
		return nil, err
	}
	s.metrics.IncrLookup("cnpj", "ok")
	s.cnpjCache.Set(value, res)
	return res, nil
}

func (s *LookupService) recordLookup(registry string, err error) {
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		s.metrics.IncrLookup(registry, "not_found")
		return
	}
	s.metrics.IncrLookup(registry, "error")
	s.logger.Warn("registry lookup failed",
		zap.String("registry", registry),
		zap.Error(err),
	)
}
