// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/partnerhub/partner-hub-go/internal/domain"
)

// CEPFetcher resolves an 8-digit postal code to an address.
type CEPFetcher interface {
	LookupCEP(ctx context.Context, cep string) (*domain.CEPResult, error)
}

// CompanyFetcher resolves a 14-digit corporate tax id to a legal entity.
type CompanyFetcher interface {
	LookupCNPJ(ctx context.Context, cnpj string) (*domain.CompanyResult, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// PartnerStore is the persistence collaborator. It receives validated,
// normalized records from the form engine and stores them unmodified.
type PartnerStore interface {
	Create(ctx context.Context, p *domain.Partner) (*domain.Partner, error)
	Update(ctx context.Context, p *domain.Partner) (*domain.Partner, error)
	Get(ctx context.Context, id string) (*domain.Partner, error)
	List(ctx context.Context) ([]domain.Partner, error)
	Delete(ctx context.Context, id string) error
}
