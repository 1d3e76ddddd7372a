package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// CNPJClient resolves corporate tax ids against the BrasilAPI registry.
type CNPJClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
}

// NewCNPJClient creates a new CNPJClient.
func NewCNPJClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *CNPJClient {
	return &CNPJClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
	}
}

// cnpjResponse mirrors the registry payload (razao_social naming).
type cnpjResponse struct {
	CNPJ         string `json:"cnpj"`
	LegalName    string `json:"razao_social"`
	TradeName    string `json:"nome_fantasia"`
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Number       string `json:"numero"`
	Neighborhood string `json:"bairro"`
	City         string `json:"municipio"`
	State        string `json:"uf"`
}

// LookupCNPJ fetches a legal entity by 14-digit corporate id. Callers
// must gate on the checksum first; an invalid-but-complete value never
// reaches the network.
func (c *CNPJClient) LookupCNPJ(ctx context.Context, cnpj string) (*domain.CompanyResult, error) {
	ctx, span := tracer.Start(ctx, "CNPJClient.LookupCNPJ")
	defer span.End()
	span.SetAttributes(attribute.String("cnpj.value", cnpj))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: "cnpj", Err: err}
	}
	defer c.bulkhead.Release()

	var payload cnpjResponse

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/cnpj/v1/%s", c.baseURL, cnpj)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return resilience.Permanent(&domain.ErrNotFound{Resource: "cnpj", ID: cnpj})
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("cnpj registry returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&payload)
		})
	})
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, &domain.ErrExternalService{Service: "cnpj", Err: err}
	}

	return &domain.CompanyResult{
		CNPJ:         payload.CNPJ,
		LegalName:    payload.LegalName,
		TradeName:    payload.TradeName,
		CEP:          payload.CEP,
		Street:       payload.Street,
		Number:       payload.Number,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        payload.State,
	}, nil
}
