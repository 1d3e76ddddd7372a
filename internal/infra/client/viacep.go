package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// ViaCEPClient resolves postal codes against the ViaCEP registry.
type ViaCEPClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
}

// NewViaCEPClient creates a new ViaCEPClient.
func NewViaCEPClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ViaCEPClient {
	return &ViaCEPClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
	}
}

// viaCEPResponse mirrors the registry payload. The registry reports a
// missing code with {"erro": true} and HTTP 200.
type viaCEPResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Erro         bool   `json:"erro"`
}

// LookupCEP fetches an address by 8-digit postal code with retry, circuit
// breaker and tracing. A registry "not found" maps to domain.ErrNotFound;
// everything transport-shaped maps to domain.ErrExternalService.
func (c *ViaCEPClient) LookupCEP(ctx context.Context, cep string) (*domain.CEPResult, error) {
	ctx, span := tracer.Start(ctx, "ViaCEPClient.LookupCEP")
	defer span.End()
	span.SetAttributes(attribute.String("cep.code", cep))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: "viacep", Err: err}
	}
	defer c.bulkhead.Release()

	var payload viaCEPResponse

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("viacep returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&payload)
		})
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "viacep", Err: err}
	}

	if payload.Erro {
		return nil, &domain.ErrNotFound{Resource: "cep", ID: cep}
	}

	return &domain.CEPResult{
		CEP:          payload.CEP,
		Street:       payload.Street,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        payload.State,
	}, nil
}
