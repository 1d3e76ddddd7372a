package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/resilience"
)

func testResilienceConfig() resilience.Config {
	return resilience.Config{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxConcurrency: 2,
	}
}

func TestViaCEPLookupOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/01310100/json/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	c := NewViaCEPClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("viacep-test"), testResilienceConfig())
	got, err := c.LookupCEP(context.Background(), "01310100")
	if err != nil {
		t.Fatalf("LookupCEP error: %v", err)
	}
	if got.Street != "Avenida Paulista" || got.City != "São Paulo" || got.State != "SP" {
		t.Errorf("result = %+v", got)
	}
}

func TestViaCEPNotFound(t *testing.T) {
	// The registry reports a missing code with HTTP 200 and an erro flag.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	c := NewViaCEPClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("viacep-test"), testResilienceConfig())
	_, err := c.LookupCEP(context.Background(), "99999999")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestViaCEPServerErrorRetriesThenFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testResilienceConfig()
	c := NewViaCEPClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("viacep-test"), cfg)
	_, err := c.LookupCEP(context.Background(), "01310100")
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("error = %v, want ErrExternalService", err)
	}
	if calls != cfg.MaxRetries+1 {
		t.Errorf("server called %d times, want %d", calls, cfg.MaxRetries+1)
	}
}

func TestCNPJLookupOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cnpj/v1/11222333000181" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"cnpj":"11222333000181","razao_social":"Horizonte LTDA","nome_fantasia":"Horizonte","cep":"01310100","logradouro":"Avenida Paulista","numero":"1000","bairro":"Bela Vista","municipio":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	c := NewCNPJClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("cnpj-test"), testResilienceConfig())
	got, err := c.LookupCNPJ(context.Background(), "11222333000181")
	if err != nil {
		t.Fatalf("LookupCNPJ error: %v", err)
	}
	if got.LegalName != "Horizonte LTDA" || got.Number != "1000" {
		t.Errorf("result = %+v", got)
	}
	if got.DisplayName() != "Horizonte LTDA" {
		t.Errorf("display name = %q", got.DisplayName())
	}
}

func TestCNPJNotFoundSkipsRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewCNPJClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("cnpj-test"), testResilienceConfig())
	_, err := c.LookupCNPJ(context.Background(), "11222333000181")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("404 was retried: %d calls", calls)
	}
}

func TestCNPJServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCNPJClient(srv.Client(), srv.URL, resilience.NewCircuitBreaker("cnpj-test"), testResilienceConfig())
	_, err := c.LookupCNPJ(context.Background(), "11222333000181")
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("error = %v, want ErrExternalService", err)
	}
}
