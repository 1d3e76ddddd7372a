package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/config"
	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/handler"
	"github.com/partnerhub/partner-hub-go/internal/infra/cache"
	"github.com/partnerhub/partner-hub-go/internal/infra/client"
	"github.com/partnerhub/partner-hub-go/internal/infra/memstore"
	"github.com/partnerhub/partner-hub-go/internal/infra/observability"
	"github.com/partnerhub/partner-hub-go/internal/infra/resilience"
	"github.com/partnerhub/partner-hub-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("viacep_url", cfg.ViaCEPURL),
		zap.String("cnpj_api_url", cfg.CNPJAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("lookup_timeout", cfg.LookupTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "partner-hub")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	cepCache := cache.New[*domain.CEPResult](cfg.CacheTTL)
	cnpjCache := cache.New[*domain.CompanyResult](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Registry clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	cepClient := client.NewViaCEPClient(httpClient, cfg.ViaCEPURL, resilience.NewCircuitBreaker("viacep"), resilienceCfg)
	cnpjClient := client.NewCNPJClient(httpClient, cfg.CNPJAPIURL, resilience.NewCircuitBreaker("cnpj"), resilienceCfg)

	// --- Store ---
	store := memstore.New()

	// --- Services ---
	lookupSvc := service.NewLookupService(cepClient, cnpjClient, cepCache, cnpjCache, metrics, logger)
	formSvc := service.NewFormService(lookupSvc, store, metrics, logger, cfg.LookupTimeout)
	partnerSvc := service.NewPartnerService(store, logger)

	// --- Router ---
	router := handler.NewRouter(formSvc, partnerSvc, lookupSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
