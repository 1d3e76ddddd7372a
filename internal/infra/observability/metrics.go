package observability

import (
	"time"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the hub backend.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	lookupsTotal       *prometheus.CounterVec
	staleResults       *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	submitsTotal       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hub_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		lookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_lookups_total",
				Help: "Registry lookups by registry and outcome.",
			},
			[]string{"registry", "outcome"},
		),
		staleResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_stale_results_total",
				Help: "Enrichment results discarded because the field changed.",
			},
			[]string{"kind"},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_validation_failures_total",
				Help: "Field validation failures observed on blur or submit.",
			},
			[]string{"field"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		submitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_submits_total",
				Help: "Form submissions by result.",
			},
			[]string{"result"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrLookup increments the lookup counter for a registry and outcome
// ("ok", "not_found" or "error").
func (m *Metrics) IncrLookup(registry, outcome string) {
	m.lookupsTotal.WithLabelValues(registry, outcome).Inc()
}

// IncrStaleResult counts an enrichment result discarded as stale.
func (m *Metrics) IncrStaleResult(kind string) {
	m.staleResults.WithLabelValues(kind).Inc()
}

// IncrValidationFailure counts a field validation failure.
func (m *Metrics) IncrValidationFailure(field string) {
	m.validationFailures.WithLabelValues(field).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrSubmit counts a submit attempt ("accepted" or "rejected").
func (m *Metrics) IncrSubmit(result string) {
	m.submitsTotal.WithLabelValues(result).Inc()
}

// GetFormSnapshot returns a snapshot of form-engine metrics suitable for
// the GET /v1/metrics/form endpoint.
func (m *Metrics) GetFormSnapshot() *domain.FormMetrics {
	cepOK := getCounterValue(m.lookupsTotal, "viacep", "ok")
	cepNotFound := getCounterValue(m.lookupsTotal, "viacep", "not_found")
	cepErrors := getCounterValue(m.lookupsTotal, "viacep", "error")
	cnpjOK := getCounterValue(m.lookupsTotal, "cnpj", "ok")
	cnpjNotFound := getCounterValue(m.lookupsTotal, "cnpj", "not_found")
	cnpjErrors := getCounterValue(m.lookupsTotal, "cnpj", "error")

	staleCEP := getCounterValue(m.staleResults, "cep")
	staleCNPJ := getCounterValue(m.staleResults, "cnpj")

	hits := getCounterValue(m.cacheHits, "cep") + getCounterValue(m.cacheHits, "cnpj")
	misses := getCounterValue(m.cacheMisses, "cep") + getCounterValue(m.cacheMisses, "cnpj")

	cacheHitRate := float64(0)
	if hits+misses > 0 {
		cacheHitRate = hits / (hits + misses)
	}

	return &domain.FormMetrics{
		CEPLookups:      int64(cepOK + cepNotFound + cepErrors),
		CEPNotFound:     int64(cepNotFound),
		CEPErrors:       int64(cepErrors),
		CNPJLookups:     int64(cnpjOK + cnpjNotFound + cnpjErrors),
		CNPJNotFound:    int64(cnpjNotFound),
		CNPJErrors:      int64(cnpjErrors),
		StaleDiscarded:  int64(staleCEP + staleCNPJ),
		CacheHitRate:    cacheHitRate,
		SubmitsAccepted: int64(getCounterValue(m.submitsTotal, "accepted")),
		SubmitsRejected: int64(getCounterValue(m.submitsTotal, "rejected")),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for
// the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
