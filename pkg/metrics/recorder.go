package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weatherchat"

// Recorder owns the Prometheus collectors exposed by the service.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry       *prometheus.Registry
	modelAttempts  *prometheus.CounterVec
	fallbacks      *prometheus.CounterVec
	weatherLookups *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewRecorder registers every collector on a dedicated registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		modelAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_attempts_total",
			Help:      "LLM generation attempts partitioned by outcome and error kind.",
		}, []string{"outcome", "kind"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_responses_total",
			Help:      "Degraded chat responses produced after retries were exhausted.",
		}, []string{"kind"}),
		weatherLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_lookups_total",
			Help:      "Weather provider lookups partitioned by result.",
		}, []string{"result"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_cache_total",
			Help:      "Translation cache lookups partitioned by hit or miss.",
		}, []string{"result"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
	}
}

// Handler exposes the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ModelAttempt records one generation attempt. kind is empty on success.
func (r *Recorder) ModelAttempt(kind string) {
	if r == nil {
		return
	}
	outcome := "success"
	if kind != "" {
		outcome = "failure"
	}
	r.modelAttempts.WithLabelValues(outcome, kind).Inc()
}

// Fallback records a degraded response.
func (r *Recorder) Fallback(kind string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(kind).Inc()
}

// WeatherLookup records a provider lookup result (hit, not_found, unavailable).
func (r *Recorder) WeatherLookup(result string) {
	if r == nil {
		return
	}
	r.weatherLookups.WithLabelValues(result).Inc()
}

// CacheLookup records a translation cache hit or miss.
func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// HTTPRequest records the latency of a served request.
func (r *Recorder) HTTPRequest(method, route string, status int, latency time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
}
