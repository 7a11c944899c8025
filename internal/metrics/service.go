package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

type Service struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	GameSearches       *prometheus.CounterVec
	GameSearchResults  prometheus.Histogram
	FieldMutations     *prometheus.CounterVec
	GameMutations      *prometheus.CounterVec
	StartupTimeSeconds prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus collectors.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamer_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teamer_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		GameSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamer_game_searches_total",
			Help: "Game searches by city and whether anything matched.",
		}, []string{"city", "matched"}),
		GameSearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamer_game_search_results",
			Help:    "Number of games returned per search.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		FieldMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamer_field_mutations_total",
			Help: "Successful field mutations by operation.",
		}, []string{"op"}),
		GameMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamer_game_mutations_total",
			Help: "Successful game mutations by operation.",
		}, []string{"op"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "teamer_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RequestsTotal,
		s.RequestDuration,
		s.GameSearches,
		s.GameSearchResults,
		s.FieldMutations,
		s.GameMutations,
		s.StartupTimeSeconds,
	)
	return s
}

func (s *Service) ObserveRequest(method, route string, status int, seconds float64) {
	s.RequestsTotal.WithLabelValues(method, route, statusLabel(status)).Inc()
	s.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (s *Service) IncGameSearch(city string, results int) {
	matched := "false"
	if results > 0 {
		matched = "true"
	}
	s.GameSearches.WithLabelValues(city, matched).Inc()
	s.GameSearchResults.Observe(float64(results))
}

func (s *Service) IncFieldMutation(op string) { s.FieldMutations.WithLabelValues(op).Inc() }
func (s *Service) IncGameMutation(op string)  { s.GameMutations.WithLabelValues(op).Inc() }

func (s *Service) SetStartupTime(seconds float64) { s.StartupTimeSeconds.Set(seconds) }

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
