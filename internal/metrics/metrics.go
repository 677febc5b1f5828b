// Package metrics holds the Prometheus collectors for simulation runs and
// text-generation calls. All collectors live in a private registry so the
// process exposes only what it records.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "playtest"

var (
	Registry = prometheus.NewRegistry()

	GenerationRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Text-generation requests by provider, model and status.",
		},
		[]string{"provider", "model", "status"},
	)
	GenerationDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of text-generation requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	GenerationTokens = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_tokens",
			Help:      "Estimated tokens per request, split into prompt and completion.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		},
		[]string{"provider", "kind"},
	)
	RunsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished simulation runs by mission outcome (error for aborted runs).",
		},
		[]string{"outcome"},
	)
	RoundsTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Rounds played across all runs.",
		},
	)
	RollsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_total",
			Help:      "Resolved stat checks by stat and outcome.",
		},
		[]string{"stat", "outcome"},
	)
	CardsDrawn = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_drawn_total",
			Help:      "Cards drawn by deck.",
		},
		[]string{"deck"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
