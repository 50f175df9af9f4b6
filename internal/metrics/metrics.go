// Package metrics registers the service's Prometheus collectors on the
// default registry served at /metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Northstar/internal/apperr"
	"github.com/MikeSquared-Agency/Northstar/internal/inference"
)

var (
	InferenceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "northstar_inference_calls_total",
		Help: "Inference calls by backend and outcome.",
	}, []string{"backend", "outcome"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "northstar_inference_duration_seconds",
		Help:    "Latency of inference calls.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"backend"})

	Rankings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "northstar_rankings_total",
		Help: "Ranking runs by outcome kind.",
	}, []string{"outcome"})

	DroppedEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "northstar_ranking_dropped_entries_total",
		Help: "Ranking entries discarded during validation.",
	})

	EligibilityFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "northstar_eligibility_fallbacks_total",
		Help: "Match requests where no record qualified and the full catalog was used.",
	})
)

// RecordRanking counts one ranking run; err may be nil.
func RecordRanking(err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.Kind(err)
	}
	Rankings.WithLabelValues(outcome).Inc()
}

type instrumented struct {
	backend string
	next    inference.Client
}

// Instrument wraps an inference client with call counters and latency.
func Instrument(backend string, next inference.Client) inference.Client {
	return &instrumented{backend: backend, next: next}
}

func (c *instrumented) Infer(ctx context.Context, system string, payload any, opts ...inference.CallOption) (string, error) {
	start := time.Now()
	out, err := c.next.Infer(ctx, system, payload, opts...)
	InferenceDuration.WithLabelValues(c.backend).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	InferenceCalls.WithLabelValues(c.backend, outcome).Inc()
	return out, err
}
