package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RenderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "house_render_attempts_total",
			Help: "Renderer backend attempts by outcome",
		},
		[]string{"backend", "outcome"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "house_render_duration_seconds",
			Help:    "Duration of a single renderer backend attempt in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 3, 9),
		},
		[]string{"backend"},
	)

	Conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "house_conversions_total",
			Help: "SVG conversions by resulting format (png or svg fallback)",
		},
		[]string{"format"},
	)

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "house_generation_requests_total",
			Help: "Generation requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "house_upstream_duration_seconds",
			Help:    "Duration of language model and image provider calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"kind", "provider"},
	)
)
