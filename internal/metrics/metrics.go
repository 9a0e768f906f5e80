// Package metrics declares the Prometheus collectors exported by nineboxd.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ninebox_assessments_scored_total",
			Help: "Total number of assessments scored, by caller",
		},
		[]string{"source"},
	)

	CategoryAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ninebox_category_total",
			Help: "Categories assigned to submitted assessments, by axis",
		},
		[]string{"axis", "category"},
	)

	RescoreDrift = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ninebox_rescore_drift_total",
			Help: "Stored assessments whose scores changed when recomputed",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ninebox_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "code"},
	)
)

// ObserveCategories records the category pair of a submitted assessment.
func ObserveCategories(performance, potential int) {
	CategoryAssigned.WithLabelValues("performance", strconv.Itoa(performance)).Inc()
	CategoryAssigned.WithLabelValues("potential", strconv.Itoa(potential)).Inc()
}
