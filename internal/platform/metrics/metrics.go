// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics provides Prometheus metrics for the Cinelist API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Auth metrics
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_auth_attempts_total",
			Help: "Login and registration attempts by outcome",
		},
		[]string{"kind", "result"},
	)

	// Object storage metrics
	storageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelist_storage_operation_duration_seconds",
			Help:    "Object storage operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	storageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_storage_operations_total",
			Help: "Total object storage operations",
		},
		[]string{"operation", "status"},
	)

	// Poster resolution outcomes (ok, skipped, failed)
	posterSignTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_poster_sign_total",
			Help: "Poster signing outcomes",
		},
		[]string{"result"},
	)

	posterDeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelist_poster_deletions_total",
			Help: "Stale poster deletions by outcome",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records a finished HTTP request. route should be the router
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthAttempt records a login or registration outcome.
func RecordAuthAttempt(kind string, success bool) {
	authAttemptsTotal.WithLabelValues(kind, result(success)).Inc()
}

// RecordStorageOperation records an object storage call.
func RecordStorageOperation(operation string, duration time.Duration, success bool) {
	storageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	storageOperationsTotal.WithLabelValues(operation, result(success)).Inc()
}

// RecordPosterSign records the outcome of resolving a poster reference.
func RecordPosterSign(outcome string) {
	posterSignTotal.WithLabelValues(outcome).Inc()
}

// RecordPosterDeletion records a background poster deletion.
func RecordPosterDeletion(success bool) {
	posterDeletionsTotal.WithLabelValues(result(success)).Inc()
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
