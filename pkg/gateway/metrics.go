// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"github.com/LeeDigitalWorks/b2gate/pkg/debug"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "b2gate_requests_total",
		Help: "Inbound object requests, by method and outcome.",
	}, []string{"method", "outcome"})

	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "b2gate_request_duration_seconds",
		Help:    "End-to-end latency of inbound object requests.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	debug.Registry().MustRegister(requestsTotal, requestDuration)
}
