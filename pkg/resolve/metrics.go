// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"github.com/LeeDigitalWorks/b2gate/pkg/debug"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	staleDeletesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "b2gate_stale_deletes_total",
		Help: "Best-effort deletions of duplicate versions, by result.",
	}, []string{"result"})

	mergesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "b2gate_merges_total",
		Help: "Multi-version merge operations performed.",
	})
)

func init() {
	debug.Registry().MustRegister(staleDeletesTotal, mergesTotal)
}
