// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the registry.
//
// Metrics cover the CRUD surface (per entity kind and operation) and the
// deploy pipeline (stage-attributed failures, end-to-end latency). Exposed
// via the /metrics endpoint; all operations are thread-safe through
// Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "stackreg"

const registrySubsystem = "registry"

// RegistryMetrics holds all Prometheus metrics for registry operations.
//
// # Fields
//
//   - EntityOpsTotal: Counter of entity operations by kind, op and status
//   - DeploysTotal: Counter of deploys by status and failing stage
//   - DeployDurationSeconds: Histogram of end-to-end deploy latency
//
// # Thread Safety
//
// All operations are thread-safe.
type RegistryMetrics struct {
	// EntityOpsTotal counts CRUD operations.
	// Labels: kind (application, service, instance),
	// op (create, get, list, delete), status (success, error)
	EntityOpsTotal *prometheus.CounterVec

	// DeploysTotal counts deploy attempts.
	// Labels: status (success, error), stage (none, resolve-service,
	// resolve-application, assemble-parameters, provision)
	DeploysTotal *prometheus.CounterVec

	// DeployDurationSeconds measures end-to-end deploy latency.
	// Labels: status (success, error)
	DeployDurationSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance of RegistryMetrics.
// Initialized by InitMetrics(); nil until then, and every helper method
// tolerates a nil receiver so un-instrumented tests need no setup.
var DefaultMetrics *RegistryMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Call once at startup.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *RegistryMetrics {
	DefaultMetrics = &RegistryMetrics{
		EntityOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: registrySubsystem,
				Name:      "entity_operations_total",
				Help:      "Total entity operations by kind, operation and status",
			},
			[]string{"kind", "op", "status"},
		),

		DeploysTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: registrySubsystem,
				Name:      "deploys_total",
				Help:      "Total deploy attempts by status and failing stage",
			},
			[]string{"status", "stage"},
		),

		DeployDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: registrySubsystem,
				Name:      "deploy_duration_seconds",
				Help:      "End-to-end deploy latency in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"status"},
		),
	}

	return DefaultMetrics
}

// RecordEntityOp records one CRUD operation.
func (m *RegistryMetrics) RecordEntityOp(kind, op string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.EntityOpsTotal.WithLabelValues(kind, op, status).Inc()
}

// RecordDeploy records one deploy attempt. stage is the failing stage, or
// "none" for a successful deploy.
func (m *RegistryMetrics) RecordDeploy(success bool, stage string, seconds float64) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	if stage == "" {
		stage = "none"
	}
	m.DeploysTotal.WithLabelValues(status, stage).Inc()
	m.DeployDurationSeconds.WithLabelValues(status).Observe(seconds)
}
