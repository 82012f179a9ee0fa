// Package metrics exposes Prometheus collectors for the tenant routing
// layer: resolution outcomes, discovery health and routing decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tenantdb"

var (
	// ResolutionOutcomes counts resolution attempts by outcome
	// (resolved, ambiguous, no_decision).
	ResolutionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_outcomes_total",
			Help:      "Tenant resolution attempts by outcome",
		},
		[]string{"outcome"},
	)

	// DiscoveryFailures counts catalog discovery errors that degraded to
	// the static fallback list.
	DiscoveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_failures_total",
			Help:      "Database discovery errors degraded to the fallback list",
		},
	)

	// RouterDecisions counts routing hook decisions by hook and result.
	RouterDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "router_decisions_total",
			Help:      "Routing hook decisions by hook and result",
		},
		[]string{"hook", "decision"},
	)

	// RegisteredAliases tracks the number of database aliases currently
	// held by the connection registry.
	RegisteredAliases = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_aliases",
			Help:      "Database aliases registered in the connection registry",
		},
	)
)
