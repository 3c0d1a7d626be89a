// Package metrics registers the service's Prometheus collectors. promauto
// wires everything into the default registry at package init; expose it by
// mounting promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "credit"

// RuleApplicationsTotal counts trust point events successfully written,
// labelled by reason and polarity.
var RuleApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rule_applications_total",
		Help:      "Total number of credit rule applications committed.",
	},
	[]string{"reason", "polarity"},
)

// SweepTransitionsTotal counts loans flipped from active to late by the
// overdue sweep.
var SweepTransitionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_transitions_total",
		Help:      "Total number of loans marked late by the overdue sweep.",
	},
)

// InterestQueriesTotal counts deposit interest calculations served.
var InterestQueriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interest_queries_total",
		Help:      "Total number of deposit earned-interest queries.",
	},
)
