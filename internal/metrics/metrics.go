// Package metrics instruments the engine's own behavior: throughput,
// latency, and rejection counts. It is not a market-data feed and publishes
// nothing about book contents.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine's Prometheus collectors. Unlike the teacher's
// package-level vars registered against the global DefaultRegisterer via
// init(), these are constructed with New and registered against a
// Registerer the caller supplies — so an engine used in a test or embedded
// in a larger process never fights over the global registry.
type Metrics struct {
	OrdersProcessed *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	FillsGenerated  prometheus.Counter
	SubmitLatency   prometheus.Histogram
	OrderBookDepth  *prometheus.GaugeVec
}

// New constructs a Metrics and registers its collectors against reg. Pass
// prometheus.NewRegistry() for an isolated instance, or
// prometheus.DefaultRegisterer to expose via the process-wide /metrics
// endpoint a host application already serves.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchcore_orders_processed_total",
				Help: "Total number of orders submitted to the engine, by side.",
			},
			[]string{"side"},
		),
		OrdersRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchcore_orders_rejected_total",
				Help: "Total number of orders rejected, by reason.",
			},
			[]string{"reason"},
		),
		FillsGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "matchcore_fills_generated_total",
				Help: "Total number of fills emitted by the matching engine.",
			},
		),
		SubmitLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "matchcore_submit_order_latency_seconds",
				Help:    "Latency of one submitOrder call, including risk check and matching.",
				Buckets: prometheus.DefBuckets,
			},
		),
		OrderBookDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "matchcore_order_book_resting_orders",
				Help: "Number of resting orders per symbol and side.",
			},
			[]string{"symbol", "side"},
		),
	}
	reg.MustRegister(m.OrdersProcessed, m.OrdersRejected, m.FillsGenerated, m.SubmitLatency, m.OrderBookDepth)
	return m
}
