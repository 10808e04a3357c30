// Package metrics holds the Prometheus collectors of the application.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scans counts label scans by outcome: ok, failed, busy, rejected.
	Scans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auditform",
		Name:      "scans_total",
		Help:      "Label scans by outcome.",
	}, []string{"outcome"})

	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "auditform",
		Name:      "scan_duration_seconds",
		Help:      "Time spent waiting for the vision model.",
		Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
	})

	// Saves counts webhook submissions by outcome: sent, failed, busy.
	Saves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auditform",
		Name:      "saves_total",
		Help:      "Record submissions by outcome.",
	}, []string{"outcome"})

	SaveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "auditform",
		Name:      "save_duration_seconds",
		Help:      "Webhook round trip time.",
		Buckets:   prometheus.DefBuckets,
	})

	Exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auditform",
		Name:      "exports_total",
		Help:      "PDF exports by outcome.",
	}, []string{"outcome"})

	ExportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "auditform",
		Name:      "export_duration_seconds",
		Help:      "Time to render and print a PDF.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 45},
	})

	Items = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "auditform",
		Name:      "record_items",
		Help:      "Line items in the current record.",
	})

	TotalQuantity = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "auditform",
		Name:      "record_total_quantity",
		Help:      "Sum of quantities in the current record.",
	})

	Registry = prometheus.NewRegistry()
)

func init() {
	Registry.MustRegister(
		Scans, ScanDuration,
		Saves, SaveDuration,
		Exports, ExportDuration,
		Items, TotalQuantity,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// NewTimer starts timing an observation into h.
func NewTimer(h prometheus.Histogram) *prometheus.Timer {
	return prometheus.NewTimer(h)
}

// ObserveRecord updates the record gauges.
func ObserveRecord(items, totalQty int) {
	Items.Set(float64(items))
	TotalQuantity.Set(float64(totalQty))
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
