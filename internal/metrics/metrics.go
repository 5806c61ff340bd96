// Package metrics exposes dashboard counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	Predictions     *prometheus.CounterVec   // kind, outcome
	UpstreamLatency *prometheus.HistogramVec // kind
	Redraws         *prometheus.CounterVec   // widget
	DatasetLoads    *prometheus.CounterVec   // outcome
	MapStates       prometheus.Gauge
	MissingStates   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditmap",
			Name:      "predictions_total",
			Help:      "Prediction requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "creditmap",
			Name:      "upstream_request_seconds",
			Help:      "Latency of calls to the prediction and sample services.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		Redraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditmap",
			Name:      "redraws_total",
			Help:      "Widget redraws.",
		}, []string{"widget"}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "creditmap",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"outcome"}),
		MapStates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "creditmap",
			Name:      "map_states",
			Help:      "States drawn on the last map paint.",
		}),
		MissingStates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "creditmap",
			Name:      "map_states_without_record",
			Help:      "States drawn with the fallback fill on the last map paint.",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Predictions, m.UpstreamLatency, m.Redraws, m.DatasetLoads, m.MapStates, m.MissingStates,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveUpstream records the time since start for kind.
func (m *Metrics) ObserveUpstream(kind string, start time.Time) {
	if m == nil {
		return
	}
	m.UpstreamLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Prediction(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Predictions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Redraw(widget string) {
	if m == nil {
		return
	}
	m.Redraws.WithLabelValues(widget).Inc()
}

func (m *Metrics) DatasetLoad(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.DatasetLoads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) MapPaint(total, missing int) {
	if m == nil {
		return
	}
	m.MapStates.Set(float64(total))
	m.MissingStates.Set(float64(missing))
}
