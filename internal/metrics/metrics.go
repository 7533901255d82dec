// Package metrics exposes build counters on a private Prometheus registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sitejson"

// Metrics holds the build collectors. It satisfies the generator metrics
// hooks and is safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsTotal *prometheus.CounterVec
	FilesTotal     *prometheus.CounterVec
	BytesTotal     *prometheus.CounterVec
	RootsSkipped   prometheus.Counter
	BuildsTotal    *prometheus.CounterVec
	BuildDuration  prometheus.Histogram
	LastBuild      prometheus.Gauge
}

// New registers every collector on a fresh registry so repeated builds in
// one process never collide with the default registerer.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_total",
				Help:      "Markdown documents normalized",
			},
			[]string{"root"},
		),
		FilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_written_total",
				Help:      "Output files written, by category",
			},
			[]string{"category"},
		),
		BytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_written_total",
				Help:      "Bytes of JSON written, by category",
			},
			[]string{"category"},
		),
		RootsSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "roots_skipped_total",
				Help:      "Input roots skipped because they do not exist",
			},
		),
		BuildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "builds_total",
				Help:      "Completed builds, by status",
			},
			[]string{"status"},
		),
		BuildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Duration of builds in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		LastBuild: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_build_timestamp_seconds",
				Help:      "Unix time of the last completed build",
			},
		),
	}
}

// Registry returns the registry holding the build collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) DocumentProcessed(root string) {
	m.DocumentsTotal.WithLabelValues(root).Inc()
}

func (m *Metrics) FileWritten(category string, size int) {
	m.FilesTotal.WithLabelValues(category).Inc()
	m.BytesTotal.WithLabelValues(category).Add(float64(size))
}

func (m *Metrics) RootSkipped(string) {
	m.RootsSkipped.Inc()
}

func (m *Metrics) BuildCompleted(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.BuildsTotal.WithLabelValues(status).Inc()
	m.BuildDuration.Observe(duration.Seconds())
	m.LastBuild.SetToCurrentTime()
}

// WriteTextfile writes the collectors in the node exporter textfile format.
func (m *Metrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
