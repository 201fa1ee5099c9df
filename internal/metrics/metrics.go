// Package metrics exposes scan results as Prometheus gauges that can be
// written to a node exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/IvanShishkin/dirsheet/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dirsheet"

// Recorder holds the gauges for a single run
type Recorder struct {
	registry    *prometheus.Registry
	files       prometheus.Gauge
	dirs        prometheus.Gauge
	bytes       prometheus.Gauge
	statErrors  prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
	exports     *prometheus.CounterVec
}

// NewRecorder creates a recorder backed by its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Number of files recorded by the last scan",
		}),
		dirs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dirs_total",
			Help:      "Number of directories visited by the last scan",
		}),
		bytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bytes",
			Help:      "Total size of the recorded files in bytes",
		}),
		statErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stat_errors",
			Help:      "Paths skipped because their metadata could not be read",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of the last scan",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful export",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Export attempts by format and result",
		}, []string{"format", "result"}),
	}

	r.registry.MustRegister(r.files, r.dirs, r.bytes, r.statErrors, r.duration, r.lastSuccess, r.exports)
	return r
}

// ObserveScan sets the scan gauges from results
func (r *Recorder) ObserveScan(results *models.ScanResults) {
	if results == nil {
		return
	}
	r.files.Set(float64(results.TotalFiles()))
	r.dirs.Set(float64(results.TotalDirs))
	r.duration.Set(results.Duration.Seconds())
	if results.Stats != nil {
		r.bytes.Set(float64(results.Stats.TotalSize))
		r.statErrors.Set(float64(results.Stats.StatErrors))
	}
}

// ObserveExport counts an export attempt and, on success, stamps the time
func (r *Recorder) ObserveExport(format string, err error, at time.Time) {
	if err != nil {
		r.exports.WithLabelValues(format, "error").Inc()
		return
	}
	r.exports.WithLabelValues(format, "success").Inc()
	r.lastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
