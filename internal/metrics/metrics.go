// Package metrics counts what a gallery run did and exports the result in the
// Prometheus text format for node_exporter's textfile collector.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "simplegallery"

// Recorder owns a private registry so each run exports only its own series.
type Recorder struct {
	registry *prometheus.Registry

	toolInvocations *prometheus.CounterVec
	images          *prometheus.CounterVec
	exifFailures    prometheus.Counter
	runDuration     *prometheus.GaugeVec
	runSuccess      *prometheus.GaugeVec
	lastRun         prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		toolInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_invocations_total",
				Help:      "External tool invocations by tool and result.",
			},
			[]string{"tool", "result"},
		),
		images: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "images_total",
				Help:      "Images handled by command.",
			},
			[]string{"command"},
		),
		exifFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exif_failures_total",
				Help:      "Images whose EXIF metadata could not be read.",
			},
		),
		runDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of the last run by command.",
			},
			[]string{"command"},
		),
		runSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_success",
				Help:      "1 when the last run of the command succeeded.",
			},
			[]string{"command"},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run finished.",
			},
		),
	}
	r.registry.MustRegister(r.toolInvocations, r.images, r.exifFailures, r.runDuration, r.runSuccess, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveTool counts one external tool invocation.
func (r *Recorder) ObserveTool(tool string, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.toolInvocations.WithLabelValues(tool, result).Inc()
}

// ImageHandled counts one image scanned by prepare or rendered by process.
func (r *Recorder) ImageHandled(command string) {
	if r == nil {
		return
	}
	r.images.WithLabelValues(command).Inc()
}

// EXIFFailures adds n unreadable images.
func (r *Recorder) EXIFFailures(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.exifFailures.Add(float64(n))
}

// RunFinished records the outcome of a command.
func (r *Recorder) RunFinished(command string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.runDuration.WithLabelValues(command).Set(duration.Seconds())
	success := 1.0
	if err != nil {
		success = 0
	}
	r.runSuccess.WithLabelValues(command).Set(success)
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes every series to path atomically. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
