package metrics

import (
	"errors"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Namespace prefixes every metric name.
const Namespace = "kiln"

var _ ports.Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements ports.Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	compileSeconds *prom.HistogramVec
	linkSeconds    *prom.HistogramVec
	buildSeconds   *prom.HistogramVec
	buildOutcomes  *prom.CounterVec
	compileFanOut  prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metrics. A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		registry: reg,
		compileSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "compile_duration_seconds",
			Help:      "Duration of individual compiler invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		linkSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "link_duration_seconds",
			Help:      "Duration of linker and archiver invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		buildSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "build_duration_seconds",
			Help:      "Total duration of a target build",
			Buckets:   prom.DefBuckets,
		}, []string{"target"}),
		buildOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by target and final status",
		}, []string{"target", "outcome"}),
		compileFanOut: prom.NewGauge(prom.GaugeOpts{
			Namespace: Namespace,
			Name:      "compile_fan_out",
			Help:      "Compiler processes launched together by the last build",
		}),
	}

	reg.MustRegister(pr.compileSeconds, pr.linkSeconds, pr.buildSeconds, pr.buildOutcomes, pr.compileFanOut)
	return pr
}

// Registry returns the registry the metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// ObserveCompile records one compiler invocation.
func (p *PrometheusRecorder) ObserveCompile(d time.Duration, success bool) {
	p.compileSeconds.WithLabelValues(resultLabel(success)).Observe(d.Seconds())
}

// ObserveLink records one linker or archiver invocation.
func (p *PrometheusRecorder) ObserveLink(d time.Duration, success bool) {
	p.linkSeconds.WithLabelValues(resultLabel(success)).Observe(d.Seconds())
}

// ObserveBuild records the duration and outcome of a target build.
func (p *PrometheusRecorder) ObserveBuild(target string, d time.Duration, outcome ports.Outcome) {
	p.buildSeconds.WithLabelValues(target).Observe(d.Seconds())
	p.buildOutcomes.WithLabelValues(target, string(outcome)).Inc()
}

// SetCompileFanOut records how many compiler processes were in flight together.
func (p *PrometheusRecorder) SetCompileFanOut(n int) {
	p.compileFanOut.Set(float64(n))
}

// WriteTextfile writes every gathered metric to path in the Prometheus text format,
// replacing the file atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrMetricsExport, err), "failed to write metrics"), "path", path)
	}
	return nil
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
