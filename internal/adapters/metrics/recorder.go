// Package metrics provides the build metrics recorders.
//
// NoopRecorder is the zero-cost default. PrometheusRecorder keeps counters and histograms in
// its own registry and can export them to a node_exporter textfile after a build.
package metrics

import (
	"time"

	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Recorder = NoopRecorder{}

// NoopRecorder is a Recorder that does nothing (default when metrics are not exported).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCompile(time.Duration, bool)                {}
func (NoopRecorder) ObserveLink(time.Duration, bool)                   {}
func (NoopRecorder) ObserveBuild(string, time.Duration, ports.Outcome) {}
func (NoopRecorder) SetCompileFanOut(int)                              {}
