package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/metrics"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := metrics.NewPrometheusRecorder(reg)

	pr.ObserveCompile(150*time.Millisecond, true)
	pr.ObserveCompile(90*time.Millisecond, false)
	pr.ObserveLink(300*time.Millisecond, true)
	pr.ObserveBuild("app", time.Second, ports.OutcomeSuccess)
	pr.ObserveBuild("app", 10*time.Millisecond, ports.OutcomeUpToDate)
	pr.SetCompileFanOut(4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)

	expected := `
# HELP kiln_build_outcomes_total Build outcomes by target and final status
# TYPE kiln_build_outcomes_total counter
kiln_build_outcomes_total{outcome="success",target="app"} 1
kiln_build_outcomes_total{outcome="up_to_date",target="app"} 1
# HELP kiln_compile_fan_out Compiler processes launched together by the last build
# TYPE kiln_compile_fan_out gauge
kiln_compile_fan_out 4
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"kiln_build_outcomes_total", "kiln_compile_fan_out"))
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := metrics.NewPrometheusRecorder(nil)
	pr.SetCompileFanOut(2)

	path := filepath.Join(t.TempDir(), "kiln.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kiln_compile_fan_out 2")

	err = pr.WriteTextfile(filepath.Join(t.TempDir(), "missing", "kiln.prom"))
	require.ErrorIs(t, err, domain.ErrMetricsExport)
}

func TestNoopRecorder(_ *testing.T) {
	var r ports.Recorder = metrics.NoopRecorder{}
	r.ObserveCompile(time.Second, true)
	r.ObserveLink(time.Second, false)
	r.ObserveBuild("app", time.Second, ports.OutcomeFailed)
	r.SetCompileFanOut(1)
}
