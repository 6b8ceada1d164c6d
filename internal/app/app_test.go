package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/metrics"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/shelltest"
	"go.uber.org/mock/gomock"
)

const manifestPath = "kiln.yaml"

var finished = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type harness struct {
	loader  *mocks.MockManifestLoader
	fetcher *mocks.MockFetcher
	store   *mocks.MockBuildRecordStore
	watcher *mocks.MockWatcher
	log     *mocks.MockLogger
	shell   *shelltest.Shell
	stdout  *bytes.Buffer
	app     *app.App

	mu      sync.Mutex
	records []domain.BuildRecord
}

// newHarness wires an App to mocks and an in-memory shell. Every stored record is captured.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		loader:  mocks.NewMockManifestLoader(ctrl),
		fetcher: mocks.NewMockFetcher(ctrl),
		store:   mocks.NewMockBuildRecordStore(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
		log:     mocks.NewMockLogger(ctrl),
		shell:   shelltest.New(),
		stdout:  new(bytes.Buffer),
	}
	h.shell.CreateOutputs = true
	h.log.EXPECT().Info(gomock.Any()).AnyTimes()
	h.log.EXPECT().Warn(gomock.Any()).AnyTimes()
	h.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(r domain.BuildRecord) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.records = append(h.records, r)
		return nil
	}).AnyTimes()

	h.app = app.New(h.loader, h.fetcher, h.store, h.watcher, h.log, h.shell,
		telemetry.NewNoOpTracer(), metrics.NewPrometheusRecorder(nil)).
		WithOutput(h.stdout, new(bytes.Buffer)).
		WithClock(func() time.Time { return finished })
	return h
}

func (h *harness) stored() []domain.BuildRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.BuildRecord(nil), h.records...)
}

func (h *harness) compiled(substr string) int {
	n := 0
	for _, line := range h.shell.Lines() {
		if strings.Contains(line, " -c -o ") && strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// executable declares a target compiling every source under dir/name into dir/build.
func executable(t *testing.T, dir, name string, sources ...string) domain.TargetSpec {
	t.Helper()
	srcDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(srcDir, 0o750))
	for _, src := range sources {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, src), []byte("int x;\n"), 0o644))
	}
	return domain.TargetSpec{
		Name:        name,
		Type:        domain.Executable,
		Compiler:    domain.GPP,
		Standard:    domain.CXX20,
		OutputDir:   filepath.Join(dir, "build"),
		SourceDirs:  []string{srcDir},
		Parallel:    true,
		Incremental: true,
	}
}

func TestBuild_BuildsEveryTargetInOrder(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{
		executable(t, dir, "core", "core.cpp"),
		executable(t, dir, "tool", "main.cpp", "util.cpp"),
	}}, nil)

	metricsOut := filepath.Join(dir, "kiln.prom")
	err := h.app.Build(context.Background(), app.BuildOptions{Manifest: manifestPath, MetricsOut: metricsOut})

	require.NoError(t, err)
	assert.Equal(t, 1, h.compiled("core.cpp"))
	assert.Equal(t, 2, h.compiled(filepath.Join(dir, "tool")))
	records := h.stored()
	require.Len(t, records, 2)
	assert.Equal(t, "core", records[0].Target)
	assert.Equal(t, "tool", records[1].Target)
	assert.Equal(t, 2, records[1].Compiled)
	assert.Equal(t, finished, records[1].Finished)

	data, err := os.ReadFile(metricsOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kiln_build_outcomes_total{outcome="success",target="tool"} 1`)
}

func TestBuild_SelectedTargetOnly(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{
		executable(t, dir, "core", "core.cpp"),
		executable(t, dir, "tool", "main.cpp"),
	}}, nil)

	err := h.app.Build(context.Background(), app.BuildOptions{Manifest: manifestPath, Targets: []string{"tool"}})

	require.NoError(t, err)
	assert.Zero(t, h.compiled("core.cpp"))
	assert.Equal(t, 1, h.compiled("main.cpp"))
}

func TestBuild_RebuildRecompilesFreshObjects(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	spec := executable(t, dir, "tool", "main.cpp")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "tool", "main.cpp"), past, past))
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{spec}}, nil).Times(3)
	opts := app.BuildOptions{Manifest: manifestPath}

	require.NoError(t, h.app.Build(context.Background(), opts))
	require.NoError(t, h.app.Build(context.Background(), opts))
	assert.Equal(t, 1, h.compiled("main.cpp"))

	opts.Rebuild = true
	require.NoError(t, h.app.Build(context.Background(), opts))
	assert.Equal(t, 2, h.compiled("main.cpp"))
}

func TestBuild_SequentialOverridesManifest(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{
		executable(t, dir, "tool", "a.cpp", "b.cpp", "c.cpp"),
	}}, nil)

	err := h.app.Build(context.Background(), app.BuildOptions{Manifest: manifestPath, Sequential: true})

	require.NoError(t, err)
	assert.Equal(t, 1, h.shell.Peak())
}

func TestBuild_CompileFailureStopsLaterTargets(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	h.shell.On("broken.cpp", shelltest.Script{Exit: 4, Stderr: []string{"broken.cpp:1: error"}})
	h.log.EXPECT().Error(gomock.Any()).MinTimes(1)
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{
		executable(t, dir, "core", "broken.cpp"),
		executable(t, dir, "tool", "main.cpp"),
	}}, nil)

	err := h.app.Build(context.Background(), app.BuildOptions{Manifest: manifestPath})

	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	var failed *app.FailedBuildError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "core", failed.Target)
	assert.Equal(t, domain.StageCompile, failed.Stage)
	assert.Equal(t, 4, app.ExitCode(err))
	assert.Zero(t, h.compiled("main.cpp"))

	records := h.stored()
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].ExitCode)
}

func TestBuild_UnknownTarget(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{}, nil)

	err := h.app.Build(context.Background(), app.BuildOptions{Manifest: manifestPath, Targets: []string{"nope"}})

	require.ErrorIs(t, err, domain.ErrUnknownTarget)
	assert.Empty(t, h.shell.Lines())
}

func TestBuild_LoadFailure(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(manifestPath).Return(nil, domain.ErrManifestNotFound)

	err := h.app.Build(context.Background(), app.BuildOptions{Manifest: manifestPath})

	require.ErrorIs(t, err, domain.ErrManifestNotFound)
	assert.Equal(t, 1, app.ExitCode(err))
}

func TestBuild_StoreFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	storeErr := errors.New("disk full")
	log.EXPECT().Error(storeErr).Times(1)
	store := mocks.NewMockBuildRecordStore(ctrl)
	store.EXPECT().Put(gomock.Any()).Return(storeErr)
	loader := mocks.NewMockManifestLoader(ctrl)
	loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{
		executable(t, dir, "tool", "main.cpp"),
	}}, nil)
	sh := shelltest.New()
	sh.CreateOutputs = true

	a := app.New(loader, mocks.NewMockFetcher(ctrl), store, mocks.NewMockWatcher(ctrl), log, sh,
		telemetry.NewNoOpTracer(), metrics.NewPrometheusRecorder(nil))

	require.NoError(t, a.Build(context.Background(), app.BuildOptions{Manifest: manifestPath}))
}

func TestBuild_FetchesDependenciesFirst(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	dest := filepath.Join(dir, "deps", "zlib.tar.gz")
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{
		Dependencies: []domain.Dependency{
			{Name: "zlib", URL: "https://example.com/zlib.tar.gz", Kind: domain.FetchHTTP, Dest: dest, Extract: true},
			{Name: "fmt", URL: "https://example.com/fmt.git", Kind: domain.FetchGit, Dest: filepath.Join(dir, "deps", "fmt")},
		},
		Targets: []domain.TargetSpec{executable(t, dir, "tool", "main.cpp")},
	}, nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), "https://example.com/zlib.tar.gz", dest, domain.FetchHTTP).Return(domain.FetchDone, nil)
	h.fetcher.EXPECT().Decompress(gomock.Any(), dest).Return(0, nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), "https://example.com/fmt.git", gomock.Any(), domain.FetchGit).Return(domain.FetchAlreadyExists, nil)

	require.NoError(t, h.app.Build(context.Background(), app.BuildOptions{Manifest: manifestPath}))
	assert.Equal(t, 1, h.compiled("main.cpp"))
}

func TestFetch_AlreadyFetchedIsNotExtracted(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Dependencies: []domain.Dependency{
		{Name: "zlib", URL: "https://example.com/zlib.tar.gz", Kind: domain.FetchHTTP, Dest: "deps/zlib.tar.gz", Extract: true},
	}}, nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), "deps/zlib.tar.gz", domain.FetchHTTP).Return(domain.FetchAlreadyExists, nil)

	require.NoError(t, h.app.Fetch(context.Background(), manifestPath))
}

func TestFetch_Failures(t *testing.T) {
	dep := domain.Dependency{Name: "zlib", URL: "https://example.com/zlib.tar.gz", Kind: domain.FetchHTTP, Dest: "deps/zlib.tar.gz", Extract: true}

	tests := []struct {
		name  string
		setup func(f *mocks.MockFetcher)
	}{
		{
			name: "download fails",
			setup: func(f *mocks.MockFetcher) {
				f.EXPECT().Fetch(gomock.Any(), dep.URL, dep.Dest, dep.Kind).Return(domain.FetchDone, domain.ErrFetchFailed)
			},
		},
		{
			name: "extraction exits non-zero",
			setup: func(f *mocks.MockFetcher) {
				f.EXPECT().Fetch(gomock.Any(), dep.URL, dep.Dest, dep.Kind).Return(domain.FetchDone, nil)
				f.EXPECT().Decompress(gomock.Any(), dep.Dest).Return(2, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Dependencies: []domain.Dependency{dep}}, nil)
			tt.setup(h.fetcher)

			err := h.app.Fetch(context.Background(), manifestPath)

			require.ErrorIs(t, err, domain.ErrFetchFailed)
		})
	}
}

func TestRun_UsesManifestArgs(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	spec := executable(t, dir, "hello", "main.cpp")
	spec.RunArgs = []string{"world"}
	artifact := filepath.Join(dir, "build", "hello")
	h.shell.On(artifact+" world", shelltest.Script{Stdout: []string{"hello world"}})
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{spec}}, nil)

	err := h.app.Run(context.Background(), app.RunOptions{Manifest: manifestPath, Target: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "hello world\n", h.stdout.String())
	assert.Contains(t, h.shell.Lines(), artifact+" world")
}

func TestRun_ProgramExitCode(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	spec := executable(t, dir, "hello", "main.cpp")
	spec.RunArgs = []string{"ignored"}
	artifact := filepath.Join(dir, "build", "hello")
	h.shell.On(artifact+" --fail", shelltest.Script{Exit: 3})
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{spec}}, nil)

	err := h.app.Run(context.Background(), app.RunOptions{Manifest: manifestPath, Target: "hello", Args: []string{"--fail"}})

	var failed *app.FailedBuildError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, domain.StageRun, failed.Stage)
	assert.Equal(t, 3, app.ExitCode(err))
	assert.NotContains(t, h.shell.Lines(), artifact+" ignored")
}

func TestRun_LibraryIsRejected(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	spec := executable(t, dir, "core", "core.cpp")
	spec.Type = domain.Library
	h.loader.EXPECT().Load(manifestPath).Return(&domain.Project{Targets: []domain.TargetSpec{spec}}, nil)

	err := h.app.Run(context.Background(), app.RunOptions{Manifest: manifestPath, Target: "core"})

	require.ErrorIs(t, err, domain.ErrCannotRunLibrary)
	assert.Zero(t, h.compiled("core.cpp"))
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().List().Return([]domain.BuildRecord{
		{Target: "core", Compiled: 3, Artifact: "build/libcore.a", Finished: finished},
		{Target: "tool", ExitCode: 1, Stage: domain.StageLink, Artifact: "build/tool", Finished: finished},
	}, nil)

	require.NoError(t, h.app.Status())

	g := goldie.New(t)
	g.Assert(t, "status", h.stdout.Bytes())
}

func TestStatus_Empty(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().List().Return(nil, nil)

	require.NoError(t, h.app.Status())
	assert.Equal(t, "no builds recorded\n", h.stdout.String())
}

func TestExitCode(t *testing.T) {
	assert.Zero(t, app.ExitCode(nil))
	assert.Equal(t, 1, app.ExitCode(errors.New("boom")))
	assert.Equal(t, 1, app.ExitCode(&app.FailedBuildError{Target: "x", Stage: domain.StageRun, ExitCode: -1}))
	assert.Equal(t, 7, app.ExitCode(errors.Join(errors.New("ctx"), &app.FailedBuildError{ExitCode: 7})))
}
