package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.JobStatus
		isTerminal bool
	}{
		{"Pending", domain.JobStatusPending, false},
		{"Running", domain.JobStatusRunning, false},
		{"Completed", domain.JobStatusCompleted, true},
		{"Failed", domain.JobStatusFailed, true},
		{"Skipped", domain.JobStatusSkipped, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
			assert.Equal(t, tt.status, domain.NormalizeJobStatus(string(tt.status)))
		})
	}

	assert.Equal(t, domain.JobStatusPending, domain.NormalizeJobStatus("bogus"))
}

func TestStandard_AppliesTo(t *testing.T) {
	assert.True(t, domain.CXX20.AppliesTo("src/main.cpp"))
	assert.False(t, domain.CXX20.AppliesTo("src/util.c"))
	assert.True(t, domain.C99.AppliesTo("util.c"))
	assert.False(t, domain.Standard{}.AppliesTo("main.cpp"))
}

func TestLookupStandard(t *testing.T) {
	std, ok := domain.LookupStandard("c++17")
	require.True(t, ok)
	assert.Equal(t, "-std=c++17", std.VersionFlag)

	std, ok = domain.LookupStandard("-std=C99")
	require.True(t, ok)
	assert.Equal(t, domain.C99, std)

	_, ok = domain.LookupStandard("c++98")
	assert.False(t, ok)
}

func TestParseBuildType(t *testing.T) {
	bt, ok := domain.ParseBuildType("")
	require.True(t, ok)
	assert.Equal(t, domain.Executable, bt)

	bt, ok = domain.ParseBuildType("Library")
	require.True(t, ok)
	assert.Equal(t, domain.Library, bt)
	assert.Equal(t, "library", bt.String())

	_, ok = domain.ParseBuildType("shared")
	assert.False(t, ok)
}

func TestIsSourceFile(t *testing.T) {
	for _, p := range []string{"a.c", "b.cc", "c.cpp", "dir/d.cxx"} {
		assert.True(t, domain.IsSourceFile(p), p)
	}
	for _, p := range []string{"b.txt", "a.h", "Makefile", "a.cpp.bak"} {
		assert.False(t, domain.IsSourceFile(p), p)
	}
}

func TestSourcePath(t *testing.T) {
	a := domain.NewSourcePath("./src/../src/main.cpp")
	b := domain.NewSourcePath("src/main.cpp")

	assert.Equal(t, a.Handle(), b.Handle())
	assert.Equal(t, "src/main.cpp", a.String())
	assert.Equal(t, "main", a.Stem())
	assert.Empty(t, domain.SourcePath{}.String())

	data, err := json.Marshal(map[string]domain.SourcePath{"src": a})
	require.NoError(t, err)

	var decoded map[string]domain.SourcePath
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded["src"])
}

func TestBuildReport(t *testing.T) {
	assert.True(t, domain.BuildReport{}.UpToDate())
	assert.False(t, domain.BuildReport{Compiled: []string{"a.cpp"}}.UpToDate())
	assert.False(t, domain.BuildReport{ExitCode: 2, Stage: domain.StageLink}.Succeeded())
}

func TestParseFetchKind(t *testing.T) {
	kind, ok := domain.ParseFetchKind("GIT")
	require.True(t, ok)
	assert.Equal(t, domain.FetchGit, kind)

	kind, ok = domain.ParseFetchKind("")
	require.True(t, ok)
	assert.Equal(t, domain.FetchHTTP, kind)

	_, ok = domain.ParseFetchKind("ftp")
	assert.False(t, ok)
	assert.Equal(t, "already exists", domain.FetchAlreadyExists.String())
}

func TestProjectTarget(t *testing.T) {
	p := &domain.Project{Targets: []domain.TargetSpec{{Name: "lib"}, {Name: "app"}}}

	got, ok := p.Target("app")
	require.True(t, ok)
	assert.Equal(t, "app", got.Name)

	_, ok = p.Target("missing")
	assert.False(t, ok)
}
