package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(log)
}

func TestLoad_Success(t *testing.T) {
	path := writeManifest(t, `
name: demo
dependencies:
  - url: https://github.com/fmtlib/fmt.git
    kind: git
  - name: zlib
    url: https://zlib.net/zlib-1.3.tar.gz
    dest: vendor/zlib.tar.gz
    extract: true
targets:
  - name: core
    type: library
    compiler: clang++
    std: c++17
    sourceDirs: [lib]
    recursive: true
    includeDirs: [include]
  - name: app
    sources: [src/main.cpp]
    linkDirs: [build]
    links: [core]
    flags: "-O2 -g --coverage '-DNAME=hello world'"
    warnings: true
    args: [--verbose]
    parallel: false
`)
	root := filepath.Dir(path)

	project, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", project.Name)

	require.Len(t, project.Dependencies, 2)
	fmtDep := project.Dependencies[0]
	assert.Equal(t, "fmt", fmtDep.Name)
	assert.Equal(t, domain.FetchGit, fmtDep.Kind)
	assert.Equal(t, filepath.Join(root, "deps", "fmt"), fmtDep.Dest)
	zlib := project.Dependencies[1]
	assert.Equal(t, domain.FetchHTTP, zlib.Kind)
	assert.Equal(t, filepath.Join(root, "vendor", "zlib.tar.gz"), zlib.Dest)
	assert.True(t, zlib.Extract)

	require.Len(t, project.Targets, 2)
	core := project.Targets[0]
	assert.Equal(t, domain.Library, core.Type)
	assert.Equal(t, domain.ClangPP, core.Compiler)
	assert.Equal(t, domain.CXX17, core.Standard)
	assert.Equal(t, []string{filepath.Join(root, "lib")}, core.SourceDirs)
	assert.True(t, core.Recursive)
	assert.Equal(t, []string{filepath.Join(root, "include")}, core.IncludeDirs)
	assert.Equal(t, filepath.Join(root, "build"), core.OutputDir)
	assert.True(t, core.Parallel)
	assert.True(t, core.Incremental)
	assert.True(t, core.ExportCompileCommands)

	app := project.Targets[1]
	assert.Equal(t, domain.Executable, app.Type)
	assert.Equal(t, domain.GPP, app.Compiler)
	assert.Equal(t, domain.CXX20, app.Standard)
	assert.Equal(t, []string{filepath.Join(root, "src", "main.cpp")}, app.Sources)
	assert.Equal(t, []string{"core"}, app.Links)
	assert.Equal(t, []string{"O2", "g", "-coverage", "DNAME=hello world"}, app.Flags)
	assert.True(t, app.Warnings)
	assert.Equal(t, []string{"--verbose"}, app.RunArgs)
	assert.False(t, app.Parallel)
}

func TestLoad_EmptyManifest(t *testing.T) {
	path := writeManifest(t, "")

	project, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Empty(t, project.Targets)
}

func TestLoad_WarnsOnTargetWithoutSources(t *testing.T) {
	path := writeManifest(t, `
targets:
  - name: empty
`)
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("target empty declares no sources").Times(1)

	_, err := config.NewLoader(log).Load(path)
	require.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "invalid yaml",
			content: "targets: [",
			want:    domain.ErrManifestParseFailed,
		},
		{
			name:    "unknown field",
			content: "targets:\n  - name: app\n    sauces: [a.cpp]\n",
			want:    domain.ErrManifestParseFailed,
		},
		{
			name:    "missing name",
			content: "targets:\n  - sources: [a.cpp]\n",
			want:    domain.ErrMissingTargetName,
		},
		{
			name:    "duplicate target",
			content: "targets:\n  - name: app\n    sources: [a.cpp]\n  - name: app\n    sources: [b.cpp]\n",
			want:    domain.ErrDuplicateTarget,
		},
		{
			name:    "unknown standard",
			content: "targets:\n  - name: app\n    std: c++98\n    sources: [a.cpp]\n",
			want:    domain.ErrUnknownStandard,
		},
		{
			name:    "unknown build type",
			content: "targets:\n  - name: app\n    type: shared\n    sources: [a.cpp]\n",
			want:    domain.ErrUnknownBuildType,
		},
		{
			name:    "unbalanced quote in flags",
			content: "targets:\n  - name: app\n    flags: \"-DX='unterminated\"\n    sources: [a.cpp]\n",
			want:    domain.ErrInvalidFlags,
		},
		{
			name:    "unknown fetch kind",
			content: "dependencies:\n  - url: ftp://example.com/x.tar\n    kind: ftp\n",
			want:    domain.ErrUnknownFetchKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			_, err := newLoader(t).Load(path)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_MissingManifest(t *testing.T) {
	_, err := newLoader(t).Load(filepath.Join(t.TempDir(), domain.ManifestFileName))
	require.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestLoad_ManifestIsDirectory(t *testing.T) {
	_, err := newLoader(t).Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrManifestReadFailed)
}
