package fetch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fetch"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/shelltest"
	"go.uber.org/mock/gomock"
)

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func onPath(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestFetch_AlreadyExists(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "zlib.tar.gz")
	require.NoError(t, os.WriteFile(dest, nil, 0o600))
	sh := shelltest.New()

	status, err := fetch.New(sh, quietLogger(t)).Fetch(context.Background(), "https://example.com/zlib.tar.gz", dest, domain.FetchHTTP)

	require.NoError(t, err)
	assert.Equal(t, domain.FetchAlreadyExists, status)
	assert.Empty(t, sh.Lines())
}

func TestFetch_HTTP(t *testing.T) {
	url := "https://example.com/zlib.tar.gz"

	tests := []struct {
		name string
		path []string
		want func(dest string) string
	}{
		{
			name: "wget when available",
			path: []string{"wget", "curl"},
			want: func(dest string) string { return "wget -O " + dest + " " + url },
		},
		{
			name: "curl fallback",
			path: []string{"curl"},
			want: func(dest string) string { return "curl -L -o " + dest + " " + url },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depsDir := filepath.Join(t.TempDir(), "deps")
			dest := filepath.Join(depsDir, "zlib.tar.gz")
			sh := shelltest.New()
			sh.CreateOutputs = true
			f := fetch.New(sh, quietLogger(t), fetch.WithLookPath(onPath(tt.path...)))

			status, err := f.Fetch(context.Background(), url, dest, domain.FetchHTTP)

			require.NoError(t, err)
			assert.Equal(t, domain.FetchDone, status)
			assert.Equal(t, []string{"mkdir -p " + depsDir, tt.want(dest)}, sh.Lines())
		})
	}
}

func TestFetch_HTTPFailure(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing.tar.gz")
	sh := shelltest.New().On("wget", shelltest.Script{Exit: 8, Stderr: []string{"ERROR 404: Not Found."}})

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Cond(func(err error) bool {
		return err.Error() == "ERROR 404: Not Found."
	})).Times(1)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	_, err := fetch.New(sh, log, fetch.WithLookPath(onPath("wget"))).
		Fetch(context.Background(), "https://example.com/missing.tar.gz", dest, domain.FetchHTTP)

	require.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestFetch_Git(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "fmt")
	var gotURL, gotDest string
	clone := func(_ context.Context, url, dest string) error {
		gotURL, gotDest = url, dest
		return nil
	}

	status, err := fetch.New(shelltest.New(), quietLogger(t), fetch.WithCloner(clone)).
		Fetch(context.Background(), "https://github.com/fmtlib/fmt.git", dest, domain.FetchGit)

	require.NoError(t, err)
	assert.Equal(t, domain.FetchDone, status)
	assert.Equal(t, "https://github.com/fmtlib/fmt.git", gotURL)
	assert.Equal(t, dest, gotDest)
}

func TestFetch_GitFailure(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "fmt")
	cloneErr := errors.New("authentication required")
	clone := func(context.Context, string, string) error { return cloneErr }

	_, err := fetch.New(shelltest.New(), quietLogger(t), fetch.WithCloner(clone)).
		Fetch(context.Background(), "https://example.com/private.git", dest, domain.FetchGit)

	require.ErrorIs(t, err, domain.ErrFetchFailed)
	require.ErrorIs(t, err, cloneErr)
}

func TestGitClone_ExistingRepository(t *testing.T) {
	dest := t.TempDir()
	_, err := git.PlainInit(dest, false)
	require.NoError(t, err)

	err = fetch.GitClone(context.Background(), "https://example.com/repo.git", dest)
	require.ErrorIs(t, err, git.ErrRepositoryAlreadyExists)
}

func TestDecompress(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		path  string
		shell *shelltest.Shell
		want  []string
		code  int
	}{
		{
			name:  "tar.gz peels both extensions",
			path:  filepath.Join(dir, "zlib.tar.gz"),
			shell: shelltest.New(),
			want: []string{
				"gzip -dkf " + filepath.Join(dir, "zlib.tar.gz"),
				"tar -xf " + filepath.Join(dir, "zlib.tar") + " -C " + dir,
			},
		},
		{
			name:  "zip",
			path:  filepath.Join(dir, "lib.zip"),
			shell: shelltest.New(),
			want:  []string{"unzip -o " + filepath.Join(dir, "lib.zip") + " -d " + dir},
		},
		{
			name:  "tgz",
			path:  filepath.Join(dir, "src.tgz"),
			shell: shelltest.New(),
			want:  []string{"tar -xzf " + filepath.Join(dir, "src.tgz") + " -C " + dir},
		},
		{
			name:  "exit codes are summed",
			path:  filepath.Join(dir, "bad.tar.gz"),
			shell: shelltest.New().On("gzip", shelltest.Script{Exit: 1}).On("tar", shelltest.Script{Exit: 2}),
			want: []string{
				"gzip -dkf " + filepath.Join(dir, "bad.tar.gz"),
				"tar -xf " + filepath.Join(dir, "bad.tar") + " -C " + dir,
			},
			code: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := fetch.New(tt.shell, quietLogger(t)).Decompress(context.Background(), tt.path)

			require.NoError(t, err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.want, tt.shell.Lines())
		})
	}
}

func TestDecompress_Unsupported(t *testing.T) {
	sh := shelltest.New()

	_, err := fetch.New(sh, quietLogger(t)).Decompress(context.Background(), "archive.7z")

	require.ErrorIs(t, err, domain.ErrUnsupportedArchive)
	assert.Empty(t, sh.Lines())
}

func TestMakeDirIfNotExists(t *testing.T) {
	existing := t.TempDir()
	sh := shelltest.New()
	f := fetch.New(sh, quietLogger(t))

	require.NoError(t, f.MakeDirIfNotExists(existing))
	assert.Empty(t, sh.Lines())

	missing := filepath.Join(existing, "a", "b")
	require.NoError(t, f.MakeDirIfNotExists(missing))
	assert.Equal(t, []string{"mkdir -p " + missing}, sh.Lines())
}

func TestMakeDirIfNotExists_Failure(t *testing.T) {
	sh := shelltest.New().On("mkdir", shelltest.Script{Exit: 1})

	err := fetch.New(sh, quietLogger(t)).MakeDirIfNotExists(filepath.Join(t.TempDir(), "x"))

	require.ErrorIs(t, err, domain.ErrOutputDirCreate)
}
