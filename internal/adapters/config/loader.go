// Package config provides the manifest loader and CLI settings for kiln.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DepsDirName is where dependencies without an explicit dest are placed, relative to the manifest.
const DepsDirName = "deps"

var _ ports.ManifestLoader = (*Loader)(nil)

// Loader implements ports.ManifestLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the manifest at path and returns the validated project.
// Relative paths in the manifest are resolved against the manifest's directory.
func (l *Loader) Load(manifestPath string) (*domain.Project, error) {
	var manifest Manifest
	if err := readAndUnmarshalYAML(manifestPath, &manifest); err != nil {
		return nil, err
	}

	root := filepath.Dir(manifestPath)
	project := &domain.Project{Name: manifest.Name}

	for i := range manifest.Dependencies {
		dep, err := buildDependency(root, &manifest.Dependencies[i])
		if err != nil {
			return nil, zerr.With(err, "manifest", manifestPath)
		}
		project.Dependencies = append(project.Dependencies, dep)
	}

	seen := make(map[string]bool, len(manifest.Targets))
	for i := range manifest.Targets {
		dto := &manifest.Targets[i]
		if dto.Name == "" {
			err := zerr.Wrap(domain.ErrMissingTargetName, "invalid target")
			return nil, zerr.With(zerr.With(err, "index", i), "manifest", manifestPath)
		}
		if seen[dto.Name] {
			err := zerr.Wrap(domain.ErrDuplicateTarget, "invalid target")
			return nil, zerr.With(zerr.With(err, "target", dto.Name), "manifest", manifestPath)
		}
		seen[dto.Name] = true

		spec, err := buildTarget(root, dto)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "target", dto.Name), "manifest", manifestPath)
		}
		if len(spec.Sources) == 0 && len(spec.SourceDirs) == 0 {
			l.Logger.Warn(fmt.Sprintf("target %s declares no sources", spec.Name))
		}
		project.Targets = append(project.Targets, spec)
	}

	return project, nil
}

func readAndUnmarshalYAML[T any](manifestPath string, target *T) error {
	// #nosec G304 -- manifestPath is chosen by the user
	data, err := os.ReadFile(manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "no manifest"), "path", manifestPath)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrManifestReadFailed, err), "cannot read manifest"), "path", manifestPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrManifestParseFailed, err), "invalid manifest"), "path", manifestPath)
	}

	return nil
}

func buildTarget(root string, dto *TargetDTO) (domain.TargetSpec, error) {
	buildType, ok := domain.ParseBuildType(dto.Type)
	if !ok {
		return domain.TargetSpec{}, zerr.With(zerr.Wrap(domain.ErrUnknownBuildType, "invalid target"), "type", dto.Type)
	}

	std := domain.CXX20
	if dto.Std != "" {
		if std, ok = domain.LookupStandard(dto.Std); !ok {
			return domain.TargetSpec{}, zerr.With(zerr.Wrap(domain.ErrUnknownStandard, "invalid target"), "std", dto.Std)
		}
	}

	compiler := domain.GPP
	if dto.Compiler != "" {
		compiler = domain.Compiler{Driver: dto.Compiler}
	}

	flags, err := splitFlags(dto.Flags)
	if err != nil {
		return domain.TargetSpec{}, err
	}

	outputDir := dto.Output
	if outputDir == "" {
		outputDir = domain.DefaultOutputDir
	}

	return domain.TargetSpec{
		Name:                  dto.Name,
		Type:                  buildType,
		Compiler:              compiler,
		Standard:              std,
		OutputDir:             resolvePath(root, outputDir),
		Sources:               resolvePaths(root, dto.Sources),
		SourceDirs:            resolvePaths(root, dto.SourceDirs),
		Recursive:             dto.Recursive,
		IncludeDirs:           resolvePaths(root, dto.IncludeDirs),
		LinkDirs:              resolvePaths(root, dto.LinkDirs),
		Links:                 dto.Links,
		Flags:                 flags,
		Warnings:              dto.Warnings,
		RunArgs:               dto.Args,
		Parallel:              boolOr(dto.Parallel, true),
		Incremental:           boolOr(dto.Incremental, true),
		ExportCompileCommands: boolOr(dto.CompileCommands, true),
	}, nil
}

func buildDependency(root string, dto *DependencyDTO) (domain.Dependency, error) {
	kind, ok := domain.ParseFetchKind(dto.Kind)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownFetchKind, "invalid dependency"), "kind", dto.Kind)
		return domain.Dependency{}, zerr.With(err, "url", dto.URL)
	}

	dest := dto.Dest
	if dest == "" {
		dest = filepath.Join(DepsDirName, defaultDestName(dto.URL, kind))
	}

	name := dto.Name
	if name == "" {
		name = defaultDestName(dto.URL, kind)
	}

	return domain.Dependency{
		Name:    name,
		URL:     dto.URL,
		Kind:    kind,
		Dest:    resolvePath(root, dest),
		Extract: dto.Extract,
	}, nil
}

// defaultDestName derives a file or directory name from the last element of a URL.
func defaultDestName(url string, kind domain.FetchKind) string {
	base := path.Base(strings.TrimRight(url, "/"))
	if kind == domain.FetchGit {
		base = strings.TrimSuffix(base, ".git")
	}
	return base
}

// splitFlags tokenizes a flag string the way a POSIX shell would and drops each leading '-'.
func splitFlags(s string) ([]string, error) {
	tokens, err := shlex.Split(s)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrInvalidFlags, err), "invalid target"), "flags", s)
	}

	flags := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		flags = append(flags, strings.TrimPrefix(tok, "-"))
	}
	return flags, nil
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func resolvePaths(root string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	res := make([]string, len(paths))
	for i, p := range paths {
		res[i] = resolvePath(root, p)
	}
	return res
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
