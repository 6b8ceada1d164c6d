package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidConfiguration is returned when a build configuration is used in a way it does not support.
	ErrInvalidConfiguration = zerr.New("invalid build configuration")

	// ErrNotADirectory is returned when a path registered as a directory is not one.
	ErrNotADirectory = zerr.New("path is not a directory")

	// ErrNotAFile is returned when a path registered as a source file is a directory.
	ErrNotAFile = zerr.New("path is not a file")

	// ErrCannotRunLibrary is returned when BuildAndRun is called on a library target.
	ErrCannotRunLibrary = zerr.New("cannot run a library target")

	// ErrEmptyCommand is returned when a command with no tokens is run.
	ErrEmptyCommand = zerr.New("command has no tokens")

	// ErrProcessSpawn is returned when a child process cannot be started.
	ErrProcessSpawn = zerr.New("failed to spawn process")

	// ErrProcessWait is returned when waiting on a child process fails for a reason other than its exit status.
	ErrProcessWait = zerr.New("failed to wait for process")

	// ErrStatFailed is returned when the modification time of a file cannot be read.
	ErrStatFailed = zerr.New("failed to stat file")

	// ErrCompileCommandsWrite is returned when compile_commands.json cannot be written.
	ErrCompileCommandsWrite = zerr.New("failed to write compile commands")

	// ErrOutputDirCreate is returned when the output directory cannot be created.
	ErrOutputDirCreate = zerr.New("failed to create output directory")

	// ErrSelfRebuildFailed is returned when the self-rebuild bootstrap cannot inspect its inputs.
	ErrSelfRebuildFailed = zerr.New("failed to rebuild build program")

	// ErrBuildExecutionFailed is returned when a target fails to compile, link or run.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrUnsupportedArchive is returned when Decompress meets an extension it has no tool for.
	ErrUnsupportedArchive = zerr.New("unsupported archive extension")

	// ErrFetchFailed is returned when a dependency could not be downloaded or cloned.
	ErrFetchFailed = zerr.New("failed to fetch dependency")

	// ErrUnknownFetchKind is returned when a dependency names an unknown fetch kind.
	ErrUnknownFetchKind = zerr.New("unknown fetch kind")

	// ErrManifestNotFound is returned when no kiln manifest exists at the given path.
	ErrManifestNotFound = zerr.New("manifest not found")

	// ErrManifestReadFailed is returned when the manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestParseFailed is returned when the manifest is not valid YAML.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrDuplicateTarget is returned when two targets in a manifest share a name.
	ErrDuplicateTarget = zerr.New("duplicate target name")

	// ErrMissingTargetName is returned when a manifest target has no name.
	ErrMissingTargetName = zerr.New("target name is required")

	// ErrUnknownTarget is returned when a requested target is not defined in the manifest.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrUnknownStandard is returned when a manifest names a language standard kiln does not know.
	ErrUnknownStandard = zerr.New("unknown language standard")

	// ErrUnknownBuildType is returned when a manifest names a build type other than executable or library.
	ErrUnknownBuildType = zerr.New("unknown build type")

	// ErrInvalidFlags is returned when a flag string cannot be split into tokens.
	ErrInvalidFlags = zerr.New("invalid flag string")

	// ErrRecordStoreRead is returned when the build record store cannot be read.
	ErrRecordStoreRead = zerr.New("failed to read build record store")

	// ErrRecordStoreWrite is returned when the build record store cannot be written.
	ErrRecordStoreWrite = zerr.New("failed to write build record store")

	// ErrProjectExists is returned when a new project would overwrite an existing manifest.
	ErrProjectExists = zerr.New("project already exists")

	// ErrNothingToWatch is returned when the selected targets have no directories to watch.
	ErrNothingToWatch = zerr.New("no directories to watch")

	// ErrMetricsExport is returned when metrics cannot be written to their text file.
	ErrMetricsExport = zerr.New("failed to export metrics")
)
