package domain

import "path/filepath"

const (
	// KilnDirName is the name of the internal state directory.
	KilnDirName = ".kiln"

	// RecordsFileName is the name of the build record store inside KilnDirName.
	RecordsFileName = "records.json"

	// ManifestFileName is the default name of the project manifest.
	ManifestFileName = "kiln.yaml"

	// ObjectDirName is the directory under the output directory holding object files.
	ObjectDirName = "oFiles"

	// CompileCommandsFileName is the name of the compile-commands descriptor.
	CompileCommandsFileName = "compile_commands.json"

	// DefaultOutputDir is the output directory a fresh build configuration uses.
	DefaultOutputDir = "./build/"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultRecordsPath returns the default path of the build record store.
// It joins .kiln and records.json.
func DefaultRecordsPath() string {
	return filepath.Join(KilnDirName, RecordsFileName)
}
