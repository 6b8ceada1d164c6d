package domain

// TargetSpec is a target as declared in a manifest, already validated and typed.
// Recursive applies to every entry of SourceDirs.
type TargetSpec struct {
	Name        string
	Type        BuildType
	Compiler    Compiler
	Standard    Standard
	OutputDir   string
	Sources     []string
	SourceDirs  []string
	Recursive   bool
	IncludeDirs []string
	LinkDirs    []string
	Links       []string
	// Flags are stored without the leading '-'.
	Flags    []string
	Warnings bool
	RunArgs  []string

	Parallel              bool
	Incremental           bool
	ExportCompileCommands bool
}

// Project is the full content of a manifest.
type Project struct {
	Name         string
	Dependencies []Dependency
	Targets      []TargetSpec
}

// Target returns the target with the given name.
func (p *Project) Target(name string) (TargetSpec, bool) {
	for _, t := range p.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return TargetSpec{}, false
}
