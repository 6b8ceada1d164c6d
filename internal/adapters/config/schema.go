package config

// Manifest represents the structure of the kiln.yaml manifest.
type Manifest struct {
	Name         string          `yaml:"name"`
	Dependencies []DependencyDTO `yaml:"dependencies"`
	Targets      []TargetDTO     `yaml:"targets"`
}

// DependencyDTO represents an external dependency in the manifest.
type DependencyDTO struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Kind    string `yaml:"kind"`
	Dest    string `yaml:"dest"`
	Extract bool   `yaml:"extract"`
}

// TargetDTO represents a target definition in the manifest.
type TargetDTO struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Compiler    string   `yaml:"compiler"`
	Std         string   `yaml:"std"`
	Output      string   `yaml:"output"`
	Sources     []string `yaml:"sources"`
	SourceDirs  []string `yaml:"sourceDirs"`
	Recursive   bool     `yaml:"recursive"`
	IncludeDirs []string `yaml:"includeDirs"`
	LinkDirs    []string `yaml:"linkDirs"`
	Links       []string `yaml:"links"`
	Flags       string   `yaml:"flags"`
	Warnings    bool     `yaml:"warnings"`
	Args        []string `yaml:"args"`

	// Unset toggles keep their default of true.
	Parallel        *bool `yaml:"parallel"`
	Incremental     *bool `yaml:"incremental"`
	CompileCommands *bool `yaml:"compileCommands"`
}
