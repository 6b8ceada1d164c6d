package domain

import "time"

// Output is the result of a process run with captured output.
type Output struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
}

// CompileJob is one source file scheduled for compilation within a single build.
type CompileJob struct {
	Source  string
	Object  string
	Command []string

	Status   JobStatus
	ExitCode int
	Stderr   []string
}

// NewCompileJob creates a pending job compiling source into object with the given command tokens.
func NewCompileJob(source, object string, command []string) *CompileJob {
	return &CompileJob{
		Source:  source,
		Object:  object,
		Command: command,
		Status:  JobStatusPending,
	}
}

// Failed reports whether the job ran and did not succeed.
func (j *CompileJob) Failed() bool {
	return j.Status == JobStatusFailed
}

// CompileCommand is one entry of a compile_commands.json descriptor.
type CompileCommand struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
	Output    string `json:"output"`
}

// CompileSummary aggregates the outcome of one scheduler run.
type CompileSummary struct {
	// Launched counts the jobs whose process was started.
	Launched int
	// Failed is the first failing job in launch order, or nil.
	Failed *CompileJob
}

// OK reports whether every launched job succeeded.
func (s CompileSummary) OK() bool {
	return s.Failed == nil
}

// BuildReport is the outcome of a Build or BuildAndRun call.
type BuildReport struct {
	BuildID  string
	Target   string
	ExitCode int
	// Stage is the step that produced ExitCode. StageNone with ExitCode zero means up to date.
	Stage    Stage
	Stderr   []string
	Compiled []string
	Linked   bool
	Artifact string
	Duration time.Duration
}

// Succeeded reports whether the build (and run, if any) exited with status zero.
func (r BuildReport) Succeeded() bool {
	return r.ExitCode == 0
}

// UpToDate reports whether nothing had to be compiled.
func (r BuildReport) UpToDate() bool {
	return r.Succeeded() && len(r.Compiled) == 0
}
