package domain

import "strings"

// JobStatus represents the lifecycle state of a compile job within one build.
type JobStatus string

const (
	// JobStatusPending indicates the job has been planned but not launched.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job's process has been launched.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job's process exited with status zero.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job's process exited non-zero or could not be spawned.
	JobStatusFailed JobStatus = "failed"
	// JobStatusSkipped indicates the job never ran because an earlier job failed in sequential mode.
	JobStatusSkipped JobStatus = "skipped"
)

// IsTerminal checks if a status is a terminal state (Completed, Failed, Skipped).
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusSkipped:
		return true
	default:
		return false
	}
}

// NormalizeJobStatus converts a string to a JobStatus, defaulting to pending if unknown.
func NormalizeJobStatus(s string) JobStatus {
	switch strings.ToLower(s) {
	case string(JobStatusRunning):
		return JobStatusRunning
	case string(JobStatusCompleted):
		return JobStatusCompleted
	case string(JobStatusFailed):
		return JobStatusFailed
	case string(JobStatusSkipped):
		return JobStatusSkipped
	default:
		return JobStatusPending
	}
}

// Stage names the pipeline step a build report refers to.
type Stage string

const (
	// StageNone means no step ran, e.g. every object was up to date.
	StageNone Stage = ""
	// StageCompile is the per-source compile step.
	StageCompile Stage = "compile"
	// StageLink is the link or archive step.
	StageLink Stage = "link"
	// StageRun is the execution of the produced program.
	StageRun Stage = "run"
)
