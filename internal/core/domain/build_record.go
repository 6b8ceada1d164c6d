package domain

import "time"

// BuildRecord is the persisted outcome of the most recent build of a target.
type BuildRecord struct {
	Target   string    `json:"target"`
	BuildID  string    `json:"build_id,omitzero"`
	ExitCode int       `json:"exit_code"`
	Stage    Stage     `json:"stage,omitzero"`
	Compiled int       `json:"compiled"`
	Artifact string    `json:"artifact,omitzero"`
	Finished time.Time `json:"finished,omitzero"`
}

// NewBuildRecord summarizes a report for persistence.
func NewBuildRecord(r BuildReport, finished time.Time) BuildRecord {
	return BuildRecord{
		Target:   r.Target,
		BuildID:  r.BuildID,
		ExitCode: r.ExitCode,
		Stage:    r.Stage,
		Compiled: len(r.Compiled),
		Artifact: r.Artifact,
		Finished: finished,
	}
}
