package ports

import "time"

// Outcome labels the final status of a build for metrics.
type Outcome string

const (
	// OutcomeSuccess is a build whose artifact is fresh.
	OutcomeSuccess Outcome = "success"
	// OutcomeUpToDate is a build that compiled nothing.
	OutcomeUpToDate Outcome = "up_to_date"
	// OutcomeFailed is a build that stopped on a non-zero exit status.
	OutcomeFailed Outcome = "failed"
)

// Recorder receives build metrics.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Recorder interface {
	ObserveCompile(d time.Duration, success bool)
	ObserveLink(d time.Duration, success bool)
	ObserveBuild(target string, d time.Duration, outcome Outcome)
	SetCompileFanOut(n int)
}
