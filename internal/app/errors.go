package app

import (
	"errors"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
)

// FailedBuildError reports a target whose compile, link or run step exited with a non-zero
// status. It matches domain.ErrBuildExecutionFailed with errors.Is.
type FailedBuildError struct {
	Target   string
	Stage    domain.Stage
	ExitCode int
}

func (e *FailedBuildError) Error() string {
	return fmt.Sprintf("target %s failed in %s step with exit code %d", e.Target, e.Stage, e.ExitCode)
}

// Unwrap returns domain.ErrBuildExecutionFailed.
func (e *FailedBuildError) Unwrap() error {
	return domain.ErrBuildExecutionFailed
}

// ExitCode returns the process exit code for err: zero for nil, the child's status for a
// FailedBuildError, one otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *FailedBuildError
	if errors.As(err, &failed) && failed.ExitCode > 0 {
		return failed.ExitCode
	}
	return 1
}

func failureOf(report domain.BuildReport) error {
	if report.Succeeded() {
		return nil
	}
	return &FailedBuildError{Target: report.Target, Stage: report.Stage, ExitCode: report.ExitCode}
}
