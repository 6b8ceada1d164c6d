// Package scheduler implements the compile job scheduler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/invoke"
	"go.trai.ch/zerr"
)

// Mode selects how compile jobs are launched.
type Mode int

const (
	// Parallel launches every job before awaiting any of them.
	Parallel Mode = iota
	// Sequential launches and awaits one job at a time.
	Sequential
)

// Scheduler runs one compiler process per stale source.
//
// In Parallel mode there is no bound on the number of processes launched at once: a target with
// N stale sources starts N compilers together. Large targets can exhaust process or memory limits
// of the host; callers that need a bound should use Sequential mode.
type Scheduler struct {
	shell    ports.Shell
	logger   ports.Logger
	tracer   ports.Tracer
	recorder ports.Recorder

	mu        sync.RWMutex
	jobStatus map[string]domain.JobStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	shell ports.Shell,
	logger ports.Logger,
	tracer ports.Tracer,
	recorder ports.Recorder,
) *Scheduler {
	return &Scheduler{
		shell:     shell,
		logger:    logger,
		tracer:    tracer,
		recorder:  recorder,
		jobStatus: make(map[string]domain.JobStatus),
	}
}

// Run compiles jobs and returns a summary naming the first failing job in launch order.
//
// Non-zero compiler exits are reported through the summary and the jobs themselves, not as
// errors. The returned error is non-nil only when a process could not be spawned or awaited.
// No job is ever cancelled: in Parallel mode every launched job is awaited before Run returns,
// even after a failure has been seen.
func (s *Scheduler) Run(ctx context.Context, jobs []*domain.CompileJob, mode Mode) (domain.CompileSummary, error) {
	s.initJobStatuses(jobs)

	sources := make([]string, 0, len(jobs))
	for _, job := range jobs {
		sources = append(sources, job.Source)
	}
	s.tracer.EmitPlan(ctx, sources)

	if mode == Sequential {
		return s.runSequential(ctx, jobs)
	}
	return s.runParallel(ctx, jobs)
}

// initJobStatuses resets the status map to the given jobs, all Pending.
func (s *Scheduler) initJobStatuses(jobs []*domain.CompileJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobStatus = make(map[string]domain.JobStatus, len(jobs))
	for _, job := range jobs {
		s.jobStatus[job.Source] = domain.JobStatusPending
	}
}

// updateStatus updates the status of a job.
func (s *Scheduler) updateStatus(job *domain.CompileJob, status domain.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.Status = status
	s.jobStatus[job.Source] = status
}

// launched is a job whose process has been started.
type launched struct {
	job    *domain.CompileJob
	span   ports.Span
	result *invoke.Future[timedOutput]
}

type timedOutput struct {
	output   domain.Output
	duration time.Duration
}

func (s *Scheduler) launch(ctx context.Context, job *domain.CompileJob) launched {
	_, span := s.tracer.Start(ctx, "compile",
		ports.WithAttribute("source", job.Source),
		ports.WithAttribute("object", job.Object),
	)
	s.updateStatus(job, domain.JobStatusRunning)

	start := time.Now()
	pending := invoke.New(s.shell, s.logger, job.Command...).RunAsyncCapturingOutput()
	result := invoke.Go(func() (timedOutput, error) {
		out, err := pending.Await()
		return timedOutput{output: out, duration: time.Since(start)}, err
	})

	return launched{job: job, span: span, result: result}
}

// finish awaits a launched job and records its outcome.
func (s *Scheduler) finish(l launched) error {
	defer l.span.End()

	res, err := l.result.Await()
	l.job.ExitCode = res.output.ExitCode
	l.job.Stderr = res.output.Stderr
	_, _ = fmt.Fprintf(l.span, "%s\n", l.job.Source)
	l.span.SetAttribute("exit_code", res.output.ExitCode)

	if err != nil || res.output.ExitCode != 0 {
		s.updateStatus(l.job, domain.JobStatusFailed)
		s.recorder.ObserveCompile(res.duration, false)
		if err != nil {
			l.span.RecordError(err)
			return zerr.With(zerr.Wrap(err, "compile job could not run"), "source", l.job.Source)
		}
		l.span.RecordError(zerr.With(zerr.New("compiler exited with non-zero status"), "exit_code", res.output.ExitCode))
		return nil
	}

	s.updateStatus(l.job, domain.JobStatusCompleted)
	s.recorder.ObserveCompile(res.duration, true)
	return nil
}

func (s *Scheduler) runParallel(ctx context.Context, jobs []*domain.CompileJob) (domain.CompileSummary, error) {
	var summary domain.CompileSummary

	// Fan-out: every process is started before any result is awaited.
	pending := make([]launched, 0, len(jobs))
	for _, job := range jobs {
		pending = append(pending, s.launch(ctx, job))
	}
	summary.Launched = len(pending)
	s.recorder.SetCompileFanOut(len(pending))

	// Fan-in in launch order. Output is reported for one job at a time.
	var errs error
	for _, l := range pending {
		if err := s.finish(l); err != nil {
			errs = errors.Join(errs, err)
		}
		if !l.job.Failed() {
			continue
		}
		if summary.Failed == nil {
			summary.Failed = l.job
			s.reportFailure(l.job)
			continue
		}
		s.logger.Warn(fmt.Sprintf("%s also failed with exit code %d", l.job.Source, l.job.ExitCode))
	}

	return summary, errs
}

func (s *Scheduler) runSequential(ctx context.Context, jobs []*domain.CompileJob) (domain.CompileSummary, error) {
	var summary domain.CompileSummary
	s.recorder.SetCompileFanOut(min(1, len(jobs)))

	for i, job := range jobs {
		summary.Launched++
		err := s.finish(s.launch(ctx, job))
		if !job.Failed() {
			continue
		}

		summary.Failed = job
		s.reportFailure(job)
		for _, rest := range jobs[i+1:] {
			s.updateStatus(rest, domain.JobStatusSkipped)
		}
		return summary, err
	}

	return summary, nil
}

// reportFailure surfaces the captured stderr of a failed job.
func (s *Scheduler) reportFailure(job *domain.CompileJob) {
	err := zerr.With(zerr.With(zerr.New("compilation failed"), "source", job.Source), "exit_code", job.ExitCode)
	s.logger.Error(err)
	for _, line := range job.Stderr {
		s.logger.Error(zerr.New(line))
	}
}
