package convert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"snaplink/internal/errs"
	"snaplink/internal/httputil"
	"snaplink/internal/media"
)

// State is a position in the job lifecycle.
type State int

const (
	Submitted State = iota
	Polling
	Completed
	Failed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Submitted:
		return "submitted"
	case Polling:
		return "polling"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == TimedOut
}

// SubmitFunc starts a conversion job upstream.
type SubmitFunc func(ctx context.Context) (media.ConversionJob, error)

// CheckFunc fetches the current status of a job.
type CheckFunc func(ctx context.Context, job media.ConversionJob) (media.ConversionJob, error)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Poller drives a conversion job to a terminal state with a fixed number of
// status checks.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	// Sleep defaults to a context-aware timer; tests inject a fake clock.
	Sleep SleepFunc
}

// Submit starts a job and polls it to completion.
func (p *Poller) Submit(ctx context.Context, submit SubmitFunc, check CheckFunc) (media.ConversionJob, error) {
	const op = "convert: submit"

	job, err := submit(ctx)
	if err != nil {
		return job, err
	}
	if job.ID == "" {
		return job, errs.Errorf(errs.ParseFailure, op, "conversion response has no job id")
	}
	slog.Debug("Job submitted", "job", job.ID, "state", Submitted)
	return p.PollUntilDone(ctx, job, check)
}

// PollUntilDone checks job status at most MaxAttempts times, sleeping
// Interval between checks. A completed job without a download URL is still
// treated as in progress.
func (p *Poller) PollUntilDone(ctx context.Context, job media.ConversionJob, check CheckFunc) (media.ConversionJob, error) {
	const op = "convert: poll"

	sleep := p.Sleep
	if sleep == nil {
		sleep = httputil.SleepContext
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	state := Polling
	for i := 1; i <= attempts; i++ {
		if i > 1 {
			if err := sleep(ctx, p.Interval); err != nil {
				return job, errs.FromContext(op, err)
			}
		}

		next, err := check(ctx, job)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return job, errs.FromContext(op, ctxErr)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return job, errs.FromContext(op, err)
			}
			return job, err
		}
		if next.ID == "" {
			next.ID = job.ID
		}
		if next.Title == "" {
			next.Title = job.Title
		}
		job = next

		switch {
		case job.Status == media.JobCompleted && job.DownloadURL != "":
			state = Completed
		case job.Status == media.JobFailed:
			state = Failed
		}
		slog.Debug("Job polled", "job", job.ID, "attempt", i, "progress", job.Progress, "state", state)

		if state.Terminal() {
			break
		}
	}

	switch state {
	case Completed:
		return job, nil
	case Failed:
		return job, errs.Errorf(errs.UpstreamUnavailable, op, "conversion failed for job %s", job.ID)
	}
	slog.Debug("Job timed out", "job", job.ID, "checks", attempts, "state", TimedOut)
	return job, errs.Errorf(errs.TimedOut, op, "job %s not done after %d checks", job.ID, attempts)
}
