//
// Copyright 2017-2022 ArangoDB GmbH, Cologne, Germany
//
// The Programs (which include both the software and documentation) contain
// proprietary information of ArangoDB GmbH; they are provided under a license
// agreement containing restrictions on use and disclosure and are also
// protected by copyright, patent and other intellectual and industrial
// property laws. Reverse engineering, disassembly or decompilation of the
// Programs, except to the extent required to obtain interoperability with
// other independently created software or as specified by law, is prohibited.
//
// It shall be the licensee's responsibility to take all appropriate fail-safe,
// backup, redundancy, and other measures to ensure the safe use of
// applications if the Programs are used for purposes such as nuclear,
// aviation, mass transit, medical, or other inherently dangerous applications,
// and ArangoDB GmbH disclaims liability for any damages caused by such use of
// the Programs.
//
// This software is the confidential and proprietary information of ArangoDB
// GmbH. You shall not disclose such confidential and proprietary information
// and shall use it only in accordance with the terms of the license agreement
// you entered into with ArangoDB GmbH.
//

package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arangodb/jobgroup/jobs"
	"github.com/arangodb/jobgroup/pkg/errors"
	"github.com/arangodb/jobgroup/pkg/retry"
	"github.com/arangodb/jobgroup/pkg/signal"
	"github.com/arangodb/jobgroup/pkg/trigger"
)

const (
	defaultPollInterval  = time.Second * 5
	defaultSubmitTimeout = time.Minute
	defaultCancelTimeout = time.Second * 30
)

// JobConfig contains the parameters of a scheduler backed job.
type JobConfig struct {
	// Spec describes the work to submit.
	Spec JobSpec
	// API is the scheduler client used for submission and polling.
	API API
	// PollInterval is the idle time between status requests.
	PollInterval time.Duration
	// SubmitTimeout bounds a single submission, including retries.
	SubmitTimeout time.Duration
	// Log is used to report job transitions.
	Log zerolog.Logger
}

// Job runs a single job on a scheduler and emits the lifecycle signals
// required from a jobs.Job: Submitted once per submission, followed by at
// most one Completed or Failed signal.
// Signals are emitted from the internal poll loop, not from the caller of
// Submit.
type Job struct {
	cfg     JobConfig
	signals signal.Source
	wake    trigger.Trigger

	mu       sync.Mutex
	id       string
	phase    jobs.Phase
	started  time.Time
	duration time.Duration
	hasDur   bool
	stop     context.CancelFunc
	stopped  *trigger.Condition
}

var _ jobs.Job = &Job{}
var _ jobs.Timed = &Job{}

// NewJob creates a job that executes the given spec on the scheduler
// behind the given API.
func NewJob(cfg JobConfig) (*Job, error) {
	if cfg.API == nil {
		return nil, errors.NewConfigurationError("API must not be nil")
	}
	if cfg.Spec.Name == "" {
		return nil, errors.NewConfigurationError("job name must not be empty")
	}
	return &Job{
		cfg:   cfg,
		phase: jobs.PhasePending,
	}, nil
}

// Name returns the identity of the job.
func (j *Job) Name() string {
	return j.cfg.Spec.Name
}

// On implements signal.Observable.
func (j *Job) On(name signal.Name, h signal.Handler) {
	j.signals.On(name, h)
}

// Phase returns the externally observed phase of the job.
func (j *Job) Phase() jobs.Phase {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.phase
}

// ID returns the scheduler assigned ID of the job.
// It is empty until the scheduler accepted the submission.
func (j *Job) ID() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.id
}

// Duration returns the duration of the most recent run and true, or false
// when no run has finished yet.
func (j *Job) Duration() (time.Duration, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.duration, j.hasDur
}

// Submit the job to the scheduler.
// It is a no-op when the job has already been submitted; use Resubmit to
// run it again.
func (j *Job) Submit() {
	j.start()
}

// Resubmit stops any current run and submits the job again.
func (j *Job) Resubmit() {
	j.stopRun()
	j.start()
}

// Cancel stops the poll loop and asks the scheduler to cancel the job.
// Cancellation is best-effort; a job that already reached a terminal phase
// is left alone.
func (j *Job) Cancel() {
	j.mu.Lock()
	stop := j.stop
	done := j.stopped
	id := j.id
	terminal := j.phase.IsTerminal()
	if stop != nil && !terminal {
		j.phase = jobs.PhaseCancelled
	}
	j.mu.Unlock()

	if stop == nil || terminal {
		return
	}
	stop()
	done.Wait()
	if id != "" {
		ctx, cancel := context.WithTimeout(context.Background(), defaultCancelTimeout)
		defer cancel()
		if err := j.cfg.API.CancelJob(ctx, id); err != nil {
			j.cfg.Log.Warn().Err(err).
				Str("job", j.Name()).
				Str("id", id).
				Msg("Failed to cancel job on scheduler")
		}
	}
}

// Close stops the poll loop without cancelling the job on the scheduler.
func (j *Job) Close() error {
	j.stopRun()
	return nil
}

// Refresh wakes the poll loop to fetch the job status immediately.
func (j *Job) Refresh() {
	j.wake.Trigger()
}

// start launches a new run unless one was already launched.
func (j *Job) start() {
	j.mu.Lock()
	if j.stop != nil {
		j.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := &trigger.Condition{}
	j.stop = cancel
	j.stopped = done
	j.id = ""
	j.phase = jobs.PhasePending
	j.started = time.Now()
	j.duration = 0
	j.hasDur = false
	j.mu.Unlock()

	go j.run(ctx, done)
}

// stopRun stops the current run, if any, and waits for its poll loop to
// terminate.
func (j *Job) stopRun() {
	j.mu.Lock()
	stop := j.stop
	done := j.stopped
	j.stop = nil
	j.stopped = nil
	j.mu.Unlock()

	if stop == nil {
		return
	}
	stop()
	done.Wait()
}

// run submits the job and polls the scheduler until the job reaches a
// terminal state or the context is canceled.
func (j *Job) run(ctx context.Context, done *trigger.Condition) {
	defer done.Set()
	log := j.cfg.Log

	var info JobInfo
	op := func(ctx context.Context) error {
		var err error
		info, err = j.cfg.API.SubmitJob(ctx, j.cfg.Spec)
		if err != nil {
			if code, ok := IsStatusError(err); ok && code >= 400 && code < 500 {
				// The scheduler rejected the spec, retrying will not help.
				return retry.Permanent(err)
			}
			return errors.WithStack(err)
		}
		return nil
	}
	if err := retry.WithTimeoutContext(ctx, op, j.submitTimeout()); err != nil {
		if errors.IsContextCanceled(err) {
			return
		}
		log.Error().Err(err).
			Str("job", j.Name()).
			Msg("Job submission failed")
		j.finish(jobs.PhaseFailed)
		j.signals.Emit(jobs.SignalFailed)
		return
	}

	j.mu.Lock()
	j.id = info.ID
	j.phase = jobs.PhaseSubmitted
	j.mu.Unlock()
	log.Debug().
		Str("job", j.Name()).
		Str("id", info.ID).
		Msg("Job submitted")
	j.signals.Emit(jobs.SignalSubmitted)

	for {
		if trigger.WaitWithContextAndTrigger(ctx, j.pollInterval(), &j.wake) == trigger.ContextDone {
			return
		}
		status, err := j.cfg.API.JobStatus(ctx, info.ID)
		if err != nil {
			if errors.IsContextCanceled(err) {
				return
			}
			if IsNotFound(err) {
				// The scheduler no longer knows the job.
				log.Error().
					Str("job", j.Name()).
					Str("id", info.ID).
					Msg("Job vanished from scheduler")
				j.finish(jobs.PhaseFailed)
				j.signals.Emit(jobs.SignalFailed)
				return
			}
			log.Warn().Err(err).
				Str("job", j.Name()).
				Msg("Job status request failed")
			continue
		}
		switch status.State {
		case JobStateCompleted:
			j.finish(jobs.PhaseCompleted)
			log.Debug().
				Str("job", j.Name()).
				Str("id", info.ID).
				Msg("Job completed")
			j.signals.Emit(jobs.SignalCompleted)
			return
		case JobStateFailed, JobStateCancelled:
			j.finish(jobs.PhaseFailed)
			log.Warn().
				Str("job", j.Name()).
				Str("id", info.ID).
				Str("reason", status.Message).
				Msg("Job failed")
			j.signals.Emit(jobs.SignalFailed)
			return
		}
	}
}

// finish records the terminal phase and the duration of the run.
func (j *Job) finish(phase jobs.Phase) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.phase = phase
	j.duration = time.Since(j.started)
	j.hasDur = true
}

func (j *Job) pollInterval() time.Duration {
	if j.cfg.PollInterval > 0 {
		return j.cfg.PollInterval
	}
	return defaultPollInterval
}

func (j *Job) submitTimeout() time.Duration {
	if j.cfg.SubmitTimeout > 0 {
		return j.cfg.SubmitTimeout
	}
	return defaultSubmitTimeout
}
