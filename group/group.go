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

package group

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arangodb/jobgroup/jobs"
	"github.com/arangodb/jobgroup/pkg/errors"
	"github.com/arangodb/jobgroup/pkg/signal"
)

// Group-level lifecycle signals.
// A downstream Gate can chain on these to submit another group.
const (
	SignalGroupSubmitted signal.Name = "group-submitted"
	SignalGroupCompleted signal.Name = "group-completed"
	SignalGroupFailed    signal.Name = "group-failed"
)

// FailureTimePolicy selects which failure signal fixes the end time of a
// failed group.
type FailureTimePolicy int

const (
	// FailureTimeLast records the end time on every failure signal received,
	// so the end time reflects the most recent failure.
	FailureTimeLast FailureTimePolicy = iota
	// FailureTimeFirst records the end time at the first failure only.
	FailureTimeFirst
)

// Config contains the parameters of a Group.
type Config struct {
	// Name identifies the group. It is immutable after construction.
	Name string
	// FailureTime selects which failure signal fixes the end time.
	// Defaults to FailureTimeLast.
	FailureTime FailureTimePolicy
	// Log is used to report lifecycle transitions.
	// Pass zerolog.Nop() to silence reporting; this changes reporting only,
	// never the state machine.
	Log zerolog.Logger
}

// Group aggregates the lifecycles of an ordered set of jobs into a single
// aggregate lifecycle: submitted, completed or failed.
// Completion is reached when all jobs have completed; a single job failure
// marks the whole group failed and stays sticky until Resubmit.
// Sibling jobs are not cancelled on failure; cascading cancellation is the
// caller's responsibility.
type Group struct {
	cfg     Config
	signals signal.Source

	mu           sync.Mutex
	jobs         []jobs.Job
	jobSubmitted []bool
	jobCompleted []bool
	jobFailed    []bool
	submitted    bool
	completed    bool
	failed       bool
	startTime    time.Time
	endTime      time.Time
	duration     time.Duration
}

// NewGroup creates a group with the given initial jobs.
func NewGroup(cfg Config, initial ...jobs.Job) (*Group, error) {
	g := &Group{
		cfg: cfg,
	}
	for _, j := range initial {
		if err := g.AddJob(j); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return g, nil
}

// Name returns the identity of the group.
func (g *Group) Name() string {
	return g.cfg.Name
}

// On implements signal.Observable.
// It registers a handler for one of the group-level lifecycle signals.
func (g *Group) On(name signal.Name, h signal.Handler) {
	g.signals.On(name, h)
}

// NumJobs returns the number of jobs in the group.
func (g *Group) NumJobs() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.jobs)
}

// AddJob appends the given job to the group at the next index.
// The index is assigned at insertion time and stays valid for the lifetime
// of the group.
// Adding a job after submission is rejected with a configuration error.
func (g *Group) AddJob(j jobs.Job) error {
	if j == nil {
		return errors.NewConfigurationError("job must not be nil")
	}
	g.mu.Lock()
	if g.submitted {
		g.mu.Unlock()
		return errors.NewConfigurationError("cannot add job '%s' to group '%s' after submission", j.Name(), g.cfg.Name)
	}
	index := len(g.jobs)
	g.jobs = append(g.jobs, j)
	g.jobSubmitted = append(g.jobSubmitted, false)
	g.jobCompleted = append(g.jobCompleted, false)
	g.jobFailed = append(g.jobFailed, false)
	g.mu.Unlock()

	// The index is captured by value.
	j.On(jobs.SignalSubmitted, func() { g.markJobSubmitted(index) })
	j.On(jobs.SignalCompleted, func() { g.markJobCompleted(index) })
	j.On(jobs.SignalFailed, func() { g.markJobFailed(index) })

	g.cfg.Log.Debug().
		Str("group", g.cfg.Name).
		Str("job", j.Name()).
		Int("index", index).
		Msg("Job added to group")
	return nil
}

// Submit submits every job of the group, in index order.
// It is a no-op when the group has already been submitted.
// Submission order does not imply execution order on the backend; the group
// only guarantees that all submit calls are issued.
func (g *Group) Submit() {
	g.mu.Lock()
	if g.submitted {
		g.mu.Unlock()
		g.cfg.Log.Debug().
			Str("group", g.cfg.Name).
			Msg("Submit ignored, group is already submitted")
		return
	}
	g.submitted = true
	g.startTime = time.Now()
	g.endTime = time.Time{}
	g.duration = 0
	list := g.jobListLocked()
	empty := len(list) == 0
	if empty {
		// A group without jobs has nothing left to wait for.
		g.completed = true
		g.endTime = g.startTime
	}
	g.mu.Unlock()

	for _, j := range list {
		j.Submit()
	}
	g.cfg.Log.Info().
		Str("group", g.cfg.Name).
		Int("jobs", len(list)).
		Msg("Group submitted")
	g.signals.Emit(SignalGroupSubmitted)
	if empty {
		g.signals.Emit(SignalGroupCompleted)
	}
}

// Resubmit clears all per-job and aggregate state and submits every job of
// the group again, in index order.
// Unlike Submit it is never a no-op; it is the only way out of a completed
// or failed state.
func (g *Group) Resubmit() {
	g.mu.Lock()
	for i := range g.jobs {
		g.jobSubmitted[i] = false
		g.jobCompleted[i] = false
		g.jobFailed[i] = false
	}
	g.completed = false
	g.failed = false
	g.submitted = true
	g.startTime = time.Now()
	g.endTime = time.Time{}
	g.duration = 0
	list := g.jobListLocked()
	empty := len(list) == 0
	if empty {
		g.completed = true
		g.endTime = g.startTime
	}
	g.mu.Unlock()

	for _, j := range list {
		j.Resubmit()
	}
	g.cfg.Log.Info().
		Str("group", g.cfg.Name).
		Int("jobs", len(list)).
		Msg("Group resubmitted")
	g.signals.Emit(SignalGroupSubmitted)
	if empty {
		g.signals.Emit(SignalGroupCompleted)
	}
}

// Cancel cancels every job of the group, in index order.
// It is effective only when the group is submitted and not yet completed.
// Cancel does not change the aggregate submitted/completed/failed state;
// a cancelled group remains submitted, not completed and not failed.
func (g *Group) Cancel() {
	g.mu.Lock()
	if !g.submitted || g.completed {
		g.mu.Unlock()
		return
	}
	g.endTime = time.Now()
	g.duration = g.endTime.Sub(g.startTime)
	list := g.jobListLocked()
	g.mu.Unlock()

	for _, j := range list {
		j.Cancel()
	}
	g.cfg.Log.Info().
		Str("group", g.cfg.Name).
		Int("jobs", len(list)).
		Msg("Group cancelled")
}

// jobListLocked returns a copy of the job list.
// The callers must hold the lock of the group.
func (g *Group) jobListLocked() []jobs.Job {
	list := make([]jobs.Job, len(g.jobs))
	copy(list, g.jobs)
	return list
}

// markJobSubmitted records the submission acknowledgement of the job at
// given index.
// It has no effect on the aggregate state; the submitted flag of the group
// is authoritative and set by Submit/Resubmit.
func (g *Group) markJobSubmitted(index int) {
	g.mu.Lock()
	g.jobSubmitted[index] = true
	name := g.jobs[index].Name()
	g.mu.Unlock()

	g.cfg.Log.Debug().
		Str("group", g.cfg.Name).
		Str("job", name).
		Int("index", index).
		Msg("Job submitted")
}

// markJobCompleted records the completion of the job at given index.
// When all jobs have completed after this update, the group transitions to
// completed exactly once and emits the GroupCompleted signal.
func (g *Group) markJobCompleted(index int) {
	g.mu.Lock()
	g.jobCompleted[index] = true
	name := g.jobs[index].Name()
	if g.completed {
		g.mu.Unlock()
		return
	}
	for _, done := range g.jobCompleted {
		if !done {
			g.mu.Unlock()
			g.cfg.Log.Debug().
				Str("group", g.cfg.Name).
				Str("job", name).
				Int("index", index).
				Msg("Job completed")
			return
		}
	}
	g.completed = true
	g.endTime = time.Now()
	g.duration = g.endTime.Sub(g.startTime)
	duration := g.duration
	g.mu.Unlock()

	g.cfg.Log.Info().
		Str("group", g.cfg.Name).
		Dur("duration", duration).
		Msg("Group completed")
	g.signals.Emit(SignalGroupCompleted)
}

// markJobFailed records the failure of the job at given index.
// The failed flag is sticky; it stays set until Resubmit.
// The end time is recorded according to the configured FailureTimePolicy
// and the GroupFailed signal is emitted for every failure signal received.
func (g *Group) markJobFailed(index int) {
	g.mu.Lock()
	g.jobFailed[index] = true
	name := g.jobs[index].Name()
	if !g.failed || g.cfg.FailureTime == FailureTimeLast {
		g.endTime = time.Now()
		g.duration = g.endTime.Sub(g.startTime)
	}
	g.failed = true
	duration := g.duration
	g.mu.Unlock()

	g.cfg.Log.Warn().
		Str("group", g.cfg.Name).
		Str("job", name).
		Int("index", index).
		Dur("duration", duration).
		Msg("Group failed")
	g.signals.Emit(SignalGroupFailed)
}
