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
	"time"
)

// JobState is the state of a job as reported by the scheduler.
// Values are hardcoded and should not be changed.
type JobState string

const (
	// JobStatePending indicates the job is known but not running yet.
	JobStatePending JobState = "pending"
	// JobStateRunning indicates the job is being executed.
	JobStateRunning JobState = "running"
	// JobStateCompleted indicates the job finished successfully.
	JobStateCompleted JobState = "completed"
	// JobStateFailed indicates the job finished with a failure.
	JobStateFailed JobState = "failed"
	// JobStateCancelled indicates the job was cancelled.
	JobStateCancelled JobState = "cancelled"
)

func (s JobState) String() string {
	return string(s)
}

// IsTerminal returns true when the state is a terminal state.
func (s JobState) IsTerminal() bool {
	return s == JobStateCompleted || s == JobStateFailed || s == JobStateCancelled
}

// JobSpec is the payload used to submit a job to the scheduler.
type JobSpec struct {
	// Name of the job, unique within the submitting client.
	Name string `json:"name"`
	// Command to execute, including arguments.
	Command []string `json:"command,omitempty"`
	// Env contains additional environment variables for the job.
	Env map[string]string `json:"env,omitempty"`
	// Labels are attached to the job for bookkeeping on the scheduler.
	Labels map[string]string `json:"labels,omitempty"`
}

// JobInfo describes a job known to the scheduler.
type JobInfo struct {
	// ID assigned by the scheduler at submission.
	ID string `json:"id"`
	// Name as given in the JobSpec.
	Name string `json:"name"`
	// State of the job.
	State JobState `json:"state"`
	// Message contains a human readable reason for the current state.
	Message string `json:"message,omitempty"`
	// StartedAt is set once the job started executing.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// FinishedAt is set once the job reached a terminal state.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// VersionInfo contains the version of a scheduler instance.
type VersionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build,omitempty"`
}

// API is the client interface of a job scheduler.
type API interface {
	// Version requests the version of the scheduler.
	Version(ctx context.Context) (VersionInfo, error)
	// SubmitJob submits a job described by the given spec.
	SubmitJob(ctx context.Context, spec JobSpec) (JobInfo, error)
	// JobStatus requests the current status of the job with given ID.
	JobStatus(ctx context.Context, id string) (JobInfo, error)
	// CancelJob asks the scheduler to cancel the job with given ID.
	// Cancellation is best-effort; the job may still finish.
	CancelJob(ctx context.Context, id string) error
	// Endpoint returns the currently used endpoint for this client.
	Endpoint() Endpoint
	// Close this client.
	Close() error
}
