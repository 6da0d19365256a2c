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

package jobs

import (
	"time"

	"github.com/arangodb/jobgroup/pkg/signal"
)

// Lifecycle signals emitted by every Job implementation.
// A job emits exactly one Submitted signal per submission and at most one
// terminal signal (Completed or Failed) per submission lifecycle.
const (
	SignalSubmitted signal.Name = "submitted"
	SignalCompleted signal.Name = "completed"
	SignalFailed    signal.Name = "failed"
)

// Phase is the externally observed phase of a single job.
// Values are hardcoded and should not be changed.
type Phase string

const (
	// PhasePending indicates the job has not been submitted yet.
	PhasePending Phase = "pending"
	// PhaseSubmitted indicates the job has been accepted by the execution backend.
	PhaseSubmitted Phase = "submitted"
	// PhaseCompleted indicates the job finished successfully.
	PhaseCompleted Phase = "completed"
	// PhaseFailed indicates the job finished with a failure.
	PhaseFailed Phase = "failed"
	// PhaseCancelled indicates the job was cancelled before finishing.
	PhaseCancelled Phase = "cancelled"
)

func (p Phase) String() string {
	return string(p)
}

// IsTerminal returns true when the phase is a terminal phase.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseFailed || p == PhaseCancelled
}

// Job is the capability contract required from a single unit of
// asynchronously executing work.
// Submit, Resubmit and Cancel are side effecting only; backend failures are
// reported through the Failed signal, never through a return value.
type Job interface {
	signal.Observable

	// Name returns the identity of the job.
	Name() string

	// Phase returns the externally observed phase of the job.
	Phase() Phase

	// Submit the job to the execution backend.
	Submit()

	// Resubmit the job to the execution backend, discarding any previous run.
	Resubmit()

	// Cancel the job. Cancellation is cooperative and best-effort; the
	// backend is not guaranteed to stop promptly.
	Cancel()
}

// Timed is an optional capability of a Job.
// Duration returns the duration of the most recent run and true, or false
// when no duration is known yet.
type Timed interface {
	Duration() (time.Duration, bool)
}
