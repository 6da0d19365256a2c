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
	"fmt"
	"strings"
	"time"

	"github.com/arangodb/jobgroup/jobs"
)

// State is the coarse aggregate lifecycle state of a group.
type State string

const (
	StateUnsubmitted State = "unsubmitted"
	StateSubmitted   State = "submitted"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

func (s State) String() string {
	return string(s)
}

// Status is a read-only projection of the state of a group.
type Status struct {
	Name         string
	State        State
	NumJobs      int
	NumSubmitted int
	NumCompleted int
	NumFailed    int
	// Duration is the duration between submission and the first terminal
	// transition, zero while the group is still running.
	Duration time.Duration
	// MeanJobDuration is the mean duration of the TimedJobs jobs that
	// reported a known duration. Jobs with unknown duration are omitted
	// from the mean, not counted as zero.
	MeanJobDuration time.Duration
	TimedJobs       int
}

// Status derives the current status of the group.
// It never mutates group state.
// State precedence is completed over failed over submitted over unsubmitted.
func (g *Group) Status() Status {
	g.mu.Lock()
	st := Status{
		Name:    g.cfg.Name,
		NumJobs: len(g.jobs),
	}
	for i := range g.jobs {
		if g.jobSubmitted[i] {
			st.NumSubmitted++
		}
		if g.jobCompleted[i] {
			st.NumCompleted++
		}
		if g.jobFailed[i] {
			st.NumFailed++
		}
	}
	switch {
	case g.completed:
		st.State = StateCompleted
	case g.failed:
		st.State = StateFailed
	case g.submitted:
		st.State = StateSubmitted
	default:
		st.State = StateUnsubmitted
	}
	st.Duration = g.duration
	list := g.jobListLocked()
	g.mu.Unlock()

	var total time.Duration
	for _, j := range list {
		t, ok := j.(jobs.Timed)
		if !ok {
			continue
		}
		if d, ok := t.Duration(); ok {
			total += d
			st.TimedJobs++
		}
	}
	if st.TimedJobs > 0 {
		st.MeanJobDuration = total / time.Duration(st.TimedJobs)
	}
	return st
}

// Short returns a one-line summary of the status.
func (s Status) Short() string {
	return fmt.Sprintf("Group '%s': %s (%d/%d jobs complete)", s.Name, s.State, s.NumCompleted, s.NumJobs)
}

// Report returns a multi-line report of the status.
func (s Status) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Group: %s\n", s.Name)
	fmt.Fprintf(&b, "State: %s\n", s.State)
	fmt.Fprintf(&b, "Number of jobs: %d\n", s.NumJobs)
	fmt.Fprintf(&b, "Number submitted: %d\n", s.NumSubmitted)
	fmt.Fprintf(&b, "Number complete: %d\n", s.NumCompleted)
	fmt.Fprintf(&b, "Number failed: %d\n", s.NumFailed)
	if s.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %s\n", s.Duration)
	}
	if s.TimedJobs > 0 {
		fmt.Fprintf(&b, "Mean job duration: %s\n", s.MeanJobDuration)
	}
	return b.String()
}
