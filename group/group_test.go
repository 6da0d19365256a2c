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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arangodb/jobgroup/jobs"
	"github.com/arangodb/jobgroup/pkg/errors"
	"github.com/arangodb/jobgroup/pkg/signal"
)

// testJob is a manually driven job used to feed lifecycle signals into a
// group under test.
type testJob struct {
	signal.Source
	name  string
	phase jobs.Phase

	submits   int
	resubmits int
	cancels   int

	dur    time.Duration
	hasDur bool
}

func newTestJob(name string) *testJob {
	return &testJob{name: name, phase: jobs.PhasePending}
}

func (j *testJob) Name() string      { return j.name }
func (j *testJob) Phase() jobs.Phase { return j.phase }

func (j *testJob) Submit() {
	j.submits++
	j.phase = jobs.PhaseSubmitted
}

func (j *testJob) Resubmit() {
	j.resubmits++
	j.phase = jobs.PhaseSubmitted
}

func (j *testJob) Cancel() {
	j.cancels++
	j.phase = jobs.PhaseCancelled
}

func (j *testJob) Duration() (time.Duration, bool) {
	return j.dur, j.hasDur
}

// ack emits the Submitted signal, as the backend would.
func (j *testJob) ack() {
	j.Emit(jobs.SignalSubmitted)
}

func (j *testJob) complete() {
	j.phase = jobs.PhaseCompleted
	j.Emit(jobs.SignalCompleted)
}

func (j *testJob) fail() {
	j.phase = jobs.PhaseFailed
	j.Emit(jobs.SignalFailed)
}

var _ jobs.Job = &testJob{}
var _ jobs.Timed = &testJob{}

// newTestGroup creates a group with n test jobs.
func newTestGroup(t *testing.T, n int) (*Group, []*testJob) {
	list := make([]*testJob, n)
	g, err := NewGroup(Config{Name: "test", Log: zerolog.Nop()})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		list[i] = newTestJob(fmt.Sprintf("job%d", i))
		require.NoError(t, g.AddJob(list[i]))
	}
	return g, list
}

// permutations returns all permutations of 0..n-1.
func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var result [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			result = append(result, q)
		}
	}
	return result
}

func TestGroupCompletesInAnyOrder(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for _, perm := range permutations(n) {
			g, list := newTestGroup(t, n)
			completions := 0
			g.On(SignalGroupCompleted, func() { completions++ })

			g.Submit()
			for _, i := range perm {
				list[i].complete()
			}
			if completions != 1 {
				t.Errorf("Expected exactly 1 GroupCompleted for n=%d perm=%v, got %d", n, perm, completions)
			}
			st := g.Status()
			assert.Equal(t, StateCompleted, st.State)
			assert.Equal(t, n, st.NumCompleted)
		}
	}
}

func TestGroupEmptyCompletesOnSubmit(t *testing.T) {
	g, _ := newTestGroup(t, 0)
	completions := 0
	g.On(SignalGroupCompleted, func() { completions++ })

	assert.Equal(t, StateUnsubmitted, g.Status().State)
	g.Submit()
	// A group without jobs has nothing to wait for.
	assert.Equal(t, 1, completions)
	assert.Equal(t, StateCompleted, g.Status().State)
}

func TestGroupSubmitIdempotent(t *testing.T) {
	g, list := newTestGroup(t, 3)
	submissions := 0
	g.On(SignalGroupSubmitted, func() { submissions++ })

	g.Submit()
	g.Submit()
	for _, j := range list {
		assert.Equal(t, 1, j.submits)
	}
	assert.Equal(t, 1, submissions)
}

func TestGroupFailureIsSticky(t *testing.T) {
	g, list := newTestGroup(t, 3)
	failures := 0
	completions := 0
	g.On(SignalGroupFailed, func() { failures++ })
	g.On(SignalGroupCompleted, func() { completions++ })

	g.Submit()
	list[0].complete()
	list[1].fail()
	assert.Equal(t, 1, failures)
	assert.Equal(t, StateFailed, g.Status().State)

	// A later completion must not clear the failure.
	list[2].complete()
	assert.Equal(t, StateFailed, g.Status().State)
	assert.Equal(t, 0, completions)
}

func TestGroupFailedPerSignal(t *testing.T) {
	g, list := newTestGroup(t, 2)
	failures := 0
	g.On(SignalGroupFailed, func() { failures++ })

	g.Submit()
	list[0].fail()
	list[1].fail()
	// GroupFailed is emitted once per failure signal received.
	assert.Equal(t, 2, failures)
	st := g.Status()
	assert.Equal(t, StateFailed, st.State)
	assert.Equal(t, 2, st.NumFailed)
}

func TestGroupFailureTimePolicy(t *testing.T) {
	lastJobs := []*testJob{newTestJob("a"), newTestJob("b")}
	gLast, err := NewGroup(Config{Name: "last", Log: zerolog.Nop()}, lastJobs[0], lastJobs[1])
	require.NoError(t, err)

	firstJobs := []*testJob{newTestJob("a"), newTestJob("b")}
	gFirst, err := NewGroup(Config{Name: "first", FailureTime: FailureTimeFirst, Log: zerolog.Nop()}, firstJobs[0], firstJobs[1])
	require.NoError(t, err)

	gLast.Submit()
	gFirst.Submit()
	lastJobs[0].fail()
	firstJobs[0].fail()
	durLast := gLast.Status().Duration
	durFirst := gFirst.Status().Duration

	time.Sleep(20 * time.Millisecond)
	lastJobs[1].fail()
	firstJobs[1].fail()

	// Time-of-last-failure advances the recorded duration, time-of-first does not.
	assert.True(t, gLast.Status().Duration > durLast, "expected duration to advance on second failure")
	assert.Equal(t, durFirst, gFirst.Status().Duration)
}

func TestGroupResubmitResets(t *testing.T) {
	g, list := newTestGroup(t, 2)
	g.Submit()
	list[0].ack()
	list[0].complete()
	list[1].fail()
	require.Equal(t, StateFailed, g.Status().State)

	g.Resubmit()
	st := g.Status()
	assert.Equal(t, StateSubmitted, st.State)
	assert.Equal(t, 0, st.NumSubmitted)
	assert.Equal(t, 0, st.NumCompleted)
	assert.Equal(t, 0, st.NumFailed)
	for _, j := range list {
		assert.Equal(t, 1, j.submits)
		assert.Equal(t, 1, j.resubmits)
	}

	// The group completes again after the retry.
	completions := 0
	g.On(SignalGroupCompleted, func() { completions++ })
	list[0].complete()
	list[1].complete()
	assert.Equal(t, 1, completions)
}

func TestGroupCancelBeforeSubmitIsNoop(t *testing.T) {
	g, list := newTestGroup(t, 2)
	g.Cancel()
	for _, j := range list {
		assert.Equal(t, 0, j.cancels)
	}
	assert.Equal(t, StateUnsubmitted, g.Status().State)
}

func TestGroupCancel(t *testing.T) {
	g, list := newTestGroup(t, 2)
	g.Submit()
	g.Cancel()
	for _, j := range list {
		assert.Equal(t, 1, j.cancels)
	}
	// Cancel does not introduce a terminal aggregate state.
	st := g.Status()
	assert.Equal(t, StateSubmitted, st.State)

	// Cancel after completion is a no-op.
	g2, list2 := newTestGroup(t, 1)
	g2.Submit()
	list2[0].complete()
	g2.Cancel()
	assert.Equal(t, 0, list2[0].cancels)
}

func TestGroupJobAckHasNoAggregateEffect(t *testing.T) {
	g, list := newTestGroup(t, 2)
	list[0].ack()
	st := g.Status()
	// The group's own submitted flag is authoritative.
	assert.Equal(t, StateUnsubmitted, st.State)
	assert.Equal(t, 1, st.NumSubmitted)
}

func TestGroupAddJobAfterSubmit(t *testing.T) {
	g, _ := newTestGroup(t, 1)
	g.Submit()
	err := g.AddJob(newTestJob("late"))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Equal(t, 1, g.NumJobs())
}

func TestGroupAddNilJob(t *testing.T) {
	g, _ := newTestGroup(t, 0)
	err := g.AddJob(nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	_, err = NewGroup(Config{Name: "bad", Log: zerolog.Nop()}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}
