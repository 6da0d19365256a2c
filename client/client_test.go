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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testScheduler is an in-memory scheduler behind an HTTP API.
type testScheduler struct {
	mu      sync.Mutex
	nextID  int
	jobsMap map[string]*JobInfo
	// lastAuth records the Authorization header of the last request.
	lastAuth string
}

func newTestScheduler() *testScheduler {
	return &testScheduler{jobsMap: make(map[string]*JobInfo)}
}

func (s *testScheduler) setState(id string, state JobState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info, ok := s.jobsMap[id]; ok {
		info.State = state
	}
}

func (s *testScheduler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAuth = r.Header.Get("Authorization")

	switch {
	case r.URL.Path == "/_api/version":
		json.NewEncoder(w).Encode(VersionInfo{Version: "1.0.0"})
	case r.URL.Path == "/_api/job" && r.Method == "POST":
		var spec JobSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil || spec.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid job spec"})
			return
		}
		s.nextID++
		info := &JobInfo{
			ID:    fmt.Sprintf("job-%d", s.nextID),
			Name:  spec.Name,
			State: JobStatePending,
		}
		s.jobsMap[info.ID] = info
		json.NewEncoder(w).Encode(info)
	case strings.HasPrefix(r.URL.Path, "/_api/job/"):
		id := strings.TrimPrefix(r.URL.Path, "/_api/job/")
		info, ok := s.jobsMap[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "job not found"})
			return
		}
		switch r.Method {
		case "GET":
			json.NewEncoder(w).Encode(info)
		case "DELETE":
			info.State = JobStateCancelled
			json.NewEncoder(w).Encode(info)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, s *testScheduler, auth AuthenticationConfig) API {
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	c, err := NewSchedulerClient(Endpoint{srv.URL}, auth, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientVersion(t *testing.T) {
	c := newTestClient(t, newTestScheduler(), AuthenticationConfig{})
	info, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestClientSubmitAndStatus(t *testing.T) {
	s := newTestScheduler()
	c := newTestClient(t, s, AuthenticationConfig{})

	info, err := c.SubmitJob(context.Background(), JobSpec{Name: "build", Command: []string{"make"}})
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, JobStatePending, info.State)

	s.setState(info.ID, JobStateRunning)
	status, err := c.JobStatus(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStateRunning, status.State)

	require.NoError(t, c.CancelJob(context.Background(), info.ID))
	status, err = c.JobStatus(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStateCancelled, status.State)
}

func TestClientPermanentError(t *testing.T) {
	c := newTestClient(t, newTestScheduler(), AuthenticationConfig{})

	_, err := c.SubmitJob(context.Background(), JobSpec{})
	require.Error(t, err)
	code, ok := IsStatusError(err)
	require.True(t, ok, "expected a status error, got %v", err)
	assert.Equal(t, http.StatusBadRequest, code)

	_, err = c.JobStatus(context.Background(), "no-such-job")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClientEndpointFailover(t *testing.T) {
	s := newTestScheduler()
	good := httptest.NewServer(s)
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	c, err := NewSchedulerClient(Endpoint{bad.URL, good.URL}, AuthenticationConfig{}, nil)
	require.NoError(t, err)
	defer c.Close()

	// The request must be answered by the good endpoint, whatever the order.
	for i := 0; i < 4; i++ {
		info, err := c.Version(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", info.Version)
	}
}

func TestClientAuthentication(t *testing.T) {
	s := newTestScheduler()

	c := newTestClient(t, s, AuthenticationConfig{BearerToken: "secret-token"})
	_, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", s.lastAuth)

	c = newTestClient(t, s, AuthenticationConfig{UserName: "user", Password: "pass"})
	_, err = c.Version(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.lastAuth, "Basic "), "unexpected auth header: %s", s.lastAuth)

	c = newTestClient(t, s, AuthenticationConfig{JWTSecret: "jwt-secret"})
	_, err = c.Version(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.lastAuth, "bearer "), "unexpected auth header: %s", s.lastAuth)
}

func TestClientInvalidConfiguration(t *testing.T) {
	_, err := NewSchedulerClient(nil, AuthenticationConfig{}, nil)
	require.Error(t, err)

	_, err = NewSchedulerClient(Endpoint{"ftp://nope"}, AuthenticationConfig{}, nil)
	require.Error(t, err)
}
