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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"io/ioutil"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// AuthenticationConfig contains the authentication settings of a client.
// The first non-empty field of JWTSecret, BearerToken, UserName is used.
type AuthenticationConfig struct {
	JWTSecret   string
	BearerToken string
	UserName    string
	Password    string
}

const (
	// ClientIDHeaderKey is the request header carrying the ID of the
	// submitting client.
	ClientIDHeaderKey = "X-Jobgroup-Client-Id"
)

// NewSchedulerClient creates a new client implementation for a job scheduler.
// The clientID can be provided to tag each request with the identity of the
// submitting client.
func NewSchedulerClient(endpoints Endpoint, authConf AuthenticationConfig, tlsConfig *TLSConfig, clientID ...string) (API, error) {
	if endpoints.IsEmpty() {
		return nil, maskAny(errors.New("at least one endpoint is required"))
	}
	if err := endpoints.Validate(); err != nil {
		return nil, maskAny(err)
	}
	tlsCfg, err := tlsConfig.getTLSConfig()
	if err != nil {
		return nil, maskAny(err)
	}
	c := &client{
		auth:   authConf,
		client: DefaultSchedulerHTTPClient(tlsCfg),
	}
	if len(clientID) > 0 && len(clientID[0]) > 0 {
		c.clientID = clientID[0]
	}
	c.endpoints.config = endpoints.Clone()
	list, err := endpoints.URLs()
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse endpoint URL's")
	}
	c.endpoints.urls = list
	return c, nil
}

type client struct {
	endpoints struct {
		mutex  sync.RWMutex
		config Endpoint
		urls   []url.URL
	}
	auth     AuthenticationConfig
	client   *http.Client
	clientID string
}

// Endpoint returns the currently used endpoint for this client.
func (c *client) Endpoint() Endpoint {
	c.endpoints.mutex.RLock()
	defer c.endpoints.mutex.RUnlock()

	return c.endpoints.config
}

// Close this client.
func (c *client) Close() error {
	if transport, ok := c.client.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}

// Version requests the version of the scheduler.
func (c *client) Version(ctx context.Context) (VersionInfo, error) {
	url := c.createURLs("/_api/version", nil)

	var result VersionInfo
	req, err := c.newRequests("GET", url, nil)
	if err != nil {
		return VersionInfo{}, maskAny(err)
	}
	if err := c.do(ctx, req, &result); err != nil {
		return VersionInfo{}, maskAny(err)
	}

	return result, nil
}

// SubmitJob submits a job described by the given spec.
func (c *client) SubmitJob(ctx context.Context, spec JobSpec) (JobInfo, error) {
	url := c.createURLs("/_api/job", nil)

	var result JobInfo
	req, err := c.newRequests("POST", url, spec)
	if err != nil {
		return JobInfo{}, maskAny(err)
	}
	if err := c.do(ctx, req, &result); err != nil {
		return JobInfo{}, maskAny(err)
	}

	return result, nil
}

// JobStatus requests the current status of the job with given ID.
func (c *client) JobStatus(ctx context.Context, id string) (JobInfo, error) {
	url := c.createURLs("/_api/job/"+id, nil)

	var result JobInfo
	req, err := c.newRequests("GET", url, nil)
	if err != nil {
		return JobInfo{}, maskAny(err)
	}
	if err := c.do(ctx, req, &result); err != nil {
		return JobInfo{}, maskAny(err)
	}

	return result, nil
}

// CancelJob asks the scheduler to cancel the job with given ID.
func (c *client) CancelJob(ctx context.Context, id string) error {
	url := c.createURLs("/_api/job/"+id, nil)

	req, err := c.newRequests("DELETE", url, nil)
	if err != nil {
		return maskAny(err)
	}
	if err := c.do(ctx, req, nil); err != nil {
		return maskAny(err)
	}

	return nil
}

// createURLs creates full URLs (for all endpoints) for a request with given local path & query.
func (c *client) createURLs(urlPath string, query url.Values) []string {
	c.endpoints.mutex.RLock()
	defer c.endpoints.mutex.RUnlock()

	result := make([]string, len(c.endpoints.urls))
	for i, ep := range c.endpoints.urls {
		u := ep // Create copy
		u.Path = urlPath
		if query != nil {
			u.RawQuery = query.Encode()
		}
		result[i] = u.String()
	}
	return result
}

// newRequests creates new requests with optional body, one per URL.
func (c *client) newRequests(method string, urls []string, body interface{}) ([]*http.Request, error) {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, maskAny(err)
		}
	}

	result := make([]*http.Request, len(urls))
	for i, url := range urls {
		var bodyRd io.Reader
		if encoded != nil {
			bodyRd = bytes.NewReader(encoded)
		}
		req, err := http.NewRequest(method, url, bodyRd)
		if err != nil {
			return nil, maskAny(err)
		}
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.auth.JWTSecret != "" { // nolint: gocritic
			if err := addJWTHeader(req, c.auth.JWTSecret); err != nil {
				return nil, maskAny(err)
			}
		} else if c.auth.BearerToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.auth.BearerToken)
		} else if c.auth.UserName != "" {
			plainText := c.auth.UserName + ":" + c.auth.Password
			encoded := base64.StdEncoding.EncodeToString([]byte(plainText))
			req.Header.Set("Authorization", "Basic "+encoded)
		}
		if c.clientID != "" {
			req.Header.Set(ClientIDHeaderKey, c.clientID)
		}
		result[i] = req
	}
	return result, nil
}

// do performs the given requests, one per endpoint, until one answers with
// a success or a permanent failure.
func (c *client) do(ctx context.Context, reqs []*http.Request, result interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := defaultHTTPTimeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		timeout = time.Until(deadline)
	}

	if len(reqs) > 1 {
		// Shuffle requests to get random distribution across endpoints.
		rand.Shuffle(len(reqs), func(i, j int) {
			reqs[i], reqs[j] = reqs[j], reqs[i]
		})
	}

	var lastErr error
	for _, req := range reqs {
		lctx, cancel := context.WithTimeout(ctx, timeout/time.Duration(len(reqs)))
		retryNext, err := c.doOnce(lctx, req, result)
		cancel()
		if err == nil {
			return nil
		}
		if !retryNext {
			return maskAny(err)
		}
		lastErr = err
	}
	if lastErr != nil {
		return maskAny(lastErr)
	}
	return maskAny(errors.Wrap(ServiceUnavailableError, "no endpoints available"))
}

// doOnce performs a single request.
// Returns: retryNext, error
func (c *client) doOnce(ctx context.Context, req *http.Request, result interface{}) (bool, error) {
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		// Request failed, try next endpoint.
		return true, maskAny(err)
	}
	defer resp.Body.Close()

	statusCode := resp.StatusCode
	if statusCode >= 500 || statusCode == http.StatusRequestTimeout {
		// Temporary failure, try next endpoint.
		return true, maskAny(StatusError{StatusCode: statusCode})
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return true, maskAny(err)
	}
	if statusCode < 200 || statusCode >= 300 {
		// Permanent error.
		return false, maskAny(parseResponseError(body, statusCode))
	}
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			method := req.Method
			url := req.URL.String()
			return false, errors.Wrapf(err, "Failed decoding response data from %s request to %s: %v", method, url, err)
		}
	}
	return false, nil
}
