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
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	maskAny = errors.WithStack
)

// ErrorResponse is the JSON shape of an error reported by the scheduler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError is an error with an HTTP status code.
type StatusError struct {
	StatusCode int
	message    string
}

func (e StatusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s (status %d)", e.message, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", http.StatusText(e.StatusCode), e.StatusCode)
}

// ServiceUnavailableError indicates that no endpoint of the scheduler was
// able to handle the request.
var ServiceUnavailableError = StatusError{StatusCode: http.StatusServiceUnavailable}

// IsStatusError returns the status code and true when the given error is
// caused by a StatusError.
func IsStatusError(err error) (int, bool) {
	if se, ok := errors.Cause(err).(StatusError); ok {
		return se.StatusCode, true
	}
	return 0, false
}

// IsNotFound returns true when the given error is caused by a NotFound response.
func IsNotFound(err error) bool {
	code, ok := IsStatusError(err)
	return ok && code == http.StatusNotFound
}

// IsServiceUnavailable returns true when the given error is caused by a
// ServiceUnavailable response.
func IsServiceUnavailable(err error) bool {
	code, ok := IsStatusError(err)
	return ok && code == http.StatusServiceUnavailable
}

// parseResponseError turns an error response body into a StatusError.
func parseResponseError(body []byte, statusCode int) error {
	var content ErrorResponse
	if err := json.Unmarshal(body, &content); err == nil && content.Error != "" {
		return errors.WithStack(StatusError{StatusCode: statusCode, message: content.Error})
	}
	return errors.WithStack(StatusError{StatusCode: statusCode})
}
