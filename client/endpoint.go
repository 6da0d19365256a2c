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
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Endpoint is a list of URLs that are considered to be of the same scheduler.
type Endpoint []string

// Contains returns true when x is an element of ep.
func (ep Endpoint) Contains(x string) bool {
	x = normalizeSingleEndpoint(x)
	for _, y := range ep {
		if x == normalizeSingleEndpoint(y) {
			return true
		}
	}
	return false
}

// IsEmpty returns true when ep has no elements.
func (ep Endpoint) IsEmpty() bool {
	return len(ep) == 0
}

// Clone returns a deep clone of the given endpoint.
func (ep Endpoint) Clone() Endpoint {
	return append(Endpoint{}, ep...)
}

// Equals returns true when ep and other contain
// the same elements (perhaps in different order).
func (ep Endpoint) Equals(other Endpoint) bool {
	if len(ep) != len(other) {
		return false
	}
	// Clone lists so we can sort them without affecting the original lists.
	a := append([]string{}, ep.normalized()...)
	b := append([]string{}, other.normalized()...)
	sort.Strings(a)
	sort.Strings(b)
	for i, x := range a {
		if x != b[i] {
			return false
		}
	}
	return true
}

// URLs returns the endpoint as a list of parsed URLs.
func (ep Endpoint) URLs() ([]url.URL, error) {
	list := make([]url.URL, 0, len(ep))
	for _, x := range ep {
		u, err := url.Parse(normalizeSingleEndpoint(x))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		u.Path = ""
		list = append(list, *u)
	}
	return list, nil
}

// Validate checks all endpoint elements for valid URLs.
func (ep Endpoint) Validate() error {
	for _, x := range ep {
		u, err := url.Parse(x)
		if err != nil {
			return errors.Wrapf(err, "endpoint '%s' is not a valid URL", x)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.Errorf("endpoint '%s' contains invalid scheme '%s'", x, u.Scheme)
		}
	}
	return nil
}

func (ep Endpoint) normalized() []string {
	result := make([]string, len(ep))
	for i, x := range ep {
		result[i] = normalizeSingleEndpoint(x)
	}
	return result
}

func normalizeSingleEndpoint(x string) string {
	return strings.TrimSuffix(x, "/")
}
