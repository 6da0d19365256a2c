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

	"github.com/arangodb/jobgroup/pkg/errors"
)

// Registry is an append-only catalog of groups supporting bulk cancellation.
// Construct one explicitly and pass it to whoever needs cross-group
// cancellation; there is no implicit process-wide instance.
type Registry struct {
	mu     sync.Mutex
	groups []*Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends the given group to the registry.
// The stored contents are checked before appending; an entry that is not a
// valid group indicates a programming error elsewhere and is reported as an
// internal invariant error.
func (r *Registry) Register(g *Group) error {
	if g == nil {
		return errors.NewConfigurationError("group must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, x := range r.groups {
		if x == nil {
			return errors.NewInternalInvariantError("registry entry %d is not a valid group", i)
		}
	}
	r.groups = append(r.groups, g)
	return nil
}

// List returns the registered groups in registration order.
func (r *Registry) List() []*Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]*Group, len(r.groups))
	copy(list, r.groups)
	return list
}

// Clear removes all registered groups.
// The groups themselves are not cancelled or otherwise touched.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups = nil
}

// CancelAll cancels every registered group, in registration order.
func (r *Registry) CancelAll() {
	for _, g := range r.List() {
		g.Cancel()
	}
}
