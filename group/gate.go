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

	"github.com/rs/zerolog"

	"github.com/arangodb/jobgroup/pkg/errors"
	"github.com/arangodb/jobgroup/pkg/signal"
)

// Gate submits a group once all subscribed upstream signals have fired.
// Subscriptions are combined with AND semantics: the gate fires the first
// time every subscribed signal has fired at least once since arming.
// A gate fires at most once per arming; re-arming requires an explicit
// Reset. Multiple independent gates may exist per group.
type Gate struct {
	group *Group
	log   zerolog.Logger

	mu      sync.Mutex
	entries []gateEntry
	fired   bool
}

type gateEntry struct {
	name  signal.Name
	fired bool
}

// NewGate creates a gate that submits the given group.
func NewGate(g *Group, log zerolog.Logger) (*Gate, error) {
	if g == nil {
		return nil, errors.NewConfigurationError("group must not be nil")
	}
	return &Gate{
		group: g,
		log:   log,
	}, nil
}

// AddTrigger subscribes the gate to the signal with given name of the given
// source. The subscription starts unfired; the emitter's type is irrelevant,
// any signal source can feed a gate.
func (gt *Gate) AddTrigger(source signal.Observable, name signal.Name) error {
	if source == nil {
		return errors.NewConfigurationError("trigger source must not be nil")
	}
	gt.mu.Lock()
	index := len(gt.entries)
	gt.entries = append(gt.entries, gateEntry{name: name})
	gt.mu.Unlock()

	// The index is captured by value.
	source.On(name, func() { gt.markFired(index) })
	return nil
}

// markFired records that the subscription at given index has fired.
// When all subscriptions have fired for the first time since arming, the
// group is submitted exactly once.
func (gt *Gate) markFired(index int) {
	gt.mu.Lock()
	gt.entries[index].fired = true
	if gt.fired {
		gt.mu.Unlock()
		return
	}
	for _, e := range gt.entries {
		if !e.fired {
			gt.mu.Unlock()
			return
		}
	}
	gt.fired = true
	count := len(gt.entries)
	gt.mu.Unlock()

	gt.log.Debug().
		Str("group", gt.group.Name()).
		Int("triggers", count).
		Msg("All triggers fired, submitting group")
	gt.group.Submit()
}

// Fired returns true when the gate has fired since it was last armed.
func (gt *Gate) Fired() bool {
	gt.mu.Lock()
	defer gt.mu.Unlock()

	return gt.fired
}

// Reset re-arms the gate: all subscription flags and the fired state are
// cleared. The subscriptions themselves remain in place.
// Resubmitting a group does not reset its gates; that is left to the caller.
func (gt *Gate) Reset() {
	gt.mu.Lock()
	defer gt.mu.Unlock()

	for i := range gt.entries {
		gt.entries[i].fired = false
	}
	gt.fired = false
}
