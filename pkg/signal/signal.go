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

package signal

import "sync"

// Name identifies a single named signal emitted by a Source.
type Name string

// String returns a string representation of the given name.
func (n Name) String() string {
	return string(n)
}

// Handler is called when a signal it was registered for is emitted.
// Signals carry no payload; a handler knows what it observes from the
// registration it was created with.
type Handler func()

// Observable is the subscription side of a signal source.
type Observable interface {
	// On registers a handler for the signal with given name.
	// Handlers cannot be removed.
	On(name Name, h Handler)
}

// Source emits named, zero-payload signals to registered handlers.
// Emission is synchronous: Emit runs all handlers for the name in
// registration order and returns only when all of them have returned.
type Source struct {
	mu       sync.Mutex
	handlers map[Name][]Handler
}

// On registers a handler for the signal with given name.
// A nil handler is ignored.
func (s *Source) On(name Name, h Handler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handlers == nil {
		s.handlers = make(map[Name][]Handler)
	}
	s.handlers[name] = append(s.handlers[name], h)
}

// Emit runs all handlers registered for the signal with given name,
// in registration order.
// Handlers registered while an emission is in progress do not take
// part in that emission.
func (s *Source) Emit(name Name) {
	s.mu.Lock()
	registered := s.handlers[name]
	list := make([]Handler, len(registered))
	copy(list, registered)
	s.mu.Unlock()

	for _, h := range list {
		h()
	}
}

// HandlerCount returns the number of handlers registered for the signal
// with given name.
func (s *Source) HandlerCount(name Name) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.handlers[name])
}
