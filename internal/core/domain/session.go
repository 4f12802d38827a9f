// Package domain defines the core domain models for deskshare.
package domain

import "sort"

// SessionState tracks the one authorized session: which connections hold it
// and which network addresses they came from.
//
// Invariant: the session is active iff at least one connection is authorized.
// SessionState is not safe for concurrent use; service.Gate serializes access.
type SessionState struct {
	connections map[ConnectionID]string // connection -> address
	addresses   map[string]struct{}
}

// NewSessionState returns an inactive session.
func NewSessionState() *SessionState {
	return &SessionState{
		connections: make(map[ConnectionID]string),
		addresses:   make(map[string]struct{}),
	}
}

// Active reports whether a session is currently held.
func (s *SessionState) Active() bool {
	return len(s.connections) > 0
}

// TryAcquire activates the session for id and address. It fails with
// ErrSessionActive if the session is already held.
func (s *SessionState) TryAcquire(id ConnectionID, address string) error {
	if s.Active() {
		return ErrSessionActive
	}
	s.connections[id] = address
	s.addresses[address] = struct{}{}
	return nil
}

// IsAuthorized reports whether address belongs to the active session.
func (s *SessionState) IsAuthorized(address string) bool {
	if !s.Active() {
		return false
	}
	_, ok := s.addresses[address]
	return ok
}

// Release removes id. When it was the last connection the session ends and
// the address set is cleared. It returns true only if this call ended the
// session. Unknown ids are ignored.
func (s *SessionState) Release(id ConnectionID) bool {
	if _, ok := s.connections[id]; !ok {
		return false
	}
	delete(s.connections, id)
	if len(s.connections) > 0 {
		return false
	}
	clear(s.addresses)
	return true
}

// Holds reports whether id is an authorized connection.
func (s *SessionState) Holds(id ConnectionID) bool {
	_, ok := s.connections[id]
	return ok
}

// Connections returns a sorted copy of the authorized connection ids.
func (s *SessionState) Connections() []ConnectionID {
	ids := make([]ConnectionID, 0, len(s.connections))
	for id := range s.connections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Addresses returns a sorted copy of the authorized addresses.
func (s *SessionState) Addresses() []string {
	addrs := make([]string, 0, len(s.addresses))
	for a := range s.addresses {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)
	return addrs
}
