// Package domain defines the core domain models for deskshare.
package domain

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ConnectionIDPrefix is the prefix of streaming connection ids.
const ConnectionIDPrefix = "dsc-"

// ConnectionID identifies one live streaming channel.
// Format: dsc-{ulid_lowercase}, 30 characters total.
type ConnectionID string

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewConnectionID generates a new connection id.
func NewConnectionID() (ConnectionID, error) {
	entropyMu.Lock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return ConnectionID(ConnectionIDPrefix + strings.ToLower(id.String())), nil
}

// String implements fmt.Stringer.
func (id ConnectionID) String() string {
	return string(id)
}
