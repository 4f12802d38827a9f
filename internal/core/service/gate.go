// Package service provides domain services for deskshare.
package service

import (
	"sync"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// Gate owns every piece of shared mutable state: the access token, the
// session and the monitor selection. One mutex guards all of it and is never
// held across I/O.
type Gate struct {
	mu      sync.Mutex
	token   *domain.AccessToken
	session *domain.SessionState
	monitor int
	metrics Metrics
}

// Status is a point-in-time view of the gate for the landing page.
type Status struct {
	TokenValid          bool
	SessionActive       bool
	TokenPreview        string
	AuthorizedAddresses []string
	CurrentMonitor      int
}

// NewGate creates a gate around tok with the given initial monitor.
func NewGate(tok *domain.AccessToken, monitor int, metrics Metrics) *Gate {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Gate{
		token:   tok,
		session: domain.NewSessionState(),
		monitor: monitor,
		metrics: metrics,
	}
}

// ValidateToken reports whether candidate could claim the session right now.
func (g *Gate) ValidateToken(candidate string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.session.Active() && g.token.Check(candidate) == nil
}

// Admit validates candidate, consumes the token and acquires the session for
// a new connection from address, all under one lock. Concurrent callers are
// strictly serialized, so at most one of them ever succeeds per token.
func (g *Gate) Admit(candidate, address string) (domain.ConnectionID, error) {
	id, err := domain.NewConnectionID()
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	err = g.admitLocked(id, candidate, address)
	g.mu.Unlock()

	if err != nil {
		g.metrics.AdmissionDenied(domain.GetErrorCode(err))
		return "", err
	}
	g.metrics.SessionStarted()
	return id, nil
}

func (g *Gate) admitLocked(id domain.ConnectionID, candidate, address string) error {
	if g.session.Active() {
		return domain.ErrSessionActive
	}
	if err := g.token.Check(candidate); err != nil {
		return err
	}
	g.token.Consume()
	return g.session.TryAcquire(id, address)
}

// IsAuthorized reports whether address holds the active session.
func (g *Gate) IsAuthorized(address string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.IsAuthorized(address)
}

// Holds reports whether id is an authorized connection.
func (g *Gate) Holds(id domain.ConnectionID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Holds(id)
}

// Release deauthorizes id. It returns true if this ended the session.
// Releasing an unknown or already released id is a no-op.
func (g *Gate) Release(id domain.ConnectionID) bool {
	g.mu.Lock()
	ended := g.session.Release(id)
	g.mu.Unlock()

	if ended {
		g.metrics.SessionEnded()
	}
	return ended
}

// Active reports whether a session is held.
func (g *Gate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Active()
}

// CurrentConnections returns a copy of the authorized connection ids.
func (g *Gate) CurrentConnections() []domain.ConnectionID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Connections()
}

// Monitor returns the selected monitor index.
func (g *Gate) Monitor() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.monitor
}

// SelectMonitor sets the monitor if 1 <= index <= count. On error the
// selection is unchanged.
func (g *Gate) SelectMonitor(index, count int) error {
	if err := domain.ValidateMonitorIndex(index, count); err != nil {
		return err
	}
	g.mu.Lock()
	g.monitor = index
	g.mu.Unlock()
	return nil
}

// TokenValue returns the full token for the QR code and the startup banner.
func (g *Gate) TokenValue() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token.Value()
}

// Status returns a snapshot for display. It never contains the full token.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{
		TokenValid:          !g.token.Consumed(),
		SessionActive:       g.session.Active(),
		TokenPreview:        g.token.Preview(),
		AuthorizedAddresses: g.session.Addresses(),
		CurrentMonitor:      g.monitor,
	}
}
