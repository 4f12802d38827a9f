// Package service provides domain services for deskshare.
package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// FrameSink is one connection's delivery endpoint.
//
// SendFrame must not block on the network; a sink queues the frame and
// returns. An error means the connection is gone.
type FrameSink interface {
	SendFrame(frame domain.Frame) error
	Close()
}

// Registry is the view of the session registry the dispatcher needs. Gate
// implements it.
type Registry interface {
	Holds(id domain.ConnectionID) bool
	Release(id domain.ConnectionID) bool
	CurrentConnections() []domain.ConnectionID
}

// Dispatcher delivers published frames to every authorized connection.
type Dispatcher struct {
	gate    Registry
	logger  *slog.Logger
	metrics Metrics

	mu    sync.RWMutex
	sinks map[domain.ConnectionID]FrameSink
}

// NewDispatcher creates a dispatcher bound to gate.
func NewDispatcher(gate Registry, logger *slog.Logger, metrics Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Dispatcher{
		gate:    gate,
		logger:  logger,
		metrics: metrics,
		sinks:   make(map[domain.ConnectionID]FrameSink),
	}
}

// Attach registers sink for an admitted connection. It fails with
// ErrConnectionClosed if id no longer holds the session.
func (d *Dispatcher) Attach(id domain.ConnectionID, sink FrameSink) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.gate.Holds(id) {
		return domain.ErrConnectionClosed
	}
	d.sinks[id] = sink
	return nil
}

// Detach removes the sink for id and releases its session hold. It is safe
// to call more than once.
func (d *Dispatcher) Detach(id domain.ConnectionID) {
	d.mu.Lock()
	delete(d.sinks, id)
	d.mu.Unlock()

	if d.gate.Release(id) {
		d.logger.Info("session ended", "connection_id", id)
	}
}

// Publish hands frame to every authorized connection and returns the number
// of successful deliveries. A failing connection is deregistered and closed;
// the others are unaffected.
func (d *Dispatcher) Publish(frame domain.Frame) int {
	ids := d.gate.CurrentConnections()

	delivered := 0
	for _, id := range ids {
		d.mu.RLock()
		sink, ok := d.sinks[id]
		d.mu.RUnlock()
		if !ok {
			// Admitted but not attached yet.
			continue
		}

		if err := deliver(sink, frame); err != nil {
			d.metrics.DeliveryFailed()
			d.logger.Debug("frame delivery failed, dropping connection",
				"connection_id", id,
				"error", err,
			)
			d.Detach(id)
			sink.Close()
			continue
		}
		delivered++
	}

	d.metrics.FramePublished(delivered)
	return delivered
}

// Len returns the number of attached sinks.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sinks)
}

// CloseAll closes every attached sink. Their owners detach as they exit.
func (d *Dispatcher) CloseAll() {
	d.mu.RLock()
	sinks := make([]FrameSink, 0, len(d.sinks))
	for _, s := range d.sinks {
		sinks = append(sinks, s)
	}
	d.mu.RUnlock()

	for _, s := range sinks {
		s.Close()
	}
}

// deliver isolates one send so a panicking sink counts as a failed delivery.
func deliver(sink FrameSink, frame domain.Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.ErrConnectionClosed.WithDetails(fmt.Sprint(r))
		}
	}()
	return sink.SendFrame(frame)
}
