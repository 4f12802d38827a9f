package service

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// fakeRegistry lets a test authorize several connections at once.
type fakeRegistry struct {
	mu  sync.Mutex
	ids []domain.ConnectionID
}

func (r *fakeRegistry) Holds(id domain.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.ids, id)
}

func (r *fakeRegistry) Release(id domain.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.ids, id)
	if i < 0 {
		return false
	}
	r.ids = slices.Delete(r.ids, i, i+1)
	return len(r.ids) == 0
}

func (r *fakeRegistry) CurrentConnections() []domain.ConnectionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ids)
}

func TestDispatcher_Publish(t *testing.T) {
	g := newTestGate(1)
	d := NewDispatcher(g, discardLogger(), nil)

	id, err := g.Admit(testToken, "10.0.0.1")
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	sink := &recordingSink{}
	if err := d.Attach(id, sink); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if n := d.Publish(domain.Frame{Payload: "f"}); n != 1 {
			t.Errorf("Publish() = %d, want 1", n)
		}
	}
	if sink.count() != 3 {
		t.Errorf("sink received %d frames, want 3", sink.count())
	}
}

func TestDispatcher_Publish_NoSession(t *testing.T) {
	g := newTestGate(1)
	d := NewDispatcher(g, discardLogger(), nil)

	if n := d.Publish(domain.Frame{Payload: "f"}); n != 0 {
		t.Errorf("Publish() = %d, want 0", n)
	}
}

func TestDispatcher_Attach_ReleasedConnection(t *testing.T) {
	g := newTestGate(1)
	d := NewDispatcher(g, discardLogger(), nil)

	id, _ := g.Admit(testToken, "10.0.0.1")
	g.Release(id)

	if err := d.Attach(id, &recordingSink{}); !errors.Is(err, domain.ErrConnectionClosed) {
		t.Errorf("Attach() error = %v, want ErrConnectionClosed", err)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestDispatcher_Publish_FailureIsolation(t *testing.T) {
	metrics := newSpyMetrics()
	g := &fakeRegistry{ids: []domain.ConnectionID{"dsc-a", "dsc-b", "dsc-c"}}
	d := NewDispatcher(g, discardLogger(), metrics)

	ids := g.CurrentConnections()
	sinks := []*recordingSink{{}, {broken: true}, {}}
	for i, id := range ids {
		if err := d.Attach(id, sinks[i]); err != nil {
			t.Fatalf("Attach(%d) error = %v", i, err)
		}
	}

	if n := d.Publish(domain.Frame{Payload: "1"}); n != 2 {
		t.Errorf("first Publish() = %d, want 2", n)
	}

	if g.Holds(ids[1]) {
		t.Error("failed connection should be released")
	}
	if !sinks[1].isClosed() {
		t.Error("failed sink should be closed")
	}
	if len(g.CurrentConnections()) != 2 {
		t.Errorf("CurrentConnections() = %v, want 2 remaining", g.CurrentConnections())
	}

	if n := d.Publish(domain.Frame{Payload: "2"}); n != 2 {
		t.Errorf("second Publish() = %d, want 2", n)
	}
	if sinks[0].count() != 2 || sinks[2].count() != 2 {
		t.Errorf("healthy sinks got %d and %d frames, want 2 each", sinks[0].count(), sinks[2].count())
	}
	if metrics.failures != 1 {
		t.Errorf("DeliveryFailed count = %d, want 1", metrics.failures)
	}
}

func TestDispatcher_Publish_PanickingSink(t *testing.T) {
	g := newTestGate(1)
	d := NewDispatcher(g, discardLogger(), nil)

	id, _ := g.Admit(testToken, "10.0.0.1")
	_ = d.Attach(id, &recordingSink{panics: true})

	if n := d.Publish(domain.Frame{Payload: "f"}); n != 0 {
		t.Errorf("Publish() = %d, want 0", n)
	}
	if g.Active() {
		t.Error("panicking sink should end the session")
	}
}

func TestDispatcher_Detach(t *testing.T) {
	g := newTestGate(1)
	d := NewDispatcher(g, discardLogger(), nil)

	id, _ := g.Admit(testToken, "10.0.0.1")
	_ = d.Attach(id, &recordingSink{})

	d.Detach(id)
	d.Detach(id)

	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
	if g.Active() {
		t.Error("session should end on detach")
	}
}

func TestDispatcher_CloseAll(t *testing.T) {
	g := newTestGate(1)
	d := NewDispatcher(g, discardLogger(), nil)

	id, _ := g.Admit(testToken, "10.0.0.1")
	sink := &recordingSink{}
	_ = d.Attach(id, sink)

	d.CloseAll()
	if !sink.isClosed() {
		t.Error("CloseAll() should close attached sinks")
	}
}
