package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

const testToken = "dstk_test-token-0123456789abcdef"

func newTestGate(monitor int) *Gate {
	tok, err := domain.NewAccessToken(testToken)
	if err != nil {
		panic(err)
	}
	return NewGate(tok, monitor, nil)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCapturer serves fixed monitors and a 2x2 image.
type fakeCapturer struct {
	mu         sync.Mutex
	monitors   []domain.Monitor
	captureErr error
	panicOnce  bool
	captured   []int
}

func newFakeCapturer(n int) *fakeCapturer {
	c := &fakeCapturer{}
	for i := 1; i <= n; i++ {
		c.monitors = append(c.monitors, domain.Monitor{
			Index: i, Left: (i - 1) * 1920, Top: 0, Width: 1920, Height: 1080,
		})
	}
	return c
}

func (c *fakeCapturer) MonitorCount() int { return len(c.monitors) }

func (c *fakeCapturer) Monitor(index int) (domain.Monitor, error) {
	if index < 1 || index > len(c.monitors) {
		return domain.Monitor{}, errors.New("no such monitor")
	}
	return c.monitors[index-1], nil
}

func (c *fakeCapturer) Capture(index int) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panicOnce {
		c.panicOnce = false
		panic("display went away")
	}
	c.captured = append(c.captured, index)
	if c.captureErr != nil {
		return nil, c.captureErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	return img, nil
}

func (c *fakeCapturer) captures() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.captured...)
}

type fakeEncoder struct {
	err error
}

func (e fakeEncoder) Encode(img image.Image) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte("jpeg"), nil
}

// spyInjector records every call.
type spyInjector struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *spyInjector) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.err
}

func (s *spyInjector) Click(x, y int, button domain.MouseButton) error {
	return s.record("click " + string(button) + " " + strconv.Itoa(x) + "," + strconv.Itoa(y))
}

func (s *spyInjector) TypeText(text string) error { return s.record("type " + text) }

func (s *spyInjector) PressKey(key string) error { return s.record("press " + key) }

func (s *spyInjector) Hotkey(keys ...string) error {
	out := "hotkey"
	for _, k := range keys {
		out += " " + k
	}
	return s.record(out)
}

func (s *spyInjector) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type fakeShell struct {
	out      string
	err      error
	commands []string
}

func (f *fakeShell) Run(ctx context.Context, command string) (string, error) {
	f.commands = append(f.commands, command)
	return f.out, f.err
}

// recordingSink collects frames; it fails every send once broken is set.
type recordingSink struct {
	mu     sync.Mutex
	frames []domain.Frame
	broken bool
	panics bool
	closed bool
}

func (s *recordingSink) SendFrame(f domain.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panics {
		panic("write on closed socket")
	}
	if s.broken || s.closed {
		return domain.ErrConnectionClosed
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *recordingSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *recordingSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// spyMetrics counts the events tests care about.
type spyMetrics struct {
	NopMetrics
	mu       sync.Mutex
	started  int
	ended    int
	denied   map[string]int
	skipped  map[string]int
	failures int
	commands map[string]int
}

func newSpyMetrics() *spyMetrics {
	return &spyMetrics{
		denied:   make(map[string]int),
		skipped:  make(map[string]int),
		commands: make(map[string]int),
	}
}

func (m *spyMetrics) SessionStarted() { m.mu.Lock(); m.started++; m.mu.Unlock() }
func (m *spyMetrics) SessionEnded()   { m.mu.Lock(); m.ended++; m.mu.Unlock() }
func (m *spyMetrics) DeliveryFailed() { m.mu.Lock(); m.failures++; m.mu.Unlock() }

func (m *spyMetrics) AdmissionDenied(reason string) {
	m.mu.Lock()
	m.denied[reason]++
	m.mu.Unlock()
}

func (m *spyMetrics) FrameSkipped(stage string) {
	m.mu.Lock()
	m.skipped[stage]++
	m.mu.Unlock()
}

func (m *spyMetrics) CommandCompleted(command string, ok bool) {
	key := command + ":fail"
	if ok {
		key = command + ":ok"
	}
	m.mu.Lock()
	m.commands[key]++
	m.mu.Unlock()
}
