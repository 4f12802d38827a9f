// Package servicetest provides in-memory collaborators for tests of the
// packages built on service.
package servicetest

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/yndnr/deskshare-go/internal/core/domain"
	"github.com/yndnr/deskshare-go/internal/core/service"
)

// Token is the pinned access token used by NewGate.
const Token = "dstk_test-token-0123456789abcdef"

// NewGate returns a gate holding Token with the given monitor selected.
func NewGate(monitor int) *service.Gate {
	tok, err := domain.NewAccessToken(Token)
	if err != nil {
		panic(err)
	}
	return service.NewGate(tok, monitor, nil)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Capturer serves side-by-side 1920x1080 monitors and a 2x2 image.
type Capturer struct {
	mu       sync.Mutex
	monitors []domain.Monitor
	err      error
}

// NewCapturer returns a Capturer with n monitors.
func NewCapturer(n int) *Capturer {
	c := &Capturer{}
	for i := 1; i <= n; i++ {
		c.monitors = append(c.monitors, domain.Monitor{
			Index: i, Left: (i - 1) * 1920, Top: 0, Width: 1920, Height: 1080,
		})
	}
	return c
}

// FailWith makes every later Capture return err.
func (c *Capturer) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *Capturer) MonitorCount() int { return len(c.monitors) }

func (c *Capturer) Monitor(index int) (domain.Monitor, error) {
	if index < 1 || index > len(c.monitors) {
		return domain.Monitor{}, errors.New("no such monitor")
	}
	return c.monitors[index-1], nil
}

func (c *Capturer) Capture(index int) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	return img, nil
}

// Encoder returns a fixed payload.
type Encoder struct{}

func (Encoder) Encode(image.Image) ([]byte, error) { return []byte("jpeg"), nil }

// Injector records every call as a short string, for example
// "click left 2880,540" or "hotkey ctrl c".
type Injector struct {
	mu    sync.Mutex
	calls []string
	err   error
}

// FailWith makes every later call return err.
func (s *Injector) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Injector) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.err
}

func (s *Injector) Click(x, y int, button domain.MouseButton) error {
	return s.record("click " + string(button) + " " + strconv.Itoa(x) + "," + strconv.Itoa(y))
}

func (s *Injector) TypeText(text string) error { return s.record("type " + text) }

func (s *Injector) PressKey(key string) error { return s.record("press " + key) }

func (s *Injector) Hotkey(keys ...string) error {
	return s.record("hotkey " + strings.Join(keys, " "))
}

// Calls returns a copy of the recorded calls.
func (s *Injector) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Shell returns canned output.
type Shell struct {
	mu       sync.Mutex
	Output   string
	Err      error
	commands []string
}

func (f *Shell) Run(ctx context.Context, command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, command)
	return f.Output, f.Err
}

// Commands returns the commands run so far.
func (f *Shell) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

// Fixture bundles a gate, its command service and the spies behind it.
type Fixture struct {
	Gate     *service.Gate
	Capturer *Capturer
	Injector *Injector
	Shell    *Shell
	Commands *service.CommandService
}

// NewFixture builds a fixture with monitors monitors and monitor 1 selected.
func NewFixture(monitors int) *Fixture {
	f := &Fixture{
		Gate:     NewGate(1),
		Capturer: NewCapturer(monitors),
		Injector: &Injector{},
		Shell:    &Shell{},
	}
	f.Commands = service.NewCommandService(service.CommandServiceConfig{
		Gate:     f.Gate,
		Capturer: f.Capturer,
		Injector: f.Injector,
		Shell:    f.Shell,
		Launcher: "sh",
		Logger:   DiscardLogger(),
	})
	return f
}

// Admit claims the session for address with Token.
func (f *Fixture) Admit(address string) domain.ConnectionID {
	id, err := f.Gate.Admit(Token, address)
	if err != nil {
		panic(err)
	}
	return id
}
