// Package service provides domain services for deskshare.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// CommandService executes the remote-control commands. Authorization happens
// before these methods are reached; every method validates its input before
// touching a collaborator.
type CommandService struct {
	gate     *Gate
	capturer Capturer
	injector Injector
	shell    ShellRunner
	launcher string
	logger   *slog.Logger
	metrics  Metrics

	// injectMu serializes injector use; the collaborator is not assumed to
	// be safe for concurrent calls.
	injectMu sync.Mutex
}

// CommandServiceConfig configures a CommandService.
type CommandServiceConfig struct {
	Gate     *Gate
	Capturer Capturer
	Injector Injector
	Shell    ShellRunner

	// Launcher is the shell program's own name; a command consisting of
	// just that name is refused.
	Launcher string

	Logger  *slog.Logger
	Metrics Metrics
}

// NewCommandService creates a CommandService.
func NewCommandService(cfg CommandServiceConfig) *CommandService {
	s := &CommandService{
		gate:     cfg.Gate,
		capturer: cfg.Capturer,
		injector: cfg.Injector,
		shell:    cfg.Shell,
		launcher: cfg.Launcher,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = NopMetrics{}
	}
	return s
}

// ClickRequest is a click at (X, Y) inside a Width x Height viewport.
type ClickRequest struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Button string
}

// Click maps the click onto the selected monitor's current geometry and
// clicks there.
func (s *CommandService) Click(ctx context.Context, req ClickRequest) (err error) {
	defer func() { s.metrics.CommandCompleted("click", err == nil) }()

	button, err := domain.ParseMouseButton(req.Button)
	if err != nil {
		return err
	}
	viewport := domain.Viewport{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
	if err := viewport.Validate(); err != nil {
		return err
	}

	mon, err := s.capturer.Monitor(s.gate.Monitor())
	if err != nil {
		return domain.ErrCommandFailed.WithDetails("read monitor geometry").WithCause(err)
	}
	x, y, err := mon.Project(viewport)
	if err != nil {
		return err
	}

	s.injectMu.Lock()
	defer s.injectMu.Unlock()
	if err := s.injector.Click(x, y, button); err != nil {
		return domain.ErrCommandFailed.WithDetails(err.Error()).WithCause(err)
	}
	return nil
}

// MonitorCount returns the number of selectable monitors.
func (s *CommandService) MonitorCount() int {
	return s.capturer.MonitorCount()
}

// SelectMonitor switches the captured monitor.
func (s *CommandService) SelectMonitor(index int) (err error) {
	defer func() { s.metrics.CommandCompleted("set_monitor", err == nil) }()

	if err := s.gate.SelectMonitor(index, s.capturer.MonitorCount()); err != nil {
		return err
	}
	s.logger.Info("monitor selected", "monitor", index)
	return nil
}

// TypeText types text, followed by Enter when enter is set.
func (s *CommandService) TypeText(text string, enter bool) (err error) {
	defer func() { s.metrics.CommandCompleted("type_text", err == nil) }()

	if text == "" {
		return domain.ErrEmptyText
	}

	s.injectMu.Lock()
	defer s.injectMu.Unlock()
	if err := s.injector.TypeText(text); err != nil {
		return domain.ErrCommandFailed.WithDetails(err.Error()).WithCause(err)
	}
	if enter {
		if err := s.injector.PressKey("enter"); err != nil {
			return domain.ErrCommandFailed.WithDetails(err.Error()).WithCause(err)
		}
	}
	return nil
}

// PressKeys presses a single key, or a combination when several are given.
func (s *CommandService) PressKeys(keys []string) (err error) {
	defer func() { s.metrics.CommandCompleted("type_key", err == nil) }()

	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return domain.ErrNoKeys
	}

	s.injectMu.Lock()
	defer s.injectMu.Unlock()
	if len(cleaned) == 1 {
		err = s.injector.PressKey(cleaned[0])
	} else {
		err = s.injector.Hotkey(cleaned...)
	}
	if err != nil {
		return domain.ErrCommandFailed.WithDetails(err.Error()).WithCause(err)
	}
	return nil
}

// RunShell runs command through the shell and returns stdout then stderr.
func (s *CommandService) RunShell(ctx context.Context, command string) (out string, err error) {
	defer func() { s.metrics.CommandCompleted("cmd", err == nil) }()

	if err := domain.ValidateShellCommand(command, s.launcher); err != nil {
		return "", err
	}

	out, err = s.shell.Run(ctx, command)
	if err != nil {
		return out, domain.ErrCommandFailed.WithDetails(err.Error()).WithCause(err)
	}
	return out, nil
}
