// Package service provides domain services for deskshare.
package service

import (
	"context"
	"image"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// Capturer acquires screen pixels and reports monitor geometry.
// Monitor indexes are 1-based.
type Capturer interface {
	// MonitorCount returns the number of attached monitors.
	MonitorCount() int

	// Monitor returns the live geometry of the given monitor.
	Monitor(index int) (domain.Monitor, error)

	// Capture grabs the current contents of the given monitor.
	Capture(index int) (image.Image, error)
}

// Encoder compresses a captured image into a transportable format.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
}

// Injector synthesizes pointer and keyboard input.
type Injector interface {
	// Click moves the pointer to absolute screen coordinates and clicks.
	Click(x, y int, button domain.MouseButton) error

	// TypeText types text as a sequence of key strokes.
	TypeText(text string) error

	// PressKey presses and releases one key.
	PressKey(key string) error

	// Hotkey holds every key in order, then releases them in reverse.
	Hotkey(keys ...string) error
}

// ShellRunner executes a command line through the OS shell and returns
// stdout followed by stderr.
type ShellRunner interface {
	Run(ctx context.Context, command string) (string, error)
}

// Metrics receives service events. telemetry/metric.Registry implements it.
type Metrics interface {
	SessionStarted()
	SessionEnded()
	AdmissionDenied(reason string)
	FramePublished(deliveries int)
	FrameSkipped(stage string)
	FrameDropped()
	DeliveryFailed()
	CommandCompleted(command string, ok bool)
}

// NopMetrics discards all events.
type NopMetrics struct{}

func (NopMetrics) SessionStarted()               {}
func (NopMetrics) SessionEnded()                 {}
func (NopMetrics) AdmissionDenied(string)        {}
func (NopMetrics) FramePublished(int)            {}
func (NopMetrics) FrameSkipped(string)           {}
func (NopMetrics) FrameDropped()                 {}
func (NopMetrics) DeliveryFailed()               {}
func (NopMetrics) CommandCompleted(string, bool) {}
