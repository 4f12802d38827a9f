package desktop

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// displaySource is the subset of github.com/kbinani/screenshot in use.
// Display numbers are 0-based.
type displaySource interface {
	NumActiveDisplays() int
	GetDisplayBounds(display int) image.Rectangle
	CaptureRect(rect image.Rectangle) (*image.RGBA, error)
}

type screenshotSource struct{}

func (screenshotSource) NumActiveDisplays() int { return screenshot.NumActiveDisplays() }

func (screenshotSource) GetDisplayBounds(display int) image.Rectangle {
	return screenshot.GetDisplayBounds(display)
}

func (screenshotSource) CaptureRect(rect image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(rect)
}

// ScreenCapturer captures whole monitors. Geometry is read on every call so
// resolution and layout changes are picked up without a restart.
type ScreenCapturer struct {
	src displaySource
}

// NewScreenCapturer returns a capturer backed by the active displays.
func NewScreenCapturer() *ScreenCapturer {
	return &ScreenCapturer{src: screenshotSource{}}
}

// MonitorCount returns the number of active displays.
func (c *ScreenCapturer) MonitorCount() int {
	return c.src.NumActiveDisplays()
}

// Monitor returns the geometry of the 1-based monitor index.
func (c *ScreenCapturer) Monitor(index int) (domain.Monitor, error) {
	count := c.src.NumActiveDisplays()
	if count == 0 {
		return domain.Monitor{}, domain.ErrNoMonitor
	}
	if err := domain.ValidateMonitorIndex(index, count); err != nil {
		return domain.Monitor{}, err
	}

	b := c.src.GetDisplayBounds(index - 1)
	return domain.Monitor{
		Index:  index,
		Left:   b.Min.X,
		Top:    b.Min.Y,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Capture grabs the full area of the 1-based monitor index.
func (c *ScreenCapturer) Capture(index int) (image.Image, error) {
	m, err := c.Monitor(index)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(m.Left, m.Top, m.Left+m.Width, m.Top+m.Height)
	img, err := c.src.CaptureRect(rect)
	if err != nil {
		return nil, domain.ErrCaptureFailed.
			WithDetails(fmt.Sprintf("monitor %d: %v", index, err)).
			WithCause(err)
	}
	return img, nil
}
