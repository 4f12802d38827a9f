// Package domain defines the core domain models for deskshare.
package domain

import (
	"fmt"
	"math"
)

// Monitor is the live geometry of one display in virtual-screen coordinates.
// Index is 1-based; 0 would mean "all monitors" and is never used.
type Monitor struct {
	Index  int
	Left   int
	Top    int
	Width  int
	Height int
}

// ValidateMonitorIndex checks 1 <= index <= count.
func ValidateMonitorIndex(index, count int) error {
	if index < 1 || index > count {
		return ErrMonitorOutOfRange.WithDetails(fmt.Sprintf("monitor %d not in 1..%d", index, count))
	}
	return nil
}

// ClampMonitorIndex returns index forced into 1..count. count must be positive.
func ClampMonitorIndex(index, count int) int {
	if index < 1 {
		return 1
	}
	if index > count {
		return count
	}
	return index
}

// Viewport is the size of the image as the remote client displayed it, plus
// the point the operator clicked within it.
type Viewport struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Validate rejects viewports with a non-positive width or height.
func (v Viewport) Validate() error {
	if !(v.Width > 0) || !(v.Height > 0) || math.IsInf(v.Width, 0) || math.IsInf(v.Height, 0) {
		return ErrZeroViewport
	}
	return nil
}

// Project maps a click inside the viewport onto absolute screen coordinates
// of m.
func (m Monitor) Project(v Viewport) (int, int, error) {
	if err := v.Validate(); err != nil {
		return 0, 0, err
	}
	x := m.Left + int(v.X/v.Width*float64(m.Width))
	y := m.Top + int(v.Y/v.Height*float64(m.Height))
	return x, y, nil
}
