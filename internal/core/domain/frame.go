// Package domain defines the core domain models for deskshare.
package domain

import "time"

// Frame is one encoded screen snapshot. Payload is the base64 text of the
// compressed image, ready to be embedded in a stream event.
type Frame struct {
	Payload    string
	CapturedAt time.Time
}
