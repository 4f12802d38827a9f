// Package domain defines the core domain models for deskshare.
//
// Domain models are pure value objects without IO dependencies or locking.
// This package contains:
//
//   - AccessToken: the single-use token that admits one remote party
//   - SessionState: the authorized connection and address sets
//   - ConnectionID: identity of one streaming channel
//   - Monitor, Viewport: display geometry and click projection
//   - Frame: one encoded screen snapshot
//   - Errors: coded domain errors
//
// Callers that share these values across goroutines must serialize access;
// service.Gate does so with a single mutex.
package domain
