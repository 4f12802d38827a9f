// Package service provides domain services for deskshare.
//
// Services contain the business logic and depend on collaborators only
// through the interfaces in ports.go, so tests inject fakes.
//
// This package contains:
//
//   - Gate: token authority and session registry behind one mutex
//   - Dispatcher: frame fan-out with per-connection failure isolation
//   - Producer: the capture, encode and publish loop
//   - CommandService: click, type, key, shell and monitor commands
//   - RateLimiterRegistry: per-address token buckets
package service
