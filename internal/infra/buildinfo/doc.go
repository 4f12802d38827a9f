// Package buildinfo provides build information for deskshare.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/deskshare-go/internal/infra/buildinfo.Version=1.0.0" ./cmd/deskshare-server
package buildinfo
