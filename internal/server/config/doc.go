// Package config provides server configuration for deskshare.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Range and consistency checks
//   - sanitize.go: Log sanitization (hide the pinned token)
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// DESKSHARE_ environment variables and command-line flags, in that order.
package config
