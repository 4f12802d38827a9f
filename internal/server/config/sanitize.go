package config

import (
	"strings"

	"github.com/yndnr/deskshare-go/internal/telemetry/logger"
)

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Security.CORSAllowedOrigins = append([]string(nil), cfg.Security.CORSAllowedOrigins...)

	if sanitized.Security.AccessToken != "" {
		sanitized.Security.AccessToken = maskSecret(sanitized.Security.AccessToken)
	}

	return &sanitized
}

// maskSecret masks a secret value for safe logging. Tokens keep their
// prefix so the masked form still says what it was.
func maskSecret(s string) string {
	if logger.IsSensitiveValue(s) {
		return logger.RedactString(s)
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
