package logger

import (
	"log/slog"
	"strings"
)

// TokenPrefix marks deskshare access tokens in log values.
const TokenPrefix = "dstk_"

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"bearer",
	"cookie",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive masks token values and fully redacts values under
// sensitive keys.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		// A recognizable token keeps its masked hint.
		if strings.Contains(strVal, TokenPrefix) {
			return slog.String(a.Key, RedactString(strVal))
		}
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue partially masks a token: prefix + first 3 + "..." + last 3.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) > 6 {
		return prefix + body[:3] + "..." + body[len(body)-3:]
	}
	return prefix + "***"
}

// isTokenChar reports whether c can appear in a URL-safe base64 token.
func isTokenChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_'
}

// RedactString masks every access token in value, including tokens
// embedded in a larger string such as a connect URL.
func RedactString(value string) string {
	if !strings.Contains(value, TokenPrefix) {
		return value
	}

	var b strings.Builder
	rest := value
	for {
		idx := strings.Index(rest, TokenPrefix)
		if idx < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:idx])
		end := idx + len(TokenPrefix)
		for end < len(rest) && isTokenChar(rest[end]) {
			end++
		}
		b.WriteString(maskValue(rest[idx:end], TokenPrefix))
		rest = rest[end:]
	}
	return b.String()
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value contains an access token.
func IsSensitiveValue(value string) bool {
	return strings.Contains(value, TokenPrefix)
}
