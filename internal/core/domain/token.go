// Package domain defines the core domain models for deskshare.
package domain

import (
	"strings"

	"github.com/yndnr/deskshare-go/pkg/token"
)

// Access token constants.
const (
	// TokenPrefix is the prefix for access tokens. The logger masks values
	// carrying it.
	TokenPrefix = "dstk_"

	// TokenBytesLength is the number of random bytes for token generation.
	TokenBytesLength = 32

	// TokenLength is the total token length (prefix + 43 base64url chars).
	TokenLength = 5 + 43

	// MinPinnedTokenLength is the shortest token accepted from configuration.
	MinPinnedTokenLength = 16

	// TokenPreviewLength is how many leading characters the landing page shows.
	TokenPreviewLength = 8
)

// AccessToken is the single-use secret that lets one party claim the session.
//
// AccessToken is not safe for concurrent use; service.Gate serializes access.
type AccessToken struct {
	value    string
	consumed bool
}

// IssueAccessToken generates a fresh random access token.
func IssueAccessToken() (*AccessToken, error) {
	body, err := token.GenerateWithLength(TokenBytesLength)
	if err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}
	return &AccessToken{value: TokenPrefix + body}, nil
}

// NewAccessToken wraps an operator-supplied token value.
func NewAccessToken(value string) (*AccessToken, error) {
	value = strings.TrimSpace(value)
	if len(value) < MinPinnedTokenLength {
		return nil, ErrTokenInvalid.WithDetails("pinned token is shorter than 16 characters")
	}
	return &AccessToken{value: value}, nil
}

// Value returns the full token. Only the startup banner and the QR code use it.
func (t *AccessToken) Value() string {
	return t.value
}

// Preview returns the first TokenPreviewLength characters.
func (t *AccessToken) Preview() string {
	if len(t.value) <= TokenPreviewLength {
		return t.value
	}
	return t.value[:TokenPreviewLength]
}

// Fingerprint returns a short non-reversible identifier safe for logs.
func (t *AccessToken) Fingerprint() string {
	return token.Hash(t.value)[:12]
}

// Matches reports whether candidate equals the token, in constant time.
func (t *AccessToken) Matches(candidate string) bool {
	return candidate != "" && token.Equal(candidate, t.value)
}

// Consumed reports whether the token has been used.
func (t *AccessToken) Consumed() bool {
	return t.consumed
}

// Check returns nil if candidate may claim a session right now.
func (t *AccessToken) Check(candidate string) error {
	if !t.Matches(candidate) {
		return ErrTokenInvalid
	}
	if t.consumed {
		return ErrTokenConsumed
	}
	return nil
}

// Consume marks the token as used. It never reverts.
func (t *AccessToken) Consume() {
	t.consumed = true
}
