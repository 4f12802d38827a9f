// Package domain defines the core domain models for deskshare.
package domain

import (
	"path/filepath"
	"strings"
)

// MouseButton names a pointer button.
type MouseButton string

// Supported mouse buttons.
const (
	ButtonLeft   MouseButton = "left"
	ButtonMiddle MouseButton = "middle"
	ButtonRight  MouseButton = "right"
)

// ParseMouseButton maps a request value to a MouseButton. Empty means left.
func ParseMouseButton(s string) (MouseButton, error) {
	switch MouseButton(strings.ToLower(strings.TrimSpace(s))) {
	case "", ButtonLeft:
		return ButtonLeft, nil
	case ButtonMiddle:
		return ButtonMiddle, nil
	case ButtonRight:
		return ButtonRight, nil
	default:
		return "", ErrUnknownButton.WithDetails("unknown mouse button " + s)
	}
}

// LauncherName returns the base name of a shell program without extension,
// lowercased: "/bin/sh" -> "sh", `C:\Windows\System32\cmd.exe` -> "cmd".
func LauncherName(program string) string {
	base := program
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// ValidateShellCommand rejects empty input and input that only names the
// launcher itself. "cmd" is always refused.
func ValidateShellCommand(command, launcher string) error {
	c := strings.ToLower(strings.TrimSpace(command))
	if c == "" || c == "cmd" || (launcher != "" && c == strings.ToLower(launcher)) {
		return ErrInvalidCommand
	}
	return nil
}
