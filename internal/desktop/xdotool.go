package desktop

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// DefaultInjectTimeout bounds one xdotool invocation.
const DefaultInjectTimeout = 5 * time.Second

// Runner executes name with args.
type Runner func(ctx context.Context, name string, args ...string) error

// execRunner runs the program and folds its output into the error.
func execRunner(ctx context.Context, name string, args ...string) error {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

var buttonCodes = map[domain.MouseButton]int{
	domain.ButtonLeft:   1,
	domain.ButtonMiddle: 2,
	domain.ButtonRight:  3,
}

// keyNames maps the key names browsers and clients send to X keysyms.
var keyNames = map[string]string{
	"enter":       "Return",
	"return":      "Return",
	"esc":         "Escape",
	"escape":      "Escape",
	"tab":         "Tab",
	"space":       "space",
	"backspace":   "BackSpace",
	"delete":      "Delete",
	"del":         "Delete",
	"insert":      "Insert",
	"home":        "Home",
	"end":         "End",
	"pageup":      "Prior",
	"pagedown":    "Next",
	"up":          "Up",
	"down":        "Down",
	"left":        "Left",
	"right":       "Right",
	"ctrl":        "ctrl",
	"control":     "ctrl",
	"alt":         "alt",
	"shift":       "shift",
	"win":         "super",
	"super":       "super",
	"cmd":         "super",
	"command":     "super",
	"capslock":    "Caps_Lock",
	"printscreen": "Print",
}

// KeySym converts a client key name to an xdotool key name. Function keys
// and unknown names pass through unchanged.
func KeySym(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if sym, ok := keyNames[k]; ok {
		return sym
	}
	if len(k) >= 2 && k[0] == 'f' {
		if _, err := strconv.Atoi(k[1:]); err == nil {
			return strings.ToUpper(k)
		}
	}
	return strings.TrimSpace(key)
}

// XdotoolInjector drives the X server through the xdotool binary.
type XdotoolInjector struct {
	Program string
	Timeout time.Duration
	run     Runner
}

// NewXdotoolInjector returns an injector using the xdotool found on PATH.
func NewXdotoolInjector() *XdotoolInjector {
	return &XdotoolInjector{
		Program: "xdotool",
		Timeout: DefaultInjectTimeout,
		run:     execRunner,
	}
}

// WithRunner replaces the process runner, for tests.
func (x *XdotoolInjector) WithRunner(r Runner) *XdotoolInjector {
	x.run = r
	return x
}

func (x *XdotoolInjector) exec(args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), x.Timeout)
	defer cancel()
	return x.run(ctx, x.Program, args...)
}

// Click moves the pointer to (px, py) and clicks button.
func (x *XdotoolInjector) Click(px, py int, button domain.MouseButton) error {
	code, ok := buttonCodes[button]
	if !ok {
		return domain.ErrUnknownButton.WithDetails("unknown mouse button " + string(button))
	}
	return x.exec("mousemove", "--sync", strconv.Itoa(px), strconv.Itoa(py), "click", strconv.Itoa(code))
}

// TypeText types text literally.
func (x *XdotoolInjector) TypeText(text string) error {
	return x.exec("type", "--clearmodifiers", "--", text)
}

// PressKey taps one key.
func (x *XdotoolInjector) PressKey(key string) error {
	return x.exec("key", "--clearmodifiers", KeySym(key))
}

// Hotkey presses keys as one chord, e.g. ctrl+alt+t.
func (x *XdotoolInjector) Hotkey(keys ...string) error {
	if len(keys) == 0 {
		return domain.ErrNoKeys
	}
	syms := make([]string, len(keys))
	for i, k := range keys {
		syms[i] = KeySym(k)
	}
	return x.exec("key", "--clearmodifiers", strings.Join(syms, "+"))
}
