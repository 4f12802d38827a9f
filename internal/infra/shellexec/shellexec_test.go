package shellexec

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/deskshare-go/internal/core/service"
)

var _ service.ShellRunner = (*Runner)(nil)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell syntax")
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New("", "", 0)
	program, flag := DefaultShell()
	if r.Program != program || r.Flag != flag {
		t.Errorf("New() shell = %s %s, want %s %s", r.Program, r.Flag, program, flag)
	}
	if r.Timeout != DefaultTimeout {
		t.Errorf("New() timeout = %v, want %v", r.Timeout, DefaultTimeout)
	}
}

func TestRunner_Run(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"stdout", "echo hello", "hello\n"},
		{"stdout then stderr", "echo err 1>&2; echo out", "out\nerr\n"},
		{"non-zero exit", "echo partial; exit 3", "partial\n"},
		{"no output", "true", ""},
	}

	r := New("sh", "-c", 5*time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Run(context.Background(), tt.command)
			if err != nil {
				t.Fatalf("Run(%q) error = %v", tt.command, err)
			}
			if got != tt.want {
				t.Errorf("Run(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestRunner_Timeout(t *testing.T) {
	skipOnWindows(t)

	r := New("sh", "-c", 100*time.Millisecond)
	start := time.Now()
	_, err := r.Run(context.Background(), "sleep 5")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("Run() error = %v, want timeout", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("Run() did not stop at the timeout")
	}
}

func TestRunner_StartFailure(t *testing.T) {
	r := New("/nonexistent/shell", "-c", time.Second)
	if _, err := r.Run(context.Background(), "echo hi"); err == nil {
		t.Error("Run() with a missing shell should fail")
	}
}

func TestRunner_Cancelled(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New("sh", "-c", 5*time.Second)
	if _, err := r.Run(ctx, "echo hi"); err == nil {
		t.Error("Run() with a cancelled context should fail")
	}
}
