package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/yndnr/deskshare-go/internal/core/domain"
	"github.com/yndnr/deskshare-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyServer(&cfg.Server),
		verifyCapture(&cfg.Capture),
		verifyShell(&cfg.Shell),
		verifySecurity(&cfg.Security),
		verifyStream(&cfg.Stream),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err)
	}

	if cfg.HTTP.PublicURL != "" {
		u, err := url.Parse(cfg.HTTP.PublicURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("server.http.public_url %q must be an absolute http(s) URL", cfg.HTTP.PublicURL)
		}
	}

	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, path := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}
	return nil
}

func verifyCapture(cfg *CaptureSection) error {
	if cfg.Interval <= 0 {
		return errors.New("capture.interval must be positive")
	}
	if cfg.Quality < 1 || cfg.Quality > 100 {
		return fmt.Errorf("capture.quality %d out of range 1..100", cfg.Quality)
	}
	if cfg.Monitor < 1 {
		return fmt.Errorf("capture.monitor %d must be at least 1", cfg.Monitor)
	}
	return nil
}

func verifyShell(cfg *ShellSection) error {
	if cfg.Program == "" {
		return errors.New("shell.program is required")
	}
	if cfg.Timeout <= 0 {
		return errors.New("shell.timeout must be positive")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.AccessToken != "" && len(strings.TrimSpace(cfg.AccessToken)) < domain.MinPinnedTokenLength {
		return fmt.Errorf("security.access_token must be at least %d characters", domain.MinPinnedTokenLength)
	}
	if cfg.HandshakeRate < 0 || cfg.RequestRate < 0 {
		return errors.New("security rates must not be negative")
	}
	return nil
}

func verifyStream(cfg *StreamSection) error {
	if cfg.SendQueue < 1 {
		return errors.New("stream.send_queue must be at least 1")
	}
	if cfg.PingInterval <= 0 || cfg.PongWait <= 0 || cfg.WriteWait <= 0 {
		return errors.New("stream timings must be positive")
	}
	if cfg.PingInterval >= cfg.PongWait {
		return fmt.Errorf("stream.ping_interval %v must be shorter than pong_wait %v", cfg.PingInterval, cfg.PongWait)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch cfg.Format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("log.format %q is not json or text", cfg.Format)
	}
}
