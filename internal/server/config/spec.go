package config

import "time"

// ServerConfig is the root configuration for deskshare-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Capture   CaptureSection   `koanf:"capture"`
	Shell     ShellSection     `koanf:"shell"`
	Security  SecuritySection  `koanf:"security"`
	Stream    StreamSection    `koanf:"stream"`
	Telemetry TelemetrySection `koanf:"telemetry"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// PublicURL is the base of the connect URL, e.g. "https://desk.example:5000".
	// Empty derives it from each request.
	PublicURL string `koanf:"public_url"`

	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// TrustProxyHeaders takes client addresses from X-Forwarded-For.
	// Enable only behind a proxy that sets it.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// CaptureSection configures the frame producer.
type CaptureSection struct {
	Interval time.Duration `koanf:"interval"`
	Quality  int           `koanf:"quality"`

	// Monitor is the 1-based monitor selected at startup.
	Monitor int `koanf:"monitor"`
}

// ShellSection configures the /cmd launcher.
type ShellSection struct {
	Program string        `koanf:"program"`
	Flag    string        `koanf:"flag"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecuritySection configures admission and request limits.
type SecuritySection struct {
	// AccessToken pins the session token. Empty generates one per process.
	AccessToken string `koanf:"access_token"`

	// HandshakeRate limits websocket handshakes per client address per second.
	HandshakeRate int `koanf:"handshake_rate"`

	// RequestRate limits page and command requests per client address per second.
	RequestRate int `koanf:"request_rate"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// StreamSection configures the websocket channel.
type StreamSection struct {
	SendQueue    int           `koanf:"send_queue"`
	PingInterval time.Duration `koanf:"ping_interval"`
	PongWait     time.Duration `koanf:"pong_wait"`
	WriteWait    time.Duration `koanf:"write_wait"`
}

// TelemetrySection configures metrics.
type TelemetrySection struct {
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
