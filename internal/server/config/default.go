package config

import (
	"time"

	"github.com/yndnr/deskshare-go/internal/infra/shellexec"
)

// Default configuration values.
const (
	DefaultHTTPAddr = "0.0.0.0:5000"

	DefaultCaptureInterval = 50 * time.Millisecond
	DefaultCaptureQuality  = 70
	DefaultMonitor         = 1

	DefaultShellTimeout = shellexec.DefaultTimeout

	DefaultHandshakeRate = 5
	DefaultRequestRate   = 50

	DefaultSendQueue    = 4
	DefaultPingInterval = 20 * time.Second
	DefaultPongWait     = 45 * time.Second
	DefaultWriteWait    = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	program, flag := shellexec.DefaultShell()
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Capture: CaptureSection{
			Interval: DefaultCaptureInterval,
			Quality:  DefaultCaptureQuality,
			Monitor:  DefaultMonitor,
		},
		Shell: ShellSection{
			Program: program,
			Flag:    flag,
			Timeout: DefaultShellTimeout,
		},
		Security: SecuritySection{
			HandshakeRate: DefaultHandshakeRate,
			RequestRate:   DefaultRequestRate,
		},
		Stream: StreamSection{
			SendQueue:    DefaultSendQueue,
			PingInterval: DefaultPingInterval,
			PongWait:     DefaultPongWait,
			WriteWait:    DefaultWriteWait,
		},
		Telemetry: TelemetrySection{
			MetricsEnabled: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
