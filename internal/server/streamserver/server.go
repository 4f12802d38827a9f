package streamserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/deskshare-go/internal/core/domain"
	"github.com/yndnr/deskshare-go/internal/core/service"
)

// Defaults for Config.
const (
	DefaultSendQueue    = 4
	DefaultPingInterval = 20 * time.Second
	DefaultPongWait     = 45 * time.Second
	DefaultWriteWait    = 10 * time.Second
	DefaultReadLimit    = 4096
)

// Config tunes the streaming channel.
type Config struct {
	// SendQueue is the per-connection frame queue length.
	SendQueue int

	// PingInterval is the time between keepalive pings.
	PingInterval time.Duration

	// PongWait is how long the peer may stay silent before it is dropped.
	PongWait time.Duration

	// WriteWait bounds each socket write.
	WriteWait time.Duration

	// ReadLimit caps inbound message size.
	ReadLimit int64

	// AllowedOrigins lists cross-origin pages allowed to connect. Same-origin
	// requests are always allowed; "*" allows any origin.
	AllowedOrigins []string
}

func (c Config) withDefaults() Config {
	if c.SendQueue <= 0 {
		c.SendQueue = DefaultSendQueue
	}
	if c.PingInterval <= 0 {
		c.PingInterval = DefaultPingInterval
	}
	if c.PongWait <= 0 {
		c.PongWait = DefaultPongWait
	}
	if c.WriteWait <= 0 {
		c.WriteWait = DefaultWriteWait
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = DefaultReadLimit
	}
	return c
}

// Admitter is the session gate as seen by the handshake.
type Admitter interface {
	Admit(candidate, address string) (domain.ConnectionID, error)
	Release(id domain.ConnectionID) bool
}

// Attacher registers admitted connections for frame delivery.
type Attacher interface {
	Attach(id domain.ConnectionID, sink service.FrameSink) error
	Detach(id domain.ConnectionID)
}

// Metrics records connection lifecycle events.
type Metrics interface {
	FrameDropped()
	ConnectionOpened()
	ConnectionClosed()
}

type nopMetrics struct{}

func (nopMetrics) FrameDropped()     {}
func (nopMetrics) ConnectionOpened() {}
func (nopMetrics) ConnectionClosed() {}

// Options wires a Server.
type Options struct {
	Gate       Admitter
	Dispatcher Attacher
	Logger     *slog.Logger
	Metrics    Metrics

	// ClientIP resolves the address a connection is authorized by.
	// Defaults to the RemoteAddr host.
	ClientIP func(r *http.Request) string

	Config Config
}

// Server upgrades admitted handshakes and runs their pumps.
type Server struct {
	gate       Admitter
	dispatcher Attacher
	logger     *slog.Logger
	metrics    Metrics
	clientIP   func(r *http.Request) string
	cfg        Config
	upgrader   websocket.Upgrader
}

// New creates a Server.
func New(opts Options) *Server {
	s := &Server{
		gate:       opts.Gate,
		dispatcher: opts.Dispatcher,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		clientIP:   opts.ClientIP,
		cfg:        opts.Config.withDefaults(),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.clientIP == nil {
		s.clientIP = remoteHost
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// ServeHTTP admits, upgrades and serves one streaming connection. It
// returns when the connection is gone.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Reject what the upgrade would reject before the token is spent.
	if msg := handshakeError(r); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !s.checkOrigin(r) {
		writeError(w, http.StatusForbidden, "origin not allowed")
		return
	}

	ip := s.clientIP(r)
	id, err := s.gate.Admit(r.URL.Query().Get("token"), ip)
	if err != nil {
		s.logger.Warn("stream admission denied",
			"client_ip", ip,
			"code", domain.GetErrorCode(err),
		)
		writeError(w, http.StatusUnauthorized, publicMessage(err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the error response.
		s.gate.Release(id)
		s.logger.Warn("stream upgrade failed", "connection_id", id, "error", err)
		return
	}

	c := newClient(id, conn, s.cfg, s.logger, s.metrics)
	_ = c.enqueue(mustMarshal(event{Event: eventSessionStarted}))

	if err := s.dispatcher.Attach(id, c); err != nil {
		s.gate.Release(id)
		_ = conn.Close()
		s.logger.Warn("stream attach failed", "connection_id", id, "error", err)
		return
	}

	s.metrics.ConnectionOpened()
	s.logger.Info("session started", "connection_id", id, "client_ip", ip)

	go c.writePump()
	c.readPump()

	c.Close()
	s.dispatcher.Detach(id)
	s.metrics.ConnectionClosed()
	s.logger.Info("stream closed", "connection_id", id, "client_ip", ip)
}

// handshakeError returns why r is not a well-formed websocket opening
// handshake, or "" if it is. The checks match websocket.Upgrader's own.
func handshakeError(r *http.Request) string {
	if r.Method != http.MethodGet || !websocket.IsWebSocketUpgrade(r) {
		return "websocket upgrade required"
	}
	if r.Header.Get("Sec-Websocket-Version") != "13" {
		return "unsupported websocket version"
	}
	key, err := base64.StdEncoding.DecodeString(r.Header.Get("Sec-Websocket-Key"))
	if err != nil || len(key) != 16 {
		return "invalid websocket key"
	}
	return ""
}

// checkOrigin allows same-origin pages, requests without an Origin header
// and configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func publicMessage(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Public()
	}
	return domain.ErrInternalServer.Message
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, message})
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
