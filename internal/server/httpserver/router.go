package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/deskshare-go/internal/core/service"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the landing page, status and command endpoints.
	Handler http.Handler

	// Stream serves the websocket endpoint. Nil leaves /ws unmounted.
	Stream http.Handler

	// Metrics serves /metrics. Nil leaves it unmounted.
	Metrics http.Handler

	// Gate decides which addresses may issue commands.
	Gate SessionAuthorizer

	// Logger for request logging.
	Logger *slog.Logger

	// Observer receives per-request measurements.
	Observer RequestObserver

	// TrustProxyHeaders takes the client address from X-Forwarded-For.
	TrustProxyHeaders bool

	// RequestRate is the per-address limit for page and command requests.
	RequestRate int

	// HandshakeRate is the per-address limit for websocket handshakes.
	HandshakeRate int

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = none).
	CORSAllowedOrigins []string

	// EnableAudit enables request logging and observation.
	EnableAudit bool
}

// commandRoutes are served only to the active session's addresses.
var commandRoutes = []string{
	"POST /click",
	"POST /set_monitor",
	"POST /type_text",
	"POST /cmd",
	"POST /type_key",
}

// NewRouter creates the top-level mux with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	clientIP := ClientIP(cfg.TrustProxyHeaders)

	// Order: RequestID -> Recover -> Audit -> CORS -> RateLimit -> route specific
	base := []Middleware{RequestID(), Recover(log)}
	if cfg.EnableAudit {
		base = append(base, Audit(log, clientIP, cfg.Observer))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		base = append(base, CORS(cfg.CORSAllowedOrigins))
	}
	with := func(extra ...Middleware) []Middleware {
		return append(append([]Middleware(nil), base...), extra...)
	}

	requests := with()
	if cfg.RequestRate > 0 {
		requests = with(RateLimit(service.NewRateLimiterRegistry(cfg.RequestRate), clientIP))
	}
	public := Chain(cfg.Handler, requests...)
	commands := Chain(cfg.Handler, append(requests, RequireSession(cfg.Gate, clientIP, log))...)

	mux := http.NewServeMux()

	// Public endpoints
	mux.Handle("GET /{$}", public)
	mux.Handle("GET /health", Chain(cfg.Handler, with()...))
	mux.Handle("GET /status", public)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics, with()...))
	}

	if cfg.Stream != nil {
		handshake := with()
		if cfg.HandshakeRate > 0 {
			handshake = with(RateLimit(service.NewRateLimiterRegistry(cfg.HandshakeRate), clientIP))
		}
		mux.Handle("GET /ws", Chain(cfg.Stream, handshake...))
	}

	for _, route := range commandRoutes {
		mux.Handle(route, commands)
	}

	// Everything else, including CORS preflight, still passes the base chain.
	mux.Handle("/", Chain(cfg.Handler, with()...))

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RequestRate:   50,
		HandshakeRate: 5,
		EnableAudit:   true,
	}
}
