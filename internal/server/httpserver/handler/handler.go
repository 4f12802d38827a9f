package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/deskshare-go/internal/core/domain"
	"github.com/yndnr/deskshare-go/internal/core/service"
	"github.com/yndnr/deskshare-go/internal/telemetry/logger"
)

// maxBodyBytes bounds command request bodies.
const maxBodyBytes = 1 << 20

// Config wires a Handler.
type Config struct {
	Gate     *service.Gate
	Commands *service.CommandService
	Logger   *slog.Logger

	// PublicURL, when set, is the base of the connect URL on the landing page.
	PublicURL string

	// TrustProxyHeaders lets X-Forwarded-Proto pick the connect URL scheme.
	TrustProxyHeaders bool

	// Version is reported by /status.
	Version string
}

// Handler serves the landing page, status and command endpoints.
type Handler struct {
	gate       *service.Gate
	commands   *service.CommandService
	logger     *slog.Logger
	publicURL  string
	trustProxy bool
	version    string
	page       *template.Template
	mux        *http.ServeMux
}

// New creates a Handler.
func New(cfg Config) *Handler {
	h := &Handler{
		gate:       cfg.Gate,
		commands:   cfg.Commands,
		logger:     cfg.Logger,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		trustProxy: cfg.TrustProxyHeaders,
		version:    cfg.Version,
		page:       landingTemplate,
		mux:        http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /status", h.handleStatus)

	h.mux.HandleFunc("POST /click", h.handleClick)
	h.mux.HandleFunc("POST /set_monitor", h.handleSetMonitor)
	h.mux.HandleFunc("POST /type_text", h.handleTypeText)
	h.mux.HandleFunc("POST /cmd", h.handleShell)
	h.mux.HandleFunc("POST /type_key", h.handleTypeKey)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return domain.ErrBadRequest.WithCause(err)
	}
	return nil
}

// errorCodeToHTTPStatus maps a command error to its response status.
// Input errors are 400; execution failures are reported in the body of a
// 200 response.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasPrefix(code, "DS-CMD-4"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "DS-ADMN-4"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	default:
		return http.StatusOK
	}
}

// log returns the handler logger tagged with the request ID.
func (h *Handler) log(r *http.Request) *slog.Logger {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

func codeOf(err error) string {
	return domain.GetErrorCode(err)
}

// publicMessage is the text of err safe to return to the client.
func publicMessage(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Public()
	}
	return err.Error()
}
