package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"
)

// ReadHeaderTimeout bounds how long a client may take to send headers.
const ReadHeaderTimeout = 10 * time.Second

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		handler: handler,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// UseTLS makes Serve terminate TLS with cfg. cfg must supply its
// certificate through Certificates or GetCertificate.
func (s *Server) UseTLS(cfg *tls.Config) {
	s.httpServer.TLSConfig = cfg
}

// TLS reports whether the server terminates TLS.
func (s *Server) TLS() bool {
	return s.httpServer.TLSConfig != nil
}

// Serve accepts connections on l. http.ErrServerClosed is reported as nil.
func (s *Server) Serve(l net.Listener) error {
	var err error
	if s.TLS() {
		err = s.httpServer.ServeTLS(l, "", "")
	} else {
		err = s.httpServer.Serve(l)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
