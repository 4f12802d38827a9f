// Package httpserver provides the HTTP server for deskshare.
//
// It is built on net/http: a ServeMux with Go 1.22 method patterns, and
// per-route middleware chains composed with Chain:
//
//   - RequestID, Recover and Audit on every route
//   - RateLimit keyed by client address
//   - RequireSession on the command routes
//
// Client addresses come from RemoteAddr unless proxy headers are trusted.
package httpserver
