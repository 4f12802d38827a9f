// Package handler provides the HTTP handlers for deskshare.
//
// Routes:
//
//   - GET /            landing page with the connect QR code
//   - GET /health      liveness
//   - GET /status      admission state without the full token
//   - POST /click, /set_monitor, /type_text, /type_key, /cmd
//
// Command handlers assume the caller was already authorized by the
// session guard in package httpserver; they only validate input.
package handler
