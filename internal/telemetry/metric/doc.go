// Package metric provides Prometheus metrics for deskshare.
//
// A Registry owns a private prometheus.Registry with the Go and process
// collectors attached, and implements the service.Metrics port:
//
//   - session admissions, denials and the active-session gauge
//   - frame publication, skips, drops and delivery failures
//   - control command outcomes
//   - HTTP request counts and latency
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
