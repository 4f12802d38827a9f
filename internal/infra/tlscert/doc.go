// Package tlscert serves the HTTPS certificate and reloads it when the
// certificate or key file changes on disk, so renewed certificates are
// picked up without a restart.
package tlscert
