// Package token provides random secret generation and comparison utilities.
//
// Secrets come from crypto/rand and are Base64 RawURL encoded. Comparison
// goes through Equal, which is constant-time.
package token
