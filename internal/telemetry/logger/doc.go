// Package logger builds the process's log/slog loggers.
//
// On top of the standard JSON and text handlers it adds:
//
//   - one level shared by every logger it builds, changeable at runtime
//     so a config reload can turn on debug output
//   - masking of access tokens (dstk_ prefix), including tokens embedded
//     in connect URLs, and of values under secret-looking keys
//   - the request ID carried through context.Context
package logger
