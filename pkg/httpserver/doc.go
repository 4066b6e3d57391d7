// Package httpserver provides a lightweight wrapper around net/http that adds
// graceful shutdown, configurable server timeouts, and structured logging via
// slog.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal is
// received, then shuts the server down with a configurable deadline. Listen
// errors are wrapped with ErrStart and shutdown errors with ErrShutdown so
// callers can inspect them with errors.Is.
//
// The relay mounts long-lived WebSocket connections, so the default write
// timeout is disabled; see Config.WriteTimeout.
package httpserver
