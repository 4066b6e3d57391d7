// Package logger provides a slog factory with JSON/text formats, environment
// presets, and context-based attribute injection (e.g. request IDs).
package logger
