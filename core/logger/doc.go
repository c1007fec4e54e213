// Package logger provides slog attribute helpers shared across the module.
//
// Helpers follow the empty-Attr pattern: passing a nil error or empty ID
// yields an attribute slog silently drops, so call sites stay free of nil
// checks. Keys are stable (error, duration, client_ip, key, limit, window,
// outcome, ...) so log pipelines can rely on them.
package logger
