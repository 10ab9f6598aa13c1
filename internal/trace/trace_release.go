//go:build !dev

// Package trace provides runtime tracing for development builds. This is
// the release version, all no-op stubs.
package trace

import "context"

// Init initializes tracing and returns a cleanup function to defer. A no-op
// in release builds.
func Init() func() {
	return func() {}
}

// Region opens a trace region and returns the function that closes it.
func Region(_ context.Context, _ string) func() {
	return func() {}
}

// Log records a message in the trace.
func Log(_ context.Context, _, _ string) {
}

// WithRegion runs f inside a trace region.
func WithRegion(_ context.Context, _ string, f func()) {
	f()
}

// IsEnabled reports whether tracing is active.
func IsEnabled() bool {
	return false
}
