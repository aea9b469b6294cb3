package utils

import (
	"context"
	"time"
)

const (
	// DefaultTimeout bounds startup calls such as connecting to the vector store
	DefaultTimeout = 10 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish on shutdown
	ShutdownTimeout = 30 * time.Second
)

// WithTimeout creates a context with default timeout
func WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultTimeout)
}

// WithShutdownTimeout creates a context for draining the HTTP server
func WithShutdownTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ShutdownTimeout)
}
