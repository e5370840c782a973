package common

import (
	"context"
	"time"
)

// CreateContext returns a context cancelled after duration
func CreateContext(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}
