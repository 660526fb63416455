package link

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCanceled completes jobs that were dropped by Close or cancellation.
	// It matches context.Canceled under errors.Is.
	ErrCanceled = fmt.Errorf("link: send canceled: %w", context.Canceled)

	ErrClosed         = errors.New("link: connection closed")
	ErrQueueFull      = errors.New("link: send queue full")
	ErrAlreadyRunning = errors.New("link: connection already running")

	errQueueDone = errors.New("link: queue complete")
)
