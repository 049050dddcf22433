package tui

import (
	"context"
	"errors"
	"time"
)

// ShutdownManager coordinates teardown of the components started next to
// the terminal program.
type ShutdownManager struct {
	// DrainTimeout bounds how long StopMetrics may take.
	DrainTimeout time.Duration

	// StopMetrics stops the metrics HTTP server.
	StopMetrics func(ctx context.Context) error

	// CancelRequests cancels in-flight analysis requests.
	CancelRequests func()

	// Cleanup performs any additional cleanup (e.g., closing the debug log).
	Cleanup func() error
}

// NewShutdownManager creates a ShutdownManager with a 5-second drain timeout.
func NewShutdownManager() *ShutdownManager {
	return &ShutdownManager{
		DrainTimeout: 5 * time.Second,
	}
}

// Shutdown cancels outstanding requests, stops the metrics server and runs
// cleanup. Every step runs even if an earlier one fails.
func (sm *ShutdownManager) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sm.DrainTimeout)
	defer cancel()

	var errs []error

	if sm.CancelRequests != nil {
		sm.CancelRequests()
	}

	if sm.StopMetrics != nil {
		if err := sm.StopMetrics(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if sm.Cleanup != nil {
		if err := sm.Cleanup(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
