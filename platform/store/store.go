// Package store provides the shared plumbing for the in-memory repositories:
// simulated latency and integer id allocation.
// This is part of the platform layer and contains no business logic.
package store

import (
	"context"
	"time"

	"mlm_sales_backend/platform/config"
)

// Latency delays repository calls to mimic a remote backend. A zero delay
// returns immediately.
type Latency struct {
	delay time.Duration
}

// NewLatency creates a latency source from the store settings.
func NewLatency(cfg config.StoreConfig) Latency {
	if cfg == nil {
		return Latency{}
	}
	return Latency{delay: cfg.GetSimulatedLatency()}
}

// FixedLatency creates a latency source with a fixed delay.
func FixedLatency(d time.Duration) Latency {
	return Latency{delay: d}
}

// Wait sleeps for the configured delay or until ctx is done.
func (l Latency) Wait(ctx context.Context) error {
	if l.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(l.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NextID returns max(ids)+1, or 1 for an empty collection.
func NextID[T any](items []T, id func(T) int) int {
	maxID := 0
	for _, item := range items {
		if v := id(item); v > maxID {
			maxID = v
		}
	}
	return maxID + 1
}
