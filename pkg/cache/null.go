package cache

import (
	"context"
	"time"
)

// NullCache is the backend for --no-cache and [cache] backend = "none".
// Every lookup misses and writes are dropped, so the pipeline rebuilds
// forests and artifacts on each run.
type NullCache struct{}

// NewNullCache returns a cache that holds nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
