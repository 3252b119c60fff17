package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parlorchat/parlor-server/internal/kv"
	kvsqlite "github.com/parlorchat/parlor-server/internal/kv/sqlite"
)

// newTestStore creates an in-memory SQLite kv store.
func newTestStore(t *testing.T) kv.Store {
	t.Helper()

	st, err := kvsqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// fixedClock returns a clock function pinned to t0 that tests can advance.
type fixedClock struct {
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time          { return c.now }
func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var errStoreDown = errors.New("store down")

// faultyStore wraps a kv.Store and fails selected operations.
type faultyStore struct {
	inner   kv.Store
	failGet bool
	failSet bool
}

func (f *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errStoreDown
	}
	return f.inner.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errStoreDown
	}
	return f.inner.Set(ctx, key, value)
}

func (f *faultyStore) Ping(ctx context.Context) error { return f.inner.Ping(ctx) }
func (f *faultyStore) Close() error                   { return f.inner.Close() }

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
