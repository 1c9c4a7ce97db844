// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/metrics"
)

// Memo memoizes producer results in a Cache. Concurrent misses on the same
// key share a single producer call. The shared call keeps the values of the
// context that started it but not its cancellation, so one caller leaving
// does not fail the others.
type Memo struct {
	store         Cache
	group         singleflight.Group
	logger        zerolog.Logger
	flightTimeout time.Duration
}

// MemoOption configures a Memo.
type MemoOption func(*Memo)

// WithFlightTimeout bounds a shared producer call. Zero leaves it unbounded.
func WithFlightTimeout(d time.Duration) MemoOption {
	return func(m *Memo) {
		m.flightTimeout = d
	}
}

// NewMemo wraps store. A nil store disables caching.
func NewMemo(store Cache, logger zerolog.Logger, opts ...MemoOption) *Memo {
	if store == nil {
		store = NewNoOpCache()
	}
	m := &Memo{store: store, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying cache.
func (m *Memo) Store() Cache {
	return m.store
}

// Keyspace returns the metric label for key: the part before the first
// underscore ("category_CIN" -> "category").
func Keyspace(key string) string {
	if i := strings.IndexByte(key, '_'); i > 0 {
		return key[:i]
	}
	return key
}

func (m *Memo) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if m.flightTimeout > 0 {
		return context.WithTimeout(ctx, m.flightTimeout)
	}
	return ctx, func() {}
}

// GetOrCompute returns the cached value for key, or runs producer, stores its
// result for ttl and returns it. Producer errors are returned and never stored.
// A caller whose ctx ends while waiting gets ctx.Err(); the shared call keeps
// running for the callers still waiting.
func GetOrCompute[T any](ctx context.Context, m *Memo, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	keyspace := Keyspace(key)
	logger := xglog.WithContext(ctx, m.logger)

	if v, ok := lookup[T](m.store, key); ok {
		metrics.RecordCacheResult(keyspace, "hit")
		logger.Debug().Str(xglog.FieldEvent, "cache.hit").Str(xglog.FieldCacheKey, key).Msg("cache hit")
		return v, nil
	}

	metrics.RecordCacheResult(keyspace, "miss")
	logger.Debug().Str(xglog.FieldEvent, "cache.miss").Str(xglog.FieldCacheKey, key).Msg("cache miss")

	ch := m.group.DoChan(key, func() (any, error) {
		// A flight that finished just before this one may have filled the key.
		if v, ok := lookup[T](m.store, key); ok {
			return v, nil
		}
		fctx, cancel := m.flightContext(ctx)
		defer cancel()
		v, err := producer(fctx)
		if err != nil {
			return nil, err
		}
		m.store.Set(key, v, ttl)
		return v, nil
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			metrics.RecordCacheResult(keyspace, "error")
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	case <-ctx.Done():
		metrics.RecordCacheResult(keyspace, "error")
		logger.Debug().Str(xglog.FieldEvent, "cache.wait_abandoned").Str(xglog.FieldCacheKey, key).Msg("caller left before the shared fetch finished")
		return zero, ctx.Err()
	}
}

func lookup[T any](store Cache, key string) (T, bool) {
	raw, ok := store.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
