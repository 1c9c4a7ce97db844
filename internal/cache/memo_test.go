// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemo(clock *fakeClock) *Memo {
	return NewMemo(NewMemoryCache(WithClock(clock)), zerolog.Nop())
}

func TestGetOrCompute_HitWithinTTL(t *testing.T) {
	clock := newFakeClock()
	memo := newTestMemo(clock)
	ctx := context.Background()

	var calls atomic.Int32
	producer := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 5; i++ {
		got, err := GetOrCompute(ctx, memo, "category_CIN", 30*time.Minute, producer)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
		clock.Advance(5 * time.Minute)
	}
	assert.Equal(t, int32(1), calls.Load(), "producer must run once inside the TTL window")

	// 25 minutes elapsed so far; cross the 30 minute boundary.
	clock.Advance(5 * time.Minute)
	_, err := GetOrCompute(ctx, memo, "category_CIN", 30*time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "expired entry must trigger a new producer call")
}

func TestGetOrCompute_FailureIsNotCached(t *testing.T) {
	memo := newTestMemo(newFakeClock())
	ctx := context.Background()
	errUpstream := errors.New("upstream down")

	var calls atomic.Int32
	failing := func(context.Context) (string, error) {
		calls.Add(1)
		return "", errUpstream
	}

	_, err := GetOrCompute(ctx, memo, "meta_123", time.Minute, failing)
	require.ErrorIs(t, err, errUpstream)

	got, err := GetOrCompute(ctx, memo, "meta_123", time.Minute, func(context.Context) (string, error) {
		calls.Add(1)
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int64(1), memo.Store().Stats().Sets, "only the success is stored")
}

func TestGetOrCompute_ConcurrentMissesShareOneCall(t *testing.T) {
	memo := newTestMemo(newFakeClock())
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	producer := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrCompute(ctx, memo, "live", time.Minute, producer)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	// Give the remaining callers a moment to join the flight.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestGetOrCompute_CanceledCallerDoesNotFailSharedCall(t *testing.T) {
	memo := newTestMemo(newFakeClock())

	var calls atomic.Int32
	release := make(chan struct{})
	producer := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "catalog", nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := GetOrCompute(firstCtx, memo, "category_CIN", time.Minute, producer)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		v   string
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := GetOrCompute(context.Background(), memo, "category_CIN", time.Minute, producer)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "catalog", got.v)
	assert.Equal(t, int32(1), calls.Load())

	cached, ok := memo.Store().Get("category_CIN")
	require.True(t, ok)
	assert.Equal(t, "catalog", cached)
}

func TestGetOrCompute_FlightTimeoutBoundsProducer(t *testing.T) {
	memo := NewMemo(NewMemoryCache(), zerolog.Nop(), WithFlightTimeout(20*time.Millisecond))

	_, err := GetOrCompute(context.Background(), memo, "live", time.Minute, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, memo.Store().Stats().Sets)
}

func TestGetOrCompute_TypeMismatchIsMiss(t *testing.T) {
	memo := newTestMemo(newFakeClock())
	memo.Store().Set("live", "not-an-int", time.Minute)

	got, err := GetOrCompute(context.Background(), memo, "live", time.Minute, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestGetOrCompute_NoOpStoreAlwaysComputes(t *testing.T) {
	memo := NewMemo(nil, zerolog.Nop())

	var calls int
	for i := 0; i < 3; i++ {
		_, err := GetOrCompute(context.Background(), memo, "homepage", time.Minute, func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestKeyspace(t *testing.T) {
	tests := map[string]string{
		"category_CIN":        "category",
		"meta_120387-000-A":   "meta",
		"collection_RC-01972": "collection",
		"homepage":            "homepage",
		"live":                "live",
		"_odd":                "_odd",
	}
	for key, want := range tests {
		assert.Equal(t, want, Keyspace(key), key)
	}
}
