package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreGetOrLoadDeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "payload", nil
	}

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]any, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = store.GetOrLoad(context.Background(), "https://api/event/42", loader)
		}(i)
	}

	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "payload", results[i])
	}
	require.Equal(t, int32(1), calls.Load())
}

func TestStoreGetOrLoadServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return []int{1, 2, 3}, nil
	}

	first, err := store.GetOrLoad(context.Background(), "rounds", loader)
	require.NoError(t, err)
	second, err := store.GetOrLoad(context.Background(), "rounds", loader)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), calls.Load())
}

func TestStoreDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("upstream down")

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	_, err := store.GetOrLoad(context.Background(), "rounds", loader)
	require.ErrorIs(t, err, boom)

	value, err := store.GetOrLoad(context.Background(), "rounds", loader)
	require.NoError(t, err)
	require.Equal(t, "recovered", value)
	require.Equal(t, int32(2), calls.Load())
}

func TestStoreExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	store.Set(context.Background(), "rounds", "stale")

	_, ok := store.Get(context.Background(), "rounds")
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)

	_, ok = store.Get(context.Background(), "rounds")
	require.False(t, ok)
}

func TestStoreDeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "event/42/statistics", 1)
	store.Set(ctx, "event/42/incidents", 2)
	store.Set(ctx, "event/77/statistics", 3)

	store.DeletePrefix(ctx, "event/42/")

	_, ok := store.Get(ctx, "event/42/statistics")
	require.False(t, ok)
	_, ok = store.Get(ctx, "event/42/incidents")
	require.False(t, ok)
	_, ok = store.Get(ctx, "event/77/statistics")
	require.True(t, ok)
}
