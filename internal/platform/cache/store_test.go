package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errors.New("unexpected value " + v)
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatal(err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	boom := errors.New("boom")
	calls := 0

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore[string](30 * time.Second)
	store.now = func() time.Time { return now }

	store.Set("k", "v")

	v, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(31 * time.Second)
	_, ok = store.Get("k")
	assert.False(t, ok)
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore[string](0)
	store.now = func() time.Time { return now }

	store.Set("k", "v")
	now = now.Add(24 * time.Hour)

	_, ok := store.Get("k")
	assert.True(t, ok)
}

func TestStore_DeleteAndBlankKey(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	store.Set("", "ignored")
	_, ok := store.Get("")
	assert.False(t, ok)

	store.Set("k", "v")
	store.Delete("k")
	_, ok = store.Get("k")
	assert.False(t, ok)
}
