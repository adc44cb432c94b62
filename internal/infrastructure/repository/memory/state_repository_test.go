package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
)

func TestStateRepository_SaveAndGet(t *testing.T) {
	t.Parallel()

	repo := NewStateRepository()
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	saved, err := repo.Save(ctx, contest.State{UserID: "u1", DisplayName: "First", Roster: []int{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)

	got, found, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "First", got.DisplayName)
	assert.Equal(t, []int{1, 2, 3}, got.Roster)

	// Mutating the returned copy must not leak into the store.
	got.Roster[0] = 999
	again, _, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Roster[0])
}

func TestStateRepository_VersionConflict(t *testing.T) {
	t.Parallel()

	repo := NewStateRepository()
	ctx := context.Background()

	first, err := repo.Save(ctx, contest.State{UserID: "u1"})
	require.NoError(t, err)

	stale := first.Clone()
	stale.Version = 0
	_, err = repo.Save(ctx, stale)
	require.ErrorIs(t, err, contest.ErrVersionConflict)

	fresh := first.Clone()
	updated, err := repo.Save(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
}

func TestStateRepository_NewStateMustStartAtVersionZero(t *testing.T) {
	t.Parallel()

	repo := NewStateRepository()
	_, err := repo.Save(context.Background(), contest.State{UserID: "u1", Version: 5})
	require.ErrorIs(t, err, contest.ErrVersionConflict)
}

func TestStateRepository_ListSortedByUser(t *testing.T) {
	t.Parallel()

	repo := NewStateRepository()
	ctx := context.Background()

	for _, id := range []string{"charlie", "alice", "bob"} {
		_, err := repo.Save(ctx, contest.State{UserID: id})
		require.NoError(t, err)
	}

	states, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, "alice", states[0].UserID)
	assert.Equal(t, "bob", states[1].UserID)
	assert.Equal(t, "charlie", states[2].UserID)
}

func TestStateRepository_ConcurrentSaves_OneWinnerPerVersion(t *testing.T) {
	t.Parallel()

	repo := NewStateRepository()
	ctx := context.Background()

	base, err := repo.Save(ctx, contest.State{UserID: "u1"})
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := base.Clone()
			if _, err := repo.Save(ctx, st); err == nil {
				wins <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count)
}
