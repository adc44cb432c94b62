package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
)

// StateRepository keeps contest states in process memory. Saves enforce
// the same optimistic version check the postgres store does, so usecase
// behavior is identical across backends.
type StateRepository struct {
	mu     sync.RWMutex
	states map[string]contest.State
}

func NewStateRepository() *StateRepository {
	return &StateRepository{states: make(map[string]contest.State)}
}

func (r *StateRepository) Get(_ context.Context, userID string) (contest.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[userID]
	if !ok {
		return contest.State{}, false, nil
	}
	return st.Clone(), true, nil
}

func (r *StateRepository) Save(_ context.Context, st contest.State) (contest.State, error) {
	if st.UserID == "" {
		return contest.State{}, fmt.Errorf("save contest state: user id is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.states[st.UserID]
	if exists && current.Version != st.Version {
		return contest.State{}, fmt.Errorf("%w: have version %d, got %d",
			contest.ErrVersionConflict, current.Version, st.Version)
	}
	if !exists && st.Version != 0 {
		return contest.State{}, fmt.Errorf("%w: state does not exist at version %d",
			contest.ErrVersionConflict, st.Version)
	}

	next := st.Clone()
	next.Version++
	r.states[st.UserID] = next

	return next.Clone(), nil
}

func (r *StateRepository) List(_ context.Context) ([]contest.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.State, 0, len(r.states))
	for _, st := range r.states {
		out = append(out, st.Clone())
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
