package contest

import "context"

// Repository describes contest-state persistence needs from use cases. Save
// performs an optimistic version check: it fails with ErrVersionConflict
// when the stored document's version no longer matches State.Version, and
// bumps the version on success.
type Repository interface {
	Get(ctx context.Context, userID string) (State, bool, error)
	Save(ctx context.Context, st State) (State, error)
	List(ctx context.Context) ([]State, error)
}
