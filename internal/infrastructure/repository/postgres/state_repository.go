package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
)

// StateRepository persists one row per contest entry with the mutable
// state as a JSONB document. Saves are guarded by an optimistic version
// column; a stale writer gets contest.ErrVersionConflict.
type StateRepository struct {
	db *sqlx.DB
}

func NewStateRepository(db *sqlx.DB) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) Get(ctx context.Context, userID string) (contest.State, bool, error) {
	const query = `
		SELECT user_id, document, version, created_at, updated_at
		FROM contest_states
		WHERE user_id = $1`

	var row stateTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contest.State{}, false, nil
		}
		return contest.State{}, false, fmt.Errorf("select contest state: %w", err)
	}

	st, err := decodeState(row)
	if err != nil {
		return contest.State{}, false, err
	}
	return st, true, nil
}

func (r *StateRepository) Save(ctx context.Context, st contest.State) (contest.State, error) {
	if st.UserID == "" {
		return contest.State{}, fmt.Errorf("save contest state: user id is empty")
	}

	document, err := encodeState(st)
	if err != nil {
		return contest.State{}, err
	}

	if st.Version == 0 {
		return r.insert(ctx, st, document)
	}
	return r.update(ctx, st, document)
}

func (r *StateRepository) insert(ctx context.Context, st contest.State, document []byte) (contest.State, error) {
	const query = `
		INSERT INTO contest_states (user_id, document, version, created_at, updated_at)
		VALUES ($1, $2, 1, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id, document, version, created_at, updated_at`

	var row stateTableModel
	err := r.db.GetContext(ctx, &row, query, st.UserID, document)
	if errors.Is(err, sql.ErrNoRows) {
		return contest.State{}, fmt.Errorf("%w: state already exists for user %s",
			contest.ErrVersionConflict, st.UserID)
	}
	if err != nil {
		return contest.State{}, fmt.Errorf("insert contest state: %w", err)
	}

	return decodeState(row)
}

func (r *StateRepository) update(ctx context.Context, st contest.State, document []byte) (contest.State, error) {
	const query = `
		UPDATE contest_states
		SET document = $1, version = version + 1, updated_at = NOW()
		WHERE user_id = $2 AND version = $3
		RETURNING user_id, document, version, created_at, updated_at`

	var row stateTableModel
	err := r.db.GetContext(ctx, &row, query, document, st.UserID, st.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return contest.State{}, fmt.Errorf("%w: stale version %d for user %s",
			contest.ErrVersionConflict, st.Version, st.UserID)
	}
	if err != nil {
		return contest.State{}, fmt.Errorf("update contest state: %w", err)
	}

	return decodeState(row)
}

func (r *StateRepository) List(ctx context.Context) ([]contest.State, error) {
	const query = `
		SELECT user_id, document, version, created_at, updated_at
		FROM contest_states
		ORDER BY user_id`

	var rows []stateTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select contest states: %w", err)
	}

	out := make([]contest.State, 0, len(rows))
	for _, row := range rows {
		st, err := decodeState(row)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}

	return out, nil
}
