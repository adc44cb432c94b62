package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
	"github.com/footylabs/fantasy-contest/internal/platform/logging"
)

const saveAttempts = 3

// TransferInput is one swap request: OutgoingID leaves the roster,
// IncomingID replaces it in the same slot.
type TransferInput struct {
	UserID            string
	OutgoingID        int
	IncomingID        int
	AllowPointPenalty bool
}

// TransferService applies transfers and card activations against the
// caller's contest state. Saves go through optimistic versioning; a
// conflicting writer triggers a bounded reload-and-reapply. Every
// mutation also reports whether the gameweek it ran under came from the
// last known good value instead of the provider, so callers can surface
// the degraded read instead of hiding it.
type TransferService struct {
	states  contest.Repository
	catalog *CatalogService
	rules   contest.Rules
	logger  *logging.Logger
	now     func() time.Time
}

func NewTransferService(states contest.Repository, catalog *CatalogService, rules contest.Rules, logger *logging.Logger) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TransferService{
		states:  states,
		catalog: catalog,
		rules:   rules,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *TransferService) Transfer(ctx context.Context, input TransferInput) (contest.State, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "TransferService.Transfer")
	defer span.End()

	if input.OutgoingID <= 0 || input.IncomingID <= 0 {
		return contest.State{}, false, fmt.Errorf("%w: player ids must be positive", ErrInvalidInput)
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return contest.State{}, false, err
	}

	saved, degraded, err := s.mutate(ctx, input.UserID, func(st contest.State, gameweek int) (contest.State, error) {
		return contest.ApplyTransfer(st, input.OutgoingID, input.IncomingID, snap, gameweek, s.rules,
			contest.TransferOptions{AllowPointPenalty: input.AllowPointPenalty})
	})
	if err != nil {
		return contest.State{}, false, err
	}

	span.SetAttributes(
		attribute.Int("transfer.outgoing", input.OutgoingID),
		attribute.Int("transfer.incoming", input.IncomingID),
	)
	s.logger.InfoContext(ctx, "transfer applied",
		"user_id", saved.UserID, "outgoing", input.OutgoingID, "incoming", input.IncomingID,
		"free_transfers_left", saved.FreeTransfers, "penalty", saved.GameweekPenalty)

	return saved, degraded, nil
}

func (s *TransferService) ActivateWildcard(ctx context.Context, userID string) (contest.State, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "TransferService.ActivateWildcard")
	defer span.End()

	saved, degraded, err := s.mutate(ctx, userID, func(st contest.State, gameweek int) (contest.State, error) {
		return contest.ActivateWildcard(st, gameweek, s.rules)
	})
	if err != nil {
		return contest.State{}, false, err
	}

	s.logger.InfoContext(ctx, "wildcard activated", "user_id", saved.UserID, "gameweek", saved.CurrentGameweek)
	return saved, degraded, nil
}

func (s *TransferService) ActivateTripleCaptain(ctx context.Context, userID string, captainID int) (contest.State, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "TransferService.ActivateTripleCaptain")
	defer span.End()

	if captainID <= 0 {
		return contest.State{}, false, fmt.Errorf("%w: captain id must be positive", ErrInvalidInput)
	}

	saved, degraded, err := s.mutate(ctx, userID, func(st contest.State, gameweek int) (contest.State, error) {
		return contest.ActivateTripleCaptain(st, captainID, gameweek, s.rules)
	})
	if err != nil {
		return contest.State{}, false, err
	}

	s.logger.InfoContext(ctx, "triple captain activated",
		"user_id", saved.UserID, "captain_id", captainID, "gameweek", saved.CurrentGameweek)
	return saved, degraded, nil
}

func (s *TransferService) ActivateWildBench(ctx context.Context, userID string, extraPlayerID int) (contest.State, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "TransferService.ActivateWildBench")
	defer span.End()

	if extraPlayerID <= 0 {
		return contest.State{}, false, fmt.Errorf("%w: extra player id must be positive", ErrInvalidInput)
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return contest.State{}, false, err
	}

	saved, degraded, err := s.mutate(ctx, userID, func(st contest.State, gameweek int) (contest.State, error) {
		return contest.ActivateWildBench(st, extraPlayerID, gameweek, snap, s.rules)
	})
	if err != nil {
		return contest.State{}, false, err
	}

	s.logger.InfoContext(ctx, "wild bench activated",
		"user_id", saved.UserID, "extra_player_id", extraPlayerID, "gameweek", saved.CurrentGameweek)
	return saved, degraded, nil
}

// mutate loads the caller's state, applies op at the current gameweek and
// saves the result. On a version conflict the whole sequence is replayed
// against fresh state, up to saveAttempts times. The returned bool marks
// a gameweek resolved from the last known good value.
func (s *TransferService) mutate(ctx context.Context, userID string, op func(contest.State, int) (contest.State, error)) (contest.State, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return contest.State{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	gameweek, degraded, err := s.catalog.CurrentGameweek(ctx)
	if err != nil {
		return contest.State{}, false, err
	}
	if degraded {
		s.logger.WarnContext(ctx, "mutating state with stale gameweek", "user_id", userID, "gameweek", gameweek)
	}

	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		st, found, err := s.states.Get(ctx, userID)
		if err != nil {
			return contest.State{}, false, fmt.Errorf("get contest state: %w", err)
		}
		if !found {
			return contest.State{}, false, fmt.Errorf("%w: no contest entry for user", ErrNotFound)
		}

		next, err := op(st, gameweek)
		if err != nil {
			return contest.State{}, false, err
		}
		next.UpdatedAt = s.now().UTC()

		saved, err := s.states.Save(ctx, next)
		if err == nil {
			return saved, degraded, nil
		}
		if !errors.Is(err, contest.ErrVersionConflict) {
			return contest.State{}, false, fmt.Errorf("save contest state: %w", err)
		}
		lastErr = err
	}

	return contest.State{}, false, fmt.Errorf("%w: %v", ErrConflict, lastErr)
}
