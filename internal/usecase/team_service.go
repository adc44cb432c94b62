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

const maxDisplayNameLen = 64

// SubmitTeamInput is the incoming payload for the initial team submission.
type SubmitTeamInput struct {
	UserID      string
	DisplayName string
	PlayerIDs   []int
}

// TeamService locks in initial rosters and serves contest profiles.
type TeamService struct {
	states  contest.Repository
	catalog *CatalogService
	rules   contest.Rules
	logger  *logging.Logger
	now     func() time.Time
}

func NewTeamService(states contest.Repository, catalog *CatalogService, rules contest.Rules, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		states:  states,
		catalog: catalog,
		rules:   rules,
		logger:  logger,
		now:     time.Now,
	}
}

// SubmitTeam validates the roster against the live catalog and locks the
// entry in. A user can submit only once; later submissions are rejected.
// The returned bool marks a gameweek resolved from the last known good
// value instead of the provider.
func (s *TeamService) SubmitTeam(ctx context.Context, input SubmitTeamInput) (contest.State, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.SubmitTeam")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	if input.UserID == "" {
		return contest.State{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.DisplayName == "" {
		return contest.State{}, false, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	if len(input.DisplayName) > maxDisplayNameLen {
		return contest.State{}, false, fmt.Errorf("%w: display name exceeds %d characters", ErrInvalidInput, maxDisplayNameLen)
	}

	existing, found, err := s.states.Get(ctx, input.UserID)
	if err != nil {
		return contest.State{}, false, fmt.Errorf("get contest state: %w", err)
	}
	if found && existing.Locked {
		return contest.State{}, false, contest.ErrAlreadyLocked
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return contest.State{}, false, err
	}

	cost, err := contest.ValidateRoster(input.PlayerIDs, snap, s.rules)
	if err != nil {
		return contest.State{}, false, err
	}

	gameweek, degraded, err := s.catalog.CurrentGameweek(ctx)
	if err != nil {
		return contest.State{}, false, err
	}
	if degraded {
		s.logger.WarnContext(ctx, "locking team with stale gameweek", "user_id", input.UserID, "gameweek", gameweek)
	}

	now := s.now().UTC()
	roster := make([]int, len(input.PlayerIDs))
	copy(roster, input.PlayerIDs)

	st := contest.State{
		UserID:               input.UserID,
		DisplayName:          input.DisplayName,
		Locked:               true,
		Roster:               roster,
		Budget:               s.rules.BudgetCeiling - cost,
		FreeTransfers:        s.rules.FreeTransfersPerGameweek,
		CurrentGameweek:      gameweek,
		LastTransferGameweek: gameweek,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if found {
		st.Version = existing.Version
		st.CreatedAt = existing.CreatedAt
	}

	saved, err := s.states.Save(ctx, st)
	if err != nil {
		if errors.Is(err, contest.ErrVersionConflict) {
			return contest.State{}, false, fmt.Errorf("%w: team submission raced another update", ErrConflict)
		}
		return contest.State{}, false, fmt.Errorf("save contest state: %w", err)
	}

	span.SetAttributes(attribute.Int("team.gameweek", gameweek))
	s.logger.InfoContext(ctx, "team locked in",
		"user_id", saved.UserID, "gameweek", gameweek, "budget_left", saved.Budget)

	return saved, degraded, nil
}

// GetProfile returns the caller's contest state, rolled forward to the
// current gameweek for display. The rolled state is not persisted here.
// The returned bool marks a gameweek resolved from the last known good
// value instead of the provider.
func (s *TeamService) GetProfile(ctx context.Context, userID string) (contest.State, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.GetProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return contest.State{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	st, found, err := s.states.Get(ctx, userID)
	if err != nil {
		return contest.State{}, false, fmt.Errorf("get contest state: %w", err)
	}
	if !found {
		return contest.State{}, false, fmt.Errorf("%w: no contest entry for user", ErrNotFound)
	}

	gameweek, degraded, err := s.catalog.CurrentGameweek(ctx)
	if err != nil {
		return contest.State{}, false, err
	}
	if degraded {
		s.logger.WarnContext(ctx, "profile served with stale gameweek", "user_id", userID, "gameweek", gameweek)
	}

	return contest.RolloverIfNeeded(st, gameweek, s.rules), degraded, nil
}
