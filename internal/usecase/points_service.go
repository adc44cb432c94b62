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

// PlayerPoints is one line of a gameweek scoring breakdown.
type PlayerPoints struct {
	PlayerID   int    `json:"playerId"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Multiplier int    `json:"multiplier"`
	Failed     bool   `json:"failed,omitempty"`
}

// PointsResult is the outcome of scoring one gameweek for one entry.
type PointsResult struct {
	State     contest.State
	Gameweek  int
	RawPoints int
	Penalty   int
	Total     int
	Breakdown []PlayerPoints
	Warnings  []string
	Degraded  bool
}

// PointsService aggregates per-player gameweek stats into entry scores and
// folds them into the season total. Scoring a gameweek twice replaces the
// earlier result instead of double counting.
type PointsService struct {
	states  contest.Repository
	catalog *CatalogService
	rules   contest.Rules
	logger  *logging.Logger
	now     func() time.Time
}

func NewPointsService(states contest.Repository, catalog *CatalogService, rules contest.Rules, logger *logging.Logger) *PointsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PointsService{
		states:  states,
		catalog: catalog,
		rules:   rules,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *PointsService) ComputeGameweekPoints(ctx context.Context, userID string) (PointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "PointsService.ComputeGameweekPoints")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return PointsResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	gameweek, degraded, err := s.catalog.CurrentGameweek(ctx)
	if err != nil {
		return PointsResult{}, err
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return PointsResult{}, err
	}

	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		st, found, err := s.states.Get(ctx, userID)
		if err != nil {
			return PointsResult{}, fmt.Errorf("get contest state: %w", err)
		}
		if !found {
			return PointsResult{}, fmt.Errorf("%w: no contest entry for user", ErrNotFound)
		}
		if !st.Locked {
			return PointsResult{}, contest.ErrNotLocked
		}

		st = contest.RolloverIfNeeded(st, gameweek, s.rules)

		scoringSet := st.ScoringSet(gameweek)
		stats, err := s.catalog.StatsForGameweek(ctx, scoringSet, gameweek)
		if err != nil {
			return PointsResult{}, err
		}

		result := PointsResult{
			Gameweek:  gameweek,
			Penalty:   st.GameweekPenalty,
			Breakdown: make([]PlayerPoints, 0, len(scoringSet)),
			Warnings:  stats.Warnings,
			Degraded:  degraded,
		}

		for _, playerID := range scoringSet {
			row := stats.Stats[playerID]
			multiplier := 1
			if st.TripleCaptain.ActiveIn(gameweek) && st.TripleCaptain.PlayerID == playerID {
				multiplier = 3
			}

			line := PlayerPoints{
				PlayerID:   playerID,
				Points:     row.Points * multiplier,
				Multiplier: multiplier,
				Failed:     stats.Failed[playerID],
			}
			if p, ok := snap.Player(playerID); ok {
				line.Name = p.Name
			}

			result.RawPoints += line.Points
			result.Breakdown = append(result.Breakdown, line)
		}

		result.Total = result.RawPoints - result.Penalty

		// Rescoring the same gameweek adjusts the season total by the
		// delta, so repeated calls converge instead of accumulating.
		if st.LastScoredGameweek == gameweek {
			st.SeasonPoints += result.Total - st.GameweekPoints
		} else {
			st.SeasonPoints += result.Total
		}
		st.GameweekPoints = result.Total
		st.LastScoredGameweek = gameweek
		st.UpdatedAt = s.now().UTC()

		saved, err := s.states.Save(ctx, st)
		if err == nil {
			result.State = saved
			span.SetAttributes(
				attribute.Int("points.gameweek", gameweek),
				attribute.Int("points.total", result.Total),
			)
			s.logger.InfoContext(ctx, "gameweek scored",
				"user_id", saved.UserID, "gameweek", gameweek,
				"raw", result.RawPoints, "penalty", result.Penalty, "total", result.Total,
				"season", saved.SeasonPoints, "warnings", len(result.Warnings))
			return result, nil
		}
		if !errors.Is(err, contest.ErrVersionConflict) {
			return PointsResult{}, fmt.Errorf("save contest state: %w", err)
		}
		lastErr = err
	}

	return PointsResult{}, fmt.Errorf("%w: %v", ErrConflict, lastErr)
}
