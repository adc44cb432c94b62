package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
	"github.com/footylabs/fantasy-contest/internal/platform/logging"
)

// LeaderboardRow is one ranked entry. Rank is dense: entries on equal
// season points share a rank and the next distinct score takes rank+1.
type LeaderboardRow struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	SeasonPoints int    `json:"seasonPoints"`
	GameweekPts  int    `json:"gameweekPoints"`
}

// PrizeSplit maps a rank to its share of the pool in basis points.
type PrizeSplit struct {
	Rank     int   `json:"rank"`
	ShareBps int   `json:"shareBps"`
	Amount   int64 `json:"amount"`
}

// PrizePool is the contest pot derived from locked entries.
type PrizePool struct {
	EntryFee int64        `json:"entryFee"`
	Entries  int          `json:"entries"`
	Total    int64        `json:"total"`
	Payouts  []PrizeSplit `json:"payouts"`
}

// RecomputeReport summarizes a season-wide rescore pass.
type RecomputeReport struct {
	Entries   int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// LeaderboardConfig tunes prize math and the recompute worker pool.
type LeaderboardConfig struct {
	EntryFee    int64
	PayoutBps   []int
	WorkerCount int
}

func DefaultLeaderboardConfig() LeaderboardConfig {
	return LeaderboardConfig{
		EntryFee:    100,
		PayoutBps:   []int{5000, 3000, 2000},
		WorkerCount: 8,
	}
}

type LeaderboardService struct {
	states   contest.Repository
	points   *PointsService
	cfg      LeaderboardConfig
	logger   *logging.Logger
	poolOpts []ants.Option
}

func NewLeaderboardService(states contest.Repository, points *PointsService, cfg LeaderboardConfig, logger *logging.Logger) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = DefaultLeaderboardConfig().WorkerCount
	}

	return &LeaderboardService{
		states: states,
		points: points,
		cfg:    cfg,
		logger: logger,
	}
}

// Leaderboard ranks all locked entries by season points. Ties share a
// dense rank and are ordered by user id for a stable listing.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Leaderboard")
	defer span.End()

	states, err := s.states.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contest states: %w", err)
	}

	rows := make([]LeaderboardRow, 0, len(states))
	for _, st := range states {
		if !st.Locked {
			continue
		}
		rows = append(rows, LeaderboardRow{
			UserID:       st.UserID,
			DisplayName:  st.DisplayName,
			SeasonPoints: st.SeasonPoints,
			GameweekPts:  st.GameweekPoints,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SeasonPoints != rows[j].SeasonPoints {
			return rows[i].SeasonPoints > rows[j].SeasonPoints
		}
		return rows[i].UserID < rows[j].UserID
	})

	rank := 0
	prevPoints := 0
	for i := range rows {
		if i == 0 || rows[i].SeasonPoints != prevPoints {
			rank++
			prevPoints = rows[i].SeasonPoints
		}
		rows[i].Rank = rank
	}

	span.SetAttributes(attribute.Int("leaderboard.entries", len(rows)))
	return rows, nil
}

// PrizePool computes the pot from the number of locked entries and slices
// it by the configured payout shares. Remainder after the splits stays in
// the top payout.
func (s *LeaderboardService) PrizePool(ctx context.Context) (PrizePool, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.PrizePool")
	defer span.End()

	states, err := s.states.List(ctx)
	if err != nil {
		return PrizePool{}, fmt.Errorf("list contest states: %w", err)
	}

	entries := 0
	for _, st := range states {
		if st.Locked {
			entries++
		}
	}

	pool := PrizePool{
		EntryFee: s.cfg.EntryFee,
		Entries:  entries,
		Total:    s.cfg.EntryFee * int64(entries),
	}

	var allocated int64
	for i, bps := range s.cfg.PayoutBps {
		amount := pool.Total * int64(bps) / 10000
		allocated += amount
		pool.Payouts = append(pool.Payouts, PrizeSplit{Rank: i + 1, ShareBps: bps, Amount: amount})
	}
	if len(pool.Payouts) > 0 {
		pool.Payouts[0].Amount += pool.Total - allocated
	}

	return pool, nil
}

// RecomputeSeason rescores the current gameweek for every locked entry,
// bounded by the worker pool. Individual failures are logged and counted,
// not fatal.
func (s *LeaderboardService) RecomputeSeason(ctx context.Context) (RecomputeReport, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.RecomputeSeason")
	defer span.End()

	states, err := s.states.List(ctx)
	if err != nil {
		return RecomputeReport{}, fmt.Errorf("list contest states: %w", err)
	}

	start := time.Now()

	workers, err := ants.NewPool(s.cfg.WorkerCount, s.poolOpts...)
	if err != nil {
		return RecomputeReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var mu sync.Mutex
	report := RecomputeReport{}

	var wg sync.WaitGroup
	for _, st := range states {
		if !st.Locked {
			continue
		}
		report.Entries++

		st := st
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			_, scoreErr := s.points.ComputeGameweekPoints(ctx, st.UserID)

			mu.Lock()
			if scoreErr != nil {
				report.Failed++
			} else {
				report.Succeeded++
			}
			mu.Unlock()

			if scoreErr != nil {
				s.logger.WarnContext(ctx, "season recompute failed for entry",
					"user_id", st.UserID, "error", scoreErr)
			}
		}); err != nil {
			wg.Done()
			// Drain tasks already submitted before reporting the failure.
			wg.Wait()
			return RecomputeReport{}, fmt.Errorf("submit entry to worker pool: %w", err)
		}
	}

	wg.Wait()
	report.Elapsed = time.Since(start)

	s.logger.InfoContext(ctx, "season recompute finished",
		"entries", report.Entries, "succeeded", report.Succeeded, "failed", report.Failed,
		"elapsed_ms", report.Elapsed.Milliseconds())

	return report, nil
}
