package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/footylabs/fantasy-contest/internal/domain/catalog"
	"github.com/footylabs/fantasy-contest/internal/domain/player"
	"github.com/footylabs/fantasy-contest/internal/platform/cache"
	"github.com/footylabs/fantasy-contest/internal/platform/logging"
)

const snapshotCacheKey = "catalog:snapshot"

// GameweekStats is the result of a stats fan-out. Players whose fetch
// failed are scored as zero and listed in Failed, with a warning each.
type GameweekStats struct {
	Stats    map[int]player.GameweekStat
	Failed   map[int]bool
	Warnings []string
}

// CatalogService serves player catalog snapshots and per-player gameweek
// stats from the upstream provider. Snapshots are cached for the configured
// TTL; the current gameweek keeps a last-known-good fallback so a provider
// outage degrades reads instead of failing them.
type CatalogService struct {
	provider catalog.Provider
	cache    *cache.Store[catalog.Snapshot]
	logger   *logging.Logger

	statsWorkers int

	mu           sync.RWMutex
	lastGameweek int
}

func NewCatalogService(provider catalog.Provider, snapshotTTL time.Duration, statsWorkers int, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	if statsWorkers < 1 {
		statsWorkers = 4
	}

	return &CatalogService{
		provider:     provider,
		cache:        cache.NewStore[catalog.Snapshot](snapshotTTL),
		logger:       logger,
		statsWorkers: statsWorkers,
	}
}

// Snapshot returns the current player catalog. Roster validation depends on
// it, so a provider failure with no cached copy is a hard error.
func (s *CatalogService) Snapshot(ctx context.Context) (catalog.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.Snapshot")
	defer span.End()

	snap, err := s.cache.GetOrLoad(ctx, snapshotCacheKey, s.loadSnapshot)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("%w: fetch player catalog: %v", ErrDependencyUnavailable, err)
	}

	span.SetAttributes(attribute.Int("catalog.players", snap.Len()))
	return snap, nil
}

func (s *CatalogService) loadSnapshot(ctx context.Context) (catalog.Snapshot, error) {
	players, err := s.provider.FetchCatalog(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	gameweek, err := s.provider.CurrentEvent(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}

	snap := catalog.NewSnapshot(players, gameweek, time.Now().UTC())

	s.mu.Lock()
	s.lastGameweek = gameweek
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "catalog snapshot refreshed", "players", snap.Len(), "gameweek", gameweek)
	return snap, nil
}

// CurrentGameweek resolves the active gameweek. When the provider is down
// it falls back to the last value it served and reports degraded=true; it
// fails only when no gameweek has ever been resolved.
func (s *CatalogService) CurrentGameweek(ctx context.Context) (gameweek int, degraded bool, err error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.CurrentGameweek")
	defer span.End()

	gameweek, fetchErr := s.provider.CurrentEvent(ctx)
	if fetchErr == nil {
		s.mu.Lock()
		s.lastGameweek = gameweek
		s.mu.Unlock()
		return gameweek, false, nil
	}

	s.mu.RLock()
	last := s.lastGameweek
	s.mu.RUnlock()

	if last > 0 {
		s.logger.WarnContext(ctx, "current gameweek fetch failed, serving last known value",
			"gameweek", last, "error", fetchErr)
		return last, true, nil
	}

	return 0, false, fmt.Errorf("%w: resolve current gameweek: %v", ErrDependencyUnavailable, fetchErr)
}

// PlayerHistory returns the per-gameweek stat rows for one player.
func (s *CatalogService) PlayerHistory(ctx context.Context, playerID int) ([]player.GameweekStat, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.PlayerHistory")
	defer span.End()

	if playerID <= 0 {
		return nil, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Player(playerID); !ok {
		return nil, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	history, err := s.provider.FetchGameweekStats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch history for player %d: %v", ErrDependencyUnavailable, playerID, err)
	}

	sort.Slice(history, func(i, j int) bool { return history[i].Gameweek < history[j].Gameweek })
	return history, nil
}

// StatsForGameweek fetches one gameweek's stat row for each requested
// player, fanning out bounded by the worker limit. A failed fetch zeroes
// that player's row and records a warning instead of failing the batch.
func (s *CatalogService) StatsForGameweek(ctx context.Context, playerIDs []int, gameweek int) (GameweekStats, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.StatsForGameweek")
	defer span.End()

	if gameweek <= 0 {
		return GameweekStats{}, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}

	result := GameweekStats{
		Stats:  make(map[int]player.GameweekStat, len(playerIDs)),
		Failed: make(map[int]bool),
	}
	if len(playerIDs) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(s.statsWorkers)

	for _, playerID := range playerIDs {
		playerID := playerID
		workers.Go(func() {
			history, err := s.provider.FetchGameweekStats(ctx, playerID)
			if err != nil {
				mu.Lock()
				result.Stats[playerID] = player.GameweekStat{Gameweek: gameweek}
				result.Failed[playerID] = true
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("stats unavailable for player %d, scored as zero", playerID))
				mu.Unlock()

				s.logger.WarnContext(ctx, "player stats fetch failed",
					"player_id", playerID, "gameweek", gameweek, "error", err)
				return
			}

			row := player.GameweekStat{Gameweek: gameweek}
			for _, h := range history {
				if h.Gameweek == gameweek {
					row = h
					break
				}
			}

			mu.Lock()
			result.Stats[playerID] = row
			mu.Unlock()
		})
	}

	workers.Wait()
	sort.Strings(result.Warnings)
	return result, nil
}
