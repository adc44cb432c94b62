package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
	"github.com/footylabs/fantasy-contest/internal/domain/player"
	"github.com/footylabs/fantasy-contest/internal/infrastructure/repository/memory"
	"github.com/footylabs/fantasy-contest/internal/platform/logging"
)

// stubProvider lets each test control the upstream catalog behavior.
type stubProvider struct {
	catalogFn func(ctx context.Context) ([]player.Player, error)
	statsFn   func(ctx context.Context, playerID int) ([]player.GameweekStat, error)
	eventFn   func(ctx context.Context) (int, error)
}

func (p *stubProvider) FetchCatalog(ctx context.Context) ([]player.Player, error) {
	if p.catalogFn != nil {
		return p.catalogFn(ctx)
	}
	return testPlayers(), nil
}

func (p *stubProvider) FetchGameweekStats(ctx context.Context, playerID int) ([]player.GameweekStat, error) {
	if p.statsFn != nil {
		return p.statsFn(ctx, playerID)
	}
	return []player.GameweekStat{{Gameweek: 1, Points: playerID}}, nil
}

func (p *stubProvider) CurrentEvent(ctx context.Context) (int, error) {
	if p.eventFn != nil {
		return p.eventFn(ctx)
	}
	return 1, nil
}

// testPlayers mirrors a small provider catalog: 22 players over 8 clubs,
// positions cycling with period 11 so ids 1..11 form a legal roster at
// exactly the default budget ceiling. Ids 12..22 are cheaper so swaps
// from the full-budget roster stay affordable.
func testPlayers() []player.Player {
	layout := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender, player.PositionDefender, player.PositionDefender,
		player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
		player.PositionForward, player.PositionForward, player.PositionForward,
	}

	players := make([]player.Player, 0, 22)
	for i := 1; i <= 22; i++ {
		cost := int64(90)
		if i == 11 {
			cost = 100
		}
		if i >= 12 {
			cost = 80
		}
		players = append(players, player.Player{
			ID:       i,
			ClubID:   (i-1)%8 + 1,
			Name:     fmt.Sprintf("Player %d", i),
			Position: layout[(i-1)%len(layout)],
			Cost:     cost,
		})
	}

	return players
}

func defaultRosterIDs() []int {
	ids := make([]int, 11)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

type services struct {
	repo     *memory.StateRepository
	provider *stubProvider
	catalog  *CatalogService
	team     *TeamService
	transfer *TransferService
	points   *PointsService
	board    *LeaderboardService
	now      time.Time
}

func newServices() *services {
	s := &services{
		repo:     memory.NewStateRepository(),
		provider: &stubProvider{},
		now:      time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC),
	}

	rules := contest.DefaultRules()
	logger := logging.NewNop()
	clock := func() time.Time { return s.now }

	s.catalog = NewCatalogService(s.provider, time.Minute, 4, logger)
	s.team = NewTeamService(s.repo, s.catalog, rules, logger)
	s.team.now = clock
	s.transfer = NewTransferService(s.repo, s.catalog, rules, logger)
	s.transfer.now = clock
	s.points = NewPointsService(s.repo, s.catalog, rules, logger)
	s.points.now = clock
	s.board = NewLeaderboardService(s.repo, s.points, DefaultLeaderboardConfig(), logger)

	return s
}

func (s *services) submitDefaultTeam(ctx context.Context, userID, name string) (contest.State, error) {
	st, _, err := s.team.SubmitTeam(ctx, SubmitTeamInput{
		UserID:      userID,
		DisplayName: name,
		PlayerIDs:   defaultRosterIDs(),
	})
	return st, err
}
