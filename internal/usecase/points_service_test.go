package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
	"github.com/footylabs/fantasy-contest/internal/domain/player"
)

func TestPointsService_ComputeGameweekPoints(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.submitDefaultTeam(ctx, "u1", "The Gaffers")
	require.NoError(t, err)

	// Default stub scores every player their own id in gameweek 1.
	result, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Gameweek)
	assert.Equal(t, 66, result.RawPoints)
	assert.Zero(t, result.Penalty)
	assert.Equal(t, 66, result.Total)
	assert.Equal(t, 66, result.State.SeasonPoints)
	assert.Len(t, result.Breakdown, 11)
	assert.Empty(t, result.Warnings)
}

func TestPointsService_TripleCaptainTriplesOnePlayer(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.submitDefaultTeam(ctx, "u1", "The Gaffers")
	require.NoError(t, err)
	_, _, err = s.transfer.ActivateTripleCaptain(ctx, "u1", 9)
	require.NoError(t, err)

	result, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 66+2*9, result.Total)
	for _, line := range result.Breakdown {
		if line.PlayerID == 9 {
			assert.Equal(t, 3, line.Multiplier)
			assert.Equal(t, 27, line.Points)
		} else {
			assert.Equal(t, 1, line.Multiplier)
		}
	}
}

func TestPointsService_WildBenchScoresTwelve(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.submitDefaultTeam(ctx, "u1", "The Gaffers")
	require.NoError(t, err)
	_, _, err = s.transfer.ActivateWildBench(ctx, "u1", 13)
	require.NoError(t, err)

	result, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)

	assert.Len(t, result.Breakdown, 12)
	assert.Equal(t, 66+13, result.Total)
}

func TestPointsService_PenaltySubtracted(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.submitDefaultTeam(ctx, "u1", "The Gaffers")
	require.NoError(t, err)

	_, _, err = s.transfer.Transfer(ctx, TransferInput{UserID: "u1", OutgoingID: 11, IncomingID: 22})
	require.NoError(t, err)
	_, _, err = s.transfer.Transfer(ctx, TransferInput{
		UserID: "u1", OutgoingID: 5, IncomingID: 16, AllowPointPenalty: true,
	})
	require.NoError(t, err)

	result, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)

	// Roster is 1..11 with 11->22 and 5->16 swapped.
	raw := 66 - 11 + 22 - 5 + 16
	assert.Equal(t, raw, result.RawPoints)
	assert.Equal(t, 4, result.Penalty)
	assert.Equal(t, raw-4, result.Total)
}

func TestPointsService_RescoreReplacesInsteadOfAccumulating(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.submitDefaultTeam(ctx, "u1", "The Gaffers")
	require.NoError(t, err)

	first, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 66, first.State.SeasonPoints)

	// Provider revises the gameweek upward; rescoring must converge on
	// the revised value, not add to it.
	s.provider.statsFn = func(_ context.Context, playerID int) ([]player.GameweekStat, error) {
		return []player.GameweekStat{{Gameweek: 1, Points: playerID + 1}}, nil
	}

	second, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 77, second.Total)
	assert.Equal(t, 77, second.State.SeasonPoints)

	third, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 77, third.State.SeasonPoints)
}

func TestPointsService_SeasonAccumulatesAcrossGameweeks(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.submitDefaultTeam(ctx, "u1", "The Gaffers")
	require.NoError(t, err)

	first, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 66, first.State.SeasonPoints)

	s.provider.eventFn = func(context.Context) (int, error) { return 2, nil }
	s.provider.statsFn = func(_ context.Context, playerID int) ([]player.GameweekStat, error) {
		return []player.GameweekStat{
			{Gameweek: 1, Points: playerID},
			{Gameweek: 2, Points: 1},
		}, nil
	}

	second, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 11, second.Total)
	assert.Equal(t, 66+11, second.State.SeasonPoints)
}

func TestPointsService_MissingStatsScoreZeroWithWarning(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.submitDefaultTeam(ctx, "u1", "The Gaffers")
	require.NoError(t, err)

	s.provider.statsFn = func(_ context.Context, playerID int) ([]player.GameweekStat, error) {
		if playerID == 7 {
			return nil, errors.New("element summary 500")
		}
		return []player.GameweekStat{{Gameweek: 1, Points: playerID}}, nil
	}

	result, err := s.points.ComputeGameweekPoints(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 66-7, result.Total)
	require.Len(t, result.Warnings, 1)

	var failedLine PlayerPoints
	for _, line := range result.Breakdown {
		if line.PlayerID == 7 {
			failedLine = line
		}
	}
	assert.True(t, failedLine.Failed)
	assert.Zero(t, failedLine.Points)
}

func TestPointsService_UnlockedEntryRejected(t *testing.T) {
	t.Parallel()

	s := newServices()
	ctx := context.Background()

	_, err := s.repo.Save(ctx, contest.State{UserID: "u1", DisplayName: "Draft"})
	require.NoError(t, err)

	_, err = s.points.ComputeGameweekPoints(ctx, "u1")
	require.ErrorIs(t, err, contest.ErrNotLocked)
}
