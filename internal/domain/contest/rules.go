package contest

import (
	"errors"
	"fmt"

	"github.com/footylabs/fantasy-contest/internal/domain/catalog"
	"github.com/footylabs/fantasy-contest/internal/domain/player"
)

var (
	ErrInvalidRosterSize     = errors.New("invalid roster size")
	ErrDuplicatePlayer       = errors.New("duplicate player in roster")
	ErrUnknownPlayer         = errors.New("player not found in catalog")
	ErrClubCapExceeded       = errors.New("max players from same club exceeded")
	ErrBudgetExceeded        = errors.New("budget ceiling exceeded")
	ErrPositionMismatch      = errors.New("incoming player position does not match outgoing")
	ErrNoFreeTransfers       = errors.New("no free transfers remaining this gameweek")
	ErrInsufficientFormation = errors.New("minimum formation requirement not met")
)

// BudgetError reports by how much a roster or transfer overshoots the budget.
// errors.Is(err, ErrBudgetExceeded) holds for every BudgetError.
type BudgetError struct {
	Overage int64
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("budget ceiling exceeded: over by %d", e.Overage)
}

func (e *BudgetError) Unwrap() error {
	return ErrBudgetExceeded
}

// Rules stores contest validation parameters. Strictness toggles mirror the
// configuration surface: club cap and position matching vary by deployment.
type Rules struct {
	RosterSize               int
	BudgetCeiling            int64
	ClubCap                  int
	FreeTransfersPerGameweek int
	PenaltyPoints            int
	StrictPositions          bool
	FormationCheck           bool
	MinByPosition            map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		RosterSize:               11,
		BudgetCeiling:            1000,
		ClubCap:                  2,
		FreeTransfersPerGameweek: 1,
		PenaltyPoints:            4,
		StrictPositions:          true,
		FormationCheck:           false,
		MinByPosition: map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   3,
			player.PositionMidfielder: 2,
			player.PositionForward:    1,
		},
	}
}

// ValidateRoster checks roster legality against a catalog snapshot and
// returns the total cost of the selection. It has no side effects and is
// safe to call repeatedly; the caller derives the remaining budget as
// ceiling minus the returned total.
func ValidateRoster(ids []int, snap catalog.Snapshot, rules Rules) (int64, error) {
	if len(ids) != rules.RosterSize {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrInvalidRosterSize, rules.RosterSize, len(ids))
	}

	seen := make(map[int]struct{}, len(ids))
	clubCounter := make(map[int]int)
	positionCounter := make(map[player.Position]int)
	var totalCost int64

	for _, id := range ids {
		if id <= 0 {
			return 0, fmt.Errorf("%w: player id must be greater than zero", ErrUnknownPlayer)
		}
		if _, exists := seen[id]; exists {
			return 0, fmt.Errorf("%w: %d", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}

		p, ok := snap.Player(id)
		if !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
		}

		clubCounter[p.ClubID]++
		if clubCounter[p.ClubID] > rules.ClubCap {
			return 0, fmt.Errorf("%w: club=%d max=%d", ErrClubCapExceeded, p.ClubID, rules.ClubCap)
		}

		positionCounter[p.Position]++
		totalCost += p.Cost
	}

	if totalCost > rules.BudgetCeiling {
		return 0, &BudgetError{Overage: totalCost - rules.BudgetCeiling}
	}

	if rules.FormationCheck {
		for pos, minRequired := range rules.MinByPosition {
			if positionCounter[pos] < minRequired {
				return 0, fmt.Errorf("%w: pos=%s min=%d current=%d", ErrInsufficientFormation, pos, minRequired, positionCounter[pos])
			}
		}
	}

	return totalCost, nil
}

// clubCounts tallies club membership for a set of player ids, resolving each
// through the snapshot. Unknown ids surface as ErrUnknownPlayer.
func clubCounts(ids []int, snap catalog.Snapshot) (map[int]int, error) {
	counts := make(map[int]int, len(ids))
	for _, id := range ids {
		p, ok := snap.Player(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
		}
		counts[p.ClubID]++
	}
	return counts, nil
}
