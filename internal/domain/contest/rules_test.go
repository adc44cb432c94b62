package contest

import (
	"errors"
	"testing"
	"time"

	"github.com/footylabs/fantasy-contest/internal/domain/catalog"
	"github.com/footylabs/fantasy-contest/internal/domain/player"
)

// testCatalog builds a snapshot of 22 players across 8 clubs: ids 1..22,
// costs laid out so ids 1..11 sum to exactly the default 1000 ceiling.
// Ids 1, 9 and 17 share club 1, which the club-cap cases lean on.
func testCatalog() catalog.Snapshot {
	players := make([]player.Player, 0, 22)
	positions := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender, player.PositionDefender, player.PositionDefender,
		player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
		player.PositionForward, player.PositionForward, player.PositionForward,
	}
	for i := 1; i <= 22; i++ {
		pos := positions[(i-1)%len(positions)]
		cost := int64(90)
		switch {
		case i == 11:
			cost = 100 // ids 1..10 at 90 + one at 100 = 1000
		case i >= 12:
			cost = 120
		}
		players = append(players, player.Player{
			ID:       i,
			ClubID:   (i-1)%8 + 1,
			Name:     "Player " + string(rune('A'+i-1)),
			Position: pos,
			Cost:     cost,
		})
	}
	return catalog.NewSnapshot(players, 1, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
}

func rosterIDs() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
}

func TestValidateRoster(t *testing.T) {
	snap := testCatalog()

	tests := []struct {
		name      string
		ids       []int
		mutate    func(*Rules)
		targetErr error
		wantCost  int64
	}{
		{
			name:     "valid roster at exact budget",
			ids:      rosterIDs(),
			wantCost: 1000,
		},
		{
			name:      "too few players",
			ids:       []int{1, 2, 3},
			targetErr: ErrInvalidRosterSize,
		},
		{
			name:      "duplicate player",
			ids:       []int{1, 1, 3, 4, 5, 6, 7, 8, 9, 10, 11},
			targetErr: ErrDuplicatePlayer,
		},
		{
			name:      "unknown player",
			ids:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 999},
			targetErr: ErrUnknownPlayer,
		},
		{
			name:      "three players from same club",
			ids:       []int{1, 9, 17, 4, 5, 6, 7, 8, 2, 10, 11},
			targetErr: ErrClubCapExceeded,
		},
		{
			name: "budget exceeded",
			ids:  rosterIDs(),
			mutate: func(r *Rules) {
				r.BudgetCeiling = 900
			},
			targetErr: ErrBudgetExceeded,
		},
		{
			name: "formation enforced and unmet",
			// swap the only goalkeeper for a second forward
			ids: []int{20, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
			mutate: func(r *Rules) {
				r.FormationCheck = true
			},
			targetErr: ErrInsufficientFormation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			if tt.mutate != nil {
				tt.mutate(&rules)
			}

			cost, err := ValidateRoster(tt.ids, snap, rules)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if cost != tt.wantCost {
					t.Fatalf("expected total cost %d, got %d", tt.wantCost, cost)
				}
				return
			}

			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestValidateRoster_BudgetOverageAmount(t *testing.T) {
	snap := testCatalog()
	rules := DefaultRules()
	rules.BudgetCeiling = 950

	_, err := ValidateRoster(rosterIDs(), snap, rules)

	var budgetErr *BudgetError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected *BudgetError, got %v", err)
	}
	if budgetErr.Overage != 50 {
		t.Fatalf("expected overage 50, got %d", budgetErr.Overage)
	}
}

func TestValidateRoster_ExactBudgetLeavesZeroRemaining(t *testing.T) {
	snap := testCatalog()
	rules := DefaultRules()

	cost, err := ValidateRoster(rosterIDs(), snap, rules)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if remaining := rules.BudgetCeiling - cost; remaining != 0 {
		t.Fatalf("expected remaining budget 0, got %d", remaining)
	}
}
