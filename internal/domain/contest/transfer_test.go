package contest

import (
	"errors"
	"testing"
)

func lockedState() State {
	return State{
		UserID:               "user-1",
		DisplayName:          "Garuda XI",
		Locked:               true,
		Roster:               rosterIDs(),
		Budget:               0,
		FreeTransfers:        1,
		CurrentGameweek:      1,
		LastTransferGameweek: 1,
	}
}

func TestApplyTransfer_Success(t *testing.T) {
	snap := testCatalog()
	rules := DefaultRules()
	st := lockedState()
	st.Budget = 40

	// out id 11 (FWD, cost 100) for id 22 (FWD, cost 120)
	next, err := ApplyTransfer(st, 11, 22, snap, 1, rules, TransferOptions{})
	if err != nil {
		t.Fatalf("expected transfer to succeed, got %v", err)
	}

	if next.Budget != st.Budget+100-120 {
		t.Fatalf("budget invariant violated: got %d, want %d", next.Budget, st.Budget+100-120)
	}
	if next.FreeTransfers != 0 {
		t.Fatalf("expected free transfers decremented to 0, got %d", next.FreeTransfers)
	}
	if next.Roster[10] != 22 {
		t.Fatalf("expected slot 10 replaced in place, got roster %v", next.Roster)
	}
	for i, id := range st.Roster[:10] {
		if next.Roster[i] != id {
			t.Fatalf("expected roster order preserved at slot %d, got %v", i, next.Roster)
		}
	}
	if st.Roster[10] != 11 {
		t.Fatalf("input state was mutated: %v", st.Roster)
	}
}

func TestApplyTransfer_Errors(t *testing.T) {
	snap := testCatalog()
	rules := DefaultRules()

	tests := []struct {
		name      string
		mutate    func(*State)
		outgoing  int
		incoming  int
		targetErr error
	}{
		{
			name: "roster not locked",
			mutate: func(st *State) {
				st.Locked = false
			},
			outgoing:  1,
			incoming:  12,
			targetErr: ErrNotLocked,
		},
		{
			name:      "outgoing not in roster",
			outgoing:  20,
			incoming:  22,
			targetErr: ErrPlayerNotInRoster,
		},
		{
			name:      "incoming already in roster",
			outgoing:  1,
			incoming:  2,
			targetErr: ErrPlayerInRoster,
		},
		{
			name:      "position mismatch",
			outgoing:  1, // GK
			incoming:  18, // MID
			targetErr: ErrPositionMismatch,
		},
		{
			name:      "club cap exceeded after swap",
			outgoing:  5,  // MID, club 5
			incoming:  17, // MID, club 1 already at 2
			targetErr: ErrClubCapExceeded,
		},
		{
			name:      "budget shortfall",
			outgoing:  1,  // cost 90
			incoming:  12, // cost 120, budget 0
			targetErr: ErrBudgetExceeded,
		},
		{
			name: "no free transfers",
			mutate: func(st *State) {
				st.FreeTransfers = 0
				st.Budget = 100
			},
			outgoing:  11,
			incoming:  22,
			targetErr: ErrNoFreeTransfers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := lockedState()
			if tt.mutate != nil {
				tt.mutate(&st)
			}

			_, err := ApplyTransfer(st, tt.outgoing, tt.incoming, snap, 1, rules, TransferOptions{})
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestApplyTransfer_BudgetShortfallAmount(t *testing.T) {
	snap := testCatalog()
	st := lockedState()
	st.Budget = 10

	// incoming costs 120, outgoing 90; shortfall = (120-90) - 10 = 20
	_, err := ApplyTransfer(st, 1, 12, snap, 1, DefaultRules(), TransferOptions{})

	var budgetErr *BudgetError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected *BudgetError, got %v", err)
	}
	if budgetErr.Overage != 20 {
		t.Fatalf("expected shortfall 20, got %d", budgetErr.Overage)
	}
}

func TestApplyTransfer_PenaltyOptIn(t *testing.T) {
	snap := testCatalog()
	rules := DefaultRules()
	st := lockedState()
	st.FreeTransfers = 0
	st.Budget = 100

	next, err := ApplyTransfer(st, 11, 22, snap, 1, rules, TransferOptions{AllowPointPenalty: true})
	if err != nil {
		t.Fatalf("expected penalty transfer to succeed, got %v", err)
	}
	if next.GameweekPenalty != rules.PenaltyPoints {
		t.Fatalf("expected penalty %d recorded, got %d", rules.PenaltyPoints, next.GameweekPenalty)
	}
	if next.FreeTransfers != 0 {
		t.Fatalf("expected free transfers untouched by penalty path, got %d", next.FreeTransfers)
	}
}

func TestApplyTransfer_WildcardNeverDecrements(t *testing.T) {
	snap := testCatalog()
	rules := DefaultRules()
	st := lockedState()
	st.Budget = 200
	st.Wildcard = CardState{Used: true, ActivationGameweek: 1}

	swaps := [][2]int{{11, 22}, {5, 16}, {2, 13}}
	for _, swap := range swaps {
		next, err := ApplyTransfer(st, swap[0], swap[1], snap, 1, rules, TransferOptions{})
		if err != nil {
			t.Fatalf("wildcard transfer %v failed: %v", swap, err)
		}
		if next.FreeTransfers != st.FreeTransfers {
			t.Fatalf("wildcard transfer decremented free transfers: %d -> %d", st.FreeTransfers, next.FreeTransfers)
		}
		st = next
	}
}

func TestApplyTransfer_RollsOverOnGameweekChange(t *testing.T) {
	snap := testCatalog()
	rules := DefaultRules()
	st := lockedState()
	st.FreeTransfers = 0
	st.Budget = 100
	st.GameweekPenalty = 4

	// New gameweek: the engine must reset the counter itself before gating.
	next, err := ApplyTransfer(st, 11, 22, snap, 2, rules, TransferOptions{})
	if err != nil {
		t.Fatalf("expected rollover to grant a free transfer, got %v", err)
	}
	if next.CurrentGameweek != 2 || next.LastTransferGameweek != 2 {
		t.Fatalf("expected gameweek bookkeeping at 2, got current=%d last=%d", next.CurrentGameweek, next.LastTransferGameweek)
	}
	if next.FreeTransfers != 0 {
		t.Fatalf("expected the rolled-over free transfer consumed, got %d", next.FreeTransfers)
	}
	if next.GameweekPenalty != 0 {
		t.Fatalf("expected penalty reset on rollover, got %d", next.GameweekPenalty)
	}
}

func TestRolloverIfNeeded_Idempotent(t *testing.T) {
	rules := DefaultRules()
	st := lockedState()
	st.FreeTransfers = 0
	st.LastTransferGameweek = 3

	first := RolloverIfNeeded(st, 4, rules)
	if first.FreeTransfers != rules.FreeTransfersPerGameweek {
		t.Fatalf("expected free transfers reset to %d, got %d", rules.FreeTransfersPerGameweek, first.FreeTransfers)
	}

	first.FreeTransfers = 0 // consumed within gameweek 4
	second := RolloverIfNeeded(first, 4, rules)
	if second.FreeTransfers != 0 {
		t.Fatalf("second rollover in same gameweek must be a no-op, got %d free transfers", second.FreeTransfers)
	}
	if second.LastTransferGameweek != 4 || second.CurrentGameweek != 4 {
		t.Fatalf("unexpected gameweek bookkeeping: %+v", second)
	}
}
