package contest

import (
	"fmt"

	"github.com/footylabs/fantasy-contest/internal/domain/catalog"
)

// TransferOptions carries caller choices for one swap. AllowPointPenalty
// opts into a fixed point deduction when no free transfer is available;
// without it the engine rejects with ErrNoFreeTransfers.
type TransferOptions struct {
	AllowPointPenalty bool
}

// ApplyTransfer replaces outgoingID with incomingID in a locked roster.
// Gameweek rollover happens as a side effect of entering the engine, so the
// caller never has to remember it. The input state is never mutated; on any
// error the returned state is the zero value.
//
// On success all five mutable fields are consistent: roster slot swapped in
// place, budget updated by the cost delta, free transfers decremented unless
// the wildcard is active, rollover bookkeeping current, penalty recorded when
// the caller opted into a penalty transfer.
func ApplyTransfer(st State, outgoingID, incomingID int, snap catalog.Snapshot, currentGameweek int, rules Rules, opts TransferOptions) (State, error) {
	if !st.Locked {
		return State{}, fmt.Errorf("%w: submit a team before transferring", ErrNotLocked)
	}
	if outgoingID == incomingID {
		return State{}, fmt.Errorf("%w: %d", ErrPlayerInRoster, incomingID)
	}
	if !st.InRoster(outgoingID) {
		return State{}, fmt.Errorf("%w: %d", ErrPlayerNotInRoster, outgoingID)
	}
	if st.InRoster(incomingID) {
		return State{}, fmt.Errorf("%w: %d", ErrPlayerInRoster, incomingID)
	}

	out := RolloverIfNeeded(st, currentGameweek, rules)

	outgoing, ok := snap.Player(outgoingID)
	if !ok {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, outgoingID)
	}
	incoming, ok := snap.Player(incomingID)
	if !ok {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, incomingID)
	}

	wildcardActive := out.Wildcard.ActiveIn(currentGameweek)

	if rules.StrictPositions && incoming.Position != outgoing.Position {
		return State{}, fmt.Errorf("%w: %s -> %s", ErrPositionMismatch, outgoing.Position, incoming.Position)
	}

	next := make([]int, len(out.Roster))
	copy(next, out.Roster)
	for i, id := range next {
		if id == outgoingID {
			next[i] = incomingID
			break
		}
	}

	counts, err := clubCounts(next, snap)
	if err != nil {
		return State{}, err
	}
	for clubID, count := range counts {
		if count > rules.ClubCap {
			return State{}, fmt.Errorf("%w: club=%d max=%d", ErrClubCapExceeded, clubID, rules.ClubCap)
		}
	}

	newBudget := out.Budget + outgoing.Cost - incoming.Cost
	if newBudget < 0 {
		return State{}, &BudgetError{Overage: -newBudget}
	}

	penaltyTransfer := false
	if !wildcardActive && out.FreeTransfers <= 0 {
		if !opts.AllowPointPenalty {
			return State{}, fmt.Errorf("%w: retry with the point-penalty option", ErrNoFreeTransfers)
		}
		penaltyTransfer = true
	}

	out.Roster = next
	out.Budget = newBudget
	switch {
	case wildcardActive:
		// Wildcard grants unlimited swaps this gameweek without decrementing.
	case penaltyTransfer:
		out.GameweekPenalty += rules.PenaltyPoints
	default:
		out.FreeTransfers--
	}

	return out, nil
}
