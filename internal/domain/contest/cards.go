package contest

import (
	"fmt"

	"github.com/footylabs/fantasy-contest/internal/domain/catalog"
)

// ActivateWildcard arms unlimited free transfers for the current gameweek.
// Single-use per season; the budget rule is never waived.
func ActivateWildcard(st State, currentGameweek int, rules Rules) (State, error) {
	if !st.Locked {
		return State{}, fmt.Errorf("%w: submit a team before activating cards", ErrNotLocked)
	}
	if st.Wildcard.Used {
		return State{}, fmt.Errorf("%w: wildcard", ErrCardAlreadyUsed)
	}

	out := RolloverIfNeeded(st, currentGameweek, rules)
	out.Wildcard = CardState{Used: true, ActivationGameweek: currentGameweek}
	return out, nil
}

// ActivateTripleCaptain designates one roster player whose points triple for
// the current gameweek.
func ActivateTripleCaptain(st State, captainID, currentGameweek int, rules Rules) (State, error) {
	if !st.Locked {
		return State{}, fmt.Errorf("%w: submit a team before activating cards", ErrNotLocked)
	}
	if st.TripleCaptain.Used {
		return State{}, fmt.Errorf("%w: triple captain", ErrCardAlreadyUsed)
	}
	if !st.InRoster(captainID) {
		return State{}, fmt.Errorf("%w: %d", ErrPlayerNotInRoster, captainID)
	}

	out := RolloverIfNeeded(st, currentGameweek, rules)
	out.TripleCaptain = CardState{Used: true, ActivationGameweek: currentGameweek, PlayerID: captainID}
	return out, nil
}

// ActivateWildBench adds a 12th scoring player for the current gameweek. The
// club cap is checked over the joint 12-player set.
func ActivateWildBench(st State, extraPlayerID, currentGameweek int, snap catalog.Snapshot, rules Rules) (State, error) {
	if !st.Locked {
		return State{}, fmt.Errorf("%w: submit a team before activating cards", ErrNotLocked)
	}
	if st.WildBench.Used {
		return State{}, fmt.Errorf("%w: wild bench", ErrCardAlreadyUsed)
	}
	if st.InRoster(extraPlayerID) {
		return State{}, fmt.Errorf("%w: %d", ErrPlayerInRoster, extraPlayerID)
	}

	joint := append(append([]int(nil), st.Roster...), extraPlayerID)
	counts, err := clubCounts(joint, snap)
	if err != nil {
		return State{}, err
	}
	for clubID, count := range counts {
		if count > rules.ClubCap {
			return State{}, fmt.Errorf("%w: club=%d max=%d", ErrClubCapExceeded, clubID, rules.ClubCap)
		}
	}

	out := RolloverIfNeeded(st, currentGameweek, rules)
	out.WildBench = CardState{Used: true, ActivationGameweek: currentGameweek, PlayerID: extraPlayerID}
	return out, nil
}
