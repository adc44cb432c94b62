package contest

import (
	"errors"
	"time"
)

var (
	ErrNotLocked         = errors.New("roster is not locked yet")
	ErrAlreadyLocked     = errors.New("roster is already locked")
	ErrCardAlreadyUsed   = errors.New("special card already used this season")
	ErrPlayerNotInRoster = errors.New("player is not in the roster")
	ErrPlayerInRoster    = errors.New("player is already in the roster")
	ErrVersionConflict   = errors.New("user state was modified concurrently")
)

// CardState tracks one season-single-use special card. A card is active for
// a gameweek when Used is set and ActivationGameweek equals that gameweek.
type CardState struct {
	Used               bool
	ActivationGameweek int
	PlayerID           int
}

func (c CardState) ActiveIn(gameweek int) bool {
	return c.Used && c.ActivationGameweek == gameweek
}

// State is one user's contest document. It is treated as a value: operations
// return an updated copy and never mutate the input. Version backs the
// optimistic concurrency check in the persistence layer.
type State struct {
	UserID      string
	DisplayName string
	Locked      bool
	Roster      []int
	Budget      int64

	FreeTransfers        int
	CurrentGameweek      int
	LastTransferGameweek int

	GameweekPoints     int
	GameweekPenalty    int
	SeasonPoints       int
	LastScoredGameweek int

	Wildcard      CardState
	TripleCaptain CardState
	WildBench     CardState

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy; the roster slice is the only reference field.
func (s State) Clone() State {
	copied := s
	copied.Roster = append([]int(nil), s.Roster...)
	return copied
}

func (s State) InRoster(playerID int) bool {
	for _, id := range s.Roster {
		if id == playerID {
			return true
		}
	}
	return false
}

// ScoringSet is the set of player ids that count for a gameweek: the roster
// plus the wild-bench extra when that card is active.
func (s State) ScoringSet(gameweek int) []int {
	out := append([]int(nil), s.Roster...)
	if s.WildBench.ActiveIn(gameweek) && s.WildBench.PlayerID > 0 {
		out = append(out, s.WildBench.PlayerID)
	}
	return out
}
