package player

import "fmt"

// Position represents football position categories used in contest rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player is one selectable athlete from the provider catalog. Cost is in
// tenths of a currency unit, matching the provider's fixed-point encoding.
type Player struct {
	ID            int
	ClubID        int
	Name          string
	Position      Position
	Cost          int64
	SeasonPoints  int
	SeasonGoals   int
	SeasonAssists int
	SeasonMinutes int
}

// GameweekStat is one scoring-period stat record for a player.
type GameweekStat struct {
	Gameweek    int
	Points      int
	Minutes     int
	Goals       int
	Assists     int
	CleanSheets int
	Bonus       int
	Cards       int
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if p.ClubID <= 0 {
		return fmt.Errorf("player club id must be greater than zero")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Cost <= 0 {
		return fmt.Errorf("player cost must be greater than zero")
	}

	return nil
}
