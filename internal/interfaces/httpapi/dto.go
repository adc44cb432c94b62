package httpapi

import (
	"time"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
	"github.com/footylabs/fantasy-contest/internal/domain/player"
	"github.com/footylabs/fantasy-contest/internal/usecase"
)

type playerDTO struct {
	ID            int    `json:"id"`
	ClubID        int    `json:"clubId"`
	Name          string `json:"name"`
	Position      string `json:"position"`
	Cost          int64  `json:"cost"`
	SeasonPoints  int    `json:"seasonPoints"`
	SeasonGoals   int    `json:"seasonGoals"`
	SeasonAssists int    `json:"seasonAssists"`
	SeasonMinutes int    `json:"seasonMinutes"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:            p.ID,
		ClubID:        p.ClubID,
		Name:          p.Name,
		Position:      string(p.Position),
		Cost:          p.Cost,
		SeasonPoints:  p.SeasonPoints,
		SeasonGoals:   p.SeasonGoals,
		SeasonAssists: p.SeasonAssists,
		SeasonMinutes: p.SeasonMinutes,
	}
}

type gameweekStatDTO struct {
	Gameweek    int `json:"gameweek"`
	Points      int `json:"points"`
	Minutes     int `json:"minutes"`
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	CleanSheets int `json:"cleanSheets"`
	Bonus       int `json:"bonus"`
	Cards       int `json:"cards"`
}

func gameweekStatToDTO(s player.GameweekStat) gameweekStatDTO {
	return gameweekStatDTO{
		Gameweek:    s.Gameweek,
		Points:      s.Points,
		Minutes:     s.Minutes,
		Goals:       s.Goals,
		Assists:     s.Assists,
		CleanSheets: s.CleanSheets,
		Bonus:       s.Bonus,
		Cards:       s.Cards,
	}
}

type cardDTO struct {
	Used               bool `json:"used"`
	ActivationGameweek int  `json:"activationGameweek,omitempty"`
	PlayerID           int  `json:"playerId,omitempty"`
}

type stateDTO struct {
	UserID          string    `json:"userId"`
	DisplayName     string    `json:"displayName"`
	Locked          bool      `json:"locked"`
	Roster          []int     `json:"roster"`
	Budget          int64     `json:"budget"`
	FreeTransfers   int       `json:"freeTransfers"`
	CurrentGameweek int       `json:"currentGameweek"`
	GameweekPoints  int       `json:"gameweekPoints"`
	GameweekPenalty int       `json:"gameweekPenalty"`
	SeasonPoints    int       `json:"seasonPoints"`
	Wildcard        cardDTO   `json:"wildcard"`
	TripleCaptain   cardDTO   `json:"tripleCaptain"`
	WildBench       cardDTO   `json:"wildBench"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Degraded is set when the gameweek backing this response came from
	// the last known good value instead of the provider.
	Degraded bool `json:"degraded,omitempty"`
}

func stateToDTO(st contest.State, degraded bool) stateDTO {
	return stateDTO{
		UserID:          st.UserID,
		DisplayName:     st.DisplayName,
		Locked:          st.Locked,
		Roster:          st.Roster,
		Budget:          st.Budget,
		FreeTransfers:   st.FreeTransfers,
		CurrentGameweek: st.CurrentGameweek,
		GameweekPoints:  st.GameweekPoints,
		GameweekPenalty: st.GameweekPenalty,
		SeasonPoints:    st.SeasonPoints,
		Wildcard:        cardToDTO(st.Wildcard),
		TripleCaptain:   cardToDTO(st.TripleCaptain),
		WildBench:       cardToDTO(st.WildBench),
		UpdatedAt:       st.UpdatedAt,
		Degraded:        degraded,
	}
}

func cardToDTO(c contest.CardState) cardDTO {
	return cardDTO{
		Used:               c.Used,
		ActivationGameweek: c.ActivationGameweek,
		PlayerID:           c.PlayerID,
	}
}

type pointsResultDTO struct {
	Gameweek  int                    `json:"gameweek"`
	RawPoints int                    `json:"rawPoints"`
	Penalty   int                    `json:"penalty"`
	Total     int                    `json:"total"`
	Season    int                    `json:"seasonPoints"`
	Breakdown []usecase.PlayerPoints `json:"breakdown"`
	Warnings  []string               `json:"warnings,omitempty"`
	Degraded  bool                   `json:"degraded,omitempty"`
}

func pointsResultToDTO(res usecase.PointsResult) pointsResultDTO {
	return pointsResultDTO{
		Gameweek:  res.Gameweek,
		RawPoints: res.RawPoints,
		Penalty:   res.Penalty,
		Total:     res.Total,
		Season:    res.State.SeasonPoints,
		Breakdown: res.Breakdown,
		Warnings:  res.Warnings,
		Degraded:  res.Degraded,
	}
}
