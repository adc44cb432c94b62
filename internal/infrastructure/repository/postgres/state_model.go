package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/footylabs/fantasy-contest/internal/domain/contest"
)

type stateTableModel struct {
	UserID    string    `db:"user_id"`
	Document  []byte    `db:"document"`
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// stateDocument is the JSONB payload. Identity, version and timestamps
// live in their own columns; everything else rides in the document so
// rule changes do not need schema migrations.
type stateDocument struct {
	DisplayName          string           `json:"displayName"`
	Locked               bool             `json:"locked"`
	Roster               []int            `json:"roster"`
	Budget               int64            `json:"budget"`
	FreeTransfers        int              `json:"freeTransfers"`
	CurrentGameweek      int              `json:"currentGameweek"`
	LastTransferGameweek int              `json:"lastTransferGameweek"`
	GameweekPoints       int              `json:"gameweekPoints"`
	GameweekPenalty      int              `json:"gameweekPenalty"`
	SeasonPoints         int              `json:"seasonPoints"`
	LastScoredGameweek   int              `json:"lastScoredGameweek"`
	Wildcard             cardStateDocument `json:"wildcard"`
	TripleCaptain        cardStateDocument `json:"tripleCaptain"`
	WildBench            cardStateDocument `json:"wildBench"`
}

type cardStateDocument struct {
	Used               bool `json:"used"`
	ActivationGameweek int  `json:"activationGameweek,omitempty"`
	PlayerID           int  `json:"playerId,omitempty"`
}

func encodeState(st contest.State) ([]byte, error) {
	doc := stateDocument{
		DisplayName:          st.DisplayName,
		Locked:               st.Locked,
		Roster:               st.Roster,
		Budget:               st.Budget,
		FreeTransfers:        st.FreeTransfers,
		CurrentGameweek:      st.CurrentGameweek,
		LastTransferGameweek: st.LastTransferGameweek,
		GameweekPoints:       st.GameweekPoints,
		GameweekPenalty:      st.GameweekPenalty,
		SeasonPoints:         st.SeasonPoints,
		LastScoredGameweek:   st.LastScoredGameweek,
		Wildcard:             encodeCard(st.Wildcard),
		TripleCaptain:        encodeCard(st.TripleCaptain),
		WildBench:            encodeCard(st.WildBench),
	}

	encoded, err := sonic.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal contest state document: %w", err)
	}
	return encoded, nil
}

func decodeState(row stateTableModel) (contest.State, error) {
	var doc stateDocument
	if err := sonic.Unmarshal(row.Document, &doc); err != nil {
		return contest.State{}, fmt.Errorf("unmarshal contest state document user_id=%s: %w", row.UserID, err)
	}

	return contest.State{
		UserID:               row.UserID,
		DisplayName:          doc.DisplayName,
		Locked:               doc.Locked,
		Roster:               doc.Roster,
		Budget:               doc.Budget,
		FreeTransfers:        doc.FreeTransfers,
		CurrentGameweek:      doc.CurrentGameweek,
		LastTransferGameweek: doc.LastTransferGameweek,
		GameweekPoints:       doc.GameweekPoints,
		GameweekPenalty:      doc.GameweekPenalty,
		SeasonPoints:         doc.SeasonPoints,
		LastScoredGameweek:   doc.LastScoredGameweek,
		Wildcard:             decodeCard(doc.Wildcard),
		TripleCaptain:        decodeCard(doc.TripleCaptain),
		WildBench:            decodeCard(doc.WildBench),
		Version:              row.Version,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func encodeCard(c contest.CardState) cardStateDocument {
	return cardStateDocument{
		Used:               c.Used,
		ActivationGameweek: c.ActivationGameweek,
		PlayerID:           c.PlayerID,
	}
}

func decodeCard(d cardStateDocument) contest.CardState {
	return contest.CardState{
		Used:               d.Used,
		ActivationGameweek: d.ActivationGameweek,
		PlayerID:           d.PlayerID,
	}
}
