package catalog

import (
	"context"
	"time"

	"github.com/footylabs/fantasy-contest/internal/domain/player"
)

// Snapshot is one immutable view of the provider catalog. A snapshot is
// replaced wholesale on refresh and never mutated after construction.
type Snapshot struct {
	players   map[int]player.Player
	ordered   []player.Player
	Gameweek  int
	FetchedAt time.Time
}

func NewSnapshot(players []player.Player, gameweek int, fetchedAt time.Time) Snapshot {
	index := make(map[int]player.Player, len(players))
	ordered := make([]player.Player, 0, len(players))
	for _, p := range players {
		if _, exists := index[p.ID]; exists {
			continue
		}
		index[p.ID] = p
		ordered = append(ordered, p)
	}

	return Snapshot{
		players:   index,
		ordered:   ordered,
		Gameweek:  gameweek,
		FetchedAt: fetchedAt,
	}
}

func (s Snapshot) Player(id int) (player.Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

func (s Snapshot) Players() []player.Player {
	out := make([]player.Player, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s Snapshot) Len() int {
	return len(s.ordered)
}

// Provider describes the upstream player-data feed the catalog is built from.
type Provider interface {
	FetchCatalog(ctx context.Context) ([]player.Player, error)
	FetchGameweekStats(ctx context.Context, playerID int) ([]player.GameweekStat, error)
	CurrentEvent(ctx context.Context) (int, error)
}
