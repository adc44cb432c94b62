package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/footylabs/fantasy-contest/internal/domain/player"
	"github.com/footylabs/fantasy-contest/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	snap, err := h.catalogService.Snapshot(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	position := player.Position(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("position"))))
	if position != "" {
		if _, ok := player.AllPositions[position]; !ok {
			writeError(ctx, w, fmt.Errorf("%w: unknown position %q", usecase.ErrInvalidInput, position))
			return
		}
	}

	all := snap.Players()
	out := make([]playerDTO, 0, len(all))
	for _, p := range all {
		if position != "" && p.Position != position {
			continue
		}
		out = append(out, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"gameweek": snap.Gameweek,
		"players":  out,
	})
}

func (h *Handler) GetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerHistory")
	defer span.End()

	playerID, err := strconv.Atoi(strings.TrimSpace(r.PathValue("playerID")))
	if err != nil || playerID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: player id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	history, err := h.catalogService.PlayerHistory(ctx, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]gameweekStatDTO, 0, len(history))
	for _, row := range history {
		out = append(out, gameweekStatToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"playerId": playerID,
		"history":  out,
	})
}
