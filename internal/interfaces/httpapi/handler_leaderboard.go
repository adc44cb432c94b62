package httpapi

import (
	"net/http"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	rows, err := h.leaderboardService.Leaderboard(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"entries": rows})
}

func (h *Handler) GetPrizePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrizePool")
	defer span.End()

	pool, err := h.leaderboardService.PrizePool(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pool)
}

func (h *Handler) RecomputeSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeSeason")
	defer span.End()

	report, err := h.leaderboardService.RecomputeSeason(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"entries":   report.Entries,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"elapsedMs": report.Elapsed.Milliseconds(),
	})
}
