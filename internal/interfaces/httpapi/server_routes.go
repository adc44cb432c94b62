package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /api/v1/players/{playerID}/history", handler.GetPlayerHistory)
	mux.HandleFunc("GET /api/v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /api/v1/prizepool", handler.GetPrizePool)
}

func registerContestRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /api/v1/team", RequireAuth(verifier, http.HandlerFunc(handler.SubmitTeam)))
	mux.Handle("POST /api/v1/team/transfer", RequireAuth(verifier, http.HandlerFunc(handler.Transfer)))
	mux.Handle("POST /api/v1/team/cards/wildcard", RequireAuth(verifier, http.HandlerFunc(handler.ActivateWildcard)))
	mux.Handle("POST /api/v1/team/cards/triple-captain", RequireAuth(verifier, http.HandlerFunc(handler.ActivateTripleCaptain)))
	mux.Handle("POST /api/v1/team/cards/wild-bench", RequireAuth(verifier, http.HandlerFunc(handler.ActivateWildBench)))
	mux.Handle("GET /api/v1/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("POST /api/v1/me/points", RequireAuth(verifier, http.HandlerFunc(handler.ComputePoints)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /api/v1/internal/recompute-season",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecomputeSeason)))
}
