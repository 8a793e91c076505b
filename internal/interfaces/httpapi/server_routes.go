package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/scoreboard", handler.GetScoreboard)
	mux.HandleFunc("GET /v1/scoreboard/live", handler.ListLiveGames)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/games/{eventID}/summary", handler.GetGameSummary)
	mux.HandleFunc("GET /v1/week", handler.GetCurrentWeek)
	mux.HandleFunc("GET /v1/realtime", handler.StreamEvents)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedPoolRoutes(mux, handler, verifier)
	registerAuthorizedPickRoutes(mux, handler, verifier)
	registerAuthorizedProfileRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("POST /v1/internal/jobs/recalculate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateJob)))
}

func registerAuthorizedPoolRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/pools", RequireAuth(verifier, http.HandlerFunc(handler.CreatePool)))
	mux.Handle("GET /v1/pools", RequireAuth(verifier, http.HandlerFunc(handler.ListPools)))
	mux.Handle("GET /v1/pools/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPools)))
	mux.Handle("GET /v1/pools/{poolID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPool)))
	mux.Handle("POST /v1/pools/{poolID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinPool)))
	mux.Handle("POST /v1/pools/{poolID}/leave", RequireAuth(verifier, http.HandlerFunc(handler.LeavePool)))
	mux.Handle("GET /v1/pools/{poolID}/members", RequireAuth(verifier, http.HandlerFunc(handler.ListPoolMembers)))
	mux.Handle("GET /v1/pools/{poolID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeaderboard)))
}

func registerAuthorizedPickRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/pools/{poolID}/picks", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPicks)))
	mux.Handle("GET /v1/pools/{poolID}/picks/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPicks)))
	mux.Handle("GET /v1/pools/{poolID}/picks", RequireAuth(verifier, http.HandlerFunc(handler.ListPoolPicks)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/users/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PUT /v1/users/me", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMyProfile)))
}
