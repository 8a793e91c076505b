package usecase

import (
	"context"

	"github.com/wizix/pickem-pool/internal/domain/game"
)

// ScoreProvider is the upstream score source. Implementations must memoize
// successful responses for a short TTL and report cache hits via the Cached
// flag so callers can distinguish live data from recent data.
type ScoreProvider interface {
	FetchScoreboard(ctx context.Context, week, season, seasonType int) (ScoreboardResult, error)
	FetchTeams(ctx context.Context) (TeamsResult, error)
	FetchGameSummary(ctx context.Context, eventID string) (SummaryResult, error)
}

// ScoreboardResult carries normalized games plus the response's week/season
// metadata.
type ScoreboardResult struct {
	Games  []game.Game
	Week   int
	Season int
	Cached bool
}

type TeamsResult struct {
	Teams  []ProviderTeam
	Cached bool
}

// SummaryResult is the provider's per-event payload passed through
// un-normalized.
type SummaryResult struct {
	Payload []byte
	Cached  bool
}

// ProviderTeam is a provider team record, served to clients as-is.
type ProviderTeam struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Abbreviation   string `json:"abbreviation"`
	Logo           string `json:"logo"`
	Color          string `json:"color"`
	AlternateColor string `json:"alternateColor"`
}
