package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/platform/cache"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/usecase"
)

const scoreboardFixture = `{
  "week": {"number": 3},
  "season": {"year": 2025},
  "events": [
    {
      "id": "401671789",
      "name": "Kansas City Chiefs at Atlanta Falcons",
      "shortName": "KC @ ATL",
      "date": "2025-09-21T17:00Z",
      "competitions": [
        {
          "competitors": [
            {
              "id": "1",
              "homeAway": "home",
              "score": "17.5",
              "winner": false,
              "team": {"name": "Falcons", "displayName": "Atlanta Falcons", "abbreviation": "ATL", "logo": "https://cdn.example/atl.png"}
            },
            {
              "id": "12",
              "homeAway": "away",
              "score": "21",
              "winner": true,
              "team": {"name": "Chiefs", "displayName": "Kansas City Chiefs", "abbreviation": "KC", "logo": "https://cdn.example/kc.png"}
            }
          ],
          "status": {"type": {"name": "STATUS_FINAL", "detail": "Final", "completed": true}}
        }
      ]
    },
    {
      "id": "401671790",
      "name": "Green Bay Packers at Tennessee Titans",
      "shortName": "GB @ TEN",
      "date": "2025-09-21T17:00Z",
      "competitions": [
        {
          "competitors": [
            {"id": "10", "homeAway": "home", "score": "7", "team": {"name": "Titans", "displayName": "Tennessee Titans", "abbreviation": "TEN"}},
            {"id": "9", "homeAway": "away", "score": "abc", "team": {"name": "Packers", "displayName": "Green Bay Packers", "abbreviation": "GB"}}
          ],
          "status": {"type": {"name": "STATUS_IN_PROGRESS", "detail": "10:23 - 2nd Quarter", "completed": false}}
        }
      ]
    },
    {
      "id": "401671791",
      "name": "Placeholder Game",
      "shortName": "TBD @ TBD",
      "date": "",
      "competitions": []
    }
  ]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		MaxAttempts:    3,
		RetryBaseDelay: time.Millisecond,
		CurrentSeason:  2025,
		Cache:          cache.NewStore(30 * time.Second),
		Logger:         logging.NewNop(),
	})
	return client, server
}

func TestFetchScoreboardNormalizesEveryEvent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != scoreboardPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("week"); got != "3" {
			t.Errorf("expected week=3 query, got %q", got)
		}
		_, _ = w.Write([]byte(scoreboardFixture))
	}))

	result, err := client.FetchScoreboard(context.Background(), 3, 2025, SeasonTypeRegular)
	if err != nil {
		t.Fatalf("fetch scoreboard: %v", err)
	}
	if result.Cached {
		t.Fatal("first fetch must not be marked cached")
	}
	if result.Week != 3 || result.Season != 2025 {
		t.Fatalf("expected week=3 season=2025, got week=%d season=%d", result.Week, result.Season)
	}
	if len(result.Games) != 3 {
		t.Fatalf("expected one game per event, got %d", len(result.Games))
	}

	final := result.Games[0]
	if final.Status != game.StatusCompleted {
		t.Fatalf("expected completed status, got %s", final.Status)
	}
	if final.Home.Score != 17 {
		t.Fatalf("expected fractional score coerced to 17, got %d", final.Home.Score)
	}
	if final.Away.Score != 21 || !final.Away.Winner {
		t.Fatalf("expected away 21/winner, got score=%d winner=%v", final.Away.Score, final.Away.Winner)
	}
	if final.Kickoff.IsZero() {
		t.Fatal("expected kickoff parsed from event date")
	}

	live := result.Games[1]
	if live.Status != game.StatusInProgress {
		t.Fatalf("expected in-progress status, got %s", live.Status)
	}
	if live.Away.Score != 0 {
		t.Fatalf("expected non-numeric score coerced to 0, got %d", live.Away.Score)
	}
	if live.StatusDetail != "10:23 - 2nd Quarter" {
		t.Fatalf("unexpected status detail %q", live.StatusDetail)
	}

	empty := result.Games[2]
	if empty.Status != game.StatusScheduled {
		t.Fatalf("event without competitions must stay scheduled, got %s", empty.Status)
	}
	if empty.EventID != "401671791" {
		t.Fatalf("unexpected event id %q", empty.EventID)
	}
	if empty.Home.Score != 0 || empty.Away.Score != 0 {
		t.Fatal("event without competitions must carry zero scores")
	}
}

func TestFetchScoreboardDefaultsSeason(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"week": {"number": 1}, "events": []}`))
	}))

	result, err := client.FetchScoreboard(context.Background(), 1, 0, 0)
	if err != nil {
		t.Fatalf("fetch scoreboard: %v", err)
	}
	if result.Season != 2025 {
		t.Fatalf("expected configured season fallback 2025, got %d", result.Season)
	}
}

func TestFetchScoreboardServesCacheWithoutNetwork(t *testing.T) {
	var requests atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(scoreboardFixture))
	}))

	first, err := client.FetchScoreboard(context.Background(), 3, 2025, SeasonTypeRegular)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := client.FetchScoreboard(context.Background(), 3, 2025, SeasonTypeRegular)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if got := requests.Load(); got != 1 {
		t.Fatalf("expected exactly one upstream request, got %d", got)
	}
	if first.Cached {
		t.Fatal("first fetch must not be cached")
	}
	if !second.Cached {
		t.Fatal("second fetch must be served from cache")
	}
	if len(second.Games) != len(first.Games) {
		t.Fatalf("cached result diverged: %d vs %d games", len(second.Games), len(first.Games))
	}
}

func TestFetchScoreboardRetriesThenFails(t *testing.T) {
	var requests atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "upstream maintenance", http.StatusBadGateway)
	}))

	_, err := client.FetchScoreboard(context.Background(), 3, 2025, SeasonTypeRegular)
	if err == nil {
		t.Fatal("expected error after retry exhaustion")
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetchScoreboardRejectsMalformedPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events": "not-a-list"`))
	}))

	_, err := client.FetchScoreboard(context.Background(), 3, 2025, SeasonTypeRegular)
	if err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}

func TestFetchTeamsNormalizesRecords(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != teamsPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
  "sports": [{"leagues": [{"teams": [
    {"team": {"id": "12", "name": "Chiefs", "displayName": "Kansas City Chiefs", "abbreviation": "KC", "color": "e31837", "alternateColor": "ffb612", "logos": [{"href": "https://cdn.example/kc.png"}]}},
    {"team": {"id": "33", "name": "Ravens", "displayName": "Baltimore Ravens", "abbreviation": "BAL"}}
  ]}]}]
}`))
	}))

	result, err := client.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if len(result.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(result.Teams))
	}
	if result.Teams[0].Logo != "https://cdn.example/kc.png" {
		t.Fatalf("unexpected logo %q", result.Teams[0].Logo)
	}
	if result.Teams[1].Color != "000000" || result.Teams[1].AlternateColor != "FFFFFF" {
		t.Fatalf("expected color defaults, got %q/%q", result.Teams[1].Color, result.Teams[1].AlternateColor)
	}
}

func TestFetchTeamsEmptyEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sports": []}`))
	}))

	result, err := client.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if result.Teams == nil || len(result.Teams) != 0 {
		t.Fatalf("expected empty non-nil team list, got %#v", result.Teams)
	}
}

func TestFetchGameSummaryPassthrough(t *testing.T) {
	payload := `{"boxscore": {"teams": []}, "drives": {}}`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("event"); got != "401671789" {
			t.Errorf("expected event query, got %q", got)
		}
		_, _ = w.Write([]byte(payload))
	}))

	result, err := client.FetchGameSummary(context.Background(), "401671789")
	if err != nil {
		t.Fatalf("fetch summary: %v", err)
	}
	if string(result.Payload) != payload {
		t.Fatalf("summary payload must pass through unmodified, got %s", result.Payload)
	}

	cached, err := client.FetchGameSummary(context.Background(), "401671789")
	if err != nil {
		t.Fatalf("cached summary: %v", err)
	}
	if !cached.Cached {
		t.Fatal("second summary fetch must be cached")
	}
}

func TestFetchGameSummaryRequiresEventID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.FetchGameSummary(context.Background(), "  ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCoerceScore(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"21", 21},
		{"17.5", 17},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{" 14 ", 14},
	}
	for _, tc := range cases {
		if got := coerceScore(tc.raw); got != tc.want {
			t.Errorf("coerceScore(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}
