package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/wizix/pickem-pool/internal/domain/game"
	"github.com/wizix/pickem-pool/internal/platform/cache"
	"github.com/wizix/pickem-pool/internal/platform/logging"
	"github.com/wizix/pickem-pool/internal/platform/resilience"
	"github.com/wizix/pickem-pool/internal/usecase"
)

const (
	defaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

	scoreboardPath = "/scoreboard"
	teamsPath      = "/teams"
	summaryPath    = "/summary"

	// SeasonTypeRegular is the provider's regular-season enum value
	// (1 preseason, 2 regular, 3 postseason).
	SeasonTypeRegular = 2

	maxResponseBytes = 6 << 20
)

var errTransient = crerr.New("score provider transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration
	CurrentSeason  int
	Cache          *cache.Store
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches and normalizes score-provider payloads. Successful fetches
// are memoized in the short-TTL cache; callers must treat a fetch error as
// "no data available now", never as fatal.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	retryBaseDelay time.Duration
	currentSeason  int
	cache          *cache.Store
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	retryBaseDelay := cfg.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
		currentSeason:  cfg.CurrentSeason,
		cache:          cfg.Cache,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchScoreboard returns normalized games for a week. week <= 0 asks the
// provider for its current week.
func (c *Client) FetchScoreboard(ctx context.Context, week, season, seasonType int) (usecase.ScoreboardResult, error) {
	if season <= 0 {
		season = c.currentSeason
	}
	if seasonType <= 0 {
		seasonType = SeasonTypeRegular
	}

	cacheKey := scoreboardCacheKey(week, season, seasonType)
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		if result, ok := cached.(usecase.ScoreboardResult); ok {
			result.Cached = true
			return result, nil
		}
	}

	query := map[string]string{"seasontype": strconv.Itoa(seasonType)}
	if week > 0 {
		query["week"] = strconv.Itoa(week)
	}

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, scoreboardPath, query, &envelope); err != nil {
		return usecase.ScoreboardResult{}, err
	}

	result := c.normalizeScoreboard(envelope, seasonType)
	c.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (c *Client) FetchTeams(ctx context.Context) (usecase.TeamsResult, error) {
	const cacheKey = "espn:teams"
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		if result, ok := cached.(usecase.TeamsResult); ok {
			result.Cached = true
			return result, nil
		}
	}

	var envelope teamsEnvelope
	if err := c.doJSON(ctx, teamsPath, nil, &envelope); err != nil {
		return usecase.TeamsResult{}, err
	}

	result := usecase.TeamsResult{Teams: normalizeTeams(envelope)}
	c.cacheSet(ctx, cacheKey, result)
	return result, nil
}

// FetchGameSummary returns the provider's detailed event payload without
// normalization.
func (c *Client) FetchGameSummary(ctx context.Context, eventID string) (usecase.SummaryResult, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return usecase.SummaryResult{}, fmt.Errorf("%w: event id is required", usecase.ErrInvalidInput)
	}

	cacheKey := "espn:summary:" + eventID
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		if result, ok := cached.(usecase.SummaryResult); ok {
			result.Cached = true
			return result, nil
		}
	}

	raw, err := c.fetchRaw(ctx, summaryPath, map[string]string{"event": eventID})
	if err != nil {
		return usecase.SummaryResult{}, err
	}

	result := usecase.SummaryResult{Payload: raw}
	c.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (c *Client) normalizeScoreboard(envelope scoreboardEnvelope, seasonType int) usecase.ScoreboardResult {
	season := envelope.Season.Year
	if season <= 0 {
		season = c.currentSeason
	}
	week := envelope.Week.Number

	games := make([]game.Game, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		games = append(games, normalizeEvent(event, week, season, seasonType))
	}

	return usecase.ScoreboardResult{Games: games, Week: week, Season: season}
}

// normalizeEvent maps one provider event to a game record. Missing nested
// fields degrade to zero values rather than dropping the event.
func normalizeEvent(event scoreboardEvent, week, season, seasonType int) game.Game {
	g := game.Game{
		EventID:    strings.TrimSpace(event.ID),
		Name:       event.Name,
		ShortName:  event.ShortName,
		Week:       week,
		Season:     season,
		SeasonType: seasonType,
		Status:     game.StatusScheduled,
	}

	if kickoff := parseEventDate(event.Date); kickoff != nil {
		g.Kickoff = *kickoff
	}

	if len(event.Competitions) == 0 {
		return g
	}
	competition := event.Competitions[0]
	g.Status, g.StatusDetail = mapProviderStatus(competition.Status.Type)

	for _, competitor := range competition.Competitors {
		side := game.Side{
			TeamID:       strings.TrimSpace(competitor.ID),
			Name:         competitor.Team.Name,
			DisplayName:  competitor.Team.DisplayName,
			Abbreviation: competitor.Team.Abbreviation,
			Logo:         competitor.Team.Logo,
			Score:        coerceScore(competitor.Score),
			Winner:       competitor.Winner,
		}
		switch strings.ToLower(strings.TrimSpace(competitor.HomeAway)) {
		case "home":
			g.Home = side
		case "away":
			g.Away = side
		}
	}

	return g
}

func normalizeTeams(envelope teamsEnvelope) []usecase.ProviderTeam {
	if len(envelope.Sports) == 0 || len(envelope.Sports[0].Leagues) == 0 {
		return []usecase.ProviderTeam{}
	}

	records := envelope.Sports[0].Leagues[0].Teams
	out := make([]usecase.ProviderTeam, 0, len(records))
	for _, item := range records {
		team := usecase.ProviderTeam{
			ID:             item.Team.ID,
			Name:           item.Team.Name,
			DisplayName:    item.Team.DisplayName,
			Abbreviation:   item.Team.Abbreviation,
			Color:          item.Team.Color,
			AlternateColor: item.Team.AlternateColor,
		}
		if team.Color == "" {
			team.Color = "000000"
		}
		if team.AlternateColor == "" {
			team.AlternateColor = "FFFFFF"
		}
		if len(item.Team.Logos) > 0 {
			team.Logo = item.Team.Logos[0].Href
		}
		out = append(out, team)
	}

	return out
}

// coerceScore parses the leading integer of a provider score string;
// anything non-numeric coerces to 0.
func coerceScore(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	end := 0
	if raw[0] == '-' || raw[0] == '+' {
		end = 1
	}
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}

	value, err := strconv.Atoi(raw[:end])
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func parseEventDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	raw, err := c.fetchRaw(ctx, path, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) fetchRaw(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "score provider circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: score provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

// executeRequest performs the HTTP call with linearly increasing retry delays
// (attempt index times the base delay).
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			default:
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxAttempts-1 {
			break
		}
		delay := time.Duration(attempt+1) * c.retryBaseDelay
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "score provider request failed", "url", fullURL, "attempts", c.maxAttempts, "error", lastErr)
	return nil, lastErr
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func (c *Client) cacheGet(ctx context.Context, key string) (any, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(ctx, key)
}

func (c *Client) cacheSet(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	c.cache.Set(ctx, key, value)
}

func scoreboardCacheKey(week, season, seasonType int) string {
	return fmt.Sprintf("espn:scoreboard:%d:%d:%d", season, seasonType, week)
}
