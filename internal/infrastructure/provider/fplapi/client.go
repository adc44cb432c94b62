// Package fplapi implements the player catalog provider against the
// public Fantasy Premier League endpoints.
package fplapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/footylabs/fantasy-contest/internal/domain/player"
	"github.com/footylabs/fantasy-contest/internal/platform/logging"
	"github.com/footylabs/fantasy-contest/internal/platform/resilience"
	"github.com/footylabs/fantasy-contest/internal/usecase"
)

const (
	defaultBaseURL     = "https://fantasy.premierleague.com/api"
	maxResponseBytes   = 8 << 20
	defaultMaxRetries  = 3
	defaultHTTPTimeout = 15 * time.Second
)

var errTransient = crerr.New("fpl transient failure")

var positionByElementType = map[int]player.Position{
	1: player.PositionGoalkeeper,
	2: player.PositionDefender,
	3: player.PositionMidfielder,
	4: player.PositionForward,
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client fetches the bootstrap catalog and per-element gameweek summaries.
// All upstream calls go through a circuit breaker, a retry loop for
// transient failures and a single-flight group keyed by path.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.Group[[]byte]
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
		httpClient.Timeout = defaultHTTPTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if cfg.MaxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.Breaker),
	}
}

// FetchCatalog loads every selectable player from bootstrap-static.
func (c *Client) FetchCatalog(ctx context.Context) ([]player.Player, error) {
	var envelope bootstrapEnvelope
	if err := c.getJSON(ctx, "/bootstrap-static/", &envelope); err != nil {
		return nil, fmt.Errorf("fetch bootstrap: %w", err)
	}

	players := make([]player.Player, 0, len(envelope.Elements))
	for _, el := range envelope.Elements {
		position, ok := positionByElementType[el.ElementType]
		if !ok {
			c.logger.WarnContext(ctx, "skipping element with unknown type",
				"element_id", el.ID, "element_type", el.ElementType)
			continue
		}

		p := player.Player{
			ID:            el.ID,
			ClubID:        el.Team,
			Name:          el.WebName,
			Position:      position,
			Cost:          int64(el.NowCost),
			SeasonPoints:  el.TotalPoints,
			SeasonGoals:   el.GoalsScored,
			SeasonAssists: el.Assists,
			SeasonMinutes: el.Minutes,
		}
		if err := p.Validate(); err != nil {
			c.logger.WarnContext(ctx, "skipping invalid element", "element_id", el.ID, "error", err)
			continue
		}

		players = append(players, p)
	}

	return players, nil
}

// FetchGameweekStats loads the per-gameweek history rows for one element.
func (c *Client) FetchGameweekStats(ctx context.Context, playerID int) ([]player.GameweekStat, error) {
	if playerID <= 0 {
		return nil, fmt.Errorf("player id must be greater than zero")
	}

	var envelope elementSummaryEnvelope
	path := fmt.Sprintf("/element-summary/%d/", playerID)
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch element summary player_id=%d: %w", playerID, err)
	}

	stats := make([]player.GameweekStat, 0, len(envelope.History))
	for _, row := range envelope.History {
		stats = append(stats, player.GameweekStat{
			Gameweek:    row.Round,
			Points:      row.TotalPoints,
			Minutes:     row.Minutes,
			Goals:       row.GoalsScored,
			Assists:     row.Assists,
			CleanSheets: row.CleanSheets,
			Bonus:       row.Bonus,
			Cards:       row.YellowCards + row.RedCards,
		})
	}

	return stats, nil
}

// CurrentEvent resolves the gameweek flagged is_current, falling back to
// the next event before the season starts.
func (c *Client) CurrentEvent(ctx context.Context) (int, error) {
	var envelope bootstrapEnvelope
	if err := c.getJSON(ctx, "/bootstrap-static/", &envelope); err != nil {
		return 0, fmt.Errorf("fetch bootstrap: %w", err)
	}

	for _, ev := range envelope.Events {
		if ev.IsCurrent {
			return ev.ID, nil
		}
	}
	for _, ev := range envelope.Events {
		if ev.IsNext {
			return ev.ID, nil
		}
	}

	return 0, fmt.Errorf("no current event in bootstrap payload")
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	raw, err, _ := c.flight.Do(path, func() ([]byte, error) {
		var payload []byte
		var permanentErr error
		err := c.breaker.Do(func() error {
			var reqErr error
			payload, reqErr = c.executeRequest(ctx, c.baseURL+path)
			if reqErr != nil && !isTransient(reqErr) {
				// Non-transient responses must not trip the breaker.
				permanentErr = reqErr
				return nil
			}
			return reqErr
		})
		if err != nil {
			if stderrors.Is(err, resilience.ErrBreakerOpen) {
				c.logger.WarnContext(ctx, "fpl breaker rejected request", "path", path)
				return nil, fmt.Errorf("%w: player data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
			return nil, err
		}
		if permanentErr != nil {
			return nil, permanentErr
		}
		return payload, nil
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx)

	var raw []byte
	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: send request: %v", errTransient, err)
		}
		defer resp.Body.Close()

		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
			return fmt.Errorf("%w: read response body: %v", errTransient, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) {
				return fmt.Errorf("%w: provider status=%d", errTransient, resp.StatusCode)
			}
			return backoff.Permanent(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviate(buf.Bytes())))
		}

		raw = append([]byte(nil), buf.Bytes()...)
		return nil
	}, policy)
	if err != nil {
		c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", err)
		return nil, err
	}

	return raw, nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isTransient(err error) bool {
	return stderrors.Is(err, errTransient)
}

func abbreviate(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

type bootstrapEnvelope struct {
	Events   []bootstrapEvent   `json:"events"`
	Elements []bootstrapElement `json:"elements"`
}

type bootstrapEvent struct {
	ID        int  `json:"id"`
	IsCurrent bool `json:"is_current"`
	IsNext    bool `json:"is_next"`
}

type bootstrapElement struct {
	ID          int    `json:"id"`
	WebName     string `json:"web_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int    `json:"now_cost"`
	TotalPoints int    `json:"total_points"`
	GoalsScored int    `json:"goals_scored"`
	Assists     int    `json:"assists"`
	Minutes     int    `json:"minutes"`
}

type elementSummaryEnvelope struct {
	History []elementHistoryRow `json:"history"`
}

type elementHistoryRow struct {
	Round       int `json:"round"`
	TotalPoints int `json:"total_points"`
	Minutes     int `json:"minutes"`
	GoalsScored int `json:"goals_scored"`
	Assists     int `json:"assists"`
	CleanSheets int `json:"clean_sheets"`
	Bonus       int `json:"bonus"`
	YellowCards int `json:"yellow_cards"`
	RedCards    int `json:"red_cards"`
}
