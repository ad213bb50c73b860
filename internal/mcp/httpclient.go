package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/repsight/internal/analysis"
	"github.com/meltforce/repsight/internal/models"
	"github.com/meltforce/repsight/internal/storage"
)

// HTTPClient implements DataSource by calling the RepSight REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// timeParams encodes a possibly-open time range; zero bounds are omitted so
// the server side treats them as unbounded.
func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	if !start.IsZero() {
		v.Set("start", start.Format(time.RFC3339))
	}
	if !end.IsZero() {
		v.Set("end", end.Format(time.RFC3339))
	}
	return v
}

func (c *HTTPClient) ListExercises(ctx context.Context) ([]analysis.ExerciseFrequency, error) {
	body, err := c.get(ctx, "/api/v1/exercises", nil)
	if err != nil {
		return nil, err
	}

	var freqs []analysis.ExerciseFrequency
	if err := json.Unmarshal(body, &freqs); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return freqs, nil
}

func (c *HTTPClient) QueryWorkoutSets(ctx context.Context, start, end time.Time) ([]models.SetRecord, error) {
	body, err := c.get(ctx, "/api/v1/sets", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var sets []models.SetRecord
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode sets: %w", err)
	}
	return sets, nil
}

func (c *HTTPClient) QuerySeries(ctx context.Context, exercise string) (analysis.ExerciseSeries, error) {
	var series analysis.ExerciseSeries

	body, err := c.get(ctx, "/api/v1/exercises/"+url.PathEscape(exercise)+"/series", nil)
	if err != nil {
		return series, err
	}

	if err := json.Unmarshal(body, &series); err != nil {
		return series, fmt.Errorf("httpclient: decode series: %w", err)
	}
	return series, nil
}

func (c *HTTPClient) QueryEnriched(ctx context.Context, exercise string, start, end time.Time) ([]analysis.EnrichedRow, error) {
	params := timeParams(start, end)
	if exercise != "" {
		params.Set("exercise", exercise)
	}

	body, err := c.get(ctx, "/api/v1/enriched", params)
	if err != nil {
		return nil, err
	}

	var rows []analysis.EnrichedRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode enriched rows: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) QuerySleepDays(ctx context.Context, start, end time.Time) ([]models.DailySleep, error) {
	body, err := c.get(ctx, "/api/v1/sleep/daily", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var days []models.DailySleep
	if err := json.Unmarshal(body, &days); err != nil {
		return nil, fmt.Errorf("httpclient: decode sleep days: %w", err)
	}
	return days, nil
}

func (c *HTTPClient) QuerySleepWeeks(ctx context.Context, start, end time.Time) ([]models.WeeklySleep, error) {
	body, err := c.get(ctx, "/api/v1/sleep/weekly", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var weeks []models.WeeklySleep
	if err := json.Unmarshal(body, &weeks); err != nil {
		return nil, fmt.Errorf("httpclient: decode sleep weeks: %w", err)
	}
	return weeks, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context) (*storage.DataStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}
