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

	"github.com/claude/liftlog/internal/models"
)

// HTTPClient implements DataSource by calling the LiftLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). The server
// resolves the user from the connection, so userID arguments are ignored.
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

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) workouts(ctx context.Context, path string, params url.Values) ([]models.Workout, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var workouts []models.Workout
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return workouts, nil
}

// FetchCompletedWorkouts asks for the whole completed history; the workouts
// endpoint returns everything when no start is given.
func (c *HTTPClient) FetchCompletedWorkouts(ctx context.Context, _ int) ([]models.Workout, error) {
	return c.workouts(ctx, "/api/v1/workouts", nil)
}

func (c *HTTPClient) QueryCompletedWorkouts(ctx context.Context, _ int, start, end time.Time) ([]models.Workout, error) {
	return c.workouts(ctx, "/api/v1/workouts", timeParams(start, end))
}

func (c *HTTPClient) FetchScheduledWorkouts(ctx context.Context, _ int) ([]models.Workout, error) {
	return c.workouts(ctx, "/api/v1/scheduled", nil)
}

func (c *HTTPClient) GetProfile(ctx context.Context, _ int) (models.Profile, error) {
	body, err := c.get(ctx, "/api/v1/profile", nil)
	if err != nil {
		return models.Profile{}, err
	}

	var p models.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return models.Profile{}, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return p, nil
}
