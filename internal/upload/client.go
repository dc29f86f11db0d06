package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/ingest"
)

const maxAttempts = 3

// Client sends export files to the LiftLog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the LiftLog server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// File is one export ready to send.
type File struct {
	Name        string
	ContentType string
	Gzipped     bool
	Body        []byte
}

// Send POSTs an export file to the server's import endpoint.
// Retries up to 3 times with exponential backoff on failure. Client errors
// other than 429 are not retried.
func (c *Client) Send(ctx context.Context, f File) (*ingest.Result, error) {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		result, retry, err := c.send(ctx, f)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, fmt.Errorf("uploading %s: %w", f.Name, lastErr)
}

func (c *Client) send(ctx context.Context, f File) (*ingest.Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/v1/import", bytes.NewReader(f.Body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", f.ContentType)
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Filename", f.Name)
	if f.Gzipped {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("import failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var result ingest.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, false, fmt.Errorf("decoding import result: %w", err)
	}
	return &result, false, nil
}
