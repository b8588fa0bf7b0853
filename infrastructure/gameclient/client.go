// Package gameclient implements the HTTP client for the game server REST
// API: registration, status, graph, leaderboard, and edge-claim submission.
package gameclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/entanglenet/distill-agent/domain/game"
	"github.com/entanglenet/distill-agent/infrastructure/resilience"
)

// Config configures the client.
type Config struct {
	// BaseURL is the game server endpoint.
	BaseURL string
	// APIToken authenticates requests. Empty until registration.
	APIToken string
	// PlayerID identifies the player.
	PlayerID string
	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration
	// Executor protects calls; a default executor is used when nil.
	Executor *resilience.Executor
}

// Client talks to the game server. The graph is fetched once and cached for
// the session; it does not change during a game.
type Client struct {
	baseURL  string
	apiToken string
	playerID string
	httpc    *http.Client
	exec     *resilience.Executor

	mu          sync.Mutex
	cachedGraph *game.Graph
}

// New creates a game client.
func New(cfg Config) *Client {
	exec := cfg.Executor
	if exec == nil {
		exec = resilience.NewDefaultExecutor()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:  trimTrailingSlash(cfg.BaseURL),
		apiToken: cfg.APIToken,
		playerID: cfg.PlayerID,
		httpc:    &http.Client{Timeout: timeout},
		exec:     exec,
	}
}

// PlayerID returns the configured player ID.
func (c *Client) PlayerID() string { return c.playerID }

// envelope is the server's response wrapper.
type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *game.APIError  `json:"error"`
}

func (c *Client) headers(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

// get performs a protected GET and returns the envelope data payload.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := c.exec.Fetch(ctx, func(ctx context.Context) ([]byte, error) {
		return c.roundTrip(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return nil, env.Error
	}
	return env.Data, nil
}

// post performs a POST and returns the full envelope. Submissions go
// through the non-retrying Submit path.
func (c *Client) post(ctx context.Context, path string, payload any, submit bool) (envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return envelope{}, fmt.Errorf("encode request: %w", err)
	}

	call := func(ctx context.Context) ([]byte, error) {
		return c.roundTrip(ctx, http.MethodPost, path, raw)
	}

	var body []byte
	if submit {
		body, err = c.exec.Submit(ctx, call)
	} else {
		body, err = c.exec.Fetch(ctx, call)
	}
	if err != nil {
		return envelope{}, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	c.headers(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &game.APIError{
			Code:    game.CodeHTTP,
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return data, nil
}

// classify maps a transport error to a stable API error code.
func classify(err error) *game.APIError {
	var apiErr *game.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, context.DeadlineExceeded):
		return &game.APIError{Code: game.CodeTimeout, Message: "request timeout"}
	case errors.Is(err, context.Canceled):
		return &game.APIError{Code: game.CodeRequestFailed, Message: "request cancelled"}
	default:
		return &game.APIError{Code: game.CodeConnection, Message: err.Error()}
	}
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
