// Package client is a typed HTTP client for the storefront REST API. The
// bearer token is kept in a storage.Storage so it survives restarts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/pkg/storage"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// TokenKey is the storage key of the bearer token.
const TokenKey = "token"

// ErrCircuitOpen is returned while the backend is considered unavailable.
var ErrCircuitOpen = gobreaker.ErrOpenState

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// BreakerConfig tunes the circuit breaker guarding the backend.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// Config configures a Client.
type Config struct {
	// BaseURL includes the API prefix, e.g. http://localhost:3000/api/v1.
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

// DefaultConfig returns defaults for baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 15 * time.Second,
		Breaker: BreakerConfig{
			MaxRequests:  1,
			Interval:     60 * time.Second,
			Timeout:      30 * time.Second,
			FailureRatio: 0.5,
			MinRequests:  5,
		},
	}
}

type rawResponse struct {
	status int
	body   []byte
}

// Client calls the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*rawResponse]
	store      storage.Storage

	// OnUnauthorized runs after a 401 response has cleared the stored token.
	OnUnauthorized func()
}

// New creates a Client that keeps its token in store.
func New(cfg Config, store storage.Storage) *Client {
	bc := cfg.Breaker
	settings := gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*rawResponse](settings),
		store:      store,
	}
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Authenticated reports whether a token is stored.
func (c *Client) Authenticated() bool {
	tok, ok, err := c.store.Get(TokenKey)
	return err == nil && ok && tok != ""
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, ok, err := c.store.Get(TokenKey); err == nil && ok && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.breaker.Execute(func() (*rawResponse, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= 500 {
			return nil, newAPIError(resp.StatusCode, data)
		}
		return &rawResponse{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized {
		if err := c.store.Remove(TokenKey); err != nil {
			log.Error().Err(err).Msg("failed to clear stored token")
		}
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
	}
	if resp.status >= 400 {
		return newAPIError(resp.status, resp.body)
	}

	if out != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return fmt.Errorf("decode response from %s %s: %w", method, path, err)
		}
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return &APIError{Status: status, Message: payload.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

func (c *Client) setToken(token string) error {
	if token == "" {
		return nil
	}
	return c.store.Set(TokenKey, token)
}
