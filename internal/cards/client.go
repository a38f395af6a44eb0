package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/youruser/decklist/internal/util"
)

// DefaultBaseURL is the public Scryfall API.
const DefaultBaseURL = "https://api.scryfall.com"

// ErrRateLimited marks an *APIError caused by the catalog's rate limit.
var ErrRateLimited = errors.New("rate limit reached")

// APIError is a non-2xx catalog response.
type APIError struct {
	Status      int
	Message     string
	RateLimited bool
}

func (e *APIError) Error() string {
	if e.RateLimited {
		return "Card catalog rate limit reached, please try again later."
	}
	msg := e.Message
	if msg == "" {
		msg = "Uh-oh! Trouble reaching the card catalog"
	}
	return fmt.Sprintf("Error %d: %s", e.Status, msg)
}

func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.RateLimited
}

// Client talks to a Scryfall-compatible catalog. The full name list is
// fetched once and kept for the life of the client.
type Client struct {
	baseURL   string
	userAgent string
	http      util.HTTPDoer
	logger    *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	names   []string
	lastErr string
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(strings.TrimSpace(u), "/") }
}

func WithHTTPClient(d util.HTTPDoer) Option {
	return func(c *Client) { c.http = d }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a catalog client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "decklist/1.0",
		http:      util.NewHTTPClient(0),
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With(zap.String("component", "catalog"))
	return c
}

// LastError returns the message of the most recent failed request, or "" if
// the latest request succeeded.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) setLastError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}

// Names returns every card name in the catalog. Concurrent first calls share
// one request; a failed fetch is retried on the next call.
func (c *Client) Names(ctx context.Context) ([]string, error) {
	names, err := c.cachedNames(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(names), nil
}

// cachedNames returns the shared cached list. The shared fetch does not inherit
// the first caller's cancellation; the HTTP client timeout still bounds it.
func (c *Client) cachedNames(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	cached := c.names
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do("names", func() (any, error) {
		var res struct {
			Data []string `json:"data"`
		}
		if err := c.getJSON(context.WithoutCancel(ctx), c.baseURL+"/catalog/card-names", &res); err != nil {
			return nil, err
		}
		names := res.Data
		if names == nil {
			names = []string{}
		}
		c.mu.Lock()
		c.names = names
		c.mu.Unlock()
		c.logger.Info("catalog names loaded", zap.Int("count", len(names)))
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Search returns up to limit catalog names matching term.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]string, error) {
	names, err := c.cachedNames(ctx)
	if err != nil {
		return nil, err
	}
	return Search(names, term, limit), nil
}

// Card fetches the record for an exact card name.
func (c *Client) Card(ctx context.Context, name string) (*Card, error) {
	u := c.baseURL + "/cards/named?exact=" + url.QueryEscape(name)
	var card Card
	if err := c.getJSON(ctx, u, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	c.setLastError("")

	header := http.Header{}
	header.Set("Accept", "application/json")
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}
	resp, body, err := util.GetBytes(ctx, c.http, u, header)
	if err != nil {
		c.setLastError(err.Error())
		return fmt.Errorf("catalog request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := checkStatus(resp, body)
		c.setLastError(apiErr.Error())
		c.logger.Warn("catalog request failed",
			zap.String("url", u),
			zap.Int("status", resp.StatusCode),
			zap.Bool("rate_limited", apiErr.RateLimited))
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.setLastError(err.Error())
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	limited := resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-Ratelimit-Remaining") == "0"
	if limited || resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RateLimited = true
		return apiErr
	}
	ct := resp.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "application/json"):
		var payload struct {
			Details string   `json:"details"`
			Errors  []string `json:"errors"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.Details
			if apiErr.Message == "" && len(payload.Errors) > 0 {
				apiErr.Message = payload.Errors[0]
			}
		}
	case strings.HasPrefix(ct, "text/"):
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
