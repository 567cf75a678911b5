// Package client is a Go client for the challenge API. It keeps a
// session-scoped cache of challenges that is refreshed from server
// responses and dropped after every mutation.
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

	"skate-challenge-service/models"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client talks to one service instance on behalf of one user.
type Client struct {
	baseURL string
	http    *http.Client
	userID  string
	cache   *SessionCache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserID sends id as X-User-ID and uses it as the acting user.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

func WithCache(cache *SessionCache) Option {
	return func(c *Client) { c.cache = cache }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   NewSessionCache(30*time.Second, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the session cache.
func (c *Client) Cache() *SessionCache {
	return c.cache
}

// ListOptions narrows ListChallenges. Only the unfiltered list is cached.
type ListOptions struct {
	UserID string
	Status models.ChallengeStatus
	Trick  string
}

func (o ListOptions) query() string {
	v := url.Values{}
	if o.UserID != "" {
		v.Set("userId", o.UserID)
	}
	if o.Status != "" {
		v.Set("status", string(o.Status))
	}
	if o.Trick != "" {
		v.Set("trick", o.Trick)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListChallenges(ctx context.Context, opts ListOptions) ([]models.Challenge, error) {
	q := opts.query()
	if q == "" {
		if list, ok := c.cache.List(); ok {
			return list, nil
		}
	}

	var out []models.Challenge
	if err := c.do(ctx, http.MethodGet, "/challenges"+q, nil, &out); err != nil {
		return nil, err
	}
	if q == "" {
		c.cache.PutList(out)
	} else {
		for _, ch := range out {
			c.cache.PutChallenge(ch)
		}
	}
	return out, nil
}

func (c *Client) GetChallenge(ctx context.Context, id string) (models.Challenge, error) {
	if ch, ok := c.cache.Challenge(id); ok {
		return ch, nil
	}
	return c.RefreshChallenge(ctx, id)
}

// RefreshChallenge bypasses the cache.
func (c *Client) RefreshChallenge(ctx context.Context, id string) (models.Challenge, error) {
	var out models.Challenge
	if err := c.do(ctx, http.MethodGet, "/challenges/"+url.PathEscape(id), nil, &out); err != nil {
		return models.Challenge{}, err
	}
	c.cache.PutChallenge(out)
	return out, nil
}

func (c *Client) CreateChallenge(ctx context.Context, in models.ChallengeInput) (models.Challenge, error) {
	if in.CreatorID == "" {
		in.CreatorID = c.userID
	}
	var out models.Challenge
	if err := c.do(ctx, http.MethodPost, "/challenges", in, &out); err != nil {
		return models.Challenge{}, err
	}
	c.cache.InvalidateList()
	c.cache.PutChallenge(out)
	return out, nil
}

func (c *Client) JoinChallenge(ctx context.Context, id string) (models.Challenge, error) {
	var out models.Challenge
	body := map[string]string{"userId": c.userID}
	if err := c.do(ctx, http.MethodPost, "/challenges/"+url.PathEscape(id)+"/join", body, &out); err != nil {
		c.cache.Invalidate(id)
		return models.Challenge{}, err
	}
	c.cache.InvalidateList()
	c.cache.PutChallenge(out)
	return out, nil
}

// RecordAttempt submits the acting user's attempt. The cached challenge is
// dropped since the server advanced it.
func (c *Client) RecordAttempt(ctx context.Context, id string, landed bool, videoURL string) (models.TrickAttempt, error) {
	body := map[string]any{"userId": c.userID, "landed": landed}
	if videoURL != "" {
		body["videoUrl"] = videoURL
	}

	var out models.TrickAttempt
	err := c.do(ctx, http.MethodPost, "/challenges/"+url.PathEscape(id)+"/attempts", body, &out)
	c.cache.Invalidate(id)
	c.cache.InvalidateList()
	if err != nil {
		return models.TrickAttempt{}, err
	}
	return out, nil
}

func (c *Client) ListAttempts(ctx context.Context, id string) ([]models.TrickAttempt, error) {
	var out []models.TrickAttempt
	if err := c.do(ctx, http.MethodGet, "/challenges/"+url.PathEscape(id)+"/attempts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context, query string) ([]models.User, error) {
	path := "/users"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out []models.User
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
