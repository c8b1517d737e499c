// Package client is the typed HTTP client for the toolhaven API. Every call
// returns (value, error) with the wire error decoded back into the shared
// taxonomy, so callers never parse response bodies themselves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"toolhaven/pkg/errs"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken preloads a persisted session token, enabling Restore on start.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type wireError struct {
	Kind    errs.Kind `json:"kind"`
	Message string    `json:"message"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *wireError      `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(errs.KindUnknown, "encode request", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(errs.KindBackend, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if env.Error != nil {
		return errs.New(env.Error.Kind, env.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return errs.New(errs.KindForStatus(resp.StatusCode), http.StatusText(resp.StatusCode))
	}
	if decodeErr != nil {
		return errs.Wrap(errs.KindBackend, fmt.Sprintf("%s %s: bad response body", method, path), decodeErr)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errs.Wrap(errs.KindBackend, fmt.Sprintf("%s %s: bad payload", method, path), err)
		}
	}
	return nil
}
