// Package remote is the HTTP transport to the Kaddem REST backend. It owns
// the base URL, timeouts, authentication and request correlation; the
// per-resource endpoints live in the repositories package.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/kaddem/internal/pkg/apperrors"
	"github.com/yigit/kaddem/internal/pkg/auth"
)

// RequestIDHeader carries the correlation id of every outgoing request
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response body is kept for logs
const maxErrorBody = 512

// Config is the explicit connection configuration of the client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     *auth.TokenSource
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client performs JSON requests against the backend
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  *auth.TokenSource
	logger  zerolog.Logger
}

// Request describes one call. Resource and ID are used to report a 404 as
// a NotFound failure for that id.
type Request struct {
	Action   string
	Method   string
	Path     string
	Body     interface{}
	Resource string
	ID       int64
}

// NewClient creates a client from cfg
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base URL %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		tokens:  cfg.Tokens,
		logger:  cfg.Logger.With().Str("component", "remote").Logger(),
	}, nil
}

// BaseURL returns the configured backend root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do sends req and decodes a JSON response into out when out is non-nil.
// A 404 becomes *apperrors.NotFoundError when req.ID is set; every other
// transport error or non-2xx status becomes *apperrors.NetworkError.
// It returns errEmptyBody when the backend answered 2xx without content.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	httpReq, requestID, err := c.newRequest(ctx, req)
	if err != nil {
		return apperrors.NewNetworkError(req.Action, err)
	}

	log := c.logger.With().
		Str("action", req.Action).
		Str("method", req.Method).
		Str("path", req.Path).
		Str("requestId", requestID).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Backend request failed")
		return apperrors.NewNetworkError(req.Action, err)
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("Backend responded")

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		_, _ = io.Copy(io.Discard, resp.Body)
		if req.ID > 0 {
			return apperrors.NewNotFoundError(req.Resource, req.ID)
		}
		return &apperrors.NetworkError{Action: req.Action, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("Backend returned an error status")
		return &apperrors.NetworkError{
			Action:     req.Action,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(req.Action, fmt.Errorf("read response: %w", err))
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errEmptyBody
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return apperrors.NewNetworkError(req.Action, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

var errEmptyBody = errors.New("empty response body")

// IsEmptyBody reports whether err signals a 2xx response without content.
// The backend answers lookups of unknown ids this way.
func IsEmptyBody(err error) bool {
	return errors.Is(err, errEmptyBody)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, string, error) {
	target := c.baseURL.JoinPath(strings.Split(strings.TrimLeft(req.Path, "/"), "/")...)

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, "", fmt.Errorf("service token: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, requestID, nil
}
