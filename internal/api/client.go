package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 8 << 20

// Recorder receives one observation per upstream call.
type Recorder interface {
	RecordUpstreamCall(ctx context.Context, method, endpoint string, status int, elapsed time.Duration)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    Recorder
	// OnUnauthorized runs for every 401 on a call that carried admin
	// credentials, whichever view issued it.
	OnUnauthorized func(ctx context.Context)
	// RequestID returns the inbound request id to forward upstream.
	RequestID func(ctx context.Context) string
}

// Client is a thin JSON wrapper over the remote admin API.
type Client struct {
	baseURL        string
	http           *http.Client
	logger         *slog.Logger
	metrics        Recorder
	onUnauthorized func(ctx context.Context)
	requestID      func(ctx context.Context) string
}

func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		// Zero timeout means the call lives as long as the inbound request.
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           httpClient,
		logger:         logger,
		metrics:        opts.Metrics,
		onUnauthorized: opts.OnUnauthorized,
		requestID:      opts.RequestID,
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.Do(ctx, http.MethodGet, path, query, nil, out)
	return err
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPost, path, nil, body, out)
	return err
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil, out)
	return err
}

// Do issues one request and decodes a 2xx JSON body into out. The returned
// response has its body consumed; callers use it for headers and cookies.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (*http.Response, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.requestID != nil {
		if id := c.requestID(ctx); id != "" {
			req.Header.Set("X-Request-ID", id)
		}
	}

	creds, authenticated := credentialsFrom(ctx)
	for _, cookie := range creds {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(ctx, method, path, 0, time.Since(start))
		c.logger.ErrorContext(ctx, "upstream call failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrUnreachable, err)
	}
	defer resp.Body.Close()
	c.record(ctx, method, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp, fmt.Errorf("%s %s: read body: %w: %w", method, path, ErrUnreachable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if authenticated {
			c.logger.WarnContext(ctx, "upstream rejected admin session, forcing logout", "method", method, "path", path)
			if c.onUnauthorized != nil {
				c.onUnauthorized(ctx)
			}
		}
		return resp, &Error{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "upstream returned error", "method", method, "path", path, "status", resp.StatusCode)
		return resp, &Error{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}

	return resp, nil
}

func (c *Client) record(ctx context.Context, method, path string, status int, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordUpstreamCall(ctx, method, Endpoint(path), status, elapsed)
	}
}

// Endpoint collapses id segments so metric labels stay bounded:
// /admin/users/42/verify becomes /admin/users/:id/verify.
func Endpoint(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if i > 0 && looksLikeID(seg) {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	digits := 0
	for _, r := range seg {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	// numeric ids, uuids and object ids all carry digits; resource names don't
	return digits > 0
}

func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// Caller is the surface of Client that feature services depend on.
type Caller interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

var _ Caller = (*Client)(nil)
