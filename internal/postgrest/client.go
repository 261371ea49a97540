package postgrest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/types"
)

const (
	// MediaObject asks PostgREST for a single object instead of an array
	MediaObject = "application/vnd.pgrst.object+json"
	// MediaJSON is the default content type
	MediaJSON = "application/json"
	// RequestIDHeader carries the id used to correlate history entries
	RequestIDHeader = "X-Request-Id"
)

// ErrNoToken is returned by a token source when no user is signed in. The
// client then falls back to the API key.
var ErrNoToken = errors.New("no access token")

// Recorder stores write requests and their outcome
type Recorder interface {
	Record(entry types.HistoryEntry) error
}

// Client talks to one PostgREST backend
type Client struct {
	backend  config.Backend
	http     *http.Client
	tokens   oauth2.TokenSource
	recorder Recorder
	logger   *zap.Logger
	profile  string
	headers  map[string]string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource supplies the bearer token of the signed-in user
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRecorder records every write request
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProfile tags recorded requests with the profile name
func WithProfile(name string) Option {
	return func(c *Client) { c.profile = name }
}

// WithHeaders adds static headers to every request
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

// New creates a client for the backend
func New(b config.Backend, opts ...Option) (*Client, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.URL = strings.TrimRight(b.URL, "/")
	if b.Timeout == 0 {
		b.Timeout = config.DefaultTimeout
	}

	c := &Client{
		backend: b,
		http:    &http.Client{Timeout: b.Timeout},
		logger:  zap.NewNop(),
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Backend returns the backend the client talks to
func (c *Client) Backend() config.Backend {
	return c.backend
}

// NewRequest prepares a request to path with the standard headers. payload
// is encoded as JSON when non-nil. single asks for one object instead of an
// array.
func (c *Client) NewRequest(method, path string, payload any, single bool) (*types.HttpRequest, error) {
	req := &types.HttpRequest{
		ID:      uuid.NewString(),
		Method:  method,
		URL:     c.backend.URL + path,
		Path:    path,
		Headers: make(map[string]string),
	}

	for k, v := range c.headers {
		req.Headers[k] = v
	}
	if c.backend.APIKey != "" {
		req.Headers["apikey"] = c.backend.APIKey
	}

	bearer, err := c.bearer()
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Headers["Authorization"] = "Bearer " + bearer
	}

	req.Headers["Accept"] = MediaJSON
	if single {
		req.Headers["Accept"] = MediaObject
	}
	if payload != nil {
		body, err := encode(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s payload: %w", method, path, err)
		}
		req.Body = string(body)
		req.Headers["Content-Type"] = MediaJSON
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Headers["Prefer"] = "return=representation"
	}
	req.Headers[RequestIDHeader] = req.ID

	return req, nil
}

// bearer returns the user token, or the API key when it is a JWT
func (c *Client) bearer() (string, error) {
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		switch {
		case err == nil && tok.AccessToken != "":
			return tok.AccessToken, nil
		case err != nil && !errors.Is(err, ErrNoToken):
			return "", fmt.Errorf("failed to get access token: %w", err)
		}
	}
	if c.backend.IsJWT() {
		return c.backend.APIKey, nil
	}
	return "", nil
}

// Execute performs the request and returns the result. Transport failures
// are reported in RequestResult.Error so that they can be recorded; err is
// only set when the request could not be built.
func (c *Client) Execute(ctx context.Context, req *types.HttpRequest) (*types.RequestResult, error) {
	startTime := time.Now()

	var bodyReader io.Reader
	requestSize := 0
	if req.Body != "" {
		bodyReader = bytes.NewBufferString(req.Body)
		requestSize = len(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.http.Do(httpReq)
	duration := time.Since(startTime).Milliseconds()

	var result *types.RequestResult
	if err != nil {
		result = &types.RequestResult{
			Error:       err.Error(),
			Duration:    duration,
			RequestSize: requestSize,
		}
	} else {
		result = readResponse(resp, duration, requestSize)
	}

	c.logger.Debug("backend request",
		zap.String("request_id", req.ID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", result.Status),
		zap.Int64("duration_ms", result.Duration),
		zap.String("error", result.Error),
	)
	c.record(req, result)

	return result, nil
}

func readResponse(resp *http.Response, duration int64, requestSize int) *types.RequestResult {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &types.RequestResult{
			Status:      resp.StatusCode,
			StatusText:  resp.Status,
			Error:       fmt.Sprintf("failed to read response body: %v", err),
			Duration:    duration,
			RequestSize: requestSize,
		}
	}

	headers := make(map[string]string)
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return &types.RequestResult{
		Status:       resp.StatusCode,
		StatusText:   resp.Status,
		Headers:      headers,
		Body:         string(bodyBytes),
		Duration:     duration,
		RequestSize:  requestSize,
		ResponseSize: len(bodyBytes),
	}
}

func (c *Client) record(req *types.HttpRequest, result *types.RequestResult) {
	if c.recorder == nil || req.Method == http.MethodGet || req.Method == http.MethodHead {
		return
	}
	entry := types.HistoryEntry{
		RequestID:   req.ID,
		Timestamp:   time.Now(),
		ProfileName: c.profile,
		Method:      req.Method,
		Path:        req.Path,
		Body:        req.Body,
		Status:      result.Status,
		Duration:    result.Duration,
		Error:       result.Error,
	}
	if err := c.recorder.Record(entry); err != nil {
		c.logger.Warn("failed to record request", zap.String("request_id", req.ID), zap.Error(err))
	}
}

// send builds and executes a request and returns the body of a 2xx response
func (c *Client) send(ctx context.Context, method, path string, payload any, single bool) ([]byte, error) {
	req, err := c.NewRequest(method, path, payload, single)
	if err != nil {
		return nil, err
	}

	result, err := c.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if result.Status == 0 {
		return nil, fmt.Errorf("%s %s failed: %s", method, path, result.Error)
	}
	if !IsSuccessStatus(result.Status) {
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Status: result.Status,
			Body:   result.Body,
		}
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%s %s failed: %s", method, path, result.Error)
	}
	return []byte(result.Body), nil
}
