// Package apiclient is the authenticated request pipeline: it decorates
// every outbound request with the stored bearer token and normalizes all
// failures into one error shape before they reach callers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scibiz/eventapp/credentials"
)

// TokenReader is the pipeline's view of the credential store. The store is
// read per request, not the session manager's memory state, so the token
// survives process restarts without re-login.
type TokenReader interface {
	Load(ctx context.Context) (*credentials.Session, error)
}

const maxErrorBody = 1 << 20

// Client issues JSON requests against the event backend.
type Client struct {
	baseURL    string
	tokens     TokenReader
	httpClient *http.Client
	logger     zerolog.Logger
	userAgent  string
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout. Zero keeps the transport default,
// which is the source behavior.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger overrides the diagnostics logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for the given API base URL (including any path
// prefix, e.g. "https://api.example.com/api"). tokens may be nil for a
// client that never authenticates.
func New(baseURL string, tokens TokenReader, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response
// into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			c.logger.Error().Err(err).Str("path", path).Msg("could not encode request body")
			return &Error{Kind: KindTransport, Message: fallbackMessage}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("could not build request")
		return &Error{Kind: KindTransport, Message: fallbackMessage}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	c.attachToken(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return &Error{Kind: KindTransport, Message: transportMessage(err), RequestID: requestID}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.normalizeResponse(resp, requestID)
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("request_id", requestID).
			Str("message", apiErr.Message).
			Msg("request rejected")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Str("request_id", requestID).Msg("could not decode response")
		return &Error{Kind: KindTransport, Message: "invalid response from server", RequestID: requestID}
	}
	return nil
}

// attachToken reads the credential store and, when a token is present,
// sets the Authorization header. Absence of a token is not an error here:
// unauthenticated endpoints (the login call itself) pass through unchanged.
func (c *Client) attachToken(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	stored, err := c.tokens.Load(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not read stored credentials, sending request unauthenticated")
		return
	}
	if stored != nil && stored.Token != "" {
		req.Header.Set("Authorization", "Bearer "+stored.Token)
	}
}

// normalizeResponse extracts the most specific message available from an
// error response: the server-supplied message field first, then the HTTP
// status text, then the fixed fallback.
func (c *Client) normalizeResponse(resp *http.Response, requestID string) *Error {
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &envelope)

	message := ""
	if envelope.Error != nil {
		message = envelope.Error.Message
	}
	if message == "" {
		message = envelope.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	if message == "" {
		message = fallbackMessage
	}

	kind := KindServer
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		kind = KindAuthRejected
	}

	return &Error{
		Kind:      kind,
		Status:    resp.StatusCode,
		Message:   message,
		RequestID: requestID,
	}
}

func transportMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return fallbackMessage
	}
	return msg
}
