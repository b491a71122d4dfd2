// Package client is a typed HTTP client for the fintrack API. It never
// retries: every failure comes back as an *APIError and the caller decides
// whether to try again.
package client

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

	apierrors "fintrack/internal/errors"
	"fintrack/internal/logging"
)

// DefaultTimeout bounds every request unless WithTimeout or WithHTTPClient says otherwise.
const DefaultTimeout = 30 * time.Second

const apiPrefix = "/api"

type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	session        *Session
	onUnauthorized func()
	logger         *slog.Logger
}

type Option func(*Client)

// WithHTTPClient uses hc's transport and timeout. The session transport is
// layered on top of hc.Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

// WithOnUnauthorized registers fn to run after any 401, once the session
// has been cleared.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSession("")
	}
	c.logger = logging.WithComponent(c.logger, "client")

	var hc http.Client
	if c.httpClient != nil {
		hc = *c.httpClient
	} else {
		hc.Timeout = DefaultTimeout
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &sessionTransport{session: c.session, base: base}
	c.httpClient = &hc

	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) buildRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send executes req and returns the body of a 2xx response. Anything else
// becomes an *APIError.
func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			err = ctxErr
		}
		c.logger.Debug("request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			logging.Err(err),
		)
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, c.apiError(req, resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) apiError(req *http.Request, status int, body []byte) *APIError {
	apiErr := &APIError{Kind: kindForStatus(status), Status: status}

	var envelope apierrors.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
		apiErr.TraceID = envelope.Error.TraceID
	} else {
		apiErr.Message = http.StatusText(status)
	}

	c.logger.Debug("request rejected",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", status),
		slog.String("code", apiErr.Code),
	)

	if apiErr.Kind == KindAuth {
		c.session.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	return apiErr
}

// do sends a JSON request and decodes a JSON object response into out.
// out may be nil for empty responses.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.buildRequest(ctx, method, path, query, body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Err: err}
	}

	raw, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeObject(raw, out)
}

func decodeObject(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Kind: KindServer, Message: "malformed response", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// getList fetches a collection. Shape anomalies never fail the call; see decodeList.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	req, err := c.buildRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Err: err}
	}

	raw, err := c.send(req)
	if err != nil {
		return nil, err
	}

	items, skipped, ok := decodeList[T](raw)
	if !ok || skipped > 0 {
		c.logger.Warn("unexpected list response",
			slog.String("path", path),
			slog.Bool("well_formed", ok),
			slog.Int("skipped", skipped),
		)
	}
	return items, nil
}

// decodeList accepts a bare JSON array or a {"data": [...]} envelope.
// null, an empty body and any other shape become an empty, non-nil list
// with ok=false. Elements that do not decode as T are skipped and counted.
func decodeList[T any](raw []byte) (items []T, skipped int, ok bool) {
	items = []T{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return items, 0, false
	}

	switch raw[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return items, 0, false
		}
		for _, elem := range elems {
			var item T
			if err := json.Unmarshal(elem, &item); err != nil {
				skipped++
				continue
			}
			items = append(items, item)
		}
		return items, skipped, true
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
			data := bytes.TrimSpace(envelope.Data)
			if len(data) > 0 && data[0] == '[' {
				return decodeList[T](data)
			}
		}
	}
	return items, 0, false
}

// successEnvelope is the {"data": ..., "message": ...} wrapper some endpoints use.
type successEnvelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}
