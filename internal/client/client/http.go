package client

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
	"github.com/jobtracker/jobtracker/internal/client/session"
	"github.com/jobtracker/jobtracker/internal/common"
	"github.com/jobtracker/jobtracker/internal/logging"
)

const (
	apiPrefix       = "/api"
	maxResponseSize = 10 << 20
)

// RequestOptions mirrors the options of a single fetch call. Body may be an
// io.Reader, sent as is, or any other value, sent as JSON.
type RequestOptions struct {
	Method string
	Body   any
	Header http.Header
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l.With("module", "api_client") }
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	session Session
	logger  logging.Logger
}

// New returns a client for the API rooted at baseURL, an absolute URL such
// as https://example.com/api.
func New(baseURL string, sess Session, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: must be absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: sess,
		logger:  logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// resolveURL rewrites a logical /api path onto the base URL. Anything else
// is returned unchanged.
func (c *HTTPClient) resolveURL(path string) string {
	rest, ok := strings.CutPrefix(path, apiPrefix)
	if !ok {
		return path
	}
	if rest == "" || rest[0] == '/' || rest[0] == '?' {
		return c.baseURL + rest
	}
	return path
}

type call struct {
	path string
	opts RequestOptions
	out  any

	// anonymous calls carry no bearer token and do not expire the session
	// on 401.
	anonymous bool
	// statusKind maps a status to the sentinel wrapped by the APIError.
	statusKind map[int]error
	// fallbackMessage replaces "HTTP <status>" when the body has no message.
	fallbackMessage string
}

// Request performs one authenticated call and decodes a 2xx JSON body into
// out (which may be nil). A 401 expires the session before returning.
func (c *HTTPClient) Request(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.do(ctx, call{path: path, opts: opts, out: out})
}

func (c *HTTPClient) do(ctx context.Context, cl call) error {
	// Bind the request to the session epoch: an expiry triggered by any
	// other call cancels this one too.
	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	epoch := c.session.Context()
	stop := context.AfterFunc(epoch, func() { cancel(context.Cause(epoch)) })
	defer stop()

	req, err := c.newRequest(reqCtx, cl)
	if err != nil {
		return err
	}

	requestID := req.Header.Get(common.RequestIDHeader)
	log := c.logger.With("method", req.Method, "url", req.URL.Redacted(), "request_id", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, reqCtx, log, req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return c.transportError(ctx, reqCtx, log, req, fmt.Errorf("read response: %w", err))
	}
	log.Debug(ctx, "request finished", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if cl.out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, cl.out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	message := errorMessage(body)
	if message == "" {
		message = cl.fallbackMessage
	}
	kind := cl.statusKind[resp.StatusCode]

	if resp.StatusCode == http.StatusUnauthorized && !cl.anonymous {
		log.Warn(ctx, "session rejected by server, logging out")
		if err := c.session.Expire(ctx); err != nil {
			log.Error(ctx, "failed to clear session", "error", err)
		}
		kind = ErrSessionExpired
	}

	return newAPIError(resp.StatusCode, message, kind)
}

// transportError classifies a failure that produced no usable response.
// Session expiry wins over the caller's own cancellation, which wins over
// ErrUnavailable.
func (c *HTTPClient) transportError(ctx, reqCtx context.Context, log logging.Logger, req *http.Request, err error) error {
	if errors.Is(context.Cause(reqCtx), session.ErrExpired) {
		log.Debug(ctx, "request aborted by session expiry")
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrSessionExpired)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	log.Warn(ctx, "request failed", "error", err)
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (c *HTTPClient) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	method := cl.opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	switch b := cl.opts.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(cl.path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range cl.opts.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get(common.RequestIDHeader) == "" {
		req.Header.Set(common.RequestIDHeader, uuid.NewString())
	}

	req.Header.Del("Authorization")
	if cl.anonymous {
		return req, nil
	}
	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// errorMessage extracts a human-readable message from an error body:
// "message" first, then "detail" as a string, then the "msg" entries of a
// validation-style "detail" list. It returns "" when nothing fits.
func errorMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		return detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
