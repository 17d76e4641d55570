// Package cloud is the HTTP transport used to talk to the application
// backend. Requests carry a bearer token, send their data as JSON (or as a
// query string for GET and DELETE) and decode JSON responses.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	_ "github.com/BrandonKowalski/certifiable" // Add CA certificates to the default trust store

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/internal"
)

var ErrNoBaseURL = errors.New("cloud: no base url configured")

// Error is returned for responses with a status of 400 or above. Body holds
// the decoded JSON response, or the raw text when it is not JSON.
type Error struct {
	Method string
	Path   string
	Status int
	Body   any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}

// Poster schedules a function on the UI goroutine.
type Poster interface {
	Post(fn func())
}

// Request describes one call to the backend.
type Request struct {
	Method  string // defaults to GET
	Path    string
	Data    map[string]any
	Headers map[string]string
}

// Client sends requests to BaseURL.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// Loop, when set, receives the callbacks of Request so they run on the
	// UI goroutine.
	Loop Poster

	log *slog.Logger
}

// New creates a client. A zero timeout uses the default of ten seconds.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	if log == nil {
		log = internal.GetInternalLogger()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		log:     log.With("component", "cloud"),
	}
}

// SetToken replaces the bearer token sent with every request. An empty
// token sends none.
func (c *Client) SetToken(token string) {
	c.Token = token
}

// Do performs r and returns the decoded response body.
func (c *Client) Do(ctx context.Context, r Request) (any, error) {
	data, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return decode(data), nil
}

// DoJSON performs r and unmarshals the response body into out.
func (c *Client) DoJSON(ctx context.Context, r Request, out any) error {
	data, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Path, err)
	}
	return nil
}

// Request performs r in the background. Exactly one of onSuccess and
// onError is called, on the client's loop when one is set. The returned
// function aborts the request.
func (c *Client) Request(ctx context.Context, r Request, onSuccess func(any), onError func(error)) (cancel func()) {
	ctx, cancel = context.WithCancel(ctx)

	go func() {
		defer cancel()
		body, err := c.Do(ctx, r)
		c.deliver(func() {
			if err != nil {
				if onError != nil {
					onError(err)
				}
				return
			}
			if onSuccess != nil {
				onSuccess(body)
			}
		})
	}()

	return cancel
}

func (c *Client) deliver(fn func()) {
	if c.Loop != nil {
		c.Loop.Post(fn)
		return
	}
	fn()
}

func (c *Client) send(ctx context.Context, r Request) ([]byte, error) {
	if c.BaseURL == "" {
		return nil, ErrNoBaseURL
	}

	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}

	target := c.BaseURL + r.Path
	var body io.Reader
	if method == http.MethodGet || method == http.MethodDelete {
		if q := QueryString(r.Data); q != "" {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + q
		}
	} else if r.Data != nil {
		data, err := json.Marshal(r.Data)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.Path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	c.log.Info("Request", "method", method, "url", target)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, r.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", r.Path, err)
	}

	if resp.StatusCode >= 400 {
		c.log.Warn("Request failed", "method", method, "path", r.Path, "status", resp.StatusCode)
		return nil, &Error{Method: method, Path: r.Path, Status: resp.StatusCode, Body: decode(data)}
	}
	return data, nil
}

// decode parses JSON, falling back to the raw text.
func decode(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return v
}

// QueryString encodes data as a URL query, keys sorted.
func QueryString(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range data {
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}
