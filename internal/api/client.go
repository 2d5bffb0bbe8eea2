// Package api is the request layer for the cinema backend.  It attaches the
// bearer credential, unwraps the {"data": ...} envelope and turns a
// "message" field into an error even when the HTTP status says success.
package api

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

	"github.com/tidwall/gjson"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// TokenSource returns the bearer token for the current caller.  An empty
// token means the request is sent without an Authorization header.
type TokenSource func(ctx context.Context) (string, error)

// Observer is notified once per backend call with the endpoint name, the
// outcome ("ok", "message" or "transport") and the elapsed time.
type Observer func(endpoint, outcome string, elapsed time.Duration)

// Config configures a Client.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Token    TokenSource
	Observer Observer
}

// Client talks to the cinema backend.  It is safe for concurrent use; use
// WithToken to derive a per-caller client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	observe    Observer
}

// NewClient builds a Client.  A zero Timeout defaults to 30 seconds.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		token:      cfg.Token,
		observe:    cfg.Observer,
	}
}

// WithToken returns a copy of c that sends token on every call.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = func(context.Context) (string, error) { return token, nil }
	return &cp
}

// call describes one backend request.
type call struct {
	endpoint string // metric/log label, e.g. "seats.available"
	method   string
	path     string
	query    url.Values
	body     any
	// keepEnvelope decodes the whole body even when it carries a data key.
	keepEnvelope bool
	// okMessages are message values the endpoint uses for success.
	okMessages []string
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observe == nil {
			return
		}
		outcome := "ok"
		switch {
		case IsTransport(err):
			outcome = "transport"
		case err != nil:
			outcome = "message"
		}
		c.observe(cl.endpoint, outcome, time.Since(start))
	}()

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reqBody io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", cl.endpoint, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("%s: token: %w", cl.endpoint, err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: cl.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Endpoint: cl.endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if msg, ok := logicalFailure(raw, cl.okMessages); ok {
		return &MessageError{Endpoint: cl.endpoint, Status: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &MessageError{Endpoint: cl.endpoint, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	payload := raw
	if !cl.keepEnvelope {
		if data := gjson.GetBytes(raw, "data"); data.Exists() {
			payload = []byte(data.Raw)
		}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.endpoint, err)
	}
	return nil
}

// logicalFailure looks for a truthy "message" at the top level of the body
// or inside its data object.  A non-empty string, a non-zero number, true,
// or any object or array counts; non-string values are reported raw.
func logicalFailure(raw []byte, okMessages []string) (string, bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return "", false
	}
	for _, path := range []string{"message", "data.message"} {
		m := gjson.GetBytes(raw, path)
		var msg string
		switch {
		case m.Type == gjson.String && m.Str != "":
			msg = m.Str
		case m.Type == gjson.Number && m.Num != 0, m.Type == gjson.True:
			msg = m.Raw
		case m.IsObject(), m.IsArray():
			msg = m.Raw
		default:
			continue
		}
		for _, ok := range okMessages {
			if msg == ok {
				return "", false
			}
		}
		return msg, true
	}
	return "", false
}

func pathID(id string) string {
	return url.PathEscape(id)
}
