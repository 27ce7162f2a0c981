// Package gateway is the typed client of the carkeeper REST API. Every payload
// is normalized into internal/storefront shapes before it leaves this package.
package gateway

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

	"github.com/ariefcatur/go-storefront/internal/logger"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	log     *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout works on a copy, so a client passed to WithHTTPClient is left as is.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		h := *c.http
		h.Timeout = d
		c.http = &h
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l.With("component", "gateway") }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithSession returns a client bound to sess. The transport is shared.
func (c *Client) WithSession(sess *Session) *Client {
	cp := *c
	cp.session = sess
	return &cp
}

func (c *Client) Session() *Session { return c.session }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, in call, out any) error {
	var token string
	if in.auth {
		t, ok := c.session.Token()
		if !ok {
			return authErr(0, "not signed in")
		}
		token = t
	}

	var reader io.Reader
	if in.body != nil {
		b, err := json.Marshal(in.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + in.path
	if len(in.query) > 0 {
		u += "?" + in.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, in.method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.log.Warn("upstream unreachable", "method", in.method, "path", in.path, "err", err)
		return networkErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkErr(err)
	}
	c.log.Debug("upstream call", "method", in.method, "path", in.path, "status", resp.StatusCode, "took", time.Since(start))

	var env envelope
	envErr := json.Unmarshal(raw, &env)
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	if envErr != nil && msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Invalidate()
		return authErr(resp.StatusCode, msg)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendErr(resp.StatusCode, msg)
	}
	if envErr != nil {
		return backendErr(resp.StatusCode, "malformed response envelope")
	}
	if !env.Success {
		if msg == "" {
			msg = "Request failed"
		}
		return backendErr(resp.StatusCode, msg)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return backendErr(resp.StatusCode, "decode payload: "+err.Error())
	}
	return nil
}

func joinIDs(ids []string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return strings.Join(out, ",")
}

func boolParam(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "true"
	}
	return "false"
}

func setIf(q url.Values, k, v string) {
	if v != "" {
		q.Set(k, v)
	}
}
