package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/webchat-dev/webchat/core"
)

// Client is the transport to the chat backend. It owns the base URL, the
// HTTP client, and the current bearer token; it has no other state. All
// typed operations go through a single call path that implements the
// uniform JSON content contract and error surfacing.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the credential attached to every subsequent request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the credential. Requests issued afterwards carry no
// Authorization header.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// call issues one request and decodes the response per the content
// contract: a JSON content type parses structurally, anything else is
// literal text. A non-2xx status surfaces the parsed body's message field,
// or the literal text, as the error, classified by status code.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return core.NewError(core.KindNetwork, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path,
			"request_id", requestID, "error", err)
		return core.NewError(core.KindNetwork, "network error: "+err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.NewError(core.KindNetwork, "read response: "+err.Error())
	}

	c.logger.Debug("request", "method", method, "path", path,
		"request_id", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp, raw)
	}

	if out == nil {
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return core.NewError(core.KindNetwork,
			"unexpected response content type "+resp.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return core.NewError(core.KindNetwork, "decode response: "+err.Error())
	}
	return nil
}

// errorFrom turns a failed response into a classified error carrying the
// server's message.
func (c *Client) errorFrom(resp *http.Response, raw []byte) error {
	message := strings.TrimSpace(string(raw))
	if isJSON(resp.Header.Get("Content-Type")) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
			message = body.Message
		}
	}
	if message == "" {
		message = resp.Status
	}
	return core.NewError(kindForStatus(resp.StatusCode), message)
}

func kindForStatus(status int) core.ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return core.KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.KindUnauthorized
	case http.StatusNotFound:
		return core.KindNotFound
	case http.StatusConflict:
		return core.KindConflict
	default:
		return core.KindNetwork
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
