package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/benmeehan/push-agent/internal/constants"
	"github.com/benmeehan/push-agent/internal/models"
)

// Pusher sends a single heartbeat push.
type Pusher interface {
	Push(ctx context.Context, payload models.PushPayload) models.PushResult
}

// Client pushes heartbeats to one push monitor URL.
type Client struct {
	url       string
	token     string
	method    string
	userAgent string
	http      *http.Client
}

// NewClient creates a push client. A zero timeout leaves the transport default in place.
func NewClient(url, token, method, userAgent string, timeout time.Duration) *Client {
	if method == "" {
		method = constants.DefaultMethod
	}
	return &Client{
		url:       url,
		token:     token,
		method:    strings.ToUpper(method),
		userAgent: userAgent,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Push sends the payload and waits for the response status line.
// The status code is recorded but never judged here.
func (c *Client) Push(ctx context.Context, payload models.PushPayload) models.PushResult {
	result := models.PushResult{Timestamp: time.Now()}

	req, err := c.newRequest(ctx, payload)
	if err != nil {
		result.Err = fmt.Errorf("failed to build push request: %w", err)
		return result
	}

	resp, err := c.http.Do(req)
	result.Duration = time.Since(result.Timestamp)
	if err != nil {
		result.Err = fmt.Errorf("failed to send push request: %w", err)
		return result
	}
	defer cleanupBody(resp.Body)

	result.StatusCode = resp.StatusCode
	return result
}

func (c *Client) newRequest(ctx context.Context, payload models.PushPayload) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)

	switch c.method {
	case http.MethodGet:
		target := c.url
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target+sep+payload.Encode(), nil)
	case http.MethodPost:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(payload.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", constants.FormContentType)
		}
	default:
		return nil, fmt.Errorf("unsupported push method %q", c.method)
	}
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set(constants.PushTokenHeader, c.token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

// cleanupBody drains a bounded part of the body so the keep-alive
// connection can be reused, then closes it.
func cleanupBody(body io.ReadCloser) {
	io.Copy(io.Discard, &io.LimitedReader{
		R: body,
		N: constants.ResponseDrainLimit,
	})
	body.Close()
}
