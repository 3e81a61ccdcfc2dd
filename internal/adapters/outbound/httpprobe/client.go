// Package httpprobe implements domain.HTTPProber on net/http with a
// fixed per-request timeout.
package httpprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abanremit/readycheck/internal/domain"
)

// maxProbeBody caps how much of a response the audit reads. Probes only
// inspect small JSON payloads.
const maxProbeBody = 1 << 20

// Client is a probing HTTP client. Redirects are not followed: the
// audit inspects raw status codes, and a 301 to a login page must not
// masquerade as a 200.
type Client struct {
	hc *http.Client
}

var _ domain.HTTPProber = (*Client)(nil)

func New(timeout time.Duration) *Client {
	return &Client{hc: &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (domain.ProbeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProbeResponse{}, fmt.Errorf("building request: %w", err)
	}
	return c.do(req, headers)
}

func (c *Client) PostJSON(ctx context.Context, url string, body any, headers map[string]string) (domain.ProbeResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.ProbeResponse{}, fmt.Errorf("encoding body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return domain.ProbeResponse{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, headers)
}

func (c *Client) do(req *http.Request, headers map[string]string) (domain.ProbeResponse, error) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.ProbeResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
	if err != nil {
		return domain.ProbeResponse{}, fmt.Errorf("reading response: %w", err)
	}

	out := domain.ProbeResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    make(map[string]string, len(resp.Header)),
	}
	for k := range resp.Header {
		out.Headers[k] = resp.Header.Get(k)
	}
	return out, nil
}
