// Package registrationapi is the HTTP client for an external registration service.
package registrationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/target/bizportal/internal/domain/registration"
	"github.com/target/bizportal/internal/ports"
)

var _ ports.Registrar = (*Client)(nil)

// maxResponseBytes caps how much of a reply body is read.
const maxResponseBytes = 64 << 10

// Config describes the remote endpoint.
type Config struct {
	// URL is the full registration endpoint, e.g. https://api.example.com/api/auth/register.
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client // optional; a cookie-aware client is built when nil
}

// Client posts sign-up requests to the registration service.
// Cookies set by the service are kept for the lifetime of the client.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, errors.New("registration service URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid registration service URL %q", raw)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("cookie jar: %w", jarErr)
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Jar: jar, Timeout: timeout}
	}
	return &Client{endpoint: u.String(), http: hc}, nil
}

// Register sends exactly one request. A reply that decodes as a registration
// response is returned as-is regardless of status code; anything else is an error.
func (c *Client) Register(ctx context.Context, req registration.Request) (registration.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return registration.Response{}, fmt.Errorf("marshal registration request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return registration.Response{}, fmt.Errorf("build registration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return registration.Response{}, fmt.Errorf("registration service unreachable: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return registration.Response{}, fmt.Errorf("read registration response: %w", err)
	}

	var out struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(payload, &out); jsonErr != nil || out.Success == nil {
		return registration.Response{}, fmt.Errorf("registration service returned %d", resp.StatusCode)
	}
	if *out.Success && resp.StatusCode >= http.StatusBadRequest {
		return registration.Response{}, fmt.Errorf("registration service returned %d", resp.StatusCode)
	}
	return registration.Response{Success: *out.Success, Message: out.Message}, nil
}
