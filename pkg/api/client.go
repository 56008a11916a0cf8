// Package api talks to the Workable SPI v3 endpoints the application form
// needs: fetching a job's form schema and submitting a candidate.
package api

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

	"github.com/ianbrown80/workable-plugin/pkg/schema"
)

const defaultTimeout = 30 * time.Second

// Config carries the account credential and transport knobs. Credentials are
// always passed in explicitly; the client never reads ambient state.
type Config struct {
	// Subdomain is the account-specific prefix of the API host.
	Subdomain string
	// Token is the bearer token for the account.
	Token string
	// BaseURL overrides the derived https://{subdomain}.workable.com/spi/v3
	// base. Mostly useful for tests.
	BaseURL string
	// HTTPClient overrides the transport. Timeout applies when it is unset.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client issues the two outbound calls of the form lifecycle. Each method
// performs exactly one request: no retries, no caching.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New validates the configuration and builds a client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("api: access token is required")
	}

	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		subdomain := strings.TrimSpace(cfg.Subdomain)
		if subdomain == "" {
			return nil, errors.New("api: subdomain is required")
		}
		base = fmt.Sprintf("https://%s.workable.com/spi/v3", subdomain)
	}
	base = strings.TrimRight(base, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: base, token: strings.TrimSpace(cfg.Token), http: httpClient}, nil
}

// GetApplicationForm fetches the form schema for a job shortcode. A blank
// shortcode fails fast without touching the network.
func (c *Client) GetApplicationForm(ctx context.Context, shortcode string) (*schema.ApplicationForm, error) {
	shortcode = strings.TrimSpace(shortcode)
	if shortcode == "" {
		return nil, &FetchError{Code: FetchMissingShortcode, Message: "the form shortcode is missing"}
	}

	endpoint := fmt.Sprintf("%s/jobs/%s/application_form/", c.baseURL, url.PathEscape(shortcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Code: FetchUnknown, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Code: FetchUnknown, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &FetchError{Code: FetchUnknown, Err: err}
		}
		form, err := schema.Decode(body)
		if err != nil {
			return nil, &FetchError{Code: FetchDecode, Err: err}
		}
		return form, nil
	case http.StatusUnauthorized:
		return nil, &FetchError{Code: FetchNotAuthorised, Message: resp.Status}
	case http.StatusNotFound:
		return nil, &FetchError{Code: FetchNotFound, Message: resp.Status}
	default:
		return nil, &FetchError{Code: FetchUnknown, Message: "unknown error"}
	}
}

// SubmitCandidate posts an assembled payload to the job's candidates
// endpoint. A nil error means the API answered 201.
func (c *Client) SubmitCandidate(ctx context.Context, shortcode string, payload map[string]any) error {
	shortcode = strings.TrimSpace(shortcode)
	if shortcode == "" {
		return &SubmitError{Err: errors.New("shortcode is missing")}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &SubmitError{Err: fmt.Errorf("encode payload: %w", err)}
	}

	endpoint := fmt.Sprintf("%s/jobs/%s/candidates", c.baseURL, url.PathEscape(shortcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &SubmitError{Err: err}
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &SubmitError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusUnauthorized, http.StatusUnprocessableEntity:
		return &SubmitError{Status: resp.StatusCode, Message: upstreamMessage(resp.Body)}
	default:
		return &SubmitError{Status: resp.StatusCode}
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

// upstreamMessage pulls the message field out of a rejection body. A body
// that does not decode yields an empty message and the caller's generic copy.
func upstreamMessage(r io.Reader) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return ""
	}
	return parsed.Message
}
