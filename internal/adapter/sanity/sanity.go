// Package sanity reads the catalog from the headless content backend
// through its GROQ query API.
package sanity

import (
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

	"github.com/niksmo/storefront/pkg/retry"
)

const (
	DefaultAPIVersion = "2024-11-28"

	requestTimeout   = 10 * time.Second
	maxResponseBytes = 8 << 20
)

var (
	ErrMissingConfig = errors.New("missing content backend config")
	ErrResponse      = errors.New("unexpected content backend response")
)

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	// APIHost replaces the default host, e.g. for a proxy.
	APIHost string
}

func (c Config) validate() error {
	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "project id")
	}
	if c.Dataset == "" {
		missing = append(missing, "dataset")
	}
	if len(missing) != 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) queryURL() string {
	version := c.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	host := c.APIHost
	if host == "" {
		api := "api"
		if c.UseCDN {
			api = "apicdn"
		}
		host = fmt.Sprintf("https://%s.%s.sanity.io", c.ProjectID, api)
	}

	return fmt.Sprintf(
		"%s/v%s/data/query/%s",
		strings.TrimRight(host, "/"), strings.TrimPrefix(version, "v"), c.Dataset,
	)
}

// A Client executes GROQ queries.
type Client struct {
	httpClient *http.Client
	queryURL   string
	token      string
	retryCfg   retry.Config
}

type ClientOpt func(*Client)

func WithHTTPClient(hc *http.Client) ClientOpt {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithRetry(cfg retry.Config) ClientOpt {
	return func(c *Client) {
		c.retryCfg = cfg
	}
}

func NewClient(cfg Config, opts ...ClientOpt) (Client, error) {
	const op = "sanity.NewClient"

	if err := cfg.validate(); err != nil {
		return Client{}, fmt.Errorf("%s: %w", op, err)
	}

	c := Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		queryURL:   cfg.queryURL(),
		token:      cfg.Token,
		retryCfg: retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
}

// Query runs the GROQ query and decodes the result into v.
// It reports false when the result is null.
func (c Client) Query(
	ctx context.Context, query string, params map[string]any, v any,
) (bool, error) {
	const op = "sanity.Client.Query"
	log := slog.With("op", op)

	reqURL, err := c.buildURL(query, params)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := retry.DoWithResult(ctx, c.retryCfg, func() (json.RawMessage, error) {
		return c.do(ctx, reqURL)
	})
	if err != nil {
		log.Warn("query failed", "err", err)
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrResponse, err)
	}
	return true, nil
}

func (c Client) buildURL(query string, params map[string]any) (string, error) {
	values := url.Values{}
	values.Set("query", query)
	for name, p := range params {
		b, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("param %q: %w", name, err)
		}
		values.Set("$"+name, string(b))
	}
	return c.queryURL + "?" + values.Encode(), nil
}

func (c Client) do(ctx context.Context, reqURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		err := statusError(res.StatusCode, body)
		if retryableStatus(res.StatusCode) {
			return nil, err
		}
		return nil, retry.Permanent(err)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %w", ErrResponse, err))
	}
	return qr.Result, nil
}

func statusError(code int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	if er.Error.Description != "" {
		return fmt.Errorf("%w: status %d: %s", ErrResponse, code, er.Error.Description)
	}
	return fmt.Errorf("%w: status %d", ErrResponse, code)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
