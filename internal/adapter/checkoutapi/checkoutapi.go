// Package checkoutapi creates hosted checkout sessions through the
// external checkout-session HTTP API.
package checkoutapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

var _ port.CheckoutGateway = (*Client)(nil)

const (
	requestTimeout   = 15 * time.Second
	maxResponseBytes = 1 << 20
	defaultCurrency  = "usd"
)

var (
	ErrMissingConfig = errors.New("missing checkout api config")
	ErrRejected      = errors.New("checkout session rejected")
	ErrResponse      = errors.New("unexpected checkout api response")
)

type Config struct {
	BaseURL string
	APIKey  string
	// SuccessURL and CancelURL may contain the {ORDER_NUMBER} placeholder.
	SuccessURL string
	CancelURL  string
	Currency   string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
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

func NewClient(cfg Config, opts ...ClientOpt) (*Client, error) {
	const op = "checkoutapi.NewClient"

	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w: base url and api key are required",
			op, ErrMissingConfig)
	}
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, fmt.Errorf("%s: %w: success and cancel urls are required",
			op, ErrMissingConfig)
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		cfg:        cfg,
		retryCfg: retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(250 * time.Millisecond),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type (
	sessionRequest struct {
		Mode          string            `json:"mode"`
		CustomerEmail string            `json:"customer_email,omitempty"`
		Metadata      map[string]string `json:"metadata"`
		SuccessURL    string            `json:"success_url"`
		CancelURL     string            `json:"cancel_url"`
		LineItems     []lineItem        `json:"line_items"`
	}

	lineItem struct {
		PriceData priceData `json:"price_data"`
		Quantity  int       `json:"quantity"`
	}

	priceData struct {
		Currency    string      `json:"currency"`
		UnitAmount  int64       `json:"unit_amount"`
		ProductData productData `json:"product_data"`
	}

	productData struct {
		Name        string            `json:"name"`
		Description string            `json:"description,omitempty"`
		Images      []string          `json:"images,omitempty"`
		Metadata    map[string]string `json:"metadata,omitempty"`
	}

	sessionResponse struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}

	errorResponse struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
)

// CreateSession posts the basket lines and order metadata and returns
// the hosted session to redirect the customer to.
func (c *Client) CreateSession(
	ctx context.Context, req domain.CheckoutRequest,
) (domain.CheckoutSession, error) {
	const op = "checkoutapi.Client.CreateSession"
	log := slog.With("op", op)

	body, err := json.Marshal(c.newSessionRequest(req))
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := retry.DoWithResult(ctx, c.retryCfg, func() (sessionResponse, error) {
		return c.post(ctx, body, req.Metadata.OrderNumber)
	})
	if err != nil {
		log.Warn("checkout session not created",
			"orderNumber", req.Metadata.OrderNumber, "err", err)
		return domain.CheckoutSession{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.CheckoutSession{SessionID: res.ID, URL: res.URL}, nil
}

func (c *Client) newSessionRequest(req domain.CheckoutRequest) sessionRequest {
	m := req.Metadata
	sr := sessionRequest{
		Mode:          "payment",
		CustomerEmail: m.CustomerEmail,
		Metadata: map[string]string{
			"orderNumber":   m.OrderNumber,
			"customerName":  m.CustomerName,
			"customerEmail": m.CustomerEmail,
			"userId":        m.UserID,
		},
		SuccessURL: domain.ExpandOrderURL(c.cfg.SuccessURL, m.OrderNumber),
		CancelURL:  domain.ExpandOrderURL(c.cfg.CancelURL, m.OrderNumber),
		LineItems:  make([]lineItem, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		p := item.Product
		pd := productData{
			Name:        p.Name,
			Description: p.Description,
			Metadata:    map[string]string{"id": p.ProductID},
		}
		if p.ImageURL != "" {
			pd.Images = []string{p.ImageURL}
		}
		sr.LineItems = append(sr.LineItems, lineItem{
			PriceData: priceData{
				Currency:    c.cfg.Currency,
				UnitAmount:  domain.MinorUnits(p.Price),
				ProductData: pd,
			},
			Quantity: item.Quantity,
		})
	}
	return sr
}

func (c *Client) post(
	ctx context.Context, body []byte, orderNumber string,
) (sessionResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.BaseURL+"/sessions", bytes.NewReader(body),
	)
	if err != nil {
		return sessionResponse{}, retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	// retries of one order share the key
	req.Header.Set("Idempotency-Key", orderNumber)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return sessionResponse{}, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return sessionResponse{}, err
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests,
		res.StatusCode >= http.StatusInternalServerError:
		return sessionResponse{}, fmt.Errorf("%w: status %d", ErrResponse, res.StatusCode)
	case res.StatusCode >= http.StatusBadRequest:
		return sessionResponse{}, retry.Permanent(rejectedError(res.StatusCode, data))
	}

	var sr sessionResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return sessionResponse{}, retry.Permanent(fmt.Errorf("%w: %w", ErrResponse, err))
	}
	if sr.URL == "" {
		return sessionResponse{}, retry.Permanent(
			fmt.Errorf("%w: session without url", ErrResponse),
		)
	}
	return sr, nil
}

func rejectedError(code int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	if er.Error.Message != "" {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, code, er.Error.Message)
	}
	return fmt.Errorf("%w: status %d", ErrRejected, code)
}
