// Package kitclient is a small client for the BrandKit HTTP API with an
// optimistic local store. UIs mutate the store and see the change
// immediately; the store reconciles with the server in the background and
// replays buffered items at confirm time.
package kitclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNotFound = errors.New("kit_not_found")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Type, e.Message)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to the BrandKit kit API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kit mirrors the server's subscription kit resource.
type Kit struct {
	ID                  string `json:"id"`
	Status              string `json:"status"`
	DeliveryFrequencyID *int64 `json:"delivery_frequency_id,omitempty"`
	TotalPriceCents     int64  `json:"total_price_cents"`
	ConfirmedAt         string `json:"confirmed_at,omitempty"`
}

type SummaryItem struct {
	ProductID            string `json:"product_id"`
	ProductName          string `json:"product_name"`
	Quantity             int    `json:"quantity"`
	PriceAtAdditionCents int64  `json:"price_at_addition_cents"`
}

type Summary struct {
	Kit   Kit           `json:"kit"`
	Items []SummaryItem `json:"items"`
}

func (c *Client) CreateKit(ctx context.Context) (*Kit, error) {
	var kit Kit
	if err := c.do(ctx, http.MethodPost, "/kits", nil, &kit); err != nil {
		return nil, err
	}
	return &kit, nil
}

func (c *Client) GetSummary(ctx context.Context, kitID string) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, http.MethodGet, "/kits/"+kitID, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) AddItem(ctx context.Context, kitID, productID string, quantity int) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/kits/"+kitID+"/items", body, nil)
}

func (c *Client) UpdateQuantity(ctx context.Context, kitID, productID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	return c.do(ctx, http.MethodPatch, "/kits/"+kitID+"/items/"+productID, body, nil)
}

func (c *Client) RemoveItem(ctx context.Context, kitID, productID string) error {
	return c.do(ctx, http.MethodDelete, "/kits/"+kitID+"/items/"+productID, nil, nil)
}

func (c *Client) SetFrequency(ctx context.Context, kitID string, frequencyID int64) error {
	body := map[string]any{"frequency_id": frequencyID}
	return c.do(ctx, http.MethodPatch, "/kits/"+kitID+"/frequency", body, nil)
}

func (c *Client) Confirm(ctx context.Context, kitID string) (*Kit, error) {
	var kit Kit
	if err := c.do(ctx, http.MethodPost, "/kits/"+kitID+"/confirm", nil, &kit); err != nil {
		return nil, err
	}
	return &kit, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	}
	return apiErr
}
