// Package catalog resolves card identities against the TCG catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
	"github.com/adamistheanswer/pokebay/internal/metrics"
)

// Client is the catalog provider HTTP client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type setEnvelope struct {
	Data struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		PrintedTotal int    `json:"printedTotal"`
	} `json:"data"`
}

type cardEnvelope struct {
	Data struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Number string `json:"number"`
	} `json:"data"`
}

// Items resolves the given collector numbers within a set into catalog
// items with formatted numbers.
func (c *Client) Items(ctx context.Context, setID string, numbers []string) ([]model.Item, error) {
	set, err := c.set(ctx, setID)
	if err != nil {
		metrics.RecordProviderFetch("catalog", "error")
		return nil, fmt.Errorf("resolve set %s: %w", setID, err)
	}

	items := make([]model.Item, 0, len(numbers))
	for _, number := range numbers {
		card, err := c.card(ctx, setID, number)
		if err != nil {
			metrics.RecordProviderFetch("catalog", "error")
			return nil, fmt.Errorf("resolve card %s in set %s: %w", number, setID, err)
		}
		items = append(items, model.Item{
			ID:      card.ID,
			Name:    card.Name,
			SetName: set.Name,
			Number:  FormatNumber(card.Number, set.PrintedTotal),
		})
	}
	metrics.RecordProviderFetch("catalog", "ok")
	return items, nil
}

type setInfo struct {
	ID           string
	Name         string
	PrintedTotal int
}

func (c *Client) set(ctx context.Context, setID string) (*setInfo, error) {
	var envelope setEnvelope
	if err := c.get(ctx, "/sets/"+url.PathEscape(setID), &envelope); err != nil {
		return nil, err
	}
	return &setInfo{
		ID:           envelope.Data.ID,
		Name:         envelope.Data.Name,
		PrintedTotal: envelope.Data.PrintedTotal,
	}, nil
}

type cardInfo struct {
	ID     string
	Name   string
	Number string
}

func (c *Client) card(ctx context.Context, setID, number string) (*cardInfo, error) {
	var envelope cardEnvelope
	if err := c.get(ctx, "/cards/"+url.PathEscape(setID+"-"+number), &envelope); err != nil {
		return nil, err
	}
	return &cardInfo{
		ID:     envelope.Data.ID,
		Name:   envelope.Data.Name,
		Number: envelope.Data.Number,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FormatNumber renders a collector number for display: integral numbers
// with a known set total become zero-padded three digit fractions like
// "025/102"; anything else passes through unchanged.
func FormatNumber(raw string, total int) string {
	n, err := strconv.Atoi(raw)
	if err != nil || total <= 0 {
		return raw
	}
	return fmt.Sprintf("%03d/%d", n, total)
}
