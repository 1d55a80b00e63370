// Package market fetches candidate offers from the marketplace browse API.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
	"github.com/adamistheanswer/pokebay/internal/metrics"
)

// OfferProvider resolves an item into its candidate offers.
type OfferProvider interface {
	Offers(ctx context.Context, item model.Item) ([]model.Offer, error)
}

// Client is the raw marketplace HTTP client. It searches fixed-price
// listings in a single marketplace and maps them to offers.
type Client struct {
	baseURL     string
	apiKey      string
	marketplace string
	limit       int
	httpClient  *http.Client
}

// NewClient creates a marketplace client.
func NewClient(baseURL, apiKey, marketplace string, limit int, timeout time.Duration) *Client {
	if limit <= 0 {
		limit = 25
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		marketplace: marketplace,
		limit:       limit,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	ItemSummaries []struct {
		ItemID string `json:"itemId"`
		Title  string `json:"title"`
		Price  struct {
			Value string `json:"value"`
		} `json:"price"`
		ShippingOptions []struct {
			ShippingCost struct {
				Value string `json:"value"`
			} `json:"shippingCost"`
		} `json:"shippingOptions"`
		Seller struct {
			Username string `json:"username"`
		} `json:"seller"`
		ItemWebURL string `json:"itemWebUrl"`
	} `json:"itemSummaries"`
}

// SearchQuery builds the canonical query string for an item. The same
// string doubles as the cache signature, so it must be stable for a
// given item.
func SearchQuery(item model.Item) string {
	return strings.TrimSpace(strings.Join([]string{item.Name, item.Number, item.SetName}, " "))
}

// Offers searches the marketplace for the item and returns its
// candidate offers. Listings without a seller are skipped; missing
// numeric fields default to zero.
func (c *Client) Offers(ctx context.Context, item model.Item) ([]model.Offer, error) {
	params := url.Values{}
	params.Set("q", SearchQuery(item))
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("filter", "buyingOptions:{FIXED_PRICE}")

	endpoint := c.baseURL + "/item_summary/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordProviderFetch("market", "error")
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderFetch("market", "error")
		return nil, fmt.Errorf("marketplace returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RecordProviderFetch("market", "error")
		return nil, err
	}

	offers := make([]model.Offer, 0, len(body.ItemSummaries))
	for _, s := range body.ItemSummaries {
		if s.Seller.Username == "" {
			continue
		}
		offer := model.Offer{
			ID:     s.ItemID,
			ItemID: item.ID,
			Vendor: s.Seller.Username,
			Price:  parseAmount(s.Price.Value),
			Link:   s.ItemWebURL,
		}
		if len(s.ShippingOptions) > 0 {
			offer.ShippingCost = parseAmount(s.ShippingOptions[0].ShippingCost.Value)
		}
		offers = append(offers, offer)
	}
	metrics.RecordProviderFetch("market", "ok")
	return offers, nil
}

// parseAmount parses a decimal money string, defaulting to zero when
// the field is absent or malformed.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
