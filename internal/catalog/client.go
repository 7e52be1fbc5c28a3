package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

const (
	// Only the electronics category is shown on the storefront.
	categoryFilter = "electronics"
	maxProducts    = 12

	// Remote prices arrive in major units; one major unit is 1000 minor units.
	priceScale = 1000
)

// ErrUnavailable covers every catalog failure mode: transport errors,
// non-2xx responses and malformed payloads. Callers degrade to an empty
// catalog instead of crashing.
var ErrUnavailable = errors.New("catalog unavailable")

type rawProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the remote product list, keeps only the category of
// interest, truncates it and maps every record into the normalized shape.
func (c *Client) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw []rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", ErrUnavailable, err)
	}

	products := make([]Product, 0, maxProducts)
	for _, r := range raw {
		if r.Category != categoryFilter {
			continue
		}
		products = append(products, Product{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			PriceMinor:  int64(math.Round(r.Price * priceScale)),
			Image:       r.Image,
			RatingRate:  r.Rating.Rate,
			RatingCount: r.Rating.Count,
		})
		if len(products) == maxProducts {
			break
		}
	}

	return products, nil
}
