package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// SearchMarketsOptions narrows a Gamma search.
type SearchMarketsOptions struct {
	Query      string
	Limit      int  // Per result type
	ActiveOnly bool // Exclude closed markets
}

// SearchResponse from GET /public-search.
type SearchResponse struct {
	Events  []GammaEvent  `json:"events"`
	Markets []GammaMarket `json:"markets"`
}

// GammaEvent groups related markets.
type GammaEvent struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Slug    string        `json:"slug"`
	Markets []GammaMarket `json:"markets"`
}

// GammaMarket represents a market from the Gamma API.
// Outcomes and OutcomePrices are JSON arrays encoded as strings.
type GammaMarket struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	Slug          string `json:"slug"`
	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`
	Volume        string `json:"volume"`
	Liquidity     string `json:"liquidity"`
	EndDate       string `json:"endDate"`
	Active        bool   `json:"active"`
	Closed        bool   `json:"closed"`
}

// SearchMarkets runs a text search and returns the matching markets,
// flattened out of their events and deduplicated by id.
func (c *Client) SearchMarkets(ctx context.Context, opts SearchMarketsOptions) ([]model.Market, error) {
	query := url.Values{}
	query.Set("q", opts.Query)
	if opts.Limit > 0 {
		query.Set("limit_per_type", strconv.Itoa(opts.Limit))
	}
	if opts.ActiveOnly {
		query.Set("events_status", "active")
	}

	var resp SearchResponse
	if err := c.get(ctx, "/public-search", query, &resp); err != nil {
		return nil, fmt.Errorf("search markets %q: %w", opts.Query, err)
	}

	seen := make(map[string]bool)
	var markets []model.Market
	add := func(gm GammaMarket) {
		if gm.ID == "" || seen[gm.ID] {
			return
		}
		if opts.ActiveOnly && gm.Closed {
			return
		}
		seen[gm.ID] = true
		markets = append(markets, gm.ToModel())
	}

	for _, ev := range resp.Events {
		for _, gm := range ev.Markets {
			add(gm)
		}
	}
	for _, gm := range resp.Markets {
		add(gm)
	}

	if opts.Limit > 0 && len(markets) > opts.Limit {
		markets = markets[:opts.Limit]
	}

	return markets, nil
}

// ToModel converts a Gamma market to the shared model. Malformed numeric
// fields become zero rather than failing the whole search.
func (m GammaMarket) ToModel() model.Market {
	out := model.Market{
		ID:        m.ID,
		Question:  m.Question,
		Slug:      m.Slug,
		Outcomes:  parseStringArray(m.Outcomes),
		Volume:    parseDecimal(m.Volume),
		Liquidity: parseDecimal(m.Liquidity),
		EndDate:   parseTime(m.EndDate),
		Active:    m.Active,
		Closed:    m.Closed,
	}

	for _, p := range parseStringArray(m.OutcomePrices) {
		out.Prices = append(out.Prices, parseDecimal(p))
	}

	return out
}

func parseStringArray(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try date only
		t, err = time.Parse("2006-01-02", iso)
		if err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}
