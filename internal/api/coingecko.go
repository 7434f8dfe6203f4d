package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// SimplePriceResponse from GET /simple/price: coin id -> currency -> price.
type SimplePriceResponse map[string]map[string]decimal.Decimal

// Price returns the price of id in currency, if present.
func (r SimplePriceResponse) Price(id, currency string) (decimal.Decimal, bool) {
	prices, ok := r[id]
	if !ok {
		return decimal.Zero, false
	}
	p, ok := prices[currency]
	return p, ok
}

// SimplePrice fetches current prices for the given CoinGecko ids.
func (c *Client) SimplePrice(ctx context.Context, ids []string, vsCurrency string) (SimplePriceResponse, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", vsCurrency)

	var resp SimplePriceResponse
	if err := c.get(ctx, "/simple/price", query, &resp); err != nil {
		return nil, fmt.Errorf("get simple price %s: %w", strings.Join(ids, ","), err)
	}

	return resp, nil
}
