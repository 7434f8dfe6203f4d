// Package api provides REST clients for the upstream services the bot reads from.
//
// Endpoints:
//   - CoinGecko: https://api.coingecko.com/api/v3 (token prices, /simple/price)
//   - Polymarket Gamma: https://gamma-api.polymarket.com (market discovery, /public-search)
//
// Both share one Client implementation: retries with jittered exponential backoff
// on 5xx/429 and an optional token-bucket rate limit.
package api
