// Package database manages the PostgreSQL connection pool and schema.
//
// One database holds:
//   - users and their referrer links
//   - referral_rewards and rewarded_trades (settlement dedupe)
//   - price_updates (price history written by the price writer)
package database
