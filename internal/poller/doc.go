// Package poller implements the Price Poller component.
//
// The Price Poller:
//   - Fetches USD prices for a fixed symbol set on every tick
//   - Fetches the symbols of one tick concurrently, bounded by Concurrency
//   - Records failed fetches as degraded quotes instead of dropping them
//   - Caches the latest quote per symbol for synchronous readers
//   - Notifies subscribers sequentially, in registration order
package poller
