// Package writer implements the price history batch writer.
//
// PriceWriter subscribes to the price poller, buffers every successful
// quote, and inserts them into price_updates in batches. Degraded quotes
// are never persisted. Writes are append-only.
package writer
