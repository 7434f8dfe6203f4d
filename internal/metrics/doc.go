// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Poll ticks, per-symbol fetch failures and latest prices
//   - Subscriber notification failures
//   - Referral credits, rejections and integrity failures
//   - Price writer batches and buffer drops
//   - Stream clients and bot commands
//
// All recording methods are safe on a nil *Metrics.
package metrics
