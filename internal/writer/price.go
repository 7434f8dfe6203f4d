package writer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/polyfocus/polyfocus-bot/internal/buffer"
	"github.com/polyfocus/polyfocus-bot/internal/metrics"
	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// ErrClosed is returned by HandlePrices after Stop.
var ErrClosed = errors.New("price writer closed")

// maxBufferGrowth caps buffer growth relative to BufferSize.
const maxBufferGrowth = 16

// BatchSender is satisfied by *pgxpool.Pool.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PriceWriter consumes price quotes and writes them to the price_updates table.
type PriceWriter struct {
	cfg     WriterConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	input *buffer.GrowableBuffer[model.PriceQuote]

	// Database
	db BatchSender

	// Batching
	batch       []priceRow
	batchMu     sync.Mutex
	flushMu     sync.Mutex // Serializes inserts
	flushTicker *time.Ticker
	lastDropped int64

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Stats
	stats WriterMetrics
}

// NewPriceWriter creates a new PriceWriter.
func NewPriceWriter(cfg WriterConfig, db BatchSender, m *metrics.Metrics, logger *slog.Logger) *PriceWriter {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultWriterConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}

	return &PriceWriter{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		input:   buffer.NewGrowableBuffer[model.PriceQuote](cfg.BufferSize, cfg.BufferSize*maxBufferGrowth),
		db:      db,
		batch:   make([]priceRow, 0, cfg.BatchSize),
	}
}

// HandlePrices queues the successful quotes of a poll batch. It never
// blocks on the database.
func (w *PriceWriter) HandlePrices(quotes map[string]model.PriceQuote) error {
	for _, q := range quotes {
		if q.Degraded() {
			continue
		}
		if !w.input.Send(q) {
			return ErrClosed
		}
	}
	return nil
}

// Start begins consuming quotes and writing to the database.
func (w *PriceWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	// Consumer goroutine
	w.wg.Add(1)
	go w.consumeLoop()

	// Flush ticker goroutine
	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("price writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop closes the input, drains what is buffered, and performs a final flush.
func (w *PriceWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping price writer")

	w.input.Close()
	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("price writer stop timed out")
		return ctx.Err()
	}

	w.drain()
	w.flush(ctx)

	w.logger.Info("price writer stopped")
	return nil
}

// Stats returns current metrics.
func (w *PriceWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	s := w.stats
	s.Dropped = w.input.Stats().Dropped
	return s
}

// consumeLoop moves buffered quotes into the pending batch.
func (w *PriceWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.input.Ready():
			w.drain()
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *PriceWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

// drain empties the input buffer, flushing whenever a batch fills.
func (w *PriceWriter) drain() {
	for {
		quotes := w.input.Drain(w.cfg.BatchSize)
		if len(quotes) == 0 {
			return
		}

		w.batchMu.Lock()
		for _, q := range quotes {
			w.batch = append(w.batch, transform(q))
		}
		shouldFlush := len(w.batch) >= w.cfg.BatchSize
		w.batchMu.Unlock()

		if shouldFlush {
			ctx := w.ctx
			if ctx == nil || ctx.Err() != nil {
				ctx = context.Background()
			}
			w.flush(ctx)
		}
	}
}

// transform converts a quote to a priceRow.
func transform(q model.PriceQuote) priceRow {
	return priceRow{
		Symbol:     q.Symbol,
		PriceUSD:   q.PriceUSD,
		ObservedAt: q.ObservedAt.UTC(),
	}
}

// flush writes the current batch to the database.
func (w *PriceWriter) flush(ctx context.Context) {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.recordDrops()

	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]priceRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	if err := w.batchInsert(ctx, batch); err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.metrics.WriteError()
		w.batchMu.Lock()
		w.stats.Errors++
		w.batchMu.Unlock()
		return
	}

	w.metrics.RowsWritten(len(batch))
	w.batchMu.Lock()
	w.stats.Inserts += int64(len(batch))
	w.stats.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed prices",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// recordDrops reports buffer overflow since the last call. Called with flushMu held.
func (w *PriceWriter) recordDrops() {
	dropped := w.input.Stats().Dropped
	if delta := dropped - w.lastDropped; delta > 0 {
		w.logger.Warn("price buffer overflow", "dropped", delta)
		w.metrics.RowsDropped(delta)
	}
	w.lastDropped = dropped
}

// batchInsert inserts rows using pgx.Batch.
func (w *PriceWriter) batchInsert(ctx context.Context, rows []priceRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO price_updates (symbol, price_usd, observed_at)
			VALUES ($1, $2::numeric, $3)
		`, r.Symbol, r.PriceUSD.String(), r.ObservedAt)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}
