package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polyfocus/polyfocus-bot/internal/api"
	"github.com/polyfocus/polyfocus-bot/internal/metrics"
	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// VSCurrency is the quote currency requested from the price source.
const VSCurrency = "usd"

// PriceSource fetches prices for source ids.
type PriceSource interface {
	SimplePrice(ctx context.Context, ids []string, vsCurrency string) (api.SimplePriceResponse, error)
}

// Config holds poller configuration.
type Config struct {
	Symbols     map[string]string // Symbol -> price source id
	Interval    time.Duration     // Delay between ticks (default: 30s)
	Timeout     time.Duration     // Per-request timeout (default: 10s)
	Concurrency int               // Max concurrent requests per tick (default: 4)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Symbols: map[string]string{
			"POL":  "polymarket",
			"ETH":  "ethereum",
			"SOL":  "solana",
			"USDC": "usd-coin",
		},
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		Concurrency: 4,
	}
}

// Option configures a Poller.
type Option func(*Poller)

// WithMetrics records tick and failure metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Poller) {
		p.metrics = m
	}
}

// WithClock overrides the time source used for ObservedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		p.now = now
	}
}

// Poller periodically fetches prices, caches them, and fans them out.
type Poller struct {
	cfg     Config
	source  PriceSource
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	symbols []string

	cacheMu     sync.RWMutex
	cache       map[string]model.PriceQuote
	lastUpdated time.Time

	subMu  sync.RWMutex
	subs   []subscription
	nextID SubscriptionID

	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source PriceSource, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}

	symbols := make([]string, 0, len(cfg.Symbols))
	for s := range cfg.Symbols {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	p := &Poller{
		cfg:     cfg,
		source:  source,
		logger:  logger,
		now:     time.Now,
		symbols: symbols,
		cache:   make(map[string]model.PriceQuote),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Symbols returns the configured symbols in sorted order.
func (p *Poller) Symbols() []string {
	out := make([]string, len(p.symbols))
	copy(out, p.symbols)
	return out
}

// Start runs the polling loop on its own goroutine.
func (p *Poller) Start(ctx context.Context) error {
	if p.stopped.Load() {
		return fmt.Errorf("poller already stopped")
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Run(ctx)
	}()

	p.logger.Info("price poller started",
		"symbols", p.symbols,
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop asks the loop to exit. A tick already in progress finishes,
// including its notifications, and no new tick begins. Stop waits for a
// loop launched by Start to return, or for ctx. Calling Stop again is a no-op.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.stopCh)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("price poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes ticks until Stop is called or ctx is done. Fetch and
// subscriber failures never end the loop.
func (p *Poller) Run(ctx context.Context) {
	for {
		if p.stopped.Load() || ctx.Err() != nil {
			return
		}

		p.tick(ctx)

		timer := time.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// tick fetches every symbol, merges the batch into the cache, and
// notifies subscribers.
func (p *Poller) tick(ctx context.Context) {
	start := time.Now()

	batch := p.FetchBatch(ctx, p.symbols)

	// A cancelled context fails every fetch; keep the last good quotes.
	if ctx.Err() != nil {
		p.logger.Debug("poll tick abandoned", "error", ctx.Err())
		return
	}

	p.cacheMu.Lock()
	for symbol, q := range batch {
		p.cache[symbol] = q
	}
	p.lastUpdated = p.now()
	p.cacheMu.Unlock()

	var failed int
	for symbol, q := range batch {
		if q.Degraded() {
			failed++
			p.metrics.FetchError(symbol)
		} else {
			p.metrics.SetPrice(symbol, q.PriceUSD)
		}
	}
	p.metrics.ObservePoll(time.Since(start).Seconds())

	p.notify(batch)

	p.logger.Debug("poll tick complete",
		"symbols", len(batch),
		"errors", failed,
		"duration", time.Since(start),
	)
}

// FetchOne fetches the price of a single symbol. It never fails: any
// problem is reported as a degraded quote.
func (p *Poller) FetchOne(ctx context.Context, symbol string) model.PriceQuote {
	at := p.now()

	id, ok := p.cfg.Symbols[symbol]
	if !ok {
		return model.DegradedQuote(symbol, at, "unknown symbol")
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	resp, err := p.source.SimplePrice(ctx, []string{id}, VSCurrency)
	if err != nil {
		p.logger.Warn("failed to fetch price", "symbol", symbol, "error", err)
		return model.DegradedQuote(symbol, at, err.Error())
	}

	price, ok := resp.Price(id, VSCurrency)
	if !ok {
		p.logger.Warn("price missing from response", "symbol", symbol, "id", id)
		return model.DegradedQuote(symbol, at, fmt.Sprintf("no %s price for %s", VSCurrency, id))
	}
	if price.IsNegative() {
		return model.DegradedQuote(symbol, at, fmt.Sprintf("negative price %s", price))
	}

	return model.PriceQuote{
		Symbol:     symbol,
		PriceUSD:   price,
		ObservedAt: at,
	}
}

// FetchBatch fetches the given symbols concurrently and returns exactly
// one quote per distinct symbol.
func (p *Poller) FetchBatch(ctx context.Context, symbols []string) map[string]model.PriceQuote {
	unique := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}

	limit := p.cfg.Concurrency
	if limit <= 0 || limit > len(unique) {
		limit = len(unique)
	}

	results := make(map[string]model.PriceQuote, len(unique))
	if len(unique) == 0 {
		return results
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, limit)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, symbol := range unique {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			q := p.FetchOne(ctx, symbol)

			mu.Lock()
			results[symbol] = q
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return results
}

// Cached returns the latest quote for symbol.
func (p *Poller) Cached(symbol string) (model.PriceQuote, bool) {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	q, ok := p.cache[symbol]
	return q, ok
}

// AllCached returns a copy of the whole cache.
func (p *Poller) AllCached() map[string]model.PriceQuote {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()

	out := make(map[string]model.PriceQuote, len(p.cache))
	for k, v := range p.cache {
		out[k] = v
	}
	return out
}

// LastUpdated returns when the cache was last merged, or the zero time.
func (p *Poller) LastUpdated() time.Time {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	return p.lastUpdated
}
