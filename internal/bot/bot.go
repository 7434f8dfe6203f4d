// Package bot serves the Telegram chat interface: prices, market search,
// referrals and language selection.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/polyfocus/polyfocus-bot/internal/api"
	"github.com/polyfocus/polyfocus-bot/internal/i18n"
	"github.com/polyfocus/polyfocus-bot/internal/metrics"
	"github.com/polyfocus/polyfocus-bot/internal/model"
	"github.com/polyfocus/polyfocus-bot/internal/referral"
	"github.com/polyfocus/polyfocus-bot/internal/store"
)

// Sender delivers outgoing messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// UpdateSource yields incoming updates. *tgbotapi.BotAPI satisfies it.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Prices reads the price cache.
type Prices interface {
	Symbols() []string
	Cached(symbol string) (model.PriceQuote, bool)
	AllCached() map[string]model.PriceQuote
}

// MarketSearcher finds prediction markets.
type MarketSearcher interface {
	SearchMarkets(ctx context.Context, opts api.SearchMarketsOptions) ([]model.Market, error)
}

// Referrals is the referral service surface used by commands.
type Referrals interface {
	ReferralLink(ctx context.Context, userID int64) (string, error)
	Stats(ctx context.Context, userID int64) (referral.Stats, error)
	ApplyReferralCode(ctx context.Context, code string, userID int64) (referral.Outcome, error)
	Tree(ctx context.Context, userID int64, depth int) (*referral.TreeNode, error)
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// Deps are the collaborators commands read from.
type Deps struct {
	Users      store.Store
	Prices     Prices
	Markets    MarketSearcher // nil disables /search
	Referrals  Referrals
	Translator *i18n.Translator
	Metrics    *metrics.Metrics
}

// Config holds bot behaviour settings.
type Config struct {
	UpdateTimeout   int // Long-poll timeout in seconds
	DefaultLanguage string
	TreeDepth       int
	LeaderboardSize int
	SearchLimit     int
	CommandTimeout  time.Duration
	MaxConcurrent   int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UpdateTimeout:   60,
		DefaultLanguage: i18n.DefaultLanguage,
		TreeDepth:       3,
		LeaderboardSize: 10,
		SearchLimit:     5,
		CommandTimeout:  15 * time.Second,
		MaxConcurrent:   8,
	}
}

// Bot dispatches chat commands.
type Bot struct {
	cfg    Config
	sender Sender
	deps   Deps
	logger *slog.Logger

	sem    chan struct{}
	wg     sync.WaitGroup
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
	source UpdateSource
}

// New creates a Bot. Zero config fields take their defaults.
func New(cfg Config, sender Sender, deps Deps, logger *slog.Logger) (*Bot, error) {
	if sender == nil {
		return nil, errors.New("bot: sender is required")
	}
	if deps.Users == nil || deps.Prices == nil || deps.Referrals == nil || deps.Translator == nil {
		return nil, errors.New("bot: users, prices, referrals and translator are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultConfig()
	if cfg.UpdateTimeout <= 0 {
		cfg.UpdateTimeout = def.UpdateTimeout
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = def.DefaultLanguage
	}
	if cfg.TreeDepth <= 0 {
		cfg.TreeDepth = def.TreeDepth
	}
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = def.LeaderboardSize
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = def.SearchLimit
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = def.CommandTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}

	return &Bot{
		cfg:    cfg,
		sender: sender,
		deps:   deps,
		logger: logger,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
	}, nil
}

// Start begins consuming updates from source.
func (b *Bot) Start(ctx context.Context, source UpdateSource) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done != nil {
		return errors.New("bot already started")
	}

	ctx, b.cancel = context.WithCancel(ctx)
	b.done = make(chan struct{})
	b.source = source

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := source.GetUpdatesChan(u)

	go b.listen(ctx, updates)

	b.logger.Info("bot started", "update_timeout", b.cfg.UpdateTimeout)
	return nil
}

// Stop stops receiving updates and waits for in-flight commands.
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.done == nil {
		b.mu.Unlock()
		return nil
	}
	b.cancel()
	b.source.StopReceivingUpdates()
	done := b.done
	b.mu.Unlock()

	select {
	case <-done:
		b.logger.Info("bot stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) listen(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer close(b.done)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			select {
			case b.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				defer func() { <-b.sem }()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate processes one update. Non-command messages are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.CommandTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("command panicked", "command", msg.Command(), "panic", fmt.Sprint(r))
		}
	}()

	b.dispatch(ctx, msg)
}

func (b *Bot) reply(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	out.DisableWebPagePreview = true
	if _, err := b.sender.Send(out); err != nil {
		b.logger.Warn("send reply failed", "chat_id", chatID, "error", err)
	}
}
