package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/api"
	"github.com/polyfocus/polyfocus-bot/internal/i18n"
	"github.com/polyfocus/polyfocus-bot/internal/model"
	"github.com/polyfocus/polyfocus-bot/internal/referral"
	"github.com/polyfocus/polyfocus-bot/internal/store"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return tgbotapi.MessageConfig{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakePrices struct {
	quotes map[string]model.PriceQuote
}

func (f *fakePrices) Symbols() []string { return []string{"ETH", "POL", "SOL"} }

func (f *fakePrices) Cached(symbol string) (model.PriceQuote, bool) {
	q, ok := f.quotes[symbol]
	return q, ok
}

func (f *fakePrices) AllCached() map[string]model.PriceQuote { return f.quotes }

type fakeMarkets struct {
	markets []model.Market
	err     error
	got     api.SearchMarketsOptions
}

func (f *fakeMarkets) SearchMarkets(_ context.Context, opts api.SearchMarketsOptions) ([]model.Market, error) {
	f.got = opts
	return f.markets, f.err
}

type harness struct {
	bot      *Bot
	sender   *fakeSender
	store    *store.Memory
	referral *referral.Service
	prices   *fakePrices
	markets  *fakeMarkets
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	tr, err := i18n.New()
	if err != nil {
		t.Fatalf("i18n.New() error = %v", err)
	}

	st := store.NewMemory()
	cfg := referral.DefaultConfig()
	cfg.LinkBase = "https://t.me/polyfocus_bot"
	svc := referral.NewService(st, cfg, nil)

	h := &harness{
		sender:   &fakeSender{},
		store:    st,
		referral: svc,
		prices:   &fakePrices{quotes: map[string]model.PriceQuote{}},
		markets:  &fakeMarkets{},
	}

	h.bot, err = New(Config{}, h.sender, Deps{
		Users:      st,
		Prices:     h.prices,
		Markets:    h.markets,
		Referrals:  svc,
		Translator: tr,
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return h
}

// command builds an update carrying a bot command from telegram user id.
func command(id int64, text string) tgbotapi.Update {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		length = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: id, UserName: fmt.Sprintf("user%d", id), FirstName: "U", LanguageCode: "en"},
		Chat: &tgbotapi.Chat{ID: id},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: length},
		},
	}}
}

func (h *harness) send(t *testing.T, id int64, text string) string {
	t.Helper()
	before := h.sender.count()
	h.bot.HandleUpdate(context.Background(), command(id, text))
	if h.sender.count() != before+1 {
		t.Fatalf("%s: sent %d replies, want 1", text, h.sender.count()-before)
	}
	reply := h.sender.last()
	if reply.ChatID != id {
		t.Errorf("%s: reply chat = %d, want %d", text, reply.ChatID, id)
	}
	return reply.Text
}

var codePattern = regexp.MustCompile(`start=([A-Z0-9]+)`)

func (h *harness) referralCode(t *testing.T, id int64) string {
	t.Helper()
	text := h.send(t, id, "/referral")
	m := codePattern.FindStringSubmatch(text)
	if m == nil {
		t.Fatalf("/referral reply has no link: %q", text)
	}
	return m[1]
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Config{}, nil, Deps{}, nil); err == nil {
		t.Error("New(nil sender) should fail")
	}
	if _, err := New(Config{}, &fakeSender{}, Deps{}, nil); err == nil {
		t.Error("New(empty deps) should fail")
	}
}

func TestHandleUpdate_IgnoresNonCommands(t *testing.T) {
	h := newHarness(t)

	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 1},
		Text: "hello",
	}})
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{})

	if h.sender.count() != 0 {
		t.Errorf("sent %d replies, want 0", h.sender.count())
	}
}

func TestStartAndHelp(t *testing.T) {
	h := newHarness(t)

	got := h.send(t, 1, "/start")
	if !strings.HasPrefix(got, "Welcome to PolyFocus, @user1!") {
		t.Errorf("/start = %q", got)
	}

	u, err := h.store.UserByTelegramID(context.Background(), 1)
	if err != nil {
		t.Fatalf("user not registered: %v", err)
	}
	if u.Language != "en" {
		t.Errorf("Language = %q, want en", u.Language)
	}

	if got := h.send(t, 1, "/help"); !strings.Contains(got, "/leaderboard") {
		t.Errorf("/help = %q", got)
	}
	if got := h.send(t, 1, "/nope"); got != "Unknown command. Use /help." {
		t.Errorf("/nope = %q", got)
	}
}

func TestStartWithReferralCode(t *testing.T) {
	h := newHarness(t)
	code := h.referralCode(t, 1)

	got := h.send(t, 2, "/start "+strings.ToLower(code))
	if !strings.Contains(got, "You joined through @user1's referral link.") {
		t.Errorf("/start code = %q", got)
	}

	got = h.send(t, 2, "/start "+code)
	if !strings.Contains(got, "You already have a referrer.") {
		t.Errorf("second /start code = %q", got)
	}

	got = h.send(t, 1, "/start "+code)
	if !strings.Contains(got, "You cannot use your own referral code.") {
		t.Errorf("self /start = %q", got)
	}

	got = h.send(t, 3, "/start NOPE")
	if !strings.Contains(got, "That referral code is not valid.") {
		t.Errorf("invalid /start = %q", got)
	}
}

func TestPrices(t *testing.T) {
	h := newHarness(t)

	if got := h.send(t, 1, "/prices"); got != "Prices are not available yet. Try again shortly." {
		t.Errorf("/prices empty = %q", got)
	}

	now := time.Now()
	h.prices.quotes = map[string]model.PriceQuote{
		"ETH": {Symbol: "ETH", PriceUSD: decimal.RequireFromString("3500.5"), ObservedAt: now},
		"SOL": model.DegradedQuote("SOL", now, "timeout"),
		"POL": {Symbol: "POL", PriceUSD: decimal.RequireFromString("0.2134"), ObservedAt: now},
	}

	want := "Live prices:\nETH: $3,500.50\nPOL: $0.2134\nSOL: unavailable"
	if got := h.send(t, 1, "/prices"); got != want {
		t.Errorf("/prices = %q, want %q", got, want)
	}

	tests := []struct {
		text string
		want string
	}{
		{"/price eth", "ETH: $3,500.50"},
		{"/price SOL", "SOL: unavailable"},
		{"/price", "Usage: /price SYMBOL"},
		{"/price BTC", "Unknown symbol BTC. Tracked: ETH, POL, SOL"},
	}
	for _, tt := range tests {
		if got := h.send(t, 1, tt.text); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	if got := h.send(t, 1, "/search"); got != "Usage: /search TEXT" {
		t.Errorf("/search = %q", got)
	}

	h.markets.markets = []model.Market{{
		Question: "Will ETH close above $5k?",
		Outcomes: []string{"Yes", "No"},
		Prices:   []decimal.Decimal{decimal.RequireFromString("0.62"), decimal.RequireFromString("0.38")},
	}}
	want := "Markets matching \"eth 5k\":\n• Will ETH close above $5k?\n  Yes 62% / No 38%"
	if got := h.send(t, 1, "/search eth 5k"); got != want {
		t.Errorf("/search = %q, want %q", got, want)
	}
	if h.markets.got.Query != "eth 5k" || !h.markets.got.ActiveOnly || h.markets.got.Limit != 5 {
		t.Errorf("search options = %+v", h.markets.got)
	}

	h.markets.markets = nil
	if got := h.send(t, 1, "/search zzz"); got != "No markets found for \"zzz\"." {
		t.Errorf("/search none = %q", got)
	}

	h.markets.err = errors.New("boom")
	if got := h.send(t, 1, "/search eth"); got != "Market search is unavailable right now." {
		t.Errorf("/search error = %q", got)
	}
}

func TestReferralTreeAndLeaderboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if got := h.send(t, 1, "/leaderboard"); got != "No referrers yet." {
		t.Errorf("/leaderboard empty = %q", got)
	}

	code := h.referralCode(t, 1)
	h.send(t, 2, "/start "+code)

	if got := h.send(t, 2, "/tree"); got != "You have not referred anyone yet." {
		t.Errorf("/tree empty = %q", got)
	}
	if got := h.send(t, 1, "/tree"); got != "Your referral tree (1 users):\n└ @user2" {
		t.Errorf("/tree = %q", got)
	}

	referred, err := h.store.UserByTelegramID(ctx, 2)
	if err != nil {
		t.Fatalf("UserByTelegramID: %v", err)
	}
	if _, err := h.referral.ProcessTradeReward(ctx, referred.ID, decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("ProcessTradeReward: %v", err)
	}

	got := h.send(t, 1, "/referral")
	if !strings.Contains(got, "Direct referrals: 1\nTotal referrals: 1\nPaid: $0.00\nPending: $100.00") {
		t.Errorf("/referral = %q", got)
	}

	if got := h.send(t, 1, "/leaderboard"); got != "Top referrers:\n1. @user1  $100.00 (1)" {
		t.Errorf("/leaderboard = %q", got)
	}
}

func TestLanguage(t *testing.T) {
	h := newHarness(t)

	got := h.send(t, 1, "/language")
	if !strings.HasPrefix(got, "Usage: /language CODE") || !strings.Contains(got, "ja (日本語)") {
		t.Errorf("/language = %q", got)
	}
	if got := h.send(t, 1, "/language es-MX"); got != "Idioma cambiado a Español." {
		t.Errorf("/language es-MX = %q", got)
	}
	if got := h.send(t, 1, "/prices"); got != "Los precios aún no están disponibles. Inténtalo en breve." {
		t.Errorf("/prices after language change = %q", got)
	}
}

type fakeSource struct {
	ch      chan tgbotapi.Update
	stopped chan struct{}
	once    sync.Once
}

func (f *fakeSource) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.ch
}

func (f *fakeSource) StopReceivingUpdates() {
	f.once.Do(func() { close(f.stopped) })
}

func TestStartStop(t *testing.T) {
	h := newHarness(t)
	src := &fakeSource{ch: make(chan tgbotapi.Update, 1), stopped: make(chan struct{})}

	if err := h.bot.Start(context.Background(), src); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := h.bot.Start(context.Background(), src); err == nil {
		t.Error("second Start() should fail")
	}

	src.ch <- command(1, "/help")

	deadline := time.Now().Add(2 * time.Second)
	for h.sender.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.sender.count() != 1 {
		t.Fatalf("sent %d replies, want 1", h.sender.count())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.bot.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	select {
	case <-src.stopped:
	default:
		t.Error("Stop() did not stop the update source")
	}
}
