package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/polyfocus/polyfocus-bot/internal/api"
	"github.com/polyfocus/polyfocus-bot/internal/i18n"
	"github.com/polyfocus/polyfocus-bot/internal/model"
	"github.com/polyfocus/polyfocus-bot/internal/referral"
	"github.com/polyfocus/polyfocus-bot/internal/store"
)

var rejectionKeys = map[referral.Rejection]i18n.Key{
	referral.RejectInvalidCode:     i18n.KeyRejectInvalidCode,
	referral.RejectAlreadyReferred: i18n.KeyRejectAlreadyReferred,
	referral.RejectSelfReferral:    i18n.KeyRejectSelfReferral,
	referral.RejectCycle:           i18n.KeyRejectCycle,
}

// request is one command invocation with its resolved user.
type request struct {
	chatID int64
	user   model.User
	lang   string
	args   string
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	command := strings.ToLower(msg.Command())

	lang := b.cfg.DefaultLanguage
	if code, ok := i18n.Match(msg.From.LanguageCode); ok {
		lang = code
	}

	user, created, err := b.deps.Users.EnsureUser(ctx, store.NewUser{
		TelegramID: msg.From.ID,
		Username:   msg.From.UserName,
		FirstName:  msg.From.FirstName,
		Language:   lang,
	})
	if err != nil {
		b.logger.Error("ensure user failed", "telegram_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, b.deps.Translator.T(lang, i18n.KeyError))
		return
	}
	if created {
		b.logger.Info("user registered", "user_id", user.ID, "telegram_id", user.TelegramID)
	}
	if user.Language != "" {
		lang = user.Language
	}

	req := request{
		chatID: msg.Chat.ID,
		user:   user,
		lang:   lang,
		args:   strings.TrimSpace(msg.CommandArguments()),
	}

	var text string
	switch command {
	case "start":
		text, err = b.cmdStart(ctx, req)
	case "help":
		text = b.t(req, i18n.KeyHelp)
	case "prices":
		text = b.cmdPrices(req)
	case "price":
		text = b.cmdPrice(req)
	case "search":
		text = b.cmdSearch(ctx, req)
	case "referral":
		text, err = b.cmdReferral(ctx, req)
	case "tree":
		text, err = b.cmdTree(ctx, req)
	case "leaderboard":
		text, err = b.cmdLeaderboard(ctx, req)
	case "language":
		text, err = b.cmdLanguage(ctx, req)
	default:
		command = "unknown"
		text = b.t(req, i18n.KeyUnknownCommand)
	}
	b.deps.Metrics.BotCommand(command)

	if err != nil {
		b.logger.Error("command failed", "command", command, "user_id", user.ID, "error", err)
		text = b.t(req, i18n.KeyError)
	}
	b.reply(req.chatID, text)
}

func (b *Bot) t(req request, key i18n.Key, args ...any) string {
	return b.deps.Translator.T(req.lang, key, args...)
}

func (b *Bot) cmdStart(ctx context.Context, req request) (string, error) {
	welcome := b.t(req, i18n.KeyWelcome, req.user.DisplayName())
	if req.args == "" {
		return welcome, nil
	}

	out, err := b.deps.Referrals.ApplyReferralCode(ctx, req.args, req.user.ID)
	if err != nil {
		return "", err
	}
	if out.Rejected() {
		return welcome + "\n\n" + b.t(req, rejectionKeys[out.Rejection]), nil
	}

	referrer, err := b.deps.Users.UserByID(ctx, out.ReferrerID)
	if err != nil {
		return "", fmt.Errorf("load referrer: %w", err)
	}
	return welcome + "\n\n" + b.t(req, i18n.KeyReferralApplied, referrer.DisplayName()), nil
}

func (b *Bot) cmdPrices(req request) string {
	quotes := b.deps.Prices.AllCached()
	if len(quotes) == 0 {
		return b.t(req, i18n.KeyPricesEmpty)
	}

	symbols := make([]string, 0, len(quotes))
	for s := range quotes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	lines := []string{b.t(req, i18n.KeyPricesHeader)}
	for _, s := range symbols {
		lines = append(lines, b.priceLine(req, quotes[s]))
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) cmdPrice(req request) string {
	if req.args == "" {
		return b.t(req, i18n.KeyPriceUsage)
	}
	symbol := strings.ToUpper(strings.Fields(req.args)[0])

	tracked := b.deps.Prices.Symbols()
	known := false
	for _, s := range tracked {
		if s == symbol {
			known = true
			break
		}
	}
	if !known {
		return b.t(req, i18n.KeyUnknownSymbol, symbol, strings.Join(tracked, ", "))
	}

	q, ok := b.deps.Prices.Cached(symbol)
	if !ok {
		return b.t(req, i18n.KeyPricesEmpty)
	}
	return b.priceLine(req, q)
}

func (b *Bot) priceLine(req request, q model.PriceQuote) string {
	if q.Degraded() {
		return b.t(req, i18n.KeyPriceUnavailable, q.Symbol)
	}
	return fmt.Sprintf("%s: %s", q.Symbol, b.deps.Translator.FormatUSD(req.lang, q.PriceUSD))
}

func (b *Bot) cmdSearch(ctx context.Context, req request) string {
	if req.args == "" {
		return b.t(req, i18n.KeySearchUsage)
	}
	if b.deps.Markets == nil {
		return b.t(req, i18n.KeySearchFailed)
	}

	markets, err := b.deps.Markets.SearchMarkets(ctx, api.SearchMarketsOptions{
		Query:      req.args,
		Limit:      b.cfg.SearchLimit,
		ActiveOnly: true,
	})
	if err != nil {
		b.logger.Warn("market search failed", "query", req.args, "error", err)
		return b.t(req, i18n.KeySearchFailed)
	}
	if len(markets) == 0 {
		return b.t(req, i18n.KeySearchNone, req.args)
	}

	lines := []string{b.t(req, i18n.KeySearchHeader, req.args)}
	for _, m := range markets {
		lines = append(lines, "• "+m.Question)
		if odds := formatOdds(m); odds != "" {
			lines = append(lines, "  "+odds)
		}
	}
	return strings.Join(lines, "\n")
}

// formatOdds renders outcome prices as "Yes 62% / No 38%".
func formatOdds(m model.Market) string {
	n := min(len(m.Outcomes), len(m.Prices))
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pct := m.Prices[i].Shift(2).Round(0)
		parts = append(parts, fmt.Sprintf("%s %s%%", m.Outcomes[i], pct.String()))
	}
	return strings.Join(parts, " / ")
}

func (b *Bot) cmdReferral(ctx context.Context, req request) (string, error) {
	link, err := b.deps.Referrals.ReferralLink(ctx, req.user.ID)
	if err != nil {
		return "", err
	}
	stats, err := b.deps.Referrals.Stats(ctx, req.user.ID)
	if err != nil {
		return "", err
	}

	tr := b.deps.Translator
	return b.t(req, i18n.KeyReferralLink, link) + "\n\n" + b.t(req, i18n.KeyReferralStats,
		stats.DirectReferrals,
		stats.TotalReferrals,
		tr.FormatUSD(req.lang, stats.PaidEarned),
		tr.FormatUSD(req.lang, stats.PendingEarned),
	), nil
}

func (b *Bot) cmdTree(ctx context.Context, req request) (string, error) {
	root, err := b.deps.Referrals.Tree(ctx, req.user.ID, b.cfg.TreeDepth)
	if err != nil {
		return "", err
	}
	if len(root.Referrals) == 0 {
		return b.t(req, i18n.KeyTreeEmpty), nil
	}

	lines := []string{b.t(req, i18n.KeyTreeHeader, root.Size()-1)}
	var walk func(n *referral.TreeNode, level int)
	walk = func(n *referral.TreeNode, level int) {
		for _, c := range n.Referrals {
			lines = append(lines, strings.Repeat("  ", level)+"└ "+c.User.DisplayName())
			walk(c, level+1)
		}
	}
	walk(root, 0)
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) cmdLeaderboard(ctx context.Context, req request) (string, error) {
	entries, err := b.deps.Referrals.Leaderboard(ctx, b.cfg.LeaderboardSize)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return b.t(req, i18n.KeyLeaderboardEmpty), nil
	}

	lines := []string{b.t(req, i18n.KeyLeaderboardHeader)}
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s  %s (%d)",
			i+1,
			e.User.DisplayName(),
			b.deps.Translator.FormatUSD(req.lang, e.TotalCredited),
			e.Referrals,
		))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) cmdLanguage(ctx context.Context, req request) (string, error) {
	code, ok := i18n.Match(req.args)
	if req.args == "" || !ok {
		return b.t(req, i18n.KeyLanguageUsage, availableLanguages()), nil
	}

	if err := b.deps.Users.SetLanguage(ctx, req.user.ID, code); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}

	req.lang = code
	return b.t(req, i18n.KeyLanguageSet, i18n.Name(code)), nil
}

func availableLanguages() string {
	codes := i18n.Languages()
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = fmt.Sprintf("%s (%s)", c, i18n.Name(c))
	}
	return strings.Join(parts, ", ")
}
