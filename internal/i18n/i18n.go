// Package i18n holds the bot's UI text in every supported language and
// formats numbers for the reader's locale.
package i18n

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a UI message.
type Key string

// DefaultLanguage is used when a user's language is unknown or unsupported.
const DefaultLanguage = "en"

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.German,
	language.Italian,
	language.Portuguese,
	language.Russian,
	language.Chinese,
	language.Japanese,
	language.Korean,
}

var names = map[string]string{
	"en": "English",
	"es": "Español",
	"fr": "Français",
	"de": "Deutsch",
	"it": "Italiano",
	"pt": "Português",
	"ru": "Русский",
	"zh": "中文",
	"ja": "日本語",
	"ko": "한국어",
}

var matcher = language.NewMatcher(supported)

// Languages returns the supported language codes, English first.
func Languages() []string {
	codes := make([]string, len(supported))
	for i, tag := range supported {
		codes[i] = tag.String()
	}
	return codes
}

// Name returns the native name of a supported language code.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// Match maps a user-supplied or client-reported language code (e.g. "pt-BR")
// to a supported code. ok is false when nothing matched and the default was
// returned.
func Match(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLanguage, false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLanguage, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage, false
	}
	return supported[idx].String(), true
}

// Translator renders catalog messages with locale-aware number formatting.
type Translator struct {
	cat      *catalog.Builder
	printers map[string]*message.Printer
}

// New builds the catalog. Keys missing in a language are filled from English.
func New() (*Translator, error) {
	english := messages[DefaultLanguage]
	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	printers := make(map[string]*message.Printer, len(supported))

	for _, tag := range supported {
		code := tag.String()
		table := messages[code]
		for key, fallback := range english {
			msg, ok := table[key]
			if !ok {
				msg = fallback
			}
			if err := cat.SetString(tag, string(key), msg); err != nil {
				return nil, fmt.Errorf("set %s message %q: %w", code, key, err)
			}
		}
		printers[code] = message.NewPrinter(tag, message.Catalog(cat))
	}

	return &Translator{cat: cat, printers: printers}, nil
}

// Printer returns the printer for a language, matching loosely.
func (t *Translator) Printer(lang string) *message.Printer {
	code, _ := Match(lang)
	return t.printers[code]
}

// T renders key in lang with args.
func (t *Translator) T(lang string, key Key, args ...any) string {
	return t.Printer(lang).Sprintf(string(key), args...)
}

// FormatUSD formats a dollar amount with the language's digit grouping.
// Amounts under one dollar keep four decimals.
func (t *Translator) FormatUSD(lang string, amount decimal.Decimal) string {
	p := t.Printer(lang)
	f := amount.InexactFloat64()
	if amount.Abs().LessThan(decimal.NewFromInt(1)) && !amount.IsZero() {
		return p.Sprintf("$%.4f", f)
	}
	return p.Sprintf("$%.2f", f)
}

// FormatInt formats an integer with the language's digit grouping.
func (t *Translator) FormatInt(lang string, n int64) string {
	return t.Printer(lang).Sprintf("%d", n)
}
