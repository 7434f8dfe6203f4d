package i18n

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"en", "en", true},
		{"es", "es", true},
		{"pt-BR", "pt", true},
		{"de-AT", "de", true},
		{" fr ", "fr", true},
		{"", "en", false},
		{"not a tag!", "en", false},
	}

	for _, tt := range tests {
		got, ok := Match(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Match(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCatalogComplete(t *testing.T) {
	english := messages[DefaultLanguage]
	for _, code := range Languages() {
		table, ok := messages[code]
		if !ok {
			t.Errorf("no messages for %s", code)
			continue
		}
		for key, en := range english {
			msg, ok := table[key]
			if !ok {
				continue
			}
			if strings.Count(msg, "%") != strings.Count(en, "%") {
				t.Errorf("%s %s has different verbs than English: %q", code, key, msg)
			}
		}
	}
	if len(Languages()) != 10 {
		t.Errorf("Languages() = %d, want 10", len(Languages()))
	}
}

func TestTranslator_T(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := tr.T("es", KeyPricesHeader); got != "Precios en vivo:" {
		t.Errorf("T(es) = %q", got)
	}
	if got := tr.T("xx", KeyPricesHeader); got != "Live prices:" {
		t.Errorf("T(xx) = %q, want English fallback", got)
	}
	if got := tr.T("en", KeyLanguageSet, "English"); got != "Language set to English." {
		t.Errorf("T(en, args) = %q", got)
	}
	if got := tr.T("de", KeyTreeHeader, 1234); got != "Dein Empfehlungsbaum (1.234 Nutzer):" {
		t.Errorf("T(de, int) = %q", got)
	}
}

func TestTranslator_Format(t *testing.T) {
	tr, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		lang   string
		amount string
		want   string
	}{
		{"en", "1234.5", "$1,234.50"},
		{"de", "1234.5", "$1.234,50"},
		{"en", "0.2345", "$0.2345"},
		{"en", "0", "$0.00"},
	}
	for _, tt := range tests {
		got := tr.FormatUSD(tt.lang, decimal.RequireFromString(tt.amount))
		if got != tt.want {
			t.Errorf("FormatUSD(%s, %s) = %q, want %q", tt.lang, tt.amount, got, tt.want)
		}
	}

	if got := tr.FormatInt("en", 1000000); got != "1,000,000" {
		t.Errorf("FormatInt = %q", got)
	}
}

func TestName(t *testing.T) {
	if Name("ja") != "日本語" {
		t.Errorf("Name(ja) = %q", Name("ja"))
	}
	if Name("xx") != "xx" {
		t.Errorf("Name(xx) = %q", Name("xx"))
	}
}
