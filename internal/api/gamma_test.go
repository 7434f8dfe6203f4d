package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const searchBody = `{
  "events": [
    {
      "id": "e1",
      "title": "US Election",
      "markets": [
        {"id": "m1", "question": "Will X win?", "slug": "x-win",
         "outcomes": "[\"Yes\",\"No\"]", "outcomePrices": "[\"0.65\",\"0.35\"]",
         "volume": "125000.5", "liquidity": "4000", "endDate": "2026-11-03T00:00:00Z",
         "active": true, "closed": false},
        {"id": "m2", "question": "Old market", "closed": true, "active": false}
      ]
    }
  ],
  "markets": [
    {"id": "m1", "question": "Will X win?"},
    {"id": "m3", "question": "Will Y happen?", "outcomes": "[\"Yes\",\"No\"]",
     "outcomePrices": "[\"0.1\",\"0.9\"]", "volume": "bad", "active": true}
  ]
}`

func TestSearchMarkets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/public-search" {
			t.Errorf("path = %q, want /public-search", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "election" {
			t.Errorf("q = %q, want election", got)
		}
		if got := r.URL.Query().Get("events_status"); got != "active" {
			t.Errorf("events_status = %q, want active", got)
		}
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	markets, err := c.SearchMarkets(context.Background(), SearchMarketsOptions{
		Query:      "election",
		Limit:      10,
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// m1 once (deduplicated), m2 dropped (closed), m3 kept.
	if len(markets) != 2 {
		t.Fatalf("len(markets) = %d, want 2", len(markets))
	}
	if markets[0].ID != "m1" || markets[1].ID != "m3" {
		t.Errorf("ids = [%s %s], want [m1 m3]", markets[0].ID, markets[1].ID)
	}

	m1 := markets[0]
	if len(m1.Outcomes) != 2 || m1.Outcomes[0] != "Yes" {
		t.Errorf("Outcomes = %v, want [Yes No]", m1.Outcomes)
	}
	if len(m1.Prices) != 2 || !m1.Prices[0].Equal(decimal.RequireFromString("0.65")) {
		t.Errorf("Prices = %v, want [0.65 0.35]", m1.Prices)
	}
	if !m1.Volume.Equal(decimal.RequireFromString("125000.5")) {
		t.Errorf("Volume = %s, want 125000.5", m1.Volume)
	}
	wantEnd := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	if !m1.EndDate.Equal(wantEnd) {
		t.Errorf("EndDate = %v, want %v", m1.EndDate, wantEnd)
	}

	if !markets[1].Volume.IsZero() {
		t.Errorf("malformed volume = %s, want 0", markets[1].Volume)
	}
}

func TestSearchMarkets_Limit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	markets, err := c.SearchMarkets(context.Background(), SearchMarketsOptions{Query: "x", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 1 {
		t.Errorf("len(markets) = %d, want 1", len(markets))
	}
}

func TestGammaMarket_ToModel_Malformed(t *testing.T) {
	m := GammaMarket{
		ID:            "m9",
		Outcomes:      "not-json",
		OutcomePrices: "",
		EndDate:       "2026-01-02",
	}

	out := m.ToModel()
	if out.Outcomes != nil {
		t.Errorf("Outcomes = %v, want nil", out.Outcomes)
	}
	if out.Prices != nil {
		t.Errorf("Prices = %v, want nil", out.Prices)
	}
	if out.EndDate.Year() != 2026 || out.EndDate.Day() != 2 {
		t.Errorf("EndDate = %v, want 2026-01-02", out.EndDate)
	}
}
