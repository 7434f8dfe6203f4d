// Package server exposes the ops HTTP surface: health, Prometheus metrics,
// the live price stream and trade settlement intake.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/referral"
	"github.com/polyfocus/polyfocus-bot/internal/store"
	"github.com/polyfocus/polyfocus-bot/internal/version"
)

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Freshness reports when prices were last refreshed.
type Freshness interface {
	LastUpdated() time.Time
}

// TradeSettler credits referrers for a settled trade.
type TradeSettler interface {
	ProcessSettledTrade(ctx context.Context, tradeID uuid.UUID, userID int64, amount decimal.Decimal) (referral.TradeReward, bool, error)
}

// Config holds server settings.
type Config struct {
	Port        int
	MetricsPath string
	AuthToken   string        // Guards /ws/prices and /trades/settled when set
	StaleAfter  time.Duration // Prices older than this report degraded
}

// Deps are the components the routes read from. Nil components are
// skipped by /health and leave their routes unregistered.
type Deps struct {
	Store    Pinger
	Prices   Freshness
	Stream   http.Handler
	Trades   TradeSettler
	Gatherer prometheus.Gatherer
}

// Server is the ops HTTP server.
type Server struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger
	now    func() time.Time
	http   *http.Server
}

// New creates a Server.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 5 * time.Minute
	}

	s := &Server{cfg: cfg, deps: deps, logger: logger, now: time.Now}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)

	if s.deps.Gatherer != nil {
		mux.Handle(s.cfg.MetricsPath, promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.deps.Stream != nil {
		mux.Handle("/ws/prices", s.withAuth(s.deps.Stream))
	}
	if s.deps.Trades != nil {
		mux.Handle("/trades/settled", s.withAuth(http.HandlerFunc(s.handleSettledTrade)))
	}
	return mux
}

// ListenAndServe serves until Shutdown. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting ops server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ops server: %w", err)
	}
	return nil
}

// Serve serves on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ops server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AuthToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.cfg.AuthToken {
			writeError(w, http.StatusUnauthorized, errors.New("missing or invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type healthResponse struct {
	Status     string         `json:"status"`
	Version    string         `json:"version"`
	Components map[string]any `json:"components"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := healthResponse{
		Status:     "healthy",
		Version:    version.String(),
		Components: make(map[string]any),
	}

	if s.deps.Store != nil {
		if err := s.deps.Store.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["store"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["store"] = "connected"
		}
	}

	if s.deps.Prices != nil {
		last := s.deps.Prices.LastUpdated()
		prices := map[string]any{"last_updated": nil}
		switch {
		case last.IsZero():
			prices["status"] = "waiting"
		case s.now().Sub(last) > s.cfg.StaleAfter:
			prices["status"] = "stale"
			prices["last_updated"] = last.UTC()
		default:
			prices["status"] = "fresh"
			prices["last_updated"] = last.UTC()
		}
		if prices["status"] != "fresh" && health.Status == "healthy" {
			health.Status = "degraded"
		}
		health.Components["prices"] = prices
	}

	code := http.StatusOK
	if health.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

type settledTradeRequest struct {
	TradeID string          `json:"trade_id"`
	UserID  int64           `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type settledTradeResponse struct {
	TradeID           string  `json:"trade_id"`
	Applied           bool    `json:"applied"`
	Referrers         []int64 `json:"referrers"`
	RewardPerReferrer string  `json:"reward_per_referrer"`
	TotalCredited     string  `json:"total_credited"`
}

func (s *Server) handleSettledTrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req settledTradeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	tradeID, err := uuid.Parse(req.TradeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid trade_id: %w", err))
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("user_id must be positive"))
		return
	}

	result, applied, err := s.deps.Trades.ProcessSettledTrade(r.Context(), tradeID, req.UserID, req.Amount)
	switch {
	case errors.Is(err, referral.ErrNegativeInput):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, referral.ErrReferralCycle):
		s.logger.Error("referral graph integrity violation", "trade_id", tradeID, "user_id", req.UserID, "error", err)
		writeError(w, http.StatusConflict, errors.New("referral graph integrity violation"))
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.logger.Error("settle trade failed", "trade_id", tradeID, "user_id", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("settlement failed"))
		return
	}

	referrers := result.Referrers
	if referrers == nil {
		referrers = []int64{}
	}
	writeJSON(w, http.StatusOK, settledTradeResponse{
		TradeID:           tradeID.String(),
		Applied:           applied,
		Referrers:         referrers,
		RewardPerReferrer: result.RewardPerReferrer.String(),
		TotalCredited:     result.TotalCredited.String(),
	})
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
