package referral

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/metrics"
	"github.com/polyfocus/polyfocus-bot/internal/store"
)

// DefaultCommissionRate is the platform commission credited to each ancestor.
var DefaultCommissionRate = decimal.RequireFromString("0.10")

var (
	// ErrNegativeInput is returned for negative trade amounts or rates.
	ErrNegativeInput = errors.New("negative input")

	// ErrReferralCycle matches every *IntegrityError.
	ErrReferralCycle = errors.New("referrer graph integrity violation")
)

// IntegrityError reports a corrupted referrer graph: a user reachable from
// itself, or a chain longer than the configured cap.
type IntegrityError struct {
	UserID int64   // Where the traversal started
	Path   []int64 // Users visited, ending with the offending one
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referral integrity violation from user %d: %s (path %v)", e.UserID, e.Reason, e.Path)
}

// Is makes errors.Is(err, ErrReferralCycle) true.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrReferralCycle
}

// Store is the persistence the service needs.
type Store = store.Store

// Config holds referral program settings.
type Config struct {
	CommissionRate decimal.Decimal // Per ancestor (default: 0.10)
	MaxChainDepth  int             // Chain length treated as corruption (default: 64)
	TreeDepth      int             // Default Tree depth (default: 3)
	LinkBase       string          // e.g. https://t.me/polyfocus_bot
	CodeLength     int             // Referral code length (default: 8)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CommissionRate: DefaultCommissionRate,
		MaxChainDepth:  64,
		TreeDepth:      3,
		CodeLength:     8,
	}
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records credits, rejections and integrity failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCodeGenerator replaces the random referral code generator.
func WithCodeGenerator(gen func(length int) (string, error)) Option {
	return func(s *Service) {
		s.genCode = gen
	}
}

// Service runs referral operations against a Store.
type Service struct {
	store   Store
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	genCode func(length int) (string, error)
}

// NewService creates a new Service. Zero config fields take defaults.
func NewService(st Store, cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultConfig()
	if cfg.CommissionRate.IsZero() {
		cfg.CommissionRate = def.CommissionRate
	}
	if cfg.MaxChainDepth <= 0 {
		cfg.MaxChainDepth = def.MaxChainDepth
	}
	if cfg.TreeDepth <= 0 {
		cfg.TreeDepth = def.TreeDepth
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = def.CodeLength
	}

	s := &Service{
		store:   st,
		cfg:     cfg,
		logger:  logger,
		genCode: GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CommissionRate returns the configured per-ancestor rate.
func (s *Service) CommissionRate() decimal.Decimal {
	return s.cfg.CommissionRate
}

// integrity records and logs an integrity failure before returning it.
func (s *Service) integrity(err *IntegrityError) error {
	s.metrics.IntegrityFailure()
	s.logger.Error("referrer graph integrity violation",
		"user_id", err.UserID,
		"path", err.Path,
		"reason", err.Reason,
	)
	return err
}
