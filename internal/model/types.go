package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Prices
// -----------------------------------------------------------------------------

// PriceQuote is a single USD price observation for one symbol.
// A quote whose fetch failed is kept as a degraded quote (zero price, Error set)
// so every requested symbol always has an entry.
type PriceQuote struct {
	Symbol     string          // Short token identifier (e.g., "ETH")
	PriceUSD   decimal.Decimal // Non-negative; zero when degraded
	ObservedAt time.Time       // Time of the fetch attempt
	Error      string          // Failure reason, empty on success
}

// Degraded reports whether the quote represents a failed fetch.
func (q PriceQuote) Degraded() bool {
	return q.Error != ""
}

// DegradedQuote builds a failed quote for symbol.
func DegradedQuote(symbol string, at time.Time, reason string) PriceQuote {
	return PriceQuote{
		Symbol:     symbol,
		PriceUSD:   decimal.Zero,
		ObservedAt: at,
		Error:      reason,
	}
}

// -----------------------------------------------------------------------------
// Users & Referrals
// -----------------------------------------------------------------------------

// User is a bot user. Only the referral-relevant fields are authoritative here;
// the rest is profile data captured from Telegram.
type User struct {
	ID           int64  // Primary key
	TelegramID   int64  // Unique Telegram user id
	Username     string // Telegram @username, may be empty
	FirstName    string
	Language     string // ISO 639-1 code, "en" by default
	ReferralCode string // Unique, empty until first requested
	ReferrerID   *int64 // Who referred this user; nil for roots
	CreatedAt    time.Time
}

// HasReferrer reports whether the user was referred by someone.
func (u User) HasReferrer() bool {
	return u.ReferrerID != nil
}

// RewardStatus is the settlement state of a referral reward.
type RewardStatus string

const (
	RewardPending   RewardStatus = "pending"
	RewardPaid      RewardStatus = "paid"
	RewardCancelled RewardStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s RewardStatus) Valid() bool {
	switch s {
	case RewardPending, RewardPaid, RewardCancelled:
		return true
	}
	return false
}

// RewardTypeCommission is the only reward type the propagator creates.
const RewardTypeCommission = "commission"

// ReferralReward is the running commission credited to ReferrerID for trades
// made by ReferredID. At most one pending record exists per edge; settled
// records are immutable.
type ReferralReward struct {
	ID           uuid.UUID
	ReferrerID   int64
	ReferredID   int64
	RewardAmount decimal.Decimal
	RewardType   string
	Status       RewardStatus
	CreatedAt    time.Time
	PaidAt       *time.Time
}

// DisplayName returns @username, or the first name when there is none.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "user"
}

// LeaderboardEntry ranks a referrer by total commission credited.
type LeaderboardEntry struct {
	User          User
	Referrals     int             // Direct referrals
	TotalCredited decimal.Decimal // Pending plus paid rewards
}

// -----------------------------------------------------------------------------
// Markets
// -----------------------------------------------------------------------------

// Market is a prediction market listing returned by search.
type Market struct {
	ID        string
	Question  string
	Slug      string
	Outcomes  []string          // e.g., ["Yes", "No"]
	Prices    []decimal.Decimal // Parallel to Outcomes, 0..1
	Volume    decimal.Decimal
	Liquidity decimal.Decimal
	EndDate   time.Time // Zero if unknown
	Active    bool
	Closed    bool
}
