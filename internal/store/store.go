// Package store persists users, referrer links and referral rewards.
//
// Two implementations share the Store interface: Postgres for production and
// Memory for tests and single-process deployments without a database.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/model"
)

var (
	// ErrNotFound is returned when a user or reward does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyReferred is returned by SetReferrer when the user has a referrer.
	ErrAlreadyReferred = errors.New("user already has a referrer")

	// ErrCodeTaken is returned by SetReferralCode when another user owns the code.
	ErrCodeTaken = errors.New("referral code already taken")

	// ErrInvalidTransition is returned when a reward is not pending.
	ErrInvalidTransition = errors.New("invalid reward status transition")
)

// NewUser carries the profile captured on first contact.
type NewUser struct {
	TelegramID int64
	Username   string
	FirstName  string
	Language   string
}

// Store is the user and referral persistence contract.
type Store interface {
	// EnsureUser returns the user for p.TelegramID, creating it if needed.
	// The bool reports whether the user was created. Profile names are refreshed.
	EnsureUser(ctx context.Context, p NewUser) (model.User, bool, error)
	UserByID(ctx context.Context, id int64) (model.User, error)
	UserByTelegramID(ctx context.Context, telegramID int64) (model.User, error)
	UserByCode(ctx context.Context, code string) (model.User, error)

	// ReferredUsers returns the direct referrals of referrerID ordered by id.
	ReferredUsers(ctx context.Context, referrerID int64) ([]model.User, error)

	// SetReferrer links userID to referrerID once; a second link fails
	// with ErrAlreadyReferred.
	SetReferrer(ctx context.Context, userID, referrerID int64) error
	SetReferralCode(ctx context.Context, userID int64, code string) error
	SetLanguage(ctx context.Context, userID int64, lang string) error

	// PendingReward returns the open reward for an edge, or ErrNotFound.
	PendingReward(ctx context.Context, referrerID, referredID int64) (model.ReferralReward, error)

	// AddPendingReward increments the pending reward for an edge, creating
	// it when absent, and returns the updated record.
	AddPendingReward(ctx context.Context, referrerID, referredID int64, amount decimal.Decimal) (model.ReferralReward, error)

	// SetRewardStatus settles a pending reward as paid or cancelled.
	SetRewardStatus(ctx context.Context, id uuid.UUID, status model.RewardStatus) error
	RewardsByReferrer(ctx context.Context, referrerID int64, status model.RewardStatus) ([]model.ReferralReward, error)

	// Leaderboard ranks users with at least one referral by total credited.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)

	// MarkTradeRewarded records a settled trade. It returns false if the
	// trade was already recorded.
	MarkTradeRewarded(ctx context.Context, tradeID uuid.UUID, userID int64, amount decimal.Decimal) (bool, error)

	// WithTx runs fn against a transactional view of the store. If fn
	// returns an error nothing it did is kept.
	WithTx(ctx context.Context, fn func(Store) error) error
}
