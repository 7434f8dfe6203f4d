package referral

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/store"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxCodeAttempts bounds retries on code collisions.
const maxCodeAttempts = 5

// GenerateCode returns a random code of uppercase letters and digits.
func GenerateCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// ReferralCode returns the user's code, assigning one on first use.
func (s *Service) ReferralCode(ctx context.Context, userID int64) (string, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user %d: %w", userID, err)
	}
	if user.ReferralCode != "" {
		return user.ReferralCode, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.genCode(s.cfg.CodeLength)
		if err != nil {
			return "", err
		}

		err = s.store.SetReferralCode(ctx, userID, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, store.ErrCodeTaken) {
			return "", fmt.Errorf("assign referral code: %w", err)
		}
		s.logger.Debug("referral code collision", "attempt", attempt+1)
	}

	return "", fmt.Errorf("assign referral code: %d collisions", maxCodeAttempts)
}

// ReferralLink returns the deep link that applies the user's code on /start.
func (s *Service) ReferralLink(ctx context.Context, userID int64) (string, error) {
	if s.cfg.LinkBase == "" {
		return "", errors.New("referral link base not configured")
	}
	code, err := s.ReferralCode(ctx, userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s?start=%s", strings.TrimRight(s.cfg.LinkBase, "/"), code), nil
}

// Rejection is a user-facing reason a referral code was not applied.
type Rejection string

const (
	RejectInvalidCode     Rejection = "invalid_code"
	RejectAlreadyReferred Rejection = "already_referred"
	RejectSelfReferral    Rejection = "self_referral"
	RejectCycle           Rejection = "would_create_cycle"
)

// Outcome is the result of applying a referral code.
type Outcome struct {
	Rejection  Rejection // Empty when accepted
	ReferrerID int64     // Set when accepted
}

// Accepted reports whether the referrer link was created.
func (o Outcome) Accepted() bool {
	return o.Rejection == ""
}

// Rejected reports whether the code was refused.
func (o Outcome) Rejected() bool {
	return o.Rejection != ""
}

// NormalizeCode trims and upper-cases a code typed by a user.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ApplyReferralCode makes the owner of code the referrer of userID and opens
// an empty pending reward on the new edge. Business-rule refusals come back
// as a rejected Outcome with a nil error.
func (s *Service) ApplyReferralCode(ctx context.Context, code string, userID int64) (Outcome, error) {
	code = NormalizeCode(code)

	var out Outcome
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		out, err = s.apply(ctx, tx, code, userID)
		return err
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("apply referral code for user %d: %w", userID, err)
	}

	if out.Rejected() {
		s.metrics.ReferralRejected(string(out.Rejection))
		s.logger.Info("referral code rejected", "user_id", userID, "reason", out.Rejection)
	} else {
		s.logger.Info("referral applied", "user_id", userID, "referrer_id", out.ReferrerID)
	}
	return out, nil
}

func (s *Service) apply(ctx context.Context, tx Store, code string, userID int64) (Outcome, error) {
	if code == "" {
		return Outcome{Rejection: RejectInvalidCode}, nil
	}

	referrer, err := tx.UserByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{Rejection: RejectInvalidCode}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	user, err := tx.UserByID(ctx, userID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load user %d: %w", userID, err)
	}

	if referrer.ID == user.ID {
		return Outcome{Rejection: RejectSelfReferral}, nil
	}
	if user.HasReferrer() {
		return Outcome{Rejection: RejectAlreadyReferred}, nil
	}

	ancestors, err := s.chain(ctx, tx, referrer.ID)
	if err != nil {
		return Outcome{}, err
	}
	for _, id := range ancestors {
		if id == user.ID {
			return Outcome{Rejection: RejectCycle}, nil
		}
	}

	if err := tx.SetReferrer(ctx, user.ID, referrer.ID); err != nil {
		if errors.Is(err, store.ErrAlreadyReferred) {
			return Outcome{Rejection: RejectAlreadyReferred}, nil
		}
		return Outcome{}, err
	}

	if _, err := tx.AddPendingReward(ctx, referrer.ID, user.ID, decimal.Zero); err != nil {
		return Outcome{}, fmt.Errorf("open reward edge: %w", err)
	}

	return Outcome{ReferrerID: referrer.ID}, nil
}
