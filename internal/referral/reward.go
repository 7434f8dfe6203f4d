package referral

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculateReward returns amount * rate.
func CalculateReward(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("trade amount %s: %w", amount, ErrNegativeInput)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("commission rate %s: %w", rate, ErrNegativeInput)
	}
	return amount.Mul(rate), nil
}

// TradeReward describes the credits applied for one trade.
type TradeReward struct {
	UserID            int64
	TradeAmount       decimal.Decimal
	RewardPerReferrer decimal.Decimal
	Referrers         []int64 // Credited ancestors, nearest first
	TotalCredited     decimal.Decimal
}

// ProcessTradeReward credits every ancestor of userID with the commission
// on amount. Either the whole chain is credited or nothing is.
func (s *Service) ProcessTradeReward(ctx context.Context, userID int64, amount decimal.Decimal) (TradeReward, error) {
	var result TradeReward
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		result, err = s.credit(ctx, tx, userID, amount)
		return err
	})
	if err != nil {
		return TradeReward{}, fmt.Errorf("process trade reward for user %d: %w", userID, err)
	}

	s.recordCredits(result)
	return result, nil
}

// ProcessSettledTrade is ProcessTradeReward guarded by the trade id: a
// trade seen before is acknowledged with applied false and credits nothing.
func (s *Service) ProcessSettledTrade(ctx context.Context, tradeID uuid.UUID, userID int64, amount decimal.Decimal) (TradeReward, bool, error) {
	var result TradeReward
	var applied bool
	err := s.store.WithTx(ctx, func(tx Store) error {
		if _, err := CalculateReward(amount, s.cfg.CommissionRate); err != nil {
			return err
		}

		first, err := tx.MarkTradeRewarded(ctx, tradeID, userID, amount)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}

		applied = true
		result, err = s.credit(ctx, tx, userID, amount)
		return err
	})
	if err != nil {
		return TradeReward{}, false, fmt.Errorf("process settled trade %s: %w", tradeID, err)
	}

	if !applied {
		s.logger.Info("duplicate trade settlement ignored", "trade_id", tradeID, "user_id", userID)
		return TradeReward{UserID: userID, TradeAmount: amount}, false, nil
	}

	s.recordCredits(result)
	return result, true, nil
}

func (s *Service) credit(ctx context.Context, tx Store, userID int64, amount decimal.Decimal) (TradeReward, error) {
	reward, err := CalculateReward(amount, s.cfg.CommissionRate)
	if err != nil {
		return TradeReward{}, err
	}

	chain, err := s.chain(ctx, tx, userID)
	if err != nil {
		return TradeReward{}, err
	}

	for _, referrerID := range chain {
		if _, err := tx.AddPendingReward(ctx, referrerID, userID, reward); err != nil {
			return TradeReward{}, fmt.Errorf("credit referrer %d: %w", referrerID, err)
		}
	}

	return TradeReward{
		UserID:            userID,
		TradeAmount:       amount,
		RewardPerReferrer: reward,
		Referrers:         chain,
		TotalCredited:     reward.Mul(decimal.NewFromInt(int64(len(chain)))),
	}, nil
}

func (s *Service) recordCredits(r TradeReward) {
	for range r.Referrers {
		s.metrics.RewardCredited(r.RewardPerReferrer)
	}
	s.logger.Info("trade reward processed",
		"user_id", r.UserID,
		"amount", r.TradeAmount.String(),
		"referrers", len(r.Referrers),
		"total", r.TotalCredited.String(),
	)
}
