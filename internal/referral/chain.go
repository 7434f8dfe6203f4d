package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/model"
	"github.com/polyfocus/polyfocus-bot/internal/store"
)

// ReferrerChain returns the ancestors of userID, nearest first.
func (s *Service) ReferrerChain(ctx context.Context, userID int64) ([]int64, error) {
	return s.chain(ctx, s.store, userID)
}

func (s *Service) chain(ctx context.Context, st Store, userID int64) ([]int64, error) {
	user, err := st.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	visited := map[int64]bool{userID: true}
	var chain []int64

	for user.ReferrerID != nil {
		next := *user.ReferrerID

		if visited[next] {
			return nil, s.integrity(&IntegrityError{
				UserID: userID,
				Path:   append(chain, next),
				Reason: fmt.Sprintf("user %d revisited", next),
			})
		}
		if len(chain) >= s.cfg.MaxChainDepth {
			return nil, s.integrity(&IntegrityError{
				UserID: userID,
				Path:   append(chain, next),
				Reason: fmt.Sprintf("chain exceeds %d referrers", s.cfg.MaxChainDepth),
			})
		}

		visited[next] = true
		chain = append(chain, next)

		user, err = st.UserByID(ctx, next)
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("referrer missing, chain truncated",
				"user_id", userID,
				"referrer_id", next,
			)
			return chain[:len(chain)-1], nil
		}
		if err != nil {
			return nil, fmt.Errorf("load referrer %d: %w", next, err)
		}
	}

	return chain, nil
}

// Stats summarizes a user's position as a referrer.
type Stats struct {
	DirectReferrals int
	TotalReferrals  int // Whole subtree, each user once
	PaidEarned      decimal.Decimal
	PendingEarned   decimal.Decimal
}

// Stats computes referral counts and reward sums for userID.
func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return Stats{}, fmt.Errorf("load user %d: %w", userID, err)
	}

	direct, err := s.store.ReferredUsers(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("list referrals of %d: %w", userID, err)
	}

	total, err := s.countDescendants(ctx, userID, direct)
	if err != nil {
		return Stats{}, err
	}

	paid, err := s.sumRewards(ctx, userID, model.RewardPaid)
	if err != nil {
		return Stats{}, err
	}
	pending, err := s.sumRewards(ctx, userID, model.RewardPending)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		DirectReferrals: len(direct),
		TotalReferrals:  total,
		PaidEarned:      paid,
		PendingEarned:   pending,
	}, nil
}

// countDescendants walks the subtree breadth first.
func (s *Service) countDescendants(ctx context.Context, root int64, direct []model.User) (int, error) {
	visited := map[int64]bool{root: true}
	queue := direct
	count := 0

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		if visited[u.ID] {
			return 0, s.integrity(&IntegrityError{
				UserID: root,
				Path:   []int64{u.ID},
				Reason: fmt.Sprintf("user %d reached twice below %d", u.ID, root),
			})
		}
		visited[u.ID] = true
		count++

		children, err := s.store.ReferredUsers(ctx, u.ID)
		if err != nil {
			return 0, fmt.Errorf("list referrals of %d: %w", u.ID, err)
		}
		queue = append(queue, children...)
	}

	return count, nil
}

func (s *Service) sumRewards(ctx context.Context, userID int64, status model.RewardStatus) (decimal.Decimal, error) {
	rewards, err := s.store.RewardsByReferrer(ctx, userID, status)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list %s rewards of %d: %w", status, userID, err)
	}
	sum := decimal.Zero
	for _, r := range rewards {
		sum = sum.Add(r.RewardAmount)
	}
	return sum, nil
}
