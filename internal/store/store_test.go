package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// testStoreContract runs behavior every Store implementation must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("ensure user", func(t *testing.T) {
		s := newStore(t)

		u, created, err := s.EnsureUser(ctx, NewUser{TelegramID: 100, Username: "alice", FirstName: "Alice", Language: "en"})
		if err != nil {
			t.Fatalf("EnsureUser: %v", err)
		}
		if !created {
			t.Error("first EnsureUser should create")
		}

		again, created, err := s.EnsureUser(ctx, NewUser{TelegramID: 100, Username: "alice2", Language: "fr"})
		if err != nil {
			t.Fatalf("EnsureUser: %v", err)
		}
		if created {
			t.Error("second EnsureUser should not create")
		}
		if again.ID != u.ID {
			t.Errorf("ID = %d, want %d", again.ID, u.ID)
		}
		if again.Username != "alice2" {
			t.Errorf("Username = %q, want alice2", again.Username)
		}
		if again.Language != "en" {
			t.Errorf("Language = %q, want en (unchanged)", again.Language)
		}

		byTG, err := s.UserByTelegramID(ctx, 100)
		if err != nil || byTG.ID != u.ID {
			t.Errorf("UserByTelegramID = %+v, %v", byTG, err)
		}

		if _, err := s.UserByID(ctx, 987654); !errors.Is(err, ErrNotFound) {
			t.Errorf("UserByID(missing) err = %v, want ErrNotFound", err)
		}
	})

	t.Run("referrer links", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		b := mustUser(t, s, 2)
		c := mustUser(t, s, 3)

		if err := s.SetReferrer(ctx, b.ID, a.ID); err != nil {
			t.Fatalf("SetReferrer: %v", err)
		}
		if err := s.SetReferrer(ctx, c.ID, a.ID); err != nil {
			t.Fatalf("SetReferrer: %v", err)
		}
		if err := s.SetReferrer(ctx, b.ID, c.ID); !errors.Is(err, ErrAlreadyReferred) {
			t.Errorf("second SetReferrer err = %v, want ErrAlreadyReferred", err)
		}

		got, err := s.UserByID(ctx, b.ID)
		if err != nil {
			t.Fatalf("UserByID: %v", err)
		}
		if got.ReferrerID == nil || *got.ReferrerID != a.ID {
			t.Errorf("ReferrerID = %v, want %d", got.ReferrerID, a.ID)
		}

		refs, err := s.ReferredUsers(ctx, a.ID)
		if err != nil {
			t.Fatalf("ReferredUsers: %v", err)
		}
		if len(refs) != 2 || refs[0].ID != b.ID || refs[1].ID != c.ID {
			t.Errorf("ReferredUsers = %v, want [%d %d]", refs, b.ID, c.ID)
		}
	})

	t.Run("referral codes", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		b := mustUser(t, s, 2)

		if err := s.SetReferralCode(ctx, a.ID, "ABCD1234"); err != nil {
			t.Fatalf("SetReferralCode: %v", err)
		}
		if err := s.SetReferralCode(ctx, b.ID, "ABCD1234"); !errors.Is(err, ErrCodeTaken) {
			t.Errorf("duplicate code err = %v, want ErrCodeTaken", err)
		}

		got, err := s.UserByCode(ctx, "ABCD1234")
		if err != nil || got.ID != a.ID {
			t.Errorf("UserByCode = %+v, %v", got, err)
		}
		if _, err := s.UserByCode(ctx, "NOPE"); !errors.Is(err, ErrNotFound) {
			t.Errorf("UserByCode(missing) err = %v, want ErrNotFound", err)
		}
	})

	t.Run("language", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		if err := s.SetLanguage(ctx, a.ID, "ja"); err != nil {
			t.Fatalf("SetLanguage: %v", err)
		}
		got, _ := s.UserByID(ctx, a.ID)
		if got.Language != "ja" {
			t.Errorf("Language = %q, want ja", got.Language)
		}
	})

	t.Run("pending rewards accumulate", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		b := mustUser(t, s, 2)

		if _, err := s.PendingReward(ctx, a.ID, b.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("PendingReward before credit err = %v, want ErrNotFound", err)
		}

		first, err := s.AddPendingReward(ctx, a.ID, b.ID, decimal.NewFromInt(10))
		if err != nil {
			t.Fatalf("AddPendingReward: %v", err)
		}
		second, err := s.AddPendingReward(ctx, a.ID, b.ID, decimal.RequireFromString("2.5"))
		if err != nil {
			t.Fatalf("AddPendingReward: %v", err)
		}
		if first.ID != second.ID {
			t.Error("second credit created a new record")
		}
		if !second.RewardAmount.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("RewardAmount = %s, want 12.5", second.RewardAmount)
		}
		if second.Status != model.RewardPending || second.RewardType != model.RewardTypeCommission {
			t.Errorf("reward = %+v", second)
		}

		pending, err := s.RewardsByReferrer(ctx, a.ID, model.RewardPending)
		if err != nil {
			t.Fatalf("RewardsByReferrer: %v", err)
		}
		if len(pending) != 1 {
			t.Errorf("pending = %d, want 1", len(pending))
		}
	})

	t.Run("pending rewards keep full precision", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		b := mustUser(t, s, 2)

		// 0.123456789 * 0.10
		amount := decimal.RequireFromString("0.0123456789")
		if _, err := s.AddPendingReward(ctx, a.ID, b.ID, amount); err != nil {
			t.Fatalf("AddPendingReward: %v", err)
		}
		got, err := s.PendingReward(ctx, a.ID, b.ID)
		if err != nil {
			t.Fatalf("PendingReward: %v", err)
		}
		if !got.RewardAmount.Equal(amount) {
			t.Errorf("RewardAmount = %s, want %s", got.RewardAmount, amount)
		}
	})

	t.Run("settled rewards are history", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		b := mustUser(t, s, 2)

		r, _ := s.AddPendingReward(ctx, a.ID, b.ID, decimal.NewFromInt(5))
		if err := s.SetRewardStatus(ctx, r.ID, model.RewardPaid); err != nil {
			t.Fatalf("SetRewardStatus: %v", err)
		}
		if err := s.SetRewardStatus(ctx, r.ID, model.RewardCancelled); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("paid -> cancelled err = %v, want ErrInvalidTransition", err)
		}
		if err := s.SetRewardStatus(ctx, uuid.New(), model.RewardPaid); !errors.Is(err, ErrNotFound) {
			t.Errorf("missing reward err = %v, want ErrNotFound", err)
		}

		next, err := s.AddPendingReward(ctx, a.ID, b.ID, decimal.NewFromInt(3))
		if err != nil {
			t.Fatalf("AddPendingReward: %v", err)
		}
		if next.ID == r.ID {
			t.Error("credit after payout reused the paid record")
		}

		paid, _ := s.RewardsByReferrer(ctx, a.ID, model.RewardPaid)
		if len(paid) != 1 || !paid[0].RewardAmount.Equal(decimal.NewFromInt(5)) || paid[0].PaidAt == nil {
			t.Errorf("paid = %+v", paid)
		}
	})

	t.Run("transaction rollback", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		b := mustUser(t, s, 2)

		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx Store) error {
			if _, err := tx.AddPendingReward(ctx, a.ID, b.ID, decimal.NewFromInt(1)); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("WithTx err = %v, want boom", err)
		}
		if _, err := s.PendingReward(ctx, a.ID, b.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("reward survived rollback: %v", err)
		}

		err = s.WithTx(ctx, func(tx Store) error {
			_, err := tx.AddPendingReward(ctx, a.ID, b.ID, decimal.NewFromInt(1))
			return err
		})
		if err != nil {
			t.Fatalf("WithTx: %v", err)
		}
		if _, err := s.PendingReward(ctx, a.ID, b.ID); err != nil {
			t.Errorf("committed reward missing: %v", err)
		}
	})

	t.Run("leaderboard", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		b := mustUser(t, s, 2)
		c := mustUser(t, s, 3)
		d := mustUser(t, s, 4)

		s.SetReferrer(ctx, b.ID, a.ID)
		s.SetReferrer(ctx, c.ID, b.ID)
		s.SetReferrer(ctx, d.ID, b.ID)
		s.AddPendingReward(ctx, a.ID, b.ID, decimal.NewFromInt(50))
		s.AddPendingReward(ctx, b.ID, c.ID, decimal.NewFromInt(10))
		cancelled, _ := s.AddPendingReward(ctx, b.ID, d.ID, decimal.NewFromInt(100))
		s.SetRewardStatus(ctx, cancelled.ID, model.RewardCancelled)

		board, err := s.Leaderboard(ctx, 10)
		if err != nil {
			t.Fatalf("Leaderboard: %v", err)
		}
		if len(board) != 2 {
			t.Fatalf("len = %d, want 2", len(board))
		}
		if board[0].User.ID != a.ID || !board[0].TotalCredited.Equal(decimal.NewFromInt(50)) {
			t.Errorf("board[0] = %+v, want user %d with 50", board[0], a.ID)
		}
		if board[1].User.ID != b.ID || board[1].Referrals != 2 {
			t.Errorf("board[1] = %+v, want user %d with 2 referrals", board[1], b.ID)
		}

		top, _ := s.Leaderboard(ctx, 1)
		if len(top) != 1 {
			t.Errorf("Leaderboard(1) len = %d, want 1", len(top))
		}
	})

	t.Run("rewarded trades", func(t *testing.T) {
		s := newStore(t)
		a := mustUser(t, s, 1)
		id := uuid.New()

		first, err := s.MarkTradeRewarded(ctx, id, a.ID, decimal.NewFromInt(10))
		if err != nil || !first {
			t.Fatalf("first MarkTradeRewarded = %v, %v", first, err)
		}
		again, err := s.MarkTradeRewarded(ctx, id, a.ID, decimal.NewFromInt(10))
		if err != nil || again {
			t.Errorf("duplicate MarkTradeRewarded = %v, %v, want false", again, err)
		}
	})
}

func mustUser(t *testing.T, s Store, telegramID int64) model.User {
	t.Helper()
	u, _, err := s.EnsureUser(context.Background(), NewUser{TelegramID: telegramID, Language: "en"})
	if err != nil {
		t.Fatalf("EnsureUser(%d): %v", telegramID, err)
	}
	return u
}
