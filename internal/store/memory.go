package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// Memory is an in-process Store. Transactions copy the state and swap it
// in on success, so a failed WithTx leaves nothing behind.
type Memory struct {
	mu    sync.Mutex
	state *memState
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{state: newMemState(time.Now)}
}

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// InsertUser stores u as-is, bypassing referrer checks. Zero ID is assigned.
// It exists to seed fixtures, including corrupted referrer graphs.
func (m *Memory) InsertUser(u model.User) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.insert(u)
}

func (m *Memory) EnsureUser(ctx context.Context, p NewUser) (model.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.EnsureUser(ctx, p)
}

func (m *Memory) UserByID(ctx context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UserByID(ctx, id)
}

func (m *Memory) UserByTelegramID(ctx context.Context, telegramID int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UserByTelegramID(ctx, telegramID)
}

func (m *Memory) UserByCode(ctx context.Context, code string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UserByCode(ctx, code)
}

func (m *Memory) ReferredUsers(ctx context.Context, referrerID int64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ReferredUsers(ctx, referrerID)
}

func (m *Memory) SetReferrer(ctx context.Context, userID, referrerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SetReferrer(ctx, userID, referrerID)
}

func (m *Memory) SetReferralCode(ctx context.Context, userID int64, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SetReferralCode(ctx, userID, code)
}

func (m *Memory) SetLanguage(ctx context.Context, userID int64, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SetLanguage(ctx, userID, lang)
}

func (m *Memory) PendingReward(ctx context.Context, referrerID, referredID int64) (model.ReferralReward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.PendingReward(ctx, referrerID, referredID)
}

func (m *Memory) AddPendingReward(ctx context.Context, referrerID, referredID int64, amount decimal.Decimal) (model.ReferralReward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.AddPendingReward(ctx, referrerID, referredID, amount)
}

func (m *Memory) SetRewardStatus(ctx context.Context, id uuid.UUID, status model.RewardStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SetRewardStatus(ctx, id, status)
}

func (m *Memory) RewardsByReferrer(ctx context.Context, referrerID int64, status model.RewardStatus) ([]model.ReferralReward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.RewardsByReferrer(ctx, referrerID, status)
}

func (m *Memory) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Leaderboard(ctx, limit)
}

func (m *Memory) MarkTradeRewarded(ctx context.Context, tradeID uuid.UUID, userID int64, amount decimal.Decimal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.MarkTradeRewarded(ctx, tradeID, userID, amount)
}

// WithTx holds the store lock for the duration of fn. fn must use the Store
// it is given, not m.
func (m *Memory) WithTx(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.state.clone()
	if err := fn(tx); err != nil {
		return err
	}
	m.state = tx
	return nil
}

// memState is the unlocked store state. It also serves as the Store
// handed to WithTx callbacks.
type memState struct {
	now        func() time.Time
	nextUserID int64
	users      map[int64]model.User
	byTelegram map[int64]int64
	byCode     map[string]int64
	rewards    map[uuid.UUID]model.ReferralReward
	order      []uuid.UUID // Reward insertion order
	trades     map[uuid.UUID]int64
}

func newMemState(now func() time.Time) *memState {
	return &memState{
		now:        now,
		users:      make(map[int64]model.User),
		byTelegram: make(map[int64]int64),
		byCode:     make(map[string]int64),
		rewards:    make(map[uuid.UUID]model.ReferralReward),
		trades:     make(map[uuid.UUID]int64),
	}
}

func (s *memState) clone() *memState {
	c := newMemState(s.now)
	c.nextUserID = s.nextUserID
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.byTelegram {
		c.byTelegram[k] = v
	}
	for k, v := range s.byCode {
		c.byCode[k] = v
	}
	for k, v := range s.rewards {
		c.rewards[k] = v
	}
	c.order = append([]uuid.UUID(nil), s.order...)
	for k, v := range s.trades {
		c.trades[k] = v
	}
	return c
}

func (s *memState) insert(u model.User) model.User {
	if u.ID == 0 {
		s.nextUserID++
		u.ID = s.nextUserID
	} else if u.ID > s.nextUserID {
		s.nextUserID = u.ID
	}
	if u.Language == "" {
		u.Language = "en"
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = u
	if u.TelegramID != 0 {
		s.byTelegram[u.TelegramID] = u.ID
	}
	if u.ReferralCode != "" {
		s.byCode[u.ReferralCode] = u.ID
	}
	return u
}

func (s *memState) EnsureUser(_ context.Context, p NewUser) (model.User, bool, error) {
	if id, ok := s.byTelegram[p.TelegramID]; ok {
		u := s.users[id]
		u.Username = p.Username
		u.FirstName = p.FirstName
		s.users[id] = u
		return u, false, nil
	}

	u := s.insert(model.User{
		TelegramID: p.TelegramID,
		Username:   p.Username,
		FirstName:  p.FirstName,
		Language:   p.Language,
	})
	return u, true, nil
}

func (s *memState) UserByID(_ context.Context, id int64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, nil
}

func (s *memState) UserByTelegramID(_ context.Context, telegramID int64) (model.User, error) {
	id, ok := s.byTelegram[telegramID]
	if !ok {
		return model.User{}, fmt.Errorf("telegram user %d: %w", telegramID, ErrNotFound)
	}
	return s.users[id], nil
}

func (s *memState) UserByCode(_ context.Context, code string) (model.User, error) {
	id, ok := s.byCode[code]
	if !ok {
		return model.User{}, fmt.Errorf("referral code %q: %w", code, ErrNotFound)
	}
	return s.users[id], nil
}

func (s *memState) ReferredUsers(_ context.Context, referrerID int64) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.ReferrerID != nil && *u.ReferrerID == referrerID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memState) SetReferrer(_ context.Context, userID, referrerID int64) error {
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if _, ok := s.users[referrerID]; !ok {
		return fmt.Errorf("referrer %d: %w", referrerID, ErrNotFound)
	}
	if u.ReferrerID != nil {
		return ErrAlreadyReferred
	}
	if userID == referrerID {
		return fmt.Errorf("user %d cannot refer itself", userID)
	}
	ref := referrerID
	u.ReferrerID = &ref
	s.users[userID] = u
	return nil
}

func (s *memState) SetReferralCode(_ context.Context, userID int64, code string) error {
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if owner, ok := s.byCode[code]; ok && owner != userID {
		return ErrCodeTaken
	}
	if u.ReferralCode != "" {
		delete(s.byCode, u.ReferralCode)
	}
	u.ReferralCode = code
	s.users[userID] = u
	s.byCode[code] = userID
	return nil
}

func (s *memState) SetLanguage(_ context.Context, userID int64, lang string) error {
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	u.Language = lang
	s.users[userID] = u
	return nil
}

func (s *memState) pending(referrerID, referredID int64) (model.ReferralReward, bool) {
	for _, id := range s.order {
		r := s.rewards[id]
		if r.ReferrerID == referrerID && r.ReferredID == referredID && r.Status == model.RewardPending {
			return r, true
		}
	}
	return model.ReferralReward{}, false
}

func (s *memState) PendingReward(_ context.Context, referrerID, referredID int64) (model.ReferralReward, error) {
	r, ok := s.pending(referrerID, referredID)
	if !ok {
		return model.ReferralReward{}, fmt.Errorf("pending reward %d->%d: %w", referrerID, referredID, ErrNotFound)
	}
	return r, nil
}

func (s *memState) AddPendingReward(_ context.Context, referrerID, referredID int64, amount decimal.Decimal) (model.ReferralReward, error) {
	if amount.IsNegative() {
		return model.ReferralReward{}, fmt.Errorf("negative reward amount %s", amount)
	}
	for _, id := range []int64{referrerID, referredID} {
		if _, ok := s.users[id]; !ok {
			return model.ReferralReward{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
	}

	if r, ok := s.pending(referrerID, referredID); ok {
		r.RewardAmount = r.RewardAmount.Add(amount)
		s.rewards[r.ID] = r
		return r, nil
	}

	r := model.ReferralReward{
		ID:           uuid.New(),
		ReferrerID:   referrerID,
		ReferredID:   referredID,
		RewardAmount: amount,
		RewardType:   model.RewardTypeCommission,
		Status:       model.RewardPending,
		CreatedAt:    s.now(),
	}
	s.rewards[r.ID] = r
	s.order = append(s.order, r.ID)
	return r, nil
}

func (s *memState) SetRewardStatus(_ context.Context, id uuid.UUID, status model.RewardStatus) error {
	r, ok := s.rewards[id]
	if !ok {
		return fmt.Errorf("reward %s: %w", id, ErrNotFound)
	}
	if r.Status != model.RewardPending || (status != model.RewardPaid && status != model.RewardCancelled) {
		return fmt.Errorf("reward %s %s -> %s: %w", id, r.Status, status, ErrInvalidTransition)
	}
	r.Status = status
	if status == model.RewardPaid {
		at := s.now()
		r.PaidAt = &at
	}
	s.rewards[id] = r
	return nil
}

func (s *memState) RewardsByReferrer(_ context.Context, referrerID int64, status model.RewardStatus) ([]model.ReferralReward, error) {
	var out []model.ReferralReward
	for _, id := range s.order {
		r := s.rewards[id]
		if r.ReferrerID == referrerID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memState) Leaderboard(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	counts := make(map[int64]int)
	for _, u := range s.users {
		if u.ReferrerID != nil {
			counts[*u.ReferrerID]++
		}
	}

	totals := make(map[int64]decimal.Decimal)
	for _, r := range s.rewards {
		if r.Status != model.RewardCancelled {
			totals[r.ReferrerID] = totals[r.ReferrerID].Add(r.RewardAmount)
		}
	}

	out := make([]model.LeaderboardEntry, 0, len(counts))
	for id, n := range counts {
		out = append(out, model.LeaderboardEntry{
			User:          s.users[id],
			Referrals:     n,
			TotalCredited: totals[id],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalCredited.Cmp(out[j].TotalCredited); c != 0 {
			return c > 0
		}
		if out[i].Referrals != out[j].Referrals {
			return out[i].Referrals > out[j].Referrals
		}
		return out[i].User.ID < out[j].User.ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memState) MarkTradeRewarded(_ context.Context, tradeID uuid.UUID, userID int64, _ decimal.Decimal) (bool, error) {
	if _, ok := s.trades[tradeID]; ok {
		return false, nil
	}
	s.trades[tradeID] = userID
	return true, nil
}

// WithTx on the transactional view works like a savepoint: fn runs on a
// copy that replaces s only when fn succeeds.
func (s *memState) WithTx(_ context.Context, fn func(Store) error) error {
	tx := s.clone()
	if err := fn(tx); err != nil {
		return err
	}
	*s = *tx
	return nil
}
