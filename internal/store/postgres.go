package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a Store backed by PostgreSQL. Amounts cross the wire as
// numeric text so no precision is lost.
type Postgres struct {
	pool   *pgxpool.Pool
	db     querier
	logger *slog.Logger
}

// NewPostgres creates a store on pool.
func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, db: pool, logger: logger}
}

// Ping verifies the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

const userColumns = `u.id, u.telegram_id, u.username, u.first_name, u.language,
	COALESCE(u.referral_code, ''), u.referrer_id, u.created_at`

const rewardColumns = `id, referrer_id, referred_id, reward_amount::text, reward_type,
	status, created_at, paid_at`

func scanUser(row pgx.Row, extra ...any) (model.User, error) {
	var u model.User
	dest := append([]any{
		&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.Language,
		&u.ReferralCode, &u.ReferrerID, &u.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func scanReward(row pgx.Row) (model.ReferralReward, error) {
	var r model.ReferralReward
	var amount, status string
	if err := row.Scan(&r.ID, &r.ReferrerID, &r.ReferredID, &amount, &r.RewardType,
		&status, &r.CreatedAt, &r.PaidAt); err != nil {
		return model.ReferralReward{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return model.ReferralReward{}, fmt.Errorf("parse reward amount %q: %w", amount, err)
	}
	r.RewardAmount = d
	r.Status = model.RewardStatus(status)
	return r, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func (p *Postgres) EnsureUser(ctx context.Context, nu NewUser) (model.User, bool, error) {
	var inserted bool
	u, err := scanUser(p.db.QueryRow(ctx, `
		INSERT INTO users AS u (telegram_id, username, first_name, language)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username, first_name = EXCLUDED.first_name
		RETURNING `+userColumns+`, (xmax = 0)`,
		nu.TelegramID, nu.Username, nu.FirstName, nu.Language,
	), &inserted)
	if err != nil {
		return model.User{}, false, fmt.Errorf("ensure user %d: %w", nu.TelegramID, err)
	}
	return u, inserted, nil
}

func (p *Postgres) UserByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		return model.User{}, notFound(err, "user %d", id)
	}
	return u, nil
}

func (p *Postgres) UserByTelegramID(ctx context.Context, telegramID int64) (model.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.telegram_id = $1`, telegramID))
	if err != nil {
		return model.User{}, notFound(err, "telegram user %d", telegramID)
	}
	return u, nil
}

func (p *Postgres) UserByCode(ctx context.Context, code string) (model.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.referral_code = $1`, code))
	if err != nil {
		return model.User{}, notFound(err, "referral code %q", code)
	}
	return u, nil
}

func (p *Postgres) ReferredUsers(ctx context.Context, referrerID int64) ([]model.User, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.referrer_id = $1 ORDER BY u.id`, referrerID)
	if err != nil {
		return nil, fmt.Errorf("query referred users of %d: %w", referrerID, err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referred user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (p *Postgres) SetReferrer(ctx context.Context, userID, referrerID int64) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE users SET referrer_id = $2 WHERE id = $1 AND referrer_id IS NULL`,
		userID, referrerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("referrer %d: %w", referrerID, ErrNotFound)
		}
		return fmt.Errorf("set referrer of %d: %w", userID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := p.UserByID(ctx, userID); err != nil {
		return err
	}
	return ErrAlreadyReferred
}

func (p *Postgres) SetReferralCode(ctx context.Context, userID int64, code string) error {
	tag, err := p.db.Exec(ctx, `UPDATE users SET referral_code = $2 WHERE id = $1`, userID, code)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCodeTaken
		}
		return fmt.Errorf("set referral code of %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) SetLanguage(ctx context.Context, userID int64, lang string) error {
	tag, err := p.db.Exec(ctx, `UPDATE users SET language = $2 WHERE id = $1`, userID, lang)
	if err != nil {
		return fmt.Errorf("set language of %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) PendingReward(ctx context.Context, referrerID, referredID int64) (model.ReferralReward, error) {
	r, err := scanReward(p.db.QueryRow(ctx, `
		SELECT `+rewardColumns+` FROM referral_rewards
		WHERE referrer_id = $1 AND referred_id = $2 AND status = 'pending'`,
		referrerID, referredID))
	if err != nil {
		return model.ReferralReward{}, notFound(err, "pending reward %d->%d", referrerID, referredID)
	}
	return r, nil
}

func (p *Postgres) AddPendingReward(ctx context.Context, referrerID, referredID int64, amount decimal.Decimal) (model.ReferralReward, error) {
	r, err := scanReward(p.db.QueryRow(ctx, `
		INSERT INTO referral_rewards (id, referrer_id, referred_id, reward_amount, reward_type, status)
		VALUES ($1, $2, $3, $4::numeric, $5, 'pending')
		ON CONFLICT (referrer_id, referred_id) WHERE status = 'pending'
		DO UPDATE SET reward_amount = referral_rewards.reward_amount + EXCLUDED.reward_amount
		RETURNING `+rewardColumns,
		uuid.New(), referrerID, referredID, amount.String(), model.RewardTypeCommission,
	))
	if err != nil {
		return model.ReferralReward{}, fmt.Errorf("add pending reward %d->%d: %w", referrerID, referredID, err)
	}
	return r, nil
}

func (p *Postgres) SetRewardStatus(ctx context.Context, id uuid.UUID, status model.RewardStatus) error {
	if status != model.RewardPaid && status != model.RewardCancelled {
		return fmt.Errorf("reward %s -> %s: %w", id, status, ErrInvalidTransition)
	}

	tag, err := p.db.Exec(ctx, `
		UPDATE referral_rewards
		SET status = $2, paid_at = CASE WHEN $2 = 'paid' THEN now() END
		WHERE id = $1 AND status = 'pending'`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("set reward %s status: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = p.db.QueryRow(ctx, `SELECT status FROM referral_rewards WHERE id = $1`, id).Scan(&current)
	if err != nil {
		return notFound(err, "reward %s", id)
	}
	return fmt.Errorf("reward %s %s -> %s: %w", id, current, status, ErrInvalidTransition)
}

func (p *Postgres) RewardsByReferrer(ctx context.Context, referrerID int64, status model.RewardStatus) ([]model.ReferralReward, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+rewardColumns+` FROM referral_rewards
		WHERE referrer_id = $1 AND status = $2
		ORDER BY created_at, id`,
		referrerID, string(status))
	if err != nil {
		return nil, fmt.Errorf("query rewards of %d: %w", referrerID, err)
	}
	defer rows.Close()

	var out []model.ReferralReward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := p.db.Query(ctx, `
		WITH counts AS (
			SELECT referrer_id, count(*) AS n
			FROM users WHERE referrer_id IS NOT NULL
			GROUP BY referrer_id
		), totals AS (
			SELECT referrer_id, sum(reward_amount) AS total
			FROM referral_rewards WHERE status <> 'cancelled'
			GROUP BY referrer_id
		)
		SELECT `+userColumns+`, c.n, COALESCE(t.total, 0)::text
		FROM counts c
		JOIN users u ON u.id = c.referrer_id
		LEFT JOIN totals t ON t.referrer_id = c.referrer_id
		ORDER BY COALESCE(t.total, 0) DESC, c.n DESC, u.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var total string
		e.User, err = scanUser(rows, &e.Referrals, &total)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		if e.TotalCredited, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkTradeRewarded(ctx context.Context, tradeID uuid.UUID, userID int64, amount decimal.Decimal) (bool, error) {
	tag, err := p.db.Exec(ctx, `
		INSERT INTO rewarded_trades (trade_id, user_id, amount)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (trade_id) DO NOTHING`,
		tradeID, userID, amount.String())
	if err != nil {
		return false, fmt.Errorf("mark trade %s rewarded: %w", tradeID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// WithTx runs fn in a transaction, or in a savepoint when already inside one.
func (p *Postgres) WithTx(ctx context.Context, fn func(Store) error) error {
	return pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		return fn(&Postgres{pool: p.pool, db: tx, logger: p.logger})
	})
}
