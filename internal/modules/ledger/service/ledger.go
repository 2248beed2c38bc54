package service

import (
	"context"
	"fmt"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Status — ожидаемые бизнес-исходы subscribe/renew. Это не ошибки: они
// возвращаются вызывающему для пользовательского сообщения.
type Status string

const (
	StatusCreated             Status = "created"
	StatusRenewed             Status = "renewed"
	StatusAlreadySubscribed   Status = "exists"
	StatusInsufficientBalance Status = "insufficient_balance"
	StatusNoSubscription      Status = "no_subscription"
)

type SubscribeResult struct {
	Status    Status
	EndDate   *time.Time
	Remaining decimal.Decimal
	Required  decimal.Decimal
	Available decimal.Decimal
}

// SubscriptionView — подписка вместе с именем стратегии, для экрана аккаунта.
type SubscriptionView struct {
	Subscription models.Subscription
	StrategyName string
}

// Ledger — system of record по балансам и подпискам. Каждая мутация — одна
// транзакция, открывающаяся блокировкой строки юзера (FOR UPDATE): проверка
// «уже подписан» и списание живут в одном залоченном скоупе, поэтому двум
// конкурентным запросам не удаётся списать дважды. Лок per-user, не глобальный.
type Ledger struct {
	db   *db.PgTxManager
	term time.Duration
	now  func() time.Time
}

func NewLedger(m *db.PgTxManager, subscriptionDays int) *Ledger {
	return &Ledger{
		db:   m,
		term: time.Duration(subscriptionDays) * 24 * time.Hour,
		now:  time.Now,
	}
}

// renewalEnd anchors the extension at max(now, old end): renewing early keeps
// the remaining time, renewing late does not backdate.
func renewalEnd(now time.Time, oldEnd *time.Time, term time.Duration) time.Time {
	anchor := now
	if oldEnd != nil && oldEnd.After(now) {
		anchor = *oldEnd
	}
	return anchor.Add(term)
}

func (l *Ledger) Subscribe(ctx context.Context, userID, strategyID int64) (res SubscribeResult, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.Subscribe: %w", err)
		}
	}()

	now := l.now()
	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		var balance decimal.Decimal
		if err := tx.QueryRow(ctxTx,
			`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID,
		).Scan(&balance); err != nil {
			return errors.Wrap(err, "lock user")
		}

		var existing int
		if err := tx.QueryRow(ctxTx,
			`SELECT count(1) FROM subscriptions
			 WHERE user_id = $1 AND strategy_id = $2 AND is_active = true
			   AND (end_date IS NULL OR end_date > $3)`,
			userID, strategyID, now,
		).Scan(&existing); err != nil {
			return errors.Wrap(err, "check existing")
		}
		if existing > 0 {
			res = SubscribeResult{Status: StatusAlreadySubscribed}
			return nil
		}

		var price decimal.Decimal
		if err := tx.QueryRow(ctxTx,
			`SELECT price_monthly FROM strategies WHERE id = $1`, strategyID,
		).Scan(&price); err != nil {
			return errors.Wrap(err, "strategy price")
		}

		if balance.LessThan(price) {
			res = SubscribeResult{
				Status:    StatusInsufficientBalance,
				Required:  price,
				Available: balance,
			}
			return nil
		}

		if _, err := tx.Exec(ctxTx,
			`UPDATE users SET balance = balance - $1 WHERE id = $2`, price, userID,
		); err != nil {
			return errors.Wrap(err, "debit balance")
		}

		end := now.Add(l.term)
		if _, err := tx.Exec(ctxTx,
			`INSERT INTO subscriptions (user_id, strategy_id, start_date, end_date, is_active)
			 VALUES ($1, $2, $3, $4, true)`,
			userID, strategyID, now, end,
		); err != nil {
			return errors.Wrap(err, "create subscription")
		}

		res = SubscribeResult{
			Status:    StatusCreated,
			EndDate:   &end,
			Remaining: balance.Sub(price),
		}
		return nil
	})
	return res, err
}

func (l *Ledger) Renew(ctx context.Context, userID, strategyID int64) (res SubscribeResult, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.Renew: %w", err)
		}
	}()

	now := l.now()
	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		var balance decimal.Decimal
		if err := tx.QueryRow(ctxTx,
			`SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID,
		).Scan(&balance); err != nil {
			return errors.Wrap(err, "lock user")
		}

		// подписка любой давности, побеждает самая свежая по id
		var subID int64
		var oldEnd *time.Time
		err := tx.QueryRow(ctxTx,
			`SELECT id, end_date FROM subscriptions
			 WHERE user_id = $1 AND strategy_id = $2
			 ORDER BY id DESC LIMIT 1`,
			userID, strategyID,
		).Scan(&subID, &oldEnd)
		if errors.Is(err, pgx.ErrNoRows) {
			res = SubscribeResult{Status: StatusNoSubscription}
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "find subscription")
		}

		var price decimal.Decimal
		if err := tx.QueryRow(ctxTx,
			`SELECT price_monthly FROM strategies WHERE id = $1`, strategyID,
		).Scan(&price); err != nil {
			return errors.Wrap(err, "strategy price")
		}

		if balance.LessThan(price) {
			res = SubscribeResult{
				Status:    StatusInsufficientBalance,
				Required:  price,
				Available: balance,
			}
			return nil
		}

		if _, err := tx.Exec(ctxTx,
			`UPDATE users SET balance = balance - $1 WHERE id = $2`, price, userID,
		); err != nil {
			return errors.Wrap(err, "debit balance")
		}

		newEnd := renewalEnd(now, oldEnd, l.term)
		if _, err := tx.Exec(ctxTx,
			`UPDATE subscriptions SET end_date = $1, is_active = true WHERE id = $2`,
			newEnd, subID,
		); err != nil {
			return errors.Wrap(err, "extend subscription")
		}

		res = SubscribeResult{
			Status:    StatusRenewed,
			EndDate:   &newEnd,
			Remaining: balance.Sub(price),
		}
		return nil
	})
	return res, err
}

// ActiveSubscribers отдаёт получателей сигналов стратегии. Предикат
// истечения применяется на чтении: строка с end_date в прошлом не вернётся,
// даже если sweep ещё не перевернул is_active. Заодно попутно гасим
// свежепротухшие строки — это оптимизация, не условие корректности.
func (l *Ledger) ActiveSubscribers(ctx context.Context, strategyID int64) (subs []models.Subscriber, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.ActiveSubscribers: %w", err)
		}
	}()

	now := l.now()
	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctxTx,
			`UPDATE subscriptions SET is_active = false
			 WHERE strategy_id = $1 AND is_active = true
			   AND end_date IS NOT NULL AND end_date < $2`,
			strategyID, now,
		); err != nil {
			return errors.Wrap(err, "opportunistic expire")
		}

		rows, err := tx.Query(ctxTx,
			`SELECT u.id, u.telegram_id
			 FROM subscriptions s
			 JOIN users u ON u.id = s.user_id
			 WHERE s.strategy_id = $1 AND s.is_active = true
			   AND (s.end_date IS NULL OR s.end_date > $2)
			   AND u.is_active = true`,
			strategyID, now,
		)
		if err != nil {
			return errors.Wrap(err, "select subscribers")
		}
		defer rows.Close()

		for rows.Next() {
			var s models.Subscriber
			if err := rows.Scan(&s.UserID, &s.TelegramID); err != nil {
				return err
			}
			subs = append(subs, s)
		}
		return rows.Err()
	})
	return subs, err
}

// ExpireSweep — ленивая половина истечения: часовой проход, гасящий
// is_active у протухших строк. Read path от него не зависит.
func (l *Ledger) ExpireSweep(ctx context.Context) (expired int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.ExpireSweep: %w", err)
		}
	}()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctxTx,
			`UPDATE subscriptions SET is_active = false
			 WHERE is_active = true AND end_date IS NOT NULL AND end_date < $1`,
			l.now(),
		)
		if err != nil {
			return err
		}
		expired = tag.RowsAffected()
		return nil
	})
	return expired, err
}
