package service

import (
	"context"
	"fmt"

	"signal_bot/internal/models"

	"github.com/jackc/pgx/v5"
)

// RegisterOrUpdateUser — upsert по внешней идентичности (telegram_id).
// Баланс при повторной регистрации не трогаем.
func (l *Ledger) RegisterOrUpdateUser(ctx context.Context, telegramID int64, username, fullName string) (user *models.User, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.RegisterOrUpdateUser: %w", err)
		}
	}()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		u := &models.User{TelegramID: telegramID, Username: username, FullName: fullName}
		err := tx.QueryRow(ctxTx,
			`INSERT INTO users (telegram_id, username, full_name, balance, is_active)
			 VALUES ($1, $2, $3, 0, true)
			 ON CONFLICT (telegram_id)
			 DO UPDATE SET username = EXCLUDED.username, full_name = EXCLUDED.full_name
			 RETURNING id, balance, is_active, created_at`,
			telegramID, username, fullName,
		).Scan(&u.ID, &u.Balance, &u.IsActive, &u.CreatedAt)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	return user, err
}

func (l *Ledger) GetUserByTelegramID(ctx context.Context, telegramID int64) (user *models.User, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.GetUserByTelegramID: %w", err)
		}
	}()

	// одиночный SELECT, транзакция не нужна
	u := &models.User{TelegramID: telegramID}
	err = l.db.Conn().QueryRow(ctx,
		`SELECT id, username, full_name, balance, is_active, created_at
		 FROM users WHERE telegram_id = $1`,
		telegramID,
	).Scan(&u.ID, &u.Username, &u.FullName, &u.Balance, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (l *Ledger) ListActiveStrategies(ctx context.Context) (strategies []models.Strategy, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.ListActiveStrategies: %w", err)
		}
	}()

	rows, err := l.db.Conn().Query(ctx,
		`SELECT id, name, description, price_monthly, config_json, is_active, created_at
		 FROM strategies WHERE is_active = true ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Strategy
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.PriceMonthly,
			&s.ConfigJSON, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, rows.Err()
}

// UserSubscriptions — активные подписки юзера для экрана аккаунта; предикат
// истечения применяется на чтении, как и в ActiveSubscribers.
func (l *Ledger) UserSubscriptions(ctx context.Context, userID int64) (views []SubscriptionView, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Ledger.UserSubscriptions: %w", err)
		}
	}()

	now := l.now()
	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx,
			`SELECT s.id, s.user_id, s.strategy_id, s.start_date, s.end_date, s.is_active, st.name
			 FROM subscriptions s
			 JOIN strategies st ON st.id = s.strategy_id
			 WHERE s.user_id = $1 AND s.is_active = true
			   AND (s.end_date IS NULL OR s.end_date > $2)
			 ORDER BY s.id`,
			userID, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var v SubscriptionView
			if err := rows.Scan(&v.Subscription.ID, &v.Subscription.UserID,
				&v.Subscription.StrategyID, &v.Subscription.StartDate,
				&v.Subscription.EndDate, &v.Subscription.IsActive,
				&v.StrategyName); err != nil {
				return err
			}
			views = append(views, v)
		}
		return rows.Err()
	})
	return views, err
}
