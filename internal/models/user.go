package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User хранит баланс и внешнюю идентичность (Telegram chat ID).
// Баланс — деньги, двузначная точность, в минус не уходит никогда.
type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FullName   string
	Balance    decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
}

type Subscription struct {
	ID         int64
	UserID     int64
	StrategyID int64
	StartDate  time.Time
	EndDate    *time.Time // nil — бессрочный грант
	IsActive   bool
}

// ActiveAt applies the expiry predicate at read time: a subscription whose
// end_date is already in the past counts as inactive even if the hourly sweep
// has not flipped the stored flag yet.
func (s Subscription) ActiveAt(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	return s.EndDate == nil || s.EndDate.After(now)
}

// Subscriber — получатель сигнала, результат выборки activeSubscribers.
type Subscriber struct {
	UserID     int64
	TelegramID int64
}
