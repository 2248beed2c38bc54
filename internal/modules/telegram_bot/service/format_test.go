package service

import (
	"testing"
	"time"

	"signal_bot/internal/models"
	ledger "signal_bot/internal/modules/ledger/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategyCallback(t *testing.T) {
	verb, id, ok := parseStrategyCallback("sub_12")
	require.True(t, ok)
	assert.Equal(t, "sub", verb)
	assert.Equal(t, int64(12), id)

	verb, id, ok = parseStrategyCallback("renew_7")
	require.True(t, ok)
	assert.Equal(t, "renew", verb)
	assert.Equal(t, int64(7), id)

	_, _, ok = parseStrategyCallback("sub_abc")
	assert.False(t, ok)
	_, _, ok = parseStrategyCallback("main_menu")
	assert.False(t, ok)
	_, _, ok = parseStrategyCallback("_5")
	assert.False(t, ok)
}

func TestFormatSubscribeResult(t *testing.T) {
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	got := formatSubscribeResult(ledger.SubscribeResult{
		Status:    ledger.StatusCreated,
		EndDate:   &end,
		Remaining: decimal.NewFromFloat(70.5),
	})
	assert.Contains(t, got, "2025-07-01")
	assert.Contains(t, got, "$70.50")

	got = formatSubscribeResult(ledger.SubscribeResult{
		Status:    ledger.StatusInsufficientBalance,
		Required:  decimal.NewFromInt(30),
		Available: decimal.NewFromFloat(12.25),
	})
	assert.Contains(t, got, "$30.00")
	assert.Contains(t, got, "$12.25")

	got = formatSubscribeResult(ledger.SubscribeResult{Status: ledger.StatusNoSubscription})
	assert.Contains(t, got, "Продлевать нечего")
}

func TestFormatSignalSides(t *testing.T) {
	sig := models.SignalPayload{
		StrategyName: "rsi-btc",
		Symbol:       "BTCUSDT",
		Side:         "BUY",
		Price:        61250.5,
		Reason:       "RSI 28.4 below 30",
		Timestamp:    "2025-06-01T12:00:00Z",
	}

	got := FormatSignal(sig)
	assert.Contains(t, got, "🟢")
	assert.Contains(t, got, "BUY")
	assert.Contains(t, got, "BTCUSDT")
	assert.Contains(t, got, "61250.5")

	sig.Side = "SELL"
	assert.Contains(t, FormatSignal(sig), "🔴")
}

func TestFormatAccountSubscriptions(t *testing.T) {
	user := &models.User{Balance: decimal.NewFromInt(100)}
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	got := formatAccount(user, []ledger.SubscriptionView{
		{StrategyName: "rsi-btc", Subscription: models.Subscription{EndDate: &end}},
		{StrategyName: "fivedown-btc", Subscription: models.Subscription{}},
	})
	assert.Contains(t, got, "$100.00")
	assert.Contains(t, got, "rsi-btc (до 2025-07-01)")
	assert.Contains(t, got, "fivedown-btc (бессрочно)")

	got = formatAccount(user, nil)
	assert.Contains(t, got, "Активных подписок нет")
}
