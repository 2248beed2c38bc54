package service

import (
	"context"
	"testing"

	"signal_bot/internal/models"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubs struct {
	subs []models.Subscriber
	err  error
}

func (f *fakeSubs) ActiveSubscribers(_ context.Context, _ int64) ([]models.Subscriber, error) {
	return f.subs, f.err
}

type recordNotifier struct {
	failFor map[int64]error
	sent    []int64
}

func (n *recordNotifier) Notify(_ context.Context, chatID int64, _ models.SignalPayload) error {
	if err, ok := n.failFor[chatID]; ok {
		return err
	}
	n.sent = append(n.sent, chatID)
	return nil
}

func payloadBytes(t *testing.T) []byte {
	t.Helper()
	raw, err := sonic.Marshal(models.SignalPayload{
		StrategyID:   7,
		StrategyName: "rsi-btc",
		Symbol:       "BTCUSDT",
		Side:         "BUY",
		Price:        61250.5,
		Reason:       "RSI 28.4 below 30",
		Timestamp:    "2025-06-01T12:00:00Z",
	})
	require.NoError(t, err)
	return raw
}

func TestHandleMessageFansOutToAllSubscribers(t *testing.T) {
	src := &fakeSubs{subs: []models.Subscriber{
		{UserID: 1, TelegramID: 101},
		{UserID: 2, TelegramID: 102},
		{UserID: 3, TelegramID: 103},
	}}
	notify := &recordNotifier{}
	c := NewConsumer(nil, "strategy_signals", src, notify)

	c.handleMessage(context.Background(), payloadBytes(t))
	assert.Equal(t, []int64{101, 102, 103}, notify.sent)
}

func TestHandleMessageOneFailureDoesNotStopOthers(t *testing.T) {
	src := &fakeSubs{subs: []models.Subscriber{
		{UserID: 1, TelegramID: 101},
		{UserID: 2, TelegramID: 102},
		{UserID: 3, TelegramID: 103},
	}}
	notify := &recordNotifier{failFor: map[int64]error{102: assert.AnError}}
	c := NewConsumer(nil, "strategy_signals", src, notify)

	c.handleMessage(context.Background(), payloadBytes(t))
	assert.Equal(t, []int64{101, 103}, notify.sent)
}

func TestHandleMessageSkipsMalformedPayload(t *testing.T) {
	src := &fakeSubs{subs: []models.Subscriber{{UserID: 1, TelegramID: 101}}}
	notify := &recordNotifier{}
	c := NewConsumer(nil, "strategy_signals", src, notify)

	c.handleMessage(context.Background(), []byte("{not json"))
	assert.Empty(t, notify.sent)
}

func TestHandleMessageSubscriberLookupFailure(t *testing.T) {
	src := &fakeSubs{err: assert.AnError}
	notify := &recordNotifier{}
	c := NewConsumer(nil, "strategy_signals", src, notify)

	c.handleMessage(context.Background(), payloadBytes(t))
	assert.Empty(t, notify.sent)
}
