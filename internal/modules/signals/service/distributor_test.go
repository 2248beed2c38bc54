package service

import (
	"context"
	"testing"
	"time"

	"signal_bot/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	inserted []models.Signal
	err      error
	order    *[]string
}

func (s *recordingStore) Insert(_ context.Context, sig *models.Signal) error {
	if s.err != nil {
		return s.err
	}
	sig.ID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, *sig)
	*s.order = append(*s.order, "persist")
	return nil
}

type recordingPublisher struct {
	payloads [][]byte
	err      error
	order    *[]string
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	*p.order = append(*p.order, "publish")
	return nil
}

func testSignal() models.Signal {
	return models.Signal{
		StrategyID:   7,
		StrategyName: "RSI BTC 1h",
		Symbol:       "BTC/USDT",
		Side:         models.SideBuy,
		Price:        42000.5,
		Reason:       "RSI (28.00) < 30 (Oversold)",
		Ts:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEmitPersistsBeforePublish(t *testing.T) {
	var order []string
	store := &recordingStore{order: &order}
	pub := &recordingPublisher{order: &order}
	d := NewDistributor(store, pub)

	require.NoError(t, d.Emit(context.Background(), testSignal()))
	assert.Equal(t, []string{"persist", "publish"}, order)

	var payload models.SignalPayload
	require.NoError(t, sonic.Unmarshal(pub.payloads[0], &payload))
	assert.Equal(t, int64(7), payload.StrategyID)
	assert.Equal(t, "BUY", payload.Side)
	assert.Equal(t, "2025-06-01T12:00:00Z", payload.Timestamp)
}

func TestEmitPersistFailureSkipsPublish(t *testing.T) {
	var order []string
	store := &recordingStore{order: &order, err: errors.New("pg down")}
	pub := &recordingPublisher{order: &order}
	d := NewDistributor(store, pub)

	err := d.Emit(context.Background(), testSignal())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPublishFailed)
	assert.Empty(t, pub.payloads)
}

func TestEmitPublishFailureKeepsRecord(t *testing.T) {
	var order []string
	store := &recordingStore{order: &order}
	pub := &recordingPublisher{order: &order, err: errors.New("redis down")}
	d := NewDistributor(store, pub)

	err := d.Emit(context.Background(), testSignal())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailed)
	// запись уже есть — её доедет сверка
	assert.Len(t, store.inserted, 1)
}
