package service

import (
	"context"
	"testing"

	"signal_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVenue struct {
	name    string
	candles []models.Candle
	err     error
	calls   int
}

func (s *stubVenue) Name() string { return s.name }
func (s *stubVenue) FetchCandles(_ context.Context, _, _ string, _ int) ([]models.Candle, error) {
	s.calls++
	return s.candles, s.err
}

func TestManagerRoutesByVenue(t *testing.T) {
	a := &stubVenue{name: "binance", candles: []models.Candle{{Close: 1}}}
	b := &stubVenue{name: "bitget", candles: []models.Candle{{Close: 2}}}
	m := NewManager(a, b)

	got, err := m.FetchCandles(context.Background(), "bitget", "BTC/USDT", "1h", 10)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got[0].Close)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestManagerUnknownVenue(t *testing.T) {
	m := NewManager(&stubVenue{name: "binance"})

	_, err := m.FetchCandles(context.Background(), "kraken", "BTC/USDT", "1h", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVenue)
}

func TestManagerVenueUnavailableIsRetryable(t *testing.T) {
	v := &stubVenue{name: "binance", err: ErrVenueUnavailable}
	m := NewManager(v)

	_, err := m.FetchCandles(context.Background(), "binance", "BTC/USDT", "1h", 10)
	assert.ErrorIs(t, err, ErrVenueUnavailable)

	// следующий вызов должен дойти до venue, а не быть отрезан менеджером
	v.err = nil
	v.candles = []models.Candle{{Close: 3}}
	got, err := m.FetchCandles(context.Background(), "binance", "BTC/USDT", "1h", 10)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got[0].Close)
	assert.Equal(t, 2, v.calls)
}
