package service

import (
	"context"
	"testing"
	"time"

	"signal_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bearSeries: закрытые свечи с заданными направлениями (true = медвежья)
// плюс незакрытая в хвосте.
func bearSeries(start time.Time, bearish ...bool) []models.Candle {
	out := make([]models.Candle, 0, len(bearish)+1)
	price := 100.0
	for i, b := range bearish {
		open := price
		close := price + 1
		if b {
			close = price - 1
		}
		out = append(out, models.Candle{
			Ts:    start.Add(time.Duration(i) * time.Hour),
			Open:  open,
			Close: close,
		})
		price = close
	}
	out = append(out, models.Candle{
		Ts:    start.Add(time.Duration(len(bearish)) * time.Hour),
		Open:  price,
		Close: price - 50, // in-progress, не участвует
	})
	return out
}

func fiveDownParams() models.StrategyParams {
	return models.StrategyParams{
		Type:      models.StrategyFiveDown,
		Symbol:    "BTC/USDT",
		Timeframe: "1h",
		Venue:     "binance",
		DownCount: 5,
	}
}

func TestFiveDownEmitsOncePerClosedCandle(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	market := &fakeMarket{}
	emitter := &collectEmitter{}
	inst := NewFiveDown(2, "fivedown-test", fiveDownParams(), market, emitter)
	inst.Start()
	ctx := context.Background()

	market.set(bearSeries(start, true, true, true, true, true))
	inst.OnTick(ctx)
	require.Equal(t, 1, emitter.count())
	assert.Equal(t, models.SideSell, emitter.signals[0].Side)

	// тот же набор свечей на следующем тике — та же закрытая свеча, молчим
	inst.OnTick(ctx)
	assert.Equal(t, 1, emitter.count())

	// новая закрытая свеча, опять медвежья — новый сигнал
	market.set(bearSeries(start, true, true, true, true, true, true))
	inst.OnTick(ctx)
	assert.Equal(t, 2, emitter.count())
}

func TestFiveDownNoSignalOnMixedCandles(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	market := &fakeMarket{}
	emitter := &collectEmitter{}
	inst := NewFiveDown(2, "fivedown-test", fiveDownParams(), market, emitter)
	inst.Start()

	market.set(bearSeries(start, true, true, false, true, true))
	inst.OnTick(context.Background())
	assert.Zero(t, emitter.count())
}

func TestFiveDownShortHistoryLeavesStateUntouched(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	market := &fakeMarket{}
	emitter := &collectEmitter{}
	inst := NewFiveDown(2, "fivedown-test", fiveDownParams(), market, emitter)
	inst.Start()
	ctx := context.Background()

	// мало свечей — пропуск без мутации состояния
	market.set(bearSeries(start, true, true, true))
	inst.OnTick(ctx)
	require.Zero(t, emitter.count())

	// полная история с теми же свечами — сигнал всё ещё должен выйти
	market.set(bearSeries(start, true, true, true, true, true))
	inst.OnTick(ctx)
	assert.Equal(t, 1, emitter.count())
}
