package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// FiveDown — паттерновая стратегия: N подряд медвежьих закрытых свечей →
// сигнал в шорт. Ключ дедупликации — timestamp последней закрытой свечи:
// одна и та же свеча второй раз никогда не срабатывает.
type FiveDown struct {
	id     int64
	name   string
	params models.StrategyParams

	data MarketData
	emit Emitter

	running      atomic.Bool
	lastClosedTs time.Time
}

func NewFiveDown(id int64, name string, params models.StrategyParams, data MarketData, emit Emitter) *FiveDown {
	return &FiveDown{
		id:     id,
		name:   name,
		params: params,
		data:   data,
		emit:   emit,
	}
}

func (f *FiveDown) StrategyID() int64 { return f.id }
func (f *FiveDown) Name() string      { return f.name }

func (f *FiveDown) Start() {
	f.running.Store(true)
	logger.Info("[%s] started: %s %s @ %s (%d bearish candles -> short)",
		f.name, f.params.Symbol, f.params.Timeframe, f.params.Venue, f.params.DownCount)
}

func (f *FiveDown) Stop() {
	f.running.Store(false)
	logger.Info("[%s] stopped", f.name)
}

func (f *FiveDown) OnTick(ctx context.Context) {
	if !f.running.Load() {
		return
	}

	candles, err := f.data.Candles(ctx, f.params.Venue, f.params.Symbol, f.params.Timeframe)
	if err != nil {
		logger.Warn("[%s] candles unavailable, tick skipped: %v", f.name, err)
		return
	}

	closed := models.Closed(candles)
	if len(closed) < f.params.DownCount {
		logger.Info("[%s] not enough candles: %d < %d, tick skipped", f.name, len(closed), f.params.DownCount)
		return
	}

	last := closed[len(closed)-1]
	if last.Ts.Equal(f.lastClosedTs) {
		// эта свеча уже оценена
		return
	}
	f.lastClosedTs = last.Ts

	window := closed[len(closed)-f.params.DownCount:]
	for _, c := range window {
		if !c.Bearish() {
			return
		}
	}

	reason := fmt.Sprintf("%d consecutive bearish %s candles confirmed, momentum short",
		f.params.DownCount, f.params.Timeframe)
	sig := models.Signal{
		StrategyID:   f.id,
		StrategyName: f.name,
		Symbol:       f.params.Symbol,
		Side:         models.SideSell,
		Price:        last.Close,
		Reason:       reason,
		Ts:           time.Now(),
	}
	logger.Info("[%s] signal: SELL %s @ %.6f (%s)", f.name, sig.Symbol, sig.Price, reason)

	if err := f.emit.Emit(ctx, sig); err != nil {
		logger.Error("[%s] emit failed: %v", f.name, err)
	}
}
