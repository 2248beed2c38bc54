package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

type regime int

const (
	regimeUnknown regime = iota
	regimeNeutral
	regimeOversold
	regimeOverbought
)

// RSI — пороговая стратегия. Ключ дедупликации — дискретный режим
// {oversold, overbought, neutral}: сигнал уходит только при смене режима,
// сам режим запоминается после каждой оценки, была эмиссия или нет.
type RSI struct {
	id     int64
	name   string
	params models.StrategyParams

	data MarketData
	emit Emitter

	running    atomic.Bool
	lastRegime regime
}

func NewRSI(id int64, name string, params models.StrategyParams, data MarketData, emit Emitter) *RSI {
	return &RSI{
		id:     id,
		name:   name,
		params: params,
		data:   data,
		emit:   emit,
	}
}

func (r *RSI) StrategyID() int64 { return r.id }
func (r *RSI) Name() string      { return r.name }

func (r *RSI) Start() {
	r.running.Store(true)
	logger.Info("[%s] started: %s %s @ %s (RSI %d/%v/%v)",
		r.name, r.params.Symbol, r.params.Timeframe, r.params.Venue,
		r.params.RSIPeriod, r.params.RSIOversold, r.params.RSIOverbought)
}

func (r *RSI) Stop() {
	r.running.Store(false)
	logger.Info("[%s] stopped", r.name)
}

// minWindow — столько закрытых свечей нужно для одного значения RSI.
func (r *RSI) minWindow() int { return r.params.RSIPeriod + 1 }

func (r *RSI) OnTick(ctx context.Context) {
	if !r.running.Load() {
		return
	}

	candles, err := r.data.Candles(ctx, r.params.Venue, r.params.Symbol, r.params.Timeframe)
	if err != nil {
		logger.Warn("[%s] candles unavailable, tick skipped: %v", r.name, err)
		return
	}

	// последняя свеча может быть ещё не закрыта — решения только по закрытым
	closed := models.Closed(candles)
	if len(closed) < r.minWindow() {
		logger.Info("[%s] not enough candles: %d < %d, tick skipped", r.name, len(closed), r.minWindow())
		return
	}

	closes := make([]float64, 0, r.minWindow())
	for _, c := range closed[len(closed)-r.minWindow():] {
		closes = append(closes, c.Close)
	}
	value := rsiValue(closes, r.params.RSIPeriod)

	reg := r.classify(value)
	prev := r.lastRegime
	r.lastRegime = reg

	if reg == prev || reg == regimeNeutral {
		return
	}

	lastClose := closed[len(closed)-1].Close
	side := models.SideBuy
	reason := fmt.Sprintf("RSI (%.2f) < %v (Oversold)", value, r.params.RSIOversold)
	if reg == regimeOverbought {
		side = models.SideSell
		reason = fmt.Sprintf("RSI (%.2f) > %v (Overbought)", value, r.params.RSIOverbought)
	}

	sig := models.Signal{
		StrategyID:   r.id,
		StrategyName: r.name,
		Symbol:       r.params.Symbol,
		Side:         side,
		Price:        lastClose,
		Reason:       reason,
		Ts:           time.Now(),
	}
	logger.Info("[%s] signal: %s %s @ %.6f (%s)", r.name, side, sig.Symbol, sig.Price, reason)

	if err := r.emit.Emit(ctx, sig); err != nil {
		logger.Error("[%s] emit failed: %v", r.name, err)
	}
}

func (r *RSI) classify(value float64) regime {
	switch {
	case value < r.params.RSIOversold:
		return regimeOversold
	case value > r.params.RSIOverbought:
		return regimeOverbought
	default:
		return regimeNeutral
	}
}

// rsiValue считает RSI по простым средним gain/loss за period последних
// изменений; closes должен содержать period+1 точек. Нулевой средний убыток
// насыщает индикатор до 100 вместо деления на ноль.
func rsiValue(closes []float64, period int) float64 {
	var gain, loss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss += -change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
