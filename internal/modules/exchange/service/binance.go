package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// binanceRPS — запас под публичный weight-лимит Binance для klines.
const binanceRPS = 10

type Binance struct {
	apiKey    string
	apiSecret string

	mu      sync.Mutex // сериализует исходящие вызовы
	limiter *rate.Limiter
	client  *binance.Client
	public  bool
}

func NewBinance(apiKey, apiSecret string) *Binance {
	return &Binance{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		limiter:   rate.NewLimiter(rate.Limit(binanceRPS), 1),
	}
}

func (b *Binance) Name() string { return "binance" }

// ensureClient лениво поднимает клиент. С ключами сперва проверяем приватный
// доступ; если он не прошёл — одна повторная попытка в public-режиме
// (это не ошибка, только потеря приватных вызовов).
func (b *Binance) ensureClient(ctx context.Context) error {
	if b.client != nil {
		return nil
	}

	if b.apiKey != "" && b.apiSecret != "" {
		c := binance.NewClient(b.apiKey, b.apiSecret)
		if _, err := c.NewGetAccountService().Do(ctx); err == nil {
			b.client = c
			b.public = false
			logger.Info("binance: connected with credentials")
			return nil
		} else {
			logger.Warn("binance: authenticated connect failed, retrying in public mode: %v", err)
		}
	}

	c := binance.NewClient("", "")
	if err := c.NewPingService().Do(ctx); err != nil {
		// клиент не сохраняем — следующий вызов попробует заново
		return errors.Wrap(ErrVenueUnavailable, err.Error())
	}
	b.client = c
	b.public = true
	logger.Info("binance: connected in public mode")
	return nil
}

func (b *Binance) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureClient(ctx); err != nil {
		return nil, err
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	klines, err := b.client.NewKlinesService().
		Symbol(helper.VenueSymbol(symbol)).
		Interval(helper.NormTF(timeframe)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "binance klines")
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		o, _ := strconv.ParseFloat(k.Open, 64)
		h, _ := strconv.ParseFloat(k.High, 64)
		l, _ := strconv.ParseFloat(k.Low, 64)
		c, _ := strconv.ParseFloat(k.Close, 64)
		v, _ := strconv.ParseFloat(k.Volume, 64)
		candles = append(candles, models.Candle{
			Ts:     time.UnixMilli(k.OpenTime),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}
	return candles, nil
}
