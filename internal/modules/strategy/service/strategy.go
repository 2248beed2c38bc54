package service

import (
	"context"

	"signal_bot/internal/models"
)

// MarketData — то, что умеет marketdata.Cache (cache-then-facade).
type MarketData interface {
	Candles(ctx context.Context, venue, symbol, timeframe string) ([]models.Candle, error)
}

// Emitter принимает сигнал на раздачу (персист + публикация).
type Emitter interface {
	Emit(ctx context.Context, sig models.Signal) error
}

// Instance — один живой инстанс стратегии. OnTick дергает раннер строго
// последовательно: тик либо завершился, либо брошен по ctx, и только потом
// следующий.
type Instance interface {
	StrategyID() int64
	Name() string
	Start()
	Stop()
	OnTick(ctx context.Context)
}
