package service

import (
	"context"
	"signal_bot/internal/models"

	"github.com/pkg/errors"
)

// ErrVenueUnavailable — venue недоступен. Любой следующий вызов имеет право
// попробовать снова: фоновых реконнектов нет.
var ErrVenueUnavailable = errors.New("venue unavailable")

// ErrUnknownVenue — в конфиге нет такого venue.
var ErrUnknownVenue = errors.New("unknown venue")

// Venue — read-only доступ к одной бирже. Реализация сама сериализует свои
// исходящие вызовы и держит их в пределах лимитов биржи.
type Venue interface {
	Name() string
	// FetchCandles returns candles ordered by timestamp ascending; the last
	// one may still be in progress.
	FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}
