package service

import (
	"context"
	"sync"
	"time"

	"signal_bot/internal/models"

	"golang.org/x/sync/singleflight"
)

// Fetcher — то, что умеет exchange.Manager.
type Fetcher interface {
	FetchCandles(ctx context.Context, venue, symbol, timeframe string, limit int) ([]models.Candle, error)
}

type entry struct {
	candles   []models.Candle
	fetchedAt time.Time
}

// Cache — короткоживущий кэш свечей, общий для всех инстансов стратегий.
// Конкурентные промахи по одному ключу схлопываются в один поход на биржу,
// чтобы не жечь лимиты venue по числу инстансов.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	limit   int
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	sf      singleflight.Group
}

func NewCache(fetcher Fetcher, ttl time.Duration, limit int) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		limit:   limit,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func cacheKey(venue, symbol, timeframe string) string {
	return venue + ":" + symbol + ":" + timeframe
}

func (c *Cache) fresh(key string) ([]models.Candle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		// протухшее не отдаём никогда
		return nil, false
	}
	return e.candles, true
}

// Candles отдаёт последовательность из кэша либо тянет её через Fetcher.
func (c *Cache) Candles(ctx context.Context, venue, symbol, timeframe string) ([]models.Candle, error) {
	key := cacheKey(venue, symbol, timeframe)
	if candles, ok := c.fresh(key); ok {
		return candles, nil
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// второй участник коалесценции мог уже положить свежую запись
		if candles, ok := c.fresh(key); ok {
			return candles, nil
		}
		candles, err := c.fetcher.FetchCandles(ctx, venue, symbol, timeframe, c.limit)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{candles: candles, fetchedAt: c.now()}
		c.mu.Unlock()
		return candles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Candle), nil
}
