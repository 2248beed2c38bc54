package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"signal_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls int64
	delay time.Duration
}

func (f *countingFetcher) FetchCandles(_ context.Context, _, _, _ string, _ int) ([]models.Candle, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return []models.Candle{{Close: 100}}, nil
}

func TestCacheServesWithinTTL(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, time.Minute, 100)

	_, err := c.Candles(context.Background(), "binance", "BTC/USDT", "1h")
	require.NoError(t, err)
	_, err = c.Candles(context.Background(), "binance", "BTC/USDT", "1h")
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt64(&f.calls))
}

func TestCacheExpiredEntryIsRefetched(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, time.Minute, 100)

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Candles(context.Background(), "binance", "BTC/USDT", "1h")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Candles(context.Background(), "binance", "BTC/USDT", "1h")
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt64(&f.calls))
}

func TestCacheDistinctKeysDoNotShare(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, time.Minute, 100)

	_, _ = c.Candles(context.Background(), "binance", "BTC/USDT", "1h")
	_, _ = c.Candles(context.Background(), "binance", "ETH/USDT", "1h")
	_, _ = c.Candles(context.Background(), "binance", "BTC/USDT", "5m")

	assert.EqualValues(t, 3, atomic.LoadInt64(&f.calls))
}

func TestCacheConcurrentMissesCoalesce(t *testing.T) {
	f := &countingFetcher{delay: 50 * time.Millisecond}
	c := NewCache(f, time.Minute, 100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Candles(context.Background(), "binance", "BTC/USDT", "1h")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt64(&f.calls))
}
