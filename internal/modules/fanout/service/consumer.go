package service

import (
	"context"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	goredis "github.com/redis/go-redis/v9"
)

// Notifier доставляет сигнал одному получателю. Реализация живёт в
// telegram_bot, здесь только контракт.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, sig models.SignalPayload) error
}

// SubscriberSource отдаёт активных подписчиков стратегии на момент доставки.
type SubscriberSource interface {
	ActiveSubscribers(ctx context.Context, strategyID int64) ([]models.Subscriber, error)
}

// Consumer читает канал сигналов и разветвляет каждое сообщение по
// подписчикам. Доставка по получателям изолирована: отказ одного чата не
// останавливает остальных, сообщение не перечитывается.
type Consumer struct {
	rdb     *goredis.Client
	channel string
	src     SubscriberSource
	notify  Notifier
}

func NewConsumer(rdb *goredis.Client, channel string, src SubscriberSource, notify Notifier) *Consumer {
	return &Consumer{rdb: rdb, channel: channel, src: src, notify: notify}
}

// Run блокируется до отмены ctx. Переподключение канала прячет go-redis.
func (c *Consumer) Run(ctx context.Context) {
	sub := c.rdb.Subscribe(ctx, c.channel)
	defer func() {
		_ = sub.Close()
	}()

	logger.Info("fanout: subscribed to %s", c.channel)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.handleMessage(ctx, []byte(msg.Payload))
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, raw []byte) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "signal.fanout")
	defer span.Finish()

	var sig models.SignalPayload
	if err := sonic.Unmarshal(raw, &sig); err != nil {
		logger.Error("fanout: skip malformed message: %v", err)
		return
	}
	span.SetTag("strategy_id", sig.StrategyID)

	subs, err := c.src.ActiveSubscribers(ctx, sig.StrategyID)
	if err != nil {
		logger.Error("fanout: subscribers lookup for strategy %d: %v", sig.StrategyID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	delivered := 0
	for _, s := range subs {
		if err := c.notify.Notify(ctx, s.TelegramID, sig); err != nil {
			logger.Error("fanout: deliver to chat %d: %v", s.TelegramID, err)
			continue
		}
		delivered++
	}
	logger.Info("fanout: %s %s delivered to %d/%d subscribers",
		sig.StrategyName, sig.Side, delivered, len(subs))
}
