package service

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Publisher публикует сериализованный сигнал в топик брокера.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

type RedisPublisher struct {
	client  *goredis.Client
	channel string
}

func NewRedisPublisher(client *goredis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, payload []byte) error {
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("RedisPublisher.Publish: %w", err)
	}
	return nil
}
