package redis

import (
	"context"
	"fmt"
	"signal_bot/internal/modules/config"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("redis",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
				client := goredis.NewClient(&goredis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				if err := client.Ping(ctx).Err(); err != nil {
					return nil, fmt.Errorf("failed to ping redis: %w", err)
				}
				return client, nil
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, client *goredis.Client) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return client.Close()
				},
			})
		}),
	)
}
