package fanout

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/fanout/service"
	ledger "signal_bot/internal/modules/ledger/service"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("fanout",
		fx.Provide(
			func(rdb *goredis.Client, cfg *config.Config, led *ledger.Ledger, n service.Notifier) *service.Consumer {
				return service.NewConsumer(rdb, cfg.SignalChannel, led, n)
			},
		),

		fx.Invoke(func(lc fx.Lifecycle, c *service.Consumer, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go c.Run(ctx)
					return nil
				},
			})
		}),
	)
}
