package signals

import (
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/signals/service"
	"signal_bot/pkg/db"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("signals",
		fx.Provide(
			func(m *db.PgTxManager) service.Store {
				return service.NewPgStore(m)
			},
			func(cfg *config.Config, client *goredis.Client) service.Publisher {
				return service.NewRedisPublisher(client, cfg.SignalChannel)
			},
			service.NewDistributor,
		),
	)
}
