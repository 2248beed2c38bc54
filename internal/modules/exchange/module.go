package exchange

import (
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/exchange/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg *config.Config) *service.Manager {
				return service.NewManager(
					service.NewBinance(cfg.Binance.APIKey, cfg.Binance.APISecret),
				)
			},
		),
	)
}
