package marketdata

import (
	"signal_bot/internal/modules/config"
	exchange "signal_bot/internal/modules/exchange/service"
	"signal_bot/internal/modules/marketdata/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			func(cfg *config.Config, mgr *exchange.Manager) *service.Cache {
				return service.NewCache(mgr, cfg.CacheTTL, cfg.CandleLimit)
			},
		),
	)
}
